package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"schoolsite/internal/domain"
)

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrFileType     = errors.New("file type is not allowed")
	ErrTooManyFiles = errors.New("only one file per request is accepted")
)

// File is a fully received, not yet validated upload.
type File struct {
	OriginalName string
	MimeType     string
	Size         int64
	Folder       string
	Data         []byte
}

// Backend stores validated file bytes and produces the attachment
// reference embedded in the owning record. Implementations must be
// safe for concurrent use.
type Backend interface {
	Save(ctx context.Context, f File) (*domain.Attachment, error)

	// Delete is best-effort: it reports whether the file is gone but
	// never blocks the caller's own flow. Failures are logged inside.
	Delete(ctx context.Context, att *domain.Attachment) bool
}

// Ingestor validates type and size before any backend write happens.
type Ingestor struct {
	backend Backend
	allowed map[string]bool
	maxSize int64
}

func NewIngestor(backend Backend, allowed map[string]bool, maxSize int64) *Ingestor {
	return &Ingestor{backend: backend, allowed: allowed, maxSize: maxSize}
}

// Ingest receives the upload, sniffs its real MIME type from the first
// 512 bytes and hands it to the backend. Rejections happen before any
// storage side effect. A client disconnect mid-read surfaces as a read
// error and nothing is written.
func (ing *Ingestor) Ingest(ctx context.Context, fh *multipart.FileHeader, folder string) (*domain.Attachment, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > ing.maxSize {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	// LimitReader guards against a declared size smaller than the body.
	data, err := io.ReadAll(io.LimitReader(src, ing.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > ing.maxSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("upload aborted: %w", err)
	}

	mimeType := detectMime(data)
	if !ing.allowed[mimeType] {
		return nil, ErrFileType
	}

	return ing.backend.Save(ctx, File{
		OriginalName: fh.Filename,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Folder:       folder,
		Data:         data,
	})
}

// Delete forwards to the backend. Kept on the Ingestor so orchestrators
// never touch the backend directly.
func (ing *Ingestor) Delete(ctx context.Context, att *domain.Attachment) bool {
	if att == nil {
		return true
	}
	return ing.backend.Delete(ctx, att)
}

func detectMime(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)
	return strings.ToLower(strings.Split(mimeType, ";")[0])
}

func extForMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}

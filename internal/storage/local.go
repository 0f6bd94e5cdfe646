package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolsite/internal/domain"
)

// Local writes files under a base directory and references them by
// path relative to that directory.
type Local struct {
	baseDir    string
	staticBase string
}

func NewLocal(baseDir, staticBase string) *Local {
	return &Local{baseDir: baseDir, staticBase: staticBase}
}

func (l *Local) Save(ctx context.Context, f File) (*domain.Attachment, error) {
	absDir := filepath.Join(l.baseDir, f.Folder)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(f.OriginalName)
	if ext == "" {
		ext = extForMime(f.MimeType)
	}
	name := fmt.Sprintf("%s_%d_%s%s",
		sanitizeName(f.OriginalName),
		time.Now().Unix(),
		uuid.New().String()[:8],
		strings.ToLower(ext),
	)

	absPath := filepath.Join(absDir, name)
	if err := os.WriteFile(absPath, f.Data, 0644); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(f.Folder, name))
	return &domain.Attachment{
		FileName:     name,
		OriginalName: f.OriginalName,
		Size:         f.Size,
		MimeType:     f.MimeType,
		Storage:      domain.StorageLocal,
		Path:         relPath,
		URL:          l.staticBase + "/" + relPath,
	}, nil
}

func (l *Local) Delete(_ context.Context, att *domain.Attachment) bool {
	if att == nil || att.Path == "" {
		return true
	}
	absPath := filepath.Join(l.baseDir, filepath.FromSlash(att.Path))
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		log.Printf("storage_delete_failed backend=local path=%s error=%q", att.Path, err)
		return false
	}
	return true
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolsite/internal/domain"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("attachment", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["attachment"][0]
}

func allowedTypes() map[string]bool {
	return map[string]bool{
		"image/jpeg":      true,
		"image/png":       true,
		"image/webp":      true,
		"application/pdf": true,
	}
}

func TestIngest_LocalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ing := NewIngestor(NewLocal(dir, "/static/uploads"), allowedTypes(), 5<<20)

	att, err := ing.Ingest(context.Background(), fileHeader(t, "School Photo.png", pngBytes), "notices")
	require.NoError(t, err)

	assert.Equal(t, domain.StorageLocal, att.Storage)
	assert.Equal(t, "image/png", att.MimeType)
	assert.Equal(t, "School Photo.png", att.OriginalName)
	assert.Equal(t, int64(len(pngBytes)), att.Size)

	// File must exist on disk under the returned relative path.
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(att.Path)))
	assert.NoError(t, err)

	// And be gone after Delete.
	assert.True(t, ing.Delete(context.Background(), att))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(att.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestIngest_RejectsDisallowedType(t *testing.T) {
	dir := t.TempDir()
	ing := NewIngestor(NewLocal(dir, "/static/uploads"), allowedTypes(), 5<<20)

	_, err := ing.Ingest(context.Background(), fileHeader(t, "notes.txt", []byte("plain text, not an image")), "notices")
	assert.ErrorIs(t, err, ErrFileType)

	// Nothing may be written to the backing store on rejection.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestIngest_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	ing := NewIngestor(NewLocal(dir, "/static/uploads"), allowedTypes(), 16)

	_, err := ing.Ingest(context.Background(), fileHeader(t, "big.png", pngBytes), "notices")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestIngest_RejectsEmptyFile(t *testing.T) {
	ing := NewIngestor(NewLocal(t.TempDir(), "/static/uploads"), allowedTypes(), 5<<20)

	_, err := ing.Ingest(context.Background(), fileHeader(t, "empty.png", nil), "notices")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestIngest_SniffsRealMimeType(t *testing.T) {
	// A .png name with text content must be judged by content.
	ing := NewIngestor(NewLocal(t.TempDir(), "/static/uploads"), allowedTypes(), 5<<20)

	_, err := ing.Ingest(context.Background(), fileHeader(t, "fake.png", []byte("definitely not a png")), "gallery")
	assert.ErrorIs(t, err, ErrFileType)
}

func TestLocal_DeleteMissingFileIsTrue(t *testing.T) {
	l := NewLocal(t.TempDir(), "/static/uploads")
	att := &domain.Attachment{Storage: domain.StorageLocal, Path: "notices/gone.png"}
	assert.True(t, l.Delete(context.Background(), att))
}

func TestLocal_SanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	ing := NewIngestor(NewLocal(dir, "/static/uploads"), allowedTypes(), 5<<20)

	att, err := ing.Ingest(context.Background(), fileHeader(t, "../../etc/pass wd#1.png", pngBytes), "gallery")
	require.NoError(t, err)
	assert.NotContains(t, att.Path, "..")
	assert.Regexp(t, `^gallery/[A-Za-z0-9_\-]+_\d+_[0-9a-f]{8}\.png$`, att.Path)
}

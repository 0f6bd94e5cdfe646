package notice

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolsite/internal/storage"
)

func multipartContext(t *testing.T, build func(w *multipart.Writer)) *gin.Context {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	build(w)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/notices", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestSingleFileReturnsTheAttachment(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		fw, err := w.CreateFormFile("attachment", "a.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("x"))
		require.NoError(t, err)
	})

	fh, err := singleFile(c)
	require.NoError(t, err)
	require.NotNil(t, fh)
	assert.Equal(t, "a.png", fh.Filename)
}

func TestSingleFileNoFileIsNil(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("title", "hello"))
	})

	fh, err := singleFile(c)
	require.NoError(t, err)
	assert.Nil(t, fh)
}

func TestSingleFileDuplicateAttachmentField(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		for _, name := range []string{"a.png", "b.png"} {
			fw, err := w.CreateFormFile("attachment", name)
			require.NoError(t, err)
			_, err = fw.Write([]byte("x"))
			require.NoError(t, err)
		}
	})

	fh, err := singleFile(c)
	assert.ErrorIs(t, err, storage.ErrTooManyFiles)
	assert.Nil(t, fh)
}

func TestSingleFileSecondPartUnderAnotherField(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		for _, field := range []string{"attachment", "extra"} {
			fw, err := w.CreateFormFile(field, field+".png")
			require.NoError(t, err)
			_, err = fw.Write([]byte("x"))
			require.NoError(t, err)
		}
	})

	fh, err := singleFile(c)
	assert.ErrorIs(t, err, storage.ErrTooManyFiles)
	assert.Nil(t, fh)
}

func TestSingleFileStrayFieldOnly(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		fw, err := w.CreateFormFile("extra", "b.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("x"))
		require.NoError(t, err)
	})

	fh, err := singleFile(c)
	assert.ErrorIs(t, err, storage.ErrTooManyFiles)
	assert.Nil(t, fh)
}

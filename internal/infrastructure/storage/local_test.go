package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinezone/cinezone/internal/shared/config"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("poster", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["poster"][0]
}

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	s := NewLocalStore(config.UploadConfig{
		Dir:               t.TempDir(),
		PublicPath:        "uploads/",
		MaxSizeMB:         1,
		AllowedExtensions: []string{".png", "jpg", ".jpeg", ".webp"},
	}, logger.NewNop())
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestLocalStore_Save(t *testing.T) {
	s := newStore(t)

	file, err := s.Save("poster", fileHeader(t, "Poster.PNG", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "poster", file.FieldName)
	assert.Equal(t, "Poster.PNG", file.OriginalName)
	assert.Equal(t, "image/png", file.MimeType)
	assert.True(t, strings.HasPrefix(file.Filename, "1700000000000-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".png"))
	assert.Len(t, file.Filename, len("1700000000000-")+8+len(".png"))
	assert.Equal(t, "/uploads/"+file.Filename, file.URL)

	stored, err := os.ReadFile(filepath.Join(s.Dir(), file.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	require.NoError(t, s.Remove(file))
	_, err = os.Stat(filepath.Join(s.Dir(), file.Filename))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove(file))
}

func TestLocalStore_Rejects(t *testing.T) {
	s := newStore(t)

	t.Run("extension", func(t *testing.T) {
		_, err := s.Save("poster", fileHeader(t, "poster.gif", pngHeader))
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("content does not match an image", func(t *testing.T) {
		_, err := s.Save("poster", fileHeader(t, "poster.png", []byte("#!/bin/sh\necho hi\n")))
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2<<20)...)
		_, err := s.Save("poster", fileHeader(t, "poster.png", big))
		assert.True(t, apperrors.IsValidationError(err))
	})
}

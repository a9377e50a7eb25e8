package middleware

import (
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/interfaces/http/handlers/testutil"
	"github.com/cinezone/cinezone/internal/shared/config"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func uploadEngine(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewLocalStore(config.UploadConfig{
		Dir:               dir,
		PublicPath:        "/uploads",
		MaxSizeMB:         1,
		AllowedExtensions: []string{".png", ".jpg", ".jpeg", ".webp"},
	}, logger.NewNop())
	m := NewUploadMiddleware(store, logger.NewNop())

	r := newEngine()
	r.POST("/upload", m.Single("poster"), func(c *gin.Context) {
		f, ok := c.Get(constants.ContextKeyUpload)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"file": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"file": f.(*storage.UploadedFile).URL})
	})
	r.POST("/rejected", m.Single("poster"), func(c *gin.Context) {
		_ = c.Error(errors.NewValidationError("title is required"))
		c.Abort()
	})
	r.POST("/failed", m.Single("poster"), func(c *gin.Context) {
		_ = c.Error(stderrors.New("database is down"))
	})
	return r, dir
}

func TestUpload_StoresFile(t *testing.T) {
	r, dir := uploadEngine(t)

	req := testutil.NewMultipartRequest(http.MethodPost, "/upload", map[string]string{"title": "Alien"}, "poster", "alien.png", pngBytes)
	w := testutil.Perform(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		File string `json:"file"`
	}
	require.NoError(t, testutil.ParseResponse(w, &body))
	assert.Regexp(t, `^/uploads/\d+-[0-9a-f]{8}\.png$`, body.File)

	_, err := os.Stat(filepath.Join(dir, filepath.Base(body.File)))
	assert.NoError(t, err)
}

func TestUpload_WithoutFilePassesThrough(t *testing.T) {
	r, _ := uploadEngine(t)

	w := testutil.Perform(r, testutil.NewMultipartRequest(http.MethodPost, "/upload", map[string]string{"title": "Alien"}, "", "", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"file":null}`, w.Body.String())

	w = testutil.Perform(r, testutil.NewJSONRequest(http.MethodPost, "/upload", map[string]any{"title": "Alien"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"file":null}`, w.Body.String())
}

func TestUpload_RejectsBadContent(t *testing.T) {
	r, dir := uploadEngine(t)

	w := testutil.Perform(r, testutil.NewMultipartRequest(http.MethodPost, "/upload", nil, "poster", "alien.png", []byte("plain text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", parseError(t, w).Type)

	w = testutil.Perform(r, testutil.NewMultipartRequest(http.MethodPost, "/upload", nil, "poster", "alien.gif", pngBytes))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(dir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	r, _ := uploadEngine(t)

	big := make([]byte, 3<<20)
	copy(big, pngBytes)
	w := testutil.Perform(r, testutil.NewMultipartRequest(http.MethodPost, "/upload", nil, "poster", "big.png", big))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_RemovesFileWhenRequestFails(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"validation rejects the request", "/rejected", http.StatusBadRequest},
		{"handler fails", "/failed", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dir := uploadEngine(t)

			req := testutil.NewMultipartRequest(http.MethodPost, tt.path, nil, "poster", "alien.png", pngBytes)
			w := testutil.Perform(r, req)
			assert.Equal(t, tt.status, w.Code)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

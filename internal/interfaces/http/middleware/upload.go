package middleware

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

// formOverhead is the room left for non-file multipart fields.
const formOverhead = 1 << 20

type FileStore interface {
	Save(field string, header *multipart.FileHeader) (*storage.UploadedFile, error)
	Remove(file *storage.UploadedFile) error
	MaxBytes() int64
}

type UploadMiddleware struct {
	store  FileStore
	logger logger.Interface
}

func NewUploadMiddleware(store FileStore, logger logger.Interface) *UploadMiddleware {
	return &UploadMiddleware{store: store, logger: logger}
}

// Single accepts at most one file under field. Requests without that file
// pass through untouched; a stored file is put on the context for the
// dispatcher and removed again when a later handler fails.
func (m *UploadMiddleware) Single(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() != constants.ContentTypeMultipart {
			c.Next()
			return
		}

		if limit := m.store.MaxBytes(); limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)
		}

		header, err := c.FormFile(field)
		if err != nil {
			if stderrors.Is(err, http.ErrMissingFile) {
				c.Next()
				return
			}
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				_ = c.Error(errors.NewValidationError("File is too large"))
			} else {
				_ = c.Error(errors.NewValidationError("Invalid multipart upload", err.Error()))
			}
			c.Abort()
			return
		}

		if files := c.Request.MultipartForm.File[field]; len(files) > 1 {
			_ = c.Error(errors.NewValidationError("Only one file may be uploaded"))
			c.Abort()
			return
		}

		file, err := m.store.Save(field, header)
		if err != nil {
			if !errors.IsAppError(err) {
				m.logger.Errorw("failed to store upload", "error", err, "field", field)
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		m.logger.Infow("file uploaded", "field", field, "filename", file.Filename, "size", file.Size)
		c.Set(constants.ContextKeyUpload, file)
		c.Next()

		if len(c.Errors) > 0 || c.IsAborted() || c.Writer.Status() >= http.StatusBadRequest {
			m.discard(field, file)
		}
	}
}

func (m *UploadMiddleware) discard(field string, file *storage.UploadedFile) {
	if err := m.store.Remove(file); err != nil {
		m.logger.Warnw("failed to remove orphaned upload", "error", err, "field", field, "filename", file.Filename)
		return
	}
	m.logger.Debugw("orphaned upload removed", "field", field, "filename", file.Filename)
}

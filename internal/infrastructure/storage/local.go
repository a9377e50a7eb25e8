// Package storage keeps uploaded images on local disk.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/cinezone/cinezone/internal/shared/config"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

// UploadedFile describes a file accepted and stored for the current request.
type UploadedFile struct {
	FieldName    string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
}

// allowedMIMETypes lists sniffed content types accepted for posters.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// LocalStore writes uploads under a directory served at a public path.
type LocalStore struct {
	dir        string
	publicPath string
	maxBytes   int64
	extensions map[string]bool
	now        func() time.Time
	logger     logger.Interface
}

func NewLocalStore(cfg config.UploadConfig, log logger.Interface) *LocalStore {
	exts := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}
	publicPath := "/" + strings.Trim(cfg.PublicPath, "/")
	return &LocalStore{
		dir:        cfg.Dir,
		publicPath: publicPath,
		maxBytes:   cfg.MaxBytes(),
		extensions: exts,
		now:        time.Now,
		logger:     log.Named("storage"),
	}
}

func (s *LocalStore) Dir() string        { return s.dir }
func (s *LocalStore) PublicPath() string { return s.publicPath }
func (s *LocalStore) MaxBytes() int64    { return s.maxBytes }

// Save validates header and stores it as <unix-ms>-<random><ext>.
func (s *LocalStore) Save(field string, header *multipart.FileHeader) (*UploadedFile, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File is too large (max %d MB)", s.maxBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.extensions[ext] {
		return nil, apperrors.NewValidationError("Unsupported image format")
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	limit := s.maxBytes
	if limit <= 0 {
		limit = header.Size
	}
	content, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > limit {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File is too large (max %d MB)", limit/(1024*1024)))
	}

	detected := mimetype.Detect(content)
	if !allowedMIMETypes[detected.String()] {
		s.logger.Warnw("rejected upload with invalid content type",
			"detected_mime", detected.String(),
			"filename", header.Filename)
		return nil, apperrors.NewValidationError("Unsupported image format")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], ext)
	dst := filepath.Join(s.dir, name)
	if err := writeFile(dst, content); err != nil {
		return nil, err
	}

	s.logger.Debugw("upload stored", "filename", name, "size", len(content))
	return &UploadedFile{
		FieldName:    field,
		OriginalName: header.Filename,
		Filename:     name,
		Path:         dst,
		URL:          path.Join(s.publicPath, name),
		MimeType:     detected.String(),
		Size:         int64(len(content)),
	}, nil
}

// Remove deletes a stored file. Missing files are ignored.
func (s *LocalStore) Remove(file *UploadedFile) error {
	if file == nil || file.Filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(file.Filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

func writeFile(dst string, content []byte) error {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(content)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	return f.Close()
}

package file

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const DefaultMaxUploadSize = 10 << 20

// DefaultAllowedExts are the attachment types accepted for tasks.
var DefaultAllowedExts = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp",
	".pdf", ".txt", ".csv", ".md",
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".zip",
}

type FileService interface {
	// UploadTaskAttachment stores an attachment for taskID. size is the
	// client-declared size and may be zero when unknown.
	UploadTaskAttachment(ctx context.Context, taskID string, file io.Reader, filename string, size int64) (StoredFile, error)

	// DeleteFile removes a stored file; a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error
}

type StoredFile struct {
	Path     string
	URL      string
	FileName string
	Size     int64
	MimeType string
}

type fileServiceImpl struct {
	storage storage.FileStorage
	opts    storage.UploadOptions
}

func NewFileService(fileStorage storage.FileStorage, opts storage.UploadOptions) FileService {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxUploadSize
	}
	if opts.AllowedExts == nil {
		opts.AllowedExts = DefaultAllowedExts
	}
	return &fileServiceImpl{
		storage: fileStorage,
		opts:    opts,
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// UploadTaskAttachment implements FileService.
func (s *fileServiceImpl) UploadTaskAttachment(ctx context.Context, taskID string, file io.Reader, filename string, size int64) (StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.opts.AllowsExt(ext) {
		return StoredFile{}, storage.ErrFileTypeNotAllowed
	}
	if size > s.opts.MaxSize {
		return StoredFile{}, storage.ErrFileTooLarge
	}

	id, err := uuid.NewV7()
	if err != nil {
		return StoredFile{}, fmt.Errorf("generate file name: %w", err)
	}
	key := path.Join("tasks", taskID, id.String()+ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Read one byte past the limit so an oversized body is detectable.
	counter := &countingReader{r: io.LimitReader(file, s.opts.MaxSize+1)}
	stored, err := s.storage.Upload(ctx, counter, key, contentType)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to upload task attachment: %w", err)
	}
	if counter.n > s.opts.MaxSize {
		if delErr := s.storage.Delete(ctx, stored); delErr != nil {
			return StoredFile{}, fmt.Errorf("%w (cleanup failed: %v)", storage.ErrFileTooLarge, delErr)
		}
		return StoredFile{}, storage.ErrFileTooLarge
	}

	return StoredFile{
		Path:     stored,
		URL:      s.storage.URL(stored),
		FileName: filepath.Base(filename),
		Size:     counter.n,
		MimeType: contentType,
	}, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

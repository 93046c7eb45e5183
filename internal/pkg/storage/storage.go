package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath        = errors.New("invalid file path")
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
)

type FileStorage interface {
	// Upload stores file under path and returns the normalized path.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL is the public address of a stored path.
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}

type UploadOptions struct {
	MaxSize     int64
	AllowedExts []string
}

// AllowsExt reports whether ext (with leading dot, lower-case) is permitted.
// An empty list allows everything.
func (o UploadOptions) AllowsExt(ext string) bool {
	if len(o.AllowedExts) == 0 {
		return true
	}
	for _, allowed := range o.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

package file

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts storage.UploadOptions) (FileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://files.test/uploads")
	require.NoError(t, err)
	return NewFileService(local, opts), local
}

func TestUploadTaskAttachment(t *testing.T) {
	svc, local := newTestService(t, storage.UploadOptions{})

	stored, err := svc.UploadTaskAttachment(context.Background(), "task-1", strings.NewReader("%PDF-1.4"), "Brief v2.PDF", 8)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "tasks/task-1/"))
	assert.True(t, strings.HasSuffix(stored.Path, ".pdf"))
	assert.Equal(t, "http://files.test/uploads/"+stored.Path, stored.URL)
	assert.Equal(t, "Brief v2.PDF", stored.FileName)
	assert.Equal(t, int64(8), stored.Size)
	assert.Equal(t, "application/pdf", stored.MimeType)

	ok, err := local.Exists(context.Background(), stored.Path)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.DeleteFile(context.Background(), stored.Path))
	ok, _ = local.Exists(context.Background(), stored.Path)
	assert.False(t, ok)
}

func TestUploadTaskAttachment_RejectsType(t *testing.T) {
	svc, _ := newTestService(t, storage.UploadOptions{})

	_, err := svc.UploadTaskAttachment(context.Background(), "task-1", strings.NewReader("MZ"), "setup.exe", 2)

	assert.ErrorIs(t, err, storage.ErrFileTypeNotAllowed)
}

func TestUploadTaskAttachment_DeclaredSizeTooLarge(t *testing.T) {
	svc, _ := newTestService(t, storage.UploadOptions{MaxSize: 4})

	_, err := svc.UploadTaskAttachment(context.Background(), "task-1", strings.NewReader("hello"), "a.txt", 5)

	assert.ErrorIs(t, err, storage.ErrFileTooLarge)
}

func TestUploadTaskAttachment_BodyTooLargeIsRemoved(t *testing.T) {
	svc, local := newTestService(t, storage.UploadOptions{MaxSize: 4})

	_, err := svc.UploadTaskAttachment(context.Background(), "task-1", strings.NewReader("hello world"), "a.txt", 0)

	assert.ErrorIs(t, err, storage.ErrFileTooLarge)
	entries, _ := filepath.Glob(filepath.Join(local.BasePath(), "tasks", "task-1", "*"))
	assert.Empty(t, entries)
}

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "http://cdn.test/storage/"})
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Save(ctx, "banners/1/a.txt", strings.NewReader("hello"), "text/plain"))

	exists, err := s.Exists(ctx, "banners/1/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := s.GetSize(ctx, "banners/1/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	rc, err := s.Get(ctx, "banners/1/a.txt")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "banners/1/a.txt"))
	exists, err = s.Exists(ctx, "banners/1/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// повторное удаление - не ошибка
	assert.NoError(t, s.Delete(ctx, "banners/1/a.txt"))
}

func TestLocalStorage_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Save(ctx, "default/x/file.bin", strings.NewReader("data"), ""))

	entries, err := os.ReadDir(filepath.Join(s.BasePath(), "default", "x"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file.bin", entries[0].Name())
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	err := s.Save(ctx, "../outside.txt", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = s.Get(ctx, "a/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStorage_GetURL(t *testing.T) {
	s := newLocal(t)

	url, err := s.GetURL(context.Background(), "/notifications/42/pic.png")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/storage/notifications/42/pic.png", url)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	s := newLocal(t)

	_, err := s.Get(context.Background(), "nope/missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

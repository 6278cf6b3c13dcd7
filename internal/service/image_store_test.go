package service

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stay-booking/internal/config"
)

func TestDiskImageStore(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskImageStore(config.StorageConfig{ImageDir: dir, ImageURLBase: "/images/", MaxImageBytes: 16})
	ctx := context.Background()

	url, err := store.Save(ctx, "Photo.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, path.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(ctx, url))
	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, path.Base(url)))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskImageStoreRejects(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskImageStore(config.StorageConfig{ImageDir: dir, ImageURLBase: "/images", MaxImageBytes: 4})
	ctx := context.Background()

	_, err := store.Save(ctx, "script.sh", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrImageUpload)

	_, err = store.Save(ctx, "big.png", strings.NewReader("way too large"))
	assert.ErrorIs(t, err, ErrImageUpload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

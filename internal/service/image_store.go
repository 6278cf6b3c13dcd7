package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/stay-booking/internal/config"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// DiskImageStore writes uploads under a directory with random names and
// hands back the public URL they are served from.
type DiskImageStore struct {
	dir      string
	urlBase  string
	maxBytes int64
}

func NewDiskImageStore(cfg config.StorageConfig) *DiskImageStore {
	return &DiskImageStore{
		dir:      cfg.ImageDir,
		urlBase:  strings.TrimRight(cfg.ImageURLBase, "/"),
		maxBytes: cfg.MaxImageBytes,
	}
}

// Save stores r under a fresh uuid keeping filename's extension.
func (d *DiskImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("%w: %w: file type %q", ErrImageUpload, ErrUnsupportedImage, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	name := uuid.NewString() + ext
	full := filepath.Join(d.dir, name)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	src := r
	if d.maxBytes > 0 {
		src = io.LimitReader(r, d.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && d.maxBytes > 0 && n > d.maxBytes {
		err = fmt.Errorf("%w: exceeds %d bytes", ErrUnsupportedImage, d.maxBytes)
	}
	if err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	return d.urlBase + "/" + name, nil
}

// Delete removes the file behind url.  A missing file is not an error.
func (d *DiskImageStore) Delete(_ context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

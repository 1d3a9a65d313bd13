package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Store persists uploaded note attachments and returns the URL they are
// served from.
type Store interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

// DiskStore writes files into a flat uploads directory served statically
// at /uploads/.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (d *DiskStore) Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	name := objectName(filename)
	f, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return "/uploads/" + name, nil
}

// objectName is `<unix-ms-timestamp>-<original filename>`, with any path
// component stripped from the client-supplied name.
func objectName(filename string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(filename))
}

// Package storage is the upload collaborator: it writes attachment bodies
// to disk and hands back the relative filename recorded in the ledger.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Saver persists uploaded file bodies.
type Saver interface {
	Save(file *multipart.FileHeader) (storedName string, err error)
}

// DiskSaver stores files under a flat directory with generated names so
// uploads never collide and user-supplied names never touch the filesystem.
type DiskSaver struct {
	dir string
}

// NewDiskSaver ensures the upload directory exists.
func NewDiskSaver(dir string) (*DiskSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskSaver{dir: dir}, nil
}

// Save writes one multipart file and returns the stored filename.
func (s *DiskSaver) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return storedName, nil
}

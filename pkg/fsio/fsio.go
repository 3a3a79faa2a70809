// Package fsio is the byte-oriented file access layer used by the object
// store. All filesystem mutation done by the store goes through an FS.
package fsio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// FS reads and writes whole files. Implementations must report missing paths
// with errors that satisfy errors.Is(err, fs.ErrNotExist).
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, createParents bool) error
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string) error
}

// OS is the FS backed by the local filesystem.
type OS struct{}

var _ FS = OS{}

// ReadFile returns the full contents of path.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir lists path sorted by file name.
func (OS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Stat returns file info for path.
func (OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll creates path and any missing parents with mode 0755.
func (OS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile replaces path with data. The bytes land in a temp file next to
// path and are renamed into place, so readers never see a torn file. With
// createParents the parent directory chain is created first.
func (OS) WriteFile(path string, data []byte, createParents bool) (retErr error) {
	dir := filepath.Dir(path)
	if createParents {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if retErr != nil {
			if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
				retErr = multierr.Append(retErr, rmErr)
			}
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return multierr.Append(fmt.Errorf("chmod %s: %w", tmpName, err), tmp.Close())
	}
	if _, err := tmp.Write(data); err != nil {
		return multierr.Append(fmt.Errorf("write %s: %w", path, err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

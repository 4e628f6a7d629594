package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileBlobStore keeps the state blob in a single JSON file. Writes go through
// a temp file and rename so a crash mid-write cannot leave a torn blob.
type FileBlobStore struct {
	path string
}

func NewFileBlobStore(path string) *FileBlobStore {
	return &FileBlobStore{path: path}
}

func (f *FileBlobStore) ReadBlob() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileBlobStore) WriteBlob(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("storage: create data dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: rename temp file: %w", err)
	}
	return nil
}

// Quarantine moves an unreadable state file aside instead of deleting it.
func (f *FileBlobStore) Quarantine() error {
	return os.Rename(f.path, f.path+".corrupt")
}

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore writes the save to a file and keeps the previous one as <path>.bak
type FileStore struct {
	path  string
	codec Codec
}

func NewFileStore(path string, codec Codec) *FileStore {
	return &FileStore{path: path, codec: codec}
}

func (f *FileStore) Path() string       { return f.path }
func (f *FileStore) BackupPath() string { return f.path + ".bak" }

// Save writes atomically: encode to a temp file, rotate the old save to the
// backup, then rename
func (f *FileStore) Save(_ context.Context, s *Snapshot) error {
	data, err := f.codec.Encode(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create save directory: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if _, err := os.Stat(f.path); err == nil {
		if err := os.Rename(f.path, f.BackupPath()); err != nil {
			return fmt.Errorf("failed to rotate backup: %w", err)
		}
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context, base *Snapshot) (*Snapshot, Source, error) {
	return loadWithFallback(f.codec, base, readFile(f.path), readFile(f.BackupPath()))
}

func (f *FileStore) Delete(_ context.Context) error {
	for _, p := range []string{f.path, f.BackupPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
	}
	return nil
}

func readFile(path string) func() ([]byte, error) {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return data, err
	}
}

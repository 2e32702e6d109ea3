package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/abelbrown/dailybugle/internal/news"
)

// File keeps the record as a single JSON document on disk.
type File struct {
	path string
	mu   sync.Mutex
}

// OpenFile returns a File backend at path. The parent directory is created.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &File{path: path}, nil
}

// Load reads the record. A missing file is not an error.
func (f *File) Load() (news.State, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return news.State{}, false, nil
	}
	if err != nil {
		return news.State{}, false, fmt.Errorf("read state file: %w", err)
	}

	state, err := Decode(data)
	if err != nil {
		return news.State{}, true, err
	}
	return state, true, nil
}

// Save writes the record via a temp file and rename.
func (f *File) Save(state news.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".dailybugle-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Clear removes the file.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }

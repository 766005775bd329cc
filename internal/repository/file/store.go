package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository"
)

// Store keeps the state blob as a JSON file inside a directory.
type Store struct {
	path string
}

// NewStore prepares dir for use and returns a store writing <dir>/stockflow_data_v1.json.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, repository.StorageKey+".json")}, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads the blob, returning repository.ErrStateNotFound when the file does not exist.
func (s *Store) Load(ctx context.Context) (*models.AppData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return repository.Decode(blob)
}

// Save replaces the file through a temporary sibling so readers never see a partial blob.
func (s *Store) Save(ctx context.Context, data *models.AppData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	blob, err := repository.Encode(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), repository.StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

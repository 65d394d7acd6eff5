// Package file stores model artifacts in a local directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ModelStore = (*Store)(nil)

// Store keeps one <language>.model.json file per language.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load returns the artifact of a language.
func (s *Store) Load(_ context.Context, language string) ([]byte, error) {
	data, err := os.ReadFile(s.path(language))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return data, nil
}

// Save writes the artifact atomically through a temp file.
func (s *Store) Save(_ context.Context, language string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, language+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp model: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing model: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(language)); err != nil {
		return fmt.Errorf("replacing model: %w", err)
	}
	return nil
}

func (s *Store) path(language string) string {
	return filepath.Join(s.dir, language+".model.json")
}

package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "github.com/scad-tools/flatscad/internal/model"
)

// OutputStore persists merged output files.
type OutputStore interface {
	// Save writes the merged content for root under the output directory,
	// creating the directory if needed, and returns the written path. The
	// output file keeps the root file's base name.
	Save(dir m.Path, root m.Path, content []byte) (m.Path, error)
}

type outputStore struct{}

// NewOutputStore constructs an OutputStore backed by the local filesystem.
func NewOutputStore() OutputStore {
	return &outputStore{}
}

func (s *outputStore) Save(dir m.Path, root m.Path, content []byte) (m.Path, error) {
	if dir == "" {
		return "", fmt.Errorf("output directory not set")
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("cannot create output directory %s: %w", dir, err)
	}

	target := filepath.Join(string(dir), root.Base())

	if err := os.WriteFile(target, content, 0o600); err != nil {
		return "", fmt.Errorf("cannot write merged output %s: %w", target, err)
	}

	return m.Path(target), nil
}

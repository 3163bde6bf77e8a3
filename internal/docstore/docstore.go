// Package docstore reads the small set of bundled reference documents
// available for attachment (e.g. the entry-instructions PDF).
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a read-only static document store.
type Store interface {
	// Read returns the raw bytes of the named document.
	Read(name string) ([]byte, error)
}

// DirStore serves documents from a single directory on disk.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Read returns the named document. Names must be plain file names; path
// traversal is rejected.
func (s *DirStore) Read(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("invalid document name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", name, err)
	}
	return data, nil
}

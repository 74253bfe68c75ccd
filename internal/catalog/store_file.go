package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileStore serves the catalog read from a JSON document on disk.
type FileStore struct {
	*lazyCatalog
	path string
}

func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path}
	s.lazyCatalog = newLazyCatalog("file", func(context.Context) (*Catalog, error) {
		return ReadFile(s.path)
	}, opts)
	return s
}

// ReadFile reads and parses a catalog document.
func ReadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrDataUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return Parse(b)
}

// Parse decodes a catalog document with top-level "products" and
// "categories" arrays. Either may be absent.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataCorrupt, err)
	}
	return &c, nil
}

package catalog

import "context"

// MemStore serves a catalog that is already in memory.
type MemStore struct {
	*lazyCatalog
}

func NewMemStore(c Catalog, opts ...Option) *MemStore {
	cat := &c
	return &MemStore{lazyCatalog: newLazyCatalog("memory", func(context.Context) (*Catalog, error) {
		return cat, nil
	}, opts)}
}

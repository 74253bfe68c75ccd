package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrDataUnavailable = errors.New("catalog data unavailable")
	ErrDataCorrupt     = errors.New("catalog data corrupt")
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuery    = errors.New("search query must be at least 2 characters")
)

// Store answers read-only catalog queries. Every method triggers the initial
// load if it has not happened yet and returns its error on failure.
type Store interface {
	Ping(ctx context.Context) error
	ListProducts(ctx context.Context, category string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]Product, Category, error)
	Search(ctx context.Context, q string, limit int) ([]Product, error)
}

type loadFunc func(ctx context.Context) (*Catalog, error)

// Option configures a store.
type Option func(*lazyCatalog)

// WithMetrics records load outcomes and catalog sizes.
func WithMetrics(m *StoreMetrics) Option {
	return func(c *lazyCatalog) { c.metrics = m }
}

// lazyCatalog loads the catalog on first use and serves every query from
// that single immutable copy. Only successful loads are kept.
type lazyCatalog struct {
	source  string
	load    loadFunc
	metrics *StoreMetrics

	mu     sync.Mutex
	loaded atomic.Pointer[Catalog]
}

func newLazyCatalog(source string, load loadFunc, opts []Option) *lazyCatalog {
	c := &lazyCatalog{source: source, load: load}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *lazyCatalog) catalog(ctx context.Context) (*Catalog, error) {
	if cat := c.loaded.Load(); cat != nil {
		return cat, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cat := c.loaded.Load(); cat != nil {
		return cat, nil
	}

	cat, err := c.load(ctx)
	c.metrics.observe(c.source, cat, err)
	if err != nil {
		return nil, err
	}
	c.loaded.Store(cat)
	return cat, nil
}

func (c *lazyCatalog) Ping(ctx context.Context) error {
	_, err := c.catalog(ctx)
	return err
}

func (c *lazyCatalog) ListProducts(ctx context.Context, category string) ([]Product, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.ProductsIn(category), nil
}

func (c *lazyCatalog) GetProduct(ctx context.Context, id string) (Product, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return Product{}, err
	}
	p, ok := cat.Product(id)
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (c *lazyCatalog) ListCategories(ctx context.Context) ([]Category, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.AllCategories(), nil
}

func (c *lazyCatalog) GetCategory(ctx context.Context, id string) (Category, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return Category{}, err
	}
	cg, ok := cat.Category(id)
	if !ok {
		return Category{}, ErrNotFound
	}
	return cg, nil
}

func (c *lazyCatalog) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, Category, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, Category{}, err
	}
	cg, ok := cat.Category(categoryID)
	if !ok {
		return nil, Category{}, ErrNotFound
	}
	return cat.inCategory(categoryID), cg, nil
}

func (c *lazyCatalog) Search(ctx context.Context, q string, limit int) ([]Product, error) {
	if !validQuery(q) {
		return nil, ErrInvalidQuery
	}
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Search(q, limit), nil
}

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second

	pgUndefinedTable = "42P01"
)

// PostgresStore serves a catalog whose documents live in two jsonb tables:
//
//	catalog_products(position int, doc jsonb)
//	catalog_categories(position int, doc jsonb)
//
// Rows are read once, ordered by position, and decoded exactly like the file.
type PostgresStore struct {
	*lazyCatalog
	db *sql.DB
}

func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	s := &PostgresStore{db: db}
	s.lazyCatalog = newLazyCatalog("postgres", s.load, opts)
	return s
}

// OpenPostgres opens a pgx-backed database/sql handle and checks it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s *PostgresStore) load(ctx context.Context) (*Catalog, error) {
	var (
		productDocs  [][]byte
		categoryDocs [][]byte
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		productDocs, err = s.docs(ctx, `SELECT doc FROM catalog_products ORDER BY position ASC`)
		if err != nil {
			return err
		}
		categoryDocs, err = s.docs(ctx, `SELECT doc FROM catalog_categories ORDER BY position ASC`)
		return err
	})
	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("%w: catalog tables missing: %v", ErrDataUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	products, err := decodeDocs[Product](productDocs)
	if err != nil {
		return nil, err
	}
	categories, err := decodeDocs[Category](categoryDocs)
	if err != nil {
		return nil, err
	}
	return &Catalog{Products: products, Categories: categories}, nil
}

func (s *PostgresStore) docs(ctx context.Context, query string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]byte, 0, 64)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func decodeDocs[T any](docs [][]byte) ([]T, error) {
	out := make([]T, len(docs))
	for i, doc := range docs {
		if err := json.Unmarshal(doc, &out[i]); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrDataCorrupt, i, err)
		}
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrNoPublishedCatalog is returned when no catalog version has been published yet
var ErrNoPublishedCatalog = errors.New("no published catalog")

// Store reads catalog documents. The service never writes through it.
type Store struct {
	db *sqlx.DB
}

// CatalogDocument is one stored version of the catalog
type CatalogDocument struct {
	ID          int64     `db:"id"`
	Version     string    `db:"version"`
	Body        []byte    `db:"body"`
	PublishedAt time.Time `db:"published_at"`
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing connection
func NewStoreWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetLatestCatalog retrieves the most recently published catalog version
func (s *Store) GetLatestCatalog(ctx context.Context) (*CatalogDocument, error) {
	var doc CatalogDocument
	err := s.db.GetContext(ctx, &doc, `
		SELECT id, version, body, published_at
		FROM catalog_documents
		WHERE published_at IS NOT NULL
		ORDER BY published_at DESC
		LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, ErrNoPublishedCatalog
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetCatalogByVersion retrieves a specific catalog version
func (s *Store) GetCatalogByVersion(ctx context.Context, version string) (*CatalogDocument, error) {
	var doc CatalogDocument
	err := s.db.GetContext(ctx, &doc, `
		SELECT id, version, body, published_at
		FROM catalog_documents
		WHERE version = $1 AND published_at IS NOT NULL`, version)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("catalog version not found: %s", version)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CatalogSource serves the stored catalog to catalog.Load
type CatalogSource struct {
	store   *Store
	version string
}

// NewCatalogSource reads the given version, or the latest when version is empty
func NewCatalogSource(store *Store, version string) *CatalogSource {
	return &CatalogSource{store: store, version: version}
}

func (c *CatalogSource) Name() string { return "postgres" }

// Fetch returns the raw JSON body of the selected version
func (c *CatalogSource) Fetch(ctx context.Context) ([]byte, error) {
	var (
		doc *CatalogDocument
		err error
	)
	if c.version != "" {
		doc, err = c.store.GetCatalogByVersion(ctx, c.version)
	} else {
		doc, err = c.store.GetLatestCatalog(ctx)
	}
	if err != nil {
		return nil, err
	}

	util.GetLogger().Info("Catalog document selected",
		zap.String("version", doc.Version),
		zap.Time("published_at", doc.PublishedAt))
	return doc.Body, nil
}

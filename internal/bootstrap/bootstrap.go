// Package bootstrap wires configuration into the pieces both binaries share.
package bootstrap

import (
	"context"
	"fmt"

	"storefront/config"
	"storefront/internal/catalog"
	"storefront/internal/dispatch"
	"storefront/internal/models"
	"storefront/internal/store"
)

// LoadCatalog reads the catalog from the configured source. The returned
// cleanup releases whatever the source opened and is never nil.
func LoadCatalog(ctx context.Context, cfg config.CatalogConfig, dbURL string) (*models.Catalog, func(), error) {
	noop := func() {}

	var src catalog.Source
	cleanup := noop

	switch cfg.Source {
	case "", "file":
		src = catalog.NewFileSource(cfg.Path)
	case "http":
		if cfg.URL == "" {
			return nil, noop, fmt.Errorf("%w: CATALOG_URL is required for the http source", catalog.ErrLoadFailed)
		}
		src = catalog.NewHTTPSource(cfg.URL, cfg.FetchTimeout)
	case "postgres":
		db, err := store.NewStore(dbURL)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", catalog.ErrLoadFailed, err)
		}
		src = store.NewCatalogSource(db, cfg.Version)
		cleanup = func() { db.Close() }
	default:
		return nil, noop, fmt.Errorf("%w: unknown catalog source %q", catalog.ErrLoadFailed, cfg.Source)
	}

	cat, err := catalog.Load(ctx, src)
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return cat, cleanup, nil
}

// DispatchConfig converts the configured timings
func DispatchConfig(cfg config.DispatchConfig) dispatch.Config {
	d := dispatch.DefaultConfig()
	if cfg.FallbackDelay > 0 {
		d.FallbackDelay = cfg.FallbackDelay
	}
	if cfg.ClipboardWait > 0 {
		d.ClipboardWait = cfg.ClipboardWait
	}
	if cfg.NotifyDuration > 0 {
		d.NoticeDuration = cfg.NotifyDuration
	}
	return d
}

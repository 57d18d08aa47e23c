package bootstrap

import (
	"context"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/catalog"
	"storefront/internal/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFromFile(t *testing.T) {
	cat, cleanup, err := LoadCatalog(context.Background(), config.CatalogConfig{
		Source: "file",
		Path:   "../catalog/testdata/catalog.json",
	}, "")
	require.NoError(t, err)
	defer cleanup()

	assert.Len(t, cat.Items, 3)
}

func TestLoadCatalogRejectsBadSources(t *testing.T) {
	_, cleanup, err := LoadCatalog(context.Background(), config.CatalogConfig{Source: "ftp"}, "")
	assert.ErrorIs(t, err, catalog.ErrLoadFailed)
	assert.NotNil(t, cleanup)

	_, _, err = LoadCatalog(context.Background(), config.CatalogConfig{Source: "http"}, "")
	assert.ErrorIs(t, err, catalog.ErrLoadFailed)

	_, _, err = LoadCatalog(context.Background(), config.CatalogConfig{Source: "file", Path: "missing.json"}, "")
	assert.ErrorIs(t, err, catalog.ErrLoadFailed)
}

func TestDispatchConfig(t *testing.T) {
	d := DispatchConfig(config.DispatchConfig{FallbackDelay: 2 * time.Second})
	assert.Equal(t, 2*time.Second, d.FallbackDelay)
	assert.Equal(t, dispatch.DefaultConfig().ClipboardWait, d.ClipboardWait)
	assert.Equal(t, dispatch.DefaultConfig().NoticeDuration, d.NoticeDuration)
}

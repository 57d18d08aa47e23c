package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// ErrLoadFailed wraps every fetch, parse or validation failure.
// A failed load is terminal for the session; callers must not retry.
var ErrLoadFailed = errors.New("failed to load catalog")

// Source fetches the raw catalog document
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// Load fetches, decodes and validates the catalog document
func Load(ctx context.Context, src Source) (*models.Catalog, error) {
	ctx, span := util.StartSpan(ctx, "catalog.Load")
	defer span.End()

	logger := util.GetLogger()

	raw, err := src.Fetch(ctx)
	if err != nil {
		util.CatalogLoadFailuresTotal.WithLabelValues(src.Name()).Inc()
		return nil, fmt.Errorf("%w: fetch from %s: %v", ErrLoadFailed, src.Name(), err)
	}

	cat, err := Parse(raw)
	if err != nil {
		util.CatalogLoadFailuresTotal.WithLabelValues(src.Name()).Inc()
		return nil, err
	}

	util.CatalogItemsLoaded.Set(float64(len(cat.Items)))
	logger.Info("Catalog loaded",
		zap.String("source", src.Name()),
		zap.Int("items", len(cat.Items)),
		zap.Int("community_picks", len(cat.CommunityPicks)))

	return cat, nil
}

// Parse decodes and validates a raw catalog document
func Parse(raw []byte) (*models.Catalog, error) {
	var cat models.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoadFailed, err)
	}

	if err := Validate(&cat); err != nil {
		return nil, err
	}

	normalize(&cat)
	return &cat, nil
}

// Validate enforces the invariants a catalog cannot be served without
func Validate(cat *models.Catalog) error {
	seen := make(map[string]struct{}, len(cat.Items))
	for i, item := range cat.Items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("%w: item %d has no id", ErrLoadFailed, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrLoadFailed, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// normalize absorbs degraded data with defaults instead of failing
func normalize(cat *models.Catalog) {
	logger := util.GetLogger()

	if cat.Seller.PhoneE164 == "" {
		logger.Warn("Catalog seller has no phone; contact links will not work")
	}

	if cat.Items == nil {
		cat.Items = []models.CatalogItem{}
	}

	for i := range cat.Items {
		item := &cat.Items[i]
		item.ID = strings.TrimSpace(item.ID)

		if item.Price != nil && *item.Price < 0 {
			logger.Warn("Negative price treated as quote",
				zap.String("item_id", item.ID),
				zap.Float64("price", *item.Price))
			item.Price = nil
		}
		if item.LeadTimeDays < 0 {
			item.LeadTimeDays = 0
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if item.Images == nil {
			item.Images = []string{}
		}
	}
}

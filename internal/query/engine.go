package query

import (
	"math"
	"sort"
	"strings"

	"storefront/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of query results
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
	SortNameAsc   SortKey = "nameAsc"
	SortNone      SortKey = "none"
)

// AllCategories disables the category filter
const AllCategories = "all"

// ParseSortKey maps a selector value to a SortKey; unknown values keep catalog order
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return k
	default:
		return SortNone
	}
}

// Criteria holds the current control values of the storefront
type Criteria struct {
	SearchText string  `json:"search"`
	Category   string  `json:"category"`
	SortKey    SortKey `json:"sort"`
}

// Engine filters and sorts catalog items
type Engine struct {
	tag language.Tag
}

// NewEngine creates an engine comparing names under the given BCP 47 locale.
// An unparsable locale falls back to English.
func NewEngine(locale string) *Engine {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Engine{tag: tag}
}

// Apply returns a new slice with the items matching c, in the order c asks for.
// The input slice is never modified.
func (e *Engine) Apply(items []models.CatalogItem, c Criteria) []models.CatalogItem {
	search := strings.ToLower(strings.TrimSpace(c.SearchText))

	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if !matchesCategory(item, c.Category) {
			continue
		}
		if search != "" && !strings.Contains(haystack(item), search) {
			continue
		}
		out = append(out, item)
	}

	switch c.SortKey {
	case SortFeatured:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Featured && !out[j].Featured
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return sortPrice(out[i]) < sortPrice(out[j])
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return sortPrice(out[i]) > sortPrice(out[j])
		})
	case SortNameAsc:
		col := e.collator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}

	return out
}

// Categories returns the distinct non-empty categories in locale order
func (e *Engine) Categories(items []models.CatalogItem) []string {
	seen := make(map[string]struct{})
	cats := make([]string, 0)
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		cats = append(cats, item.Category)
	}

	e.collator().SortStrings(cats)
	return cats
}

// collator is built per call: collate.Collator is not safe for concurrent use
func (e *Engine) collator() *collate.Collator {
	return collate.New(e.tag)
}

func matchesCategory(item models.CatalogItem, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return item.Category == category
}

// sortPrice puts quote items after every priced item
func sortPrice(item models.CatalogItem) float64 {
	if !item.HasPrice() {
		return math.Inf(1)
	}
	return *item.Price
}

func haystack(item models.CatalogItem) string {
	parts := []string{item.Name, item.Category, item.Description}
	parts = append(parts, item.Tags...)
	parts = append(parts, item.Material, item.Size, item.ID)
	for _, opt := range item.Options {
		parts = append(parts, opt.Values...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

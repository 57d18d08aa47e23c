// Package view turns catalog data into the view-models the storefront UI paints.
package view

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront/internal/compose"
	"storefront/internal/links"
	"storefront/internal/models"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidChoice = errors.New("value is not one of the option's choices")
)

const (
	QuoteLabel   = "Quote"
	NoImage      = "No image"
	PopularBadge = "Popular"
	EmptyMessage = "No matches. Try a different search or category."
)

// Money renders a price; absent, zero and negative prices are quotes
func Money(price *float64) string {
	if price == nil || *price <= 0 {
		return QuoteLabel
	}
	return "$" + strconv.FormatFloat(math.Round(*price), 'f', 0, 64)
}

// StatusLine summarises the current result set
func StatusLine(count int, seller models.Seller) string {
	return fmt.Sprintf("%d item(s) shown • %s • Typical lead time: %s", count, seller.Location, seller.LeadTime)
}

// OptionView is one selector on a card
type OptionView struct {
	Name     string   `json:"name"`
	Choices  []string `json:"choices"`
	Selected string   `json:"selected,omitempty"`
}

// Card is the view-model of one item card. It owns the card's selection state.
type Card struct {
	ItemID       string       `json:"itemId"`
	Name         string       `json:"name"`
	Category     string       `json:"category,omitempty"`
	Description  string       `json:"description"`
	Material     string       `json:"material"`
	Size         string       `json:"size"`
	PriceLabel   string       `json:"priceLabel"`
	Badge        string       `json:"badge"`
	LeadTime     string       `json:"leadTime"`
	Image        string       `json:"image,omitempty"`
	ImageAlt     string       `json:"imageAlt,omitempty"`
	Images       []string     `json:"images"`
	Tags         []string     `json:"tags"`
	Featured     bool         `json:"featured"`
	Options      []OptionView `json:"options,omitempty"`
	Message      string       `json:"message"`
	Links        links.Links  `json:"links"`

	item       models.CatalogItem
	seller     models.Seller
	builder    links.Builder
	selections compose.Selections
}

// NewCard builds a card with an empty selection
func NewCard(item models.CatalogItem, seller models.Seller, builder links.Builder) *Card {
	return NewCardWithSelections(item, seller, builder, nil)
}

// NewCardWithSelections builds a card restoring earlier selections.
// Entries that no longer match the item's declared choices are dropped.
func NewCardWithSelections(item models.CatalogItem, seller models.Seller, builder links.Builder, selections map[string]string) *Card {
	badge := item.Category
	if item.Featured {
		badge = PopularBadge
	}

	c := &Card{
		ItemID:      item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Description: item.Description,
		Material:    item.Material,
		Size:        item.Size,
		PriceLabel:  Money(item.Price),
		Badge:       badge,
		LeadTime:    fmt.Sprintf("%d day(s)", item.LeadTimeDays),
		Images:      cloneStrings(item.Images),
		Tags:        cloneStrings(item.Tags),
		Featured:    item.Featured,
		item:        item,
		seller:      seller,
		builder:     builder,
		selections:  make(compose.Selections),
	}

	if len(item.Images) > 0 {
		c.Image = item.Images[0]
	} else {
		c.ImageAlt = NoImage
	}

	for key, value := range selections {
		if item.Options.Allows(key, value) {
			c.selections[key] = value
		}
	}

	c.refresh()
	return c
}

// Selections returns a copy of the current selection mapping
func (c *Card) Selections() map[string]string {
	out := make(map[string]string, len(c.selections))
	for k, v := range c.selections {
		out[k] = v
	}
	return out
}

// OnOptionChanged applies a user's choice and returns the rebuilt links.
// A blank value clears the selection.
func (c *Card) OnOptionChanged(key, value string) (links.Links, error) {
	if _, ok := c.item.Options.Lookup(key); !ok {
		return c.Links, fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		delete(c.selections, key)
	} else {
		if !c.item.Options.Allows(key, value) {
			return c.Links, fmt.Errorf("%w: %q for %q", ErrInvalidChoice, value, key)
		}
		c.selections[key] = value
	}

	c.refresh()
	return c.Links, nil
}

func (c *Card) refresh() {
	c.Options = make([]OptionView, 0, len(c.item.Options))
	for _, opt := range c.item.Options {
		c.Options = append(c.Options, OptionView{
			Name:     opt.Name,
			Choices:  cloneStrings(opt.Values),
			Selected: c.selections[opt.Name],
		})
	}

	c.Message = compose.Compose(c.item, c.seller, c.selections)
	c.Links = c.builder.All(c.seller.PhoneE164, c.Message)
}

// cloneStrings copies s so a card never aliases the catalog's slices
func cloneStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

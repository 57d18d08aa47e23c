// Package compose builds the plain-text messages a buyer sends to the seller.
package compose

import (
	"strings"

	"storefront/internal/models"
)

// Placeholder marks a line the buyer is expected to fill in
const Placeholder = "______"

// DefaultModelSites is suggested when a model-link request names no site
const DefaultModelSites = "Printables / MakerWorld"

// Selections maps option name to the chosen value
type Selections map[string]string

// Compose builds the order inquiry for one item.
// Every declared option gets exactly one line, in declared order, whether or not it was chosen.
func Compose(item models.CatalogItem, seller models.Seller, selections Selections) string {
	var b strings.Builder

	line(&b, "Hi! I want to order: ", item.Name)
	line(&b, "Category: ", item.Category)
	line(&b, "Material: ", item.Material)
	line(&b, "Size: ", item.Size)

	for _, opt := range item.Options {
		line(&b, opt.Name+": ", orBlank(selections[opt.Name]))
	}

	line(&b, "Requested color(s): ", Placeholder)
	line(&b, "Quantity: ", Placeholder)
	b.WriteString("Pickup: " + seller.Location)

	return b.String()
}

// ComposeGeneralInquiry builds the message for the header contact buttons
func ComposeGeneralInquiry(seller models.Seller) string {
	return strings.Join([]string{
		"Hi! I’m browsing your 3D print catalog.",
		"I want to ask about: " + Placeholder,
		"Pickup: " + seller.Location,
	}, "\n")
}

// ComposeCustomQuoteRequest builds the message asking for a custom job
func ComposeCustomQuoteRequest(seller models.Seller) string {
	return strings.Join([]string{
		"Hi! I want a custom 3D print quote.",
		"What I want: " + Placeholder,
		"Reference link/photo: " + Placeholder,
		"Desired size: " + Placeholder,
		"Color(s): " + Placeholder,
		"Quantity: " + Placeholder,
		"Pickup: " + seller.Location,
	}, "\n")
}

// ComposeModelLinkRequest builds a quote request for a model found online.
// Blank link and site fall back to placeholders.
func ComposeModelLinkRequest(seller models.Seller, link, site string) string {
	if strings.TrimSpace(site) == "" {
		site = DefaultModelSites
	}
	return strings.Join([]string{
		"Hi! I found a model online and want a quote.",
		"Model link: " + orBlank(link),
		"Site: " + site,
		"Desired size (approx): " + Placeholder,
		"Color(s): " + Placeholder,
		"Quantity: " + Placeholder,
		"Pickup: " + seller.Location,
	}, "\n")
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(value)
	b.WriteByte('\n')
}

func orBlank(v string) string {
	if strings.TrimSpace(v) == "" {
		return Placeholder
	}
	return v
}

package view

import (
	"storefront/internal/compose"
	"storefront/internal/dispatch"
	"storefront/internal/links"
	"storefront/internal/models"
)

// ContactBlock is a set of header buttons sharing one message
type ContactBlock struct {
	Kind    string        `json:"kind"`
	Label   string        `json:"label"`
	Message string        `json:"message"`
	Links   links.Links   `json:"links"`
	Signal  dispatch.Plan `json:"signalPlan"`
}

// Contacts builds the header contact blocks: general question, custom quote
// and sending a model link
func Contacts(seller models.Seller, builder links.Builder, cfg dispatch.Config) []ContactBlock {
	return []ContactBlock{
		contactBlock(models.ContactKindGeneral, "Ask a Question", compose.ComposeGeneralInquiry(seller), seller, builder, cfg),
		contactBlock(models.ContactKindCustom, "Custom Quote", compose.ComposeCustomQuoteRequest(seller), seller, builder, cfg),
		contactBlock(models.ContactKindModelLink, "Send Model Link", compose.ComposeModelLinkRequest(seller, "", ""), seller, builder, cfg),
	}
}

// ContactMessage returns the fixed message of a header contact kind
func ContactMessage(kind string, seller models.Seller) (string, bool) {
	switch kind {
	case models.ContactKindGeneral:
		return compose.ComposeGeneralInquiry(seller), true
	case models.ContactKindCustom:
		return compose.ComposeCustomQuoteRequest(seller), true
	case models.ContactKindModelLink:
		return compose.ComposeModelLinkRequest(seller, "", ""), true
	}
	return "", false
}

func contactBlock(kind, label, message string, seller models.Seller, builder links.Builder, cfg dispatch.Config) ContactBlock {
	l := builder.All(seller.PhoneE164, message)
	return ContactBlock{
		Kind:    kind,
		Label:   label,
		Message: message,
		Links:   l,
		Signal:  dispatch.PlanFor(links.ChannelSignal, l, message, cfg),
	}
}

// PickCard is the view-model of a community pick
type PickCard struct {
	Name    string      `json:"name"`
	URL     string      `json:"url"`
	Site    string      `json:"site"`
	Notes   string      `json:"notes,omitempty"`
	Message string      `json:"message"`
	Links   links.Links `json:"links"`
}

// NewPickCard prefills a model-link request from the pick
func NewPickCard(pick models.CommunityPick, seller models.Seller, builder links.Builder) PickCard {
	msg := compose.ComposeModelLinkRequest(seller, pick.URL, pick.Site)
	return PickCard{
		Name:    pick.Name,
		URL:     pick.URL,
		Site:    pick.Site,
		Notes:   pick.Notes,
		Message: msg,
		Links:   builder.All(seller.PhoneE164, msg),
	}
}

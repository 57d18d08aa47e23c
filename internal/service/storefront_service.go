package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/compose"
	"storefront/internal/dispatch"
	"storefront/internal/links"
	"storefront/internal/models"
	"storefront/internal/query"
	"storefront/internal/redisclient"
	"storefront/internal/util"
	"storefront/internal/view"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrSessionNotFound    = errors.New("card session not found")
	ErrUnknownContactKind = errors.New("unknown contact kind")
	ErrUnknownChannel     = errors.New("unknown contact channel")
)

// DefaultChannel is used when a contact request names no channel
const DefaultChannel = links.ChannelWhatsApp

// EventPublisher receives contact events; a nil publisher disables them
type EventPublisher interface {
	PublishContactPlanned(ctx context.Context, event *models.ContactPlannedEvent) error
}

// StorefrontService serves the immutable catalog and the contact flows built on it
type StorefrontService struct {
	catalog     *models.Catalog
	index       map[string]int
	engine      *query.Engine
	sessions    SessionStore
	publisher   EventPublisher
	dispatchCfg dispatch.Config
	logger      *zap.Logger
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(
	catalog *models.Catalog,
	engine *query.Engine,
	sessions SessionStore,
	publisher EventPublisher,
	dispatchCfg dispatch.Config,
) *StorefrontService {
	index := make(map[string]int, len(catalog.Items))
	for i, item := range catalog.Items {
		index[item.ID] = i
	}

	return &StorefrontService{
		catalog:     catalog,
		index:       index,
		engine:      engine,
		sessions:    sessions,
		publisher:   publisher,
		dispatchCfg: dispatchCfg,
		logger:      util.GetLogger(),
	}
}

// BrowseResult is one rendering of the grid
type BrowseResult struct {
	Cards        []*view.Card `json:"cards"`
	Count        int          `json:"count"`
	Status       string       `json:"status"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
}

// CardState is an open card and the session that holds its selections
type CardState struct {
	SessionID string     `json:"sessionId"`
	Card      *view.Card `json:"card"`
}

// ContactRequest asks for the dispatch plan of one contact control.
// ItemID selects an item card; otherwise Kind selects a header contact.
type ContactRequest struct {
	ItemID    string `json:"itemId,omitempty"`
	Kind      string `json:"kind,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Link      string `json:"link,omitempty"`
	Site      string `json:"site,omitempty"`
}

// ContactPlan is the message and click sequence for a contact control
type ContactPlan struct {
	Kind    string        `json:"kind"`
	ItemID  string        `json:"itemId,omitempty"`
	Message string        `json:"message"`
	Links   links.Links   `json:"links"`
	Plan    dispatch.Plan `json:"plan"`
}

// Seller returns the seller contact details
func (s *StorefrontService) Seller() models.Seller {
	return s.catalog.Seller
}

// Item looks up a catalog item by id
func (s *StorefrontService) Item(id string) (models.CatalogItem, bool) {
	i, ok := s.index[strings.TrimSpace(id)]
	if !ok {
		return models.CatalogItem{}, false
	}
	return s.catalog.Items[i], true
}

// Browse filters and sorts the catalog and renders the resulting cards
func (s *StorefrontService) Browse(ctx context.Context, criteria query.Criteria, mobile bool) *BrowseResult {
	criteria.SortKey = query.ParseSortKey(string(criteria.SortKey))

	_, span := util.StartSpan(ctx, "StorefrontService.Browse",
		attribute.String("sort", string(criteria.SortKey)),
		attribute.String("category", criteria.Category))
	defer span.End()

	start := time.Now()
	items := s.engine.Apply(s.catalog.Items, criteria)
	util.CatalogQueryLatency.Observe(time.Since(start).Seconds())
	util.CatalogQueriesTotal.WithLabelValues(string(criteria.SortKey)).Inc()
	util.CatalogQueryResults.Observe(float64(len(items)))

	builder := links.NewBuilder(mobile)
	result := &BrowseResult{
		Cards:  make([]*view.Card, 0, len(items)),
		Count:  len(items),
		Status: view.StatusLine(len(items), s.catalog.Seller),
	}
	for _, item := range items {
		result.Cards = append(result.Cards, view.NewCard(item, s.catalog.Seller, builder))
	}
	if len(items) == 0 {
		result.EmptyMessage = view.EmptyMessage
	}

	span.SetAttributes(attribute.Int("results", len(items)))
	return result
}

// Categories returns the category selector entries, without the "all" entry
func (s *StorefrontService) Categories() []string {
	return s.engine.Categories(s.catalog.Items)
}

// Contacts returns the header contact blocks
func (s *StorefrontService) Contacts(mobile bool) []view.ContactBlock {
	return view.Contacts(s.catalog.Seller, links.NewBuilder(mobile), s.dispatchCfg)
}

// CommunityPicks returns the pick cards with prefilled model-link requests
func (s *StorefrontService) CommunityPicks(mobile bool) []view.PickCard {
	builder := links.NewBuilder(mobile)
	picks := make([]view.PickCard, 0, len(s.catalog.CommunityPicks))
	for _, pick := range s.catalog.CommunityPicks {
		picks = append(picks, view.NewPickCard(pick, s.catalog.Seller, builder))
	}
	return picks
}

// OpenCard starts a selection session for an item card
func (s *StorefrontService) OpenCard(ctx context.Context, itemID string, mobile bool) (*CardState, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.OpenCard", attribute.String("item_id", itemID))
	defer span.End()

	item, ok := s.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	session := &models.CardSession{
		ID:         uuid.New().String(),
		ItemID:     item.ID,
		Selections: make(map[string]string),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create card session: %w", err)
	}

	util.CardSessionsOpenedTotal.Inc()
	s.logger.Debug("Card session opened",
		zap.String("session_id", session.ID),
		zap.String("item_id", item.ID))

	return &CardState{
		SessionID: session.ID,
		Card:      view.NewCard(item, s.catalog.Seller, links.NewBuilder(mobile)),
	}, nil
}

// GetCard renders an open card with its current selections
func (s *StorefrontService) GetCard(ctx context.Context, sessionID string, mobile bool) (*CardState, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.GetCard")
	defer span.End()

	card, _, err := s.loadCard(ctx, sessionID, mobile)
	if err != nil {
		return nil, err
	}
	return &CardState{SessionID: sessionID, Card: card}, nil
}

// ChangeOption applies one selection to an open card and returns the rebuilt card.
// A blank value clears the option.
func (s *StorefrontService) ChangeOption(ctx context.Context, sessionID, key, value string, mobile bool) (*CardState, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.ChangeOption",
		attribute.String("session_id", sessionID),
		attribute.String("option", key))
	defer span.End()

	card, _, err := s.loadCard(ctx, sessionID, mobile)
	if err != nil {
		return nil, err
	}

	if _, err := card.OnOptionChanged(key, value); err != nil {
		util.OptionChangesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := s.sessions.SetSelection(ctx, sessionID, key, card.Selections()[key]); err != nil {
		return nil, s.sessionErr(err)
	}

	util.OptionChangesTotal.WithLabelValues("applied").Inc()
	return &CardState{SessionID: sessionID, Card: card}, nil
}

// CloseCard discards a card session
func (s *StorefrontService) CloseCard(ctx context.Context, sessionID string) error {
	ctx, span := util.StartSpan(ctx, "StorefrontService.CloseCard")
	defer span.End()

	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to close card session: %w", err)
	}
	return nil
}

// PlanContact builds the message and click sequence of a contact control
// and publishes a ContactPlanned event.
func (s *StorefrontService) PlanContact(ctx context.Context, req *ContactRequest, mobile bool) (*ContactPlan, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.PlanContact")
	defer span.End()

	channel := DefaultChannel
	if req.Channel != "" {
		ch, ok := links.ParseChannel(req.Channel)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, req.Channel)
		}
		channel = ch
	}

	seller := s.catalog.Seller
	result := &ContactPlan{}
	var selections map[string]string

	if req.ItemID != "" {
		item, ok := s.Item(req.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, req.ItemID)
		}
		if req.SessionID != "" {
			card, sessionItem, err := s.loadCard(ctx, req.SessionID, mobile)
			if err != nil {
				return nil, err
			}
			if sessionItem != item.ID {
				return nil, fmt.Errorf("%w: session belongs to %s", ErrSessionNotFound, sessionItem)
			}
			selections = card.Selections()
		}
		result.Kind = models.ContactKindItem
		result.ItemID = item.ID
		result.Message = compose.Compose(item, seller, selections)
	} else {
		switch req.Kind {
		case models.ContactKindModelLink:
			result.Message = compose.ComposeModelLinkRequest(seller, req.Link, req.Site)
		default:
			msg, ok := view.ContactMessage(req.Kind, seller)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownContactKind, req.Kind)
			}
			result.Message = msg
		}
		result.Kind = req.Kind
	}

	result.Links = links.NewBuilder(mobile).All(seller.PhoneE164, result.Message)
	result.Plan = dispatch.PlanFor(channel, result.Links, result.Message, s.dispatchCfg)

	span.SetAttributes(
		attribute.String("kind", result.Kind),
		attribute.String("channel", string(channel)))
	util.ContactPlansTotal.WithLabelValues(result.Kind, string(channel)).Inc()

	s.publishPlanned(ctx, result, channel, mobile, selections)
	return result, nil
}

func (s *StorefrontService) publishPlanned(ctx context.Context, plan *ContactPlan, channel links.Channel, mobile bool, selections map[string]string) {
	if s.publisher == nil {
		return
	}
	event := &models.ContactPlannedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeContactPlanned,
			Timestamp: time.Now(),
		},
		Kind:       plan.Kind,
		ItemID:     plan.ItemID,
		Channel:    string(channel),
		Mobile:     mobile,
		Selections: selections,
	}
	if err := s.publisher.PublishContactPlanned(ctx, event); err != nil {
		s.logger.Error("Failed to publish ContactPlanned event", zap.Error(err))
	}
}

func (s *StorefrontService) loadCard(ctx context.Context, sessionID string, mobile bool) (*view.Card, string, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", s.sessionErr(err)
	}

	item, ok := s.Item(session.ItemID)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrItemNotFound, session.ItemID)
	}

	card := view.NewCardWithSelections(item, s.catalog.Seller, links.NewBuilder(mobile), session.Selections)
	return card, item.ID, nil
}

func (s *StorefrontService) sessionErr(err error) error {
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, redisclient.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return fmt.Errorf("card session store: %w", err)
}

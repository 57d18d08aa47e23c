package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing contact events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishContactPlanned publishes ContactPlanned event
func (ep *EventPublisher) PublishContactPlanned(ctx context.Context, event *models.ContactPlannedEvent) error {
	return ep.producer.PublishEvent(ctx, eventKey(event.Kind, event.ItemID), event)
}

// PublishContactDispatched publishes ContactDispatched event
func (ep *EventPublisher) PublishContactDispatched(ctx context.Context, event *models.ContactDispatchedEvent) error {
	return ep.producer.PublishEvent(ctx, "dispatch-"+event.Channel, event)
}

// Events for one item share a key so they land on one partition in order
func eventKey(kind, itemID string) string {
	if itemID != "" {
		return fmt.Sprintf("item-%s", itemID)
	}
	return fmt.Sprintf("contact-%s", kind)
}

// EventHandler handles incoming events
type EventHandler struct {
	onContactPlanned    func(context.Context, *models.ContactPlannedEvent) error
	onContactDispatched func(context.Context, *models.ContactDispatchedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnContactPlanned registers a handler for ContactPlanned events
func (eh *EventHandler) OnContactPlanned(handler func(context.Context, *models.ContactPlannedEvent) error) {
	eh.onContactPlanned = handler
}

// OnContactDispatched registers a handler for ContactDispatched events
func (eh *EventHandler) OnContactDispatched(handler func(context.Context, *models.ContactDispatchedEvent) error) {
	eh.onContactDispatched = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeContactPlanned:
		if eh.onContactPlanned != nil {
			var event models.ContactPlannedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContactPlanned event: %w", err)
			}
			return eh.onContactPlanned(ctx, &event)
		}

	case models.EventTypeContactDispatched:
		if eh.onContactDispatched != nil {
			var event models.ContactDispatchedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContactDispatched event: %w", err)
			}
			return eh.onContactDispatched(ctx, &event)
		}

	default:
		util.GetLogger().Debug("Unhandled event type",
			zap.String("event_type", baseEvent.EventType),
			zap.String("event_id", baseEvent.EventID))
	}

	return nil
}

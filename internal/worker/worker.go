package worker

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// KindDispatched labels dispatch events in contacts_observed_total
const KindDispatched = "dispatched"

// MessageSource is the consuming side of the contact topic
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// ContactWorker tallies contact events from the event stream
type ContactWorker struct {
	source       MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewContactWorker creates a new contact worker
func NewContactWorker(source MessageSource) *ContactWorker {
	w := &ContactWorker{
		source:       source,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnContactPlanned(w.handleContactPlanned)
	w.eventHandler.OnContactDispatched(w.handleContactDispatched)
	return w
}

// Start blocks consuming until ctx is done
func (w *ContactWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting contact worker")
	return w.source.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ContactWorker) Stop() error {
	w.logger.Info("Stopping contact worker")
	return w.source.Close()
}

func (w *ContactWorker) handleContactPlanned(_ context.Context, event *models.ContactPlannedEvent) error {
	util.ContactsObservedTotal.WithLabelValues(event.Channel, event.Kind).Inc()
	w.logger.Debug("Contact planned",
		zap.String("event_id", event.EventID),
		zap.String("kind", event.Kind),
		zap.String("item_id", event.ItemID),
		zap.String("channel", event.Channel),
		zap.Bool("mobile", event.Mobile))
	return nil
}

func (w *ContactWorker) handleContactDispatched(_ context.Context, event *models.ContactDispatchedEvent) error {
	util.ContactsObservedTotal.WithLabelValues(event.Channel, KindDispatched).Inc()
	w.logger.Debug("Contact dispatched",
		zap.String("event_id", event.EventID),
		zap.String("channel", event.Channel),
		zap.Bool("copied", event.Copied),
		zap.Bool("fallback_set", event.FallbackSet))
	return nil
}

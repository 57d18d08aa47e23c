package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clipboard writes text to the environment's clipboard
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Navigator opens links in the environment
type Navigator interface {
	// Navigate replaces the current browsing context
	Navigate(ctx context.Context, url string) error
	// OpenNew opens a new browsing context
	OpenNew(ctx context.Context, url string) error
}

// Notifier shows a transient status message
type Notifier interface {
	Show(message string, d time.Duration)
}

// Recorder receives one event per dispatch attempt
type Recorder interface {
	PublishContactDispatched(ctx context.Context, event *models.ContactDispatchedEvent) error
}

var errClipboardTimeout = errors.New("clipboard write did not finish in time")

// Attempt is one click's run through a plan
type Attempt struct {
	ID     string
	Copied bool
	done   chan struct{}
}

// Done is closed once every step, including the fallback, has run
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Controller runs dispatch plans against injected capabilities.
// Attempts share no state; each arms at most one timer.
type Controller struct {
	clipboard Clipboard
	navigator Navigator
	notifier  Notifier
	recorder  Recorder
	logger    *zap.Logger
	pending   sync.WaitGroup
}

// NewController creates a new dispatch controller
func NewController(clipboard Clipboard, navigator Navigator, notifier Notifier) *Controller {
	return &Controller{
		clipboard: clipboard,
		navigator: navigator,
		notifier:  notifier,
		logger:    util.GetLogger(),
	}
}

// WithRecorder attaches an event recorder
func (c *Controller) WithRecorder(r Recorder) *Controller {
	c.recorder = r
	return c
}

// Dispatch runs the plan: copy, notify, navigate, then arm the fallback.
// It returns once the primary navigation was issued; the fallback fires later
// and cannot be cancelled.
func (c *Controller) Dispatch(ctx context.Context, plan Plan) *Attempt {
	ctx = context.WithoutCancel(ctx)
	attempt := &Attempt{ID: uuid.New().String(), done: make(chan struct{})}

	util.DispatchAttemptsTotal.WithLabelValues(string(plan.Channel)).Inc()

	if plan.CopyText != "" {
		attempt.Copied = c.copy(ctx, plan)
		if attempt.Copied {
			c.notifier.Show(plan.CopiedNotice, plan.NoticeDuration)
		} else {
			c.notifier.Show(plan.OpeningNotice, plan.NoticeDuration)
		}
	}

	if err := c.navigator.Navigate(ctx, plan.PrimaryURL); err != nil {
		c.logger.Warn("Primary navigation failed",
			zap.String("channel", string(plan.Channel)),
			zap.Error(err))
	}

	if plan.HasFallback() {
		c.pending.Add(1)
		time.AfterFunc(plan.FallbackDelay, func() {
			defer c.pending.Done()
			defer close(attempt.done)
			c.fireFallback(ctx, plan)
		})
	} else {
		close(attempt.done)
	}

	c.record(ctx, plan, attempt)
	return attempt
}

// Wait blocks until every armed fallback has fired
func (c *Controller) Wait() {
	c.pending.Wait()
}

// copy starts the clipboard write and waits for it only up to ClipboardWait.
// Failures only change the notice wording.
func (c *Controller) copy(ctx context.Context, plan Plan) bool {
	result := make(chan error, 1)
	go func() {
		result <- c.clipboard.WriteText(ctx, plan.CopyText)
	}()

	wait := plan.ClipboardWait
	if wait <= 0 {
		wait = DefaultConfig().ClipboardWait
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	var err error
	select {
	case err = <-result:
	case <-timer.C:
		err = errClipboardTimeout
	}

	if err != nil {
		util.ClipboardFailuresTotal.Inc()
		c.logger.Debug("Clipboard write failed", zap.Error(err))
		return false
	}
	return true
}

func (c *Controller) fireFallback(ctx context.Context, plan Plan) {
	util.FallbacksFiredTotal.WithLabelValues(string(plan.FallbackChannel)).Inc()
	c.notifier.Show(plan.FallbackNotice, plan.FallbackNoticeDuration)

	if err := c.navigator.OpenNew(ctx, plan.FallbackURL); err != nil {
		c.logger.Warn("Fallback open failed",
			zap.String("channel", string(plan.FallbackChannel)),
			zap.Error(err))
	}
}

func (c *Controller) record(ctx context.Context, plan Plan, attempt *Attempt) {
	if c.recorder == nil {
		return
	}
	event := &models.ContactDispatchedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   attempt.ID,
			EventType: models.EventTypeContactDispatched,
			Timestamp: time.Now(),
		},
		Channel:     string(plan.Channel),
		Fallback:    string(plan.FallbackChannel),
		Copied:      attempt.Copied,
		FallbackSet: plan.HasFallback(),
	}
	if err := c.recorder.PublishContactDispatched(ctx, event); err != nil {
		c.logger.Error("Failed to publish ContactDispatched event", zap.Error(err))
	}
}

package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultDuration is how long a notification stays up when the caller does not say
const DefaultDuration = 1800 * time.Millisecond

// Sink paints and clears the single notification slot
type Sink interface {
	Show(message string)
	Hide()
}

// Toaster shows one transient message at a time.
// A new message replaces the visible one and restarts the dismissal timer.
type Toaster struct {
	sink            Sink
	defaultDuration time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	current string
}

// NewToaster creates a toaster; a non-positive duration means DefaultDuration
func NewToaster(sink Sink, defaultDuration time.Duration) *Toaster {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Toaster{sink: sink, defaultDuration: defaultDuration}
}

// Notify shows message for the default duration
func (t *Toaster) Notify(message string) {
	t.Show(message, 0)
}

// Show shows message for d, or the default duration when d <= 0
func (t *Toaster) Show(message string, d time.Duration) {
	if d <= 0 {
		d = t.defaultDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	seq := t.seq
	t.current = message
	t.sink.Show(message)

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// a newer message owns the slot now
		if t.seq != seq {
			return
		}
		t.current = ""
		t.timer = nil
		t.sink.Hide()
	})
}

// Current returns the visible message, or "" when nothing is shown
func (t *Toaster) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// WriterSink prints notifications as lines, e.g. to stderr in the CLI
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Show(message string) {
	fmt.Fprintln(s.W, "»", message)
}

func (s WriterSink) Hide() {}

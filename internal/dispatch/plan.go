package dispatch

import (
	"time"

	"storefront/internal/links"
)

// Config tunes the click sequence
type Config struct {
	// FallbackDelay is how long to wait before opening the fallback link.
	// Deep-link success cannot be observed, so the fallback always fires.
	FallbackDelay time.Duration
	// ClipboardWait bounds how long the notice waits on the clipboard result
	ClipboardWait          time.Duration
	NoticeDuration         time.Duration
	FallbackNoticeDuration time.Duration
}

// DefaultConfig mirrors the timings buyers are used to from the storefront page
func DefaultConfig() Config {
	return Config{
		FallbackDelay:          950 * time.Millisecond,
		ClipboardWait:          300 * time.Millisecond,
		NoticeDuration:         1800 * time.Millisecond,
		FallbackNoticeDuration: 2200 * time.Millisecond,
	}
}

// Plan describes what a click on a contact control does.
// Browsers receive it as JSON and run it themselves; the Controller runs it in-process.
type Plan struct {
	Channel         links.Channel `json:"channel"`
	PrimaryURL      string        `json:"primaryUrl"`
	CopyText        string        `json:"copyText,omitempty"`
	CopiedNotice    string        `json:"copiedNotice,omitempty"`
	OpeningNotice   string        `json:"openingNotice,omitempty"`
	FallbackChannel links.Channel `json:"fallbackChannel,omitempty"`
	FallbackURL     string        `json:"fallbackUrl,omitempty"`
	FallbackNotice  string        `json:"fallbackNotice,omitempty"`

	FallbackDelay          time.Duration `json:"-"`
	ClipboardWait          time.Duration `json:"-"`
	NoticeDuration         time.Duration `json:"-"`
	FallbackNoticeDuration time.Duration `json:"-"`

	FallbackDelayMs          int64 `json:"fallbackDelayMs,omitempty"`
	NoticeDurationMs         int64 `json:"noticeDurationMs,omitempty"`
	FallbackNoticeDurationMs int64 `json:"fallbackNoticeDurationMs,omitempty"`
}

// HasFallback reports whether the plan arms a delayed fallback
func (p Plan) HasFallback() bool {
	return p.FallbackURL != ""
}

// Label is the human name of a channel used in notices
func Label(ch links.Channel) string {
	switch ch {
	case links.ChannelWhatsApp:
		return "WhatsApp"
	case links.ChannelSignal:
		return "Signal"
	case links.ChannelSMS:
		return "Messages"
	case links.ChannelTel:
		return "Phone"
	}
	return string(ch)
}

// NewPlan builds the copy, open, then fall back sequence for an uncertain channel
func NewPlan(primary links.Channel, primaryURL string, fallback links.Channel, fallbackURL, message string, cfg Config) Plan {
	name := Label(primary)
	p := Plan{
		Channel:                primary,
		PrimaryURL:             primaryURL,
		CopyText:               message,
		CopiedNotice:           "Message copied. Opening " + name + "…",
		OpeningNotice:          "Opening " + name + "…",
		FallbackDelay:          cfg.FallbackDelay,
		ClipboardWait:          cfg.ClipboardWait,
		NoticeDuration:         cfg.NoticeDuration,
		FallbackNoticeDuration: cfg.FallbackNoticeDuration,
	}
	if fallbackURL != "" {
		p.FallbackChannel = fallback
		p.FallbackURL = fallbackURL
		p.FallbackNotice = "If " + name + " didn’t open, " + Label(fallback) + " is opening…"
	}
	p.FallbackDelayMs = p.FallbackDelay.Milliseconds()
	p.NoticeDurationMs = p.NoticeDuration.Milliseconds()
	p.FallbackNoticeDurationMs = p.FallbackNoticeDuration.Milliseconds()
	return p
}

// DirectPlan opens a reliable channel with no copy and no fallback
func DirectPlan(ch links.Channel, url string) Plan {
	return Plan{Channel: ch, PrimaryURL: url}
}

// PlanFor picks the sequence for a channel: Signal copies and falls back to
// WhatsApp, everything else opens directly.
func PlanFor(ch links.Channel, l links.Links, message string, cfg Config) Plan {
	if ch == links.ChannelSignal {
		return NewPlan(links.ChannelSignal, l.Signal, links.ChannelWhatsApp, l.WhatsApp, message, cfg)
	}
	return DirectPlan(ch, l.For(ch))
}

package models

import "time"

// Event types
const (
	EventTypeContactPlanned    = "CONTACT_PLANNED"
	EventTypeContactDispatched = "CONTACT_DISPATCHED"
)

// Contact kinds
const (
	ContactKindItem      = "item"
	ContactKindGeneral   = "general"
	ContactKindCustom    = "custom"
	ContactKindModelLink = "model_link"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactPlannedEvent published when a buyer asks for a contact plan
type ContactPlannedEvent struct {
	BaseEvent
	Kind       string            `json:"kind"`
	ItemID     string            `json:"item_id,omitempty"`
	Channel    string            `json:"channel"`
	Mobile     bool              `json:"mobile"`
	Selections map[string]string `json:"selections,omitempty"`
}

// ContactDispatchedEvent published after a dispatch attempt ran its steps
type ContactDispatchedEvent struct {
	BaseEvent
	Channel     string `json:"channel"`
	Fallback    string `json:"fallback,omitempty"`
	Copied      bool   `json:"copied"`
	FallbackSet bool   `json:"fallback_set"`
}

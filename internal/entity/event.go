package entity

import "time"

const (
	EventLinkCreated = "link.created"
	EventLinkVisited = "link.visited"
)

// Event is a notification published to the event bus.
type Event interface {
	EventName() string
}

// LinkCreated is raised after a link has been stored.
type LinkCreated struct {
	EventID    string    `json:"event_id"`
	LinkID     string    `json:"link_id"`
	Phrase     string    `json:"phrase"`
	TargetURL  string    `json:"target_url"`
	Language   Language  `json:"language"`
	Theme      Theme     `json:"theme"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (LinkCreated) EventName() string { return EventLinkCreated }

// LinkVisited is raised when a phrase has been resolved for a redirect.
type LinkVisited struct {
	EventID    string    `json:"event_id"`
	LinkID     string    `json:"link_id"`
	Phrase     string    `json:"phrase"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (LinkVisited) EventName() string { return EventLinkVisited }

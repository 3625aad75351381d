package models

import (
	"time"

	"github.com/google/uuid"
)

// Style tags of a formatted itinerary run
type Style string

const (
	StyleHeading   Style = "heading"
	StyleBullet    Style = "bullet"
	StyleAddress   Style = "address"
	StyleNarrative Style = "narrative"
)

// Known reports whether s is one of the styles this build understands.
func (s Style) Known() bool {
	switch s {
	case StyleHeading, StyleBullet, StyleAddress, StyleNarrative:
		return true
	}
	return false
}

// Run is one styled line of an itinerary. Link is set for address runs.
type Run struct {
	Text  string `json:"text" bson:"text"`
	Style Style  `json:"style" bson:"style"`
	Link  string `json:"link,omitempty" bson:"link,omitempty"`
}

// Document is the formatted itinerary: styled runs in input line order.
type Document struct {
	Version int   `json:"version" bson:"version"`
	Runs    []Run `json:"runs" bson:"runs"`
}

// Empty reports whether the document has no runs.
func (d Document) Empty() bool { return len(d.Runs) == 0 }

// Itinerary is the persisted, formatted plan of one trip. Version increases
// by one on every write and is checked on save.
type Itinerary struct {
	TripID    uuid.UUID `json:"trip_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Document  Document  `json:"document"`
	Truncated bool      `json:"prompt_truncated"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

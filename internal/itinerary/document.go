package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"

	"GO2GETHER_PLANNER/internal/models"
)

// CurrentVersion of the persisted document encoding.
const CurrentVersion = 1

var ErrUnsupportedVersion = errors.New("itinerary: unsupported document version")

// Encode serialises doc as {"version":1,"runs":[{"text","style","link"}]}.
func Encode(doc models.Document) ([]byte, error) {
	doc = Normalize(doc)
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("itinerary: encode: %w", err)
	}
	return b, nil
}

// Decode is the inverse of Encode. Documents written by a newer encoding are
// rejected; unknown styles degrade to narrative.
func Decode(b []byte) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return models.Document{}, fmt.Errorf("itinerary: decode: %w", err)
	}
	if doc.Version > CurrentVersion {
		return models.Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return Normalize(doc), nil
}

// Normalize stamps the current version, maps unknown styles to narrative
// and fills missing address links. Runs are never reordered or dropped.
func Normalize(doc models.Document) models.Document {
	out := models.Document{Version: CurrentVersion, Runs: make([]models.Run, len(doc.Runs))}
	for i, r := range doc.Runs {
		if !r.Style.Known() {
			r.Style = models.StyleNarrative
		}
		if r.Style == models.StyleAddress && r.Link == "" {
			r.Link = MapsLink(r.Text)
		}
		out.Runs[i] = r
	}
	return out
}

// Validate checks a client-supplied document before it is saved.
func Validate(doc models.Document) error {
	if doc.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	for i, r := range doc.Runs {
		if r.Text == "" {
			return fmt.Errorf("itinerary: run %d has no text", i)
		}
	}
	return nil
}

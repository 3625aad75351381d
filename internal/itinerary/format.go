// Package itinerary turns generator output into a styled document and
// renders that document for storage, PDF export and the terminal.
package itinerary

import (
	"net/url"
	"strings"

	"GO2GETHER_PLANNER/internal/models"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

const addressMarker = "Address:"

// Format classifies each non-blank line of raw generator text into a styled
// run, in input order. It never fails: lines matching no rule become
// narrative runs. Blank input yields an empty document.
func Format(raw string) models.Document {
	doc := models.Document{Version: CurrentVersion, Runs: []models.Run{}}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.Runs = append(doc.Runs, classify(line))
	}
	return doc
}

func classify(line string) models.Run {
	if text, ok := heading(line); ok {
		return models.Run{Text: text, Style: models.StyleHeading}
	}
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		text := strings.TrimSpace(strings.ReplaceAll(rest, "**", ""))
		if text == "" {
			return models.Run{Text: line, Style: models.StyleNarrative}
		}
		if i := strings.Index(text, addressMarker); i >= 0 {
			if addr := strings.TrimSpace(text[i+len(addressMarker):]); addr != "" {
				return models.Run{Text: text, Style: models.StyleAddress, Link: MapsLink(addr)}
			}
		}
		return models.Run{Text: text, Style: models.StyleBullet}
	}
	return models.Run{Text: line, Style: models.StyleNarrative}
}

// heading recognises **Day 1: ...** and markdown "#" headings. A heading
// needs at least one character besides asterisks and spaces.
func heading(line string) (string, bool) {
	if len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") {
		if text := strings.TrimSpace(line[2 : len(line)-2]); hasWords(text) {
			return text, true
		}
	}
	if strings.HasPrefix(line, "#") {
		if text := strings.TrimSpace(strings.ReplaceAll(strings.TrimLeft(line, "#"), "**", "")); hasWords(text) {
			return text, true
		}
	}
	return "", false
}

func hasWords(s string) bool { return strings.Trim(s, "* ") != "" }

// MapsLink is a Google Maps search URL for a free-text address.
func MapsLink(address string) string {
	return mapsSearchURL + url.QueryEscape(address)
}

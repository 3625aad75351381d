package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"GO2GETHER_PLANNER/internal/models"
)

// GeneratorSchema is the JSON shape requested from the generator when
// structured output is enabled.
const GeneratorSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["days"],
  "additionalProperties": false,
  "properties": {
    "days": {
      "type": "array",
      "minItems": 1,
      "maxItems": 7,
      "items": {
        "type": "object",
        "required": ["title", "items"],
        "additionalProperties": false,
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["kind", "name"],
              "additionalProperties": false,
              "properties": {
                "kind": {"enum": ["breakfast", "lunch", "dinner", "activity"]},
                "time": {"type": "string"},
                "name": {"type": "string", "minLength": 1},
                "address": {"type": "string"},
                "description": {"type": "string"}
              }
            }
          }
        }
      }
    },
    "notes": {"type": "array", "items": {"type": "string"}}
  }
}`

const schemaURL = "https://go2gether.local/schemas/itinerary-generator.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func generatorSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(GeneratorSchema)); err != nil {
			compileErr = fmt.Errorf("itinerary schema load failed: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

var mealLabels = map[string]string{
	"breakfast": "Breakfast",
	"lunch":     "Lunch",
	"dinner":    "Dinner",
}

type structuredPlan struct {
	Days []struct {
		Title string `json:"title"`
		Items []struct {
			Kind        string `json:"kind"`
			Time        string `json:"time"`
			Name        string `json:"name"`
			Address     string `json:"address"`
			Description string `json:"description"`
		} `json:"items"`
	} `json:"days"`
	Notes []string `json:"notes"`
}

// ParseStructured converts a JSON reply into a document. When the reply does
// not validate against GeneratorSchema it falls back to Format on the raw
// text and reports structured=false.
func ParseStructured(raw string) (doc models.Document, structured bool) {
	plan, err := decodePlan(raw)
	if err != nil {
		return Format(raw), false
	}
	return plan.document(), true
}

func decodePlan(raw string) (*structuredPlan, error) {
	sch, err := generatorSchema()
	if err != nil {
		return nil, err
	}
	body := stripFence(raw)

	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil, fmt.Errorf("structured reply is not JSON: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("structured reply failed schema validation: %w", err)
	}
	var plan structuredPlan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (p *structuredPlan) document() models.Document {
	doc := models.Document{Version: CurrentVersion, Runs: []models.Run{}}
	for _, day := range p.Days {
		doc.Runs = append(doc.Runs, models.Run{Text: strings.TrimSpace(day.Title), Style: models.StyleHeading})
		for _, it := range day.Items {
			text := strings.TrimSpace(it.Name)
			if label, ok := mealLabels[it.Kind]; ok {
				text = label + ": " + text
			}
			if t := strings.TrimSpace(it.Time); t != "" {
				text = t + " " + text
			}
			doc.Runs = append(doc.Runs, models.Run{Text: text, Style: models.StyleBullet})
			if addr := strings.TrimSpace(it.Address); addr != "" {
				doc.Runs = append(doc.Runs, models.Run{Text: addressMarker + " " + addr, Style: models.StyleAddress, Link: MapsLink(addr)})
			}
			if d := strings.TrimSpace(it.Description); d != "" {
				doc.Runs = append(doc.Runs, models.Run{Text: d, Style: models.StyleNarrative})
			}
		}
	}
	for _, n := range p.Notes {
		if n = strings.TrimSpace(n); n != "" {
			doc.Runs = append(doc.Runs, models.Run{Text: n, Style: models.StyleNarrative})
		}
	}
	return doc
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

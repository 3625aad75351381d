// Package catalog holds the survey's selectable options.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultOptions []byte

// Catalog lists the options a traveler may pick per category.
type Catalog struct {
	Version         int      `yaml:"version" json:"version"`
	Experiences     []string `yaml:"experiences" json:"experiences"`
	Cuisines        []string `yaml:"cuisines" json:"cuisines"`
	FoodExperiences []string `yaml:"food_experiences" json:"food_experiences"`

	index map[string]map[string]bool
}

// Categories
const (
	CategoryExperiences     = "experiences"
	CategoryCuisines        = "cuisines"
	CategoryFoodExperiences = "food_experiences"
)

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultOptions)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded options.yaml: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file; an empty path means the embedded one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and indexes a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(c.Experiences) == 0 || len(c.Cuisines) == 0 || len(c.FoodExperiences) == 0 {
		return nil, fmt.Errorf("catalog: every category needs at least one option")
	}
	c.index = map[string]map[string]bool{
		CategoryExperiences:     set(c.Experiences),
		CategoryCuisines:        set(c.Cuisines),
		CategoryFoodExperiences: set(c.FoodExperiences),
	}
	return &c, nil
}

// Unknown returns the values not offered in category, in input order.
func (c *Catalog) Unknown(category string, values []string) []string {
	allowed := c.index[category]
	var out []string
	for _, v := range values {
		if !allowed[v] {
			out = append(out, v)
		}
	}
	return out
}

func set(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

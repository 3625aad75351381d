package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 1, c.Version)
	assert.Contains(t, c.Experiences, "Museums")
	assert.Contains(t, c.Cuisines, "Thai")
	assert.Contains(t, c.FoodExperiences, "Street Food")
}

func TestUnknown(t *testing.T) {
	c := Default()
	assert.Empty(t, c.Unknown(CategoryCuisines, []string{"Thai", "Italian"}))
	assert.Equal(t, []string{"Martian"}, c.Unknown(CategoryCuisines, []string{"Thai", "Martian"}))
	assert.Equal(t, []string{"Thai"}, c.Unknown("nope", []string{"Thai"}))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 2
experiences: [Diving]
cuisines: [Peruvian]
food_experiences: [Picnics]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version)
	assert.Empty(t, c.Unknown(CategoryExperiences, []string{"Diving"}))
}

func TestParseRejectsEmptyCategory(t *testing.T) {
	_, err := Parse([]byte("experiences: [a]\ncuisines: []\nfood_experiences: [b]\n"))
	assert.Error(t, err)
}

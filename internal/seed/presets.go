package seed

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset sizes one seeding run.
type Preset struct {
	Users            int `yaml:"users"`
	Prompts          int `yaml:"prompts"`
	RatingsPerPrompt int `yaml:"ratings_per_prompt"`
	FavoritesPerUser int `yaml:"favorites_per_user"`
	Feedback         int `yaml:"feedback"`
	MaxDays          int `yaml:"max_days"`
}

// CuratedPrompt is a hand-written prompt inserted ahead of generated ones.
type CuratedPrompt struct {
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Model    string   `yaml:"model"`
	Tags     []string `yaml:"tags"`
	Content  string   `yaml:"content"`
}

// Catalog is the decoded presets file.
type Catalog struct {
	Presets  map[string]Preset `yaml:"presets"`
	Settings map[string]string `yaml:"settings"`
	Prompts  []CuratedPrompt   `yaml:"prompts"`
}

// LoadCatalog decodes the embedded presets file.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(presetsYAML)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for name, p := range c.Presets {
		if p.Users < 1 || p.Prompts < 0 {
			return nil, fmt.Errorf("preset %q: users must be positive and prompts non-negative", name)
		}
	}
	return &c, nil
}

// Preset looks a preset up by name, ignoring case.
func (c *Catalog) Preset(name string) (Preset, error) {
	p, ok := c.Presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(c.PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames lists preset names alphabetically.
func (c *Catalog) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package dashboard

import (
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/CarteSolidaire/CS-Backend/internal/maplayer"
)

// Variant is one configured dashboard page. The historical deployment had six
// near-identical pages; they are all expressible as one of these.
type Variant struct {
	Name       string           `yaml:"name"`
	Title      string           `yaml:"title"`
	Center     [2]float64       `yaml:"center"`
	Zoom       int              `yaml:"zoom"`
	Layers     maplayer.Toggles `yaml:"layers"`
	Indicators []string         `yaml:"indicators"`
}

// Config is the variants file.
type Config struct {
	Variants []Variant `yaml:"variants"`
}

// DefaultVariant is the full national map: every layer, every indicator.
func DefaultVariant() Variant {
	return Variant{
		Name:   "national",
		Title:  "Carte des établissements",
		Center: [2]float64{46.7, 2.5},
		Zoom:   6,
		Layers: maplayer.Toggles{
			Markers:    true,
			Zones:      true,
			ZoneCounts: true,
			Isochrones: true,
		},
		Indicators: []string{"chomage", "pauvrete", "neets", "sans_diplome"},
	}
}

// LoadConfig reads the variants YAML. A missing file falls back to the single
// default variant; a malformed one is an error since it means someone edited
// it and got it wrong.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[dashboard] %s not found, serving default variant only", path)
			return &Config{Variants: []Variant{DefaultVariant()}}, nil
		}
		return nil, fmt.Errorf("reading variants config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing variants config: %w", err)
	}
	if len(cfg.Variants) == 0 {
		return nil, fmt.Errorf("variants config %s declares no variants", path)
	}

	seen := map[string]bool{}
	for i, v := range cfg.Variants {
		if v.Name == "" {
			return nil, fmt.Errorf("variant %d has no name", i)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("duplicate variant name %q", v.Name)
		}
		seen[v.Name] = true

		if v.Center == [2]float64{} {
			cfg.Variants[i].Center = [2]float64{46.7, 2.5}
		}
		if v.Zoom == 0 {
			cfg.Variants[i].Zoom = 6
		}
	}
	return &cfg, nil
}

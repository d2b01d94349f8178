// Package dashboard wires the data pipeline behind the HTTP shell: it loads
// every flat file once at startup, keeps the enriched base collection and the
// isochrone cache injected (no ambient globals), and serves renderable map
// bundles per configured variant.
package dashboard

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/CarteSolidaire/CS-Backend/internal/boundary"
	"github.com/CarteSolidaire/CS-Backend/internal/establishment"
	"github.com/CarteSolidaire/CS-Backend/internal/indicator"
	"github.com/CarteSolidaire/CS-Backend/internal/isochrone"
	"github.com/CarteSolidaire/CS-Backend/internal/maplayer"
)

// Data-directory file names. The indicator CSV names live on their
// descriptors in internal/indicator.
const (
	EstablishmentsFile = "etablissements_categorized.csv"
	BoundariesFile     = "epci_2025_complete.geojson"
	ZonesFile          = "qpv_2024.geojson"
	CacheFile          = "isochrone_cache.json"
)

// App holds everything a render needs. All fields are loaded once at startup;
// establishments edited in a session live in the sessions map and never touch
// the base data.
type App struct {
	Establishments []establishment.Establishment
	Enriched       *geojson.FeatureCollection
	Zones          *geojson.FeatureCollection
	Store          *isochrone.Store
	Variants       []Variant

	mu       sync.RWMutex
	sessions map[string][]establishment.Establishment
}

// NewApp loads all flat files from dataDir and the variants config from
// configPath. Missing optional files degrade to absent layers; only a
// malformed boundary/config file is fatal to startup.
func NewApp(dataDir, configPath string) (*App, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	app := &App{
		Variants: cfg.Variants,
		Store:    isochrone.Open(filepath.Join(dataDir, CacheFile)),
		sessions: make(map[string][]establishment.Establishment),
	}

	app.Establishments, err = loadEstablishments(filepath.Join(dataDir, EstablishmentsFile))
	if err != nil {
		return nil, err
	}

	boundaries, err := boundary.LoadBoundaries(filepath.Join(dataDir, BoundariesFile))
	if err != nil {
		return nil, err
	}
	app.Zones, err = boundary.LoadPriorityZones(filepath.Join(dataDir, ZonesFile))
	if err != nil {
		return nil, err
	}

	if boundaries != nil {
		codes, names := boundary.ValidKeys(boundaries)
		tables := make([]*indicator.Table, 0, len(indicator.Defaults))
		for _, desc := range indicator.Defaults {
			table, err := indicator.LoadFile(desc, filepath.Join(dataDir, desc.File), codes, names)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
		app.Enriched = indicator.Enrich(boundaries, tables, boundary.CountByParent(app.Zones))
	}

	log.Printf("[dashboard] loaded %d establishments, %d boundary features, %d priority zones, %d cached isochrones",
		len(app.Establishments), featureCount(app.Enriched), featureCount(app.Zones), app.Store.Len())
	return app, nil
}

// Variant looks up a configured variant by name.
func (a *App) Variant(name string) (Variant, bool) {
	for _, v := range a.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Bundle assembles the renderable map for a variant. With a session id, the
// session's edited establishment table replaces the base one for this render.
func (a *App) Bundle(v Variant, sessionID string) *maplayer.Bundle {
	rows := a.Establishments
	if sessionID != "" {
		if edited, ok := a.Session(sessionID); ok {
			rows = edited
		}
	}
	return maplayer.Build(maplayer.BuildInput{
		Title:          v.Title,
		Center:         v.Center,
		Zoom:           v.Zoom,
		Establishments: rows,
		Enriched:       a.Enriched,
		Zones:          a.Zones,
		Store:          a.Store,
		Indicators:     v.Indicators,
		Toggles:        v.Layers,
	})
}

// Session returns the edited establishment table stored under id.
func (a *App) Session(id string) ([]establishment.Establishment, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rows, ok := a.sessions[id]
	return rows, ok
}

// PutSession stores an edited establishment table under id.
func (a *App) PutSession(id string, rows []establishment.Establishment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[id] = rows
}

func loadEstablishments(path string) ([]establishment.Establishment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[dashboard] %s not found, marker layer unavailable", path)
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := establishment.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return rows, nil
}

func featureCount(fc *geojson.FeatureCollection) int {
	if fc == nil {
		return 0
	}
	return len(fc.Features)
}

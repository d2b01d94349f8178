package maplayer

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/CarteSolidaire/CS-Backend/internal/choropleth"
	"github.com/CarteSolidaire/CS-Backend/internal/establishment"
	"github.com/CarteSolidaire/CS-Backend/internal/indicator"
	"github.com/CarteSolidaire/CS-Backend/internal/isochrone"
)

// Toggles selects which layer groups a variant includes.
type Toggles struct {
	Markers    bool `yaml:"markers"`
	Zones      bool `yaml:"priority_zones"`
	ZoneCounts bool `yaml:"zone_counts"`
	Isochrones bool `yaml:"isochrones"`
}

// BuildInput carries everything one bundle is assembled from. All data fields
// are optional: a missing source just omits its layers.
type BuildInput struct {
	Title          string
	Center         [2]float64
	Zoom           int
	Establishments []establishment.Establishment
	Enriched       *geojson.FeatureCollection
	Zones          *geojson.FeatureCollection
	Store          *isochrone.Store
	Indicators     []string
	Toggles        Toggles
}

// Build assembles a renderable bundle. Layer order is deterministic:
// zone-count choropleth, priority zones, indicator choropleths in config
// order, driving then walking travel-time bands by ascending duration, and
// the marker layer last (the only one shown by default).
func Build(in BuildInput) *Bundle {
	b := &Bundle{
		Title:  in.Title,
		Center: in.Center,
		Zoom:   in.Zoom,
		Stats: Stats{
			Total:      len(in.Establishments),
			ByCategory: establishment.CountByMainCategory(in.Establishments),
		},
	}

	if in.Toggles.ZoneCounts && in.Enriched != nil {
		if layer := zoneCountLayer(in.Enriched); layer != nil {
			b.Layers = append(b.Layers, *layer)
		}
	}
	if in.Toggles.Zones && in.Zones != nil {
		b.Layers = append(b.Layers, Layer{
			Name:      "QPV",
			Kind:      KindZones,
			FillColor: zoneFillColor,
			Features:  in.Zones,
			Tooltip:   []string{"lib_qp", "lib_com"},
		})
	}
	if in.Enriched != nil {
		for _, name := range in.Indicators {
			def, ok := IndicatorLayers[name]
			if !ok {
				log.Printf("[maplayer] unknown indicator %q in config, skipping", name)
				continue
			}
			if layer := choroplethLayer(in.Enriched, def); layer != nil {
				b.Layers = append(b.Layers, *layer)
			}
		}
	}
	if in.Toggles.Isochrones && in.Store != nil {
		b.Layers = append(b.Layers, isochroneLayers(in.Store, in.Establishments)...)
	}
	if in.Toggles.Markers {
		b.Layers = append(b.Layers, markerLayer(in.Establishments))
	}

	return b
}

// zoneCountLayer renders units that contain at least one priority zone,
// colored by how many they contain.
func zoneCountLayer(enriched *geojson.FeatureCollection) *Layer {
	fc := geojson.NewFeatureCollection()
	var values []float64
	for _, f := range enriched.Features {
		v, ok := indicator.NumericProperty(f, "qpv_count")
		if !ok || v <= 0 {
			continue
		}
		fc.Append(f)
		values = append(values, v)
	}
	if len(fc.Features) == 0 {
		return nil
	}

	scale := choropleth.NewScale(values, choropleth.PaletteReds)
	return &Layer{
		Name:     "EPCI par nb QPV",
		Kind:     KindChoropleth,
		Features: paintFeatures(fc, "qpv_count", scale),
		Scale:    &scale,
		Legend:   scaleLegend(scale),
		Tooltip:  []string{"libgeo", "qpv_count"},
	}
}

// choroplethLayer renders one indicator attribute. Units without the
// attribute are left out of the layer entirely; they are "no data", not zero.
func choroplethLayer(enriched *geojson.FeatureCollection, def IndicatorLayer) *Layer {
	fc := geojson.NewFeatureCollection()
	var values []float64
	for _, f := range enriched.Features {
		v, ok := indicator.NumericProperty(f, def.Attribute)
		if !ok {
			continue
		}
		fc.Append(f)
		values = append(values, v)
	}
	if len(fc.Features) == 0 {
		return nil
	}

	scale := choropleth.NewScale(values, def.Palette)
	return &Layer{
		Name:     def.Name,
		Kind:     KindChoropleth,
		Features: paintFeatures(fc, def.Attribute, scale),
		Scale:    &scale,
		Legend:   scaleLegend(scale),
		Tooltip:  []string{"libgeo", def.Attribute},
	}
}

// paintFeatures copies each feature (geometry shared, properties cloned) and
// bakes the bin color into a "fill" property. The enriched base collection is
// never written to.
func paintFeatures(fc *geojson.FeatureCollection, attr string, scale choropleth.Scale) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, src := range fc.Features {
		f := geojson.NewFeature(src.Geometry)
		f.Properties = src.Properties.Clone()
		if v, ok := indicator.NumericProperty(src, attr); ok {
			f.Properties["fill"] = scale.Color(v)
		} else {
			f.Properties["fill"] = choropleth.NoDataColor
		}
		out.Append(f)
	}
	return out
}

func scaleLegend(scale choropleth.Scale) []LegendEntry {
	legend := make([]LegendEntry, 0, len(scale.Colors)+1)
	for i, color := range scale.Colors {
		label := ""
		switch {
		case i == 0 && len(scale.Breaks) > 0:
			label = fmt.Sprintf("≤ %g", scale.Breaks[0])
		case i < len(scale.Breaks):
			label = fmt.Sprintf("%g – %g", scale.Breaks[i-1], scale.Breaks[i])
		case len(scale.Breaks) > 0:
			label = fmt.Sprintf("> %g", scale.Breaks[len(scale.Breaks)-1])
		}
		legend = append(legend, LegendEntry{Label: label, Color: color})
	}
	legend = append(legend, LegendEntry{Label: "Pas de données", Color: choropleth.NoDataColor})
	return legend
}

// site is a unique fetch location shared by all establishments at the same
// rounded coordinate.
type site struct {
	lat, lng float64
	titles   []string
}

func uniqueSites(rows []establishment.Establishment) []site {
	index := make(map[string]*site)
	var order []string
	for _, row := range rows {
		key := fmt.Sprintf("%.6f_%.6f", row.Lat, row.Lng)
		s, ok := index[key]
		if !ok {
			s = &site{lat: row.Lat, lng: row.Lng}
			index[key] = s
			order = append(order, key)
		}
		s.titles = append(s.titles, row.Title)
	}
	sort.Strings(order)

	sites := make([]site, 0, len(order))
	for _, key := range order {
		sites = append(sites, *index[key])
	}
	return sites
}

func (s site) label() string {
	if len(s.titles) == 1 {
		return s.titles[0]
	}
	return fmt.Sprintf("%s (+%d)", s.titles[0], len(s.titles)-1)
}

// isochroneLayers builds one layer per (mode, duration) band from cached
// polygons. Bands with no cached entry for any site are omitted.
func isochroneLayers(store *isochrone.Store, rows []establishment.Establishment) []Layer {
	sites := uniqueSites(rows)

	var layers []Layer
	build := func(mode, icon string, durations []int, colors map[int]string) {
		for _, seconds := range durations {
			fc := geojson.NewFeatureCollection()
			for _, s := range sites {
				entry, ok := store.Get(isochrone.NewKey(s.lat, s.lng, seconds, mode))
				if !ok {
					continue
				}
				f, err := entryFeature(entry)
				if err != nil {
					log.Printf("[maplayer] unreadable cache entry for %s: %v", s.label(), err)
					continue
				}
				f.Properties["name"] = s.label()
				fc.Append(f)
			}
			if len(fc.Features) == 0 {
				continue
			}
			layers = append(layers, Layer{
				Name:      fmt.Sprintf("%s %d min", icon, seconds/60),
				Kind:      KindIsochrones,
				FillColor: colors[seconds],
				Features:  fc,
				Tooltip:   []string{"name"},
			})
		}
	}

	build(isochrone.ModeDriving, "🚗", isochrone.DrivingDurations, drivingBandColors)
	build(isochrone.ModeWalking, "🚶", isochrone.WalkingDurations, walkingBandColors)
	return layers
}

// entryFeature decodes one cache entry: either a raw polygon coordinate
// array or a feature collection written by older tooling.
func entryFeature(entry json.RawMessage) (*geojson.Feature, error) {
	var poly orb.Polygon
	if err := json.Unmarshal(entry, &poly); err == nil && len(poly) > 0 {
		f := geojson.NewFeature(poly)
		f.Properties = geojson.Properties{}
		return f, nil
	}
	fc, err := geojson.UnmarshalFeatureCollection(entry)
	if err != nil {
		return nil, fmt.Errorf("cache entry is neither polygon coordinates nor a feature collection: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("cache entry feature collection is empty")
	}
	f := geojson.NewFeature(fc.Features[0].Geometry)
	f.Properties = geojson.Properties{}
	return f, nil
}

func markerLayer(rows []establishment.Establishment) Layer {
	markers := make([]Marker, 0, len(rows))
	for _, row := range rows {
		markers = append(markers, Marker{
			Title:        row.Title,
			Category:     row.Category,
			MainCategory: establishment.MainCategory(row.Category),
			Color:        establishment.MarkerColor(row.Category),
			Lat:          row.Lat,
			Lng:          row.Lng,
		})
	}
	return Layer{
		Name:    "Établissements",
		Kind:    KindMarkers,
		Show:    true,
		Markers: markers,
	}
}

// Package maplayer composes filtered, joined and classified data into a
// renderable layered-map bundle. Rendering itself is the frontend's job; the
// bundle carries everything it needs: features, marker rows, colors, legends.
package maplayer

import (
	"github.com/paulmach/orb/geojson"

	"github.com/CarteSolidaire/CS-Backend/internal/choropleth"
)

// Layer kinds.
const (
	KindMarkers    = "markers"
	KindChoropleth = "choropleth"
	KindZones      = "zones"
	KindIsochrones = "isochrones"
)

// Marker is one establishment pin.
type Marker struct {
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	MainCategory string  `json:"main_category"`
	Color        string  `json:"color"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// LegendEntry is one swatch in a layer legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Layer is one independently toggleable map layer.
type Layer struct {
	Name      string                     `json:"name"`
	Kind      string                     `json:"kind"`
	Show      bool                       `json:"show"`
	FillColor string                     `json:"fill_color,omitempty"`
	Markers   []Marker                   `json:"markers,omitempty"`
	Features  *geojson.FeatureCollection `json:"features,omitempty"`
	Scale     *choropleth.Scale          `json:"scale,omitempty"`
	Legend    []LegendEntry              `json:"legend,omitempty"`
	Tooltip   []string                   `json:"tooltip,omitempty"`
}

// Stats is the sidebar block: total facilities and per-family counts.
type Stats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
}

// Bundle is a complete renderable map.
type Bundle struct {
	Title  string     `json:"title"`
	Center [2]float64 `json:"center"`
	Zoom   int        `json:"zoom"`
	Layers []Layer    `json:"layers"`
	Stats  Stats      `json:"stats"`
}

// IndicatorLayer describes how one enriched attribute renders as a
// choropleth.
type IndicatorLayer struct {
	Attribute string
	Name      string
	Palette   []string
}

// IndicatorLayers maps indicator names from the variant config to their
// layer rendering.
var IndicatorLayers = map[string]IndicatorLayer{
	"chomage":      {Attribute: "chomage_T", Name: "Taux chômage (INSEE) 2022", Palette: choropleth.PaletteBlues},
	"pauvrete":     {Attribute: "taux_pauvrete", Name: "Taux pauvreté (INSEE) 2022", Palette: choropleth.PaletteOranges},
	"neets":        {Attribute: "neets", Name: "Part NEETs 15-24 (INSEE) 2022", Palette: choropleth.PalettePurples},
	"sans_diplome": {Attribute: "sans_diplome_T", Name: "Part +15 ans sans diplôme (INSEE) 2022", Palette: choropleth.PaletteGreens},
}

// Travel-time band fill colors, keyed by duration in seconds.
var (
	drivingBandColors = map[int]string{
		600: "#a6cee3", 900: "#6baed6", 1800: "#1f78b4",
		2400: "#b2df8a", 2700: "#33a02c", 3600: "#fb9a99",
	}
	walkingBandColors = map[int]string{600: "#a1d99b", 900: "#31a354"}
)

// zoneFillColor fills the priority-zone polygons.
const zoneFillColor = "#2d1b4e"

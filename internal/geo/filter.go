package geo

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Mainland bounding box, inclusive. Covers metropolitan France including
// Corsica; every overseas territory falls well outside it.
const (
	MinLat = 41.0
	MaxLat = 52.0
	MinLng = -6.0
	MaxLng = 10.0
)

// overseasKeywords flags EPCI names that belong to overseas territories.
// Substring match, case/accent variants listed explicitly because the source
// file itself is inconsistent about accents.
var overseasKeywords = []string{
	"guadeloupe", "martinique", "guyane", "mayotte", "réunion", "reunion",
	"levant", "saint-martin", "saint-pierre", "basse-terre", "caraïbe",
	"caraibe", "cap excellence", "grande-terre", "marie-galante", "savanes",
	"dembeni", "petite-terre", "centre ouest", "nord grande",
}

// overseasExactNames are generic names that only designate overseas units but
// are too short for safe substring matching.
var overseasExactNames = map[string]struct{}{
	"CC du Sud":          {},
	"CC du Centre Ouest": {},
	"CC du Centre-Ouest": {},
}

// overseasCodePrefixes are EPCI code prefixes of overseas groupings.
var overseasCodePrefixes = []string{
	"24971", "24972", "24973", "24974", "24976", "249720", "249730", "249740",
}

// InMainlandBBox reports whether a point lies in the metropolitan bounding
// box. Bounds are inclusive.
func InMainlandBBox(lat, lng float64) bool {
	return lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng
}

// IsMainlandDept reports whether a department code denotes metropolitan
// France. Overseas departments use 3-character codes (971...); the "2" prefix
// keeps the Corsican codes 2A/2B.
func IsMainlandDept(code string) bool {
	if code == "" {
		return false
	}
	return len(code) <= 2 || strings.HasPrefix(code, "2")
}

// IsOverseasCode reports whether an EPCI code is on the overseas prefix list.
func IsOverseasCode(code string) bool {
	if code == "" {
		return false
	}
	for _, p := range overseasCodePrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// IsOverseasName reports whether an EPCI display name designates an overseas
// grouping.
func IsOverseasName(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := overseasExactNames[name]; ok {
		return true
	}
	lower := strings.ToLower(name)
	for _, kw := range overseasKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MainlandFeature decides whether a boundary feature belongs to metropolitan
// France. No single source field is reliable, so three independent checks are
// chained: name exclusion, code exclusion, then the first geometry vertex
// against the bounding box. A feature is mainland only if it passes all
// applicable checks.
func MainlandFeature(f *geojson.Feature) bool {
	if f == nil {
		return false
	}
	if IsOverseasName(f.Properties.MustString("libgeo", "")) {
		return false
	}
	if IsOverseasCode(f.Properties.MustString("codgeo", "")) {
		return false
	}
	switch geom := f.Geometry.(type) {
	case orb.Polygon:
		if len(geom) == 0 || len(geom[0]) == 0 {
			return false
		}
		pt := geom[0][0]
		return InMainlandBBox(pt.Lat(), pt.Lon())
	case orb.MultiPolygon:
		if len(geom) == 0 || len(geom[0]) == 0 || len(geom[0][0]) == 0 {
			return false
		}
		pt := geom[0][0][0]
		return InMainlandBBox(pt.Lat(), pt.Lon())
	case nil:
		return false
	default:
		// Non-polygonal geometry: the name/code checks already passed.
		return true
	}
}

// Package boundary loads the geographic reference files: the EPCI boundary
// FeatureCollection (source of truth for which units exist) and the QPV
// priority-zone polygons counted per parent EPCI.
package boundary

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/CarteSolidaire/CS-Backend/internal/geo"
)

// coordPrecision is the number of decimals kept on loaded geometry. Three
// decimals (~100m) is plenty for a country-scale choropleth and shrinks the
// rendered payload considerably.
const coordPrecision = 3

// LoadBoundaries reads the EPCI boundary file and keeps only mainland
// features carrying both codgeo and libgeo. A missing file is not an error:
// the layer is simply unavailable.
func LoadBoundaries(path string) (*geojson.FeatureCollection, error) {
	fc, err := loadFeatureCollection(path)
	if fc == nil || err != nil {
		return nil, err
	}

	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		if f.Properties.MustString("codgeo", "") == "" || f.Properties.MustString("libgeo", "") == "" {
			log.Printf("[boundary] skipping feature without codgeo/libgeo")
			continue
		}
		if !geo.MainlandFeature(f) {
			continue
		}
		f.Geometry = simplifyGeometry(f.Geometry)
		out.Append(f)
	}
	return out, nil
}

// LoadPriorityZones reads the QPV file and keeps zones whose department code
// denotes metropolitan France. A missing file is not an error.
func LoadPriorityZones(path string) (*geojson.FeatureCollection, error) {
	fc, err := loadFeatureCollection(path)
	if fc == nil || err != nil {
		return nil, err
	}

	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		if !geo.IsMainlandDept(f.Properties.MustString("insee_dep", "")) {
			continue
		}
		f.Geometry = simplifyGeometry(f.Geometry)
		out.Append(f)
	}
	return out, nil
}

// CountByParent tallies priority zones per parent EPCI code (siren_epci).
func CountByParent(zones *geojson.FeatureCollection) map[string]int {
	counts := make(map[string]int)
	if zones == nil {
		return counts
	}
	for _, f := range zones.Features {
		if code := f.Properties.MustString("siren_epci", ""); code != "" {
			counts[code]++
		}
	}
	return counts
}

// ValidKeys returns the code set and normalized-name set of a boundary
// collection. Indicator rows outside these sets do not correspond to an
// existing unit and are dropped by the loader.
func ValidKeys(fc *geojson.FeatureCollection) (codes map[string]bool, names map[string]bool) {
	codes = make(map[string]bool)
	names = make(map[string]bool)
	if fc == nil {
		return codes, names
	}
	for _, f := range fc.Features {
		codes[f.Properties.MustString("codgeo", "")] = true
		names[geo.NormalizeName(f.Properties.MustString("libgeo", ""))] = true
	}
	return codes, names
}

func loadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[boundary] %s not found, layer unavailable", path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fc, nil
}

func roundCoord(v float64) float64 {
	shift := math.Pow10(coordPrecision)
	return math.Round(v*shift) / shift
}

func roundPoint(p orb.Point) orb.Point {
	return orb.Point{roundCoord(p[0]), roundCoord(p[1])}
}

// simplifyGeometry rounds every vertex of a polygonal geometry in place.
// Other geometry types are returned untouched.
func simplifyGeometry(g orb.Geometry) orb.Geometry {
	switch geom := g.(type) {
	case orb.Polygon:
		for i, ring := range geom {
			for j, pt := range ring {
				geom[i][j] = roundPoint(pt)
			}
		}
		return geom
	case orb.MultiPolygon:
		for i, poly := range geom {
			for j, ring := range poly {
				for k, pt := range ring {
					geom[i][j][k] = roundPoint(pt)
				}
			}
		}
		return geom
	default:
		return g
	}
}

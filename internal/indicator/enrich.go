package indicator

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/CarteSolidaire/CS-Backend/internal/geo"
)

// Enrich merges indicator tables and priority-zone counts onto boundary
// features. The input collection is never mutated: every feature is deep
// copied (geometry cloned, properties cloned) so the shared base data stays
// pristine across renders. Units without a value for an indicator get no
// property at all, which is how downstream layers tell "no data" from 0.
func Enrich(boundaries *geojson.FeatureCollection, tables []*Table, zoneCounts map[string]int) *geojson.FeatureCollection {
	if boundaries == nil {
		return nil
	}

	out := geojson.NewFeatureCollection()
	for _, src := range boundaries.Features {
		f := geojson.NewFeature(orb.Clone(src.Geometry))
		f.Properties = src.Properties.Clone()

		code := f.Properties.MustString("codgeo", "")
		name := geo.NormalizeName(f.Properties.MustString("libgeo", ""))

		f.Properties["qpv_count"] = zoneCounts[code]

		for _, table := range tables {
			if table == nil {
				continue
			}
			key := code
			if table.Desc.JoinKey == JoinByName {
				key = name
			}
			for attr, value := range table.Rows[key] {
				f.Properties[attr] = value
			}
		}
		out.Append(f)
	}
	return out
}

// Values collects the attribute values present on a collection, in feature
// order. Features without the attribute are skipped, not zero-filled.
func Values(fc *geojson.FeatureCollection, attr string) []float64 {
	var values []float64
	if fc == nil {
		return values
	}
	for _, f := range fc.Features {
		if v, ok := NumericProperty(f, attr); ok {
			values = append(values, v)
		}
	}
	return values
}

// NumericProperty reads a numeric property, tolerating the int that Enrich
// writes for zone counts alongside the float64s from JSON decoding.
func NumericProperty(f *geojson.Feature, attr string) (float64, bool) {
	switch v := f.Properties[attr].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

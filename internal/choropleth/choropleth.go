// Package choropleth computes rank-position quantile breaks and maps values
// to a discrete color scale.
package choropleth

import "sort"

// NoDataColor fills units that carry no value for the displayed indicator.
// It is distinct from every palette color so "no data" never reads as a bin.
const NoDataColor = "#cccccc"

// Seven-class sequential palettes, one per indicator family.
var (
	PaletteReds    = []string{"#fee5d9", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#99000d"}
	PaletteBlues   = []string{"#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#084594"}
	PaletteOranges = []string{"#feedde", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#8c2d04"}
	PalettePurples = []string{"#f2f0f7", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#4a1486"}
	PaletteGreens  = []string{"#edf8e9", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#005a32"}
)

// Breaks computes bins-1 breakpoints over values using rank positions
// floor(n*i/bins), clamped to the value range. This is quantile-by-position,
// not interpolated quantiles: ties and small n yield repeated breakpoints,
// which the scale tolerates. The input slice is not modified; the copy is
// sorted explicitly so the result never depends on caller ordering.
func Breaks(values []float64, bins int) []float64 {
	if len(values) == 0 || bins < 2 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	breaks := make([]float64, 0, bins-1)
	for i := 1; i < bins; i++ {
		pos := n * i / bins
		if pos > n-1 {
			pos = n - 1
		}
		breaks = append(breaks, sorted[pos])
	}
	return breaks
}

// Scale assigns colors to values via precomputed breakpoints. The zero value
// is unusable; build one with NewScale.
type Scale struct {
	Breaks []float64 `json:"breaks"`
	Colors []string  `json:"colors"`
}

// NewScale computes a scale over values with one bin per palette color.
func NewScale(values []float64, colors []string) Scale {
	return Scale{Breaks: Breaks(values, len(colors)), Colors: colors}
}

// Color returns the fill color for v: the first bin whose breakpoint is >= v,
// or the last bin when v exceeds all breakpoints.
func (s Scale) Color(v float64) string {
	for i, threshold := range s.Breaks {
		if v <= threshold {
			return s.Colors[i]
		}
	}
	return s.Colors[len(s.Colors)-1]
}

// Package establishment loads, validates and exports the facility table
// shown as the marker layer.
package establishment

import "strings"

// Establishment is one facility row from the source CSV.
type Establishment struct {
	Title    string
	Category string
	Lat      float64
	Lng      float64
	// AgeBands holds the optional per-age-band boolean columns, keyed by
	// column name.
	AgeBands map[string]bool
}

// Main category labels for the sidebar and the fallback palette.
const (
	CatFormation  = "Formation"
	CatProtection = "Protection de l'enfance"
	CatInsertion  = "Insertion"
	CatParenting  = "Parentalité"
	CatOther      = "Autre"
)

// MainCategory collapses a free-text category into one of the five main
// families. Substring matching because the source data spells the full
// categories inconsistently.
func MainCategory(category string) string {
	lower := strings.ToLower(category)
	switch {
	case strings.Contains(lower, "formation"):
		return CatFormation
	case strings.Contains(lower, "protection"):
		return CatProtection
	case strings.Contains(lower, "insertion"):
		return CatInsertion
	case strings.Contains(lower, "parent"):
		return CatParenting
	default:
		return CatOther
	}
}

// categoryColors maps the ~14 known full category strings to marker colors.
// Keys reproduce the source data verbatim, typos included.
var categoryColors = map[string]string{
	"Formation : 1ier deg":                         "#74b9ff",
	"Formation : College":                          "#0984e3",
	"Formation : Lycee pro":                        "#0652DD",
	"Formation : Lycee pro agricole":               "#1B1464",
	"Formation : Post-bac":                         "#0c2461",
	"Protection de l'enfance : MECs MNA":           "#ff7675",
	"Protection de l'enfance : MECs Fratrie":       "#d63031",
	"Protection de l'enfance : MECs AEMO":          "#b71540",
	"Protection de l'enfance : MECs Semi autnomie": "#6F1E51",
	"Insertion: Dispo insertion":                   "#a29bfe",
	"Inserttion : IAE":                             "#6c5ce7",
	"Parentialité : Maison des familles":           "#55efc4",
	"Parentalité : Creches":                        "#00b894",
	"Parentalité : Autres dispositifs parentalité": "#006266",
}

var mainCategoryColors = map[string]string{
	CatFormation:  "#0984e3",
	CatProtection: "#d63031",
	CatInsertion:  "#6c5ce7",
	CatParenting:  "#00b894",
	CatOther:      "#636e72",
}

const defaultColor = "#636e72"

// MarkerColor picks the marker color for a category: exact match first, then
// the main-family color, then grey.
func MarkerColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	if c, ok := mainCategoryColors[MainCategory(category)]; ok {
		return c
	}
	return defaultColor
}

// MainCategoryColor returns the color of a main category family.
func MainCategoryColor(mainCategory string) string {
	if c, ok := mainCategoryColors[mainCategory]; ok {
		return c
	}
	return defaultColor
}

// CountByMainCategory tallies rows per main category for the sidebar stats.
func CountByMainCategory(rows []Establishment) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[MainCategory(row.Category)]++
	}
	return counts
}

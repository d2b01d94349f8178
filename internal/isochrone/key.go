// Package isochrone persists precomputed travel-time polygons and fetches
// missing ones from the openrouteservice isochrone API. The core pipeline
// never computes isochrones itself; it only consumes what this cache holds.
package isochrone

import (
	"fmt"
	"math"
)

// Travel modes understood by the cache and the API client.
const (
	ModeDriving = "driving-car"
	ModeWalking = "foot-walking"
)

// Key identifies one cached isochrone. Coordinates are rounded to 6 decimals
// so establishments at the same address share an entry regardless of float
// noise in the source CSV.
type Key struct {
	Lat     float64
	Lng     float64
	Seconds int
	Mode    string
}

// NewKey builds a key with the coordinate rounding applied.
func NewKey(lat, lng float64, seconds int, mode string) Key {
	return Key{Lat: round6(lat), Lng: round6(lng), Seconds: seconds, Mode: mode}
}

// String renders the on-disk map key: "{lat}_{lng}_{seconds}_{mode}" with
// coordinates fixed to 6 decimal places.
func (k Key) String() string {
	return fmt.Sprintf("%.6f_%.6f_%d_%s", k.Lat, k.Lng, k.Seconds, k.Mode)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

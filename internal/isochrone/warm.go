package isochrone

import (
	"context"
	"log"
)

// Point is a fetch location plus a label for progress logs.
type Point struct {
	Label string
	Lat   float64
	Lng   float64
}

// Durations of the dashboard's travel-time bands, per mode, in seconds.
var (
	DrivingDurations = []int{600, 900, 1800, 2400, 2700, 3600}
	WalkingDurations = []int{600, 900}
)

// Warm fetches every (point, duration, mode) combination missing from the
// store and persists each result as it arrives. A failed lookup is logged and
// skipped; it never aborts the run. With a nil client (no API token) Warm is
// a no-op beyond reporting what is missing.
func Warm(ctx context.Context, store *Store, client *Client, points []Point, modes map[string][]int) (fetched, missing int, err error) {
	for mode, durations := range modes {
		for _, seconds := range durations {
			for _, p := range points {
				key := NewKey(p.Lat, p.Lng, seconds, mode)
				if _, ok := store.Get(key); ok {
					continue
				}
				missing++
				if client == nil {
					continue
				}

				entry, ferr := client.Isochrone(ctx, p.Lat, p.Lng, seconds, mode)
				if ferr != nil {
					log.Printf("[isochrone] %s (%s, %ds): %v", p.Label, mode, seconds, ferr)
					if ctx.Err() != nil {
						return fetched, missing, ctx.Err()
					}
					continue
				}
				if perr := store.Put(key, entry); perr != nil {
					return fetched, missing, perr
				}
				fetched++
			}
		}
	}
	return fetched, missing, nil
}

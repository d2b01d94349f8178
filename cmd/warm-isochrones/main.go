// warm-isochrones prefetches missing travel-time polygons into the cache
// file. Requires ORS_API_KEY; without it the tool only reports what is
// missing.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/CarteSolidaire/CS-Backend/internal/dashboard"
	"github.com/CarteSolidaire/CS-Backend/internal/establishment"
	"github.com/CarteSolidaire/CS-Backend/internal/isochrone"
)

func main() {
	godotenv.Load(".env.local")

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	f, err := os.Open(filepath.Join(dataDir, dashboard.EstablishmentsFile))
	if err != nil {
		log.Fatalf("Opening establishments: %v", err)
	}
	rows, err := establishment.LoadCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("Loading establishments: %v", err)
	}

	store := isochrone.Open(filepath.Join(dataDir, dashboard.CacheFile))
	fmt.Printf("Loaded %d establishments, %d cached isochrones\n", len(rows), store.Len())

	client := isochrone.NewClientFromEnv()
	if client == nil {
		fmt.Println("ORS_API_KEY not set: reporting missing entries only, no fetching")
	}

	points := make([]isochrone.Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, isochrone.Point{Label: row.Title, Lat: row.Lat, Lng: row.Lng})
	}

	modes := map[string][]int{
		isochrone.ModeDriving: isochrone.DrivingDurations,
		isochrone.ModeWalking: isochrone.WalkingDurations,
	}

	fetched, missing, err := isochrone.Warm(context.Background(), store, client, points, modes)
	if err != nil {
		log.Fatalf("Warming cache: %v", err)
	}

	fmt.Printf("✓ Done: %d missing, %d fetched, cache now holds %d entries\n", missing, fetched, store.Len())
}

// generate-map builds the full layer bundle for one variant and writes it to
// a JSON file, for static deployments that serve the map without the backend.
//
// Usage: generate-map [-variant national] [-out map_bundle.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/CarteSolidaire/CS-Backend/internal/dashboard"
)

func main() {
	godotenv.Load(".env.local")

	variantName := flag.String("variant", "national", "variant to render")
	outPath := flag.String("out", "map_bundle.json", "output file")
	flag.Parse()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	configPath := os.Getenv("VARIANTS_CONFIG")
	if configPath == "" {
		configPath = "variants.yaml"
	}

	app, err := dashboard.NewApp(dataDir, configPath)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	v, ok := app.Variant(*variantName)
	if !ok {
		log.Fatalf("Unknown variant %q", *variantName)
	}

	fmt.Println("Building map bundle...")
	bundle := app.Bundle(v, "")

	data, err := json.Marshal(bundle)
	if err != nil {
		log.Fatalf("Encoding bundle: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("Writing %s: %v", *outPath, err)
	}

	fmt.Printf("✓ Wrote %s (%d layers, %.2f MB)\n", *outPath, len(bundle.Layers), float64(len(data))/(1024*1024))
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/CarteSolidaire/CS-Backend/internal/dashboard"
	"github.com/CarteSolidaire/CS-Backend/internal/middleware"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
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
		log.Fatalf("Failed to load dashboard data: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Mount("/carte", dashboard.SetupRoutes(app))

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}

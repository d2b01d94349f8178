package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the dashboard API on a fresh router.
func SetupRoutes(app *App) http.Handler {
	r := chi.NewRouter()

	r.Get("/variants", app.GetVariants)
	r.Get("/map/{variant}", app.GetMap)
	r.Get("/stats", app.GetStats)

	r.Post("/establishments", app.UploadEstablishments)
	r.Get("/establishments/{id}/export", app.ExportEstablishments)

	r.Get("/isochrones/cache/stats", app.GetCacheStats)
	r.Delete("/isochrones/cache", app.ClearCache)

	return r
}

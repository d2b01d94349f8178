package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/CarteSolidaire/CS-Backend/internal/establishment"
)

// variantSummary is the /variants listing entry.
type variantSummary struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// GetVariants lists the configured dashboard variants.
func (a *App) GetVariants(w http.ResponseWriter, r *http.Request) {
	out := make([]variantSummary, 0, len(a.Variants))
	for _, v := range a.Variants {
		out = append(out, variantSummary{Name: v.Name, Title: v.Title})
	}
	writeJSON(w, out)
}

// GetMap renders the full layer bundle for one variant. An optional ?session=
// query renders the session's edited establishment table instead of the base
// one.
func (a *App) GetMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "variant")
	v, ok := a.Variant(name)
	if !ok {
		http.Error(w, "Unknown variant: "+name, http.StatusNotFound)
		return
	}
	writeJSON(w, a.Bundle(v, r.URL.Query().Get("session")))
}

// GetStats serves the sidebar statistics block.
func (a *App) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"total":       len(a.Establishments),
		"by_category": establishment.CountByMainCategory(a.Establishments),
	})
}

// UploadEstablishments accepts an edited establishment CSV in the request
// body and stores it under a fresh session id. Validation failures reject the
// whole upload; nothing is partially ingested.
func (a *App) UploadEstablishments(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	rows, err := establishment.LoadCSV(r.Body)
	if err != nil {
		http.Error(w, "Invalid establishment table: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	a.PutSession(id, rows)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"session_id": id, "rows": len(rows)})
}

// ExportEstablishments downloads a session's edited table as CSV, in the same
// schema it was uploaded in.
func (a *App) ExportEstablishments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rows, ok := a.Session(id)
	if !ok {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := establishment.WriteCSV(&buf, rows); err != nil {
		http.Error(w, "Export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=etablissements_%s.csv", id))
	w.Write(buf.Bytes())
}

// GetCacheStats reports the isochrone cache size.
func (a *App) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"entries": a.Store.Len()})
}

// ClearCache drops every cached isochrone. This is the only deletion path the
// cache has.
func (a *App) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Clear(); err != nil {
		http.Error(w, "Failed to clear cache: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

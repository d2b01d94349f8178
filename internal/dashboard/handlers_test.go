package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"codgeo": "200054781", "libgeo": "Métropole Test"},
      "geometry": {"type": "Polygon", "coordinates": [[[5.4, 43.3], [5.5, 43.3], [5.4, 43.4], [5.4, 43.3]]]}
    }
  ]
}`

const testZones = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"insee_dep": "13", "siren_epci": "200054781", "lib_qp": "Quartier Test", "lib_com": "Marseille"}, "geometry": {"type": "Polygon", "coordinates": [[[5.4, 43.3], [5.41, 43.3], [5.4, 43.31], [5.4, 43.3]]]}}
  ]
}`

const testEstablishments = `title,categorie,lat,lng
Site Marseille,Formation : College,43.3,5.4
`

func testApp(t *testing.T) *App {
	t.Helper()
	dataDir := t.TempDir()
	files := map[string]string{
		EstablishmentsFile:       testEstablishments,
		BoundariesFile:           testBoundaries,
		ZonesFile:                testZones,
		"taux_chomage_epci.csv":  "codgeo,libgeo,sexe,tx_chom1564\n200054781,Métropole Test,T,12.5\n",
		"taux_pauvrete_epci.csv": "libgeo,taux_pauvrete\nMétropole Test,18.0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	app, err := NewApp(dataDir, filepath.Join(dataDir, "variants.yaml"))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestGetMap(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(SetupRoutes(app))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/map/national")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /map/national = %d", resp.StatusCode)
	}

	var bundle struct {
		Title  string `json:"title"`
		Layers []struct {
			Name    string `json:"name"`
			Kind    string `json:"kind"`
			Show    bool   `json:"show"`
			Markers []struct {
				Color        string `json:"color"`
				MainCategory string `json:"main_category"`
			} `json:"markers"`
		} `json:"layers"`
		Stats struct {
			Total      int            `json:"total"`
			ByCategory map[string]int `json:"by_category"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		t.Fatalf("decoding bundle: %v", err)
	}

	var markerLayer *struct {
		Name    string `json:"name"`
		Kind    string `json:"kind"`
		Show    bool   `json:"show"`
		Markers []struct {
			Color        string `json:"color"`
			MainCategory string `json:"main_category"`
		} `json:"markers"`
	}
	for i := range bundle.Layers {
		if bundle.Layers[i].Kind == "markers" {
			markerLayer = &bundle.Layers[i]
		}
	}
	if markerLayer == nil {
		t.Fatal("bundle has no marker layer")
	}
	if len(markerLayer.Markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markerLayer.Markers))
	}
	if markerLayer.Markers[0].Color != "#0984e3" {
		t.Errorf("marker color = %s, want #0984e3", markerLayer.Markers[0].Color)
	}
	if bundle.Stats.ByCategory["Formation"] != 1 {
		t.Errorf("Formation count = %d, want 1", bundle.Stats.ByCategory["Formation"])
	}

	// The enriched layers are present: zone counts + the configured indicators
	// with data (chomage, pauvrete) + zones + markers.
	names := make(map[string]bool)
	for _, l := range bundle.Layers {
		names[l.Name] = true
	}
	for _, want := range []string{"EPCI par nb QPV", "QPV", "Taux chômage (INSEE) 2022", "Taux pauvreté (INSEE) 2022", "Établissements"} {
		if !names[want] {
			t.Errorf("bundle missing layer %q (has %v)", want, names)
		}
	}
}

func TestGetMapUnknownVariant(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(SetupRoutes(app))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/map/inconnu")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown variant = %d, want 404", resp.StatusCode)
	}
}

func TestUploadAndExport(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(SetupRoutes(app))
	defer srv.Close()

	body := "title,categorie,lat,lng\nNouveau Site,Parentalité : Creches,48.85,2.35\n"
	resp, err := http.Post(srv.URL+"/establishments", "text/csv", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload = %d, want 201", resp.StatusCode)
	}

	var created struct {
		SessionID string `json:"session_id"`
		Rows      int    `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Rows != 1 || created.SessionID == "" {
		t.Fatalf("unexpected upload response: %+v", created)
	}

	exported, err := http.Get(srv.URL + "/establishments/" + created.SessionID + "/export")
	if err != nil {
		t.Fatal(err)
	}
	defer exported.Body.Close()
	if exported.StatusCode != http.StatusOK {
		t.Fatalf("export = %d", exported.StatusCode)
	}
	if ct := exported.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("export content type = %s", ct)
	}

	var out bytes.Buffer
	if _, err := out.ReadFrom(exported.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Nouveau Site") {
		t.Errorf("exported csv missing uploaded row:\n%s", out.String())
	}
}

func TestUploadRejectsBadTable(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(SetupRoutes(app))
	defer srv.Close()

	body := "title,lat,lng\nSans catégorie,48.85,2.35\n"
	resp, err := http.Post(srv.URL+"/establishments", "text/csv", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid upload = %d, want 400", resp.StatusCode)
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(SetupRoutes(app))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/isochrones/cache/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats struct {
		Entries int `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 {
		t.Errorf("fresh cache entries = %d, want 0", stats.Entries)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/isochrones/cache", nil)
	clr, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	clr.Body.Close()
	if clr.StatusCode != http.StatusNoContent {
		t.Errorf("cache clear = %d, want 204", clr.StatusCode)
	}
}

func TestSessionBundleOverridesMarkers(t *testing.T) {
	app := testApp(t)

	v, ok := app.Variant("national")
	if !ok {
		t.Fatal("default variant missing")
	}

	app.PutSession("s1", nil)
	bundle := app.Bundle(v, "s1")
	if bundle.Stats.Total != 0 {
		t.Errorf("session with empty table should render 0 markers, got %d", bundle.Stats.Total)
	}

	base := app.Bundle(v, "")
	if base.Stats.Total != 1 {
		t.Errorf("base bundle must be unaffected by sessions, got %d", base.Stats.Total)
	}
}

package establishment

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMainCategory(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Formation : College", CatFormation},
		{"Protection de l'enfance : MECs MNA", CatProtection},
		{"Insertion: Dispo insertion", CatInsertion},
		{"Parentalité : Creches", CatParenting},
		{"Parentialité : Maison des familles", CatParenting},
		{"Quelque chose", CatOther},
		{"", CatOther},
	}
	for _, c := range cases {
		if got := MainCategory(c.in); got != c.want {
			t.Errorf("MainCategory(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMarkerColor(t *testing.T) {
	if got := MarkerColor("Formation : College"); got != "#0984e3" {
		t.Errorf("exact category color = %s, want #0984e3", got)
	}
	// Unknown Formation variant falls back to the family color.
	if got := MarkerColor("Formation : Nouvelle filière"); got != "#0984e3" {
		t.Errorf("family fallback = %s, want #0984e3", got)
	}
	if got := MarkerColor("???"); got != "#636e72" {
		t.Errorf("unknown category = %s, want grey", got)
	}
}

func TestLoadCSV(t *testing.T) {
	csvData := `title,categorie,lat,lng,13-15,16-18
Site Marseille,Formation : College,43.3,5.4,1,0
Site Réunion,Formation : College,-21.1,55.5,0,0
Sans coordonnées,Insertion: Dispo insertion,,,1,1
`
	rows, err := LoadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 kept row, got %d", len(rows))
	}
	row := rows[0]
	if row.Title != "Site Marseille" || row.Lat != 43.3 || row.Lng != 5.4 {
		t.Errorf("unexpected row: %+v", row)
	}
	if !row.AgeBands["13-15"] || row.AgeBands["16-18"] {
		t.Errorf("age bands wrong: %v", row.AgeBands)
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	csvData := "title,lat,lng\nA,43.3,5.4\n"
	_, err := LoadCSV(strings.NewReader(csvData))
	if err == nil || !strings.Contains(err.Error(), "categorie") {
		t.Errorf("expected missing-column error naming categorie, got %v", err)
	}
}

func TestLoadCSVNonNumericCoordinate(t *testing.T) {
	csvData := "title,categorie,lat,lng\nA,Formation : College,quarante-trois,5.4\n"
	if _, err := LoadCSV(strings.NewReader(csvData)); err == nil {
		t.Error("non-numeric coordinate must reject the whole file")
	}
}

func TestLoadCSVCommaDecimals(t *testing.T) {
	csvData := "title,categorie,lat,lng\nA,Formation : College,\"43,3\",\"5,4\"\n"
	rows, err := LoadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].Lat != 43.3 {
		t.Errorf("comma decimal separator not handled: %+v", rows)
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	if _, err := LoadCSV(strings.NewReader("title,categorie,lat,lng\n")); !errors.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	in := []Establishment{
		{Title: "Site A", Category: "Formation : College", Lat: 43.3, Lng: 5.4, AgeBands: map[string]bool{"13-15": true}},
		{Title: "Site B", Category: "Insertion: Dispo insertion", Lat: 48.85, Lng: 2.35},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := LoadCSV(&buf)
	if err != nil {
		t.Fatalf("LoadCSV of exported table: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows back, got %d", len(rows))
	}
	if rows[0].Title != "Site A" || !rows[0].AgeBands["13-15"] {
		t.Errorf("row 0 did not round-trip: %+v", rows[0])
	}
	if rows[1].AgeBands["13-15"] {
		t.Errorf("row 1 gained a band flag: %+v", rows[1])
	}
}

func TestCountByMainCategory(t *testing.T) {
	rows := []Establishment{
		{Category: "Formation : College"},
		{Category: "Formation : Post-bac"},
		{Category: "Parentalité : Creches"},
	}
	counts := CountByMainCategory(rows)
	if counts[CatFormation] != 2 || counts[CatParenting] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

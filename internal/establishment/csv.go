package establishment

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/CarteSolidaire/CS-Backend/internal/geo"
)

var requiredColumns = []string{"title", "categorie", "lat", "lng"}

// ErrNoRows is returned for a CSV with a header but no data.
var ErrNoRows = errors.New("csv has no data rows")

// truthy values accepted in the optional boolean age-band columns.
var truthy = map[string]bool{"1": true, "true": true, "vrai": true, "oui": true, "x": true}

// LoadCSV parses an establishment table. Validation errors (missing required
// column, non-numeric coordinate) reject the whole file with a user-facing
// message: there is no partial ingestion. Rows with empty coordinates or
// coordinates outside the mainland bounding box are dropped, not errors.
// Columns beyond the required four are read as boolean age-band flags.
func LoadCSV(r io.Reader) ([]Establishment, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	var extras []string
	for i, h := range header {
		name := strings.TrimSpace(h)
		col[name] = i
		if !isRequired(name) && name != "" {
			extras = append(extras, name)
		}
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column: %s", name)
		}
	}

	var out []Establishment
	dropped := 0

	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		latRaw, lngRaw := get("lat"), get("lng")
		if latRaw == "" || lngRaw == "" {
			dropped++
			continue
		}
		lat, err := strconv.ParseFloat(strings.ReplaceAll(latRaw, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: lat is not a number (got %q)", rowIdx+1, latRaw)
		}
		lng, err := strconv.ParseFloat(strings.ReplaceAll(lngRaw, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: lng is not a number (got %q)", rowIdx+1, lngRaw)
		}
		if !geo.InMainlandBBox(lat, lng) {
			dropped++
			continue
		}

		row := Establishment{
			Title:    get("title"),
			Category: get("categorie"),
			Lat:      lat,
			Lng:      lng,
		}
		for _, name := range extras {
			v := strings.ToLower(get(name))
			if v == "" {
				continue
			}
			if row.AgeBands == nil {
				row.AgeBands = make(map[string]bool)
			}
			row.AgeBands[name] = truthy[v]
		}
		out = append(out, row)
	}

	if dropped > 0 {
		log.Printf("[establishment] dropped %d rows (missing or out-of-bounds coordinates)", dropped)
	}
	return out, nil
}

// WriteCSV exports rows in the input schema, so an edited in-session table
// downloads back in the same shape it was uploaded in. Age-band columns are
// the union across rows, in sorted order for a stable header.
func WriteCSV(w io.Writer, rows []Establishment) error {
	bandSet := make(map[string]struct{})
	for _, row := range rows {
		for name := range row.AgeBands {
			bandSet[name] = struct{}{}
		}
	}
	bands := make([]string, 0, len(bandSet))
	for name := range bandSet {
		bands = append(bands, name)
	}
	sort.Strings(bands)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, requiredColumns...), bands...)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range rows {
		rec := []string{
			row.Title,
			row.Category,
			strconv.FormatFloat(row.Lat, 'f', -1, 64),
			strconv.FormatFloat(row.Lng, 'f', -1, 64),
		}
		for _, name := range bands {
			if row.AgeBands[name] {
				rec = append(rec, "1")
			} else {
				rec = append(rec, "0")
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func isRequired(name string) bool {
	for _, r := range requiredColumns {
		if r == name {
			return true
		}
	}
	return false
}

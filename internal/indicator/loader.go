package indicator

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/CarteSolidaire/CS-Backend/internal/geo"
)

// Table holds one loaded indicator source: join key -> attribute -> value.
// Only keys present in the boundary file survive loading; the boundary file
// is the source of truth for which units exist.
type Table struct {
	Desc Descriptor
	Rows map[string]map[string]float64
}

// LoadFile loads an indicator file through its descriptor. A missing file is
// not an error: the indicator layer is simply unavailable.
func LoadFile(desc Descriptor, path string, validCodes, validNames map[string]bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[indicator] %s not found, %s layer unavailable", path, desc.Name)
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(desc, f, validCodes, validNames)
}

// Load parses an indicator table from r. Rows whose key has no corresponding
// boundary feature are dropped. For name joins, duplicate normalized keys
// keep the first occurrence; dropped duplicates are logged.
func Load(desc Descriptor, r io.Reader, validCodes, validNames map[string]bool) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s csv: %w", desc.Name, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s csv has no data rows", desc.Name)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	required := []string{desc.KeyColumn, desc.ValueColumn}
	if desc.HasSplit() {
		required = append(required, desc.SplitColumn)
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s csv: missing required column %q", desc.Name, name)
		}
	}

	table := &Table{Desc: desc, Rows: make(map[string]map[string]float64)}

	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		key := get(desc.KeyColumn)
		if key == "" {
			continue
		}
		switch desc.JoinKey {
		case JoinByCode:
			if !validCodes[key] {
				continue
			}
		case JoinByName:
			key = geo.NormalizeName(key)
			if !validNames[key] {
				continue
			}
		}

		raw := get(desc.ValueColumn)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			log.Printf("[indicator] %s row %d: non-numeric value %q, skipping", desc.Name, rowIdx+1, raw)
			continue
		}

		attr := desc.Attribute
		if desc.HasSplit() {
			split := get(desc.SplitColumn)
			if split == "" {
				continue
			}
			attr = fmt.Sprintf("%s_%s", desc.Attribute, split)
		}

		attrs, ok := table.Rows[key]
		if !ok {
			attrs = make(map[string]float64)
			table.Rows[key] = attrs
		}
		if _, dup := attrs[attr]; dup {
			// Keep-first: the published files occasionally repeat a unit.
			log.Printf("[indicator] %s: duplicate key %q for %s, keeping first", desc.Name, key, attr)
			continue
		}
		attrs[attr] = value
	}

	return table, nil
}

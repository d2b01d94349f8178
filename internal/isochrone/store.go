package isochrone

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Store is a file-backed cache of isochrone polygons: one JSON object mapping
// string keys to raw polygon coordinate arrays (or feature collections, for
// entries written by older tooling — values round-trip bit-for-bit either
// way). Writes rewrite the whole file and fsync before returning, so an
// accepted Put survives immediate process termination. Single writer assumed.
type Store struct {
	path    string
	entries map[string]json.RawMessage
}

// Open loads the cache at path. A missing or unparsable file degrades to an
// empty cache rather than failing: worst case every isochrone is uncached.
func Open(path string) *Store {
	s := &Store{path: path, entries: make(map[string]json.RawMessage)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[isochrone] reading cache %s: %v, starting empty", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Printf("[isochrone] cache %s is corrupt (%v), starting empty", path, err)
		s.entries = make(map[string]json.RawMessage)
	}
	return s
}

// Get looks up a cached entry. Pure lookup, never touches the network.
func (s *Store) Get(k Key) (json.RawMessage, bool) {
	v, ok := s.entries[k.String()]
	return v, ok
}

// Put stores an entry (idempotent overwrite) and flushes the full cache to
// disk before returning.
func (s *Store) Put(k Key, v json.RawMessage) error {
	s.entries[k.String()] = v
	return s.flush()
}

// Len reports the number of cached entries.
func (s *Store) Len() int { return len(s.entries) }

// Snapshot returns a copy of the cache contents keyed by string key.
func (s *Store) Snapshot() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Clear drops every entry and persists the empty cache. This is the only way
// entries are ever deleted.
func (s *Store) Clear() error {
	s.entries = make(map[string]json.RawMessage)
	return s.flush()
}

// Reconcile merges an independent in-memory copy into the store as a key-set
// union. When both sides hold a key with different bytes, the side with
// strictly more entries wins the conflict; on equal sizes the store keeps its
// own value. Identical contents short-circuit without a disk write.
func (s *Store) Reconcile(other map[string]json.RawMessage) error {
	otherWins := len(other) > len(s.entries)

	changed := false
	for k, v := range other {
		cur, ok := s.entries[k]
		switch {
		case !ok:
			s.entries[k] = v
			changed = true
		case otherWins && string(cur) != string(v):
			s.entries[k] = v
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flush()
}

// flush writes the whole cache to a temp file, fsyncs it, and renames it into
// place.
func (s *Store) flush() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding isochrone cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".isochrone_cache-*")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

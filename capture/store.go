package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is an append-only metadata log backed by a single JSON array file.
// Appends are read-modify-write under a mutex with an atomic rename so a
// failed write never truncates the previous file. Readers that tail the
// store (the concierge) re-read the file and skip IDs they have seen.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store at path, creating the parent directory and an
// empty metadata file if they do not exist.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
	}
	return s, nil
}

// Path returns the metadata file path.
func (s *Store) Path() string { return s.path }

// Entries returns all records in append order. A missing or corrupt file
// reads as empty; watchers must keep capturing even if a previous run left
// the store unreadable.
func (s *Store) Entries() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// EntriesAfter returns records whose IDs are not in seen, in append order.
func (s *Store) EntriesAfter(seen map[string]struct{}) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []Record
	for _, rec := range s.read() {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		fresh = append(fresh, rec)
	}
	return fresh
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.read())
}

// Append validates rec and appends it, preserving all existing entries.
func (s *Store) Append(rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read()
	entries = append(entries, rec)
	if err := s.write(entries); err != nil {
		DefaultMetrics().appendFailures.Inc()
		return fmt.Errorf("append record %s: %w", rec.ID, err)
	}
	return nil
}

// read loads the metadata file. Errors collapse to an empty slice.
func (s *Store) read() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []Record
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// write marshals entries and replaces the metadata file atomically.
func (s *Store) write(entries []Record) error {
	if entries == nil {
		entries = []Record{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

package kb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"reflect"
)

// Store is a JSON-backed key-value store with idempotent upserts.
//
// The on-disk document is the sole owner of persisted state: every operation
// loads the full document, merges in memory, and rewrites the whole file.
// Concurrent writers against the same path are unsafe (no file locking) —
// the pipeline is single-process by design.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a Store. A nil logger falls back to slog.Default.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Load reads the JSON document at path. A missing file yields an empty
// document. A corrupted file is logged and also treated as empty; the next
// Upsert will overwrite it with this run's data, discarding prior content.
func (s *Store) Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("store file is not valid JSON, treating as empty", "path", path, "error", err)
		return map[string]any{}, nil
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Upsert merges records into the document at path and rewrites it.
//
// For each key: if the stored value is deeply equal to the new value the key
// is skipped, otherwise the new value wins. Keys are written in sorted order
// (encoding/json sorts map keys), so re-running an already-processed range
// produces a byte-identical file and clean diffs across runs.
//
// Returns the fully merged document.
func (s *Store) Upsert(path string, records map[string]any) (map[string]any, error) {
	if err := s.ensureExists(path); err != nil {
		return nil, err
	}

	doc, err := s.Load(path)
	if err != nil {
		return nil, err
	}

	updated := 0
	for key, value := range records {
		if existing, ok := doc[key]; ok && reflect.DeepEqual(existing, value) {
			continue
		}
		doc[key] = value
		updated++
	}

	if err := s.write(path, doc); err != nil {
		return nil, err
	}

	s.logger.Info("store updated", "path", path, "keys", len(records), "written", updated)
	return doc, nil
}

// Write replaces the document at path wholesale, keys sorted.
func (s *Store) Write(path string, doc map[string]any) error {
	return s.write(path, doc)
}

func (s *Store) ensureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat store %s: %w", path, err)
	}
	return s.write(path, map[string]any{})
}

func (s *Store) write(path string, doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write store %s: %w", path, err)
	}
	return nil
}

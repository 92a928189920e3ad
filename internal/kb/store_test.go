package kb

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStore_Upsert(t *testing.T) {
	t.Run("creates file when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		store := NewStore(nil)

		doc, err := store.Upsert(path, map[string]any{"V.1": "rule one"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc["V.1"] != "rule one" {
			t.Errorf("unexpected merged doc: %v", doc)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("store file should exist: %v", err)
		}
	})

	t.Run("merges with existing content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		store := NewStore(nil)

		if _, err := store.Upsert(path, map[string]any{"V.1": "one"}); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}
		doc, err := store.Upsert(path, map[string]any{"V.2": "two"})
		if err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}
		if len(doc) != 2 {
			t.Errorf("expected 2 keys, got %v", doc)
		}
	})

	t.Run("double upsert is byte-identical", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		store := NewStore(nil)
		records := map[string]any{
			"V.1.2": map[string]any{"definition": "Wheelbase", "page_number": "16"},
			"V.1.3": map[string]any{"definition": "Vehicle Track", "page_number": "16"},
		}

		if _, err := store.Upsert(path, records); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}
		first, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read store: %v", err)
		}

		if _, err := store.Upsert(path, records); err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}
		second, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read store: %v", err)
		}

		if !bytes.Equal(first, second) {
			t.Error("re-running an identical upsert changed the file")
		}
	})

	t.Run("changed value overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		store := NewStore(nil)

		if _, err := store.Upsert(path, map[string]any{"V.1": "old"}); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}
		doc, err := store.Upsert(path, map[string]any{"V.1": "new"})
		if err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}
		if doc["V.1"] != "new" {
			t.Errorf("expected updated value, got %v", doc["V.1"])
		}
	})

	t.Run("corrupted store treated as empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("failed to seed corrupt file: %v", err)
		}

		store := NewStore(nil)
		doc, err := store.Upsert(path, map[string]any{"V.1": "one"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(doc, map[string]any{"V.1": "one"}) {
			t.Errorf("expected fresh doc, got %v", doc)
		}
	})
}

func TestStore_Load(t *testing.T) {
	t.Run("missing file yields empty doc", func(t *testing.T) {
		store := NewStore(nil)
		doc, err := store.Load(filepath.Join(t.TempDir(), "absent.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc) != 0 {
			t.Errorf("expected empty doc, got %v", doc)
		}
	})

	t.Run("round trip preserves content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		store := NewStore(nil)
		records := map[string]any{"V.1": map[string]any{"definition": "text\nwith newline"}}

		if _, err := store.Upsert(path, records); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		doc, err := store.Load(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !reflect.DeepEqual(doc, records) {
			t.Errorf("expected %v, got %v", records, doc)
		}
	})
}

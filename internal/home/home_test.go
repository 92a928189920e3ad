package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-rulekb")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-rulekb" {
			t.Errorf("expected path /tmp/test-rulekb, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-rulekb")

	cases := map[string]struct {
		got      string
		expected string
	}{
		"FilesPath":     {dir.FilesPath(), "/tmp/test-rulekb/files"},
		"ConfigPath":    {dir.ConfigPath(), "/tmp/test-rulekb/config.yaml"},
		"PagesPath":     {dir.PagesPath(), "/tmp/test-rulekb/files/pages.json"},
		"RulesPath":     {dir.RulesPath(), "/tmp/test-rulekb/files/rules.json"},
		"AnnotatedPath": {dir.AnnotatedPath(), "/tmp/test-rulekb/files/annotated.json"},
		"KnowledgePath": {dir.KnowledgePath(), "/tmp/test-rulekb/files/knowledge.json"},
		"CallLogPath":   {dir.CallLogPath(), "/tmp/test-rulekb/llm_calls.jsonl"},
	}
	for name, tc := range cases {
		if tc.got != tc.expected {
			t.Errorf("%s: expected %s, got %s", name, tc.expected, tc.got)
		}
	}
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	kbDir := filepath.Join(tmpDir, "rulekb-test")

	dir, err := New(kbDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.FilesPath()); os.IsNotExist(err) {
		t.Error("files directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.EvalPath()); os.IsNotExist(err) {
		t.Error("eval directory should exist after EnsureExists")
	}
}

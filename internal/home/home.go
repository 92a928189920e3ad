// Package home resolves the rulekb home directory and the paths of the
// persisted JSON artifacts inside it.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the rulekb home directory.
	DefaultDirName = ".rulekb"

	// FilesDirName is the subdirectory for pipeline artifacts.
	FilesDirName = "files"

	// EvalDirName is the subdirectory for evaluation output CSVs.
	EvalDirName = "eval"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Artifact file names, one per pipeline stage.
const (
	PagesFileName     = "pages.json"     // page-keyed page text
	RulesFileName     = "rules.json"     // page-keyed raw rule extraction
	AnnotatedFileName = "annotated.json" // page-keyed rules with terms + measurements
	KnowledgeFileName = "knowledge.json" // rule- and term-keyed combined index
	TextFileName      = "rules.txt"      // extracted document text with page markers
	CallLogFileName   = "llm_calls.jsonl"
)

// Dir represents the rulekb home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.rulekb).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// FilesPath returns the path to the pipeline artifacts directory.
func (d *Dir) FilesPath() string {
	return filepath.Join(d.path, FilesDirName)
}

// EvalPath returns the path to the evaluation output directory.
func (d *Dir) EvalPath() string {
	return filepath.Join(d.path, EvalDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// TextPath returns the path of the extracted document text.
func (d *Dir) TextPath() string {
	return filepath.Join(d.FilesPath(), TextFileName)
}

// PagesPath returns the path of the page-keyed text document.
func (d *Dir) PagesPath() string {
	return filepath.Join(d.FilesPath(), PagesFileName)
}

// RulesPath returns the path of the raw rule-extraction document.
func (d *Dir) RulesPath() string {
	return filepath.Join(d.FilesPath(), RulesFileName)
}

// AnnotatedPath returns the path of the annotated rules document.
func (d *Dir) AnnotatedPath() string {
	return filepath.Join(d.FilesPath(), AnnotatedFileName)
}

// KnowledgePath returns the path of the combined knowledge index.
func (d *Dir) KnowledgePath() string {
	return filepath.Join(d.FilesPath(), KnowledgeFileName)
}

// CallLogPath returns the path of the LLM call log.
func (d *Dir) CallLogPath() string {
	return filepath.Join(d.path, CallLogFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.FilesPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create files directory: %w", err)
	}
	if err := os.MkdirAll(d.EvalPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create eval directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

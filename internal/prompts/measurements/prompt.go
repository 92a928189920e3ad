// Package measurements holds the prompt and output schema for per-rule
// numerical measurement extraction.
package measurements

import (
	_ "embed"

	"github.com/rulekb/rulekb/internal/prompts"
)

//go:embed extract.tmpl
var extractPrompt string

// ExtractPrompt returns the measurement extraction prompt.
func ExtractPrompt() string {
	return extractPrompt
}

// Prompt keys
const (
	ExtractPromptKey = "stages.measurements.extract"
)

// RegisterPrompts registers the measurement extraction prompts with the registry.
func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         ExtractPromptKey,
		Text:        extractPrompt,
		Description: "Measurement extraction prompt - dimensions, properties and parameters with units",
	})
}

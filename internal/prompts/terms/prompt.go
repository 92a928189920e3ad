// Package terms holds the prompt and output schema for per-rule
// technical term extraction.
package terms

import (
	_ "embed"

	"github.com/rulekb/rulekb/internal/prompts"
)

//go:embed extract.tmpl
var extractPrompt string

// ExtractPrompt returns the term extraction prompt.
func ExtractPrompt() string {
	return extractPrompt
}

// Prompt keys
const (
	ExtractPromptKey = "stages.terms.extract"
)

// RegisterPrompts registers the term extraction prompts with the registry.
func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         ExtractPromptKey,
		Text:        extractPrompt,
		Description: "Term extraction prompt - NER over a single rule definition",
	})
}

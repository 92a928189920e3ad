// Package rules holds the prompt for per-page rule extraction.
package rules

import (
	_ "embed"

	"github.com/rulekb/rulekb/internal/prompts"
)

//go:embed extract.tmpl
var extractPrompt string

// ExtractPrompt returns the rule extraction prompt.
func ExtractPrompt() string {
	return extractPrompt
}

// Prompt keys
const (
	ExtractPromptKey = "stages.rules.extract"
)

// RegisterPrompts registers the rule extraction prompts with the registry.
func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         ExtractPromptKey,
		Text:        extractPrompt,
		Description: "Rule extraction prompt - builds a rule-keyed lookup table from one page of text",
	})
}

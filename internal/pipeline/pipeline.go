// Package pipeline wires the extraction stages together: ingest text,
// extract rules per page, annotate rules with terms and measurements,
// and arrange everything into the final knowledge base.
//
// Every stage reads its input artifact from the home directory and
// upserts its output artifact, so stages can be re-run incrementally
// and are idempotent when nothing changed.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rulekb/rulekb/internal/home"
	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/prompts"
	"github.com/rulekb/rulekb/internal/providers"
)

// Deps carries the shared dependencies for pipeline stages.
type Deps struct {
	Home     *home.Dir
	Client   providers.LLMClient
	Prompts  *prompts.Registry
	Store    *kb.Store
	Recorder *llmcall.Recorder
	Logger   *slog.Logger
	Model    string
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Range selects an inclusive page window for a stage. Both bounds are
// page numbers as they appear in the page-keyed document.
type Range struct {
	Start int
	End   int
}

// Complete resolves a prompt, issues the LLM call, and records it.
// The raw model output is returned even when recording is disabled.
func (d *Deps) Complete(ctx context.Context, promptKey, text string, opts llmcall.RecordOptions) (string, error) {
	resolved, err := d.Prompts.Resolve(promptKey)
	if err != nil {
		return "", err
	}

	result, err := d.Client.Complete(ctx, &providers.CompletionRequest{
		Prompt: resolved.Text,
		Text:   text,
		Model:  d.Model,
	})

	opts.PromptKey = promptKey
	opts.PromptHash = resolved.Hash
	if d.Recorder != nil {
		d.Recorder.Record(result, opts)
	}

	if err != nil {
		return "", fmt.Errorf("failed to complete %s: %w", promptKey, err)
	}
	return result.Content, nil
}

// Package query answers questions against the arranged knowledge base.
//
// Two entry points: Lookup resolves a key and mode directly against the
// knowledge document with no LLM involved; Answer routes a natural
// language question through the model, retrieves the matching context,
// and asks the model for a verbatim answer grounded in that context.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/pipeline"
	qprompts "github.com/rulekb/rulekb/internal/prompts/query"
	"github.com/rulekb/rulekb/internal/providers"
)

// Retrieval is the routed and resolved context for a question.
type Retrieval struct {
	KeyToExtract         any            `json:"key_to_extract"`
	InformationToExtract string         `json:"information_to_extract"`
	InformationExtracted map[string]any `json:"information_extracted"`
}

// AnswerResult carries the grounded answer and its retrieval trail.
type AnswerResult struct {
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Retrieval *Retrieval `json:"retrieval"`
}

// Lookup resolves a key and extraction mode directly against the arranged
// knowledge base. Misses come back as descriptive strings, never errors.
func Lookup(deps *pipeline.Deps, key, mode string) (any, error) {
	doc, err := deps.Store.Load(deps.Home.KnowledgePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("knowledge base is empty, run arrange first")
	}
	return kb.ExtractInformation(doc, key, normalizeMode(mode), logger(deps)), nil
}

func logger(deps *pipeline.Deps) *slog.Logger {
	if deps.Logger == nil {
		return slog.Default()
	}
	return deps.Logger
}

// Retrieve routes a question through the model to decide what to pull from
// the knowledge base, then resolves every routed key.
func Retrieve(ctx context.Context, deps *pipeline.Deps, question string) (*Retrieval, error) {
	output, err := deps.Complete(ctx, qprompts.RoutePromptKey, question, llmcall.RecordOptions{Stage: "query"})
	if err != nil {
		return nil, fmt.Errorf("failed to route question: %w", err)
	}

	raw, err := providers.ParseModelJSON(output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routing decision: %w", err)
	}
	if err := providers.ValidateSchema(qprompts.RouteSchema, raw); err != nil {
		logger(deps).Warn("routing decision failed schema validation", "error", err)
	}

	var route qprompts.Route
	if err := json.Unmarshal(raw, &route); err != nil {
		return nil, fmt.Errorf("failed to decode routing decision: %w", err)
	}

	doc, err := deps.Store.Load(deps.Home.KnowledgePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	mode := normalizeMode(route.InformationToExtract)
	extracted := make(map[string]any)
	for _, key := range routedKeys(route.KeyToExtract) {
		extracted[key] = kb.ExtractInformation(doc, key, mode, logger(deps))
	}

	return &Retrieval{
		KeyToExtract:         route.KeyToExtract,
		InformationToExtract: mode,
		InformationExtracted: extracted,
	}, nil
}

// Answer retrieves context for the question and asks the model to answer
// verbatim from it.
func Answer(ctx context.Context, deps *pipeline.Deps, question string) (*AnswerResult, error) {
	retrieval, err := Retrieve(ctx, deps, question)
	if err != nil {
		return nil, err
	}

	contextJSON, err := json.Marshal(retrieval.InformationExtracted)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize retrieved context: %w", err)
	}

	// The answer prompt embeds both question and context, so it bypasses
	// the registry's prompt+text concatenation.
	result, err := deps.Client.Complete(ctx, &providers.CompletionRequest{
		Prompt: qprompts.AnswerPrompt(question, string(contextJSON)),
		Model:  deps.Model,
	})
	if deps.Recorder != nil {
		deps.Recorder.Record(result, llmcall.RecordOptions{
			Stage:     "query",
			PromptKey: qprompts.AnswerPromptKey,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}

	return &AnswerResult{
		Question:  question,
		Answer:    result.Content,
		Retrieval: retrieval,
	}, nil
}

// normalizeMode maps routing output to knowledge base extraction modes.
// The router emits "rule_number" (singular) per its prompt contract; the
// knowledge base mode is "rule_numbers".
func normalizeMode(mode string) string {
	switch mode {
	case "rule_number", kb.ModeRuleNumbers:
		return kb.ModeRuleNumbers
	case kb.ModeDefinition:
		return kb.ModeDefinition
	default:
		return mode
	}
}

// routedKeys normalizes key_to_extract, which is a single rule number for
// definition lookups or a list of term variants for rule-number searches.
func routedKeys(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		keys := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				keys = append(keys, s)
			}
		}
		return keys
	case []string:
		return val
	default:
		return nil
	}
}

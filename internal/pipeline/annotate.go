package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/prompts/measurements"
	"github.com/rulekb/rulekb/internal/prompts/terms"
	"github.com/rulekb/rulekb/internal/providers"
)

// AnnotateResult reports what the annotation stage produced.
type AnnotateResult struct {
	RulesAnnotated int    `json:"rules_annotated"`
	RulesSkipped   int    `json:"rules_skipped"`
	AnnotatedPath  string `json:"annotated_path"`
}

// Annotate walks the extracted rules in the selected page range and
// enriches each rule with LLM-extracted technical terms and measurements.
// Rules whose extraction output cannot be parsed, or whose calls fail,
// are skipped with a warning and keep the record they already had: the
// prior run's annotated record when one exists, the un-annotated record
// otherwise. The stage never fails on a single bad rule and never drops
// a persisted one.
func Annotate(ctx context.Context, deps *Deps, rng Range) (*AnnotateResult, error) {
	log := deps.logger()

	rulesDoc, err := deps.Store.Load(deps.Home.RulesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	priorDoc, err := deps.Store.Load(deps.Home.AnnotatedPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load annotated rules: %w", err)
	}

	selected, err := kb.SelectRange(rulesDoc, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to select page range: %w", err)
	}

	annotated := make(map[string]any, len(selected))
	var done, skipped int

	for _, page := range kb.SortedKeys(selected) {
		pageRules := kb.CoerceMap(selected[page], log)
		pageOut := kb.CoerceMap(priorDoc[page], log)

		for _, rule := range kb.SortedKeys(pageRules) {
			details := kb.CoerceMap(pageRules[rule], log)
			if len(details) == 0 {
				log.Warn("skipping rule with no details", "page", page, "rule", rule)
				skipped++
				continue
			}

			definition, _ := details["definition"].(string)
			opts := llmcall.RecordOptions{Stage: "annotate", Page: page, Rule: rule}

			termsResult, err := annotateCall(ctx, deps, terms.ExtractPromptKey, definition, terms.ExtractionSchema, opts)
			if err != nil {
				log.Warn("term extraction failed", "page", page, "rule", rule, "error", err)
				skipped++
				keepExisting(pageOut, rule, details)
				continue
			}

			measResult, err := annotateCall(ctx, deps, measurements.ExtractPromptKey, definition, measurements.ExtractionSchema, opts)
			if err != nil {
				log.Warn("measurement extraction failed", "page", page, "rule", rule, "error", err)
				skipped++
				keepExisting(pageOut, rule, details)
				continue
			}

			kb.AttachAnnotations(details, termsResult, measResult, rule, log)
			pageOut[rule] = details
			done++
		}

		annotated[page] = pageOut
	}

	if _, err := deps.Store.Upsert(deps.Home.AnnotatedPath(), annotated); err != nil {
		return nil, fmt.Errorf("failed to store annotated rules: %w", err)
	}

	log.Info("annotation complete", "annotated", done, "skipped", skipped)

	return &AnnotateResult{
		RulesAnnotated: done,
		RulesSkipped:   skipped,
		AnnotatedPath:  deps.Home.AnnotatedPath(),
	}, nil
}

// keepExisting preserves a rule's record when its annotation calls fail:
// a previously annotated record stays untouched, otherwise the
// un-annotated details are carried through as an empty annotation.
func keepExisting(pageOut map[string]any, rule string, details map[string]any) {
	if _, ok := pageOut[rule]; !ok {
		pageOut[rule] = details
	}
}

// annotateCall issues one extraction call and parses the model output into
// a map. Schema violations are logged, not fatal: the attributes still
// flow downstream even when the model strays from the contract.
func annotateCall(ctx context.Context, deps *Deps, promptKey, definition string, schema map[string]any, opts llmcall.RecordOptions) (map[string]any, error) {
	output, err := deps.Complete(ctx, promptKey, definition, opts)
	if err != nil {
		return nil, err
	}

	raw, err := providers.ParseModelJSON(output)
	if err != nil {
		return nil, err
	}

	if err := providers.ValidateSchema(schema, raw); err != nil {
		deps.logger().Warn("model output failed schema validation", "prompt", promptKey, "rule", opts.Rule, "error", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode %s output: %w", promptKey, err)
	}
	return parsed, nil
}

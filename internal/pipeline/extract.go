package pipeline

import (
	"context"
	"fmt"

	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/prompts/rules"
)

// ExtractResult reports what the rule extraction stage produced.
type ExtractResult struct {
	PagesProcessed int      `json:"pages_processed"`
	Pages          []string `json:"pages"`
	RulesPath      string   `json:"rules_path"`
}

// ExtractRules runs per-page rule extraction over the selected page range
// and upserts the results into the rule lookup document. Values are stored
// as the raw model output; downstream stages coerce them on read, so a
// malformed page degrades to a warning instead of poisoning the store.
func ExtractRules(ctx context.Context, deps *Deps, rng Range) (*ExtractResult, error) {
	log := deps.logger()

	pagesDoc, err := deps.Store.Load(deps.Home.PagesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}

	selected, err := kb.SelectRange(pagesDoc, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to select page range: %w", err)
	}

	results := make(map[string]any, len(selected))
	processed := make([]string, 0, len(selected))

	for _, page := range kb.SortedKeys(selected) {
		content, _ := selected[page].(string)
		text := fmt.Sprintf("\nPage %s\n\n%s", page, content)
		log.Info("extracting rules", "page", page, "chars", len(text))

		output, err := deps.Complete(ctx, rules.ExtractPromptKey, text, llmcall.RecordOptions{
			Stage: "rules",
			Page:  page,
		})
		if err != nil {
			log.Warn("rule extraction failed for page", "page", page, "error", err)
			continue
		}

		results[page] = output
		processed = append(processed, page)
	}

	if _, err := deps.Store.Upsert(deps.Home.RulesPath(), results); err != nil {
		return nil, fmt.Errorf("failed to store rules: %w", err)
	}

	log.Info("rule extraction complete", "pages", len(processed))

	return &ExtractResult{
		PagesProcessed: len(processed),
		Pages:          processed,
		RulesPath:      deps.Home.RulesPath(),
	}, nil
}

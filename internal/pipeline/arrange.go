package pipeline

import (
	"context"
	"fmt"

	"github.com/rulekb/rulekb/internal/kb"
)

// ArrangeResult reports what the arrangement stage produced.
type ArrangeResult struct {
	Entries       int    `json:"entries"`
	KnowledgePath string `json:"knowledge_path"`
}

// Arrange builds the final flat knowledge base from the annotated rules:
// rule records keyed by rule number, merged with aggregated term records
// keyed by term. The index is recomputed from the annotated rules on every
// run and upserted over any prior run's output.
func Arrange(ctx context.Context, deps *Deps) (*ArrangeResult, error) {
	log := deps.logger()

	annotatedDoc, err := deps.Store.Load(deps.Home.AnnotatedPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load annotated rules: %w", err)
	}
	if len(annotatedDoc) == 0 {
		return nil, fmt.Errorf("no annotated rules found at %s", deps.Home.AnnotatedPath())
	}

	index := kb.BuildIndex(annotatedDoc, log)

	merged, err := deps.Store.Upsert(deps.Home.KnowledgePath(), index)
	if err != nil {
		return nil, fmt.Errorf("failed to store knowledge base: %w", err)
	}

	log.Info("arrangement complete", "entries", len(merged))

	return &ArrangeResult{
		Entries:       len(merged),
		KnowledgePath: deps.Home.KnowledgePath(),
	}, nil
}

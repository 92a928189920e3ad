package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rulekb/rulekb/internal/ingest"
)

// IngestResult reports what the ingest stage produced.
type IngestResult struct {
	PageCount int    `json:"page_count"`
	TextPath  string `json:"text_path"`
	PagesPath string `json:"pages_path"`
}

// Ingest extracts text from the rules document, writes the page-marked
// text artifact, and upserts the page-keyed document. A .txt source is
// taken as already-extracted page-marked text and copied as is.
func Ingest(ctx context.Context, deps *Deps, srcPath string, headerFooterMargin int) (*IngestResult, error) {
	log := deps.logger()

	if strings.EqualFold(filepath.Ext(srcPath), ".txt") {
		data, err := os.ReadFile(srcPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		if err := os.WriteFile(deps.Home.TextPath(), data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write text artifact: %w", err)
		}
		return storePages(deps, string(data))
	}

	res, err := ingest.Extract(ctx, ingest.Request{
		PDFPath:            srcPath,
		OutPath:            deps.Home.TextPath(),
		HeaderFooterMargin: headerFooterMargin,
		Logger:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	text, err := os.ReadFile(deps.Home.TextPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted text: %w", err)
	}

	result, err := storePages(deps, string(text))
	if err != nil {
		return nil, err
	}

	log.Info("ingest complete", "pages", res.PageCount)
	return result, nil
}

// storePages splits page-marked text and upserts the page-keyed document.
func storePages(deps *Deps, text string) (*IngestResult, error) {
	pages := ingest.SplitPages(text)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page markers found in extracted text")
	}

	records := make(map[string]any, len(pages))
	for page, content := range pages {
		records[page] = content
	}

	if _, err := deps.Store.Upsert(deps.Home.PagesPath(), records); err != nil {
		return nil, fmt.Errorf("failed to store pages: %w", err)
	}

	return &IngestResult{
		PageCount: len(pages),
		TextPath:  deps.Home.TextPath(),
		PagesPath: deps.Home.PagesPath(),
	}, nil
}

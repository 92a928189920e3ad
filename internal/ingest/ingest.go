// Package ingest handles rules document ingestion from PDF files.
//
// Pages are extracted as plain text with pdftotext (poppler-utils) and
// joined into a single document with per-page markers. The marker format
// is what SplitPages expects when the pipeline later needs the text
// page by page.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Request contains the parameters for extracting a rules document.
type Request struct {
	PDFPath string
	OutPath string // Destination for the combined page-marked text

	// HeaderFooterMargin is trimmed from the top and bottom of each page,
	// in points, to drop running headers and footers.
	HeaderFooterMargin int

	Logger *slog.Logger
}

// Result contains the result of a successful extraction.
type Result struct {
	PageCount int
	OutPath   string
}

// PageMarker formats the separator line written before each page's text.
func PageMarker(page int) string {
	return fmt.Sprintf("--- Page %d ---", page)
}

var pageMarkerPattern = regexp.MustCompile(`(?m)^--- Page (\d+) ---$`)

// Extract pulls text from every page of the PDF and writes the combined
// page-marked document to req.OutPath.
func Extract(ctx context.Context, req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	if req.PDFPath == "" {
		return nil, fmt.Errorf("no PDF path provided")
	}
	if _, err := os.Stat(req.PDFPath); err != nil {
		return nil, fmt.Errorf("PDF not found: %s", req.PDFPath)
	}

	f, err := os.Open(req.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages: %s", req.PDFPath)
	}

	// Page height drives the bottom crop. A failed probe degrades to
	// trimming the top margin only.
	height, err := pageHeight(ctx, req.PDFPath)
	if err != nil {
		log.Warn("failed to probe page height, footer margin disabled", "error", err)
		height = 0
	}

	log.Info("starting text extraction", "pdf", req.PDFPath, "pages", pageCount)

	// Process pages concurrently
	maxWorkers := runtime.NumCPU()

	type result struct {
		pageNum int
		text    string
		err     error
	}

	results := make(chan result, pageCount)
	sem := make(chan struct{}, maxWorkers)

	for page := 1; page <= pageCount; page++ {
		sem <- struct{}{} // acquire
		go func(page int) {
			defer func() { <-sem }() // release

			text, err := extractPage(ctx, req.PDFPath, page, req.HeaderFooterMargin, height)
			results <- result{pageNum: page, text: text, err: err}
		}(page)
	}

	// Collect results
	pages := make(map[int]string, pageCount)
	for i := 0; i < pageCount; i++ {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", r.pageNum, r.err)
		}
		pages[r.pageNum] = r.text
	}

	var b strings.Builder
	for page := 1; page <= pageCount; page++ {
		b.WriteString(PageMarker(page))
		b.WriteString("\n")
		b.WriteString(pages[page])
		b.WriteString("\n")
	}

	if err := os.WriteFile(req.OutPath, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write extracted text: %w", err)
	}

	log.Info("text extraction complete", "pages", pageCount, "out", req.OutPath)

	return &Result{PageCount: pageCount, OutPath: req.OutPath}, nil
}

// extractPage extracts text from a single page using pdftotext (poppler-utils).
// The margin crops the top and bottom of the page to drop running headers
// and footers; pageHeight of 0 disables the bottom crop.
func extractPage(ctx context.Context, pdfPath string, page, margin int, pageHeight float64) (string, error) {
	pageStr := strconv.Itoa(page)
	args := []string{
		"-f", pageStr,
		"-l", pageStr,
		"-layout",
	}
	if margin > 0 {
		bodyHeight := 10000 // Clamped to the page edge by pdftotext
		if pageHeight > 0 {
			bodyHeight = int(pageHeight) - 2*margin
		}
		if bodyHeight > 0 {
			args = append(args,
				"-x", "0",
				"-y", strconv.Itoa(margin),
				"-W", "10000",
				"-H", strconv.Itoa(bodyHeight),
			)
		}
	}
	args = append(args, pdfPath, "-") // "-" writes to stdout

	cmd := exec.CommandContext(ctx, "pdftotext", args...)
	output, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("pdftotext failed: %w (stderr: %s)", err, string(ee.Stderr))
		}
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	return strings.TrimRight(string(output), "\n\f"), nil
}

var pageSizePattern = regexp.MustCompile(`Page size:\s+[\d.]+ x ([\d.]+) pts`)

// pageHeight probes the first page's height in points via pdfinfo.
func pageHeight(ctx context.Context, pdfPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", "-f", "1", "-l", "1", pdfPath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}

	m := pageSizePattern.FindStringSubmatch(string(output))
	if m == nil {
		return 0, fmt.Errorf("pdfinfo output has no page size")
	}
	return strconv.ParseFloat(m[1], 64)
}

// SplitPages parses a page-marked document into a page-keyed map.
// Keys are decimal page numbers as strings. Text before the first marker
// is ignored.
func SplitPages(text string) map[string]string {
	locs := pageMarkerPattern.FindAllStringSubmatchIndex(text, -1)
	pages := make(map[string]string, len(locs))

	for i, loc := range locs {
		pageNum := text[loc[2]:loc[3]]
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		pages[pageNum] = strings.TrimSpace(text[start:end])
	}

	return pages
}

// PageNumbers returns the numerically sorted page keys of a split document.
func PageNumbers(pages map[string]string) []string {
	keys := make([]string, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

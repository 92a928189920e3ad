package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rulekb/rulekb/internal/home"
	"github.com/rulekb/rulekb/internal/ingest"
	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/prompts"
	"github.com/rulekb/rulekb/internal/prompts/measurements"
	"github.com/rulekb/rulekb/internal/prompts/query"
	"github.com/rulekb/rulekb/internal/prompts/rules"
	"github.com/rulekb/rulekb/internal/prompts/terms"
	"github.com/rulekb/rulekb/internal/providers"
)

func testDeps(t *testing.T, client providers.LLMClient) *Deps {
	t.Helper()

	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create home: %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("failed to ensure home: %v", err)
	}

	registry := prompts.NewRegistry(nil)
	rules.RegisterPrompts(registry)
	terms.RegisterPrompts(registry)
	measurements.RegisterPrompts(registry)
	query.RegisterPrompts(registry)

	return &Deps{
		Home:     h,
		Client:   client,
		Prompts:  registry,
		Store:    kb.NewStore(nil),
		Recorder: llmcall.NewRecorder(h.CallLogPath(), nil),
		Model:    "gpt-4o-mini",
	}
}

func TestIngestFromText(t *testing.T) {
	deps := testDeps(t, providers.NewMockClient())

	text := fmt.Sprintf("%s\nV.1 CONFIGURATION\n%s\nV.2 DRIVER\n",
		ingest.PageMarker(1), ingest.PageMarker(2))
	src := filepath.Join(t.TempDir(), "rules.txt")
	if err := os.WriteFile(src, []byte(text), 0o644); err != nil {
		t.Fatalf("failed to seed text file: %v", err)
	}

	res, err := Ingest(context.Background(), deps, src, 0)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if res.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", res.PageCount)
	}

	pages, err := deps.Store.Load(deps.Home.PagesPath())
	if err != nil {
		t.Fatalf("failed to load pages: %v", err)
	}
	if pages["1"] != "V.1 CONFIGURATION" || pages["2"] != "V.2 DRIVER" {
		t.Errorf("unexpected page content: %v", pages)
	}

	// The text artifact is copied for later re-splitting.
	if _, err := os.Stat(deps.Home.TextPath()); err != nil {
		t.Errorf("text artifact should exist: %v", err)
	}
}

func TestIngestRejectsUnmarkedText(t *testing.T) {
	deps := testDeps(t, providers.NewMockClient())

	src := filepath.Join(t.TempDir(), "rules.txt")
	if err := os.WriteFile(src, []byte("no markers here"), 0o644); err != nil {
		t.Fatalf("failed to seed text file: %v", err)
	}

	if _, err := Ingest(context.Background(), deps, src, 0); err == nil {
		t.Error("expected error for text without page markers")
	}
}

func TestExtractRules(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		`{"V.1.2": {"page_number": "1", "rule_number": "V.1.2", "definition": "Wheelbase\nThe vehicle must have a minimum wheelbase of 1525 mm"}}`,
		`{"V.2.1": {"page_number": "2", "rule_number": "V.2.1", "definition": "Track width requirements."}}`,
	}
	deps := testDeps(t, mock)

	pages := map[string]any{
		"1": "V.1.2 Wheelbase\nThe vehicle must have a minimum wheelbase of 1525 mm",
		"2": "V.2.1 Track\nTrack width requirements.",
		"3": "out of range page",
	}
	if err := deps.Store.Write(deps.Home.PagesPath(), pages); err != nil {
		t.Fatalf("failed to seed pages: %v", err)
	}

	res, err := ExtractRules(context.Background(), deps, Range{Start: 1, End: 2})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if res.PagesProcessed != 2 {
		t.Errorf("expected 2 pages processed, got %d", res.PagesProcessed)
	}

	rulesDoc, err := deps.Store.Load(deps.Home.RulesPath())
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}
	if len(rulesDoc) != 2 {
		t.Fatalf("expected 2 pages of rules, got %d", len(rulesDoc))
	}

	// Raw model output is stored as a string and coerced on read.
	page1 := kb.CoerceMap(rulesDoc["1"], nil)
	if _, ok := page1["V.1.2"]; !ok {
		t.Errorf("expected rule V.1.2 on page 1, got %v", page1)
	}

	// Only requested pages are sent to the model.
	if got := len(mock.Requests()); got != 2 {
		t.Errorf("expected 2 LLM calls, got %d", got)
	}

	// Calls are recorded for traceability.
	calls, err := llmcall.Load(deps.Home.CallLogPath())
	if err != nil {
		t.Fatalf("failed to load call log: %v", err)
	}
	if len(calls) != 2 || calls[0].Stage != "rules" {
		t.Errorf("unexpected call log: %+v", calls)
	}
}

func TestAnnotate(t *testing.T) {
	// One rule on one page: terms call then measurements call.
	mock := providers.NewMockClient()
	mock.Responses = []string{
		`{"technical_terms": ["Wheelbase"]}`,
		`{"dimension1": {"type": "length", "component": ["wheelbase"], "value": "1525", "unit": "mm"}}`,
	}
	deps := testDeps(t, mock)

	rulesDoc := map[string]any{
		"1": `{"V.1.2": {"page_number": "1", "rule_number": "V.1.2", "definition": "Wheelbase\nThe vehicle must have a minimum wheelbase of 1525 mm"}}`,
	}
	if err := deps.Store.Write(deps.Home.RulesPath(), rulesDoc); err != nil {
		t.Fatalf("failed to seed rules: %v", err)
	}

	res, err := Annotate(context.Background(), deps, Range{Start: 1, End: 1})
	if err != nil {
		t.Fatalf("annotate failed: %v", err)
	}
	if res.RulesAnnotated != 1 || res.RulesSkipped != 0 {
		t.Errorf("unexpected counts: %+v", res)
	}

	annotated, err := deps.Store.Load(deps.Home.AnnotatedPath())
	if err != nil {
		t.Fatalf("failed to load annotated: %v", err)
	}
	page1, _ := annotated["1"].(map[string]any)
	rule, _ := page1["V.1.2"].(map[string]any)
	if rule == nil {
		t.Fatalf("expected annotated rule, got %v", annotated)
	}

	termsMap, _ := rule["terms"].(map[string]any)
	if termsMap["Wheelbase"] != "V.1.2" {
		t.Errorf("expected Wheelbase tagged with V.1.2, got %v", rule["terms"])
	}

	measMap, _ := rule["measurements"].(map[string]any)
	dim, _ := measMap["dimension1"].(map[string]any)
	if dim["rule#"] != "V.1.2" {
		t.Errorf("expected measurement tagged with rule#, got %v", measMap)
	}
}

func TestAnnotateSkipsUnparseableRules(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{"the model rambled instead of returning JSON"}
	deps := testDeps(t, mock)

	rulesDoc := map[string]any{
		"1": map[string]any{
			"V.1": map[string]any{"rule_number": "V.1", "definition": "CONFIGURATION"},
		},
	}
	if err := deps.Store.Write(deps.Home.RulesPath(), rulesDoc); err != nil {
		t.Fatalf("failed to seed rules: %v", err)
	}

	res, err := Annotate(context.Background(), deps, Range{Start: 1, End: 1})
	if err != nil {
		t.Fatalf("annotate failed: %v", err)
	}
	if res.RulesAnnotated != 0 || res.RulesSkipped != 1 {
		t.Errorf("unexpected counts: %+v", res)
	}
}

func TestAnnotateKeepsRecordsWhenCallsFail(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	deps := testDeps(t, mock)

	rulesDoc := map[string]any{
		"1": map[string]any{
			"V.1": map[string]any{"rule_number": "V.1", "definition": "CONFIGURATION"},
			"V.2": map[string]any{"rule_number": "V.2", "definition": "DRIVER"},
		},
	}
	if err := deps.Store.Write(deps.Home.RulesPath(), rulesDoc); err != nil {
		t.Fatalf("failed to seed rules: %v", err)
	}

	// V.1 was annotated by a prior run.
	prior := map[string]any{
		"1": map[string]any{
			"V.1": map[string]any{
				"rule_number": "V.1",
				"definition":  "CONFIGURATION",
				"terms":       map[string]any{"Open Wheel": "V.1"},
			},
		},
	}
	if err := deps.Store.Write(deps.Home.AnnotatedPath(), prior); err != nil {
		t.Fatalf("failed to seed annotated: %v", err)
	}

	res, err := Annotate(context.Background(), deps, Range{Start: 1, End: 1})
	if err != nil {
		t.Fatalf("annotate failed: %v", err)
	}
	if res.RulesAnnotated != 0 || res.RulesSkipped != 2 {
		t.Errorf("unexpected counts: %+v", res)
	}

	annotated, err := deps.Store.Load(deps.Home.AnnotatedPath())
	if err != nil {
		t.Fatalf("failed to load annotated: %v", err)
	}
	page1, _ := annotated["1"].(map[string]any)

	// The prior run's annotation survives the failed calls.
	v1, _ := page1["V.1"].(map[string]any)
	if v1 == nil {
		t.Fatalf("previously annotated rule was dropped, page entry: %v", page1)
	}
	termsMap, _ := v1["terms"].(map[string]any)
	if termsMap["Open Wheel"] != "V.1" {
		t.Errorf("prior annotation was lost, got %v", v1["terms"])
	}

	// A never-annotated rule keeps its record with an empty annotation.
	v2, _ := page1["V.2"].(map[string]any)
	if v2 == nil {
		t.Fatalf("un-annotated rule was dropped, page entry: %v", page1)
	}
	if v2["definition"] != "DRIVER" {
		t.Errorf("expected un-annotated record to carry through, got %v", v2)
	}
	if _, hasTerms := v2["terms"]; hasTerms {
		t.Errorf("expected no terms on failed annotation, got %v", v2["terms"])
	}
}

func TestArrange(t *testing.T) {
	deps := testDeps(t, providers.NewMockClient())

	annotated := map[string]any{
		"1": map[string]any{
			"V.1.2": map[string]any{
				"page_number": "1",
				"rule_number": "V.1.2",
				"definition":  "Wheelbase\nThe vehicle must have a minimum wheelbase of 1525 mm",
				"terms":       map[string]any{"Wheelbase": "V.1.2"},
				"measurements": map[string]any{
					"dimension1": map[string]any{"type": "length", "value": "1525", "unit": "mm", "rule#": "V.1.2"},
				},
			},
		},
	}
	if err := deps.Store.Write(deps.Home.AnnotatedPath(), annotated); err != nil {
		t.Fatalf("failed to seed annotated: %v", err)
	}

	res, err := Arrange(context.Background(), deps)
	if err != nil {
		t.Fatalf("arrange failed: %v", err)
	}
	if res.Entries != 2 {
		t.Errorf("expected rule + term entries, got %d", res.Entries)
	}

	knowledge, err := deps.Store.Load(deps.Home.KnowledgePath())
	if err != nil {
		t.Fatalf("failed to load knowledge: %v", err)
	}
	if _, ok := knowledge["V.1.2"]; !ok {
		t.Error("expected rule entry in knowledge base")
	}
	if _, ok := knowledge["Wheelbase"]; !ok {
		t.Error("expected term entry in knowledge base")
	}
}

func TestArrangeEmptyInput(t *testing.T) {
	deps := testDeps(t, providers.NewMockClient())
	if _, err := Arrange(context.Background(), deps); err == nil {
		t.Error("expected error when no annotated rules exist")
	}
}

package query

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rulekb/rulekb/internal/home"
	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/pipeline"
	"github.com/rulekb/rulekb/internal/prompts"
	qprompts "github.com/rulekb/rulekb/internal/prompts/query"
	"github.com/rulekb/rulekb/internal/providers"
)

func testDeps(t *testing.T, client providers.LLMClient) *pipeline.Deps {
	t.Helper()

	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create home: %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("failed to ensure home: %v", err)
	}

	registry := prompts.NewRegistry(nil)
	qprompts.RegisterPrompts(registry)

	return &pipeline.Deps{
		Home:     h,
		Client:   client,
		Prompts:  registry,
		Store:    kb.NewStore(nil),
		Recorder: llmcall.NewRecorder(h.CallLogPath(), nil),
		Model:    "gpt-4o-mini",
	}
}

func seedKnowledge(t *testing.T, deps *pipeline.Deps) {
	t.Helper()
	knowledge := map[string]any{
		"V.1": map[string]any{
			"rule_number":  "V.1",
			"definition":   "CONFIGURATION\nThe vehicle must be open wheeled and open cockpit with four wheels.",
			"terms":        map[string]any{"Open Wheel": "V.1"},
			"measurements": map[string]any{},
		},
		"T.7.1": map[string]any{
			"rule_number":  "T.7.1",
			"definition":   "All aerodynamic devices must meet mounting requirements.",
			"terms":        map[string]any{"Aerodynamic": "T.7.1"},
			"measurements": map[string]any{},
		},
		"T.7.2": map[string]any{
			"rule_number":  "T.7.2",
			"definition":   "Aerodynamic devices must not exceed width limits.",
			"terms":        map[string]any{"Aerodynamic": "T.7.2"},
			"measurements": map[string]any{},
		},
		// Aggregated term records keep terms as the literal term string;
		// rule-number search only scans the terms sub-mapping of rules.
		"Aerodynamic": map[string]any{
			"page_number":  []any{"2"},
			"rule_number":  []any{"T.7.1", "T.7.2"},
			"definition":   "All aerodynamic devices must meet mounting requirements.",
			"terms":        "Aerodynamic",
			"measurements": map[string]any{},
		},
	}
	if err := deps.Store.Write(deps.Home.KnowledgePath(), knowledge); err != nil {
		t.Fatalf("failed to seed knowledge: %v", err)
	}
}

func TestLookup(t *testing.T) {
	deps := testDeps(t, providers.NewMockClient())
	seedKnowledge(t, deps)

	t.Run("definition by rule number", func(t *testing.T) {
		got, err := Lookup(deps, "V.1", kb.ModeDefinition)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if got != "CONFIGURATION\nThe vehicle must be open wheeled and open cockpit with four wheels." {
			t.Errorf("unexpected definition: %v", got)
		}
	})

	t.Run("singular mode alias", func(t *testing.T) {
		got, err := Lookup(deps, "Open Wheel", "rule_number")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"V.1"}) {
			t.Errorf("unexpected rules: %v", got)
		}
	})

	t.Run("empty knowledge base errors", func(t *testing.T) {
		empty := testDeps(t, providers.NewMockClient())
		if _, err := Lookup(empty, "V.1", kb.ModeDefinition); err == nil {
			t.Error("expected error for empty knowledge base")
		}
	})
}

func TestRetrieve(t *testing.T) {
	t.Run("definition route", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Responses = []string{`{"key_to_extract": "V.1", "information_to_extract": "definition"}`}
		deps := testDeps(t, mock)
		seedKnowledge(t, deps)

		ret, err := Retrieve(context.Background(), deps, "What does rule V.1 state exactly?")
		if err != nil {
			t.Fatalf("retrieve failed: %v", err)
		}
		if ret.InformationToExtract != kb.ModeDefinition {
			t.Errorf("unexpected mode: %s", ret.InformationToExtract)
		}
		def, _ := ret.InformationExtracted["V.1"].(string)
		if def == "" || def[:13] != "CONFIGURATION" {
			t.Errorf("unexpected context: %v", ret.InformationExtracted)
		}
	})

	t.Run("term route with variants", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Responses = []string{`{"key_to_extract": ["Aerodynamic", "Aerodynamics"], "information_to_extract": "rule_number"}`}
		deps := testDeps(t, mock)
		seedKnowledge(t, deps)

		ret, err := Retrieve(context.Background(), deps, "List all rules relevant to Aerodynamics.")
		if err != nil {
			t.Fatalf("retrieve failed: %v", err)
		}
		rules, _ := ret.InformationExtracted["Aerodynamic"].([]string)
		if !reflect.DeepEqual(rules, []string{"T.7.1", "T.7.2"}) {
			t.Errorf("unexpected rules: %v", ret.InformationExtracted["Aerodynamic"])
		}
		// Unknown variant resolves to a descriptive miss, not an error.
		if _, ok := ret.InformationExtracted["Aerodynamics"].(string); !ok {
			t.Errorf("expected miss message for unknown variant, got %v", ret.InformationExtracted["Aerodynamics"])
		}
	})

	t.Run("unroutable question errors", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Responses = []string{"I could not classify this question."}
		deps := testDeps(t, mock)
		seedKnowledge(t, deps)

		if _, err := Retrieve(context.Background(), deps, "gibberish"); err == nil {
			t.Error("expected error for unparseable routing decision")
		}
	})
}

func TestAnswer(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		`{"key_to_extract": "V.1", "information_to_extract": "definition"}`,
		"CONFIGURATION\nThe vehicle must be open wheeled and open cockpit with four wheels.",
	}
	deps := testDeps(t, mock)
	seedKnowledge(t, deps)

	res, err := Answer(context.Background(), deps, "What does rule V.1 state exactly?")
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if res.Answer == "" || res.Retrieval == nil {
		t.Fatalf("unexpected result: %+v", res)
	}

	// Route call + answer call.
	if got := len(mock.Requests()); got != 2 {
		t.Errorf("expected 2 LLM calls, got %d", got)
	}

	calls, err := llmcall.Load(deps.Home.CallLogPath())
	if err != nil {
		t.Fatalf("failed to load call log: %v", err)
	}
	if len(calls) != 2 || calls[1].PromptKey != qprompts.AnswerPromptKey {
		t.Errorf("unexpected call log: %+v", calls)
	}
}

func TestEval(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		`{"key_to_extract": "V.1", "information_to_extract": "definition"}`,
		"CONFIGURATION answer",
		`{"key_to_extract": ["Aerodynamic"], "information_to_extract": "rule_number"}`,
		"T.7.1, T.7.2",
	}
	deps := testDeps(t, mock)
	seedKnowledge(t, deps)

	csvPath := filepath.Join(t.TempDir(), "questions.csv")
	content := "question,answer\nWhat does rule V.1 state exactly?,expected one\nList all rules relevant to Aerodynamics.,expected two\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write eval input: %v", err)
	}

	res, err := Eval(context.Background(), deps, csvPath, "question")
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if res.Questions != 2 {
		t.Errorf("expected 2 questions, got %d", res.Questions)
	}
	if filepath.Base(res.OutPath) != "questions_gpt-4o-mini.csv" {
		t.Errorf("unexpected output name: %s", res.OutPath)
	}

	f, err := os.Open(res.OutPath)
	if err != nil {
		t.Fatalf("failed to open eval output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read eval output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][len(rows[0])-1] != "model prediction" {
		t.Errorf("missing prediction column: %v", rows[0])
	}
	if rows[1][2] != "CONFIGURATION answer" {
		t.Errorf("unexpected prediction: %v", rows[1])
	}
}

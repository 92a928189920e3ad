// Package llmcall provides LLM call recording for traceability.
// Every LLM API call is appended to a JSONL log with its prompt key,
// response, and metrics.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/rulekb/rulekb/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Context references
	Stage string `json:"stage,omitempty"` // Pipeline stage: rules, annotate, query
	Page  string `json:"page,omitempty"`
	Rule  string `json:"rule,omitempty"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key"`
	PromptHash string `json:"prompt_hash,omitempty"`

	// Model info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Response
	Response string `json:"response"`

	// Status
	Attempts int    `json:"attempts"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	// Pipeline stage and document references (all optional)
	Stage string
	Page  string
	Rule  string

	// Prompt identification (required for traceability)
	PromptKey  string
	PromptHash string
}

// FromResult creates a Call from a CompletionResult.
// Returns nil if result is nil.
func FromResult(result *providers.CompletionResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		Stage:        opts.Stage,
		Page:         opts.Page,
		Rule:         opts.Rule,
		PromptKey:    opts.PromptKey,
		PromptHash:   opts.PromptHash,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Response:     result.Content,
		Attempts:     result.Attempts,
		Success:      result.Success,
	}

	if !result.Success {
		call.Error = result.ErrorMessage
	}

	return call
}

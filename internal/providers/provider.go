// Package providers implements LLM completion clients for the annotation
// pipeline. The pipeline treats a client as an opaque collaborator: it hands
// over a prompt and document text, and gets back response text that should
// be a JSON-encoded object. Retry and rate-limit policy live here, not in
// the pipeline.
package providers

import (
	"context"
	"time"
)

// LLMClient is the interface for text-completion requests.
type LLMClient interface {
	// Complete sends a completion request.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// CompletionRequest is a request to an LLM.
type CompletionRequest struct {
	// Prompt is the instruction template text, prepended to Text.
	Prompt string

	// Text is the document text being processed.
	Text string

	// Model selection (uses client default if empty).
	Model string

	// Request tracking.
	RequestID string
}

// CompletionResult is the complete response from an LLM call.
type CompletionResult struct {
	// Response content
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing. Responses are served from a
// scripted queue; once the queue is drained, ResponseText is returned.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	Responses    []string // Scripted responses, consumed in order

	mu           sync.Mutex
	requestCount int
	requests     []*CompletionRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "{}",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Requests returns a copy of every request seen so far.
func (c *MockClient) Requests() []*CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*CompletionRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// Complete serves the next scripted response.
func (c *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	c.mu.Lock()
	c.requestCount++
	count := c.requestCount
	c.requests = append(c.requests, req)
	content := c.ResponseText
	if len(c.Responses) > 0 {
		content = c.Responses[0]
		c.Responses = c.Responses[1:]
	}
	c.mu.Unlock()

	result := &CompletionResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
		Attempts:  1,
	}

	if c.ShouldFail || (c.FailAfter > 0 && count > c.FailAfter) {
		result.Success = false
		result.ErrorType = "mock_failure"
		result.ErrorMessage = "mock client configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.Success = false
			result.ErrorType = "context_cancelled"
			result.ErrorMessage = ctx.Err().Error()
			return result, ctx.Err()
		}
	}

	result.Success = true
	result.Content = content
	result.PromptTokens = (len(req.Prompt) + len(req.Text)) / 4
	result.CompletionTokens = len(content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens
	result.ExecutionTime = time.Since(start)
	return result, nil
}

var _ LLMClient = (*MockClient)(nil)

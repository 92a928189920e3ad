package llmcall

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/rulekb/rulekb/internal/providers"
)

// Recorder appends LLM call records to a JSONL file, one JSON object per
// line. Recording is best-effort: failures are logged, never propagated.
type Recorder struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewRecorder creates a new LLM call recorder writing to path.
// An empty path disables recording.
func NewRecorder(path string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{path: path, logger: logger}
}

// Record captures an LLM call result.
func (r *Recorder) Record(result *providers.CompletionResult, opts RecordOptions) {
	r.RecordCall(FromResult(result, opts))
}

// RecordCall appends an already-constructed Call to the log.
func (r *Recorder) RecordCall(call *Call) {
	if r == nil || r.path == "" || call == nil {
		return
	}

	line, err := json.Marshal(call)
	if err != nil {
		r.logger.Warn("failed to serialize LLM call record", "error", err, "id", call.ID)
		return
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.logger.Warn("failed to open LLM call log", "error", err, "path", r.path)
		return
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		r.logger.Warn("failed to append LLM call record", "error", err, "path", r.path)
	}
}

// Load reads all recorded calls from the log. A missing file yields an
// empty slice.
func Load(path string) ([]Call, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var calls []Call
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var c Call
		if err := dec.Decode(&c); err != nil {
			return calls, err
		}
		calls = append(calls, c)
	}
	return calls, nil
}

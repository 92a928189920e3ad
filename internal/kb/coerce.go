package kb

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// CoerceMap returns v as a JSON object.
//
// Objects pass through unchanged. Strings are parsed as JSON; a string that
// does not decode to an object is logged and an empty (non-nil) map is
// returned so the caller can keep going. This absorbs the upstream habit of
// double-encoding: LLM responses arrive as JSON text in some runs and as
// already-parsed objects in others.
//
// Callers must treat an empty result as "no data available", not as a
// missing key.
func CoerceMap(v any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	switch val := v.(type) {
	case map[string]any:
		return val
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(val), &parsed); err != nil {
			logger.Warn("could not decode string as JSON object", "error", err)
			return map[string]any{}
		}
		return parsed
	case nil:
		return map[string]any{}
	default:
		logger.Warn("expected JSON object", "type", fmt.Sprintf("%T", v))
		return map[string]any{}
	}
}

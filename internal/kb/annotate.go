package kb

import "log/slog"

// AddRuleToTerms transforms a term-extraction result into a term→rule
// mapping, tagging every term with the rule whose definition it came from.
//
// The technical_terms field arrives in one of three shapes: a list of term
// strings, the literal string "NONE" (no terms in this rule), or a bare
// string holding a single term. All three normalize to a mapping; "NONE"
// yields an empty one.
func AddRuleToTerms(termsResult map[string]any, ruleNumber string, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	var terms []string
	switch val := termsResult["technical_terms"].(type) {
	case []any:
		for _, item := range val {
			if term, ok := item.(string); ok {
				terms = append(terms, term)
			}
		}
	case []string:
		terms = val
	case string:
		if val != "NONE" {
			logger.Warn("technical_terms is not a list", "value", val)
			terms = []string{val}
		}
	case nil:
		// No terms field at all: treat as no terms.
	default:
		logger.Warn("unexpected technical_terms shape", "rule", ruleNumber)
	}

	mapped := make(map[string]any, len(terms))
	for _, term := range terms {
		mapped[term] = ruleNumber
	}
	return mapped
}

// TagMeasurements adds a "rule#" field to every measurement entry, marking
// the rule it was extracted from. Entry shape is not validated beyond being
// an object; malformed entries pass through unchanged — annotation quality
// is the upstream extractor's concern.
func TagMeasurements(measurements map[string]any, ruleNumber string) map[string]any {
	for key, value := range measurements {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}
		entry["rule#"] = ruleNumber
		measurements[key] = entry
	}
	return measurements
}

// AttachAnnotations merges LLM-derived term and measurement results onto a
// rule record in place, replacing its terms and measurements fields.
func AttachAnnotations(rule map[string]any, termsResult, measurementsResult map[string]any, ruleNumber string, logger *slog.Logger) {
	rule["terms"] = AddRuleToTerms(termsResult, ruleNumber, logger)
	rule["measurements"] = TagMeasurements(measurementsResult, ruleNumber)
}

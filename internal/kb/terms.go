package kb

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// termAccumulator collects the cross-references for one distinct term while
// scanning rule records. Page and rule sets are deduplicated; the definition
// is the first non-empty one seen and is never overwritten afterwards (term
// definitions are considered more stable than rule-content overwrites, the
// opposite of Flatten's last-write-wins).
type termAccumulator struct {
	pages      map[string]struct{}
	rules      map[string]struct{}
	definition string
}

func newTermAccumulator() *termAccumulator {
	return &termAccumulator{
		pages: make(map[string]struct{}),
		rules: make(map[string]struct{}),
	}
}

// record converts the accumulator into a serializable TermRecord. Set order
// is unspecified; lists are sorted only so repeated runs produce identical
// artifacts. Consumers must compare them as sets.
func (a *termAccumulator) record(term string) map[string]any {
	return map[string]any{
		"page_number":  setToList(a.pages),
		"rule_number":  setToList(a.rules),
		"definition":   a.definition,
		"terms":        term,
		"measurements": map[string]any{},
	}
}

// AggregateTerms scans every rule record in a page-keyed document and builds
// the term-keyed index: for each distinct term (exact text, case and
// punctuation preserved) the set of pages and rule numbers it appears under,
// plus a representative definition.
//
// The result is a pure function of its input; it is recomputed wholesale on
// every run, never incrementally updated.
func AggregateTerms(pageDoc map[string]any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	accumulators := make(map[string]*termAccumulator)

	for _, page := range sortedKeys(pageDoc) {
		rules := CoerceMap(pageDoc[page], logger)
		for _, rule := range sortedKeys(rules) {
			details := CoerceMap(rules[rule], logger)

			pageNumber := stringValue(details["page_number"], page)
			definition := stringValue(details["definition"], "")
			terms := CoerceMap(details["terms"], logger)

			for term, owningRule := range terms {
				acc, ok := accumulators[term]
				if !ok {
					acc = newTermAccumulator()
					accumulators[term] = acc
				}
				acc.pages[pageNumber] = struct{}{}
				acc.rules[stringValue(owningRule, rule)] = struct{}{}
				if acc.definition == "" {
					acc.definition = definition
				}
			}
		}
	}

	index := make(map[string]any, len(accumulators))
	for term, acc := range accumulators {
		index[term] = acc.record(term)
	}
	return index
}

// BuildIndex produces the final combined knowledge document from an annotated
// page-keyed document: rule records flattened to one level (page_number
// dropped, measurements reset), with the aggregated term records merged over
// them. Term keys never collide with rule numbers in practice; if one did,
// the term record would win.
func BuildIndex(pageDoc map[string]any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	index := make(map[string]any)
	for rule, details := range Flatten(pageDoc, logger) {
		record := CoerceMap(details, logger)
		index[rule] = map[string]any{
			"rule_number":  stringValue(record["rule_number"], rule),
			"definition":   stringValue(record["definition"], ""),
			"terms":        CoerceMap(record["terms"], logger),
			"measurements": map[string]any{},
		}
	}

	for term, record := range AggregateTerms(pageDoc, logger) {
		index[term] = record
	}
	return index
}

// Extraction modes for ExtractInformation.
const (
	ModeDefinition  = "definition"
	ModeRuleNumbers = "rule_numbers"
)

// ExtractInformation answers the two lookup shapes the knowledge base
// supports:
//
//   - ModeDefinition: the definition for an exact rule-number or term key.
//   - ModeRuleNumbers: every owning rule number for a term, matched
//     case-insensitively against the terms sub-mapping of every record.
//
// A miss is reported as a descriptive string, not an error — callers check
// for the "not found" sentinel text. ModeRuleNumbers returns []string on a
// hit.
func ExtractInformation(doc map[string]any, key, mode string, logger *slog.Logger) any {
	if logger == nil {
		logger = slog.Default()
	}

	switch mode {
	case ModeDefinition:
		value, ok := doc[key]
		if !ok {
			return fmt.Sprintf("Key %q not found in the knowledge base.", key)
		}
		record := CoerceMap(value, logger)
		definition := stringValue(record["definition"], "")
		if definition == "" {
			return fmt.Sprintf("No definition found for key: %s", key)
		}
		return definition

	case ModeRuleNumbers:
		var ruleNumbers []string
		for _, recordKey := range sortedKeys(doc) {
			record := CoerceMap(doc[recordKey], logger)
			terms := CoerceMap(record["terms"], logger)
			for term, rule := range terms {
				if strings.EqualFold(term, key) {
					ruleNumbers = append(ruleNumbers, rulesOf(rule)...)
				}
			}
		}
		if len(ruleNumbers) == 0 {
			return fmt.Sprintf("Technical term %q not found in the knowledge base.", key)
		}
		sort.Strings(ruleNumbers)
		return dedupe(ruleNumbers)

	default:
		return fmt.Sprintf("Invalid extraction mode: %s. Use %q or %q.", mode, ModeDefinition, ModeRuleNumbers)
	}
}

// rulesOf normalizes a term's owning-rule value, which is a single rule
// number in rule records but a list in aggregated term records.
func rulesOf(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		rules := make([]string, 0, len(val))
		for _, item := range val {
			rules = append(rules, stringValue(item, ""))
		}
		return rules
	case []string:
		return val
	default:
		return []string{stringValue(v, "")}
	}
}

// stringValue renders a scalar JSON value as a string, defaulting when the
// value is absent or empty. Page numbers in particular arrive as either
// strings or numbers depending on the producing run.
func stringValue(v any, fallback string) string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return fallback
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case nil:
		return fallback
	default:
		return fmt.Sprintf("%v", val)
	}
}

func setToList(set map[string]struct{}) []any {
	list := make([]string, 0, len(set))
	for item := range set {
		list = append(list, item)
	}
	sort.Strings(list)

	out := make([]any, len(list))
	for i, item := range list {
		out[i] = item
	}
	return out
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

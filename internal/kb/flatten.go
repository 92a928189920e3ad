package kb

import "log/slog"

// Flatten collapses a page-keyed document {page: {rule: record}} into a
// rule-keyed document {rule: record}.
//
// Pages are visited in ascending numeric order and page values are coerced
// through CoerceMap, so a page whose rules arrived as a JSON string still
// contributes. A rule number appearing under more than one page is an
// acknowledged lossy case: the record from the last page visited wins.
// Callers must not depend on first-write-wins here.
func Flatten(pageDoc map[string]any, logger *slog.Logger) map[string]any {
	flattened := make(map[string]any)
	for _, page := range sortedKeys(pageDoc) {
		rules := CoerceMap(pageDoc[page], logger)
		for _, rule := range sortedKeys(rules) {
			flattened[rule] = rules[rule]
		}
	}
	return flattened
}

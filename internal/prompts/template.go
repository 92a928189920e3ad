package prompts

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"sort"
)

// templateVarPattern matches {{.Name}} references in prompt text,
// tolerating surrounding whitespace and nested fields like {{.Rule.Definition}}.
var templateVarPattern = regexp.MustCompile(`\{\{\s*\.([a-zA-Z_][a-zA-Z0-9_.]*)\s*\}\}`)

// ExtractVariables lists the distinct variable names a Go template
// references, sorted alphabetically. Returns nil when the text references
// none, which is the common case for the one-shot extraction prompts.
func ExtractVariables(text string) []string {
	seen := make(map[string]struct{})
	for _, match := range templateVarPattern.FindAllStringSubmatch(text, -1) {
		seen[match[1]] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}

	vars := make([]string, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return vars
}

// HashText fingerprints prompt text with SHA-256. Call records carry the
// hash so a response can be traced back to the exact prompt revision that
// produced it.
func HashText(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}

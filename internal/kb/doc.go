// Package kb implements the knowledge-base merge and reshaping pipeline.
//
// Rule data flows through three converging representations of the same
// underlying document:
//
//   - page-keyed:  { "<page>": { "<rule>": {page_number, rule_number, definition, ...} } }
//   - rule-keyed:  { "<rule>": {rule_number, definition, terms, measurements} }
//   - term-keyed:  { "<term>": {page_number: [...], rule_number: [...], definition, terms} }
//
// Values produced by upstream LLM calls are sometimes JSON-encoded strings
// where an object is expected. CoerceMap is the single normalization boundary
// for that; every traversal in this package applies it before descending.
//
// All operations load a full document, mutate an in-memory copy, and write
// the whole document back. Nothing in this package holds long-lived state.
package kb

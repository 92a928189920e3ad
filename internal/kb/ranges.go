package kb

import (
	"fmt"
	"sort"
	"strconv"
)

// InvalidKeyError reports a document key that could not be parsed as a page
// number. It is a hard failure: a non-numeric page key means the upstream
// extraction produced a structurally wrong document.
type InvalidKeyError struct {
	Key string
	Err error
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid page key %q: %v", e.Key, e.Err)
}

func (e *InvalidKeyError) Unwrap() error { return e.Err }

// SelectRange returns the entries of doc whose key, parsed as an integer,
// falls within [start, end] inclusive. Used to chunk a document into
// LLM-call-sized batches.
func SelectRange(doc map[string]any, start, end int) (map[string]any, error) {
	selected := make(map[string]any)
	for key, value := range doc {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, &InvalidKeyError{Key: key, Err: err}
		}
		if start <= n && n <= end {
			selected[key] = value
		}
	}
	return selected, nil
}

// SortedKeys returns the keys of doc in stable traversal order: ascending
// numeric where keys parse as integers, lexicographic otherwise.
func SortedKeys(doc map[string]any) []string {
	return sortedKeys(doc)
}

// sortedKeys returns the keys of doc in ascending numeric order where keys
// parse as integers, falling back to lexicographic order otherwise. Gives
// map traversal a stable order so reshaping is deterministic across runs.
func sortedKeys(doc map[string]any) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		if errI == nil && errJ == nil {
			return ni < nj
		}
		if errI == nil || errJ == nil {
			return errI == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}

package ids

import (
	"sort"
	"strings"
)

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
// Keys are lowercased; empty and duplicate IDs are ignored.
func UniquePrefixLengths(ids []string) map[string]int {
	sorted := normalizeUnique(ids)
	lengths := make(map[string]int, len(sorted))
	for i, id := range sorted {
		shared := 0
		if i > 0 {
			shared = max(shared, commonPrefix(id, sorted[i-1]))
		}
		if i+1 < len(sorted) {
			shared = max(shared, commonPrefix(id, sorted[i+1]))
		}
		lengths[id] = min(shared+1, len(id))
	}
	return lengths
}

// MatchPrefix finds the single ID starting with prefix, ignoring case.
// found reports whether any ID matched; ambiguous reports more than one.
func MatchPrefix(ids []string, prefix string) (match string, found, ambiguous bool) {
	prefix = strings.ToLower(prefix)
	if prefix == "" {
		return "", false, false
	}
	for _, id := range normalizeUnique(ids) {
		if id == prefix {
			return id, true, false
		}
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if found {
			ambiguous = true
			continue
		}
		match, found = id, true
	}
	if ambiguous {
		return "", true, true
	}
	return match, found, false
}

func normalizeUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

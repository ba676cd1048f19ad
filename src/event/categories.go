package event

import "strings"

// DefaultCategory is substituted when a create submission names no
// categories, so the payload always carries at least one.
const DefaultCategory = "general"

// SplitCategories splits free-form category text on commas, trims each
// entry, and drops empties.
func SplitCategories(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EnsureCategories returns the list unchanged unless it is empty, in
// which case the default single-element list is substituted.
func EnsureCategories(cats []string) []string {
	if len(cats) == 0 {
		return []string{DefaultCategory}
	}
	return cats
}

// JoinCategories serializes a category filter for the listing
// endpoint: the sentinel "all" for an empty filter, otherwise a
// comma-joined lowercase tag list.
func JoinCategories(cats []string) string {
	if len(cats) == 0 {
		return "all"
	}
	lowered := make([]string, len(cats))
	for i, c := range cats {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return strings.Join(lowered, ",")
}

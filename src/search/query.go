// Package search implements the search-bar query routing: free text
// goes to the search endpoints, hashtag and category:-prefixed tokens
// are redirected to the category listing instead.
package search

import (
	"regexp"
	"strings"
)

var (
	prefixPattern = regexp.MustCompile(`(?i)(?:cat|category):\s*([^\s#]+)`)
	tagPattern    = regexp.MustCompile(`#([^\s#]+)`)
)

// ExtractCategories pulls category tags out of a query string. A
// "category:" or "cat:" prefixed value wins (comma split, lowercased);
// otherwise every "#tag" token is collected (lowercased). Returns nil
// when the query carries no category token.
func ExtractCategories(q string) []string {
	if q == "" {
		return nil
	}
	if m := prefixPattern.FindStringSubmatch(q); m != nil {
		var cats []string
		for _, part := range strings.Split(m[1], ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				cats = append(cats, part)
			}
		}
		if len(cats) > 0 {
			return cats
		}
	}
	matches := tagPattern.FindAllStringSubmatch(q, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(m[1]))
	}
	return tags
}

// Kind classifies what a submitted query should do.
type Kind int

const (
	// KindList is an empty query: plain day listing with the current
	// category filter.
	KindList Kind = iota
	// KindCategories redirects to the category listing endpoint.
	KindCategories
	// KindText goes to the free-text (or AI) search endpoint.
	KindText
)

// Route classifies a query and returns the extracted categories when
// the query is a category token.
func Route(q string) (Kind, []string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return KindList, nil
	}
	if cats := ExtractCategories(q); cats != nil {
		return KindCategories, cats
	}
	return KindText, nil
}

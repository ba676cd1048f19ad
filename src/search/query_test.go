package search

import (
	"reflect"
	"testing"
)

func TestExtractCategories(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"hashtags", "#food, #music", []string{"food", "music"}},
		{"single hashtag", "#Food", []string{"food"}},
		{"category prefix", "category:food,music", []string{"food", "music"}},
		{"cat prefix", "cat: Food", []string{"food"}},
		{"prefix beats hashtags", "category:art #food", []string{"art"}},
		{"mixed case prefix", "CATEGORY:Sports", []string{"sports"}},
		{"plain text", "live jazz tonight", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCategories(tt.query)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractCategories(%q) = %v, expected %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		query string
		kind  Kind
		cats  []string
	}{
		{"#food, #music", KindCategories, []string{"food", "music"}},
		{"food trucks", KindText, nil},
		{"", KindList, nil},
		{"   ", KindList, nil},
		{"cat:music", KindCategories, []string{"music"}},
	}

	for _, tt := range tests {
		kind, cats := Route(tt.query)
		if kind != tt.kind {
			t.Errorf("Route(%q) kind = %v, expected %v", tt.query, kind, tt.kind)
		}
		if !reflect.DeepEqual(cats, tt.cats) {
			t.Errorf("Route(%q) cats = %v, expected %v", tt.query, cats, tt.cats)
		}
	}
}

package client

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/anteater/eventmap/src/event"
)

func sampleEvents() []event.Event {
	return []event.Event{
		{
			Title:      "Night Market",
			Day:        "2025-03-05",
			StartTime:  "18:00:00+00:00",
			EndTime:    "22:00:00+00:00",
			Latitude:   33.645198,
			Longitude:  -117.841019,
			Categories: []string{"food", "music"},
		},
		{
			Title:      "Morning Run",
			Day:        "2025-03-05",
			StartTime:  "07:30",
			Categories: []string{"general"},
		},
	}
}

func TestFormatEventsJSON(t *testing.T) {
	f := NewFormatter("json", true)
	out := f.FormatEvents("2025-03-05", sampleEvents())

	var decoded []event.Event
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("JSON output did not parse: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Title != "Night Market" {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestFormatEventsTable(t *testing.T) {
	f := NewFormatter("table", true)
	out := f.FormatEvents("2025-03-05", sampleEvents())

	if !strings.Contains(out, "Night Market") {
		t.Error("table output missing event title")
	}
	if !strings.Contains(out, "06:00 PM") {
		t.Error("table output should render 12-hour times")
	}
	if !strings.Contains(out, "┌") || !strings.Contains(out, "└") {
		t.Error("table output missing box drawing")
	}
	if !strings.Contains(out, "food, music") {
		t.Error("table output missing categories")
	}
}

func TestFormatEventsPlain(t *testing.T) {
	f := NewFormatter("plain", true)
	out := f.FormatEvents("2025-03-05", sampleEvents())

	if !strings.Contains(out, "Title: Night Market") {
		t.Error("plain output missing title line")
	}
	if !strings.Contains(out, "Start: 07:30 AM") {
		t.Error("plain output should render 12-hour times")
	}
	if !strings.Contains(out, "Location: 33.645198, -117.841019") {
		t.Error("plain output missing location line")
	}
}

func TestFormatEventsEmpty(t *testing.T) {
	for _, format := range []string{"table", "plain"} {
		f := NewFormatter(format, true)
		if out := f.FormatEvents("2025-03-05", nil); out != "No events found.\n" {
			t.Errorf("%s format: expected empty message, got %q", format, out)
		}
	}
}

func TestFormatEventCard(t *testing.T) {
	f := NewFormatter("table", true)
	out := f.FormatEvent(sampleEvents()[0])

	if !strings.Contains(out, "Night Market") {
		t.Error("card missing title")
	}
	if !strings.Contains(out, "06:00 PM - 10:00 PM") {
		t.Error("card missing time range")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		width    int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten!", 12, "exactly ten!"},
		{"this one is definitely too long", 10, "this on..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.in, tt.width, got, tt.expected)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	for _, line := range lines {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five" {
		t.Errorf("wrapping lost words: %v", lines)
	}
}

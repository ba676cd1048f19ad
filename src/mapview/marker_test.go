package mapview

import (
	"strings"
	"testing"

	"github.com/anteater/eventmap/src/event"
)

func TestNewMarkerPopupRules(t *testing.T) {
	mk := NewMarker(-117.84, 33.64, event.Event{})
	if mk.Popup != nil {
		t.Error("marker without title or description must not carry a popup")
	}

	mk = NewMarker(-117.84, 33.64, event.Event{Title: "Night Market"})
	if mk.Popup == nil {
		t.Fatal("marker with a title must carry a popup")
	}

	mk = NewMarker(-117.84, 33.64, event.Event{Description: "food stalls"})
	if mk.Popup == nil {
		t.Fatal("marker with a description must carry a popup")
	}
}

func TestNewMarkerFormatsTimes(t *testing.T) {
	mk := NewMarker(-117.84, 33.64, event.Event{
		Title:     "Open Mic",
		StartTime: "18:30:00+00:00",
		EndTime:   "2025-11-07T03:30:00Z",
	})
	if mk.Popup.StartTime != "06:30 PM" {
		t.Errorf("start = %q, expected 06:30 PM", mk.Popup.StartTime)
	}
	if mk.Popup.EndTime != "03:30 AM" {
		t.Errorf("end = %q, expected 03:30 AM", mk.Popup.EndTime)
	}

	// No recognizable time pattern: pass through unmodified.
	mk = NewMarker(0, 0, event.Event{Title: "x", StartTime: "soonish"})
	if mk.Popup.StartTime != "soonish" {
		t.Errorf("start = %q, expected passthrough", mk.Popup.StartTime)
	}
}

func TestMarkerIDsUnique(t *testing.T) {
	a := NewMarker(0, 0, event.Event{})
	b := NewMarker(0, 0, event.Event{})
	if a.ID == b.ID {
		t.Error("marker ids must be unique")
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{"Tom & Jerry's", "Tom &amp; Jerry&#39;s"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := EscapeHTML(tt.in); got != tt.expected {
			t.Errorf("EscapeHTML(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestPopupHTMLEscapesFields(t *testing.T) {
	p := &Popup{
		Title:       `<b>Party</b>`,
		Description: `"free" & open`,
		Day:         "2025-03-05",
		StartTime:   "06:30 PM",
		EndTime:     "09:00 PM",
		Categories:  []string{"music", "<x>"},
	}
	html := p.HTML()

	if strings.Contains(html, "<b>") {
		t.Error("title was not escaped")
	}
	for _, want := range []string{
		"&lt;b&gt;Party&lt;/b&gt;",
		"&quot;free&quot; &amp; open",
		"06:30 PM - 09:00 PM",
		"Categories: music, &lt;x&gt;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("popup html missing %q:\n%s", want, html)
		}
	}
}

func TestPopupHTMLTimeLineOmitsDanglingDash(t *testing.T) {
	p := &Popup{Title: "x", StartTime: "06:30 PM"}
	if html := p.HTML(); strings.Contains(html, " - ") {
		t.Errorf("time line should omit the range dash without an end time:\n%s", html)
	}
}

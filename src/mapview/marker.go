// Package mapview owns everything drawn in the map pane: the
// Web-Mercator viewport, the marker registry, and marker/popup
// construction.
package mapview

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/anteater/eventmap/src/event"
)

// Popup is the structured payload behind a marker. Rendering (and
// escaping) happens in one place, HTML(); panes that want plain text
// read the fields directly.
type Popup struct {
	Title       string
	Description string
	Day         string
	StartTime   string
	EndTime     string
	Categories  []string
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five characters that matter for markup
// injection.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTML renders the popup as markup. All free-text fields are escaped
// here, at the trust boundary, not by callers.
func (p *Popup) HTML() string {
	var b strings.Builder
	b.WriteString("<strong>" + EscapeHTML(p.Title) + "</strong>")
	b.WriteString("<div>" + EscapeHTML(p.Description) + "</div>")
	b.WriteString("<strong>Day:</strong>")
	b.WriteString("<div>" + EscapeHTML(p.Day) + "</div>")
	b.WriteString("<strong>Time:</strong>")
	timeLine := EscapeHTML(p.StartTime)
	if p.StartTime != "" && p.EndTime != "" {
		timeLine += " - " + EscapeHTML(p.EndTime)
	}
	b.WriteString("<div>" + timeLine + "</div>")
	b.WriteString("<div>Categories: " + EscapeHTML(strings.Join(p.Categories, ", ")) + "</div>")
	return b.String()
}

// Marker is a visual pin bound to one coordinate pair.
type Marker struct {
	ID    string
	Lng   float64
	Lat   float64
	Title string
	Popup *Popup
}

// NewMarker builds a marker for one event-like record. Times are
// rendered as 12-hour clock strings; a popup is attached only when the
// record has a title or a description.
func NewMarker(lng, lat float64, info event.Event) *Marker {
	m := &Marker{
		ID:    ulid.Make().String(),
		Lng:   lng,
		Lat:   lat,
		Title: info.Title,
	}
	if info.Title != "" || info.Description != "" {
		m.Popup = &Popup{
			Title:       info.Title,
			Description: info.Description,
			Day:         info.Day,
			StartTime:   event.Clock12(info.StartTime),
			EndTime:     event.Clock12(info.EndTime),
			Categories:  info.Categories,
		}
	}
	return m
}

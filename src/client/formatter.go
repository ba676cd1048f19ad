package client

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/anteater/eventmap/src/event"
)

// Formatter handles output formatting
type Formatter struct {
	Format  string
	NoColor bool
}

// NewFormatter creates a new formatter. Color is dropped when the
// output is not a terminal, regardless of noColor.
func NewFormatter(format string, noColor bool) *Formatter {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	return &Formatter{
		Format:  format,
		NoColor: noColor,
	}
}

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bd93f9")).Bold(true)

func (f *Formatter) colorize(s string) string {
	if f.NoColor {
		return s
	}
	return headerStyle.Render(s)
}

// FormatEvents formats a day's event listing
func (f *Formatter) FormatEvents(day string, events []event.Event) string {
	switch f.Format {
	case "json":
		return f.formatJSON(events)
	case "plain":
		return f.formatPlainEvents(events)
	// table
	default:
		return f.formatTableEvents(day, events)
	}
}

// FormatEvent formats a single event (the create echo)
func (f *Formatter) FormatEvent(ev event.Event) string {
	switch f.Format {
	case "json":
		return f.formatJSON(ev)
	case "plain":
		return f.formatPlainEvents([]event.Event{ev})
	default:
		return f.formatCard(ev)
	}
}

// formatJSON formats data as indented JSON
func (f *Formatter) formatJSON(data interface{}) string {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting JSON: %v", err)
	}
	return string(jsonData)
}

// formatPlainEvents formats events as plain text, one block per event
func (f *Formatter) formatPlainEvents(events []event.Event) string {
	if len(events) == 0 {
		return "No events found.\n"
	}

	var sb strings.Builder
	for i, ev := range events {
		sb.WriteString(fmt.Sprintf("Event %d:\n", i+1))
		if ev.Title != "" {
			sb.WriteString(fmt.Sprintf("  Title: %s\n", ev.Title))
		}
		if ev.Description != "" {
			sb.WriteString(fmt.Sprintf("  Description: %s\n", ev.Description))
		}
		if ev.Day != "" {
			sb.WriteString(fmt.Sprintf("  Day: %s\n", ev.Day))
		}
		if ev.StartTime != "" {
			sb.WriteString(fmt.Sprintf("  Start: %s\n", event.Clock12(ev.StartTime)))
		}
		if ev.EndTime != "" {
			sb.WriteString(fmt.Sprintf("  End: %s\n", event.Clock12(ev.EndTime)))
		}
		if ev.HasCoordinates() {
			sb.WriteString(fmt.Sprintf("  Location: %.6f, %.6f\n", float64(ev.Latitude), float64(ev.Longitude)))
		}
		if len(ev.Categories) > 0 {
			sb.WriteString(fmt.Sprintf("  Categories: %s\n", strings.Join(ev.Categories, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatTableEvents formats events as a table
func (f *Formatter) formatTableEvents(day string, events []event.Event) string {
	if len(events) == 0 {
		return "No events found.\n"
	}

	var sb strings.Builder
	if day != "" {
		sb.WriteString(f.colorize(fmt.Sprintf("Events for %s", day)))
		sb.WriteString("\n\n")
	}

	sb.WriteString("┌──────────────────────────┬────────────┬────────────┬──────────────────────┐\n")
	sb.WriteString("│          Title           │   Start    │    End     │      Categories      │\n")
	sb.WriteString("├──────────────────────────┼────────────┼────────────┼──────────────────────┤\n")

	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("│  %-22s  │  %-8s  │  %-8s  │  %-18s  │\n",
			truncate(ev.Title, 22),
			truncate(event.Clock12(ev.StartTime), 8),
			truncate(event.Clock12(ev.EndTime), 8),
			truncate(strings.Join(ev.Categories, ", "), 18)))
	}

	sb.WriteString("└──────────────────────────┴────────────┴────────────┴──────────────────────┘\n")

	return sb.String()
}

// formatCard formats a single event as a boxed card
func (f *Formatter) formatCard(ev event.Event) string {
	var sb strings.Builder

	sb.WriteString("┌────────────────────────────────────────────────────────┐\n")
	sb.WriteString(fmt.Sprintf("│  %-52s  │\n", truncate(ev.Title, 52)))
	sb.WriteString("├────────────────────────────────────────────────────────┤\n")

	if ev.Description != "" {
		for _, line := range wrapText(ev.Description, 50) {
			sb.WriteString(fmt.Sprintf("│  %-52s  │\n", line))
		}
	}
	if ev.Day != "" {
		sb.WriteString(fmt.Sprintf("│  Day:         %-39s  │\n", ev.Day))
	}
	if ev.StartTime != "" || ev.EndTime != "" {
		times := event.Clock12(ev.StartTime)
		if ev.EndTime != "" {
			times += " - " + event.Clock12(ev.EndTime)
		}
		sb.WriteString(fmt.Sprintf("│  Time:        %-39s  │\n", truncate(times, 39)))
	}
	if ev.HasCoordinates() {
		loc := fmt.Sprintf("%.6f, %.6f", float64(ev.Latitude), float64(ev.Longitude))
		sb.WriteString(fmt.Sprintf("│  Location:    %-39s  │\n", loc))
	}
	if len(ev.Categories) > 0 {
		sb.WriteString(fmt.Sprintf("│  Categories:  %-39s  │\n", truncate(strings.Join(ev.Categories, ", "), 39)))
	}

	sb.WriteString("└────────────────────────────────────────────────────────┘\n")

	return sb.String()
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	var lines []string
	var currentLine string

	for _, word := range words {
		if len(currentLine)+len(word)+1 <= width {
			if currentLine != "" {
				currentLine += " "
			}
			currentLine += word
		} else {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

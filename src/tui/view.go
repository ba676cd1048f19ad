package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anteater/eventmap/src/controller"
	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/mapview"
)

// Rows taken by chrome around the map pane: header, filter bar,
// detail line, status line, help line.
const chromeRows = 5

// Dracula theme colors
var (
	colorBackground = lipgloss.Color("#282a36")
	colorSelection  = lipgloss.Color("#44475a")
	colorForeground = lipgloss.Color("#f8f8f2")
	colorComment    = lipgloss.Color("#6272a4")
	colorCyan       = lipgloss.Color("#8be9fd")
	colorGreen      = lipgloss.Color("#50fa7b")
	colorOrange     = lipgloss.Color("#ffb86c")
	colorPurple     = lipgloss.Color("#bd93f9")
	colorRed        = lipgloss.Color("#ff5555")
	colorYellow     = lipgloss.Color("#f1fa8c")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorPurple).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorForeground)
	dimStyle     = lipgloss.NewStyle().Foreground(colorComment)
	focusedStyle = lipgloss.NewStyle().Foreground(colorCyan)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	warningStyle = lipgloss.NewStyle().Foreground(colorOrange)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	infoStyle    = lipgloss.NewStyle().Foreground(colorCyan)

	formBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorPurple).
			Padding(1, 2)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorComment).
			Padding(0, 1).
			Width(44)

	focusedInputStyle = inputStyle.
				BorderForeground(colorCyan)
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.mounted {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n")

	if m.mode == modeForm {
		b.WriteString(m.formPane())
	} else {
		opts := mapview.RenderOptions{}
		if mk := m.selectedMarker(); mk != nil {
			opts.SelectedID = mk.ID
		}
		if m.mode == modePick {
			opts.Crosshair = true
			opts.CrosshairCol = m.pickCol
			opts.CrosshairRow = m.pickRow
		}
		b.WriteString(m.ctrl.Map().Render(opts))
	}
	b.WriteString("\n")

	b.WriteString(m.detailLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.helpLine())

	return b.String()
}

func (m Model) headerLine() string {
	v := m.ctrl.Map().View()
	left := titleStyle.Render("eventmap")
	right := dimStyle.Render(fmt.Sprintf("%.4f, %.4f  z%.1f  %d markers",
		v.Lat, v.Lng, v.Zoom, m.ctrl.Map().MarkerCount()))
	return left + "  " + right
}

func (m Model) filterLine() string {
	searchLabel := "/ "
	searchVal := m.searchInput
	if m.mode == modeSearch {
		searchVal += "_"
		searchLabel = focusedStyle.Render(searchLabel)
	} else {
		searchLabel = dimStyle.Render(searchLabel)
	}

	dateVal := m.dateInput
	if m.mode == modeDate {
		dateVal += "_"
	}
	dateLabel := dimStyle.Render("day: ")
	if m.mode == modeDate {
		dateLabel = focusedStyle.Render("day: ")
	}

	cats := event.JoinCategories(m.ctrl.Categories())

	return searchLabel + labelStyle.Render(searchVal) +
		"   " + dateLabel + labelStyle.Render(dateVal) +
		"   " + dimStyle.Render("categories: "+cats)
}

func (m Model) detailLine() string {
	mk := m.selectedMarker()
	if mk == nil || mk.Popup == nil {
		return dimStyle.Render("tab: select a marker")
	}

	p := mk.Popup
	parts := []string{labelStyle.Render(p.Title)}
	if p.StartTime != "" && p.EndTime != "" {
		parts = append(parts, dimStyle.Render(p.StartTime+" - "+p.EndTime))
	} else if p.StartTime != "" {
		parts = append(parts, dimStyle.Render(p.StartTime))
	}
	if p.Description != "" {
		parts = append(parts, dimStyle.Render(p.Description))
	}
	if len(p.Categories) > 0 {
		parts = append(parts, dimStyle.Render(strings.Join(p.Categories, ", ")))
	}
	return strings.Join(parts, "  ")
}

func (m Model) statusLine() string {
	if !m.statusShown {
		return ""
	}
	switch m.status.Severity {
	case controller.SeveritySuccess:
		return successStyle.Render(m.status.Message)
	case controller.SeverityWarning:
		return warningStyle.Render(m.status.Message)
	case controller.SeverityError:
		return errorStyle.Render(m.status.Message)
	default:
		return infoStyle.Render(m.status.Message)
	}
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeSearch:
		return dimStyle.Render("enter: search • ctrl+a: AI search • esc: cancel")
	case modeDate:
		return dimStyle.Render("enter: apply day • esc: cancel")
	case modePick:
		return dimStyle.Render("arrows: move crosshair • enter: pick location • esc: cancel")
	case modeForm:
		return dimStyle.Render("tab: next field • ctrl+s: save • esc: cancel")
	default:
		return dimStyle.Render("arrows: pan • +/-: zoom • /: search • d: day • n: new event • f: fit • r: refresh • q: quit")
	}
}

var formLabels = [fieldCount]string{
	"Title",
	"Description",
	"Day",
	"Start time (HH:MM)",
	"End time (HH:MM)",
	"Categories",
}

func (m Model) formPane() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("NEW EVENT"))
	b.WriteString("\n\n")

	if loc := m.ctrl.SelectedLocation(); loc != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Location: %.6f, %.6f", loc.Lat, loc.Lng)))
	} else {
		b.WriteString(warningStyle.Render("No location selected"))
	}
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		b.WriteString(labelStyle.Render(formLabels[i] + ":"))
		b.WriteString("\n")
		val := m.form[i]
		if i == m.focused {
			b.WriteString(focusedInputStyle.Render(val + "_"))
		} else {
			b.WriteString(inputStyle.Render(val))
		}
		b.WriteString("\n")
	}

	return formBoxStyle.Render(b.String())
}

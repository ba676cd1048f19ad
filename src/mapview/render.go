package mapview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dracula palette, matching the rest of the UI.
var (
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff79c6")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b")).Bold(true)
	crosshairStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1fa8c")).Bold(true)
	gridStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#44475a"))
)

const (
	markerGlyph    = '▼'
	crosshairGlyph = '+'
	gridGlyph      = '·'
)

// RenderOptions selects decorations for one frame.
type RenderOptions struct {
	// SelectedID highlights one marker.
	SelectedID string
	// Crosshair, when true, draws the pick cursor at CrosshairCol/Row.
	Crosshair    bool
	CrosshairCol int
	CrosshairRow int
}

// Render draws the current frame: a faint graticule, every placed
// marker that projects into the viewport, and optionally the pick
// crosshair on top.
func (m *Map) Render(opts RenderOptions) string {
	m.mu.Lock()
	cols, rows, mounted := m.cols, m.rows, m.mounted
	m.mu.Unlock()
	if !mounted {
		return ""
	}

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			if x%8 == 4 && y%4 == 2 {
				grid[y][x] = cell{gridGlyph, gridStyle}
			} else {
				grid[y][x] = cell{' ', lipgloss.NewStyle()}
			}
		}
	}

	for _, mk := range m.Markers() {
		col, row, ok := m.Project(mk.Lng, mk.Lat)
		if !ok {
			continue
		}
		style := markerStyle
		if opts.SelectedID != "" && mk.ID == opts.SelectedID {
			style = selectedStyle
		}
		grid[row][col] = cell{markerGlyph, style}
	}

	if opts.Crosshair &&
		opts.CrosshairRow >= 0 && opts.CrosshairRow < rows &&
		opts.CrosshairCol >= 0 && opts.CrosshairCol < cols {
		grid[opts.CrosshairRow][opts.CrosshairCol] = cell{crosshairGlyph, crosshairStyle}
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			b.WriteString(grid[y][x].style.Render(string(grid[y][x].r)))
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

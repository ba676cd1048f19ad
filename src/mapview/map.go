package mapview

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Terminal cells are not square; treat each one as a 16x32px window
// onto a 512px-tile Web-Mercator world so zoom levels carry their
// usual meaning.
const (
	tileSize    = 512.0
	cellPxW     = 16.0
	cellPxH     = 32.0
	minZoom     = 1.0
	hardMaxZoom = 22.0
)

// View is a camera position: center plus zoom.
type View struct {
	Lng  float64
	Lat  float64
	Zoom float64
}

// FitOptions controls FitBounds. Padding is in world pixels on every
// side, MaxZoom caps how far the camera may zoom in, Duration is the
// animation length.
type FitOptions struct {
	Padding  float64
	MaxZoom  float64
	Duration time.Duration
}

// Map is the terminal map: a camera over a marker registry. It is
// mutated only from the owning controller's event loop; the mutex
// guards the marker registry for render calls from the TUI.
type Map struct {
	mu      sync.Mutex
	view    View
	cols    int
	rows    int
	mounted bool

	markers map[string]*Marker

	anim struct {
		active bool
		from   View
		to     View
		start  time.Time
		d      time.Duration
	}
}

// NewMap creates an unmounted map at the given starting view.
func NewMap(v View) *Map {
	return &Map{view: v, markers: make(map[string]*Marker)}
}

// Mount attaches the map to a terminal grid. Before the first Mount
// the map is "not mounted" and viewport operations are no-ops.
func (m *Map) Mount(cols, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cols, m.rows = cols, rows
	m.mounted = cols > 0 && rows > 0
}

// Release detaches the map and drops every marker.
func (m *Map) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted = false
	m.markers = make(map[string]*Marker)
}

// Mounted reports whether the map has a grid to draw on.
func (m *Map) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// View returns the current camera position.
func (m *Map) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// SetView jumps the camera without animating.
func (m *Map) SetView(v View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anim.active = false
	m.view = clampView(v)
}

// Add places a marker on the map.
func (m *Map) Add(mk *Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[mk.ID] = mk
}

// Remove takes a marker off the map. Removing an absent marker is a
// no-op.
func (m *Map) Remove(mk *Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, mk.ID)
}

// Markers returns the placed markers in a stable order.
func (m *Map) Markers() []*Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Marker, 0, len(m.markers))
	for _, mk := range m.markers {
		out = append(out, mk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MarkerCount returns the number of placed markers.
func (m *Map) MarkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markers)
}

// --- Web-Mercator projection ---

// mercator maps (lng, lat) to world coordinates in [0,1]x[0,1].
func mercator(lng, lat float64) (x, y float64) {
	x = (lng + 180) / 360
	sin := math.Sin(lat * math.Pi / 180)
	// Clamp away from the poles where the projection diverges.
	sin = math.Max(-0.9999, math.Min(0.9999, sin))
	y = 0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)
	return x, y
}

// unmercator is the inverse of mercator.
func unmercator(x, y float64) (lng, lat float64) {
	lng = x*360 - 180
	lat = math.Atan(math.Sinh((0.5-y)*2*math.Pi)) * 180 / math.Pi
	return lng, lat
}

func worldSize(zoom float64) float64 {
	return tileSize * math.Exp2(zoom)
}

// Project maps a coordinate to a terminal cell. ok is false when the
// cell falls outside the viewport or the map is unmounted.
func (m *Map) Project(lng, lat float64) (col, row int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.project(lng, lat)
}

func (m *Map) project(lng, lat float64) (col, row int, ok bool) {
	if !m.mounted {
		return 0, 0, false
	}
	s := worldSize(m.view.Zoom)
	cx, cy := mercator(m.view.Lng, m.view.Lat)
	px, py := mercator(lng, lat)

	dxPx := (px - cx) * s
	dyPx := (py - cy) * s

	col = m.cols/2 + int(math.Round(dxPx/cellPxW))
	row = m.rows/2 + int(math.Round(dyPx/cellPxH))
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return col, row, false
	}
	return col, row, true
}

// Unproject maps a terminal cell back to a coordinate pair; it is how
// a crosshair "click" becomes a selected location.
func (m *Map) Unproject(col, row int) (lng, lat float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := worldSize(m.view.Zoom)
	cx, cy := mercator(m.view.Lng, m.view.Lat)
	x := cx + float64(col-m.cols/2)*cellPxW/s
	y := cy + float64(row-m.rows/2)*cellPxH/s
	return unmercator(x, y)
}

// Pan moves the camera by whole cells.
func (m *Map) Pan(dCols, dRows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.mounted {
		return
	}
	s := worldSize(m.view.Zoom)
	cx, cy := mercator(m.view.Lng, m.view.Lat)
	cx += float64(dCols) * cellPxW / s
	cy += float64(dRows) * cellPxH / s
	lng, lat := unmercator(cx, cy)
	m.anim.active = false
	m.view = clampView(View{Lng: lng, Lat: lat, Zoom: m.view.Zoom})
}

// ZoomBy adjusts the zoom level, clamped to the valid range.
func (m *Map) ZoomBy(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anim.active = false
	m.view = clampView(View{Lng: m.view.Lng, Lat: m.view.Lat, Zoom: m.view.Zoom + delta})
}

func clampView(v View) View {
	v.Zoom = math.Max(minZoom, math.Min(hardMaxZoom, v.Zoom))
	v.Lat = math.Max(-85, math.Min(85, v.Lat))
	for v.Lng > 180 {
		v.Lng -= 360
	}
	for v.Lng < -180 {
		v.Lng += 360
	}
	return v
}

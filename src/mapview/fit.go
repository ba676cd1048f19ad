package mapview

import (
	"math"
	"time"
)

// Bounds is a lng/lat bounding box built up marker by marker.
type Bounds struct {
	minX, minY float64 // mercator space
	maxX, maxY float64
	valid      bool
}

// Extend grows the bounds to include a coordinate pair.
func (b *Bounds) Extend(lng, lat float64) {
	x, y := mercator(lng, lat)
	if !b.valid {
		b.minX, b.maxX = x, x
		b.minY, b.maxY = y, y
		b.valid = true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// Valid reports whether any point has been added.
func (b *Bounds) Valid() bool { return b.valid }

// MarkerBounds computes the minimal bounds covering the given markers.
func MarkerBounds(markers []*Marker) Bounds {
	var b Bounds
	for _, mk := range markers {
		b.Extend(mk.Lng, mk.Lat)
	}
	return b
}

// FitBounds animates the camera so the bounds are fully visible with
// the requested pixel padding, capping zoom at opts.MaxZoom. Empty
// bounds and unmounted maps are no-ops.
func (m *Map) FitBounds(b Bounds, opts FitOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !b.valid || !m.mounted {
		return
	}

	cx := (b.minX + b.maxX) / 2
	cy := (b.minY + b.maxY) / 2
	lng, lat := unmercator(cx, cy)

	viewW := float64(m.cols)*cellPxW - 2*opts.Padding
	viewH := float64(m.rows)*cellPxH - 2*opts.Padding
	if viewW < cellPxW {
		viewW = cellPxW
	}
	if viewH < cellPxH {
		viewH = cellPxH
	}

	zoom := opts.MaxZoom
	spanX := b.maxX - b.minX
	spanY := b.maxY - b.minY
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(viewW/(tileSize*spanX)))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(viewH/(tileSize*spanY)))
	}
	zoom = math.Max(minZoom, math.Min(zoom, opts.MaxZoom))

	target := clampView(View{Lng: lng, Lat: lat, Zoom: zoom})
	if opts.Duration <= 0 {
		m.anim.active = false
		m.view = target
		return
	}

	m.anim.active = true
	m.anim.from = m.view
	m.anim.to = target
	m.anim.start = time.Now()
	m.anim.d = opts.Duration
}

// Animating reports whether a camera transition is in flight.
func (m *Map) Animating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anim.active
}

// Step advances the camera animation to the given instant and reports
// whether the animation is still running.
func (m *Map) Step(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.anim.active {
		return false
	}
	t := float64(now.Sub(m.anim.start)) / float64(m.anim.d)
	if t >= 1 {
		m.view = m.anim.to
		m.anim.active = false
		return false
	}
	if t < 0 {
		t = 0
	}
	// Ease in/out.
	e := t * t * (3 - 2*t)
	m.view = View{
		Lng:  m.anim.from.Lng + (m.anim.to.Lng-m.anim.from.Lng)*e,
		Lat:  m.anim.from.Lat + (m.anim.to.Lat-m.anim.from.Lat)*e,
		Zoom: m.anim.from.Zoom + (m.anim.to.Zoom-m.anim.from.Zoom)*e,
	}
	return true
}

// Finish jumps a running animation to its final frame.
func (m *Map) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.anim.active {
		m.view = m.anim.to
		m.anim.active = false
	}
}

// Package controller is the single source of truth for what is drawn
// on the map. It owns the marker set, the filter state, the load
// sequencing, and the create flow; the TUI and CLI are thin layers
// over it.
package controller

import (
	"context"
	"time"

	"github.com/anteater/eventmap/src/api"
	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/geojson"
	"github.com/anteater/eventmap/src/logging"
	"github.com/anteater/eventmap/src/mapview"
)

// Viewport fitting: 60px padding, zoom capped at 17, a 500ms eased
// transition.
var fitOptions = mapview.FitOptions{
	Padding:  60,
	MaxZoom:  17,
	Duration: 500 * time.Millisecond,
}

// LngLat is a coordinate pair captured from a map click.
type LngLat struct {
	Lng float64
	Lat float64
}

// LoadOptions tunes one load: whether to refit the viewport and
// whether an empty result leaves the current markers alone.
type LoadOptions struct {
	Fit                 bool
	KeepExistingOnEmpty bool
}

// Load identifies one dispatched fetch. The sequence number lets the
// controller discard responses that were superseded by a newer request
// before they completed.
type Load struct {
	Seq        uint64
	Day        string
	Categories []string
	Opts       LoadOptions
}

// Severity is the status-line level of a notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// Notice is a user-visible message.
type Notice struct {
	Message  string
	Severity Severity
}

// Controller owns the map and everything placed on it. It is mutated
// only from its owner's event loop; fetches run elsewhere, but their
// results are applied back on the loop via ApplyLoad/ApplyCreate.
type Controller struct {
	api  *api.Client
	mapv *mapview.Map

	day        string
	categories []string // nil means the "all" sentinel

	db        []*mapview.Marker
	demoClear func()

	seq uint64

	notify func(Notice)

	createState CreateState
	selected    *LngLat
}

// New builds a controller over the given API client and map. The
// filter starts at today's local date with all categories.
func New(client *api.Client, m *mapview.Map, notify func(Notice)) *Controller {
	if notify == nil {
		notify = func(Notice) {}
	}
	return &Controller{
		api:    client,
		mapv:   m,
		day:    event.Today(),
		notify: notify,
	}
}

// Map returns the owned map instance.
func (c *Controller) Map() *mapview.Map { return c.mapv }

// Day returns the current filter day.
func (c *Controller) Day() string { return c.day }

// Categories returns the current category filter; nil means all.
func (c *Controller) Categories() []string { return c.categories }

// DBMarkers returns the markers currently derived from backend data.
func (c *Controller) DBMarkers() []*mapview.Marker { return c.db }

// StartLoad records a new fetch for the given filter and returns its
// handle. The caller performs the fetch and feeds the outcome to
// ApplyLoad.
func (c *Controller) StartLoad(day string, categories []string, opts LoadOptions) Load {
	c.seq++
	return Load{Seq: c.seq, Day: day, Categories: categories, Opts: opts}
}

// ApplyLoad reconciles the marker set with one fetch outcome.
//
// Stale responses (superseded by a newer StartLoad) are discarded.
// Errors leave the current markers untouched. An empty result clears
// the DB markers unless KeepExistingOnEmpty was set. A non-empty
// result replaces the previous batch; records without finite
// coordinates are skipped silently.
func (c *Controller) ApplyLoad(l Load, events []event.Event, err error) {
	if l.Seq != c.seq {
		logging.Debug("discarding stale load", "seq", l.Seq, "latest", c.seq)
		return
	}
	if err != nil {
		logging.Warn("events fetch failed", "day", l.Day, "err", err)
		return
	}

	if len(events) == 0 {
		if l.Opts.KeepExistingOnEmpty {
			logging.Debug("no events returned, keeping existing markers", "day", l.Day)
			return
		}
		logging.Debug("no events returned, clearing existing markers", "day", l.Day)
		c.ClearDBMarkers()
		return
	}

	c.ClearDBMarkers()
	for _, ev := range events {
		if !ev.HasCoordinates() {
			continue
		}
		mk := mapview.NewMarker(float64(ev.Longitude), float64(ev.Latitude), ev)
		c.mapv.Add(mk)
		c.db = append(c.db, mk)
	}

	if l.Opts.Fit {
		c.FitMapToMarkers(c.db)
	}
}

// LoadEvents is the synchronous form of StartLoad + fetch + ApplyLoad,
// used by the CLI and the bootstrap sequence.
func (c *Controller) LoadEvents(ctx context.Context, day string, categories []string, opts LoadOptions) error {
	l := c.StartLoad(day, categories, opts)
	events, err := c.api.List(ctx, day, categories)
	c.ApplyLoad(l, events, err)
	return err
}

// ClearDBMarkers removes every backend-derived marker from the map and
// empties the set. Calling it with an empty set is a no-op.
func (c *Controller) ClearDBMarkers() {
	for _, mk := range c.db {
		c.mapv.Remove(mk)
	}
	c.db = nil
}

// FitMapToMarkers animates the viewport to contain the given markers.
// Empty input and an unmounted map are no-ops.
func (c *Controller) FitMapToMarkers(markers []*mapview.Marker) {
	if len(markers) == 0 {
		return
	}
	c.mapv.FitBounds(mapview.MarkerBounds(markers), fitOptions)
}

// SetDay changes the filter day and reloads. The view should show only
// that day's events, so an empty result clears the map.
func (c *Controller) SetDay(ctx context.Context, day string) error {
	c.day = event.NormalizeDay(day)
	return c.LoadEvents(ctx, c.day, c.categories, LoadOptions{Fit: true})
}

// SetCategories changes the category filter and reloads for the
// current day. An empty list resets to the "all" sentinel.
func (c *Controller) SetCategories(ctx context.Context, categories []string) error {
	if len(categories) == 0 {
		categories = nil
	}
	c.categories = categories
	return c.LoadEvents(ctx, c.day, c.categories, LoadOptions{Fit: true})
}

// SetDayFilter updates the filter day without reloading. Async callers
// pair it with StartLoad/ApplyLoad; LoadEvents-style callers use SetDay.
func (c *Controller) SetDayFilter(day string) {
	c.day = event.NormalizeDay(day)
}

// SetCategoryFilter updates the category filter without reloading. An
// empty list resets to the "all" sentinel.
func (c *Controller) SetCategoryFilter(categories []string) {
	if len(categories) == 0 {
		categories = nil
	}
	c.categories = categories
}

// ApplySearchResults replaces the DB markers with search results. A
// nil result (failed search) clears the view.
func (c *Controller) ApplySearchResults(events []event.Event) {
	c.ClearDBMarkers()
	if len(events) == 0 {
		return
	}
	for _, ev := range events {
		if !ev.HasCoordinates() {
			continue
		}
		mk := mapview.NewMarker(float64(ev.Longitude), float64(ev.Latitude), ev)
		c.mapv.Add(mk)
		c.db = append(c.db, mk)
	}
	c.FitMapToMarkers(c.db)
}

// Bootstrap runs the initial load sequence once the map reports ready:
// today's events keeping any existing content if the backend has
// nothing, an unconditional upcoming batch, then the bundled demo
// markers. Failures are logged and never fatal.
func (c *Controller) Bootstrap(ctx context.Context) {
	if err := c.LoadEvents(ctx, c.day, c.categories, LoadOptions{Fit: true, KeepExistingOnEmpty: true}); err != nil {
		logging.Warn("initial events load failed", "err", err)
	}
	if err := c.LoadEvents(ctx, c.day, nil, LoadOptions{Fit: true, KeepExistingOnEmpty: true}); err != nil {
		logging.Warn("upcoming events load failed", "err", err)
	}
	if err := c.LoadDemoMarkers(); err != nil {
		logging.Warn("failed to add demo markers", "err", err)
	}
}

// LoadDemoMarkers places the bundled demo set on the map and records a
// cleanup handle for teardown.
func (c *Controller) LoadDemoMarkers() error {
	fc, err := geojson.Demo()
	if err != nil {
		return err
	}
	var placed []*mapview.Marker
	for _, f := range fc.Features {
		lng, lat, ok := f.LngLat()
		if !ok {
			continue
		}
		mk := mapview.NewMarker(lng, lat, f.Event())
		c.mapv.Add(mk)
		placed = append(placed, mk)
	}
	c.demoClear = func() {
		for _, mk := range placed {
			c.mapv.Remove(mk)
		}
	}
	return nil
}

// Close tears the controller down: DB markers first, then the demo
// set, then the map itself. Each step runs even if an earlier one
// panics.
func (c *Controller) Close() {
	defer c.mapv.Release()
	defer func() {
		if c.demoClear != nil {
			c.demoClear()
			c.demoClear = nil
		}
	}()
	c.ClearDBMarkers()
}

package controller

import (
	"context"
	"errors"

	"github.com/anteater/eventmap/src/api"
	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/logging"
	"github.com/anteater/eventmap/src/mapview"
)

// CreateState is the create flow's position.
type CreateState int

const (
	CreateIdle CreateState = iota
	// CreateAwaitingClick: the crosshair is up, waiting for exactly
	// one map click.
	CreateAwaitingClick
	// CreateFormOpen: a location is captured (or the map is absent)
	// and the form is showing.
	CreateFormOpen
	CreateSubmitting
)

// FormData is the raw create form input.
type FormData struct {
	Title       string
	Description string
	Day         string
	StartTime   string
	EndTime     string
	Categories  string
}

// CreateStateValue returns the create flow state.
func (c *Controller) CreateStateValue() CreateState { return c.createState }

// SelectedLocation returns the captured click, if any.
func (c *Controller) SelectedLocation() *LngLat { return c.selected }

// BeginCreate starts the create flow. With a mounted map it waits for
// one click; without one it opens the form immediately in degraded
// mode (no location).
func (c *Controller) BeginCreate() CreateState {
	if !c.mapv.Mounted() {
		c.selected = nil
		c.createState = CreateFormOpen
		return c.createState
	}
	c.createState = CreateAwaitingClick
	return c.createState
}

// CaptureClick consumes the one map click the flow was waiting for.
func (c *Controller) CaptureClick(lng, lat float64) {
	if c.createState != CreateAwaitingClick {
		return
	}
	c.selected = &LngLat{Lng: lng, Lat: lat}
	c.createState = CreateFormOpen
}

// CancelCreate abandons the flow and clears the captured location.
func (c *Controller) CancelCreate() {
	c.selected = nil
	c.createState = CreateIdle
}

// SetLocation sets the location directly; the CLI create command uses
// it in place of a map click.
func (c *Controller) SetLocation(lng, lat float64) {
	c.selected = &LngLat{Lng: lng, Lat: lat}
	c.createState = CreateFormOpen
}

// StartSubmit validates the form and builds the POST payload. On a
// validation failure it emits a warning notice and returns an error;
// the flow stays in form-open so the user can fix the input. The
// no-location guard is terminal: it clears the flow entirely.
func (c *Controller) StartSubmit(form FormData) (*event.Event, error) {
	loc := c.selected
	if loc == nil {
		c.notify(Notice{Message: "No location selected, cannot place marker", Severity: SeverityWarning})
		c.CancelCreate()
		return nil, errors.New("no location selected")
	}

	day := form.Day
	if day == "" {
		day = c.day
	}

	startIso, errStart := event.CombineDayTime(day, form.StartTime)
	endIso, errEnd := event.CombineDayTime(day, form.EndTime)
	if errStart != nil || errEnd != nil {
		c.notify(Notice{Message: "Please provide valid start and end times", Severity: SeverityWarning})
		c.createState = CreateFormOpen
		return nil, event.ErrUnparsableTime
	}

	start, errS := event.ParseInstant(startIso)
	end, errE := event.ParseInstant(endIso)
	if errS != nil || errE != nil {
		c.notify(Notice{Message: "Invalid start or end time", Severity: SeverityWarning})
		c.createState = CreateFormOpen
		return nil, event.ErrUnparsableTime
	}
	if !end.After(start) {
		c.notify(Notice{Message: "End time must be after start time", Severity: SeverityWarning})
		c.createState = CreateFormOpen
		return nil, event.ErrEndNotAfterStart
	}

	payload := &event.Event{
		Title:       form.Title,
		Description: form.Description,
		Day:         event.NormalizeDay(day),
		StartTime:   startIso,
		EndTime:     endIso,
		Latitude:    event.Coordinate(loc.Lat),
		Longitude:   event.Coordinate(loc.Lng),
		Categories:  event.EnsureCategories(event.SplitCategories(form.Categories)),
	}
	c.createState = CreateSubmitting
	return payload, nil
}

// ApplyCreate finishes the flow with the POST outcome and returns the
// reload that must follow so the view matches server state.
//
// On success the echoed feature is preferred for the new marker; a
// missing echo falls back to the locally-submitted values. On failure
// a marker is still drawn optimistically from the submitted values
// (outside the DB set, so the reload cannot duplicate it) and the
// error payload surfaces as a notice. The selected location is cleared
// on every path.
func (c *Controller) ApplyCreate(payload *event.Event, res *api.CreateResult, err error) Load {
	reloadDay := payload.Day
	defer func() {
		c.selected = nil
		c.createState = CreateIdle
	}()

	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && !apiErr.IsTransport() {
			c.notify(Notice{Message: "Save failed: " + apiErr.Message, Severity: SeverityError})
		} else {
			c.notify(Notice{Message: "Failed to save event", Severity: SeverityError})
		}
		logging.Error("failed to POST event, falling back to local marker", err)

		c.mapv.Add(mapview.NewMarker(float64(payload.Longitude), float64(payload.Latitude), *payload))
		if reloadDay == "" {
			reloadDay = c.day
		}
		return c.StartLoad(reloadDay, c.categories, LoadOptions{Fit: true})
	}

	c.notify(Notice{Message: "Event saved", Severity: SeveritySuccess})

	var mk *mapview.Marker
	if res != nil && res.Feature != nil {
		if lng, lat, ok := res.Feature.LngLat(); ok {
			echoed := res.Feature.Event()
			mk = mapview.NewMarker(lng, lat, mergeEcho(echoed, *payload))
			if echoed.Day != "" {
				reloadDay = echoed.Day
			}
		}
	}
	if mk == nil {
		loc := LngLat{Lng: float64(payload.Longitude), Lat: float64(payload.Latitude)}
		mk = mapview.NewMarker(loc.Lng, loc.Lat, *payload)
	}
	c.mapv.Add(mk)
	c.db = append(c.db, mk)

	if reloadDay == "" {
		reloadDay = c.day
	}
	return c.StartLoad(reloadDay, c.categories, LoadOptions{Fit: true})
}

// mergeEcho prefers the server-echoed fields, falling back to the
// submitted values field by field.
func mergeEcho(echo, local event.Event) event.Event {
	if echo.Title == "" {
		echo.Title = local.Title
	}
	if echo.Description == "" {
		echo.Description = local.Description
	}
	if echo.Day == "" {
		echo.Day = local.Day
	}
	if echo.StartTime == "" {
		echo.StartTime = local.StartTime
	}
	if echo.EndTime == "" {
		echo.EndTime = local.EndTime
	}
	if len(echo.Categories) == 0 {
		echo.Categories = local.Categories
	}
	return echo
}

// SubmitCreate is the synchronous form of StartSubmit + POST +
// ApplyCreate + reload, used by the CLI.
func (c *Controller) SubmitCreate(ctx context.Context, form FormData) error {
	payload, err := c.StartSubmit(form)
	if err != nil {
		return err
	}
	res, postErr := c.api.Create(ctx, *payload)
	reload := c.ApplyCreate(payload, res, postErr)
	events, listErr := c.api.List(ctx, reload.Day, reload.Categories)
	c.ApplyLoad(reload, events, listErr)
	return postErr
}

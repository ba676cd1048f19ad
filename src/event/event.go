// Package event holds the event record shared by the fetcher, the map
// controller, and the create flow, plus the day/time/category
// normalization the backend expects.
package event

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude or longitude as it arrives off the wire.
// Backends in the wild send numbers, quoted numbers, empty strings, or
// nothing at all; a bad value must skip one record, not fail the batch,
// so decoding never errors and junk becomes NaN.
type Coordinate float64

// UnmarshalJSON accepts a JSON number or a numeric string. Anything
// else decodes as NaN.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = Coordinate(math.NaN())
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*c = Coordinate(math.NaN())
		return nil
	}
	*c = Coordinate(f)
	return nil
}

// Finite reports whether the coordinate decoded to a usable number.
func (c Coordinate) Finite() bool {
	f := float64(c)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Event is one event record. Start and end times are strings on
// purpose: the backend serializes them as time-with-zone values
// ("18:30:00+00:00") while creates send full ISO instants, and the
// record keeps whichever form it was given.
type Event struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Day         string     `json:"day"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Latitude    Coordinate `json:"latitude"`
	Longitude   Coordinate `json:"longitude"`
	Categories  []string   `json:"categories"`
}

// UnmarshalJSON presets both coordinates to NaN so that a record with
// a missing latitude or longitude is recognizably incomplete rather
// than silently placed at (0, 0).
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := alias{
		Latitude:  Coordinate(math.NaN()),
		Longitude: Coordinate(math.NaN()),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Event(aux)
	return nil
}

// HasCoordinates reports whether both coordinates are finite.
func (e *Event) HasCoordinates() bool {
	return e.Latitude.Finite() && e.Longitude.Finite()
}

// Validate checks the ordering invariant: when both instants are
// present and comparable, the end must be strictly after the start.
func (e *Event) Validate() error {
	if e.StartTime == "" || e.EndTime == "" {
		return nil
	}
	start, errS := ParseInstant(e.StartTime)
	end, errE := ParseInstant(e.EndTime)
	if errS != nil || errE != nil {
		return nil
	}
	if !end.After(start) {
		return ErrEndNotAfterStart
	}
	return nil
}

// DecodeList normalizes the two response shapes the backend produces:
// an {"events": [...]} envelope or a bare array. Anything else yields
// an empty list.
func DecodeList(body []byte) []Event {
	var envelope struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Events != nil {
		return envelope.Events
	}
	var bare []Event
	if err := json.Unmarshal(body, &bare); err == nil && bare != nil {
		return bare
	}
	return []Event{}
}

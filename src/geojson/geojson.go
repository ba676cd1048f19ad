// Package geojson decodes the point features the backend and the
// bundled demo file speak: a FeatureCollection of events keyed by
// title/description/day/start_time/end_time/categories properties.
package geojson

import (
	_ "embed"
	"encoding/json"
	"math"

	"github.com/anteater/eventmap/src/event"
)

//go:embed location.geojson
var demoData []byte

// Geometry is a GeoJSON point geometry. Coordinates are [lng, lat].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Feature is one GeoJSON feature with free-form properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is the demo bundle's top-level shape.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// LngLat returns the feature's coordinate pair. ok is false when the
// geometry does not carry a usable point.
func (f *Feature) LngLat() (lng, lat float64, ok bool) {
	if len(f.Geometry.Coordinates) < 2 {
		return 0, 0, false
	}
	return f.Geometry.Coordinates[0], f.Geometry.Coordinates[1], true
}

func (f *Feature) prop(key string) string {
	if f.Properties == nil {
		return ""
	}
	if s, ok := f.Properties[key].(string); ok {
		return s
	}
	return ""
}

func (f *Feature) categories() []string {
	if f.Properties == nil {
		return nil
	}
	raw, ok := f.Properties["categories"].([]any)
	if !ok {
		return nil
	}
	var cats []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			cats = append(cats, s)
		}
	}
	return cats
}

// Event maps the feature's properties onto an event record. The
// server's create echo prefers these properties over locally-submitted
// values, so every field is read defensively.
func (f *Feature) Event() event.Event {
	ev := event.Event{
		ID:          f.prop("id"),
		Title:       f.prop("title"),
		Description: f.prop("description"),
		Day:         f.prop("day"),
		StartTime:   f.prop("start_time"),
		EndTime:     f.prop("end_time"),
		Categories:  f.categories(),
	}
	if lng, lat, ok := f.LngLat(); ok {
		ev.Longitude = event.Coordinate(lng)
		ev.Latitude = event.Coordinate(lat)
	} else {
		ev.Longitude = event.Coordinate(math.NaN())
		ev.Latitude = event.Coordinate(math.NaN())
	}
	return ev
}

// Decode parses a FeatureCollection.
func Decode(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// Demo returns the bundled demo marker set.
func Demo() (*FeatureCollection, error) {
	return Decode(demoData)
}

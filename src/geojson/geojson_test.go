package geojson

import "testing"

func TestDemoBundleDecodes(t *testing.T) {
	fc, err := Demo()
	if err != nil {
		t.Fatalf("demo bundle failed to decode: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("unexpected collection type %q", fc.Type)
	}
	if len(fc.Features) == 0 {
		t.Fatal("demo bundle has no features")
	}
	for i, f := range fc.Features {
		if _, _, ok := f.LngLat(); !ok {
			t.Errorf("feature %d has no usable point", i)
		}
		ev := f.Event()
		if ev.Title == "" {
			t.Errorf("feature %d has no title", i)
		}
		if !ev.HasCoordinates() {
			t.Errorf("feature %d event lost its coordinates", i)
		}
	}
}

func TestFeatureEventDefensiveDecoding(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": []}, "properties": null},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-117.8, 33.6]},
			 "properties": {"title": 42, "categories": "not-a-list"}}
		]
	}`)

	fc, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	ev := fc.Features[0].Event()
	if ev.HasCoordinates() {
		t.Error("empty geometry should not yield coordinates")
	}

	ev = fc.Features[1].Event()
	if ev.Title != "" {
		t.Errorf("non-string title should decode empty, got %q", ev.Title)
	}
	if ev.Categories != nil {
		t.Errorf("non-list categories should decode nil, got %v", ev.Categories)
	}
	if !ev.HasCoordinates() {
		t.Error("expected coordinates from point geometry")
	}
}

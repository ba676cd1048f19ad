package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anteater/eventmap/src/event"
)

func TestListNormalizesResponseShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"envelope", `{"events":[{"title":"a","latitude":33.6,"longitude":-117.8}]}`, 1},
		{"bare array", `[{"title":"a"},{"title":"b"}]`, 2},
		{"neither", `{"status":"ok"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "eventmap-test")
			events, err := c.List(context.Background(), "2025-03-05", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(events) != tt.expected {
				t.Errorf("got %d events, expected %d", len(events), tt.expected)
			}
		})
	}
}

func TestListSerializesFilter(t *testing.T) {
	var gotDay, gotCats string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDay = r.URL.Query().Get("day")
		gotCats = r.URL.Query().Get("categories")
		w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")
	if _, err := c.List(context.Background(), "2025-3-5", []string{"Food", "Music"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDay != "2025-03-05" {
		t.Errorf("day = %q, expected zero-padded 2025-03-05", gotDay)
	}
	if gotCats != "food,music" {
		t.Errorf("categories = %q, expected food,music", gotCats)
	}

	if _, err := c.List(context.Background(), "2025-03-06", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCats != "all" {
		t.Errorf("categories = %q, expected the all sentinel", gotCats)
	}
}

func TestListCachesResponses(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"events":[{"title":"a"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")
	for i := 0; i < 3; i++ {
		if _, err := c.List(context.Background(), "2025-03-05", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server saw %d requests, expected 1 (cached)", got)
	}
}

func TestSearchRouting(t *testing.T) {
	var gotPath, gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")

	if _, err := c.Search(context.Background(), "2025-03-05", "jazz", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/events/search/" {
		t.Errorf("path = %q, expected /events/search/", gotPath)
	}
	if gotSearch != "jazz" {
		t.Errorf("search = %q, expected jazz", gotSearch)
	}

	if _, err := c.Search(context.Background(), "2025-03-05", "jazz", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/events/aisearch/" {
		t.Errorf("path = %q, expected /events/aisearch/", gotPath)
	}
}

func TestErrorPayloadExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"end_time must be after start_time."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")
	_, err := c.List(context.Background(), "2025-03-05", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, expected 422", apiErr.Status)
	}
	if apiErr.Message != "end_time must be after start_time." {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.IsTransport() {
		t.Error("a status error must not report as transport failure")
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, "eventmap-test")
	_, err := c.List(context.Background(), "2025-03-05", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if !apiErr.IsTransport() {
		t.Error("expected a transport failure")
	}
}

func TestCreateEchoesFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, expected POST", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"feature":{"type":"Feature",
			"geometry":{"type":"Point","coordinates":[-117.84,33.64]},
			"properties":{"title":"Night Market","day":"2025-03-05"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")
	res, err := c.Create(context.Background(), eventFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Feature == nil {
		t.Fatal("expected echoed feature")
	}
	lng, lat, ok := res.Feature.LngLat()
	if !ok || lng != -117.84 || lat != 33.64 {
		t.Errorf("feature coordinates = (%f, %f, %t)", lng, lat, ok)
	}
}

func TestCreateSendsEmptyID(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")
	if _, err := c.Create(context.Background(), eventFixture()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `"id":""`; !strings.Contains(string(body), want) {
		t.Errorf("payload missing %s: %s", want, body)
	}
}

func TestCreateErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"Missing required fields: title"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "eventmap-test")
	_, err := c.Create(context.Background(), eventFixture())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Message != "Missing required fields: title" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func eventFixture() event.Event {
	return event.Event{
		Title:       "Night Market",
		Description: "Food stalls along Ring Road.",
		Day:         "2025-03-05",
		StartTime:   "2025-03-05T23:00:00Z",
		EndTime:     "2025-03-06T02:00:00Z",
		Latitude:    33.64,
		Longitude:   -117.84,
		Categories:  []string{"food"},
	}
}

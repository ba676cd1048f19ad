// Package api is the HTTP boundary to the events backend. It
// translates filter tuples into the REST endpoints, normalizes the
// response shapes, and never lets a transport problem escape as
// anything but an error value.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/geojson"
	"github.com/anteater/eventmap/src/logging"
)

const (
	// Listing calls get 8 seconds, search calls 10; search may hit
	// the slower AI endpoint.
	listTimeout   = 8 * time.Second
	searchTimeout = 10 * time.Second

	cacheTTL     = time.Minute
	cacheCleanup = 5 * time.Minute
)

// Error is a failed API call. Status is zero for transport failures.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// IsTransport reports whether the error was a network failure rather
// than a server response.
func (e *Error) IsTransport() bool { return e.Status == 0 }

// Client talks to the events backend.
type Client struct {
	base   string
	list   *http.Client
	search *http.Client
	cache  *cache.Cache
	agent  string
}

// New builds a client for the given API base URL. Trailing slashes
// are stripped so path joining stays predictable.
func New(baseURL, userAgent string) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		list:   &http.Client{Timeout: listTimeout},
		search: &http.Client{Timeout: searchTimeout},
		cache:  cache.New(cacheTTL, cacheCleanup),
		agent:  userAgent,
	}
}

// List fetches events for a day and category filter. A nil or empty
// filter means "all".
func (c *Client) List(ctx context.Context, day string, categories []string) ([]event.Event, error) {
	params := url.Values{}
	params.Set("day", event.NormalizeDay(day))
	params.Set("categories", event.JoinCategories(categories))
	return c.getEvents(ctx, c.list, "/events/?"+params.Encode())
}

// Search runs a free-text query for a day. When ai is true the
// AI-search endpoint is used instead of the standard one.
func (c *Client) Search(ctx context.Context, day, query string, ai bool) ([]event.Event, error) {
	path := "/events/search/"
	if ai {
		path = "/events/aisearch/"
	}
	params := url.Values{}
	params.Set("day", event.NormalizeDay(day))
	params.Set("search", strings.TrimSpace(query))
	return c.getEvents(ctx, c.search, path+"?"+params.Encode())
}

func (c *Client) getEvents(ctx context.Context, hc *http.Client, path string) ([]event.Event, error) {
	full := c.base + path

	if cached, found := c.cache.Get(full); found {
		logging.Debug("api cache hit", "url", full)
		return cached.([]event.Event), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to reach %s: %v", full, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	events := event.DecodeList(body)
	c.cache.Set(full, events, cache.DefaultExpiration)
	return events, nil
}

// CreateResult is the POST response: the server echoes the stored row
// as a GeoJSON feature on success.
type CreateResult struct {
	Feature *geojson.Feature `json:"feature"`
}

type createPayload struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Day         string   `json:"day"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Categories  []string `json:"categories"`
}

// Create posts a new event. The id field is always present and empty;
// the backend assigns one. On success the listing cache is flushed so
// the next reload observes the new row.
func (c *Client) Create(ctx context.Context, ev event.Event) (*CreateResult, error) {
	payload := createPayload{
		ID:          "",
		Title:       ev.Title,
		Description: ev.Description,
		Day:         ev.Day,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Latitude:    float64(ev.Latitude),
		Longitude:   float64(ev.Longitude),
		Categories:  ev.Categories,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to encode payload: %v", err)}
	}

	full := c.base + "/events/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.search.Do(req)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to reach %s: %v", full, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	c.cache.Flush()

	var result CreateResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		// A success without a decodable feature still counts; the
		// caller falls back to the locally-submitted values.
		logging.Debug("create response had no feature", "err", err)
		return &CreateResult{}, nil
	}
	return &result, nil
}

// errorMessage extracts the backend's {"error": "..."} payload,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}

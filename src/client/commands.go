package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anteater/eventmap/src/api"
	"github.com/anteater/eventmap/src/controller"
	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/geojson"
	"github.com/anteater/eventmap/src/mapview"
	"github.com/anteater/eventmap/src/search"
)

// requestContext applies the configured timeout ceiling on top of the
// per-endpoint HTTP timeouts.
func requestContext(config *Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// wrapAPIError converts fetcher errors into the exit code taxonomy
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.IsTransport() {
			return NewConnectionError(apiErr.Message)
		}
		if apiErr.Status == http.StatusNotFound {
			return NewNotFoundError(apiErr.Message)
		}
		return NewAPIError(apiErr.Message)
	}
	return NewAPIError(err.Error())
}

// handleEventsCommand lists events for a day and category filter
func handleEventsCommand(config *Config, args []string) error {
	flagSet := flag.NewFlagSet("events", flag.ContinueOnError)
	day := flagSet.String("day", event.Today(), "Day to list (YYYY-MM-DD, default: today)")
	categories := flagSet.String("categories", "", "Comma-separated category filter (default: all)")

	if err := flagSet.Parse(args); err != nil {
		return NewUsageError(err.Error())
	}

	client := api.New(config.Server, UserAgent())
	ctx, cancel := requestContext(config)
	defer cancel()

	events, err := client.List(ctx, *day, event.SplitCategories(*categories))
	if err != nil {
		return wrapAPIError(err)
	}

	formatter := NewFormatter(config.Output, config.NoColor)
	fmt.Println(formatter.FormatEvents(event.NormalizeDay(*day), events))

	return nil
}

// handleSearchCommand searches events. Category tokens in the query
// (#tag or category:x) redirect to the category listing instead of the
// free-text endpoint; an empty query falls back to the plain day
// listing.
func handleSearchCommand(config *Config, args []string) error {
	flagSet := flag.NewFlagSet("search", flag.ContinueOnError)
	day := flagSet.String("day", event.Today(), "Day to search within (YYYY-MM-DD, default: today)")
	ai := flagSet.Bool("ai", false, "Use the AI-assisted search endpoint")

	if err := flagSet.Parse(args); err != nil {
		return NewUsageError(err.Error())
	}

	query := strings.TrimSpace(strings.Join(flagSet.Args(), " "))

	client := api.New(config.Server, UserAgent())
	ctx, cancel := requestContext(config)
	defer cancel()

	var events []event.Event
	var err error

	kind, _ := search.Route(query)
	switch kind {
	case search.KindCategories:
		events, err = client.List(ctx, *day, search.ExtractCategories(query))
	case search.KindList:
		events, err = client.List(ctx, *day, nil)
	default:
		events, err = client.Search(ctx, *day, query, *ai)
	}
	if err != nil {
		return wrapAPIError(err)
	}

	formatter := NewFormatter(config.Output, config.NoColor)
	fmt.Println(formatter.FormatEvents(event.NormalizeDay(*day), events))

	return nil
}

// handleCreateCommand validates and POSTs a new event. It runs through
// the same controller flow as the TUI so validation, payload shape, and
// failure behavior are identical.
func handleCreateCommand(config *Config, args []string) error {
	flagSet := flag.NewFlagSet("create", flag.ContinueOnError)
	title := flagSet.String("title", "", "Event title (required)")
	description := flagSet.String("description", "", "Event description")
	day := flagSet.String("day", event.Today(), "Event day (YYYY-MM-DD, default: today)")
	start := flagSet.String("start", "", "Start time (HH:MM, required)")
	end := flagSet.String("end", "", "End time (HH:MM, required)")
	lat := flagSet.Float64("lat", 0, "Latitude (required)")
	lon := flagSet.Float64("lon", 0, "Longitude (required)")
	categories := flagSet.String("categories", "", "Comma-separated categories (default: general)")

	if err := flagSet.Parse(args); err != nil {
		return NewUsageError(err.Error())
	}

	if *title == "" {
		return NewUsageError("create requires --title")
	}
	if *lat == 0 && *lon == 0 {
		return NewUsageError("create requires --lat and --lon")
	}

	client := api.New(config.Server, UserAgent())
	ctrl := controller.New(client, mapview.NewMap(mapview.View{Lng: *lon, Lat: *lat, Zoom: 16}), nil)
	defer ctrl.Close()
	ctrl.SetLocation(*lon, *lat)

	ctx, cancel := requestContext(config)
	defer cancel()

	err := ctrl.SubmitCreate(ctx, controller.FormData{
		Title:       *title,
		Description: *description,
		Day:         *day,
		StartTime:   *start,
		EndTime:     *end,
		Categories:  *categories,
	})
	if err != nil {
		if errors.Is(err, event.ErrUnparsableTime) || errors.Is(err, event.ErrEndNotAfterStart) || errors.Is(err, event.ErrOutOfRange) {
			return NewUsageError(err.Error())
		}
		return wrapAPIError(err)
	}

	fmt.Println("Event created.")
	return nil
}

// handleExportCommand writes a day's events as an iCalendar file
func handleExportCommand(config *Config, args []string) error {
	flagSet := flag.NewFlagSet("export", flag.ContinueOnError)
	day := flagSet.String("day", event.Today(), "Day to export (YYYY-MM-DD, default: today)")
	categories := flagSet.String("categories", "", "Comma-separated category filter (default: all)")
	out := flagSet.String("out", "", "Output file (default: <day>.ics, \"-\" for stdout)")

	if err := flagSet.Parse(args); err != nil {
		return NewUsageError(err.Error())
	}

	client := api.New(config.Server, UserAgent())
	ctx, cancel := requestContext(config)
	defer cancel()

	normalized := event.NormalizeDay(*day)
	events, err := client.List(ctx, normalized, event.SplitCategories(*categories))
	if err != nil {
		return wrapAPIError(err)
	}
	if len(events) == 0 {
		return NewNotFoundError(fmt.Sprintf("no events found for %s", normalized))
	}

	doc, exported := ExportICS(normalized, events)
	if exported == 0 {
		return NewAPIError("no events had exportable times")
	}

	target := *out
	if target == "" {
		target = normalized + ".ics"
	}
	if target == "-" {
		fmt.Print(doc)
		return nil
	}

	if err := os.WriteFile(target, []byte(doc), 0644); err != nil {
		return NewAPIError(fmt.Sprintf("failed to write %s: %v", target, err))
	}

	fmt.Printf("Exported %d event(s) to %s\n", exported, target)
	return nil
}

// handleDemoCommand prints the bundled demo marker set
func handleDemoCommand(config *Config, args []string) error {
	flagSet := flag.NewFlagSet("demo", flag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return NewUsageError(err.Error())
	}

	fc, err := geojson.Demo()
	if err != nil {
		return NewAPIError(fmt.Sprintf("failed to load demo data: %v", err))
	}

	events := make([]event.Event, 0, len(fc.Features))
	for _, f := range fc.Features {
		events = append(events, f.Event())
	}

	formatter := NewFormatter(config.Output, config.NoColor)
	fmt.Println(formatter.FormatEvents("", events))

	return nil
}

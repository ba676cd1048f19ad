package client

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/oklog/ulid/v2"

	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/logging"
)

// ExportICS renders a set of events as an iCalendar document. Events
// whose start or end cannot be combined into an instant are skipped
// with a warning rather than aborting the whole export.
func ExportICS(day string, events []event.Event) (string, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//anteater//eventmap//EN")

	exported := 0
	for _, ev := range events {
		startIso, errStart := event.CombineDayTime(day, ev.StartTime)
		endIso, errEnd := event.CombineDayTime(day, ev.EndTime)
		if errStart != nil || errEnd != nil {
			logging.Warn("skipping event with unparsable times", "title", ev.Title)
			continue
		}
		start, errS := event.ParseInstant(startIso)
		end, errE := event.ParseInstant(endIso)
		if errS != nil || errE != nil {
			logging.Warn("skipping event with unparsable times", "title", ev.Title)
			continue
		}

		uid := ev.ID
		if uid == "" {
			uid = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		}

		ve := cal.AddEvent(uid + "@eventmap")
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.HasCoordinates() {
			ve.SetLocation(fmt.Sprintf("%.6f,%.6f", float64(ev.Latitude), float64(ev.Longitude)))
		}
		if len(ev.Categories) > 0 {
			ve.SetProperty(ical.ComponentPropertyCategories, strings.Join(ev.Categories, ","))
		}
		exported++
	}

	return cal.Serialize(), exported
}

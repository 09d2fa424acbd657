package seminar

import (
	"fmt"
	"time"

	"seminar-sync/core/reconcile"

	ical "github.com/arran4/golang-ical"
)

const calendarName = "Seminars"

// CalendarOptions controls BuildCalendar.
type CalendarOptions struct {
	Location *time.Location
	Duration time.Duration
	Now      time.Time
}

// BuildCalendar renders events as an iCalendar feed. Each slot keeps a stable
// UID so subscribers see count changes as updates rather than new events.
func BuildCalendar(events []reconcile.PersistedEvent, opts CalendarOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	if opts.Duration <= 0 {
		opts.Duration = time.Hour
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//seminar-sync//seminars//EN")
	cal.SetXWRCalName(calendarName)
	cal.SetXWRTimezone(loc.String())

	for _, ev := range events {
		if ev.IsDeleted {
			continue
		}
		start := time.Date(ev.Date.Year, ev.Date.Month, ev.Date.Day, ev.Time.Hour, ev.Time.Minute, 0, 0, loc)
		vev := cal.AddEvent(eventUID(ev.Key()))
		vev.SetStartAt(start)
		vev.SetEndAt(start.Add(opts.Duration))
		vev.SetSummary(fmt.Sprintf("Seminar (%d participants)", ev.ParticipantCount))
		vev.SetDescription(fmt.Sprintf("Participants: %d", ev.ParticipantCount))
		if !opts.Now.IsZero() {
			vev.SetDtStampTime(opts.Now)
		}
		if !ev.ScrapedAt.IsZero() {
			vev.SetModifiedAt(ev.ScrapedAt)
		}
	}
	return cal.Serialize()
}

func eventUID(k reconcile.Key) string {
	return fmt.Sprintf("%04d%02d%02dT%02d%02d@seminar-sync",
		k.Date.Year, int(k.Date.Month), k.Date.Day, k.Time.Hour, k.Time.Minute)
}

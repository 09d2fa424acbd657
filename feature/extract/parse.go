package extract

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"seminar-sync/core/reconcile"
	"seminar-sync/core/utils"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoSchedule is returned when the page has no schedule container.
var ErrNoSchedule = errors.New("schedule container .mb30 not found")

// slotPattern matches the normalized slot line, e.g. "6/1(土) 10:00|オンライン".
var slotPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})\s*\([^)]*\)\s+(\d{1,2}):(\d{2})`)

// Skipped describes a table that did not yield an event.
type Skipped struct {
	Table  int
	Reason string
}

// ParseResult is the outcome of parsing one calendar page.
type ParseResult struct {
	Events  []reconcile.Event
	Skipped []Skipped
	Tables  int
}

// Parse extracts events from a calendar page.
//
// The first element with class mb30 holds one table per slot. In each table
// the last two .fw-b elements are the slot line "M/D(曜) HH:MM｜..." and the
// participant count. Tables that do not follow this shape are skipped. The
// year is not on the page and comes from year.
func Parse(r io.Reader, year int) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	container := doc.Find(".mb30").First()
	if container.Length() == 0 {
		return nil, ErrNoSchedule
	}

	res := &ParseResult{Events: []reconcile.Event{}}
	container.Find("table").Each(func(i int, table *goquery.Selection) {
		res.Tables++
		ev, err := parseTable(table, year)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Table: i, Reason: err.Error()})
			return
		}
		res.Events = append(res.Events, ev)
	})

	return res, nil
}

func parseTable(table *goquery.Selection, year int) (reconcile.Event, error) {
	cells := table.Find(".fw-b")
	if cells.Length() < 2 {
		return reconcile.Event{}, fmt.Errorf("expected at least 2 .fw-b elements, got %d", cells.Length())
	}

	slot := utils.Normalize(cells.Eq(cells.Length() - 2).Text())
	m := slotPattern.FindStringSubmatch(slot)
	if m == nil {
		return reconcile.Event{}, fmt.Errorf("unrecognized slot %q", slot)
	}

	date, err := reconcile.NewDate(year, time.Month(utils.ToInt(m[1])), utils.ToInt(m[2]))
	if err != nil {
		return reconcile.Event{}, err
	}
	clock, err := reconcile.NewClock(utils.ToInt(m[3]), utils.ToInt(m[4]))
	if err != nil {
		return reconcile.Event{}, err
	}

	count, err := utils.ParseCount(cells.Eq(cells.Length() - 1).Text())
	if err != nil {
		return reconcile.Event{}, fmt.Errorf("participant count: %w", err)
	}

	return reconcile.Event{Date: date, Time: clock, ParticipantCount: count}, nil
}

package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"seminar-sync/core/reconcile"
	"seminar-sync/core/utils"
)

// CSVExtractor reads events from a CSV export with the header
// "day,time,count", where day is "M/D" and time is "H:MM".
type CSVExtractor struct {
	path string
	open func() (io.ReadCloser, error)
	year func() int
}

// NewCSVExtractor reads from the file at path.
func NewCSVExtractor(path string, year func() int) *CSVExtractor {
	return &CSVExtractor{
		path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
		year: year,
	}
}

// NewCSVReaderExtractor reads from r. It can be extracted once.
func NewCSVReaderExtractor(r io.Reader, year func() int) *CSVExtractor {
	return &CSVExtractor{
		path: "reader",
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
		year: year,
	}
}

// Extract implements reconcile.Extractor. Any malformed row fails the whole
// import, since a partial file would be reconciled as if it were complete.
func (e *CSVExtractor) Extract(ctx context.Context) ([]reconcile.Event, error) {
	f, err := e.open()
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", e.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []reconcile.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv %s: reading header: %w", e.path, err)
	}
	cols, err := csvColumns(header)
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", e.path, err)
	}

	year := e.year()
	var events []reconcile.Event
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv %s: line %d: %w", e.path, line, err)
		}
		ev, err := csvEvent(rec, cols, year)
		if err != nil {
			return nil, fmt.Errorf("csv %s: line %d: %w", e.path, line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

type csvIndex struct {
	day, time, count int
}

func csvColumns(header []string) (csvIndex, error) {
	idx := csvIndex{day: -1, time: -1, count: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "day":
			idx.day = i
		case "time":
			idx.time = i
		case "count":
			idx.count = i
		}
	}
	if idx.day < 0 || idx.time < 0 || idx.count < 0 {
		return idx, fmt.Errorf("header must contain day, time and count, got %v", header)
	}
	return idx, nil
}

func csvEvent(rec []string, cols csvIndex, year int) (reconcile.Event, error) {
	day := utils.Normalize(rec[cols.day])
	parts := strings.Split(day, "/")
	if len(parts) != 2 {
		return reconcile.Event{}, fmt.Errorf("invalid day %q", rec[cols.day])
	}
	date, err := reconcile.NewDate(year, time.Month(utils.ToInt(parts[0])), utils.ToInt(parts[1]))
	if err != nil {
		return reconcile.Event{}, err
	}
	clock, err := reconcile.ParseClock(utils.Normalize(rec[cols.time]))
	if err != nil {
		return reconcile.Event{}, err
	}
	count, err := utils.ParseCount(rec[cols.count])
	if err != nil {
		return reconcile.Event{}, err
	}
	return reconcile.Event{Date: date, Time: clock, ParticipantCount: count}, nil
}

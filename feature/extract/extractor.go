package extract

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"seminar-sync/core/reconcile"

	"go.uber.org/zap"
)

// PageHook receives the raw page of every successful fetch.
type PageHook func(ctx context.Context, source string, page []byte)

// PageExtractor fetches the calendar page and parses it into events.
type PageExtractor struct {
	source PageSource
	year   func() int
	logger *zap.Logger
	onPage PageHook
}

// NewPageExtractor creates an extractor. year supplies the reference year for
// the month/day pairs on the page.
func NewPageExtractor(source PageSource, year func() int, logger *zap.Logger) *PageExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageExtractor{source: source, year: year, logger: logger}
}

// OnPage registers a hook called with the raw page before parsing.
func (e *PageExtractor) OnPage(hook PageHook) *PageExtractor {
	e.onPage = hook
	return e
}

// Extract implements reconcile.Extractor.
func (e *PageExtractor) Extract(ctx context.Context) ([]reconcile.Event, error) {
	start := time.Now()
	page, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("calendar page fetched",
		zap.String("source", e.source.Name()),
		zap.Int("bytes", len(page)),
		zap.Duration("took", time.Since(start)),
	)

	if e.onPage != nil {
		e.onPage(ctx, e.source.Name(), page)
	}

	res, err := Parse(bytes.NewReader(page), e.year())
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", e.source.Name(), err)
	}
	for _, s := range res.Skipped {
		e.logger.Debug("calendar table skipped", zap.Int("table", s.Table), zap.String("reason", s.Reason))
	}
	e.logger.Info("calendar parsed",
		zap.Int("tables", res.Tables),
		zap.Int("events", len(res.Events)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res.Events, nil
}

// ReferenceYear returns a year provider: fixed when year > 0, otherwise the
// current year in loc at call time.
func ReferenceYear(year int, loc *time.Location) func() int {
	if year > 0 {
		return func() int { return year }
	}
	if loc == nil {
		loc = time.Local
	}
	return func() int { return time.Now().In(loc).Year() }
}

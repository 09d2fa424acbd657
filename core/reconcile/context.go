package reconcile

import (
	"context"
	"time"
)

type runKey struct{}

type runInfo struct {
	id      string
	started time.Time
}

// WithRun returns ctx carrying the id and start time of a run.
func WithRun(ctx context.Context, runID string, started time.Time) context.Context {
	return context.WithValue(ctx, runKey{}, runInfo{id: runID, started: started})
}

// RunIDFromContext returns the id of the run ctx belongs to, or "".
// Store and Extractor calls made by the Engine always carry one.
func RunIDFromContext(ctx context.Context) string {
	info, _ := ctx.Value(runKey{}).(runInfo)
	return info.id
}

// RunStartFromContext returns when the run ctx belongs to started.
func RunStartFromContext(ctx context.Context) (time.Time, bool) {
	info, ok := ctx.Value(runKey{}).(runInfo)
	if !ok || info.started.IsZero() {
		return time.Time{}, false
	}
	return info.started, true
}

package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "seminar-sync/reconcile"

// Engine runs reconciliations of one store against one extractor.
type Engine struct {
	store     Store
	extractor Extractor
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
	newRunID  func() string
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(store Store, extractor Extractor, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DeletionPolicy == "" {
		opts.DeletionPolicy = DeleteHard
	}
	if opts.EmptySnapshot == "" {
		opts.EmptySnapshot = EmptyFail
	}
	if opts.MinSnapshotSize < 1 {
		opts.MinSnapshotSize = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		store:     store,
		extractor: extractor,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// WithClock overrides the time source used for scraped_at, deleted_at and
// run timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// run carries the per-run state shared by Run and Plan.
type run struct {
	engine *Engine
	result *Result
	span   trace.Span
	logger *zap.Logger
}

func (r *run) transition(to State) {
	from := r.result.State
	r.result.State = to
	r.logger.Info("state transition",
		zap.String("run_id", r.result.RunID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	r.span.AddEvent("state transition", trace.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}

func (r *run) fail(err error) {
	r.result.setError(err)
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, err.Error())
	r.logger.Error("reconciliation failed", zap.String("run_id", r.result.RunID), zap.Error(err))
	r.transition(StateFailed)
}

// Run executes one full reconciliation. It never returns an error; failures
// are reported through Result.Success and Result.Error.
func (e *Engine) Run(ctx context.Context) *Result {
	r, ctx := e.start(ctx, "reconcile.Run")
	defer r.span.End()

	plan, err := r.prepare(ctx)
	if err != nil {
		r.fail(err)
		r.result.FinishedAt = e.now()
		return r.result
	}

	r.transition(StateApplying)
	out, err := Apply(ctx, e.store, plan, ApplyOptions{
		DeletionPolicy: e.opts.DeletionPolicy,
		Workers:        e.opts.Workers,
		Now:            e.now,
	})
	if err != nil {
		r.fail(err)
		r.result.FinishedAt = e.now()
		return r.result
	}

	r.transition(StateReporting)
	r.result.fill(out)
	r.result.Success = true
	for _, f := range out.Failures {
		r.logger.Warn("record write failed",
			zap.String("run_id", r.result.RunID),
			zap.String("op", string(f.Op)),
			zap.String("key", f.Key.String()),
			zap.String("id", f.ID),
			zap.Error(f.Err),
		)
	}
	if len(out.Failures) > 0 && e.opts.StrictSuccess {
		r.result.setError(failureSummary(out.Failures))
		r.span.SetStatus(codes.Error, r.result.ErrorMessage())
	}

	r.span.SetAttributes(
		attribute.Int("reconcile.added", len(r.result.Added)),
		attribute.Int("reconcile.updated", len(r.result.Updated)),
		attribute.Int("reconcile.removed", len(r.result.Removed)),
		attribute.Int("reconcile.failed", len(out.Failures)),
	)
	r.logger.Info("reconciliation finished",
		zap.String("run_id", r.result.RunID),
		zap.Bool("success", r.result.Success),
		zap.Int("added", len(r.result.Added)),
		zap.Int("updated", len(r.result.Updated)),
		zap.Int("removed", len(r.result.Removed)),
		zap.Int("unchanged", r.result.Unchanged),
		zap.Int("held_back", r.result.HeldBack),
		zap.Int("failed", len(out.Failures)),
	)

	r.transition(StateDone)
	r.result.FinishedAt = e.now()
	return r.result
}

// Plan loads, extracts and diffs without writing anything.
func (e *Engine) Plan(ctx context.Context) (Plan, error) {
	r, ctx := e.start(ctx, "reconcile.Plan")
	defer r.span.End()

	plan, err := r.prepare(ctx)
	if err != nil {
		r.fail(err)
		return Plan{}, err
	}
	r.transition(StateDone)
	return plan, nil
}

func (e *Engine) start(ctx context.Context, spanName string) (*run, context.Context) {
	runID := e.newRunID()
	started := e.now()
	ctx = WithRun(ctx, runID, started)
	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("reconcile.cutoff", e.opts.Cutoff.String()),
		attribute.String("reconcile.deletion_policy", string(e.opts.DeletionPolicy)),
	))
	return &run{
		engine: e,
		result: newResult(runID, started),
		span:   span,
		logger: e.logger,
	}, ctx
}

// prepare walks LOADING_EXISTING, EXTRACTING and DIFFING.
func (r *run) prepare(ctx context.Context) (Plan, error) {
	e := r.engine
	runID := r.result.RunID

	r.transition(StateLoadingExisting)
	rows, err := e.store.ReadAll(ctx)
	if err != nil {
		return Plan{}, &SetupError{Stage: StateLoadingExisting, Err: fmt.Errorf("read existing events: %w", err)}
	}
	existing := IndexExisting(rows, func(dropped, kept PersistedEvent) {
		r.logger.Warn("duplicate stored event",
			zap.String("run_id", runID),
			zap.String("key", kept.Key().String()),
			zap.String("dropped_id", dropped.ID),
			zap.String("kept_id", kept.ID),
		)
	})

	r.transition(StateExtracting)
	events, err := e.extractor.Extract(ctx)
	if err != nil {
		return Plan{}, &SetupError{Stage: StateExtracting, Err: fmt.Errorf("extract events: %w", err)}
	}
	snap := BuildSnapshot(events, func(dropped, kept Event) {
		r.logger.Warn("duplicate extracted event",
			zap.String("run_id", runID),
			zap.String("key", kept.Key().String()),
			zap.Int("dropped_count", dropped.ParticipantCount),
			zap.Int("kept_count", kept.ParticipantCount),
		)
	})

	suppressRemovals := e.opts.DisableRemovals
	if len(snap) < e.opts.MinSnapshotSize {
		guardErr := fmt.Errorf("%w: %d records, need at least %d", ErrEmptySnapshot, len(snap), e.opts.MinSnapshotSize)
		if e.opts.EmptySnapshot == EmptyFail {
			return Plan{}, &SetupError{Stage: StateExtracting, Err: guardErr}
		}
		r.logger.Warn("snapshot below threshold, removals suppressed",
			zap.String("run_id", runID),
			zap.Int("records", len(snap)),
			zap.Int("min_snapshot_size", e.opts.MinSnapshotSize),
		)
		suppressRemovals = true
	}

	r.transition(StateDiffing)
	plan := Diff(existing, snap, e.opts.Cutoff)
	if suppressRemovals {
		plan = plan.withoutRemovals()
	}
	r.result.Unchanged = plan.Unchanged
	r.result.HeldBack = plan.HeldBack
	r.logger.Debug("plan computed",
		zap.String("run_id", runID),
		zap.Int("existing", len(existing)),
		zap.Int("incoming", len(snap)),
		zap.Int("inserts", len(plan.Inserts)),
		zap.Int("updates", len(plan.Updates)),
		zap.Int("removals", len(plan.Removals)),
		zap.Int("unchanged", plan.Unchanged),
		zap.Int("held_back", plan.HeldBack),
	)
	return plan, nil
}

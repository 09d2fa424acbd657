package seminar

import (
	"context"
	"fmt"
	"time"

	"seminar-sync/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// coalesceKey identifies the seminars target for run coalescing.
const coalesceKey = "seminars"

// Archiver keeps a copy of each run report outside the database.
type Archiver interface {
	SaveReport(ctx context.Context, res *reconcile.Result, trigger string) error
}

// Service runs reconciliations of the seminars table and serves its data.
type Service struct {
	store     *Store
	runs      *RunLogStore
	extractor reconcile.Extractor
	archiver  Archiver
	cfg       SyncConfig
	logger    *zap.Logger
	coalescer reconcile.Coalescer
	now       func() time.Time
}

// NewService creates a new seminar service.
func NewService(db *gorm.DB, extractor reconcile.Extractor, cfg SyncConfig, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     NewStore(db, cfg.Table),
		runs:      NewRunLogStore(db, cfg.LogTable),
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// WithArchiver sets where run reports are archived.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Store exposes the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// Migrate creates both tables.
func (s *Service) Migrate() error {
	if err := s.store.Migrate(); err != nil {
		return err
	}
	return s.runs.Migrate()
}

// CheckSchema verifies the seminars table has every column the store uses.
func (s *Service) CheckSchema() error {
	return s.store.CheckSchema()
}

// SchemaColumns returns, per table, the columns the service depends on.
func (s *Service) SchemaColumns() map[string][]string {
	return map[string][]string{
		s.store.Table(): append([]string(nil), requiredColumns...),
		s.runs.table:    append([]string(nil), runLogColumns...),
	}
}

// Sync reconciles the seminars table against the configured extractor.
// Concurrent calls share one run.
func (s *Service) Sync(ctx context.Context, trigger string) *reconcile.Result {
	res, shared := s.coalescer.Do(ctx, coalesceKey, func(ctx context.Context) *reconcile.Result {
		return s.run(ctx, s.extractor, trigger, false)
	})
	if shared {
		s.logger.Info("joined in-flight run", zap.String("run_id", res.RunID), zap.String("trigger", trigger))
	}
	return res
}

// Import adds and updates rows from extractor without removing anything.
func (s *Service) Import(ctx context.Context, extractor reconcile.Extractor) *reconcile.Result {
	return s.run(ctx, extractor, TriggerImport, true)
}

// Plan computes what Sync would do without writing.
func (s *Service) Plan(ctx context.Context) (reconcile.Plan, error) {
	engine, err := s.engine(s.extractor, false)
	if err != nil {
		return reconcile.Plan{}, err
	}
	return engine.Plan(ctx)
}

// List returns stored seminars.
func (s *Service) List(ctx context.Context, f ListFilter) ([]reconcile.PersistedEvent, error) {
	return s.store.List(ctx, f)
}

// Calendar renders the live seminars as an iCalendar feed.
func (s *Service) Calendar(ctx context.Context) (string, error) {
	events, err := s.store.List(ctx, ListFilter{})
	if err != nil {
		return "", err
	}
	loc, err := s.cfg.Location()
	if err != nil {
		return "", err
	}
	return BuildCalendar(events, CalendarOptions{
		Location: loc,
		Duration: time.Duration(s.cfg.EventMinutes) * time.Minute,
		Now:      s.now(),
	}), nil
}

// Runs returns the most recent run log rows.
func (s *Service) Runs(ctx context.Context, limit int) ([]RunLog, error) {
	return s.runs.Recent(ctx, limit)
}

func (s *Service) engine(extractor reconcile.Extractor, disableRemovals bool) (*reconcile.Engine, error) {
	if extractor == nil {
		return nil, fmt.Errorf("no extractor configured")
	}
	opts, err := s.cfg.Options(s.now())
	if err != nil {
		return nil, err
	}
	opts.DisableRemovals = disableRemovals
	return reconcile.NewEngine(s.store, extractor, opts, s.logger).WithClock(s.now), nil
}

func (s *Service) run(ctx context.Context, extractor reconcile.Extractor, trigger string, disableRemovals bool) *reconcile.Result {
	engine, err := s.engine(extractor, disableRemovals)
	if err != nil {
		s.logger.Error("cannot start run", zap.String("trigger", trigger), zap.Error(err))
		return failedResult(err, s.now())
	}

	res := engine.Run(ctx)

	// A cancelled run is still logged and archived.
	ctx = context.WithoutCancel(ctx)
	if err := s.runs.Record(ctx, res, trigger); err != nil {
		s.logger.Warn("run log write failed", zap.String("run_id", res.RunID), zap.Error(err))
	}
	if s.archiver != nil {
		if err := s.archiver.SaveReport(ctx, res, trigger); err != nil {
			s.logger.Warn("report archive failed", zap.String("run_id", res.RunID), zap.Error(err))
		}
	}
	return res
}

func failedResult(err error, now time.Time) *reconcile.Result {
	msg := err.Error()
	return &reconcile.Result{
		Added:      []reconcile.AddedItem{},
		Updated:    []reconcile.UpdatedItem{},
		Removed:    []reconcile.RemovedItem{},
		Error:      &msg,
		State:      reconcile.StateFailed,
		StartedAt:  now,
		FinishedAt: now,
	}
}

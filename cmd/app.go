package cmd

import (
	"context"
	"fmt"

	"seminar-sync/core/config"
	"seminar-sync/core/database"
	"seminar-sync/core/logger"
	"seminar-sync/core/reconcile"
	"seminar-sync/core/storage"
	"seminar-sync/core/telemetry"
	"seminar-sync/feature/archive"
	"seminar-sync/feature/extract"
	"seminar-sync/feature/integrity"
	"seminar-sync/feature/seminar"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	service  *seminar.Service
	archiver *archive.Archiver
	storage  storage.Client

	shutdownTracing func(context.Context) error
}

// appOptions adjusts the wiring for one command.
type appOptions struct {
	// sourceFile overrides the configured page source with a saved page.
	sourceFile string
	// skipExtractor leaves the service without a page extractor.
	skipExtractor bool
	// skipSchemaCheck does not verify the seminars table.
	skipSchemaCheck bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.sourceFile != "" {
		cfg.Extract.Source = extract.SourceFile
		cfg.Extract.File = opts.sourceFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &app{cfg: cfg, logger: l, shutdownTracing: shutdown}

	a.db, err = database.Connect(cfg.Database)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.storage = client
		a.archiver = archive.New(client, cfg.Storage, l)
		if err := a.archiver.EnsureBucket(ctx); err != nil {
			// Archiving is best effort; a run must not depend on the bucket.
			l.Warn("Archive bucket unavailable, archiving disabled", zap.Error(err))
			a.archiver = nil
		}
	}

	var ex reconcile.Extractor
	if !opts.skipExtractor {
		ex, err = a.newExtractor()
		if err != nil {
			a.close()
			return nil, err
		}
	}

	a.service, err = seminar.NewService(a.db, ex, cfg.Sync, l)
	if err != nil {
		a.close()
		return nil, err
	}
	if a.archiver != nil {
		a.service.WithArchiver(a.archiver)
	}

	if !opts.skipSchemaCheck {
		if err := a.service.CheckSchema(); err != nil {
			a.close()
			return nil, fmt.Errorf("%w (run the migrate command first)", err)
		}
	}
	return a, nil
}

// integrity builds the infrastructure checks for the configured tables and
// bucket.
func (a *app) integrity() *integrity.Service {
	return integrity.NewService(a.db, a.service.SchemaColumns(), a.storage, a.cfg.Storage.Bucket, a.logger)
}

func (a *app) newExtractor() (*extract.PageExtractor, error) {
	source, err := extract.NewSource(a.cfg.Extract)
	if err != nil {
		return nil, fmt.Errorf("failed to create page source: %w", err)
	}
	loc, err := a.cfg.Sync.Location()
	if err != nil {
		return nil, err
	}
	ex := extract.NewPageExtractor(source, extract.ReferenceYear(a.cfg.Sync.ReferenceYear, loc), a.logger)
	if a.archiver != nil {
		ex.OnPage(a.archiver.SavePage)
	}
	return ex, nil
}

func (a *app) close() {
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(context.Background()); err != nil {
			a.logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

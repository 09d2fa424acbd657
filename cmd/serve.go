package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"seminar-sync/core/loader"
	"seminar-sync/core/logger"
	"seminar-sync/core/middleware/auth"
	"seminar-sync/core/middleware/rayid"
	"seminar-sync/feature/archive"
	"seminar-sync/feature/integrity"
	"seminar-sync/feature/seminar"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "seminar-sync/docs/swagger"
)

// @title Seminar Sync API
// @version 1.0
// @description Scrapes the seminar calendar and serves the reconciled schedule.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the HTTP server and the sync schedule",
	Long: `Starts the HTTP server, registers every enabled feature and, when
sync.schedule is set, runs reconciliations on that cron schedule.`,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	logg := a.logger

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager()
	mgr.Register(seminar.NewFeature(a.service))
	mgr.Register(archive.NewFeature(a.archiver))
	mgr.Register(integrity.NewFeature(a.integrity()))

	// RayID first so every later log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler(a))

	app.Use(auth.New(auth.Config{
		ApiKey: a.cfg.Server.ApiKey,
		Skip:   []string{"/health", "/swagger"},
	}))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	sched, err := newServeScheduler(a)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		logg.Info("Sync schedule started", zap.String("schedule", a.cfg.Sync.Schedule))
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()))
		errCh <- app.Listen(a.cfg.Server.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logg.Info("Shutting down server...")
	if sched != nil {
		// Wait for a scheduled run in progress.
		<-sched.Stop().Done()
	}
	return app.ShutdownWithTimeout(a.cfg.Server.ShutdownTimeout())
}

// newServeScheduler builds the sync schedule plus a daily archive prune.
// It returns nil when nothing is scheduled.
func newServeScheduler(a *app) (*cron.Cron, error) {
	if a.cfg.Sync.Schedule == "" {
		return nil, nil
	}
	sched, err := seminar.NewScheduler(a.service, a.cfg.Sync.Schedule)
	if err != nil {
		return nil, err
	}
	if a.archiver != nil && a.cfg.Storage.RetentionDays > 0 {
		_, err := sched.AddFunc("@daily", func() {
			if _, err := a.archiver.Prune(context.Background()); err != nil {
				a.logger.Warn("Archive prune failed", zap.Error(err))
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return sched, nil
}

// healthHandler reports whether the database answers.
// @Summary Health Check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(a *app) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Context())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

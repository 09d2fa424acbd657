package seminar

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NewScheduler returns a stopped cron that runs Sync on spec in the
// configured timezone. Overlapping ticks are skipped; a tick that lands while
// an HTTP-triggered run is in flight joins that run instead.
func NewScheduler(svc *Service, spec string) (*cron.Cron, error) {
	loc, err := svc.cfg.Location()
	if err != nil {
		return nil, err
	}
	logger := cron.PrintfLogger(zap.NewStdLog(svc.logger))
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err = c.AddFunc(spec, func() {
		res := svc.Sync(context.Background(), TriggerCron)
		if !res.Success {
			svc.logger.Error("Scheduled sync failed", zap.String("run_id", res.RunID), zap.String("error", res.ErrorMessage()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}
	return c, nil
}

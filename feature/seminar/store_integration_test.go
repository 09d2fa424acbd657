//go:build integration

package seminar

import (
	"context"
	"testing"
	"time"

	"seminar-sync/core/database"
	"seminar-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresSyncFlow(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("seminars"),
		tcpostgres.WithUsername("seminars"),
		tcpostgres.WithPassword("seminars"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("skip: cannot start postgres: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(database.Config{Driver: database.DriverPostgres, URL: dsn})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.DeletionPolicy = "soft"
	events := []reconcile.Event{event(t, "2024-06-03", "09:00", 7), event(t, "2024-06-04", "10:00", 2)}
	ex := reconcile.ExtractorFunc(func(ctx context.Context) ([]reconcile.Event, error) {
		return events, nil
	})
	svc, err := NewService(db, ex, cfg, nil)
	require.NoError(t, err)
	svc.WithClock(func() time.Time { return testNow })
	require.NoError(t, svc.Migrate())
	require.NoError(t, svc.CheckSchema())

	first := svc.Sync(ctx, TriggerCLI)
	require.True(t, first.Success, first.ErrorMessage())
	assert.Len(t, first.Added, 2)

	events = events[:1]
	second := svc.Sync(ctx, TriggerCLI)
	require.True(t, second.Success, second.ErrorMessage())
	assert.Equal(t, []reconcile.RemovedItem{{Date: "2024-06-04", Time: "10:00:00"}}, second.Removed)

	events = append(events, event(t, "2024-06-04", "10:00", 5))
	third := svc.Sync(ctx, TriggerCLI)
	require.True(t, third.Success, third.ErrorMessage())
	assert.Len(t, third.Added, 1)

	all, err := svc.List(ctx, ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[1].IsDeleted)
	assert.Equal(t, 5, all[1].ParticipantCount)

	runs, err := svc.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

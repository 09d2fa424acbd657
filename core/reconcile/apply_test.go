package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 2, 8, 0, 0, 0, time.UTC)

func TestApply_BucketOrder(t *testing.T) {
	store := newMemStore(
		row("1", "2024-06-01", "10:00", 5),
		row("2", "2024-06-02", "14:00", 3),
	)
	incoming := BuildSnapshot([]Event{
		ev("2024-06-01", "10:00", 9),
		ev("2024-06-03", "09:00", 7),
	}, nil)
	existing, _ := store.ReadAll(context.Background())
	plan := Diff(IndexExisting(existing, nil), incoming, NoCutoff())

	out, err := Apply(context.Background(), store, plan, ApplyOptions{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	assert.Equal(t, []string{"insert 2024-06-03 09:00:00", "update 1", "delete 2"}, store.calls)
	assert.Len(t, out.Added, 1)
	assert.Len(t, out.Updated, 1)
	assert.Len(t, out.Removed, 1)
	assert.Empty(t, out.Failures)

	assert.Equal(t, incoming, store.snapshot())
	assert.Equal(t, fixedNow, store.rows["1"].ScrapedAt)
}

// TestApply_FaultIsolation checks that one failing record neither aborts the
// bucket nor shows up as changed.
func TestApply_FaultIsolation(t *testing.T) {
	store := newMemStore(
		row("1", "2024-06-01", "10:00", 5),
		row("2", "2024-06-01", "11:00", 5),
	)
	boom := errors.New("boom")
	store.failInsert[key("2024-06-03", "09:00")] = boom
	store.failUpdate["1"] = boom

	plan := Plan{
		Inserts: []Event{ev("2024-06-03", "09:00", 1), ev("2024-06-04", "09:00", 2)},
		Updates: []Update{
			{ID: "1", Date: key("2024-06-01", "10:00").Date, Time: key("2024-06-01", "10:00").Time, OldCount: 5, NewCount: 6},
			{ID: "2", Date: key("2024-06-01", "11:00").Date, Time: key("2024-06-01", "11:00").Time, OldCount: 5, NewCount: 7},
		},
	}

	out, err := Apply(context.Background(), store, plan, ApplyOptions{})
	require.NoError(t, err)

	require.Len(t, out.Failures, 2)
	assert.Equal(t, OpInsert, out.Failures[0].Op)
	assert.Equal(t, key("2024-06-03", "09:00"), out.Failures[0].Key)
	assert.ErrorIs(t, out.Failures[0], boom)
	assert.Equal(t, OpUpdate, out.Failures[1].Op)
	assert.Equal(t, "1", out.Failures[1].ID)

	assert.Equal(t, []Event{ev("2024-06-04", "09:00", 2)}, out.Added)
	require.Len(t, out.Updated, 1)
	assert.Equal(t, "2", out.Updated[0].ID)
	assert.Equal(t, 7, store.rows["2"].ParticipantCount)
	assert.Equal(t, 5, store.rows["1"].ParticipantCount)
}

func TestApply_SoftPolicyRequiresSoftDeleter(t *testing.T) {
	store := newMemStore(row("1", "2024-06-01", "10:00", 5))
	plan := Plan{
		Inserts:  []Event{ev("2024-06-03", "09:00", 1)},
		Removals: []Removal{{ID: "1", Date: key("2024-06-01", "10:00").Date, Time: key("2024-06-01", "10:00").Time}},
	}

	_, err := Apply(context.Background(), store, plan, ApplyOptions{DeletionPolicy: DeleteSoft})

	var setupErr *SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, StateApplying, setupErr.Stage)
	assert.Empty(t, store.calls, "nothing may be written before the policy check")
}

func TestApply_SoftDelete(t *testing.T) {
	store := softStore{newMemStore(row("1", "2024-06-01", "10:00", 5))}
	plan := Plan{
		Removals: []Removal{{ID: "1", Date: key("2024-06-01", "10:00").Date, Time: key("2024-06-01", "10:00").Time}},
	}

	out, err := Apply(context.Background(), store, plan, ApplyOptions{
		DeletionPolicy: DeleteSoft,
		Now:            func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	assert.Len(t, out.Removed, 1)
	assert.Equal(t, []string{"soft_delete 1"}, store.calls)
	assert.True(t, store.rows["1"].IsDeleted)
	require.NotNil(t, store.rows["1"].DeletedAt)
	assert.Equal(t, fixedNow, *store.rows["1"].DeletedAt)
}

func TestApply_WorkerPool(t *testing.T) {
	store := newMemStore()
	var events []Event
	for i := 0; i < 50; i++ {
		events = append(events, ev(fmt.Sprintf("2024-07-%02d", i%28+1), fmt.Sprintf("%d:00", i%24), i))
	}
	plan := Diff(nil, BuildSnapshot(events, nil), NoCutoff())

	out, err := Apply(context.Background(), store, plan, ApplyOptions{Workers: 8})
	require.NoError(t, err)

	assert.Len(t, out.Added, len(plan.Inserts))
	assert.Empty(t, out.Failures)
	assert.Len(t, store.rows, len(plan.Inserts))
	// Added keeps plan order even when calls complete out of order.
	assert.Equal(t, plan.Inserts, out.Added)
}

// cancelStore cancels the run context after the first insert.
type cancelStore struct {
	*memStore
	cancel  context.CancelFunc
	inserts atomic.Int32
}

func (s *cancelStore) Insert(ctx context.Context, rec Record) (PersistedEvent, error) {
	if s.inserts.Add(1) == 1 {
		defer s.cancel()
	}
	return s.memStore.Insert(ctx, rec)
}

func TestApply_CancelledRecordsAreFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := &cancelStore{memStore: newMemStore(), cancel: cancel}

	plan := Plan{Inserts: []Event{
		ev("2024-06-03", "09:00", 1),
		ev("2024-06-04", "09:00", 1),
		ev("2024-06-05", "09:00", 1),
	}}

	out, err := Apply(ctx, store, plan, ApplyOptions{})
	require.NoError(t, err)

	assert.Len(t, out.Added, 1)
	require.Len(t, out.Failures, 2)
	for _, f := range out.Failures {
		assert.ErrorIs(t, f, context.Canceled)
	}
	assert.Len(t, store.rows, 1)
}

package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ApplyOptions controls how a Plan is written to a Store.
type ApplyOptions struct {
	DeletionPolicy DeletionPolicy

	// Workers bounds concurrent store calls within one bucket.
	Workers int

	// Now stamps scraped_at and deleted_at. Defaults to time.Now.
	Now func() time.Time
}

// Outcome holds what was actually written. Records whose write failed are in
// Failures and nowhere else.
type Outcome struct {
	Added    []Event
	Updated  []Update
	Removed  []Removal
	Failures []*WriteError
}

// Apply writes plan to store: inserts first, then updates, then removals.
// A bucket settles completely before the next one starts. Per-record failures
// are collected in the Outcome; the only returned error is a *SetupError for a
// store that cannot honour the deletion policy, in which case nothing is
// written.
func Apply(ctx context.Context, store Store, plan Plan, opts ApplyOptions) (Outcome, error) {
	out := Outcome{
		Added:   []Event{},
		Updated: []Update{},
		Removed: []Removal{},
	}

	var softDeleter SoftDeleter
	if opts.DeletionPolicy == DeleteSoft {
		sd, ok := store.(SoftDeleter)
		if !ok {
			return out, &SetupError{Stage: StateApplying, Err: errors.New("store does not support soft delete")}
		}
		softDeleter = sd
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now()

	insertErrs := runBucket(ctx, opts.Workers, plan.Inserts, func(ctx context.Context, ev Event) *WriteError {
		if _, err := store.Insert(ctx, NewRecord(ev, stamp)); err != nil {
			return &WriteError{Op: OpInsert, Key: ev.Key(), Err: err}
		}
		return nil
	}, func(ev Event, err error) *WriteError {
		return &WriteError{Op: OpInsert, Key: ev.Key(), Err: err}
	})
	for i, ev := range plan.Inserts {
		if insertErrs[i] != nil {
			out.Failures = append(out.Failures, insertErrs[i])
			continue
		}
		out.Added = append(out.Added, ev)
	}

	updateErrs := runBucket(ctx, opts.Workers, plan.Updates, func(ctx context.Context, u Update) *WriteError {
		fields := UpdateFields{ParticipantCount: u.NewCount, ScrapedAt: stamp}
		if _, err := store.UpdateByID(ctx, u.ID, fields); err != nil {
			return &WriteError{Op: OpUpdate, Key: u.Key(), ID: u.ID, Err: err}
		}
		return nil
	}, func(u Update, err error) *WriteError {
		return &WriteError{Op: OpUpdate, Key: u.Key(), ID: u.ID, Err: err}
	})
	for i, u := range plan.Updates {
		if updateErrs[i] != nil {
			out.Failures = append(out.Failures, updateErrs[i])
			continue
		}
		out.Updated = append(out.Updated, u)
	}

	removeOp := OpDelete
	if softDeleter != nil {
		removeOp = OpSoftDelete
	}
	removeErrs := runBucket(ctx, opts.Workers, plan.Removals, func(ctx context.Context, r Removal) *WriteError {
		var err error
		if softDeleter != nil {
			err = softDeleter.SoftDeleteByID(ctx, r.ID, stamp)
		} else {
			err = store.DeleteByID(ctx, r.ID)
		}
		if err != nil {
			return &WriteError{Op: removeOp, Key: r.Key(), ID: r.ID, Err: err}
		}
		return nil
	}, func(r Removal, err error) *WriteError {
		return &WriteError{Op: removeOp, Key: r.Key(), ID: r.ID, Err: err}
	})
	for i, r := range plan.Removals {
		if removeErrs[i] != nil {
			out.Failures = append(out.Failures, removeErrs[i])
			continue
		}
		out.Removed = append(out.Removed, r)
	}

	return out, nil
}

// runBucket calls fn for every item with at most workers calls in flight and
// returns the per-item errors in input order. Items not yet started when ctx
// is done are reported through skipped with the context error.
func runBucket[T any](
	ctx context.Context,
	workers int,
	items []T,
	fn func(context.Context, T) *WriteError,
	skipped func(T, error) *WriteError,
) []*WriteError {
	errs := make([]*WriteError, len(items))
	if len(items) == 0 {
		return errs
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = skipped(items[i], err)
					continue
				}
				errs[i] = fn(ctx, items[i])
			}
		}()
	}
	wg.Wait()

	return errs
}

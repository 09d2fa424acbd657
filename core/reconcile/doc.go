// Package reconcile keeps a persisted table of scheduled events in step with
// a freshly extracted snapshot of the same schedule.
//
// A run loads the existing rows, extracts the current snapshot, computes the
// minimal set of inserts, updates and removals, and applies them record by
// record. A failed write never aborts the run; it is recorded and the
// remaining records are still applied.
//
// # Architecture
//
// 1. Diff: pure computation of a Plan from the existing rows and the snapshot.
// Keys are (date, time); a count change is an update, a key missing from the
// snapshot is a removal candidate subject to the removal Cutoff.
//
// 2. Apply: drives Store mutations bucket by bucket (inserts, updates,
// removals) with an optional bounded worker pool per bucket.
//
// 3. Engine: walks the run state machine, guards against empty snapshots and
// folds every failure into a Result instead of returning an error.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(store, extractor, reconcile.Options{
//	    Cutoff:         reconcile.CutoffAt(reconcile.DateOf(time.Now())),
//	    DeletionPolicy: reconcile.DeleteHard,
//	}, logger)
//
//	result := engine.Run(ctx)
//	out, _ := json.Marshal(result)
//
// # Implementing a Store
//
// A Store needs ReadAll, Insert, UpdateByID and DeleteByID. Stores that keep
// removed rows around for auditing also implement SoftDeleter, which is
// required when Options.DeletionPolicy is DeleteSoft.
package reconcile

package reconcile

import (
	"context"
	"time"
)

// Store is the persisted side of a reconciliation.
// Implementations must be safe for concurrent use when Options.Workers > 1.
type Store interface {
	// ReadAll returns every live row. Soft-deleted rows are excluded.
	ReadAll(ctx context.Context) ([]PersistedEvent, error)

	// Insert writes a new row for rec's key and returns it with its assigned ID.
	Insert(ctx context.Context, rec Record) (PersistedEvent, error)

	// UpdateByID refreshes the participant count and scrape time of one row.
	UpdateByID(ctx context.Context, id string, fields UpdateFields) (PersistedEvent, error)

	// DeleteByID removes one row.
	DeleteByID(ctx context.Context, id string) error
}

// SoftDeleter is implemented by stores that can mark rows as removed
// instead of deleting them.
type SoftDeleter interface {
	SoftDeleteByID(ctx context.Context, id string, deletedAt time.Time) error
}

// Extractor produces the current snapshot of the schedule.
type Extractor interface {
	Extract(ctx context.Context) ([]Event, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context) ([]Event, error)

// Extract calls f(ctx).
func (f ExtractorFunc) Extract(ctx context.Context) ([]Event, error) {
	return f(ctx)
}

package seminar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seminar-sync/core/database"
	"seminar-sync/core/reconcile"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an id matches no row.
	ErrNotFound = errors.New("seminar not found")
	// ErrSlotTaken is returned by Insert when a live row already holds the slot.
	ErrSlotTaken = errors.New("seminar slot already exists")
)

// Store is the reconcile.Store backed by one seminars table.
// Soft-deleted rows are invisible to ReadAll and revived by Insert.
type Store struct {
	db    *gorm.DB
	table string
}

var (
	_ reconcile.Store       = (*Store)(nil)
	_ reconcile.SoftDeleter = (*Store)(nil)
)

// NewStore creates a store over table.
func NewStore(db *gorm.DB, table string) *Store {
	if table == "" {
		table = Seminar{}.TableName()
	}
	return &Store{db: db, table: table}
}

// Table returns the table name.
func (s *Store) Table() string {
	return s.table
}

func (s *Store) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// Migrate creates or updates the seminars table.
func (s *Store) Migrate() error {
	if err := s.db.Table(s.table).AutoMigrate(&Seminar{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", s.table, err)
	}
	return nil
}

// CheckSchema fails when the table lacks a column the store needs.
func (s *Store) CheckSchema() error {
	missing, err := database.MissingColumns(s.db, s.table, requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", s.table, strings.Join(missing, ", "))
	}
	return nil
}

// ReadAll returns every live row ordered by slot.
func (s *Store) ReadAll(ctx context.Context) ([]reconcile.PersistedEvent, error) {
	var rows []Seminar
	err := s.query(ctx).
		Where("is_deleted = ?", false).
		Order("event_date").Order("event_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEvents(rows)
}

// Insert creates a row for rec. A soft-deleted row with the same slot is
// revived in place so the unique slot index holds.
func (s *Store) Insert(ctx context.Context, rec reconcile.Record) (reconcile.PersistedEvent, error) {
	row := fromRecord(rec)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Seminar
		err := tx.Table(s.table).
			Where("event_date = ? AND event_time = ?", row.EventDate, row.EventTime).
			Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Table(s.table).Create(&row).Error
		case err != nil:
			return err
		case !existing.IsDeleted:
			return fmt.Errorf("%w: %s %s", ErrSlotTaken, row.EventDate, row.EventTime)
		}

		err = tx.Table(s.table).Where("id = ?", existing.ID).Updates(map[string]any{
			"participant_count": row.ParticipantCount,
			"year":              row.Year,
			"month":             row.Month,
			"day":               row.Day,
			"scraped_at":        row.ScrapedAt,
			"is_deleted":        false,
			"deleted_at":        nil,
			"updated_at":        rec.ScrapedAt,
		}).Error
		if err != nil {
			return err
		}
		return tx.Table(s.table).Where("id = ?", existing.ID).Take(&row).Error
	})
	if err != nil {
		return reconcile.PersistedEvent{}, err
	}
	return row.toEvent()
}

// UpdateByID refreshes the participant count and scraped_at of one row.
func (s *Store) UpdateByID(ctx context.Context, id string, fields reconcile.UpdateFields) (reconcile.PersistedEvent, error) {
	return s.update(ctx, id, map[string]any{
		"participant_count": fields.ParticipantCount,
		"scraped_at":        fields.ScrapedAt,
		"updated_at":        fields.ScrapedAt,
	})
}

// SoftDeleteByID flags one row as deleted.
func (s *Store) SoftDeleteByID(ctx context.Context, id string, deletedAt time.Time) error {
	_, err := s.update(ctx, id, map[string]any{
		"is_deleted": true,
		"deleted_at": deletedAt,
		"updated_at": deletedAt,
	})
	return err
}

// DeleteByID removes one row.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res := s.query(ctx).Where("id = ?", n).Delete(&Seminar{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) update(ctx context.Context, id string, values map[string]any) (reconcile.PersistedEvent, error) {
	n, err := parseID(id)
	if err != nil {
		return reconcile.PersistedEvent{}, err
	}
	res := s.query(ctx).Where("id = ?", n).Updates(values)
	if res.Error != nil {
		return reconcile.PersistedEvent{}, res.Error
	}
	if res.RowsAffected == 0 {
		return reconcile.PersistedEvent{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	var row Seminar
	if err := s.query(ctx).Where("id = ?", n).Take(&row).Error; err != nil {
		return reconcile.PersistedEvent{}, err
	}
	return row.toEvent()
}

// ListFilter narrows List.
type ListFilter struct {
	From           *reconcile.Date
	To             *reconcile.Date
	IncludeDeleted bool
}

// List returns rows in slot order. From and To are inclusive.
func (s *Store) List(ctx context.Context, f ListFilter) ([]reconcile.PersistedEvent, error) {
	q := s.query(ctx)
	if !f.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if f.From != nil {
		q = q.Where("event_date >= ?", f.From.String())
	}
	if f.To != nil {
		q = q.Where("event_date <= ?", f.To.String())
	}
	var rows []Seminar
	if err := q.Order("event_date").Order("event_time").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEvents(rows)
}

func toEvents(rows []Seminar) ([]reconcile.PersistedEvent, error) {
	out := make([]reconcile.PersistedEvent, 0, len(rows))
	for _, r := range rows {
		ev, err := r.toEvent()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

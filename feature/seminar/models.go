package seminar

import (
	"fmt"
	"strconv"
	"time"

	"seminar-sync/core/reconcile"
)

// Seminar is one row of the seminars table.
// RemovedAt maps to deleted_at without gorm's soft-delete behaviour, so
// queries see soft-deleted rows unless they filter on is_deleted.
type Seminar struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	EventDate        string     `gorm:"column:event_date;type:varchar(10);not null;uniqueIndex:idx_seminar_slot,priority:1"`
	EventTime        string     `gorm:"column:event_time;type:varchar(8);not null;uniqueIndex:idx_seminar_slot,priority:2"`
	ParticipantCount int        `gorm:"column:participant_count;not null"`
	Year             int        `gorm:"column:year;not null"`
	Month            int        `gorm:"column:month;not null"`
	Day              int        `gorm:"column:day;not null"`
	ScrapedAt        time.Time  `gorm:"column:scraped_at"`
	IsDeleted        bool       `gorm:"column:is_deleted;not null;index"`
	RemovedAt        *time.Time `gorm:"column:deleted_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

// TableName is the default table; the Store overrides it from configuration.
func (Seminar) TableName() string {
	return "seminars"
}

// requiredColumns are the columns the Store reads and writes.
var requiredColumns = []string{
	"id", "event_date", "event_time", "participant_count",
	"year", "month", "day", "scraped_at", "is_deleted", "deleted_at",
}

func fromRecord(rec reconcile.Record) Seminar {
	return Seminar{
		EventDate:        rec.Date.String(),
		EventTime:        rec.Time.String(),
		ParticipantCount: rec.ParticipantCount,
		Year:             rec.Year,
		Month:            rec.Month,
		Day:              rec.Day,
		ScrapedAt:        rec.ScrapedAt,
	}
}

func (s Seminar) toEvent() (reconcile.PersistedEvent, error) {
	date, err := reconcile.ParseDate(s.EventDate)
	if err != nil {
		return reconcile.PersistedEvent{}, fmt.Errorf("row %d: %w", s.ID, err)
	}
	clock, err := reconcile.ParseClock(s.EventTime)
	if err != nil {
		return reconcile.PersistedEvent{}, fmt.Errorf("row %d: %w", s.ID, err)
	}
	return reconcile.PersistedEvent{
		Event: reconcile.Event{
			Date:             date,
			Time:             clock,
			ParticipantCount: s.ParticipantCount,
		},
		ID:        strconv.FormatUint(s.ID, 10),
		ScrapedAt: s.ScrapedAt,
		IsDeleted: s.IsDeleted,
		DeletedAt: s.RemovedAt,
	}, nil
}

func parseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seminar id %q: %w", id, err)
	}
	return n, nil
}

// RunLog is one row of the run log table.
type RunLog struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID        string    `gorm:"column:run_id;type:varchar(36);uniqueIndex" json:"runId"`
	Trigger      string    `gorm:"column:trigger_source;type:varchar(16)" json:"trigger"`
	ExecutedAt   time.Time `gorm:"column:executed_at;index" json:"executedAt"`
	FinishedAt   time.Time `gorm:"column:finished_at" json:"finishedAt"`
	AddedCount   int       `gorm:"column:added_count" json:"addedCount"`
	UpdatedCount int       `gorm:"column:updated_count" json:"updatedCount"`
	RemovedCount int       `gorm:"column:removed_count" json:"removedCount"`
	FailedCount  int       `gorm:"column:failed_count" json:"failedCount"`
	Success      bool      `gorm:"column:success" json:"success"`
	ErrorMessage *string   `gorm:"column:error_message;type:text" json:"errorMessage"`
	State        string    `gorm:"column:state;type:varchar(32)" json:"state"`
}

// TableName is the default table; the RunLogStore overrides it from configuration.
func (RunLog) TableName() string {
	return "auto_update_logs"
}

var runLogColumns = []string{
	"id", "run_id", "trigger_source", "executed_at", "finished_at",
	"added_count", "updated_count", "removed_count", "failed_count",
	"success", "error_message", "state",
}

// Triggers recorded in the run log.
const (
	TriggerCLI    = "cli"
	TriggerHTTP   = "http"
	TriggerCron   = "cron"
	TriggerImport = "import"
)

func newRunLog(res *reconcile.Result, trigger string) RunLog {
	return RunLog{
		RunID:        res.RunID,
		Trigger:      trigger,
		ExecutedAt:   res.StartedAt,
		FinishedAt:   res.FinishedAt,
		AddedCount:   len(res.Added),
		UpdatedCount: len(res.Updated),
		RemovedCount: len(res.Removed),
		FailedCount:  len(res.Failures),
		Success:      res.Success,
		ErrorMessage: res.Error,
		State:        string(res.State),
	}
}

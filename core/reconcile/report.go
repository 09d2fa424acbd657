package reconcile

import (
	"fmt"
	"time"
)

// AddedItem is one inserted event in a Result.
type AddedItem struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Participants int    `json:"participants"`
}

// UpdatedItem is one count change in a Result.
type UpdatedItem struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	OldParticipants int    `json:"oldParticipants"`
	NewParticipants int    `json:"newParticipants"`
}

// RemovedItem is one removed event in a Result.
type RemovedItem struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Result is the report of one run. Only the tagged fields are part of the
// JSON report; the rest is run metadata for logs and the run log.
type Result struct {
	Success bool          `json:"success"`
	Added   []AddedItem   `json:"added"`
	Updated []UpdatedItem `json:"updated"`
	Removed []RemovedItem `json:"removed"`
	Error   *string       `json:"error"`

	RunID      string        `json:"-"`
	State      State         `json:"-"`
	StartedAt  time.Time     `json:"-"`
	FinishedAt time.Time     `json:"-"`
	Unchanged  int           `json:"-"`
	HeldBack   int           `json:"-"`
	Failures   []*WriteError `json:"-"`
}

func newResult(runID string, startedAt time.Time) *Result {
	return &Result{
		Added:     []AddedItem{},
		Updated:   []UpdatedItem{},
		Removed:   []RemovedItem{},
		RunID:     runID,
		State:     StateInit,
		StartedAt: startedAt,
	}
}

// ErrorMessage returns the error string or "".
func (r *Result) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

func (r *Result) setError(err error) {
	msg := err.Error()
	r.Error = &msg
	r.Success = false
}

func (r *Result) fill(out Outcome) {
	for _, ev := range out.Added {
		r.Added = append(r.Added, AddedItem{
			Date:         ev.Date.String(),
			Time:         ev.Time.String(),
			Participants: ev.ParticipantCount,
		})
	}
	for _, u := range out.Updated {
		r.Updated = append(r.Updated, UpdatedItem{
			Date:            u.Date.String(),
			Time:            u.Time.String(),
			OldParticipants: u.OldCount,
			NewParticipants: u.NewCount,
		})
	}
	for _, rm := range out.Removed {
		r.Removed = append(r.Removed, RemovedItem{
			Date: rm.Date.String(),
			Time: rm.Time.String(),
		})
	}
	r.Failures = out.Failures
}

// failureSummary condenses per-record failures into one message.
func failureSummary(failures []*WriteError) error {
	if len(failures) == 1 {
		return fmt.Errorf("1 record write failed: %w", failures[0])
	}
	return fmt.Errorf("%d record writes failed, first: %w", len(failures), failures[0])
}

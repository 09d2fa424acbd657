package reconcile

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate builds a Date and rejects impossible days such as 2/30.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate parses "YYYY-MM-DD". Longer values such as RFC3339 timestamps are
// accepted and truncated to their date part, since some drivers hand DATE
// columns back as timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a time of day at minute granularity.
type Clock struct {
	Hour   int
	Minute int
}

// NewClock validates hour and minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid time %d:%02d", hour, minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseClock parses "H:MM", "HH:MM" or "HH:MM:SS". Seconds are dropped.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil {
			return Clock{}, fmt.Errorf("invalid second in %q: %w", s, err)
		}
		if second < 0 || second > 59 {
			return Clock{}, fmt.Errorf("invalid second in %q", s)
		}
	}
	return NewClock(hour, minute)
}

// String formats the clock as HH:MM:00, the persisted event_time format.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour, c.Minute)
}

// Before reports whether c is strictly earlier than o.
func (c Clock) Before(o Clock) bool {
	if c.Hour != o.Hour {
		return c.Hour < o.Hour
	}
	return c.Minute < o.Minute
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Key identifies one scheduled event across scrapes.
type Key struct {
	Date Date
	Time Clock
}

// String formats the key as "YYYY-MM-DD HH:MM:00".
func (k Key) String() string {
	return k.Date.String() + " " + k.Time.String()
}

// Less orders keys by date, then time.
func (k Key) Less(o Key) bool {
	if k.Date != o.Date {
		return k.Date.Before(o.Date)
	}
	return k.Time.Before(o.Time)
}

// Event is one scheduled occurrence as seen by an extractor.
type Event struct {
	Date             Date  `json:"date"`
	Time             Clock `json:"time"`
	ParticipantCount int   `json:"participants"`
}

// Key returns the identity key of the event.
func (e Event) Key() Key {
	return Key{Date: e.Date, Time: e.Time}
}

// PersistedEvent is an Event plus the metadata assigned by the store.
type PersistedEvent struct {
	Event

	// ID is opaque and stable across updates.
	ID string `json:"id"`

	// ScrapedAt is the time of the last successful write.
	ScrapedAt time.Time `json:"scrapedAt"`

	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Record is the full payload written by Store.Insert.
type Record struct {
	Event
	Year      int
	Month     int
	Day       int
	ScrapedAt time.Time
}

// NewRecord derives the year/month/day columns from the event date.
func NewRecord(e Event, scrapedAt time.Time) Record {
	return Record{
		Event:     e,
		Year:      e.Date.Year,
		Month:     int(e.Date.Month),
		Day:       e.Date.Day,
		ScrapedAt: scrapedAt,
	}
}

// UpdateFields are the columns refreshed by Store.UpdateByID.
type UpdateFields struct {
	ParticipantCount int
	ScrapedAt        time.Time
}

// Snapshot maps every key seen in one extraction pass to its event.
type Snapshot map[Key]Event

// DeletionPolicy selects how removed events are written to the store.
type DeletionPolicy string

const (
	// DeleteHard removes the row.
	DeleteHard DeletionPolicy = "hard"
	// DeleteSoft flags the row with is_deleted/deleted_at.
	DeleteSoft DeletionPolicy = "soft"
)

// ParseDeletionPolicy validates a configured policy. Empty means hard.
func ParseDeletionPolicy(s string) (DeletionPolicy, error) {
	switch DeletionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeleteHard:
		return DeleteHard, nil
	case DeleteSoft:
		return DeleteSoft, nil
	default:
		return "", fmt.Errorf("unknown deletion policy %q (want hard or soft)", s)
	}
}

// EmptySnapshotPolicy decides what happens when extraction yields fewer
// records than Options.MinSnapshotSize.
type EmptySnapshotPolicy string

const (
	// EmptyFail aborts the run before any mutation.
	EmptyFail EmptySnapshotPolicy = "fail"
	// EmptyKeep continues the run but suppresses every removal.
	EmptyKeep EmptySnapshotPolicy = "keep"
)

// ParseEmptySnapshotPolicy validates a configured policy. Empty means fail.
func ParseEmptySnapshotPolicy(s string) (EmptySnapshotPolicy, error) {
	switch EmptySnapshotPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EmptyFail:
		return EmptyFail, nil
	case EmptyKeep:
		return EmptyKeep, nil
	default:
		return "", fmt.Errorf("unknown empty snapshot policy %q (want fail or keep)", s)
	}
}

// Options controls a reconciliation run.
type Options struct {
	// Cutoff restricts which missing events may be removed.
	Cutoff Cutoff

	// DeletionPolicy selects hard or soft removal.
	DeletionPolicy DeletionPolicy

	// EmptySnapshot is applied when the snapshot has fewer than
	// MinSnapshotSize records.
	EmptySnapshot EmptySnapshotPolicy

	// MinSnapshotSize is the smallest snapshot treated as trustworthy.
	// Values below 1 are treated as 1.
	MinSnapshotSize int

	// DisableRemovals plans no removals at all (used by CSV import).
	DisableRemovals bool

	// StrictSuccess turns any per-record write failure into success=false.
	StrictSuccess bool

	// Workers bounds concurrent store calls within one bucket.
	// Values below 1 mean sequential.
	Workers int
}

// State is a step of the run state machine.
type State string

const (
	StateInit            State = "INIT"
	StateLoadingExisting State = "LOADING_EXISTING"
	StateExtracting      State = "EXTRACTING"
	StateDiffing         State = "DIFFING"
	StateApplying        State = "APPLYING"
	StateReporting       State = "REPORTING"
	StateDone            State = "DONE"
	StateFailed          State = "FAILED"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

package seminar

import (
	"fmt"
	"time"

	"seminar-sync/core/reconcile"
)

// SyncConfig holds configuration for reconciliation runs.
type SyncConfig struct {
	// Table is the seminars table.
	Table string `mapstructure:"table" default:"seminars"`
	// LogTable records one row per run.
	LogTable string `mapstructure:"log_table" default:"auto_update_logs"`
	// ReferenceYear is combined with the month/day on the page. 0 means the current year.
	ReferenceYear int `mapstructure:"reference_year" default:"0"`
	// Timezone resolves "today" and the current year.
	Timezone string `mapstructure:"timezone" default:"Local"`
	// Cutoff is "today", "none" or a YYYY-MM-DD date; removals before it are held back.
	Cutoff string `mapstructure:"cutoff" default:"today"`
	// DeletionPolicy is "hard" or "soft".
	DeletionPolicy string `mapstructure:"deletion_policy" default:"hard"`
	// EmptySnapshot is "fail" or "keep".
	EmptySnapshot string `mapstructure:"empty_snapshot" default:"fail"`
	// MinSnapshotSize is the smallest snapshot treated as trustworthy.
	MinSnapshotSize int `mapstructure:"min_snapshot_size" default:"1"`
	// StrictSuccess reports success=false when any record write fails.
	StrictSuccess bool `mapstructure:"strict_success" default:"false"`
	// Workers bounds concurrent store writes per bucket.
	Workers int `mapstructure:"workers" default:"1"`
	// Schedule is a cron spec for runs inside serve. Empty disables it.
	Schedule string `mapstructure:"schedule" default:""`
	// EventMinutes is the event length used in the calendar feed.
	EventMinutes int `mapstructure:"event_minutes" default:"60"`
}

// Location resolves Timezone.
func (c SyncConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sync timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Options resolves the run options for a run starting at now.
func (c SyncConfig) Options(now time.Time) (reconcile.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return reconcile.Options{}, err
	}
	cutoff, err := reconcile.ParseCutoff(c.Cutoff, reconcile.DateOf(now.In(loc)))
	if err != nil {
		return reconcile.Options{}, err
	}
	policy, err := reconcile.ParseDeletionPolicy(c.DeletionPolicy)
	if err != nil {
		return reconcile.Options{}, err
	}
	empty, err := reconcile.ParseEmptySnapshotPolicy(c.EmptySnapshot)
	if err != nil {
		return reconcile.Options{}, err
	}
	return reconcile.Options{
		Cutoff:          cutoff,
		DeletionPolicy:  policy,
		EmptySnapshot:   empty,
		MinSnapshotSize: c.MinSnapshotSize,
		StrictSuccess:   c.StrictSuccess,
		Workers:         c.Workers,
	}, nil
}

// Validate checks every field that Options would reject.
func (c SyncConfig) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("sync table is required")
	}
	if c.LogTable == "" {
		return fmt.Errorf("sync log_table is required")
	}
	_, err := c.Options(time.Now())
	return err
}

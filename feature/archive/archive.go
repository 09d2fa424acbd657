package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"seminar-sync/core/reconcile"
	"seminar-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	runsFolder = "runs"
	reportFile = "report.json"
)

// Report is the archived form of one run.
type Report struct {
	RunID      string            `json:"runId"`
	Trigger    string            `json:"trigger"`
	State      string            `json:"state"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Unchanged  int               `json:"unchanged"`
	HeldBack   int               `json:"heldBack"`
	Failures   []string          `json:"failures"`
	Result     *reconcile.Result `json:"result"`
}

// ReportInfo describes one archived report object.
type ReportInfo struct {
	Name         string    `json:"name"`
	Date         string    `json:"date"`
	RunID        string    `json:"runId"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Archiver writes fetched pages and run reports to object storage under
// <prefix>/runs/<date>/<run id>/.
type Archiver struct {
	client    storage.Client
	bucket    string
	prefix    string
	region    string
	retention int
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an archiver for the bucket in cfg.
func New(client storage.Client, cfg storage.Config, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		region:    cfg.Region,
		retention: cfg.RetentionDays,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (a *Archiver) WithClock(now func() time.Time) *Archiver {
	a.now = now
	return a
}

// EnsureBucket creates the bucket if it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

func (a *Archiver) runDir(day time.Time, runID string) string {
	if runID == "" {
		runID = "unknown"
	}
	return storage.ObjectName(a.prefix, runsFolder, day.Format(time.DateOnly), runID)
}

// SavePage stores a fetched page. It matches extract.PageHook, so failures
// are logged rather than returned and never fail the run.
func (a *Archiver) SavePage(ctx context.Context, source string, page []byte) {
	runID := reconcile.RunIDFromContext(ctx)
	day, ok := reconcile.RunStartFromContext(ctx)
	if !ok {
		day = a.now()
	}
	name := path.Join(a.runDir(day, runID), "page-"+source+".html")
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(page), int64(len(page)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		a.logger.Warn("Failed to archive page", zap.String("run_id", runID), zap.String("object", name), zap.Error(err))
		return
	}
	a.logger.Debug("Archived page", zap.String("run_id", runID), zap.String("object", name), zap.Int("bytes", len(page)))
}

// SaveReport stores the report of one run.
func (a *Archiver) SaveReport(ctx context.Context, res *reconcile.Result, trigger string) error {
	report := Report{
		RunID:      res.RunID,
		Trigger:    trigger,
		State:      string(res.State),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Unchanged:  res.Unchanged,
		HeldBack:   res.HeldBack,
		Failures:   make([]string, 0, len(res.Failures)),
		Result:     res,
	}
	for _, f := range res.Failures {
		report.Failures = append(report.Failures, f.Error())
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	started := res.StartedAt
	if started.IsZero() {
		started = a.now()
	}
	name := path.Join(a.runDir(started, res.RunID), reportFile)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", name, err)
	}
	return nil
}

// ListReports returns archived reports, newest first.
func (a *Archiver) ListReports(ctx context.Context, limit int) ([]ReportInfo, error) {
	root := storage.ObjectName(a.prefix, runsFolder) + "/"
	var out []ReportInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: root, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		if path.Base(obj.Key) != reportFile {
			continue
		}
		date, runID, ok := splitRunKey(strings.TrimPrefix(obj.Key, root))
		if !ok {
			continue
		}
		out = append(out, ReportInfo{
			Name:         obj.Key,
			Date:         date,
			RunID:        runID,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].LastModified.After(out[j].LastModified)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LoadReport reads the report stored for runID on date.
func (a *Archiver) LoadReport(ctx context.Context, date, runID string) (*Report, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("invalid report date %q", date)
	}
	name := storage.ObjectName(a.prefix, runsFolder, date, runID, reportFile)
	obj, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", name, err)
	}
	defer obj.Close()

	var report Report
	if err := json.NewDecoder(obj).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", name, err)
	}
	return &report, nil
}

// Prune removes every archived object in a date folder older than the
// retention window. It returns the number of objects removed.
func (a *Archiver) Prune(ctx context.Context) (int, error) {
	if a.retention <= 0 {
		return 0, nil
	}
	cutoff := a.now().AddDate(0, 0, -a.retention).Format(time.DateOnly)
	root := storage.ObjectName(a.prefix, runsFolder) + "/"

	var stale []minio.ObjectInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: root, Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list archive: %w", obj.Err)
		}
		date, _, ok := splitRunKey(strings.TrimPrefix(obj.Key, root))
		if ok && date < cutoff {
			stale = append(stale, obj)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	failed := 0
	var firstErr error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed++
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	removed := len(stale) - failed
	a.logger.Info("Pruned archive",
		zap.String("before", cutoff),
		zap.Int("removed", removed),
		zap.Int("failed", failed),
	)
	return removed, firstErr
}

// splitRunKey splits "<date>/<run id>/<file>" into its date and run id.
func splitRunKey(rel string) (date, runID string, ok bool) {
	parts := strings.Split(rel, "/")
	if len(parts) < 3 {
		return "", "", false
	}
	if _, err := time.Parse(time.DateOnly, parts[0]); err != nil {
		return "", "", false
	}
	return parts[0], parts[1], true
}

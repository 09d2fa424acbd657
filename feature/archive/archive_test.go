package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"seminar-sync/core/reconcile"
	"seminar-sync/core/storage"
	"seminar-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func newTestArchiver(client storage.Client, retention int) *Archiver {
	return New(client, storage.Config{Bucket: "test-bucket", Prefix: "sync", RetentionDays: retention}, nil).
		WithClock(func() time.Time { return testNow })
}

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for i, k := range keys {
		ch <- minio.ObjectInfo{Key: k, Size: int64(10 + i), LastModified: testNow.Add(time.Duration(i) * time.Minute)}
	}
	close(ch)
	return ch
}

func TestEnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

		require.NoError(t, newTestArchiver(client, 0).EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

		require.NoError(t, newTestArchiver(client, 0).EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, errors.New("access denied"))

		err := newTestArchiver(client, 0).EnsureBucket(context.Background())
		assert.ErrorContains(t, err, "access denied")
	})
}

// TestSavePage checks that a page fetched after midnight lands in the folder
// of the day its run started, next to the report.
func TestSavePage(t *testing.T) {
	client := new(mocks.Client)
	page := []byte("<html></html>")
	client.On("PutObject", mock.Anything, "test-bucket", "sync/runs/2024-06-09/run-1/page-http.html",
		mock.Anything, int64(len(page)), mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("PutObject", mock.Anything, "test-bucket", "sync/runs/2024-06-09/run-1/report.json",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	started := time.Date(2024, time.June, 9, 23, 59, 0, 0, time.UTC)
	archiver := newTestArchiver(client, 0)
	ctx := reconcile.WithRun(context.Background(), "run-1", started)
	archiver.SavePage(ctx, "http", page)
	require.NoError(t, archiver.SaveReport(context.Background(), &reconcile.Result{RunID: "run-1", StartedAt: started}, "cli"))

	client.AssertExpectations(t)
}

func TestSavePage_ErrorIsSwallowed(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "test-bucket", "sync/runs/2024-06-10/unknown/page-file.html",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("timeout"))

	assert.NotPanics(t, func() {
		newTestArchiver(client, 0).SavePage(context.Background(), "file", []byte("x"))
	})
	client.AssertExpectations(t)
}

func TestSaveReport(t *testing.T) {
	client := new(mocks.Client)
	var uploaded []byte
	client.On("PutObject", mock.Anything, "test-bucket", "sync/runs/2024-06-09/run-7/report.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	res := &reconcile.Result{
		Success:   true,
		Added:     []reconcile.AddedItem{{Date: "2024-06-12", Time: "10:00:00", Participants: 3}},
		Updated:   []reconcile.UpdatedItem{},
		Removed:   []reconcile.RemovedItem{},
		RunID:     "run-7",
		State:     reconcile.StateDone,
		StartedAt: time.Date(2024, time.June, 9, 23, 59, 0, 0, time.UTC),
		HeldBack:  2,
		Failures:  []*reconcile.WriteError{{Op: reconcile.OpUpdate, ID: "4", Err: errors.New("deadlock")}},
	}
	require.NoError(t, newTestArchiver(client, 0).SaveReport(context.Background(), res, "cron"))

	var report Report
	require.NoError(t, json.Unmarshal(uploaded, &report))
	assert.Equal(t, "run-7", report.RunID)
	assert.Equal(t, "cron", report.Trigger)
	assert.Equal(t, "DONE", report.State)
	assert.Equal(t, 2, report.HeldBack)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], "deadlock")
	require.NotNil(t, report.Result)
	assert.True(t, report.Result.Success)
	assert.Len(t, report.Result.Added, 1)
}

func TestListReports(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "sync/runs/" && o.Recursive
	})).Return(objects(
		"sync/runs/2024-06-08/run-a/report.json",
		"sync/runs/2024-06-08/run-a/page-http.html",
		"sync/runs/2024-06-09/run-b/report.json",
		"sync/runs/not-a-date/run-c/report.json",
	))

	reports, err := newTestArchiver(client, 0).ListReports(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "run-b", reports[0].RunID)
	assert.Equal(t, "2024-06-09", reports[0].Date)
	assert.Equal(t, "run-a", reports[1].RunID)
}

func TestLoadReport(t *testing.T) {
	client := new(mocks.Client)
	body := `{"runId":"run-b","trigger":"http","state":"DONE","result":{"success":true,"added":[],"updated":[],"removed":[],"error":null}}`
	client.On("GetObject", mock.Anything, "test-bucket", "sync/runs/2024-06-09/run-b/report.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(body)), nil)

	a := newTestArchiver(client, 0)
	report, err := a.LoadReport(context.Background(), "2024-06-09", "run-b")
	require.NoError(t, err)
	assert.Equal(t, "http", report.Trigger)
	assert.True(t, report.Result.Success)

	_, err = a.LoadReport(context.Background(), "../etc", "run-b")
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objects(
		"sync/runs/2024-05-01/run-a/report.json",
		"sync/runs/2024-05-01/run-a/page-http.html",
		"sync/runs/2024-06-03/run-b/report.json",
		"sync/runs/2024-06-09/run-c/report.json",
	))
	var removed []string
	client.On("RemoveObjects", mock.Anything, "test-bucket", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
				removed = append(removed, obj.Key)
			}
		}).
		Return(nil)

	n, err := newTestArchiver(client, 7).Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"sync/runs/2024-05-01/run-a/report.json",
		"sync/runs/2024-05-01/run-a/page-http.html",
	}, removed)
}

func TestPrune_Disabled(t *testing.T) {
	client := new(mocks.Client)

	n, err := newTestArchiver(client, 0).Prune(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestPrune_RemoveErrors(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objects(
		"sync/runs/2024-05-01/run-a/report.json",
		"sync/runs/2024-05-02/run-b/report.json",
	))
	errCh := make(chan minio.RemoveObjectError, 1)
	errCh <- minio.RemoveObjectError{ObjectName: "sync/runs/2024-05-02/run-b/report.json", Err: errors.New("locked")}
	close(errCh)
	client.On("RemoveObjects", mock.Anything, "test-bucket", mock.Anything, mock.Anything).
		Return((<-chan minio.RemoveObjectError)(errCh))

	n, err := newTestArchiver(client, 7).Prune(context.Background())

	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, "locked")
}

package extract

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"seminar-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	page []byte
	err  error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.page, s.err
}

func TestPageExtractor_Extract(t *testing.T) {
	page, err := os.ReadFile("testdata/calendar.html")
	require.NoError(t, err)

	var hooked []byte
	ex := NewPageExtractor(&stubSource{page: page}, ReferenceYear(2025, nil), nil).
		OnPage(func(ctx context.Context, source string, p []byte) {
			assert.Equal(t, "stub", source)
			hooked = p
		})

	events, err := ex.Extract(context.Background())
	require.NoError(t, err)

	assert.Len(t, events, 3)
	assert.Equal(t, 2025, events[0].Date.Year)
	assert.Equal(t, page, hooked)
}

func TestPageExtractor_FetchError(t *testing.T) {
	ex := NewPageExtractor(&stubSource{err: errors.New("timeout")}, ReferenceYear(2025, nil), nil)

	_, err := ex.Extract(context.Background())
	assert.ErrorContains(t, err, "timeout")
}

func TestPageExtractor_MissingContainer(t *testing.T) {
	ex := NewPageExtractor(&stubSource{page: []byte("<html></html>")}, ReferenceYear(2025, nil), nil)

	_, err := ex.Extract(context.Background())
	assert.ErrorIs(t, err, ErrNoSchedule)
}

func TestReferenceYear(t *testing.T) {
	assert.Equal(t, 2030, ReferenceYear(2030, nil)())

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, time.Now().In(tokyo).Year(), ReferenceYear(0, tokyo)())
}

func TestCSVExtractor(t *testing.T) {
	data := "day,time,count\n6/1,10:00,5\n６/２, 9:30 ,１２\n"

	events, err := NewCSVReaderExtractor(strings.NewReader(data), ReferenceYear(2024, nil)).Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []reconcile.Event{
		mustEvent(t, "2024-06-01", "10:00", 5),
		mustEvent(t, "2024-06-02", "09:30", 12),
	}, events)
}

func TestCSVExtractor_ColumnOrderAndBOM(t *testing.T) {
	data := "\ufeffcount,Day,TIME\n3,7/15,14:00\n"

	events, err := NewCSVReaderExtractor(strings.NewReader(data), ReferenceYear(2024, nil)).Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, mustEvent(t, "2024-07-15", "14:00", 3), events[0])
}

func TestCSVExtractor_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Missing Column", "day,time\n6/1,10:00\n"},
		{"Bad Day", "day,time,count\n6-1,10:00,5\n"},
		{"Bad Time", "day,time,count\n6/1,noon,5\n"},
		{"Bad Count", "day,time,count\n6/1,10:00,many\n"},
		{"Impossible Date", "day,time,count\n2/30,10:00,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVReaderExtractor(strings.NewReader(tt.data), ReferenceYear(2024, nil)).Extract(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestCSVExtractor_File(t *testing.T) {
	_, err := NewCSVExtractor("testdata/does-not-exist.csv", ReferenceYear(2024, nil)).Extract(context.Background())
	assert.Error(t, err)

	events, err := NewCSVExtractor("testdata/seminars.csv", ReferenceYear(2024, nil)).Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

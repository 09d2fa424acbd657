package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store used by the package tests.
type memStore struct {
	mu     sync.Mutex
	rows   map[string]PersistedEvent
	nextID int

	readErr    error
	failInsert map[Key]error
	failUpdate map[string]error
	failDelete map[string]error

	calls []string
}

func newMemStore(rows ...PersistedEvent) *memStore {
	s := &memStore{
		rows:       map[string]PersistedEvent{},
		failInsert: map[Key]error{},
		failUpdate: map[string]error{},
		failDelete: map[string]error{},
	}
	for _, r := range rows {
		s.rows[r.ID] = r
		var n int
		if _, err := fmt.Sscanf(r.ID, "%d", &n); err == nil && n > s.nextID {
			s.nextID = n
		}
	}
	return s
}

func (s *memStore) ReadAll(ctx context.Context) ([]PersistedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]PersistedEvent, 0, len(s.rows))
	for _, r := range s.rows {
		if !r.IsDeleted {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Insert(ctx context.Context, rec Record) (PersistedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "insert "+rec.Key().String())
	if err := s.failInsert[rec.Key()]; err != nil {
		return PersistedEvent{}, err
	}
	s.nextID++
	row := PersistedEvent{Event: rec.Event, ID: fmt.Sprintf("%d", s.nextID), ScrapedAt: rec.ScrapedAt}
	s.rows[row.ID] = row
	return row, nil
}

func (s *memStore) UpdateByID(ctx context.Context, id string, fields UpdateFields) (PersistedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "update "+id)
	if err := s.failUpdate[id]; err != nil {
		return PersistedEvent{}, err
	}
	row, ok := s.rows[id]
	if !ok {
		return PersistedEvent{}, errors.New("not found")
	}
	row.ParticipantCount = fields.ParticipantCount
	row.ScrapedAt = fields.ScrapedAt
	s.rows[id] = row
	return row, nil
}

func (s *memStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete "+id)
	if err := s.failDelete[id]; err != nil {
		return err
	}
	delete(s.rows, id)
	return nil
}

func (s *memStore) snapshot() Snapshot {
	rows, _ := s.ReadAll(context.Background())
	snap := Snapshot{}
	for _, r := range rows {
		snap[r.Key()] = r.Event
	}
	return snap
}

// softStore adds soft deletion to memStore.
type softStore struct {
	*memStore
}

func (s softStore) SoftDeleteByID(ctx context.Context, id string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "soft_delete "+id)
	if err := s.failDelete[id]; err != nil {
		return err
	}
	row := s.rows[id]
	row.IsDeleted = true
	row.DeletedAt = &deletedAt
	s.rows[id] = row
	return nil
}

func staticExtractor(events ...Event) Extractor {
	return ExtractorFunc(func(ctx context.Context) ([]Event, error) {
		return events, nil
	})
}

func ev(date, clock string, count int) Event {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	c, err := ParseClock(clock)
	if err != nil {
		panic(err)
	}
	return Event{Date: d, Time: c, ParticipantCount: count}
}

func row(id, date, clock string, count int) PersistedEvent {
	return PersistedEvent{Event: ev(date, clock, count), ID: id}
}

func key(date, clock string) Key {
	return ev(date, clock, 0).Key()
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
)

// EventStore is an in-memory append-only elevator event log.
// It is intended for use in tests and dev environments.
type EventStore struct {
	mu     sync.Mutex
	events []store.EventRecord
	ids    map[string]struct{}
}

func NewEventStore() *EventStore {
	return &EventStore{ids: make(map[string]struct{})}
}

func (s *EventStore) RecordEvent(_ context.Context, rec store.EventRecord) error {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Same replay idempotence as the sqlite store.
	if _, dup := s.ids[rec.ID]; dup {
		return nil
	}
	s.ids[rec.ID] = struct{}{}
	s.events = append(s.events, rec)
	return nil
}

func (s *EventStore) ListRange(_ context.Context, from, to time.Time) ([]store.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.EventRecord
	for _, e := range s.events {
		if !from.IsZero() && e.ObservedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.ObservedAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ObservedAt.Before(out[j].ObservedAt)
	})
	return out, nil
}

func (s *EventStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		if e.ObservedAt.Before(cutoff) {
			deleted++
			delete(s.ids, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *EventStore) Events() []store.EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.EventRecord, len(s.events))
	copy(out, s.events)
	return out
}

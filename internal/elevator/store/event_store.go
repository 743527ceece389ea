package store

import (
	"context"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

// EventRecord is one persisted elevator event. ObservedAt is the device's
// clock (the timestamp the statistics run on); ReceivedAt is the server's.
type EventRecord struct {
	ID         string
	DeviceID   string
	Type       types.EventType
	Floor      int // signed as reported
	ObservedAt time.Time
	ReceivedAt time.Time
	Source     string // "http" | "spool" | "kafka"
}

// Entry converts the record to the form the aggregator consumes.
func (r EventRecord) Entry() types.LogEntry {
	return types.LogEntry{
		ID:        r.ID,
		DeviceID:  r.DeviceID,
		Floor:     r.Floor,
		Type:      r.Type,
		Timestamp: r.ObservedAt,
	}
}

// EventStore persists elevator events as an append-only log.
type EventStore interface {
	// RecordEvent appends one event. Re-recording an ID that already
	// exists is a no-op, so log files can be replayed safely.
	RecordEvent(ctx context.Context, rec EventRecord) error

	// ListRange returns events with ObservedAt in [from, to), ordered by
	// ObservedAt ascending. A zero from or to leaves that side unbounded.
	ListRange(ctx context.Context, from, to time.Time) ([]EventRecord, error)

	// PruneOlderThan deletes events observed before cutoff and returns the
	// number of rows removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/rlongio/bridgetech-utility/internal/db"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

type EventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEventStore(db *sql.DB, writer *dbpkg.Worker) *EventStore {
	return &EventStore{db: db, writer: writer}
}

func (s *EventStore) RecordEvent(ctx context.Context, rec store.EventRecord) error {
	rec.DeviceID = strings.TrimSpace(rec.DeviceID)
	if rec.DeviceID == "" || rec.ID == "" {
		return fmt.Errorf("RecordEvent: device_id and event id are required")
	}

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	receivedMs := rec.ReceivedAt.UTC().UnixMilli()
	observedMs := rec.ObservedAt.UTC().UnixMilli()

	source := rec.Source
	if source == "" {
		source = "http"
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, rec.DeviceID, receivedMs); err != nil {
			return err
		}

		// OR IGNORE keeps replayed log files idempotent on event_id.
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO elevator_events(
  event_id, device_id, event_type, floor, observed_at_ms, received_at_ms, source
) VALUES (?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.DeviceID, string(rec.Type), rec.Floor,
			observedMs, receivedMs, source,
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}

		return nil
	})
}

func (s *EventStore) ListRange(ctx context.Context, from, to time.Time) ([]store.EventRecord, error) {
	q := `
SELECT event_id, device_id, event_type, floor, observed_at_ms, received_at_ms, source
FROM elevator_events`
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "observed_at_ms >= ?")
		args = append(args, from.UTC().UnixMilli())
	}
	if !to.IsZero() {
		conds = append(conds, "observed_at_ms < ?")
		args = append(args, to.UTC().UnixMilli())
	}
	if len(conds) > 0 {
		q += "\nWHERE " + strings.Join(conds, " AND ")
	}
	q += "\nORDER BY observed_at_ms ASC;"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("ListRange query: %w", err)
	}
	defer rows.Close()

	var out []store.EventRecord
	for rows.Next() {
		var (
			rec        store.EventRecord
			eventType  string
			observedMs int64
			receivedMs int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.DeviceID, &eventType, &rec.Floor,
			&observedMs, &receivedMs, &rec.Source,
		); err != nil {
			return nil, fmt.Errorf("ListRange scan: %w", err)
		}
		rec.Type = types.EventType(eventType)
		rec.ObservedAt = time.UnixMilli(observedMs).UTC()
		rec.ReceivedAt = time.UnixMilli(receivedMs).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRange rows: %w", err)
	}
	return out, nil
}

// PruneOlderThan deletes event rows observed before the given cutoff.
// Returns the number of rows deleted.
//
// Uses the idx_elevator_events_observed index for an efficient range scan.
func (s *EventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM elevator_events
WHERE observed_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}

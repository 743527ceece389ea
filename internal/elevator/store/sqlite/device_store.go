package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/rlongio/bridgetech-utility/internal/db"
)

type DeviceStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDeviceStore(db *sql.DB, writer *dbpkg.Worker) *DeviceStore {
	return &DeviceStore{db: db, writer: writer}
}

// IsKnown: a device counts as known when it is commissioned, enabled, and
// not revoked. Anything else still gets its telemetry stored, just flagged.
func (s *DeviceStore) IsKnown(ctx context.Context, deviceID string) (bool, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return false, nil
	}

	var enabled int
	var commissioned sql.NullInt64
	var revoked sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
SELECT enabled, commissioned_at_ms, revoked_at_ms
FROM devices
WHERE device_id = ?;
`, deviceID).Scan(&enabled, &commissioned, &revoked)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("IsKnown query: %w", err)
	}

	known := enabled == 1 && commissioned.Valid && !revoked.Valid
	return known, nil
}

// MarkSeen: ensure the device row exists (even if unknown) and bump last_seen.
func (s *DeviceStore) MarkSeen(ctx context.Context, deviceID string, _ bool, t time.Time) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, deviceID, ms); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE devices
SET last_seen_at_ms = ?,
    updated_at_ms   = ?
WHERE device_id = ?;
`, ms, ms, deviceID); err != nil {
			return fmt.Errorf("MarkSeen update device: %w", err)
		}

		return nil
	})
}

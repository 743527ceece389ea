package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SeedDevOptions struct {
	// Devices to pre-commission in dev so local ingest is not flagged unknown.
	KnownDevices []string
}

func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()

	devices := opt.KnownDevices
	if len(devices) == 0 {
		devices = []string{"elev-001"}
	}

	for _, id := range devices {
		if _, err := db.ExecContext(ctx, `
INSERT INTO devices(
  device_id, display_name, enabled, commissioned_at_ms,
  created_at_ms, updated_at_ms
) VALUES (?, ?, 1, ?, ?, ?)
ON CONFLICT(device_id) DO UPDATE SET
  enabled = 1,
  commissioned_at_ms = COALESCE(devices.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;
`, id, id, now, now, now); err != nil {
			return fmt.Errorf("seed device %s: %w", id, err)
		}
	}

	return nil
}

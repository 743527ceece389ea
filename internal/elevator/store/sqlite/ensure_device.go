package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ensureDevice guarantees a devices row exists for the given deviceID so
// that the foreign key from elevator_events is satisfied.
//
// New rows start disabled and uncommissioned — only an admin action (or the
// dev seeder) should set enabled=1 and commissioned_at_ms.
//
// Must be called inside an existing transaction.
func ensureDevice(ctx context.Context, tx *sql.Tx, deviceID string, nowMs int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO devices(
  device_id, enabled, created_at_ms, updated_at_ms
) VALUES (?, 0, ?, ?);
`, deviceID, nowMs, nowMs); err != nil {
		return fmt.Errorf("ensureDevice %s: %w", deviceID, err)
	}
	return nil
}

package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlitestore "github.com/rlongio/bridgetech-utility/internal/elevator/store/sqlite"
)

func TestDeviceStore_IsKnown_SeededDevice(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	seedDevice(t, conn, "elev-001")
	ds := sqlitestore.NewDeviceStore(conn, w)

	known, err := ds.IsKnown(context.Background(), "elev-001")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if !known {
		t.Error("expected seeded device to be known")
	}
}

func TestDeviceStore_IsKnown_MissingDevice(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)

	known, err := ds.IsKnown(context.Background(), "elev-missing")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if known {
		t.Error("expected missing device to be unknown")
	}
}

func TestDeviceStore_IsKnown_EmptyID(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)

	known, err := ds.IsKnown(context.Background(), "  ")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if known {
		t.Error("expected blank id to be unknown")
	}
}

func TestDeviceStore_MarkSeen_CreatesAndBumpsLastSeen(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)

	seen := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := ds.MarkSeen(context.Background(), "elev-new", false, seen); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	var lastSeen sql.NullInt64
	var enabled int
	err := conn.QueryRowContext(context.Background(),
		`SELECT last_seen_at_ms, enabled FROM devices WHERE device_id = ?`, "elev-new",
	).Scan(&lastSeen, &enabled)
	if err != nil {
		t.Fatalf("device lookup: %v", err)
	}
	if !lastSeen.Valid || lastSeen.Int64 != seen.UnixMilli() {
		t.Errorf("expected last_seen_at_ms=%d, got %+v", seen.UnixMilli(), lastSeen)
	}
	if enabled != 0 {
		t.Errorf("MarkSeen must not commission devices, got enabled=%d", enabled)
	}

	// A MarkSeen on an unknown device must not make it known.
	known, err := ds.IsKnown(context.Background(), "elev-new")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if known {
		t.Error("expected auto-created device to stay unknown")
	}
}

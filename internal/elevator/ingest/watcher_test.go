package ingest_test

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/ingest"
	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store/memory"
)

const sampleLog = `id,device_id,data,type,date
1,elev-001,3,button_call,2015-01-01 09:00:00
2,elev-001,3,door_open,2015-01-01 09:02:30
`

func newSpoolFixture(t *testing.T) (string, *ingest.Watcher, *memory.EventStore) {
	t.Helper()

	dir := t.TempDir()
	deviceStore := memory.NewDeviceStore([]string{"elev-001"})
	registry := service.NewDeviceRegistry(deviceStore)
	eventStore := memory.NewEventStore()
	svc := service.NewIngestService(registry, eventStore)
	w := ingest.NewWatcher(dir, svc, log.New(io.Discard, "", 0))
	return dir, w, eventStore
}

// waitForEvents polls until the store holds want events or the deadline hits.
func waitForEvents(t *testing.T, es *memory.EventStore, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(es.Events()) >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, len(es.Events()))
}

func TestWatcher_DrainsExistingFiles(t *testing.T) {
	dir, w, es := newSpoolFixture(t)

	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write spool file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	waitForEvents(t, es, 2)

	// The processed file is renamed out of the way.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(path + ".done"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for export.csv.done")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	dir, w, es := newSpoolFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watcher a moment to register before dropping the file.
	time.Sleep(100 * time.Millisecond)

	// Simulate an atomic drop: write elsewhere, rename into the spool.
	tmp := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(tmp, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, "export.csv")); err != nil {
		t.Fatalf("rename into spool: %v", err)
	}

	waitForEvents(t, es, 2)
}

func TestWatcher_SkipsMalformedFileAsBatch(t *testing.T) {
	dir, w, es := newSpoolFixture(t)

	bad := strings.Replace(sampleLog, "3,button_call", "three,button_call", 1)
	if err := os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write spool file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.csv"), []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write spool file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	waitForEvents(t, es, 2)

	// Only good.csv contributed; the malformed file was skipped whole.
	for _, ev := range es.Events() {
		if ev.Floor != 3 {
			t.Errorf("unexpected event from malformed file: %+v", ev)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.csv")); err != nil {
		t.Error("malformed file should stay in the spool for inspection")
	}
}

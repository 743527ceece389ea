package service_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store/memory"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestEventPruner_DisabledWhenRetentionZero(t *testing.T) {
	es := memory.NewEventStore()
	pruner := service.NewEventPruner(es, service.PrunerConfig{
		RetentionDays: 0,
		IntervalHours: 1,
	}, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pruner.Start(ctx)
	// Stop should return immediately without error.
	pruner.Stop()
}

func TestEventPruner_PrunesOldEvents(t *testing.T) {
	es := memory.NewEventStore()
	ctx := context.Background()

	old := store.EventRecord{
		ID: "old", DeviceID: "elev-001", Type: types.EventTypeButtonCall,
		Floor: 1, ObservedAt: time.Now().UTC().AddDate(0, 0, -40),
	}
	recent := store.EventRecord{
		ID: "recent", DeviceID: "elev-001", Type: types.EventTypeButtonCall,
		Floor: 1, ObservedAt: time.Now().UTC().AddDate(0, 0, -1),
	}
	for _, rec := range []store.EventRecord{old, recent} {
		if err := es.RecordEvent(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.ID, err)
		}
	}

	// Prune directly via the store (same operation the pruner calls).
	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	deleted, err := es.PruneOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	events := es.Events()
	if len(events) != 1 || events[0].ID != "recent" {
		t.Errorf("expected only the recent event to survive, got %+v", events)
	}
}

func TestEventPruner_StopIsIdempotent(t *testing.T) {
	es := memory.NewEventStore()
	pruner := service.NewEventPruner(es, service.PrunerConfig{
		RetentionDays: 30,
		IntervalHours: 1,
	}, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	pruner.Start(ctx)

	cancel()
	// Multiple stops should not panic.
	pruner.Stop()
	pruner.Stop()
}

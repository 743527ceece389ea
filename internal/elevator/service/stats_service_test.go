package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store/memory"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

func seedEvents(t *testing.T, es *memory.EventStore, recs ...store.EventRecord) {
	t.Helper()
	for _, rec := range recs {
		if err := es.RecordEvent(context.Background(), rec); err != nil {
			t.Fatalf("seed event %s: %v", rec.ID, err)
		}
	}
}

func ev(id string, typ types.EventType, floor int, observed time.Time) store.EventRecord {
	return store.EventRecord{
		ID: id, DeviceID: "elev-001", Type: typ, Floor: floor,
		ObservedAt: observed, ReceivedAt: observed, Source: "http",
	}
}

func TestDaily_AggregatesStoredEvents(t *testing.T) {
	es := memory.NewEventStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedEvents(t, es,
		ev("1", types.EventTypeButtonCall, 3, base),
		ev("2", types.EventTypeDoorOpen, 3, base.Add(150*time.Second)),
	)

	svc := service.NewStatsService(es, 0)
	days, err := svc.Daily(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Date != "2026-03-10" {
		t.Errorf("expected 2026-03-10, got %s", days[0].Date)
	}
	want := 2*time.Minute + 30*time.Second
	if days[0].Average != want || days[0].Median != want {
		t.Errorf("expected avg=median=%s, got avg=%s median=%s",
			want, days[0].Average, days[0].Median)
	}
}

func TestDaily_RangeBoundsApply(t *testing.T) {
	es := memory.NewEventStore()
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	seedEvents(t, es,
		ev("1", types.EventTypeButtonCall, 1, day1),
		ev("2", types.EventTypeDoorOpen, 1, day1.Add(time.Minute)),
		ev("3", types.EventTypeButtonCall, 1, day2),
		ev("4", types.EventTypeDoorOpen, 1, day2.Add(time.Minute)),
	)

	svc := service.NewStatsService(es, 0)
	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	days, err := svc.Daily(context.Background(), from, time.Time{})
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	if len(days) != 1 {
		t.Fatalf("expected 1 day in range, got %d", len(days))
	}
	if days[0].Date != "2026-03-11" {
		t.Errorf("expected 2026-03-11, got %s", days[0].Date)
	}
}

func TestDaily_CustomWindowApplies(t *testing.T) {
	es := memory.NewEventStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedEvents(t, es,
		ev("1", types.EventTypeButtonCall, 3, base),
		ev("2", types.EventTypeDoorOpen, 3, base.Add(5*time.Minute)),
	)

	// A 2-minute window makes the 5-minute wait anomalous.
	svc := service.NewStatsService(es, 2*time.Minute)
	days, err := svc.Daily(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no days under a 2m window, got %d", len(days))
	}
}

func TestDaily_NoEvents_EmptyResult(t *testing.T) {
	svc := service.NewStatsService(memory.NewEventStore(), 0)
	days, err := svc.Daily(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
}

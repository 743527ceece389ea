package service

import (
	"context"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
	"github.com/rlongio/bridgetech-utility/internal/elevator/waitstats"
)

// StatsService runs the wait-time aggregation over stored events.
type StatsService struct {
	events store.EventStore
	window time.Duration
}

// NewStatsService creates a stats service. A non-positive window selects
// waitstats.DefaultAnomalyWindow.
func NewStatsService(es store.EventStore, window time.Duration) *StatsService {
	if window <= 0 {
		window = waitstats.DefaultAnomalyWindow
	}
	return &StatsService{events: es, window: window}
}

// Daily computes per-day average/median wait times for events observed in
// [from, to). Zero bounds leave that side open.
func (s *StatsService) Daily(ctx context.Context, from, to time.Time) ([]waitstats.DayStat, error) {
	recs, err := s.events.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]types.LogEntry, len(recs))
	for i, r := range recs {
		entries[i] = r.Entry()
	}
	return waitstats.Compute(entries, s.window)
}

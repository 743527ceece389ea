// Package waitstats computes per-day elevator wait-time statistics from a
// log of button_call and door_open events.
//
// A wait is the span between the first unresolved button_call for a floor
// and the door_open that resolves it. Calls left unresolved for longer than
// the anomaly window are considered anomalous and never produce a sample.
package waitstats

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

// DefaultAnomalyWindow is how long a call may wait for its door_open before
// it is written off as anomalous. A wait of exactly the window is still
// valid; only strictly longer waits are discarded.
const DefaultAnomalyWindow = 10 * time.Minute

const dateLayout = "2006-01-02"

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingTimestamp = errors.New("missing timestamp")
)

// DayStat is the finalized aggregate for one calendar day.
type DayStat struct {
	Date    string // ISO calendar date, e.g. "2015-01-01"
	Average time.Duration
	Median  time.Duration
	Samples int
}

// Compute aggregates entries into per-day average and median wait times.
// The input order does not matter; entries are sorted by timestamp before
// the scan. Days without a single valid sample are omitted from the result,
// which is sorted by date ascending.
//
// A non-positive window selects DefaultAnomalyWindow.
//
// Compute is a pure function: it owns all intermediate state and never
// modifies its input.
func Compute(entries []types.LogEntry, window time.Duration) ([]DayStat, error) {
	if window <= 0 {
		window = DefaultAnomalyWindow
	}

	evs := make([]types.LogEntry, len(entries))
	copy(evs, entries)

	for i, e := range evs {
		if !e.Type.Valid() {
			return nil, fmt.Errorf("entry %d (id=%q): %w: %q", i, e.ID, ErrUnknownEventType, string(e.Type))
		}
		if e.Timestamp.IsZero() {
			return nil, fmt.Errorf("entry %d (id=%q): %w", i, e.ID, ErrMissingTimestamp)
		}
	}

	sortEntries(evs)

	// pending holds, per physical floor, the timestamp of the first
	// unresolved button_call since the floor was last resolved or expired.
	pending := make(map[int]time.Time)
	samples := make(map[string][]time.Duration)

	for _, e := range evs {
		expireStale(pending, e.Timestamp, window)

		floor := absFloor(e.Floor)
		switch e.Type {
		case types.EventTypeButtonCall:
			// Repeat presses before resolution are ignored; the wait is
			// timed from the first call.
			if _, ok := pending[floor]; !ok {
				pending[floor] = e.Timestamp
			}

		case types.EventTypeDoorOpen:
			called, ok := pending[floor]
			if !ok {
				continue // nothing to resolve
			}
			delete(pending, floor)

			wait := e.Timestamp.Sub(called)
			if wait > window {
				continue // anomalous, no sample
			}
			// Attributed to the call's day, not the resolution's.
			day := called.Format(dateLayout)
			samples[day] = append(samples[day], wait)
		}
	}

	// Pending calls that survive the scan were never resolved; they do not
	// contribute samples.

	out := make([]DayStat, 0, len(samples))
	for day, waits := range samples {
		out = append(out, DayStat{
			Date:    day,
			Average: mean(waits),
			Median:  median(waits),
			Samples: len(waits),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// sortEntries orders events by timestamp ascending. At equal timestamps
// door_open sorts before button_call (an opening resolves prior state before
// a simultaneous new call registers), then floor, then ID, so the scan is
// deterministic for any input order.
func sortEntries(evs []types.LogEntry) {
	sort.SliceStable(evs, func(i, j int) bool {
		a, b := evs[i], evs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Type != b.Type {
			return a.Type == types.EventTypeDoorOpen
		}
		if af, bf := absFloor(a.Floor), absFloor(b.Floor); af != bf {
			return af < bf
		}
		return a.ID < b.ID
	})
}

// expireStale drops pending calls that are already more than the anomaly
// window older than now. A later button_call for the same floor may then
// re-arm it as a fresh pending call.
func expireStale(pending map[int]time.Time, now time.Time, window time.Duration) {
	for floor, called := range pending {
		if now.Sub(called) > window {
			delete(pending, floor)
		}
	}
}

// absFloor normalizes a signed floor (sign encodes travel direction) to the
// physical floor number.
func absFloor(floor int) int {
	if floor < 0 {
		return -floor
	}
	return floor
}

func mean(waits []time.Duration) time.Duration {
	var sum time.Duration
	for _, w := range waits {
		sum += w
	}
	return sum / time.Duration(len(waits))
}

// median returns the middle of the sorted samples; for an even count, the
// mean of the two central values.
func median(waits []time.Duration) time.Duration {
	sorted := make([]time.Duration, len(waits))
	copy(sorted, waits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Package logfile reads elevator event logs from the delimited export
// format the controllers produce: CSV rows of id, device_id, data (the
// signed floor), type, and date.
package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

// Accepted timestamp layouts, tried in order. The controller export writes
// "2006-01-02 15:04:05"; RFC3339 covers re-exports from other tooling.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var ErrMissingColumn = errors.New("missing required column")

// ParseError identifies the offending row when a log file cannot be read.
// Any malformed row fails the whole batch; no partial results are returned.
type ParseError struct {
	Line  int // 1-based, header included
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("log row %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("log row %d: field %q: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseTimestamp parses a timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ReadFile reads a whole CSV log file into entries.
func ReadFile(path string) ([]types.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV rows into entries. The first row must be a header naming
// at least the data, type, and date columns; id and device_id are optional.
func Read(r io.Reader) ([]types.LogEntry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"data", "type", "date"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	var entries []types.LogEntry
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}

		entry, perr := parseRecord(cols, record, line)
		if perr != nil {
			return nil, perr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRecord(cols map[string]int, record []string, line int) (types.LogEntry, *ParseError) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	floor, err := strconv.Atoi(field("data"))
	if err != nil {
		return types.LogEntry{}, &ParseError{Line: line, Field: "data",
			Err: fmt.Errorf("floor is not an integer: %q", field("data"))}
	}

	typ := types.EventType(field("type"))
	if !typ.Valid() {
		return types.LogEntry{}, &ParseError{Line: line, Field: "type",
			Err: fmt.Errorf("unknown event type %q", string(typ))}
	}

	ts, err := ParseTimestamp(field("date"))
	if err != nil {
		return types.LogEntry{}, &ParseError{Line: line, Field: "date", Err: err}
	}

	return types.LogEntry{
		ID:        field("id"),
		DeviceID:  field("device_id"),
		Floor:     floor,
		Type:      typ,
		Timestamp: ts,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rlongio/bridgetech-utility/internal/elevator/logfile"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

var (
	ErrInvalidDeviceID  = errors.New("device_id is required")
	ErrInvalidEventType = errors.New("type must be button_call or door_open")
	ErrInvalidTimestamp = errors.New("timestamp is missing or unparseable")
)

// IngestService validates and persists incoming elevator events, from
// whichever surface they arrive on (HTTP, spool files, Kafka).
type IngestService struct {
	registry *DeviceRegistry
	events   store.EventStore
}

func NewIngestService(reg *DeviceRegistry, es store.EventStore) *IngestService {
	return &IngestService{registry: reg, events: es}
}

// Record ingests one event from a request-shaped surface (HTTP, Kafka).
// Events from uncommissioned devices are stored anyway and flagged
// known=false; telemetry is not dropped just because commissioning lags
// the rollout.
func (s *IngestService) Record(ctx context.Context, req types.IngestRequest, source string) (types.IngestResponse, error) {
	now := time.Now().UTC()
	if source == "" {
		source = "http"
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return types.IngestResponse{}, ErrInvalidDeviceID
	}

	typ := types.EventType(strings.TrimSpace(req.Type))
	if !typ.Valid() {
		return types.IngestResponse{}, fmt.Errorf("%w: got %q", ErrInvalidEventType, req.Type)
	}

	observed, err := logfile.ParseTimestamp(req.Timestamp)
	if err != nil {
		return types.IngestResponse{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, req.Timestamp)
	}

	known, err := s.registry.IsKnown(ctx, deviceID)
	if err != nil {
		return types.IngestResponse{}, err
	}
	_ = s.registry.NoteSeen(ctx, deviceID, known)

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.New().String()
	}

	rec := store.EventRecord{
		ID:         id,
		DeviceID:   deviceID,
		Type:       typ,
		Floor:      req.Floor,
		ObservedAt: observed.UTC(),
		ReceivedAt: now,
		Source:     source,
	}
	if err := s.events.RecordEvent(ctx, rec); err != nil {
		return types.IngestResponse{}, err
	}

	return types.IngestResponse{
		OK:         true,
		Known:      known,
		ID:         id,
		DeviceID:   deviceID,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

// RecordEntries ingests a batch of already-parsed entries (the spool and
// Kafka paths). Entries without an ID get one assigned; entries without a
// device are rejected so a mangled file cannot pollute the log.
func (s *IngestService) RecordEntries(ctx context.Context, entries []types.LogEntry, source string) error {
	now := time.Now().UTC()

	seen := make(map[string]bool)
	for i, e := range entries {
		deviceID := strings.TrimSpace(e.DeviceID)
		if deviceID == "" {
			return fmt.Errorf("entry %d: %w", i, ErrInvalidDeviceID)
		}
		if !e.Type.Valid() {
			return fmt.Errorf("entry %d: %w: got %q", i, ErrInvalidEventType, string(e.Type))
		}
		if e.Timestamp.IsZero() {
			return fmt.Errorf("entry %d: %w", i, ErrInvalidTimestamp)
		}

		if _, ok := seen[deviceID]; !ok {
			known, err := s.registry.IsKnown(ctx, deviceID)
			if err != nil {
				return err
			}
			_ = s.registry.NoteSeen(ctx, deviceID, known)
			seen[deviceID] = known
		}

		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = uuid.New().String()
		} else {
			// File-local numeric IDs collide across devices; scope them.
			id = deviceID + ":" + id
		}

		rec := store.EventRecord{
			ID:         id,
			DeviceID:   deviceID,
			Type:       e.Type,
			Floor:      e.Floor,
			ObservedAt: e.Timestamp.UTC(),
			ReceivedAt: now,
			Source:     source,
		}
		if err := s.events.RecordEvent(ctx, rec); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

package store

import (
	"context"
	"time"
)

type DeviceRecord struct {
	DeviceID string
	Known    bool
	LastSeen time.Time
}

type DeviceStore interface {
	IsKnown(ctx context.Context, deviceID string) (bool, error)
	MarkSeen(ctx context.Context, deviceID string, known bool, t time.Time) error
}

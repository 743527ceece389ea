package service

import (
	"context"
	"strings"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/store"
)

type DeviceRegistry struct {
	store store.DeviceStore
}

func NewDeviceRegistry(st store.DeviceStore) *DeviceRegistry {
	return &DeviceRegistry{store: st}
}

func (r *DeviceRegistry) IsKnown(ctx context.Context, deviceID string) (bool, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return false, nil
	}
	return r.store.IsKnown(ctx, deviceID)
}

func (r *DeviceRegistry) NoteSeen(ctx context.Context, deviceID string, known bool) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil
	}
	return r.store.MarkSeen(ctx, deviceID, known, time.Now().UTC())
}

package types

import "time"

// EventType discriminates the two kinds of elevator log events.
type EventType string

const (
	EventTypeButtonCall EventType = "button_call"
	EventTypeDoorOpen   EventType = "door_open"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return t == EventTypeButtonCall || t == EventTypeDoorOpen
}

// LogEntry is one normalized elevator event. Floor keeps the sign the
// device reported (button_call encodes direction in the sign); consumers
// that key on the physical floor take the absolute value.
type LogEntry struct {
	ID        string
	DeviceID  string
	Floor     int
	Type      EventType
	Timestamp time.Time
}

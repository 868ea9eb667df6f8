package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change observed on a key.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored key, typically made out-of-band
// (another process, a manual edit of the data directory).
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s @ %s", e.Type, e.Key, time.Unix(e.Timestamp, 0).Format(time.RFC3339))
}

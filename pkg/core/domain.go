// Package core holds the notes domain: the Note entity, the Storage port the
// store persists through, and the Service that owns the collection.
package core

// EventType represents the type of change observed on the storage.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored key made outside this process
// (or by another Service sharing the same storage).
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}

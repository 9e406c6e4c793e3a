package ports

import "time"

// WindowStore keeps the retained event timestamps per key.
// Implementations must be safe for concurrent use.
type WindowStore interface {
	// Record appends now to the key's history and returns a copy of it.
	Record(key string, now time.Time) []time.Time
	Get(key string) ([]time.Time, bool)
	Remove(key string)
	Replace(key string, stamps []time.Time, deadline time.Time)
	Len() int
}

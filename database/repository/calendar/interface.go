// File: database/repository/calendar/interface.go
package calendarRepo

import (
	"context"
	"fmt"
)

// SlotStore is the availability calendar, keyed by (date, hour). Dates are
// ISO "2006-01-02" strings, hours are block start hours of day.
type SlotStore interface {
	// IsFree reports whether no booking payload is recorded for the key.
	IsFree(ctx context.Context, date string, hour int) (bool, error)
	// Reserve records the payload for the key and returns the canonical slot
	// key. It overwrites unconditionally: there is no conflict detection and
	// the last writer wins. A slot once reserved is never implicitly freed.
	Reserve(ctx context.Context, date string, hour int, payload map[string]any) (string, error)
}

// SlotKey returns the canonical "{date}_{hour:02d}" key for a slot.
func SlotKey(date string, hour int) string {
	return fmt.Sprintf("%s_%02d", date, hour)
}

package model

import "time"

// Now returns the current UTC time truncated to the microsecond precision
// that timestamptz columns store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

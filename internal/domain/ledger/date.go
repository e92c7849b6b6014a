package ledger

import (
	"fmt"
	"time"
)

// DateLayout is the date key format.
const DateLayout = "2006-01-02"

// DateKey returns the calendar day of t in loc. Time of day and the zone t
// was created in are discarded, so two instants on the same local day map to
// the same key. A nil loc uses t's own zone.
func DateKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

// ParseDate parses a date key into midnight of that day in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

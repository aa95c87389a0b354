// api/metrics/timerange.go
package metrics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned for a range selector outside the fixed set.
var ErrInvalidRange = errors.New("invalid time range")

// TimeRange bounds the event/cost records a request considers.
// A zero Start or End means unbounded on that side.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange maps a request range selector ("24h", "7d", "30d", "all" or
// empty for all history) to a concrete window anchored at now.
func ParseRange(selector string, now time.Time) (TimeRange, error) {
	switch selector {
	case "", "all":
		return TimeRange{}, nil
	case "24h":
		return TimeRange{Start: now.Add(-24 * time.Hour), End: now}, nil
	case "7d":
		return TimeRange{Start: now.Add(-7 * 24 * time.Hour), End: now}, nil
	case "30d":
		return TimeRange{Start: now.Add(-30 * 24 * time.Hour), End: now}, nil
	default:
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, selector)
	}
}

// Contains reports whether t falls inside the range (bounds inclusive).
func (r TimeRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

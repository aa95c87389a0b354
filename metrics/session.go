// api/metrics/session.go
package metrics

import (
	"sort"
	"time"

	"scratchwin/api/models"
)

// DefaultSessionGap is the inactivity threshold that splits one user's
// event stream into sessions.
const DefaultSessionGap = 30 * time.Minute

// Session is a contiguous run of one user's events with no gap between
// consecutive events exceeding the inactivity threshold. Sessions are
// rebuilt from the event log on every request and never persisted.
type Session struct {
	UserID string
	Events []models.RawEvent
	Start  time.Time
	End    time.Time
}

// Duration returns End - Start. A single-event session has duration 0.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// BuildSessions partitions one user's events into sessions. A new session
// opens when the gap since the previous event is strictly greater than
// gap; a gap exactly equal to the threshold stays in the same session.
// The input is sorted defensively since the store does not guarantee
// per-user ordering.
func BuildSessions(userID string, events []models.RawEvent, gap time.Duration) []Session {
	if len(events) == 0 {
		return nil
	}
	if gap <= 0 {
		gap = DefaultSessionGap
	}

	sorted := make([]models.RawEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sessions []Session
	current := Session{
		UserID: userID,
		Events: []models.RawEvent{sorted[0]},
		Start:  sorted[0].Timestamp,
		End:    sorted[0].Timestamp,
	}
	for _, ev := range sorted[1:] {
		if ev.Timestamp.Sub(current.End) > gap {
			sessions = append(sessions, current)
			current = Session{
				UserID: userID,
				Events: []models.RawEvent{ev},
				Start:  ev.Timestamp,
				End:    ev.Timestamp,
			}
			continue
		}
		current.Events = append(current.Events, ev)
		current.End = ev.Timestamp
	}
	sessions = append(sessions, current)

	return sessions
}

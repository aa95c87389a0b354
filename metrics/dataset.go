// api/metrics/dataset.go
package metrics

import (
	"sort"
	"time"

	"scratchwin/api/models"
)

// dataset is the shared derived state for one aggregation request:
// range-filtered events sorted globally and per user, sessions, and
// first-touch attribution. Built once, read concurrently by the section
// computers, discarded with the request.
type dataset struct {
	events         []models.RawEvent
	byUser         map[string][]models.RawEvent
	userIDs        []string
	sessions       []Session
	sessionsByUser map[string][]Session
	attribution    map[string]Attribution
}

func newDataset(events []models.RawEvent, gap time.Duration) *dataset {
	ds := &dataset{
		events:         make([]models.RawEvent, len(events)),
		byUser:         make(map[string][]models.RawEvent),
		sessionsByUser: make(map[string][]Session),
		attribution:    make(map[string]Attribution),
	}
	copy(ds.events, events)
	sort.SliceStable(ds.events, func(i, j int) bool {
		return ds.events[i].Timestamp.Before(ds.events[j].Timestamp)
	})

	for _, ev := range ds.events {
		ds.byUser[ev.UserID] = append(ds.byUser[ev.UserID], ev)
	}
	ds.userIDs = make([]string, 0, len(ds.byUser))
	for id := range ds.byUser {
		ds.userIDs = append(ds.userIDs, id)
	}
	sort.Strings(ds.userIDs)

	for _, id := range ds.userIDs {
		userEvents := ds.byUser[id]
		sessions := BuildSessions(id, userEvents, gap)
		ds.sessionsByUser[id] = sessions
		ds.sessions = append(ds.sessions, sessions...)
		ds.attribution[id] = ResolveAttribution(userEvents)
	}
	sort.SliceStable(ds.sessions, func(i, j int) bool {
		return ds.sessions[i].Start.Before(ds.sessions[j].Start)
	})

	return ds
}

// firstProp returns the first non-empty value of one props field across a
// user's chronologically sorted events (first-touch, like attribution).
func firstProp(events []models.RawEvent, get func(models.EventProps) string) string {
	for _, ev := range events {
		if v := get(ev.Props); v != "" {
			return v
		}
	}
	return ""
}

func (ds *dataset) userDevice(userID string) string {
	return firstProp(ds.byUser[userID], func(p models.EventProps) string { return p.Device })
}

func (ds *dataset) userCountry(userID string) string {
	return firstProp(ds.byUser[userID], func(p models.EventProps) string { return p.CountryCode })
}

// api/metrics/users.go
package metrics

import (
	"sort"
	"time"
)

// topUsersLimit caps the per-user rollup table.
const topUsersLimit = 50

// UserRow is one user's rollup for the admin table. TopFunnelStep is the
// label of the highest-index catalogue step the user ever reached, not
// the chronologically last one.
type UserRow struct {
	UserID        string    `json:"userId"`
	Events        int       `json:"events"`
	Sessions      int       `json:"sessions"`
	FirstSeen     time.Time `json:"firstSeen"`
	LastSeen      time.Time `json:"lastSeen"`
	Channel       string    `json:"channel"`
	Device        string    `json:"device,omitempty"`
	Country       string    `json:"country,omitempty"`
	TopFunnelStep string    `json:"topFunnelStep,omitempty"`
}

type UsersResult struct {
	TotalUsers int       `json:"totalUsers"`
	Top        []UserRow `json:"top"`
}

func computeUsers(req *request) any {
	ds := req.ds
	rows := make([]UserRow, 0, len(ds.userIDs))
	for _, userID := range ds.userIDs {
		events := ds.byUser[userID]
		row := UserRow{
			UserID:    userID,
			Events:    len(events),
			Sessions:  len(ds.sessionsByUser[userID]),
			FirstSeen: events[0].Timestamp,
			LastSeen:  events[len(events)-1].Timestamp,
			Channel:   ds.attribution[userID].Channel,
			Device:    ds.userDevice(userID),
			Country:   ds.userCountry(userID),
		}
		maxStep := -1
		for _, ev := range events {
			if i := funnelStepIndex(ev); i > maxStep {
				maxStep = i
			}
		}
		if maxStep >= 0 {
			row.TopFunnelStep = funnelCatalogue[maxStep].Label
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Events != rows[j].Events {
			return rows[i].Events > rows[j].Events
		}
		return rows[i].UserID < rows[j].UserID
	})
	if len(rows) > topUsersLimit {
		rows = rows[:topUsersLimit]
	}

	return UsersResult{TotalUsers: len(ds.userIDs), Top: rows}
}

// api/metrics/devices.go
package metrics

import (
	"sort"

	"scratchwin/api/models"
)

// BreakdownItem is one category of a dimensional breakdown. Pct divides
// by the number of users with a known value for that dimension, so each
// list is self-consistent when requested alone.
type BreakdownItem struct {
	Name  string  `json:"name"`
	Users int     `json:"users"`
	Pct   float64 `json:"pct"`
}

type DevicesResult struct {
	Devices  []BreakdownItem `json:"devices"`
	Browsers []BreakdownItem `json:"browsers"`
	OSes     []BreakdownItem `json:"oses"`
	Screens  []BreakdownItem `json:"screens"`
}

func computeDevices(req *request) any {
	ds := req.ds
	return DevicesResult{
		Devices:  userBreakdown(ds, func(p models.EventProps) string { return p.Device }),
		Browsers: userBreakdown(ds, func(p models.EventProps) string { return p.Browser }),
		OSes:     userBreakdown(ds, func(p models.EventProps) string { return p.OS }),
		Screens:  userBreakdown(ds, func(p models.EventProps) string { return p.ScreenBucket }),
	}
}

// userBreakdown counts distinct users by the first-touch value of one
// props field. Users who never report the field are left out, matching
// the omit-empty-categories policy.
func userBreakdown(ds *dataset, get func(models.EventProps) string) []BreakdownItem {
	counts := make(map[string]int)
	total := 0
	for _, userID := range ds.userIDs {
		v := firstProp(ds.byUser[userID], get)
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}

	out := make([]BreakdownItem, 0, len(counts))
	for name, users := range counts {
		out = append(out, BreakdownItem{Name: name, Users: users, Pct: safePct(users, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Users != out[j].Users {
			return out[i].Users > out[j].Users
		}
		return out[i].Name < out[j].Name
	})
	return out
}

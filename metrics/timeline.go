// api/metrics/timeline.go
package metrics

import "time"

const timelineDays = 30

// DailyPoint counts distinct users and sessions for one UTC calendar day.
type DailyPoint struct {
	Date     string `json:"date"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// HourlyPoint counts events for one UTC hour of day across the range.
type HourlyPoint struct {
	Hour   int `json:"hour"`
	Events int `json:"events"`
}

type TimelineResult struct {
	Daily  []DailyPoint  `json:"daily"`
	Hourly []HourlyPoint `json:"hourly"`
}

// computeTimeline emits a dense daily series for the trailing 30 UTC
// calendar days (days without activity appear with zero counts so chart
// axes stay gap-free) and a 24-entry hour-of-day histogram over the
// whole range.
func computeTimeline(req *request) any {
	ds := req.ds

	windowEnd := dayStart(req.now)
	windowStart := windowEnd.AddDate(0, 0, -(timelineDays - 1))

	dailyUsers := make(map[string]map[string]bool, timelineDays)
	dailySessions := make(map[string]int, timelineDays)
	hourly := make([]HourlyPoint, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}

	for _, ev := range ds.events {
		ts := ev.Timestamp.UTC()
		hourly[ts.Hour()].Events++

		if ts.Before(windowStart) {
			continue
		}
		day := ts.Format("2006-01-02")
		if dailyUsers[day] == nil {
			dailyUsers[day] = make(map[string]bool)
		}
		dailyUsers[day][ev.UserID] = true
	}
	for _, s := range ds.sessions {
		ts := s.Start.UTC()
		if ts.Before(windowStart) {
			continue
		}
		dailySessions[ts.Format("2006-01-02")]++
	}

	daily := make([]DailyPoint, 0, timelineDays)
	for d := 0; d < timelineDays; d++ {
		day := windowStart.AddDate(0, 0, d).Format("2006-01-02")
		daily = append(daily, DailyPoint{
			Date:     day,
			Users:    len(dailyUsers[day]),
			Sessions: dailySessions[day],
		})
	}

	return TimelineResult{Daily: daily, Hourly: hourly}
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

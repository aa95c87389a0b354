// api/metrics/engagement.go
package metrics

import (
	"sort"
	"time"
)

// durationBuckets are the fixed human-readable session length ranges the
// dashboard histogram uses. Upper bounds are exclusive.
var durationBuckets = []struct {
	Label string
	Max   time.Duration
}{
	{"<10s", 10 * time.Second},
	{"10-30s", 30 * time.Second},
	{"30s-1m", time.Minute},
	{"1-3m", 3 * time.Minute},
	{"3-10m", 10 * time.Minute},
	{"10m+", 0}, // open-ended
}

type DurationBucket struct {
	Label    string  `json:"label"`
	Sessions int     `json:"sessions"`
	Pct      float64 `json:"pct"`
}

type EngagementResult struct {
	Buckets         []DurationBucket `json:"buckets"`
	BounceRatePct   float64          `json:"bounceRatePct"`
	AvgSessionMs    float64          `json:"avgSessionMs"`
	MedianSessionMs float64          `json:"medianSessionMs"`
	ReturnRatePct   float64          `json:"returnRatePct"`
}

func computeEngagement(req *request) any {
	ds := req.ds
	res := EngagementResult{}
	total := len(ds.sessions)
	if total == 0 {
		return res
	}

	bucketCounts := make([]int, len(durationBuckets))
	durations := make([]float64, 0, total)
	bounces := 0
	for _, s := range ds.sessions {
		d := s.Duration()
		bucketCounts[bucketIndex(d)]++
		durations = append(durations, float64(d.Milliseconds()))
		if len(s.Events) == 1 {
			bounces++
		}
	}

	for i, b := range durationBuckets {
		if bucketCounts[i] == 0 {
			continue
		}
		res.Buckets = append(res.Buckets, DurationBucket{
			Label:    b.Label,
			Sessions: bucketCounts[i],
			Pct:      safePct(bucketCounts[i], total),
		})
	}

	res.BounceRatePct = safePct(bounces, total)

	var sum float64
	for _, d := range durations {
		sum += d
	}
	res.AvgSessionMs = sum / float64(total)

	sort.Float64s(durations)
	mid := total / 2
	if total%2 == 1 {
		res.MedianSessionMs = durations[mid]
	} else {
		res.MedianSessionMs = (durations[mid-1] + durations[mid]) / 2
	}

	returning := 0
	for _, userID := range ds.userIDs {
		if len(ds.sessionsByUser[userID]) >= 2 {
			returning++
		}
	}
	res.ReturnRatePct = safePct(returning, len(ds.userIDs))

	return res
}

func bucketIndex(d time.Duration) int {
	for i, b := range durationBuckets {
		if b.Max > 0 && d < b.Max {
			return i
		}
	}
	return len(durationBuckets) - 1
}

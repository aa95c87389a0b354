// api/metrics/funnel.go
package metrics

import (
	"sort"
	"time"
)

// FunnelStepStat is one catalogue step with progression metrics.
// PctOfTotal is relative to the first step's users; DropOffPct compares
// against the immediately preceding step and is 0 for the first step.
type FunnelStepStat struct {
	Name            string  `json:"name"`
	Label           string  `json:"label"`
	Users           int     `json:"users"`
	PctOfTotal      float64 `json:"pctOfTotal"`
	DropOffPct      float64 `json:"dropOffPct"`
	AvgTimeToNextMs float64 `json:"avgTimeToNextMs"`
}

// FunnelSegment is landing-to-purchase conversion for one channel or
// device partition.
type FunnelSegment struct {
	Key           string  `json:"key"`
	Landing       int     `json:"landing"`
	Checkout      int     `json:"checkout"`
	ConversionPct float64 `json:"conversionPct"`
}

type FunnelResult struct {
	Steps     []FunnelStepStat `json:"steps"`
	ByChannel []FunnelSegment  `json:"byChannel"`
	ByDevice  []FunnelSegment  `json:"byDevice"`
}

func computeFunnel(req *request) any {
	ds := req.ds
	steps := len(funnelCatalogue)

	// First occurrence of each step per user. Duplicate events only ever
	// move a timestamp earlier, never count a user twice.
	firstReach := make(map[string][]time.Time, len(ds.userIDs))
	for _, userID := range ds.userIDs {
		reach := make([]time.Time, steps)
		for _, ev := range ds.byUser[userID] {
			i := funnelStepIndex(ev)
			if i < 0 {
				continue
			}
			if reach[i].IsZero() || ev.Timestamp.Before(reach[i]) {
				reach[i] = ev.Timestamp
			}
		}
		firstReach[userID] = reach
	}

	usersAt := make([]int, steps)
	for _, reach := range firstReach {
		for i, t := range reach {
			if !t.IsZero() {
				usersAt[i]++
			}
		}
	}

	result := FunnelResult{Steps: make([]FunnelStepStat, 0, steps)}
	for i, step := range funnelCatalogue {
		stat := FunnelStepStat{
			Name:       step.Name,
			Label:      step.Label,
			Users:      usersAt[i],
			PctOfTotal: safePct(usersAt[i], usersAt[0]),
		}
		if i > 0 && usersAt[i-1] > 0 {
			stat.DropOffPct = clampPct(100 - safePct(usersAt[i], usersAt[i-1]))
		}
		if i < steps-1 {
			stat.AvgTimeToNextMs = avgStepDeltaMs(firstReach, i)
		}
		result.Steps = append(result.Steps, stat)
	}

	result.ByChannel = funnelSegments(firstReach, func(userID string) string {
		return ds.attribution[userID].Channel
	})
	result.ByDevice = funnelSegments(firstReach, func(userID string) string {
		if d := ds.userDevice(userID); d != "" {
			return d
		}
		return "unknown"
	})

	return result
}

// avgStepDeltaMs averages, over users who reached both step i and step
// i+1, the time between their first occurrence of each. Zero when no
// user completed both.
func avgStepDeltaMs(firstReach map[string][]time.Time, i int) float64 {
	var sum float64
	var n int
	for _, reach := range firstReach {
		if reach[i].IsZero() || reach[i+1].IsZero() {
			continue
		}
		sum += float64(reach[i+1].Sub(reach[i]).Milliseconds())
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func funnelSegments(firstReach map[string][]time.Time, keyFor func(string) string) []FunnelSegment {
	last := len(funnelCatalogue) - 1
	byKey := make(map[string]*FunnelSegment)
	for userID, reach := range firstReach {
		key := keyFor(userID)
		seg, ok := byKey[key]
		if !ok {
			seg = &FunnelSegment{Key: key}
			byKey[key] = seg
		}
		if !reach[0].IsZero() {
			seg.Landing++
		}
		if !reach[last].IsZero() {
			seg.Checkout++
		}
	}

	out := make([]FunnelSegment, 0, len(byKey))
	for _, seg := range byKey {
		if seg.Landing == 0 && seg.Checkout == 0 {
			continue
		}
		seg.ConversionPct = safePct(seg.Checkout, seg.Landing)
		out = append(out, *seg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Landing != out[j].Landing {
			return out[i].Landing > out[j].Landing
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// safePct is users/total*100 with a zero denominator yielding 0 rather
// than a fault.
func safePct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

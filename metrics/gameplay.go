// api/metrics/gameplay.go
package metrics

import "scratchwin/api/models"

type GameplayResult struct {
	RoundsStarted            int            `json:"roundsStarted"`
	RoundsFinished           int            `json:"roundsFinished"`
	TierCounts               map[string]int `json:"tierCounts"`
	AIUsageRatePct           float64        `json:"aiUsageRatePct"`
	WinRatePct               float64        `json:"winRatePct"`
	PlotTwistRatePct         float64        `json:"plotTwistRatePct"`
	ScratchCompletionRatePct float64        `json:"scratchCompletionRatePct"`
	AvgRevealSeconds         float64        `json:"avgRevealSeconds"`
}

var knownTiers = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// computeGameplay summarizes round outcomes. A round's result props
// (won, plotTwist, aiUsed) ride on its game_finish event; the tier rides
// on game_start. Scratch completion compares reveals against started
// rounds.
func computeGameplay(req *request) any {
	res := GameplayResult{TierCounts: make(map[string]int)}

	reveals := 0
	aiRounds, wins, twists := 0, 0, 0
	var revealSum float64
	revealSamples := 0

	for _, ev := range req.ds.events {
		switch ev.Type {
		case models.EventGameStart:
			res.RoundsStarted++
			if knownTiers[ev.Props.Tier] {
				res.TierCounts[ev.Props.Tier]++
			}
		case models.EventGameFinish:
			res.RoundsFinished++
			if ev.Props.AIUsed {
				aiRounds++
			}
			if ev.Props.Won {
				wins++
			}
			if ev.Props.PlotTwist {
				twists++
			}
		case models.EventScratchReveal:
			reveals++
			if ev.Props.RevealSeconds > 0 {
				revealSum += ev.Props.RevealSeconds
				revealSamples++
			}
		}
	}

	res.AIUsageRatePct = safePct(aiRounds, res.RoundsFinished)
	res.WinRatePct = safePct(wins, res.RoundsFinished)
	res.PlotTwistRatePct = safePct(twists, res.RoundsFinished)
	res.ScratchCompletionRatePct = clampPct(safePct(reveals, res.RoundsStarted))
	if revealSamples > 0 {
		res.AvgRevealSeconds = revealSum / float64(revealSamples)
	}

	return res
}

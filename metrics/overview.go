// api/metrics/overview.go
package metrics

import "scratchwin/api/models"

// OverviewResult is the KPI card row at the top of the dashboard.
type OverviewResult struct {
	TotalUsers           int     `json:"totalUsers"`
	TotalSessions        int     `json:"totalSessions"`
	TotalEvents          int     `json:"totalEvents"`
	GamesStarted         int     `json:"gamesStarted"`
	GamesFinished        int     `json:"gamesFinished"`
	CheckoutViews        int     `json:"checkoutViews"`
	Purchases            int     `json:"purchases"`
	ConversionPct        float64 `json:"conversionPct"`
	AvgSessionDurationMs float64 `json:"avgSessionDurationMs"`
}

func computeOverview(req *request) any {
	ds := req.ds
	res := OverviewResult{
		TotalUsers:    len(ds.userIDs),
		TotalSessions: len(ds.sessions),
		TotalEvents:   len(ds.events),
	}

	buyers := make(map[string]bool)
	for _, ev := range ds.events {
		switch ev.Type {
		case models.EventGameStart:
			res.GamesStarted++
		case models.EventGameFinish:
			res.GamesFinished++
		case models.EventCheckoutView:
			res.CheckoutViews++
		case models.EventCheckoutComplete:
			res.Purchases++
			buyers[ev.UserID] = true
		}
	}
	res.ConversionPct = safePct(len(buyers), len(ds.userIDs))

	if len(ds.sessions) > 0 {
		var totalMs float64
		for _, s := range ds.sessions {
			totalMs += float64(s.Duration().Milliseconds())
		}
		res.AvgSessionDurationMs = totalMs / float64(len(ds.sessions))
	}

	return res
}

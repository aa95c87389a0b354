// api/metrics/apicosts.go
package metrics

import (
	"time"

	"scratchwin/api/models"
)

// Pricing converts logged token counts to USD. Cost is never stored with
// the call records, so a price change only requires new configuration,
// not a log rewrite.
type Pricing struct {
	InputUSDPerMTok  float64
	OutputUSDPerMTok float64
}

// DefaultPricing is the documented rate: $0.15 per 1M input tokens,
// $0.60 per 1M output tokens.
var DefaultPricing = Pricing{InputUSDPerMTok: 0.15, OutputUSDPerMTok: 0.60}

// Cost derives the USD cost of one call record.
func (p Pricing) Cost(rec models.APICallRecord) float64 {
	return float64(rec.InputTokens)/1_000_000*p.InputUSDPerMTok +
		float64(rec.OutputTokens)/1_000_000*p.OutputUSDPerMTok
}

// DailyCost is the derived spend for one UTC calendar day.
type DailyCost struct {
	Date    string  `json:"date"`
	CostUSD float64 `json:"costUSD"`
}

type APICostsResult struct {
	TotalCostUSD   float64     `json:"totalCostUSD"`
	CostToday      float64     `json:"costToday"`
	Cost7d         float64     `json:"cost7d"`
	Cost30d        float64     `json:"cost30d"`
	AvgCostPerUser float64     `json:"avgCostPerUser"`
	TotalCalls     int         `json:"totalCalls"`
	AnalyzeCalls   int         `json:"analyzeCalls"`
	AnalyzeCostUSD float64     `json:"analyzeCostUSD"`
	SuggestCalls   int         `json:"suggestCalls"`
	SuggestCostUSD float64     `json:"suggestCostUSD"`
	TotalTokens    int64       `json:"totalTokens"`
	Daily          []DailyCost `json:"daily"`
}

// computeAPICosts aggregates the AI call log. The range scopes the
// totals; the today/7d/30d figures and the 30-day daily trend are always
// anchored at now regardless of the requested range.
func computeAPICosts(req *request) any {
	res := APICostsResult{}

	today := dayStart(req.now)
	trailing7 := req.now.Add(-7 * 24 * time.Hour)
	trailing30 := req.now.AddDate(0, 0, -30)
	windowStart := today.AddDate(0, 0, -(timelineDays - 1))

	dailyCost := make(map[string]float64, timelineDays)
	usersWithCalls := make(map[string]bool)

	for _, rec := range req.calls {
		cost := req.pricing.Cost(rec)
		ts := rec.Timestamp.UTC()

		if req.rng.Contains(rec.Timestamp) {
			res.TotalCostUSD += cost
			res.TotalCalls++
			res.TotalTokens += rec.InputTokens + rec.OutputTokens
			switch rec.Endpoint {
			case models.APIEndpointAnalyze:
				res.AnalyzeCalls++
				res.AnalyzeCostUSD += cost
			case models.APIEndpointSuggest:
				res.SuggestCalls++
				res.SuggestCostUSD += cost
			}
			if rec.UserID != "" {
				usersWithCalls[rec.UserID] = true
			}
		}

		if !ts.Before(today) && !ts.After(req.now) {
			res.CostToday += cost
		}
		if !ts.Before(trailing7) && !ts.After(req.now) {
			res.Cost7d += cost
		}
		if !ts.Before(trailing30) && !ts.After(req.now) {
			res.Cost30d += cost
		}
		if !ts.Before(windowStart) {
			dailyCost[ts.Format("2006-01-02")] += cost
		}
	}

	if n := len(usersWithCalls); n > 0 {
		res.AvgCostPerUser = res.TotalCostUSD / float64(n)
	}

	res.Daily = make([]DailyCost, 0, timelineDays)
	for d := 0; d < timelineDays; d++ {
		day := windowStart.AddDate(0, 0, d).Format("2006-01-02")
		res.Daily = append(res.Daily, DailyCost{Date: day, CostUSD: dailyCost[day]})
	}

	return res
}

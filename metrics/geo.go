// api/metrics/geo.go
package metrics

import "scratchwin/api/models"

type GeoResult struct {
	Countries []BreakdownItem `json:"countries"`
	BRStates  []BreakdownItem `json:"brStates"`
}

func computeGeo(req *request) any {
	ds := req.ds
	return GeoResult{
		Countries: userBreakdown(ds, func(p models.EventProps) string { return p.CountryCode }),
		BRStates:  userBreakdown(ds, func(p models.EventProps) string { return p.BRState }),
	}
}

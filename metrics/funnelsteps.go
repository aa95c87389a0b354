// api/metrics/funnelsteps.go
package metrics

import "scratchwin/api/models"

// FunnelStep is one named checkpoint in the product flow. The catalogue
// below is the fixed product-defined order; index position drives
// progression, drop-off and max-step-reached computations.
type FunnelStep struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var funnelCatalogue = []FunnelStep{
	{Name: "landing", Label: "Landing"},
	{Name: "game_start", Label: "Game started"},
	{Name: "scratch_reveal", Label: "Scratch card revealed"},
	{Name: "game_finish", Label: "Game finished"},
	{Name: "checkout_view", Label: "Checkout viewed"},
	{Name: "checkout_complete", Label: "Purchase completed"},
}

var funnelStepByName = func() map[string]int {
	m := make(map[string]int, len(funnelCatalogue))
	for i, step := range funnelCatalogue {
		m[step.Name] = i
	}
	return m
}()

// funnelStepIndex maps an event onto its funnel checkpoint, or -1 when
// the event is not part of the funnel. Explicit funnel_step events name
// their checkpoint via the funnelStepName property; unknown names are
// ignored rather than failing the request.
func funnelStepIndex(ev models.RawEvent) int {
	switch ev.Type {
	case models.EventPageView:
		return funnelStepByName["landing"]
	case models.EventGameStart:
		return funnelStepByName["game_start"]
	case models.EventScratchReveal:
		return funnelStepByName["scratch_reveal"]
	case models.EventGameFinish:
		return funnelStepByName["game_finish"]
	case models.EventCheckoutView:
		return funnelStepByName["checkout_view"]
	case models.EventCheckoutComplete:
		return funnelStepByName["checkout_complete"]
	case models.EventFunnelStep:
		if i, ok := funnelStepByName[ev.Props.FunnelStepName]; ok {
			return i
		}
	}
	return -1
}

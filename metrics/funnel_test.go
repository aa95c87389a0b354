// api/metrics/funnel_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scratchwin/api/models"
)

func funnelFor(t *testing.T, events []models.RawEvent) FunnelResult {
	t.Helper()
	res, ok := computeFunnel(newTestRequest(events, nil, TimeRange{}, baseTime.Add(time.Hour))).(FunnelResult)
	require.True(t, ok)
	return res
}

func stepByName(t *testing.T, res FunnelResult, name string) FunnelStepStat {
	t.Helper()
	for _, s := range res.Steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("step %q not in result", name)
	return FunnelStepStat{}
}

// Scenario: user A lands and purchases, user B only lands, user C lands
// and starts a game.
func TestComputeFunnel_ThreeUserScenario(t *testing.T) {
	events := []models.RawEvent{
		ev("a", models.EventPageView, baseTime),
		ev("a", models.EventCheckoutComplete, baseTime.Add(5*time.Minute)),
		ev("b", models.EventPageView, baseTime),
		ev("c", models.EventPageView, baseTime),
		ev("c", models.EventGameStart, baseTime.Add(time.Minute)),
	}
	res := funnelFor(t, events)
	require.Len(t, res.Steps, len(funnelCatalogue))

	landing := stepByName(t, res, "landing")
	assert.Equal(t, 3, landing.Users)
	assert.Equal(t, 100.0, landing.PctOfTotal)
	assert.Equal(t, 0.0, landing.DropOffPct)

	gameStart := stepByName(t, res, "game_start")
	assert.Equal(t, 1, gameStart.Users)
	assert.InDelta(t, 100.0/3.0, gameStart.PctOfTotal, 1e-9)
	assert.InDelta(t, 200.0/3.0, gameStart.DropOffPct, 1e-9)

	checkout := stepByName(t, res, "checkout_complete")
	assert.Equal(t, 1, checkout.Users)
	assert.InDelta(t, 33.3, float64(int(checkout.PctOfTotal*10+0.5))/10, 1e-9)
	// Immediate predecessor (checkout_view) had no users, so drop-off is
	// reported as the safe default rather than a fault.
	assert.Equal(t, 0.0, checkout.DropOffPct)
}

func TestComputeFunnel_DropOffWithinBounds(t *testing.T) {
	// Duplicate and out-of-order checkpoint events across several users.
	events := []models.RawEvent{
		ev("a", models.EventPageView, baseTime),
		ev("a", models.EventGameStart, baseTime.Add(time.Minute)),
		ev("a", models.EventGameStart, baseTime.Add(2*time.Minute)),
		ev("b", models.EventGameStart, baseTime),
		ev("b", models.EventPageView, baseTime.Add(time.Minute)),
		ev("c", models.EventPageView, baseTime),
	}
	res := funnelFor(t, events)
	for i, s := range res.Steps {
		if i == 0 {
			continue
		}
		assert.GreaterOrEqual(t, s.DropOffPct, 0.0, s.Name)
		assert.LessOrEqual(t, s.DropOffPct, 100.0, s.Name)
	}
}

func TestComputeFunnel_FirstStepAlwaysFullWhenReached(t *testing.T) {
	res := funnelFor(t, []models.RawEvent{ev("a", models.EventPageView, baseTime)})
	assert.Equal(t, 100.0, stepByName(t, res, "landing").PctOfTotal)

	empty := funnelFor(t, nil)
	assert.Equal(t, 0.0, stepByName(t, empty, "landing").PctOfTotal)
	assert.Equal(t, 0, stepByName(t, empty, "landing").Users)
}

func TestComputeFunnel_AvgTimeToNextUsesFirstOccurrences(t *testing.T) {
	events := []models.RawEvent{
		ev("a", models.EventPageView, baseTime),
		ev("a", models.EventGameStart, baseTime.Add(2*time.Minute)),
		// Repeat occurrences must not shift the measured delta.
		ev("a", models.EventPageView, baseTime.Add(10*time.Minute)),
		ev("a", models.EventGameStart, baseTime.Add(12*time.Minute)),
		ev("b", models.EventPageView, baseTime),
		ev("b", models.EventGameStart, baseTime.Add(4*time.Minute)),
	}
	res := funnelFor(t, events)
	landing := stepByName(t, res, "landing")
	assert.InDelta(t, float64(3*time.Minute.Milliseconds()), landing.AvgTimeToNextMs, 1e-9)

	// No user reached both scratch_reveal and game_finish.
	assert.Equal(t, 0.0, stepByName(t, res, "scratch_reveal").AvgTimeToNextMs)
}

func TestComputeFunnel_SegmentsByChannelAndDevice(t *testing.T) {
	events := []models.RawEvent{
		ev("a", models.EventPageView, baseTime, withSource("google_ads"), withDevice("mobile")),
		ev("a", models.EventCheckoutComplete, baseTime.Add(time.Minute)),
		ev("b", models.EventPageView, baseTime, withSource("google_ads"), withDevice("mobile")),
		ev("c", models.EventPageView, baseTime, withDevice("desktop")),
	}
	res := funnelFor(t, events)

	require.NotEmpty(t, res.ByChannel)
	assert.Equal(t, ChannelPaid, res.ByChannel[0].Key)
	assert.Equal(t, 2, res.ByChannel[0].Landing)
	assert.Equal(t, 1, res.ByChannel[0].Checkout)
	assert.Equal(t, 50.0, res.ByChannel[0].ConversionPct)

	require.Len(t, res.ByDevice, 2)
	assert.Equal(t, "mobile", res.ByDevice[0].Key)
	assert.Equal(t, "desktop", res.ByDevice[1].Key)
}

func TestComputeFunnel_ExplicitFunnelStepEvents(t *testing.T) {
	events := []models.RawEvent{
		ev("a", models.EventFunnelStep, baseTime, func(p *models.EventProps) { p.FunnelStepName = "checkout_view" }),
		ev("a", models.EventFunnelStep, baseTime.Add(time.Second), func(p *models.EventProps) { p.FunnelStepName = "not-a-step" }),
	}
	res := funnelFor(t, events)
	assert.Equal(t, 1, stepByName(t, res, "checkout_view").Users)
}

// api/metrics/engine_test.go
package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scratchwin/api/models"
)

// fakeStore is an in-memory append-only store for engine tests.
type fakeStore struct {
	events      []models.RawEvent
	calls       []models.APICallRecord
	eventsErr   error
	callsErr    error
	eventsReads int
	callsReads  int
}

func (f *fakeStore) ListEvents(_ context.Context, start, end time.Time) ([]models.RawEvent, error) {
	f.eventsReads++
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	rng := TimeRange{Start: start, End: end}
	var out []models.RawEvent
	for _, ev := range f.events {
		if rng.Contains(ev.Timestamp) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAPICalls(_ context.Context, start, end time.Time) ([]models.APICallRecord, error) {
	f.callsReads++
	if f.callsErr != nil {
		return nil, f.callsErr
	}
	rng := TimeRange{Start: start, End: end}
	var out []models.APICallRecord
	for _, rec := range f.calls {
		if rng.Contains(rec.Timestamp) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestEngine(store Store) *Engine {
	return NewEngine(store, Config{Now: func() time.Time { return baseTime }})
}

func TestEngine_OnlyRequestedSectionsPresent(t *testing.T) {
	st := &fakeStore{events: []models.RawEvent{ev("a", models.EventPageView, baseTime.Add(-time.Hour))}}
	e := newTestEngine(st)

	results, err := e.GetMetrics(context.Background(), []Section{SectionOverview, SectionTraffic}, TimeRange{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Contains(t, results, SectionOverview)
	assert.Contains(t, results, SectionTraffic)
	assert.NotContains(t, results, SectionGeo)

	assert.Equal(t, 1, st.eventsReads, "events loaded once per request")
	assert.Equal(t, 0, st.callsReads, "cost log untouched when api_costs not requested")
}

func TestEngine_AllSectionsTogether(t *testing.T) {
	st := &fakeStore{
		events: []models.RawEvent{
			ev("a", models.EventPageView, baseTime.Add(-2*time.Hour), withSource("google_ads"), withDevice("mobile")),
			ev("a", models.EventGameStart, baseTime.Add(-110*time.Minute)),
			ev("a", models.EventCheckoutComplete, baseTime.Add(-100*time.Minute)),
		},
		calls: []models.APICallRecord{call(models.APIEndpointSuggest, baseTime.Add(-time.Hour), 0, 1_000_000, "a")},
	}
	e := newTestEngine(st)

	results, err := e.GetMetrics(context.Background(), AllSections(), TimeRange{})
	require.NoError(t, err)
	require.Len(t, results, len(AllSections()))

	overview, ok := results[SectionOverview].(OverviewResult)
	require.True(t, ok)
	assert.Equal(t, 1, overview.TotalUsers)
	assert.Equal(t, 1, overview.Purchases)

	costs, ok := results[SectionAPICosts].(APICostsResult)
	require.True(t, ok)
	assert.InDelta(t, 0.60, costs.TotalCostUSD, 1e-9)
}

func TestEngine_UnknownSectionRejectedBeforeCompute(t *testing.T) {
	st := &fakeStore{}
	e := newTestEngine(st)

	_, err := e.GetMetrics(context.Background(), []Section{SectionOverview, Section("bogus")}, TimeRange{})
	require.ErrorIs(t, err, ErrUnknownSection)
	assert.Equal(t, 0, st.eventsReads, "rejected before touching storage")
}

func TestEngine_UpstreamFailureAbortsWholeRequest(t *testing.T) {
	boom := errors.New("clickhouse unavailable")

	e := newTestEngine(&fakeStore{eventsErr: boom})
	results, err := e.GetMetrics(context.Background(), []Section{SectionOverview}, TimeRange{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, results, "no partial results on read failure")

	e = newTestEngine(&fakeStore{callsErr: boom})
	results, err = e.GetMetrics(context.Background(), []Section{SectionOverview, SectionAPICosts}, TimeRange{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, results)
}

func TestEngine_CancelledContext(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.GetMetrics(ctx, []Section{SectionOverview}, TimeRange{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_EmptyStoreIsNotAnError(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	results, err := e.GetMetrics(context.Background(), AllSections(), TimeRange{})
	require.NoError(t, err)

	overview := results[SectionOverview].(OverviewResult)
	assert.Zero(t, overview.TotalUsers)
	assert.Zero(t, overview.ConversionPct)

	engagement := results[SectionEngagement].(EngagementResult)
	assert.Zero(t, engagement.BounceRatePct)

	timeline := results[SectionTimeline].(TimelineResult)
	assert.Len(t, timeline.Daily, timelineDays)
}

func TestEngine_CostFetchWindowCoversTrailing30d(t *testing.T) {
	// A call 20 days old must feed the daily trend even when the request
	// range is only the last 24 hours.
	st := &fakeStore{
		calls: []models.APICallRecord{call(models.APIEndpointAnalyze, baseTime.AddDate(0, 0, -20), 1_000_000, 0, "a")},
	}
	e := newTestEngine(st)

	rng := TimeRange{Start: baseTime.Add(-24 * time.Hour), End: baseTime}
	results, err := e.GetMetrics(context.Background(), []Section{SectionAPICosts}, rng)
	require.NoError(t, err)

	costs := results[SectionAPICosts].(APICostsResult)
	assert.Zero(t, costs.TotalCostUSD, "old call is outside the requested range")
	assert.InDelta(t, 0.15, costs.Cost30d, 1e-9)

	found := false
	for _, d := range costs.Daily {
		if d.CostUSD > 0 {
			found = true
		}
	}
	assert.True(t, found, "daily trend sees the trailing-window call")
}

func TestParseRange(t *testing.T) {
	now := baseTime

	for _, selector := range []string{"", "all"} {
		rng, err := ParseRange(selector, now)
		require.NoError(t, err)
		assert.True(t, rng.Start.IsZero())
		assert.True(t, rng.End.IsZero())
	}

	rng, err := ParseRange("24h", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), rng.Start)
	assert.Equal(t, now, rng.End)

	rng, err = ParseRange("7d", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), rng.Start)

	rng, err = ParseRange("30d", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*24*time.Hour), rng.Start)

	_, err = ParseRange("90d", now)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseSections(t *testing.T) {
	sections, err := ParseSections("")
	require.NoError(t, err)
	assert.Equal(t, AllSections(), sections)

	sections, err = ParseSections("overview, api_costs ,overview")
	require.NoError(t, err)
	assert.Equal(t, []Section{SectionOverview, SectionAPICosts}, sections)

	_, err = ParseSections("overview,nope")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

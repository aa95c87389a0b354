// api/metrics/engine.go
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scratchwin/api/models"
)

// Store is the append-only log the engine reads from. A zero start or end
// time means unbounded on that side. Implementations must return events
// ordered by timestamp ascending; the engine still sorts defensively.
type Store interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]models.RawEvent, error)
	ListAPICalls(ctx context.Context, start, end time.Time) ([]models.APICallRecord, error)
}

// Config tunes the engine. Zero values fall back to the documented
// defaults, so Config{} is a valid production configuration.
type Config struct {
	Pricing    Pricing
	SessionGap time.Duration
	Now        func() time.Time
}

// Engine computes the dashboard metric sections from the raw event and
// cost logs. It holds no mutable state between requests; every request
// rebuilds sessions and attribution from storage.
type Engine struct {
	store      Store
	pricing    Pricing
	sessionGap time.Duration
	now        func() time.Time
	computers  map[Section]computeFunc
}

// request bundles the shared derived state handed to every section
// computer within one aggregation request.
type request struct {
	ds      *dataset
	calls   []models.APICallRecord
	rng     TimeRange
	now     time.Time
	pricing Pricing
}

type computeFunc func(*request) any

func NewEngine(store Store, cfg Config) *Engine {
	e := &Engine{
		store:      store,
		pricing:    cfg.Pricing,
		sessionGap: cfg.SessionGap,
		now:        cfg.Now,
	}
	if e.pricing == (Pricing{}) {
		e.pricing = DefaultPricing
	}
	if e.sessionGap <= 0 {
		e.sessionGap = DefaultSessionGap
	}
	if e.now == nil {
		e.now = time.Now
	}

	// Dispatch table built once; no string matching on the hot path.
	e.computers = map[Section]computeFunc{
		SectionOverview:       computeOverview,
		SectionTraffic:        computeTraffic,
		SectionDevices:        computeDevices,
		SectionGeo:            computeGeo,
		SectionEngagement:     computeEngagement,
		SectionUsers:          computeUsers,
		SectionGameplay:       computeGameplay,
		SectionFunnelDetailed: computeFunnel,
		SectionTimeline:       computeTimeline,
		SectionAPICosts:       computeAPICosts,
	}
	return e
}

// GetMetrics loads the shared derived state once for the range, runs only
// the requested section computers concurrently, and assembles the result
// map. Unrequested sections are absent from the map. A store failure
// aborts the whole request; no partial results are returned.
func (e *Engine) GetMetrics(ctx context.Context, sections []Section, rng TimeRange) (map[Section]any, error) {
	selected := make([]Section, 0, len(sections))
	seen := make(map[Section]bool, len(sections))
	needCosts := false
	for _, s := range sections {
		if _, ok := e.computers[s]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		selected = append(selected, s)
		if s == SectionAPICosts {
			needCosts = true
		}
	}

	now := e.now().UTC()

	events, err := e.store.ListEvents(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var calls []models.APICallRecord
	if needCosts {
		// The cost section reports trailing today/7d/30d windows and a
		// fixed 30-day daily trend regardless of the requested range, so
		// the fetch window is widened to cover both.
		start, end := costFetchWindow(rng, now)
		calls, err = e.store.ListAPICalls(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("listing api calls: %w", err)
		}
	}

	req := &request{
		ds:      newDataset(events, e.sessionGap),
		calls:   calls,
		rng:     rng,
		now:     now,
		pricing: e.pricing,
	}

	results := make(map[Section]any, len(selected))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, s := range selected {
		compute := e.computers[s]
		wg.Add(1)
		go func(s Section) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			v := compute(req)
			mu.Lock()
			results[s] = v
			mu.Unlock()
		}(s)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func costFetchWindow(rng TimeRange, now time.Time) (time.Time, time.Time) {
	trailing := now.AddDate(0, 0, -30)
	start := rng.Start
	if start.IsZero() || trailing.Before(start) {
		if rng.Start.IsZero() {
			start = time.Time{} // all history stays unbounded
		} else {
			start = trailing
		}
	}
	end := rng.End
	if !end.IsZero() && end.Before(now) {
		end = now
	}
	return start, end
}

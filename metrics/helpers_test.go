// api/metrics/helpers_test.go
package metrics

import (
	"time"

	"scratchwin/api/models"
)

var baseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ev(userID, eventType string, ts time.Time, mods ...func(*models.EventProps)) models.RawEvent {
	e := models.RawEvent{UserID: userID, Type: eventType, Timestamp: ts}
	for _, mod := range mods {
		mod(&e.Props)
	}
	return e
}

func withSource(source string) func(*models.EventProps) {
	return func(p *models.EventProps) { p.Source = source }
}

func withReferrer(referrer string) func(*models.EventProps) {
	return func(p *models.EventProps) { p.Referrer = referrer }
}

func withChannel(channel string) func(*models.EventProps) {
	return func(p *models.EventProps) { p.Channel = channel }
}

func withDevice(device string) func(*models.EventProps) {
	return func(p *models.EventProps) { p.Device = device }
}

func newTestRequest(events []models.RawEvent, calls []models.APICallRecord, rng TimeRange, now time.Time) *request {
	return &request{
		ds:      newDataset(events, DefaultSessionGap),
		calls:   calls,
		rng:     rng,
		now:     now.UTC(),
		pricing: DefaultPricing,
	}
}

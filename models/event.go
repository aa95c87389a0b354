// api/models/event.go
package models

import "time"

// Event types recorded by the game frontend. The enumeration is closed;
// events with an unrecognized type are stored but ignored by classifiers.
const (
	EventPageView         = "page_view"
	EventGameStart        = "game_start"
	EventGameFinish       = "game_finish"
	EventScratchReveal    = "scratch_reveal"
	EventCheckoutView     = "checkout_view"
	EventCheckoutComplete = "checkout_complete"
	EventFunnelStep       = "funnel_step"
	EventAISuggestUsed    = "ai_suggest_used"
)

// EventProps carries the optional metadata a frontend event may attach.
// Every recognized key is enumerated explicitly; unknown keys sent by the
// client are dropped at bind time. A missing key is the zero value.
type EventProps struct {
	Channel        string  `json:"channel,omitempty"`
	Source         string  `json:"source,omitempty"`
	Campaign       string  `json:"campaign,omitempty"`
	Referrer       string  `json:"referrer,omitempty"`
	Device         string  `json:"device,omitempty"`
	Browser        string  `json:"browser,omitempty"`
	OS             string  `json:"os,omitempty"`
	ScreenBucket   string  `json:"screenBucket,omitempty"`
	CountryCode    string  `json:"countryCode,omitempty"`
	BRState        string  `json:"brState,omitempty"`
	FunnelStepName string  `json:"funnelStepName,omitempty"`
	Tier           string  `json:"tier,omitempty"` // A/B/C/D
	AIUsed         bool    `json:"aiUsed,omitempty"`
	Won            bool    `json:"won,omitempty"`
	PlotTwist      bool    `json:"plotTwist,omitempty"`
	RevealSeconds  float64 `json:"revealSeconds,omitempty"`
}

// RawEvent is a single immutable interaction fact from the event log.
type RawEvent struct {
	EventID   string     `json:"eventId"`
	UserID    string     `json:"userId" binding:"required"`
	Type      string     `json:"type" binding:"required"`
	Timestamp time.Time  `json:"timestamp" binding:"required"`
	Props     EventProps `json:"props"`
}

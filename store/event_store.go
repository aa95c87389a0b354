// api/store/event_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"scratchwin/api/database"
	"scratchwin/api/models"
)

// EventStore is the append-only ClickHouse log of raw interaction events
// and AI call records. It implements metrics.Store for the aggregation
// engine; inserts come from the tracking endpoints.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

func (s *EventStore) InsertEvents(ctx context.Context, events []models.RawEvent) error {
	if len(events) == 0 {
		return nil
	}

	// Column order must match the game_events table schema exactly.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO game_events (
			event_id, user_id, event_type, timestamp,
			channel, source, campaign, referrer,
			device, browser, os, screen_bucket,
			country_code, br_state, funnel_step, tier,
			ai_used, won, plot_twist, reveal_seconds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, ev := range events {
		err := batch.Append(
			ev.EventID,
			ev.UserID,
			ev.Type,
			ev.Timestamp,
			ev.Props.Channel,
			ev.Props.Source,
			ev.Props.Campaign,
			ev.Props.Referrer,
			ev.Props.Device,
			ev.Props.Browser,
			ev.Props.OS,
			ev.Props.ScreenBucket,
			ev.Props.CountryCode,
			ev.Props.BRState,
			ev.Props.FunnelStepName,
			ev.Props.Tier,
			ev.Props.AIUsed,
			ev.Props.Won,
			ev.Props.PlotTwist,
			ev.Props.RevealSeconds,
		)
		if err != nil {
			log.Printf("Error appending event to batch (EventID: %s): %v", ev.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

func (s *EventStore) InsertAPICalls(ctx context.Context, records []models.APICallRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO ai_api_calls (timestamp, endpoint, input_tokens, output_tokens, user_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	for _, rec := range records {
		if err := batch.Append(rec.Timestamp, rec.Endpoint, rec.InputTokens, rec.OutputTokens, rec.UserID); err != nil {
			log.Printf("Error appending api call to batch: %v", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// ListEvents returns raw events in [start, end] ordered by timestamp
// ascending. A zero bound is unbounded on that side.
func (s *EventStore) ListEvents(ctx context.Context, start, end time.Time) ([]models.RawEvent, error) {
	query := `
		SELECT event_id, user_id, event_type, timestamp,
			channel, source, campaign, referrer,
			device, browser, os, screen_bucket,
			country_code, br_state, funnel_step, tier,
			ai_used, won, plot_twist, reveal_seconds
		FROM game_events`
	where, args := rangeClause(start, end)
	query += where + " ORDER BY timestamp ASC"

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.RawEvent
	for rows.Next() {
		var ev models.RawEvent
		if err := rows.Scan(
			&ev.EventID,
			&ev.UserID,
			&ev.Type,
			&ev.Timestamp,
			&ev.Props.Channel,
			&ev.Props.Source,
			&ev.Props.Campaign,
			&ev.Props.Referrer,
			&ev.Props.Device,
			&ev.Props.Browser,
			&ev.Props.OS,
			&ev.Props.ScreenBucket,
			&ev.Props.CountryCode,
			&ev.Props.BRState,
			&ev.Props.FunnelStepName,
			&ev.Props.Tier,
			&ev.Props.AIUsed,
			&ev.Props.Won,
			&ev.Props.PlotTwist,
			&ev.Props.RevealSeconds,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event query: %w", err)
	}
	return events, nil
}

// ListAPICalls returns AI call records in [start, end] ordered by
// timestamp ascending. A zero bound is unbounded on that side.
func (s *EventStore) ListAPICalls(ctx context.Context, start, end time.Time) ([]models.APICallRecord, error) {
	query := `
		SELECT timestamp, endpoint, input_tokens, output_tokens, user_id
		FROM ai_api_calls`
	where, args := rangeClause(start, end)
	query += where + " ORDER BY timestamp ASC"

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query api calls: %w", err)
	}
	defer rows.Close()

	var records []models.APICallRecord
	for rows.Next() {
		var rec models.APICallRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Endpoint, &rec.InputTokens, &rec.OutputTokens, &rec.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan api call row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during api call query: %w", err)
	}
	return records, nil
}

func rangeClause(start, end time.Time) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if !start.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, start)
	}
	if !end.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, end)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// api/models/apicall.go
package models

import "time"

// AI completion endpoints whose token usage is logged for cost accounting.
const (
	APIEndpointAnalyze = "analyze"
	APIEndpointSuggest = "suggest"
)

// APICallRecord logs one third-party AI completion call. Cost is never
// stored; it is derived at read time from the configured token pricing.
type APICallRecord struct {
	Timestamp    time.Time `json:"timestamp" binding:"required"`
	Endpoint     string    `json:"endpoint" binding:"required,oneof=analyze suggest"`
	InputTokens  int64     `json:"inputTokens"`
	OutputTokens int64     `json:"outputTokens"`
	UserID       string    `json:"userId,omitempty"`
}

// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"scratchwin/api/models"
	"scratchwin/api/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TrackHandlers struct {
	EventStore *store.EventStore
}

func NewTrackHandlers(s *store.EventStore) *TrackHandlers {
	return &TrackHandlers{EventStore: s}
}

// TrackEvents accepts a batch of raw interaction events from the game
// frontend and appends them to the event log. Event IDs are assigned
// server-side; client-supplied IDs are ignored.
func (h *TrackHandlers) TrackEvents(c *gin.Context) {
	var incoming []models.RawEvent
	if err := c.ShouldBindJSON(&incoming); err != nil {
		log.Printf("Error binding incoming events JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(incoming) == 0 {
		c.Status(http.StatusOK)
		return
	}

	events := make([]models.RawEvent, 0, len(incoming))
	for _, ev := range incoming {
		ev.EventID = uuid.New().String()
		events = append(events, ev)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.EventStore.InsertEvents(ctx, events); err != nil {
		log.Printf("Error inserting events into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record events"})
		return
	}

	c.Status(http.StatusOK)
}

// TrackAICalls appends AI completion token-usage records to the cost
// log. Called server-to-server by the AI proxy with the X-API-KEY.
func (h *TrackHandlers) TrackAICalls(c *gin.Context) {
	var incoming []models.APICallRecord
	if err := c.ShouldBindJSON(&incoming); err != nil {
		log.Printf("Error binding incoming api call JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(incoming) == 0 {
		c.Status(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.EventStore.InsertAPICalls(ctx, incoming); err != nil {
		log.Printf("Error inserting api call records into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record api calls"})
		return
	}

	c.Status(http.StatusOK)
}

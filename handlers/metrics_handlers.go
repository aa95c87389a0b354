// api/handlers/metrics_handlers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"scratchwin/api/metrics"

	"github.com/gin-gonic/gin"
)

type MetricsHandlers struct {
	Engine *metrics.Engine
}

func NewMetricsHandlers(engine *metrics.Engine) *MetricsHandlers {
	return &MetricsHandlers{Engine: engine}
}

// GetMetrics computes the requested dashboard sections over the selected
// time range. sections is a comma-separated subset of the section
// enumeration (empty = all); range is one of 24h/7d/30d/all (empty = all).
func (h *MetricsHandlers) GetMetrics(c *gin.Context) {
	sections, err := metrics.ParseSections(c.Query("sections"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rng, err := metrics.ParseRange(c.Query("range"), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	results, err := h.Engine.GetMetrics(ctx, sections, rng)
	if err != nil {
		if errors.Is(err, metrics.ErrUnknownSection) || errors.Is(err, metrics.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error computing metrics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListSections returns the valid section names so the dashboard can
// build its section picker without hardcoding the enumeration.
func (h *MetricsHandlers) ListSections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": metrics.AllSections()})
}

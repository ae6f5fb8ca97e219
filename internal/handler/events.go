package handler

import (
	"net/http"
	"strings"

	"event-radar/internal/classify"
	"event-radar/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Health godoc
// @Summary      Service health check
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetEvents godoc
// @Summary      Get the classified event calendar
// @Description  Returns upcoming events plus the trailing live window, each with tier, category, affected assets, and surprise when released
// @Tags         events
// @Produce      json
// @Param        bucket  query  string  false  "Filter by bucket (upcoming, live)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/events [get]
func (h *Handler) GetEvents(c *gin.Context) {
	if h.calendarService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-events")
	defer span.End()

	bucket := strings.ToLower(strings.TrimSpace(c.Query("bucket")))
	if bucket != "" && bucket != string(domain.BucketUpcoming) && bucket != string(domain.BucketLive) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bucket must be upcoming or live"})
		return
	}

	views, err := h.calendarService.EventViews(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if bucket != "" {
		filtered := make([]domain.EventView, 0, len(views))
		for _, v := range views {
			if string(v.Bucket) == bucket {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	c.JSON(http.StatusOK, gin.H{"events": views})
}

// ClassifyEvent godoc
// @Summary      Classify an event name
// @Description  Returns tier, expected volatility, category, and affected assets for an event name
// @Tags         events
// @Produce      json
// @Param        name  query  string  true  "Event name (free text)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/events/classify [get]
func (h *Handler) ClassifyEvent(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.classify-event")
	defer span.End()

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	span.SetAttributes(attribute.String("event.name", name))

	c.JSON(http.StatusOK, gin.H{
		"name":           name,
		"classification": classify.Classify(name),
	})
}

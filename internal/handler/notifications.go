package handler

import (
	"net/http"
	"strconv"
	"strings"

	"event-radar/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetNotifications godoc
// @Summary      Get a user's notification history
// @Description  Returns the newest records first, bounded by the retention limit
// @Tags         notifications
// @Produce      json
// @Param        userID  path   string  true   "User ID"
// @Param        limit   query  int     false  "Number of records (default 20, max 100)"  default(20)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/notifications/{userID} [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	if h.notifyService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-notifications")
	defer span.End()

	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
		return
	}
	span.SetAttributes(attribute.String("user.id", userID))

	limit := 20
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	records, err := h.notifyService.History(ctx, userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": records})
}

// GetPreferences godoc
// @Summary      Get a user's notification preferences
// @Description  Unknown users receive the opt-out defaults
// @Tags         notifications
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/preferences/{userID} [get]
func (h *Handler) GetPreferences(c *gin.Context) {
	if h.notifyService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-preferences")
	defer span.End()

	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
		return
	}

	pref, err := h.notifyService.GetPreferences(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}

// PutPreferences godoc
// @Summary      Save a user's notification preferences
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        userID       path  string                              true  "User ID"
// @Param        preferences  body  domain.UserNotificationPreference  true  "Preference record"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/preferences/{userID} [put]
func (h *Handler) PutPreferences(c *gin.Context) {
	if h.notifyService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.put-preferences")
	defer span.End()

	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
		return
	}

	var pref domain.UserNotificationPreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preference payload: " + err.Error()})
		return
	}
	pref.UserID = userID

	if err := h.notifyService.SavePreferences(ctx, pref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// PostNews godoc
// @Summary      Broadcast a news item
// @Description  Runs the eligibility pipeline per user and delivers to the eligible set
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        news  body  domain.NewsItem  true  "News item"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/news [post]
func (h *Handler) PostNews(c *gin.Context) {
	if h.notifyService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-news")
	defer span.End()

	var item domain.NewsItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid news payload: " + err.Error()})
		return
	}
	if strings.TrimSpace(item.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if item.Signal != "" && !item.Signal.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown signal type: " + string(item.Signal)})
		return
	}

	notified, err := h.notifyService.BroadcastNews(ctx, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified": notified})
}

// PostSignal godoc
// @Summary      Broadcast a trade signal
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        signal  body  domain.SignalEvent  true  "Signal event"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/signals [post]
func (h *Handler) PostSignal(c *gin.Context) {
	if h.notifyService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-signal")
	defer span.End()

	var sig domain.SignalEvent
	if err := c.ShouldBindJSON(&sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal payload: " + err.Error()})
		return
	}
	if !sig.Signal.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown signal type: " + string(sig.Signal)})
		return
	}

	notified, err := h.notifyService.BroadcastSignal(ctx, sig)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified": notified})
}

package handler

import (
	"event-radar/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer          trace.Tracer
	calendarService *service.CalendarService
	analysisService *service.AnalysisService
	notifyService   *service.NotificationService
}

func New(
	tracer trace.Tracer,
	calendarService *service.CalendarService,
	analysisService *service.AnalysisService,
	notifyService *service.NotificationService,
) *Handler {
	return &Handler{
		tracer:          tracer,
		calendarService: calendarService,
		analysisService: analysisService,
		notifyService:   notifyService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/events", h.GetEvents)
	r.GET("/api/events/classify", h.ClassifyEvent)
	r.GET("/api/notifications/:userID", h.GetNotifications)
	r.GET("/api/preferences/:userID", h.GetPreferences)
	r.PUT("/api/preferences/:userID", h.PutPreferences)
	r.POST("/api/news", h.PostNews)
	r.POST("/api/signals", h.PostSignal)
	r.POST("/api/analyses/pre", h.PostPreAnalysis)
	r.POST("/api/analyses/post", h.PostPostAnalysis)
}

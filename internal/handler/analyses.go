package handler

import (
	"net/http"

	"event-radar/internal/domain"

	"github.com/gin-gonic/gin"
)

// PostPreAnalysis godoc
// @Summary      Submit a pre-event analysis
// @Description  Stores the analysis and returns advisory consistency findings; findings never reject the record
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        analysis  body  domain.PreEventAnalysis  true  "Pre-event analysis"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/analyses/pre [post]
func (h *Handler) PostPreAnalysis(c *gin.Context) {
	if h.analysisService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-pre-analysis")
	defer span.End()

	var a domain.PreEventAnalysis
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis payload: " + err.Error()})
		return
	}

	findings, err := h.analysisService.SubmitPreEvent(ctx, a)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stored": true, "findings": findings})
}

// PostPostAnalysis godoc
// @Summary      Submit a post-event analysis
// @Description  Stores the analysis and returns advisory consistency findings
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        analysis  body  domain.PostEventAnalysis  true  "Post-event analysis"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/analyses/post [post]
func (h *Handler) PostPostAnalysis(c *gin.Context) {
	if h.analysisService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-post-analysis")
	defer span.End()

	var a domain.PostEventAnalysis
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis payload: " + err.Error()})
		return
	}

	findings, err := h.analysisService.SubmitPostEvent(ctx, a)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stored": true, "findings": findings})
}

package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

// LearningHandler serves roadmaps and the AI learning assistant
type LearningHandler struct {
	BaseHandler
	roadmapService services.RoadmapService
	assistService  services.LearningAssistService
}

func NewLearningHandler(roadmapService services.RoadmapService, assistService services.LearningAssistService, logger utils.Logger) *LearningHandler {
	return &LearningHandler{
		BaseHandler:    NewBaseHandler(logger),
		roadmapService: roadmapService,
		assistService:  assistService,
	}
}

// ===== ROADMAPS =====

// GenerateRoadmap creates a roadmap for a goal. Asking again for the same
// goal replaces the earlier roadmap.
// @Summary Generate roadmap
// @Tags roadmaps
// @Accept json
// @Produce json
// @Param request body services.GenerateRoadmapRequest true "Goal"
// @Success 201 {object} models.Roadmap
// @Router /roadmaps/generate [post]
func (h *LearningHandler) GenerateRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.GenerateRoadmapRequest
	if !h.bindJSON(c, &req) {
		return
	}
	roadmap, err := h.roadmapService.Generate(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Roadmap generated", "roadmap_id", roadmap.ID, "steps", len(roadmap.Steps))
	c.JSON(http.StatusCreated, roadmap)
}

// @Summary List my roadmaps
// @Tags roadmaps
// @Produce json
// @Success 200 {array} models.Roadmap
// @Router /roadmaps [get]
func (h *LearningHandler) ListRoadmaps(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	roadmaps, err := h.roadmapService.ListByUser(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roadmaps)
}

// @Summary Get roadmap
// @Tags roadmaps
// @Produce json
// @Param id path string true "Roadmap ID"
// @Success 200 {object} models.Roadmap
// @Router /roadmaps/{id} [get]
func (h *LearningHandler) GetRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	roadmap, err := h.roadmapService.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

// ToggleStep marks a step done or not done
// @Summary Toggle roadmap step
// @Tags roadmaps
// @Produce json
// @Param id path string true "Roadmap ID"
// @Param sid path string true "Step ID"
// @Success 200 {object} models.RoadmapStep
// @Router /roadmaps/{id}/steps/{sid}/toggle [post]
func (h *LearningHandler) ToggleStep(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	step, err := h.roadmapService.ToggleStep(c.Request.Context(), actor, c.Param("id"), c.Param("sid"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, step)
}

// @Summary Delete roadmap
// @Tags roadmaps
// @Param id path string true "Roadmap ID"
// @Success 204
// @Router /roadmaps/{id} [delete]
func (h *LearningHandler) DeleteRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.roadmapService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== LEARNING ASSIST =====

// Summarize returns a plain-text summary of the given text
// @Summary Summarize text
// @Tags assist
// @Accept json
// @Produce json
// @Param request body validator.AssistRequest true "Text"
// @Success 200 {object} map[string]string
// @Failure 502 {object} ErrorResponse "AI service failed"
// @Router /assist/summarize [post]
func (h *LearningHandler) Summarize(c *gin.Context) {
	var req validator.AssistRequest
	if !h.bindJSON(c, &req) {
		return
	}
	summary, err := h.assistService.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// @Summary Extract key points
// @Tags assist
// @Accept json
// @Produce json
// @Param request body validator.AssistRequest true "Text"
// @Success 200 {object} services.KeyPointsResponse
// @Router /assist/key-points [post]
func (h *LearningHandler) KeyPoints(c *gin.Context) {
	var req validator.AssistRequest
	if !h.bindJSON(c, &req) {
		return
	}
	points, err := h.assistService.KeyPoints(c.Request.Context(), req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.KeyPointsResponse{Points: points})
}

// StreamSummary streams the summary as server-sent "summary" events, each
// carrying the text revealed so far, then a final "done" event
// @Summary Stream summary
// @Tags assist
// @Accept json
// @Produce text/event-stream
// @Param request body validator.AssistRequest true "Text"
// @Router /assist/stream [post]
func (h *LearningHandler) StreamSummary(c *gin.Context) {
	var req validator.AssistRequest
	if !h.bindJSON(c, &req) {
		return
	}
	frames, err := h.assistService.Stream(c.Request.Context(), req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		frame, ok := <-frames
		if !ok {
			c.SSEvent("done", "")
			return false
		}
		c.SSEvent("summary", frame)
		return true
	})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
)

// ContentHandler serves challenges, events and categories
type ContentHandler struct {
	BaseHandler
	challengeService services.ChallengeService
	eventService     services.EventService
	categoryService  services.CategoryService
}

func NewContentHandler(
	challengeService services.ChallengeService,
	eventService services.EventService,
	categoryService services.CategoryService,
	logger utils.Logger,
) *ContentHandler {
	return &ContentHandler{
		BaseHandler:      NewBaseHandler(logger),
		challengeService: challengeService,
		eventService:     eventService,
		categoryService:  categoryService,
	}
}

// ===== CHALLENGES =====

// CreateChallenge publishes a coding challenge (teachers and admins)
// @Summary Create challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Param request body services.CreateChallengeRequest true "Challenge"
// @Success 201 {object} models.Challenge
// @Router /challenges [post]
func (h *ContentHandler) CreateChallenge(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateChallengeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	challenge, err := h.challengeService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Challenge created", "challenge_id", challenge.ID)
	c.JSON(http.StatusCreated, challenge)
}

// @Summary List challenges
// @Tags challenges
// @Produce json
// @Success 200 {array} models.Challenge
// @Router /challenges [get]
func (h *ContentHandler) ListChallenges(c *gin.Context) {
	challenges, err := h.challengeService.List(c.Request.Context(), repositories.ChallengeFilters{
		UploaderID:  c.Query("uploader_id"),
		CategoryID:  c.Query("category_id"),
		ListOptions: h.listOptions(c),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// @Summary Get challenge
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} models.Challenge
// @Router /challenges/{id} [get]
func (h *ContentHandler) GetChallenge(c *gin.Context) {
	challenge, err := h.challengeService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// @Summary Update challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body services.UpdateChallengeRequest true "Fields to change"
// @Success 200 {object} models.Challenge
// @Router /challenges/{id} [put]
func (h *ContentHandler) UpdateChallenge(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.UpdateChallengeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	challenge, err := h.challengeService.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// @Summary Delete challenge
// @Tags challenges
// @Param id path string true "Challenge ID"
// @Success 204
// @Router /challenges/{id} [delete]
func (h *ContentHandler) DeleteChallenge(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.challengeService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== EVENTS =====

// CreateEvent schedules an event. Registration must close before the event
// and offline events need a location.
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Param request body services.EventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /events [post]
func (h *ContentHandler) CreateEvent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Event created", "event_id", event.ID)
	c.JSON(http.StatusCreated, event)
}

// @Summary List events
// @Tags events
// @Produce json
// @Param mode query string false "online or offline"
// @Success 200 {array} models.Event
// @Router /events [get]
func (h *ContentHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context(), repositories.EventFilters{
		OwnerID:     c.Query("owner_id"),
		Mode:        parseEventMode(c.Query("mode")),
		ListOptions: h.listOptions(c),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.Event
// @Router /events/{id} [get]
func (h *ContentHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent replaces an event's details
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body services.EventRequest true "Event"
// @Success 200 {object} models.Event
// @Router /events/{id} [put]
func (h *ContentHandler) UpdateEvent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// @Summary Delete event
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id} [delete]
func (h *ContentHandler) DeleteEvent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseEventMode(raw string) models.EventMode {
	for _, mode := range []models.EventMode{models.EventOnline, models.EventOffline} {
		if strings.EqualFold(raw, string(mode)) {
			return mode
		}
	}
	return ""
}

// ===== CATEGORIES =====

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *ContentHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body services.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Router /categories [post]
func (h *ContentHandler) CreateCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// @Summary Delete category
// @Tags categories
// @Param id path string true "Category ID"
// @Success 204
// @Router /categories/{id} [delete]
func (h *ContentHandler) DeleteCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

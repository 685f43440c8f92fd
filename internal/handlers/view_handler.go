package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

// ViewHandler serves filtered list pages, both one-shot and live over
// server-sent events
type ViewHandler struct {
	BaseHandler
	service services.ViewService
}

func NewViewHandler(service services.ViewService, logger utils.Logger) *ViewHandler {
	return &ViewHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Query returns one filtered state of an entity list
// @Summary Query list view
// @Tags views
// @Produce json
// @Param entity path string true "users, videos, challenges or events"
// @Param search query string false "Case-insensitive search"
// @Param sort query string false "Sort key"
// @Param desc query bool false "Sort descending"
// @Success 200 {object} services.ViewResult
// @Failure 400 {object} ErrorResponse "Unknown entity or sort key"
// @Router /views/{entity} [get]
func (h *ViewHandler) Query(c *gin.Context) {
	result, err := h.service.Query(c.Request.Context(), c.Param("entity"), h.viewFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stream opens a live page. The first "page" event carries the page ID
// used to change filters or remove records; every later "state" event is
// the page's latest state. The page closes when the client disconnects.
// @Summary Stream live list view
// @Tags views
// @Produce text/event-stream
// @Param entity path string true "users, videos, challenges or events"
// @Router /views/{entity}/stream [get]
func (h *ViewHandler) Stream(c *gin.Context) {
	entity := c.Param("entity")
	pageID, results, err := h.service.Open(c.Request.Context(), entity, h.viewFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer func() {
		if err := h.service.Close(pageID); err != nil && !services.IsNotFound(err) {
			h.LogError(c, err, "Failed to close view page", "page_id", pageID)
		}
	}()

	h.LogRequest(c, "Streaming view page", "entity", entity, "page_id", pageID)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("page", gin.H{"page_id": pageID, "entity": entity})
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case result, ok := <-results:
			if !ok {
				return false
			}
			c.SSEvent("state", result)
			return true
		}
	})
}

// SetFilters replaces a live page's filters
// @Summary Set live view filters
// @Tags views
// @Accept json
// @Param pid path string true "Page ID"
// @Param request body viewstate.Filters true "Filters"
// @Success 204
// @Router /views/pages/{pid}/filters [put]
func (h *ViewHandler) SetFilters(c *gin.Context) {
	var filters viewstate.Filters
	if !h.bindJSON(c, &filters) {
		return
	}
	if err := h.service.SetFilters(c.Param("pid"), filters); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveRecord deletes a record from a live page. The row disappears at
// once and comes back with an error banner if the delete fails.
// @Summary Remove record from live view
// @Tags views
// @Param pid path string true "Page ID"
// @Param rid path string true "Record ID"
// @Success 204
// @Router /views/pages/{pid}/records/{rid} [delete]
func (h *ViewHandler) RemoveRecord(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), actor, c.Param("pid"), c.Param("rid")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClosePage discards a live page
// @Summary Close live view
// @Tags views
// @Param pid path string true "Page ID"
// @Success 204
// @Router /views/pages/{pid} [delete]
func (h *ViewHandler) ClosePage(c *gin.Context) {
	if err := h.service.Close(c.Param("pid")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== LANDING PAGES =====

// Landing describes the role page the caller opened. Role checks and
// redirects happen in AuthMiddleware.Landing.
func (h *ViewHandler) Landing(guard *auth.RoleGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := auth.UserFromContext(c.Request.Context())
		if !ok {
			c.Redirect(http.StatusFound, auth.SignInRoute)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"page":    c.Request.URL.Path,
			"home":    guard.Home(profile.Role),
			"profile": profile,
		})
	}
}

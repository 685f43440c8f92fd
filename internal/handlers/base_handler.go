package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/media"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

// ===== RESPONSES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the logger shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

// actor returns the signed-in caller. It writes 401 and returns false when
// the request carries no user.
func (h *BaseHandler) actor(c *gin.Context) (services.Actor, bool) {
	profile, ok := auth.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return services.Actor{}, false
	}
	return services.Actor{ID: profile.ID, Email: profile.Email, Role: profile.Role}, true
}

// optionalActor returns the caller when signed in, or an anonymous actor
func (h *BaseHandler) optionalActor(c *gin.Context) services.Actor {
	profile, ok := auth.UserFromContext(c.Request.Context())
	if !ok {
		return services.Actor{}
	}
	return services.Actor{ID: profile.ID, Email: profile.Email, Role: profile.Role}
}

func (h *BaseHandler) bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// listOptions reads ?order_by, ?desc and ?limit
func (h *BaseHandler) listOptions(c *gin.Context) repositories.ListOptions {
	opts := repositories.ListOptions{
		OrderBy: c.Query("order_by"),
		Desc:    c.Query("desc") == "true",
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 500 {
			opts.Limit = limit
		}
	}
	return opts
}

// viewFilters reads ?search, ?sort and ?desc; every other query parameter
// becomes an equality filter
func (h *BaseHandler) viewFilters(c *gin.Context) viewstate.Filters {
	filters := viewstate.Filters{
		Search:   c.Query("search"),
		SortKey:  c.Query("sort"),
		SortDesc: c.Query("desc") == "true",
	}
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "search", "sort", "desc":
			continue
		}
		if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			if filters.Match == nil {
				filters.Match = make(map[string]string)
			}
			filters.Match[key] = values[0]
		}
	}
	return filters
}

// ===== ERROR HANDLING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule": businessRuleError.Rule,
			},
		})
		return
	}

	var aiError *ai.Error
	if errors.As(err, &aiError) {
		status := http.StatusBadGateway
		if aiError.Status == http.StatusGatewayTimeout {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, ErrorResponse{
			Message: aiError.Title,
			Details: aiError.Message,
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: notFoundMessage(err),
		})
	case errors.Is(err, services.ErrUnknownEntity), errors.Is(err, viewstate.ErrUnknownSortKey):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Bad request",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Operation already in progress",
		})
	case errors.Is(err, viewstate.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Page is busy",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized access",
		})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, store.ErrPermission):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})
	case errors.Is(err, media.ErrUnknownKind), errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid upload",
			Details: err.Error(),
		})
	case errors.Is(err, media.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: "File too large",
		})
	case errors.Is(err, media.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Upload failed",
			Details: err.Error(),
		})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Service temporarily unavailable",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

func notFoundMessage(err error) string {
	for _, target := range []struct {
		err error
		msg string
	}{
		{services.ErrUserNotFound, "User not found"},
		{services.ErrVideoNotFound, "Video not found"},
		{services.ErrCommentNotFound, "Comment not found"},
		{services.ErrChallengeNotFound, "Challenge not found"},
		{services.ErrEventNotFound, "Event not found"},
		{services.ErrCategoryNotFound, "Category not found"},
		{services.ErrRoadmapNotFound, "Roadmap not found"},
		{services.ErrStepNotFound, "Roadmap step not found"},
		{services.ErrPageNotFound, "View page not found"},
	} {
		if errors.Is(err, target.err) {
			return target.msg
		}
	}
	return "Not found"
}

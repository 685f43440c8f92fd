package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
	sessions    Sessions
	validator   *validator.Validator
}

func NewUserHandler(userService services.UserService, sessions Sessions, validator *validator.Validator, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		sessions:    sessions,
		validator:   validator,
	}
}

// ListUsers lists stored profiles
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Filter by role (admin, teacher, learner)"
// @Param q query string false "Search query (name or email)"
// @Success 200 {array} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.userService.List(c.Request.Context(), h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Directory lists identities known to the identity provider
// @Summary User directory
// @Tags users
// @Produce json
// @Success 200 {object} services.UserListResponse
// @Router /users/directory [get]
func (h *UserHandler) Directory(c *gin.Context) {
	response, err := h.userService.Directory(c.Request.Context(), h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetUser retrieves a user by ID
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates a profile. The role can never be changed here.
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Access denied"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if user.ID == actor.ID && h.sessions != nil {
		h.sessions.Refresh(c.Request.Context(), c.GetString("session_token"), *user)
	}

	h.LogRequest(c, "Profile updated", "user_id", user.ID)
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a profile (admin only)
// @Summary Delete user
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse "Access denied"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPreferences lists the caller's preferred categories
// @Summary List preferences
// @Tags users
// @Produce json
// @Success 200 {array} models.Preference
// @Router /users/me/preferences [get]
func (h *UserHandler) ListPreferences(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	prefs, err := h.userService.ListPreferences(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// AddPreference adds a preferred category
// @Summary Add preference
// @Tags users
// @Accept json
// @Param request body validator.PreferenceRequest true "Category"
// @Success 204
// @Router /users/me/preferences [post]
func (h *UserHandler) AddPreference(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req validator.PreferenceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if errors := h.validator.Struct(&req); len(errors) > 0 {
		h.handleServiceError(c, errors)
		return
	}
	if err := h.userService.AddPreference(c.Request.Context(), actor, req.CategoryID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemovePreference removes a preferred category
// @Summary Remove preference
// @Tags users
// @Param categoryId path string true "Category ID"
// @Success 204
// @Router /users/me/preferences/{categoryId} [delete]
func (h *UserHandler) RemovePreference(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.userService.RemovePreference(c.Request.Context(), actor, c.Param("categoryId")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	filters := repositories.UserFilters{
		Query:       c.Query("q"),
		ListOptions: h.listOptions(c),
	}
	if role := models.UserRole(c.Query("role")); role.IsValid() {
		filters.Role = role
	}
	return filters
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

// Sessions is the part of the authenticator the handlers use
type Sessions interface {
	SessionResolver
	SignIn(ctx context.Context, code, state string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string, user models.User)
}

type AuthHandler struct {
	BaseHandler
	sessions  Sessions
	guard     *auth.RoleGuard
	validator *validator.Validator
}

func NewAuthHandler(sessions Sessions, guard *auth.RoleGuard, validator *validator.Validator, logger utils.Logger) *AuthHandler {
	if guard == nil {
		guard = auth.NewRoleGuard(nil)
	}
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
		guard:       guard,
		validator:   validator,
	}
}

type signInResponse struct {
	*auth.Session
	Home string `json:"home"`
}

// SignIn exchanges an authorization code for a session
// @Summary Sign in
// @Description Exchange the identity provider's authorization code for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.SignInRequest true "Authorization code"
// @Success 200 {object} signInResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req validator.SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if errors := h.validator.Struct(&req); len(errors) > 0 {
		h.handleServiceError(c, errors)
		return
	}

	session, err := h.sessions.SignIn(c.Request.Context(), req.Code, req.State)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session.Token, 0, "/", "", c.Request.TLS != nil, true)

	h.LogRequest(c, "Signed in", "user_id", session.Profile.ID)
	c.JSON(http.StatusOK, signInResponse{Session: session, Home: h.guard.Home(session.Profile.Role)})
}

// SignOut ends the caller's session
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := c.GetString("session_token")
	if err := h.sessions.SignOut(c.Request.Context(), token); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.Status(http.StatusNoContent)
}

// Me returns the signed-in user's profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Profile
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, ok := auth.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"home":    h.guard.Home(profile.Role),
	})
}

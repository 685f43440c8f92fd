package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
)

// SessionCookie carries the session token for browser routes that cannot
// set an Authorization header
const SessionCookie = "learnhub_session"

// SessionResolver returns the profile of a session token
type SessionResolver interface {
	Current(ctx context.Context, token string) (*auth.Profile, error)
}

// AuthMiddleware resolves the caller's session into the request context
type AuthMiddleware struct {
	sessions SessionResolver
	guard    *auth.RoleGuard
	logger   utils.Logger
}

func NewAuthMiddleware(sessions SessionResolver, guard *auth.RoleGuard, logger utils.Logger) *AuthMiddleware {
	if guard == nil {
		guard = auth.NewRoleGuard(nil)
	}
	return &AuthMiddleware{sessions: sessions, guard: guard, logger: logger}
}

// RequireAuth rejects requests without a valid session
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Unauthorized",
				Details: err.Error(),
			})
			return
		}

		profile, err := am.sessions.Current(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				utils.GetLogger(c, am.logger).Error("Failed to resolve session", "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Unauthorized",
				Details: "invalid or expired session",
			})
			return
		}

		setUser(c, token, profile)
		c.Next()
	}
}

// OptionalAuth sets the user when the request carries a valid session
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionToken(c)
		if err != nil {
			c.Next()
			return
		}
		if profile, err := am.sessions.Current(c.Request.Context(), token); err == nil {
			setUser(c, token, profile)
		}
		c.Next()
	}
}

// RequireRole checks the user has one of roles. Admins always pass.
func (am *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden",
				Details: err.Error(),
			})
			return
		}

		if role != models.RoleAdmin && !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden",
				Details: fmt.Sprintf("insufficient permissions, required role: %v", roles),
			})
			return
		}

		c.Next()
	}
}

// Landing guards a role's page routes. Signed-out users are sent to sign in
// and users of another role to their own home.
func (am *AuthMiddleware) Landing(allowed ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionToken(c)
		if err != nil {
			c.Redirect(http.StatusFound, auth.SignInRoute)
			c.Abort()
			return
		}
		profile, err := am.sessions.Current(c.Request.Context(), token)
		if err != nil {
			c.Redirect(http.StatusFound, auth.SignInRoute)
			c.Abort()
			return
		}

		if ok, redirect := am.guard.Resolve(profile.Role, allowed); !ok {
			utils.GetLogger(c, am.logger).Info("Redirecting to role home",
				"user_id", profile.ID, "role", profile.Role, "path", c.Request.URL.Path, "redirect", redirect)
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}

		setUser(c, token, profile)
		c.Next()
	}
}

// sessionToken reads a bearer token, falling back to the session cookie
func sessionToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("authorization header missing")
}

func setUser(c *gin.Context, token string, profile *auth.Profile) {
	c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), profile))
	c.Set("session_token", token)
	c.Set("user_id", profile.ID)
	c.Set("user", &profile.User)
	c.Set("user_role", profile.Role)
	c.Set("user_email", profile.Email)
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}

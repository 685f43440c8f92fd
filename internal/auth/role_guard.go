package auth

import (
	"slices"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

const SignInRoute = "/signin"

// DefaultHomes is the landing route of each role
var DefaultHomes = map[models.UserRole]string{
	models.RoleAdmin:   "/admin/dashboard",
	models.RoleTeacher: "/teacher/dashboard",
	models.RoleLearner: "/learner/home",
}

// RoleGuard decides whether a role may open a route and where to send it
// otherwise
type RoleGuard struct {
	homes map[models.UserRole]string
}

func NewRoleGuard(homes map[models.UserRole]string) *RoleGuard {
	if homes == nil {
		homes = DefaultHomes
	}
	return &RoleGuard{homes: homes}
}

// Home is role's landing route; unknown roles go to sign in
func (g *RoleGuard) Home(role models.UserRole) string {
	if home, ok := g.homes[role]; ok {
		return home
	}
	return SignInRoute
}

// Resolve reports whether role is allowed. When it is not, redirect is the
// role's own home route. Admins are not let into other roles' pages.
func (g *RoleGuard) Resolve(role models.UserRole, allowed []models.UserRole) (ok bool, redirect string) {
	if slices.Contains(allowed, role) {
		return true, ""
	}
	return false, g.Home(role)
}

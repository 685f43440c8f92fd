package auth

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

// Profile is the signed-in user's profile as kept for the session
type Profile struct {
	models.User
	SignedInAt time.Time `json:"signed_in_at"`
}

type profileKey struct{}

// WithUser returns a context carrying profile
func WithUser(ctx context.Context, profile *Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, profile)
}

// UserFromContext returns the profile stored by WithUser. Callers must not
// modify it.
func UserFromContext(ctx context.Context) (*Profile, bool) {
	profile, ok := ctx.Value(profileKey{}).(*Profile)
	return profile, ok && profile != nil
}

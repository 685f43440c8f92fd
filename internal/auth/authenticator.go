// Package auth delegates sign-in to the identity provider and keeps the
// signed-in user's profile for the session.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/cache"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// RevocationTTL outlives the provider's longest token lifetime, so a
// signed-out token stays rejected until it expires on its own
const RevocationTTL = 7 * 24 * time.Hour

// Session is the result of a sign-in
type Session struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// Authenticator is the single place the current user profile is read and
// written. Profiles are cached per token under the session: prefix.
type Authenticator struct {
	provider Provider
	users    repositories.UserRepository
	sessions *cache.CacheHelper
	ttl      time.Duration
	observer *Observer
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthenticator(provider Provider, users repositories.UserRepository, cm *cache.CacheManager, observer *Observer, logger *slog.Logger) *Authenticator {
	var sessions *cache.CacheHelper
	if cm != nil {
		sessions = cm.Session
	}
	if observer == nil {
		observer = NewObserver()
	}
	return &Authenticator{
		provider: provider,
		users:    users,
		sessions: sessions,
		ttl:      cache.SessionCacheConfig.TTL,
		observer: observer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *Authenticator) Observer() *Observer {
	return a.observer
}

// SignIn exchanges an authorization code, loads or creates the user's
// profile and keeps it for the session
func (a *Authenticator) SignIn(ctx context.Context, code, state string) (*Session, error) {
	identity, err := a.provider.Exchange(ctx, code, state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	profile, err := a.loadProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	cache.SafeDelete(ctx, a.sessions, revokedKey(identity.Token))
	a.remember(ctx, identity.Token, profile)

	a.logger.Info("User signed in", "user_id", profile.ID, "role", profile.Role)
	a.observer.Publish(AuthEvent{UserID: profile.ID, Kind: EventSignedIn})
	return &Session{Token: identity.Token, Profile: profile}, nil
}

// SignOut forgets the session and revokes the token. Signing out an
// unknown token is not an error.
func (a *Authenticator) SignOut(ctx context.Context, token string) error {
	var profile Profile
	err := a.sessions.Get(ctx, sessionKey(token), &profile)
	if err != nil && !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if token != "" {
		if err := a.sessions.SetString(ctx, revokedKey(token), profile.ID, RevocationTTL); err != nil {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
	}
	if err := a.sessions.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if profile.ID != "" {
		a.logger.Info("User signed out", "user_id", profile.ID)
		a.observer.Publish(AuthEvent{UserID: profile.ID, Kind: EventSignedOut})
	}
	return nil
}

// Current returns the profile of token's session. A token without a cached
// session is verified with the provider and its profile cached again.
// Signed-out tokens are rejected.
func (a *Authenticator) Current(ctx context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	revoked, err := a.sessions.Exists(ctx, revokedKey(token))
	switch {
	case errors.Is(err, cache.ErrCacheNotAvailable):
		// without Redis there are no sessions to revoke
	case err != nil:
		return nil, fmt.Errorf("%w: revocation check failed: %v", ErrUnauthenticated, err)
	case revoked:
		return nil, fmt.Errorf("%w: session signed out", ErrUnauthenticated)
	}

	var profile Profile
	err = a.sessions.Get(ctx, sessionKey(token), &profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		a.logger.Warn("Failed to read session, verifying token", "error", err)
	}

	identity, err := a.provider.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	loaded, err := a.loadProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	a.remember(ctx, token, loaded)
	return loaded, nil
}

// Refresh replaces the cached profile after the user changed it
func (a *Authenticator) Refresh(ctx context.Context, token string, user models.User) {
	var profile Profile
	if err := a.sessions.Get(ctx, sessionKey(token), &profile); err != nil {
		return
	}
	profile.User = user
	a.remember(ctx, token, &profile)
}

// loadProfile reads the stored profile; the first sign-in creates it from
// the identity. The stored role wins over the provider's.
func (a *Authenticator) loadProfile(ctx context.Context, identity *Identity) (*Profile, error) {
	user, err := a.users.GetByID(ctx, identity.User.ID)
	if store.IsNotFound(err) {
		created := identity.User
		if !created.Role.IsValid() {
			created.Role = models.RoleLearner
		}
		if err := a.users.Create(ctx, &created); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		a.logger.Info("Created profile on first sign-in", "user_id", created.ID, "role", created.Role)
		created.JoinedAt = a.now()
		user = &created
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &Profile{User: *user, SignedInAt: a.now()}, nil
}

func (a *Authenticator) remember(ctx context.Context, token string, profile *Profile) {
	if err := a.sessions.Set(ctx, sessionKey(token), profile, a.ttl); err != nil {
		a.logger.Warn("Failed to cache session", "user_id", profile.ID, "error", err)
	}
}

// sessionKey keeps raw tokens out of Redis
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func revokedKey(token string) string {
	return "revoked:" + sessionKey(token)
}

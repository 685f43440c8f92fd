package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/learnhub-service/internal/config"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrInvalidToken    = errors.New("invalid token")
)

// Identity is who the identity provider says the caller is
type Identity struct {
	Token string
	User  models.User
}

// Provider is the external authentication service
type Provider interface {
	// Exchange trades an authorization code for a token and its identity
	Exchange(ctx context.Context, code, state string) (*Identity, error)
	// Verify checks a token and returns its identity
	Verify(ctx context.Context, token string) (*Identity, error)
}

// CasdoorProvider authenticates through Casdoor's OAuth endpoints
type CasdoorProvider struct {
	client *casdoorsdk.Client
}

func NewCasdoorProvider(cfg config.CasdoorConfig) *CasdoorProvider {
	return &CasdoorProvider{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Cert,
			cfg.Organization,
			cfg.Application,
		),
	}
}

func (p *CasdoorProvider) Exchange(ctx context.Context, code, state string) (*Identity, error) {
	token, err := p.client.GetOAuthToken(code, state)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return p.Verify(ctx, token.AccessToken)
}

func (p *CasdoorProvider) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := p.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Id == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return &Identity{
		Token: token,
		User: models.User{
			ID:       claims.Id,
			Name:     claims.DisplayName,
			Email:    claims.Email,
			Role:     roleFromType(claims.Type),
			PhotoURL: claims.Avatar,
		},
	}, nil
}

// roleFromType maps the Casdoor user type used when a profile is first created
func roleFromType(userType string) models.UserRole {
	userType = strings.ToLower(userType)
	role := models.UserRole(userType)
	switch userType {
	case "instructor", "educator":
		role = models.RoleTeacher
	case "administrator":
		role = models.RoleAdmin
	}
	if !role.IsValid() {
		return models.RoleLearner
	}
	return role
}

// Package firebase implements the identity provider port against the
// Firebase Auth REST surface (Identity Toolkit), keyed by the project's
// web API key.
package firebase

import (
	"context"
	"fmt"

	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
)

type firebaseProvider struct {
	api *identitytoolkit.RelyingpartyService
}

// NewProvider creates an identity provider talking to Firebase Auth
// with the given web API key.
func NewProvider(ctx context.Context, apiKey string) (portssvc.IdentityProviderSvcFacade, error) {
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey), option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to create identitytoolkit client: %w", err)
	}
	return &firebaseProvider{api: svc.Relyingparty}, nil
}

var _ portssvc.IdentityProviderSvcFacade = (*firebaseProvider)(nil)

func (p *firebaseProvider) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}
	resp, err := p.api.SignupNewUser(req).Context(ctx).Do()
	if err != nil {
		// Firebase reports EMAIL_EXISTS and WEAK_PASSWORD as 400s; both
		// surface to the caller as an auth rejection.
		return nil, fmt.Errorf("firebase signup rejected: %w", apperrors.ErrAuth)
	}

	return &domain.User{
		UserID:      resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
	}, nil
}

func (p *firebaseProvider) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}
	resp, err := p.api.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("firebase credential check failed: %w", apperrors.ErrAuth)
	}

	return &domain.User{
		UserID:      resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
	}, nil
}

// SignOut is a no-op: Firebase ID tokens are stateless and simply
// expire; there is no server-side session to revoke at this tier.
func (p *firebaseProvider) SignOut(ctx context.Context, userID string) error {
	return nil
}

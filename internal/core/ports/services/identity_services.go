package services

import (
	"context"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
)

// IdentityProviderSvcFacade is the external authentication collaborator.
// The core only needs the three session-affecting operations; rejections
// wrap apperrors.ErrAuth.
type IdentityProviderSvcFacade interface {
	// Register creates a new account with the provider.
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)

	// Authenticate verifies credentials and returns the identity.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// SignOut terminates the provider-side session, if the provider has
	// one. Providers with stateless tokens treat this as a no-op.
	SignOut(ctx context.Context, userID string) error
}

// Package local implements the identity provider port on top of the
// application's own postgres account store. Useful for self-hosted
// deployments that don't want a Firebase project.
package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/models"
	"github.com/mustafajawed/Budget-Manager/internal/utils"
	"github.com/mustafajawed/Budget-Manager/internal/utils/mapping"
)

type localProvider struct {
	users portsrepo.UserRepository
}

// NewProvider creates an identity provider backed by the local user store.
func NewProvider(users portsrepo.UserRepository) portssvc.IdentityProviderSvcFacade {
	return &localProvider{users: users}
}

var _ portssvc.IdentityProviderSvcFacade = (*localProvider)(nil)

func (p *localProvider) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		UserID:       uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	created := mapping.ToDomainUser(user)
	return &created, nil
}

func (p *localProvider) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := p.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same failure as a bad password so callers can't probe
			// which emails are registered.
			return nil, apperrors.ErrAuth
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrAuth
	}

	authenticated := mapping.ToDomainUser(*user)
	return &authenticated, nil
}

// SignOut is a no-op: local sessions are stateless JWTs, there is no
// provider-side session to revoke.
func (p *localProvider) SignOut(ctx context.Context, userID string) error {
	return nil
}

package repositories

import (
	"context"

	"github.com/mustafajawed/Budget-Manager/internal/models"
)

// UserRepository defines storage for the local identity provider's
// account records. The Firebase provider does not use it.
type UserRepository interface {
	// SaveUser persists a new local account. Returns
	// apperrors.ErrDuplicate when the email is already registered.
	SaveUser(ctx context.Context, user models.User) error

	// FindUserByEmail retrieves an account by its unique email.
	// Returns apperrors.ErrNotFound when absent.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// FindUserByID retrieves an account by its ID.
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
}

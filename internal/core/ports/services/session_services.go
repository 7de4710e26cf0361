package services

import (
	"context"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
)

// LoginResult is what a successful login hands back to the HTTP layer.
type LoginResult struct {
	User  domain.User
	Token string
}

// SessionSvcFacade is the session gate: it fronts the identity provider
// and drives ledger mirror lifecycle off the authentication stream.
type SessionSvcFacade interface {
	// Register creates a new account. Session state is unaffected.
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)

	// Login authenticates, emits a signed-in event (which opens the
	// user's ledger mirror) and issues an access token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Logout terminates the session and emits a signed-out event
	// (which discards the mirror).
	Logout(ctx context.Context, userID string) error

	// Close stops the auth-event watcher and unsubscribes it.
	Close()
}

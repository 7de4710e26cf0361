package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/platform/config"
	"github.com/mustafajawed/Budget-Manager/internal/utils"
)

// authChange pairs an auth event with an ack channel so callers can
// wait until the gate has acted on it (mirror loaded or discarded)
// before answering the HTTP request.
type authChange struct {
	event domain.AuthEvent
	ack   chan struct{}
}

// sessionServiceImpl is the session gate. It fronts the identity
// provider, turns logins and logouts into a (user | none) event stream,
// and runs the single watcher that drives ledger mirror lifecycle off
// that stream. Exactly one subscription exists per running service;
// Close tears it down so a stale watcher can never act on a dead
// session.
type sessionServiceImpl struct {
	BaseService
	identity portssvc.IdentityProviderSvcFacade
	ledger   portssvc.LedgerSvcFacade
	cfg      *config.Config

	changes   chan authChange
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewSessionService creates the session gate and starts its auth-event watcher.
func NewSessionService(cfg *config.Config, identity portssvc.IdentityProviderSvcFacade, ledger portssvc.LedgerSvcFacade) portssvc.SessionSvcFacade {
	svc := &sessionServiceImpl{
		identity: identity,
		ledger:   ledger,
		cfg:      cfg,
		changes:  make(chan authChange),
		done:     make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.watch()

	return svc
}

// Ensure sessionServiceImpl implements the SessionSvcFacade interface
var _ portssvc.SessionSvcFacade = (*sessionServiceImpl)(nil)

func (s *sessionServiceImpl) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	user, err := s.identity.Register(ctx, email, password, displayName)
	if err != nil {
		s.LogError(ctx, err, "Sign-up rejected by identity provider",
			slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("user_id", user.UserID))
	return user, nil
}

func (s *sessionServiceImpl) Login(ctx context.Context, email, password string) (*portssvc.LoginResult, error) {
	user, err := s.identity.Authenticate(ctx, email, password)
	if err != nil {
		s.LogWarn(ctx, "Login rejected",
			slog.String("email", email),
			slog.String("error", err.Error()))
		return nil, err
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token",
			slog.String("user_id", user.UserID))
		return nil, err
	}

	s.emit(ctx, domain.AuthEvent{User: user, UserID: user.UserID})

	s.LogInfo(ctx, "User logged in",
		slog.String("user_id", user.UserID))
	return &portssvc.LoginResult{User: *user, Token: token}, nil
}

func (s *sessionServiceImpl) Logout(ctx context.Context, userID string) error {
	// Remote sign-out failures are logged, never propagated: the local
	// session is discarded regardless so no budgets can leak into a
	// later sign-in.
	if err := s.identity.SignOut(ctx, userID); err != nil {
		s.LogError(ctx, err, "Identity provider sign-out failed",
			slog.String("user_id", userID))
	}

	s.emit(ctx, domain.AuthEvent{User: nil, UserID: userID})

	s.LogInfo(ctx, "User logged out",
		slog.String("user_id", userID))
	return nil
}

func (s *sessionServiceImpl) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

// emit hands an auth event to the watcher and waits for it to be acted
// on, so the mirror is ready (or gone) by the time the caller responds.
func (s *sessionServiceImpl) emit(ctx context.Context, event domain.AuthEvent) {
	change := authChange{event: event, ack: make(chan struct{})}

	select {
	case s.changes <- change:
	case <-s.done:
		return
	case <-ctx.Done():
		return
	}

	select {
	case <-change.ack:
	case <-s.done:
	case <-ctx.Done():
	}
}

// watch is the single auth-state subscription: signed-in loads the
// user's mirror, signed-out discards it.
func (s *sessionServiceImpl) watch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case change := <-s.changes:
			s.handle(change)
		}
	}
}

func (s *sessionServiceImpl) handle(change authChange) {
	defer close(change.ack)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if change.event.SignedIn() {
		// A failed load is the accepted read-error limitation: the
		// session stays open over an empty mirror.
		if err := s.ledger.OpenSession(ctx, change.event.UserID); err != nil {
			s.LogError(ctx, err, "Ledger load failed, dashboard will be empty",
				slog.String("user_id", change.event.UserID))
		}
		return
	}

	s.ledger.CloseSession(change.event.UserID)
}

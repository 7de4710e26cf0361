package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	"github.com/mustafajawed/Budget-Manager/internal/models"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PgxUserRepository stores local identity provider accounts.
type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user models.User) error {
	query := `
        INSERT INTO users (user_id, email, display_name, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	_, err := r.db.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
        SELECT user_id, email, display_name, password_hash, created_at
        FROM users
        WHERE email = $1;
    `
	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.UserID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
        SELECT user_id, email, display_name, password_hash, created_at
        FROM users
        WHERE user_id = $1;
    `
	var user models.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return &user, nil
}

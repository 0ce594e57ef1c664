package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/souravhub/employee-login-backend/internal/apperr"
	"github.com/souravhub/employee-login-backend/internal/model"
)

const userColumns = `id, user_name, first_name, last_name, user_type, job_profile, email, password_hash, refresh_token_hash, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.UserName,
		&user.FirstName,
		&user.LastName,
		&user.UserType,
		&user.JobProfile,
		&user.Email,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, user_name, first_name, last_name, user_type, job_profile, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.UserName, user.FirstName, user.LastName, user.UserType, user.JobProfile, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("username or email already exists")
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, userID)
	return scanUser(row)
}

// GetUserByHandle resolves a login identifier that may be either the
// username or the email address.
func (s *Store) GetUserByHandle(ctx context.Context, handle string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(user_name) = LOWER($1) OR LOWER(email) = LOWER($1)
	`, handle)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type UserUpdate struct {
	FirstName    *string
	LastName     *string
	JobProfile   *string
	Email        *string
	PasswordHash *string
}

func (s *Store) UpdateUser(ctx context.Context, userID string, update UserUpdate) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    job_profile = COALESCE($4, job_profile),
		    email = COALESCE($5, email),
		    password_hash = COALESCE($6, password_hash),
		    updated_at = $7
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, update.FirstName, update.LastName, update.JobProfile, update.Email, update.PasswordHash, time.Now().UTC())
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, apperr.Conflict("email already exists")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, apperr.NotFound("user not found")
		}
		return model.User{}, err
	}
	return user, nil
}

// SetRefreshTokenHash overwrites the stored refresh handle. Login always
// replaces whatever handle was live before.
func (s *Store) SetRefreshTokenHash(ctx context.Context, userID, tokenHash string, setAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_set_at = $3, updated_at = $3
		WHERE id = $1
	`, userID, tokenHash, setAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// RotateRefreshTokenHash swaps the stored handle from oldHash to newHash
// in one conditional update. A false return means the presented token is
// not the currently live handle (already rotated, revoked, or never
// issued) and the rotation must be rejected.
func (s *Store) RotateRefreshTokenHash(ctx context.Context, userID, oldHash, newHash string, setAt time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $3, refresh_token_set_at = $4, updated_at = $4
		WHERE id = $1 AND refresh_token_hash = $2
	`, userID, oldHash, newHash, setAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ClearRefreshTokenHash revokes the live refresh handle. Clearing an
// already-empty handle is a no-op, so the call is idempotent.
func (s *Store) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_set_at = NULL, updated_at = $2
		WHERE id = $1
	`, userID, time.Now().UTC())
	return err
}

// SweepStaleRefreshHandles clears handles whose refresh window has already
// elapsed. They can no longer be exchanged, so holding them serves nothing.
func (s *Store) SweepStaleRefreshHandles(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_set_at = NULL, updated_at = $2
		WHERE refresh_token_hash IS NOT NULL AND refresh_token_set_at < $1
	`, cutoff, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

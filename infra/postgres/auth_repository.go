package postgres

import (
	"catalog/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// AuthRepository stores users and personal access tokens with plain SQL.
type AuthRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewAuthRepository(pg *PgRepository, timeout time.Duration) *AuthRepository {
	return &AuthRepository{
		db:      pg.db,
		timeout: timeout,
	}
}

func (r *AuthRepository) GetUser(ctx context.Context, id uint64) (domain.User, error) {
	var u domain.User
	query := r.db.Rebind(`SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = ?`)

	err := withRetry(ctx, r.timeout, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &u, query, id)
	})
	if err != nil {
		return domain.User{}, noRows(err)
	}

	return u, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	query := r.db.Rebind(`SELECT id, name, email, password, created_at, updated_at FROM users WHERE LOWER(email) = LOWER(?)`)

	err := withRetry(ctx, r.timeout, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &u, query, email)
	})
	if err != nil {
		return domain.User{}, noRows(err)
	}

	return u, nil
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (name, email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	err := withRetry(ctx, r.timeout, func(ctx context.Context) error {
		return r.db.QueryRowxContext(ctx, query,
			user.Name, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
		).Scan(&user.ID)
	})

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email %s", domain.ErrConflict, user.Email)
	}

	return err
}

func (r *AuthRepository) GetToken(ctx context.Context, id uint64) (domain.AccessToken, error) {
	var t domain.AccessToken
	query := r.db.Rebind(`SELECT id, user_id, name, token, last_used_at, created_at FROM personal_access_tokens WHERE id = ?`)

	err := withRetry(ctx, r.timeout, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &t, query, id)
	})
	if err != nil {
		return domain.AccessToken{}, noRows(err)
	}

	return t, nil
}

func (r *AuthRepository) CreateToken(ctx context.Context, token *domain.AccessToken) error {
	query := r.db.Rebind(`
		INSERT INTO personal_access_tokens (user_id, name, token, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	return withRetry(ctx, r.timeout, func(ctx context.Context) error {
		return r.db.QueryRowxContext(ctx, query,
			token.UserID, token.Name, token.Token, token.CreatedAt,
		).Scan(&token.ID)
	})
}

func (r *AuthRepository) TouchToken(ctx context.Context, id uint64, usedAt time.Time) error {
	query := r.db.Rebind(`UPDATE personal_access_tokens SET last_used_at = ? WHERE id = ?`)

	return withRetry(ctx, r.timeout, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, usedAt, id)
		return err
	})
}

func (r *AuthRepository) DeleteToken(ctx context.Context, id uint64) error {
	query := r.db.Rebind(`DELETE FROM personal_access_tokens WHERE id = ?`)

	var affected int64
	err := withRetry(ctx, r.timeout, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

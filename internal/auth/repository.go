package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Repository loads user accounts for credential checks.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, full_name, role_id, vendedor_id, active, created_at, last_login_at
		FROM users
		WHERE username = $1
	`, username)

	var u User
	var vendedorID pgtype.Int8
	var lastLogin pgtype.Timestamptz
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.RoleID, &vendedorID, &u.Active, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("auth: get user: %w", err)
	}
	if vendedorID.Valid {
		u.VendedorID = &vendedorID.Int64
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

func (r *repository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("auth: touch last login: %w", err)
	}
	return nil
}

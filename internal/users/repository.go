package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Repository persists users in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, name, role, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all accounts ordered by name.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser retrieves one account by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// CreateUser inserts an account row. Email uniqueness is enforced by
// the store.
func (r *Repository) CreateUser(ctx context.Context, user User) (*User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, role, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Email, user.Name, user.Role, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	return &user, nil
}

// UpdateUser overwrites an account row.
func (r *Repository) UpdateUser(ctx context.Context, id int64, user User) (*User, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, role = $3, password_hash = $4, is_active = $5, updated_at = $6
		WHERE id = $7`,
		user.Email, user.Name, user.Role, user.PasswordHash, user.IsActive, user.UpdatedAt, id,
	)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("user %d: %w", id, httpx.ErrNotFound)
	}
	user.ID = id
	return &user, nil
}

// DeleteUser removes an account row.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

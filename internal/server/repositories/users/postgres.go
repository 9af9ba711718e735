// Package users provides a PostgreSQL-backed repository for platform
// accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

// Create inserts a new user. Emails are stored lowercased; the unique index
// surfaces as common.ErrorEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(user.Email)

	query := `
		INSERT INTO users (id, email, full_name, role, password_hash, profile_completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.FullName, user.Role, user.PasswordHash, user.ProfileCompleted,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email (case-insensitive).
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, profile_completed, deactivated, created_at
		FROM users
		WHERE email = lower($1)
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, profile_completed, deactivated, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// SetProfileCompleted updates the derived profile_completed flag.
func (r *PostgresRepository) SetProfileCompleted(ctx context.Context, id string, completed bool) error {
	query := `
		UPDATE users SET profile_completed = $2 WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, completed); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns all users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, profile_completed, deactivated, created_at
		FROM users
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.Role,
			&user.PasswordHash, &user.ProfileCompleted, &user.Deactivated, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Role,
		&user.PasswordHash, &user.ProfileCompleted, &user.Deactivated, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Package profiles provides a PostgreSQL-backed repository for role-specific
// profile records.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func tableFor(role common.Role) (string, error) {
	switch role {
	case common.RoleCandidate:
		return "candidate_profiles", nil
	case common.RoleRecruiter:
		return "recruiter_profiles", nil
	}
	return "", fmt.Errorf("no profile table for role %q", role)
}

// CreateEmpty inserts the empty profile row for a fresh account. Conflicts
// are ignored so a replayed creation is harmless.
func (r *PostgresRepository) CreateEmpty(ctx context.Context, userID string, role common.Role) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, table)
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the profile row for userID.
func (r *PostgresRepository) Get(ctx context.Context, userID string, role common.Role) (*models.Profile, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT user_id, headline, location, about, resume_key, company, updated_at
		FROM %s
		WHERE user_id = $1
	`, table)
	p := &models.Profile{}
	err = r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.Headline, &p.Location, &p.About, &p.ResumeKey, &p.Company, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable profile fields.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile, role common.Role) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET headline = $2, location = $3, about = $4, resume_key = $5, company = $6, updated_at = now()
		WHERE user_id = $1
	`, table)
	if _, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Headline, p.Location, p.About, p.ResumeKey, p.Company); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

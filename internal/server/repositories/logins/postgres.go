// Package logins stores the login audit trail.
package logins

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.LoginRecord) error {
	query := `
		INSERT INTO logins (email, login_time, status)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, rec.Email, rec.LoginTime, rec.Status); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

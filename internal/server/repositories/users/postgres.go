package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at, reset_token_hash, reset_token_expires_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		role      string
		tokenHash sql.NullString
		expiresAt sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role,
		&u.CreatedAt, &u.UpdatedAt, &tokenHash, &expiresAt); err != nil {
		return nil, err
	}
	u.Role = models.ParseRole(role)
	if tokenHash.Valid {
		u.ResetTokenHash = &tokenHash.String
	}
	if expiresAt.Valid {
		u.ResetTokenExpiresAt = &expiresAt.Time
	}
	return &u, nil
}

// execOne runs a single-row mutation and maps "no row matched" to
// common.ErrorNotFound.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, email, name, newEmail string, role models.Role, now time.Time) error {
	query :=
		`UPDATE users SET name = $1, email = $2, role = $3, updated_at = $4
		 WHERE email = $5`
	return r.execOne(ctx, query, name, newEmail, string(role), now, email)
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, email string, role models.Role, now time.Time) error {
	query := `UPDATE users SET role = $1, updated_at = $2 WHERE email = $3`
	return r.execOne(ctx, query, string(role), now, email)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE email = $3`
	return r.execOne(ctx, query, passwordHash, now, email)
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE email = $1`, email)
}

// SetResetToken stores the digest of a fresh reset token, replacing any
// earlier one.
func (r *PostgresRepository) SetResetToken(ctx context.Context, email, tokenHash string, expiresAt, now time.Time) error {
	query :=
		`UPDATE users SET reset_token_hash = $1, reset_token_expires_at = $2, updated_at = $3
		 WHERE email = $4`
	return r.execOne(ctx, query, tokenHash, expiresAt, now, email)
}

// ConsumeResetToken sets a new password on the user holding an unexpired
// token with the given digest and clears the token in the same statement.
// It returns the user's email, or common.ErrorNotFound when nothing matched.
func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	query :=
		`UPDATE users SET password_hash = $1, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = $2
		 WHERE reset_token_hash = $3 AND reset_token_expires_at > $2
		 RETURNING email`

	var email string
	err := r.db.QueryRowContext(ctx, query, passwordHash, now, tokenHash).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return email, nil
}

package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// Repository is the credential store. Every mutation is a single statement,
// so it is atomic per user row.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, email, name, newEmail string, role models.Role, now time.Time) error
	UpdateRole(ctx context.Context, email string, role models.Role, now time.Time) error
	UpdatePassword(ctx context.Context, email, passwordHash string, now time.Time) error
	Delete(ctx context.Context, email string) error
	SetResetToken(ctx context.Context, email, tokenHash string, expiresAt, now time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error)
}

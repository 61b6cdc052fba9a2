package logins

import (
	"context"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// Repository appends login audit records.
type Repository interface {
	Create(ctx context.Context, rec *models.LoginRecord) error
}

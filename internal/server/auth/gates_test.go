package auth

import (
	"testing"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireActive(t *testing.T) {
	t.Parallel()

	p := &Principal{User: &models.User{Email: "a@x.com"}, Role: models.RoleUser}
	got, err := RequireActive(p)
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = RequireActive(nil)
	assert.ErrorIs(t, err, common.ErrInactiveUser)

	_, err = RequireActive(&Principal{Role: models.RoleAdmin})
	assert.ErrorIs(t, err, common.ErrInactiveUser)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	user := &Principal{User: &models.User{Email: "u@x.com", Role: models.RoleUser}, Role: models.RoleUser}
	_, err := RequireAdmin(user)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Equal(t, models.RoleUser, user.Role, "principal must not be mutated")

	admin := &Principal{User: &models.User{Email: "root@x.com", Role: models.RoleAdmin}, Role: models.RoleAdmin}
	got, err := RequireAdmin(admin)
	require.NoError(t, err)
	assert.Same(t, admin, got)

	_, err = RequireAdmin(nil)
	assert.ErrorIs(t, err, common.ErrInactiveUser)
}

package auth

import (
	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// RequireActive admits any resolved principal. Every stored user is active;
// the check exists so account disabling has a single place to land.
func RequireActive(p *Principal) (*Principal, error) {
	if p == nil || p.User == nil {
		return nil, common.ErrInactiveUser
	}
	return p, nil
}

// RequireAdmin admits active principals whose token carries the admin role.
func RequireAdmin(p *Principal) (*Principal, error) {
	p, err := RequireActive(p)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleAdmin {
		return nil, common.ErrForbidden
	}
	return p, nil
}

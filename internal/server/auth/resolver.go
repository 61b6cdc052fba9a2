package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// UserFinder is the part of the credential store the resolver needs.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Principal is the authenticated caller. Role comes from the token, so a
// user promoted after login keeps the old role until a new token is issued.
type Principal struct {
	User *models.User
	Role models.Role
}

func (p *Principal) Email() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Email
}

// SelectToken picks the raw token: the cookie value wins over the header.
func SelectToken(cookieToken, headerToken string) string {
	for _, t := range []string{cookieToken, headerToken} {
		if t != "" {
			return t
		}
	}
	return ""
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>"
// value, or "" for any other scheme.
func ExtractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Resolver turns a raw bearer token into a Principal.
type Resolver struct {
	issuer *TokenIssuer
	users  UserFinder
	logger logging.Logger
}

func NewResolver(issuer *TokenIssuer, users UserFinder, logger logging.Logger) *Resolver {
	return &Resolver{issuer: issuer, users: users, logger: logger.With("module", "auth")}
}

// Resolve verifies the token (cookie first, then header) and loads its user.
//
// Errors: common.ErrMissingToken when neither source carries a token,
// common.ErrInvalidToken for bad, expired or orphaned tokens and
// common.ErrorInternal when the store fails.
func (r *Resolver) Resolve(ctx context.Context, cookieToken, headerToken string) (*Principal, error) {
	raw := SelectToken(cookieToken, headerToken)
	if raw == "" {
		return nil, common.ErrMissingToken
	}

	claims, err := r.issuer.Parse(raw)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := r.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		r.logger.Error(ctx, "principal lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &Principal{User: user, Role: models.Role(claims.Role)}, nil
}

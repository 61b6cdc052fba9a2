package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer token payload: standard claims plus the role the user
// held when the token was issued.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// TokenIssuer signs and parses HMAC bearer tokens.
type TokenIssuer struct {
	method jwt.SigningMethod
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer for one of HS256, HS384 or HS512.
// ttl is the lifetime used when Issue is called with ttl <= 0.
func NewTokenIssuer(secret []byte, alg string, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	method := jwt.GetSigningMethod(alg)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok || !strings.HasPrefix(alg, "HS") {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &TokenIssuer{method: method, secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for subject (the user's email) expiring after ttl.
func (i *TokenIssuer) Issue(subject, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := i.now().UTC()

	token := jwt.NewWithClaims(i.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse verifies the signature, algorithm and expiry of tokenString.
// Every failure is reported as common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// TTL is the default token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

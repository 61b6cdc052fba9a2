// Package services contains server-side business logic. This file implements
// UserService: signup, login, API tokens and the admin user management
// operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	DashboardRoute      = "/dashboard"
	AdminDashboardRoute = "/admin-dashboard"
)

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	NeedsRehash(hash string) bool
}

// TokenMinter signs bearer tokens; ttl <= 0 selects the default lifetime.
type TokenMinter interface {
	Issue(subject, role string, ttl time.Duration) (string, error)
	TTL() time.Duration
}

// SignupInput is the signup form.
type SignupInput struct {
	FullName        string `json:"fullname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserUpdate is the admin edit form for a user.
type UserUpdate struct {
	Name  string `json:"name"`
	Email string `json:"new_email"`
	Role  string `json:"role"`
}

// LoginResult is what a browser login needs: the token for the cookie and
// where to go next.
type LoginResult struct {
	Token    string
	Role     models.Role
	Redirect string
}

// UserService owns the users table.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenMinter
	logger      logging.Logger
	now         func() time.Time

	// dummyHash is compared against when the email is unknown so a failed
	// login costs the same either way.
	dummyHash string
}

// NewUserService constructs a UserService. It fails only if the hasher
// cannot hash at all.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenMinter, logger logging.Logger) (*UserService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "users"),
		now:         func() time.Time { return time.Now().UTC() },
		dummyHash:   dummy,
	}, nil
}

// Signup registers a regular user. The role is always user.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	name := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: fullname, email and password are required", common.ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return nil, common.ErrPasswordMismatch
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "signup lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		s.logger.Error(ctx, "signup insert failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "email", email)
	return u, nil
}

// authenticate checks credentials. Unknown emails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *UserService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			if err := repo.UpdatePassword(ctx, user.Email, hash, s.now()); err != nil {
				s.logger.Warn(ctx, "password rehash not saved", "email", user.Email, "error", err)
			}
		}
	}

	return user, nil
}

// Login authenticates a browser user, records the login and returns the
// token plus the dashboard matching the stored role.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "failed login", "email", email)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.Email, string(user.Role), 0)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return nil, common.ErrorInternal
	}

	rec := &models.LoginRecord{Email: user.Email, LoginTime: s.now(), Status: models.LoginStatusSuccess}
	if err := s.repomanager.Logins(s.db).Create(ctx, rec); err != nil {
		s.logger.Warn(ctx, "login audit not saved", "email", user.Email, "error", err)
	}

	redirect := DashboardRoute
	if user.IsAdmin() {
		redirect = AdminDashboardRoute
	}

	s.logger.Info(ctx, "user logged in", "email", user.Email, "role", string(user.Role))
	return &LoginResult{Token: token, Role: user.Role, Redirect: redirect}, nil
}

// IssueAPIToken authenticates an API client and returns a bearer token.
func (s *UserService) IssueAPIToken(ctx context.Context, email, password string) (string, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(user.Email, string(user.Role), 0)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

// TokenTTL is the lifetime of tokens issued by Login.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Account returns the stored profile of email.
func (s *UserService) Account(ctx context.Context, email string) (*models.User, error) {
	return s.GetUser(ctx, email)
}

// GetUser returns a user or common.ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

// UpdateUser changes name, email and role of email. Unknown roles become
// user; an email owned by someone else yields common.ErrDuplicateEmail.
func (s *UserService) UpdateUser(ctx context.Context, actor, email string, upd UserUpdate) error {
	newEmail := strings.TrimSpace(upd.Email)
	name := strings.TrimSpace(upd.Name)
	if newEmail == "" || name == "" {
		return fmt.Errorf("%w: name and new_email are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	if newEmail != email {
		if _, err := repo.GetUserByEmail(ctx, newEmail); err == nil {
			return common.ErrDuplicateEmail
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}
	}

	if err := repo.Update(ctx, email, name, newEmail, models.ParseRole(upd.Role), s.now()); err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	s.logger.Info(ctx, "user updated", "by", actor, "email", email, "new_email", newEmail)
	return nil
}

// AssignAdmin promotes email. Admins cannot change their own role.
func (s *UserService) AssignAdmin(ctx context.Context, actor, email string) error {
	if actor == email {
		return common.ErrSelfModification
	}
	if err := s.repomanager.Users(s.db).UpdateRole(ctx, email, models.RoleAdmin, s.now()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating role: %w", err)
	}
	s.logger.Info(ctx, "user promoted to admin", "by", actor, "email", email)
	return nil
}

// DeleteUser removes email. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor, email string) error {
	if actor == email {
		return common.ErrSelfModification
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	s.logger.Info(ctx, "user deleted", "by", actor, "email", email)
	return nil
}

// BootstrapAdmin creates an admin account, or promotes and re-passwords an
// existing user, in one transaction. It returns true when a user was created.
func (s *UserService) BootstrapAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	created := false
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		now := s.now()

		_, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if err := repo.UpdateRole(ctx, email, models.RoleAdmin, now); err != nil {
				return err
			}
			return repo.UpdatePassword(ctx, email, hash, now)
		case errors.Is(err, common.ErrorNotFound):
			if name == "" {
				name = email
			}
			_, err := repo.Create(ctx, &models.User{
				ID:           uuid.NewString(),
				Name:         name,
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleAdmin,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			created = err == nil
			return err
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	s.logger.Info(ctx, "admin bootstrapped", "email", email, "created", created)
	return created, nil
}

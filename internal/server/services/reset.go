package services

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/notify"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/repomanager"
)

// ResetRequestedMessage is returned for every reset request, whether or not
// the email is registered.
const ResetRequestedMessage = "If an account with that email exists, a password reset link has been sent."

// ResetPasswordRoute is where emailed links point.
const ResetPasswordRoute = "/reset-password"

// resetTokenBytes is the entropy of a reset token before encoding.
const resetTokenBytes = 32

// ResetService implements the forgot/reset password flow. Tokens are stored
// only as SHA-256 digests.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	notifier    notify.Notifier
	baseURL     string
	logger      logging.Logger
	now         func() time.Time
	newToken    func() (string, error)
}

func NewResetService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, notifier notify.Notifier, publicBaseURL string, logger logging.Logger) *ResetService {
	return &ResetService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		notifier:    notifier,
		baseURL:     strings.TrimRight(publicBaseURL, "/"),
		logger:      logger.With("module", "reset"),
		now:         func() time.Time { return time.Now().UTC() },
		newToken:    func() (string, error) { return common.MakeRandURLSafeString(resetTokenBytes) },
	}
}

// RequestReset issues a token for email and sends the link. The returned
// message never depends on whether email is registered; failures are
// logged only.
func (s *ResetService) RequestReset(ctx context.Context, email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ResetRequestedMessage
	}

	token, err := s.newToken()
	if err != nil {
		s.logger.Error(ctx, "reset token generation failed", "error", err)
		return ResetRequestedMessage
	}

	now := s.now()
	err = s.repomanager.Users(s.db).SetResetToken(ctx, email, common.HashToken(token), now.Add(common.ResetTokenValidityDuration), now)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "reset token not stored", "error", err)
		}
		return ResetRequestedMessage
	}

	link := s.baseURL + ResetPasswordRoute + "?token=" + url.QueryEscape(token)
	if err := s.notifier.SendPasswordReset(ctx, email, link); err != nil {
		s.logger.Error(ctx, "reset link not delivered", "email", email, "error", err)
	}

	return ResetRequestedMessage
}

// ValidateResetToken is the cheap pre-check before showing the reset form.
func (s *ResetService) ValidateResetToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return common.ErrInvalidOrExpiredResetToken
	}
	return nil
}

// ConsumeReset sets a new password for the holder of token. A token works
// once and only before it expires; every failure to match is reported as
// common.ErrInvalidOrExpiredResetToken.
func (s *ResetService) ConsumeReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return common.ErrPasswordMismatch
	}
	if err := s.ValidateResetToken(token); err != nil {
		return err
	}
	if newPassword == "" {
		return common.ErrValidation
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	email, err := s.repomanager.Users(s.db).ConsumeResetToken(ctx, common.HashToken(token), hash, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidOrExpiredResetToken
		}
		s.logger.Error(ctx, "reset consumption failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset", "email", email)
	return nil
}

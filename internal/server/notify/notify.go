// Package notify delivers password reset links to users.
package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/config"
)

// Notifier sends a reset link to the owner of email.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// LogNotifier writes the link to the log instead of mailing it. It is the
// default when no SMTP relay is configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	n.logger.Info(ctx, "password reset link", "email", email, "url", resetURL)
	return nil
}

// sendMail is a seam for smtp.SendMail.
var sendMail = smtp.SendMail

// SMTPNotifier mails reset links through a relay with PLAIN auth.
type SMTPNotifier struct {
	addr string
	host string
	user string
	pass string
	from string
}

func NewSMTPNotifier(host, port, user, pass, from string) *SMTPNotifier {
	if from == "" {
		from = user
	}
	return &SMTPNotifier{addr: net.JoinHostPort(host, port), host: host, user: user, pass: pass, from: from}
}

func (n *SMTPNotifier) SendPasswordReset(_ context.Context, email, resetURL string) error {
	msg := "From: " + n.from + "\r\n" +
		"To: " + email + "\r\n" +
		"Subject: Password reset\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		"Use the link below to choose a new password. It expires in one hour.\r\n\r\n" +
		resetURL + "\r\n"

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.pass, n.host)
	}
	if err := sendMail(n.addr, auth, n.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// FromConfig picks SMTP delivery when a relay host is configured.
func FromConfig(cfg *config.Config, logger logging.Logger) Notifier {
	if cfg.SMTPHost == "" {
		return NewLogNotifier(logger)
	}
	return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
}

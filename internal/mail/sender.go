package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/incident-portal/internal/config"
)

// Sender delivers a single notification email. Implementations are
// best-effort collaborators; callers log failures and move on.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NewSender returns an SMTP-backed sender when a host is configured,
// otherwise a sender that only logs what it would have delivered.
func NewSender(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST not set; notifications will be logged, not delivered")
		return &logSender{logger: logger, from: cfg.From}
	}
	return &smtpSender{cfg: cfg}
}

type smtpSender struct {
	cfg config.SMTPConfig
}

func (s *smtpSender) Send(_ context.Context, recipient, subject, body string) error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, recipient, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, []byte(msg))
}

type logSender struct {
	logger *zap.Logger
	from   string
}

func (s *logSender) Send(_ context.Context, recipient, subject, _ string) error {
	s.logger.Info("notification (not delivered)",
		zap.String("from", s.from),
		zap.String("to", recipient),
		zap.String("subject", subject))
	return nil
}

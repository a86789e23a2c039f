package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
)

// Sender delivers an Email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// New picks SMTP when mail is configured. Outside production it falls back
// to a LogSender; in production without mail it returns nil.
func New(cfg config.Config, log *zap.Logger) Sender {
	switch {
	case cfg.Mail != nil:
		return NewSMTPSender(*cfg.Mail, log)
	case !cfg.IsProduction():
		return NewLogSender(log)
	}
	return nil
}

// LogSender logs messages instead of delivering them. Meant for development.
type LogSender struct {
	log *zap.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender returns a Sender writing to log.
func NewLogSender(log *zap.Logger) *LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSender{log: log}
}

// Send logs e and never fails.
func (s *LogSender) Send(_ context.Context, e Email) error {
	s.log.Info("email (not sent)",
		zap.String("subject", cleanSubject(e.Subject)),
		zap.Strings("to", e.To),
		zap.Strings("cc", e.Cc),
		zap.Int("bcc", len(e.Bcc)),
		zap.Bool("html", e.Body.HTML != ""),
		zap.Int("attachments", len(e.Body.Attachments)),
	)
	return nil
}

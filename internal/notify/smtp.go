package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
)

// ErrNoRecipients is returned when neither the email nor the defaults name a recipient.
var ErrNoRecipients = errors.New("notify: no recipients")

// SMTPSender delivers mail over SMTP with STARTTLS and PLAIN auth.
type SMTPSender struct {
	cfg config.Mail
	log *zap.Logger
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender returns a sender for cfg.
func NewSMTPSender(cfg config.Mail, log *zap.Logger) *SMTPSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTPSender{cfg: cfg, log: log}
}

// Send builds the MIME message and delivers it in a single SMTP session.
func (s *SMTPSender) Send(ctx context.Context, e Email) error {
	msg, err := s.buildMessage(e)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("notify: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.log.Error("smtp send failed", zap.String("host", s.cfg.Host), zap.Error(err))
		return fmt.Errorf("notify: smtp send: %w", err)
	}
	s.log.Info("email sent", zap.String("subject", cleanSubject(e.Subject)))
	return nil
}

func (s *SMTPSender) buildMessage(e Email) (*mail.Msg, error) {
	to := e.To
	if len(to) == 0 {
		to = s.cfg.NotifyTo
	}
	if len(to) == 0 {
		return nil, ErrNoRecipients
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return nil, fmt.Errorf("notify: from: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("notify: to: %w", err)
	}
	if len(e.Cc) > 0 {
		if err := msg.Cc(e.Cc...); err != nil {
			return nil, fmt.Errorf("notify: cc: %w", err)
		}
	}
	if len(e.Bcc) > 0 {
		if err := msg.Bcc(e.Bcc...); err != nil {
			return nil, fmt.Errorf("notify: bcc: %w", err)
		}
	}
	msg.Subject(cleanSubject(e.Subject))
	msg.SetDate()

	msg.SetBodyString(mail.TypeTextPlain, e.Body.Text)
	if e.Body.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, e.Body.HTML)
	}
	for _, a := range e.Body.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		msg.AttachReadSeeker(a.Filename, bytes.NewReader(a.Bytes), mail.WithFileContentType(mail.ContentType(ct)))
	}
	return msg, nil
}

package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by the SMTP sender when credentials are missing.
var ErrNotConfigured = errors.New("contact: SMTP credentials not configured")

// ErrInvalidAddress is returned when the visitor's email cannot be used as
// a mail header value.
var ErrInvalidAddress = errors.New("contact: invalid sender address")

// Sender delivers a contact message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, m Message) error

func (f SenderFunc) Send(ctx context.Context, m Message) error { return f(ctx, m) }

// Chain calls each sender in order and stops at the first error.
func Chain(senders ...Sender) Sender {
	return SenderFunc(func(ctx context.Context, m Message) error {
		for _, s := range senders {
			if s == nil {
				continue
			}
			if err := s.Send(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// SimulatedSender waits a fixed delay and logs the message instead of
// delivering it.
type SimulatedSender struct {
	Delay  time.Duration
	Logger *zap.Logger
}

func (s *SimulatedSender) Send(ctx context.Context, m Message) error {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if s.Logger != nil {
		s.Logger.Info("contact message received",
			zap.String("id", m.ID),
			zap.String("from", m.SenderEmail),
			zap.Int("length", len(m.Body)))
	}
	return nil
}

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	To       string
	// MaxRetries bounds delivery attempts after the first one.
	MaxRetries uint64
}

// SMTPSender relays messages through an SMTP server with exponential
// backoff between attempts.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	policy func() backoff.BackOff
}

func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SMTPSender{cfg: cfg, logger: logger, send: smtp.SendMail}
	s.policy = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxInterval = 5 * time.Second
		b.MaxElapsedTime = 30 * time.Second
		return backoff.WithMaxRetries(b, s.cfg.MaxRetries)
	}
	return s
}

// Configured reports whether credentials and a recipient are present.
func (s *SMTPSender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.User != "" && s.cfg.Password != "" && s.cfg.To != ""
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	replyTo, err := parseSender(m.SenderEmail)
	if err != nil {
		s.logger.Warn("rejecting contact message", zap.String("id", m.ID), zap.Error(err))
		return err
	}
	m.SenderEmail = replyTo

	msg := composeMail(s.cfg.User, s.cfg.To, m)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port

	op := func() error {
		return s.send(addr, auth, s.cfg.User, []string{s.cfg.To}, msg)
	}
	notify := func(err error, next time.Duration) {
		s.logger.Warn("smtp send failed, retrying", zap.Error(err), zap.Duration("next", next))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(s.policy(), ctx), notify); err != nil {
		s.logger.Error("smtp send failed", zap.String("id", m.ID), zap.Error(err))
		return fmt.Errorf("sending contact email: %w", err)
	}

	s.logger.Info("contact email sent", zap.String("id", m.ID), zap.String("from", m.SenderEmail))
	return nil
}

// parseSender returns the bare address of a visitor-supplied email. Line
// breaks are refused outright since the value ends up in mail headers.
func parseSender(v string) (string, error) {
	if strings.ContainsAny(v, "\r\n") {
		return "", fmt.Errorf("%w: contains a line break", ErrInvalidAddress)
	}
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return addr.Address, nil
}

func composeMail(from, to string, m Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", m.SenderEmail)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Email: %s
Received: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.SenderEmail, m.ReceivedAt.Format(time.RFC1123), m.Body)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + m.SenderEmail + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

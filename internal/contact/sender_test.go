package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMessage() Message {
	return Message{
		ID:          "msg-1",
		SenderEmail: "visitor@example.com",
		Body:        "Hi!",
		ReceivedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSimulatedSender(t *testing.T) {
	s := &SimulatedSender{Delay: time.Millisecond, Logger: zap.NewNop()}
	assert.NoError(t, s.Send(context.Background(), testMessage()))
}

func TestSimulatedSenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &SimulatedSender{Delay: time.Hour}
	assert.ErrorIs(t, s.Send(ctx, testMessage()), context.Canceled)
}

func TestChainStopsAtFirstError(t *testing.T) {
	var calls []string
	record := func(name string, err error) Sender {
		return SenderFunc(func(context.Context, Message) error {
			calls = append(calls, name)
			return err
		})
	}
	boom := errors.New("boom")

	err := Chain(record("archive", nil), nil, record("relay", boom), record("never", nil)).
		Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"archive", "relay"}, calls)
}

func TestSMTPSenderNotConfigured(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"}, nil)
	assert.False(t, s.Configured())
	assert.ErrorIs(t, s.Send(context.Background(), testMessage()), ErrNotConfigured)
}

func TestSMTPSenderRetries(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Password: "pw", To: "inbox@example.com", MaxRetries: 3}
	s := NewSMTPSender(cfg, zap.NewNop())
	s.policy = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, cfg.MaxRetries)
	}

	attempts := 0
	var sent []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, "me@example.com", from)
		assert.Equal(t, []string{"inbox@example.com"}, to)
		if attempts < 3 {
			return errors.New("421 try later")
		}
		sent = msg
		return nil
	}

	require.NoError(t, s.Send(context.Background(), testMessage()))
	assert.Equal(t, 3, attempts)
	assert.True(t, strings.Contains(string(sent), "Reply-To: visitor@example.com\r\n"))
	assert.Contains(t, string(sent), "Hi!")
}

func TestSMTPSenderGivesUp(t *testing.T) {
	cfg := SMTPConfig{Host: "h", Port: "25", User: "u", Password: "p", To: "t", MaxRetries: 2}
	s := NewSMTPSender(cfg, nil)
	s.policy = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, cfg.MaxRetries)
	}
	attempts := 0
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		attempts++
		return errors.New("550 rejected")
	}

	err := s.Send(context.Background(), testMessage())
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestSMTPSenderRejectsHeaderInjection(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Password: "pw", To: "inbox@example.com"}
	s := NewSMTPSender(cfg, zap.NewNop())
	sends := 0
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		sends++
		return nil
	}

	for _, addr := range []string{
		"a@b.c\r\nBcc: victim@example.com",
		"a@b.c\nBcc: victim@example.com",
		"not an address",
	} {
		m := testMessage()
		m.SenderEmail = addr
		assert.ErrorIs(t, s.Send(context.Background(), m), ErrInvalidAddress, "%q", addr)
	}
	assert.Zero(t, sends)
}

func TestSMTPSenderUsesBareAddress(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Password: "pw", To: "inbox@example.com"}
	s := NewSMTPSender(cfg, zap.NewNop())
	var sent []byte
	s.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		sent = msg
		return nil
	}

	m := testMessage()
	m.SenderEmail = "Visitor <visitor@example.com>"
	require.NoError(t, s.Send(context.Background(), m))
	assert.Contains(t, string(sent), "Reply-To: visitor@example.com\r\n")
	assert.NotContains(t, string(sent), "Bcc:")
}

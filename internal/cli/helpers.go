package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/store"
)

// loadConfig reads and validates the config file named by --config and
// builds the logger it describes.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, nil
}

// buildSender relays each message over SMTP or, without relay settings,
// logs it after the configured delay. Delivered messages are then archived
// when a database is open.
func buildSender(cfg *config.Config, db *store.DB, log *zap.Logger) contact.Sender {
	var relay contact.Sender
	if cfg.SMTPReady() {
		relay = contact.NewSMTPSender(contact.SMTPConfig{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			User:       cfg.SMTP.User,
			Password:   cfg.SMTP.Password,
			To:         cfg.SMTP.To,
			MaxRetries: cfg.SMTP.MaxRetries,
		}, log)
		log.Info("contact messages relayed over SMTP", zap.String("host", cfg.SMTP.Host))
	} else {
		relay = &contact.SimulatedSender{Delay: cfg.Contact.SubmitDelay, Logger: log}
		log.Warn("SMTP not configured; contact messages will only be logged")
	}
	if db == nil {
		return relay
	}
	return contact.Chain(relay, archive(db, log))
}

// archive stores a delivered message. A failed insert is logged but not
// reported to the visitor, whose message already went out; a retry would
// only send it twice.
func archive(db *store.DB, log *zap.Logger) contact.Sender {
	return contact.SenderFunc(func(ctx context.Context, m contact.Message) error {
		if err := db.SaveMessage(ctx, m); err != nil {
			log.Error("archiving contact message", zap.String("id", m.ID), zap.Error(err))
		}
		return nil
	})
}

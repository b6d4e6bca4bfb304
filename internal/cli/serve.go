package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/server"
	"github.com/Zachkp/portfolio/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		profile, err := content.Source(cfg.Profile)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}

		var db *store.DB
		if cfg.DBPath != "" {
			db, err = store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
		}

		gin.SetMode(cfg.Server.Mode)
		srv, err := server.New(server.Options{
			Config:  cfg,
			Profile: profile,
			Sender:  buildSender(cfg, db, log),
			DB:      db,
			Logger:  log,
		})
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Watch && cfg.Profile != "" {
			go func() {
				err := content.Watch(ctx, cfg.Profile, func(p *content.Profile, err error) {
					if err != nil {
						log.Error("profile reload failed", zap.Error(err))
						return
					}
					srv.SetProfile(p)
					log.Info("profile reloaded", zap.String("path", cfg.Profile))
				})
				if err != nil {
					log.Error("profile watcher stopped", zap.Error(err))
				}
			}()
		}

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

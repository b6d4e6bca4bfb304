package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/preview"
	"github.com/Zachkp/portfolio/internal/theme"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Browse the portfolio in the terminal",
	Long: `Preview renders the portfolio as a scrolling terminal page. The
navigation bar follows the section under the reading line, t switches
between light and dark mode, d saves the CV and c opens the contact form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		// the alternate screen owns the terminal; only file logging survives
		if cfg.Log.File == "" {
			log = logger.Discard()
		}
		defer log.Sync()

		profile, err := content.Source(cfg.Profile)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}

		prefs := cfg.Preview.PreferencesPath
		if prefs == "" {
			if prefs, err = theme.DefaultFilePath(); err != nil {
				return err
			}
		}

		watchPath := ""
		if cfg.Watch {
			watchPath = cfg.Profile
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		return preview.Run(ctx, preview.Options{
			Profile:     profile,
			Themes:      theme.NewManager(theme.NewFileStore(prefs)),
			Sender:      buildSender(cfg, nil, log),
			ResetDelay:  cfg.Contact.ResetDelay,
			DownloadDir: cfg.Preview.DownloadDir,
			Logger:      log,
		}, watchPath)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

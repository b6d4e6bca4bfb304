// Package cli wires the portfolio commands.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site and terminal preview",
	Long: `Portfolio serves a single-page personal portfolio over HTTP with a
light/dark theme, an active-section navigation bar, a contact form and a
CV download. The same content can be browsed in the terminal with the
preview command.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

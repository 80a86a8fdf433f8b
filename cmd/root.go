// Package cmd wires the CLI surface. The bare binary opens the interactive
// TUI; subcommands cover the scriptable flows (login, tickets, bookings).
package cmd

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cinebook-cli/config"
	"cinebook-cli/logger"
	"cinebook-cli/service"
	"cinebook-cli/session"
	"cinebook-cli/store"
	"cinebook-cli/tui"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "cinebook",
	Short: "Book movie seats from the terminal",
	Long:  `Browse theaters, pick a schedule, choose your seats and book them, all without leaving the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		closeLog, err := logger.Setup(cfg.LogFile)
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		sess, err := store.LoadSession()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		_, err = tea.NewProgram(tui.New(cfg, &sess), tea.WithAltScreen()).Run()
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cinebook version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cinebook %s", version)
		if commit != "none" && commit != "" {
			fmt.Printf(" (%s)", commit)
		}
		fmt.Println()
	},
}

// newClient builds an API client bound to the stored session.
func newClient(cfg *config.Config, sess *session.Session) *service.Client {
	return service.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.APIBaseURL, sess.TokenSource())
}

func Execute() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, ticketsCmd, bookingsCmd, chatCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cinebook-cli/config"
	"cinebook-cli/logger"
	"cinebook-cli/store"
	"cinebook-cli/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the support chat",
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
		if !sess.Active() {
			return errors.New("not signed in; run `cinebook login` first")
		}

		_, err = tea.NewProgram(tui.NewChat(cfg, &sess), tea.WithAltScreen()).Run()
		return err
	},
}

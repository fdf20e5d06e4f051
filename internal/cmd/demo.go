package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Scroll a list in the terminal",
	Long: heredoc.Doc(`
		Show a list in the terminal, one row per item, sized between one and
		three lines. Edits to the configuration file are applied while the demo
		runs.
	`),
	Example: heredoc.Doc(`
		# A list that grows without bound in both directions
		LOOPLIST_TOTAL_ITEMS=-1 looplist demo
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		model, err := tui.New(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		program := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithMouseCellMotion(),
		)

		go func() {
			err := config.Watch(ctx, cfg, func(c *config.Config, err error) {
				program.Send(tui.ConfigReloadedMsg{Config: c, Err: err})
			})
			if err != nil {
				slog.Error("Failed to watch configuration", "error", err)
			}
		}()

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

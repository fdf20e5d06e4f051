package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/version"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")

	rootCmd.AddCommand(demoCmd, simulateCmd, benchCmd)
}

var rootCmd = &cobra.Command{
	Use:   "looplist",
	Short: "Virtualized list engine with pooled item handles",
	Long: heredoc.Doc(`
		Looplist keeps a small window of list items alive around a viewport and
		recycles the rest through per-template pools. Lists may have a known
		item count or grow without bound in both directions, with inertia and
		snapping on top.

		Settings are read from looplist.json or .looplist.json in the working
		directory, merged over the global configuration file.
	`),
	Example: heredoc.Doc(`
		# Scroll a list in the terminal
		looplist demo

		# Run scripted steps without a screen
		looplist simulate scroll:400 fling:-3000 jump:500

		# Scroll eight lists at once
		looplist bench --engines 8 --frames 1200

		# Run with debug logging in a specific directory
		looplist -d -c /path/to/project demo
	`),
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setup resolves the working directory and loads the configuration found
// there.
func setup(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	return config.Load(cwd, debug)
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

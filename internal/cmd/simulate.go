package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/format"
	"github.com/yumosx/looplist/internal/recycle"
	"github.com/yumosx/looplist/internal/sim"
)

func init() {
	simulateCmd.Flags().StringArrayP("step", "s", nil, "Step to run, as kind:value")
	simulateCmd.Flags().StringP("format", "f", format.Text.String(), format.GetHelpText())
	addSizerFlags(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [step...]",
	Short: "Drive a list through scripted steps without a screen",
	Long: heredoc.Doc(`
		Run a list engine headless and report its window and pools after every
		step. Steps are written kind:value and may come from arguments, --step
		flags or a script piped to standard input, in that order.

		Kinds:
		  scroll:N   move by N units and run one frame
		  drag:N     hold the list, move it by N, and let go
		  fling:V    release with velocity V and wait until it stops
		  jump:I     move to item I
		  snap:I     snap to item I and wait until it settles
		  resize:I   double the size of live item I
		  count:N    change the item count to N
		  wait:N     run N frames
	`),
	Example: heredoc.Doc(`
		# Scroll, fling back and jump
		looplist simulate scroll:400 fling:-3000 jump:500

		# Rows between 20 and 60 units tall, reports as JSON
		looplist simulate --min-size 20 --max-size 60 --format json snap:42

		# Read a script
		looplist simulate < steps.txt
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		flagSteps, _ := cmd.Flags().GetStringArray("step")

		outputFormat, err := format.Parse(formatStr)
		if err != nil {
			return err
		}

		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		sizer, err := sizerFromFlags(cmd, cfg)
		if err != nil {
			return err
		}

		words := slices.Concat(args, flagSteps)
		stdin, err := MaybeReadStdin()
		if err != nil {
			return err
		}
		if stdin != nil {
			scripted, err := readSteps(stdin)
			if err != nil {
				return fmt.Errorf("failed to read steps: %w", err)
			}
			words = append(words, scripted...)
		}
		steps, err := parseSteps(words)
		if err != nil {
			return err
		}
		if len(steps) == 0 {
			return fmt.Errorf("no steps provided")
		}
		return simulate(cmd.Context(), cmd.OutOrStdout(), cfg, sizer, steps, outputFormat)
	},
}

// simulate runs steps on a fresh host and prints a report per step. Reports
// of the steps that ran are printed even when a later one fails.
func simulate(ctx context.Context, w io.Writer, cfg *config.Config, sizer sim.Sizer, steps []sim.Step, f format.OutputFormat) error {
	host, err := sim.NewHost(cfg, sizer)
	if err != nil {
		return err
	}
	reports, runErr := host.Run(ctx, steps)
	if err := format.Write(w, f, reports, func() string { return reportTable(reports) }); err != nil {
		return err
	}
	return runErr
}

func reportTable(reports []sim.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("step", "frames", "scroll", "window", "shown", "snap", "built", "reused", "parked")
	for _, r := range reports {
		var total recycle.Stats
		for _, s := range r.Pools {
			total = total.Add(s)
		}
		window := "empty"
		if r.Shown > 0 {
			window = fmt.Sprintf("%d..%d", r.First, r.Last)
		}
		t.Row(
			r.Step,
			fmt.Sprint(r.Frames),
			fmt.Sprintf("%.1f", r.Scroll),
			window,
			fmt.Sprint(r.Shown),
			r.Snap,
			fmt.Sprint(total.Constructed),
			fmt.Sprint(total.Reused),
			fmt.Sprint(total.Parked),
		)
	}
	return t.Render()
}

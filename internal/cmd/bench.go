package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/csync"
	"github.com/yumosx/looplist/internal/format"
	"github.com/yumosx/looplist/internal/recycle"
	"github.com/yumosx/looplist/internal/sim"
)

func init() {
	benchCmd.Flags().IntP("engines", "n", runtime.NumCPU(), "Number of lists to scroll at once")
	benchCmd.Flags().Int("frames", 600, "Frames per list")
	benchCmd.Flags().StringP("format", "f", format.Text.String(), format.GetHelpText())
	addSizerFlags(benchCmd)
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Scroll independent lists in parallel",
	Long: heredoc.Doc(`
		Build one list per engine, each on its own goroutine with its own
		template pools, and fling it back and forth for a number of frames.
		Every engine gets a different row size seed.
	`),
	Example: heredoc.Doc(`
		# One engine per CPU, 600 frames each
		looplist bench

		# Unbounded lists with rows between 10 and 80 units
		LOOPLIST_TOTAL_ITEMS=-1 looplist bench --min-size 10 --max-size 80
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		engines, _ := cmd.Flags().GetInt("engines")
		frames, _ := cmd.Flags().GetInt("frames")
		formatStr, _ := cmd.Flags().GetString("format")
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
		return bench(cmd.Context(), cmd.OutOrStdout(), cfg, sizer, engines, frames, outputFormat)
	},
}

func bench(ctx context.Context, w io.Writer, cfg *config.Config, sizer sim.Sizer, engines, frames int, f format.OutputFormat) error {
	res, benchErr := sim.Bench(ctx, cfg, sizer, engines, frames)
	if res == nil {
		return benchErr
	}
	if err := format.Write(w, f, res, func() string { return benchTable(res) }); err != nil {
		return err
	}
	return benchErr
}

func benchTable(res *sim.BenchResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("engine", "frames", "elapsed", "scroll", "built", "reused", "error")
	for _, id := range csync.Keys(res.Results) {
		r, _ := res.Results.Get(id)
		var total recycle.Stats
		for _, s := range r.Pools {
			total = total.Add(s)
		}
		t.Row(
			fmt.Sprint(id),
			fmt.Sprint(r.Frames),
			r.Elapsed.String(),
			fmt.Sprintf("%.1f", r.Scroll),
			fmt.Sprint(total.Constructed),
			fmt.Sprint(total.Reused),
			r.Err,
		)
	}
	return fmt.Sprintf("%s\n%d engines x %d frames in %s (%s per frame), %d handles built, %d reused",
		t.Render(), res.Engines, res.Frames, res.Elapsed, res.PerFrame, res.Totals.Constructed, res.Totals.Reused)
}

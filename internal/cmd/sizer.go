package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/sim"
)

func addSizerFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("seed", 0, "Seed for row sizes, overriding options.seed")
	cmd.Flags().Float64("min-size", 0, "Smallest row size (default list.default_item_size)")
	cmd.Flags().Float64("max-size", 0, "Largest row size (default min-size)")
}

// sizerFromFlags builds the row sizer for headless hosts.
func sizerFromFlags(cmd *cobra.Command, cfg *config.Config) (sim.Sizer, error) {
	s := sim.Sizer{Seed: cfg.Options.Seed}
	if cmd.Flags().Changed("seed") {
		s.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	s.Min, _ = cmd.Flags().GetFloat64("min-size")
	s.Max, _ = cmd.Flags().GetFloat64("max-size")
	if s.Min < 0 || s.Max < 0 {
		return s, fmt.Errorf("row sizes must not be negative, got %v and %v", s.Min, s.Max)
	}
	if s.Min == 0 && s.Max == 0 {
		return s, nil
	}
	if s.Min == 0 {
		s.Min = cfg.List.DefaultItemSize
	}
	s.Max = max(s.Max, s.Min)
	return s, nil
}

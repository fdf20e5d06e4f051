package styles

import (
	"github.com/charmbracelet/x/exp/charmtone"
)

// NewLooplistTheme returns the default dark theme.
func NewLooplistTheme() *Theme {
	return &Theme{
		Name:   "looplist",
		IsDark: true,

		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Tertiary:  charmtone.Bok,
		Accent:    charmtone.Zest,

		FgBase:     charmtone.Ash,
		FgMuted:    charmtone.Squid,
		FgSubtle:   charmtone.Oyster,
		FgSelected: charmtone.Salt,

		Border:      charmtone.Charcoal,
		BorderFocus: charmtone.Charple,

		Error:   charmtone.Sriracha,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,

		Rows: []Swatch{
			{Edge: charmtone.Charple, Fill: charmtone.Squid},
			{Edge: charmtone.Guac, Fill: charmtone.Oyster},
			{Edge: charmtone.Malibu, Fill: charmtone.Squid},
			{Edge: charmtone.Coral, Fill: charmtone.Oyster},
		},
	}
}

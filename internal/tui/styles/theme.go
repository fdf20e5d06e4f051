package styles

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const edgeCycle = 16

// Swatch colors one row template.
type Swatch struct {
	Edge color.Color
	Fill color.Color
}

type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	FgBase     color.Color
	FgMuted    color.Color
	FgSubtle   color.Color
	FgSelected color.Color

	Border      color.Color
	BorderFocus color.Color

	Error   color.Color
	Warning color.Color
	Info    color.Color

	// Rows is cycled through by template, in template order.
	Rows []Swatch

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base  lipgloss.Style
	Muted lipgloss.Style
	Title lipgloss.Style

	// Status line
	Status      lipgloss.Style
	StatusKey   lipgloss.Style
	StatusError lipgloss.Style

	Help help.Styles
}

// S returns the theme's styles, built on first use.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// Row returns the style for the row showing index, built from the n-th
// template, for the given width and height in cells.
func (t *Theme) Row(n, index, width, height int) lipgloss.Style {
	sw := t.Rows[wrap(n, len(t.Rows))]
	return lipgloss.NewStyle().
		Foreground(sw.Fill).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.edge(sw.Edge, index)).
		PaddingLeft(1).
		Width(width).
		Height(height)
}

// edge fades base towards the accent color and back over edgeCycle rows, so
// neighbouring rows stay apart even when they share a template.
func (t *Theme) edge(base color.Color, index int) color.Color {
	from, ok := colorful.MakeColor(base)
	if !ok {
		return base
	}
	to, ok := colorful.MakeColor(t.Accent)
	if !ok {
		return base
	}
	step := wrap(index, edgeCycle)
	if step > edgeCycle/2 {
		step = edgeCycle - step
	}
	return from.BlendLab(to, float64(step)/edgeCycle).Clamped()
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().
		Foreground(t.FgBase)
	return &Styles{
		Base:  base,
		Muted: base.Foreground(t.FgMuted),
		Title: base.Foreground(t.Primary).Bold(true),

		Status:      base.Foreground(t.FgSubtle),
		StatusKey:   base.Foreground(t.Secondary),
		StatusError: base.Foreground(t.Error),

		Help: help.Styles{
			ShortKey:       base.Foreground(t.FgMuted),
			ShortDesc:      base.Foreground(t.FgSubtle),
			ShortSeparator: base.Foreground(t.Border),
			Ellipsis:       base.Foreground(t.Border),
			FullKey:        base.Foreground(t.FgMuted),
			FullDesc:       base.Foreground(t.FgSubtle),
			FullSeparator:  base.Foreground(t.Border),
		},
	}
}

var (
	currentTheme     *Theme
	currentThemeOnce sync.Once
)

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	currentThemeOnce.Do(func() {
		currentTheme = NewLooplistTheme()
	})
	return currentTheme
}

// Package tui hosts a list engine in the terminal. Rows are lipgloss
// renders measured in lines, and every frame ticks the engine once.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/yumosx/looplist/internal/ansiext"
	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/recycle"
	"github.com/yumosx/looplist/internal/sim"
	"github.com/yumosx/looplist/internal/tui/styles"
	"github.com/yumosx/looplist/internal/viewport"
)

const (
	// Rows are between one and three lines tall; unmeasured rows are assumed
	// to be two.
	minRowLines     = 1
	maxRowLines     = 3
	defaultRowLines = 2

	wheelStep = 3
	// Flings start at this many viewports per second.
	flingSpeed = 4
)

var ErrHorizontal = errors.New("the terminal host only lays out vertical lists")

type frameMsg struct{}

// ConfigReloadedMsg carries a configuration reloaded from disk, or the error
// that kept it from loading.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

type appModel struct {
	width, height int
	keyMap        KeyMap
	help          help.Model

	cfg       *config.Config
	ctrl      *viewport.Controller
	registry  *recycle.Registry[viewport.Item]
	templates []string
	sizer     sim.Sizer
	frame     time.Duration

	err error
}

// New builds the terminal host for cfg. The list starts with an empty
// viewport and fills once the terminal size is known.
func New(cfg *config.Config) (tea.Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.List.Direction.Vertical() {
		return nil, fmt.Errorf("%w: %s", ErrHorizontal, cfg.List.Direction)
	}

	t := styles.CurrentTheme()
	h := help.New()
	h.Styles = t.S().Help
	a := &appModel{
		keyMap: DefaultKeyMap(),
		help:   h,
	}
	a.apply(cfg)

	templates := make([]recycle.Template[viewport.Item], 0, len(a.templates))
	for i, name := range a.templates {
		templates = append(templates, a.template(i, name, cfg.Templates[name]))
	}
	registry, err := recycle.NewRegistry(templates...)
	if err != nil {
		return nil, err
	}
	a.registry = registry

	a.ctrl, err = viewport.New(a.listConfig(cfg, 0), a.item, registry)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// apply takes the host settings from cfg.
func (a *appModel) apply(cfg *config.Config) {
	a.cfg = cfg
	a.templates = cfg.TemplateNames()
	a.sizer = sim.Sizer{Seed: cfg.Options.Seed, Min: minRowLines, Max: maxRowLines}
	a.frame = time.Second / time.Duration(max(cfg.Options.FrameRate, 1))
}

// listConfig adapts the engine settings to a viewport measured in lines.
func (a *appModel) listConfig(cfg *config.Config, viewportLines float64) viewport.Config {
	list := cfg.List
	list.DefaultItemSize = defaultRowLines
	list.ViewportSize = viewportLines
	return list
}

func (a *appModel) template(swatch int, name string, tc config.TemplateConfig) recycle.Template[viewport.Item] {
	return recycle.Template[viewport.Item]{
		Name:      name,
		New:       func() viewport.Item { return newRow(name, swatch) },
		Padding:   tc.Padding,
		SnapPivot: tc.Pivot(),
		Destroy: func(it viewport.Item) {
			slog.Debug("Row destroyed", "template", name, "id", it.(*row).id)
		},
	}
}

func (a *appModel) templateFor(index int) string {
	n := len(a.templates)
	return a.templates[((index%n)+n)%n]
}

func (a *appModel) item(c *viewport.Controller, index int) *viewport.ListItem {
	li, err := c.NewListItem(a.templateFor(index))
	if err != nil {
		slog.Error("Failed to build row", "index", index, "error", err)
		return nil
	}
	li.Handle().(*row).bind(index, int(a.sizer.Size(index)), a.width)
	return li
}

func (a *appModel) tick() tea.Cmd {
	return tea.Tick(a.frame, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Init starts the frame clock.
func (a *appModel) Init() tea.Cmd {
	return a.tick()
}

// Update handles incoming messages and updates the list state.
func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.handleWindowResize(msg)
		return a, nil

	case frameMsg:
		if err := a.ctrl.Tick(a.frame); err != nil {
			a.err = err
		}
		return a, a.tick()

	case ConfigReloadedMsg:
		a.handleConfigReloaded(msg)
		return a, nil

	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			a.ctrl.ScrollBy(-wheelStep * a.sign())
		case tea.MouseWheelDown:
			a.ctrl.ScrollBy(wheelStep * a.sign())
		}
		return a, nil

	case tea.KeyPressMsg:
		return a, a.handleKeyPressMsg(msg)
	}
	return a, nil
}

// sign maps screen-downwards movement to content offsets.
func (a *appModel) sign() float64 {
	if a.ctrl.Direction().Reversed() {
		return -1
	}
	return 1
}

func (a *appModel) handleWindowResize(msg tea.WindowSizeMsg) {
	widthChanged := msg.Width != a.width
	a.width, a.height = msg.Width, msg.Height
	a.layout()
	if widthChanged {
		a.ctrl.RefreshAllShownItems()
	}
}

// layout gives the list every line the status and help lines leave free.
func (a *appModel) layout() {
	used := lipgloss.Height(a.statusView()) + lipgloss.Height(a.help.View(a.keyMap))
	a.ctrl.SetViewportSize(float64(max(a.height-used, 0)))
}

func (a *appModel) handleKeyPressMsg(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, a.keyMap.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.layout()
	case key.Matches(msg, a.keyMap.Up):
		a.ctrl.ScrollBy(-a.sign())
	case key.Matches(msg, a.keyMap.Down):
		a.ctrl.ScrollBy(a.sign())
	case key.Matches(msg, a.keyMap.PageUp):
		a.ctrl.AdjustVelocity(-a.sign() * flingSpeed * a.ctrl.ViewportSize())
	case key.Matches(msg, a.keyMap.PageDown):
		a.ctrl.AdjustVelocity(a.sign() * flingSpeed * a.ctrl.ViewportSize())
	case key.Matches(msg, a.keyMap.Home):
		a.ctrl.MoveToItem(0, 0)
	case key.Matches(msg, a.keyMap.End):
		if n := a.ctrl.Config().TotalItemCount; n > 0 {
			a.ctrl.MoveToItem(n-1, 0)
		}
	case key.Matches(msg, a.keyMap.Next):
		a.snapBy(1)
	case key.Matches(msg, a.keyMap.Previous):
		a.snapBy(-1)
	case key.Matches(msg, a.keyMap.Grow):
		a.resizeNearest(1)
	case key.Matches(msg, a.keyMap.Shrink):
		a.resizeNearest(-1)
	}
	return nil
}

func (a *appModel) snapBy(delta int) {
	nearest := a.ctrl.SnapNearestIndex()
	if a.ctrl.ShownItemByIndex(nearest) == nil {
		return
	}
	a.ctrl.SetSnapTarget(nearest + delta)
}

func (a *appModel) resizeNearest(delta int) {
	index := a.ctrl.SnapNearestIndex()
	li := a.ctrl.ShownItemByIndex(index)
	if li == nil {
		return
	}
	r := li.Handle().(*row)
	r.resize(r.lines + delta)
	a.ctrl.OnItemSizeChanged(index)
}

// handleConfigReloaded rebuilds the list from a reloaded configuration. Every
// pooled row is destroyed so none outlives the template it was built from.
func (a *appModel) handleConfigReloaded(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		slog.Warn("Keeping previous configuration", "error", msg.Err)
		a.err = msg.Err
		return
	}
	cfg := msg.Config
	if !cfg.List.Direction.Vertical() {
		a.err = fmt.Errorf("%w: %s", ErrHorizontal, cfg.List.Direction)
		return
	}
	if err := a.ctrl.Reconfigure(a.listConfig(cfg, a.ctrl.ViewportSize())); err != nil {
		a.err = err
		return
	}
	a.apply(cfg)
	for i, name := range a.templates {
		t := a.template(i, name, cfg.Templates[name])
		var err error
		if _, ok := a.registry.Pool(name); ok {
			err = a.ctrl.ReplaceTemplate(t)
		} else {
			err = a.registry.Register(t)
		}
		if err != nil {
			slog.Error("Failed to update row template", "template", name, "error", err)
			a.err = err
			return
		}
	}
	a.err = nil
	slog.Info("Configuration reloaded", "templates", a.templates, "items", cfg.List.TotalItemCount)
}

// View draws the live rows where the engine placed them, followed by the
// status and help lines.
func (a *appModel) View() tea.View {
	return tea.NewView(lipgloss.JoinVertical(
		lipgloss.Left,
		a.listView(),
		a.statusView(),
		a.help.View(a.keyMap),
	))
}

func (a *appModel) listView() string {
	height := int(a.ctrl.ViewportSize())
	lines := make([]string, height)
	dir := a.ctrl.Direction()
	for _, li := range a.ctrl.ShownItems() {
		r := li.Handle().(*row)
		y := int(math.Round(dir.ScreenPosition(r.offset, li.Size(), float64(height))))
		for i, line := range strings.Split(r.view, "\n") {
			if y+i >= 0 && y+i < height {
				lines[y+i] = line
			}
		}
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, a.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (a *appModel) statusView() string {
	s := styles.CurrentTheme().S()
	if a.err != nil {
		return ansi.Truncate(s.StatusError.Render(ansiext.Escape(a.err.Error())), a.width, "…")
	}

	window := "empty"
	if items := a.ctrl.ShownItems(); len(items) > 0 {
		window = fmt.Sprintf("%d..%d", items[0].Index(), items[len(items)-1].Index())
	}
	total := "∞"
	if n := a.ctrl.Config().TotalItemCount; n >= 0 {
		total = fmt.Sprint(n)
	}
	var built, reused int
	for _, st := range a.registry.Stats() {
		built += st.Constructed
		reused += st.Reused
	}
	fields := []string{
		s.StatusKey.Render("rows ") + s.Status.Render(window+" of "+total),
		s.StatusKey.Render("scroll ") + s.Status.Render(fmt.Sprintf("%.0f", a.ctrl.Scroll())),
		s.StatusKey.Render("snap ") + s.Status.Render(a.ctrl.SnapStatus().String()),
		s.StatusKey.Render("built ") + s.Status.Render(fmt.Sprint(built)),
		s.StatusKey.Render("reused ") + s.Status.Render(fmt.Sprint(reused)),
	}
	return ansi.Truncate(strings.Join(fields, "  "), a.width, "…")
}

package tui

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/viewport"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	exitVal := m.Run()
	os.Exit(exitVal)
}

func testConfig(total int, templates ...string) *config.Config {
	list := viewport.DefaultConfig()
	list.TotalItemCount = total
	list.DistanceForNew = viewport.Distances{4, 4}
	list.DistanceForRecycle = viewport.Distances{8, 8}
	cfg := &config.Config{
		List:      list,
		Templates: map[string]config.TemplateConfig{},
		Options:   &config.Options{FrameRate: 60, Seed: 3},
	}
	if len(templates) == 0 {
		templates = []string{"row"}
	}
	for _, name := range templates {
		cfg.Templates[name] = config.TemplateConfig{}
	}
	return cfg
}

// newTestModel returns a host sized to a 40x20 terminal that has drawn its
// first frame. Status and help take one line each, leaving 18 for rows.
func newTestModel(t *testing.T, cfg *config.Config) *appModel {
	t.Helper()
	m, err := New(cfg)
	require.NoError(t, err)
	a := m.(*appModel)
	a.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	frame(a)
	return a
}

func frame(a *appModel) {
	a.Update(frameMsg{})
}

// viewString returns the text the host rendered into its view layer.
func viewString(a *appModel) string {
	return a.View().Layer.(*uv.StyledString).Text
}

func press(a *appModel, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := a.Update(k)
	return cmd
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects horizontal lists", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(10)
		cfg.List.Direction = viewport.LeftToRight
		_, err := New(cfg)
		require.ErrorIs(t, err, ErrHorizontal)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(10)
		cfg.List.DistanceForRecycle = viewport.Distances{1, 1}
		_, err := New(cfg)
		require.ErrorIs(t, err, viewport.ErrInvalidDistance)
	})

	t.Run("starts the frame clock", func(t *testing.T) {
		t.Parallel()
		m, err := New(testConfig(10))
		require.NoError(t, err)
		assert.NotNil(t, m.Init())
	})
}

func TestFill(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(1000))
	assert.Equal(t, 18.0, a.ctrl.ViewportSize())

	items := a.ctrl.ShownItems()
	require.NotEmpty(t, items)
	assert.Equal(t, 0, items[0].Index())
	last := items[len(items)-1]
	assert.GreaterOrEqual(t, last.Offset()+last.Size(), 18.0+4)
	for _, li := range items {
		assert.GreaterOrEqual(t, li.Size(), 1.0)
		assert.LessOrEqual(t, li.Size(), 3.0)
	}

	lines := strings.Split(a.listView(), "\n")
	require.Len(t, lines, 18)
	for _, line := range lines {
		assert.NotEmpty(t, line)
	}
	view := viewString(a)
	assert.Contains(t, view, "#0")
	assert.Contains(t, view, "0..")
	assert.Contains(t, view, "of 1000")
}

func TestScrolling(t *testing.T) {
	t.Parallel()

	t.Run("keys move by one line", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		press(a, char('j'))
		press(a, char('j'))
		press(a, tea.KeyPressMsg{Code: tea.KeyUp})
		assert.Equal(t, 1.0, a.ctrl.Scroll())
	})

	t.Run("wheel moves by three lines", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		a.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
		assert.Equal(t, 3.0, a.ctrl.Scroll())
	})

	t.Run("fling keeps moving", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		press(a, tea.KeyPressMsg{Code: tea.KeyPgDown})
		frame(a)
		assert.Greater(t, a.ctrl.Scroll(), 0.0)
		assert.Greater(t, a.ctrl.Velocity(), 0.0)
	})

	t.Run("end and home jump", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		press(a, tea.KeyPressMsg{Code: tea.KeyEnd})
		frame(a)
		frame(a)
		items := a.ctrl.ShownItems()
		require.NotEmpty(t, items)
		assert.Equal(t, 999, items[len(items)-1].Index())
		assert.Contains(t, viewString(a), "#999")

		press(a, tea.KeyPressMsg{Code: tea.KeyHome})
		frame(a)
		assert.Equal(t, 0, a.ctrl.ShownItems()[0].Index())
		assert.Equal(t, 0.0, a.ctrl.Scroll())
	})

	t.Run("reversed lists scroll against the screen", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(1000)
		cfg.List.Direction = viewport.BottomToTop
		a := newTestModel(t, cfg)

		first := a.ctrl.ShownItems()[0]
		lines := strings.Split(a.listView(), "\n")
		assert.Contains(t, lines[18-int(first.Size())], "#0")

		press(a, tea.KeyPressMsg{Code: tea.KeyUp})
		assert.Equal(t, 1.0, a.ctrl.Scroll())
	})
}

func TestQuit(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(10))
	cmd := press(a, char('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(1000))
	press(a, char('?'))
	assert.True(t, a.help.ShowAll)
	assert.Less(t, a.ctrl.ViewportSize(), 18.0)
	assert.Contains(t, viewString(a), "grow row")

	press(a, char('?'))
	assert.Equal(t, 18.0, a.ctrl.ViewportSize())
}

func TestSnapKeys(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(1000))
	nearest := a.ctrl.SnapNearestIndex()
	require.NotNil(t, a.ctrl.ShownItemByIndex(nearest))

	press(a, char('n'))
	assert.Equal(t, viewport.SnapTargetSet, a.ctrl.SnapStatus())
	assert.Equal(t, nearest+1, a.ctrl.SnapTarget())

	press(a, char('p'))
	assert.Equal(t, nearest-1, a.ctrl.SnapTarget())
}

func TestResizeRow(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(1000))
	index := a.ctrl.SnapNearestIndex()
	li := a.ctrl.ShownItemByIndex(index)
	require.NotNil(t, li)
	before := li.Size()
	next := a.ctrl.ShownItemByIndex(index + 1)
	require.NotNil(t, next)
	nextOffset := next.Offset()

	press(a, char('+'))
	assert.Equal(t, before+1, li.Size())
	assert.Equal(t, nextOffset+1, next.Offset())

	for range 5 {
		press(a, char('-'))
	}
	assert.Equal(t, 1.0, li.Size())
}

func TestWindowWidth(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(1000))
	a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	for _, li := range a.ctrl.ShownItems() {
		assert.Equal(t, 60, li.Handle().(*row).width)
	}
}

func TestConfigReloaded(t *testing.T) {
	t.Parallel()

	t.Run("rebuilds rows from new templates", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		built := a.registry.Stats()["row"].Constructed
		require.Positive(t, built)

		a.Update(ConfigReloadedMsg{Config: testConfig(500, "a", "b")})
		frame(a)

		require.NoError(t, a.err)
		assert.Equal(t, built, a.registry.Stats()["row"].Destroyed)
		items := a.ctrl.ShownItems()
		require.GreaterOrEqual(t, len(items), 2)
		assert.Equal(t, "a", items[0].Template())
		assert.Equal(t, "b", items[1].Template())
		assert.Equal(t, 500, a.ctrl.Config().TotalItemCount)
		assert.Contains(t, viewString(a), "of 500")
	})

	t.Run("keeps the list on errors", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		shown := a.ctrl.ShownItemCount()

		a.Update(ConfigReloadedMsg{Err: errors.New("bad\njson")})
		frame(a)

		assert.Equal(t, shown, a.ctrl.ShownItemCount())
		assert.Contains(t, viewString(a), "bad␤json")
	})

	t.Run("rejects horizontal lists", func(t *testing.T) {
		t.Parallel()
		a := newTestModel(t, testConfig(1000))
		cfg := testConfig(1000)
		cfg.List.Direction = viewport.RightToLeft

		a.Update(ConfigReloadedMsg{Config: cfg})
		require.ErrorIs(t, a.err, ErrHorizontal)
		assert.Equal(t, viewport.TopToBottom, a.ctrl.Direction())
	})
}

func TestUnbounded(t *testing.T) {
	t.Parallel()

	a := newTestModel(t, testConfig(-1))
	zero := a.ctrl.ShownItemByIndex(0)
	require.NotNil(t, zero)
	assert.Equal(t, 0.0, zero.Offset())
	first := a.ctrl.ShownItems()[0].Index()
	assert.Negative(t, first)
	assert.Contains(t, viewString(a), "of ∞")

	press(a, tea.KeyPressMsg{Code: tea.KeyEnd})
	assert.Equal(t, 0.0, a.ctrl.Scroll())

	for range 3 {
		a.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	}
	frame(a)
	assert.Equal(t, -9.0, a.ctrl.Scroll())
	assert.Less(t, a.ctrl.ShownItems()[0].Index(), first)
}

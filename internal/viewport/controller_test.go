package viewport

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumosx/looplist/internal/recycle"
)

const frame = time.Second / 60

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	exitVal := m.Run()
	os.Exit(exitVal)
}

type fakeItem struct {
	size   float64
	offset float64
}

func (f *fakeItem) Size() float64            { return f.size }
func (f *fakeItem) SetOffset(offset float64) { f.offset = offset }

type harness struct {
	c     *Controller
	calls int
	// size returns the size of index, or false when there is no such item.
	size     func(index int) (float64, bool)
	finished []int
	nearest  []int
}

func rowTemplate(padding float64) recycle.Template[Item] {
	return recycle.Template[Item]{
		Name:      "row",
		New:       func() Item { return &fakeItem{} },
		Padding:   padding,
		SnapPivot: 0.5,
	}
}

func testConfig(total int) Config {
	cfg := DefaultConfig()
	cfg.TotalItemCount = total
	cfg.ViewportSize = 100
	return cfg
}

func fixedSize(size float64) func(int) (float64, bool) {
	return func(int) (float64, bool) { return size, true }
}

func newHarness(t *testing.T, cfg Config, size func(int) (float64, bool), opts ...Option) *harness {
	t.Helper()
	registry, err := recycle.NewRegistry(rowTemplate(0))
	require.NoError(t, err)

	h := &harness{size: size}
	factory := func(c *Controller, index int) *ListItem {
		h.calls++
		s, ok := h.size(index)
		if !ok {
			return nil
		}
		li, err := c.NewListItem("row")
		if err != nil {
			return nil
		}
		li.Handle().(*fakeItem).size = s
		return li
	}
	opts = append(opts,
		WithSnapFinished(func(_ *Controller, li *ListItem) { h.finished = append(h.finished, li.Index()) }),
		WithSnapNearestChanged(func(_ *Controller, li *ListItem) { h.nearest = append(h.nearest, li.Index()) }),
	)
	h.c, err = New(cfg, factory, registry, opts...)
	require.NoError(t, err)
	return h
}

func (h *harness) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, h.c.Tick(frame))
}

func shownIndices(c *Controller) []int {
	var out []int
	for _, li := range c.ShownItems() {
		out = append(out, li.Index())
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	registry, err := recycle.NewRegistry(rowTemplate(0))
	require.NoError(t, err)
	factory := func(*Controller, int) *ListItem { return nil }

	t.Run("recycle distance must exceed spawn distance", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(10)
		cfg.DistanceForRecycle[EdgeEnd] = cfg.DistanceForNew[EdgeEnd]
		_, err := New(cfg, factory, registry)
		require.ErrorIs(t, err, ErrInvalidDistance)
	})

	t.Run("missing factory", func(t *testing.T) {
		t.Parallel()
		_, err := New(testConfig(10), nil, registry)
		require.ErrorIs(t, err, ErrMissingFactory)
	})

	t.Run("missing registry", func(t *testing.T) {
		t.Parallel()
		_, err := New(testConfig(10), factory, nil)
		require.ErrorIs(t, err, ErrMissingRegistry)
	})

	t.Run("bad direction", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(10)
		cfg.Direction = "diagonal"
		_, err := New(cfg, factory, registry)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestControllerInitialFill(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.tick(t)

	indices := shownIndices(h.c)
	require.Len(t, indices, 15)
	assert.Equal(t, 0, indices[0])
	assert.Equal(t, 14, indices[14])
	assert.Equal(t, 15, h.calls)
	assert.True(t, h.c.Exhausted(EdgeStart))
	assert.False(t, h.c.Exhausted(EdgeEnd))

	for _, li := range h.c.ShownItems() {
		assert.Equal(t, float64(li.Index()*20), li.Handle().(*fakeItem).offset)
	}

	size, ok := h.c.ContentSize()
	require.True(t, ok)
	assert.Equal(t, 20000.0, size)
}

func TestControllerHysteresis(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.tick(t)
	h.c.ScrollBy(10)
	h.tick(t)
	require.Equal(t, 16, h.calls)
	constructed := h.c.Registry().Stats()["row"].Constructed

	for range 10 {
		h.c.ScrollBy(-10)
		h.tick(t)
		h.c.ScrollBy(10)
		h.tick(t)
	}

	assert.Equal(t, 16, h.calls)
	assert.Equal(t, constructed, h.c.Registry().Stats()["row"].Constructed)
	assert.Equal(t, 16, h.c.ShownItemCount())
}

func TestControllerJumpReusesHandlesInSameTick(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.tick(t)
	h.c.SetScroll(1000)
	h.tick(t)

	indices := shownIndices(h.c)
	require.Len(t, indices, 25)
	assert.Equal(t, 40, indices[0])
	assert.Equal(t, 64, indices[24])

	li := h.c.ShownItemByIndex(50)
	require.NotNil(t, li)
	assert.Equal(t, 1000.0, li.Offset())
	assert.Equal(t, 0.0, li.Handle().(*fakeItem).offset)

	stats := h.c.Registry().Stats()["row"]
	assert.Equal(t, 25, stats.Constructed)
	assert.Equal(t, 15, stats.Reused)
	assert.Zero(t, stats.JustReturned)
}

func TestControllerMoveToItem(t *testing.T) {
	t.Parallel()

	t.Run("middle", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(1000), fixedSize(20))
		h.c.MoveToItem(500, 0)
		assert.Equal(t, 10000.0, h.c.Scroll())
		h.tick(t)

		indices := shownIndices(h.c)
		assert.Equal(t, 490, indices[0])
		assert.Equal(t, 514, indices[len(indices)-1])
		assert.Equal(t, 0.0, h.c.ShownItemByIndex(500).Handle().(*fakeItem).offset)
	})

	t.Run("clamped at the end", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(1000), fixedSize(20))
		h.c.MoveToItem(5000, 0)
		h.tick(t)

		assert.Equal(t, 19900.0, h.c.Scroll())
		indices := shownIndices(h.c)
		assert.Equal(t, 999, indices[len(indices)-1])
		assert.True(t, h.c.Exhausted(EdgeEnd))
	})
}

func TestControllerItemSizeChanged(t *testing.T) {
	t.Parallel()

	t.Run("live item", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(1000), fixedSize(20))
		h.tick(t)

		h.c.ShownItemByIndex(2).Handle().(*fakeItem).size = 40
		h.c.OnItemSizeChanged(2)

		li := h.c.ShownItemByIndex(3)
		assert.Equal(t, 80.0, li.Offset())
		assert.Equal(t, 80.0, li.Handle().(*fakeItem).offset)
		size, _ := h.c.ContentSize()
		assert.Equal(t, 20020.0, size)
	})

	t.Run("item above the window keeps the view still", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(1000), fixedSize(20))
		h.c.SetScroll(1000)
		h.tick(t)
		require.Equal(t, 40, shownIndices(h.c)[0])

		h.c.Index().SetItemSize(10, 40)
		h.tick(t)

		assert.Equal(t, 1020.0, h.c.Scroll())
		li := h.c.ShownItemByIndex(50)
		assert.Equal(t, 1020.0, li.Offset())
		assert.Equal(t, 0.0, li.Handle().(*fakeItem).offset)
	})
}

func TestControllerDragSuppressesRecycling(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.tick(t)

	h.c.BeginDrag()
	h.c.Drag(1000)
	h.tick(t)
	assert.True(t, h.c.Dragging())
	assert.Equal(t, 0, shownIndices(h.c)[0])
	assert.Equal(t, 65, h.c.ShownItemCount())

	h.c.EndDrag(0)
	h.tick(t)
	assert.Equal(t, 34, shownIndices(h.c)[0])
	assert.Equal(t, 31, h.c.ShownItemCount())
}

func TestControllerInertia(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.tick(t)

	h.c.AdjustVelocity(1000)
	require.NoError(t, h.c.Tick(time.Second))
	assert.InDelta(t, 135.0, h.c.Scroll(), 1e-9)
	assert.InDelta(t, 135.0, h.c.Velocity(), 1e-9)

	for range 5 {
		require.NoError(t, h.c.Tick(time.Second))
	}
	assert.Zero(t, h.c.Velocity())
	assert.Greater(t, h.c.Scroll(), 135.0)
}

func TestControllerUnbounded(t *testing.T) {
	t.Parallel()

	t.Run("negative indices", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(-1), fixedSize(20))
		h.tick(t)

		indices := shownIndices(h.c)
		require.Len(t, indices, 25)
		assert.Equal(t, -10, indices[0])
		assert.Equal(t, 14, indices[24])
		assert.Equal(t, -200.0, h.c.ItemOffset(-10))
		_, ok := h.c.ContentSize()
		assert.False(t, ok)
	})

	t.Run("exhausted edges resume after count reset", func(t *testing.T) {
		t.Parallel()
		limit := 10
		h := newHarness(t, testConfig(-1), func(index int) (float64, bool) {
			return 20, index >= 0 && index < limit
		})
		h.tick(t)

		assert.Equal(t, 10, h.c.ShownItemCount())
		assert.True(t, h.c.Exhausted(EdgeStart))
		assert.True(t, h.c.Exhausted(EdgeEnd))
		assert.Equal(t, 12, h.calls)

		h.tick(t)
		assert.Equal(t, 12, h.calls)

		limit = 15
		h.c.SetListItemCount(-1, false)
		h.tick(t)
		assert.Equal(t, 18, h.calls)
		assert.Equal(t, 15, h.c.ShownItemCount())
		assert.True(t, h.c.Exhausted(EdgeStart))
		assert.False(t, h.c.Exhausted(EdgeEnd))
	})

	t.Run("loop guard", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(-1), fixedSize(0))
		err := h.c.Tick(frame)
		require.ErrorIs(t, err, ErrLoopGuard)
	})
}

func TestControllerSnap(t *testing.T) {
	t.Parallel()

	snapConfig := func() Config {
		cfg := testConfig(1000)
		cfg.SnapEnabled = true
		return cfg
	}

	t.Run("settles on the nearest item", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, snapConfig(), fixedSize(20), WithScroll(7))

		for i := 0; i < 300 && h.c.SnapStatus() != SnapFinished; i++ {
			h.tick(t)
		}

		require.Equal(t, SnapFinished, h.c.SnapStatus())
		assert.InDelta(t, 0.0, h.c.Scroll(), 1e-9)
		assert.Equal(t, []int{2}, h.finished)
		assert.Equal(t, 2, h.c.SnapNearestIndex())
		assert.Contains(t, h.nearest, 2)
	})

	t.Run("forced target outside the window", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, snapConfig(), fixedSize(20))
		h.tick(t)
		require.True(t, h.c.SetSnapTarget(500))

		for i := 0; i < 1000 && len(h.finished) == 0; i++ {
			h.tick(t)
		}

		assert.InDelta(t, 9960.0, h.c.Scroll(), 1e-6)
		assert.Equal(t, []int{500}, h.finished[len(h.finished)-1:])
	})

	t.Run("finish immediately", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, snapConfig(), fixedSize(20))
		require.True(t, h.c.SetSnapTarget(500))

		h.c.FinishSnapImmediately()
		assert.Equal(t, 9960.0, h.c.Scroll())
		assert.Equal(t, SnapFinished, h.c.SnapStatus())
		assert.Empty(t, h.finished)

		h.tick(t)
		assert.Equal(t, []int{500}, h.finished)
		assert.Equal(t, 9960.0, h.c.Scroll())
	})

	t.Run("target out of range", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, snapConfig(), fixedSize(20))
		assert.False(t, h.c.SetSnapTarget(1000))
		assert.Equal(t, SnapNoTarget, h.c.SnapStatus())
	})

	t.Run("fast lists do not snap", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, snapConfig(), fixedSize(20), WithScroll(7))
		h.c.AdjustVelocity(5000)
		h.tick(t)
		assert.Equal(t, SnapNoTarget, h.c.SnapStatus())
		assert.Greater(t, h.c.Velocity(), h.c.Config().SnapVelocityThreshold)
	})

	t.Run("drag cancels", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, snapConfig(), fixedSize(20))
		require.True(t, h.c.SetSnapTarget(500))
		h.tick(t)
		require.Equal(t, SnapMoving, h.c.SnapStatus())

		h.c.BeginDrag()
		assert.Equal(t, SnapNoTarget, h.c.SnapStatus())
		assert.Equal(t, -1, h.c.SnapTarget())
	})
}

func TestControllerReconfigure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.c.MoveToItem(100, 0)
	h.tick(t)
	require.Equal(t, 90, shownIndices(h.c)[0])

	cfg := h.c.Config()
	cfg.TotalItemCount = 50
	require.NoError(t, h.c.Reconfigure(cfg))
	assert.Equal(t, 900.0, h.c.Scroll())
	assert.Zero(t, h.c.ShownItemCount())
	assert.Equal(t, 25, h.c.Registry().Stats()["row"].Destroyed)

	h.tick(t)
	assert.NotNil(t, h.c.ShownItemByIndex(49))
	assert.True(t, h.c.Exhausted(EdgeEnd))

	bad := cfg
	bad.DistanceForRecycle = bad.DistanceForNew
	require.ErrorIs(t, h.c.Reconfigure(bad), ErrInvalidDistance)
}

func TestControllerReplaceTemplate(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.tick(t)
	require.NoError(t, h.c.ReplaceTemplate(rowTemplate(5)))
	assert.Zero(t, h.c.ShownItemCount())

	h.tick(t)
	li := h.c.ShownItemByIndex(1)
	require.NotNil(t, li)
	assert.Equal(t, 5.0, li.Padding())
	assert.Equal(t, 25.0, li.Offset())
}

func TestControllerSetListItemCount(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(1000), fixedSize(20))
	h.c.MoveToItem(500, 0)
	h.tick(t)

	h.c.SetListItemCount(100, false)
	assert.Equal(t, 1900.0, h.c.Scroll())
	h.tick(t)
	indices := shownIndices(h.c)
	assert.Equal(t, 99, indices[len(indices)-1])

	h.c.SetListItemCount(0, false)
	assert.Zero(t, h.c.ShownItemCount())
	assert.Zero(t, h.c.Scroll())
	h.tick(t)
	assert.Zero(t, h.c.ShownItemCount())
}

func TestControllerUnboundedBecomesBounded(t *testing.T) {
	t.Parallel()

	t.Run("at the origin", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(-1), fixedSize(20))
		h.tick(t)
		require.Negative(t, shownIndices(h.c)[0])

		h.c.SetListItemCount(1000, false)
		h.tick(t)
		h.tick(t)

		indices := shownIndices(h.c)
		assert.Equal(t, 0, indices[0])
		assert.Zero(t, h.c.Scroll())
		first := h.c.ShownItemByIndex(0)
		require.NotNil(t, first)
		assert.Zero(t, first.Offset())
		assert.Zero(t, first.Handle().(*fakeItem).offset)
	})

	t.Run("keeps the visible item in place", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, testConfig(-1), fixedSize(20))
		h.tick(t)
		h.c.ScrollBy(100)
		h.tick(t)
		require.Negative(t, shownIndices(h.c)[0])

		h.c.SetListItemCount(1000, false)
		assert.Equal(t, 100.0, h.c.Scroll())
		h.tick(t)

		for _, li := range h.c.ShownItems() {
			assert.GreaterOrEqual(t, li.Index(), 0)
			assert.Less(t, li.Index(), 1000)
			assert.Equal(t, 20*float64(li.Index()), li.Offset())
		}
		fifth := h.c.ShownItemByIndex(5)
		require.NotNil(t, fifth)
		assert.Zero(t, fifth.Handle().(*fakeItem).offset)
		assert.Equal(t, 100.0, h.c.Scroll())
	})
}

func TestDirectionScreenPosition(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10.0, TopToBottom.ScreenPosition(10, 20, 100))
	assert.Equal(t, 70.0, BottomToTop.ScreenPosition(10, 20, 100))
	assert.True(t, LeftToRight.ScreenPosition(0, 5, 50) == 0)
	assert.False(t, RightToLeft.Vertical())
	assert.True(t, Direction("").Valid())
}

// Package viewport drives a virtualized list: it keeps a small window of live
// item handles around the viewport, recycles the ones that drift away, keeps
// the position index in sync with measured sizes, and settles the list onto
// an item after the user lets go.
//
// A Controller is single-threaded. The host calls Tick once per frame and
// every other method from the same goroutine.
package viewport

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/yumosx/looplist/internal/position"
	"github.com/yumosx/looplist/internal/recycle"
)

// MaxLoopIterations bounds the window update loop of a single tick.
const MaxLoopIterations = 9999

type edgeLimit struct {
	set   bool
	index int
}

// Controller is the engine behind one list.
type Controller struct {
	cfg      Config
	factory  ItemFactory
	registry *recycle.Registry[Item]
	index    *position.Index

	items []*ListItem
	tick  uint64

	// Index that returned no item, per edge.
	limits [2]edgeLimit

	// Where to start an empty window in unbounded mode.
	anchorIndex  int
	anchorOffset float64

	scroll            float64
	velocity          float64
	pendingVelocity   float64
	hasPendingVel     bool
	dragging          bool
	scrollbarDragging bool

	snap            snapState
	nearest         int
	onNearest       SnapFunc
	onSnapFinished  SnapFunc
	pendingFinished bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithSnapNearestChanged registers the callback fired when the live item
// closest to the viewport's snap pivot changes.
func WithSnapNearestChanged(fn SnapFunc) Option {
	return func(c *Controller) {
		c.onNearest = fn
	}
}

// WithSnapFinished registers the callback fired when a snap settles.
func WithSnapFinished(fn SnapFunc) Option {
	return func(c *Controller) {
		c.onSnapFinished = fn
	}
}

// WithScroll sets the initial scroll position.
func WithScroll(scroll float64) Option {
	return func(c *Controller) {
		c.scroll = scroll
	}
}

// New validates cfg and returns a controller that builds items with factory
// from the pools in registry.
func New(cfg Config, factory ItemFactory, registry *recycle.Registry[Item], opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, ErrMissingFactory
	}
	if registry == nil {
		return nil, ErrMissingRegistry
	}
	c := &Controller{
		cfg:      cfg,
		factory:  factory,
		registry: registry,
		nearest:  -1,
	}
	c.snap.clear()
	for _, opt := range opts {
		opt(c)
	}
	c.resetIndex()
	return c, nil
}

func (c *Controller) resetIndex() {
	if !c.cfg.Bounded() {
		c.index = nil
		return
	}
	c.index = position.NewIndex(c.cfg.SegmentCapacity, c.cfg.DefaultItemSize)
	c.index.SetMaxItemCount(c.cfg.TotalItemCount)
}

// NewListItem takes a handle for template from the registry. Factories call
// it to build the item they return.
func (c *Controller) NewListItem(template string) (*ListItem, error) {
	entry, err := c.registry.Acquire(template)
	if err != nil {
		return nil, err
	}
	return &ListItem{entry: entry}, nil
}

// Tick advances the list by one frame of length dt.
func (c *Controller) Tick(dt time.Duration) error {
	c.tick++
	if c.hasPendingVel {
		c.velocity = c.pendingVelocity
		c.hasPendingVel = false
	}
	c.integrate(dt)
	if c.index != nil {
		c.index.Update(false)
	}
	err := c.updateWindow()
	c.updateSnap(dt.Seconds(), false)
	c.place()
	c.registry.EndTick()
	return err
}

func (c *Controller) integrate(dt time.Duration) {
	if c.dragging || !c.cfg.Inertia || c.velocity == 0 {
		return
	}
	secs := dt.Seconds()
	c.velocity *= math.Pow(c.cfg.DecelerationRate, secs)
	if math.Abs(c.velocity) < 1 {
		c.velocity = 0
	}
	c.scroll += c.velocity * secs
}

// SetListItemCount changes the number of items. With resetPos the list
// returns to the first item; otherwise it stays where it is unless the live
// window holds indices outside the new range. Passing the current count only forgets
// the edges where the factory ran out, so an unbounded list can grow again.
func (c *Controller) SetListItemCount(n int, resetPos bool) {
	c.limits = [2]edgeLimit{}
	if n == c.cfg.TotalItemCount && !resetPos {
		return
	}
	c.ClearSnap()
	c.cfg.TotalItemCount = n
	if n < 0 {
		c.index = nil
	} else if c.index == nil {
		c.resetIndex()
	} else {
		c.index.SetMaxItemCount(n)
	}
	if n == 0 {
		c.recycleAll()
		c.scroll = 0
		c.velocity = 0
		return
	}
	if resetPos || len(c.items) == 0 {
		c.MoveToItem(0, 0)
		return
	}
	// Live items outside [0, n) no longer exist, which happens when an
	// unbounded list becomes bounded or a bounded one shrinks. Rebuild from
	// the first surviving index, keeping it where it is on screen.
	if first, last := c.items[0], c.items[len(c.items)-1]; n > 0 && (first.index < 0 || last.index >= n) {
		index := min(max(first.index, 0), n-1)
		offset := 0.0
		if li := c.ShownItemByIndex(index); li != nil {
			offset = li.offset - c.scroll
		}
		c.MoveToItem(index, offset)
		return
	}
	c.relayout()
	c.place()
}

// MoveToItem recycles the live window and scrolls so the item at index
// starts offset units past the viewport's leading edge. The window is rebuilt
// on the next tick.
func (c *Controller) MoveToItem(index int, offset float64) {
	c.ClearSnap()
	c.velocity = 0
	c.hasPendingVel = false
	c.recycleAll()
	if c.index != nil {
		if c.cfg.TotalItemCount == 0 {
			c.scroll = 0
			return
		}
		index = min(max(index, 0), c.cfg.TotalItemCount-1)
	}
	c.anchorIndex = index
	c.anchorOffset = 0
	if c.index != nil {
		c.anchorOffset = c.index.ItemOffset(index)
	}
	c.scroll = c.anchorOffset - offset
	c.clampScroll()
}

// RefreshAllShownItems asks the factory again for every live index, for
// example after the data behind them changed.
func (c *Controller) RefreshAllShownItems() {
	if len(c.items) == 0 {
		return
	}
	old := c.items
	c.items = make([]*ListItem, 0, len(old))
	for _, li := range old {
		c.release(li)
	}
	for _, li := range old {
		fresh := c.newItem(li.index)
		if fresh == nil {
			break
		}
		fresh.offset = li.offset
		c.items = append(c.items, fresh)
	}
	if len(c.items) == 0 {
		c.anchorIndex, c.anchorOffset = old[0].index, old[0].offset
	}
	c.relayout()
	c.place()
}

// RefreshItem asks the factory again for index if it is live.
func (c *Controller) RefreshItem(index int) {
	i := slices.IndexFunc(c.items, func(li *ListItem) bool { return li.index == index })
	if i < 0 {
		return
	}
	old := c.items[i]
	c.release(old)
	fresh := c.newItem(index)
	if fresh == nil {
		for _, li := range c.items[i+1:] {
			c.release(li)
		}
		c.items = c.items[:i]
		if i == 0 {
			c.anchorIndex, c.anchorOffset = old.index, old.offset
		}
	} else {
		fresh.offset = old.offset
		c.items[i] = fresh
	}
	c.relayout()
	c.place()
}

// OnItemSizeChanged re-measures a live item after the host changed its size.
func (c *Controller) OnItemSizeChanged(index int) {
	li := c.ShownItemByIndex(index)
	if li == nil {
		return
	}
	li.size = li.Handle().Size()
	if c.index != nil {
		c.index.SetItemSize(index, li.SizeWithPadding())
	}
	c.relayout()
	c.place()
}

// Reconfigure applies a new configuration, keeping the first live item in
// place. Pools are drained so templates can be rebuilt.
func (c *Controller) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	firstIndex, firstOffset := 0, 0.0
	if len(c.items) > 0 {
		firstIndex = c.items[0].index
		firstOffset = c.items[0].offset - c.scroll
	}
	c.recycleAll()
	c.registry.DestroyAll()
	c.cfg = cfg
	c.limits = [2]edgeLimit{}
	c.resetIndex()
	c.MoveToItem(firstIndex, firstOffset)
	return nil
}

// ReplaceTemplate swaps a template definition. Live items are recycled first
// so no handle built from the old template survives.
func (c *Controller) ReplaceTemplate(t recycle.Template[Item]) error {
	if len(c.items) > 0 {
		first := c.items[0]
		c.recycleAll()
		c.anchorIndex, c.anchorOffset = first.index, first.offset
	}
	return c.registry.Replace(t)
}

// ScrollBy moves the viewport by delta along the arrangement direction.
func (c *Controller) ScrollBy(delta float64) { c.scroll += delta }

// SetScroll moves the viewport's leading edge to pos.
func (c *Controller) SetScroll(pos float64) { c.scroll = pos }

// BeginDrag marks the list as held. Held lists never recycle or snap.
func (c *Controller) BeginDrag() {
	c.dragging = true
	c.velocity = 0
	c.hasPendingVel = false
	c.ClearSnap()
}

// Drag moves a held list by delta.
func (c *Controller) Drag(delta float64) { c.scroll += delta }

// EndDrag releases the list with the given velocity, in units per second.
// The velocity takes effect on the next tick.
func (c *Controller) EndDrag(velocity float64) {
	c.dragging = false
	c.AdjustVelocity(velocity)
}

// AdjustVelocity replaces the velocity at the start of the next tick.
func (c *Controller) AdjustVelocity(velocity float64) {
	c.pendingVelocity = velocity
	c.hasPendingVel = true
}

// SetScrollbarDragging tells the list a scrollbar is being held.
func (c *Controller) SetScrollbarDragging(held bool) { c.scrollbarDragging = held }

// SetViewportSize resizes the viewport.
func (c *Controller) SetViewportSize(size float64) { c.cfg.ViewportSize = max(size, 0) }

// ShownItemByIndex returns the live item showing index, or nil.
func (c *Controller) ShownItemByIndex(index int) *ListItem {
	if len(c.items) == 0 {
		return nil
	}
	i := index - c.items[0].index
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// ShownItems returns the live window in index order.
func (c *Controller) ShownItems() []*ListItem { return slices.Clone(c.items) }

// ShownItemCount returns the size of the live window.
func (c *Controller) ShownItemCount() int { return len(c.items) }

// ItemOffset returns the content offset of the item at index. In unbounded
// mode only live items and the anchor are known exactly; other indices are
// estimated with the default item size.
func (c *Controller) ItemOffset(index int) float64 {
	if c.index != nil {
		return c.index.ItemOffset(index)
	}
	if li := c.ShownItemByIndex(index); li != nil {
		return li.offset
	}
	if len(c.items) > 0 {
		first := c.items[0]
		return first.offset + float64(index-first.index)*c.cfg.DefaultItemSize
	}
	return c.anchorOffset + float64(index-c.anchorIndex)*c.cfg.DefaultItemSize
}

// ContentSize returns the total size of all items. It is unknown for
// unbounded lists.
func (c *Controller) ContentSize() (float64, bool) {
	if c.index == nil {
		return 0, false
	}
	return c.index.TotalSize(), true
}

// Index exposes the position index; it is nil for unbounded lists.
func (c *Controller) Index() *position.Index { return c.index }

// Registry returns the template registry the list builds items from.
func (c *Controller) Registry() *recycle.Registry[Item] { return c.registry }

func (c *Controller) Config() Config        { return c.cfg }
func (c *Controller) Scroll() float64       { return c.scroll }
func (c *Controller) Velocity() float64     { return c.velocity }
func (c *Controller) Dragging() bool        { return c.dragging }
func (c *Controller) ViewportSize() float64 { return c.cfg.ViewportSize }
func (c *Controller) Direction() Direction  { return c.cfg.Direction }
func (c *Controller) TickCount() uint64     { return c.tick }

// Exhausted reports whether the factory ran out of items at edge.
func (c *Controller) Exhausted(edge int) bool { return c.limits[edge].set }

func (c *Controller) String() string {
	first, last := -1, -1
	if n := len(c.items); n > 0 {
		first, last = c.items[0].index, c.items[n-1].index
	}
	return fmt.Sprintf("list[%d..%d] scroll=%.1f velocity=%.1f snap=%s", first, last, c.scroll, c.velocity, c.snap.status)
}

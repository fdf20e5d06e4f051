package viewport

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// updateWindow grows and shrinks the live window until it covers the
// viewport plus the spawn distances, then lays it out and clamps the scroll
// position. Every change restarts the checks from a consistent window, which
// lets a single tick both expand and contract after a long jump.
func (c *Controller) updateWindow() error {
	for i := 0; ; i++ {
		if i >= MaxLoopIterations {
			slog.Error("List update loop exceeded its iteration guard",
				"iterations", i,
				"items", len(c.items),
				"scroll", c.scroll,
			)
			return fmt.Errorf("%w after %d iterations", ErrLoopGuard, i)
		}
		if c.step() {
			continue
		}
		c.relayout()
		if !c.clampScroll() {
			return nil
		}
	}
}

// step applies the first of the four window rules that fires.
func (c *Controller) step() bool {
	if len(c.items) == 0 {
		return c.spawnFirst()
	}

	near, far := c.scroll, c.scroll+c.cfg.ViewportSize
	first, last := c.items[0], c.items[len(c.items)-1]

	if !c.dragging && first.created != c.tick && near-first.end() > c.cfg.DistanceForRecycle[EdgeStart] {
		c.items = slices.Delete(c.items, 0, 1)
		c.recycle(first)
		return true
	}
	if !c.dragging && last.created != c.tick && last.offset-far > c.cfg.DistanceForRecycle[EdgeEnd] {
		c.items = slices.Delete(c.items, len(c.items)-1, len(c.items))
		c.recycle(last)
		return true
	}
	if last.end()-far < c.cfg.DistanceForNew[EdgeEnd] && c.spawnAfter(last) {
		return true
	}
	if near-first.offset < c.cfg.DistanceForNew[EdgeStart] && c.spawnBefore(first) {
		return true
	}
	return false
}

func (c *Controller) spawnAfter(last *ListItem) bool {
	index := last.index + 1
	if c.exhausted(EdgeEnd, index) {
		return false
	}
	li := c.newItem(index)
	if li == nil {
		c.markExhausted(EdgeEnd, index)
		return false
	}
	li.offset = last.next()
	c.items = append(c.items, li)
	return true
}

func (c *Controller) spawnBefore(first *ListItem) bool {
	index := first.index - 1
	if c.exhausted(EdgeStart, index) {
		return false
	}
	li := c.newItem(index)
	if li == nil {
		c.markExhausted(EdgeStart, index)
		return false
	}
	li.offset = first.offset - li.SizeWithPadding()
	c.items = slices.Insert(c.items, 0, li)
	return true
}

func (c *Controller) spawnFirst() bool {
	index, offset, ok := c.locateAnchor()
	if !ok {
		return false
	}
	li := c.newItem(index)
	if li == nil {
		return false
	}
	li.offset = offset
	c.items = append(c.items, li)
	return true
}

// locateAnchor picks the item an empty window starts from: the item under
// the viewport's leading edge when sizes are indexed, or an estimate from
// the last known anchor otherwise.
func (c *Controller) locateAnchor() (int, float64, bool) {
	if c.index != nil {
		count := c.index.ItemCount()
		if count == 0 {
			return 0, 0, false
		}
		index, offset, ok := c.index.FindIndexAndOffsetAtPosition(max(c.scroll, 0))
		if !ok {
			index = count - 1
			offset = c.index.ItemOffset(index)
		}
		return index, offset, true
	}

	steps := 0
	if size := c.cfg.DefaultItemSize; size > 0 {
		steps = int(math.Floor((c.scroll - c.anchorOffset) / size))
	}
	index := c.anchorIndex + steps
	if l := c.limits[EdgeEnd]; l.set && index >= l.index {
		index = l.index - 1
	}
	if l := c.limits[EdgeStart]; l.set && index <= l.index {
		index = l.index + 1
	}
	return index, c.anchorOffset + float64(index-c.anchorIndex)*c.cfg.DefaultItemSize, true
}

// newItem asks the factory for index and records the measured size.
func (c *Controller) newItem(index int) *ListItem {
	if c.index != nil && (index < 0 || index >= c.index.ItemCount()) {
		return nil
	}
	li := c.factory(c, index)
	if li == nil {
		return nil
	}
	li.index = index
	li.created = c.tick
	li.size = li.Handle().Size()
	if c.index != nil {
		c.index.SetItemSize(index, li.SizeWithPadding())
	}
	slog.Debug("List item spawned", "index", index, "id", li.ID(), "size", li.size)
	return li
}

func (c *Controller) exhausted(edge, index int) bool {
	l := c.limits[edge]
	if !l.set {
		return false
	}
	if edge == EdgeEnd {
		return index >= l.index
	}
	return index <= l.index
}

func (c *Controller) markExhausted(edge, index int) {
	c.limits[edge] = edgeLimit{set: true, index: index}
	slog.Debug("List edge exhausted", "edge", edge, "index", index)
}

// recycle returns an item removed from the window to its pool. When the
// window empties, the item becomes the anchor for the next spawn.
func (c *Controller) recycle(li *ListItem) {
	c.release(li)
	if len(c.items) == 0 {
		c.anchorIndex, c.anchorOffset = li.index, li.offset
	}
	slog.Debug("List item recycled", "index", li.index, "id", li.ID())
}

func (c *Controller) release(li *ListItem) {
	if err := c.registry.Release(li.entry); err != nil {
		slog.Error("Failed to release list item", "index", li.index, "error", err)
	}
}

func (c *Controller) recycleAll() {
	for i, li := range c.items {
		c.release(li)
		c.items[i] = nil
	}
	c.items = c.items[:0]
}

// relayout places the live window back to back, starting from the indexed
// offset of its first item. If that start moved, the scroll position moves
// with it so nothing on screen jumps.
func (c *Controller) relayout() {
	if len(c.items) == 0 {
		return
	}
	first := c.items[0]
	start := first.offset
	if c.index != nil {
		start = c.index.ItemOffset(first.index)
	}
	if d := start - first.offset; d != 0 {
		c.scroll += d
	}
	pos := start
	for _, li := range c.items {
		li.offset = pos
		pos += li.SizeWithPadding()
	}
}

// bounds returns the scroll range allowed by the content and by any edge the
// factory has run out at.
func (c *Controller) bounds() (float64, float64) {
	lo, hi := math.Inf(-1), math.Inf(1)
	if c.index != nil {
		lo, hi = 0, max(0, c.index.TotalSize()-c.cfg.ViewportSize)
	}
	if n := len(c.items); n > 0 {
		first, last := c.items[0], c.items[n-1]
		if c.exhausted(EdgeStart, first.index-1) {
			lo = max(lo, first.offset)
		}
		if c.exhausted(EdgeEnd, last.index+1) {
			hi = min(hi, last.next()-c.cfg.ViewportSize)
		}
	}
	return lo, max(hi, lo)
}

// clampScroll keeps the scroll position inside bounds and stops any motion
// that ran into them.
func (c *Controller) clampScroll() bool {
	lo, hi := c.bounds()
	clamped := min(max(c.scroll, lo), hi)
	if clamped == c.scroll {
		return false
	}
	c.scroll = clamped
	c.velocity = 0
	return true
}

// place hands every live item its offset from the viewport's leading edge.
func (c *Controller) place() {
	for _, li := range c.items {
		li.Handle().SetOffset(li.offset - c.scroll)
	}
}

package viewport

import "math"

// SnapStatus is the state of the snap state machine.
type SnapStatus int

const (
	SnapNoTarget SnapStatus = iota
	SnapTargetSet
	SnapMoving
	SnapFinished
)

func (s SnapStatus) String() string {
	switch s {
	case SnapNoTarget:
		return "no_target"
	case SnapTargetSet:
		return "target_set"
	case SnapMoving:
		return "moving"
	case SnapFinished:
		return "finished"
	}
	return "unknown"
}

type snapState struct {
	status SnapStatus
	target int
	vel    float64
	// Scroll position the last snap settled at.
	settled float64
	forced  bool
}

func (s *snapState) clear() {
	*s = snapState{status: SnapNoTarget, target: -1}
}

// updateSnap runs once per tick, after the window update. With immediate set
// a moving snap jumps straight to its target.
func (c *Controller) updateSnap(dt float64, immediate bool) {
	if c.pendingFinished {
		if li := c.ShownItemByIndex(c.snap.target); li != nil {
			c.pendingFinished = false
			c.notifyFinished(li)
		}
	}
	c.updateNearest()

	if !c.canSnap() {
		if c.snap.status != SnapNoTarget {
			c.snap.clear()
		}
		return
	}

	switch c.snap.status {
	case SnapFinished:
		if c.scroll != c.snap.settled {
			c.snap.clear()
		}
		return
	case SnapNoTarget:
		if c.nearest < 0 {
			return
		}
		c.snap.target = c.nearest
		c.snap.status = SnapTargetSet
	}
	if c.snap.status == SnapTargetSet {
		c.snap.status = SnapMoving
		c.snap.vel = 0
	}
	c.moveSnap(dt, immediate)
}

func (c *Controller) moveSnap(dt float64, immediate bool) {
	c.velocity = 0
	d, ok := c.snapDistance(c.snap.target)
	if !ok {
		c.snap.clear()
		return
	}
	target := c.scroll + d
	done := immediate
	if !done {
		if opposes(c.snap.vel, d) {
			c.snap.vel = 0
		}
		c.scroll = smoothDamp(c.scroll, target, &c.snap.vel, c.cfg.SmoothDampRate, dt)
		done = math.Abs(target-c.scroll) < c.cfg.SnapFinishThreshold
	}
	if done {
		c.scroll = target
	}
	if c.clampScroll() {
		done = true
	}
	if !done {
		return
	}

	c.snap.status = SnapFinished
	c.snap.settled = c.scroll
	c.snap.forced = false
	c.snap.vel = 0
	if li := c.ShownItemByIndex(c.snap.target); li != nil {
		c.notifyFinished(li)
	} else {
		c.pendingFinished = true
	}
}

func (c *Controller) notifyFinished(li *ListItem) {
	if c.onSnapFinished != nil {
		c.onSnapFinished(c, li)
	}
}

func (c *Controller) canSnap() bool {
	if c.dragging || c.scrollbarDragging {
		return false
	}
	if c.snap.forced {
		return true
	}
	if !c.cfg.SnapEnabled || math.Abs(c.velocity) > c.cfg.SnapVelocityThreshold {
		return false
	}
	if c.index != nil && c.index.TotalSize() <= c.cfg.ViewportSize {
		return false
	}
	return true
}

func (c *Controller) pivot() float64 {
	return c.scroll + c.cfg.ViewportSnapPivot*c.cfg.ViewportSize
}

// snapDistance returns how far the list must scroll for the item at index to
// line up with the viewport's snap pivot.
func (c *Controller) snapDistance(index int) (float64, bool) {
	if li := c.ShownItemByIndex(index); li != nil {
		return li.snapPoint() - c.pivot(), true
	}
	if c.index == nil || index < 0 || index >= c.index.ItemCount() {
		return 0, false
	}
	point := c.index.ItemOffset(index) + c.cfg.ItemSnapPivot*c.index.ItemSize(index)
	return point - c.pivot(), true
}

func (c *Controller) updateNearest() {
	nearest, best := -1, math.Inf(1)
	pivot := c.pivot()
	for _, li := range c.items {
		if d := math.Abs(li.snapPoint() - pivot); d < best {
			nearest, best = li.index, d
		}
	}
	if nearest == c.nearest {
		return
	}
	c.nearest = nearest
	if nearest >= 0 && c.onNearest != nil {
		c.onNearest(c, c.ShownItemByIndex(nearest))
	}
}

// SetSnapTarget snaps to index on the following ticks, regardless of the
// list's velocity or whether snapping is enabled. It reports false when index
// cannot be reached.
func (c *Controller) SetSnapTarget(index int) bool {
	if c.index != nil && (index < 0 || index >= c.index.ItemCount()) {
		return false
	}
	if c.index == nil && c.ShownItemByIndex(index) == nil {
		return false
	}
	c.velocity = 0
	c.hasPendingVel = false
	c.pendingFinished = false
	c.snap = snapState{status: SnapTargetSet, target: index, forced: true}
	return true
}

// FinishSnapImmediately completes a pending or moving snap in place.
func (c *Controller) FinishSnapImmediately() {
	if c.snap.status != SnapTargetSet && c.snap.status != SnapMoving {
		return
	}
	c.updateSnap(0, true)
	c.place()
}

// ClearSnap abandons any snap in progress.
func (c *Controller) ClearSnap() {
	c.snap.clear()
	c.pendingFinished = false
}

func (c *Controller) SnapStatus() SnapStatus { return c.snap.status }
func (c *Controller) SnapTarget() int        { return c.snap.target }

// SnapNearestIndex returns the live item closest to the snap pivot, or -1.
func (c *Controller) SnapNearestIndex() int { return c.nearest }

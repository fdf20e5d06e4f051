// Package recycle keeps per-template pools of visual item handles so a
// virtualized list can reuse them instead of constructing new ones.
package recycle

// Template describes how handles of one kind are built and retired.
type Template[T any] struct {
	// Name identifies the template inside a registry.
	// Required.
	Name string
	// New constructs a fresh handle.
	// Required.
	New func() T

	// Padding is the gap laid out after every item built from this template.
	Padding float64
	// SnapPivot is the point inside the item, in [0, 1], that snapping aligns
	// with the viewport's pivot.
	SnapPivot float64

	// Activate is called when a parked handle is handed out again.
	Activate func(T)
	// Park is called when a handle moves to the parked tier.
	Park func(T)
	// Destroy is called when a handle leaves the pool for good.
	Destroy func(T)
}

// Entry is a pooled handle plus the metadata the pool stamps on it.
type Entry[T any] struct {
	ID        int
	Template  string
	Padding   float64
	SnapPivot float64
	Value     T
}

// Stats summarizes a pool.
type Stats struct {
	Constructed  int `json:"constructed"`
	Reused       int `json:"reused"`
	JustReturned int `json:"just_returned"`
	Parked       int `json:"parked"`
	Destroyed    int `json:"destroyed"`
}

// Pool is the two-tier store for one template. Handles released during a tick
// stay in justReturned, still in their last visible state, until EndTick
// parks them.
type Pool[T any] struct {
	template Template[T]
	nextID   func() int

	justReturned []*Entry[T]
	parked       []*Entry[T]

	constructed int
	reused      int
	destroyed   int
}

func newPool[T any](t Template[T], nextID func() int) *Pool[T] {
	return &Pool[T]{
		template: t,
		nextID:   nextID,
	}
}

// Acquire returns a handle, preferring one released this tick, then a parked
// one, and constructing a new one only when both tiers are empty.
func (p *Pool[T]) Acquire() *Entry[T] {
	if n := len(p.justReturned); n > 0 {
		e := p.justReturned[n-1]
		p.justReturned[n-1] = nil
		p.justReturned = p.justReturned[:n-1]
		p.reused++
		return p.stamp(e)
	}
	if n := len(p.parked); n > 0 {
		e := p.parked[n-1]
		p.parked[n-1] = nil
		p.parked = p.parked[:n-1]
		if p.template.Activate != nil {
			p.template.Activate(e.Value)
		}
		p.reused++
		return p.stamp(e)
	}
	p.constructed++
	return p.stamp(&Entry[T]{
		ID:       p.nextID(),
		Template: p.template.Name,
		Value:    p.template.New(),
	})
}

func (p *Pool[T]) stamp(e *Entry[T]) *Entry[T] {
	e.Padding = p.template.Padding
	e.SnapPivot = p.template.SnapPivot
	return e
}

// Release hands a handle back. It stays reusable within the current tick.
func (p *Pool[T]) Release(e *Entry[T]) {
	p.justReturned = append(p.justReturned, e)
}

// EndTick parks everything released during the tick.
func (p *Pool[T]) EndTick() {
	for i, e := range p.justReturned {
		if p.template.Park != nil {
			p.template.Park(e.Value)
		}
		p.parked = append(p.parked, e)
		p.justReturned[i] = nil
	}
	p.justReturned = p.justReturned[:0]
}

// Destroy drains both tiers and releases their backing resources.
func (p *Pool[T]) Destroy() {
	for _, tier := range [][]*Entry[T]{p.justReturned, p.parked} {
		for i, e := range tier {
			if p.template.Destroy != nil {
				p.template.Destroy(e.Value)
			}
			tier[i] = nil
			p.destroyed++
		}
	}
	p.justReturned = p.justReturned[:0]
	p.parked = p.parked[:0]
}

// Template returns the template the pool was registered with.
func (p *Pool[T]) Template() Template[T] { return p.template }

// Stats returns the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Constructed:  p.constructed,
		Reused:       p.reused,
		JustReturned: len(p.justReturned),
		Parked:       len(p.parked),
		Destroyed:    p.destroyed,
	}
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Constructed:  s.Constructed + o.Constructed,
		Reused:       s.Reused + o.Reused,
		JustReturned: s.JustReturned + o.JustReturned,
		Parked:       s.Parked + o.Parked,
		Destroyed:    s.Destroyed + o.Destroyed,
	}
}

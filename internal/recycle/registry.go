package recycle

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrUnknownTemplate    = errors.New("unknown item template")
	ErrDuplicateTemplate  = errors.New("item template already registered")
	ErrMissingConstructor = errors.New("item template has no constructor")
)

// Registry owns the pools of one list. Handle ids are unique per registry, so
// independent lists never share state.
type Registry[T any] struct {
	pools  map[string]*Pool[T]
	lastID int
}

// NewRegistry returns a registry with the given templates registered.
func NewRegistry[T any](templates ...Template[T]) (*Registry[T], error) {
	r := &Registry[T]{
		pools: make(map[string]*Pool[T]),
	}
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a template.
func (r *Registry[T]) Register(t Template[T]) error {
	if t.New == nil {
		return fmt.Errorf("%w: %q", ErrMissingConstructor, t.Name)
	}
	if _, ok := r.pools[t.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
	}
	r.pools[t.Name] = newPool(t, r.newID)
	return nil
}

func (r *Registry[T]) newID() int {
	r.lastID++
	return r.lastID
}

// Pool returns the pool registered under name.
func (r *Registry[T]) Pool(name string) (*Pool[T], bool) {
	p, ok := r.pools[name]
	return p, ok
}

// Names returns the registered template names in sorted order.
func (r *Registry[T]) Names() []string {
	return slices.Sorted(maps.Keys(r.pools))
}

// Acquire takes a handle from the named template's pool.
func (r *Registry[T]) Acquire(name string) (*Entry[T], error) {
	p, ok := r.pools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return p.Acquire(), nil
}

// Release returns a handle to the pool it came from.
func (r *Registry[T]) Release(e *Entry[T]) error {
	p, ok := r.pools[e.Template]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, e.Template)
	}
	p.Release(e)
	return nil
}

// EndTick parks the handles released this tick in every pool.
func (r *Registry[T]) EndTick() {
	for _, p := range r.pools {
		p.EndTick()
	}
}

// Destroy drains the named pool. The template stays registered.
func (r *Registry[T]) Destroy(name string) error {
	p, ok := r.pools[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	p.Destroy()
	return nil
}

// Replace swaps a template's definition, destroying the handles built from
// the old one.
func (r *Registry[T]) Replace(t Template[T]) error {
	if t.New == nil {
		return fmt.Errorf("%w: %q", ErrMissingConstructor, t.Name)
	}
	if p, ok := r.pools[t.Name]; ok {
		p.Destroy()
		p.template = t
		return nil
	}
	r.pools[t.Name] = newPool(t, r.newID)
	return nil
}

// DestroyAll drains every pool.
func (r *Registry[T]) DestroyAll() {
	for _, p := range r.pools {
		p.Destroy()
	}
}

// Stats returns per-template counters.
func (r *Registry[T]) Stats() map[string]Stats {
	out := make(map[string]Stats, len(r.pools))
	for name, p := range r.pools {
		out[name] = p.Stats()
	}
	return out
}

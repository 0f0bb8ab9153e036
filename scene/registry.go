package scene

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/vmath"
)

// Registry owns every scene entity's VisualState. Subsystems read and write
// through the registry rather than holding raw references, which keeps
// snapshot/restore a cheap value copy and gives ownership checks one place
// to live.
//
// The engine mutates entities only from tick callbacks; the lock exists for
// UI readers on other goroutines (plot, status line).
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Entity
	byID   map[uint64]*Entity
	order  []uint64 // registration order for deterministic iteration
	nextID uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Entity),
		byID:   make(map[uint64]*Entity),
	}
}

// Add registers a named part, classifies its capability tags, and returns the
// new entity. Duplicate names are rejected.
func (r *Registry) Add(name string, bounds Bounds, visual VisualState) (*Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("%w: duplicate entity %q", core.ErrConfiguration, name)
	}

	// An unset transform means "no pose applied", not the zero matrix.
	if visual.Transform == (vmath.Transform{}) {
		visual.Transform = vmath.Identity()
	}

	r.nextID++
	e := &Entity{
		ID:     r.nextID,
		Name:   name,
		Tags:   Classify(name),
		Bounds: bounds,
		Visual: visual,
	}
	r.byName[name] = e
	r.byID[e.ID] = e
	r.order = append(r.order, e.ID)
	return e, nil
}

// Get looks an entity up by name.
func (r *Registry) Get(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// ByID looks an entity up by id.
func (r *Registry) ByID(id uint64) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

// ByTag returns all entities carrying every bit of tag, in registration
// order.
func (r *Registry) ByTag(tag Tag) []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entity
	for _, id := range r.order {
		if e := r.byID[id]; e.Tags.Has(tag) {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entity in registration order.
func (r *Registry) All() []*Entity {
	return r.ByTag(TagNone)
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// GroupBounds returns the union of bounds over entities with the tag.
func (r *Registry) GroupBounds(tag Tag) (Bounds, bool) {
	entities := r.ByTag(tag)
	if len(entities) == 0 {
		return Bounds{}, false
	}
	b := entities[0].Bounds
	for _, e := range entities[1:] {
		b = b.Union(e.Bounds)
	}
	return b, true
}

// Snapshot copies the VisualState of the given entities. Unknown ids are
// skipped; the caller validated the group before starting.
func (r *Registry) Snapshot(ids []uint64) map[uint64]VisualState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[uint64]VisualState, len(ids))
	for _, id := range ids {
		if e, ok := r.byID[id]; ok {
			snap[id] = e.Visual
		}
	}
	return snap
}

// Restore writes back a snapshot taken with Snapshot.
func (r *Registry) Restore(snap map[uint64]VisualState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, vs := range snap {
		if e, ok := r.byID[id]; ok {
			e.Visual = vs
		}
	}
}

// SetOpacity sets the opacity of every entity with the tag and returns the
// touched ids.
func (r *Registry) SetOpacity(tag Tag, opacity float64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []uint64
	for _, id := range r.order {
		if e := r.byID[id]; e.Tags.Has(tag) && tag != TagNone {
			e.Visual.Opacity = opacity
			ids = append(ids, id)
		}
	}
	return ids
}

// SetVisual applies fn to every entity with the tag, under the write lock.
func (r *Registry) SetVisual(tag Tag, fn func(e *Entity)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		if e := r.byID[id]; e.Tags.Has(tag) {
			fn(e)
		}
	}
}

// ScaleAboutCenter is a convenience for contraction animation: a uniform
// scale of the entity about its own bounds center.
func ScaleAboutCenter(e *Entity, s float64) vmath.Transform {
	return vmath.AboutPoint(vmath.Scaling(s), e.Bounds.Center())
}

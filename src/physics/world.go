package physics

import (
	"glide/src/physics/geometry"
)

// DefaultMaxDelta caps a single step so a stalled caller can't feed the
// integrator a timestep large enough to tunnel or blow up.
const DefaultMaxDelta geometry.Scalar = 0.1

// Bounds is an axis-aligned box bodies bounce inside of, the arena of the
// simulation. Nil bounds on Options disables wall response.
type Bounds struct {
	Min geometry.Vector2
	Max geometry.Vector2
}

type Options struct {
	Gravity  geometry.Vector2
	Bounds   *Bounds
	MaxDelta geometry.Scalar // 0 falls back to DefaultMaxDelta
}

// World is the simulation-owned object table. Bodies keep their insertion
// order for their whole lifetime, which makes snapshots (and therefore draw
// order and collision resolution order) reproducible.
type World struct {
	opts   Options
	bodies []Body
	nextID uint64
	paused bool
}

func NewWorld(opts Options) *World {
	if opts.MaxDelta <= 0 {
		opts.MaxDelta = DefaultMaxDelta
	}
	return &World{opts: opts, nextID: 1}
}

// Spawn appends a body to the table and returns its assigned ID. Any ID set
// by the caller is overwritten.
func (w *World) Spawn(b Body) uint64 {
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)
	return b.ID
}

// Despawn removes the body with the given ID, preserving the order of the
// survivors. It reports whether a body was removed.
func (w *World) Despawn(id uint64) bool {
	for i := range w.bodies {
		if w.bodies[i].ID == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Len() int {
	return len(w.bodies)
}

// Body returns a pointer into the table for in-place tweaks between steps.
// The pointer is invalidated by the next Spawn or Despawn.
func (w *World) Body(id uint64) (*Body, bool) {
	for i := range w.bodies {
		if w.bodies[i].ID == id {
			return &w.bodies[i], true
		}
	}
	return nil, false
}

// Snapshot returns value copies of every body in insertion order. This is the
// consistent view draw-pool construction reads; mutating the result never
// touches the table.
func (w *World) Snapshot() []Body {
	out := make([]Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) SetPaused(paused bool) {
	w.paused = paused
}

func (w *World) Paused() bool {
	return w.paused
}

package physics

import (
	"errors"
	"fmt"

	"glide/src/physics/geometry"
)

var (
	// ErrBadDelta marks a step called with a negative or non-finite timestep.
	ErrBadDelta = errors.New("physics: negative or non-finite timestep")

	// ErrUnstable marks a step whose result contained a non-finite state and
	// was rolled back.
	ErrUnstable = errors.New("physics: step produced non-finite state")
)

// StepError wraps a rejected or rolled-back step. The table is left exactly
// as it was before the offending call.
type StepError struct {
	Delta geometry.Scalar
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step rejected (dt=%g): %v", e.Delta, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Collision reports one resolved overlap. A always spawned before B. Normal
// points from A toward B; Impulse is the magnitude applied along it (zero
// when the pair was already separating).
type Collision struct {
	A       uint64
	B       uint64
	Normal  geometry.Vector2
	Depth   geometry.Scalar
	Impulse geometry.Scalar
}

const (
	// Positional correction pushes overlapping pairs fully apart plus this
	// margin, so a resolved pair never reports residual overlap.
	separationSlop geometry.Scalar = 1e-5
)

// Step advances the table by dt seconds: semi-implicit Euler integration,
// wall response against the configured bounds, then pairwise circle collision
// resolution in ascending index order. The fixed pair order makes trajectories
// reproducible for a given spawn sequence and dt sequence.
//
// dt == 0 is a no-op. Negative or non-finite dt is rejected without touching
// the table, as is any step that would leave a body in a non-finite state.
// dt larger than MaxDelta is clamped.
func (w *World) Step(dt geometry.Scalar) ([]Collision, error) {
	if dt == 0 || w.paused {
		return nil, nil
	}
	if dt < 0 || !geometry.IsFinite(dt) {
		return nil, &StepError{Delta: dt, Err: ErrBadDelta}
	}
	if dt > w.opts.MaxDelta {
		dt = w.opts.MaxDelta
	}

	before := make([]Body, len(w.bodies))
	copy(before, w.bodies)

	w.integrate(dt)
	if w.opts.Bounds != nil {
		w.bounce(*w.opts.Bounds)
	}
	events := w.resolveCollisions()

	for i := range w.bodies {
		if !w.bodies[i].isFinite() {
			w.bodies = before
			return nil, &StepError{Delta: dt, Err: ErrUnstable}
		}
	}
	return events, nil
}

// integrate applies v += g*dt then p += v*dt per body, in table order.
func (w *World) integrate(dt geometry.Scalar) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.InvMass() == 0 {
			continue
		}
		b.Velocity = b.Velocity.Add(w.opts.Gravity.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

// bounce clamps bodies inside the arena and reflects the offending velocity
// component.
func (w *World) bounce(bb Bounds) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.InvMass() == 0 {
			continue
		}

		if b.Position.X-b.Radius < bb.Min.X {
			b.Position.X = bb.Min.X + b.Radius
			b.Velocity.X *= -1
		} else if b.Position.X+b.Radius > bb.Max.X {
			b.Position.X = bb.Max.X - b.Radius
			b.Velocity.X *= -1
		}

		if b.Position.Y-b.Radius < bb.Min.Y {
			b.Position.Y = bb.Min.Y + b.Radius
			b.Velocity.Y *= -1
		} else if b.Position.Y+b.Radius > bb.Max.Y {
			b.Position.Y = bb.Max.Y - b.Radius
			b.Velocity.Y *= -1
		}
	}
}

// resolveCollisions runs brute-force pair detection over ascending (i, j>i)
// and resolves each overlap immediately, so simultaneous contacts settle in a
// fixed, reproducible order.
func (w *World) resolveCollisions() []Collision {
	var events []Collision
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			if ev, ok := resolvePair(&w.bodies[i], &w.bodies[j]); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

// resolvePair separates two overlapping circles and applies a restitution
// impulse along the contact normal. Correction and impulse are split by
// inverse mass, which conserves momentum by construction.
func resolvePair(a *Body, b *Body) (Collision, bool) {
	delta := b.Position.Sub(a.Position)
	radii := a.Radius + b.Radius
	if delta.LengthSq() >= radii*radii {
		return Collision{}, false
	}

	invSum := a.InvMass() + b.InvMass()
	if invSum == 0 {
		// Two immovable bodies overlap; nothing to push.
		return Collision{}, false
	}

	dist := delta.Length()
	normal := geometry.Vector2{X: 1}
	if dist > geometry.Epsilon {
		normal = delta.Scale(1 / dist)
	}
	depth := radii - dist

	correction := normal.Scale((depth + separationSlop) / invSum)
	a.Position = a.Position.Sub(correction.Scale(a.InvMass()))
	b.Position = b.Position.Add(correction.Scale(b.InvMass()))

	var impulse geometry.Scalar
	closing := b.Velocity.Sub(a.Velocity).Dot(normal)
	if closing < 0 {
		e := a.Restitution
		if b.Restitution < e {
			e = b.Restitution
		}
		impulse = -(1 + e) * closing / invSum
		push := normal.Scale(impulse)
		a.Velocity = a.Velocity.Sub(push.Scale(a.InvMass()))
		b.Velocity = b.Velocity.Add(push.Scale(b.InvMass()))
	}

	return Collision{A: a.ID, B: b.ID, Normal: normal, Depth: depth, Impulse: impulse}, true
}

package flock

import "math/rand"

// Flock owns the state of N agents. Agent i is addressed by its index into
// the parallel slices; indices shift down by one for every agent removed
// before them, mirroring the host's own sprite list.
type Flock struct {
	params Params
	pos    []Vec2
	vel    []Vec2
	ids    []uint64
	nextID uint64

	// scratch holds per-agent deltas for the pairwise phases.
	scratch []Vec2
}

// NewFlock spawns count agents with positions uniform in [posLower, posUpper]
// and velocities uniform in [velLower, velUpper], independently per axis.
// Bounds are not checked: an inverted box yields values outside the nominal
// range, never a panic. A negative count spawns nothing.
func NewFlock(count int, posLower, posUpper, velLower, velUpper Vec2, params Params, rng *rand.Rand) *Flock {
	if count < 0 {
		count = 0
	}
	f := &Flock{
		params:  params,
		pos:     make([]Vec2, count),
		vel:     make([]Vec2, count),
		ids:     make([]uint64, count),
		scratch: make([]Vec2, count),
	}
	for i := 0; i < count; i++ {
		f.pos[i] = Vec2{
			X: uniform(rng, posLower.X, posUpper.X),
			Y: uniform(rng, posLower.Y, posUpper.Y),
		}
		f.vel[i] = Vec2{
			X: uniform(rng, velLower.X, velUpper.X),
			Y: uniform(rng, velLower.Y, velUpper.Y),
		}
		f.ids[i] = f.nextID
		f.nextID++
	}
	return f
}

// FromState builds a flock from explicit positions and velocities. Agent ids
// are assigned 0..n-1 in slice order.
func FromState(pos, vel []Vec2, params Params) (*Flock, error) {
	if len(pos) != len(vel) {
		return nil, ErrLengthMismatch
	}
	n := len(pos)
	f := &Flock{
		params:  params,
		pos:     append(make([]Vec2, 0, n), pos...),
		vel:     append(make([]Vec2, 0, n), vel...),
		ids:     make([]uint64, n),
		scratch: make([]Vec2, n),
	}
	for i := range f.ids {
		f.ids[i] = f.nextID
		f.nextID++
	}
	return f, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func (f *Flock) Len() int           { return len(f.pos) }
func (f *Flock) Params() Params     { return f.params }
func (f *Flock) SetParams(p Params) { f.params = p }

// Position returns the position of agent i. It panics if i is out of range,
// like a slice index.
func (f *Flock) Position(i int) Vec2 { return f.pos[i] }
func (f *Flock) Velocity(i int) Vec2 { return f.vel[i] }
func (f *Flock) ID(i int) uint64     { return f.ids[i] }

// Positions returns a copy of all agent positions in index order.
func (f *Flock) Positions() []Vec2 {
	out := make([]Vec2, len(f.pos))
	copy(out, f.pos)
	return out
}

// Velocities returns a copy of all agent velocities in index order.
func (f *Flock) Velocities() []Vec2 {
	out := make([]Vec2, len(f.vel))
	copy(out, f.vel)
	return out
}

// IDs returns a copy of the agent ids in index order.
func (f *Flock) IDs() []uint64 {
	out := make([]uint64, len(f.ids))
	copy(out, f.ids)
	return out
}

// Centroid is the mean position of all agents, or the zero vector for an
// empty flock. It is derived fresh on every call.
func (f *Flock) Centroid() Vec2 {
	n := len(f.pos)
	if n == 0 {
		return Vec2{}
	}
	var sum Vec2
	for _, p := range f.pos {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(n))
}

// Finite reports whether every position and velocity component is finite.
func (f *Flock) Finite() bool {
	for i := range f.pos {
		if !f.pos[i].IsFinite() || !f.vel[i].IsFinite() {
			return false
		}
	}
	return true
}

// IndexOf returns the current index of the agent with the given id.
func (f *Flock) IndexOf(id uint64) (int, bool) {
	for i, v := range f.ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// Nearest returns the index of the agent closest to p whose squared distance
// is at most maxDistSq. Ties go to the lower index.
func (f *Flock) Nearest(p Vec2, maxDistSq float64) (int, bool) {
	best, bestD := -1, maxDistSq
	for i, q := range f.pos {
		d := q.Sub(p).LenSq()
		if d <= bestD && (best < 0 || d < bestD) {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// Remove deletes agent index. Survivors keep their relative order, so every
// agent after index moves down one slot. An out-of-range index returns an
// *IndexError and leaves the flock untouched.
func (f *Flock) Remove(index int) error {
	n := len(f.pos)
	if index < 0 || index >= n {
		return &IndexError{Index: index, Len: n}
	}
	f.pos = append(f.pos[:index], f.pos[index+1:]...)
	f.vel = append(f.vel[:index], f.vel[index+1:]...)
	f.ids = append(f.ids[:index], f.ids[index+1:]...)
	f.scratch = f.scratch[:len(f.pos)]
	return nil
}

// RemoveID deletes the agent with the given id regardless of where it sits
// or whether another agent shares its position.
func (f *Flock) RemoveID(id uint64) error {
	i, ok := f.IndexOf(id)
	if !ok {
		return ErrUnknownID
	}
	return f.Remove(i)
}

// Snapshot returns a deep copy of the flock state.
func (f *Flock) Snapshot() Snapshot {
	return Snapshot{
		Positions:  f.Positions(),
		Velocities: f.Velocities(),
		IDs:        f.IDs(),
		NextID:     f.nextID,
		Params:     f.params,
	}
}

// Restore rebuilds a flock from a snapshot, keeping agent ids.
func Restore(s Snapshot) (*Flock, error) {
	if len(s.Positions) != len(s.Velocities) || len(s.Positions) != len(s.IDs) {
		return nil, ErrLengthMismatch
	}
	n := len(s.Positions)
	f := &Flock{
		params:  s.Params,
		pos:     append(make([]Vec2, 0, n), s.Positions...),
		vel:     append(make([]Vec2, 0, n), s.Velocities...),
		ids:     append(make([]uint64, 0, n), s.IDs...),
		nextID:  s.NextID,
		scratch: make([]Vec2, n),
	}
	for _, id := range f.ids {
		if id >= f.nextID {
			f.nextID = id + 1
		}
	}
	return f, nil
}

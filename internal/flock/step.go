package flock

// Step advances the flock by one frame toward target.
func (f *Flock) Step(target Vec2) {
	f.StepScaled(target, 1)
}

// StepScaled runs the same phases as Step but integrates position by
// velocity*dt. Hosts with a fixed frame rate should use Step.
func (f *Flock) StepScaled(target Vec2, dt float64) {
	if len(f.pos) == 0 {
		return
	}
	f.seek(target)
	f.cohere()
	f.separate()
	f.align()
	f.integrate(dt)
}

// seek nudges each velocity axis by a constant amount toward the target.
func (f *Flock) seek(target Vec2) {
	s := f.params.SeekStrength
	for i, p := range f.pos {
		v := &f.vel[i]
		switch {
		case p.X < target.X:
			v.X += s
		case p.X > target.X:
			v.X -= s
		}
		switch {
		case p.Y < target.Y:
			v.Y += s
		case p.Y > target.Y:
			v.Y -= s
		}
	}
}

func (f *Flock) cohere() {
	c := f.Centroid()
	k := f.params.CohesionStrength
	for i, p := range f.pos {
		f.vel[i] = f.vel[i].Sub(p.Sub(c).Scale(k))
	}
}

// separate pushes agents apart by the raw displacement of every neighbour
// inside the separation radius. The i == j pair goes through the same
// threshold and contributes the zero vector.
func (f *Flock) separate() {
	r2 := f.params.SeparationRadiusSq
	for i, pi := range f.pos {
		var d Vec2
		for _, pj := range f.pos {
			sep := pi.Sub(pj)
			if sep.LenSq() > r2 {
				continue
			}
			d = d.Add(sep)
		}
		f.scratch[i] = d
	}
	for i := range f.vel {
		f.vel[i] = f.vel[i].Add(f.scratch[i])
	}
}

// align damps velocity differences between agents inside the alignment
// radius. The mean divides by the whole flock size, far pairs counting as
// zero.
func (f *Flock) align() {
	r2 := f.params.AlignmentRadiusSq
	k := f.params.AlignmentStrength / float64(len(f.pos))
	for i, pi := range f.pos {
		var d Vec2
		for j, pj := range f.pos {
			if pi.Sub(pj).LenSq() > r2 {
				continue
			}
			d = d.Add(f.vel[i].Sub(f.vel[j]))
		}
		f.scratch[i] = d.Scale(k)
	}
	for i := range f.vel {
		f.vel[i] = f.vel[i].Sub(f.scratch[i])
	}
}

func (f *Flock) integrate(dt float64) {
	for i := range f.pos {
		f.pos[i] = f.pos[i].Add(f.vel[i].Scale(dt))
	}
}

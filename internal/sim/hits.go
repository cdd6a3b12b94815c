package sim

import (
	"math"

	"github.com/san-kum/boidsim/internal/flock"
)

// Engagement tracks the player side of a run: health lost to touching
// agents and agents shot down.
type Engagement struct {
	cfg      HitConfig
	Health   float64
	Score    int
	Contacts int
	Removed  []uint64
}

func NewEngagement(cfg HitConfig) *Engagement {
	return &Engagement{cfg: cfg, Health: cfg.Health}
}

// Contact applies damage for every agent within ContactRadius of target and
// returns how many touched. Health floors at zero.
func (e *Engagement) Contact(f *flock.Flock, target flock.Vec2) int {
	if e.cfg.ContactRadius <= 0 {
		return 0
	}
	rSq := e.cfg.ContactRadius * e.cfg.ContactRadius
	n := 0
	for i := 0; i < f.Len(); i++ {
		if f.Position(i).Sub(target).LenSq() <= rSq {
			n++
		}
	}
	e.Contacts += n
	e.Health = math.Max(0, e.Health+float64(n)*e.cfg.Damage)
	return n
}

// Shoot removes the agent nearest to target within ShotRange and returns
// its id. A non-positive ShotRange has no limit.
func (e *Engagement) Shoot(f *flock.Flock, target flock.Vec2) (uint64, error) {
	rangeSq := math.Inf(1)
	if e.cfg.ShotRange > 0 {
		rangeSq = e.cfg.ShotRange * e.cfg.ShotRange
	}
	i, ok := f.Nearest(target, rangeSq)
	if !ok {
		return 0, ErrNoTarget
	}
	id := f.ID(i)
	if err := f.Remove(i); err != nil {
		return 0, err
	}
	e.Score++
	e.Removed = append(e.Removed, id)
	return id, nil
}

// ShotDue reports whether the periodic shot fires on frame.
func (e *Engagement) ShotDue(frame int) bool {
	return e.cfg.ShotEvery > 0 && (frame+1)%e.cfg.ShotEvery == 0
}

func (e *Engagement) fill(res *Result) {
	res.Health = e.Health
	res.Score = e.Score
	res.Contacts = e.Contacts
	res.Removed = e.Removed
}

// engage runs one frame of the engagement model.
func (r *Runner) engage(e *Engagement, f *flock.Flock, target flock.Vec2, frame int) {
	e.Contact(f, target)
	if !e.ShotDue(frame) {
		return
	}
	id, err := e.Shoot(f, target)
	if err != nil {
		r.logger.Debug("shot missed", "frame", frame, "err", err)
		return
	}
	r.logger.Debug("agent shot", "frame", frame, "id", id, "left", f.Len())
}

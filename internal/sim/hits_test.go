package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/boidsim/internal/flock"
)

func TestEngagementShoot(t *testing.T) {
	tests := []struct {
		name      string
		shotRange float64
		wantHit   bool
		wantID    uint64
	}{
		{"in range", 5, true, 1},
		{"out of range", 1, false, 0},
		{"unlimited", 0, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := flock.FromState(
				[]flock.Vec2{{X: 10}, {X: 3}, {X: -4}},
				make([]flock.Vec2, 3),
				flock.Params{},
			)
			e := NewEngagement(HitConfig{ShotRange: tt.shotRange})
			id, err := e.Shoot(f, flock.Vec2{})
			if !tt.wantHit {
				if !errors.Is(err, ErrNoTarget) {
					t.Errorf("expected ErrNoTarget, got %v", err)
				}
				if f.Len() != 3 || e.Score != 0 {
					t.Errorf("miss changed state: len=%d score=%d", f.Len(), e.Score)
				}
				return
			}
			if err != nil {
				t.Fatalf("Shoot: %v", err)
			}
			if id != tt.wantID || e.Score != 1 || f.Len() != 2 {
				t.Errorf("id=%d score=%d len=%d", id, e.Score, f.Len())
			}
		})
	}
}

func TestEngagementContact(t *testing.T) {
	f, _ := flock.FromState(
		[]flock.Vec2{{X: 0}, {X: 2}, {X: 20}},
		make([]flock.Vec2, 3),
		flock.Params{},
	)
	e := NewEngagement(HitConfig{ContactRadius: 2, Damage: -3, Health: 10})

	if n := e.Contact(f, flock.Vec2{}); n != 2 {
		t.Errorf("contacts = %d, want 2", n)
	}
	if e.Health != 4 {
		t.Errorf("health = %v, want 4", e.Health)
	}
	e.Contact(f, flock.Vec2{})
	if e.Health != 0 {
		t.Errorf("health = %v, want floor at 0", e.Health)
	}

	off := NewEngagement(HitConfig{Health: 10})
	if n := off.Contact(f, flock.Vec2{}); n != 0 || off.Health != 10 {
		t.Errorf("zero radius: n=%d health=%v", n, off.Health)
	}
}

func TestEngagementShotDue(t *testing.T) {
	e := NewEngagement(HitConfig{ShotEvery: 3})
	var due []int
	for frame := 0; frame < 9; frame++ {
		if e.ShotDue(frame) {
			due = append(due, frame)
		}
	}
	if len(due) != 3 || due[0] != 2 || due[1] != 5 || due[2] != 8 {
		t.Errorf("due frames = %v", due)
	}
	if NewEngagement(HitConfig{}).ShotDue(0) {
		t.Error("shooting should be disabled with ShotEvery 0")
	}
}

package target

import (
	"math"
	"testing"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/flock"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TargetConfig
		wantErr bool
	}{
		{"static", config.TargetConfig{Kind: config.TargetStatic, X: 1, Y: 2}, false},
		{"empty kind", config.TargetConfig{}, false},
		{"orbit", config.TargetConfig{Kind: config.TargetOrbit, Radius: 5, Period: 60}, false},
		{"orbit zero period", config.TargetConfig{Kind: config.TargetOrbit, Radius: 5}, true},
		{"wander", config.TargetConfig{Kind: config.TargetWander, Radius: 5, Speed: 0.01}, false},
		{"wander zero speed", config.TargetConfig{Kind: config.TargetWander}, true},
		{"unknown", config.TargetConfig{Kind: "spiral"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg, 1)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Fatal("expected path, got nil")
			}
		})
	}
}

func TestStatic(t *testing.T) {
	p := Static{Point: flock.Vec2{X: 3, Y: 4}}
	for _, frame := range []int{0, 1, 1000} {
		if p.At(frame) != (flock.Vec2{X: 3, Y: 4}) {
			t.Errorf("frame %d: got %v", frame, p.At(frame))
		}
	}
}

func TestOrbit(t *testing.T) {
	o := Orbit{Center: flock.Vec2{X: 100, Y: 100}, Radius: 50, Period: 40}

	start := o.At(0)
	if math.Abs(start.X-150) > 1e-9 || math.Abs(start.Y-100) > 1e-9 {
		t.Errorf("frame 0 = %v, want (150,100)", start)
	}

	quarter := o.At(10)
	if math.Abs(quarter.X-100) > 1e-9 || math.Abs(quarter.Y-150) > 1e-9 {
		t.Errorf("frame 10 = %v, want (100,150)", quarter)
	}

	for frame := 0; frame < 80; frame++ {
		d := o.At(frame).Sub(o.Center).Len()
		if math.Abs(d-50) > 1e-9 {
			t.Fatalf("frame %d: distance from center %v, want 50", frame, d)
		}
	}
}

func TestWander(t *testing.T) {
	center := flock.Vec2{X: 400, Y: 300}
	a := NewWander(center, 100, 0.02, 7)
	b := NewWander(center, 100, 0.02, 7)

	moved := false
	prev := a.At(0)
	for frame := 0; frame < 500; frame++ {
		p := a.At(frame)
		if p != b.At(frame) {
			t.Fatalf("frame %d: same seed produced different paths", frame)
		}
		if math.Abs(p.X-center.X) > 100 || math.Abs(p.Y-center.Y) > 100 {
			t.Fatalf("frame %d: %v left the wander box", frame, p)
		}
		if p != prev {
			moved = true
		}
		prev = p
	}
	if !moved {
		t.Error("wander path never moved")
	}
}

// Package flock implements the per-frame boid update used for non-player
// agents that chase a moving target.
//
// The package owns agent positions and velocities and exposes a small host
// contract:
//
//   - [NewFlock]: spawn N agents inside a position box and a velocity box
//   - [Flock.Step]: advance one frame toward a target point
//   - [Flock.Remove]: drop an agent reported as hit by the host
//   - [Flock.Position]: read-only access used to place host sprites
//
// # Update Rule
//
// Each frame applies, in order: seek toward the target, cohesion toward the
// centroid, separation from agents inside the separation radius, alignment
// with agents inside the alignment radius, then Euler integration.
// The pairwise phases are O(N^2) and compare squared distances only, so no
// division or square root is ever taken on agent state.
//
// # Example
//
//	rng := rand.New(rand.NewSource(seed))
//	f := flock.NewFlock(15, flock.Vec2{}, flock.Vec2{X: 800, Y: 600},
//		flock.Vec2{Y: -5}, flock.Vec2{X: 2, Y: 3}, flock.DefaultParams(), rng)
//	for frame := 0; frame < 600; frame++ {
//		f.Step(player)
//	}
//
// # Thread Safety
//
// Flock instances are NOT thread-safe. Hosts that render concurrently must
// read positions between Step calls or work from a [Snapshot].
package flock

package flock_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boidsim/internal/flock"
)

var (
	screenLo = flock.Vec2{}
	screenHi = flock.Vec2{X: 800, Y: 600}
	velLo    = flock.Vec2{X: 0, Y: -5}
	velHi    = flock.Vec2{X: 2, Y: 3}
)

func spawn(n int, seed int64) *flock.Flock {
	return flock.NewFlock(n, screenLo, screenHi, velLo, velHi, flock.DefaultParams(), rand.New(rand.NewSource(seed)))
}

var _ = Describe("Flock", func() {
	Describe("spawning", func() {
		It("keeps every agent inside both spawn boxes", func() {
			f := spawn(500, 11)
			for i := 0; i < f.Len(); i++ {
				p, v := f.Position(i), f.Velocity(i)
				Expect(p.X).To(BeNumerically(">=", screenLo.X))
				Expect(p.X).To(BeNumerically("<=", screenHi.X))
				Expect(p.Y).To(BeNumerically(">=", screenLo.Y))
				Expect(p.Y).To(BeNumerically("<=", screenHi.Y))
				Expect(v.X).To(BeNumerically(">=", velLo.X))
				Expect(v.X).To(BeNumerically("<=", velHi.X))
				Expect(v.Y).To(BeNumerically(">=", velLo.Y))
				Expect(v.Y).To(BeNumerically("<=", velHi.Y))
			}
		})
	})

	Describe("stepping", func() {
		It("leaves an empty flock empty", func() {
			f := spawn(0, 1)
			Expect(func() { f.Step(flock.Vec2{X: 10, Y: 10}) }).NotTo(Panic())
			Expect(f.Len()).To(Equal(0))
		})

		DescribeTable("stays finite over 1000 frames",
			func(n int) {
				f := spawn(n, int64(n)+100)
				target := flock.Vec2{X: 300, Y: 150}
				for frame := 0; frame < 1000; frame++ {
					f.Step(target)
				}
				Expect(f.Finite()).To(BeTrue())
				Expect(f.Len()).To(Equal(n))
			},
			Entry("no agents", 0),
			Entry("one agent", 1),
			Entry("two agents", 2),
			Entry("ten agents", 10),
			Entry("fifty agents", 50),
		)

		It("stays finite when agents spawn on top of each other", func() {
			f := flock.NewFlock(20, flock.Vec2{X: 5, Y: 5}, flock.Vec2{X: 5, Y: 5}, velLo, velHi,
				flock.DefaultParams(), rand.New(rand.NewSource(3)))
			for frame := 0; frame < 1000; frame++ {
				f.Step(flock.Vec2{X: 400, Y: 300})
			}
			Expect(f.Finite()).To(BeTrue())
		})

		It("moves the flock toward a fixed target", func() {
			f := spawn(15, 5)
			target := flock.Vec2{X: 2000, Y: 2000}
			before := f.Centroid().Sub(target).Len()
			for frame := 0; frame < 30; frame++ {
				f.Step(target)
			}
			Expect(f.Centroid().Sub(target).Len()).To(BeNumerically("<", before))
		})
	})

	Describe("removal", func() {
		It("shrinks by one and rejects stale indices", func() {
			const n = 10
			f := spawn(n, 21)
			k := n - 1

			Expect(f.Remove(k)).To(Succeed())
			Expect(f.Len()).To(Equal(n - 1))

			err := f.Remove(k)
			Expect(errors.Is(err, flock.ErrInvalidIndex)).To(BeTrue())
			Expect(f.Len()).To(Equal(n - 1))

			err = f.Remove(n)
			var ie *flock.IndexError
			Expect(errors.As(err, &ie)).To(BeTrue())
			Expect(ie.Len).To(Equal(n - 1))
		})

		It("removes the addressed agent even when positions coincide", func() {
			f, err := flock.FromState(
				[]flock.Vec2{{X: 1, Y: 1}, {X: 1, Y: 1}},
				[]flock.Vec2{{X: 10}, {X: 20}},
				flock.DefaultParams(),
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Remove(0)).To(Succeed())
			Expect(f.Len()).To(Equal(1))
			Expect(f.Velocity(0).X).To(Equal(20.0))
			Expect(f.ID(0)).To(Equal(uint64(1)))
		})

		It("keeps stepping after agents are removed", func() {
			f := spawn(12, 8)
			for frame := 0; frame < 100; frame++ {
				f.Step(flock.Vec2{X: 100, Y: 100})
				if frame%10 == 0 && f.Len() > 0 {
					Expect(f.Remove(f.Len() / 2)).To(Succeed())
				}
			}
			Expect(f.Len()).To(Equal(2))
			Expect(f.Finite()).To(BeTrue())
		})
	})
})

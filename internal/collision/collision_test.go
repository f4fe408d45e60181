package collision_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/vmath"
)

const tol = 1e-9

func square(half float64) []vmath.Vec2 {
	return []vmath.Vec2{{X: -half, Y: -half}, {X: half, Y: -half}, {X: half, Y: half}, {X: -half, Y: half}}
}

var _ = Describe("Detect", func() {
	Context("circle against circle", func() {
		It("reports the head-on overlap", func() {
			a := collision.NewCircle("a", vmath.V2(0, 0), 10)
			b := collision.NewCircle("b", vmath.V2(15, 0), 10)

			res := collision.Detect(a, b)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 5, tol))
			Expect(res.Normal.ApproxEqual(vmath.V2(1, 0), tol)).To(BeTrue())
		})

		It("ignores touching circles", func() {
			a := collision.NewCircle("a", vmath.V2(0, 0), 10)
			b := collision.NewCircle("b", vmath.V2(20, 0), 10)
			Expect(collision.Detect(a, b).Colliding).To(BeFalse())
		})

		It("picks a normal for concentric circles", func() {
			a := collision.NewCircle("a", vmath.V2(3, 3), 4)
			b := collision.NewCircle("b", vmath.V2(3, 3), 2)
			res := collision.Detect(a, b)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Normal.Len()).To(BeNumerically("~", 1, tol))
			Expect(res.Penetration).To(BeNumerically("~", 6, tol))
		})
	})

	Context("circle against rectangle", func() {
		It("uses the clamped closest point", func() {
			c := collision.NewCircle("c", vmath.V2(0, 0), 10)
			r := collision.NewRect("r", vmath.V2(14, 0), 10, 10)

			res := collision.Detect(c, r)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 1, tol))
			Expect(res.Normal.ApproxEqual(vmath.V2(1, 0), tol)).To(BeTrue())
			Expect(res.Contact.ApproxEqual(vmath.V2(9, 0), tol)).To(BeTrue())
		})

		It("flips the normal when the rectangle comes first", func() {
			c := collision.NewCircle("c", vmath.V2(0, 0), 10)
			r := collision.NewRect("r", vmath.V2(14, 0), 10, 10)
			Expect(collision.Detect(r, c).Normal.ApproxEqual(vmath.V2(-1, 0), tol)).To(BeTrue())
		})

		It("respects rotation", func() {
			c := collision.NewCircle("c", vmath.V2(0, 0), 10)
			r := collision.NewRect("r", vmath.V2(16, 0), 10, 10, collision.WithRotation(math.Pi/4))

			res := collision.Detect(c, r)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 10-(16-5*math.Sqrt2), 1e-6))
			Expect(res.Normal.ApproxEqual(vmath.V2(1, 0), 1e-6)).To(BeTrue())

			unrotated := collision.NewRect("u", vmath.V2(16, 0), 10, 10)
			Expect(collision.Detect(c, unrotated).Colliding).To(BeFalse())
		})

		It("pushes out a center that lies inside", func() {
			c := collision.NewCircle("c", vmath.V2(3, 0), 1)
			r := collision.NewRect("r", vmath.V2(0, 0), 10, 20)

			res := collision.Detect(c, r)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 3, tol))
			Expect(res.Normal.ApproxEqual(vmath.V2(-1, 0), tol)).To(BeTrue())
		})
	})

	Context("polygons", func() {
		It("finds the axis of least overlap", func() {
			a := collision.NewPolygon("a", vmath.V2(0, 0), square(5))
			b := collision.NewPolygon("b", vmath.V2(8, 1), square(5))

			res := collision.Detect(a, b)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 2, tol))
			Expect(res.Normal.ApproxEqual(vmath.V2(1, 0), tol)).To(BeTrue())
		})

		It("separates on any axis", func() {
			a := collision.NewPolygon("a", vmath.V2(0, 0), square(5))
			b := collision.NewRect("b", vmath.V2(0, 11), 10, 10)
			Expect(collision.Detect(a, b).Colliding).To(BeFalse())
		})

		It("collides a polygon with a circle", func() {
			tri := []vmath.Vec2{{X: 0, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}}
			p := collision.NewPolygon("p", vmath.V2(0, 0), tri)
			c := collision.NewCircle("c", vmath.V2(0, 13), 5)

			res := collision.Detect(p, c)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 2, tol))
			Expect(res.Normal.ApproxEqual(vmath.V2(0, 1), tol)).To(BeTrue())
		})

		It("never collides a zero-area polygon", func() {
			line := []vmath.Vec2{{X: -5, Y: 0}, {X: 0, Y: 0}, {X: 5, Y: 0}}
			p := collision.NewPolygon("p", vmath.V2(0, 0), line)
			c := collision.NewCircle("c", vmath.V2(0, 0), 5)

			Expect(collision.Detect(p, c).Colliding).To(BeFalse())
			Expect(collision.Detect(c, p).Colliding).To(BeFalse())
		})
	})

	Context("points", func() {
		It("behaves as a zero-radius circle", func() {
			p := collision.NewPoint("p", vmath.V2(3, 0))
			c := collision.NewCircle("c", vmath.V2(0, 0), 5)

			res := collision.Detect(p, c)
			Expect(res.Colliding).To(BeTrue())
			Expect(res.Penetration).To(BeNumerically("~", 2, tol))
			Expect(res.Normal.ApproxEqual(vmath.V2(-1, 0), tol)).To(BeTrue())
		})

		It("hits a rectangle only inside it", func() {
			r := collision.NewRect("r", vmath.V2(0, 0), 10, 10)
			Expect(collision.Detect(collision.NewPoint("in", vmath.V2(4, 0)), r).Colliding).To(BeTrue())
			Expect(collision.Detect(collision.NewPoint("out", vmath.V2(6, 0)), r).Colliding).To(BeFalse())
		})

		It("never collides two points", func() {
			a := collision.NewPoint("a", vmath.V2(1, 1))
			b := collision.NewPoint("b", vmath.V2(1, 1))
			Expect(collision.Detect(a, b).Colliding).To(BeFalse())
		})
	})

	It("clamps bad geometry at construction", func() {
		c := collision.NewCircle("c", vmath.V2(0, 0), -3, collision.WithMass(-1))
		Expect(c.Shape.(collision.Circle).Radius).To(Equal(collision.MinRadius))
		Expect(c.Mass).To(Equal(collision.MinMass))
	})

	It("reports rectangle bounds around its position", func() {
		r := collision.NewRect("r", vmath.V2(10, 20), 8, 4)
		bounds := r.Bounds()
		Expect(bounds.Center().ApproxEqual(vmath.V2(10, 20), 1e-9)).To(BeTrue())
		Expect(bounds.Size().ApproxEqual(vmath.V2(8, 4), 1e-9)).To(BeTrue())
		Expect(bounds.Contains(vmath.V2(13, 21))).To(BeTrue())
		Expect(bounds.Contains(vmath.V2(15, 20))).To(BeFalse())
	})
})

var _ = Describe("Resolve", func() {
	It("swaps velocities of equal elastic circles head-on", func() {
		a := collision.NewCircle("a", vmath.V2(0, 0), 10, collision.WithVelocity(vmath.V2(5, 0)), collision.WithRestitution(1))
		b := collision.NewCircle("b", vmath.V2(15, 0), 10, collision.WithVelocity(vmath.V2(-5, 0)), collision.WithRestitution(1))

		res := collision.Collide(a, b)
		Expect(res.Penetration).To(BeNumerically("~", 5, tol))
		Expect(a.Velocity.ApproxEqual(vmath.V2(-5, 0), tol)).To(BeTrue())
		Expect(b.Velocity.ApproxEqual(vmath.V2(5, 0), tol)).To(BeTrue())
		Expect(a.Position.Distance(b.Position)).To(BeNumerically(">=", 20-tol))
	})

	It("conserves momentum for unequal masses", func() {
		a := collision.NewCircle("a", vmath.V2(0, 0), 5, collision.WithMass(3), collision.WithVelocity(vmath.V2(4, 1)), collision.WithRestitution(0.7))
		b := collision.NewCircle("b", vmath.V2(9, 0), 5, collision.WithMass(1), collision.WithVelocity(vmath.V2(-2, 0)), collision.WithRestitution(0.9))

		before := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))
		collision.Collide(a, b)
		after := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))
		Expect(after.ApproxEqual(before, 1e-9)).To(BeTrue())
		Expect(b.Velocity.Sub(a.Velocity).X).To(BeNumerically(">", 0))
	})

	It("leaves separating bodies' velocities alone", func() {
		a := collision.NewCircle("a", vmath.V2(0, 0), 10, collision.WithVelocity(vmath.V2(-1, 0)))
		b := collision.NewCircle("b", vmath.V2(15, 0), 10, collision.WithVelocity(vmath.V2(1, 0)))

		collision.Collide(a, b)
		Expect(a.Velocity).To(Equal(vmath.V2(-1, 0)))
		Expect(b.Velocity).To(Equal(vmath.V2(1, 0)))
		Expect(a.Position.Distance(b.Position)).To(BeNumerically(">=", 20-tol))
	})

	It("bounces off a static wall without moving it", func() {
		ball := collision.NewCircle("ball", vmath.V2(0, 0), 10, collision.WithVelocity(vmath.V2(10, 0)), collision.WithRestitution(1))
		wall := collision.NewRect("wall", vmath.V2(14, 0), 10, 100, collision.Static(), collision.WithRestitution(1))

		collision.Collide(ball, wall)
		Expect(ball.Velocity.ApproxEqual(vmath.V2(-10, 0), tol)).To(BeTrue())
		Expect(ball.Position.ApproxEqual(vmath.V2(-1, 0), tol)).To(BeTrue())
		Expect(wall.Position).To(Equal(vmath.V2(14, 0)))
		Expect(wall.Velocity).To(Equal(vmath.Zero2))
	})

	It("bounds the friction impulse by the normal impulse", func() {
		ball := collision.NewCircle("ball", vmath.V2(0, 1), 10,
			collision.WithVelocity(vmath.V2(10, 5)),
			collision.WithMaterial(collision.Material{Friction: 0.5, Restitution: 0}))
		ground := collision.NewRect("ground", vmath.V2(0, 15), 100, 10,
			collision.Static(),
			collision.WithMaterial(collision.Material{Friction: 0.5, Restitution: 0}))

		collision.Collide(ball, ground)
		Expect(ball.Velocity.ApproxEqual(vmath.V2(7.5, 0), tol)).To(BeTrue())
	})

	It("does nothing between two static bodies", func() {
		a := collision.NewRect("a", vmath.V2(0, 0), 10, 10, collision.Static())
		b := collision.NewRect("b", vmath.V2(5, 0), 10, 10, collision.Static())
		collision.Collide(a, b)
		Expect(a.Position).To(Equal(vmath.V2(0, 0)))
		Expect(b.Position).To(Equal(vmath.V2(5, 0)))
	})
})

var _ = Describe("World", func() {
	var w *collision.World

	BeforeEach(func() {
		w = collision.NewWorld(collision.DefaultConfig())
	})

	It("rejects duplicate ids", func() {
		Expect(w.AddBody(collision.NewCircle("a", vmath.Zero2, 1))).To(Succeed())
		Expect(w.AddBody(collision.NewCircle("a", vmath.Zero2, 1))).To(MatchError(dynamo.ErrDuplicateID))
	})

	It("adds and removes bodies", func() {
		Expect(w.AddBody(collision.NewCircle("a", vmath.Zero2, 1))).To(Succeed())
		Expect(w.AddBody(collision.NewCircle("b", vmath.V2(10, 0), 1))).To(Succeed())
		Expect(w.Len()).To(Equal(2))

		Expect(w.RemoveBody("a")).To(BeTrue())
		Expect(w.RemoveBody("a")).To(BeFalse())
		_, ok := w.Body("a")
		Expect(ok).To(BeFalse())
		Expect(w.Bodies()).To(HaveLen(1))
	})

	It("owns a copy of each body", func() {
		b := collision.NewCircle("a", vmath.Zero2, 1, collision.WithVelocity(vmath.V2(60, 0)))
		Expect(w.AddBody(b)).To(Succeed())
		b.Velocity = vmath.Zero2

		w.Update(0)
		got, _ := w.Body("a")
		Expect(got.Position.X).To(BeNumerically("~", 1, tol))
	})

	It("resolves the head-on pair during a step", func() {
		Expect(w.AddBody(collision.NewCircle("a", vmath.V2(0, 0), 10, collision.WithVelocity(vmath.V2(5, 0)), collision.WithRestitution(1)))).To(Succeed())
		Expect(w.AddBody(collision.NewCircle("b", vmath.V2(15, 0), 10, collision.WithVelocity(vmath.V2(-5, 0)), collision.WithRestitution(1)))).To(Succeed())

		snap := w.Update(0)
		Expect(w.Contacts()).To(HaveLen(1))
		a, _ := snap.Entity("a")
		b, _ := snap.Entity("b")
		Expect(a.Velocity.ApproxEqual(vmath.V2(-5, 0), tol)).To(BeTrue())
		Expect(b.Velocity.ApproxEqual(vmath.V2(5, 0), tol)).To(BeTrue())
		Expect(b.Position.X - a.Position.X).To(BeNumerically(">=", 20-1e-6))
	})

	It("keeps a ball inside boundary walls", func() {
		for _, wall := range collision.BoundaryWalls("box", vmath.V2(0, 0), vmath.V2(100, 100), 10, collision.WithRestitution(1)) {
			Expect(wall.Static).To(BeTrue())
			Expect(w.AddBody(wall)).To(Succeed())
		}
		Expect(w.AddBody(collision.NewCircle("ball", vmath.V2(50, 50), 5,
			collision.WithVelocity(vmath.V2(300, 170)),
			collision.WithMaterial(collision.Material{Restitution: 1})))).To(Succeed())

		for i := 0; i < 600; i++ {
			snap := w.Tick(1.0 / 60)
			Expect(snap.IsValid()).To(BeTrue())
			ball, ok := snap.Entity("ball")
			Expect(ok).To(BeTrue())
			Expect(ball.Position.X).To(BeNumerically(">=", 5-0.5))
			Expect(ball.Position.X).To(BeNumerically("<=", 95+0.5))
			Expect(ball.Position.Y).To(BeNumerically(">=", 5-0.5))
			Expect(ball.Position.Y).To(BeNumerically("<=", 95+0.5))
		}

		ball, _ := w.Body("ball")
		Expect(ball.Velocity.Len()).To(BeNumerically("~", math.Hypot(300, 170), 1e-6))
	})

	It("reports static bodies at rest", func() {
		Expect(w.AddBody(collision.NewRect("floor", vmath.V2(0, 0), 10, 1, collision.Static()))).To(Succeed())
		snap := w.Tick(1.0 / 60)
		Expect(snap.AtRest()).To(BeTrue())
	})

	It("applies gravity to dynamic bodies", func() {
		cfg := collision.DefaultConfig()
		cfg.Gravity = vmath.V2(0, 600)
		w = collision.NewWorld(cfg)
		Expect(w.AddBody(collision.NewCircle("a", vmath.Zero2, 1))).To(Succeed())
		snap := w.Update(0)
		a, _ := snap.Entity("a")
		Expect(a.Velocity.Y).To(BeNumerically("~", 10, tol))
		Expect(w.AddVelocity("a", vmath.V2(1, 0))).To(BeTrue())
		Expect(w.AddVelocity("missing", vmath.V2(1, 0))).To(BeFalse())
	})
})

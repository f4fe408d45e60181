package coordinator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/coordinator"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/field"
	"github.com/san-kum/motionsim/internal/vmath"
)

func magnet() *field.Config {
	f := field.DefaultConfig()
	f.Interaction = field.Attract
	f.Strength = 0.3
	f.Radius = 150
	return &f
}

func run(c *coordinator.Coordinator, steps int) dynamo.Snapshot {
	var snap dynamo.Snapshot
	for i := 0; i < steps; i++ {
		snap = c.Update()
	}
	return snap
}

func current(c *coordinator.Coordinator, id string) vmath.Vec2 {
	st, ok := c.Element(id)
	Expect(ok).To(BeTrue())
	return st.Current
}

var _ = Describe("Coordinator", func() {
	var c *coordinator.Coordinator

	BeforeEach(func() {
		c = coordinator.New(coordinator.DefaultConfig())
	})

	Describe("registry", func() {
		It("rejects duplicate ids", func() {
			Expect(c.AddElement(coordinator.Element{ID: "a"})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "a"})).To(MatchError(dynamo.ErrDuplicateID))
		})

		It("removes elements explicitly", func() {
			Expect(c.AddElement(coordinator.Element{ID: "b"})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "a"})).To(Succeed())
			Expect(c.IDs()).To(Equal([]string{"a", "b"}))

			Expect(c.RemoveElement("a")).To(BeTrue())
			Expect(c.RemoveElement("a")).To(BeFalse())
			Expect(c.Len()).To(Equal(1))
			_, ok := c.Element("a")
			Expect(ok).To(BeFalse())
		})

		It("clamps element configuration", func() {
			Expect(c.AddElement(coordinator.Element{ID: "a", Radius: -1, MinDistance: -5, Role: coordinator.Role(9)})).To(Succeed())
			st, _ := c.Element("a")
			Expect(st.Radius).To(Equal(coordinator.DefaultRadius))
			Expect(st.MinDistance).To(BeZero())
			Expect(st.Role).To(Equal(coordinator.Independent))
		})

		It("only mutates through its own methods", func() {
			Expect(c.AddElement(coordinator.Element{ID: "a"})).To(Succeed())
			Expect(c.SetRole("missing", coordinator.Leader)).To(BeFalse())
			Expect(c.SetAnchor("missing", vmath.V2(1, 1))).To(BeFalse())
			Expect(c.SetRole("a", coordinator.Leader)).To(BeTrue())
			st, _ := c.Element("a")
			Expect(st.Role).To(Equal(coordinator.Leader))
		})
	})

	Describe("group field", func() {
		BeforeEach(func() {
			c.SetField(magnet())
			Expect(c.AddElement(coordinator.Element{ID: "button", Role: coordinator.Independent})).To(Succeed())
		})

		It("stays idle without a pointer", func() {
			snap := run(c, 10)
			e, _ := snap.Entity("button")
			Expect(e.Active).To(BeFalse())
			Expect(e.Position).To(Equal(vmath.Zero2))
		})

		It("settles on the field displacement and returns when released", func() {
			c.SetPointer(vmath.V2(50, 0))
			snap := run(c, 300)
			e, _ := snap.Entity("button")
			Expect(e.Active).To(BeTrue())
			Expect(e.AtRest).To(BeTrue())
			Expect(e.Position.ApproxEqual(vmath.V2(10, 0), 0.02)).To(BeTrue())
			Expect(e.Force.ApproxEqual(vmath.V2(10, 0), 1e-9)).To(BeTrue())

			c.ClearPointer()
			snap = run(c, 300)
			e, _ = snap.Entity("button")
			Expect(e.Active).To(BeFalse())
			Expect(e.Position.ApproxEqual(vmath.Zero2, 0.02)).To(BeTrue())
		})

		It("ignores forces inside the dead zone", func() {
			weak := magnet()
			weak.Strength = 0.01
			c.SetField(weak)
			c.SetPointer(vmath.V2(50, 0))
			snap := run(c, 30)
			e, _ := snap.Entity("button")
			Expect(e.Active).To(BeFalse())
			Expect(e.Position).To(Equal(vmath.Zero2))
		})

		It("ignores pointers outside the field", func() {
			c.SetPointer(vmath.V2(500, 0))
			snap := run(c, 30)
			e, _ := snap.Entity("button")
			Expect(e.Active).To(BeFalse())
		})
	})

	Describe("roles", func() {
		BeforeEach(func() {
			Expect(c.AddElement(coordinator.Element{ID: "leader", Role: coordinator.Leader, Strength: 0.3, Radius: 150})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "follower", Role: coordinator.Follower, Position: vmath.V2(0, 60)})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "loner", Role: coordinator.Independent, Position: vmath.V2(60, 0)})).To(Succeed())
		})

		It("pulls followers toward leaders and leaves the rest alone", func() {
			run(c, 300)
			Expect(current(c, "leader")).To(Equal(vmath.Zero2))
			Expect(current(c, "loner")).To(Equal(vmath.V2(60, 0)))

			f := current(c, "follower")
			Expect(f.X).To(BeNumerically("~", 0, 1e-9))
			Expect(f.Y).To(BeNumerically("~", 50, 0.5))
		})

		It("stops attraction when a follower becomes independent", func() {
			run(c, 300)
			Expect(c.SetRole("follower", coordinator.Independent)).To(BeTrue())
			run(c, 300)
			Expect(current(c, "follower").ApproxEqual(vmath.V2(0, 60), 0.02)).To(BeTrue())
		})
	})

	Describe("spacing", func() {
		It("pushes overlapping elements to the minimum distance", func() {
			Expect(c.AddElement(coordinator.Element{ID: "a", MinDistance: 20})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "b", Position: vmath.V2(5, 0), MinDistance: 20})).To(Succeed())

			run(c, 600)
			a, b := current(c, "a"), current(c, "b")
			Expect(b.X - a.X).To(BeNumerically("~", 20, 0.05))
			Expect((a.X + b.X) / 2).To(BeNumerically("~", 2.5, 0.05))
		})

		It("separates coincident elements deterministically", func() {
			Expect(c.AddElement(coordinator.Element{ID: "a", MinDistance: 10})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "b", MinDistance: 10})).To(Succeed())

			run(c, 600)
			a, b := current(c, "a"), current(c, "b")
			Expect(a.X).To(BeNumerically("<", b.X))
			Expect(a.Distance(b)).To(BeNumerically("~", 10, 0.05))
		})

		It("wins over leader attraction", func() {
			Expect(c.AddElement(coordinator.Element{ID: "leader", Role: coordinator.Leader, Strength: 1, Radius: 200, MinDistance: 30})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "follower", Role: coordinator.Follower, Position: vmath.V2(40, 0)})).To(Succeed())

			run(c, 600)
			Expect(current(c, "follower").X).To(BeNumerically(">=", 30-0.05))
		})
	})

	It("is independent of insertion order", func() {
		elements := []coordinator.Element{
			{ID: "l", Role: coordinator.Leader, Strength: 0.5, Radius: 200, MinDistance: 15},
			{ID: "f1", Role: coordinator.Follower, Position: vmath.V2(40, 10), MinDistance: 15},
			{ID: "f2", Role: coordinator.Follower, Position: vmath.V2(-30, 25), MinDistance: 15},
			{ID: "i", Role: coordinator.Independent, Position: vmath.V2(10, -20), MinDistance: 15},
		}
		forward := coordinator.New(coordinator.DefaultConfig())
		backward := coordinator.New(coordinator.DefaultConfig())
		for i := range elements {
			Expect(forward.AddElement(elements[i])).To(Succeed())
			Expect(backward.AddElement(elements[len(elements)-1-i])).To(Succeed())
		}
		forward.SetField(magnet())
		backward.SetField(magnet())
		forward.SetPointer(vmath.V2(20, 20))
		backward.SetPointer(vmath.V2(20, 20))

		run(forward, 120)
		run(backward, 120)
		for _, el := range elements {
			Expect(current(forward, el.ID).ApproxEqual(current(backward, el.ID), 1e-9)).To(BeTrue(), el.ID)
		}
	})

	It("stops and resets synchronously", func() {
		c.SetField(magnet())
		Expect(c.AddElement(coordinator.Element{ID: "a"})).To(Succeed())
		c.SetPointer(vmath.V2(50, 0))
		run(c, 5)

		c.Stop()
		snap := c.Snapshot()
		Expect(snap.AtRest()).To(BeTrue())
		e, _ := snap.Entity("a")
		Expect(e.Velocity).To(Equal(vmath.Zero2))
		Expect(e.Active).To(BeFalse())

		c.Reset()
		Expect(current(c, "a")).To(Equal(vmath.Zero2))
	})

	It("glides to a new anchor", func() {
		Expect(c.AddElement(coordinator.Element{ID: "a"})).To(Succeed())
		Expect(c.SetAnchor("a", vmath.V2(30, -10))).To(BeTrue())
		snap := run(c, 300)
		e, _ := snap.Entity("a")
		Expect(e.Position.ApproxEqual(vmath.V2(30, -10), 0.02)).To(BeTrue())
		Expect(e.Active).To(BeFalse())
	})

	It("accumulates frame time", func() {
		c.SetField(magnet())
		Expect(c.AddElement(coordinator.Element{ID: "a"})).To(Succeed())
		c.SetPointer(vmath.V2(50, 0))
		snap := c.Tick(0.5 / 60)
		Expect(snap.Time).To(BeZero())
		snap = c.Tick(0.5 / 60)
		Expect(snap.Time).To(BeNumerically("~", 1.0/60, 1e-12))
	})

	Describe("inertial mode", func() {
		BeforeEach(func() {
			cfg := coordinator.DefaultConfig()
			cfg.Mode = coordinator.InertialMode
			c = coordinator.New(cfg, coordinator.WithBounds(collision.AABB{Min: vmath.V2(0, 0), Max: vmath.V2(100, 100)}))
		})

		It("integrates the net force as acceleration and keeps elements in bounds", func() {
			repel := magnet()
			repel.Interaction = field.Repel
			repel.Strength = 5
			c.SetField(repel)
			Expect(c.AddElement(coordinator.Element{ID: "a", Position: vmath.V2(90, 50), Size: 5})).To(Succeed())
			c.SetPointer(vmath.V2(80, 50))

			moved := false
			for i := 0; i < 600; i++ {
				snap := c.Update()
				e, _ := snap.Entity("a")
				Expect(e.Position.X).To(BeNumerically("<=", 95+1e-6))
				if e.Position.X > 90 {
					moved = true
				}
			}
			Expect(moved).To(BeTrue())
		})

		It("pushes overlapping elements apart under a small correction", func() {
			Expect(c.AddElement(coordinator.Element{ID: "a", Position: vmath.V2(40, 50), MinDistance: 30})).To(Succeed())
			Expect(c.AddElement(coordinator.Element{ID: "b", Position: vmath.V2(60, 50), MinDistance: 30})).To(Succeed())

			snap := c.Update()
			a, _ := snap.Entity("a")
			Expect(a.Active).To(BeTrue())
			Expect(a.AtRest).To(BeFalse())
			Expect(a.Velocity.X).To(BeNumerically("<", 0))

			snap = run(c, 600)
			a, _ = snap.Entity("a")
			b, _ := snap.Entity("b")
			// the correction stops once it drops under the dead zone
			slack := c.Config().DeadZone / c.Config().Repulsion
			Expect(a.Position.Distance(b.Position)).To(BeNumerically(">=", 30-slack-1e-6))
			Expect(a.Position.Distance(b.Position)).To(BeNumerically("<=", 30+1e-6))
			Expect(snap.AtRest()).To(BeTrue())
			Expect(a.Active).To(BeFalse())
			Expect(b.Active).To(BeFalse())
		})
	})
})

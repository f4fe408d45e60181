package collision

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

// Resolve applies a normal impulse with restitution min(eA, eB), a Coulomb
// friction impulse bounded by j*sqrt(fA*fB), and a positional correction
// that removes the full penetration split by inverse mass. Velocities are
// left alone when the bodies are already separating. Static bodies are
// never changed.
func Resolve(a, b *Body, res Result) {
	if a == nil || b == nil || !res.Colliding {
		return
	}
	invA, invB := a.InverseMass(), b.InverseMass()
	invSum := invA + invB
	if invSum <= 0 {
		return
	}
	n := res.Normal

	rv := b.Velocity.Sub(a.Velocity)
	vn := rv.Dot(n)
	if vn < 0 {
		e := math.Min(a.Material.Restitution, b.Material.Restitution)
		j := -(1 + e) * vn / invSum
		impulse := n.Scale(j)
		a.Velocity = a.Velocity.Sub(impulse.Scale(invA))
		b.Velocity = b.Velocity.Add(impulse.Scale(invB))

		rv = b.Velocity.Sub(a.Velocity)
		if t, ok := rv.Sub(n.Scale(rv.Dot(n))).TryNormalize(); ok {
			mu := math.Sqrt(a.Material.Friction * b.Material.Friction)
			jt := vmath.ClampAbs(-rv.Dot(t)/invSum, j*mu)
			friction := t.Scale(jt)
			a.Velocity = a.Velocity.Sub(friction.Scale(invA))
			b.Velocity = b.Velocity.Add(friction.Scale(invB))
		}
	}

	if res.Penetration > 0 {
		correction := n.Scale(res.Penetration / invSum)
		a.Position = a.Position.Sub(correction.Scale(invA))
		b.Position = b.Position.Add(correction.Scale(invB))
	}
}

// Collide detects and resolves in one call.
func Collide(a, b *Body) Result {
	res := Detect(a, b)
	Resolve(a, b, res)
	return res
}

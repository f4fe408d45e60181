package collision

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

// Result describes the overlap of two bodies. Normal is a unit vector
// pointing from A toward B.
type Result struct {
	Colliding   bool
	Normal      vmath.Vec2
	Penetration float64
	Contact     vmath.Vec2
}

func (r Result) flip() Result {
	r.Normal = r.Normal.Neg()
	return r
}

// Detect runs the narrow phase for a and b. Degenerate polygons never
// collide.
func Detect(a, b *Body) Result {
	if a == nil || b == nil {
		return Result{}
	}
	switch sa := a.Shape.(type) {
	case Circle:
		return detectRound(a.Position, sa.Radius, b)
	case Point:
		return detectRound(a.Position, 0, b)
	case Rect:
		return detectConvex(sa.vertices(a.Position), b)
	case Polygon:
		if sa.Degenerate() {
			return Result{}
		}
		return detectConvex(sa.world(a.Position), b)
	}
	return Result{}
}

// detectRound handles A as a circle; a point is a circle of radius zero.
func detectRound(ca vmath.Vec2, ra float64, b *Body) Result {
	switch sb := b.Shape.(type) {
	case Circle:
		return circleCircle(ca, ra, b.Position, sb.Radius)
	case Point:
		return circleCircle(ca, ra, b.Position, 0)
	case Rect:
		return circleRect(ca, ra, b.Position, sb)
	case Polygon:
		if sb.Degenerate() {
			return Result{}
		}
		return circlePolygon(ca, ra, sb.world(b.Position))
	}
	return Result{}
}

func detectConvex(va []vmath.Vec2, b *Body) Result {
	switch sb := b.Shape.(type) {
	case Circle:
		return circlePolygon(b.Position, sb.Radius, va).flip()
	case Point:
		return circlePolygon(b.Position, 0, va).flip()
	case Rect:
		return sat(va, sb.vertices(b.Position))
	case Polygon:
		if sb.Degenerate() {
			return Result{}
		}
		return sat(va, sb.world(b.Position))
	}
	return Result{}
}

func circleCircle(ca vmath.Vec2, ra float64, cb vmath.Vec2, rb float64) Result {
	d := cb.Sub(ca)
	dist := d.Len()
	sum := ra + rb
	if dist >= sum {
		return Result{}
	}
	n, ok := d.TryNormalize()
	if !ok {
		n = vmath.V2(1, 0)
	}
	pen := sum - dist
	return Result{
		Colliding:   true,
		Normal:      n,
		Penetration: pen,
		Contact:     ca.Add(n.Scale(ra - pen/2)),
	}
}

// circleRect clamps the circle center into the rectangle's local frame to
// find the closest point. The normal points from the circle to the rect.
func circleRect(c vmath.Vec2, r float64, pos vmath.Vec2, rect Rect) Result {
	local := c.Sub(pos)
	if rect.Rotation != 0 {
		local = local.Rotate(-rect.Rotation)
	}
	hw, hh := rect.W/2, rect.H/2
	closest := vmath.V2(vmath.Clamp(local.X, -hw, hw), vmath.Clamp(local.Y, -hh, hh))

	var outward vmath.Vec2 // rect toward circle, local frame
	var pen float64
	if math.Abs(local.X) <= hw && math.Abs(local.Y) <= hh {
		dx, dy := hw-math.Abs(local.X), hh-math.Abs(local.Y)
		if dx < dy {
			outward = vmath.V2(sign(local.X), 0)
			closest.X = sign(local.X) * hw
			pen = r + dx
		} else {
			outward = vmath.V2(0, sign(local.Y))
			closest.Y = sign(local.Y) * hh
			pen = r + dy
		}
	} else {
		diff := local.Sub(closest)
		dist := diff.Len()
		if dist >= r {
			return Result{}
		}
		outward = diff.Scale(1 / dist)
		pen = r - dist
	}

	if rect.Rotation != 0 {
		outward = outward.Rotate(rect.Rotation)
		closest = closest.Rotate(rect.Rotation)
	}
	return Result{
		Colliding:   true,
		Normal:      outward.Neg(),
		Penetration: pen,
		Contact:     pos.Add(closest),
	}
}

// circlePolygon finds the closest boundary point of a convex polygon. The
// normal points from the circle to the polygon.
func circlePolygon(c vmath.Vec2, r float64, verts []vmath.Vec2) Result {
	center := centroid(verts)
	best := math.Inf(1)
	var closest, edgeNormal vmath.Vec2
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		p := closestOnSegment(c, a, b)
		if d := c.Distance(p); d < best {
			best = d
			closest = p
			edgeNormal = outwardNormal(a, b, center)
		}
	}

	if containsPoint(verts, c) {
		n, ok := c.Sub(closest).TryNormalize()
		if !ok {
			n = edgeNormal.Neg()
		}
		return Result{Colliding: true, Normal: n, Penetration: r + best, Contact: closest}
	}
	if best >= r {
		return Result{}
	}
	n, ok := closest.Sub(c).TryNormalize()
	if !ok {
		n = edgeNormal.Neg()
	}
	return Result{Colliding: true, Normal: n, Penetration: r - best, Contact: closest}
}

// sat tests two convex polygons along every edge normal and keeps the axis
// of least overlap.
func sat(va, vb []vmath.Vec2) Result {
	minOverlap := math.Inf(1)
	var axis vmath.Vec2
	for _, poly := range [][]vmath.Vec2{va, vb} {
		for i := range poly {
			e := poly[(i+1)%len(poly)].Sub(poly[i])
			n, ok := e.Perp().TryNormalize()
			if !ok {
				continue
			}
			minA, maxA := project(va, n)
			minB, maxB := project(vb, n)
			overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
			if overlap <= 0 {
				return Result{}
			}
			if overlap < minOverlap {
				minOverlap = overlap
				axis = n
			}
		}
	}
	if math.IsInf(minOverlap, 1) {
		return Result{}
	}
	if centroid(vb).Sub(centroid(va)).Dot(axis) < 0 {
		axis = axis.Neg()
	}
	return Result{
		Colliding:   true,
		Normal:      axis,
		Penetration: minOverlap,
		Contact:     support(vb, axis.Neg()),
	}
}

func project(vs []vmath.Vec2, axis vmath.Vec2) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		p := v.Dot(axis)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return lo, hi
}

func support(vs []vmath.Vec2, dir vmath.Vec2) vmath.Vec2 {
	best := math.Inf(-1)
	var out vmath.Vec2
	for _, v := range vs {
		if p := v.Dot(dir); p > best {
			best = p
			out = v
		}
	}
	return out
}

func closestOnSegment(p, a, b vmath.Vec2) vmath.Vec2 {
	ab := b.Sub(a)
	l := ab.LenSqr()
	if l < vmath.Epsilon {
		return a
	}
	t := vmath.Clamp(p.Sub(a).Dot(ab)/l, 0, 1)
	return a.Add(ab.Scale(t))
}

func outwardNormal(a, b, center vmath.Vec2) vmath.Vec2 {
	n := b.Sub(a).Perp().Normalize()
	if n.Dot(a.Add(b).Scale(0.5).Sub(center)) < 0 {
		n = n.Neg()
	}
	return n
}

// containsPoint is an even-odd ray cast.
func containsPoint(vs []vmath.Vec2, p vmath.Vec2) bool {
	in := false
	for i, j := 0, len(vs)-1; i < len(vs); j, i = i, i+1 {
		a, b := vs[i], vs[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

package game

import "math"

// Physics is a small stdlib-only integration façade used by rockets and
// grenades. No rigid-body library appears anywhere in the reference
// corpus (checked: box2d, chipmunk, resolv, ode are all absent), so this
// intentionally stays a thin wrapper over math rather than reaching for
// an unavailable dependency.
type Physics struct{}

// NewPhysics constructs the physics façade.
func NewPhysics() *Physics { return &Physics{} }

// Integrate advances position by velocity*dt (semi-implicit Euler, the
// same scheme the teacher's movement code uses).
func (p *Physics) Integrate(pos, vel Vec2, dt float64) Vec2 {
	return pos.Add(vel.Scale(dt))
}

// SweepSegment tests whether the straight-line path from 'from' to 'to'
// intersects the AABB, returning the nearest entry point and whether it
// occurred before reaching 'to'.
func (p *Physics) SweepSegment(from, to Vec2, x0, y0, x1, y1 float64) (Vec2, bool) {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist == 0 {
		return from, false
	}
	dir := delta.Scale(1 / dist)
	t, hit := rayAABB(from, dir, dist, x0, y0, x1, y1)
	if !hit {
		return Vec2{}, false
	}
	return from.Add(dir.Scale(t)), true
}

// ReflectVelocity mirrors vel about the surface normal n (assumed unit
// length), the shared bounce formula used by resolveBounce.
func (p *Physics) ReflectVelocity(vel, n Vec2) Vec2 {
	d := 2 * vel.Dot(n)
	return vel.Sub(n.Scale(d))
}

// AABBNormalAt approximates the outward surface normal of an AABB at
// the point nearest to p; used when a swept sphere stops on a face.
func (p *Physics) AABBNormalAt(point Vec2, x0, y0, x1, y1 float64) Vec2 {
	cx := (x0 + x1) / 2
	cy := (y0 + y1) / 2
	dx := point.X - cx
	dy := point.Y - cy
	halfW := (x1 - x0) / 2
	halfH := (y1 - y0) / 2

	if halfW <= 0 || halfH <= 0 {
		return Vec2{}
	}
	// Scale by half-extent so the larger penetration axis wins.
	px := dx / halfW
	py := dy / halfH

	if math.Abs(px) > math.Abs(py) {
		if px > 0 {
			return Vec2{1, 0}
		}
		return Vec2{-1, 0}
	}
	if py > 0 {
		return Vec2{0, 1}
	}
	return Vec2{0, -1}
}

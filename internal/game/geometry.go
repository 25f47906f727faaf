package game

import "math"

// Vec2 is a 2D point/vector in playfield space. Origin top-left,
// positive X right, positive Y down.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }

// Normalized returns the unit vector in the same direction, or the zero
// vector if v has zero length.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// normalizeAngle reduces angle to (-pi, pi].
func normalizeAngle(angle float64) float64 {
	const twoPi = 2 * math.Pi
	angle = math.Mod(angle, twoPi)
	if angle <= -math.Pi {
		angle += twoPi
	}
	if angle > math.Pi {
		angle -= twoPi
	}
	return angle
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rayAABB performs a parametric ray/segment vs. AABB intersection test.
// origin+dir*t for t in [0, maxT]. Returns (tEntry, true) if the segment
// enters the box, false otherwise. dir need not be normalized; maxT is
// expressed in the same units as dir.
func rayAABB(origin, dir Vec2, maxT, x0, y0, x1, y1 float64) (float64, bool) {
	tMin, tMax := 0.0, maxT

	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		if axis == 0 {
			o, d, lo, hi = origin.X, dir.X, x0, x1
		} else {
			o, d, lo, hi = origin.Y, dir.Y, y0, y1
		}
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// closestPointOnAABB returns the nearest point on rectangle
// [x0,y0]-[x1,y1] to p.
func closestPointOnAABB(p Vec2, x0, y0, x1, y1 float64) Vec2 {
	return Vec2{clamp(p.X, x0, x1), clamp(p.Y, y0, y1)}
}

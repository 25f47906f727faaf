package game

import (
	"math"
	"sort"

	"breachline/internal/config"
)

// VisionPolygon is the ordered ring of points bounding what a player
// can see this tick: a triangle fan from the player's eye through each
// entry in Points, in angular order.
type VisionPolygon struct {
	Origin Vec2
	Points []Vec2
}

// corner is a candidate angle to cast a ray along: either a wall
// corner (straddled by +/- CornerEpsilon) or an evenly spaced arc fill
// sample.
type corner struct {
	angle float64
}

// ComputeVisibility builds the 120-degree (configurable) vision polygon
// for a viewer at origin facing `facing` radians. It uses the
// corner-harvest + arc-fill + angle-sort + raycast algorithm: every
// wall corner inside the cone contributes three rays (angle-epsilon,
// angle, angle+epsilon) so the polygon snaps tight to occluder edges,
// and the
// cone is additionally filled with evenly spaced arc samples so long
// unobstructed stretches still get curved boundary segments rather than
// straight chords. Only slices passing IntactSlice are treated as
// occluders — the mask never enters this computation.
func ComputeVisibility(origin Vec2, facing float64, dest *Destruction, cfg config.VisibilityConfig, epsilon float64) VisionPolygon {
	halfFOV := cfg.ViewAngleDegrees * math.Pi / 360.0
	minAngle := normalizeAngle(facing - halfFOV)
	maxAngle := normalizeAngle(facing + halfFOV)

	angles := harvestCornerAngles(origin, dest, facing, halfFOV, cfg.CornerEpsilon, epsilon)
	angles = append(angles, arcFillAngles(facing, halfFOV, cfg.ArcStepDegrees)...)
	angles = append(angles, minAngle, maxAngle, facing)

	// Sort relative to facing so a cone straddling +/-pi stays contiguous.
	sort.Slice(angles, func(i, j int) bool {
		return normalizeAngle(angles[i]-facing) < normalizeAngle(angles[j]-facing)
	})
	angles = dedupeAngles(angles)

	points := make([]Vec2, 0, len(angles)+1)
	points = append(points, origin)
	for _, a := range angles {
		if !angleInCone(a, facing, halfFOV) {
			continue
		}
		dir := Vec2{math.Cos(a), math.Sin(a)}
		dist := castVisibilityRay(origin, dir, cfg.ViewDistance, dest, epsilon)
		points = append(points, origin.Add(dir.Scale(dist)))
	}

	return VisionPolygon{Origin: origin, Points: points}
}

// angleInCone reports whether angle lies within [facing-half, facing+half]
// accounting for wraparound at +/-pi.
func angleInCone(angle, facing, half float64) bool {
	diff := normalizeAngle(angle - facing)
	return diff >= -half-1e-9 && diff <= half+1e-9
}

// harvestCornerAngles collects the angle-from-origin to every intact
// slice corner that falls inside the cone (no distance check), each
// duplicated at +/- epsilon so the raycast straddles the corner and
// captures the silhouette edge precisely.
func harvestCornerAngles(origin Vec2, dest *Destruction, facing, half, epsilon, intactEpsilon float64) []float64 {
	var angles []float64
	for _, w := range dest.Walls() {
		for i := 0; i < WallSlices; i++ {
			if !w.IntactSlice(i, intactEpsilon) {
				continue
			}
			x0, y0, x1, y1 := w.sliceBounds(i)
			corners := [4]Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
			for _, c := range corners {
				a := math.Atan2(c.Y-origin.Y, c.X-origin.X)
				if !angleInCone(a, facing, half) {
					continue
				}
				angles = append(angles, normalizeAngle(a-epsilon), a, normalizeAngle(a+epsilon))
			}
		}
	}
	return angles
}

// arcFillAngles produces evenly spaced samples across the cone so long
// unoccluded runs still render as a smooth arc rather than a single
// chord between two far-apart corner rays.
func arcFillAngles(facing, half, stepDegrees float64) []float64 {
	if stepDegrees <= 0 {
		stepDegrees = 10
	}
	step := stepDegrees * math.Pi / 180.0
	var angles []float64
	for a := facing - half; a <= facing+half+1e-9; a += step {
		angles = append(angles, normalizeAngle(a))
	}
	return angles
}

// dedupeAngles removes near-duplicate angles from a sorted slice.
func dedupeAngles(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, a := range sorted[1:] {
		if math.Abs(a-out[len(out)-1]) > 1e-7 {
			out = append(out, a)
		}
	}
	return out
}

// castVisibilityRay returns the distance at which the ray from origin
// in direction dir first strikes an intact slice, or maxDist if it
// reaches the view boundary unobstructed.
func castVisibilityRay(origin, dir Vec2, maxDist float64, dest *Destruction, epsilon float64) float64 {
	best := maxDist
	for _, w := range dest.Walls() {
		for i := 0; i < WallSlices; i++ {
			if !w.IntactSlice(i, epsilon) {
				continue
			}
			x0, y0, x1, y1 := w.sliceBounds(i)
			t, hit := rayAABB(origin, dir, maxDist, x0, y0, x1, y1)
			if hit && t < best {
				best = t
			}
		}
	}
	return best
}

// Contains performs a standard even-odd ray-casting point-in-polygon
// test against the computed vision polygon (including the origin
// vertex, forming the full triangle-fan outline).
func (vp VisionPolygon) Contains(p Vec2) bool {
	n := len(vp.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := vp.Points[i], vp.Points[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xint := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

package game

import (
	"math"
	"time"
)

// HitKind classifies what a hitscan ray struck.
type HitKind int

const (
	HitNone HitKind = iota
	HitWall
	HitPlayer
)

// HitscanHit is one intersection recorded along a ray, in travel order.
type HitscanHit struct {
	Kind       HitKind
	Distance   float64
	Position   Vec2
	WallID     string
	SliceIndex int
	PlayerID   string
}

// TargetPlayer is the minimal player view the hitscan solver needs. The
// combat/room layer supplies concrete player positions through this
// interface rather than the solver reaching into player.go directly.
type TargetPlayer struct {
	ID     string
	Pos    Vec2
	Radius float64
}

// wallCrossing is an internal candidate crossing of a single wall slice
// along the ray, used to walk hits in distance order.
type wallCrossing struct {
	dist    float64
	wallID  string
	slice   int
	pos     Vec2
	intact  bool
}

// traceWalls returns every wall-slice crossing along the ray up to
// maxRange, unsorted (the caller sorts), regardless of whether the
// slice is intact (soft-wall penetration needs to see destroyed slices
// too, to know it passed through empty space).
func traceWalls(d *Destruction, origin Vec2, dir Vec2, maxRange float64, epsilon float64) []wallCrossing {
	var crossings []wallCrossing
	for _, w := range d.Walls() {
		if _, hit := rayAABB(origin, dir, maxRange, w.X, w.Y, w.X+w.Width, w.Y+w.Height); !hit {
			continue
		}
		// Walk slice-by-slice, since a ray can graze multiple slices of
		// one wall and a destroyed entry slice must not hide an intact
		// slice behind it.
		for i := 0; i < WallSlices; i++ {
			x0, y0, x1, y1 := w.sliceBounds(i)
			t, hit := rayAABB(origin, dir, maxRange, x0, y0, x1, y1)
			if !hit {
				continue
			}
			crossings = append(crossings, wallCrossing{
				dist:   t,
				wallID: w.ID,
				slice:  i,
				pos:    origin.Add(dir.Scale(t)),
				intact: w.IntactSlice(i, epsilon),
			})
		}
	}
	return crossings
}

// tracePlayers returns the closest ray/circle intersection against each
// candidate target, excluding excludeID (the shooter).
func tracePlayers(targets []TargetPlayer, origin, dir Vec2, maxRange float64, excludeID string) []wallCrossing {
	var out []wallCrossing
	for _, t := range targets {
		if t.ID == excludeID {
			continue
		}
		toCenter := t.Pos.Sub(origin)
		proj := toCenter.Dot(dir)
		if proj < 0 || proj > maxRange {
			continue
		}
		closest := origin.Add(dir.Scale(proj))
		distToLine := closest.Sub(t.Pos).Len()
		if distToLine > t.Radius {
			continue
		}
		// Back off to the actual circle surface intersection.
		back := math.Sqrt(math.Max(0, t.Radius*t.Radius-distToLine*distToLine))
		entryT := proj - back
		if entryT < 0 {
			entryT = 0
		}
		out = append(out, wallCrossing{
			dist:   entryT,
			wallID: "", // marks a player crossing
			slice:  -1,
			pos:    origin.Add(dir.Scale(entryT)),
		})
		out[len(out)-1].intact = true
		out[len(out)-1].wallID = "\x00player:" + t.ID
	}
	return out
}

// PenetrationPlan describes what a single hitscan ray did: the final
// stop point, every wall slice it damaged along the way, and every
// player it struck (with falloff-adjusted damage already computed by
// the caller using DamageFalloff).
type PenetrationPlan struct {
	Hits       []HitscanHit
	StopReason string // "range", "hard_wall", "penetration_cap", "player_cap"
}

// ResolveHitscan walks a single ray from origin in direction dir (a unit
// vector) out to maxRange, producing an ordered list of hits and
// applying wall damage along the way. It implements spec §4.3's ray
// behaviors via the antiMaterial flag and the penetration parameters
// rather than separate code paths:
//
//   - Standard rounds (antiMaterial=false): stop at the first intact
//     hard slice or the first player hit, whichever is nearer. Intact
//     soft-material slices (wood/glass) are crossed by paying
//     softPenetrationDamage per crossing, up to softPenetrationCap
//     crossings; a cap of 0 stops the round at the first soft slice.
//   - Anti-material rifle (antiMaterial=true): damages each intact slice
//     it reaches and passes on only when that slice is destroyed, up to
//     wallPenetrations walls of ANY material; it passes through up to
//     playerPenetrations players.
func ResolveHitscan(
	dest *Destruction,
	targets []TargetPlayer,
	shooterID string,
	origin, dir Vec2,
	maxRange float64,
	baseDamage float64,
	falloffStart, falloffMin float64,
	antiMaterial bool,
	wallPenetrations int,
	playerPenetrations int,
	softPenetrationDamage float64,
	softPenetrationCap int,
	epsilon float64,
	now time.Time,
) ([]HitscanHit, []DamageEvent) {
	wallCr := traceWalls(dest, origin, dir, maxRange, epsilon)
	playerCr := tracePlayers(targets, origin, dir, maxRange, shooterID)
	all := append(wallCr, playerCr...)
	sortByDist(all)

	var hits []HitscanHit
	var events []DamageEvent

	wallsPunched := 0
	playersHit := 0
	softCrossings := 0
	remainingDamage := baseDamage

	for _, c := range all {
		if isPlayerCrossing(c.wallID) {
			if antiMaterial && playersHit >= playerPenetrations {
				break
			}
			pid := playerIDFromCrossing(c.wallID)
			traveled := c.dist
			dmg := DamageFalloff(remainingDamage, traveled, maxRange, falloffStart, falloffMin)
			hits = append(hits, HitscanHit{
				Kind:     HitPlayer,
				Distance: traveled,
				Position: c.pos,
				PlayerID: pid,
			})
			playersHit++
			if !antiMaterial {
				// Standard bullets stop at the first player they reach,
				// however many soft walls they penetrated to get there.
				break
			}
			_ = dmg // damage application against player health is done by the combat layer using this hit list
			continue
		}

		w := dest.Wall(c.wallID)
		if w == nil {
			continue
		}

		if !c.intact {
			// Slice already destroyed: the ray passes through for free,
			// no event, no stop.
			continue
		}

		if antiMaterial {
			if wallsPunched >= wallPenetrations {
				hits = append(hits, HitscanHit{Kind: HitWall, Distance: c.dist, Position: c.pos, WallID: c.wallID, SliceIndex: c.slice})
				break
			}
			dmg := DamageFalloff(remainingDamage, c.dist, maxRange, falloffStart, falloffMin)
			if ev, ok := dest.ApplyDamage(c.wallID, c.slice, dmg, now); ok {
				events = append(events, ev)
				hits = append(hits, HitscanHit{Kind: HitWall, Distance: c.dist, Position: c.pos, WallID: c.wallID, SliceIndex: c.slice})
				if ev.IsDestroyed {
					wallsPunched++
					continue
				}
			}
			// Slice survived the hit: the round stops here.
			break
		}

		if w.Material.IsHard() {
			hits = append(hits, HitscanHit{Kind: HitWall, Distance: c.dist, Position: c.pos, WallID: c.wallID, SliceIndex: c.slice})
			dmg := DamageFalloff(remainingDamage, c.dist, maxRange, falloffStart, falloffMin)
			if ev, ok := dest.ApplyDamage(c.wallID, c.slice, dmg, now); ok {
				events = append(events, ev)
			}
			break
		}

		// Soft material: absorb min(softPenetrationDamage, sliceHealth)
		// from the slice, subtract that same amount from the bullet's
		// remaining damage, and keep going (spec §4.2 penetration: a
		// wood/glass slice costs the round some damage rather than
		// stopping it outright).
		hits = append(hits, HitscanHit{Kind: HitWall, Distance: c.dist, Position: c.pos, WallID: c.wallID, SliceIndex: c.slice})
		ev, ok := dest.ApplyDamage(c.wallID, c.slice, softPenetrationDamage, now)
		if ok {
			events = append(events, ev)
			remainingDamage -= ev.Damage
		}
		if remainingDamage <= 0 {
			break
		}
		if softCrossings >= softPenetrationCap {
			break
		}
		softCrossings++
	}

	return hits, events
}

func isPlayerCrossing(id string) bool {
	return len(id) > 8 && id[:8] == "\x00player:"
}

func playerIDFromCrossing(id string) string {
	return id[8:]
}

func sortByDist(cs []wallCrossing) {
	for i := 1; i < len(cs); i++ {
		j := i
		for j > 0 && cs[j-1].dist > cs[j].dist {
			cs[j-1], cs[j] = cs[j], cs[j-1]
			j--
		}
	}
}

// ShotgunPellets fires PelletCount independent rays spread around
// direction by the weapon's accuracy-derived spread, returning the
// combined hit list. Each pellet uses ShotgunFalloff rather than the
// continuous DamageFalloff curve.
func ShotgunPellets(
	dest *Destruction,
	targets []TargetPlayer,
	shooterID string,
	origin Vec2,
	direction float64,
	pelletCount int,
	perPelletDamage float64,
	maxRange float64,
	effectiveAccuracy float64,
	ranges, multipliers []float64,
	epsilon float64,
	now time.Time,
	rnds []float64,
) ([]HitscanHit, []DamageEvent) {
	var allHits []HitscanHit
	var allEvents []DamageEvent
	for i := 0; i < pelletCount; i++ {
		rnd := 0.5
		if i < len(rnds) {
			rnd = rnds[i]
		}
		angle := ApplySpread(direction, effectiveAccuracy, rnd)
		dir := Vec2{math.Cos(angle), math.Sin(angle)}
		hits, events := ResolveHitscan(dest, targets, shooterID, origin, dir, maxRange, perPelletDamage, 1.0, 1.0, false, 0, 0, 0, 0, epsilon, now)
		for i := range hits {
			if hits[i].Kind == HitPlayer {
				hits[i].Distance = hits[i].Distance // falloff applied by caller via ShotgunFalloff(perPelletDamage, dist,...)
			}
		}
		allHits = append(allHits, hits...)
		allEvents = append(allEvents, events...)
	}
	return allHits, allEvents
}

package game

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ProjectileKind is the tagged set of non-hitscan projectile behaviors.
type ProjectileKind int

const (
	ProjRocket ProjectileKind = iota
	ProjGrenadeLauncher
	ProjFrag
	ProjSmoke
	ProjFlash
)

// Projectile is a moving attack entity integrated once per tick, unlike
// hitscan rays which resolve instantly. Grounded on the teacher's
// Projectile type and Update/CheckHit lifecycle, generalized from a
// single arrow-like kind to the tagged ProjectileKind set.
type Projectile struct {
	ID      string
	OwnerID string
	Kind    ProjectileKind

	Pos Vec2
	Vel Vec2

	Damage          float64
	ExplosionRadius float64

	SpawnedAt time.Time
	FuseEnds  time.Time

	// Grenade-specific integration state (unused by rockets, which fly
	// straight and detonate on first contact).
	IsGrenadeLike    bool
	LastBounceAt     time.Time
	LastBounceByWall map[string]time.Time
	RestingSince     time.Time
	AtRest           bool

	Exploded bool
}

// NewProjectile spawns a projectile of the given kind traveling from
// origin toward direction (unit vector) at speed.
func NewProjectile(ownerID string, kind ProjectileKind, origin, direction Vec2, speed, damage, explosionRadius, fuseTime float64, now time.Time) *Projectile {
	p := &Projectile{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Kind:            kind,
		Pos:             origin,
		Vel:             direction.Normalized().Scale(speed),
		Damage:          damage,
		ExplosionRadius: explosionRadius,
		SpawnedAt:       now,
	}
	if fuseTime > 0 {
		p.FuseEnds = now.Add(time.Duration(fuseTime * float64(time.Second)))
	}
	p.IsGrenadeLike = kind == ProjGrenadeLauncher || kind == ProjFrag || kind == ProjSmoke || kind == ProjFlash
	if p.IsGrenadeLike {
		p.LastBounceByWall = make(map[string]time.Time)
	}
	return p
}

// FuseExpired reports whether the projectile's fuse timer has elapsed.
func (p *Projectile) FuseExpired(now time.Time) bool {
	if p.FuseEnds.IsZero() {
		return false
	}
	return !now.Before(p.FuseEnds)
}

// IntegrateStraight advances a non-grenade (rocket) projectile in a
// straight line and reports the swept segment for collision testing by
// the caller.
func (p *Projectile) IntegrateStraight(dt float64) (from, to Vec2) {
	from = p.Pos
	to = p.Pos.Add(p.Vel.Scale(dt))
	p.Pos = to
	return
}

// OutOfBounds reports whether the projectile has left the playfield by
// a safety margin, used as a terminal condition alongside fuse/impact.
func (p *Projectile) OutOfBounds(width, height, margin float64) bool {
	return p.Pos.X < -margin || p.Pos.X > width+margin || p.Pos.Y < -margin || p.Pos.Y > height+margin
}

// resolveBounce is the single shared bounce-resolution helper (spec §9
// Open Question 3: exactly one call site for this computation, the
// grenade-vs-wall bounce in StepGrenade; ground friction does not use
// it).
func resolveBounce(v, n Vec2, damping float64) Vec2 {
	reflected := (&Physics{}).ReflectVelocity(v, n)
	return reflected.Scale(damping)
}

// GrenadePhysics bundles the tunables StepGrenade needs, mirroring
// config.GrenadeConfig without importing the config package directly
// from the game package's hot integration path.
type GrenadePhysics struct {
	Radius            float64
	GroundFriction    float64
	BounceDamping     float64
	WallFriction      float64
	MinBounceSpeed    float64
	CollisionCooldown float64
}

// StepGrenade integrates one tick of grenade-like motion: ground
// friction decay, wall bounces via swept-AABB against every wall (using
// physical intactness only, never the mask), and rest detection once
// speed drops below MinBounceSpeed. Returns the list of walls the
// grenade's bounding sphere swept through this tick (for sound/visual
// triggers only — no damage is dealt until detonation).
func (p *Projectile) StepGrenade(dt float64, dest *Destruction, cfg GrenadePhysics, epsilon float64, now time.Time) []string {
	var swept []string
	phys := &Physics{}

	from := p.Pos
	to := phys.Integrate(p.Pos, p.Vel, dt)

	for _, w := range dest.Walls() {
		hitAny := false
		for i := 0; i < WallSlices; i++ {
			if !w.IntactSlice(i, epsilon) {
				continue
			}
			x0, y0, x1, y1 := w.sliceBounds(i)
			x0 -= cfg.Radius
			y0 -= cfg.Radius
			x1 += cfg.Radius
			y1 += cfg.Radius
			contact, hit := phys.SweepSegment(from, to, x0, y0, x1, y1)
			if !hit {
				continue
			}
			hitAny = true
			p.Pos = contact
			to = contact

			// A grenade resting against a wall re-enters this slice's
			// AABB every tick; skip recomputing the reflection while
			// still within the wall's collision cooldown so it settles
			// instead of jittering in place.
			if cfg.CollisionCooldown > 0 {
				if last, ok := p.LastBounceByWall[w.ID]; ok && now.Sub(last) < time.Duration(cfg.CollisionCooldown*float64(time.Second)) {
					continue
				}
			}

			n := phys.AABBNormalAt(contact, x0, y0, x1, y1)
			speed := p.Vel.Len()
			p.Vel = resolveBounce(p.Vel, n, cfg.BounceDamping)
			p.LastBounceAt = now
			if p.LastBounceByWall == nil {
				p.LastBounceByWall = make(map[string]time.Time)
			}
			p.LastBounceByWall[w.ID] = now
			if speed < cfg.MinBounceSpeed {
				p.Vel = p.Vel.Scale(cfg.WallFriction * 0.1)
			}
		}
		if hitAny {
			swept = append(swept, w.ID)
		}
	}

	p.Pos = to

	// Ground friction: exponential decay per second.
	decay := math.Pow(1-cfg.GroundFriction, dt)
	p.Vel = p.Vel.Scale(decay)

	if p.Vel.Len() < cfg.MinBounceSpeed {
		if p.RestingSince.IsZero() {
			p.RestingSince = now
		}
		p.AtRest = true
	} else {
		p.RestingSince = time.Time{}
		p.AtRest = false
	}

	return swept
}

package game

import (
	"time"

	"breachline/internal/config"
)

// GrenadeSet owns every live grenade-like projectile (frag, smoke,
// flash, and grenade-launcher rounds) for a room and advances them each
// tick. Split out from the rocket set because grenades bounce and rest
// rather than detonating on first contact.
type GrenadeSet struct {
	active map[string]*Projectile
	cfg    config.GrenadeConfig
}

// NewGrenadeSet creates an empty grenade set.
func NewGrenadeSet(cfg config.GrenadeConfig) *GrenadeSet {
	return &GrenadeSet{active: make(map[string]*Projectile), cfg: cfg}
}

// Throw spawns a new grenade-like projectile and tracks it.
func (g *GrenadeSet) Throw(ownerID string, kind ProjectileKind, origin, direction Vec2, speed, damage, radius, fuseTime float64, now time.Time) *Projectile {
	p := NewProjectile(ownerID, kind, origin, direction, speed, damage, radius, fuseTime, now)
	g.active[p.ID] = p
	return p
}

// Step advances every live grenade by dt, returning IDs whose fuse has
// expired or that were at rest on this tick and the previous one (the
// caller should detonate and then Remove them) and IDs
// whose out-of-bounds sentinel tripped (the caller should remove them
// silently, with no explosion).
func (g *GrenadeSet) Step(dt float64, dest *Destruction, epsilon float64, worldW, worldH float64, now time.Time) (detonate []string, discard []string) {
	physCfg := GrenadePhysics{
		Radius:            g.cfg.Radius,
		GroundFriction:    g.cfg.GroundFriction,
		BounceDamping:     g.cfg.BounceDamping,
		WallFriction:      g.cfg.WallFriction,
		MinBounceSpeed:    g.cfg.MinBounceSpeed,
		CollisionCooldown: g.cfg.CollisionCooldown,
	}
	for id, p := range g.active {
		if p.Exploded {
			continue
		}
		wasAtRest := p.AtRest
		p.StepGrenade(dt, dest, physCfg, epsilon, now)

		if p.OutOfBounds(worldW, worldH, g.cfg.SentinelBound) {
			discard = append(discard, id)
			continue
		}
		if p.FuseExpired(now) {
			detonate = append(detonate, id)
			continue
		}
		// Stuck grenade: speed was already below MinBounceSpeed on the
		// previous tick and still is, so it detonates early rather than
		// waiting out its full fuse wedged against a wall.
		if wasAtRest && p.AtRest {
			detonate = append(detonate, id)
		}
	}
	return detonate, discard
}

// Get returns a grenade by ID, or nil.
func (g *GrenadeSet) Get(id string) *Projectile { return g.active[id] }

// Remove deletes a grenade from tracking (post-detonation or discard).
func (g *GrenadeSet) Remove(id string) { delete(g.active, id) }

// All returns every live grenade, for snapshot serialization.
func (g *GrenadeSet) All() []*Projectile {
	out := make([]*Projectile, 0, len(g.active))
	for _, p := range g.active {
		out = append(out, p)
	}
	return out
}

package game

import "time"

// RocketSet owns every live rocket-launcher projectile, advancing them
// straight-line each tick via the physics façade and detonating on the
// first wall or player contact rather than bouncing (spec §4.3: rockets
// fly straight and explode on impact, distinct from grenade arcing).
type RocketSet struct {
	active map[string]*Projectile
	phys   *Physics
}

// NewRocketSet creates an empty rocket set.
func NewRocketSet() *RocketSet {
	return &RocketSet{active: make(map[string]*Projectile), phys: NewPhysics()}
}

// Launch spawns a new rocket.
func (r *RocketSet) Launch(ownerID string, origin, direction Vec2, speed, damage, radius float64, now time.Time) *Projectile {
	p := NewProjectile(ownerID, ProjRocket, origin, direction, speed, damage, radius, 0, now)
	r.active[p.ID] = p
	return p
}

// Step advances every live rocket by dt and reports the IDs that struck
// a wall or player this tick (the caller should detonate and remove
// these), plus IDs that left the playfield (remove silently).
func (r *RocketSet) Step(dt float64, dest *Destruction, targets []TargetPlayer, worldW, worldH, epsilon float64) (impacted []string, discard []string) {
	for id, p := range r.active {
		if p.Exploded {
			continue
		}
		from, to := p.IntegrateStraight(dt)

		hit := false
		for _, w := range dest.Walls() {
			for i := 0; i < WallSlices; i++ {
				// Rockets detonate on contact with a slice's footprint
				// whether or not it's still standing: they don't thread
				// through holes the way a bullet does (spec: explode on
				// any intact-or-destroyed contact).
				x0, y0, x1, y1 := w.sliceBounds(i)
				if contact, ok := r.phys.SweepSegment(from, to, x0, y0, x1, y1); ok {
					p.Pos = contact
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if !hit {
			for _, t := range targets {
				if t.ID == p.OwnerID {
					continue
				}
				toTarget := t.Pos.Sub(from)
				seg := to.Sub(from)
				segLen := seg.Len()
				if segLen == 0 {
					continue
				}
				dir := seg.Scale(1 / segLen)
				proj := toTarget.Dot(dir)
				if proj < 0 || proj > segLen {
					continue
				}
				closest := from.Add(dir.Scale(proj))
				if closest.Sub(t.Pos).Len() <= t.Radius {
					p.Pos = closest
					hit = true
					break
				}
			}
		}

		if hit {
			impacted = append(impacted, id)
			continue
		}
		if p.OutOfBounds(worldW, worldH, 50) {
			discard = append(discard, id)
		}
	}
	return impacted, discard
}

// Get returns a rocket by ID, or nil.
func (r *RocketSet) Get(id string) *Projectile { return r.active[id] }

// Remove deletes a rocket from tracking.
func (r *RocketSet) Remove(id string) { delete(r.active, id) }

// All returns every live rocket, for snapshot serialization.
func (r *RocketSet) All() []*Projectile {
	out := make([]*Projectile, 0, len(r.active))
	for _, p := range r.active {
		out = append(out, p)
	}
	return out
}

package game

import "time"

// ExplosionRequest is a pending explosion awaiting processing.
type ExplosionRequest struct {
	SourceID string // Projectile ID that caused this explosion
	OwnerID  string
	Center   Vec2
	Radius   float64
	Damage   float64
	Power    float64 // Falloff exponent (cfg.ExplosionFalloffPower)
	At       time.Time
}

// ExplosionResult is the outcome of processing one request: wall
// damage events plus the player damage map (keyed by player ID) the
// combat layer should apply.
type ExplosionResult struct {
	Request     ExplosionRequest
	WallEvents  []DamageEvent
	PlayerHits  map[string]float64
}

// ExplosionQueue processes pending explosions strictly in FIFO arrival
// order, since detonation order decides which wall slices are already
// destroyed (and so skipped) by the time a later explosion in the same
// tick applies its damage. No line-of-sight check is made.
type ExplosionQueue struct {
	pending []ExplosionRequest
}

// NewExplosionQueue creates an empty explosion queue.
func NewExplosionQueue() *ExplosionQueue {
	return &ExplosionQueue{}
}

// Push enqueues an explosion request.
func (q *ExplosionQueue) Push(req ExplosionRequest) {
	q.pending = append(q.pending, req)
}

// Len reports the number of pending explosions.
func (q *ExplosionQueue) Len() int { return len(q.pending) }

// DrainAndProcess removes every pending request in FIFO order, applies
// wall damage via dest, and computes player damage via the supplied
// targets list (excluding dead/invulnerable players is the caller's
// responsibility via the targets slice it passes in).
func (q *ExplosionQueue) DrainAndProcess(dest *Destruction, targets []TargetPlayer) []ExplosionResult {
	results := make([]ExplosionResult, 0, len(q.pending))
	for _, req := range q.pending {
		wallEvents := dest.ApplyExplosionDamage(req.Center, req.Radius, req.Damage, req.At)

		playerHits := make(map[string]float64)
		for _, t := range targets {
			dist := t.Pos.Sub(req.Center).Len()
			dmg := ExplosionDamage(req.Damage, dist, req.Radius, req.Power)
			if dmg > 0 {
				playerHits[t.ID] = dmg
			}
		}

		results = append(results, ExplosionResult{
			Request:    req,
			WallEvents: wallEvents,
			PlayerHits: playerHits,
		})
	}
	q.pending = q.pending[:0]
	return results
}

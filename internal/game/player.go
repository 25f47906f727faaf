package game

import (
	"time"

	"github.com/google/uuid"

	"breachline/internal/config"
)

// MovementState is the tagged set of movement speed tiers a player can
// be in, selected by client input each tick rather than inferred.
type MovementState int

const (
	MoveWalk MovementState = iota
	MoveRun
	MoveSneak
)

// PlayerState is the player's lifecycle state.
type PlayerState int

const (
	StateAlive PlayerState = iota
	StateDead
)

// Player is a connected combatant: position, facing, health, team, and
// weapon loadout. Movement is entirely input-driven (spec §4.5) — there
// is no AI behavior, unlike the teacher's autonomous Player.
type Player struct {
	ID   string
	Name string
	Team TeamID

	Pos    Vec2
	Facing float64 // Radians

	HP    int
	MaxHP int

	State PlayerState

	InvulnerableUntil time.Time
	DiedAt            time.Time

	Weapons      map[string]*Weapon
	CurrentSlot  string
	IsADS        bool

	Radius float64
}

// NewPlayer creates a player at spawn with a starting loadout.
func NewPlayer(name string, team TeamID, spawn Vec2, cfg config.PlayerConfig, loadout []string) *Player {
	p := &Player{
		ID:      uuid.NewString(),
		Name:    name,
		Team:    team,
		Pos:     spawn,
		HP:      cfg.MaxHealth,
		MaxHP:   cfg.MaxHealth,
		State:   StateAlive,
		Weapons: make(map[string]*Weapon),
		Radius:  cfg.Size,
	}
	for _, id := range loadout {
		if spec, ok := GetWeaponSpec(id); ok {
			p.Weapons[id] = NewWeapon(spec)
		}
	}
	if len(loadout) > 0 {
		p.CurrentSlot = loadout[0]
	}
	return p
}

// CurrentWeapon returns the weapon in the active slot, or nil.
func (p *Player) CurrentWeapon() *Weapon {
	return p.Weapons[p.CurrentSlot]
}

// SwitchWeapon changes the active slot if the player owns that weapon.
// A reload in progress on the outgoing weapon does not block the switch;
// it is cancelled and the in-flight reload is simply abandoned.
func (p *Player) SwitchWeapon(slot string) bool {
	w, ok := p.Weapons[slot]
	if !ok {
		return false
	}
	if cur := p.CurrentWeapon(); cur != nil {
		cur.IsReloading = false
	}
	p.CurrentSlot = slot
	_ = w
	return true
}

// IsInvulnerable reports whether post-respawn invulnerability is active.
func (p *Player) IsInvulnerable(now time.Time) bool {
	return now.Before(p.InvulnerableUntil)
}

// MoveSpeed resolves the effective speed for a movement state.
func MoveSpeed(state MovementState, cfg config.PlayerConfig) float64 {
	switch state {
	case MoveRun:
		return cfg.WalkSpeed * cfg.RunMultiplier
	case MoveSneak:
		return cfg.WalkSpeed / cfg.SneakDivisor
	default:
		return cfg.WalkSpeed
	}
}

// ResolveMovement integrates a desired velocity over dt, then clamps
// against the playfield bounds and slides along any intact wall slice
// the player's circle would otherwise penetrate. Uses closest-point
// circle-vs-AABB resolution per slice, the same shape hitscan/grenade
// code uses for wall geometry, so collision and damage never disagree
// about where a wall physically is.
func (p *Player) ResolveMovement(desired Vec2, dt float64, dest *Destruction, worldW, worldH, epsilon float64) {
	target := p.Pos.Add(desired.Scale(dt))

	for _, w := range dest.Walls() {
		for i := 0; i < WallSlices; i++ {
			if !w.IntactSlice(i, epsilon) {
				continue
			}
			x0, y0, x1, y1 := w.sliceBounds(i)
			closest := closestPointOnAABB(target, x0, y0, x1, y1)
			delta := target.Sub(closest)
			dist := delta.Len()
			if dist < p.Radius {
				if dist == 0 {
					// Degenerate: push out along the shortest AABB face.
					n := (&Physics{}).AABBNormalAt(target, x0, y0, x1, y1)
					target = closest.Add(n.Scale(p.Radius))
					continue
				}
				push := delta.Scale((p.Radius - dist) / dist)
				target = target.Add(push)
			}
		}
	}

	target.X = clamp(target.X, p.Radius, worldW-p.Radius)
	target.Y = clamp(target.Y, p.Radius, worldH-p.Radius)
	p.Pos = target
}

// ApplyDamage reduces HP, ignoring the hit entirely while invulnerable
// or already dead. Returns true if this hit killed the player.
func (p *Player) ApplyDamage(amount float64, now time.Time) bool {
	if p.State == StateDead || p.IsInvulnerable(now) {
		return false
	}
	p.HP -= int(amount)
	if p.HP <= 0 {
		p.HP = 0
		p.State = StateDead
		p.DiedAt = now
		return true
	}
	return false
}

// Respawn resets a dead player to full health at the given spawn point
// and grants post-respawn invulnerability.
func (p *Player) Respawn(spawn Vec2, now time.Time, invulnTime float64) {
	p.Pos = spawn
	p.HP = p.MaxHP
	p.State = StateAlive
	p.InvulnerableUntil = now.Add(time.Duration(invulnTime * float64(time.Second)))
}

// CanRespawn reports whether the configured respawn delay has elapsed
// since death.
func (p *Player) CanRespawn(now time.Time, delay float64) bool {
	if p.State != StateDead {
		return false
	}
	return now.Sub(p.DiedAt).Seconds() >= delay
}

// ToTargetPlayer projects a player into the minimal view the hitscan
// solver needs.
func (p *Player) ToTargetPlayer() TargetPlayer {
	return TargetPlayer{ID: p.ID, Pos: p.Pos, Radius: p.Radius}
}

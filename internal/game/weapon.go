package game

import (
	"math"
	"time"
)

// WeaponKind is the tagged set of weapon firing models (spec §9: sum
// types over polymorphism).
type WeaponKind int

const (
	KindHitscan WeaponKind = iota
	KindShotgun
	KindAntiMaterial
	KindMachineGun
	KindRocketLauncher
	KindGrenadeLauncher
	KindThrownFrag
	KindThrownSmoke
	KindThrownFlash
)

// DenyReason is a typed reason a weapon action was refused.
type DenyReason string

const (
	DenyNone             DenyReason = ""
	DenyReloading        DenyReason = "reloading"
	DenyEmpty            DenyReason = "empty"
	DenyOverheated       DenyReason = "overheated"
	DenyTimestampDrift   DenyReason = "timestamp_drift"
	DenyFireRateGate     DenyReason = "fire_rate_gate"
	DenyAmmoFull         DenyReason = "ammo_full"
	DenyReserveEmpty     DenyReason = "reserve_empty"
	DenyThrownNoReload   DenyReason = "thrown_cannot_reload"
	DenyUnknownWeapon    DenyReason = "unknown_weapon"
	DenyNotThrown        DenyReason = "not_thrown"
	DenyInvalidCharge    DenyReason = "invalid_charge"
)

// Result is the allow/deny outcome of a weapon operation.
type Result struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Result { return Result{Allowed: true} }
func deny(r DenyReason) Result { return Result{Allowed: false, Reason: r} }

// WeaponSpec is the per-type, server-authoritative configuration. Spec
// §4.2/§9: behavior varies by type via configuration plus a handful of
// branches, never a class hierarchy.
type WeaponSpec struct {
	ID         string
	Kind       WeaponKind
	Damage     float64
	RPM        float64 // Rounds per minute (fire-rate gate)
	ReloadTime float64 // Seconds
	MagSize    int
	ReserveMax int
	Range      float64
	Accuracy   float64 // Base accuracy in [0,1]

	PelletCount int // Shotgun only

	ExplosionRadius float64 // Rocket / grenade-launcher / frag
	ProjectileSpeed float64 // Non-hitscan
	FuseTime        float64 // Grenade-like

	PenetrationWalls   int // Anti-material rifle
	PenetrationPlayers int

	ChargeLevels int // Thrown weapons
}

// DefaultWeapons is the catalog of available weapon configurations.
var DefaultWeapons = map[string]WeaponSpec{
	"rifle": {
		ID: "rifle", Kind: KindHitscan,
		Damage: 25, RPM: 600, ReloadTime: 2.2,
		MagSize: 30, ReserveMax: 90, Range: 400, Accuracy: 0.85,
	},
	"smg": {
		ID: "smg", Kind: KindHitscan,
		Damage: 16, RPM: 900, ReloadTime: 1.8,
		MagSize: 25, ReserveMax: 100, Range: 260, Accuracy: 0.7,
	},
	"pistol": {
		ID: "pistol", Kind: KindHitscan,
		Damage: 20, RPM: 400, ReloadTime: 1.5,
		MagSize: 12, ReserveMax: 48, Range: 300, Accuracy: 0.8,
	},
	"shotgun": {
		ID: "shotgun", Kind: KindShotgun,
		Damage: 80, RPM: 70, ReloadTime: 2.6,
		MagSize: 8, ReserveMax: 24, Range: 180, Accuracy: 0.6,
		PelletCount: 8,
	},
	"amr": {
		ID: "amr", Kind: KindAntiMaterial,
		Damage: 90, RPM: 40, ReloadTime: 3.2,
		MagSize: 5, ReserveMax: 20, Range: 500, Accuracy: 0.95,
		PenetrationWalls: 3, PenetrationPlayers: 2,
	},
	"lmg": {
		ID: "lmg", Kind: KindMachineGun,
		Damage: 18, RPM: 750, ReloadTime: 4.0,
		MagSize: 100, ReserveMax: 200, Range: 350, Accuracy: 0.65,
	},
	"rocket": {
		ID: "rocket", Kind: KindRocketLauncher,
		Damage: 110, RPM: 45, ReloadTime: 2.8,
		MagSize: 1, ReserveMax: 4, Range: 600, Accuracy: 1.0,
		ExplosionRadius: 60, ProjectileSpeed: 320,
	},
	"grenade_launcher": {
		ID: "grenade_launcher", Kind: KindGrenadeLauncher,
		Damage: 70, RPM: 60, ReloadTime: 3.0,
		MagSize: 4, ReserveMax: 12, Range: 400, Accuracy: 0.9,
		ExplosionRadius: 50, ProjectileSpeed: 220, FuseTime: 1.6,
	},
	"frag_grenade": {
		ID: "frag_grenade", Kind: KindThrownFrag,
		Damage: 100, MagSize: 2, ExplosionRadius: 55,
		ProjectileSpeed: 240, FuseTime: 3.0, ChargeLevels: 3,
	},
	"smoke_grenade": {
		ID: "smoke_grenade", Kind: KindThrownSmoke,
		MagSize: 1, ProjectileSpeed: 200, FuseTime: 2.0, ChargeLevels: 1,
	},
	"flash_grenade": {
		ID: "flash_grenade", Kind: KindThrownFlash,
		MagSize: 1, ProjectileSpeed: 260, FuseTime: 1.5, ChargeLevels: 1,
	},
}

// GetWeaponSpec returns a weapon spec by id, or (zero, false) if unknown.
func GetWeaponSpec(id string) (WeaponSpec, bool) {
	s, ok := DefaultWeapons[id]
	return s, ok
}

// IsThrown reports whether a weapon kind is a thrown weapon (no reserve,
// cannot reload).
func (k WeaponKind) IsThrown() bool {
	return k == KindThrownFrag || k == KindThrownSmoke || k == KindThrownFlash
}

// Weapon is the per-instance state of a weapon a player owns.
type Weapon struct {
	Spec WeaponSpec

	CurrentAmmo int
	ReserveAmmo int
	IsReloading bool
	ReloadEnds  time.Time
	LastFire    time.Time

	HeatLevel     float64
	IsOverheated  bool
	OverheatEnds  time.Time
}

// NewWeapon creates a weapon instance fully loaded.
func NewWeapon(spec WeaponSpec) *Weapon {
	return &Weapon{
		Spec:        spec,
		CurrentAmmo: spec.MagSize,
		ReserveAmmo: spec.ReserveMax,
	}
}

// fireInterval is the minimum seconds between shots per the RPM gate.
func (w *Weapon) fireInterval() time.Duration {
	return time.Duration(60_000.0 / w.Spec.RPM * float64(time.Millisecond))
}

// TryFire is the sole fire-rate and gating decision (spec §9 Open
// Question 4: the decision lives here only). now is the server clock;
// clientTimestamp is echoed by the client purely for drift validation.
func (w *Weapon) TryFire(now time.Time, clientTimestamp time.Time) Result {
	if w.Spec.Kind.IsThrown() {
		return deny(DenyNotThrown)
	}
	if w.IsReloading {
		return deny(DenyReloading)
	}
	if w.IsOverheated {
		return deny(DenyOverheated)
	}
	if w.CurrentAmmo <= 0 {
		return deny(DenyEmpty)
	}
	if clientTimestamp.After(now.Add(time.Second)) || clientTimestamp.Before(now.Add(-time.Second)) {
		return deny(DenyTimestampDrift)
	}
	if !w.LastFire.IsZero() {
		elapsed := now.Sub(w.LastFire)
		if elapsed < w.fireInterval() {
			return deny(DenyFireRateGate)
		}
	}

	w.CurrentAmmo--
	w.LastFire = now

	if w.Spec.Kind == KindMachineGun {
		w.addHeat(now)
	}

	return allow()
}

// addHeat applies the per-shot heat gain and flips the overheat flag at
// threshold, scheduling the penalty cooldown.
func (w *Weapon) addHeat(now time.Time) {
	const heatGain = 8.0
	const overheatThreshold = 100.0
	const penaltyTime = 2.5 * float64(time.Second)

	w.HeatLevel += heatGain
	if w.HeatLevel >= overheatThreshold {
		w.IsOverheated = true
		w.OverheatEnds = now.Add(time.Duration(penaltyTime))
	}
}

// Cool applies passive heat cooldown and resolves an overheat penalty
// whose cooldown has elapsed. Called once per tick per weapon.
func (w *Weapon) Cool(now time.Time, dt float64) {
	const coolRate = 15.0 // Per second
	if w.IsOverheated {
		if !now.Before(w.OverheatEnds) {
			w.IsOverheated = false
			w.HeatLevel *= 0.5
		}
		return
	}
	w.HeatLevel -= coolRate * dt
	if w.HeatLevel < 0 {
		w.HeatLevel = 0
	}
}

// TryReload starts a reload. Deny if thrown, already reloading, the
// magazine is full, or the reserve is empty.
func (w *Weapon) TryReload(now time.Time) Result {
	if w.Spec.Kind.IsThrown() {
		return deny(DenyThrownNoReload)
	}
	if w.IsReloading {
		return deny(DenyReloading)
	}
	if w.CurrentAmmo >= w.Spec.MagSize {
		return deny(DenyAmmoFull)
	}
	if w.ReserveAmmo <= 0 {
		return deny(DenyReserveEmpty)
	}
	w.IsReloading = true
	w.ReloadEnds = now.Add(time.Duration(w.Spec.ReloadTime * float64(time.Second)))
	return allow()
}

// CompleteReload applies a scheduled reload completion. Idempotent:
// calling this on an already-completed (non-reloading) weapon is a
// no-op, and calling it before ReloadEnds has passed is also a no-op.
func (w *Weapon) CompleteReload(now time.Time) bool {
	if !w.IsReloading {
		return false
	}
	if now.Before(w.ReloadEnds) {
		return false
	}
	deficit := w.Spec.MagSize - w.CurrentAmmo
	transfer := deficit
	if w.ReserveAmmo < transfer {
		transfer = w.ReserveAmmo
	}
	w.CurrentAmmo += transfer
	w.ReserveAmmo -= transfer
	w.IsReloading = false
	return true
}

// TryThrow gates a throw of a thrown weapon at the given charge level.
func (w *Weapon) TryThrow(chargeLevel int) Result {
	if !w.Spec.Kind.IsThrown() {
		return deny(DenyNotThrown)
	}
	if w.CurrentAmmo <= 0 {
		return deny(DenyEmpty)
	}
	if chargeLevel < 1 || (w.Spec.ChargeLevels > 0 && chargeLevel > w.Spec.ChargeLevels) {
		return deny(DenyInvalidCharge)
	}
	w.CurrentAmmo--
	return allow()
}

// EffectiveAccuracy combines base accuracy with ADS bonus and movement
// penalties, clamped to [0.1, 1.0].
func EffectiveAccuracy(base float64, isADS, isMoving, isRunning bool, adsBonus, moveP, runP float64) float64 {
	acc := base
	if isADS {
		acc += adsBonus
	}
	if isRunning {
		acc -= runP
	} else if isMoving {
		acc -= moveP
	}
	return clamp(acc, 0.1, 1.0)
}

// ApplySpread perturbs a direction angle by the weapon's spread model:
// finalDir = direction + (rand-0.5) * 0.2 * (1 - effectiveAccuracy).
func ApplySpread(direction float64, effectiveAccuracy float64, rnd float64) float64 {
	return direction + (rnd-0.5)*0.2*(1-effectiveAccuracy)
}

// DamageFalloff applies spec §4.2 non-shotgun falloff: full damage up
// to range*falloffStart, linear decay to damage*falloffMin at range.
func DamageFalloff(baseDamage, traveled, rng, falloffStart, falloffMin float64) float64 {
	if rng <= 0 {
		return baseDamage
	}
	startDist := rng * falloffStart
	if traveled <= startDist {
		return baseDamage
	}
	if traveled >= rng {
		return baseDamage * falloffMin
	}
	frac := (traveled - startDist) / (rng - startDist)
	return baseDamage * (1 - frac*(1-falloffMin))
}

// ShotgunFalloff applies the stepped (ranges[], multipliers[]) table.
func ShotgunFalloff(perPelletDamage, distance float64, ranges, multipliers []float64) float64 {
	for i, r := range ranges {
		if distance <= r {
			return perPelletDamage * multipliers[i]
		}
	}
	if len(multipliers) > 0 {
		return perPelletDamage * multipliers[len(multipliers)-1]
	}
	return perPelletDamage
}

// ExplosionDamage applies spec §4.2: damage * (1 - d/radius)^power
// inside radius, zero outside.
func ExplosionDamage(baseDamage, distance, radius, power float64) float64 {
	if distance >= radius || radius <= 0 {
		return 0
	}
	return baseDamage * math.Pow(1-distance/radius, power)
}

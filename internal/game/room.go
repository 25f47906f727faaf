package game

import (
	"log"
	"math"
	"sync"
	"time"

	"breachline/internal/config"
	"breachline/internal/maps"
)

// PendingInput is one validated input packet queued for the next tick.
type PendingInput struct {
	PlayerID  string
	Move      Vec2 // Normalized desired direction
	MoveState MovementState
	Facing    float64
	IsADS     bool

	FirePressed    bool
	ReloadPressed  bool
	SwitchTo       string
	ThrowWeapon    string
	ThrowCharge    int
	ThrowDirection float64

	ClientTimestamp time.Time
	Sequence        uint64
}

// Room is the authoritative simulation for one match: it owns every
// player, wall, projectile, and the tick/broadcast loop, grounded on
// the teacher's Engine but replacing AI-driven Update with
// input-driven movement and replacing the combo/dodge system with
// gunplay (spec §4.5).
type Room struct {
	mu sync.RWMutex

	cfg config.AppConfig

	players map[string]*Player
	roster  *TeamRoster
	dest    *Destruction

	grenades *GrenadeSet
	rockets  *RocketSet
	explQ    *ExplosionQueue

	combat *Combat
	events *EventLog

	inbox chan PendingInput

	snapshotPools map[string]*ViewerSnapshotPool

	tickRate    int
	networkRate int
	tickCount   uint64

	running  bool
	stopChan chan struct{}

	worldW, worldH float64
}

// NewRoom constructs a room from a loaded map and configuration.
func NewRoom(m *maps.Map, cfg config.AppConfig) *Room {
	dest := NewDestruction(cfg.Destruction)
	for _, mw := range m.Walls {
		dest.AddWall(NewWall(mw.ID, mw.X, mw.Y, mw.Width, mw.Height, LoadMaterial(mw.Material), cfg.Destruction))
	}

	var spawns []SpawnPoint
	for _, s := range m.Spawns {
		spawns = append(spawns, SpawnPoint{Team: TeamID(s.Team), Pos: Vec2{s.X, s.Y}})
	}

	return &Room{
		cfg:           cfg,
		players:       make(map[string]*Player),
		roster:        NewTeamRoster(spawns),
		dest:          dest,
		grenades:      NewGrenadeSet(cfg.Grenade),
		rockets:       NewRocketSet(),
		explQ:         NewExplosionQueue(),
		combat:        NewCombat(),
		events:        NewEventLog(),
		inbox:         make(chan PendingInput, 256),
		snapshotPools: make(map[string]*ViewerSnapshotPool),
		tickRate:      cfg.World.TickRate,
		networkRate:   cfg.World.NetworkRate,
		stopChan:      make(chan struct{}),
		worldW:        cfg.World.Width,
		worldH:        cfg.World.Height,
	}
}

// Join adds a new player to the room, assigning it to the smaller
// team and a spawn point for that team.
func (r *Room) Join(name string, loadout []string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= r.cfg.World.MaxPlayers {
		return nil
	}

	id := TeamID("")
	p := NewPlayer(name, id, Vec2{}, r.cfg.Player, loadout)
	team := r.roster.Assign(p.ID)
	p.Team = team
	p.Pos = r.roster.SpawnFor(team, 0)

	r.players[p.ID] = p
	r.snapshotPools[p.ID] = NewViewerSnapshotPool(p.ID, DefaultLimits)

	r.events.EmitSimple(EventTypePlayerJoin, r.tickCount, p.ID,
		PlayerJoinPayload{PlayerID: p.ID, Name: name, Team: string(team), SpawnX: p.Pos.X, SpawnY: p.Pos.Y})

	return p
}

// Leave removes a player from the room.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, playerID)
	delete(r.snapshotPools, playerID)
	r.roster.Remove(playerID)
	r.events.EmitSimple(EventTypePlayerLeave, r.tickCount, playerID, nil)
}

// SubmitInput enqueues a validated input packet for the next tick.
// Packets that don't fit are dropped rather than blocking the caller
// (spec §5: backpressure over a stalled peer).
func (r *Room) SubmitInput(in PendingInput) {
	select {
	case r.inbox <- in:
	default:
	}
}

// Start begins the tick loop in its own goroutine. The network
// broadcast rate is handled by the caller, which reads snapshots from
// the per-viewer pools at its own cadence via Snapshot.
func (r *Room) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.events.Start(r.cfg.Server.EventLogPath)

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.tick()
			case <-r.stopChan:
				return
			}
		}
	}()

	log.Printf("room started at %d ticks/sec", r.tickRate)
}

// Stop halts the tick loop.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stopChan)
	r.events.Stop()
}

// tick executes one fixed simulation step in the exact phase order
// spec §4.5 requires: drain input, movement, weapon state advance,
// projectile integration, explosion resolution, respawns, vision +
// snapshot production.
func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tickCount++
	dt := 1.0 / float64(r.tickRate)
	now := time.Now()

	r.drainInputs(now)

	for _, p := range r.players {
		if p.State != StateAlive {
			continue
		}
		if w := p.CurrentWeapon(); w != nil {
			w.CompleteReload(now)
			w.Cool(now, dt)
		}
	}

	r.stepProjectiles(dt, now)
	r.resolveExplosions(now)

	respawned := r.combat.ProcessRespawns(r.players, r.roster, r.cfg.Death.RespawnDelay, r.cfg.Death.InvulnerabilityTime, now)
	for _, id := range respawned {
		if p, ok := r.players[id]; ok {
			r.events.EmitSimple(EventTypeRespawn, r.tickCount, id, RespawnPayload{PlayerID: id, SpawnX: p.Pos.X, SpawnY: p.Pos.Y})
		}
	}

	r.produceSnapshots(now)
}

// drainInputs consumes every queued input without blocking and applies
// movement + weapon actions for the owning player.
func (r *Room) drainInputs(now time.Time) {
	dt := 1.0 / float64(r.tickRate)
	for {
		select {
		case in := <-r.inbox:
			r.applyInput(in, dt, now)
		default:
			return
		}
	}
}

func (r *Room) applyInput(in PendingInput, dt float64, now time.Time) {
	p, ok := r.players[in.PlayerID]
	if !ok || p.State != StateAlive {
		return
	}

	p.Facing = in.Facing
	p.IsADS = in.IsADS

	speed := MoveSpeed(in.MoveState, r.cfg.Player)
	desired := in.Move.Normalized().Scale(speed)
	p.ResolveMovement(desired, dt, r.dest, r.worldW, r.worldH, r.cfg.Destruction.PhysicalIntactEpsilon)

	if in.SwitchTo != "" {
		p.SwitchWeapon(in.SwitchTo)
	}

	if in.ReloadPressed {
		if w := p.CurrentWeapon(); w != nil {
			w.TryReload(now)
		}
	}

	if in.FirePressed {
		r.handleFire(p, in, now)
	}

	if in.ThrowWeapon != "" {
		r.handleThrow(p, in, now)
	}
}

func (r *Room) handleFire(p *Player, in PendingInput, now time.Time) {
	w := p.CurrentWeapon()
	if w == nil {
		return
	}
	result := w.TryFire(now, in.ClientTimestamp)
	r.events.EmitSimple(EventTypeWeaponFire, r.tickCount, p.ID,
		WeaponFirePayload{PlayerID: p.ID, WeaponID: w.Spec.ID, Allowed: result.Allowed, Reason: string(result.Reason)})
	if !result.Allowed {
		return
	}

	targets := r.targetList(p.ID)
	acc := EffectiveAccuracy(w.Spec.Accuracy, p.IsADS, in.Move.Len() > 0, in.MoveState == MoveRun,
		r.cfg.Combat.ADSAccuracyBonus, r.cfg.Combat.MovementAccuracyPenalty, r.cfg.Combat.RunningAccuracyPenalty)

	switch w.Spec.Kind {
	case KindRocketLauncher:
		dir := Vec2{math.Cos(p.Facing), math.Sin(p.Facing)}
		r.rockets.Launch(p.ID, p.Pos, dir, w.Spec.ProjectileSpeed, w.Spec.Damage, w.Spec.ExplosionRadius, now)
	case KindGrenadeLauncher:
		dir := Vec2{math.Cos(p.Facing), math.Sin(p.Facing)}
		r.grenades.Throw(p.ID, ProjGrenadeLauncher, p.Pos, dir, w.Spec.ProjectileSpeed, w.Spec.Damage, w.Spec.ExplosionRadius, w.Spec.FuseTime, now)
	case KindShotgun:
		hits, events := ShotgunPellets(r.dest, targets, p.ID, p.Pos, p.Facing, w.Spec.PelletCount,
			w.Spec.Damage, w.Spec.Range, acc, r.cfg.Combat.ShotgunFalloffRanges, r.cfg.Combat.ShotgunFalloffMult,
			r.cfg.Destruction.PhysicalIntactEpsilon, now, nil)
		r.applyHitscanResults(p, w, hits, events, now)
	default:
		dir := Vec2{math.Cos(p.Facing), math.Sin(p.Facing)}
		antiMaterial := w.Spec.Kind == KindAntiMaterial
		hits, events := ResolveHitscan(r.dest, targets, p.ID, p.Pos, dir, w.Spec.Range, w.Spec.Damage,
			r.cfg.Combat.DamageFalloffStart, r.cfg.Combat.DamageFalloffMin, antiMaterial,
			w.Spec.PenetrationWalls, w.Spec.PenetrationPlayers, r.cfg.Destruction.SoftWallPenetrationDamage,
			r.cfg.Combat.SoftPenetrationCap, r.cfg.Destruction.PhysicalIntactEpsilon, now)
		r.applyHitscanResults(p, w, hits, events, now)
	}
}

func (r *Room) applyHitscanResults(shooter *Player, w *Weapon, hits []HitscanHit, events []DamageEvent, now time.Time) {
	for _, ev := range events {
		r.events.EmitSimple(EventTypeWallDamage, r.tickCount, shooter.ID,
			WallDamagePayload{WallID: ev.WallID, SliceIndex: ev.SliceIndex, Damage: ev.Damage, NewHealth: ev.NewHealth, IsDestroyed: ev.IsDestroyed})
	}
	for _, h := range hits {
		if h.Kind != HitPlayer {
			continue
		}
		victim, ok := r.players[h.PlayerID]
		if !ok {
			continue
		}
		dmg := DamageFalloff(w.Spec.Damage, h.Distance, w.Spec.Range, r.cfg.Combat.DamageFalloffStart, r.cfg.Combat.DamageFalloffMin)
		if w.Spec.Kind == KindShotgun && w.Spec.PelletCount > 0 {
			// Each pellet carries an equal share of the weapon's damage,
			// scaled by the stepped shotgun falloff table.
			dmg = ShotgunFalloff(w.Spec.Damage/float64(w.Spec.PelletCount), h.Distance, r.cfg.Combat.ShotgunFalloffRanges, r.cfg.Combat.ShotgunFalloffMult)
		}
		killed, rec := r.combat.ApplyPlayerDamage(shooter, victim, dmg, w.Spec.ID, now)
		r.events.EmitSimple(EventTypeDamage, r.tickCount, shooter.ID,
			DamagePayload{AttackerID: shooter.ID, VictimID: victim.ID, Damage: dmg, VictimHP: float64(victim.HP), WeaponID: w.Spec.ID})
		if killed && rec != nil {
			r.events.EmitSimple(EventTypeKill, r.tickCount, rec.KillerID,
				KillPayload{KillerID: rec.KillerID, VictimID: rec.VictimID, WeaponID: rec.WeaponID})
		}
	}
}

func (r *Room) handleThrow(p *Player, in PendingInput, now time.Time) {
	w, ok := p.Weapons[in.ThrowWeapon]
	if !ok {
		return
	}
	result := w.TryThrow(in.ThrowCharge)
	if !result.Allowed {
		return
	}
	dir := Vec2{math.Cos(in.ThrowDirection), math.Sin(in.ThrowDirection)}
	chargeScale := 1.0
	if w.Spec.ChargeLevels > 0 {
		chargeScale = 0.5 + 0.5*float64(in.ThrowCharge)/float64(w.Spec.ChargeLevels)
	}
	speed := w.Spec.ProjectileSpeed * chargeScale

	var kind ProjectileKind
	switch w.Spec.Kind {
	case KindThrownSmoke:
		kind = ProjSmoke
	case KindThrownFlash:
		kind = ProjFlash
	default:
		kind = ProjFrag
	}
	r.grenades.Throw(p.ID, kind, p.Pos, dir, speed, w.Spec.Damage, w.Spec.ExplosionRadius, w.Spec.FuseTime, now)
}

func (r *Room) stepProjectiles(dt float64, now time.Time) {
	detonate, discard := r.grenades.Step(dt, r.dest, r.cfg.Destruction.PhysicalIntactEpsilon, r.worldW, r.worldH, now)
	for _, id := range detonate {
		p := r.grenades.Get(id)
		if p == nil {
			continue
		}
		if p.ExplosionRadius > 0 {
			r.explQ.Push(ExplosionRequest{SourceID: id, OwnerID: p.OwnerID, Center: p.Pos, Radius: p.ExplosionRadius, Damage: p.Damage, Power: r.cfg.Combat.ExplosionFalloffPower, At: now})
		}
		p.Exploded = true
		r.grenades.Remove(id)
	}
	for _, id := range discard {
		r.grenades.Remove(id)
	}

	targets := r.targetList("")
	impacted, rDiscard := r.rockets.Step(dt, r.dest, targets, r.worldW, r.worldH, r.cfg.Destruction.PhysicalIntactEpsilon)
	for _, id := range impacted {
		p := r.rockets.Get(id)
		if p == nil {
			continue
		}
		r.explQ.Push(ExplosionRequest{SourceID: id, OwnerID: p.OwnerID, Center: p.Pos, Radius: p.ExplosionRadius, Damage: p.Damage, Power: r.cfg.Combat.ExplosionFalloffPower, At: now})
		r.rockets.Remove(id)
	}
	for _, id := range rDiscard {
		r.rockets.Remove(id)
	}
}

func (r *Room) resolveExplosions(now time.Time) {
	if r.explQ.Len() == 0 {
		return
	}
	targets := r.targetList("")
	results := r.explQ.DrainAndProcess(r.dest, targets)
	for _, res := range results {
		for _, ev := range res.WallEvents {
			r.events.EmitSimple(EventTypeWallDamage, r.tickCount, res.Request.OwnerID,
				WallDamagePayload{WallID: ev.WallID, SliceIndex: ev.SliceIndex, Damage: ev.Damage, NewHealth: ev.NewHealth, IsDestroyed: ev.IsDestroyed})
		}
		r.events.EmitSimple(EventTypeExplosion, r.tickCount, res.Request.OwnerID,
			ExplosionPayload{SourceID: res.Request.SourceID, OwnerID: res.Request.OwnerID, X: res.Request.Center.X, Y: res.Request.Center.Y, Radius: res.Request.Radius})

		var attacker *Player
		if res.Request.OwnerID != "" {
			attacker = r.players[res.Request.OwnerID]
		}
		for pid, dmg := range res.PlayerHits {
			victim, ok := r.players[pid]
			if !ok {
				continue
			}
			killed, rec := r.combat.ApplyPlayerDamage(attacker, victim, dmg, "explosion", now)
			if killed && rec != nil {
				r.events.EmitSimple(EventTypeKill, r.tickCount, rec.KillerID,
					KillPayload{KillerID: rec.KillerID, VictimID: rec.VictimID, WeaponID: rec.WeaponID})
			}
		}
	}
}

// targetList builds the minimal player view the hitscan/explosion
// solvers need, excluding dead players and (optionally) one shooter.
func (r *Room) targetList(excludeID string) []TargetPlayer {
	out := make([]TargetPlayer, 0, len(r.players))
	for _, p := range r.players {
		if p.State != StateAlive || p.ID == excludeID {
			continue
		}
		out = append(out, p.ToTargetPlayer())
	}
	return out
}

// produceSnapshots computes each connected player's vision polygon and
// publishes a filtered ViewerSnapshot into that player's pool.
func (r *Room) produceSnapshots(now time.Time) {
	for viewerID, pool := range r.snapshotPools {
		viewer, ok := r.players[viewerID]
		if !ok {
			continue
		}

		vp := ComputeVisibility(viewer.Pos, viewer.Facing, r.dest, r.cfg.Visibility, r.cfg.Destruction.PhysicalIntactEpsilon)

		snap := pool.AcquireWrite()
		snap.TickNumber = r.tickCount
		snap.Vision = VisionSnapshot{OriginX: vp.Origin.X, OriginY: vp.Origin.Y, Points: vp.Points}
		snap.SelfHP = viewer.HP
		snap.SelfMaxHP = viewer.MaxHP
		if w := viewer.CurrentWeapon(); w != nil {
			snap.SelfAmmo = w.CurrentAmmo
			snap.SelfReserve = w.ReserveAmmo
		}

		for _, w := range r.dest.Walls() {
			snap.Walls = append(snap.Walls, WallSnapshot{
				ID: w.ID, X: w.X, Y: w.Y, Width: w.Width, Height: w.Height,
				Material: w.Material.String(), SliceHealth: w.SliceHealth, Mask: w.Mask,
			})
		}

		for pid, p := range r.players {
			if pid == viewerID {
				continue
			}
			if p.State != StateAlive {
				continue
			}
			if !vp.Contains(p.Pos) {
				continue
			}
			snap.Players = append(snap.Players, PlayerSnapshot{
				ID: p.ID, Name: p.Name, Team: string(p.Team), X: p.Pos.X, Y: p.Pos.Y,
				Facing: p.Facing, HP: p.HP, MaxHP: p.MaxHP, IsDead: p.State == StateDead,
				Weapon: p.CurrentSlot,
			})
		}

		for _, proj := range r.grenades.All() {
			if !vp.Contains(proj.Pos) {
				continue
			}
			snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{ID: proj.ID, Kind: proj.Kind, X: proj.Pos.X, Y: proj.Pos.Y, OwnerID: proj.OwnerID})
		}
		for _, proj := range r.rockets.All() {
			if !vp.Contains(proj.Pos) {
				continue
			}
			snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{ID: proj.ID, Kind: proj.Kind, X: proj.Pos.X, Y: proj.Pos.Y, OwnerID: proj.OwnerID})
		}

		pool.PublishWrite()
	}
}

// Snapshot returns the latest published snapshot for a given viewer, or
// nil if the viewer is unknown.
func (r *Room) Snapshot(viewerID string) *ViewerSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.snapshotPools[viewerID]
	if !ok {
		return nil
	}
	return pool.AcquireRead()
}

// PlayerIDs returns every connected player ID, for broadcast fan-out.
func (r *Room) PlayerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	return ids
}

// NetworkInterval returns the broadcast period derived from NetworkRate.
func (r *Room) NetworkInterval() time.Duration {
	return time.Second / time.Duration(r.networkRate)
}

// RosterEntry summarizes one connected player for REST consumers.
type RosterEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Team   string `json:"team"`
	HP     int    `json:"hp"`
	Alive  bool   `json:"alive"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
}

// Roster returns a public summary of every connected player, for the
// /api/state and /api/leaderboard handlers.
func (r *Room) Roster() []RosterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RosterEntry, 0, len(r.players))
	for _, p := range r.players {
		kills, deaths := r.combat.ScoreOf(p.ID)
		out = append(out, RosterEntry{
			ID:     p.ID,
			Name:   p.Name,
			Team:   string(p.Team),
			HP:     p.HP,
			Alive:  p.State == StateAlive,
			Kills:  kills,
			Deaths: deaths,
		})
	}
	return out
}

// WallEntry summarizes one destructible wall for REST consumers.
type WallEntry struct {
	ID          string    `json:"id"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Material    string    `json:"material"`
	SliceHealth []float64 `json:"sliceHealth"`
	Destroyed   bool      `json:"destroyed"`
}

// Walls returns the current state of every wall in the room, for the
// /api/walls handler.
func (r *Room) Walls() []WallEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	walls := r.dest.Walls()
	out := make([]WallEntry, 0, len(walls))
	for _, w := range walls {
		out = append(out, WallEntry{
			ID:          w.ID,
			X:           w.X,
			Y:           w.Y,
			Width:       w.Width,
			Height:      w.Height,
			Material:    w.Material.String(),
			SliceHealth: w.SliceHealth[:],
			Destroyed:   w.Destroyed(),
		})
	}
	return out
}

// TickCount returns the number of ticks simulated so far.
func (r *Room) TickCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tickCount
}

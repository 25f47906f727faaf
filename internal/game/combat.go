package game

import "time"

// KillRecord is emitted whenever ApplyPlayerDamage kills its target.
type KillRecord struct {
	KillerID string
	VictimID string
	WeaponID string
	At       time.Time
}

// Combat orchestrates damage application, kill bookkeeping, and
// respawn eligibility across all players in a room. It owns no player
// storage itself — callers pass the player map each call, the same
// shape the teacher's engine uses to pass players into Update.
type Combat struct {
	Kills  map[string]int
	Deaths map[string]int
}

// NewCombat creates an empty combat tracker.
func NewCombat() *Combat {
	return &Combat{
		Kills:  make(map[string]int),
		Deaths: make(map[string]int),
	}
}

// ApplyPlayerDamage applies damage from attacker to victim, crediting a
// kill if it drops the victim to zero HP. A self-inflicted kill (e.g.
// from one's own grenade) still counts as a death for the victim but
// never a kill for "" attackers (environmental damage).
func (c *Combat) ApplyPlayerDamage(attacker, victim *Player, amount float64, weaponID string, now time.Time) (bool, *KillRecord) {
	killed := victim.ApplyDamage(amount, now)
	if !killed {
		return false, nil
	}

	c.Deaths[victim.ID]++
	var rec *KillRecord
	if attacker != nil && attacker.ID != victim.ID {
		c.Kills[attacker.ID]++
		rec = &KillRecord{KillerID: attacker.ID, VictimID: victim.ID, WeaponID: weaponID, At: now}
	} else {
		rec = &KillRecord{KillerID: "", VictimID: victim.ID, WeaponID: weaponID, At: now}
	}
	return true, rec
}

// ProcessRespawns walks every dead player and respawns those whose
// delay has elapsed, using the team roster to pick a spawn point.
func (c *Combat) ProcessRespawns(players map[string]*Player, roster *TeamRoster, respawnDelay, invulnTime float64, now time.Time) []string {
	var respawned []string
	attempt := 0
	for _, p := range players {
		if !p.CanRespawn(now, respawnDelay) {
			continue
		}
		spawn := roster.SpawnFor(p.Team, attempt)
		attempt++
		p.Respawn(spawn, now, invulnTime)
		respawned = append(respawned, p.ID)
	}
	return respawned
}

// ScoreOf returns a player's kill/death tally.
func (c *Combat) ScoreOf(playerID string) (kills, deaths int) {
	return c.Kills[playerID], c.Deaths[playerID]
}

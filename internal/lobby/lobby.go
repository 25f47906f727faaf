// Package lobby assigns newly connected players to a room. It fills the
// first room that has capacity and starts a new room when every
// existing one is full; there is no further matchmaking.
package lobby

import (
	"errors"
	"sync"

	"breachline/internal/config"
	"breachline/internal/game"
	"breachline/internal/maps"
)

// ErrRoomFull is returned when no room has capacity for a new player.
var ErrRoomFull = errors.New("lobby: no room has capacity")

// Lobby owns the set of active rooms and routes new connections to one
// with space.
type Lobby struct {
	mu    sync.Mutex
	rooms []*game.Room
	cfg   config.AppConfig
	m     *maps.Map
}

// New creates a lobby that lazily starts rooms from the given map and
// configuration.
func New(m *maps.Map, cfg config.AppConfig) *Lobby {
	return &Lobby{cfg: cfg, m: m}
}

// Assign returns a room with capacity for a new player, starting a
// fresh one if every existing room is full.
func (l *Lobby) Assign() (*game.Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.rooms {
		if len(r.PlayerIDs()) < l.cfg.World.MaxPlayers {
			return r, nil
		}
	}

	room := game.NewRoom(l.m, l.cfg)
	room.Start()
	l.rooms = append(l.rooms, room)
	return room, nil
}

// Rooms returns every active room, for admin/metrics reporting.
func (l *Lobby) Rooms() []*game.Room {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*game.Room, len(l.rooms))
	copy(out, l.rooms)
	return out
}

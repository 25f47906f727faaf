package game

import (
	"testing"
	"time"

	"breachline/internal/config"
	"breachline/internal/maps"
)

func testRoomConfig() config.AppConfig {
	cfg := config.Load()
	cfg.World.MaxPlayers = 2
	return cfg
}

func testMap() *maps.Map {
	return &maps.Map{
		Name:   "test",
		Width:  480,
		Height: 270,
		Walls: []maps.WallDef{
			{ID: "w1", X: 200, Y: 0, Width: 20, Height: 270, Material: "concrete"},
		},
		Spawns: []maps.SpawnDef{
			{Team: "red", X: 30, Y: 135},
			{Team: "blue", X: 450, Y: 135},
		},
	}
}

func TestRoomJoinAssignsTeamAndSpawn(t *testing.T) {
	r := NewRoom(testMap(), testRoomConfig())
	p := r.Join("alice", []string{"rifle"})
	if p == nil {
		t.Fatal("join should succeed for the first player")
	}
	if p.Team != TeamRed && p.Team != TeamBlue {
		t.Fatalf("player should be assigned to a team, got %q", p.Team)
	}
	if p.Pos == (Vec2{}) {
		t.Fatal("player should spawn at a configured spawn point, not the origin")
	}
}

func TestRoomJoinRejectsBeyondMaxPlayers(t *testing.T) {
	r := NewRoom(testMap(), testRoomConfig())
	r.Join("alice", nil)
	r.Join("bob", nil)
	if p := r.Join("carol", nil); p != nil {
		t.Fatal("a room at capacity should reject further joins")
	}
}

func TestRoomLeaveRemovesPlayer(t *testing.T) {
	r := NewRoom(testMap(), testRoomConfig())
	p := r.Join("alice", nil)
	r.Leave(p.ID)

	roster := r.Roster()
	for _, entry := range roster {
		if entry.ID == p.ID {
			t.Fatal("left player should no longer appear in the roster")
		}
	}
	if r.Snapshot(p.ID) != nil {
		t.Fatal("left player's snapshot pool should be torn down")
	}
}

func TestRoomTickProducesSnapshotAndAdvancesTickCount(t *testing.T) {
	r := NewRoom(testMap(), testRoomConfig())
	p := r.Join("alice", []string{"rifle"})

	before := r.TickCount()
	r.tick()
	if r.TickCount() != before+1 {
		t.Fatalf("tick should advance the tick counter, got %d -> %d", before, r.TickCount())
	}

	snap := r.Snapshot(p.ID)
	if snap == nil {
		t.Fatal("expected a published snapshot for the joined player after a tick")
	}
	if snap.SelfHP != p.HP {
		t.Fatalf("snapshot should reflect the viewer's own HP, got %d want %d", snap.SelfHP, p.HP)
	}
}

func TestRoomSubmitInputMovesPlayer(t *testing.T) {
	r := NewRoom(testMap(), testRoomConfig())
	p := r.Join("alice", nil)
	start := p.Pos

	r.SubmitInput(PendingInput{
		PlayerID:        p.ID,
		Move:            Vec2{X: -1, Y: 0},
		MoveState:       MoveWalk,
		Facing:          0,
		ClientTimestamp: time.Now(),
		Sequence:        1,
	})
	r.tick()

	if p.Pos == start {
		t.Fatal("expected the player to have moved after a tick consuming queued input")
	}
}

func TestRoomWallsReflectsDestructionState(t *testing.T) {
	r := NewRoom(testMap(), testRoomConfig())
	walls := r.Walls()
	if len(walls) != 1 || walls[0].ID != "w1" {
		t.Fatalf("expected one wall named w1, got %+v", walls)
	}
	if walls[0].Destroyed {
		t.Fatal("freshly loaded wall should not be destroyed")
	}
}

func TestRoomNetworkIntervalMatchesConfiguredRate(t *testing.T) {
	cfg := testRoomConfig()
	r := NewRoom(testMap(), cfg)
	want := time.Second / time.Duration(cfg.World.NetworkRate)
	if r.NetworkInterval() != want {
		t.Fatalf("expected network interval %v, got %v", want, r.NetworkInterval())
	}
}

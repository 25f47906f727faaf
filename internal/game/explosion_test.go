package game

import (
	"testing"
	"time"

	"breachline/internal/config"
)

func TestExplosionQueueFIFOOrder(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	dest.AddWall(NewWall("w1", 0, 0, 20, 20, Wood, destCfg))

	q := NewExplosionQueue()
	now := time.Now()
	q.Push(ExplosionRequest{SourceID: "a", Center: Vec2{X: 10, Y: 10}, Radius: 100, Damage: 9999, Power: 1, At: now})
	q.Push(ExplosionRequest{SourceID: "b", Center: Vec2{X: 10, Y: 10}, Radius: 100, Damage: 50, Power: 1, At: now})

	if q.Len() != 2 {
		t.Fatalf("expected 2 pending explosions, got %d", q.Len())
	}

	results := q.DrainAndProcess(dest, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Request.SourceID != "a" || results[1].Request.SourceID != "b" {
		t.Fatalf("results should preserve FIFO push order, got %+v", results)
	}
	// The first, overkill explosion should have already destroyed the
	// wall by the time the second one is processed.
	if len(results[1].WallEvents) != 0 {
		t.Fatalf("second explosion should find the wall already destroyed by the first, got %+v", results[1].WallEvents)
	}
	if q.Len() != 0 {
		t.Fatal("queue should be empty after draining")
	}
}

func TestExplosionQueueComputesPlayerHits(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)

	q := NewExplosionQueue()
	q.Push(ExplosionRequest{Center: Vec2{X: 0, Y: 0}, Radius: 50, Damage: 100, Power: 1.5, At: time.Now()})

	targets := []TargetPlayer{
		{ID: "near", Pos: Vec2{X: 10, Y: 0}, Radius: 12},
		{ID: "far", Pos: Vec2{X: 1000, Y: 0}, Radius: 12},
	}

	results := q.DrainAndProcess(dest, targets)
	hits := results[0].PlayerHits
	if _, ok := hits["near"]; !ok {
		t.Fatal("expected the nearby player to take explosion damage")
	}
	if _, ok := hits["far"]; ok {
		t.Fatal("player far outside the blast radius should take no damage")
	}
}

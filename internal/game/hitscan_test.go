package game

import (
	"testing"
	"time"

	"breachline/internal/config"
)

func TestResolveHitscanStopsAtHardWall(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)
	dest.AddWall(NewWall("w1", 100, 0, 20, 50, Concrete, cfg))
	dest.AddWall(NewWall("behind", 200, 0, 20, 50, Concrete, cfg))

	hits, events := ResolveHitscan(
		dest, nil, "shooter",
		Vec2{X: 0, Y: 10}, Vec2{X: 1, Y: 0},
		500, 50, 0.5, 0.4,
		false, 0, 0, 0, 0,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 1 {
		t.Fatalf("expected exactly one hit (stops at first hard wall), got %d", len(hits))
	}
	if hits[0].WallID != "w1" {
		t.Fatalf("expected the nearer wall to be hit, got %q", hits[0].WallID)
	}
	if len(events) != 1 {
		t.Fatalf("expected one damage event, got %d", len(events))
	}
}

func TestResolveHitscanPassesThroughDestroyedSlice(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)
	front := NewWall("front", 100, 0, 20, 50, Wood, cfg)
	for i := 0; i < WallSlices; i++ {
		front.SliceHealth[i] = 0
	}
	front.recomputeMask(cfg.PhysicalIntactEpsilon)
	dest.AddWall(front)
	dest.AddWall(NewWall("behind", 200, 0, 20, 50, Concrete, cfg))

	hits, _ := ResolveHitscan(
		dest, nil, "shooter",
		Vec2{X: 0, Y: 25}, Vec2{X: 1, Y: 0},
		500, 50, 0.5, 0.4,
		false, 0, 0, 0, 0,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 1 || hits[0].WallID != "behind" {
		t.Fatalf("expected the ray to pass through the destroyed wall and hit the one behind it, got %+v", hits)
	}
}

func TestResolveHitscanSoftWallPenetratesToSecondTarget(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)
	dest.AddWall(NewWall("wood", 100, 0, 20, 50, Wood, cfg))

	targets := []TargetPlayer{
		{ID: "victim", Pos: Vec2{X: 200, Y: 25}, Radius: 12},
	}

	hits, events := ResolveHitscan(
		dest, targets, "shooter",
		Vec2{X: 0, Y: 25}, Vec2{X: 1, Y: 0},
		500, 25, 1.0, 1.0,
		false, 0, 0, cfg.SoftWallPenetrationDamage, 20,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 2 {
		t.Fatalf("expected the round to penetrate the wood wall and still reach the player behind it, got %d hits: %+v", len(hits), hits)
	}
	if hits[0].Kind != HitWall || hits[0].WallID != "wood" {
		t.Fatalf("expected the first hit to be the soft wall, got %+v", hits[0])
	}
	if hits[1].Kind != HitPlayer || hits[1].PlayerID != "victim" {
		t.Fatalf("expected the round to continue on to reach the victim, got %+v", hits[1])
	}
	if len(events) != 1 || events[0].Damage != cfg.SoftWallPenetrationDamage {
		t.Fatalf("expected the wood slice to absorb exactly the soft penetration cost, got %+v", events)
	}
}

func TestResolveHitscanSoftWallCapsPenetrationCrossings(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)
	dest.AddWall(NewWall("w1", 100, 0, 20, 50, Wood, cfg))
	dest.AddWall(NewWall("w2", 200, 0, 20, 50, Wood, cfg))
	dest.AddWall(NewWall("w3", 300, 0, 20, 50, Wood, cfg))

	// With a penetration cap of 1, the round should cross the first wood
	// wall (crossing #1) and then stop at the second rather than reach the
	// third.
	hits, _ := ResolveHitscan(
		dest, nil, "shooter",
		Vec2{X: 0, Y: 25}, Vec2{X: 1, Y: 0},
		500, 25, 1.0, 1.0,
		false, 0, 0, cfg.SoftWallPenetrationDamage, 1,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 2 {
		t.Fatalf("expected the round to stop after its penetration cap, got %d hits: %+v", len(hits), hits)
	}
	if hits[0].WallID != "w1" || hits[1].WallID != "w2" {
		t.Fatalf("expected the round to hit w1 then w2, got %+v", hits)
	}
}

func TestResolveHitscanAntiMaterialPenetratesMultipleWalls(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)
	dest.AddWall(NewWall("w1", 100, 0, 20, 50, Wood, cfg))
	dest.AddWall(NewWall("w2", 200, 0, 20, 50, Wood, cfg))
	dest.AddWall(NewWall("w3", 300, 0, 20, 50, Wood, cfg))

	// Overkill damage so each wood wall's hit slice is destroyed outright,
	// letting the AMR round continue to the next wall.
	hits, _ := ResolveHitscan(
		dest, nil, "shooter",
		Vec2{X: 0, Y: 25}, Vec2{X: 1, Y: 0},
		500, 10000, 1.0, 1.0,
		true, 3, 0, 0, 0,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 3 {
		t.Fatalf("expected the round to punch through all three walls within its penetration budget, got %d hits: %+v", len(hits), hits)
	}
}

func TestResolveHitscanHitsPlayer(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)

	targets := []TargetPlayer{
		{ID: "victim", Pos: Vec2{X: 100, Y: 0}, Radius: 12},
	}

	hits, _ := ResolveHitscan(
		dest, targets, "shooter",
		Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0},
		500, 25, 0.5, 0.4,
		false, 0, 0, 0, 0,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 1 || hits[0].Kind != HitPlayer || hits[0].PlayerID != "victim" {
		t.Fatalf("expected a single player hit, got %+v", hits)
	}
}

func TestResolveHitscanExcludesShooter(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)

	targets := []TargetPlayer{
		{ID: "shooter", Pos: Vec2{X: 50, Y: 0}, Radius: 12},
		{ID: "victim", Pos: Vec2{X: 100, Y: 0}, Radius: 12},
	}

	hits, _ := ResolveHitscan(
		dest, targets, "shooter",
		Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0},
		500, 25, 0.5, 0.4,
		false, 0, 0, 0, 0,
		cfg.PhysicalIntactEpsilon, time.Now(),
	)

	if len(hits) != 1 || hits[0].PlayerID != "victim" {
		t.Fatalf("shooter should never appear as a hit target, got %+v", hits)
	}
}

func TestShotgunPelletsFiresPelletCountRays(t *testing.T) {
	cfg := config.DefaultDestruction()
	dest := NewDestruction(cfg)
	dest.AddWall(NewWall("w1", 100, -50, 20, 200, Concrete, cfg))

	rnds := []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.2, 0.6, 0.4}
	hits, events := ShotgunPellets(
		dest, nil, "shooter",
		Vec2{X: 0, Y: 0}, 0,
		8, 10, 500, 0.8,
		[]float64{60, 150, 300}, []float64{1.0, 0.6, 0.3},
		cfg.PhysicalIntactEpsilon, time.Now(), rnds,
	)

	if len(hits) != 8 {
		t.Fatalf("expected 8 pellets to each register one hit against the wall, got %d", len(hits))
	}
	if len(events) == 0 {
		t.Fatal("expected at least one damage event from the pellet spread")
	}
}

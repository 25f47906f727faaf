package game

import (
	"testing"
	"time"

	"breachline/internal/config"
)

func TestGrenadeSetDetonatesOnFuseExpiry(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	g := NewGrenadeSet(config.DefaultGrenade())

	now := time.Now()
	thrown := g.Throw("owner", ProjFrag, Vec2{X: 100, Y: 100}, Vec2{X: 1, Y: 0}, 50, 100, 55, 1.0, now)

	detonate, discard := g.Step(0.1, dest, destCfg.PhysicalIntactEpsilon, 480, 270, now)
	if len(detonate) != 0 || len(discard) != 0 {
		t.Fatalf("grenade should not detonate before its fuse expires, got detonate=%v discard=%v", detonate, discard)
	}

	detonate, _ = g.Step(0.1, dest, destCfg.PhysicalIntactEpsilon, 480, 270, now.Add(2*time.Second))
	found := false
	for _, id := range detonate {
		if id == thrown.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected grenade to detonate once its fuse expires, got %v", detonate)
	}
}

func TestGrenadeSetDetonatesWhenStuck(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	cfg := config.DefaultGrenade()
	cfg.GroundFriction = 0.9
	cfg.MinBounceSpeed = 20
	cfg.FuseTime = 30
	g := NewGrenadeSet(cfg)

	now := time.Now()
	thrown := g.Throw("owner", ProjFrag, Vec2{X: 100, Y: 100}, Vec2{X: 1, Y: 0}, 5, 100, 55, 30, now)

	detonate, _ := g.Step(0.1, dest, destCfg.PhysicalIntactEpsilon, 480, 270, now)
	if len(detonate) != 0 {
		t.Fatalf("grenade should not detonate on the tick it first settles to rest, got %v", detonate)
	}

	detonate, _ = g.Step(0.1, dest, destCfg.PhysicalIntactEpsilon, 480, 270, now.Add(100*time.Millisecond))
	found := false
	for _, id := range detonate {
		if id == thrown.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the stuck grenade to detonate on the following tick rather than wait out its fuse, got %v", detonate)
	}
}

func TestGrenadeSetDiscardsOutOfBoundsSentinel(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	cfg := config.DefaultGrenade()
	cfg.SentinelBound = 10
	g := NewGrenadeSet(cfg)

	now := time.Now()
	thrown := g.Throw("owner", ProjFrag, Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0}, 1000, 100, 55, 30, now)

	_, discard := g.Step(1, dest, destCfg.PhysicalIntactEpsilon, 480, 270, now)
	found := false
	for _, id := range discard {
		if id == thrown.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected grenade beyond the sentinel bound to be discarded, got %v", discard)
	}
}

func TestGrenadeSetGetAndRemove(t *testing.T) {
	g := NewGrenadeSet(config.DefaultGrenade())
	thrown := g.Throw("owner", ProjFrag, Vec2{}, Vec2{X: 1}, 10, 10, 10, 1, time.Now())

	if g.Get(thrown.ID) == nil {
		t.Fatal("expected to retrieve the thrown grenade by ID")
	}
	g.Remove(thrown.ID)
	if g.Get(thrown.ID) != nil {
		t.Fatal("expected the grenade to be gone after removal")
	}
}

package game

import (
	"testing"
	"time"

	"breachline/internal/config"
)

func testDestructionConfig() config.DestructionConfig {
	return config.DefaultDestruction()
}

func TestNewWallSliceHealth(t *testing.T) {
	cfg := testDestructionConfig()
	w := NewWall("w1", 0, 0, 100, 20, Concrete, cfg)

	want := cfg.BaseSliceHealth * cfg.MaterialMultiplier["concrete"]
	for i := 0; i < WallSlices; i++ {
		if w.SliceHealth[i] != want {
			t.Fatalf("slice %d health = %v, want %v", i, w.SliceHealth[i], want)
		}
		if w.Mask[i] {
			t.Fatalf("slice %d mask should start closed", i)
		}
	}
}

func TestApplyDamageMonotonic(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)
	w := NewWall("w1", 0, 0, 100, 20, Wood, cfg)
	d.AddWall(w)

	now := time.Now()
	prev := w.SliceHealth[2]
	for i := 0; i < 5; i++ {
		ev, ok := d.ApplyDamage("w1", 2, 5, now)
		if !ok {
			t.Fatalf("ApplyDamage failed on iteration %d", i)
		}
		if ev.NewHealth > prev {
			t.Fatalf("slice health increased: %v -> %v", prev, ev.NewHealth)
		}
		prev = ev.NewHealth
	}
}

func TestApplyDamageUnknownWallOrSlice(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)
	w := NewWall("w1", 0, 0, 100, 20, Concrete, cfg)
	d.AddWall(w)

	if _, ok := d.ApplyDamage("missing", 0, 10, time.Now()); ok {
		t.Fatal("expected no-op for unknown wall")
	}
	if _, ok := d.ApplyDamage("w1", WallSlices, 10, time.Now()); ok {
		t.Fatal("expected no-op for out-of-range slice")
	}
	if _, ok := d.ApplyDamage("w1", -1, 10, time.Now()); ok {
		t.Fatal("expected no-op for negative slice")
	}
}

func TestApplyDamageOnDestroyedSliceIsNoOp(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)
	w := NewWall("w1", 0, 0, 100, 20, Glass, cfg)
	d.AddWall(w)

	maxHP := w.MaxHealth[0]
	if _, ok := d.ApplyDamage("w1", 0, maxHP*10, time.Now()); !ok {
		t.Fatal("expected first overkill hit to apply")
	}
	if w.SliceHealth[0] != 0 {
		t.Fatalf("slice should be fully destroyed, got %v", w.SliceHealth[0])
	}
	if _, ok := d.ApplyDamage("w1", 0, 1, time.Now()); ok {
		t.Fatal("expected no-op on an already-destroyed slice")
	}
}

// Hard materials (concrete, metal) only open their vision mask once a
// slice is fully destroyed; soft materials (wood, glass) open at <=50%.
func TestMaskVsPhysicalIntactSeparation(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)

	hard := NewWall("hard", 0, 0, 100, 20, Metal, cfg)
	d.AddWall(hard)
	soft := NewWall("soft", 200, 0, 100, 20, Wood, cfg)
	d.AddWall(soft)

	now := time.Now()
	half := hard.MaxHealth[0] / 2

	d.ApplyDamage("hard", 0, half, now)
	if hard.Mask[0] {
		t.Fatal("hard material should stay masked closed at 50% health")
	}
	if !hard.IntactSlice(0, cfg.PhysicalIntactEpsilon) {
		t.Fatal("hard slice at 50% health should still be physically intact")
	}

	d.ApplyDamage("soft", 0, soft.MaxHealth[0]/2, now)
	if !soft.Mask[0] {
		t.Fatal("soft material should open vision mask at 50% health")
	}
	if !soft.IntactSlice(0, cfg.PhysicalIntactEpsilon) {
		t.Fatal("soft slice at 50% health should still be physically intact despite open mask")
	}
}

func TestExplosionDamageFallsOffWithDistance(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)

	near := NewWall("near", 10, 0, 20, 20, Wood, cfg)
	far := NewWall("far", 300, 0, 20, 20, Wood, cfg)
	d.AddWall(near)
	d.AddWall(far)

	events := d.ApplyExplosionDamage(Vec2{X: 0, Y: 10}, 100, 50, time.Now())
	if len(events) == 0 {
		t.Fatal("expected at least one damage event near the blast")
	}
	for _, ev := range events {
		if ev.WallID == "far" {
			t.Fatal("wall outside blast radius should not be damaged")
		}
	}
}

func TestRepairRestoresFullHealthAndClosesMask(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)
	w := NewWall("w1", 0, 0, 100, 20, Glass, cfg)
	d.AddWall(w)

	d.ApplyDamage("w1", 1, w.MaxHealth[1], time.Now())
	if w.SliceHealth[1] != 0 {
		t.Fatal("setup: slice should be destroyed before repair")
	}

	d.Repair("w1", 1)
	if w.SliceHealth[1] != w.MaxHealth[1] {
		t.Fatalf("repair did not restore full health: %v", w.SliceHealth[1])
	}
	if w.Mask[1] {
		t.Fatal("repaired slice should close the vision mask")
	}
}

func TestRemoveWallRebuildsGrid(t *testing.T) {
	cfg := testDestructionConfig()
	d := NewDestruction(cfg)
	w := NewWall("w1", 0, 0, 20, 20, Concrete, cfg)
	d.AddWall(w)
	d.RemoveWall("w1")

	if d.Wall("w1") != nil {
		t.Fatal("wall should be gone after RemoveWall")
	}
	if len(d.Walls()) != 0 {
		t.Fatal("wall set should be empty after removing the only wall")
	}
	// candidateWalls must fall back cleanly when the grid is nil.
	events := d.ApplyExplosionDamage(Vec2{X: 0, Y: 0}, 50, 10, time.Now())
	if len(events) != 0 {
		t.Fatal("no walls registered, no events expected")
	}
}

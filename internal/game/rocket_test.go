package game

import (
	"testing"
	"time"

	"breachline/internal/config"
)

func TestRocketSetImpactsDestroyedSlice(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	w := NewWall("w1", 100, 0, 20, 270, Concrete, destCfg)
	// Blow out the one slice the rocket's path actually crosses, leaving
	// every other slice fully intact. A rocket must still detonate here:
	// it doesn't thread through a hole the way a penetrating round can.
	hitSlice := w.sliceIndex(100, 135)
	w.SliceHealth[hitSlice] = 0
	w.recomputeMask(destCfg.PhysicalIntactEpsilon)
	dest.AddWall(w)

	rs := NewRocketSet()
	now := time.Now()
	rkt := rs.Launch("owner", Vec2{X: 0, Y: 135}, Vec2{X: 1, Y: 0}, 200, 110, 60, now)

	impacted, discard := rs.Step(1, dest, nil, 480, 270, destCfg.PhysicalIntactEpsilon)
	if len(discard) != 0 {
		t.Fatalf("rocket should detonate against the destroyed slice, not leave the playfield, got discard=%+v", discard)
	}
	found := false
	for _, id := range impacted {
		if id == rkt.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the rocket to impact the destroyed slice's footprint, got impacted=%+v", impacted)
	}
}

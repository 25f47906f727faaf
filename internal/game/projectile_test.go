package game

import (
	"math"
	"testing"
	"time"

	"breachline/internal/config"
)

func TestPhysicsReflectVelocity(t *testing.T) {
	phys := NewPhysics()
	v := Vec2{X: 1, Y: -1}
	n := Vec2{X: 0, Y: 1}

	reflected := phys.ReflectVelocity(v, n)
	if math.Abs(reflected.X-1) > 1e-9 || math.Abs(reflected.Y-1) > 1e-9 {
		t.Fatalf("reflecting off a horizontal surface should flip Y only, got %+v", reflected)
	}
}

func TestPhysicsSweepSegmentDetectsHit(t *testing.T) {
	phys := NewPhysics()
	from := Vec2{X: 0, Y: 10}
	to := Vec2{X: 100, Y: 10}

	contact, hit := phys.SweepSegment(from, to, 50, 0, 70, 20)
	if !hit {
		t.Fatal("segment crossing the box should report a hit")
	}
	if math.Abs(contact.X-50) > 1e-6 {
		t.Fatalf("expected contact at the box's near edge x=50, got %+v", contact)
	}
}

func TestPhysicsSweepSegmentMisses(t *testing.T) {
	phys := NewPhysics()
	from := Vec2{X: 0, Y: 0}
	to := Vec2{X: 100, Y: 0}

	_, hit := phys.SweepSegment(from, to, 50, 50, 70, 70)
	if hit {
		t.Fatal("segment that never reaches the box should not report a hit")
	}
}

func TestNewProjectileGrenadeLikeClassification(t *testing.T) {
	now := time.Now()
	rocket := NewProjectile("owner", ProjRocket, Vec2{}, Vec2{X: 1}, 100, 50, 10, 0, now)
	if rocket.IsGrenadeLike {
		t.Fatal("a rocket should not be classified as grenade-like")
	}

	frag := NewProjectile("owner", ProjFrag, Vec2{}, Vec2{X: 1}, 100, 50, 10, 3, now)
	if !frag.IsGrenadeLike {
		t.Fatal("a frag grenade should be classified as grenade-like")
	}
	if frag.FuseEnds.IsZero() {
		t.Fatal("a positive fuse time should set FuseEnds")
	}
}

func TestFuseExpired(t *testing.T) {
	now := time.Now()
	p := NewProjectile("owner", ProjFrag, Vec2{}, Vec2{X: 1}, 100, 50, 10, 1, now)

	if p.FuseExpired(now) {
		t.Fatal("fuse should not be expired immediately")
	}
	if !p.FuseExpired(now.Add(2 * time.Second)) {
		t.Fatal("fuse should be expired after the fuse time elapses")
	}
}

func TestOutOfBounds(t *testing.T) {
	p := NewProjectile("owner", ProjRocket, Vec2{X: 1000, Y: 0}, Vec2{X: 1}, 0, 0, 0, 0, time.Now())
	if !p.OutOfBounds(480, 270, 50) {
		t.Fatal("a projectile far past the playfield should be out of bounds")
	}

	p2 := NewProjectile("owner", ProjRocket, Vec2{X: 100, Y: 100}, Vec2{X: 1}, 0, 0, 0, 0, time.Now())
	if p2.OutOfBounds(480, 270, 50) {
		t.Fatal("a projectile well inside the playfield should not be out of bounds")
	}
}

func TestStepGrenadeBouncesOffWall(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	dest.AddWall(NewWall("w1", 100, 0, 20, 270, Concrete, destCfg))

	p := NewProjectile("owner", ProjFrag, Vec2{X: 90, Y: 135}, Vec2{X: 1, Y: 0}, 200, 50, 10, 3, time.Now())
	phys := GrenadePhysics{Radius: 2, GroundFriction: 0.25, BounceDamping: 0.7, WallFriction: 0.8, MinBounceSpeed: 20}

	p.StepGrenade(0.1, dest, phys, destCfg.PhysicalIntactEpsilon, time.Now())

	if p.Vel.X >= 0 {
		t.Fatalf("grenade should bounce back (negative X velocity) off the wall, got %+v", p.Vel)
	}
	if p.Pos.X >= 100 {
		t.Fatalf("grenade should not end up inside the wall, got %+v", p.Pos)
	}
}

func TestStepGrenadeSettlesToRest(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)

	p := NewProjectile("owner", ProjFrag, Vec2{X: 100, Y: 100}, Vec2{X: 1, Y: 0}, 5, 50, 10, 3, time.Now())
	phys := GrenadePhysics{Radius: 2, GroundFriction: 0.9, BounceDamping: 0.7, WallFriction: 0.8, MinBounceSpeed: 20}

	now := time.Now()
	for i := 0; i < 10; i++ {
		p.StepGrenade(0.1, dest, phys, destCfg.PhysicalIntactEpsilon, now)
	}

	if !p.AtRest {
		t.Fatal("a slow grenade with high ground friction should settle to rest")
	}
}

func TestStepGrenadeCollisionCooldownSuppressesRepeatedBounce(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	dest.AddWall(NewWall("w1", 100, 0, 20, 270, Concrete, destCfg))

	p := NewProjectile("owner", ProjFrag, Vec2{X: 90, Y: 135}, Vec2{X: 1, Y: 0}, 200, 50, 10, 3, time.Now())
	phys := GrenadePhysics{Radius: 2, GroundFriction: 0.25, BounceDamping: 0.7, WallFriction: 0.8, MinBounceSpeed: 20, CollisionCooldown: 0.2}

	now := time.Now()
	p.StepGrenade(0.1, dest, phys, destCfg.PhysicalIntactEpsilon, now)
	if p.Vel.X >= 0 {
		t.Fatalf("expected the first contact to bounce the grenade back, got %+v", p.Vel)
	}

	// Shove it back toward the wall well inside the cooldown window: the
	// second contact should not recompute a fresh reflection.
	p.Vel = Vec2{X: 50, Y: 0}
	p.Pos = Vec2{X: 98, Y: 135}
	p.StepGrenade(0.01, dest, phys, destCfg.PhysicalIntactEpsilon, now.Add(50*time.Millisecond))

	if p.Vel.X <= 0 {
		t.Fatalf("grenade still within its collision cooldown should not bounce again, got %+v", p.Vel)
	}
}

func TestRocketSetLaunchAndStepImpactsWall(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)
	dest.AddWall(NewWall("w1", 100, 0, 20, 270, Concrete, destCfg))

	rs := NewRocketSet()
	now := time.Now()
	rkt := rs.Launch("owner", Vec2{X: 0, Y: 135}, Vec2{X: 1, Y: 0}, 200, 110, 60, now)

	impacted, discard := rs.Step(1, dest, nil, 480, 270, destCfg.PhysicalIntactEpsilon)
	if len(discard) != 0 {
		t.Fatalf("rocket should not be discarded when it hits a wall, got %+v", discard)
	}
	found := false
	for _, id := range impacted {
		if id == rkt.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the rocket to impact the wall, got impacted=%+v", impacted)
	}
}

func TestRocketSetDiscardsOutOfBoundsRocket(t *testing.T) {
	destCfg := config.DefaultDestruction()
	dest := NewDestruction(destCfg)

	rs := NewRocketSet()
	rkt := rs.Launch("owner", Vec2{X: 0, Y: 135}, Vec2{X: 1, Y: 0}, 10000, 110, 60, time.Now())

	impacted, discard := rs.Step(1, dest, nil, 480, 270, destCfg.PhysicalIntactEpsilon)
	if len(impacted) != 0 {
		t.Fatalf("expected no impacts in an empty arena, got %+v", impacted)
	}
	found := false
	for _, id := range discard {
		if id == rkt.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the fast rocket to leave the playfield and be discarded")
	}
}

package game

import (
	"testing"
	"time"
)

func basePacket(seq uint64, now time.Time) InputPacket {
	return InputPacket{
		Sequence:        seq,
		ClientTimestamp: now.UnixMilli(),
		MoveX:           1,
		MoveY:           0,
		FacingX:         1,
		FacingY:         0,
	}
}

func TestSequenceTrackerRejectsStaleOrReplayed(t *testing.T) {
	tr := NewSequenceTracker()
	if !tr.Accept("p1", 5) {
		t.Fatal("first sequence should be accepted")
	}
	if tr.Accept("p1", 5) {
		t.Fatal("replayed sequence should be rejected")
	}
	if tr.Accept("p1", 3) {
		t.Fatal("stale (lower) sequence should be rejected")
	}
	if !tr.Accept("p1", 6) {
		t.Fatal("strictly increasing sequence should be accepted")
	}
}

func TestSequenceTrackerForget(t *testing.T) {
	tr := NewSequenceTracker()
	tr.Accept("p1", 10)
	tr.Forget("p1")
	if !tr.Accept("p1", 1) {
		t.Fatal("after forgetting a player, sequence tracking should restart from scratch")
	}
}

func TestValidateInputAcceptsWellFormedPacket(t *testing.T) {
	tr := NewSequenceTracker()
	now := time.Now()
	pkt := basePacket(1, now)

	in, err := ValidateInput("p1", pkt, tr, now)
	if err != nil {
		t.Fatalf("expected a well-formed packet to validate, got %v", err)
	}
	if in.PlayerID != "p1" || in.Sequence != 1 {
		t.Fatalf("unexpected pending input: %+v", in)
	}
}

func TestValidateInputRejectsReplayedSequence(t *testing.T) {
	tr := NewSequenceTracker()
	now := time.Now()
	ValidateInput("p1", basePacket(5, now), tr, now)

	if _, err := ValidateInput("p1", basePacket(5, now), tr, now); err == nil {
		t.Fatal("expected replayed sequence to be rejected")
	}
}

func TestValidateInputRejectsTimestampDrift(t *testing.T) {
	tr := NewSequenceTracker()
	now := time.Now()
	pkt := basePacket(1, now.Add(-10*time.Second))

	if _, err := ValidateInput("p1", pkt, tr, now); err == nil {
		t.Fatal("expected excessive timestamp drift to be rejected")
	}
}

func TestValidateInputRejectsOversizedMoveVector(t *testing.T) {
	tr := NewSequenceTracker()
	now := time.Now()
	pkt := basePacket(1, now)
	pkt.MoveX = 100
	pkt.MoveY = 100

	if _, err := ValidateInput("p1", pkt, tr, now); err == nil {
		t.Fatal("expected an oversized move vector to be rejected")
	}
}

func TestValidateInputRejectsZeroFacingVector(t *testing.T) {
	tr := NewSequenceTracker()
	now := time.Now()
	pkt := basePacket(1, now)
	pkt.FacingX = 0
	pkt.FacingY = 0

	if _, err := ValidateInput("p1", pkt, tr, now); err == nil {
		t.Fatal("expected a zero-length facing vector to be rejected")
	}
}

func TestValidateInputMovementStatePriority(t *testing.T) {
	tr := NewSequenceTracker()
	now := time.Now()
	pkt := basePacket(1, now)
	pkt.Running = true
	pkt.Sneaking = true

	in, err := ValidateInput("p1", pkt, tr, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.MoveState != MoveRun {
		t.Fatalf("running should take priority over sneaking, got %v", in.MoveState)
	}
}

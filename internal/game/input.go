package game

import (
	"fmt"
	"math"
	"time"
)

// InputPacket is the wire-level shape of a client input message, before
// validation. The transport layer decodes JSON into this struct and
// hands it to ValidateInput.
type InputPacket struct {
	PlayerID        string  `json:"-"`
	Sequence        uint64  `json:"sequence"`
	ClientTimestamp int64   `json:"clientTimestamp"` // Unix millis
	MoveX           float64 `json:"moveX"`
	MoveY           float64 `json:"moveY"`
	Running         bool    `json:"running"`
	Sneaking        bool    `json:"sneaking"`
	FacingX         float64 `json:"facingX"`
	FacingY         float64 `json:"facingY"`
	IsADS           bool    `json:"ads"`
	Fire            bool    `json:"fire"`
	Reload          bool    `json:"reload"`
	SwitchTo        string  `json:"switchTo"`
	ThrowWeapon     string  `json:"throwWeapon"`
	ThrowCharge     int     `json:"throwCharge"`
}

// SequenceTracker tracks the highest accepted sequence number per player
// so stale or replayed packets can be rejected (monotonicity invariant,
// spec §5).
type SequenceTracker struct {
	lastSeq map[string]uint64
}

// NewSequenceTracker creates an empty tracker.
func NewSequenceTracker() *SequenceTracker {
	return &SequenceTracker{lastSeq: make(map[string]uint64)}
}

// Accept reports whether seq is newer than the last accepted sequence
// for playerID, and if so records it.
func (t *SequenceTracker) Accept(playerID string, seq uint64) bool {
	if last, ok := t.lastSeq[playerID]; ok && seq <= last {
		return false
	}
	t.lastSeq[playerID] = seq
	return true
}

// Forget drops tracking state for a disconnected player.
func (t *SequenceTracker) Forget(playerID string) {
	delete(t.lastSeq, playerID)
}

// ValidateInput checks timestamp drift, mouse/facing vector sanity, and
// sequence ordering, returning a PendingInput ready to enqueue or an
// error explaining the rejection.
func ValidateInput(playerID string, pkt InputPacket, tracker *SequenceTracker, now time.Time) (PendingInput, error) {
	if !tracker.Accept(playerID, pkt.Sequence) {
		return PendingInput{}, fmt.Errorf("stale or replayed sequence %d", pkt.Sequence)
	}

	clientTime := time.UnixMilli(pkt.ClientTimestamp)
	drift := now.Sub(clientTime)
	if drift < -2*time.Second || drift > 2*time.Second {
		return PendingInput{}, fmt.Errorf("timestamp drift %v exceeds tolerance", drift)
	}

	moveLen := math.Hypot(pkt.MoveX, pkt.MoveY)
	if math.IsNaN(moveLen) || math.IsInf(moveLen, 0) || moveLen > 1.5 {
		return PendingInput{}, fmt.Errorf("invalid move vector (%.3f, %.3f)", pkt.MoveX, pkt.MoveY)
	}

	facingLen := math.Hypot(pkt.FacingX, pkt.FacingY)
	if facingLen == 0 || math.IsNaN(facingLen) || math.IsInf(facingLen, 0) {
		return PendingInput{}, fmt.Errorf("invalid facing vector")
	}
	facing := math.Atan2(pkt.FacingY, pkt.FacingX)

	moveState := MoveWalk
	if pkt.Running {
		moveState = MoveRun
	} else if pkt.Sneaking {
		moveState = MoveSneak
	}

	return PendingInput{
		PlayerID:        playerID,
		Move:            Vec2{pkt.MoveX, pkt.MoveY},
		MoveState:       moveState,
		Facing:          facing,
		IsADS:           pkt.IsADS,
		FirePressed:     pkt.Fire,
		ReloadPressed:   pkt.Reload,
		SwitchTo:        pkt.SwitchTo,
		ThrowWeapon:     pkt.ThrowWeapon,
		ThrowCharge:     pkt.ThrowCharge,
		ThrowDirection:  facing,
		ClientTimestamp: clientTime,
		Sequence:        pkt.Sequence,
	}, nil
}

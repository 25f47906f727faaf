package game

import (
	"sync/atomic"
	"time"
)

// ResourceLimits caps snapshot slice sizes so a pathological room can
// never force unbounded per-tick allocation.
type ResourceLimits struct {
	MaxPlayers      int
	MaxProjectiles  int
	MaxVisionPoints int
	MaxEvents       int
}

// DefaultLimits provides production-safe default limits.
var DefaultLimits = ResourceLimits{
	MaxPlayers:      16,
	MaxProjectiles:  64,
	MaxVisionPoints: 256,
	MaxEvents:       64,
}

// PlayerSnapshot is an immutable copy of a player's state as rendered
// to OTHER players; omits fields a given viewer should never receive
// (e.g. a weapon's reserve ammo of someone else).
type PlayerSnapshot struct {
	ID       string
	Name     string
	Team     string
	X, Y     float64
	Facing   float64
	HP       int
	MaxHP    int
	IsDead   bool
	Weapon   string
}

// ProjectileSnapshot is an immutable copy of a live projectile.
type ProjectileSnapshot struct {
	ID     string
	Kind   ProjectileKind
	X, Y   float64
	OwnerID string
}

// WallSnapshot is an immutable copy of a wall's destructible state.
type WallSnapshot struct {
	ID          string
	X, Y        float64
	Width       float64
	Height      float64
	Material    string
	SliceHealth [WallSlices]float64
	Mask        [WallSlices]bool
}

// VisionSnapshot is the viewer-specific vision polygon, flattened to a
// point list for wire transport.
type VisionSnapshot struct {
	OriginX, OriginY float64
	Points           []Vec2
}

// ViewerSnapshot is a complete, per-player filtered view of the world:
// every other player visible through this viewer's vision polygon, all
// walls (destruction state is never occluded — structural state is
// public), and every projectile the viewer's vision polygon currently
// contains.
type ViewerSnapshot struct {
	Sequence   uint64
	Timestamp  time.Time
	TickNumber uint64

	ViewerID string
	Vision   VisionSnapshot

	Players     []PlayerSnapshot
	Walls       []WallSnapshot
	Projectiles []ProjectileSnapshot

	SelfHP     int
	SelfMaxHP  int
	SelfAmmo   int
	SelfReserve int
}

// ViewerSnapshotPool triple-buffers one viewer's snapshots for
// lock-free producer (tick loop)/consumer (broadcast loop) handoff,
// adapted from the teacher's single shared SnapshotPool to one instance
// per connected player, since no two players see the same filtered
// view.
type ViewerSnapshotPool struct {
	snapshots [3]ViewerSnapshot
	limits    ResourceLimits
	writeIdx  uint32
	readIdx   uint32
	sequence  uint64
}

// NewViewerSnapshotPool creates a pool with pre-allocated slices for
// one viewer.
func NewViewerSnapshotPool(viewerID string, limits ResourceLimits) *ViewerSnapshotPool {
	pool := &ViewerSnapshotPool{limits: limits}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = ViewerSnapshot{
			ViewerID:    viewerID,
			Players:     make([]PlayerSnapshot, 0, limits.MaxPlayers),
			Projectiles: make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with slices reset to zero
// length but retained capacity.
func (p *ViewerSnapshotPool) AcquireWrite() *ViewerSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Players = snap.Players[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.Walls = nil
	snap.Vision = VisionSnapshot{}

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite marks the write slot complete and visible to readers.
func (p *ViewerSnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot for this viewer.
func (p *ViewerSnapshotPool) AcquireRead() *ViewerSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

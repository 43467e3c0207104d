package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/pool"
	"github.com/pthm-cable/spectral/systems"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when decoding an incompatible snapshot.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// EntityState is the full component set of one entity.
type EntityState struct {
	Position components.Position `json:"position"`
	Body     components.Body     `json:"body"`
	Motion   components.Motion   `json:"motion"`
	Combat   components.Combat   `json:"combat"`
	Behavior components.Behavior `json:"behavior"`
	Lifetime components.Lifetime `json:"lifetime"`
	Identity components.Identity `json:"identity"`
}

// Snapshot is the complete serializable state of a simulation: entities in
// iteration order, projectiles, global state and the random source.
type Snapshot struct {
	Version     int                                `json:"version"`
	Now         int64                              `json:"now"`
	NextID      uint64                             `json:"next_id"`
	RNG         []byte                             `json:"rng"`
	Bounds      systems.Bounds                     `json:"bounds"`
	State       SimulationState                    `json:"state"`
	Pointer     geom.Vec                           `json:"pointer"`
	Cheat1      bool                               `json:"cheat1"`
	Cheat2      bool                               `json:"cheat2"`
	Entities    []EntityState                      `json:"entities"`
	Projectiles pool.State[components.Projectile] `json:"projectiles"`
}

// Snapshot captures the current state.
func (s *Simulation) Snapshot() (*Snapshot, error) {
	rng, err := s.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling rng: %w", err)
	}
	snap := &Snapshot{
		Version:     SnapshotVersion,
		Now:         s.lastNow,
		NextID:      s.nextID,
		RNG:         rng,
		Bounds:      s.bounds,
		State:       s.state,
		Pointer:     s.pointer,
		Cheat1:      s.prevCheat1,
		Cheat2:      s.prevCheat2,
		Projectiles: s.projectiles.Pool().Export(),
	}

	query := s.filter.Query()
	for query.Next() {
		pos, body, mot, cmb, beh, life, id := query.Get()
		snap.Entities = append(snap.Entities, EntityState{
			Position: *pos, Body: *body, Motion: *mot, Combat: *cmb,
			Behavior: *beh, Lifetime: *life, Identity: *id,
		})
	}
	return snap, nil
}

// Restore builds a simulation from a snapshot. Entities are recreated in
// snapshot order, so iteration order and therefore every subsequent tick
// match the original. Pass WithClock with a clock reading snap.Now to
// continue seamlessly.
func Restore(cfg *config.Config, snap *Snapshot, opts ...Option) (*Simulation, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	s, err := build(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.src.UnmarshalBinary(snap.RNG); err != nil {
		return nil, fmt.Errorf("restoring rng: %w", err)
	}
	if err := s.Resize(snap.Bounds.Width, snap.Bounds.Height); err != nil {
		return nil, err
	}
	p, err := pool.FromState(snap.Projectiles)
	if err != nil {
		return nil, fmt.Errorf("restoring projectiles: %w", err)
	}
	s.projectiles.SetPool(p)

	s.state = snap.State
	s.lastNow = snap.Now
	s.nextID = snap.NextID
	s.pointer = snap.Pointer
	s.prevCheat1, s.prevCheat2 = snap.Cheat1, snap.Cheat2

	found := false
	for i := range snap.Entities {
		es := snap.Entities[i]
		e := s.mapper.NewEntity(&es.Position, &es.Body, &es.Motion, &es.Combat, &es.Behavior, &es.Lifetime, &es.Identity)
		if es.Identity.Kind == components.KindPlayer {
			s.player = e
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("snapshot has no player entity")
	}

	s.buildRender(s.lastNow)
	return s, nil
}

// EncodeSnapshot writes a zstd-compressed JSON snapshot.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	return &snap, nil
}

// Package sim owns the simulation: the entity arena, the global state and
// the per-tick orchestration of the systems.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/pool"
	"github.com/pthm-cable/spectral/systems"
)

// Simulation advances the world one fixed tick at a time.
type Simulation struct {
	cfg    *config.Config
	logger *slog.Logger
	clock  Clock
	assets Assets
	rec    recorder

	// ECS
	world   *ecs.World
	mapper  *ecs.Map7[components.Position, components.Body, components.Motion, components.Combat, components.Behavior, components.Lifetime, components.Identity]
	filter  *ecs.Filter7[components.Position, components.Body, components.Motion, components.Combat, components.Behavior, components.Lifetime, components.Identity]
	posMap  *ecs.Map1[components.Position]
	bodyMap *ecs.Map1[components.Body]
	motMap  *ecs.Map1[components.Motion]
	cmbMap  *ecs.Map1[components.Combat]
	behMap  *ecs.Map1[components.Behavior]
	lifeMap *ecs.Map1[components.Lifetime]
	idMap   *ecs.Map1[components.Identity]

	// Systems
	behavior    *systems.BehaviorSystem
	physics     *systems.PhysicsSystem
	collision   *systems.CollisionSystem
	projectiles *systems.ProjectileSystem
	dimension   *systems.DimensionSystem
	spawner     *systems.SpawnDirector
	hatch       *systems.HatchSystem

	src *rand.PCG
	rng *rand.Rand

	state   SimulationState
	player  ecs.Entity
	bounds  systems.Bounds
	nextID  uint64
	lastNow int64
	pointer geom.Vec

	prevCheat1, prevCheat2 bool

	pending []systems.SpawnRequest
	render  RenderSnapshot
	timer   PhaseTimer
}

// PhaseTimer receives timing marks for the stages of a tick.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// Tick stage names reported to a PhaseTimer.
const (
	PhaseInput       = "input"
	PhaseSpawn       = "spawn"
	PhaseBehavior    = "behavior"
	PhasePhysics     = "physics"
	PhaseProjectiles = "projectiles"
	PhaseCollision   = "collision"
	PhaseDimension   = "dimension"
	PhaseLifecycle   = "lifecycle"
	PhaseRender      = "render"
)

type nopTimer struct{}

func (nopTimer) StartTick()        {}
func (nopTimer) StartPhase(string) {}
func (nopTimer) EndTick()          {}

// Option configures a Simulation.
type Option func(*Simulation)

// WithClock sets the time source. Defaults to a SystemClock.
func WithClock(c Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithAssets sets the asset table used to resolve drawable roles.
func WithAssets(a Assets) Option {
	return func(s *Simulation) { s.assets = a }
}

// WithSink adds an event sink (audio, telemetry).
func WithSink(sink EventSink) Option {
	return func(s *Simulation) { s.rec.sinks = append(s.rec.sinks, sink) }
}

// WithPhaseTimer reports per-stage tick timing.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(s *Simulation) { s.timer = t }
}

// WithSeed seeds the random source. Without it the config seed is used,
// and a config seed of 0 picks a random seed.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }
}

// New creates a simulation with the player, initial portals and obstacles
// in place. It fails fast on invalid configuration.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	s, err := build(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	s.buildRender(s.lastNow)
	return s, nil
}

// build wires the world and systems without creating entities.
func build(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if cfg.Derived.WorldW <= 0 || cfg.Derived.WorldH <= 0 {
		return nil, fmt.Errorf("%w: world bounds %vx%v must be positive", config.ErrInvalid, cfg.Derived.WorldW, cfg.Derived.WorldH)
	}

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:     cfg,
		world:   world,
		mapper:  ecs.NewMap7[components.Position, components.Body, components.Motion, components.Combat, components.Behavior, components.Lifetime, components.Identity](world),
		filter:  ecs.NewFilter7[components.Position, components.Body, components.Motion, components.Combat, components.Behavior, components.Lifetime, components.Identity](world),
		posMap:  ecs.NewMap1[components.Position](world),
		bodyMap: ecs.NewMap1[components.Body](world),
		motMap:  ecs.NewMap1[components.Motion](world),
		cmbMap:  ecs.NewMap1[components.Combat](world),
		behMap:  ecs.NewMap1[components.Behavior](world),
		lifeMap: ecs.NewMap1[components.Lifetime](world),
		idMap:   ecs.NewMap1[components.Identity](world),
		bounds:  systems.Bounds{Width: cfg.Derived.WorldW, Height: cfg.Derived.WorldH},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = NewSystemClock()
	}
	if s.timer == nil {
		s.timer = nopTimer{}
	}
	if s.src == nil {
		seed := uint64(cfg.Simulation.Seed)
		if seed == 0 {
			seed = rand.Uint64()
		}
		s.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	s.rng = rand.New(s.src)

	s.behavior = systems.NewBehaviorSystem(world, &cfg.AI)
	s.physics = systems.NewPhysicsSystem(world, cfg.AI.KnockbackDecay)
	s.collision = systems.NewCollisionSystem(world, s.bounds, &cfg.Collision)
	s.projectiles = systems.NewProjectileSystem(world, pool.New[components.Projectile](cfg.Pool.Capacity), s.bounds, &cfg.Projectile, &cfg.Collision)
	s.dimension = systems.NewDimensionSystem(world, &cfg.Dimension, &cfg.AI)
	s.spawner = systems.NewSpawnDirector(world, &cfg.Spawn)
	s.hatch = systems.NewHatchSystem(world, cfg)

	s.lastNow = s.clock.NowMS()
	return s, nil
}

// start creates the initial population and schedules the first wave.
func (s *Simulation) start() error {
	s.state = SimulationState{
		DimensionState: systems.NewDimensionState(&s.cfg.Dimension),
		MainWeapon:     s.cfg.Player.MainWeapon,
		SubWeapon:      s.cfg.Player.SubWeapon,
	}
	s.player = s.spawnPlayer()

	for _, p := range s.cfg.Portals {
		delay := p.DelayMS
		if delay == 0 {
			delay = s.cfg.Spawn.PortalMS
		}
		if _, err := s.spawnPortal(p.Archetype, p.X, p.Y, delay); err != nil {
			return err
		}
		if s.counts(p.Archetype) {
			s.state.Spawn.Live++
		}
	}
	for _, o := range s.cfg.Obstacles {
		if _, err := s.spawnArchetype(o.Archetype, o.X, o.Y, geom.Vec{}); err != nil {
			return err
		}
	}
	s.spawner.Start(&s.state.Spawn, s.lastNow)

	s.logger.Info("simulation started",
		"world_w", s.bounds.Width,
		"world_h", s.bounds.Height,
		"portals", len(s.cfg.Portals),
		"obstacles", len(s.cfg.Obstacles),
	)
	return nil
}

// Tick advances the simulation by one step. After game over it only
// refreshes the render snapshot; the host decides when to stop.
func (s *Simulation) Tick(in Input) {
	now := s.clock.NowMS()
	dt := max(now-s.lastNow, 0)
	s.lastNow = now
	s.rec.reset()

	if s.state.GameOver {
		s.buildRender(now)
		return
	}
	s.state.Tick++
	s.timer.StartTick()
	defer s.timer.EndTick()

	s.timer.StartPhase(PhaseInput)
	f := s.frame(now, dt)
	s.handleInput(&f, in)
	s.refreshFrame(&f)

	// Structural changes first: the spawn director may create portals or enemies.
	s.timer.StartPhase(PhaseSpawn)
	s.applySpawns(s.spawner.Update(&f, &s.state.Spawn, s.state.Level))

	s.timer.StartPhase(PhaseBehavior)
	shots := s.behavior.Update(&f)
	s.fireEnemyShots(&f, shots)
	s.firePlayer(&f, in)

	s.timer.StartPhase(PhasePhysics)
	s.physics.Update(&f)
	s.refreshFrame(&f)

	s.timer.StartPhase(PhaseProjectiles)
	proj := s.projectiles.Update(&f)
	s.timer.StartPhase(PhaseCollision)
	col := s.collision.Update(&f)
	s.refreshFrame(&f)
	s.resolveContacts(&f, proj, col)

	s.timer.StartPhase(PhaseDimension)
	if tr := s.dimension.Update(&f, &s.state.DimensionState); tr != systems.TransitionNone {
		s.onTransition(&f, tr)
	}

	s.timer.StartPhase(PhaseLifecycle)
	s.pending = append(s.pending, s.hatch.Update(&f)...)
	s.prune(&f)

	s.timer.StartPhase(PhaseRender)
	s.dimension.UpdateAlpha(&s.state.DimensionState)
	s.buildRender(now)
}

// frame builds the per-tick system context.
func (s *Simulation) frame(now, dt int64) systems.Frame {
	f := systems.Frame{
		Now:          now,
		DT:           dt,
		Player:       s.player,
		PlayerR:      s.bodyMap.Get(s.player).Radius(),
		Invulnerable: s.state.Invulnerable,
		Bounds:       s.bounds,
		Rand:         s.rng,
		Emit:         &s.rec,
	}
	s.refreshFrame(&f)
	return f
}

// refreshFrame copies the player position and the phase into the frame.
func (s *Simulation) refreshFrame(f *systems.Frame) {
	pos := s.posMap.Get(s.player)
	f.PlayerPos = geom.V(pos.X, pos.Y)
	f.Phase = s.state.Phase
	f.PlayerDim = s.cmbMap.Get(s.player).Dimension
}

// resolveContacts applies the outcome of projectile and contact resolution
// to the global state.
func (s *Simulation) resolveContacts(f *systems.Frame, proj *systems.ProjectileReport, col *systems.CollisionReport) {
	for _, p := range col.Pickups {
		s.state.MainWeapon = p.MainWeapon
		s.state.SubWeapon = p.SubWeapon
		s.logger.Debug("weapon pickup", "main", p.MainWeapon, "sub", p.SubWeapon)
	}

	if col.Collected > 0 {
		s.dimension.Collect(&s.state.DimensionState, col.Collected)
		s.state.Collected += col.Collected
		s.state.Score += col.Collected * s.cfg.Scoring.CollectScore * s.state.Multiplier
		s.state.Spawn.Live = max(s.state.Spawn.Live-col.Collected, 0)
	}

	if (proj.PlayerHit || col.PlayerHit) && !s.state.Invulnerable {
		if tr := s.dimension.Hit(&s.state.DimensionState, f.Now); tr != systems.TransitionNone {
			f.Emit.Emit(systems.EventDeath)
			s.onTransition(f, tr)
		}
	}
}

// onTransition mirrors the phase onto the player and logs it.
func (s *Simulation) onTransition(f *systems.Frame, tr systems.Transition) {
	cmb := s.cmbMap.Get(s.player)
	cmb.Dimension = s.state.Phase
	s.refreshFrame(f)

	switch tr {
	case systems.TransitionGameOver:
		s.logger.Info("game over",
			"score", s.state.Score,
			"energy", s.state.Energy,
			"goal", s.state.Goal,
			"level", s.state.Level,
		)
	case systems.TransitionReturn:
		s.logger.Info("returned to physical",
			"goal", s.state.Goal,
			"multiplier", s.state.Multiplier,
			"level", s.state.Level,
		)
	default:
		s.logger.Info("dimension transition", "transition", tr.String(), "phase", s.state.PhaseName())
	}
}

// Resize changes the world bounds. Entities are clamped on the next tick.
func (s *Simulation) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: world bounds %vx%v must be positive", config.ErrInvalid, width, height)
	}
	s.bounds = systems.Bounds{Width: width, Height: height}
	s.collision.Resize(s.bounds)
	s.projectiles.Resize(s.bounds)
	return nil
}

// State returns a copy of the global state.
func (s *Simulation) State() SimulationState { return s.state }

// GameOver reports whether the terminal state was reached.
func (s *Simulation) GameOver() bool { return s.state.GameOver }

// Bounds returns the world bounds.
func (s *Simulation) Bounds() systems.Bounds { return s.bounds }

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Now returns the clock time of the last tick.
func (s *Simulation) Now() int64 { return s.lastNow }

// PoolStats returns projectile pool counters.
func (s *Simulation) PoolStats() pool.Stats { return s.projectiles.Pool().Stats() }

// ActiveProjectiles returns the number of projectiles in flight.
func (s *Simulation) ActiveProjectiles() int { return s.projectiles.Pool().Active() }

// Render returns the snapshot built at the end of the last tick. The
// renderer must treat it as read-only; it is rebuilt by the next Tick.
func (s *Simulation) Render() *RenderSnapshot { return &s.render }

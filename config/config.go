// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/spectral/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig      `yaml:"screen"`
	World      WorldConfig       `yaml:"world"`
	Simulation SimulationConfig  `yaml:"simulation"`
	Player     PlayerConfig      `yaml:"player"`
	Projectile ProjectileConfig  `yaml:"projectile"`
	Pool       PoolConfig        `yaml:"pool"`
	Dimension  DimensionConfig   `yaml:"dimension"`
	Spawn      SpawnConfig       `yaml:"spawn"`
	AI         AIConfig          `yaml:"ai"`
	Collision  CollisionConfig   `yaml:"collision"`
	Scoring    ScoringConfig     `yaml:"scoring"`
	Weapons    []WeaponConfig    `yaml:"weapons"`
	Archetypes []ArchetypeConfig `yaml:"archetypes"`
	Portals    []PlacementConfig `yaml:"portals"`
	Obstacles  []PlacementConfig `yaml:"obstacles"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Audio      AudioConfig       `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the hosts.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the playable rectangle.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// SimulationConfig holds loop parameters.
type SimulationConfig struct {
	TickMS   int64 `yaml:"tick_ms"`   // Fixed timestep length
	MaxSteps int   `yaml:"max_steps"` // Catch-up cap per driver update
	Seed     int64 `yaml:"seed"`      // 0 = time-based
}

// PlayerConfig holds player creation parameters.
type PlayerConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Speed      float64 `yaml:"speed"`
	Role       string  `yaml:"role"`
	MainWeapon string  `yaml:"main_weapon"`
	SubWeapon  string  `yaml:"sub_weapon"`
}

// ProjectileConfig holds projectile parameters shared by all weapons.
type ProjectileConfig struct {
	TTLMS  int64   `yaml:"ttl_ms"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Role   string  `yaml:"role"`
}

// PoolConfig holds object pool bounds.
type PoolConfig struct {
	Capacity int `yaml:"capacity"` // 0 = grow on demand
}

// DimensionConfig holds dimension state machine parameters.
type DimensionConfig struct {
	BetweenMS               []int64 `yaml:"between_ms"`        // BETWEEN1..3 durations
	SpectralLimitMS         int64   `yaml:"spectral_limit_ms"` // Time to collect energy
	InitialEnergyGoal       int     `yaml:"initial_energy_goal"`
	GoalRatio               float64 `yaml:"goal_ratio"` // Goal multiplier per successful return
	ReturnKnockbackRadius   float64 `yaml:"return_knockback_radius"`
	ReturnKnockbackStrength float64 `yaml:"return_knockback_strength"`
	CooldownJitterMS        int64   `yaml:"cooldown_jitter_ms"`
	AlphaStep               float64 `yaml:"alpha_step"`
}

// SpawnConfig holds spawn director parameters.
type SpawnConfig struct {
	InitialDelayMS   int64    `yaml:"initial_delay_ms"`
	BaseIntervalMS   int64    `yaml:"base_interval_ms"`
	JitterMS         int64    `yaml:"jitter_ms"`
	MinIntervalMS    int64    `yaml:"min_interval_ms"`
	IntervalDecay    float64  `yaml:"interval_decay"`    // Interval multiplier per difficulty level
	RampThreshold    int      `yaml:"ramp_threshold"`    // Live enemies below this spawn faster
	RampFactor       float64  `yaml:"ramp_factor"`       // Interval multiplier below the threshold
	WaveGrowthEvery  int      `yaml:"wave_growth_every"` // Levels per extra spawn in a wave
	MaxWave          int      `yaml:"max_wave"`
	PlacementTrials  int      `yaml:"placement_trials"`
	Clearance        float64  `yaml:"clearance"`
	Margin           float64  `yaml:"margin"`
	HazardChance     float64  `yaml:"hazard_chance"`
	HazardArchetype  string   `yaml:"hazard_archetype"`
	EnemyArchetypes  []string `yaml:"enemy_archetypes"`
	EnemyWeights     []int    `yaml:"enemy_weights"`
	UsePortals       bool     `yaml:"use_portals"`
	PortalMS         int64    `yaml:"portal_ms"`
	PortalRadius     float64  `yaml:"portal_radius"`
	PortalRole       string   `yaml:"portal_role"`
	BoxChance        float64  `yaml:"box_chance"` // Chance a kill drops a weapon box
	BoxArchetypes    []string `yaml:"box_archetypes"`
}

// AIConfig holds behavior tag tuning.
type AIConfig struct {
	ChaseSpeed      float64 `yaml:"chase_speed"`
	ChaseRetargetMS int64   `yaml:"chase_retarget_ms"` // 0 = retarget every tick
	AvoidRadius     float64 `yaml:"avoid_radius"`
	AvoidSpeed      float64 `yaml:"avoid_speed"`
	AvoidDistance   float64 `yaml:"avoid_distance"`
	WanderMin       float64 `yaml:"wander_min"`
	WanderMax       float64 `yaml:"wander_max"`
	WanderSpeed     float64 `yaml:"wander_speed"`
	WanderMS        int64   `yaml:"wander_ms"`
	ShootRange      float64 `yaml:"shoot_range"`
	ShootCooldownMS int64   `yaml:"shoot_cooldown_ms"`
	ShootWeapon     string  `yaml:"shoot_weapon"`
	KnockbackDecay  float64 `yaml:"knockback_decay"`
}

// CollisionConfig holds collision and separation parameters.
type CollisionConfig struct {
	SeparationStep  float64 `yaml:"separation_step"`
	GridCellSize    float64 `yaml:"grid_cell_size"`
	HitFlashMS      int64   `yaml:"hit_flash_ms"`
	StrikeKnockback float64 `yaml:"strike_knockback"`
	StrikeDamage    int     `yaml:"strike_damage"`
	DeathKnockback  float64 `yaml:"death_knockback"`
}

// ScoringConfig holds score rules.
type ScoringConfig struct {
	KillScore    int `yaml:"kill_score"`
	CollectScore int `yaml:"collect_score"`
}

// WeaponConfig describes one weapon.
type WeaponConfig struct {
	Name        string  `yaml:"name"`
	CooldownMS  int64   `yaml:"cooldown_ms"`
	BulletSpeed float64 `yaml:"bullet_speed"`
	Bullets     int     `yaml:"bullets"`
	Spread      float64 `yaml:"spread"`      // Total fan angle in radians
	SideOffset  float64 `yaml:"side_offset"` // Lateral muzzle offset for dual spray
	Damage      int     `yaml:"damage"`
}

// ArchetypeConfig is a template for non-player entities.
type ArchetypeConfig struct {
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind"` // basic_enemy, shooter_enemy, ghost_fire, box, obstacle
	Role            string  `yaml:"role"`
	PerDimension    bool    `yaml:"per_dimension"` // Role has Physical/Spectral variants
	Dimension       string  `yaml:"dimension"`     // physical or spectral
	Team            string  `yaml:"team"`          // player or enemy
	HP              int     `yaml:"hp"`
	Tags            string  `yaml:"tags"`
	Speed           float64 `yaml:"speed"`
	Strafe          float64 `yaml:"strafe"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	OnDeath         string  `yaml:"on_death"` // Archetype spawned as a hazard on death
	HatchInto       string  `yaml:"hatch_into"`
	HatchIntervalMS int64   `yaml:"hatch_interval_ms"`
	HatchThreshold  int     `yaml:"hatch_threshold"`
	MainWeapon      string  `yaml:"main_weapon"` // Boxes only
	SubWeapon       string  `yaml:"sub_weapon"`  // Boxes only
}

// PlacementConfig places an entity at a fixed point.
type PlacementConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Archetype string  `yaml:"archetype"`
	DelayMS   int64   `yaml:"delay_ms"` // Portals only (0 = spawn.portal_ms)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per window
}

// AudioConfig holds audio cue parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"` // beep effects.Volume base-2 exponent
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW         float64        // Effective world width
	WorldH         float64        // Effective world height
	ArchetypeIndex map[string]int // name -> index into Archetypes
	WeaponIndex    map[string]int // name -> index into Weapons
	ArchetypeTags  []traits.Tag   // parsed tags, parallel to Archetypes
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse overlays the given YAML document on the embedded defaults, validates
// the result and computes derived values.
func Parse(overlay []byte) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Unmarshal into same struct - only overwrites fields present in overlay
	if len(overlay) > 0 {
		if err := yaml.Unmarshal(overlay, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh re-validates the configuration and recomputes derived values
// after programmatic edits.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	if worldW <= 0 || worldH <= 0 {
		return fmt.Errorf("%w: world bounds %dx%d must be positive", ErrInvalid, worldW, worldH)
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	c.Derived.WeaponIndex = make(map[string]int, len(c.Weapons))
	for i, w := range c.Weapons {
		if _, dup := c.Derived.WeaponIndex[w.Name]; dup {
			return fmt.Errorf("%w: duplicate weapon %q", ErrInvalid, w.Name)
		}
		c.Derived.WeaponIndex[w.Name] = i
	}

	c.Derived.ArchetypeIndex = make(map[string]int, len(c.Archetypes))
	c.Derived.ArchetypeTags = make([]traits.Tag, len(c.Archetypes))
	for i, arch := range c.Archetypes {
		if _, dup := c.Derived.ArchetypeIndex[arch.Name]; dup {
			return fmt.Errorf("%w: duplicate archetype %q", ErrInvalid, arch.Name)
		}
		tags, err := traits.Parse(arch.Tags)
		if err != nil {
			return fmt.Errorf("%w: archetype %q: %w", ErrInvalid, arch.Name, err)
		}
		c.Derived.ArchetypeIndex[arch.Name] = i
		c.Derived.ArchetypeTags[i] = tags
	}

	return c.checkReferences()
}

// checkReferences verifies that every name used by the config resolves.
func (c *Config) checkReferences() error {
	weapon := func(ctx, name string, optional bool) error {
		if name == "" && optional {
			return nil
		}
		if _, ok := c.Derived.WeaponIndex[name]; !ok {
			return fmt.Errorf("%w: %s references unknown weapon %q", ErrInvalid, ctx, name)
		}
		return nil
	}
	archetype := func(ctx, name string, optional bool) error {
		if name == "" && optional {
			return nil
		}
		if _, ok := c.Derived.ArchetypeIndex[name]; !ok {
			return fmt.Errorf("%w: %s references unknown archetype %q", ErrInvalid, ctx, name)
		}
		return nil
	}

	checks := []error{
		weapon("player.main_weapon", c.Player.MainWeapon, false),
		weapon("player.sub_weapon", c.Player.SubWeapon, true),
		weapon("ai.shoot_weapon", c.AI.ShootWeapon, false),
		archetype("spawn.hazard_archetype", c.Spawn.HazardArchetype, false),
	}
	for _, name := range c.Spawn.EnemyArchetypes {
		checks = append(checks, archetype("spawn.enemy_archetypes", name, false))
	}
	for _, name := range c.Spawn.BoxArchetypes {
		checks = append(checks, archetype("spawn.box_archetypes", name, false))
	}
	for _, arch := range c.Archetypes {
		ctx := "archetype " + arch.Name
		checks = append(checks,
			archetype(ctx+".on_death", arch.OnDeath, true),
			archetype(ctx+".hatch_into", arch.HatchInto, true),
			weapon(ctx+".main_weapon", arch.MainWeapon, true),
			weapon(ctx+".sub_weapon", arch.SubWeapon, true),
		)
	}
	for _, p := range c.Portals {
		checks = append(checks, archetype("portals", p.Archetype, false))
	}
	for _, p := range c.Obstacles {
		checks = append(checks, archetype("obstacles", p.Archetype, false))
	}
	if len(c.Spawn.EnemyWeights) != 0 && len(c.Spawn.EnemyWeights) != len(c.Spawn.EnemyArchetypes) {
		checks = append(checks, fmt.Errorf("%w: spawn.enemy_weights has %d entries for %d archetypes",
			ErrInvalid, len(c.Spawn.EnemyWeights), len(c.Spawn.EnemyArchetypes)))
	}

	return errors.Join(checks...)
}

// Archetype returns the archetype with the given name.
func (c *Config) Archetype(name string) (*ArchetypeConfig, traits.Tag, bool) {
	i, ok := c.Derived.ArchetypeIndex[name]
	if !ok {
		return nil, traits.None, false
	}
	return &c.Archetypes[i], c.Derived.ArchetypeTags[i], true
}

// Weapon returns the weapon with the given name.
func (c *Config) Weapon(name string) (*WeaponConfig, bool) {
	i, ok := c.Derived.WeaponIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Weapons[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

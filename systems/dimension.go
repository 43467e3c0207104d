package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/traits"
)

// Transition reports what the dimension machine did in a tick.
type Transition uint8

const (
	TransitionNone     Transition = iota
	TransitionDied                // PHYSICAL -> BETWEEN1
	TransitionAdvance             // BETWEEN1 -> BETWEEN2 -> BETWEEN3
	TransitionSpectral            // BETWEEN3 -> SPECTRAL
	TransitionReturn              // SPECTRAL -> PHYSICAL with the goal met
	TransitionReprieve            // SPECTRAL -> PHYSICAL with the goal missed while invulnerable
	TransitionGameOver            // SPECTRAL -> GAME_OVER
	TransitionToggle              // Debug flip PHYSICAL <-> SPECTRAL
)

var transitionNames = [...]string{"none", "died", "advance", "spectral", "return", "reprieve", "game_over", "toggle"}

func (t Transition) String() string {
	if int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return "unknown"
}

// DimensionState is the global phase and energy economy.
type DimensionState struct {
	Phase      components.Dimension `json:"phase"`
	PhaseUntil int64                `json:"phase_until"` // Deadline of the current timed phase
	GameOver   bool                 `json:"game_over"`
	Energy     int                  `json:"energy"`
	Goal       int                  `json:"goal"`
	Multiplier int                  `json:"multiplier"`
	Level      int                  `json:"level"` // Successful returns so far
	Alpha      float64              `json:"alpha"` // Presentation only
}

// NewDimensionState returns the starting state.
func NewDimensionState(cfg *config.DimensionConfig) DimensionState {
	return DimensionState{
		Phase:      components.Physical,
		Goal:       cfg.InitialEnergyGoal,
		Multiplier: 1,
	}
}

// PhaseName returns the phase name, including the terminal GAME_OVER.
func (st DimensionState) PhaseName() string {
	if st.GameOver {
		return "GAME_OVER"
	}
	return st.Phase.String()
}

// Remaining returns the ms left in the current timed phase.
func (st DimensionState) Remaining(now int64) int64 {
	if st.Phase == components.Physical || st.GameOver {
		return 0
	}
	return max(st.PhaseUntil-now, 0)
}

// DimensionSystem runs the PHYSICAL/BETWEEN/SPECTRAL state machine.
type DimensionSystem struct {
	cfg    *config.DimensionConfig
	ai     *config.AIConfig
	filter *ecs.Filter5[components.Position, components.Motion, components.Combat, components.Behavior, components.Identity]
}

// NewDimensionSystem creates a new dimension system.
func NewDimensionSystem(w *ecs.World, cfg *config.DimensionConfig, ai *config.AIConfig) *DimensionSystem {
	return &DimensionSystem{
		cfg:    cfg,
		ai:     ai,
		filter: ecs.NewFilter5[components.Position, components.Motion, components.Combat, components.Behavior, components.Identity](w),
	}
}

// Hit handles a lethal collision. Only PHYSICAL reacts; it enters BETWEEN1.
func (s *DimensionSystem) Hit(st *DimensionState, now int64) Transition {
	if st.GameOver || st.Phase != components.Physical {
		return TransitionNone
	}
	st.Phase = components.Between1
	st.PhaseUntil = now + s.cfg.BetweenMS[0]
	return TransitionDied
}

// Collect adds energy for absorbed hazards. Energy only accrues in SPECTRAL.
func (s *DimensionSystem) Collect(st *DimensionState, n int) {
	if st.Phase == components.Spectral && !st.GameOver && n > 0 {
		st.Energy += n
	}
}

// Update advances timed phases. At most one transition happens per tick,
// so no sub-state is ever skipped.
func (s *DimensionSystem) Update(f *Frame, st *DimensionState) Transition {
	if st.GameOver || st.Phase == components.Physical || f.Now < st.PhaseUntil {
		return TransitionNone
	}

	switch st.Phase {
	case components.Between1, components.Between2:
		next := st.Phase + 1
		st.Phase = next
		st.PhaseUntil = f.Now + s.cfg.BetweenMS[next-components.Between1]
		return TransitionAdvance

	case components.Between3:
		s.enterSpectral(st, f.Now)
		return TransitionSpectral

	case components.Spectral:
		switch {
		case st.Energy >= st.Goal:
			s.returnToPhysical(f, st)
			st.Goal = int(math.Ceil(float64(st.Goal) * s.cfg.GoalRatio))
			st.Multiplier++
			st.Level++
			f.emit(EventReturn)
			return TransitionReturn
		case f.Invulnerable:
			s.returnToPhysical(f, st)
			return TransitionReprieve
		default:
			st.GameOver = true
			f.emit(EventGameOver)
			return TransitionGameOver
		}
	}
	return TransitionNone
}

// Toggle flips PHYSICAL and SPECTRAL instantly. Transition sub-states and
// GAME_OVER ignore it.
func (s *DimensionSystem) Toggle(f *Frame, st *DimensionState) Transition {
	if st.GameOver {
		return TransitionNone
	}
	switch st.Phase {
	case components.Physical:
		s.enterSpectral(st, f.Now)
	case components.Spectral:
		st.Phase = components.Physical
		st.Energy = 0
	default:
		return TransitionNone
	}
	return TransitionToggle
}

func (s *DimensionSystem) enterSpectral(st *DimensionState, now int64) {
	st.Phase = components.Spectral
	st.Energy = 0
	st.PhaseUntil = now + s.cfg.SpectralLimitMS
}

// returnToPhysical switches back, pushes nearby entities away from the player
// and jitters shooter cooldowns.
func (s *DimensionSystem) returnToPhysical(f *Frame, st *DimensionState) {
	st.Phase = components.Physical
	st.Energy = 0
	st.PhaseUntil = 0

	radius := s.cfg.ReturnKnockbackRadius
	query := s.filter.Query()
	for query.Next() {
		pos, mot, _, beh, id := query.Get()
		if id.Kind == components.KindPlayer || id.Kind == components.KindPortal {
			continue
		}

		if beh.Tags.Has(traits.Shooty) {
			span := s.cfg.CooldownJitterMS
			beh.NextShot = f.Now + s.ai.ShootCooldownMS/2 + jitterMS(f.Rand, span)
		}

		here := geom.V(pos.X, pos.Y)
		d := geom.Distance(f.PlayerPos, here)
		if radius <= 0 || d >= radius {
			continue
		}
		dir, ok := geom.Direction(f.PlayerPos, here)
		if !ok {
			dir = geom.RandomUnit(f.Rand)
		}
		Knock(mot, beh, dir, s.cfg.ReturnKnockbackStrength*(1-d/radius))
	}
}

// UpdateAlpha eases the presentation alpha toward the displayed layer.
// Transition sub-states assign it directly.
func (s *DimensionSystem) UpdateAlpha(st *DimensionState) {
	switch st.Phase {
	case components.Between1:
		st.Alpha = 0.25
		return
	case components.Between2:
		st.Alpha = 0.5
		return
	case components.Between3:
		st.Alpha = 0.75
		return
	}

	target := 0.0
	if st.Phase.Display() == components.Spectral {
		target = 1
	}
	step := s.cfg.AlphaStep
	if math.Abs(target-st.Alpha) <= step {
		st.Alpha = target
	} else {
		st.Alpha += geom.Sign(target-st.Alpha) * step
	}
}

package sim

import (
	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/systems"
)

// Input is the host's input snapshot for one tick.
type Input struct {
	Up, Down, Left, Right bool
	Fire                  bool
	Cheat1                bool // Rising edge toggles invulnerability
	Cheat2                bool // Rising edge flips PHYSICAL <-> SPECTRAL
	PointerX, PointerY    float64
}

// handleInput applies cheat edges and the player's velocity.
func (s *Simulation) handleInput(f *systems.Frame, in Input) {
	if in.Cheat1 && !s.prevCheat1 {
		s.state.Invulnerable = !s.state.Invulnerable
		f.Invulnerable = s.state.Invulnerable
		s.logger.Info("invulnerability toggled", "on", s.state.Invulnerable)
	}
	if in.Cheat2 && !s.prevCheat2 {
		if tr := s.dimension.Toggle(f, &s.state.DimensionState); tr != systems.TransitionNone {
			s.onTransition(f, tr)
		}
	}
	s.prevCheat1, s.prevCheat2 = in.Cheat1, in.Cheat2
	s.pointer = geom.V(in.PointerX, in.PointerY)

	mot := s.motMap.Get(s.player)
	speed := s.cfg.Player.Speed
	// Up wins over down and left over right.
	switch {
	case in.Up:
		mot.VY = -speed
	case in.Down:
		mot.VY = speed
	default:
		mot.VY = 0
	}
	switch {
	case in.Left:
		mot.VX = -speed
	case in.Right:
		mot.VX = speed
	default:
		mot.VX = 0
	}
}

// firePlayer shoots the equipped weapons toward the pointer.
func (s *Simulation) firePlayer(f *systems.Frame, in Input) {
	if !in.Fire {
		return
	}
	from := f.PlayerPos
	dir, ok := geom.Direction(from, s.pointer)
	if !ok {
		return
	}
	dim := s.cmbMap.Get(s.player).Dimension

	if w, ok := s.cfg.Weapon(s.state.MainWeapon); ok && f.Now >= s.state.NextMainShot {
		s.projectiles.Fire(f, from, dir, w, components.TeamPlayer, dim, s.gunSide(w))
		s.state.NextMainShot = f.Now + w.CooldownMS
	}
	if w, ok := s.cfg.Weapon(s.state.SubWeapon); ok && f.Now >= s.state.NextSubShot {
		s.projectiles.Fire(f, from, dir, w, components.TeamPlayer, dim, s.gunSide(w))
		s.state.NextSubShot = f.Now + w.CooldownMS
	}
}

// gunSide returns the muzzle side for a shot and alternates it for
// weapons with a side offset.
func (s *Simulation) gunSide(w *config.WeaponConfig) float64 {
	if w.SideOffset == 0 {
		return 0
	}
	side := -1.0
	if s.state.GunSide {
		side = 1
	}
	s.state.GunSide = !s.state.GunSide
	return side
}

// fireEnemyShots turns AI shot requests into projectiles.
func (s *Simulation) fireEnemyShots(f *systems.Frame, shots []systems.Shot) {
	if len(shots) == 0 {
		return
	}
	w, ok := s.cfg.Weapon(s.cfg.AI.ShootWeapon)
	if !ok {
		return
	}
	for _, shot := range shots {
		s.projectiles.Fire(f, shot.From, shot.Dir, w, shot.Team, shot.Dimension, 0)
	}
}

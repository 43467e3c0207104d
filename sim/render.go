package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
)

// ErrMissingAsset is reported when a drawable role has no asset.
var ErrMissingAsset = errors.New("missing asset")

// Assets maps logical sprite roles to opaque drawable handles.
type Assets interface {
	Lookup(role string) (any, bool)
}

// AssetTable is a map-backed Assets.
type AssetTable map[string]any

// Lookup implements Assets.
func (t AssetTable) Lookup(role string) (any, bool) {
	h, ok := t[role]
	return h, ok
}

// Drawable is one thing the renderer should draw.
type Drawable struct {
	ID          uint64               `json:"id"`
	Kind        components.Kind      `json:"kind"`
	Role        string               `json:"role"`
	Handle      any                  `json:"-"`
	Placeholder bool                 `json:"placeholder,omitempty"` // Role missing from the asset table
	X           float64              `json:"x"`
	Y           float64              `json:"y"`
	W           float64              `json:"w"`
	H           float64              `json:"h"`
	Rotation    float64              `json:"rotation,omitempty"`
	Dimension   components.Dimension `json:"dimension"`
	Faded       bool                 `json:"faded,omitempty"`    // Lives in the layer not on display
	Flash       bool                 `json:"flash,omitempty"`    // Hit flash active
	Progress    float64              `json:"progress,omitempty"` // Portals: remaining countdown fraction
	BobY        float64              `json:"bob_y,omitempty"`    // Ghost fire vertical bob
}

// HUD holds the scalars shown as text.
type HUD struct {
	Score        int    `json:"score"`
	Multiplier   int    `json:"multiplier"`
	Energy       int    `json:"energy"`
	EnergyGoal   int    `json:"energy_goal"`
	Level        int    `json:"level"`
	CountdownMS  int64  `json:"countdown_ms"`
	Phase        string `json:"phase"`
	Live         int    `json:"live"`
	MainWeapon   string `json:"main_weapon"`
	SubWeapon    string `json:"sub_weapon"`
	Invulnerable bool   `json:"invulnerable"`
}

// RenderSnapshot is the consistent post-tick view handed to renderers.
type RenderSnapshot struct {
	Tick           uint64               `json:"tick"`
	Now            int64                `json:"now"`
	Width          float64              `json:"width"`
	Height         float64              `json:"height"`
	Drawables      []Drawable           `json:"drawables"`
	HUD            HUD                  `json:"hud"`
	Display        components.Dimension `json:"display"`
	DimensionAlpha float64              `json:"dimension_alpha"`
	Player         geom.Vec             `json:"player"`
	Aim            geom.Vec             `json:"aim"` // Pointer minus player
	GameOver       bool                 `json:"game_over"`
	Events         []string             `json:"events"`
	AssetErrors    []error              `json:"-"`
}

// buildRender rebuilds the render snapshot in draw order: portals, then
// entities, then projectiles.
func (s *Simulation) buildRender(now int64) {
	r := &s.render
	r.Tick = s.state.Tick
	r.Now = now
	r.Width, r.Height = s.bounds.Width, s.bounds.Height
	r.Drawables = r.Drawables[:0]
	r.AssetErrors = r.AssetErrors[:0]
	r.Events = append(r.Events[:0], s.rec.events...)
	r.Display = s.state.Phase.Display()
	r.DimensionAlpha = s.state.Alpha
	r.GameOver = s.state.GameOver

	ppos := s.posMap.Get(s.player)
	r.Player = geom.V(ppos.X, ppos.Y)
	r.Aim = geom.V(s.pointer.X-ppos.X, s.pointer.Y-ppos.Y)

	r.HUD = HUD{
		Score:        s.state.Score,
		Multiplier:   s.state.Multiplier,
		Energy:       s.state.Energy,
		EnergyGoal:   s.state.Goal,
		Level:        s.state.Level,
		CountdownMS:  s.state.Remaining(now),
		Phase:        s.state.PhaseName(),
		Live:         s.state.Spawn.Live,
		MainWeapon:   s.state.MainWeapon,
		SubWeapon:    s.state.SubWeapon,
		Invulnerable: s.state.Invulnerable,
	}

	missing := map[string]bool{}
	for pass := 0; pass < 2; pass++ {
		query := s.filter.Query()
		for query.Next() {
			pos, body, _, cmb, _, life, id := query.Get()
			if (id.Kind == components.KindPortal) != (pass == 0) {
				continue
			}
			if life.Expired() && id.Kind != components.KindPlayer {
				continue
			}
			d := Drawable{
				ID:        id.ID,
				Kind:      id.Kind,
				Role:      s.role(id.Role, id.PerDimension),
				X:         pos.X,
				Y:         pos.Y,
				W:         body.W,
				H:         body.H,
				Dimension: cmb.Dimension,
				Faded:     cmb.Dimension.Display() != r.Display,
				Flash:     cmb.Flashing(now),
			}
			switch id.Kind {
			case components.KindPortal:
				if life.Span > 0 {
					d.Progress = float64(life.TTL) / float64(life.Span)
				}
			case components.KindGhostFire:
				d.BobY = 2 * math.Sin(float64(now)/500*2*math.Pi)
			case components.KindPlayer:
				d.Faded = false
				d.Rotation = math.Atan2(r.Aim.Y, r.Aim.X)
			}
			s.resolveAsset(&d, missing)
			r.Drawables = append(r.Drawables, d)
		}
	}

	s.projectiles.Pool().Each(func(_ int, b *components.Projectile) {
		d := Drawable{
			Kind:      components.KindProjectile,
			Role:      s.cfg.Projectile.Role,
			X:         b.X,
			Y:         b.Y,
			W:         s.cfg.Projectile.Width,
			H:         s.cfg.Projectile.Height,
			Rotation:  math.Atan2(b.VY, b.VX),
			Dimension: b.Dimension,
			Faded:     b.Dimension.Display() != r.Display,
		}
		s.resolveAsset(&d, missing)
		r.Drawables = append(r.Drawables, d)
	})
}

// role picks the per-dimension variant of a role for the displayed phase.
func (s *Simulation) role(base string, perDimension bool) string {
	if !perDimension {
		return base
	}
	return base + components.RoleSuffix(s.state.Phase)
}

// resolveAsset looks up the drawable's handle. A missing role yields a
// placeholder and one error per role; the tick carries on.
func (s *Simulation) resolveAsset(d *Drawable, missing map[string]bool) {
	if s.assets == nil {
		return
	}
	h, ok := s.assets.Lookup(d.Role)
	if ok {
		d.Handle = h
		return
	}
	d.Placeholder = true
	if !missing[d.Role] {
		missing[d.Role] = true
		s.render.AssetErrors = append(s.render.AssetErrors, fmt.Errorf("%w: role %q", ErrMissingAsset, d.Role))
	}
}

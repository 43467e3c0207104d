package sim

import (
	"fmt"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
)

// InspectField is one formatted inspector row.
type InspectField struct {
	Desc  components.FieldDescriptor
	Text  string
	Value float64 // Bar fill for IsBar fields
}

// Inspection is a read-only view of one entity.
type Inspection struct {
	ID     uint64
	X, Y   float64
	Fields []InspectField
}

// EntityAt returns the id of the topmost entity whose circle contains
// (x, y). Portals are ignored.
func (s *Simulation) EntityAt(x, y float64) (uint64, bool) {
	var found uint64
	ok := false
	p := geom.V(x, y)
	query := s.filter.Query()
	for query.Next() {
		pos, body, _, _, _, life, id := query.Get()
		if id.Kind == components.KindPortal || life.Expired() {
			continue
		}
		if geom.Distance(p, geom.V(pos.X, pos.Y)) <= body.Radius() {
			found, ok = id.ID, true
		}
	}
	return found, ok
}

// Inspect returns the inspector rows for an entity id.
func (s *Simulation) Inspect(entityID uint64) (Inspection, bool) {
	query := s.filter.Query()
	for query.Next() {
		pos, _, mot, cmb, beh, life, id := query.Get()
		if id.ID != entityID {
			continue
		}
		ins := Inspection{ID: id.ID, X: pos.X, Y: pos.Y}
		for _, d := range components.EntityFieldDescriptors() {
			f := InspectField{Desc: d}
			switch d.ID {
			case "kind":
				f.Text = id.Kind.String()
			case "archetype":
				f.Text = id.Archetype
			case "dimension":
				f.Text = cmb.Dimension.String()
			case "tags":
				f.Text = beh.Tags.String()
			case "hp":
				f.Value = float64(cmb.HP)
				f.Text = fmt.Sprintf(d.Format, cmb.HP)
			case "return_hp":
				f.Value = float64(life.ReturnHp)
				f.Text = fmt.Sprintf(d.Format, life.ReturnHp)
			case "speed":
				f.Value = mot.Speed
				f.Text = fmt.Sprintf(d.Format, mot.Speed)
			case "knock":
				k := geom.Distance(geom.V(0, 0), geom.V(mot.KnockX, mot.KnockY))
				f.Value = k
				f.Text = fmt.Sprintf(d.Format, k)
			case "target":
				if mot.HasTarget {
					f.Text = fmt.Sprintf("%.0f,%.0f", mot.TargetX, mot.TargetY)
				} else {
					f.Text = "-"
				}
			}
			ins.Fields = append(ins.Fields, f)
		}
		query.Close()
		return ins, true
	}
	return Inspection{}, false
}

// Package telemetry tracks run health: per-window event counts, tick
// timing, CSV output and an end-of-run summary.
package telemetry

import "github.com/pthm-cable/spectral/systems"

// eventCounts holds per-window counters keyed by simulation event.
type eventCounts struct {
	Shots      int
	Hits       int
	Explosions int
	Pickups    int
	Collected  int
	Deaths     int
	Respawns   int
	Portals    int
	Returns    int
	Spawns     int
	Rejected   int
	Dropped    int
	Unknown    int
}

// add counts one event. Names outside the known set land in Unknown so a
// renamed event shows up in the output instead of vanishing.
func (c *eventCounts) add(event string) {
	switch event {
	case systems.EventShoot:
		c.Shots++
	case systems.EventHit:
		c.Hits++
	case systems.EventExplosion:
		c.Explosions++
	case systems.EventPickup:
		c.Pickups++
	case systems.EventCollect:
		c.Collected++
	case systems.EventDeath:
		c.Deaths++
	case systems.EventRespawn:
		c.Respawns++
	case systems.EventPortal:
		c.Portals++
	case systems.EventReturn:
		c.Returns++
	case systems.EventSpawn:
		c.Spawns++
	case systems.EventRejected:
		c.Rejected++
	case systems.EventDropped:
		c.Dropped++
	case systems.EventGameOver:
		// Terminal; reported through the gauges.
	default:
		c.Unknown++
	}
}

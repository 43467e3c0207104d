package sim

import "github.com/pthm-cable/spectral/systems"

// SimulationState is the global mutable state of one run. It is owned by
// the Simulation and mutated only inside Tick.
type SimulationState struct {
	systems.DimensionState
	Spawn systems.SpawnState `json:"spawn"`

	Tick         uint64 `json:"tick"`
	Score        int    `json:"score"`
	Kills        int    `json:"kills"`
	Collected    int    `json:"collected"`
	MainWeapon   string `json:"main_weapon"`
	SubWeapon    string `json:"sub_weapon"`
	NextMainShot int64  `json:"next_main_shot"`
	NextSubShot  int64  `json:"next_sub_shot"`
	GunSide      bool   `json:"gun_side"` // true = right muzzle next
	Invulnerable bool   `json:"invulnerable"`
}

// Package spawner implements phases 6-10 of the cave generator (§4.E):
// placing the ship, exit hole/geyser, and every teki/treasure/cap/gate on
// the floor's spawn points, in the RNG-order the reference requires --
// including the "draw even on an empty candidate list" quirks that keep
// generation bit-exact with the reference on failure paths.
//
// Candidate-list bookkeeping follows the teacher's pkg/content
// (encounter.go/loot.go) pick-and-remove-from-a-weighted-table idiom: each
// step rebuilds its candidate slice from current floor state (so "removal"
// falls out of the emptiness check on the next rebuild) rather than
// maintaining a separate removal list.
package spawner

import (
	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
	"github.com/gocaveripper/cavegen/pkg/caverr"
	"github.com/gocaveripper/cavegen/pkg/rng"
	"github.com/gocaveripper/cavegen/pkg/scorer"
)

// Spawner owns the RNG, floor, and CaveInfo for one spawn pass, plus the
// running count of main objects placed across groups {0,1,5,8} (§8
// invariant 3).
type Spawner struct {
	rng  *rng.Rng
	info *caveinfo.CaveInfo
	floor *cavelayout.Floor

	shipUnitIdx      int
	placedMainObjects int
}

// Run executes phases 6-10 in order on an already-placed floor (the
// output of cavelayout.Generate).
func Run(r *rng.Rng, info *caveinfo.CaveInfo, floor *cavelayout.Floor) {
	s := &Spawner{rng: r, info: info, floor: floor}
	s.placeShip()
	scorer.Run(s.floor, s.shipUnitIdx)
	s.placeHoleAndGeyser()
	s.placeSeamTeki()
	s.placeGroup(caveinfo.GroupSpecial, 300, 150, 150)
	s.placeGroup(caveinfo.GroupHardTeki, 300, 200, 200)
	s.placeGroupEasy()
	scorer.ResetScores(s.floor)
	scorer.Run(s.floor, s.shipUnitIdx)
	s.placePlants()
	s.placeTreasures()
	s.placeGroundedCapTeki()
	s.placeFallingCapTeki()
	s.placeGates()
}

// placeShip picks one of the seed unit's group-7 spawn points uniformly at
// random and marks it Ship (§4.E step 1).
func (s *Spawner) placeShip() {
	var candidates []cavelayout.SpawnRef
	if len(s.floor.Units) > 0 {
		// The seed unit is placed first and unit deletions keep order, so
		// it is always Units[0].
		for spIdx, sp := range s.floor.Units[0].SpawnPoints {
			if sp.Def.Group == caveinfo.GroupShip {
				candidates = append(candidates, cavelayout.SpawnRef{UnitIdx: 0, SpawnIdx: spIdx})
			}
		}
	}
	if len(candidates) == 0 {
		panic(&caverr.LayoutGenerationError{Phase: "ship spawn", Err: errNoShipSpawn})
	}
	ref := candidates[s.rng.RandInt(uint32(len(candidates)))]
	s.shipUnitIdx = ref.UnitIdx
	sp := &s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
	sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnShip})
	s.floor.StartSpawn = &cavelayout.SpawnRef{UnitIdx: ref.UnitIdx, SpawnIdx: ref.SpawnIdx}
}

type spawnerErr string

func (e spawnerErr) Error() string { return string(e) }

var errNoShipSpawn = spawnerErr("no unit in the placed floor has a ship spawn point")

package cavelayout

import (
	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/caverr"
	"github.com/gocaveripper/cavegen/pkg/rng"
)

// numEnemyGroups sizes the per-group allocation arrays; group indices
// used here run 0..9 even though only {0,1,5,8} ever receive slots.
const numEnemyGroups = 10

// Builder owns the single Rng instance for one floor generation plus the
// in-progress queues and placed units, per §9's design note: every
// function that touches RNG receives the builder, never a bare Rng, so
// the call order stays auditable.
type Builder struct {
	rng      *rng.Rng
	sublevel string

	capQueue      []caveinfo.CaveUnit
	roomQueue     []caveinfo.CaveUnit
	corridorQueue []caveinfo.CaveUnit

	allocated          [numEnemyGroups]uint32
	fillerWeightSum    [numEnemyGroups]uint32
	numSlotsUsedForMin uint32
	minTeki0           uint32

	floor *Floor

	markedOpenDoorsAsCaps bool
}

// Generate runs phases 1-5 and returns the resulting Floor. It panics
// with a *caverr.LayoutGenerationError wrapped value if a post-pass
// simplification deletes a unit it cannot replace -- this mirrors the
// reference's own panic-on-invariant-violation behavior (§4.C, §7): such
// a condition means the CaveInfo or this port is broken, not a
// recoverable runtime state.
func Generate(seed uint32, info *caveinfo.CaveInfo, sublevel string) *Floor {
	floor, _ := GenerateWithRNG(seed, info, sublevel)
	return floor
}

// GenerateWithRNG runs the same phases 1-5 as Generate, but also returns
// the Rng in the state phase 5 left it in. The full pipeline (phases
// 1-10, pkg/spawner onward) is one continuous RNG sequence (§4
// "Ordering guarantees: ... every RNG draw is totally ordered by the
// phase sequence"), so pkg/generator needs the placer's Rng handed
// onward rather than re-seeding a fresh one for the spawn phases.
func GenerateWithRNG(seed uint32, info *caveinfo.CaveInfo, sublevel string) (*Floor, *rng.Rng) {
	b := &Builder{
		rng:      rng.New(seed),
		sublevel: sublevel,
		floor: &Floor{
			StartingSeed: seed,
			Sublevel:     sublevel,
		},
	}
	b.phase1InitialQueues(info)
	b.phase2EnemySlots(info)
	b.phase3SeedRoom()
	b.phase4GrowthLoop(info)
	b.phase5PostPass(info)
	return b.floor, b.rng
}

// phase1InitialQueues partitions the unit library by room type and
// shuffles each queue with rand_backs, in the order caps, rooms,
// corridors (§4.C phase 1). Units are assumed already sorted by
// (width*height, num_doors) via caveinfo.SortCaveUnits at load time.
func (b *Builder) phase1InitialQueues(info *caveinfo.CaveInfo) {
	for _, u := range info.Units {
		switch u.RoomType {
		case caveinfo.RoomTypeDeadEnd:
			b.capQueue = append(b.capQueue, u)
		case caveinfo.RoomTypeRoom:
			b.roomQueue = append(b.roomQueue, u)
		case caveinfo.RoomTypeHallway:
			b.corridorQueue = append(b.corridorQueue, u)
		}
	}
	rng.RandBacks(b.rng, b.capQueue)
	rng.RandBacks(b.rng, b.roomQueue)
	rng.RandBacks(b.rng, b.corridorQueue)
}

// phase2EnemySlots allocates main-object slots across enemy groups
// {0,1,5,8} (§4.C phase 2).
func (b *Builder) phase2EnemySlots(info *caveinfo.CaveInfo) {
	groups := []caveinfo.SpawnGroup{caveinfo.GroupEasyTeki, caveinfo.GroupHardTeki, caveinfo.GroupSeamTeki, caveinfo.GroupSpecial}
	for _, g := range groups {
		for _, t := range info.TekiGroup(g) {
			b.allocated[g] += uint32(t.MinimumAmount)
			b.fillerWeightSum[g] += uint32(t.FillerWeight)
			if t.MinimumAmount > 0 {
				b.numSlotsUsedForMin++
			}
		}
	}
	b.minTeki0 = b.allocated[caveinfo.GroupEasyTeki]

	remaining := uint32(info.MaxMainObjects)
	if remaining > b.numSlotsUsedForMin {
		remaining -= b.numSlotsUsedForMin
	} else {
		remaining = 0
	}
	for i := uint32(0); i < remaining; i++ {
		weights := make([]uint32, numEnemyGroups)
		copy(weights[:], b.fillerWeightSum[:])
		idx, ok := b.rng.RandIndexWeight(weights)
		if !ok {
			continue
		}
		b.allocated[idx]++
	}
	b.floor.Allocated = b.allocated
	b.floor.MinTeki0 = b.minTeki0
}

// phase3SeedRoom places the first room with a group-7 (ship) spawn point
// at grid origin (§4.C phase 3).
func (b *Builder) phase3SeedRoom() {
	for i, u := range b.roomQueue {
		if !hasShipSpawn(u) {
			continue
		}
		placed := PlacedUnit{Unit: u, X: 0, Z: 0}
		unitIdx := b.addUnit(placed)
		b.roomQueue = append(b.roomQueue[:i], b.roomQueue[i+1:]...)
		_ = unitIdx
		return
	}
	panic(&caverr.LayoutGenerationError{Phase: "seed room", Err: errNoSeedRoom})
}

var errNoSeedRoom = layoutErr("no room in the library has a ship spawn point")

type layoutErr string

func (e layoutErr) Error() string { return string(e) }

func hasShipSpawn(u caveinfo.CaveUnit) bool {
	for _, sp := range u.SpawnPoints {
		if sp.Group == caveinfo.GroupShip {
			return true
		}
	}
	return false
}

// addUnit appends unit to the floor's arena, creating its doors, and
// returns the new unit's index.
func (b *Builder) addUnit(unit PlacedUnit) int {
	unitIdx := len(b.floor.Units)
	unit.DoorIdx = make([]int, len(unit.Unit.Doors))
	unit.SpawnPoints = instantiateSpawnPoints(unit, unitIdx)
	b.floor.Units = append(b.floor.Units, unit)

	for i, dd := range unit.Unit.Doors {
		x, z := doorCell(unit, dd)
		doorIdx := len(b.floor.Doors)
		b.floor.Doors = append(b.floor.Doors, PlacedDoor{
			ParentUnit:   unitIdx,
			DoorDefIdx:   i,
			X:            x,
			Z:            z,
			Direction:    dd.Direction,
			AdjacentDoor: -1,
		})
		b.floor.Units[unitIdx].DoorIdx[i] = doorIdx
	}
	b.attachLiningUpDoors(unitIdx)
	return unitIdx
}

// doorCell returns a door's grid position on its unit's boundary edge:
// North and West doors take the unit's own first row/column coordinate,
// East and South doors the coordinate one past its last column/row, so
// two facing doors of neighbouring units share one position (frontCell
// gives the cell in front of a door).
func doorCell(u PlacedUnit, d caveinfo.DoorDef) (x, z int) {
	switch d.Direction {
	case caveinfo.DirNorth:
		return u.X + d.SideLateralOffset, u.Z
	case caveinfo.DirEast:
		return u.X + u.Unit.Width, u.Z + d.SideLateralOffset
	case caveinfo.DirSouth:
		return u.X + d.SideLateralOffset, u.Z + u.Unit.Height
	case caveinfo.DirWest:
		return u.X, u.Z + d.SideLateralOffset
	}
	panic("invalid door direction")
}

// instantiateSpawnPoints converts a unit's local spawn-point templates to
// world coordinates once the unit has a grid position (§6 coordinate
// conventions).
func instantiateSpawnPoints(u PlacedUnit, unitIdx int) []PlacedSpawnPoint {
	out := make([]PlacedSpawnPoint, len(u.Unit.SpawnPoints))
	for i, sp := range u.Unit.SpawnPoints {
		out[i] = PlacedSpawnPoint{
			Def:        sp,
			ParentUnit: unitIdx,
			WorldX:     sp.X + float64(u.X)*gridCellUnits,
			WorldY:     sp.Y,
			WorldZ:     sp.Z + float64(u.Z)*gridCellUnits,
		}
	}
	return out
}

// attachLiningUpDoors finds, for every door of the unit just placed,
// any existing open door at the same position facing the opposite
// direction, and links them bidirectionally (§4.C "after each successful
// placement", step 1).
func (b *Builder) attachLiningUpDoors(unitIdx int) {
	unit := &b.floor.Units[unitIdx]
	for _, newDoorIdx := range unit.DoorIdx {
		nd := &b.floor.Doors[newDoorIdx]
		for i := range b.floor.Doors {
			if i == newDoorIdx {
				continue
			}
			cand := &b.floor.Doors[i]
			if cand.AdjacentDoor != -1 || cand.ParentUnit == unitIdx {
				continue
			}
			if cand.X == nd.X && cand.Z == nd.Z && cand.Direction == nd.Direction.Opposite() {
				cand.AdjacentDoor = newDoorIdx
				nd.AdjacentDoor = i
				break
			}
		}
	}
}

package spawner

import (
	"strings"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// placeGates places up to info.MaxGates gates on door seams, picking a
// gate entry by SpawnDistributionWeight and a seam through a four-stage
// fallback: in front of a full item alcove, then the lowest-scoring empty
// Room seam, then a door-score-weighted Room seam (80% of the time),
// finally any remaining empty seam weighted by the parent unit's door
// count (§4.E step 13).
func (s *Spawner) placeGates() {
	for i := 0; i < s.info.MaxGates; i++ {
		weights := make([]uint32, len(s.info.GateInfo))
		for j, g := range s.info.GateInfo {
			weights[j] = uint32(g.SpawnDistributionWeight)
		}
		gateIdx, ok := s.rng.RandIndexWeight(weights)
		if !ok {
			break
		}
		gate := &s.info.GateInfo[gateIdx]

		doorIdx, ok := s.pickGateSeam()
		if !ok {
			continue
		}
		obj := cavelayout.SpawnObject{Kind: cavelayout.SpawnGate, Gate: gate}
		s.floor.Doors[doorIdx].SeamSpawn = &obj
		if adj := s.floor.Doors[doorIdx].AdjacentDoor; adj != -1 {
			s.floor.Doors[adj].SeamSpawn = &obj
		}
	}
}

func isCandypop(t *caveinfo.TekiInfo) bool {
	return t != nil && strings.Contains(strings.ToLower(t.InternalName), "candypop")
}

// alcoveIsFull reports whether an item alcove's group-9 spawn point holds
// an Item/Hole/Geyser, or a grounded cap-teki that isn't a candypop.
func alcoveIsFull(sp *cavelayout.PlacedSpawnPoint) bool {
	for _, obj := range sp.Contains {
		switch obj.Kind {
		case cavelayout.SpawnItem, cavelayout.SpawnHole, cavelayout.SpawnGeyser:
			return true
		case cavelayout.SpawnCapTeki:
			if !isCandypop(obj.Teki) {
				return true
			}
		}
	}
	return false
}

func (s *Spawner) pickGateSeam() (int, bool) {
	// Stage 1: in front of a full item alcove.
	var alcoveDoors []int
	for _, ref := range s.alcoveSpawnRefs() {
		sp := &s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
		if !alcoveIsFull(sp) {
			continue
		}
		for _, di := range s.floor.Units[ref.UnitIdx].DoorIdx {
			if s.floor.Doors[di].SeamSpawn == nil {
				alcoveDoors = append(alcoveDoors, di)
			}
		}
	}
	if len(alcoveDoors) > 0 {
		idx := s.rng.RandInt(uint32(len(alcoveDoors)))
		return alcoveDoors[idx], true
	}

	// Stage 2: minimum door_score empty seam among Rooms not holding the
	// ship.
	var roomDoors []int
	for unitIdx := range s.floor.Units {
		u := &s.floor.Units[unitIdx]
		if u.Unit.RoomType != caveinfo.RoomTypeRoom || unitIdx == s.shipUnitIdx {
			continue
		}
		for _, di := range u.DoorIdx {
			if s.floor.Doors[di].SeamSpawn == nil {
				roomDoors = append(roomDoors, di)
			}
		}
	}
	if len(roomDoors) > 0 {
		best := roomDoors[0]
		for _, di := range roomDoors[1:] {
			if s.floor.Doors[di].DoorScore < s.floor.Doors[best].DoorScore {
				best = di
			}
		}
		return best, true
	}

	// Stage 3: weighted pick among empty Room seams, taken 80% of the
	// time. The threshold roll always happens even when roomDoors is
	// empty, to stay in RNG lockstep with the reference.
	takeWeighted := s.rng.RandF32() < 0.8
	if takeWeighted && len(roomDoors) > 0 {
		maxScore := roomDoors[0]
		for _, di := range roomDoors[1:] {
			if s.floor.Doors[di].DoorScore > s.floor.Doors[maxScore].DoorScore {
				maxScore = di
			}
		}
		top := s.floor.Doors[maxScore].DoorScore
		weights := make([]uint32, len(roomDoors))
		for i, di := range roomDoors {
			w := top + 1 - s.floor.Doors[di].DoorScore
			if w > 0 {
				weights[i] = uint32(w)
			}
		}
		if idx, ok := s.rng.RandIndexWeight(weights); ok {
			return roomDoors[idx], true
		}
	}

	// Stage 4: any remaining empty seam, weighted by the parent unit's
	// door count (Hallway: 10/doors, else: doors.len()).
	var allDoors []int
	var weights []uint32
	for unitIdx := range s.floor.Units {
		u := &s.floor.Units[unitIdx]
		numDoors := len(u.DoorIdx)
		if numDoors == 0 {
			continue
		}
		var w uint32
		if u.Unit.RoomType == caveinfo.RoomTypeHallway {
			w = uint32(10 / numDoors)
		} else {
			w = uint32(numDoors)
		}
		for _, di := range u.DoorIdx {
			if s.floor.Doors[di].SeamSpawn == nil {
				allDoors = append(allDoors, di)
				weights = append(weights, w)
			}
		}
	}
	idx, ok := s.rng.RandIndexWeight(weights)
	if !ok {
		return 0, false
	}
	return allDoors[idx], true
}

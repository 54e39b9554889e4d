package cavelayout

import (
	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/caverr"
)

var (
	errNoReplacementHallway = layoutErr("no 1x1 north-south corridor unit available to replace a capped dead end")
	errNoMergeHallway       = layoutErr("no 2x1 north-south corridor unit available to merge an adjacent pair")
)

// phase5PostPass runs the two post-placement simplifications and the final
// recentering (§4.C phase 5).
func (b *Builder) phase5PostPass(info *caveinfo.CaveInfo) {
	b.replaceCapsWithHallways(info)
	b.mergeHallwayPairs(info)
	b.recenterFloor()
}

// replaceCapsWithHallways collapses every (dead end, straight 1x1 hallway)
// pair -- a capped dead end sitting directly behind a single straight
// corridor tile -- into one freshly drawn 1x1 north-south corridor unit
// (§4.C phase 5, cap-to-hallway simplification).
func (b *Builder) replaceCapsWithHallways(info *caveinfo.CaveInfo) {
	for pass := 0; pass < len(b.floor.Units)+1; pass++ {
		replaced := false
		for i := range b.floor.Units {
			u := b.floor.Units[i]
			if u.Unit.RoomType != caveinfo.RoomTypeDeadEnd || u.Unit.NumDoors != 1 {
				continue
			}
			doorIdx := u.DoorIdx[0]
			adjIdx := b.floor.Doors[doorIdx].AdjacentDoor
			if adjIdx == -1 {
				continue
			}
			hallwayIdx := b.floor.Doors[adjIdx].ParentUnit
			hallway := b.floor.Units[hallwayIdx]
			if !isStraightNS1x1(hallway.Unit) {
				continue
			}

			var farDoorIdx = -1
			for _, di := range hallway.DoorIdx {
				if di != adjIdx {
					farDoorIdx = di
				}
			}
			if farDoorIdx == -1 {
				continue
			}
			anchorDoorIdx := b.floor.Doors[farDoorIdx].AdjacentDoor
			if anchorDoorIdx == -1 {
				// Both ends of the hallway are unconnected; nothing to
				// re-anchor against, leave it alone.
				continue
			}

			candidates := straightNS1x1Candidates(b.corridorQueue)
			if len(candidates) == 0 {
				panic(&caverr.LayoutGenerationError{Phase: "cap-to-hallway", Err: errNoReplacementHallway})
			}
			chosen := candidates[b.rng.RandInt(uint32(len(candidates)))]

			remappedAnchor := b.deleteUnitsAndTrackDoor([]int{i, hallwayIdx}, anchorDoorIdx)
			if remappedAnchor == -1 {
				panic(&caverr.LayoutGenerationError{Phase: "cap-to-hallway", Err: errNoReplacementHallway})
			}
			placedAny := false
			for doorIndex := range chosen.Doors {
				if _, ok := b.tryPlaceUnitAt(remappedAnchor, chosen, doorIndex); ok {
					placedAny = true
					break
				}
			}
			if !placedAny {
				panic(&caverr.LayoutGenerationError{Phase: "cap-to-hallway", Err: errNoReplacementHallway})
			}
			replaced = true
			break
		}
		if !replaced {
			return
		}
	}
}

// mergeHallwayPairs collapses every adjacent pair of straight 1x1
// north-south corridor tiles into a single 2-cell-long corridor unit
// (§4.C phase 5, 1x1-pair-to-2x1 merge).
func (b *Builder) mergeHallwayPairs(info *caveinfo.CaveInfo) {
	for pass := 0; pass < len(b.floor.Units)+1; pass++ {
		merged := false
		for i := range b.floor.Units {
			u := b.floor.Units[i]
			if !isStraightNS1x1(u.Unit) {
				continue
			}
			for _, doorIdx := range u.DoorIdx {
				d := b.floor.Doors[doorIdx]
				if d.Direction != caveinfo.DirNorth && d.Direction != caveinfo.DirSouth {
					continue
				}
				adjIdx := d.AdjacentDoor
				if adjIdx == -1 {
					continue
				}
				otherIdx := b.floor.Doors[adjIdx].ParentUnit
				if otherIdx == i {
					continue
				}
				other := b.floor.Units[otherIdx]
				if !isStraightNS1x1(other.Unit) {
					continue
				}

				candidates := longNS1x2Candidates(b.corridorQueue)
				if len(candidates) == 0 {
					panic(&caverr.LayoutGenerationError{Phase: "hallway merge", Err: errNoMergeHallway})
				}
				chosen := candidates[b.rng.RandInt(uint32(len(candidates)))]

				topX, topZ := u.X, u.Z
				if other.Z < u.Z {
					topX, topZ = other.X, other.Z
				}
				b.deleteUnitsAndTrackDoor([]int{i, otherIdx}, -1)
				b.addUnit(PlacedUnit{Unit: chosen, X: topX, Z: topZ})
				merged = true
				break
			}
			if merged {
				break
			}
		}
		if !merged {
			return
		}
	}
}

func isStraightNS1x1(u caveinfo.CaveUnit) bool {
	if u.RoomType != caveinfo.RoomTypeHallway || u.Width != 1 || u.Height != 1 || u.NumDoors != 2 {
		return false
	}
	return doorsNSInOrder(u)
}

// doorsNSInOrder reports whether u's door slots are, in order,
// doors[0].dir==North and doors[1].dir==South -- the reference's literal
// slot check, not an unordered "has both" test. Rotation pre-expansion's
// r=2 copy swaps a N-S hallway's door directions in place while keeping
// the same slot indices, so an unordered check would also match that
// r=2 duplicate.
func doorsNSInOrder(u caveinfo.CaveUnit) bool {
	return len(u.Doors) == 2 &&
		u.Doors[0].Direction == caveinfo.DirNorth &&
		u.Doors[1].Direction == caveinfo.DirSouth
}

func straightNS1x1Candidates(queue []caveinfo.CaveUnit) []caveinfo.CaveUnit {
	var out []caveinfo.CaveUnit
	for _, u := range queue {
		if isStraightNS1x1(u) {
			out = append(out, u)
		}
	}
	return out
}

func longNS1x2Candidates(queue []caveinfo.CaveUnit) []caveinfo.CaveUnit {
	var out []caveinfo.CaveUnit
	for _, u := range queue {
		if u.RoomType == caveinfo.RoomTypeHallway && u.Width == 1 && u.Height == 2 && u.NumDoors == 2 && doorsNSInOrder(u) {
			out = append(out, u)
		}
	}
	return out
}

// deleteUnitsAndTrackDoor removes the units at unitIndices (and every door
// belonging to them) from the arena in a single remapping pass, fixing up
// every PlacedDoor.ParentUnit/AdjacentDoor, PlacedUnit.DoorIdx,
// PlacedSpawnPoint.ParentUnit, and Floor start/hole/geyser spawn reference
// that pointed at a surviving unit or door. It returns trackDoorIdx's new
// index after the remap, or -1 if trackDoorIdx itself was removed or was
// already -1.
func (b *Builder) deleteUnitsAndTrackDoor(unitIndices []int, trackDoorIdx int) int {
	removeUnit := make(map[int]bool, len(unitIndices))
	for _, i := range unitIndices {
		removeUnit[i] = true
	}
	removeDoor := map[int]bool{}
	for idx := range removeUnit {
		for _, di := range b.floor.Units[idx].DoorIdx {
			removeDoor[di] = true
		}
	}

	for i := range b.floor.Doors {
		if removeDoor[b.floor.Doors[i].AdjacentDoor] {
			b.floor.Doors[i].AdjacentDoor = -1
		}
	}

	doorRemap := make(map[int]int, len(b.floor.Doors))
	newDoors := make([]PlacedDoor, 0, len(b.floor.Doors))
	for i, d := range b.floor.Doors {
		if removeDoor[i] {
			continue
		}
		doorRemap[i] = len(newDoors)
		newDoors = append(newDoors, d)
	}

	unitRemap := make(map[int]int, len(b.floor.Units))
	newUnits := make([]PlacedUnit, 0, len(b.floor.Units))
	for i, u := range b.floor.Units {
		if removeUnit[i] {
			continue
		}
		unitRemap[i] = len(newUnits)
		newUnits = append(newUnits, u)
	}

	for i := range newDoors {
		newDoors[i].ParentUnit = unitRemap[newDoors[i].ParentUnit]
		if newDoors[i].AdjacentDoor != -1 {
			newDoors[i].AdjacentDoor = doorRemap[newDoors[i].AdjacentDoor]
		}
	}
	for i := range newUnits {
		for j, di := range newUnits[i].DoorIdx {
			newUnits[i].DoorIdx[j] = doorRemap[di]
		}
		for j := range newUnits[i].SpawnPoints {
			newUnits[i].SpawnPoints[j].ParentUnit = unitRemap[newUnits[i].SpawnPoints[j].ParentUnit]
		}
	}
	remapRef := func(r *SpawnRef) {
		if r == nil {
			return
		}
		if nu, ok := unitRemap[r.UnitIdx]; ok {
			r.UnitIdx = nu
		}
	}
	remapRef(b.floor.StartSpawn)
	remapRef(b.floor.HoleSpawn)
	remapRef(b.floor.GeyserSpawn)

	b.floor.Units = newUnits
	b.floor.Doors = newDoors

	if trackDoorIdx == -1 {
		return -1
	}
	if nd, ok := doorRemap[trackDoorIdx]; ok {
		return nd
	}
	return -1
}

// recenterFloor shifts every placed unit, door, and spawn point so the
// floor's bounding box starts at (0,0) (§4.C phase 5 / §8 invariant 6).
func (b *Builder) recenterFloor() {
	minX, minZ, _, _ := b.floor.Bounds()
	if minX == 0 && minZ == 0 {
		return
	}
	for i := range b.floor.Units {
		b.floor.Units[i].X -= minX
		b.floor.Units[i].Z -= minZ
		for j := range b.floor.Units[i].SpawnPoints {
			b.floor.Units[i].SpawnPoints[j].WorldX -= float64(minX) * gridCellUnits
			b.floor.Units[i].SpawnPoints[j].WorldZ -= float64(minZ) * gridCellUnits
		}
	}
	for i := range b.floor.Doors {
		b.floor.Doors[i].X -= minX
		b.floor.Doors[i].Z -= minZ
	}
}

package cavelayout

import (
	"math"
	"sort"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/rng"
)

// maxGrowthIterations bounds the growth loop (§4.C phase 4); this is the
// generator's only timeout mechanism (§5: "not by clocks").
const maxGrowthIterations = 10000

type roomTypeKind int

const (
	rtRoom roomTypeKind = iota
	rtHallway
	rtDeadEnd
)

// phase4GrowthLoop grows the floor door-by-door until num_rooms rooms are
// placed and every remaining open door is either capped or closed.
func (b *Builder) phase4GrowthLoop(info *caveinfo.CaveInfo) {
	for iter := 0; iter < maxGrowthIterations; iter++ {
		openDoors := b.floor.OpenDoors()
		if len(openDoors) == 0 {
			return
		}

		var placed bool
		if b.placedRoomCount() < info.NumRooms {
			placed = b.growRoomOrCorridor(info, openDoors)
		} else {
			placed = b.growCapOrHallwayStage(info, openDoors)
		}

		if !placed {
			placed = b.capFillFallback(info)
		}
		if !placed {
			// No progress possible this iteration; reevaluate open doors
			// (some branches above may have marked caps without placing).
			if len(b.floor.OpenDoors()) == len(openDoors) {
				// Nothing changed: avoid spinning forever on a dead state.
				return
			}
		}
	}
}

func (b *Builder) placedRoomCount() int {
	n := 0
	for _, u := range b.floor.Units {
		if u.Unit.RoomType == caveinfo.RoomTypeRoom {
			n++
		}
	}
	return n
}

// growRoomOrCorridor implements phase 4's "placed-room count < num_rooms"
// branch.
func (b *Builder) growRoomOrCorridor(info *caveinfo.CaveInfo, openDoors []int) bool {
	destDoorIdx := openDoors[b.rng.RandInt(uint32(len(openDoors)))]
	destDoor := b.floor.Doors[destDoorIdx]
	parent := &b.floor.Units[destDoor.ParentUnit]

	corridorProb := info.CorridorProbability
	if b.floor.mapHasDiameter36 {
		corridorProb = 0
	} else if parent.Unit.RoomType == caveinfo.RoomTypeRoom {
		corridorProb *= 2
	}

	var priority [3]roomTypeKind
	if b.rng.RandF32() < float32(corridorProb) {
		priority = [3]roomTypeKind{rtHallway, rtRoom, rtDeadEnd}
	} else {
		priority = [3]roomTypeKind{rtRoom, rtHallway, rtDeadEnd}
	}

	for _, kind := range priority {
		queue := b.queueFor(kind)
		if kind == rtHallway {
			b.shuffleCorridorPriority(info)
			queue = b.corridorQueue
		}
		for _, unit := range queue {
			doorPriority := make([]int, unit.NumDoors)
			for i := range doorPriority {
				doorPriority[i] = i
			}
			rng.RandSwaps(b.rng, doorPriority)
			for _, doorIdx := range doorPriority {
				if _, ok := b.tryPlaceUnitAt(destDoorIdx, unit, doorIdx); ok {
					b.afterPlacement(info)
					return true
				}
			}
		}
	}
	return false
}

func (b *Builder) queueFor(kind roomTypeKind) []caveinfo.CaveUnit {
	switch kind {
	case rtRoom:
		return b.roomQueue
	case rtHallway:
		return b.corridorQueue
	case rtDeadEnd:
		return b.capQueue
	}
	return nil
}

// shuffleCorridorPriority reorders the corridor queue by door count,
// prioritizing high-door-count units when few doors are open, low-door-
// count units when many are open, and a random order in between (§4.C
// phase 4 / shuffle_corridor_priority).
func (b *Builder) shuffleCorridorPriority(info *caveinfo.CaveInfo) {
	maxDoors := info.MaxNumDoorsSingleUnit()
	numOpen := len(b.floor.OpenDoors())

	priority := make([]int, 0, maxDoors)
	switch {
	case numOpen < 4:
		for i := 0; i < maxDoors; i++ {
			priority = append(priority, maxDoors-i)
		}
	case numOpen >= 10:
		for i := 0; i < maxDoors; i++ {
			priority = append(priority, i+1)
		}
	default:
		for i := 0; i < maxDoors; i++ {
			priority = append(priority, i+1)
		}
		rng.RandSwaps(b.rng, priority)
	}

	newQueue := make([]caveinfo.CaveUnit, 0, len(b.corridorQueue))
	remaining := append([]caveinfo.CaveUnit(nil), b.corridorQueue...)
	for _, numDoors := range priority {
		i := 0
		for i < len(remaining) {
			if remaining[i].NumDoors == numDoors {
				newQueue = append(newQueue, remaining[i])
				remaining = append(remaining[:i], remaining[i+1:]...)
			} else {
				i++
			}
		}
	}
	newQueue = append(newQueue, remaining...)
	b.corridorQueue = newQueue
}

// growCapOrHallwayStage implements phase 4's "else" branch: cap marking
// (once) followed by snaking-hallway placement between open doors.
func (b *Builder) growCapOrHallwayStage(info *caveinfo.CaveInfo, openDoors []int) bool {
	if !b.markedOpenDoorsAsCaps {
		b.markRandomOpenDoorsAsCaps(info, openDoors)
		b.markedOpenDoorsAsCaps = true
	}

	var hallwayQueue []caveinfo.CaveUnit
	for _, u := range b.corridorQueue {
		if u.Width == 1 && u.Height == 1 && u.NumDoors == 2 {
			hallwayQueue = append(hallwayQueue, u)
		}
	}
	rng.RandSwaps(b.rng, hallwayQueue)

	for _, openDoorIdx := range b.floor.OpenDoors() {
		openDoor := b.floor.Doors[openDoorIdx]
		if openDoor.MarkedAsCap {
			continue
		}

		linkIdx, found := b.closestLinkableDoor(openDoorIdx)
		if !found {
			continue
		}
		linkDoor := b.floor.Doors[linkIdx]

		dx := linkDoor.X - openDoor.X
		dz := linkDoor.Z - openDoor.Z
		priorityDir := snakingPriority(openDoor.Direction, dx, dz, linkDoor.Direction)

		dirHallway0 := openDoor.Direction.Opposite()
		for _, dirHallway1 := range [2]caveinfo.Direction{priorityDir, openDoor.Direction} {
			for _, hallwayUnit := range hallwayQueue {
				d0 := hallwayUnit.Doors[0].Direction
				d1 := hallwayUnit.Doors[1].Direction
				if d0 == dirHallway0 && d1 == dirHallway1 {
					if _, ok := b.tryPlaceUnitAt(openDoorIdx, hallwayUnit, 0); ok {
						b.afterPlacement(info)
						return true
					}
				} else if d0 == dirHallway1 && d1 == dirHallway0 {
					if _, ok := b.tryPlaceUnitAt(openDoorIdx, hallwayUnit, 1); ok {
						b.afterPlacement(info)
						return true
					}
				}
			}
		}
	}
	return false
}

// markRandomOpenDoorsAsCaps marks up to the first 16 open doors as caps,
// each independently with probability cap_probability (§4.C phase 4,
// "exactly once per generation").
func (b *Builder) markRandomOpenDoorsAsCaps(info *caveinfo.CaveInfo, openDoors []int) {
	n := len(openDoors)
	if n > 16 {
		n = 16
	}
	for i := 0; i < n; i++ {
		if b.rng.RandF32() < float32(info.CapProbability) {
			b.floor.Doors[openDoors[i]].MarkedAsCap = true
		}
	}
}

// closestLinkableDoor finds the closest (Manhattan) other open door
// inside a 10x10 window in front of openDoorIdx, rejecting doors behind
// its facing direction or belonging to the same parent unit.
func (b *Builder) closestLinkableDoor(openDoorIdx int) (int, bool) {
	src := b.floor.Doors[openDoorIdx]
	best := -1
	bestDist := math.MaxInt32
	for _, candIdx := range b.floor.OpenDoors() {
		if candIdx == openDoorIdx {
			continue
		}
		cand := b.floor.Doors[candIdx]
		if cand.ParentUnit == src.ParentUnit {
			continue
		}
		dx := cand.X - src.X
		dz := cand.Z - src.Z
		if abs(dx) >= 10 || abs(dz) >= 10 {
			continue
		}
		switch src.Direction {
		case caveinfo.DirNorth:
			if dz > 0 {
				continue
			}
		case caveinfo.DirEast:
			if dx < 0 {
				continue
			}
		case caveinfo.DirSouth:
			if dz < 0 {
				continue
			}
		case caveinfo.DirWest:
			if dx > 0 {
				continue
			}
		}
		dist := abs(dx) + abs(dz)
		if dist < bestDist {
			bestDist = dist
			best = candIdx
		}
	}
	return best, best != -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// capFillFallback is used when neither growth branch placed anything:
// for each open door, try every room type in {DeadEnd,Hallway,Room}, by
// increasing door count, with a per-unit door shuffle, accepting the
// first fit.
func (b *Builder) capFillFallback(info *caveinfo.CaveInfo) bool {
	for _, openDoorIdx := range b.floor.OpenDoors() {
		if b.floor.Doors[openDoorIdx].MarkedAsCap {
			continue
		}
		for _, kind := range [3]roomTypeKind{rtDeadEnd, rtHallway, rtRoom} {
			queue := b.queueFor(kind)
			maxDoors := 0
			for _, u := range queue {
				if u.NumDoors > maxDoors {
					maxDoors = u.NumDoors
				}
			}
			for numDoors := 1; numDoors <= maxDoors; numDoors++ {
				for _, unit := range queue {
					if unit.NumDoors != numDoors {
						continue
					}
					doorPriority := make([]int, unit.NumDoors)
					for i := range doorPriority {
						doorPriority[i] = i
					}
					rng.RandSwaps(b.rng, doorPriority)
					for _, doorIdx := range doorPriority {
						if _, ok := b.tryPlaceUnitAt(openDoorIdx, unit, doorIdx); ok {
							b.afterPlacement(info)
							return true
						}
					}
				}
			}
		}
	}
	return false
}

// afterPlacement recomputes the bounding-box diameter flag and reorders
// the unit-type queue the freshly placed unit belongs to (§4.C "after
// each successful placement").
func (b *Builder) afterPlacement(info *caveinfo.CaveInfo) {
	last := &b.floor.Units[len(b.floor.Units)-1]
	b.shuffleUnitPriority(last.Unit.RoomType)
	b.recomputeDiameterFlag()
}

func (b *Builder) recomputeDiameterFlag() {
	minX, minZ, maxX, maxZ := b.floor.Bounds()
	dx := float64(maxX - minX)
	dz := float64(maxZ - minZ)
	diameter := math.Sqrt(dx*dx + dz*dz)
	b.floor.mapHasDiameter36 = diameter >= 36
}

// shuffleUnitPriority re-shuffles the queue a freshly placed unit's room
// type draws from (§4.C "after each successful placement", step 2).
// DeadEnd and Hallway placements just reshuffle their whole queue;  Room
// placements instead bucket the room queue by folder name, order the
// buckets by how many times each name has already been placed (fewest
// first, ties broken by original order), and reshuffle only the last 4
// units of each bucket in place before rejoining them.
func (b *Builder) shuffleUnitPriority(kind caveinfo.RoomType) {
	switch kind {
	case caveinfo.RoomTypeDeadEnd:
		rng.RandBacks(b.rng, b.capQueue)
	case caveinfo.RoomTypeHallway:
		rng.RandBacks(b.rng, b.corridorQueue)
	case caveinfo.RoomTypeRoom:
		b.shuffleRoomQueueByPlacementCount()
	}
}

func (b *Builder) shuffleRoomQueueByPlacementCount() {
	placedCount := map[string]int{}
	for _, u := range b.floor.Units {
		if u.Unit.RoomType == caveinfo.RoomTypeRoom {
			placedCount[u.Unit.Name]++
		}
	}

	var names []string
	seen := map[string]bool{}
	for _, u := range b.roomQueue {
		if !seen[u.Name] {
			seen[u.Name] = true
			names = append(names, u.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return placedCount[names[i]] < placedCount[names[j]]
	})

	remaining := append([]caveinfo.CaveUnit(nil), b.roomQueue...)
	newQueue := make([]caveinfo.CaveUnit, 0, len(b.roomQueue))
	for _, name := range names {
		var matches []caveinfo.CaveUnit
		i := 0
		for i < len(remaining) {
			if remaining[i].Name == name {
				matches = append(matches, remaining[i])
				remaining = append(remaining[:i], remaining[i+1:]...)
			} else {
				i++
			}
		}
		rng.RandBacksN(b.rng, matches, 4)
		newQueue = append(newQueue, matches...)
	}
	newQueue = append(newQueue, remaining...)
	b.roomQueue = newQueue
}

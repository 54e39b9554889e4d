package spawner

import (
	"math"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// chooseByMinThenWeight implements the shared selection rule behind every
// choose_rand_* helper (§4.E): walk the table accumulating minimums; if n
// falls under the cumulative minimum, return that entry with no RNG draw;
// otherwise draw a filler-weighted index over the whole table.
func (s *Spawner) chooseByMinThenWeight(n int, minimums []int, weights []uint32) (int, bool) {
	cum := 0
	for i, m := range minimums {
		cum += m
		if n < cum {
			return i, true
		}
	}
	return s.rng.RandIndexWeight(weights)
}

func (s *Spawner) chooseRandTeki(group caveinfo.SpawnGroup, n int) (*caveinfo.TekiInfo, bool) {
	entries := s.info.TekiGroup(group)
	if len(entries) == 0 {
		return nil, false
	}
	minimums := make([]int, len(entries))
	weights := make([]uint32, len(entries))
	for i, e := range entries {
		minimums[i] = e.MinimumAmount
		weights[i] = uint32(e.FillerWeight)
	}
	idx, ok := s.chooseByMinThenWeight(n, minimums, weights)
	if !ok {
		return nil, false
	}
	return &entries[idx], true
}

// chooseRandCapTeki is chooseRandTeki over the cap table, with the
// reference's quirk that a failed draw still consumes a raw RNG step
// (§4.E step 11/12, §9).
func (s *Spawner) chooseRandCapTeki(n int) (*caveinfo.CapInfo, bool) {
	entries := s.info.CapInfo
	if len(entries) == 0 {
		s.rng.RandRaw()
		return nil, false
	}
	minimums := make([]int, len(entries))
	weights := make([]uint32, len(entries))
	for i, e := range entries {
		minimums[i] = e.MinimumAmount
		weights[i] = uint32(e.FillerWeight)
	}
	idx, ok := s.chooseByMinThenWeight(n, minimums, weights)
	if !ok {
		s.rng.RandRaw()
		return nil, false
	}
	return &entries[idx], true
}

func (s *Spawner) chooseRandItem(n int) (*caveinfo.ItemInfo, bool) {
	entries := s.info.ItemInfo
	if len(entries) == 0 {
		return nil, false
	}
	minimums := make([]int, len(entries))
	weights := make([]uint32, len(entries))
	for i, e := range entries {
		minimums[i] = e.MinimumAmount
		weights[i] = uint32(e.FillerWeight)
	}
	idx, ok := s.chooseByMinThenWeight(n, minimums, weights)
	if !ok {
		return nil, false
	}
	return &entries[idx], true
}

// cumulativeMinBoundary returns the cumulative minimum_amount through the
// first teki_group(group) entry whose bucket contains index n (the
// reference's spawn_in_room cumulative bound, generate.rs:799-811): the
// point at which the n-th pick's bucket runs out. Only meaningful while
// n still falls within the group's guaranteed-minimum entries.
func (s *Spawner) cumulativeMinBoundary(group caveinfo.SpawnGroup, n int) int {
	cum := 0
	for _, e := range s.info.TekiGroup(group) {
		cum += e.MinimumAmount
		if n < cum {
			return cum
		}
	}
	return cum
}

func (s *Spawner) shipWorldPos() [3]float64 {
	ref := s.floor.StartSpawn
	sp := s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
	return [3]float64{sp.WorldX, sp.WorldY, sp.WorldZ}
}

func worldDist(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// placeSeamTeki fills group-5 seam spots on non-DeadEnd units, Room seams
// weighted 100 and Hallway seams weighted 1 (§4.E step 4).
func (s *Spawner) placeSeamTeki() {
	allocated := int(s.floor.Allocated[caveinfo.GroupSeamTeki])
	for n := 0; n < allocated; n++ {
		var doorIdxs []int
		var weights []uint32
		for i := range s.floor.Units {
			u := &s.floor.Units[i]
			if u.Unit.RoomType == caveinfo.RoomTypeDeadEnd {
				continue
			}
			w := uint32(1)
			if u.Unit.RoomType == caveinfo.RoomTypeRoom {
				w = 100
			}
			for _, di := range u.DoorIdx {
				if s.floor.Doors[di].SeamSpawn != nil {
					continue
				}
				doorIdxs = append(doorIdxs, di)
				weights = append(weights, w)
			}
		}
		spotIdx, spotOk := s.rng.RandIndexWeight(weights)
		teki, tekiOk := s.chooseRandTeki(caveinfo.GroupSeamTeki, n)
		if !spotOk || !tekiOk {
			break
		}
		doorIdx := doorIdxs[spotIdx]
		obj := cavelayout.SpawnObject{Kind: cavelayout.SpawnTeki, Teki: teki}
		s.floor.Doors[doorIdx].SeamSpawn = &obj
		if adj := s.floor.Doors[doorIdx].AdjacentDoor; adj != -1 {
			s.floor.Doors[adj].SeamSpawn = &obj
		}
		s.placedMainObjects++
	}
}

// placeGroup implements the shared shape of groups 8 and 1 (§4.E steps
// 5-6): eligible Room spawn points of the given group, filtered by
// distance from ship/hole/geyser, pick-and-remove by rand_int, then always
// draw a teki even when the spot draw failed; break on first failure.
func (s *Spawner) placeGroup(group caveinfo.SpawnGroup, shipMin, holeMin, geyserMin float64) {
	allocated := int(s.floor.Allocated[group])
	ship := s.shipWorldPos()

	for n := 0; n < allocated; n++ {
		candidates := s.eligibleRoomPoints(group, func(pos [3]float64) bool {
			if worldDist(pos, ship) < shipMin {
				return false
			}
			if ref := s.floor.HoleSpawn; ref != nil {
				hp := s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
				if worldDist(pos, [3]float64{hp.WorldX, hp.WorldY, hp.WorldZ}) < holeMin {
					return false
				}
			}
			if ref := s.floor.GeyserSpawn; ref != nil {
				gp := s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
				if worldDist(pos, [3]float64{gp.WorldX, gp.WorldY, gp.WorldZ}) < geyserMin {
					return false
				}
			}
			return true
		})

		var chosen *cavelayout.SpawnRef
		if len(candidates) > 0 {
			idx := s.rng.RandInt(uint32(len(candidates)))
			chosen = &candidates[idx]
		} else {
			s.rng.RandInt(0)
		}
		teki, ok := s.chooseRandTeki(group, n)
		if chosen == nil || !ok {
			break
		}
		sp := &s.floor.Units[chosen.UnitIdx].SpawnPoints[chosen.SpawnIdx]
		sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnTeki, Teki: teki})
		s.placedMainObjects++
	}
}

// eligibleRoomPoints collects every empty spawn point of the given group
// on Room units satisfying pred(worldPos).
func (s *Spawner) eligibleRoomPoints(group caveinfo.SpawnGroup, pred func([3]float64) bool) []cavelayout.SpawnRef {
	var out []cavelayout.SpawnRef
	for unitIdx := range s.floor.Units {
		u := &s.floor.Units[unitIdx]
		if u.Unit.RoomType != caveinfo.RoomTypeRoom {
			continue
		}
		for spIdx := range u.SpawnPoints {
			sp := &u.SpawnPoints[spIdx]
			if sp.Def.Group != group || len(sp.Contains) != 0 {
				continue
			}
			pos := [3]float64{sp.WorldX, sp.WorldY, sp.WorldZ}
			if pred(pos) {
				out = append(out, cavelayout.SpawnRef{UnitIdx: unitIdx, SpawnIdx: spIdx})
			}
		}
	}
	return out
}

// placeGroupEasy implements group 0 (§4.E step 7): eligible spots need
// only the ship-distance threshold, but each successful pick spawns a
// whole "bunch" of teki around the spot rather than a single one.
func (s *Spawner) placeGroupEasy() {
	const shipMin = 300.0
	allocated := int(s.floor.Allocated[caveinfo.GroupEasyTeki])
	ship := s.shipWorldPos()

	for n := 0; n < allocated; n++ {
		candidates := s.eligibleRoomPoints(caveinfo.GroupEasyTeki, func(pos [3]float64) bool {
			return worldDist(pos, ship) >= shipMin
		})

		var chosen *cavelayout.SpawnRef
		if len(candidates) > 0 {
			idx := s.rng.RandInt(uint32(len(candidates)))
			chosen = &candidates[idx]
		} else {
			s.rng.RandInt(0)
		}
		teki, ok := s.chooseRandTeki(caveinfo.GroupEasyTeki, n)
		if chosen == nil || !ok {
			break
		}

		sp := &s.floor.Units[chosen.UnitIdx].SpawnPoints[chosen.SpawnIdx]
		minNum, maxNum := sp.Def.MinNum, sp.Def.MaxNum

		var budgetCap int
		if n < int(s.floor.MinTeki0) {
			budgetCap = s.cumulativeMinBoundary(caveinfo.GroupEasyTeki, n) - n
		} else {
			budgetCap = s.info.MaxMainObjects - s.placedMainObjects
		}
		effectiveMax := maxNum
		if budgetCap < effectiveMax {
			effectiveMax = budgetCap
		}
		var bunch int
		if effectiveMax <= minNum {
			bunch = effectiveMax
		} else {
			bunch = minNum + int(s.rng.RandInt(uint32(effectiveMax-minNum+1)))
		}
		if bunch < 0 {
			bunch = 0
		}

		offsets := make([][2]float64, bunch)
		for i := 0; i < bunch; i++ {
			radius := sp.Def.Radius * float64(s.rng.RandF32())
			angle := 2 * math.Pi * float64(s.rng.RandF32())
			offsets[i] = [2]float64{math.Sin(angle) * radius, math.Cos(angle) * radius}
		}
		repelOffsets(offsets, 5, 35)

		for _, off := range offsets {
			sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnTeki, Teki: teki, TekiOffset: off})
		}
		s.placedMainObjects += bunch
	}
}

// repelOffsets runs iterations rounds of pairwise repulsion: any two
// offsets closer than minDist are pushed apart along their connecting
// line (§4.E step 7).
func repelOffsets(offsets [][2]float64, iterations int, minDist float64) {
	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < len(offsets); i++ {
			for j := i + 1; j < len(offsets); j++ {
				dx := offsets[j][0] - offsets[i][0]
				dz := offsets[j][1] - offsets[i][1]
				d := math.Sqrt(dx*dx + dz*dz)
				if d >= minDist || d == 0 {
					continue
				}
				push := 0.5 * (minDist - d) / d
				offsets[i][0] -= dx * push
				offsets[i][1] -= dz * push
				offsets[j][0] += dx * push
				offsets[j][1] += dz * push
			}
		}
	}
}

// placePlants fills group-6 spots across the whole floor up to the sum of
// every plant entry's minimum amount (§4.E step 9).
func (s *Spawner) placePlants() {
	total := 0
	for _, t := range s.info.TekiGroup(caveinfo.GroupPlant) {
		total += t.MinimumAmount
	}
	for n := 0; n < total; n++ {
		var candidates []cavelayout.SpawnRef
		for unitIdx := range s.floor.Units {
			u := &s.floor.Units[unitIdx]
			for spIdx := range u.SpawnPoints {
				sp := &u.SpawnPoints[spIdx]
				if sp.Def.Group == caveinfo.GroupPlant && len(sp.Contains) == 0 {
					candidates = append(candidates, cavelayout.SpawnRef{UnitIdx: unitIdx, SpawnIdx: spIdx})
				}
			}
		}
		var chosen *cavelayout.SpawnRef
		if len(candidates) > 0 {
			idx := s.rng.RandInt(uint32(len(candidates)))
			chosen = &candidates[idx]
		} else {
			s.rng.RandInt(0)
		}
		teki, ok := s.chooseRandTeki(caveinfo.GroupPlant, n)
		if chosen == nil || !ok {
			break
		}
		sp := &s.floor.Units[chosen.UnitIdx].SpawnPoints[chosen.SpawnIdx]
		sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnTeki, Teki: teki})
	}
}

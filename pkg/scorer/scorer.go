// Package scorer computes the teki/seam/door-distance scores the spawner
// uses to rank candidate spawn locations (§4.D). Scoring runs twice per
// floor: once before any teki are placed (so hole/geyser/gate candidates
// can rank rooms by their eventual "value"), and again after groups 8/1/0
// are placed, before treasures and gates are scored against the final
// teki counts.
//
// The door-distance propagation below is modeled on the teacher's
// pkg/validation/metrics.go graph-walk-with-min-relaxation shape,
// generalized from an unweighted BFS over a dungeon graph to the
// weighted, door-link-based relaxation §4.D specifies.
package scorer

import (
	"math"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// ResetScores clears every score field on the floor, ready for a fresh
// scoring pass.
func ResetScores(floor *cavelayout.Floor) {
	for i := range floor.Units {
		floor.Units[i].TekiScore = 0
		floor.Units[i].TotalScore = 0
	}
	for i := range floor.Doors {
		floor.Doors[i].DoorScore = 0
		floor.Doors[i].HasDoorScore = false
		floor.Doors[i].SeamTekiScore = 0
	}
}

// ScoreTeki sets every unit's TekiScore to
// 10*(group-1 teki spawned there) + 2*(group-0 teki spawned there) (§4.D).
func ScoreTeki(floor *cavelayout.Floor) {
	for i := range floor.Units {
		unit := &floor.Units[i]
		var score float64
		for _, sp := range unit.SpawnPoints {
			for _, obj := range sp.Contains {
				if obj.Kind != cavelayout.SpawnTeki || obj.Teki == nil {
					continue
				}
				switch obj.Teki.Group {
				case caveinfo.GroupHardTeki:
					score += 10
				case caveinfo.GroupEasyTeki:
					score += 2
				}
			}
		}
		unit.TekiScore = score
	}
}

// ScoreSeamTeki sets SeamTekiScore to 5 on any door holding a seam-spawned
// Teki (not a Gate), mirrored onto its adjacent door (§4.D).
func ScoreSeamTeki(floor *cavelayout.Floor) {
	for i := range floor.Doors {
		d := &floor.Doors[i]
		if d.SeamSpawn == nil || d.SeamSpawn.Kind != cavelayout.SpawnTeki {
			continue
		}
		d.SeamTekiScore = 5
		if d.AdjacentDoor != -1 {
			floor.Doors[d.AdjacentDoor].SeamTekiScore = 5
		}
	}
}

// PropagateDoorScores computes every door's DoorScore and every unit's
// TotalScore by relaxing outward from seedUnitIdx (the ship's unit),
// following each unit's internal door-to-door links and the adjacency
// graph between units (§4.D).
func PropagateDoorScores(floor *cavelayout.Floor, seedUnitIdx int) {
	hasTotal := make([]bool, len(floor.Units))

	seed := &floor.Units[seedUnitIdx]
	seed.TotalScore = seed.TekiScore
	hasTotal[seedUnitIdx] = true

	mirror := func(doorIdx int, score float64) {
		d := &floor.Doors[doorIdx]
		d.DoorScore = score
		d.HasDoorScore = true
		if d.AdjacentDoor == -1 {
			return
		}
		adj := &floor.Doors[d.AdjacentDoor]
		adj.DoorScore = score
		adj.HasDoorScore = true

		neighborIdx := adj.ParentUnit
		neighbor := &floor.Units[neighborIdx]
		candidate := score + neighbor.TekiScore
		if !hasTotal[neighborIdx] || candidate < neighbor.TotalScore {
			neighbor.TotalScore = candidate
			hasTotal[neighborIdx] = true
		}
	}

	for _, doorIdx := range seed.DoorIdx {
		d := &floor.Doors[doorIdx]
		mirror(doorIdx, seed.TotalScore+1+d.SeamTekiScore)
	}

	for {
		bestScore := math.Inf(1)
		bestTargetDoorIdx := -1

		for unitIdx := range floor.Units {
			unit := &floor.Units[unitIdx]
			for _, startDoorIdx := range unit.DoorIdx {
				startDoor := &floor.Doors[startDoorIdx]
				if !startDoor.HasDoorScore {
					continue
				}
				defDoor := unit.Unit.Doors[startDoor.DoorDefIdx]
				for _, link := range defDoor.Links {
					if link.DoorID < 0 || link.DoorID >= len(unit.DoorIdx) {
						continue
					}
					targetDoorIdx := unit.DoorIdx[link.DoorID]
					targetDoor := &floor.Doors[targetDoorIdx]
					if targetDoor.HasDoorScore {
						continue
					}
					candidate := startDoor.DoorScore + math.Floor(link.Distance/10) + unit.TekiScore + targetDoor.SeamTekiScore
					if candidate < bestScore {
						bestScore = candidate
						bestTargetDoorIdx = targetDoorIdx
					}
				}
			}
		}

		if bestTargetDoorIdx == -1 {
			break
		}
		mirror(bestTargetDoorIdx, bestScore)
	}
}

// Run performs a full scoring pass: teki scores, seam scores, then
// door-distance propagation from seedUnitIdx.
func Run(floor *cavelayout.Floor, seedUnitIdx int) {
	ScoreTeki(floor)
	ScoreSeamTeki(floor)
	PropagateDoorScores(floor, seedUnitIdx)
}

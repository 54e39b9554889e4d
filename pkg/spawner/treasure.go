package spawner

import (
	"math"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// treasureCandidate pairs a spawn ref with its computed score.
type treasureCandidate struct {
	ref   cavelayout.SpawnRef
	score float64
}

// placeTreasures fills up to info.MaxTreasures group-2 (Room) and group-9
// (item-alcove) spawn points, scored by each unit's total score, either
// weighted (challenge mode) or uniform-among-max (normal mode) (§4.E step
// 10).
func (s *Spawner) placeTreasures() {
	for n := 0; n < s.info.MaxTreasures; n++ {
		candidates := s.treasureCandidates()
		var chosen *cavelayout.SpawnRef
		if len(candidates) > 0 {
			if s.info.IsChallengeMode {
				weights := make([]uint32, len(candidates))
				for i, c := range candidates {
					if c.score > 0 {
						weights[i] = uint32(c.score)
					}
				}
				if idx, ok := s.rng.RandIndexWeight(weights); ok {
					chosen = &candidates[idx].ref
				}
			} else {
				maxScore := math.Inf(-1)
				for _, c := range candidates {
					if c.score > maxScore {
						maxScore = c.score
					}
				}
				var best []cavelayout.SpawnRef
				for _, c := range candidates {
					if c.score == maxScore {
						best = append(best, c.ref)
					}
				}
				idx := s.rng.RandInt(uint32(len(best)))
				chosen = &best[idx]
			}
		} else {
			s.rng.RandInt(0)
		}

		item, ok := s.chooseRandItem(n)
		if chosen == nil || !ok {
			break
		}
		sp := &s.floor.Units[chosen.UnitIdx].SpawnPoints[chosen.SpawnIdx]
		sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnItem, Item: item})
	}
}

func (s *Spawner) treasureCandidates() []treasureCandidate {
	var out []treasureCandidate
	for unitIdx := range s.floor.Units {
		u := &s.floor.Units[unitIdx]
		if u.Unit.RoomType == caveinfo.RoomTypeRoom {
			group2Count := 0
			itemsHere := 0
			for spIdx := range u.SpawnPoints {
				sp := &u.SpawnPoints[spIdx]
				if sp.Def.Group != caveinfo.GroupTreasure {
					continue
				}
				group2Count++
				if len(sp.Contains) != 0 {
					itemsHere++
				}
			}
			for spIdx := range u.SpawnPoints {
				sp := &u.SpawnPoints[spIdx]
				if sp.Def.Group != caveinfo.GroupTreasure || len(sp.Contains) != 0 {
					continue
				}
				var score float64
				if s.info.IsChallengeMode {
					score = 1 + u.TotalScore/float64(group2Count)
				} else {
					score = math.Floor(u.TotalScore / float64(1+itemsHere))
				}
				out = append(out, treasureCandidate{ref: cavelayout.SpawnRef{UnitIdx: unitIdx, SpawnIdx: spIdx}, score: score})
			}
		}
		if isItemAlcove(u.Unit) {
			for spIdx := range u.SpawnPoints {
				sp := &u.SpawnPoints[spIdx]
				if sp.Def.Group != caveinfo.GroupCapOrHole9 || len(sp.Contains) != 0 {
					continue
				}
				var score float64
				if s.info.IsChallengeMode {
					score = 1 + u.TotalScore*10
				} else {
					score = 1 + u.TotalScore
				}
				out = append(out, treasureCandidate{ref: cavelayout.SpawnRef{UnitIdx: unitIdx, SpawnIdx: spIdx}, score: score})
			}
		}
	}
	return out
}

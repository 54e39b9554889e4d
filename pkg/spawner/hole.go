package spawner

import (
	"math"
	"strings"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// placeHoleAndGeyser places the exit hole (unless this is the final
// floor) and the geyser (if this is the final floor or the cave always
// has one) on a group-4 or group-9 spawn point (§4.E step 3).
func (s *Spawner) placeHoleAndGeyser() {
	if !s.info.IsFinalFloor {
		if ref, ok := s.pickHoleSpot(); ok {
			sp := &s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
			sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnHole})
			s.floor.HoleSpawn = &ref
		}
	}
	if s.info.IsFinalFloor || s.info.HasGeyser {
		if ref, ok := s.pickHoleSpot(); ok {
			sp := &s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
			sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnGeyser})
			s.floor.GeyserSpawn = &ref
		}
	}
}

// pickHoleSpot builds the Room-then-DeadEnd (Hallway only as a last
// resort) candidate set eligible for a hole or geyser, scores each by the
// unit's total score (sqrt+10 in challenge mode), and picks uniformly
// among the max-scoring spots in normal mode or by weight in challenge
// mode.
func (s *Spawner) pickHoleSpot() (cavelayout.SpawnRef, bool) {
	ship := s.shipWorldPos()
	collect := func(kind caveinfo.RoomType) []cavelayout.SpawnRef {
		var out []cavelayout.SpawnRef
		for unitIdx := range s.floor.Units {
			u := &s.floor.Units[unitIdx]
			if u.Unit.RoomType != kind {
				continue
			}
			for spIdx := range u.SpawnPoints {
				sp := &u.SpawnPoints[spIdx]
				if len(sp.Contains) != 0 {
					continue
				}
				eligible := sp.Def.Group == caveinfo.GroupCapOrHole9
				if sp.Def.Group == caveinfo.GroupHole && worldDist([3]float64{sp.WorldX, sp.WorldY, sp.WorldZ}, ship) >= 150 {
					eligible = true
				}
				if eligible {
					out = append(out, cavelayout.SpawnRef{UnitIdx: unitIdx, SpawnIdx: spIdx})
				}
			}
		}
		return out
	}

	candidates := collect(caveinfo.RoomTypeRoom)
	candidates = append(candidates, collect(caveinfo.RoomTypeDeadEnd)...)
	if len(candidates) == 0 {
		candidates = collect(caveinfo.RoomTypeHallway)
	}
	if len(candidates) == 0 {
		return cavelayout.SpawnRef{}, false
	}

	scores := make([]float64, len(candidates))
	maxScore := math.Inf(-1)
	for i, c := range candidates {
		total := s.floor.Units[c.UnitIdx].TotalScore
		if s.info.IsChallengeMode {
			scores[i] = math.Sqrt(total) + 10
		} else {
			scores[i] = total
		}
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	if s.info.IsChallengeMode {
		weights := make([]uint32, len(scores))
		for i, sc := range scores {
			if sc > 0 {
				weights[i] = uint32(sc)
			}
		}
		idx, ok := s.rng.RandIndexWeight(weights)
		if !ok {
			return cavelayout.SpawnRef{}, false
		}
		return candidates[idx], true
	}

	var best []cavelayout.SpawnRef
	for i, sc := range scores {
		if sc == maxScore {
			best = append(best, candidates[i])
		}
	}
	idx := s.rng.RandInt(uint32(len(best)))
	return best[idx], true
}

// isItemAlcove reports whether u is a DeadEnd unit whose library name
// marks it as an item alcove (§4.E steps 10-12).
func isItemAlcove(u caveinfo.CaveUnit) bool {
	return u.RoomType == caveinfo.RoomTypeDeadEnd && strings.Contains(strings.ToLower(u.Name), "item")
}

package spawner

import (
	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// alcoveSpawnRefs returns the group-9 spawn ref of every item alcove, in
// floor placement order (§4.E steps 11-12 walk alcoves non-randomly).
func (s *Spawner) alcoveSpawnRefs() []cavelayout.SpawnRef {
	var out []cavelayout.SpawnRef
	for unitIdx := range s.floor.Units {
		u := &s.floor.Units[unitIdx]
		if !isItemAlcove(u.Unit) {
			continue
		}
		for spIdx := range u.SpawnPoints {
			if u.SpawnPoints[spIdx].Def.Group == caveinfo.GroupCapOrHole9 {
				out = append(out, cavelayout.SpawnRef{UnitIdx: unitIdx, SpawnIdx: spIdx})
				break
			}
		}
	}
	return out
}

// placeGroundedCapTeki fills every still-empty item-alcove group-9 point
// with a cap-teki, drawn in alcove placement order (§4.E step 11). A
// group-0 (easy teki) cap counts as two against the bunch, unless the
// remaining main-object budget leaves room for only one.
func (s *Spawner) placeGroundedCapTeki() {
	for n, ref := range s.alcoveSpawnRefs() {
		sp := &s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
		if len(sp.Contains) != 0 {
			continue
		}
		teki, ok := s.chooseRandCapTeki(n)
		if !ok {
			continue
		}
		count := 1
		if teki.Group == caveinfo.GroupEasyTeki {
			count = 2
			if s.info.MaxMainObjects-s.placedMainObjects < 2 {
				count = 1
			}
		}
		sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnCapTeki, Teki: teki, CapCount: count})
		s.placedMainObjects += count
	}
}

// placeFallingCapTeki walks the same alcoves, skipping any already
// holding an object, and draws a falling cap-teki for the rest (§4.E step
// 12). Falling cap-teki are marked the same way as grounded ones; the
// "falling" distinction is the caller's placement method, not a stored
// flag, since nothing downstream of spawning distinguishes them.
func (s *Spawner) placeFallingCapTeki() {
	for n, ref := range s.alcoveSpawnRefs() {
		sp := &s.floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
		if len(sp.Contains) != 0 {
			continue
		}
		teki, ok := s.chooseRandCapTeki(n)
		if !ok {
			continue
		}
		sp.Contains = append(sp.Contains, cavelayout.SpawnObject{Kind: cavelayout.SpawnCapTeki, Teki: teki, CapCount: 1})
		s.placedMainObjects++
	}
}

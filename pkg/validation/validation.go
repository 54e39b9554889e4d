// Package validation checks a generated floor against the generator's
// structural invariants (§8), for use in tests and any tooling that
// wants to assert a floor's soundness beyond "it didn't panic".
//
// The report shape follows the teacher's pkg/validation/report.go: a
// flat list of named pass/fail checks plus a summary string, rather than
// a single bool -- a failing floor should say which invariant broke.
package validation

import (
	"fmt"
	"strings"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// CheckResult is the outcome of one named invariant check.
type CheckResult struct {
	Name      string
	Satisfied bool
	Details   string
}

// Report collects every invariant check run against one floor.
type Report struct {
	Passed  bool
	Results []CheckResult
}

func (r *Report) check(name string, ok bool, format string, args ...interface{}) {
	res := CheckResult{Name: name, Satisfied: ok, Details: fmt.Sprintf(format, args...)}
	r.Results = append(r.Results, res)
	if !ok {
		r.Passed = false
	}
}

// CheckFloor runs invariants 1-7 (§8) against a generated floor.
func CheckFloor(floor *cavelayout.Floor, info *caveinfo.CaveInfo) *Report {
	r := &Report{Passed: true}
	checkDoorAdjacency(r, floor)
	checkNoOverlaps(r, floor)
	checkObjectCounts(r, floor, info)
	checkSingleShipAtMostOneHoleGeyser(r, floor, info)
	checkTreasureGateCounts(r, floor, info)
	checkRecentered(r, floor)
	checkUnitSortOrder(r, info)
	return r
}

// checkDoorAdjacency is invariant 1: every door is either adjacent to
// exactly one other door, or marked as a cap, never both and never
// neither.
func checkDoorAdjacency(r *Report, floor *cavelayout.Floor) {
	for i, d := range floor.Doors {
		hasAdjacent := d.AdjacentDoor != -1
		if hasAdjacent == d.MarkedAsCap {
			r.check("door-adjacency", false, "door %d: adjacent=%v markedAsCap=%v (must be exactly one)", i, hasAdjacent, d.MarkedAsCap)
			return
		}
		if hasAdjacent {
			other := floor.Doors[d.AdjacentDoor]
			if other.AdjacentDoor != i {
				r.check("door-adjacency", false, "door %d -> %d is not reciprocated", i, d.AdjacentDoor)
				return
			}
		}
	}
	r.check("door-adjacency", true, "all %d doors satisfy exactly-one-of(adjacent, cap)", len(floor.Doors))
}

// checkNoOverlaps is invariant 2: no two placed units share a grid cell.
func checkNoOverlaps(r *Report, floor *cavelayout.Floor) {
	for i := range floor.Units {
		for j := i + 1; j < len(floor.Units); j++ {
			a, b := floor.Units[i], floor.Units[j]
			if unitsOverlap(a, b) {
				r.check("no-overlaps", false, "units %d and %d overlap", i, j)
				return
			}
		}
	}
	r.check("no-overlaps", true, "no pair among %d units overlaps", len(floor.Units))
}

// unitsOverlap reports whether two placed units' grid footprints
// intersect (§3 invariant 2). cavelayout keeps its own overlap check
// unexported, so this is a plain reimplementation over exported fields.
func unitsOverlap(a, b cavelayout.PlacedUnit) bool {
	if a.X+a.Unit.Width <= b.X || b.X+b.Unit.Width <= a.X {
		return false
	}
	if a.Z+a.Unit.Height <= b.Z || b.Z+b.Unit.Height <= a.Z {
		return false
	}
	return true
}

// checkObjectCounts is invariant 3: placed rooms <= num_rooms, and main
// objects across groups {0,1,5,8} <= max_main_objects.
func checkObjectCounts(r *Report, floor *cavelayout.Floor, info *caveinfo.CaveInfo) {
	rooms := 0
	for _, u := range floor.Units {
		if u.Unit.RoomType == caveinfo.RoomTypeRoom {
			rooms++
		}
	}
	if rooms > info.NumRooms {
		r.check("room-count", false, "placed %d rooms, budget %d", rooms, info.NumRooms)
	} else {
		r.check("room-count", true, "placed %d rooms <= budget %d", rooms, info.NumRooms)
	}

	mainGroups := map[caveinfo.SpawnGroup]bool{
		caveinfo.GroupEasyTeki: true,
		caveinfo.GroupHardTeki: true,
		caveinfo.GroupSeamTeki: true,
		caveinfo.GroupSpecial:  true,
	}
	mainObjects := 0
	for _, u := range floor.Units {
		for _, sp := range u.SpawnPoints {
			if !mainGroups[sp.Def.Group] {
				continue
			}
			for _, obj := range sp.Contains {
				if obj.Kind == cavelayout.SpawnTeki {
					mainObjects++
				}
			}
		}
	}
	for _, d := range floor.Doors {
		if d.SeamSpawn != nil && d.SeamSpawn.Kind == cavelayout.SpawnTeki {
			mainObjects++
		}
	}
	if mainObjects > info.MaxMainObjects {
		r.check("main-object-count", false, "placed %d main objects, budget %d", mainObjects, info.MaxMainObjects)
	} else {
		r.check("main-object-count", true, "placed %d main objects <= budget %d", mainObjects, info.MaxMainObjects)
	}
}

// checkSingleShipAtMostOneHoleGeyser is invariant 4.
func checkSingleShipAtMostOneHoleGeyser(r *Report, floor *cavelayout.Floor, info *caveinfo.CaveInfo) {
	ships := 0
	for _, u := range floor.Units {
		for _, sp := range u.SpawnPoints {
			for _, obj := range sp.Contains {
				if obj.Kind == cavelayout.SpawnShip {
					ships++
				}
			}
		}
	}
	if ships != 1 {
		r.check("exactly-one-ship", false, "found %d ship spawns, want exactly 1", ships)
	} else {
		r.check("exactly-one-ship", true, "exactly one ship spawn")
	}

	if floor.HoleSpawn != nil && floor.GeyserSpawn != nil {
		sameSpot := floor.HoleSpawn.UnitIdx == floor.GeyserSpawn.UnitIdx && floor.HoleSpawn.SpawnIdx == floor.GeyserSpawn.SpawnIdx
		finalWithGeyser := info.IsFinalFloor && info.HasGeyser
		if sameSpot && !finalWithGeyser {
			r.check("hole-geyser-colocation", false, "hole and geyser share a spawn point on a non-final-with-geyser floor")
		} else {
			r.check("hole-geyser-colocation", true, "hole/geyser co-location is within the allowed exception")
		}
	} else {
		r.check("hole-geyser-colocation", true, "at most one of hole/geyser placed")
	}
}

// checkTreasureGateCounts is invariant 5.
func checkTreasureGateCounts(r *Report, floor *cavelayout.Floor, info *caveinfo.CaveInfo) {
	items, gates := 0, 0
	for _, u := range floor.Units {
		for _, sp := range u.SpawnPoints {
			for _, obj := range sp.Contains {
				if obj.Kind == cavelayout.SpawnItem {
					items++
				}
			}
		}
	}
	for _, d := range floor.Doors {
		if d.SeamSpawn != nil && d.SeamSpawn.Kind == cavelayout.SpawnGate {
			gates++
		}
	}
	if items > info.MaxTreasures {
		r.check("treasure-count", false, "placed %d items, budget %d", items, info.MaxTreasures)
	} else {
		r.check("treasure-count", true, "placed %d items <= budget %d", items, info.MaxTreasures)
	}
	if gates > info.MaxGates {
		r.check("gate-count", false, "placed %d gates, budget %d", gates, info.MaxGates)
	} else {
		r.check("gate-count", true, "placed %d gates <= budget %d", gates, info.MaxGates)
	}
}

// checkRecentered is invariant 6.
func checkRecentered(r *Report, floor *cavelayout.Floor) {
	minX, minZ, _, _ := floor.Bounds()
	if minX != 0 || minZ != 0 {
		r.check("recentered", false, "bounding box starts at (%d,%d), want (0,0)", minX, minZ)
		return
	}
	r.check("recentered", true, "bounding box starts at origin")
}

// checkUnitSortOrder is invariant 7: the loaded unit library is
// non-decreasing in (width*height, num_doors).
func checkUnitSortOrder(r *Report, info *caveinfo.CaveInfo) {
	for i := 1; i < len(info.Units); i++ {
		prev, cur := info.Units[i-1], info.Units[i]
		prevKey := prev.Width * prev.Height
		curKey := cur.Width * cur.Height
		if curKey < prevKey || (curKey == prevKey && cur.NumDoors < prev.NumDoors) {
			r.check("unit-sort-order", false, "units[%d] sorts before units[%d]", i, i-1)
			return
		}
	}
	r.check("unit-sort-order", true, "unit library is non-decreasing in (area, num_doors)")
}

// Summary renders a human-readable report, in the teacher's
// pass/fail-per-line style.
func Summary(r *Report) string {
	var b strings.Builder
	if r.Passed {
		b.WriteString("Status: PASSED\n")
	} else {
		b.WriteString("Status: FAILED\n")
	}
	for _, res := range r.Results {
		status := "PASS"
		if !res.Satisfied {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", status, res.Name, res.Details)
	}
	return b.String()
}

package query

import (
	"fmt"
	"math"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
	"github.com/gocaveripper/cavegen/pkg/generator"
)

// Rel is a relational operator over an integer or float measurement.
type Rel int

const (
	RelEq Rel = iota
	RelNe
	RelLt
	RelLe
	RelGt
	RelGe
)

func (r Rel) String() string {
	switch r {
	case RelEq:
		return "="
	case RelNe:
		return "!="
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelGt:
		return ">"
	case RelGe:
		return ">="
	default:
		return "?"
	}
}

func (r Rel) compare(a, b float64) bool {
	switch r {
	case RelEq:
		return a == b
	case RelNe:
		return a != b
	case RelLt:
		return a < b
	case RelLe:
		return a <= b
	case RelGt:
		return a > b
	case RelGe:
		return a >= b
	}
	return false
}

// entityMatcher matches a spawn object by kind keyword ("hole", "geyser",
// "ship", "gate") or by internal name (a teki, item, or gate's
// InternalName in the loaded CaveInfo catalogs).
type entityMatcher struct {
	token string
}

func (m entityMatcher) matches(obj cavelayout.SpawnObject) bool {
	switch m.token {
	case "hole":
		return obj.Kind == cavelayout.SpawnHole
	case "geyser":
		return obj.Kind == cavelayout.SpawnGeyser
	case "ship":
		return obj.Kind == cavelayout.SpawnShip
	case "gate":
		return obj.Kind == cavelayout.SpawnGate
	case "teki":
		return obj.Kind == cavelayout.SpawnTeki || obj.Kind == cavelayout.SpawnCapTeki
	case "item":
		return obj.Kind == cavelayout.SpawnItem
	}
	switch obj.Kind {
	case cavelayout.SpawnTeki, cavelayout.SpawnCapTeki:
		return obj.Teki != nil && (obj.Teki.InternalName == m.token || obj.Teki.CarriedTreasure == m.token)
	case cavelayout.SpawnItem:
		return obj.Item != nil && obj.Item.InternalName == m.token
	case cavelayout.SpawnGate:
		return obj.Gate != nil && obj.Gate.InternalName == m.token
	}
	return false
}

func (m entityMatcher) String() string { return m.token }

// unitMatcher matches a placed unit by room-type keyword ("room",
// "hallway", "deadend") or by its CaveUnit name.
type unitMatcher struct {
	token string
}

func (m unitMatcher) matches(u cavelayout.PlacedUnit) bool {
	switch m.token {
	case "room":
		return u.Unit.RoomType == caveinfo.RoomTypeRoom
	case "hallway":
		return u.Unit.RoomType == caveinfo.RoomTypeHallway
	case "deadend":
		return u.Unit.RoomType == caveinfo.RoomTypeDeadEnd
	default:
		return u.Unit.Name == m.token
	}
}

func (m unitMatcher) String() string { return m.token }

// located is a spawn object instance paired with its resolved world
// position, so straight_dist/carry_dist/gated can operate over a flat
// list instead of re-deriving positions from spawn points and door
// seams separately each time.
type located struct {
	obj cavelayout.SpawnObject
	pos [3]float64
}

// allLocated walks every spawn-point-anchored object (teki, cap teki,
// items, the ship, hole and geyser) and every door-seam-anchored object
// (seam teki, gates), resolving each to a world position -- the same two
// sources pkg/slug walks to render a floor's canonical serialization.
func allLocated(floor *cavelayout.Floor) []located {
	var out []located
	for _, u := range floor.Units {
		for _, sp := range u.SpawnPoints {
			base := [3]float64{sp.WorldX, sp.WorldY, sp.WorldZ}
			for _, obj := range sp.Contains {
				pos := base
				if obj.Kind == cavelayout.SpawnTeki || obj.Kind == cavelayout.SpawnCapTeki {
					pos[0] += obj.TekiOffset[0]
					pos[2] += obj.TekiOffset[1]
				}
				out = append(out, located{obj: obj, pos: pos})
			}
		}
	}
	for i, d := range floor.Doors {
		if d.SeamSpawn == nil {
			continue
		}
		// Seam objects are shared between both mirrored doors; emit from
		// the lower-indexed door only, matching pkg/slug's dedup rule.
		if d.AdjacentDoor != -1 && d.AdjacentDoor < i {
			continue
		}
		base := [3]float64{float64(d.X) * doorGridCellUnits, 0, float64(d.Z) * doorGridCellUnits}
		out = append(out, located{obj: *d.SeamSpawn, pos: base})
	}
	return out
}

// doorGridCellUnits mirrors cavelayout's own copy; needed here only to
// place a door seam object's world position for distance clauses.
const doorGridCellUnits = 170.0

func euclidean(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// pathLength sums the Euclidean length of every consecutive segment in a
// carry path.
func pathLength(path [][3]float64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += euclidean(path[i-1], path[i])
	}
	return total
}

// pointToSegmentDistance is the plain (uncorrected) distance from p to
// the segment ab -- distinct from pkg/waypoint's radius-corrected
// edgeDistance, since "within 80 units of any edge of the carry path"
// (§4.G gated/not_gated) measures the literal path geometry, not the
// waypoint-radius metric used for carry routing itself.
func pointToSegmentDistance(p, a, b [3]float64) float64 {
	abx, aby, abz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	lenSq := abx*abx + aby*aby + abz*abz
	var t float64
	if lenSq > 0 {
		apx, apy, apz := p[0]-a[0], p[1]-a[1], p[2]-a[2]
		t = (apx*abx + apy*aby + apz*abz) / lenSq
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := [3]float64{a[0] + t*abx, a[1] + t*aby, a[2] + t*abz}
	return euclidean(p, closest)
}

// countEntityClause implements `count entity <token> <rel> n`.
type countEntityClause struct {
	match entityMatcher
	rel   Rel
	n     int
}

func (c *countEntityClause) Eval(res *generator.Result) bool {
	count := 0
	for _, l := range allLocated(res.Floor) {
		if c.match.matches(l.obj) {
			count++
		}
	}
	return c.rel.compare(float64(count), float64(c.n))
}

func (c *countEntityClause) String() string {
	return fmt.Sprintf("count entity %s %s %d", c.match, c.rel, c.n)
}

// countRoomClause implements `count room <token> <rel> n`.
type countRoomClause struct {
	match unitMatcher
	rel   Rel
	n     int
}

func (c *countRoomClause) Eval(res *generator.Result) bool {
	count := 0
	for _, u := range res.Floor.Units {
		if c.match.matches(u) {
			count++
		}
	}
	return c.rel.compare(float64(count), float64(c.n))
}

func (c *countRoomClause) String() string {
	return fmt.Sprintf("count room %s %s %d", c.match, c.rel, c.n)
}

// carryDistClause implements `carry_dist e <rel> d`.
type carryDistClause struct {
	match entityMatcher
	rel   Rel
	d     float64
}

func (c *carryDistClause) Eval(res *generator.Result) bool {
	for _, l := range allLocated(res.Floor) {
		if !c.match.matches(l.obj) {
			continue
		}
		path := res.Graph.CarryPath(l.pos)
		if c.rel.compare(pathLength(path), c.d) {
			return true
		}
	}
	return false
}

func (c *carryDistClause) String() string {
	return fmt.Sprintf("carry_dist %s %s %g", c.match, c.rel, c.d)
}

// straightDistClause implements `straight_dist e1 e2 <rel> d`.
type straightDistClause struct {
	a, b entityMatcher
	rel  Rel
	d    float64
}

func (c *straightDistClause) Eval(res *generator.Result) bool {
	all := allLocated(res.Floor)
	for _, la := range all {
		if !c.a.matches(la.obj) {
			continue
		}
		for _, lb := range all {
			if !c.b.matches(lb.obj) {
				continue
			}
			if c.rel.compare(euclidean(la.pos, lb.pos), c.d) {
				return true
			}
		}
	}
	return false
}

func (c *straightDistClause) String() string {
	return fmt.Sprintf("straight_dist %s %s %s %g", c.a, c.b, c.rel, c.d)
}

// gatedClause implements `gated e` (want=true) and `not_gated e`
// (want=false): true iff some matching entity's carry path passes within
// 80 units of a gate equals want.
type gatedClause struct {
	match entityMatcher
	want  bool
}

const gatedThreshold = 80.0

func (c *gatedClause) Eval(res *generator.Result) bool {
	all := allLocated(res.Floor)
	var gates [][3]float64
	for _, l := range all {
		if l.obj.Kind == cavelayout.SpawnGate {
			gates = append(gates, l.pos)
		}
	}

	anyGated := false
	for _, l := range all {
		if !c.match.matches(l.obj) {
			continue
		}
		path := res.Graph.CarryPath(l.pos)
		for _, gate := range gates {
			if nearAnySegment(gate, path, gatedThreshold) {
				anyGated = true
				break
			}
		}
		if anyGated {
			break
		}
	}
	return anyGated == c.want
}

func nearAnySegment(p [3]float64, path [][3]float64, threshold float64) bool {
	for i := 1; i < len(path); i++ {
		if pointToSegmentDistance(p, path[i-1], path[i]) <= threshold {
			return true
		}
	}
	return false
}

func (c *gatedClause) String() string {
	if c.want {
		return fmt.Sprintf("gated %s", c.match)
	}
	return fmt.Sprintf("not_gated %s", c.match)
}

// roomPathStep is one `unit (+ entity)+` group of a room_path clause.
type roomPathStep struct {
	unit     unitMatcher
	entities []entityMatcher
}

// roomPathClause implements `room_path [unit (+ entity)+]+`: a depth-first
// search from every unit for a chain of adjacent units in which the unit
// at step i matches unit_matcher[i] and contains every listed entity; no
// unit appears twice in one chain (§4.G).
type roomPathClause struct {
	steps []roomPathStep
}

func (c *roomPathClause) Eval(res *generator.Result) bool {
	floor := res.Floor
	for start := range floor.Units {
		visited := make(map[int]bool)
		if matchRoomPath(floor, c.steps, 0, start, visited) {
			return true
		}
	}
	return false
}

func matchRoomPath(floor *cavelayout.Floor, steps []roomPathStep, stepIdx, unitIdx int, visited map[int]bool) bool {
	if visited[unitIdx] {
		return false
	}
	u := floor.Units[unitIdx]
	step := steps[stepIdx]
	if !step.unit.matches(u) {
		return false
	}
	if !unitContainsAll(floor, unitIdx, step.entities) {
		return false
	}
	if stepIdx == len(steps)-1 {
		return true
	}

	visited[unitIdx] = true
	defer delete(visited, unitIdx)

	for _, doorIdx := range u.DoorIdx {
		d := floor.Doors[doorIdx]
		if d.AdjacentDoor == -1 {
			continue
		}
		neighbor := floor.Doors[d.AdjacentDoor].ParentUnit
		if matchRoomPath(floor, steps, stepIdx+1, neighbor, visited) {
			return true
		}
	}
	return false
}

// unitContainsAll reports whether every entity matcher has at least one
// match among unitIdx's spawn points or the door seams it owns.
func unitContainsAll(floor *cavelayout.Floor, unitIdx int, entities []entityMatcher) bool {
	for _, want := range entities {
		found := false
		for _, sp := range floor.Units[unitIdx].SpawnPoints {
			for _, obj := range sp.Contains {
				if want.matches(obj) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			for _, doorIdx := range floor.Units[unitIdx].DoorIdx {
				d := floor.Doors[doorIdx]
				if d.SeamSpawn != nil && want.matches(*d.SeamSpawn) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *roomPathClause) String() string {
	s := "room_path"
	for _, step := range c.steps {
		s += " " + step.unit.token
		for _, e := range step.entities {
			s += "+" + e.token
		}
	}
	return s
}

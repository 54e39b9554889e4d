// Package cavelayout implements phases 1-5 of the cave generator (§4.C):
// sorting and queueing the unit library, seeding the first room, growing
// the floor door-by-door, and the two post-pass simplifications (cap to
// hallway, 1x1 pair to 2x1 merge).
//
// Following §9's design note, placed units and doors live in a flat arena
// (Floor.Units, Floor.Doors) indexed by plain ints instead of a reference-
// counted cyclic graph: a PlacedDoor names its parent unit and its
// adjacent door (if any) by index, which sidesteps the aliasing the
// original's Rc<RefCell<>> graph has to manage at runtime.
package cavelayout

import "github.com/gocaveripper/cavegen/pkg/caveinfo"

// gridCellUnits is the world-unit size of one grid cell (§6 coordinate
// conventions) -- kept in sync with caveinfo's own copy, used here only to
// convert a placed unit's integer grid position into the world-space
// offset applied to its spawn points.
const gridCellUnits = 170.0

// SpawnObjectKind tags the variant held by a SpawnObject.
type SpawnObjectKind int

const (
	SpawnTeki SpawnObjectKind = iota
	SpawnCapTeki
	SpawnItem
	SpawnGate
	SpawnHole
	SpawnGeyser
	SpawnShip
)

// SpawnObject is one object occupying a spawn point or door seam.
type SpawnObject struct {
	Kind SpawnObjectKind

	Teki       *caveinfo.TekiInfo // SpawnTeki, SpawnCapTeki
	TekiOffset [2]float64         // SpawnTeki: local (x,z) offset from spawn point
	CapCount   int                // SpawnCapTeki: 1 or 2

	Item *caveinfo.ItemInfo // SpawnItem

	Gate         *caveinfo.GateInfo // SpawnGate
	GateRotation int                // SpawnGate

	Plugged bool // SpawnHole, SpawnGeyser
}

// PlacedSpawnPoint is a spawn-point template instantiated in world space.
type PlacedSpawnPoint struct {
	Def                    caveinfo.SpawnPointDef
	ParentUnit             int
	WorldX, WorldY, WorldZ float64
	Contains               []SpawnObject
}

// SpawnRef names one PlacedSpawnPoint by (unit, index-within-unit).
type SpawnRef struct {
	UnitIdx  int
	SpawnIdx int
}

// PlacedDoor is one door instance belonging to a PlacedUnit.
type PlacedDoor struct {
	ParentUnit    int
	DoorDefIdx    int // index into the parent PlacedUnit.Unit.Doors
	X, Z          int // grid coords of the door's cell
	Direction     caveinfo.Direction
	AdjacentDoor  int // index into Floor.Doors, or -1
	MarkedAsCap   bool
	SeamSpawn     *SpawnObject
	DoorScore     float64
	HasDoorScore  bool
	SeamTekiScore float64
}

// PlacedUnit is a CaveUnit instance placed at integer grid coordinates.
type PlacedUnit struct {
	Unit        caveinfo.CaveUnit
	X, Z        int // top-left grid corner
	DoorIdx     []int // Floor.Doors indices, parallel to Unit.Doors
	SpawnPoints []PlacedSpawnPoint
	TekiScore   float64
	TotalScore  float64
}

// Width/Height/Overlaps operate in grid-cell space.
func (u *PlacedUnit) overlaps(o *PlacedUnit) bool {
	return boxesOverlap(u.X, u.Z, u.Unit.Width, u.Unit.Height, o.X, o.Z, o.Unit.Width, o.Unit.Height)
}

// boxesOverlap reports whether two axis-aligned grid boxes overlap. Two
// boxes overlap iff neither is strictly left/right/above/below the other
// (§3 invariant 2).
func boxesOverlap(x1, z1, w1, h1, x2, z2, w2, h2 int) bool {
	if x1+w1 <= x2 || x2+w2 <= x1 {
		return false
	}
	if z1+h1 <= z2 || z2+h2 <= z1 {
		return false
	}
	return true
}

// Floor is the generator's output: a connected graph of placed units with
// oriented doors, plus the chosen start/hole/geyser references.
type Floor struct {
	StartingSeed uint32
	Sublevel     string

	Units []PlacedUnit
	Doors []PlacedDoor

	StartSpawn  *SpawnRef
	HoleSpawn   *SpawnRef
	GeyserSpawn *SpawnRef

	// Allocated holds the per-enemy-group main-object slot counts computed
	// in phase 2 (§4.C); index by caveinfo.SpawnGroup. MinTeki0 is the
	// group-0 minimum total reserved before filler allocation, used by the
	// spawner's group-0 bunch-size rule (§4.E step 7).
	Allocated [10]uint32
	MinTeki0  uint32

	mapHasDiameter36 bool
}

// OpenDoors returns the indices (into Floor.Doors) of every door that is
// neither adjacent to another door nor marked as a cap.
func (f *Floor) OpenDoors() []int {
	var out []int
	for i, d := range f.Doors {
		if d.AdjacentDoor == -1 && !d.MarkedAsCap {
			out = append(out, i)
		}
	}
	return out
}

// Bounds returns the floor's bounding box in grid coordinates:
// (minX, minZ, maxX, maxZ) where max is exclusive.
func (f *Floor) Bounds() (minX, minZ, maxX, maxZ int) {
	if len(f.Units) == 0 {
		return 0, 0, 0, 0
	}
	minX, minZ = f.Units[0].X, f.Units[0].Z
	maxX, maxZ = f.Units[0].X+f.Units[0].Unit.Width, f.Units[0].Z+f.Units[0].Unit.Height
	for _, u := range f.Units[1:] {
		if u.X < minX {
			minX = u.X
		}
		if u.Z < minZ {
			minZ = u.Z
		}
		if u.X+u.Unit.Width > maxX {
			maxX = u.X + u.Unit.Width
		}
		if u.Z+u.Unit.Height > maxZ {
			maxZ = u.Z + u.Unit.Height
		}
	}
	return minX, minZ, maxX, maxZ
}

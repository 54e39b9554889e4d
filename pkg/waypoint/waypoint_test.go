package waypoint

import (
	"testing"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// twoUnitFloor builds two 1x1 units joined by one adjacent door pair,
// each with a single waypoint at its door, plus a ship spawn in unit 0.
func twoUnitFloor() *cavelayout.Floor {
	unit := func(wpX float64) caveinfo.CaveUnit {
		return caveinfo.CaveUnit{
			Doors: []caveinfo.DoorDef{
				{Direction: caveinfo.DirEast, WaypointIndex: 0},
			},
			Waypoints: []caveinfo.WaypointDef{
				{Index: 0, X: wpX, Y: 0, Z: 0, R: 10},
			},
		}
	}
	return &cavelayout.Floor{
		Units: []cavelayout.PlacedUnit{
			{
				Unit:    unit(100),
				X:       0,
				DoorIdx: []int{0},
				SpawnPoints: []cavelayout.PlacedSpawnPoint{
					{Def: caveinfo.SpawnPointDef{Group: caveinfo.GroupShip}, WorldX: 100},
				},
			},
			{
				Unit:    unit(0),
				X:       1,
				DoorIdx: []int{1},
			},
		},
		Doors: []cavelayout.PlacedDoor{
			{ParentUnit: 0, DoorDefIdx: 0, AdjacentDoor: 1},
			{ParentUnit: 1, DoorDefIdx: 0, AdjacentDoor: 0},
		},
		StartSpawn: &cavelayout.SpawnRef{UnitIdx: 0, SpawnIdx: 0},
	}
}

func TestBuildFindsShipNode(t *testing.T) {
	g := Build(twoUnitFloor())
	if g.ShipNode() < 0 {
		t.Fatalf("expected a ship node to be found")
	}
	if g.Nodes[g.ShipNode()].UnitIdx != 0 {
		t.Fatalf("expected ship node to belong to unit 0")
	}
}

func TestDistanceToShipReachesOtherUnit(t *testing.T) {
	g := Build(twoUnitFloor())
	dist := g.DistanceToShip()

	var otherNode int = -1
	for i, n := range g.Nodes {
		if n.UnitIdx == 1 {
			otherNode = i
		}
	}
	if otherNode == -1 {
		t.Fatalf("expected a node in unit 1")
	}
	if dist[otherNode] < 0 {
		t.Fatalf("expected unit 1's waypoint to be reachable from ship")
	}
	if g.Backlink(otherNode) != g.ShipNode() {
		t.Fatalf("expected backlink from unit 1's node to point at ship, got %d want %d", g.Backlink(otherNode), g.ShipNode())
	}
	if g.Backlink(g.ShipNode()) != -1 {
		t.Fatalf("expected ship node to have no backlink")
	}
}

func TestCarryPathEndsAtShip(t *testing.T) {
	g := Build(twoUnitFloor())
	g.DistanceToShip()

	path := g.CarryPath([3]float64{170, 0, 0})
	if len(path) == 0 {
		t.Fatalf("expected a nonempty carry path")
	}
	last := path[len(path)-1]
	shipPos := g.Nodes[g.ShipNode()].pos()
	if last != shipPos {
		t.Fatalf("expected carry path to end at ship position %v, got %v", shipPos, last)
	}
}

package cavelayout

import (
	"testing"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/rng"
)

func TestBoxesOverlap(t *testing.T) {
	cases := []struct {
		name string
		a, b [4]int // x,z,w,h
		want bool
	}{
		{"identical", [4]int{0, 0, 2, 2}, [4]int{0, 0, 2, 2}, true},
		{"side by side", [4]int{0, 0, 2, 2}, [4]int{2, 0, 2, 2}, false},
		{"stacked", [4]int{0, 0, 2, 2}, [4]int{0, 2, 2, 2}, false},
		{"partial overlap", [4]int{0, 0, 2, 2}, [4]int{1, 1, 2, 2}, true},
	}
	for _, c := range cases {
		got := boxesOverlap(c.a[0], c.a[1], c.a[2], c.a[3], c.b[0], c.b[1], c.b[2], c.b[3])
		if got != c.want {
			t.Errorf("%s: boxesOverlap = %v, want %v", c.name, got, c.want)
		}
	}
}

func shipRoom() caveinfo.CaveUnit {
	return caveinfo.CaveUnit{
		Name:     "ship_room",
		Width:    1,
		Height:   1,
		RoomType: caveinfo.RoomTypeRoom,
		NumDoors: 1,
		Doors:    []caveinfo.DoorDef{{Direction: caveinfo.DirNorth}},
		SpawnPoints: []caveinfo.SpawnPointDef{
			{Group: caveinfo.GroupShip},
		},
	}
}

// TestGenerateSingleRoomCapsItsOnlyDoor builds the smallest possible cave
// (one room, no corridor or cap library) with NumRooms=1 and
// CapProbability=1, and checks the generator seeds the room, caps its one
// open door during the growth loop's cap-or-hallway stage, and leaves no
// open doors behind.
func TestGenerateSingleRoomCapsItsOnlyDoor(t *testing.T) {
	info := &caveinfo.CaveInfo{
		Name:            "test01",
		MaxMainObjects:  0,
		NumRooms:        1,
		CapProbability:  1,
		Units:           []caveinfo.CaveUnit{shipRoom()},
	}

	floor := Generate(12345, info, "test:1")

	if len(floor.Units) != 1 {
		t.Fatalf("expected exactly 1 placed unit, got %d", len(floor.Units))
	}
	if len(floor.Doors) != 1 {
		t.Fatalf("expected exactly 1 door, got %d", len(floor.Doors))
	}
	if !floor.Doors[0].MarkedAsCap {
		t.Fatalf("expected the only door to be marked as a cap")
	}
	if open := floor.OpenDoors(); len(open) != 0 {
		t.Fatalf("expected no open doors left, got %v", open)
	}
	minX, minZ, _, _ := floor.Bounds()
	if minX != 0 || minZ != 0 {
		t.Fatalf("expected recentered floor to start at (0,0), got (%d,%d)", minX, minZ)
	}
}

func TestGenerateDeterministicForSameSeed(t *testing.T) {
	info := &caveinfo.CaveInfo{
		Name:           "test01",
		MaxMainObjects: 0,
		NumRooms:       1,
		CapProbability: 1,
		Units:          []caveinfo.CaveUnit{shipRoom()},
	}

	a := Generate(777, info, "test:1")
	b := Generate(777, info, "test:1")

	if len(a.Units) != len(b.Units) || len(a.Doors) != len(b.Doors) {
		t.Fatalf("two generations from the same seed produced different shapes")
	}
	for i := range a.Units {
		if a.Units[i].X != b.Units[i].X || a.Units[i].Z != b.Units[i].Z {
			t.Fatalf("unit %d placed differently between identical-seed runs", i)
		}
	}
}

func TestIsStraightNS1x1(t *testing.T) {
	ns := caveinfo.CaveUnit{
		RoomType: caveinfo.RoomTypeHallway, Width: 1, Height: 1, NumDoors: 2,
		Doors: []caveinfo.DoorDef{{Direction: caveinfo.DirNorth}, {Direction: caveinfo.DirSouth}},
	}
	if !isStraightNS1x1(ns) {
		t.Fatalf("expected a 1x1 N/S hallway to qualify")
	}

	ew := caveinfo.CaveUnit{
		RoomType: caveinfo.RoomTypeHallway, Width: 1, Height: 1, NumDoors: 2,
		Doors: []caveinfo.DoorDef{{Direction: caveinfo.DirEast}, {Direction: caveinfo.DirWest}},
	}
	if isStraightNS1x1(ew) {
		t.Fatalf("an E/W hallway must not qualify as straight N/S")
	}
}

func TestDeleteUnitsAndTrackDoorRemapsIndices(t *testing.T) {
	b := &Builder{
		rng:   rng.New(1),
		floor: &Floor{},
	}

	oneDoorUnit := func(x, z int) PlacedUnit {
		return PlacedUnit{
			Unit: caveinfo.CaveUnit{
				Width: 1, Height: 1, NumDoors: 1,
				Doors: []caveinfo.DoorDef{{Direction: caveinfo.DirNorth}},
			},
			X: x, Z: z,
		}
	}
	b.addUnit(oneDoorUnit(0, 0))
	b.addUnit(oneDoorUnit(1, 0))
	b.addUnit(oneDoorUnit(2, 0))
	trackedDoor := b.floor.Units[2].DoorIdx[0]

	newIdx := b.deleteUnitsAndTrackDoor([]int{0}, trackedDoor)
	if len(b.floor.Units) != 2 {
		t.Fatalf("expected 2 units left, got %d", len(b.floor.Units))
	}
	if newIdx < 0 || newIdx >= len(b.floor.Doors) {
		t.Fatalf("tracked door index not remapped into range: %d", newIdx)
	}
}

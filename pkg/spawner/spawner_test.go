package spawner

import (
	"testing"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
	"github.com/gocaveripper/cavegen/pkg/rng"
)

// oneRoomFloor builds a single placed unit with one of every spawn group
// this package cares about, for tests that don't need multiple units.
func oneRoomFloor() *cavelayout.Floor {
	return &cavelayout.Floor{
		Units: []cavelayout.PlacedUnit{
			{
				Unit: caveinfo.CaveUnit{
					RoomType: caveinfo.RoomTypeRoom,
					Doors:    []caveinfo.DoorDef{{Direction: caveinfo.DirNorth, Links: []caveinfo.DoorLink{}}},
				},
				DoorIdx: []int{0},
				SpawnPoints: []cavelayout.PlacedSpawnPoint{
					{Def: caveinfo.SpawnPointDef{Group: caveinfo.GroupShip}},
					{Def: caveinfo.SpawnPointDef{Group: caveinfo.GroupEasyTeki, MinNum: 1, MaxNum: 3, Radius: 50}},
				},
			},
		},
		Doors: []cavelayout.PlacedDoor{{ParentUnit: 0, DoorDefIdx: 0, AdjacentDoor: -1}},
	}
}

func TestPlaceShipDeterministic(t *testing.T) {
	floor1 := oneRoomFloor()
	floor2 := oneRoomFloor()

	s1 := &Spawner{rng: rng.New(42), info: &caveinfo.CaveInfo{}, floor: floor1}
	s1.placeShip()
	s2 := &Spawner{rng: rng.New(42), info: &caveinfo.CaveInfo{}, floor: floor2}
	s2.placeShip()

	if s1.shipUnitIdx != s2.shipUnitIdx {
		t.Fatalf("same seed produced different ship units: %d vs %d", s1.shipUnitIdx, s2.shipUnitIdx)
	}
	if floor1.StartSpawn == nil || floor1.StartSpawn.UnitIdx != 0 {
		t.Fatalf("expected StartSpawn to reference the only unit, got %+v", floor1.StartSpawn)
	}
}

func TestPlaceShipPanicsWithoutShipSpawn(t *testing.T) {
	floor := &cavelayout.Floor{Units: []cavelayout.PlacedUnit{{}}}
	s := &Spawner{rng: rng.New(1), info: &caveinfo.CaveInfo{}, floor: floor}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected placeShip to panic when no unit has a ship spawn point")
		}
	}()
	s.placeShip()
}

func TestPlaceSeamTekiAlwaysDrawsTekiEvenWhenNoSeamAvailable(t *testing.T) {
	// A floor with one DeadEnd unit only: no eligible (non-DeadEnd) door
	// seam exists, so the spot draw always fails, but the teki table draw
	// must still happen every iteration per the reference's RNG lockstep.
	floor := &cavelayout.Floor{
		Units: []cavelayout.PlacedUnit{
			{
				Unit:    caveinfo.CaveUnit{RoomType: caveinfo.RoomTypeDeadEnd, Doors: []caveinfo.DoorDef{{Direction: caveinfo.DirNorth}}},
				DoorIdx: []int{0},
			},
		},
		Doors:     []cavelayout.PlacedDoor{{ParentUnit: 0, DoorDefIdx: 0, AdjacentDoor: -1}},
		Allocated: [10]uint32{},
	}
	floor.Allocated[caveinfo.GroupSeamTeki] = 2

	info := &caveinfo.CaveInfo{
		TekiInfo: []caveinfo.TekiInfo{
			{InternalName: "seam-bug", Group: caveinfo.GroupSeamTeki, MinimumAmount: 0, FillerWeight: 1},
		},
	}

	rngA := rng.New(7)
	sA := &Spawner{rng: rngA, info: info, floor: floor}
	sA.placeSeamTeki()

	for _, d := range floor.Doors {
		if d.SeamSpawn != nil {
			t.Fatalf("expected no seam to be filled on a DeadEnd-only floor")
		}
	}

	// The spot draw over an empty candidate list consumes no RNG state,
	// but chooseRandTeki's filler-weight draw (nonzero weight sum) still
	// runs before the loop notices the spot failed and breaks -- exactly
	// one raw draw should separate the fresh seed from the post-call
	// state.
	rngB := rng.New(7)
	rngB.RandIndexWeight([]uint32{1})
	if rngA.RandRaw() != rngB.RandRaw() {
		t.Fatalf("expected placeSeamTeki to have drawn the teki table once even though the spot pick failed")
	}
}

func TestPlaceGroupEasyBunchSizeAndKind(t *testing.T) {
	floor := oneRoomFloor()
	floor.StartSpawn = &cavelayout.SpawnRef{UnitIdx: 0, SpawnIdx: 0}
	floor.Allocated[caveinfo.GroupEasyTeki] = 1
	floor.MinTeki0 = 1

	info := &caveinfo.CaveInfo{
		MaxMainObjects: 10,
		TekiInfo: []caveinfo.TekiInfo{
			{InternalName: "easy-bug", Group: caveinfo.GroupEasyTeki, MinimumAmount: 3, FillerWeight: 1},
		},
	}

	floor.Units[0].SpawnPoints[1].WorldX = 500

	s := &Spawner{rng: rng.New(99), info: info, floor: floor}
	s.placeGroupEasy()

	sp := &floor.Units[0].SpawnPoints[1]
	if len(sp.Contains) == 0 {
		t.Fatalf("expected a bunch of easy teki to be placed")
	}
	if len(sp.Contains) < sp.Def.MinNum || len(sp.Contains) > sp.Def.MaxNum {
		t.Fatalf("bunch size %d outside [%d,%d]", len(sp.Contains), sp.Def.MinNum, sp.Def.MaxNum)
	}
	for _, obj := range sp.Contains {
		if obj.Kind != cavelayout.SpawnTeki || obj.Teki == nil {
			t.Fatalf("expected every bunch member to be a placed teki, got %+v", obj)
		}
	}
}

func TestRepelOffsetsSeparatesClosePairs(t *testing.T) {
	offsets := [][2]float64{{0, 0}, {1, 0}}
	repelOffsets(offsets, 5, 35)

	dx := offsets[1][0] - offsets[0][0]
	dz := offsets[1][1] - offsets[0][1]
	dist := dx*dx + dz*dz
	if dist < 1 {
		t.Fatalf("expected repulsion to increase separation, got squared dist %v", dist)
	}
}

func TestChooseRandCapTekiDrawsRawOnEmptyTable(t *testing.T) {
	info := &caveinfo.CaveInfo{}
	rngA := rng.New(3)
	s := &Spawner{rng: rngA, info: info, floor: &cavelayout.Floor{}}

	_, ok := s.chooseRandCapTeki(0)
	if ok {
		t.Fatalf("expected no cap-teki to be chosen from an empty table")
	}

	rngB := rng.New(3)
	rngB.RandRaw()
	want := rngB.RandRaw()
	got := rngA.RandRaw()
	if got != want {
		t.Fatalf("expected chooseRandCapTeki to have consumed exactly one RandRaw on empty table; next draw = %v, want %v", got, want)
	}
}

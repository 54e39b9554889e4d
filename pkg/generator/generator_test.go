package generator

import (
	"context"
	"testing"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/validation"
)

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

func testInfo() *caveinfo.CaveInfo {
	return &caveinfo.CaveInfo{
		Name:           "test01",
		MaxMainObjects: 0,
		MaxTreasures:   0,
		MaxGates:       0,
		NumRooms:       1,
		CapProbability: 1,
		Units:          []caveinfo.CaveUnit{shipRoom()},
	}
}

func TestGenerateProducesAValidatedFloor(t *testing.T) {
	info := testInfo()
	res, err := Generate(context.Background(), 777, info, "test:1")
	if err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	if res.Floor == nil || res.Graph == nil {
		t.Fatalf("expected both a floor and a waypoint graph")
	}
	if res.Graph.ShipNode() < 0 {
		t.Fatalf("expected a resolved ship node in the waypoint graph")
	}

	report := validation.CheckFloor(res.Floor, info)
	if !report.Passed {
		t.Fatalf("expected a valid floor: %s", validation.Summary(report))
	}
}

func TestGenerateDeterministicForSameSeed(t *testing.T) {
	info := testInfo()
	a, err := Generate(context.Background(), 42, info, "test:1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(context.Background(), 42, info, "test:1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(a.Floor.Units) != len(b.Floor.Units) {
		t.Fatalf("expected identical unit counts for the same seed")
	}
}

func TestGenerateHonorsCancellation(t *testing.T) {
	info := testInfo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, 1, info, "test:1")
	if err == nil {
		t.Fatalf("expected a cancellation error")
	}
}

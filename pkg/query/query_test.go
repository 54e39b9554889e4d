package query

import (
	"context"
	"testing"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/generator"
)

func mustGenerate(t *testing.T, seed uint32, info *caveinfo.CaveInfo) *generator.Result {
	t.Helper()
	res, err := generator.Generate(context.Background(), seed, info, "test:1")
	if err != nil {
		t.Fatalf("generator.Generate(%d): %v", seed, err)
	}
	return res
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
			{Group: caveinfo.GroupEasyTeki, X: 500, MinNum: 1, MaxNum: 1, Radius: 50},
		},
	}
}

func testInfo() *caveinfo.CaveInfo {
	return &caveinfo.CaveInfo{
		Name:           "test01",
		MaxMainObjects: 1,
		NumRooms:       1,
		CapProbability: 1,
		TekiInfo: []caveinfo.TekiInfo{
			{InternalName: "king_chappy", MinimumAmount: 1, FillerWeight: 1, Group: caveinfo.GroupEasyTeki},
		},
		Units: []caveinfo.CaveUnit{shipRoom()},
	}
}

func TestParseRejectsUnknownClause(t *testing.T) {
	if _, err := Parse("test:1", []string{"frobnicate ship"}); err == nil {
		t.Fatalf("expected an error for an unknown clause keyword")
	}
}

func TestParseRejectsBadRelation(t *testing.T) {
	if _, err := Parse("test:1", []string{"count entity king_chappy ~~ 1"}); err == nil {
		t.Fatalf("expected an error for a malformed relation")
	}
}

func TestParseCountEntityClause(t *testing.T) {
	q, err := Parse("test:1", []string{"count entity king_chappy = 1"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(q.Clauses) != 1 {
		t.Fatalf("expected exactly one clause, got %d", len(q.Clauses))
	}
	c, ok := q.Clauses[0].(*countEntityClause)
	if !ok {
		t.Fatalf("expected a *countEntityClause, got %T", q.Clauses[0])
	}
	if c.match.token != "king_chappy" || c.rel != RelEq || c.n != 1 {
		t.Fatalf("unexpected clause fields: %+v", c)
	}
}

func TestParseRoomPathClause(t *testing.T) {
	q, err := Parse("test:1", []string{"room_path room+ship -> hallway+king_chappy"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, ok := q.Clauses[0].(*roomPathClause)
	if !ok {
		t.Fatalf("expected a *roomPathClause, got %T", q.Clauses[0])
	}
	if len(c.steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(c.steps))
	}
	if c.steps[0].unit.token != "room" || c.steps[0].entities[0].token != "ship" {
		t.Fatalf("unexpected step 0: %+v", c.steps[0])
	}
	if c.steps[1].unit.token != "hallway" || c.steps[1].entities[0].token != "king_chappy" {
		t.Fatalf("unexpected step 1: %+v", c.steps[1])
	}
}

func TestSearchFindsMatchingSeeds(t *testing.T) {
	info := testInfo()
	q, err := Parse("test:1", []string{"count entity king_chappy = 1"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	matches := Search(context.Background(), info, 0, 50, q, SearchOptions{Workers: 4})
	if len(matches) != 50 {
		t.Fatalf("expected every seed in [0,50) to place its sole, mandatory king_chappy, got %d matches", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i] <= matches[i-1] {
			t.Fatalf("expected strictly ascending matches, got %v", matches)
		}
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	info := testInfo()
	q, err := Parse("test:1", []string{"count room room >= 0"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	matches := Search(context.Background(), info, 0, 200, q, SearchOptions{Workers: 4, Limit: 3})
	if len(matches) > 3 {
		t.Fatalf("expected at most 3 matches, got %d", len(matches))
	}
}

func TestGatedClauseIsSymmetricNegation(t *testing.T) {
	info := testInfo()
	gated, err := Parse("test:1", []string{"gated king_chappy"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	notGated, err := Parse("test:1", []string{"not_gated king_chappy"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for seed := uint32(0); seed < 20; seed++ {
		res := mustGenerate(t, seed, info)
		if gated.Matches(res) == notGated.Matches(res) {
			t.Fatalf("seed %d: gated and not_gated agree, expected exact negation", seed)
		}
	}
}

package caveinfo

import "testing"

func TestSortCaveUnitsNonDecreasing(t *testing.T) {
	units := []CaveUnit{
		{Name: "c", Width: 2, Height: 2, NumDoors: 3},
		{Name: "a", Width: 1, Height: 1, NumDoors: 1},
		{Name: "b", Width: 1, Height: 2, NumDoors: 2},
		{Name: "d", Width: 1, Height: 1, NumDoors: 4},
	}
	sorted := SortCaveUnits(units)
	for i := 1; i < len(sorted); i++ {
		a1, a2 := sorted[i-1].sortKey()
		b1, b2 := sorted[i].sortKey()
		if a1 > b1 || (a1 == b1 && a2 > b2) {
			t.Fatalf("sort not non-decreasing at %d: (%d,%d) then (%d,%d)", i, a1, a2, b1, b2)
		}
	}
}

func TestExpandRotationsCount(t *testing.T) {
	units := []CaveUnit{{Name: "room1", Width: 2, Height: 3, NumDoors: 1,
		Doors: []DoorDef{{Direction: DirNorth, SideLateralOffset: 1}}}}
	expanded := ExpandRotations(units)
	if len(expanded) != 4 {
		t.Fatalf("expected 4 rotations, got %d", len(expanded))
	}
	if expanded[1].Width != units[0].Height || expanded[1].Height != units[0].Width {
		t.Fatalf("rotation 1 should swap width/height, got %dx%d", expanded[1].Width, expanded[1].Height)
	}
	if expanded[1].Doors[0].Direction != DirEast {
		t.Fatalf("door direction after 1 rotation = %v, want East", expanded[1].Doors[0].Direction)
	}
}

func TestParseTruncatedFloat(t *testing.T) {
	cases := map[string]float64{
		"5.6.0000": 5.6,
		"1.25":     1.25,
		"3":        3,
	}
	for in, want := range cases {
		got, err := ParseTruncatedFloat(in)
		if err != nil {
			t.Fatalf("ParseTruncatedFloat(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseTruncatedFloat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAmountCode(t *testing.T) {
	min, weight, err := AmountCode(GroupEasyTeki, "53")
	if err != nil || min != 5 || weight != 3 {
		t.Fatalf("AmountCode(0,\"53\") = %d,%d,%v", min, weight, err)
	}
	min, weight, err = AmountCode(GroupEasyTeki, "3")
	if err != nil || min != 0 || weight != 3 {
		t.Fatalf("AmountCode(0,\"3\") = %d,%d,%v", min, weight, err)
	}
	min, weight, err = AmountCode(GroupPlant, "7")
	if err != nil || min != 7 || weight != 0 {
		t.Fatalf("AmountCode(6,\"7\") = %d,%d,%v", min, weight, err)
	}
}

func TestSpawnMethodAndName(t *testing.T) {
	method, name := SpawnMethodAndName("$2Chappy")
	if method != "2" || name != "Chappy" {
		t.Fatalf("got %q,%q", method, name)
	}
	method, name = SpawnMethodAndName("Chappy")
	if method != "" || name != "Chappy" {
		t.Fatalf("got %q,%q", method, name)
	}
}

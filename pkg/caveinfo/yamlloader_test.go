package caveinfo

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
game: test
cave: SC
floor: 1
info:
  name: SCx1
  max_main_objects: 0
  num_rooms: 1
  cap_probability: 1
  units:
    - name: ship_room
      width: 1
      height: 1
      room_type: 0
      num_doors: 1
      doors:
        - direction: 0
      spawn_points:
        - group: 7
`

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scx1.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewStaticLoader()
	cfg, err := l.LoadYAMLFile(path)
	if err != nil {
		t.Fatalf("LoadYAMLFile: %v", err)
	}
	if cfg.GameID != "test" || cfg.CaveName != "SC" || cfg.Floor != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.Info.Units) != 4 || cfg.Info.Units[0].Name != "ship_room" {
		t.Fatalf("unexpected units: %+v", cfg.Info.Units)
	}

	got, err := l.GetCaveInfo(cfg.Key())
	if err != nil {
		t.Fatalf("GetCaveInfo: %v", err)
	}
	if got != cfg {
		t.Fatalf("expected GetCaveInfo to return the same config that was loaded")
	}
}

func TestLoadYAMLFileMissingPath(t *testing.T) {
	l := NewStaticLoader()
	if _, err := l.LoadYAMLFile("/nonexistent/path.yaml"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestResolveCombinedNames(t *testing.T) {
	info := &CaveInfo{
		TekiInfo: []TekiInfo{
			{InternalName: "chappy"},
			{InternalName: "chappy_lustrouselement"},
		},
		ItemInfo: []ItemInfo{
			{InternalName: "lustrouselement"},
		},
	}
	resolveCombinedNames(info)

	if got := info.TekiInfo[0]; got.InternalName != "chappy" || got.CarriedTreasure != "" {
		t.Fatalf("unambiguous teki name should be untouched, got %+v", got)
	}
	got := info.TekiInfo[1]
	if got.InternalName != "chappy" || got.CarriedTreasure != "lustrouselement" {
		t.Fatalf("expected combined identifier to resolve to teki+treasure, got %+v", got)
	}
}

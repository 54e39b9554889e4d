package caveinfo

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gocaveripper/cavegen/pkg/catalog"
	"github.com/gocaveripper/cavegen/pkg/caverr"
)

// yamlCaveInfo is the UTF-8 YAML document shape for a single sublevel,
// a stand-in for the real game's Shift-JIS CaveInfo/unit/layout/route/
// waterbox file grammar (§6), which remains the external loader's job
// (§1 Non-goals). It exists for tests and for community cave sets that
// don't need byte-exact replication of the original binary catalogs.
type yamlCaveInfo struct {
	Game  string   `yaml:"game"`
	Cave  string   `yaml:"cave"`
	Floor int      `yaml:"floor"`
	Info  CaveInfo `yaml:"info"`
}

// LoadYAMLFile reads one sublevel's CaveInfo from a YAML document at
// path and registers it with l under its "game/cave/floor" key. The
// document's Units are expanded into their four rotations and sorted the
// way the real loader would sort them off disk (§3 invariant 7) before
// the CaveInfo is usable by pkg/cavelayout.
func (l *StaticLoader) LoadYAMLFile(path string) (*SublevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &caverr.AssetLoadingError{Path: path, Err: err}
	}

	var doc yamlCaveInfo
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &caverr.CaveinfoError{File: path, Err: fmt.Errorf("yaml: %w", err)}
	}

	doc.Info.Units = SortCaveUnits(ExpandRotations(doc.Info.Units))
	resolveCombinedNames(&doc.Info)
	if err := doc.Info.Validate(); err != nil {
		return nil, &caverr.CaveinfoError{File: path, Err: err}
	}

	cfg := &SublevelConfig{GameID: doc.Game, CaveName: doc.Cave, Floor: doc.Floor, Info: &doc.Info}
	l.Put(cfg.Key(), cfg)
	return cfg, nil
}

// buildCatalog collects the unambiguous (non-combined) teki and treasure
// names already present in info into a Catalog, for resolving any
// remaining combined identifiers against.
func buildCatalog(info *CaveInfo) *catalog.Catalog {
	cat := catalog.New()
	for _, t := range info.TekiInfo {
		if t.InternalName != "" && !strings.Contains(t.InternalName, "_") {
			cat.AddTeki(t.InternalName)
		}
	}
	for _, t := range info.CapInfo {
		if t.InternalName != "" && !strings.Contains(t.InternalName, "_") {
			cat.AddTeki(t.InternalName)
		}
	}
	for _, it := range info.ItemInfo {
		if it.InternalName != "" {
			cat.AddTreasure(it.InternalName)
		}
	}
	return cat
}

// resolveCombinedNames fills in CarriedTreasure for any teki/cap entry
// whose InternalName is still a combined "<teki>_<treasure>" identifier
// (§4.B), by looking up the unique decomposition against a catalog built
// from info's own unambiguous entries. Entries with no unique
// decomposition are left as-is; community YAML cave sets are expected to
// spell out internal_name/carried_treasure separately and rarely hit
// this path, but text catalogs (§6) reproduce the original combined
// grammar and need it.
func resolveCombinedNames(info *CaveInfo) {
	cat := buildCatalog(info)
	resolve := func(t *TekiInfo) {
		if t.CarriedTreasure != "" || !strings.Contains(t.InternalName, "_") {
			return
		}
		if teki, treasure, ok := cat.Resolve(t.InternalName); ok {
			t.InternalName = teki
			t.CarriedTreasure = treasure
		}
	}
	for i := range info.TekiInfo {
		resolve(&info.TekiInfo[i])
	}
	for i := range info.CapInfo {
		resolve(&info.CapInfo[i])
	}
}

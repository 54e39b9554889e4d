// Package slug serializes a generated floor into a canonical string used
// for seed-equivalence testing (§8 test 8): two floors generated from the
// same (sublevel, seed) must render byte-identical slugs, and a change
// anywhere in the generator that alters placement or spawns shows up as
// a diff here.
//
// The writer shape -- a strings.Builder fed by small single-purpose
// Fprintf calls -- follows the teacher's pkg/export (json.go/svg.go): one
// function per artifact section, assembled by a single top-level Slug
// call, rather than a templating engine.
package slug

import (
	"fmt"
	"strings"

	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// Slug renders floor's canonical serialization: one line per placed
// unit (folder, grid position, rotation), then one line per spawn object
// in unit/spawn-point order (kind; a teki's carried treasure, or else the
// teki, item or gate internal name; spawn method, or gate rotation; world
// position), then one line per door seam object. Unit and spawn point
// order is exactly floor.Units/SpawnPoints order, which is itself
// deterministic for a given seed -- no sorting is applied here, since
// sorting would hide a genuine placement-order regression instead of
// catching it.
func Slug(floor *cavelayout.Floor) string {
	var b strings.Builder
	writeUnits(&b, floor)
	writeSpawnObjects(&b, floor)
	writeSeamObjects(&b, floor)
	return b.String()
}

func writeUnits(b *strings.Builder, floor *cavelayout.Floor) {
	for _, u := range floor.Units {
		fmt.Fprintf(b, "unit %s %d %d r%d\n", u.Unit.Name, u.X, u.Z, u.Unit.Rotation)
	}
}

func writeSpawnObjects(b *strings.Builder, floor *cavelayout.Floor) {
	for unitIdx, u := range floor.Units {
		for spIdx, sp := range u.SpawnPoints {
			base := [3]float64{sp.WorldX, sp.WorldY, sp.WorldZ}
			for _, obj := range sp.Contains {
				fmt.Fprintf(b, "spawn %d.%d %s\n", unitIdx, spIdx, objectFields(obj, base))
			}
		}
	}
}

func writeSeamObjects(b *strings.Builder, floor *cavelayout.Floor) {
	for i, d := range floor.Doors {
		if d.SeamSpawn == nil {
			continue
		}
		// Seam objects are shared between both mirrored doors; emit from
		// the lower-indexed door only so the slug doesn't double-count.
		if d.AdjacentDoor != -1 && d.AdjacentDoor < i {
			continue
		}
		base := [3]float64{float64(d.X) * gridCellUnits, 0, float64(d.Z) * gridCellUnits}
		fmt.Fprintf(b, "seam %d %s\n", i, objectFields(*d.SeamSpawn, base))
	}
}

// gridCellUnits mirrors cavelayout's own copy (§6 coordinate
// conventions), needed here only to place a door seam object's world
// position in the slug.
const gridCellUnits = 170.0

func objectFields(obj cavelayout.SpawnObject, base [3]float64) string {
	kind := kindName(obj.Kind)
	carried := "-"
	method := "-"
	x, y, z := base[0], base[1], base[2]

	switch obj.Kind {
	case cavelayout.SpawnTeki, cavelayout.SpawnCapTeki:
		if obj.Teki != nil {
			if obj.Teki.CarriedTreasure != "" {
				carried = obj.Teki.CarriedTreasure
			} else {
				carried = obj.Teki.InternalName
			}
			if obj.Teki.SpawnMethod != "" {
				method = obj.Teki.SpawnMethod
			}
		}
		x += obj.TekiOffset[0]
		z += obj.TekiOffset[1]
	case cavelayout.SpawnItem:
		if obj.Item != nil {
			carried = obj.Item.InternalName
		}
	case cavelayout.SpawnGate:
		if obj.Gate != nil {
			carried = obj.Gate.InternalName
		}
		method = fmt.Sprintf("rot%d", obj.GateRotation)
	}

	return fmt.Sprintf("%s %s %s %g,%g,%g", kind, carried, method, x, y, z)
}

func kindName(k cavelayout.SpawnObjectKind) string {
	switch k {
	case cavelayout.SpawnTeki:
		return "teki"
	case cavelayout.SpawnCapTeki:
		return "capteki"
	case cavelayout.SpawnItem:
		return "item"
	case cavelayout.SpawnGate:
		return "gate"
	case cavelayout.SpawnHole:
		return "hole"
	case cavelayout.SpawnGeyser:
		return "geyser"
	case cavelayout.SpawnShip:
		return "ship"
	default:
		return "unknown"
	}
}

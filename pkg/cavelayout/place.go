package cavelayout

import "github.com/gocaveripper/cavegen/pkg/caveinfo"

// tryPlaceUnitAt attempts to attach newUnit to destDoor via
// newUnit.Doors[doorIndex]. It orients the candidate so the chosen door
// faces destDoor, rejects on any overlap with already-placed units, then
// enforces the "open space in front" rule both ways (§4.C
// try_place_unit_at). On success it adds the unit to the arena and
// returns its index; no RNG is consumed by this function itself.
func (b *Builder) tryPlaceUnitAt(destDoorIdx int, newUnit caveinfo.CaveUnit, doorIndex int) (int, bool) {
	destDoor := b.floor.Doors[destDoorIdx]
	newDoorDef := newUnit.Doors[doorIndex]

	if !(caveinfo.DoorDef{Direction: destDoor.Direction}).Facing(newDoorDef) {
		return 0, false
	}

	var cx, cz int
	switch newDoorDef.Direction {
	case caveinfo.DirNorth:
		cx = destDoor.X - newDoorDef.SideLateralOffset
		cz = destDoor.Z
	case caveinfo.DirEast:
		cx = destDoor.X - newUnit.Width
		cz = destDoor.Z - newDoorDef.SideLateralOffset
	case caveinfo.DirSouth:
		cx = destDoor.X - newDoorDef.SideLateralOffset
		cz = destDoor.Z - newUnit.Height
	case caveinfo.DirWest:
		cx = destDoor.X
		cz = destDoor.Z - newDoorDef.SideLateralOffset
	}

	candidate := PlacedUnit{Unit: newUnit, X: cx, Z: cz}

	for i := range b.floor.Units {
		if candidate.overlaps(&b.floor.Units[i]) {
			return 0, false
		}
	}

	// Open-space-in-front rule, both directions: for every door of the
	// candidate that doesn't line up with an existing open door, the
	// cell immediately in front of it must be empty; symmetrically for
	// every existing open door against the candidate's footprint.
	openDoors := b.floor.OpenDoors()
	for i, dd := range newUnit.Doors {
		if i == doorIndex {
			continue
		}
		dx, dz := doorCell(candidate, dd)
		linesUp := false
		for _, odIdx := range openDoors {
			od := b.floor.Doors[odIdx]
			if od.X == dx && od.Z == dz && od.Direction == dd.Direction.Opposite() {
				linesUp = true
				break
			}
		}
		if linesUp {
			continue
		}
		fx, fz := frontCell(dx, dz, dd.Direction)
		if b.cellOccupiedByAny(fx, fz, nil) {
			return 0, false
		}
	}
	for _, odIdx := range openDoors {
		if odIdx == destDoorIdx {
			continue
		}
		od := b.floor.Doors[odIdx]
		fx, fz := frontCell(od.X, od.Z, od.Direction)
		if cellInBox(fx, fz, candidate.X, candidate.Z, candidate.Unit.Width, candidate.Unit.Height) {
			return 0, false
		}
	}

	unitIdx := b.addUnit(candidate)
	return unitIdx, true
}

// frontCell returns the grid cell immediately in front of a door. East-
// and South-facing door coordinates are already one cell outside the
// unit's footprint (see doorCell), so only North/West need to step back
// one more cell; East/South are returned unchanged.
func frontCell(x, z int, dir caveinfo.Direction) (int, int) {
	switch dir {
	case caveinfo.DirNorth:
		return x, z - 1
	case caveinfo.DirEast:
		return x, z
	case caveinfo.DirSouth:
		return x, z
	case caveinfo.DirWest:
		return x - 1, z
	}
	panic("invalid door direction")
}

func cellInBox(x, z, bx, bz, w, h int) bool {
	return x >= bx && x < bx+w && z >= bz && z < bz+h
}

// cellOccupiedByAny reports whether (x,z) falls inside any placed unit's
// footprint, optionally excluding one unit index.
func (b *Builder) cellOccupiedByAny(x, z int, exclude *int) bool {
	for i := range b.floor.Units {
		if exclude != nil && i == *exclude {
			continue
		}
		u := &b.floor.Units[i]
		if cellInBox(x, z, u.X, u.Z, u.Unit.Width, u.Unit.Height) {
			return true
		}
	}
	return false
}

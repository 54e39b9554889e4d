package cavelayout

import "github.com/gocaveripper/cavegen/pkg/caveinfo"

// snakingPriority reproduces the reference's corridor "snaking" direction
// table verbatim (§4.C-1). Given the source door's direction, the deltas
// to the chosen link door, and the link door's own direction, it returns
// the direction the new hallway's second door should prefer to face so
// the corridor curls toward the target. This table has no simpler closed
// form that has been found to exactly reproduce the reference; it must be
// copied as-is (§9).
func snakingPriority(sourceDir caveinfo.Direction, dx, dz int, linkDoorDir caveinfo.Direction) caveinfo.Direction {
	switch sourceDir {
	case caveinfo.DirNorth:
		if dz > -2 {
			if dx >= 0 {
				return caveinfo.DirEast
			}
			return caveinfo.DirWest
		}
		switch {
		case dx < -1:
			return caveinfo.DirWest
		case dx == -1:
			if linkDoorDir == caveinfo.DirSouth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirWest
			}
			return caveinfo.DirNorth
		case dx == 0:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirWest
			}
			return caveinfo.DirNorth
		case dx == 1:
			if linkDoorDir == caveinfo.DirEast || linkDoorDir == caveinfo.DirSouth {
				return caveinfo.DirEast
			}
			return caveinfo.DirNorth
		default: // dx > 1
			return caveinfo.DirEast
		}

	case caveinfo.DirEast:
		if dx == 0 {
			if dz > 0 {
				return caveinfo.DirSouth
			}
			return caveinfo.DirNorth
		}
		switch {
		case dz < -1:
			return caveinfo.DirNorth
		case dz == -1:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirNorth
			}
			return caveinfo.DirEast
		case dz == 0:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirEast {
				return caveinfo.DirNorth
			}
			return caveinfo.DirEast
		case dz == 1:
			if linkDoorDir == caveinfo.DirSouth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirSouth
			}
			return caveinfo.DirEast
		default: // dz > 1
			return caveinfo.DirSouth
		}

	case caveinfo.DirSouth:
		if dz == 0 {
			if dx > 0 {
				return caveinfo.DirEast
			}
			return caveinfo.DirWest
		}
		switch {
		case dx < -1:
			return caveinfo.DirWest
		case dx == -1:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirWest
			}
			return caveinfo.DirSouth
		case dx == 0:
			if linkDoorDir == caveinfo.DirSouth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirWest
			}
			return caveinfo.DirSouth
		case dx == 1:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirEast {
				return caveinfo.DirEast
			}
			return caveinfo.DirSouth
		default: // dx > 1
			return caveinfo.DirEast
		}

	case caveinfo.DirWest:
		if dx > -2 {
			if dz > 0 {
				return caveinfo.DirSouth
			}
			return caveinfo.DirNorth
		}
		switch {
		case dz < -1:
			return caveinfo.DirNorth
		case dz == -1:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirEast {
				return caveinfo.DirNorth
			}
			return caveinfo.DirWest
		case dz == 0:
			if linkDoorDir == caveinfo.DirNorth || linkDoorDir == caveinfo.DirWest {
				return caveinfo.DirNorth
			}
			return caveinfo.DirWest
		case dz == 1:
			if linkDoorDir == caveinfo.DirEast || linkDoorDir == caveinfo.DirSouth {
				return caveinfo.DirSouth
			}
			return caveinfo.DirWest
		default: // dz > 1
			return caveinfo.DirSouth
		}
	}
	panic("invalid direction in hallway snaking")
}

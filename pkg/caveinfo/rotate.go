package caveinfo

// gridCellUnits is the world-unit size of one grid cell (§6 coordinate
// conventions).
const gridCellUnits = 170.0

// ExpandRotations clones each unit in units into its four rotations
// (0..3), in that order, per §4.B / §6. The loader is expected to call
// this once at load time; the placer never rotates at placement time.
func ExpandRotations(units []CaveUnit) []CaveUnit {
	out := make([]CaveUnit, 0, len(units)*4)
	for _, u := range units {
		for r := 0; r < 4; r++ {
			out = append(out, rotateUnit(u, r))
		}
	}
	return out
}

// rotateUnit returns a copy of u rotated by r quarter-turns, per the
// rotation formulas of §6: width/height swap on odd r; a door's
// side_lateral_offset is reflected when (dir in {N,S} and r in {2,3}) or
// (dir in {E,W} and r in {1,2}); door direction becomes (dir+r) mod 4;
// waypoints and waterboxes rotate around the unit's center.
func rotateUnit(u CaveUnit, r int) CaveUnit {
	out := u
	out.Rotation = r
	if r%2 == 1 {
		out.Width, out.Height = u.Height, u.Width
	}

	out.Doors = make([]DoorDef, len(u.Doors))
	for i, d := range u.Doors {
		nd := d
		reflect := false
		switch d.Direction {
		case DirNorth, DirSouth:
			reflect = r == 2 || r == 3
		case DirEast, DirWest:
			reflect = r == 1 || r == 2
		}
		if reflect {
			span := u.Width
			if d.Direction == DirEast || d.Direction == DirWest {
				span = u.Height
			}
			nd.SideLateralOffset = span - 1 - d.SideLateralOffset
		}
		nd.Direction = Direction((int(d.Direction) + r) % 4)
		out.Doors[i] = nd
	}

	centerX := float64(u.Width) * gridCellUnits / 2
	centerZ := float64(u.Height) * gridCellUnits / 2

	out.Waypoints = make([]WaypointDef, len(u.Waypoints))
	for i, wp := range u.Waypoints {
		nx, nz := rotatePoint(wp.X, wp.Z, centerX, centerZ, r)
		nwp := wp
		nwp.X, nwp.Z = nx, nz
		out.Waypoints[i] = nwp
	}

	out.SpawnPoints = make([]SpawnPointDef, len(u.SpawnPoints))
	for i, sp := range u.SpawnPoints {
		nx, nz := rotatePoint(sp.X, sp.Z, centerX, centerZ, r)
		nsp := sp
		nsp.X, nsp.Z = nx, nz
		out.SpawnPoints[i] = nsp
	}

	out.Waterboxes = make([]Waterbox, len(u.Waterboxes))
	for i, wb := range u.Waterboxes {
		x1, z1 := rotatePoint(wb.X1, wb.Z1, centerX, centerZ, r)
		x2, z2 := rotatePoint(wb.X2, wb.Z2, centerX, centerZ, r)
		nwb := wb
		nwb.X1, nwb.Z1 = x1, z1
		nwb.X2, nwb.Z2 = x2, z2
		out.Waterboxes[i] = nwb
	}

	return out
}

// rotatePoint rotates (x,z) around (cx,cz) by r quarter-turns clockwise.
func rotatePoint(x, z, cx, cz float64, r int) (float64, float64) {
	for i := 0; i < r; i++ {
		x, z = cx-(z-cz), cz+(x-cx)
	}
	return x, z
}

package caveinfo

// SortCaveUnits reproduces the reference's unstable bubble-sort variant
// exactly. It is NOT equivalent to a standard bubble sort: instead of
// comparing adjacent elements, it compares the element at i against every
// remaining element; on the first inversion found it removes that
// element and re-appends it at the back of the slice, then decrements i
// and restarts the inner scan from i+1. A stable sort, or any other
// unstable sort, silently diverges from the reference here -- this
// function exists specifically to avoid that trap (see DESIGN.md).
func SortCaveUnits(units []CaveUnit) []CaveUnit {
	out := append([]CaveUnit(nil), units...)
	i := 0
	for i < len(out) {
		j := i + 1
		for j < len(out) {
			if !out[j].Less(out[i]) {
				// out[i] <= out[j]: no inversion, keep scanning
				j++
				continue
			}
			current := out[i]
			out = append(out[:i], out[i+1:]...)
			out = append(out, current)
			i--
			break
		}
		i++
	}
	return out
}

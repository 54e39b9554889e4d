package waypoint

import "math"

// edgeDistance projects p onto the segment from a to b, clamped to the
// segment, then subtracts the nearer endpoint's radius from the result
// (§4.F "segment-distance-with-radius metric"). Returns the corrected
// distance and which endpoint the clamped projection landed nearest to.
func edgeDistance(p [3]float64, a, b Node) (dist float64, nearEnd Node) {
	ax, ay, az := a.X, a.Y, a.Z
	bx, by, bz := b.X, b.Y, b.Z
	abx, aby, abz := bx-ax, by-ay, bz-az
	lenSq := abx*abx + aby*aby + abz*abz

	var t float64
	if lenSq > 0 {
		apx, apy, apz := p[0]-ax, p[1]-ay, p[2]-az
		t = (apx*abx + apy*aby + apz*abz) / lenSq
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	closest := [3]float64{ax + t*abx, ay + t*aby, az + t*abz}
	d := euclidean(p, closest)

	nearEnd = a
	if t > 0.5 {
		nearEnd = b
	}
	d -= nearEnd.R
	if d < 0 {
		d = 0
	}
	return d, nearEnd
}

// ClosestEntry finds the node, among every edge in the original graph,
// whose segment lies nearest p under the radius-corrected metric, and
// returns the nearer endpoint of that edge as the entry point into the
// carry path.
func (g *Graph) ClosestEntry(p [3]float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for u, edges := range g.Edges {
		for _, e := range edges {
			d, near := edgeDistance(p, g.Nodes[u], g.Nodes[e.To])
			if d < bestDist {
				bestDist = d
				if near.UnitIdx == g.Nodes[u].UnitIdx && near.WaypointIdx == g.Nodes[u].WaypointIdx {
					best = u
				} else {
					best = e.To
				}
			}
		}
	}
	if best < 0 {
		return -1, false
	}
	return best, true
}

// CarryPath returns the sequence of world positions a treasure at p would
// be hauled through en route to the ship, following backlinks from the
// nearest edge's entry node, de-duplicating consecutive coincident
// positions (§4.F).
func (g *Graph) CarryPath(p [3]float64) [][3]float64 {
	entry, ok := g.ClosestEntry(p)
	if !ok {
		return nil
	}

	var path [][3]float64
	cur := entry
	for cur != -1 {
		pos := g.Nodes[cur].pos()
		if len(path) == 0 || path[len(path)-1] != pos {
			path = append(path, pos)
		}
		if cur == g.shipNode {
			break
		}
		cur = g.Backlink(cur)
	}
	return path
}

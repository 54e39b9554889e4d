// Package waypoint builds the post-placement connectivity graph used for
// carry-path queries (§4.F): every placed unit's local waypoints become
// world-space nodes, intra-unit links become directed weighted edges, and
// each adjacent door pair joins the units' waypoint graphs with one
// directed edge in each direction between the two doors' waypoints.
//
// The container shape follows the teacher's pkg/graph (adjacency-list
// Graph with an id-indexed node/edge store), generalized from its
// unweighted BFS to a weighted Dijkstra since carry distance is a real
// metric, not a hop count.
package waypoint

import (
	"math"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
)

// gridCellUnits mirrors cavelayout's own copy (§6 coordinate
// conventions); kept independent since waypoint has no dependency on
// cavelayout's unexported internals.
const gridCellUnits = 170.0

// Node is one waypoint, translated into world space.
type Node struct {
	UnitIdx, WaypointIdx int
	X, Y, Z              float64
	R                     float64
}

func (n Node) pos() [3]float64 { return [3]float64{n.X, n.Y, n.Z} }

// Edge is a directed, weighted connection between two nodes (by index
// into Graph.Nodes).
type Edge struct {
	To     int
	Weight float64
}

// Graph is the world-space waypoint graph for one placed floor.
type Graph struct {
	Nodes []Node
	Edges [][]Edge // Edges[i] = outgoing edges from Nodes[i], original (undisturbed) graph

	shipNode int
	backlink []int // backlink[i] = node index toward ship after Dijkstra, or -1
}

// Build constructs the waypoint graph for a fully spawned floor. It does
// not run Dijkstra; call DistanceToShip for that.
func Build(floor *cavelayout.Floor) *Graph {
	g := &Graph{shipNode: -1}

	nodeIndex := make(map[[2]int]int) // (unitIdx, waypointIdx) -> node index
	for unitIdx, u := range floor.Units {
		for wpIdx, wp := range u.Unit.Waypoints {
			idx := len(g.Nodes)
			g.Nodes = append(g.Nodes, Node{
				UnitIdx:     unitIdx,
				WaypointIdx: wpIdx,
				X:           wp.X + float64(u.X)*gridCellUnits,
				Y:           wp.Y,
				Z:           wp.Z + float64(u.Z)*gridCellUnits,
				R:           wp.R,
			})
			nodeIndex[[2]int{unitIdx, wpIdx}] = idx
		}
	}
	g.Edges = make([][]Edge, len(g.Nodes))

	for unitIdx, u := range floor.Units {
		for wpIdx, wp := range u.Unit.Waypoints {
			from := nodeIndex[[2]int{unitIdx, wpIdx}]
			for _, linkIdx := range wp.Links {
				to, ok := nodeIndex[[2]int{unitIdx, linkIdx}]
				if !ok {
					continue
				}
				g.addEdge(from, to, euclidean(g.Nodes[from].pos(), g.Nodes[to].pos()))
			}
		}
	}

	for _, d := range floor.Doors {
		if d.AdjacentDoor == -1 {
			continue
		}
		adj := floor.Doors[d.AdjacentDoor]
		parentUnit := d.ParentUnit
		doorDef := floor.Units[parentUnit].Unit.Doors[d.DoorDefIdx]
		adjUnit := adj.ParentUnit
		adjDoorDef := floor.Units[adjUnit].Unit.Doors[adj.DoorDefIdx]

		from, fromOk := nodeIndex[[2]int{parentUnit, doorDef.WaypointIndex}]
		to, toOk := nodeIndex[[2]int{adjUnit, adjDoorDef.WaypointIndex}]
		if !fromOk || !toOk {
			continue
		}
		weight := euclidean(g.Nodes[from].pos(), g.Nodes[to].pos())
		g.addEdge(from, to, weight)
	}

	shipUnit, shipPos, ok := shipWorldPos(floor)
	if ok {
		g.shipNode = g.nearestNodeInUnit(shipUnit, shipPos)
	}
	return g
}

func (g *Graph) addEdge(from, to int, weight float64) {
	g.Edges[from] = append(g.Edges[from], Edge{To: to, Weight: weight})
}

func euclidean(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func shipWorldPos(floor *cavelayout.Floor) (unitIdx int, pos [3]float64, ok bool) {
	ref := floor.StartSpawn
	if ref == nil {
		return 0, [3]float64{}, false
	}
	sp := floor.Units[ref.UnitIdx].SpawnPoints[ref.SpawnIdx]
	return ref.UnitIdx, [3]float64{sp.WorldX, sp.WorldY, sp.WorldZ}, true
}

// nearestNodeInUnit returns the closest node to pos among those belonging
// to unitIdx, or -1 if that unit has no waypoints.
func (g *Graph) nearestNodeInUnit(unitIdx int, pos [3]float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, n := range g.Nodes {
		if n.UnitIdx != unitIdx {
			continue
		}
		d := euclidean(n.pos(), pos)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ShipNode returns the index into Graph.Nodes nearest the floor's ship
// spawn, or -1 if none was found.
func (g *Graph) ShipNode() int { return g.shipNode }

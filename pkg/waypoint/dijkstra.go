package waypoint

import "container/heap"

type heapItem struct {
	node int
	dist float64
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// DistanceToShip runs Dijkstra from the ship node and records, for every
// reached node, the backlink toward ship (§4.F): each time an edge
// relaxation improves a node's distance, that node's backlink is set to
// the relaxing neighbor -- the "reverse edge" the reference adds to the
// graph during relaxation, kept here as a plain per-node pointer instead
// of a literal graph mutation, since nothing besides backlink lookup ever
// walks it. The ship node itself never receives a backlink (dist 0, never
// improved), which is the same end state as the reference's "delete the
// ship's outgoing edges" step: no path out of ship survives.
func (g *Graph) DistanceToShip() []float64 {
	dist := make([]float64, len(g.Nodes))
	for i := range dist {
		dist[i] = -1
	}
	g.backlink = make([]int, len(g.Nodes))
	for i := range g.backlink {
		g.backlink[i] = -1
	}
	if g.shipNode < 0 {
		return dist
	}

	dist[g.shipNode] = 0
	h := &nodeHeap{{node: g.shipNode, dist: 0}}
	visited := make([]bool, len(g.Nodes))

	for h.Len() > 0 {
		top := heap.Pop(h).(heapItem)
		u := top.node
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, e := range g.Edges[u] {
			nd := dist[u] + e.Weight
			if dist[e.To] == -1 || nd < dist[e.To] {
				dist[e.To] = nd
				g.backlink[e.To] = u
				heap.Push(h, heapItem{node: e.To, dist: nd})
			}
		}
	}
	return dist
}

// Backlink returns the node index one step closer to ship from u, or -1
// if u is unreached or is the ship node itself. Must be called after
// DistanceToShip.
func (g *Graph) Backlink(u int) int {
	if g.backlink == nil || u < 0 || u >= len(g.backlink) {
		return -1
	}
	return g.backlink[u]
}

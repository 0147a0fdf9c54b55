package lattice

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/compass"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// XWidth returns the number of columns.
func (l *Lattice) XWidth() int { return l.grid.XWidth() }

// YHeight returns the number of rows.
func (l *Lattice) YHeight() int { return l.grid.YHeight() }

// Bound returns the bounding box the lattice was built for.
func (l *Lattice) Bound() orb.Bound { return l.bound }

// CellSize returns the cell edge length.
func (l *Lattice) CellSize() float64 { return l.cellSize }

// Costs returns the cost configuration.
func (l *Lattice) Costs() Costs { return l.costs }

// NodeCount returns the number of nodes, 9 per cell.
func (l *Lattice) NodeCount() int { return len(l.nodes) }

// EdgeCount returns the number of directed edges.
func (l *Lattice) EdgeCount() int { return len(l.edges) }

// Node returns the node with id n, or nil.
func (l *Lattice) Node(n NodeID) *Node {
	if n < 0 || int(n) >= len(l.nodes) {
		return nil
	}
	return &l.nodes[n]
}

// Edge returns the edge with id e, or nil.
func (l *Lattice) Edge(e EdgeID) *Edge {
	if e < 0 || int(e) >= len(l.edges) {
		return nil
	}
	return &l.edges[e]
}

// Centers returns the center ids in column-major order.
func (l *Lattice) Centers() []NodeID { return slices.Clone(l.centers) }

// NodeAt returns the center of cell (x, y), or NoNode when out of range.
func (l *Lattice) NodeAt(x, y int) NodeID {
	cell := l.grid.Get(x, y)
	if len(cell) == 0 {
		return NoNode
	}
	return cell[0]
}

// CoordsOf returns the cell of center n. It panics if n is not registered
// in exactly one cell.
func (l *Lattice) CoordsOf(n NodeID) (x, y int) {
	cells := l.grid.Cells(n)
	if len(cells) != 1 {
		panic(fmt.Sprintf("lattice: node %d is in %d cells, want 1", n, len(cells)))
	}
	return cells[0].X, cells[0].Y
}

// Neighbor returns the center of the cell adjacent to (x, y) in direction d,
// or NoNode at the boundary.
func (l *Lattice) Neighbor(x, y int, d compass.Direction) NodeID {
	dx, dy := d.Offset()
	return l.NodeAt(x+dx, y+dy)
}

// Port returns the port of center c in direction d. It panics if c is not a
// center.
func (l *Lattice) Port(c NodeID, d compass.Direction) NodeID {
	n := l.center(c)
	p := n.ports[d%compass.Count]
	if p == NoNode {
		panic(fmt.Sprintf("lattice: center %d has no %s port", c, d))
	}
	return p
}

func (l *Lattice) center(c NodeID) *Node {
	n := l.Node(c)
	if n == nil || n.Kind != Center {
		panic(fmt.Sprintf("lattice: node %d is not a center", c))
	}
	return n
}

// EdgeBetween returns the edge from -> to, or NoEdge.
func (l *Lattice) EdgeBetween(from, to NodeID) EdgeID {
	if e, ok := l.pairs[[2]NodeID{from, to}]; ok {
		return e
	}
	return NoEdge
}

// OtherEdge returns the reverse twin of e, or NoEdge for an unknown edge.
func (l *Lattice) OtherEdge(e EdgeID) EdgeID {
	edge := l.Edge(e)
	if edge == nil {
		return NoEdge
	}
	return l.EdgeBetween(edge.To, edge.From)
}

// NEdge returns the grid edge leading from a port of center a to the
// facing port of center b, or NoEdge if the two are not adjacent. Either
// argument may be NoNode.
func (l *Lattice) NEdge(a, b NodeID) EdgeID {
	if a == NoNode || b == NoNode || a == b {
		return NoEdge
	}
	na, nb := l.center(a), l.center(b)
	for _, d := range compass.All {
		e := l.EdgeBetween(na.ports[d], nb.ports[d.Opposite()])
		if e != NoEdge && l.edges[e].Kind == Grid {
			return e
		}
	}
	return NoEdge
}

// GridEdge returns the grid edge leaving center c in direction d, or NoEdge
// at the boundary.
func (l *Lattice) GridEdge(c NodeID, d compass.Direction) EdgeID {
	x, y := l.CoordsOf(c)
	nb := l.Neighbor(x, y, d)
	if nb == NoNode {
		return NoEdge
	}
	return l.EdgeBetween(l.Port(c, d), l.Port(nb, d.Opposite()))
}

// Direction returns the direction in which center b lies from center a, if
// the two are adjacent.
func (l *Lattice) Direction(a, b NodeID) (compass.Direction, bool) {
	if a == b {
		return 0, false
	}
	na, nb := l.center(a), l.center(b)
	for _, d := range compass.All {
		if l.EdgeBetween(na.ports[d], nb.ports[d.Opposite()]) != NoEdge {
			return d, true
		}
	}
	return 0, false
}

// Cost returns the current cost of e.
func (l *Lattice) Cost(e EdgeID) float64 { return l.mustEdge(e).cost }

// CostSnapshot returns the cost of every edge, indexed by EdgeID.
func (l *Lattice) CostSnapshot() []float64 {
	out := make([]float64, len(l.edges))
	for i := range l.edges {
		out[i] = l.edges[i].cost
	}
	return out
}

// Reserve records that original edge o is routed through e.
func (l *Lattice) Reserve(e EdgeID, o topo.EdgeID) {
	edge := l.mustEdge(e)
	i, found := slices.BinarySearch(edge.res, o)
	if found {
		return
	}
	edge.res = slices.Insert(edge.res, i, o)
}

// Release removes the reservation of o on e.
func (l *Lattice) Release(e EdgeID, o topo.EdgeID) {
	edge := l.mustEdge(e)
	if i, found := slices.BinarySearch(edge.res, o); found {
		edge.res = slices.Delete(edge.res, i, i+1)
	}
}

// Reservations returns the original edges reserved on e in ascending order.
func (l *Lattice) Reservations(e EdgeID) []topo.EdgeID {
	return slices.Clone(l.mustEdge(e).res)
}

// Reserved reports whether any original edge is reserved on e.
func (l *Lattice) Reserved(e EdgeID) bool { return len(l.mustEdge(e).res) > 0 }

// FirstReservation returns the smallest original edge id reserved on e.
func (l *Lattice) FirstReservation(e EdgeID) (topo.EdgeID, bool) {
	res := l.mustEdge(e).res
	if len(res) == 0 {
		return topo.NoEdge, false
	}
	return res[0], true
}

// ResEdges returns the union of the reservations on every edge touching a
// port of center c, in ascending order.
func (l *Lattice) ResEdges(c NodeID) []topo.EdgeID {
	n := l.center(c)
	var out []topo.EdgeID
	for _, p := range n.ports {
		port := &l.nodes[p]
		for _, list := range [][]EdgeID{port.out, port.in} {
			for _, e := range list {
				out = append(out, l.edges[e].res...)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (l *Lattice) mustEdge(e EdgeID) *Edge {
	edge := l.Edge(e)
	if edge == nil {
		panic(fmt.Sprintf("lattice: unknown edge %d", e))
	}
	return edge
}

// addCost raises the cost of e by delta. Costs never decrease.
func (l *Lattice) addCost(e EdgeID, delta float64) {
	if delta < 0 {
		panic(fmt.Sprintf("lattice: negative cost delta %g on edge %d", delta, e))
	}
	l.mustEdge(e).cost += delta
}

// penalize raises the cost of e and its twin by delta.
func (l *Lattice) penalize(e EdgeID, delta float64) {
	l.addCost(e, delta)
	other := l.OtherEdge(e)
	if other == NoEdge {
		panic(fmt.Sprintf("lattice: edge %d has no twin", e))
	}
	l.addCost(other, delta)
}

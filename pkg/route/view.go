package route

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/octigrid/pkg/lattice"
)

// graphView exposes the lattice to gonum's path algorithms as a weighted
// directed graph. Edges that must not be used by the current search are
// hidden rather than priced out.
type graphView struct {
	lat *lattice.Lattice

	// open holds the centers whose spokes may be used: the source and target
	// candidates of the edge being routed.
	open map[lattice.NodeID]bool

	// closed holds cells whose bends are unusable because a station sits
	// there.
	closed map[lattice.NodeID]bool
}

var (
	_ graph.WeightedDirected = (*graphView)(nil)
)

func (v *graphView) usable(id lattice.EdgeID) bool {
	e := v.lat.Edge(id)
	switch e.Kind {
	case lattice.Spoke:
		center := v.lat.Node(e.From).Parent
		return v.open[center]
	case lattice.Bend:
		if v.closed[v.lat.Node(e.From).Parent] {
			return false
		}
		return !v.lat.Reserved(id)
	default:
		return !v.lat.Reserved(id)
	}
}

func (v *graphView) edgeID(uid, vid int64) (lattice.EdgeID, bool) {
	id := v.lat.EdgeBetween(lattice.NodeID(uid), lattice.NodeID(vid))
	if id == lattice.NoEdge || !v.usable(id) {
		return lattice.NoEdge, false
	}
	return id, true
}

// Node implements graph.Graph.
func (v *graphView) Node(id int64) graph.Node {
	if v.lat.Node(lattice.NodeID(id)) == nil {
		return nil
	}
	return simple.Node(id)
}

// Nodes implements graph.Graph.
func (v *graphView) Nodes() graph.Nodes {
	nodes := make([]graph.Node, v.lat.NodeCount())
	for i := range nodes {
		nodes[i] = simple.Node(int64(i))
	}
	return iterator.NewOrderedNodes(nodes)
}

// From implements graph.Graph.
func (v *graphView) From(id int64) graph.Nodes {
	n := v.lat.Node(lattice.NodeID(id))
	if n == nil {
		return graph.Empty
	}
	var out []graph.Node
	for _, e := range n.Out() {
		if v.usable(e) {
			out = append(out, simple.Node(int64(v.lat.Edge(e).To)))
		}
	}
	if len(out) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(out)
}

// To implements graph.Directed.
func (v *graphView) To(id int64) graph.Nodes {
	n := v.lat.Node(lattice.NodeID(id))
	if n == nil {
		return graph.Empty
	}
	var in []graph.Node
	for _, e := range n.In() {
		if v.usable(e) {
			in = append(in, simple.Node(int64(v.lat.Edge(e).From)))
		}
	}
	if len(in) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(in)
}

// HasEdgeBetween implements graph.Graph.
func (v *graphView) HasEdgeBetween(xid, yid int64) bool {
	return v.HasEdgeFromTo(xid, yid) || v.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo implements graph.Directed.
func (v *graphView) HasEdgeFromTo(uid, vid int64) bool {
	_, ok := v.edgeID(uid, vid)
	return ok
}

// Edge implements graph.Graph.
func (v *graphView) Edge(uid, vid int64) graph.Edge {
	return v.WeightedEdge(uid, vid)
}

// WeightedEdge implements graph.Weighted.
func (v *graphView) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	id, ok := v.edgeID(uid, vid)
	if !ok {
		return nil
	}
	return simple.WeightedEdge{F: simple.Node(uid), T: simple.Node(vid), W: v.lat.Cost(id)}
}

// Weight implements graph.Weighted.
func (v *graphView) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	id, ok := v.edgeID(xid, yid)
	if !ok {
		return 0, false
	}
	return v.lat.Cost(id), true
}

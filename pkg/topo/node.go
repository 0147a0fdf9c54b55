package topo

import "slices"

// Degree returns the number of incident edges.
func (n *Node) Degree() int { return len(n.adj) }

// Incident returns the incident edges in insertion order.
func (n *Node) Incident() []EdgeID { return slices.Clone(n.adj) }

// OrderedEdges returns the incident edges in clockwise order. It is nil
// before the graph is frozen.
func (n *Node) OrderedEdges() []EdgeID { return slices.Clone(n.order) }

// HasOrderedEdge reports whether e appears in the node's clockwise order.
func (n *Node) HasOrderedEdge(e EdgeID) bool {
	if !n.ordered {
		return false
	}
	_, ok := n.pos[e]
	return ok
}

// DistBetween returns the number of clockwise steps from a to b in the
// node's edge order, in 0..Degree()-1. It returns -1 if either edge is not
// part of the order.
func (n *Node) DistBetween(a, b EdgeID) int {
	pa, okA := n.pos[a]
	pb, okB := n.pos[b]
	if !okA || !okB {
		return -1
	}
	d := len(n.order)
	return ((pb-pa)%d + d) % d
}

// Name returns the first stop name, the label, or the key, whichever is set
// first.
func (n *Node) Name() string {
	if len(n.Stops) > 0 && n.Stops[0] != "" {
		return n.Stops[0]
	}
	if n.Label != "" {
		return n.Label
	}
	return n.Key
}

package topo

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
)

var (
	// ErrEmptyKey is returned when a node or edge key is empty.
	ErrEmptyKey = errors.New("key must not be empty")

	// ErrDuplicateKey is returned when a node or edge key is already in use.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownNode is returned when an edge or order references a node
	// that does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned when an order references an edge that does
	// not exist.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrBadOrder is returned by [Graph.SetOrder] when the order is not a
	// permutation of the node's incident edges.
	ErrBadOrder = errors.New("order must be a permutation of the incident edges")

	// ErrFrozen is returned when the graph is modified after [Graph.Freeze].
	ErrFrozen = errors.New("graph is frozen")
)

// NodeID indexes a node in its graph.
type NodeID int

// EdgeID indexes an edge in its graph.
type EdgeID int

// NoEdge is the zero-information edge id.
const NoEdge EdgeID = -1

// Node is a station or junction of the original topology.
type Node struct {
	ID    NodeID
	Key   string
	Label string
	Pos   orb.Point
	Stops []string

	adj     []EdgeID
	order   []EdgeID
	pos     map[EdgeID]int
	pinned  bool
	ordered bool
}

// Edge is a segment between two nodes.
type Edge struct {
	ID    EdgeID
	Key   string
	From  NodeID
	To    NodeID
	Lines []string
}

// Other returns the endpoint of e that is not n.
func (e *Edge) Other(n NodeID) NodeID {
	if e.From == n {
		return e.To
	}
	return e.From
}

// Graph is an arena of nodes and edges.
//
// Build the graph with [Graph.AddNode] and [Graph.AddEdge], then call
// [Graph.Freeze] to fix the rotational orders. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	nodes    []*Node
	edges    []*Edge
	nodeKeys map[string]NodeID
	edgeKeys map[string]EdgeID
	frozen   bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodeKeys: make(map[string]NodeID),
		edgeKeys: make(map[string]EdgeID),
	}
}

// AddNode adds a station at pos and returns its id.
func (g *Graph) AddNode(key, label string, pos orb.Point, stops ...string) (NodeID, error) {
	if g.frozen {
		return 0, ErrFrozen
	}
	if key == "" {
		return 0, ErrEmptyKey
	}
	if _, ok := g.nodeKeys[key]; ok {
		return 0, fmt.Errorf("%w: node %q", ErrDuplicateKey, key)
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{ID: id, Key: key, Label: label, Pos: pos, Stops: stops})
	g.nodeKeys[key] = id
	return id, nil
}

// AddEdge connects two existing nodes. An empty key defaults to "from-to".
func (g *Graph) AddEdge(key string, from, to NodeID, lines ...string) (EdgeID, error) {
	if g.frozen {
		return 0, ErrFrozen
	}
	if !g.validNode(from) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, from)
	}
	if !g.validNode(to) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, to)
	}
	if from == to {
		return 0, ErrSelfLoop
	}
	if key == "" {
		key = g.nodes[from].Key + "-" + g.nodes[to].Key
	}
	if _, ok := g.edgeKeys[key]; ok {
		return 0, fmt.Errorf("%w: edge %q", ErrDuplicateKey, key)
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, &Edge{ID: id, Key: key, From: from, To: to, Lines: lines})
	g.edgeKeys[key] = id
	g.nodes[from].adj = append(g.nodes[from].adj, id)
	g.nodes[to].adj = append(g.nodes[to].adj, id)
	return id, nil
}

// SetOrder pins the clockwise order of edges around n instead of deriving it
// from geometry. It must be a permutation of the incident edges.
func (g *Graph) SetOrder(n NodeID, order []EdgeID) error {
	if g.frozen {
		return ErrFrozen
	}
	if !g.validNode(n) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, n)
	}
	node := g.nodes[n]
	if len(order) != len(node.adj) {
		return fmt.Errorf("%w: node %q has %d edges, order has %d", ErrBadOrder, node.Key, len(node.adj), len(order))
	}
	for _, e := range order {
		if !g.validEdge(e) {
			return fmt.Errorf("%w: %d", ErrUnknownEdge, e)
		}
		if !slices.Contains(node.adj, e) {
			return fmt.Errorf("%w: edge %q not incident to %q", ErrBadOrder, g.edges[e].Key, node.Key)
		}
	}
	seen := make(map[EdgeID]bool, len(order))
	for _, e := range order {
		if seen[e] {
			return fmt.Errorf("%w: edge %q repeated", ErrBadOrder, g.edges[e].Key)
		}
		seen[e] = true
	}
	node.order = slices.Clone(order)
	node.pinned = true
	return nil
}

// Freeze computes the rotational edge order of every node that has no pinned
// order and makes the graph read-only. Calling Freeze again is a no-op.
func (g *Graph) Freeze() {
	if g.frozen {
		return
	}
	for _, n := range g.nodes {
		if !n.pinned {
			n.order = g.clockwise(n)
		}
		n.pos = make(map[EdgeID]int, len(n.order))
		for i, e := range n.order {
			n.pos[e] = i
		}
		n.ordered = true
	}
	g.frozen = true
}

// Frozen reports whether [Graph.Freeze] has been called.
func (g *Graph) Frozen() bool { return g.frozen }

// clockwise sorts the incident edges of n by bearing from north, clockwise.
// Edges with equal bearing keep ascending id order.
func (g *Graph) clockwise(n *Node) []EdgeID {
	order := slices.Clone(n.adj)
	bearing := make(map[EdgeID]float64, len(order))
	for _, e := range order {
		o := g.nodes[g.edges[e].Other(n.ID)].Pos
		bearing[e] = Bearing(n.Pos, o)
	}
	slices.SortStableFunc(order, func(a, b EdgeID) int {
		switch {
		case bearing[a] < bearing[b]:
			return -1
		case bearing[a] > bearing[b]:
			return 1
		default:
			return int(a) - int(b)
		}
	})
	return order
}

// Bearing returns the clockwise angle from north of the vector a->b in
// radians, in [0, 2π).
func Bearing(a, b orb.Point) float64 {
	r := math.Atan2(b[0]-a[0], b[1]-a[1])
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if !g.validNode(id) {
		return nil
	}
	return g.nodes[id]
}

// NodeByKey looks a node up by its key.
func (g *Graph) NodeByKey(key string) (*Node, bool) {
	id, ok := g.nodeKeys[key]
	if !ok {
		return nil, false
	}
	return g.nodes[id], true
}

// Edge returns the edge with the given id, or nil.
func (g *Graph) Edge(id EdgeID) *Edge {
	if !g.validEdge(id) {
		return nil
	}
	return g.edges[id]
}

// EdgeByKey looks an edge up by its key.
func (g *Graph) EdgeByKey(key string) (*Edge, bool) {
	id, ok := g.edgeKeys[key]
	if !ok {
		return nil, false
	}
	return g.edges[id], true
}

// Nodes returns all nodes in id order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns all edges in id order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Bound returns the bounding box of all node positions.
func (g *Graph) Bound() orb.Bound {
	if len(g.nodes) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: g.nodes[0].Pos, Max: g.nodes[0].Pos}
	for _, n := range g.nodes[1:] {
		b = b.Extend(n.Pos)
	}
	return b
}

func (g *Graph) validNode(id NodeID) bool { return id >= 0 && int(id) < len(g.nodes) }
func (g *Graph) validEdge(id EdgeID) bool { return id >= 0 && int(id) < len(g.edges) }

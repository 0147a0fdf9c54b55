package lattice

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/compass"
	"github.com/matzehuels/octigrid/pkg/spatial"
	"github.com/matzehuels/octigrid/pkg/topo"
)

var (
	// ErrInvalidCellSize is returned by [New] for a cell size that is not
	// strictly positive.
	ErrInvalidCellSize = errors.New("cell size must be positive")

	// ErrInvalidBound is returned by [New] for an inverted bounding box.
	ErrInvalidBound = errors.New("invalid bounding box")
)

// NodeID indexes a node in the lattice arena.
type NodeID int

// EdgeID indexes an edge in the lattice arena.
type EdgeID int

// Invalid ids, returned by lookups that find nothing.
const (
	NoNode NodeID = -1
	NoEdge EdgeID = -1
)

// NodeKind distinguishes centers from ports.
type NodeKind uint8

const (
	Center NodeKind = iota
	Port
)

func (k NodeKind) String() string {
	if k == Center {
		return "center"
	}
	return "port"
}

// EdgeKind distinguishes the three edge families.
type EdgeKind uint8

const (
	Spoke EdgeKind = iota
	Bend
	Grid
)

func (k EdgeKind) String() string {
	switch k {
	case Spoke:
		return "spoke"
	case Bend:
		return "bend"
	default:
		return "grid"
	}
}

// Node is a center or a port.
type Node struct {
	ID   NodeID
	Kind NodeKind
	Pos  orb.Point

	// Parent is the owning center. Centers are their own parent.
	Parent NodeID

	// Dir is the port direction. It is meaningless for centers.
	Dir compass.Direction

	ports [compass.Count]NodeID
	out   []EdgeID
	in    []EdgeID
}

// Out returns the ids of edges leaving n.
func (n *Node) Out() []EdgeID { return n.out }

// In returns the ids of edges entering n.
func (n *Node) In() []EdgeID { return n.in }

// Edge is a directed lattice edge.
type Edge struct {
	ID   EdgeID
	From NodeID
	To   NodeID
	Kind EdgeKind
	Geom orb.LineString

	cost float64
	res  []topo.EdgeID
}

// Cost returns the current traversal cost.
func (e *Edge) Cost() float64 { return e.cost }

// OrderedNode is the read view of an original topology node that
// [Lattice.TopoPenalty] needs. *topo.Node implements it.
type OrderedNode interface {
	Degree() int
	HasOrderedEdge(e topo.EdgeID) bool
	DistBetween(a, b topo.EdgeID) int
	Name() string
}

// Lattice is the octilinear grid graph.
type Lattice struct {
	bound    orb.Bound
	cellSize float64
	costs    Costs

	nodes []Node
	edges []Edge
	pairs map[[2]NodeID]EdgeID

	grid    *spatial.Grid[NodeID]
	centers []NodeID

	logger *log.Logger
}

// Option configures a [Lattice].
type Option func(*Lattice)

// WithLogger sets the logger used for diagnostics. The default discards
// everything.
func WithLogger(l *log.Logger) Option {
	return func(lat *Lattice) {
		if l != nil {
			lat.logger = l
		}
	}
}

// New builds the lattice covering bbox with square cells of cellSize.
//
// The grid has max(1, ceil(width/cellSize)) columns and likewise rows; the
// center of cell (x, y) sits at bbox.Min + (x, y) * cellSize.
func New(bbox orb.Bound, cellSize float64, costs Costs, opts ...Option) (*Lattice, error) {
	if !(cellSize > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidCellSize, cellSize)
	}
	if err := costs.Validate(); err != nil {
		return nil, err
	}
	grid, err := spatial.New[NodeID](bbox, cellSize, cellSize)
	if err != nil {
		if errors.Is(err, spatial.ErrInvalidCellSize) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCellSize, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBound, err)
	}

	l := &Lattice{
		bound:    bbox,
		cellSize: cellSize,
		costs:    costs,
		grid:     grid,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	cells := grid.XWidth() * grid.YHeight()
	l.nodes = make([]Node, 0, cells*(compass.Count+1))
	l.edges = make([]Edge, 0, cells*(2*compass.Count+40+compass.Count))
	l.pairs = make(map[[2]NodeID]EdgeID, cap(l.edges))
	l.centers = make([]NodeID, cells)

	bends := costs.Bends()
	for x := 0; x < grid.XWidth(); x++ {
		for y := 0; y < grid.YHeight(); y++ {
			l.addCell(x, y, bends)
		}
	}
	for x := 0; x < grid.XWidth(); x++ {
		for y := 0; y < grid.YHeight(); y++ {
			l.linkCell(x, y)
		}
	}
	l.writeInitialCosts()

	l.logger.Debug("built lattice",
		"cols", grid.XWidth(),
		"rows", grid.YHeight(),
		"nodes", len(l.nodes),
		"edges", len(l.edges))
	return l, nil
}

// addCell creates the center, its ports, the spokes and the bend edges of
// cell (x, y).
func (l *Lattice) addCell(x, y int, bends BendCosts) {
	pos := orb.Point{
		l.bound.Min[0] + float64(x)*l.cellSize,
		l.bound.Min[1] + float64(y)*l.cellSize,
	}
	c := l.addNode(Center, pos, NoNode, compass.N)
	l.grid.Add(x, y, c)
	l.centers[x*l.grid.YHeight()+y] = c

	off := l.cellSize / 10
	for _, d := range compass.All {
		dx, dy := d.Offset()
		p := l.addNode(Port, orb.Point{pos[0] + float64(dx)*off, pos[1] + float64(dy)*off}, c, d)
		l.nodes[c].ports[d] = p
		l.addPair(c, p, Spoke, SpokeCost)
	}

	for i := 0; i < compass.Count; i++ {
		for j := i + 1; j < compass.Count; j++ {
			cost, ok := bends.ForTurn(compass.Turn(compass.Direction(i), compass.Direction(j)))
			if !ok {
				continue
			}
			l.addPair(l.nodes[c].ports[i], l.nodes[c].ports[j], Bend, cost)
		}
	}
}

// linkCell adds the outgoing grid edges of cell (x, y). The reverse edges are
// added when the neighbor is linked.
func (l *Lattice) linkCell(x, y int) {
	c := l.NodeAt(x, y)
	for _, d := range compass.All {
		nb := l.Neighbor(x, y, d)
		if nb == NoNode {
			continue
		}
		l.addEdge(l.nodes[c].ports[d], l.nodes[nb].ports[d.Opposite()], Grid, 0)
	}
}

// writeInitialCosts sets every grid edge to the base cost of its direction
// class.
func (l *Lattice) writeInitialCosts() {
	for i := range l.edges {
		e := &l.edges[i]
		if e.Kind != Grid {
			continue
		}
		e.cost = l.costs.Base(l.nodes[e.From].Dir.Class())
	}
}

func (l *Lattice) addNode(kind NodeKind, pos orb.Point, parent NodeID, dir compass.Direction) NodeID {
	id := NodeID(len(l.nodes))
	if parent == NoNode {
		parent = id
	}
	n := Node{ID: id, Kind: kind, Pos: pos, Parent: parent, Dir: dir}
	for i := range n.ports {
		n.ports[i] = NoNode
	}
	l.nodes = append(l.nodes, n)
	return id
}

func (l *Lattice) addPair(a, b NodeID, kind EdgeKind, cost float64) {
	l.addEdge(a, b, kind, cost)
	l.addEdge(b, a, kind, cost)
}

func (l *Lattice) addEdge(from, to NodeID, kind EdgeKind, cost float64) EdgeID {
	key := [2]NodeID{from, to}
	if _, dup := l.pairs[key]; dup {
		panic(fmt.Sprintf("lattice: duplicate edge %d->%d", from, to))
	}
	id := EdgeID(len(l.edges))
	l.edges = append(l.edges, Edge{
		ID:   id,
		From: from,
		To:   to,
		Kind: kind,
		Geom: orb.LineString{l.nodes[from].Pos, l.nodes[to].Pos},
		cost: cost,
	})
	l.pairs[key] = id
	l.nodes[from].out = append(l.nodes[from].out, id)
	l.nodes[to].in = append(l.nodes[to].in, id)
	return id
}

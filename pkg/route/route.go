package route

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/octigrid/pkg/compass"
	"github.com/matzehuels/octigrid/pkg/lattice"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/topo"
)

var (
	// ErrNoCandidate is returned when no free lattice cell lies within range
	// of an original node.
	ErrNoCandidate = errors.New("no candidate cell")

	// ErrNoRoute is returned when no lattice path connects the candidates
	// of an original edge.
	ErrNoRoute = errors.New("no lattice route")

	// ErrNotFrozen is returned when the topology has no fixed edge order yet.
	ErrNotFrozen = errors.New("topology must be frozen before routing")
)

// Order selects the sequence in which original edges are embedded.
type Order string

const (
	// OrderByID routes edges in ascending id order.
	OrderByID Order = "id"

	// OrderByLineCount routes edges carrying more lines first.
	OrderByLineCount Order = "lines"
)

// ParseOrder converts a configuration string to an Order.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderByID:
		return OrderByID, nil
	case OrderByLineCount:
		return OrderByLineCount, nil
	default:
		return "", fmt.Errorf("unknown route order %q", s)
	}
}

// Defaults for [Options].
const (
	DefaultMaxCandidateDistance = 3.0
	DefaultDisplacementCost     = 100.0
)

// Options configure a [Router].
type Options struct {
	// Order is the edge embedding order. Default OrderByID.
	Order Order

	// MaxCandidateDistance is the candidate search radius in multiples of
	// the lattice cell size. Default 3.
	MaxCandidateDistance float64

	// DisplacementCost is added per cell size of distance between an
	// original node and the center it is placed on. Default 100, a little
	// more than a straight hop at default costs.
	DisplacementCost float64

	// Progress, if set, is called after every routed edge.
	Progress func(done, total int, edge *topo.Edge)

	// Logger receives debug and warning output. Default discards.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Order == "" {
		o.Order = OrderByID
	}
	if o.MaxCandidateDistance <= 0 {
		o.MaxCandidateDistance = DefaultMaxCandidateDistance
	}
	if o.DisplacementCost <= 0 {
		o.DisplacementCost = DefaultDisplacementCost
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Path is the embedding of one original edge.
type Path struct {
	Edge  topo.EdgeID
	From  lattice.NodeID // center the original From node is settled on
	To    lattice.NodeID // center the original To node is settled on
	Nodes []lattice.NodeID
	Edges []lattice.EdgeID
	Cost  float64
}

// Cells returns the centers visited by the path, in order, without
// repetition.
func (p *Path) Cells(lat *lattice.Lattice) []lattice.NodeID {
	var out []lattice.NodeID
	for _, n := range p.Nodes {
		c := lat.Node(n).Parent
		if len(out) == 0 || out[len(out)-1] != c {
			out = append(out, c)
		}
	}
	return out
}

// Stats summarizes a routing run.
type Stats struct {
	Routed       int
	TotalCost    float64
	BalanceNodes int
	BalanceEdges int
	TopoPenalty  int
	Duration     time.Duration
}

// Result is the outcome of [Router.Route].
type Result struct {
	// Placement maps every settled original node to its lattice center.
	Placement map[topo.NodeID]lattice.NodeID

	// Paths holds one entry per routed edge, in routing order.
	Paths []Path

	Stats Stats
}

// Router embeds a topology onto a lattice.
type Router struct {
	lat  *lattice.Lattice
	g    *topo.Graph
	opts Options

	settled  map[topo.NodeID]lattice.NodeID
	occupant map[lattice.NodeID]topo.NodeID
	result   *Result
}

// New creates a router for g on lat.
func New(lat *lattice.Lattice, g *topo.Graph, opts Options) *Router {
	opts.setDefaults()
	return &Router{
		lat:      lat,
		g:        g,
		opts:     opts,
		settled:  make(map[topo.NodeID]lattice.NodeID),
		occupant: make(map[lattice.NodeID]topo.NodeID),
	}
}

// Route embeds every edge of the topology in the configured order. It stops
// at the first edge that cannot be embedded and returns the partial result
// together with the error.
func (r *Router) Route(ctx context.Context) (*Result, error) {
	if !r.g.Frozen() {
		return nil, ErrNotFrozen
	}
	start := time.Now()
	r.result = &Result{Placement: make(map[topo.NodeID]lattice.NodeID)}

	edges := r.order()
	r.opts.Logger.Debug("routing", "edges", len(edges), "order", r.opts.Order)
	for i, e := range edges {
		if err := ctx.Err(); err != nil {
			return r.finish(start), err
		}
		t0 := time.Now()
		p, err := r.routeEdge(ctx, e)
		if err != nil {
			observability.Route().OnEdgeFailed(ctx, e.Key, err)
			return r.finish(start), fmt.Errorf("edge %q: %w", e.Key, err)
		}
		r.result.Paths = append(r.result.Paths, *p)
		r.result.Stats.Routed++
		r.result.Stats.TotalCost += p.Cost
		observability.Route().OnEdgeRouted(ctx, e.Key, len(p.Cells(r.lat)), p.Cost, time.Since(t0))
		if r.opts.Progress != nil {
			r.opts.Progress(i+1, len(edges), e)
		}
	}
	return r.finish(start), nil
}

func (r *Router) finish(start time.Time) *Result {
	for o, c := range r.settled {
		r.result.Placement[o] = c
	}
	r.result.Stats.Duration = time.Since(start)
	return r.result
}

func (r *Router) order() []*topo.Edge {
	edges := r.g.Edges()
	if r.opts.Order == OrderByLineCount {
		slices.SortStableFunc(edges, func(a, b *topo.Edge) int {
			return cmp.Compare(len(b.Lines), len(a.Lines))
		})
	}
	return edges
}

// routeEdge finds, commits and balances the embedding of e.
func (r *Router) routeEdge(ctx context.Context, e *topo.Edge) (*Path, error) {
	from, to := r.g.Node(e.From), r.g.Node(e.To)

	sources, err := r.candidates(from)
	if err != nil {
		return nil, err
	}
	targets, err := r.candidates(to)
	if err != nil {
		return nil, err
	}

	// Bias the search toward the directions that keep the order around
	// already settled endpoints.
	for _, n := range []*topo.Node{from, to} {
		if c, ok := r.settled[n.ID]; ok {
			if r.lat.TopoPenalty(c, n, e.ID) {
				r.result.Stats.TopoPenalty++
				observability.Route().OnPenalty(ctx, "topo")
			}
		}
	}

	view := &graphView{
		lat:    r.lat,
		open:   make(map[lattice.NodeID]bool, len(sources)+len(targets)),
		closed: make(map[lattice.NodeID]bool, len(r.occupant)),
	}
	for _, c := range sources {
		view.open[c.Node] = true
	}
	for _, c := range targets {
		view.open[c.Node] = true
	}
	for c := range r.occupant {
		view.closed[c] = true
	}

	displace := r.opts.DisplacementCost / r.lat.CellSize()
	best := math.Inf(1)
	var bestPath []lattice.NodeID
	var bestSrc, bestDst lattice.NodeID
	for _, s := range sources {
		sp := path.DijkstraFrom(simple.Node(int64(s.Node)), view)
		for _, t := range targets {
			if t.Node == s.Node {
				continue
			}
			w := sp.WeightTo(int64(t.Node))
			if math.IsInf(w, 1) {
				continue
			}
			total := w + (s.Dist+t.Dist)*displace
			if total < best {
				nodes, _ := sp.To(int64(t.Node))
				best = total
				bestSrc, bestDst = s.Node, t.Node
				bestPath = bestPath[:0]
				for _, n := range nodes {
					bestPath = append(bestPath, lattice.NodeID(n.ID()))
				}
			}
		}
	}
	if bestPath == nil || math.IsInf(best, 1) {
		return nil, fmt.Errorf("%w between %q and %q", ErrNoRoute, from.Key, to.Key)
	}

	p := r.commit(e, bestSrc, bestDst, bestPath)
	r.settle(from.ID, bestSrc)
	r.settle(to.ID, bestDst)
	r.balance(ctx, p)

	r.opts.Logger.Debug("routed edge",
		"edge", e.Key,
		"from", from.Key,
		"to", to.Key,
		"cells", len(p.Cells(r.lat)),
		"cost", p.Cost)
	return p, nil
}

// candidates returns the cells an original node may be placed on: its
// settled center, or the free centers within range.
func (r *Router) candidates(n *topo.Node) ([]lattice.Candidate, error) {
	if c, ok := r.settled[n.ID]; ok {
		return []lattice.Candidate{{Node: c}}, nil
	}
	maxDist := r.opts.MaxCandidateDistance * r.lat.CellSize()
	var out []lattice.Candidate
	for _, c := range r.lat.NearestCandidates(n.Pos, maxDist) {
		if _, taken := r.occupant[c.Node]; taken {
			continue
		}
		if len(r.lat.ResEdges(c.Node)) > 0 {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %q within %g", ErrNoCandidate, n.Key, maxDist)
	}
	return out, nil
}

// commit reserves the traversed grid and bend edges in both directions.
func (r *Router) commit(e *topo.Edge, src, dst lattice.NodeID, nodes []lattice.NodeID) *Path {
	p := &Path{
		Edge:  e.ID,
		From:  src,
		To:    dst,
		Nodes: slices.Clone(nodes),
	}
	for i := 1; i < len(nodes); i++ {
		id := r.lat.EdgeBetween(nodes[i-1], nodes[i])
		p.Edges = append(p.Edges, id)
		p.Cost += r.lat.Cost(id)
		if r.lat.Edge(id).Kind == lattice.Spoke {
			continue
		}
		r.lat.Reserve(id, e.ID)
		r.lat.Reserve(r.lat.OtherEdge(id), e.ID)
	}
	return p
}

func (r *Router) settle(o topo.NodeID, c lattice.NodeID) {
	if _, ok := r.settled[o]; ok {
		return
	}
	r.settled[o] = c
	r.occupant[c] = o
}

// balance penalizes the lattice around a committed path: every pair of
// consecutive cells, and every cell where the path turns.
func (r *Router) balance(ctx context.Context, p *Path) {
	cells := p.Cells(r.lat)
	for i := 1; i < len(cells); i++ {
		r.lat.BalanceEdge(cells[i-1], cells[i])
		r.result.Stats.BalanceEdges++
		observability.Route().OnPenalty(ctx, "edge")
	}
	for _, id := range p.Edges {
		e := r.lat.Edge(id)
		if e.Kind != lattice.Bend {
			continue
		}
		from, to := r.lat.Node(e.From), r.lat.Node(e.To)
		if compass.Turn(from.Dir, to.Dir) == 4 {
			continue
		}
		r.lat.BalanceNode(from.Parent)
		r.result.Stats.BalanceNodes++
		observability.Route().OnPenalty(ctx, "node")
	}
}

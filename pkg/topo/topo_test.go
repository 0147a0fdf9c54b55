package topo

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/paulmach/orb"
)

// star builds a hub with spokes to the given points.
func star(t *testing.T, pts ...orb.Point) (*Graph, NodeID, []EdgeID) {
	t.Helper()
	g := New()
	hub, err := g.AddNode("hub", "Hub", orb.Point{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	var edges []EdgeID
	for i, p := range pts {
		key := string(rune('a' + i))
		n, err := g.AddNode(key, "", p)
		if err != nil {
			t.Fatal(err)
		}
		e, err := g.AddEdge("", hub, n)
		if err != nil {
			t.Fatal(err)
		}
		edges = append(edges, e)
	}
	return g, hub, edges
}

func TestAddErrors(t *testing.T) {
	g := New()
	a, _ := g.AddNode("a", "", orb.Point{0, 0})
	b, _ := g.AddNode("b", "", orb.Point{1, 0})

	if _, err := g.AddNode("", "", orb.Point{}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty key error = %v", err)
	}
	if _, err := g.AddNode("a", "", orb.Point{}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate key error = %v", err)
	}
	if _, err := g.AddEdge("", a, 99); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown node error = %v", err)
	}
	if _, err := g.AddEdge("", a, a); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self loop error = %v", err)
	}
	if _, err := g.AddEdge("", a, b); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge("a-b", b, a); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate default edge key error = %v", err)
	}
	g.Freeze()
	if _, err := g.AddNode("c", "", orb.Point{}); !errors.Is(err, ErrFrozen) {
		t.Errorf("frozen error = %v", err)
	}
}

func TestFreezeClockwiseOrder(t *testing.T) {
	// West, north, south, east inserted out of order.
	g, hub, e := star(t,
		orb.Point{-1, 0},
		orb.Point{0, 1},
		orb.Point{0, -1},
		orb.Point{1, 0},
	)
	g.Freeze()

	want := []EdgeID{e[1], e[3], e[2], e[0]} // N, E, S, W
	if got := g.Node(hub).OrderedEdges(); !slices.Equal(got, want) {
		t.Errorf("OrderedEdges = %v, want %v", got, want)
	}
}

func TestFreezeIsStable(t *testing.T) {
	g, hub, _ := star(t, orb.Point{1, 1}, orb.Point{-1, -1}, orb.Point{1, -1})
	g.Freeze()
	before := g.Node(hub).OrderedEdges()
	g.Node(hub).Pos = orb.Point{5, 5}
	g.Freeze()
	if got := g.Node(hub).OrderedEdges(); !slices.Equal(got, before) {
		t.Errorf("order changed after second Freeze: %v -> %v", before, got)
	}
}

func TestDistBetween(t *testing.T) {
	g, hub, e := star(t,
		orb.Point{0, 1},
		orb.Point{1, 0},
		orb.Point{0, -1},
		orb.Point{-1, 0},
	)
	g.Freeze()
	n := g.Node(hub)

	tests := []struct {
		a, b EdgeID
		want int
	}{
		{e[0], e[0], 0},
		{e[0], e[1], 1},
		{e[0], e[3], 3},
		{e[3], e[0], 1},
		{e[2], e[1], 3},
		{e[0], NoEdge, -1},
	}
	for _, tt := range tests {
		if got := n.DistBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("DistBetween(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if n.Degree() != 4 {
		t.Errorf("Degree = %d, want 4", n.Degree())
	}
	if !n.HasOrderedEdge(e[2]) || n.HasOrderedEdge(NoEdge) {
		t.Error("HasOrderedEdge mismatch")
	}
}

func TestHasOrderedEdgeBeforeFreeze(t *testing.T) {
	g, hub, e := star(t, orb.Point{0, 1})
	if g.Node(hub).HasOrderedEdge(e[0]) {
		t.Error("HasOrderedEdge true before Freeze")
	}
}

func TestSetOrder(t *testing.T) {
	g, hub, e := star(t, orb.Point{0, 1}, orb.Point{1, 0}, orb.Point{0, -1})

	if err := g.SetOrder(hub, []EdgeID{e[0], e[1]}); !errors.Is(err, ErrBadOrder) {
		t.Errorf("short order error = %v", err)
	}
	if err := g.SetOrder(hub, []EdgeID{e[0], e[0], e[1]}); !errors.Is(err, ErrBadOrder) {
		t.Errorf("repeated order error = %v", err)
	}
	if err := g.SetOrder(hub, []EdgeID{e[0], e[1], 42}); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("unknown edge error = %v", err)
	}

	pinned := []EdgeID{e[2], e[0], e[1]}
	if err := g.SetOrder(hub, pinned); err != nil {
		t.Fatalf("SetOrder: %v", err)
	}
	g.Freeze()
	if got := g.Node(hub).OrderedEdges(); !slices.Equal(got, pinned) {
		t.Errorf("OrderedEdges = %v, want pinned %v", got, pinned)
	}
}

func TestBearing(t *testing.T) {
	o := orb.Point{0, 0}
	tests := []struct {
		p    orb.Point
		want float64
	}{
		{orb.Point{0, 1}, 0},
		{orb.Point{1, 0}, math.Pi / 2},
		{orb.Point{0, -1}, math.Pi},
		{orb.Point{-1, 0}, 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		if got := Bearing(o, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Bearing(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestBoundAndLookup(t *testing.T) {
	g, _, _ := star(t, orb.Point{-2, 3}, orb.Point{4, -1})
	b := g.Bound()
	if b.Min != (orb.Point{-2, -1}) || b.Max != (orb.Point{4, 3}) {
		t.Errorf("Bound = %v", b)
	}
	n, ok := g.NodeByKey("hub")
	if !ok || n.Name() != "Hub" {
		t.Errorf("NodeByKey(hub) = %v, %v", n, ok)
	}
	if _, ok := g.EdgeByKey("hub-a"); !ok {
		t.Error("EdgeByKey(hub-a) not found")
	}
	if g.Node(99) != nil || g.Edge(99) != nil {
		t.Error("out of range lookups should be nil")
	}
}

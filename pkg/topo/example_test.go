package topo_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/topo"
)

func ExampleGraph_Freeze() {
	g := topo.New()
	hub, _ := g.AddNode("hub", "Hauptbahnhof", orb.Point{0, 0})
	south, _ := g.AddNode("s", "", orb.Point{0, -10})
	north, _ := g.AddNode("n", "", orb.Point{0, 10})
	east, _ := g.AddNode("e", "", orb.Point{10, 0})

	toSouth, _ := g.AddEdge("", hub, south, "U1")
	toNorth, _ := g.AddEdge("", hub, north, "U1")
	_, _ = g.AddEdge("", hub, east, "U2")
	g.Freeze()

	h := g.Node(hub)
	for _, e := range h.OrderedEdges() {
		fmt.Println(g.Edge(e).Key)
	}
	fmt.Println(h.DistBetween(toNorth, toSouth))
	// Output:
	// hub-n
	// hub-e
	// hub-s
	// 2
}

// Package topo models the original transit topology that gets embedded onto
// the octilinear lattice.
//
// The model is deliberately small: stations ([Node]) with a position and
// optional stop names, and segments ([Edge]) carrying the lines that run
// along them. What matters to the lattice is the rotational order of edges
// around each node, which [Graph.Freeze] computes once (clockwise, starting
// at north) and never changes afterwards.
//
// Nodes and edges live in arenas addressed by [NodeID] and [EdgeID]. The
// string keys used in input files are only kept for lookup and display.
//
// # Distances
//
// [Node.DistBetween] returns how many clockwise steps separate two incident
// edges in the node's order. This is the quantity the lattice's topological
// penalty compares against the directions already occupied on the lattice.
package topo

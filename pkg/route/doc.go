// Package route embeds an original topology onto a lattice.
//
// The [Router] is the lattice's client: it picks the order in which original
// edges are embedded, finds candidate cells for their endpoints, runs a
// shortest path search over the current lattice costs and commits the
// result as reservations. After each commit it calls the lattice's balancing
// operations so that later searches see the capacity already consumed and
// the clockwise edge order that settled stations must keep.
//
// Routing is sequential and mutates the lattice. A lattice must not be
// routed by two routers at once.
package route

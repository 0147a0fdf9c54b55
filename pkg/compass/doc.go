// Package compass implements the closed eight-direction algebra used by the
// octilinear lattice.
//
// # Directions
//
// A [Direction] is one of eight compass points numbered clockwise from north:
//
//	N=0, NE=1, E=2, SE=3, S=4, SW=5, W=6, NW=7
//
// The numbering matches the port layout of a lattice cell, so a direction
// doubles as a port index. All arithmetic wraps modulo 8; callers never need to
// write the modulo themselves.
//
// # Turns
//
// [Turn] returns the angular separation between two directions in 45° steps
// (0..4). A value of 4 means the directions are opposite, i.e. a straight
// traversal when used as entry and exit ports. [Steps] returns the clockwise
// distance (0..7), which is the quantity the topological ordering penalty
// walks over.
//
// # Offsets
//
// [Direction.Offset] gives the grid offset of the neighboring cell, with y
// growing northwards.
package compass

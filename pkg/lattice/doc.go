// Package lattice implements the octilinear grid graph that transit lines are
// embedded onto.
//
// # Structure
//
// A [Lattice] covers a bounding box with square cells. Every cell holds a
// center node and eight port nodes, one per compass direction, placed a tenth
// of the cell size away from the center. Three kinds of directed edges join
// them, always in pairs (one per direction):
//
//   - spoke edges between a center and its own ports, at [SpokeCost];
//   - bend edges between two ports of the same cell whose directions are not
//     45° apart, priced by turn angle (see [Costs.Bends]);
//   - grid edges between a port and the opposite port of the adjacent cell in
//     that direction, priced by direction class (vertical, horizontal,
//     diagonal).
//
// The topology is fixed after [New]. Only edge costs and reservations change.
//
// # Balancing
//
// A router embeds original edges one after the other. After each commit it
// calls [Lattice.BalanceEdge] for consecutive cells on the path,
// [Lattice.BalanceNode] where the path bends, and, before routing the next
// edge out of a settled node, [Lattice.TopoPenalty] to bias the search toward
// directions that keep the node's clockwise edge order. All three only ever
// add to costs, and they always update both directions of an edge pair.
//
// Penalties come in three tiers that must stay ordered:
//
//	SpokeCost < BalancePenalty < TopoBlockPenalty
//
// # Errors
//
// [New] returns wrapped sentinel errors for bad input. Addressing a node that
// is not a center where a center is required is a programming error and
// panics. Inconsistent caller input to the balancing operations is logged at
// warn level and leaves the lattice unchanged.
//
// A Lattice is not safe for concurrent use.
package lattice

package lattice

import (
	"github.com/matzehuels/octigrid/pkg/compass"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// BalanceNode penalizes the diagonal grid edges that cut the north-east and
// south-east corners of center c, so that no later route can cross a bend
// committed at c. Corners with a missing neighbor are skipped.
func (l *Lattice) BalanceNode(c NodeID) {
	x, y := l.CoordsOf(c)
	for _, corner := range []compass.Direction{compass.NE, compass.SE} {
		a := l.Neighbor(x, y, corner.Rotate(-1))
		b := l.Neighbor(x, y, corner.Rotate(1))
		if a == NoNode || b == NoNode {
			continue
		}
		port := corner.Rotate(2)
		e := l.EdgeBetween(l.Port(a, port), l.Port(b, port.Opposite()))
		if e == NoEdge {
			panic("lattice: missing corner edge between adjacent cells")
		}
		l.penalize(e, BalancePenalty)
	}
}

// BalanceEdge penalizes every grid edge around the adjacent centers a and b
// after a route was committed between them. For a diagonal step the edge
// between the two side neighbors, which would cross the route, is penalized
// as well. It does nothing if a == b and logs a warning if the centers are
// not adjacent.
func (l *Lattice) BalanceEdge(a, b NodeID) {
	if a == b {
		return
	}
	dir, ok := l.Direction(a, b)
	if !ok {
		l.logger.Warn("balance edge between non-adjacent centers", "a", a, "b", b)
		return
	}

	ax, ay := l.CoordsOf(a)
	bx, by := l.CoordsOf(b)
	for _, d := range compass.All {
		if e := l.NEdge(a, l.Neighbor(ax, ay, d)); e != NoEdge {
			l.penalize(e, BalancePenalty)
		}
		if e := l.NEdge(b, l.Neighbor(bx, by, d)); e != NoEdge {
			l.penalize(e, BalancePenalty)
		}
	}

	if !dir.IsDiagonal() {
		return
	}
	na := l.Neighbor(ax, ay, dir.Rotate(-1))
	nb := l.Neighbor(ax, ay, dir.Rotate(1))
	if na == NoNode || nb == NoNode {
		return
	}
	e := l.NEdge(na, nb)
	f := l.NEdge(nb, na)
	if e == NoEdge || f == NoEdge {
		panic("lattice: missing crossing edge between side neighbors")
	}
	l.addCost(e, BalancePenalty)
	l.addCost(f, BalancePenalty)
}

// TopoPenalty biases the grid edges leaving center c so that edge e of the
// original node orig is placed where it keeps orig's clockwise edge order
// with respect to the siblings already routed out of c.
//
// For every occupied direction i, holding sibling s, let d be the number of
// edges strictly between s and e in orig's clockwise order. Directions
// around i receive a soft penalty that decays by [TopoDecayStep] per step,
// the d directions clockwise after i receive [BalancePenalty], and any
// direction lying between two siblings of which the later one is closer to e
// is set to [TopoBlockPenalty].
//
// It reports whether a penalty was applied. If e or one of the siblings is
// not part of orig's order the call logs a warning and changes nothing.
func (l *Lattice) TopoPenalty(c NodeID, orig OrderedNode, e topo.EdgeID) bool {
	l.center(c)
	if !orig.HasOrderedEdge(e) {
		l.logger.Warn("topo penalty for edge not in node order", "node", orig.Name(), "edge", e)
		return false
	}
	deg := orig.Degree()
	if deg <= 0 {
		l.logger.Warn("topo penalty for node without edges", "node", orig.Name(), "edge", e)
		return false
	}
	// Above eight edges optim is -1; the forward width then wraps to
	// 8-(2d+1) mod 8.
	optim := compass.Count/deg - 1

	var (
		outgoing [compass.Count]topo.EdgeID
		placed   [compass.Count]bool
		found    bool
	)
	for _, d := range compass.All {
		g := l.GridEdge(c, d)
		if g == NoEdge {
			continue
		}
		s, ok := l.FirstReservation(g)
		if !ok {
			continue
		}
		if !orig.HasOrderedEdge(s) {
			l.logger.Warn("topo penalty with foreign sibling", "node", orig.Name(), "edge", e, "sibling", s, "dir", d)
			return false
		}
		outgoing[d], placed[d] = s, true
		found = true
	}
	if !found {
		return false
	}

	var add [compass.Count]float64
	for i := 0; i < compass.Count; i++ {
		if !placed[i] {
			continue
		}
		d := orig.DistBetween(outgoing[i], e) - 1

		// dd is the non-negative residue, also for d == -1 (e itself is
		// placed at i). ddd keeps the sign of 6-dd, so dd == 7 walks no
		// backward directions.
		dd := compass.Mod((2*d + 1) * optim)
		ddd := (6 - dd) % compass.Count

		for j := 0; j <= dd+1; j++ {
			add[compass.Mod(i+j)] += TopoDecayStep * float64(dd+1-j)
		}
		for j := 0; j <= ddd+1; j++ {
			add[compass.Mod(i-j)] += TopoDecayStep * float64(ddd+1-j)
		}

		switch {
		case d > 0:
			for j := 1; j <= d; j++ {
				add[compass.Mod(i+j)] += BalancePenalty
			}
		case d < 0:
			for j := 1; j <= -d; j++ {
				add[compass.Mod(i-j)] += BalancePenalty
			}
		}
	}

	// Every placed sibling anchors a scan, not just the first one found
	// from N. With siblings placed out of order the blocks of different
	// anchors can together cover every free direction.
	for i := 0; i < compass.Count; i++ {
		if !placed[i] {
			continue
		}
		da := orig.DistBetween(outgoing[i], e)
		for j := i + 1; j < i+compass.Count; j++ {
			jj := compass.Mod(j)
			if !placed[jj] {
				continue
			}
			if outgoing[jj] == outgoing[i] {
				break
			}
			if orig.DistBetween(outgoing[jj], e) < da {
				for k := i + 1; k < j; k++ {
					add[compass.Mod(k)] = TopoBlockPenalty
				}
			}
		}
	}

	for _, d := range compass.All {
		g := l.GridEdge(c, d)
		if g == NoEdge {
			continue
		}
		l.penalize(g, add[d])
	}

	l.logger.Debug("applied topo penalty", "node", orig.Name(), "edge", e, "costs", add)
	return true
}

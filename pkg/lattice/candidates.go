package lattice

import (
	"cmp"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Candidate is a center near a query point.
type Candidate struct {
	Node NodeID
	Dist float64
}

// NearestCandidates returns the centers strictly closer than maxDist to p,
// nearest first. Equal distances are ordered by ascending node id.
func (l *Lattice) NearestCandidates(p orb.Point, maxDist float64) []Candidate {
	if !(maxDist > 0) {
		return nil
	}
	box := orb.Bound{
		Min: orb.Point{p[0] - maxDist, p[1] - maxDist},
		Max: orb.Point{p[0] + maxDist, p[1] + maxDist},
	}

	var out []Candidate
	for _, n := range l.grid.Query(box) {
		d := planar.Distance(l.nodes[n].Pos, p)
		if d < maxDist {
			out = append(out, Candidate{Node: n, Dist: d})
		}
	}
	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(a.Dist, b.Dist); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	return out
}

// Package spatial provides a uniform cell grid for indexing values by
// position.
//
// The grid partitions a bounding box into fixed-size cells. Values are added
// to explicit cell coordinates, which lets callers that already know the
// discrete position of a value (such as lattice centers) skip the float
// round trip. Queries by bounding box return the values of every cell that
// intersects the box.
//
// A Grid is not safe for concurrent mutation.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidCellSize is returned by [New] when a cell dimension is not
	// strictly positive.
	ErrInvalidCellSize = errors.New("cell size must be positive")

	// ErrInvalidBound is returned by [New] for an empty or inverted bound.
	ErrInvalidBound = errors.New("bound must have Min <= Max")
)

// Cell is a discrete grid position.
type Cell struct {
	X, Y int
}

// Grid indexes values of type T by cell.
type Grid[T comparable] struct {
	bound      orb.Bound
	cellWidth  float64
	cellHeight float64
	xWidth     int
	yHeight    int
	cells      [][]T
	index      map[T][]Cell
}

// New creates an empty grid covering bound with the given cell dimensions.
// The number of cells along each axis is ceil(extent / cell), at least one.
func New[T comparable](bound orb.Bound, cellWidth, cellHeight float64) (*Grid[T], error) {
	if !(cellWidth > 0) || !(cellHeight > 0) || math.IsInf(cellWidth, 0) || math.IsInf(cellHeight, 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidCellSize, cellWidth, cellHeight)
	}
	if bound.Min[0] > bound.Max[0] || bound.Min[1] > bound.Max[1] {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBound, bound)
	}

	xw := cellCount(bound.Max[0]-bound.Min[0], cellWidth)
	yh := cellCount(bound.Max[1]-bound.Min[1], cellHeight)

	return &Grid[T]{
		bound:      bound,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		xWidth:     xw,
		yHeight:    yh,
		cells:      make([][]T, xw*yh),
		index:      make(map[T][]Cell),
	}, nil
}

func cellCount(extent, cell float64) int {
	n := int(math.Ceil(extent / cell))
	if n < 1 {
		return 1
	}
	return n
}

// XWidth returns the number of cells along the x axis.
func (g *Grid[T]) XWidth() int { return g.xWidth }

// YHeight returns the number of cells along the y axis.
func (g *Grid[T]) YHeight() int { return g.yHeight }

// Bound returns the indexed area.
func (g *Grid[T]) Bound() orb.Bound { return g.bound }

// InRange reports whether (x, y) is a valid cell coordinate.
func (g *Grid[T]) InRange(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.xWidth && y < g.yHeight
}

// Add stores v in cell (x, y). Adding the same value to the same cell twice
// is a no-op. Add panics if (x, y) is out of range.
func (g *Grid[T]) Add(x, y int, v T) {
	if !g.InRange(x, y) {
		panic(fmt.Sprintf("spatial: cell (%d,%d) out of range %dx%d", x, y, g.xWidth, g.yHeight))
	}
	c := Cell{x, y}
	for _, have := range g.index[v] {
		if have == c {
			return
		}
	}
	i := g.slot(x, y)
	g.cells[i] = append(g.cells[i], v)
	g.index[v] = append(g.index[v], c)
}

// Get returns the values stored in cell (x, y) in insertion order, or nil
// when the cell is out of range or empty. The returned slice must not be
// modified.
func (g *Grid[T]) Get(x, y int) []T {
	if !g.InRange(x, y) {
		return nil
	}
	return g.cells[g.slot(x, y)]
}

// Cells returns every cell v was added to.
func (g *Grid[T]) Cells(v T) []Cell {
	cells := g.index[v]
	out := make([]Cell, len(cells))
	copy(out, cells)
	return out
}

// CellOf returns the cell containing p, clamped into the grid.
func (g *Grid[T]) CellOf(p orb.Point) Cell {
	return Cell{
		X: clamp(int(math.Floor((p[0]-g.bound.Min[0])/g.cellWidth)), g.xWidth),
		Y: clamp(int(math.Floor((p[1]-g.bound.Min[1])/g.cellHeight)), g.yHeight),
	}
}

// Query returns the values of every cell intersecting b, without
// duplicates. Cells are visited x-major, values in insertion order, so the
// result order is deterministic.
func (g *Grid[T]) Query(b orb.Bound) []T {
	if b.Max[0] < g.bound.Min[0] || b.Max[1] < g.bound.Min[1] ||
		b.Min[0] > g.bound.Max[0]+g.cellWidth || b.Min[1] > g.bound.Max[1]+g.cellHeight {
		return nil
	}
	lo := g.CellOf(b.Min)
	hi := g.CellOf(b.Max)

	var out []T
	seen := make(map[T]struct{})
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for _, v := range g.cells[g.slot(x, y)] {
				if _, dup := seen[v]; dup {
					continue
				}
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}

// Len returns the number of distinct values in the grid.
func (g *Grid[T]) Len() int { return len(g.index) }

func (g *Grid[T]) slot(x, y int) int { return x*g.yHeight + y }

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

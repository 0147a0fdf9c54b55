package spatial

import (
	"errors"
	"slices"
	"testing"

	"github.com/paulmach/orb"
)

func bound(x0, y0, x1, y1 float64) orb.Bound {
	return orb.Bound{Min: orb.Point{x0, y0}, Max: orb.Point{x1, y1}}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		b    orb.Bound
		cw   float64
		want error
	}{
		{"ZeroCell", bound(0, 0, 10, 10), 0, ErrInvalidCellSize},
		{"NegativeCell", bound(0, 0, 10, 10), -1, ErrInvalidCellSize},
		{"Inverted", bound(10, 0, 0, 10), 1, ErrInvalidBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[int](tt.b, tt.cw, tt.cw)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		b      orb.Bound
		cell   float64
		wx, wy int
	}{
		{bound(0, 0, 30, 30), 10, 3, 3},
		{bound(0, 0, 31, 20), 10, 4, 2},
		{bound(5, 5, 5, 5), 10, 1, 1},
	}
	for _, tt := range tests {
		g, err := New[int](tt.b, tt.cell, tt.cell)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if g.XWidth() != tt.wx || g.YHeight() != tt.wy {
			t.Errorf("dims of %v = %dx%d, want %dx%d", tt.b, g.XWidth(), g.YHeight(), tt.wx, tt.wy)
		}
	}
}

func TestAddGetCells(t *testing.T) {
	g, _ := New[string](bound(0, 0, 30, 30), 10, 10)
	g.Add(1, 2, "a")
	g.Add(1, 2, "b")
	g.Add(1, 2, "a")
	g.Add(0, 0, "c")

	if got := g.Get(1, 2); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Get(1,2) = %v", got)
	}
	if got := g.Get(5, 5); got != nil {
		t.Errorf("Get out of range = %v, want nil", got)
	}
	if cells := g.Cells("a"); len(cells) != 1 || cells[0] != (Cell{1, 2}) {
		t.Errorf("Cells(a) = %v", cells)
	}
	if cells := g.Cells("zzz"); len(cells) != 0 {
		t.Errorf("Cells(zzz) = %v", cells)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
}

func TestAddOutOfRangePanics(t *testing.T) {
	g, _ := New[int](bound(0, 0, 10, 10), 10, 10)
	defer func() {
		if recover() == nil {
			t.Error("Add out of range did not panic")
		}
	}()
	g.Add(3, 0, 1)
}

func TestQuery(t *testing.T) {
	g, _ := New[int](bound(0, 0, 40, 40), 10, 10)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			g.Add(x, y, x*10+y)
		}
	}

	got := g.Query(bound(9, 9, 21, 11))
	want := []int{0, 1, 10, 11, 20, 21}
	if !slices.Equal(got, want) {
		t.Errorf("Query = %v, want %v", got, want)
	}

	if got := g.Query(bound(100, 100, 200, 200)); got != nil {
		t.Errorf("Query outside = %v, want nil", got)
	}

	// Clamped query covering everything yields every value once.
	if got := g.Query(bound(-100, -100, 100, 100)); len(got) != 16 {
		t.Errorf("Query all = %d values, want 16", len(got))
	}
}

func TestCellOfClamps(t *testing.T) {
	g, _ := New[int](bound(0, 0, 30, 30), 10, 10)
	tests := []struct {
		p    orb.Point
		want Cell
	}{
		{orb.Point{0, 0}, Cell{0, 0}},
		{orb.Point{15, 25}, Cell{1, 2}},
		{orb.Point{-5, 45}, Cell{0, 2}},
		{orb.Point{30, 30}, Cell{2, 2}},
	}
	for _, tt := range tests {
		if got := g.CellOf(tt.p); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

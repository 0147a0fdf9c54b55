package compass

import "testing"

func TestOpposite(t *testing.T) {
	for _, d := range All {
		o := d.Opposite()
		if o.Opposite() != d {
			t.Errorf("%s.Opposite().Opposite() = %s", d, o.Opposite())
		}
		if Turn(d, o) != 4 {
			t.Errorf("Turn(%s, %s) = %d, want 4", d, o, Turn(d, o))
		}
		dx, dy := d.Offset()
		ox, oy := o.Offset()
		if dx != -ox || dy != -oy {
			t.Errorf("offset of %s = (%d,%d), opposite %s = (%d,%d)", d, dx, dy, o, ox, oy)
		}
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		d    Direction
		k    int
		want Direction
	}{
		{N, 1, NE},
		{N, -1, NW},
		{NW, 1, N},
		{E, 8, E},
		{E, -9, NE},
		{S, 20, N},
		{SW, -13, N},
	}
	for _, tt := range tests {
		if got := tt.d.Rotate(tt.k); got != tt.want {
			t.Errorf("%s.Rotate(%d) = %s, want %s", tt.d, tt.k, got, tt.want)
		}
	}
}

func TestMod(t *testing.T) {
	for i := -24; i <= 24; i++ {
		m := Mod(i)
		if m < 0 || m >= Count {
			t.Fatalf("Mod(%d) = %d out of range", i, m)
		}
		if (i-m)%Count != 0 {
			t.Errorf("Mod(%d) = %d not congruent", i, m)
		}
	}
}

func TestTurnAllPairs(t *testing.T) {
	for _, a := range All {
		for _, b := range All {
			got := Turn(a, b)
			cw := Steps(a, b)
			want := cw
			if cw > 4 {
				want = Count - cw
			}
			if got != want {
				t.Errorf("Turn(%s, %s) = %d, want %d", a, b, got, want)
			}
			if Turn(b, a) != got {
				t.Errorf("Turn not symmetric for %s, %s", a, b)
			}
		}
	}
}

func TestStepsAllPairs(t *testing.T) {
	for _, a := range All {
		for _, b := range All {
			s := Steps(a, b)
			if s < 0 || s >= Count {
				t.Fatalf("Steps(%s, %s) = %d out of range", a, b, s)
			}
			if a.Rotate(s) != b {
				t.Errorf("%s.Rotate(Steps(%s, %s)) = %s, want %s", a, a, b, a.Rotate(s), b)
			}
			if a != b && Steps(a, b)+Steps(b, a) != Count {
				t.Errorf("Steps(%s,%s)+Steps(%s,%s) != 8", a, b, b, a)
			}
		}
	}
}

func TestBetween(t *testing.T) {
	for _, a := range All {
		for _, b := range All {
			got := Between(a, b)
			want := Steps(a, b) - 1
			if a == b {
				want = Count - 1
			}
			if len(got) != want {
				t.Errorf("len(Between(%s, %s)) = %d, want %d", a, b, len(got), want)
				continue
			}
			for i, d := range got {
				if d != a.Rotate(i+1) {
					t.Errorf("Between(%s, %s)[%d] = %s, want %s", a, b, i, d, a.Rotate(i+1))
				}
			}
		}
	}
}

func TestClass(t *testing.T) {
	want := map[Direction]Class{
		N: Vertical, S: Vertical,
		E: Horizontal, W: Horizontal,
		NE: Diagonal, SE: Diagonal, SW: Diagonal, NW: Diagonal,
	}
	for d, c := range want {
		if d.Class() != c {
			t.Errorf("%s.Class() = %s, want %s", d, d.Class(), c)
		}
		if d.IsDiagonal() != (c == Diagonal) {
			t.Errorf("%s.IsDiagonal() = %v", d, d.IsDiagonal())
		}
	}
}

func TestOffsetsMatchClass(t *testing.T) {
	for _, d := range All {
		dx, dy := d.Offset()
		switch d.Class() {
		case Vertical:
			if dx != 0 || dy == 0 {
				t.Errorf("%s offset (%d,%d) not vertical", d, dx, dy)
			}
		case Horizontal:
			if dy != 0 || dx == 0 {
				t.Errorf("%s offset (%d,%d) not horizontal", d, dx, dy)
			}
		case Diagonal:
			if dx == 0 || dy == 0 {
				t.Errorf("%s offset (%d,%d) not diagonal", d, dx, dy)
			}
		}
	}
}

func TestString(t *testing.T) {
	if NE.String() != "NE" {
		t.Errorf("NE.String() = %q", NE.String())
	}
	if Direction(9).String() != "Direction(9)" {
		t.Errorf("invalid direction String() = %q", Direction(9).String())
	}
}

package compass

import "fmt"

// Count is the number of compass directions.
const Count = 8

// Direction is a compass direction and, equivalently, a port index.
type Direction uint8

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

// All lists every direction in clockwise order starting at north.
var All = [Count]Direction{N, NE, E, SE, S, SW, W, NW}

var names = [Count]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// offsets are indexed by direction; y grows northwards.
var offsets = [Count][2]int{
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
	{-1, 0},
	{-1, 1},
}

// Class groups directions by the base cost they are charged.
type Class uint8

const (
	Vertical Class = iota
	Horizontal
	Diagonal
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "diagonal"
	}
}

// Mod reduces i into 0..7, also for negative i.
func Mod(i int) int {
	return ((i % Count) + Count) % Count
}

// FromInt converts an arbitrary integer into a direction, wrapping modulo 8.
func FromInt(i int) Direction {
	return Direction(Mod(i))
}

// Valid reports whether d is one of the eight directions.
func (d Direction) Valid() bool { return d < Count }

// String returns the compass abbreviation, e.g. "NE".
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return names[d]
}

// Opposite returns the direction rotated by 180°.
func (d Direction) Opposite() Direction { return d.Rotate(4) }

// Rotate returns d turned clockwise by k steps of 45°. Negative k turns
// counter-clockwise.
func (d Direction) Rotate(k int) Direction {
	return FromInt(int(d) + k)
}

// IsDiagonal reports whether d is one of NE, SE, SW, NW.
func (d Direction) IsDiagonal() bool { return d%2 == 1 }

// Class returns the cost class of d.
func (d Direction) Class() Class {
	switch {
	case d%4 == 0:
		return Vertical
	case d%4 == 2:
		return Horizontal
	default:
		return Diagonal
	}
}

// Offset returns the grid offset of the neighbor cell in direction d.
func (d Direction) Offset() (dx, dy int) {
	o := offsets[d%Count]
	return o[0], o[1]
}

// Steps returns the number of clockwise 45° steps needed to get from a to b.
func Steps(a, b Direction) int {
	return Mod(int(b) - int(a))
}

// Turn returns the angular separation between a and b in 45° steps, 0..4.
func Turn(a, b Direction) int {
	d := Mod(int(a)-int(b)+4) - 4
	if d < 0 {
		return -d
	}
	return d
}

// Between returns the directions strictly between from and to when walking
// clockwise. Between(N, E) is [NE]; Between(d, d) walks the full circle and
// returns the seven other directions.
func Between(from, to Direction) []Direction {
	n := Steps(from, to)
	if n == 0 {
		n = Count
	}
	out := make([]Direction, 0, n-1)
	for k := 1; k < n; k++ {
		out = append(out, from.Rotate(k))
	}
	return out
}

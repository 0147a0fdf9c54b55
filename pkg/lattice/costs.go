package lattice

import (
	"errors"
	"fmt"

	"github.com/matzehuels/octigrid/pkg/compass"
)

// Sentinel cost tiers.
const (
	// SpokeCost is charged for entering or leaving a center through a spoke.
	SpokeCost = 88888.0

	// BalancePenalty is added to grid edges that would run next to or cut
	// across an already committed route.
	BalancePenalty = 99999.0

	// TopoBlockPenalty marks directions that would break the clockwise edge
	// order of a settled node.
	TopoBlockPenalty = 999999.0

	// TopoDecayStep is the slope of the soft topological penalty.
	TopoDecayStep = 20.0
)

// ErrCostOrder is returned when turn costs are not strictly increasing with
// turn severity.
var ErrCostOrder = errors.New("turn costs must satisfy turn_0 < turn_135 < turn_90 < turn_45")

// ErrNegativeCost is returned for negative base costs.
var ErrNegativeCost = errors.New("base costs must not be negative")

// Costs configures turn penalties and per-direction base costs.
//
// The turn fields are the penalties for passing a cell straight (0°) or
// turning by 45°, 90° or 135°.
type Costs struct {
	Turn0      float64 `toml:"turn_0" json:"turn_0"`
	Turn45     float64 `toml:"turn_45" json:"turn_45"`
	Turn90     float64 `toml:"turn_90" json:"turn_90"`
	Turn135    float64 `toml:"turn_135" json:"turn_135"`
	Vertical   float64 `toml:"vertical" json:"vertical"`
	Horizontal float64 `toml:"horizontal" json:"horizontal"`
	Diagonal   float64 `toml:"diagonal" json:"diagonal"`
}

// DefaultCosts returns the standard cost set.
func DefaultCosts() Costs {
	return Costs{
		Turn0:      0,
		Turn45:     90,
		Turn90:     30,
		Turn135:    10,
		Vertical:   3,
		Horizontal: 3,
		Diagonal:   3,
	}
}

// Validate checks the turn cost ordering and that base costs are not
// negative.
func (c Costs) Validate() error {
	if !(c.Turn0 < c.Turn135 && c.Turn135 < c.Turn90 && c.Turn90 < c.Turn45) {
		return fmt.Errorf("%w: got %g, %g, %g, %g", ErrCostOrder, c.Turn0, c.Turn135, c.Turn90, c.Turn45)
	}
	if c.Vertical < 0 || c.Horizontal < 0 || c.Diagonal < 0 {
		return fmt.Errorf("%w: got %g, %g, %g", ErrNegativeCost, c.Vertical, c.Horizontal, c.Diagonal)
	}
	return nil
}

// Base returns the grid edge cost for a direction class.
func (c Costs) Base(cl compass.Class) float64 {
	switch cl {
	case compass.Vertical:
		return c.Vertical
	case compass.Horizontal:
		return c.Horizontal
	default:
		return c.Diagonal
	}
}

// BendCosts are the costs written onto bend edges, indexed by the angular
// separation of the two ports.
type BendCosts struct {
	Straight float64 // ports opposite each other, 4 steps apart
	Right    float64 // 2 steps apart
	Sharp    float64 // 3 steps apart
}

// Bends derives the bend edge costs from the turn penalties:
//
//	Straight = turn_45 - turn_135
//	Right    = turn_45 - turn_135 + turn_90
//	Sharp    = turn_45
func (c Costs) Bends() BendCosts {
	return BendCosts{
		Straight: c.Turn45 - c.Turn135,
		Right:    c.Turn45 - c.Turn135 + c.Turn90,
		Sharp:    c.Turn45,
	}
}

// ForTurn returns the bend cost for ports that are deg 45° steps apart. It
// reports false for separations that get no bend edge.
func (b BendCosts) ForTurn(deg int) (float64, bool) {
	switch deg {
	case 2:
		return b.Right, true
	case 3:
		return b.Sharp, true
	case 4:
		return b.Straight, true
	default:
		return 0, false
	}
}

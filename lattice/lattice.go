// Package lattice maps grid coordinates of a map to positions in the plane.
// Squared distances between those positions define neuron neighborhoods.
package lattice

import "math"

// Lattice maps a grid coordinate (x, y) to a topological position.
// Implementations must be pure and deterministic.
type Lattice interface {
	Position(x, y int) [2]float64
	Name() string
}

// Square places neurons on the integer grid.
type Square struct{}

// Position returns (x, y).
func (Square) Position(x, y int) [2]float64 {
	return [2]float64{float64(x), float64(y)}
}

// Name returns "square".
func (Square) Name() string { return "square" }

var (
	hexOffsetX = math.Cos(math.Pi / 3)
	hexOffsetY = math.Sin(math.Pi / 3)
)

// Hexagonal shifts every odd row by half a cell and compresses rows by
// sin(60°), so each neuron has six equidistant neighbors.
type Hexagonal struct{}

// Position returns (x + (y mod 2)·cos60°, y·sin60°).
func (Hexagonal) Position(x, y int) [2]float64 {
	return [2]float64{
		float64(x) + float64(y%2)*hexOffsetX,
		float64(y) * hexOffsetY,
	}
}

// Name returns "hexagonal".
func (Hexagonal) Name() string { return "hexagonal" }

// Registry maps lattice names to their implementations.
var Registry = map[string]Lattice{
	"square":    Square{},
	"grid":      Square{},
	"hexagonal": Hexagonal{},
	"hex":       Hexagonal{},
}

// Get returns the lattice registered under name.
func Get(name string) (Lattice, bool) {
	l, ok := Registry[name]
	return l, ok
}

// DistanceSquared returns the squared Euclidean distance between two
// lattice positions.
func DistanceSquared(a, b [2]float64) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	return dx*dx + dy*dy
}

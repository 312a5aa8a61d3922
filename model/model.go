// Package model holds the state of a self-organizing map: its grid
// topology, the neuron-to-neuron distance matrix and the weight matrix.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/nozzle/som/lattice"
	"github.com/nozzle/som/matrix"
)

// ErrInvalidDimensions is returned for a grid or data dimension below one.
var ErrInvalidDimensions = errors.New("model: dimensions must be >= 1")

// ErrDimensionMismatch is returned when a vector does not have the model's
// data dimension.
var ErrDimensionMismatch = errors.New("model: vector dimension mismatch")

// neighborTolerance absorbs rounding in hexagonal positions, whose unit
// neighbors land a few ulps above 1.
const neighborTolerance = 1e-9

// Model is a self-organizing map. Neuron i sits at grid cell
// (i mod width, i / width).
type Model struct {
	width, height int
	dimension     int
	lattice       lattice.Lattice

	// distances holds squared lattice distances between every neuron pair.
	distances *matrix.Matrix
	// weights holds one weight vector per row.
	weights *matrix.Matrix
}

// New creates a width×height map with the given data dimension.
// A nil lattice selects the square lattice. Weights start at zero.
func New(width, height, dimension int, l lattice.Lattice) (*Model, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("data dimension %d: %w", dimension, ErrInvalidDimensions)
	}
	if l == nil {
		l = lattice.Square{}
	}
	m := &Model{dimension: dimension, lattice: l}
	if err := m.SetDimensions(width, height); err != nil {
		return nil, err
	}
	return m, nil
}

// Width returns the horizontal grid extent.
func (m *Model) Width() int { return m.width }

// Height returns the vertical grid extent.
func (m *Model) Height() int { return m.height }

// Dimension returns the data dimension of every weight vector.
func (m *Model) Dimension() int { return m.dimension }

// NeuronCount returns width·height.
func (m *Model) NeuronCount() int { return m.width * m.height }

// Lattice returns the current lattice.
func (m *Model) Lattice() lattice.Lattice { return m.lattice }

// DistanceMatrix returns the squared lattice distance between neurons.
// Callers must not modify it.
func (m *Model) DistanceMatrix() *matrix.Matrix { return m.distances }

// WeightMatrix returns the live weight matrix, one neuron per row.
func (m *Model) WeightMatrix() *matrix.Matrix { return m.weights }

// SetDimensions resizes the grid. The distance matrix is recomputed and the
// weight matrix is reallocated, so all weights are reset to zero.
func (m *Model) SetDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("grid %d×%d: %w", width, height, ErrInvalidDimensions)
	}
	m.width = width
	m.height = height

	n := m.NeuronCount()
	m.distances = matrix.New(n, n)
	m.computeDistances()
	m.weights = matrix.New(n, m.dimension)
	return nil
}

// SetLattice swaps the lattice and recomputes the distance matrix.
// Weights are left untouched.
func (m *Model) SetLattice(l lattice.Lattice) {
	if l == nil {
		l = lattice.Square{}
	}
	m.lattice = l
	m.computeDistances()
}

// NeuronIndex returns the index of the neuron at grid cell (x, y).
func (m *Model) NeuronIndex(x, y int) int {
	return x + y*m.width
}

// NeuronPosition returns the lattice position of neuron i.
func (m *Model) NeuronPosition(i int) [2]float64 {
	return m.lattice.Position(i%m.width, i/m.width)
}

// computeDistances fills the symmetric distance matrix in one pass over the
// upper triangle.
func (m *Model) computeDistances() {
	n := m.NeuronCount()
	positions := make([][2]float64, n)
	for i := range n {
		positions[i] = m.NeuronPosition(i)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := lattice.DistanceSquared(positions[i], positions[j])
			m.distances.Set(i, j, d)
			m.distances.Set(j, i, d)
		}
	}
}

// AreNeighbors reports whether neurons i and j are immediate lattice
// neighbors. A neuron is not its own neighbor.
func (m *Model) AreNeighbors(i, j int) bool {
	if i == j {
		return false
	}
	return m.distances.At(i, j) <= 1+neighborTolerance
}

// FindBestMatchingUnit returns the index of the neuron whose weights are
// closest to sample in squared Euclidean distance. Ties go to the lowest
// index.
func (m *Model) FindBestMatchingUnit(sample []float64) int {
	bmu := 0
	best := math.Inf(1)
	for i := 0; i < m.NeuronCount(); i++ {
		d := m.distanceTo(i, sample)
		if d < best {
			best = d
			bmu = i
		}
	}
	return bmu
}

// FindBestMatchingUnits returns the closest and second closest neurons to
// sample, with the same tie policy as FindBestMatchingUnit. second is -1
// for a single-neuron map.
func (m *Model) FindBestMatchingUnits(sample []float64) (first, second int) {
	first, second = -1, -1
	bestFirst, bestSecond := math.Inf(1), math.Inf(1)
	for i := 0; i < m.NeuronCount(); i++ {
		d := m.distanceTo(i, sample)
		switch {
		case d < bestFirst:
			second, bestSecond = first, bestFirst
			first, bestFirst = i, d
		case d < bestSecond:
			second, bestSecond = i, d
		}
	}
	// all-NaN weights never compare less; keep the scan's fallback index
	if first < 0 {
		first = 0
	}
	return first, second
}

func (m *Model) distanceTo(neuron int, sample []float64) float64 {
	w := m.weights.RowView(neuron)
	var sum float64
	for d, v := range w {
		diff := sample[d] - v
		sum += diff * diff
	}
	return sum
}

// CommitWeights overwrites the live weights with target, typically a matrix
// produced by a training step written into a separate buffer.
func (m *Model) CommitWeights(target *matrix.Matrix) error {
	return m.weights.CopyFrom(target)
}

// CheckSample returns ErrDimensionMismatch unless len(sample) equals the
// model's data dimension.
func (m *Model) CheckSample(sample []float64) error {
	if len(sample) != m.dimension {
		return fmt.Errorf("sample of length %d for dimension %d: %w", len(sample), m.dimension, ErrDimensionMismatch)
	}
	return nil
}

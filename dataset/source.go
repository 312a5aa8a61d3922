// Package dataset provides composable sample providers and the samplers
// that turn them into a training stream.
package dataset

import (
	"errors"
	"fmt"

	"github.com/nozzle/som/internal/rand"
)

var (
	// ErrIndexOutOfBounds is returned for a sample index outside
	// [0, SampleCount()).
	ErrIndexOutOfBounds = errors.New("dataset: sample index out of bounds")

	// ErrEmptyDataset is returned when samples are requested from a dataset
	// without any samples.
	ErrEmptyDataset = errors.New("dataset: no samples")

	// ErrDimensionMismatch is returned when a source produces a vector of
	// unexpected length.
	ErrDimensionMismatch = errors.New("dataset: sample dimension mismatch")
)

// Source provides a fixed number of addressable samples.
// Sample must return the same vector for the same index.
type Source interface {
	SampleCount() int
	Sample(index int) ([]float64, error)
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("index %d of %d: %w", index, count, ErrIndexOutOfBounds)
	}
	return nil
}

// Distribution selects how RandomValues draws a fresh value.
type Distribution int

const (
	// Gaussian draws from the standard normal distribution.
	Gaussian Distribution = iota
	// Uniform draws from [0, 1).
	Uniform
)

// RandomValues hands out random draws keyed by an index. The first request
// for an index draws a value; later requests for that index return the same
// value for the lifetime of the RandomValues. The distribution only matters
// on the first request.
//
// RandomValues is not safe for concurrent use.
type RandomValues struct {
	rng    *rand.MT19937
	values map[int]float64
}

// NewRandomValues returns an empty cache drawing from a generator seeded
// with seed.
func NewRandomValues(seed int64) *RandomValues {
	return &RandomValues{
		rng:    rand.New(seed),
		values: make(map[int]float64),
	}
}

// Value returns the cached draw for index, drawing it from dist if absent.
func (r *RandomValues) Value(index int, dist Distribution) float64 {
	if v, ok := r.values[index]; ok {
		return v
	}
	var v float64
	switch dist {
	case Uniform:
		v = r.rng.Float64()
	default:
		v = r.rng.Normal()
	}
	r.values[index] = v
	return v
}

// Len returns the number of cached draws.
func (r *RandomValues) Len() int { return len(r.values) }

// ClusterSource generates Gaussian noise around a center.
// Center and StdDev may be changed between reads; the underlying noise for
// each index stays fixed.
type ClusterSource struct {
	Count  int
	Center []float64
	StdDev float64

	random *RandomValues
}

// NewClusterSource returns count samples scattered around center.
func NewClusterSource(count int, center []float64, stddev float64, seed int64) *ClusterSource {
	c := make([]float64, len(center))
	copy(c, center)
	return &ClusterSource{
		Count:  count,
		Center: c,
		StdDev: stddev,
		random: NewRandomValues(seed),
	}
}

// SampleCount returns the number of samples.
func (s *ClusterSource) SampleCount() int { return s.Count }

// Sample returns center[d] + N(0,1)·stddev for each dimension d.
func (s *ClusterSource) Sample(index int) ([]float64, error) {
	if err := checkIndex(index, s.Count); err != nil {
		return nil, err
	}
	dim := len(s.Center)
	out := make([]float64, dim)
	for d := range dim {
		out[d] = s.Center[d] + s.random.Value(index*dim+d, Gaussian)*s.StdDev
	}
	return out, nil
}

// SampleFunc computes sample index of count samples. random is the owning
// source's cache, so draws keyed by index stay stable across calls.
// Implementations must be deterministic given index.
type SampleFunc func(index, count int, random *RandomValues) []float64

// CallbackSource computes its samples with an injected function.
type CallbackSource struct {
	Count     int
	Dimension int
	Func      SampleFunc

	random *RandomValues
}

// NewCallbackSource returns a source of count samples of the given
// dimension produced by fn.
func NewCallbackSource(count, dimension int, fn SampleFunc, seed int64) *CallbackSource {
	return &CallbackSource{
		Count:     count,
		Dimension: dimension,
		Func:      fn,
		random:    NewRandomValues(seed),
	}
}

// SampleCount returns the number of samples.
func (s *CallbackSource) SampleCount() int { return s.Count }

// Sample invokes the callback for index.
func (s *CallbackSource) Sample(index int) ([]float64, error) {
	if err := checkIndex(index, s.Count); err != nil {
		return nil, err
	}
	v := s.Func(index, s.Count, s.random)
	if len(v) != s.Dimension {
		return nil, fmt.Errorf("callback returned %d values, want %d: %w", len(v), s.Dimension, ErrDimensionMismatch)
	}
	return v, nil
}

// StaticSource serves a fixed list of vectors.
type StaticSource struct {
	vectors [][]float64
}

// NewStaticSource copies vectors into a new source.
func NewStaticSource(vectors [][]float64) *StaticSource {
	vs := make([][]float64, len(vectors))
	for i, v := range vectors {
		vs[i] = append([]float64(nil), v...)
	}
	return &StaticSource{vectors: vs}
}

// SampleCount returns the number of vectors.
func (s *StaticSource) SampleCount() int { return len(s.vectors) }

// Sample returns a copy of vector index.
func (s *StaticSource) Sample(index int) ([]float64, error) {
	if err := checkIndex(index, len(s.vectors)); err != nil {
		return nil, err
	}
	return append([]float64(nil), s.vectors[index]...), nil
}

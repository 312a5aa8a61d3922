// Package pca fits a principal component analysis on z-score normalized
// data and maps points between data space and the normalized component
// space.
package pca

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoData is returned when fitting on an empty sample set.
	ErrNoData = errors.New("pca: no data")

	// ErrInvalidComponents is returned for k outside [1, dimension].
	ErrInvalidComponents = errors.New("pca: invalid number of components")

	// ErrDimensionMismatch is returned for rows or vectors of the wrong length.
	ErrDimensionMismatch = errors.New("pca: dimension mismatch")

	// ErrNotConverged is returned when the singular value decomposition of
	// the covariance matrix fails.
	ErrNotConverged = errors.New("pca: decomposition did not converge")
)

// PCA is a fitted projection onto the first K principal components.
type PCA struct {
	K int

	// Means and StdDevs are the per-dimension normalization. A dimension
	// with zero spread keeps a StdDev of 1.
	Means   []float64
	StdDevs []float64

	// Min and Max bound each component over the fitted data.
	Min []float64
	Max []float64

	// basis is dimension×K; column j is the j-th principal direction.
	basis *mat.Dense
}

// Fit computes the projection of data onto its first k principal components.
func Fit(data [][]float64, k int) (*PCA, error) {
	m := len(data)
	if m == 0 {
		return nil, ErrNoData
	}
	dim := len(data[0])
	if dim == 0 {
		return nil, ErrNoData
	}
	if k < 1 || k > dim {
		return nil, fmt.Errorf("k=%d for dimension %d: %w", k, dim, ErrInvalidComponents)
	}

	x := mat.NewDense(m, dim, nil)
	for i, row := range data {
		if len(row) != dim {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), dim, ErrDimensionMismatch)
		}
		x.SetRow(i, row)
	}

	p := &PCA{
		K:       k,
		Means:   make([]float64, dim),
		StdDevs: make([]float64, dim),
	}

	col := make([]float64, m)
	for j := 0; j < dim; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		p.Means[j] = mean
		p.StdDevs[j] = std
	}

	x.Apply(func(_, j int, v float64) float64 {
		return (v - p.Means[j]) / p.StdDevs[j]
	}, x)

	var sigma mat.Dense
	sigma.Mul(x.T(), x)
	sigma.Scale(1/float64(m), &sigma)

	var svd mat.SVD
	if ok := svd.Factorize(&sigma, mat.SVDFull); !ok {
		return nil, ErrNotConverged
	}
	var u mat.Dense
	svd.UTo(&u)

	p.basis = mat.DenseCopyOf(u.Slice(0, dim, 0, k))

	var projected mat.Dense
	projected.Mul(x, p.basis)

	p.Min = mat.Row(nil, 0, &projected)
	p.Max = mat.Row(nil, 0, &projected)
	for i := 1; i < m; i++ {
		for j := 0; j < k; j++ {
			v := projected.At(i, j)
			p.Min[j] = math.Min(p.Min[j], v)
			p.Max[j] = math.Max(p.Max[j], v)
		}
	}

	return p, nil
}

// Dimension returns the data-space dimension.
func (p *PCA) Dimension() int { return len(p.Means) }

// Components returns a copy of the dimension×K basis.
func (p *PCA) Components() *mat.Dense {
	return mat.DenseCopyOf(p.basis)
}

// Project maps a data-space vector to component space, without the
// min/max rescaling applied by Recover.
func (p *PCA) Project(v []float64) ([]float64, error) {
	if len(v) != p.Dimension() {
		return nil, fmt.Errorf("project %d values: %w", len(v), ErrDimensionMismatch)
	}
	z := make([]float64, len(v))
	for i := range v {
		z[i] = (v[i] - p.Means[i]) / p.StdDevs[i]
	}
	var out mat.VecDense
	out.MulVec(p.basis.T(), mat.NewVecDense(len(z), z))
	return out.RawVector().Data, nil
}

// Recover maps a point of the unit cube in component space back to data
// space: each coordinate is scaled from [0,1] to [Min, Max] of its
// component, taken through the basis and de-normalized.
func (p *PCA) Recover(unit []float64) ([]float64, error) {
	if len(unit) != p.K {
		return nil, fmt.Errorf("recover %d values for %d components: %w", len(unit), p.K, ErrDimensionMismatch)
	}
	scaled := make([]float64, p.K)
	for i, v := range unit {
		scaled[i] = v*(p.Max[i]-p.Min[i]) + p.Min[i]
	}

	var raw mat.VecDense
	raw.MulVec(p.basis, mat.NewVecDense(p.K, scaled))

	out := make([]float64, p.Dimension())
	for i := range out {
		out[i] = raw.AtVec(i)*p.StdDevs[i] + p.Means[i]
	}
	return out, nil
}

package train

import (
	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/internal/parallel"
	"github.com/nozzle/som/model"
	"gonum.org/v1/gonum/floats"
)

// QualityConfig configures Evaluate.
type QualityConfig struct {
	// MaxSamples caps the number of samples evaluated. Larger datasets are
	// read with a stride so that at most MaxSamples are used.
	// Default: 1000
	MaxSamples int

	// NumWorkers for the per-sample search (0 = auto).
	// Default: 0
	NumWorkers int
}

// DefaultQualityConfig returns the default evaluation configuration.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{MaxSamples: 1000}
}

// Quality holds the fit metrics of a map.
type Quality struct {
	// QuantizationError is the mean Euclidean distance from a sample to the
	// weights of its best matching unit.
	QuantizationError float64

	// TopographicError is the fraction of samples whose best and second
	// best matching units are not lattice neighbors.
	TopographicError float64

	// Samples is the number of samples evaluated.
	Samples int
}

type sampleFit struct {
	distance   float64
	discordant bool
}

// Evaluate computes quantization and topographic error of m on a strided
// subsample of ds. The result does not depend on NumWorkers.
func Evaluate(m *model.Model, ds *dataset.Dataset, config QualityConfig) (Quality, error) {
	n := ds.SampleCount()
	if n == 0 {
		return Quality{}, dataset.ErrEmptyDataset
	}

	stride := 1
	if config.MaxSamples > 0 && n > config.MaxSamples {
		stride = (n + config.MaxSamples - 1) / config.MaxSamples
	}

	// Sources cache their random draws, so reading happens on this
	// goroutine; only the searches fan out.
	samples, err := ds.StridedSamples(stride)
	if err != nil {
		return Quality{}, err
	}
	for _, s := range samples {
		if err := m.CheckSample(s); err != nil {
			return Quality{}, err
		}
	}

	weights := m.WeightMatrix()
	workers := parallel.Resolve(config.NumWorkers)
	fits := parallel.ParallelMap(0, len(samples), workers, func(i int) sampleFit {
		first, second := m.FindBestMatchingUnits(samples[i])
		return sampleFit{
			distance:   floats.Distance(samples[i], weights.RowView(first), 2),
			discordant: second >= 0 && !m.AreNeighbors(first, second),
		}
	})

	var q Quality
	var discordant int
	for _, f := range fits {
		q.QuantizationError += f.distance
		if f.discordant {
			discordant++
		}
	}
	q.Samples = len(fits)
	q.QuantizationError /= float64(q.Samples)
	q.TopographicError = float64(discordant) / float64(q.Samples)
	return q, nil
}

package init

import (
	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/model"
	"github.com/nozzle/som/pca"
	"github.com/sirupsen/logrus"
)

// DefaultPCAStride fits the PCA on every tenth sample.
const DefaultPCAStride = 10

// PCA lays the map out as a flat sheet spanning the two dominant directions
// of variance of the data. Cell (x, y) receives the data-space point
// recovered from ((x+0.5)/width, (y+0.5)/height) in the unit square of the
// normalized component space.
//
// If the PCA cannot be fitted the weights are left as they are and a warning
// is logged.
type PCA struct {
	// Stride subsamples the dataset before fitting.
	Stride int
	Logger *logrus.Logger
}

// NewPCA returns a PCA initializer with the default stride.
func NewPCA(logger *logrus.Logger) *PCA {
	return &PCA{Stride: DefaultPCAStride, Logger: logger}
}

// Name returns "pca".
func (p *PCA) Name() string { return "pca" }

// Initialize fits the PCA on ds and seeds the weights of m. Errors reading
// the dataset or samples of the wrong dimension are returned; a failing
// decomposition only logs.
func (p *PCA) Initialize(ds *dataset.Dataset, m *model.Model) error {
	logger := p.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	samples, err := ds.StridedSamples(p.Stride)
	if err != nil {
		return err
	}
	for _, s := range samples {
		if err := m.CheckSample(s); err != nil {
			return err
		}
	}

	k := min(2, m.Dimension())
	fit, err := pca.Fit(samples, k)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"samples": len(samples),
			"stride":  p.Stride,
		}).Warn("PCA initialization skipped, keeping current weights")
		return nil
	}

	w, h := m.Width(), m.Height()
	weights := m.WeightMatrix()
	unit := make([]float64, 2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			unit[0] = (float64(x) + 0.5) / float64(w)
			unit[1] = (float64(y) + 0.5) / float64(h)
			v, err := fit.Recover(unit[:k])
			if err != nil {
				return err
			}
			copy(weights.RowView(m.NeuronIndex(x, y)), v)
		}
	}

	logger.WithFields(logrus.Fields{
		"samples": len(samples),
		"neurons": m.NeuronCount(),
	}).Debug("PCA initialization done")
	return nil
}

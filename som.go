// Package som implements a Self-Organizing Map (Kohonen map): a grid of
// neurons whose weight vectors are trained online to follow the
// distribution of a dataset while neighboring neurons stay close in data
// space.
//
// Basic usage:
//
//	s, err := som.New(som.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	s.AddSource(dataset.NewClusterSource(500, []float64{0.5, 0.5, 0.5}, 0.1, 1))
//	if err := s.Initialize(); err != nil {
//		return err
//	}
//	if err := s.Train(); err != nil {
//		return err
//	}
//	q, err := s.Quality()
package som

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nozzle/som/dataset"
	sominit "github.com/nozzle/som/init"
	"github.com/nozzle/som/lattice"
	"github.com/nozzle/som/matrix"
	"github.com/nozzle/som/model"
	"github.com/nozzle/som/train"
	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is returned by Config.Validate and New.
var ErrInvalidConfig = errors.New("som: invalid config")

// ErrFinished is returned by Step once the training schedule is exhausted.
var ErrFinished = errors.New("som: training finished")

// Samplers lists the accepted Config.Sampler values.
var Samplers = []string{"bootstrap", "shuffle"}

// Config configures a SOM.
type Config struct {
	// Width and Height of the neuron grid.
	// Default: 16×16
	Width  int
	Height int

	// Dimension of the data and of every weight vector.
	// Default: 3
	Dimension int

	// Lattice arranges the grid cells in the plane.
	// Options: "square", "hexagonal"
	// Default: "square"
	Lattice string

	// Init is the weight initialization method.
	// Options: "pca" or "random"
	// Default: "pca"
	Init string

	// MaxIteration is the number of training steps in the schedule.
	// Default: 10000
	MaxIteration int

	// LearningRate decays exponentially from Start to End.
	// Default: {0.1, 0.01}
	LearningRate train.DecayingValue

	// NeighborSize is the Gaussian neighborhood radius, in lattice units,
	// decaying from Start to End.
	// Default: {6, 0.5}
	NeighborSize train.DecayingValue

	// Sampler selects how training samples are drawn.
	// Options: "bootstrap" (with replacement) or "shuffle" (per epoch)
	// Default: "bootstrap"
	Sampler string

	// PCAStride subsamples the dataset for PCA initialization.
	// Default: 10
	PCAStride int

	// QualitySamples caps the samples used by Quality.
	// Default: 1000
	QualitySamples int

	// BatchSize is the number of steps Train runs between progress logs.
	// 0 = MaxIteration/100.
	// Default: 0
	BatchSize int

	// Seed for random initialization and sampling.
	// Default: 42
	Seed int64

	// NumWorkers for quality evaluation.
	// 0 = auto-detect based on CPU cores.
	// Default: 0
	NumWorkers int

	// Verbose enables debug logging.
	// Default: false
	Verbose bool

	// Logger receives all log output. nil = a new logrus logger.
	// Default: nil
	Logger *logrus.Logger

	// ProgressCallback is called after each batch of training steps with
	// (iteration, maxIteration).
	// Default: nil
	ProgressCallback func(iteration, total int)
}

// DefaultConfig returns the default SOM configuration.
func DefaultConfig() Config {
	return Config{
		Width:          16,
		Height:         16,
		Dimension:      3,
		Lattice:        "square",
		Init:           "pca",
		MaxIteration:   10000,
		LearningRate:   train.DecayingValue{Start: 0.1, End: 0.01},
		NeighborSize:   train.DecayingValue{Start: 6, End: 0.5},
		Sampler:        "bootstrap",
		PCAStride:      sominit.DefaultPCAStride,
		QualitySamples: 1000,
		Seed:           42,
		NumWorkers:     0,
		Verbose:        false,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 || c.Dimension < 1 {
		return fmt.Errorf("%w: grid %d×%d of dimension %d", ErrInvalidConfig, c.Width, c.Height, c.Dimension)
	}
	if _, ok := lattice.Get(c.Lattice); !ok {
		return fmt.Errorf("%w: unknown lattice %q", ErrInvalidConfig, c.Lattice)
	}
	if !slices.Contains(sominit.Methods(), c.Init) {
		return fmt.Errorf("%w: unknown init %q", ErrInvalidConfig, c.Init)
	}
	if !slices.Contains(Samplers, c.Sampler) {
		return fmt.Errorf("%w: unknown sampler %q", ErrInvalidConfig, c.Sampler)
	}
	if c.MaxIteration < 0 {
		return fmt.Errorf("%w: max iteration %d", ErrInvalidConfig, c.MaxIteration)
	}
	if err := c.LearningRate.Validate(); err != nil {
		return fmt.Errorf("%w: learning rate: %w", ErrInvalidConfig, err)
	}
	if err := c.NeighborSize.Validate(); err != nil {
		return fmt.Errorf("%w: neighbor size: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SOM ties a model to its dataset, initializer and trainer.
type SOM struct {
	Config Config

	logger      *logrus.Logger
	model       *model.Model
	dataset     *dataset.Dataset
	initializer sominit.Initializer
	trainer     *train.Trainer
}

// New creates a SOM with an empty dataset and zeroed weights.
func New(config Config) (*SOM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
		if config.Verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	}

	l, _ := lattice.Get(config.Lattice)
	m, err := model.New(config.Width, config.Height, config.Dimension, l)
	if err != nil {
		return nil, err
	}

	ds := dataset.New()
	var sampler dataset.Sampler
	switch config.Sampler {
	case "shuffle":
		sampler = dataset.NewShuffleSampler(ds, config.Seed)
	default:
		sampler = dataset.NewBootstrapSampler(ds, config.Seed)
	}

	initializer, _ := sominit.New(config.Init, config.Seed, logger)
	if p, ok := initializer.(*sominit.PCA); ok && config.PCAStride > 0 {
		p.Stride = config.PCAStride
	}

	return &SOM{
		Config:      config,
		logger:      logger,
		model:       m,
		dataset:     ds,
		initializer: initializer,
		trainer: train.New(m, sampler, train.Config{
			MaxIteration:     config.MaxIteration,
			LearningRate:     config.LearningRate,
			NeighborSize:     config.NeighborSize,
			ProgressCallback: config.ProgressCallback,
		}),
	}, nil
}

// Model returns the map being trained.
func (s *SOM) Model() *model.Model { return s.model }

// Dataset returns the training data.
func (s *SOM) Dataset() *dataset.Dataset { return s.dataset }

// Trainer returns the trainer, whose schedule may be adjusted between
// iterations.
func (s *SOM) Trainer() *train.Trainer { return s.trainer }

// Initializer returns the current initialization method.
func (s *SOM) Initializer() sominit.Initializer { return s.initializer }

// SetInitializer replaces the initialization method. The weights are not
// touched until the next Initialize.
func (s *SOM) SetInitializer(i sominit.Initializer) { s.initializer = i }

// Logger returns the logger in use.
func (s *SOM) Logger() *logrus.Logger { return s.logger }

// AddSource appends a data source.
func (s *SOM) AddSource(src dataset.Source) { s.dataset.Add(src) }

// RemoveSource removes the i-th data source.
func (s *SOM) RemoveSource(i int) error { return s.dataset.Remove(i) }

// Initialize seeds the weights from the current dataset.
func (s *SOM) Initialize() error {
	if err := s.initializer.Initialize(s.dataset, s.model); err != nil {
		return fmt.Errorf("initialize %s: %w", s.initializer.Name(), err)
	}
	s.logger.WithFields(logrus.Fields{
		"method":  s.initializer.Name(),
		"neurons": s.model.NeuronCount(),
		"samples": s.dataset.SampleCount(),
	}).Debug("weights initialized")
	return nil
}

// Resize changes the grid extent. The weights are reallocated and
// initialized again.
func (s *SOM) Resize(width, height int) error {
	if err := s.model.SetDimensions(width, height); err != nil {
		return err
	}
	s.Config.Width, s.Config.Height = width, height
	return s.Initialize()
}

// SetLattice switches the lattice by name, keeping the weights.
func (s *SOM) SetLattice(name string) error {
	l, ok := lattice.Get(name)
	if !ok {
		return fmt.Errorf("%w: unknown lattice %q", ErrInvalidConfig, name)
	}
	s.model.SetLattice(l)
	s.Config.Lattice = name
	return nil
}

// Iterate runs up to count training steps and returns how many ran.
func (s *SOM) Iterate(count int) (int, error) {
	return s.trainer.Iterate(count)
}

// Train runs the remaining schedule to completion.
func (s *SOM) Train() error {
	batch := s.Config.BatchSize
	if batch <= 0 {
		batch = max(s.trainer.MaxIteration/100, 1)
	}

	for !s.trainer.HasFinished() {
		done, err := s.trainer.Iterate(batch)
		if err != nil {
			return fmt.Errorf("train at iteration %d: %w", s.trainer.CurrentIteration(), err)
		}
		if done == 0 {
			break
		}
		s.logger.WithFields(logrus.Fields{
			"iteration":     s.trainer.CurrentIteration(),
			"total":         s.trainer.MaxIteration,
			"learning_rate": s.trainer.LearningRate(),
			"neighbor_size": s.trainer.NeighborSize(),
		}).Debug("training progress")
	}
	return nil
}

// Reset rewinds the schedule and initializes the weights again.
func (s *SOM) Reset() error {
	s.trainer.Reset()
	return s.Initialize()
}

// Quality evaluates the map on the dataset.
func (s *SOM) Quality() (train.Quality, error) {
	return s.trainer.Quality(s.dataset, train.QualityConfig{
		MaxSamples: s.Config.QualitySamples,
		NumWorkers: s.Config.NumWorkers,
	})
}

// Step computes a single training step without applying it. The returned
// Transition moves the live weights toward the result frame by frame.
func (s *SOM) Step() (*Transition, error) {
	weights := s.model.WeightMatrix()
	target := weights.CloneEmpty()
	done, err := s.trainer.IterateInto(1, target)
	if err != nil {
		return nil, err
	}
	if done == 0 {
		return nil, ErrFinished
	}
	return &Transition{model: s.model, from: weights.Clone(), to: target}, nil
}

// Transition is a pending training step between two weight states.
type Transition struct {
	model    *model.Model
	from, to *matrix.Matrix
}

// Frame writes the weights at animation time t in [0, 1] into the model,
// eased with a cubic in-out curve. t is clamped.
func (tr *Transition) Frame(t float64) error {
	return matrix.Lerp(tr.model.WeightMatrix(), tr.from, tr.to, easeInOutCubic(min(max(t, 0), 1)))
}

// Commit writes the final weights into the model.
func (tr *Transition) Commit() error {
	return tr.model.CommitWeights(tr.to)
}

// Target returns the weights after the step. Callers must not modify it.
func (tr *Transition) Target() *matrix.Matrix { return tr.to }

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := t - 1
	return 4*u*u*u + 1
}

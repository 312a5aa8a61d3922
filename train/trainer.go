// Package train implements online training of a self-organizing map and
// the metrics that measure how well a map fits its data.
package train

import (
	"fmt"
	"math"

	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/matrix"
	"github.com/nozzle/som/model"
)

// NeighborhoodCutoff is the Gaussian exponent below which a neuron is not
// updated at all. At -2.3 the skipped influence is below exp(-2.3) ≈ 0.1.
const NeighborhoodCutoff = -2.3

// Config configures a Trainer.
type Config struct {
	// MaxIteration is the length of the training schedule.
	// Default: 10000
	MaxIteration int

	// LearningRate decays from Start to End over the schedule.
	// Default: {0.1, 0.01}
	LearningRate DecayingValue

	// NeighborSize is the Gaussian neighborhood radius in lattice units.
	// Default: {6, 0.5}
	NeighborSize DecayingValue

	// ProgressCallback is called after each Iterate call that performed at
	// least one step, with (currentIteration, maxIteration).
	// Default: nil
	ProgressCallback func(iteration, total int)
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		MaxIteration: 10000,
		LearningRate: DecayingValue{Start: 0.1, End: 0.01},
		NeighborSize: DecayingValue{Start: 6, End: 0.5},
	}
}

// Trainer runs the online learning loop for one model and one sampler.
//
// The schedule fields may be changed between calls to Iterate.
type Trainer struct {
	MaxIteration       int
	LearningRateBounds DecayingValue
	NeighborSizeBounds DecayingValue
	ProgressCallback   func(iteration, total int)

	model            *model.Model
	sampler          dataset.Sampler
	currentIteration int
}

// New returns a trainer at iteration zero.
func New(m *model.Model, sampler dataset.Sampler, config Config) *Trainer {
	return &Trainer{
		MaxIteration:       config.MaxIteration,
		LearningRateBounds: config.LearningRate,
		NeighborSizeBounds: config.NeighborSize,
		ProgressCallback:   config.ProgressCallback,
		model:              m,
		sampler:            sampler,
	}
}

// Model returns the trained model.
func (t *Trainer) Model() *model.Model { return t.model }

// Sampler returns the sample stream.
func (t *Trainer) Sampler() dataset.Sampler { return t.sampler }

// SetSampler replaces the sample stream.
func (t *Trainer) SetSampler(s dataset.Sampler) { t.sampler = s }

// CurrentIteration returns the number of steps performed since the last
// reset.
func (t *Trainer) CurrentIteration() int { return t.currentIteration }

// Progress returns currentIteration/maxIteration in [0, 1]. A schedule of
// zero length counts as complete.
func (t *Trainer) Progress() float64 {
	if t.MaxIteration <= 0 {
		return 1
	}
	return math.Min(float64(t.currentIteration)/float64(t.MaxIteration), 1)
}

// LearningRate returns the learning rate at the current progress.
func (t *Trainer) LearningRate() float64 {
	return ExponentialDecay(t.LearningRateBounds, t.Progress())
}

// NeighborSize returns the neighborhood radius at the current progress.
func (t *Trainer) NeighborSize() float64 {
	return ExponentialDecay(t.NeighborSizeBounds, t.Progress())
}

// HasFinished reports whether the schedule is exhausted.
func (t *Trainer) HasFinished() bool {
	return t.currentIteration >= t.MaxIteration
}

// Reset rewinds the schedule to iteration zero. Weights and bounds are not
// touched.
func (t *Trainer) Reset() {
	t.currentIteration = 0
}

// Iterate performs up to count training steps on the model's weights and
// returns the number performed. It never runs past MaxIteration.
func (t *Trainer) Iterate(count int) (int, error) {
	return t.IterateInto(count, t.model.WeightMatrix())
}

// IterateInto is Iterate with the updated weights written to target, which
// must have the shape of the weight matrix. Every step blends from the
// model's live weights, so with a separate target the live weights stay
// untouched and target holds the state after the last step.
func (t *Trainer) IterateInto(count int, target *matrix.Matrix) (int, error) {
	if !target.SameShape(t.model.WeightMatrix()) {
		return 0, fmt.Errorf("iterate target: %w", matrix.ErrShape)
	}
	if err := t.LearningRateBounds.Validate(); err != nil {
		return 0, fmt.Errorf("learning rate: %w", err)
	}
	if err := t.NeighborSizeBounds.Validate(); err != nil {
		return 0, fmt.Errorf("neighbor size: %w", err)
	}

	count = min(count, t.MaxIteration-t.currentIteration)

	done := 0
	for done < count {
		input, err := t.sampler.Next()
		if err != nil {
			t.notify(done)
			return done, err
		}
		if err := t.model.CheckSample(input); err != nil {
			t.notify(done)
			return done, err
		}

		t.step(input, target)
		t.currentIteration++
		done++
	}

	t.notify(done)
	return done, nil
}

// step pulls the best matching unit and its lattice neighborhood toward
// input.
func (t *Trainer) step(input []float64, target *matrix.Matrix) {
	learningRate := t.LearningRate()
	neighborSize := t.NeighborSize()
	neighborSizeSqr := neighborSize * neighborSize

	bmu := t.model.FindBestMatchingUnit(input)
	distances := t.model.DistanceMatrix().RowView(bmu)
	weights := t.model.WeightMatrix()

	for i := range t.model.NeuronCount() {
		exponent := -distances[i] / (2 * neighborSizeSqr)
		df := 0.0
		if exponent >= NeighborhoodCutoff {
			df = math.Exp(exponent)
		}

		lf := 1.0 - learningRate*df
		src := weights.RowView(i)
		dst := target.RowView(i)
		for d, w := range src {
			dst[d] = w*lf + input[d]*(1-lf)
		}
	}
}

func (t *Trainer) notify(done int) {
	if done > 0 && t.ProgressCallback != nil {
		t.ProgressCallback(t.currentIteration, t.MaxIteration)
	}
}

// Quality evaluates the model against ds.
func (t *Trainer) Quality(ds *dataset.Dataset, config QualityConfig) (Quality, error) {
	return Evaluate(t.model, ds, config)
}

package som_test

import (
	"math"
	"testing"

	"github.com/nozzle/som"
	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/train"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() som.Config {
	cfg := som.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Dimension = 4, 3, 2
	cfg.MaxIteration = 200
	cfg.NeighborSize = train.DecayingValue{Start: 2, End: 0.5}
	return cfg
}

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, som.DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*som.Config){
		"width":        func(c *som.Config) { c.Width = 0 },
		"dimension":    func(c *som.Config) { c.Dimension = -1 },
		"lattice":      func(c *som.Config) { c.Lattice = "triangle" },
		"init":         func(c *som.Config) { c.Init = "spectral" },
		"sampler":      func(c *som.Config) { c.Sampler = "stratified" },
		"iterations":   func(c *som.Config) { c.MaxIteration = -1 },
		"learningRate": func(c *som.Config) { c.LearningRate.End = 0 },
		"neighborSize": func(c *som.Config) { c.NeighborSize.Start = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := som.DefaultConfig()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), som.ErrInvalidConfig)
			_, err := som.New(cfg)
			require.ErrorIs(t, err, som.ErrInvalidConfig)
		})
	}
}

func TestRandomInitMatchesNumpy(t *testing.T) {
	// np.random.RandomState(42).random_sample(8)
	expected := []float64{
		0.37454012, 0.95071431,
		0.73199394, 0.59865848,
		0.15601864, 0.15599452,
		0.05808361, 0.86617615,
	}

	cfg := smallConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Init = "random"
	s, err := som.New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Initialize())

	w := s.Model().WeightMatrix()
	for i := range 4 {
		for d := range 2 {
			assert.InDelta(t, expected[2*i+d], w.At(i, d), 1e-7, "weight [%d][%d]", i, d)
		}
	}
}

func TestTrainRunsSchedule(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var calls int
	cfg := smallConfig()
	cfg.Logger = logger
	cfg.BatchSize = 50
	cfg.ProgressCallback = func(iteration, total int) {
		calls++
		assert.Equal(t, 200, total)
	}
	s, err := som.New(cfg)
	require.NoError(t, err)
	s.AddSource(dataset.NewClusterSource(300, []float64{0.3, 0.7}, 0.1, 1))
	require.NoError(t, s.Initialize())

	require.NoError(t, s.Train())

	assert.True(t, s.Trainer().HasFinished())
	assert.Equal(t, 1.0, s.Trainer().Progress())
	assert.Equal(t, 4, calls)

	after, err := s.Quality()
	require.NoError(t, err)
	assert.Equal(t, 300, after.Samples)
	assert.False(t, math.IsNaN(after.QuantizationError))
	assert.Less(t, after.QuantizationError, 0.15)

	var progress int
	for _, e := range hook.AllEntries() {
		if e.Message == "training progress" {
			progress++
		}
	}
	assert.Equal(t, 4, progress)

	// nothing left to run
	require.NoError(t, s.Train())
	done, err := s.Iterate(10)
	require.NoError(t, err)
	assert.Zero(t, done)
}

func TestTrainEmptyDataset(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := smallConfig()
	cfg.Logger = logger
	s, err := som.New(cfg)
	require.NoError(t, err)

	// PCA on no data keeps the zero weights
	require.NoError(t, s.Initialize())
	require.ErrorIs(t, s.Train(), dataset.ErrEmptyDataset)
	assert.Zero(t, s.Trainer().CurrentIteration())

	_, err = s.Quality()
	require.ErrorIs(t, err, dataset.ErrEmptyDataset)
}

func TestStepTransition(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxIteration = 2
	s, err := som.New(cfg)
	require.NoError(t, err)
	s.AddSource(dataset.NewStaticSource([][]float64{{1, 1}}))

	before := s.Model().WeightMatrix().Clone()
	tr, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Trainer().CurrentIteration())
	assert.Equal(t, before, s.Model().WeightMatrix())

	target := tr.Target()
	require.NoError(t, tr.Frame(0.5))
	w := s.Model().WeightMatrix()
	for i := 0; i < s.Model().NeuronCount(); i++ {
		for d := range 2 {
			mid := (before.At(i, d) + target.At(i, d)) / 2
			assert.InDelta(t, mid, w.At(i, d), 1e-12)
		}
	}

	require.NoError(t, tr.Frame(-3))
	assert.Equal(t, before, s.Model().WeightMatrix())

	require.NoError(t, tr.Frame(0.25))
	// cubic easing at 0.25 covers 1/16 of the way
	assert.InDelta(t, before.At(0, 0)+(target.At(0, 0)-before.At(0, 0))/16, w.At(0, 0), 1e-12)

	require.NoError(t, tr.Commit())
	assert.Equal(t, target, s.Model().WeightMatrix())

	_, err = s.Step()
	require.NoError(t, err)
	_, err = s.Step()
	require.ErrorIs(t, err, som.ErrFinished)
}

func TestResizeReinitializes(t *testing.T) {
	cfg := smallConfig()
	cfg.Init = "random"
	s, err := som.New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Resize(5, 6))
	m := s.Model()
	assert.Equal(t, 30, m.NeuronCount())
	assert.Equal(t, 5, s.Config.Width)
	assert.Equal(t, 6, s.Config.Height)
	assert.NotZero(t, m.WeightMatrix().At(29, 1))

	require.Error(t, s.Resize(0, 3))
}

func TestSetLattice(t *testing.T) {
	s, err := som.New(smallConfig())
	require.NoError(t, err)

	require.NoError(t, s.SetLattice("hex"))
	assert.Equal(t, "hexagonal", s.Model().Lattice().Name())
	// (0, 0) and (0, 1) are neighbors either way, (1, 0) and (0, 1) only
	// on the hexagonal lattice
	assert.True(t, s.Model().AreNeighbors(1, 4))

	require.ErrorIs(t, s.SetLattice("triangle"), som.ErrInvalidConfig)
	assert.Equal(t, "hex", s.Config.Lattice)
}

func TestResetReinitializes(t *testing.T) {
	cfg := smallConfig()
	cfg.Dimension = 3
	s, err := som.New(cfg)
	require.NoError(t, err)
	s.AddSource(dataset.NewCallbackSource(200, 3, dataset.Spiral, 3))
	require.NoError(t, s.Initialize())
	initial := s.Model().WeightMatrix().Clone()

	_, err = s.Iterate(50)
	require.NoError(t, err)
	require.NotEqual(t, initial, s.Model().WeightMatrix())

	require.NoError(t, s.Reset())
	assert.Zero(t, s.Trainer().CurrentIteration())
	assert.Equal(t, initial, s.Model().WeightMatrix())
}

func TestSourcesAndInitializer(t *testing.T) {
	s, err := som.New(smallConfig())
	require.NoError(t, err)
	assert.Equal(t, "pca", s.Initializer().Name())

	s.AddSource(dataset.NewStaticSource([][]float64{{0, 0}, {1, 1}}))
	s.AddSource(dataset.NewStaticSource([][]float64{{2, 2}}))
	assert.Equal(t, 3, s.Dataset().SampleCount())

	require.NoError(t, s.RemoveSource(0))
	assert.Equal(t, 1, s.Dataset().SampleCount())
	require.ErrorIs(t, s.RemoveSource(4), dataset.ErrIndexOutOfBounds)
}

func TestUnfoldedChainHasNoTopographicError(t *testing.T) {
	cfg := som.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Dimension = 10, 1, 1
	cfg.MaxIteration = 2000
	cfg.NeighborSize = train.DecayingValue{Start: 3, End: 0.5}
	s, err := som.New(cfg)
	require.NoError(t, err)
	s.AddSource(dataset.NewClusterSource(500, []float64{0.5}, 0.1, 1))

	// PCA lays the chain out in order along the data
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Train())

	w := s.Model().WeightMatrix()
	increasing := w.At(1, 0) > w.At(0, 0)
	for i := 1; i < 10; i++ {
		assert.Equal(t, increasing, w.At(i, 0) > w.At(i-1, 0), "neuron %d out of order", i)
	}

	q, err := s.Quality()
	require.NoError(t, err)
	assert.Zero(t, q.TopographicError)
	assert.Less(t, q.QuantizationError, 0.05)
}

package dataset

import "github.com/nozzle/som/internal/rand"

// Sampler produces a stream of training samples.
type Sampler interface {
	Next() ([]float64, error)
}

// BootstrapSampler draws a uniformly random sample on every call, with
// replacement.
type BootstrapSampler struct {
	dataset *Dataset
	rng     *rand.MT19937
}

// NewBootstrapSampler returns a sampler over d.
func NewBootstrapSampler(d *Dataset, seed int64) *BootstrapSampler {
	return &BootstrapSampler{dataset: d, rng: rand.New(seed)}
}

// Next returns a random sample.
func (s *BootstrapSampler) Next() ([]float64, error) {
	n := s.dataset.SampleCount()
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	return s.dataset.Sample(s.rng.Intn(n))
}

// ShuffleSampler walks a random permutation of the dataset, so every sample
// is drawn once per epoch. A new permutation starts when the current one is
// exhausted or the dataset size has changed.
type ShuffleSampler struct {
	dataset *Dataset
	rng     *rand.MT19937
	perm    []int
	pos     int
}

// NewShuffleSampler returns a sampler over d.
func NewShuffleSampler(d *Dataset, seed int64) *ShuffleSampler {
	return &ShuffleSampler{dataset: d, rng: rand.New(seed)}
}

// Next returns the next sample of the current epoch.
func (s *ShuffleSampler) Next() ([]float64, error) {
	n := s.dataset.SampleCount()
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if s.pos >= len(s.perm) || len(s.perm) != n {
		s.perm = s.rng.Perm(n)
		s.pos = 0
	}
	i := s.perm[s.pos]
	s.pos++
	return s.dataset.Sample(i)
}

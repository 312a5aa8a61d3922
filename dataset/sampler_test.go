package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapSampler(t *testing.T) {
	d := New(recordingSource{id: 0, count: 3}, recordingSource{id: 1, count: 2})
	s := NewBootstrapSampler(d, 42)

	seen := map[[2]float64]bool{}
	for range 500 {
		v, err := s.Next()
		require.NoError(t, err)
		seen[[2]float64{v[0], v[1]}] = true
	}
	assert.Len(t, seen, 5, "every sample should eventually be drawn")
}

func TestBootstrapSamplerEmpty(t *testing.T) {
	_, err := NewBootstrapSampler(New(), 1).Next()
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestShuffleSamplerEpochs(t *testing.T) {
	d := New(recordingSource{id: 0, count: 7})
	s := NewShuffleSampler(d, 5)

	for epoch := range 3 {
		seen := make(map[float64]bool)
		for range 7 {
			v, err := s.Next()
			require.NoError(t, err)
			seen[v[1]] = true
		}
		assert.Len(t, seen, 7, "epoch %d must visit every sample once", epoch)
	}
}

func TestShuffleSamplerFollowsResize(t *testing.T) {
	d := New(recordingSource{id: 0, count: 4})
	s := NewShuffleSampler(d, 5)
	_, err := s.Next()
	require.NoError(t, err)

	d.Add(recordingSource{id: 1, count: 4})
	seen := make(map[[2]float64]bool)
	for range 8 {
		v, err := s.Next()
		require.NoError(t, err)
		seen[[2]float64{v[0], v[1]}] = true
	}
	assert.Len(t, seen, 8)

	_, err = NewShuffleSampler(New(), 1).Next()
	require.ErrorIs(t, err, ErrEmptyDataset)
}

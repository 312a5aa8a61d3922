package rand_test

import (
	"math"
	"testing"

	"github.com/nozzle/som/internal/rand"
	"github.com/stretchr/testify/require"
)

func TestMT19937VsNumpy(t *testing.T) {
	mt := rand.NewMT19937(42)

	// numpy.random.RandomState(42).uniform(-10, 10, 6)
	expected := []float64{
		-2.509197623052750,
		9.014286128198323,
		4.639878836228101,
		1.973169683940732,
		-6.879627191151270,
		-6.880109593275947,
	}

	for i, exp := range expected {
		got := mt.Uniform(-10.0, 10.0)
		if math.Abs(got-exp) > 1e-6 {
			t.Errorf("Value %d: got %.15f, expected %.15f", i, got, exp)
		}
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a := rand.New(7)
	b := rand.New(7)
	for range 100 {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestIntnRange(t *testing.T) {
	mt := rand.New(1)
	seen := make([]bool, 5)
	for range 1000 {
		v := mt.Intn(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
		seen[v] = true
	}
	for i, ok := range seen {
		require.True(t, ok, "value %d never drawn", i)
	}
	require.Equal(t, 0, mt.Intn(0))
}

func TestNormalIsFinite(t *testing.T) {
	mt := rand.New(3)
	var sum float64
	const n = 20000
	for range n {
		v := mt.Normal()
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		sum += v
	}
	require.InDelta(t, 0, sum/n, 0.05)
}

func TestPerm(t *testing.T) {
	p := rand.New(9).Perm(50)
	seen := make(map[int]bool, len(p))
	for _, v := range p {
		seen[v] = true
	}
	require.Len(t, seen, 50)
}

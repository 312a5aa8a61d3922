package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/nozzle/som"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSource(t *testing.T) {
	src, dim, err := buildSource("", "", 0, 3, 10, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, dim)
	assert.Equal(t, 30, src.SampleCount())

	src, dim, err = buildSource("", "sphere", 50, 0, 0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, dim)
	assert.Equal(t, 50, src.SampleCount())

	_, _, err = buildSource("", "torus", 50, 0, 0, 0, 1)
	require.Error(t, err)
	_, _, err = buildSource("", "", 0, 0, 0, 0, 1)
	require.Error(t, err)
}

func TestBuildSourceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2\n3,4\n5,6\n"), 0o644))

	src, dim, err := buildSource(path, "sphere", 10, 2, 10, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, dim)
	assert.Equal(t, 3, src.SampleCount())
}

func TestOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := som.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Dimension = 5, 4, 3
	cfg.Lattice = "hexagonal"
	cfg.MaxIteration = 100
	s, err := som.New(cfg)
	require.NoError(t, err)
	src, _, err := buildSource("", "spiral", 100, 0, 0, 0, 1)
	require.NoError(t, err)
	s.AddSource(src)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Train())

	weights := s.Model().WeightMatrix()
	out := filepath.Join(dir, "weights.csv")
	require.NoError(t, saveCSV(out, weights.Rows(), weights.Row))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 20)
	assert.Len(t, records[0], 3)

	require.NoError(t, savePlot(filepath.Join(dir, "map.png"), s))
	require.NoError(t, saveGrid(filepath.Join(dir, "grid.png"), s.Model()))
	assert.FileExists(t, filepath.Join(dir, "map.png"))
	assert.FileExists(t, filepath.Join(dir, "grid.png"))
}

func TestNeuronColor(t *testing.T) {
	c := neuronColor([]float64{2, -1, 0.5})
	assert.Equal(t, 1.0, c.R)
	assert.Equal(t, 0.0, c.G)
	assert.Equal(t, 0.5, c.B)

	c = neuronColor([]float64{0.25})
	assert.Equal(t, 0.25, c.R)
	assert.Zero(t, c.B)
}

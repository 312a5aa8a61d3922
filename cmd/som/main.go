// Command som trains a self-organizing map on a CSV file or on generated
// data and writes the trained weights.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/nozzle/som"
	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/internal/rand"
	"github.com/nozzle/som/train"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

func main() {
	// Data
	inputFile := flag.String("input", "", "Input CSV file (no header, numeric values)")
	clusters := flag.Int("clusters", 0, "Generate this many Gaussian clusters instead of reading -input")
	clusterSize := flag.Int("cluster-size", 200, "Samples per generated cluster")
	example := flag.String("example", "", "Use a built-in 3-D example: sphere or spiral")
	exampleSize := flag.Int("example-size", 1000, "Samples for -example")

	// Model and training
	width := flag.Int("width", 16, "Grid width")
	height := flag.Int("height", 16, "Grid height")
	dim := flag.Int("dim", 3, "Data dimension for -clusters")
	latticeName := flag.String("lattice", "square", "Lattice: square or hexagonal")
	initName := flag.String("init", "pca", "Initialization: pca or random")
	sampler := flag.String("sampler", "bootstrap", "Sampler: bootstrap or shuffle")
	iterations := flag.Int("iterations", 10000, "Training iterations")
	lrStart := flag.Float64("lr-start", 0.1, "Initial learning rate")
	lrEnd := flag.Float64("lr-end", 0.01, "Final learning rate")
	nsStart := flag.Float64("ns-start", 6, "Initial neighborhood size")
	nsEnd := flag.Float64("ns-end", 0.5, "Final neighborhood size")
	seed := flag.Int64("seed", 42, "Random seed")
	workers := flag.Int("workers", 0, "Workers for quality evaluation (0 = all cores)")

	// Output
	outputFile := flag.String("output", "weights.csv", "Output CSV file for the weights")
	plotFile := flag.String("plot", "", "Write a scatter plot of samples and map to this PNG")
	gridFile := flag.String("grid", "", "Write the neuron grid colored by weight to this PNG")
	printWeights := flag.Bool("print", false, "Print the weight matrix")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	source, dimension, err := buildSource(*inputFile, *example, *exampleSize, *clusters, *clusterSize, *dim, *seed)
	if err != nil {
		logger.WithError(err).Error("loading data")
		flag.Usage()
		os.Exit(1)
	}

	config := som.DefaultConfig()
	config.Width = *width
	config.Height = *height
	config.Dimension = dimension
	config.Lattice = *latticeName
	config.Init = *initName
	config.Sampler = *sampler
	config.MaxIteration = *iterations
	config.LearningRate = train.DecayingValue{Start: *lrStart, End: *lrEnd}
	config.NeighborSize = train.DecayingValue{Start: *nsStart, End: *nsEnd}
	config.Seed = *seed
	config.NumWorkers = *workers
	config.Verbose = *verbose
	config.Logger = logger

	s, err := som.New(config)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	s.AddSource(source)

	logger.WithFields(logrus.Fields{
		"samples":   s.Dataset().SampleCount(),
		"dimension": dimension,
		"grid":      fmt.Sprintf("%dx%d", *width, *height),
		"lattice":   *latticeName,
	}).Info("training")

	if err := s.Initialize(); err != nil {
		logger.WithError(err).Fatal("initialization failed")
	}
	if err := s.Train(); err != nil {
		logger.WithError(err).Fatal("training failed")
	}

	q, err := s.Quality()
	if err != nil {
		logger.WithError(err).Fatal("quality evaluation failed")
	}
	logger.WithFields(logrus.Fields{
		"quantization_error": q.QuantizationError,
		"topographic_error":  q.TopographicError,
		"samples":            q.Samples,
	}).Info("training finished")

	weights := s.Model().WeightMatrix()
	if *printWeights {
		fmt.Printf("%v\n", mat.Formatted(weights, mat.Prefix(""), mat.Squeeze()))
	}

	if err := saveCSV(*outputFile, weights.Rows(), weights.Row); err != nil {
		logger.WithError(err).Fatal("saving weights")
	}
	logger.WithField("file", *outputFile).Debug("saved weights")

	if *plotFile != "" {
		if err := savePlot(*plotFile, s); err != nil {
			logger.WithError(err).Fatal("saving plot")
		}
		logger.WithField("file", *plotFile).Debug("saved plot")
	}
	if *gridFile != "" {
		if err := saveGrid(*gridFile, s.Model()); err != nil {
			logger.WithError(err).Fatal("saving grid")
		}
		logger.WithField("file", *gridFile).Debug("saved grid")
	}
}

// buildSource picks the data source from the flags: an input file, a
// built-in example, or generated clusters, in that order.
func buildSource(input, example string, exampleSize, clusters, clusterSize, dim int, seed int64) (dataset.Source, int, error) {
	switch {
	case input != "":
		file, err := os.Open(input)
		if err != nil {
			return nil, 0, err
		}
		defer file.Close()

		src, err := dataset.LoadCSV(file)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", input, err)
		}
		return src, src.Dimension(), nil

	case example != "":
		fn, ok := dataset.Examples[example]
		if !ok {
			return nil, 0, fmt.Errorf("unknown example %q", example)
		}
		return dataset.NewCallbackSource(exampleSize, 3, fn, seed), 3, nil

	case clusters > 0:
		return generateClusters(clusters, clusterSize, dim, seed), dim, nil
	}
	return nil, 0, fmt.Errorf("one of -input, -example or -clusters is required")
}

// generateClusters returns n Gaussian clusters with centers drawn uniformly
// from [0.2, 0.8) in every dimension.
func generateClusters(n, size, dim int, seed int64) dataset.Source {
	rng := rand.New(seed)
	var vectors [][]float64
	for c := range n {
		center := make([]float64, dim)
		for d := range center {
			center[d] = rng.Uniform(0.2, 0.8)
		}
		src := dataset.NewClusterSource(size, center, 0.05, seed+int64(c)+1)
		for i := range size {
			v, _ := src.Sample(i)
			vectors = append(vectors, v)
		}
	}
	return dataset.NewStaticSource(vectors)
}

// saveCSV writes n rows produced by row to a CSV file.
func saveCSV(filename string, n int, row func(int) []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for i := range n {
		values := row(i)
		record := make([]string, len(values))
		for j, val := range values {
			record[j] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

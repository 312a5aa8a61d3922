// Package init provides the methods that seed a map's weights before
// training: uniform random weights, or a plane spanning the data's two
// principal components.
package init

import (
	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/model"
	"github.com/sirupsen/logrus"
)

// Initializer fills the weight matrix of a model.
type Initializer interface {
	Initialize(ds *dataset.Dataset, m *model.Model) error
	Name() string
}

// New returns the initializer registered under name.
func New(name string, seed int64, logger *logrus.Logger) (Initializer, bool) {
	switch name {
	case "random":
		return NewRandom(seed), true
	case "pca":
		return NewPCA(logger), true
	default:
		return nil, false
	}
}

// Methods lists the registered initializer names.
func Methods() []string {
	return []string{"pca", "random"}
}

package init

import (
	"github.com/nozzle/som/dataset"
	"github.com/nozzle/som/internal/rand"
	"github.com/nozzle/som/model"
)

// Random sets every weight to an independent uniform draw from [0, 1).
// Successive calls continue the same random stream.
type Random struct {
	rng *rand.MT19937
}

// NewRandom returns a Random initializer seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(seed)}
}

// Name returns "random".
func (r *Random) Name() string { return "random" }

// Initialize overwrites all weights of m. The dataset is not consulted.
func (r *Random) Initialize(_ *dataset.Dataset, m *model.Model) error {
	w := m.WeightMatrix()
	for i := 0; i < m.NeuronCount(); i++ {
		row := w.RowView(i)
		for d := range row {
			row[d] = r.rng.Float64()
		}
	}
	return nil
}

package train

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSchedule is returned for decay bounds that are not finite and
// strictly positive.
var ErrInvalidSchedule = errors.New("train: schedule bounds must be finite and > 0")

// DecayingValue is a hyperparameter that changes over training, from Start
// at progress 0 to End at progress 1.
type DecayingValue struct {
	Start float64
	End   float64
}

// Validate checks that both bounds are finite and strictly positive, which
// ExponentialDecay requires.
func (v DecayingValue) Validate() error {
	for _, b := range []float64{v.Start, v.End} {
		if !(b > 0) || math.IsInf(b, 1) {
			return fmt.Errorf("bounds {%g, %g}: %w", v.Start, v.End, ErrInvalidSchedule)
		}
	}
	return nil
}

// ExponentialDecay interpolates geometrically between the bounds:
// start·(end/start)^t.
func ExponentialDecay(v DecayingValue, t float64) float64 {
	return v.Start * math.Pow(v.End/v.Start, t)
}

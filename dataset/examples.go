package dataset

import "math"

// Sphere samples the surface of a sphere of radius 0.5 centered at
// (0.5, 0.5, 0.5).
func Sphere(index, _ int, random *RandomValues) []float64 {
	a := random.Value(index*2+0, Uniform) * math.Pi * 2
	b := random.Value(index*2+1, Uniform) * math.Pi * 2

	return []float64{
		math.Cos(a)*math.Sin(b)*0.5 + 0.5,
		math.Cos(b)*0.5 + 0.5,
		math.Sin(a)*math.Sin(b)*0.5 + 0.5,
	}
}

// Spiral samples a flat spiral in the y = 0.5 plane with a little noise.
func Spiral(index, count int, random *RandomValues) []float64 {
	t := float64(index) / float64(count)
	n1 := random.Value(index*3+0, Gaussian) * 0.02
	n2 := random.Value(index*3+1, Gaussian) * 0.02
	n3 := random.Value(index*3+2, Gaussian) * 0.02

	return []float64{
		math.Cos(t*8)*t*0.5 + 0.5 + n1,
		0.5 + n2,
		math.Sin(t*8)*t*0.5 + 0.5 + n3,
	}
}

// Examples maps the names of built-in sample functions to their
// implementations. All produce three-dimensional samples.
var Examples = map[string]SampleFunc{
	"sphere": Sphere,
	"spiral": Spiral,
}

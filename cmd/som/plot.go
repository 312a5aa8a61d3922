package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nozzle/som"
	"github.com/nozzle/som/lattice"
	"github.com/nozzle/som/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// gridCell is the edge length in pixels of one neuron in the grid image.
const gridCell = 16

// xy takes the first two components of v, padding with zero.
func xy(v []float64) plotter.XY {
	var p plotter.XY
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	return p
}

// savePlot draws the samples and the map mesh projected on the first two
// data dimensions.
func savePlot(filename string, s *som.SOM) error {
	samples, err := s.Dataset().AllSamples()
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "self-organizing map"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	points := make(plotter.XYs, len(samples))
	for i, v := range samples {
		points[i] = xy(v)
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Length(1)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	p.Add(scatter)

	m := s.Model()
	weights := m.WeightMatrix()
	for i := 0; i < m.NeuronCount(); i++ {
		for j := i + 1; j < m.NeuronCount(); j++ {
			if !m.AreNeighbors(i, j) {
				continue
			}
			edge, err := plotter.NewLine(plotter.XYs{xy(weights.RowView(i)), xy(weights.RowView(j))})
			if err != nil {
				return err
			}
			edge.LineStyle.Width = vg.Points(0.5)
			edge.LineStyle.Color = color.RGBA{B: 200, A: 255}
			p.Add(edge)
		}
	}

	neurons := make(plotter.XYs, m.NeuronCount())
	for i := range neurons {
		neurons[i] = xy(weights.RowView(i))
	}
	nodes, err := plotter.NewScatter(neurons)
	if err != nil {
		return err
	}
	nodes.GlyphStyle.Radius = vg.Length(2)
	nodes.GlyphStyle.Shape = draw.CircleGlyph{}
	nodes.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(nodes)

	return p.Save(8*vg.Inch, 8*vg.Inch, filename)
}

// neuronColor maps the first three weights to RGB, clamped to the gamut.
// Missing channels stay at zero.
func neuronColor(w []float64) colorful.Color {
	var rgb [3]float64
	copy(rgb[:], w)
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Clamped()
}

// saveGrid renders every neuron as a square colored by its weights. On the
// hexagonal lattice odd rows are shifted by half a cell.
func saveGrid(filename string, m *model.Model) error {
	_, hex := m.Lattice().(lattice.Hexagonal)
	shift := 0
	if hex {
		shift = gridCell / 2
	}

	img := image.NewRGBA(image.Rect(0, 0, m.Width()*gridCell+shift, m.Height()*gridCell))
	weights := m.WeightMatrix()
	for y := 0; y < m.Height(); y++ {
		offset := 0
		if y%2 == 1 {
			offset = shift
		}
		for x := 0; x < m.Width(); x++ {
			c := neuronColor(weights.RowView(m.NeuronIndex(x, y)))
			x0, y0 := x*gridCell+offset, y*gridCell
			for py := y0; py < y0+gridCell; py++ {
				for px := x0; px < x0+gridCell; px++ {
					img.Set(px, py, c)
				}
			}
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}

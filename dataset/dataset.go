package dataset

import "fmt"

// Dataset aggregates sources into one contiguous index space. Samples of
// sources[0] come first, followed by those of sources[1], and so on.
// Adding or removing sources shifts the global indices of later sources.
type Dataset struct {
	sources []Source
}

// New returns a dataset over the given sources.
func New(sources ...Source) *Dataset {
	return &Dataset{sources: append([]Source(nil), sources...)}
}

// Sources returns the sources in index order.
func (d *Dataset) Sources() []Source {
	return append([]Source(nil), d.sources...)
}

// Add appends a source.
func (d *Dataset) Add(s Source) {
	d.sources = append(d.sources, s)
}

// Remove deletes the source at position i.
func (d *Dataset) Remove(i int) error {
	if i < 0 || i >= len(d.sources) {
		return fmt.Errorf("remove source %d of %d: %w", i, len(d.sources), ErrIndexOutOfBounds)
	}
	d.sources = append(d.sources[:i], d.sources[i+1:]...)
	return nil
}

// SampleCount returns the total number of samples over all sources.
func (d *Dataset) SampleCount() int {
	n := 0
	for _, s := range d.sources {
		n += s.SampleCount()
	}
	return n
}

// Sample returns the sample at a global index.
func (d *Dataset) Sample(index int) ([]float64, error) {
	if index < 0 {
		return nil, fmt.Errorf("index %d: %w", index, ErrIndexOutOfBounds)
	}
	local := index
	for _, s := range d.sources {
		n := s.SampleCount()
		if local < n {
			return s.Sample(local)
		}
		local -= n
	}
	return nil, fmt.Errorf("index %d of %d: %w", index, d.SampleCount(), ErrIndexOutOfBounds)
}

// AllSamples returns every sample in index order.
func (d *Dataset) AllSamples() ([][]float64, error) {
	return d.StridedSamples(1)
}

// StridedSamples returns samples 0, stride, 2·stride, ...
// A stride below one is treated as one.
func (d *Dataset) StridedSamples(stride int) ([][]float64, error) {
	if stride < 1 {
		stride = 1
	}
	n := d.SampleCount()
	out := make([][]float64, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		v, err := d.Sample(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadCSV reads numeric rows (no header) into a StaticSource. Every row
// must have the same number of columns.
func LoadCSV(r io.Reader) (*StaticSource, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrEmptyDataset)
	}

	data := make([][]float64, len(records))
	for i, record := range records {
		data[i] = make([]float64, len(record))
		for j, val := range record {
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, col %d: %w", i, j, err)
			}
			data[i][j] = f
		}
	}

	return &StaticSource{vectors: data}, nil
}

// Dimension returns the length of the source's vectors, or 0 if empty.
func (s *StaticSource) Dimension() int {
	if len(s.vectors) == 0 {
		return 0
	}
	return len(s.vectors[0])
}

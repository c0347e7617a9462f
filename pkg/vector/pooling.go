package vector

import "fmt"

// MeanPool averages token-level rows into one vector of length dims.
// No rows yields the zero vector.
func MeanPool(rows [][]float32, dims int) ([]float32, error) {
	sums := make([]float64, dims)
	for i, row := range rows {
		if len(row) != dims {
			return nil, fmt.Errorf("%w: token row %d has %d values, expected %d", ErrDimensionMismatch, i, len(row), dims)
		}
		for j, v := range row {
			sums[j] += float64(v)
		}
	}

	out := make([]float32, dims)
	if len(rows) == 0 {
		return out, nil
	}
	n := float64(len(rows))
	for j, s := range sums {
		out[j] = float32(s / n)
	}
	return out, nil
}

// Normalize scales vec to unit length in place. A zero vector is left as is.
func Normalize(vec []float32) []float32 {
	magnitude := Norm(vec)
	if magnitude == 0 {
		return vec
	}
	for i, v := range vec {
		vec[i] = float32(float64(v) / magnitude)
	}
	return vec
}

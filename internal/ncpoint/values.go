// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

// toFloat64s converts any 1D numeric slice read from a NetCDF variable into
// float64 values.
func toFloat64s(v any) ([]float64, bool) {
	switch s := v.(type) {
	case []float64:
		return s, true
	case []float32:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, true
	case []int8:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, true
	case []int16:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, true
	case []int32:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, true
	case []int64:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, true
	}
	return nil, false
}

// toRows2D converts any 2D numeric slice into float64 rows.
func toRows2D(v any) ([][]float64, bool) {
	switch s := v.(type) {
	case [][]float64:
		return s, true
	case [][]float32:
		out := make([][]float64, len(s))
		for i, row := range s {
			out[i], _ = toFloat64s(row)
		}
		return out, true
	case [][]int8:
		out := make([][]float64, len(s))
		for i, row := range s {
			out[i], _ = toFloat64s(row)
		}
		return out, true
	case [][]int16:
		out := make([][]float64, len(s))
		for i, row := range s {
			out[i], _ = toFloat64s(row)
		}
		return out, true
	case [][]int32:
		out := make([][]float64, len(s))
		for i, row := range s {
			out[i], _ = toFloat64s(row)
		}
		return out, true
	case [][]int64:
		out := make([][]float64, len(s))
		for i, row := range s {
			out[i], _ = toFloat64s(row)
		}
		return out, true
	}
	return nil, false
}

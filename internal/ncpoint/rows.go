// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// DefaultChunkSize is the number of points read per chunk when iterating
// rows.
const DefaultChunkSize = 8192

// RowField describes one field of a row read.
type RowField struct {
	Name string

	// Columns is 1 for 1D variables or the second dimension size for 2D.
	Columns int

	// String marks text variables.
	String bool

	Attributes []Attr
}

// RowReader iterates a point dataset row by row, reading the underlying
// variables in chunks. Rows masked out are skipped.
type RowReader struct {
	fields  []RowField
	getters []api.VarGetter
	mask    []bool
	total   int
	chunk   int

	pos        int // absolute index of the next row to consider
	chunkStart int
	chunkRows  int
	chunks     []chunkData
	row        []any
	err        error
}

type chunkData struct {
	nums []float64
	rows [][]float64
	strs []string
}

// Rows opens a row iterator over the named per-point variables. A nil
// fields slice selects every variable whose first dimension is point,
// coordinates included. mask may be nil to read all points.
func (d *PointDataset) Rows(fields []string, mask []bool, chunkSize int) (*RowReader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	if fields == nil {
		for _, name := range d.group.ListVariables() {
			v, err := d.group.GetVariable(name)
			if err != nil {
				return nil, fmt.Errorf("reading variable %s: %w", name, err)
			}
			if len(v.Dimensions) >= 1 && v.Dimensions[0] == PointDimension {
				fields = append(fields, name)
			}
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no per-point variables to read")
	}
	if mask != nil && len(mask) != d.PointCount() {
		return nil, fmt.Errorf("mask length %d does not match point count %d", len(mask), d.PointCount())
	}

	r := &RowReader{
		mask:  mask,
		total: d.PointCount(),
		chunk: chunkSize,
	}
	for _, name := range fields {
		getter, err := d.group.GetVarGetter(name)
		if err != nil {
			return nil, fmt.Errorf("reading variable %s: %w", name, err)
		}
		dims := getter.Dimensions()
		if len(dims) == 0 || dims[0] != PointDimension {
			return nil, fmt.Errorf("variable %s is not dimensioned by point", name)
		}
		r.getters = append(r.getters, getter)
		r.fields = append(r.fields, RowField{
			Name:       name,
			Columns:    1, // corrected on first chunk for 2D variables
			Attributes: attrsToSlice(getter.Attributes()),
		})
	}
	r.chunks = make([]chunkData, len(r.getters))
	r.row = make([]any, len(r.getters))
	return r, nil
}

// Fields describes the columns of each row, in row order. 2D column counts
// are populated after the first Next call.
func (r *RowReader) Fields() []RowField {
	return r.fields
}

// Next advances to the next unmasked row. It returns false at the end of
// the dataset or on error; check Err afterwards.
func (r *RowReader) Next() bool {
	if r.err != nil {
		return false
	}
	for {
		if r.pos >= r.total {
			return false
		}
		if r.pos >= r.chunkStart+r.chunkRows {
			if !r.loadChunk(r.pos) {
				return false
			}
		}
		i := r.pos
		r.pos++
		if r.mask != nil && !r.mask[i] {
			continue
		}
		r.fillRow(i - r.chunkStart)
		return true
	}
}

// Row returns the current row: one entry per field, a float64 or string for
// 1D variables, a []float64 for 2D variables. The slice is reused between
// calls.
func (r *RowReader) Row() []any {
	return r.row
}

// Err reports a read failure that terminated iteration.
func (r *RowReader) Err() error {
	return r.err
}

func (r *RowReader) loadChunk(start int) bool {
	end := start + r.chunk
	if end > r.total {
		end = r.total
	}
	for i, getter := range r.getters {
		values, err := getter.GetSlice(int64(start), int64(end))
		if err != nil {
			r.err = fmt.Errorf("reading %s[%d:%d]: %w", r.fields[i].Name, start, end, err)
			return false
		}
		if !r.decodeChunk(i, values) {
			return false
		}
	}
	r.chunkStart = start
	r.chunkRows = end - start
	return true
}

func (r *RowReader) decodeChunk(i int, values any) bool {
	r.chunks[i] = chunkData{}
	if nums, ok := toFloat64s(values); ok {
		r.chunks[i].nums = nums
		return true
	}
	if rows, ok := toRows2D(values); ok {
		r.chunks[i].rows = rows
		if len(rows) > 0 {
			r.fields[i].Columns = len(rows[0])
		}
		return true
	}
	if strs, ok := values.([]string); ok {
		r.chunks[i].strs = strs
		r.fields[i].String = true
		return true
	}
	r.err = fmt.Errorf("variable %s has unsupported type %T", r.fields[i].Name, values)
	return false
}

// fillRow copies the values at chunk offset into the reusable row slice.
func (r *RowReader) fillRow(offset int) {
	for i := range r.getters {
		chunk := &r.chunks[i]
		switch {
		case chunk.nums != nil:
			r.row[i] = chunk.nums[offset]
		case chunk.rows != nil:
			r.row[i] = chunk.rows[offset]
		case chunk.strs != nil:
			r.row[i] = chunk.strs[offset]
		}
	}
}

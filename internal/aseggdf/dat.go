// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aseggdf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/geoconv/pkg/types"
)

// DefaultChunkSize is the number of rows read per chunk.
const DefaultChunkSize = 8192

// Column holds the data for one field across all points. Numeric fields use
// Values; string fields use Text. Both are row-major with
// Field.Columns entries per point. Mask is true where the value equals the
// field's NULL sentinel (nil when the field has none).
type Column struct {
	Field  types.FieldDefinition
	Values []float64
	Text   []string
	Mask   []bool
}

// Rows returns the number of points in the column.
func (c *Column) Rows() int {
	n := len(c.Values)
	if c.Field.Type == types.String {
		n = len(c.Text)
	}
	if c.Field.Columns > 1 {
		n /= c.Field.Columns
	}
	return n
}

// MinMax returns the smallest and largest non-null values. ok is false when
// the column is entirely null or non-numeric.
func (c *Column) MinMax() (minVal, maxVal float64, ok bool) {
	for i, v := range c.Values {
		if c.Mask != nil && c.Mask[i] {
			continue
		}
		if !ok {
			minVal, maxVal, ok = v, v, true
			continue
		}
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal, ok
}

// ReadDAT reads an ASEG-GDF2 data (.dat) file into one Column per field.
// Rows are whitespace-delimited; each field consumes Field.Columns tokens.
// chunkSize controls the internal read granularity and falls back to
// DefaultChunkSize when zero or negative.
func ReadDAT(path string, fields []types.FieldDefinition, chunkSize int) ([]Column, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()
	return readData(f, fields, chunkSize)
}

func readData(r io.Reader, fields []types.FieldDefinition, chunkSize int) ([]Column, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	tokensPerRow := 0
	columns := make([]Column, len(fields))
	for i, field := range fields {
		columns[i].Field = field
		tokensPerRow += field.Columns
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	rows := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) != tokensPerRow {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", lineNo, tokensPerRow, len(tokens))
		}

		// Grow in chunk-sized steps to avoid per-row reallocation.
		if rows%chunkSize == 0 {
			for i := range columns {
				growColumn(&columns[i], chunkSize)
			}
		}

		next := 0
		for i := range columns {
			field := &columns[i].Field
			for c := 0; c < field.Columns; c++ {
				token := tokens[next]
				next++

				if field.Type == types.String {
					columns[i].Text = append(columns[i].Text, token)
					continue
				}

				value, err := strconv.ParseFloat(token, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: field %s: invalid value %q", lineNo, field.Name, token)
				}
				columns[i].Values = append(columns[i].Values, value)
				if field.HasNull {
					columns[i].Mask = append(columns[i].Mask, value == field.Null)
				}
			}
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	return columns, nil
}

// growColumn reserves capacity for another chunk of rows.
func growColumn(col *Column, chunkRows int) {
	n := chunkRows * col.Field.Columns
	if col.Field.Type == types.String {
		if cap(col.Text)-len(col.Text) < n {
			grown := make([]string, len(col.Text), len(col.Text)+n)
			copy(grown, col.Text)
			col.Text = grown
		}
		return
	}
	if cap(col.Values)-len(col.Values) < n {
		grown := make([]float64, len(col.Values), len(col.Values)+n)
		copy(grown, col.Values)
		col.Values = grown
		if col.Field.HasNull {
			grownMask := make([]bool, len(col.Mask), len(col.Mask)+n)
			copy(grownMask, col.Mask)
			col.Mask = grownMask
		}
	}
}

// DataPathFor derives the data-file path that pairs with a definition file:
// the same stem with a .dat extension (matching the case style of the .dfn
// extension).
func DataPathFor(dfnPath string) string {
	lower := strings.ToLower(dfnPath)
	switch {
	case strings.HasSuffix(lower, ".dfn"):
		stem := dfnPath[:len(dfnPath)-len(".dfn")]
		if strings.HasSuffix(dfnPath, ".DFN") {
			return stem + ".DAT"
		}
		return stem + ".dat"
	default:
		return dfnPath + ".dat"
	}
}

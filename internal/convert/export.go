// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strconv"

	"github.com/pdiddy/geoconv/internal/aseggdf"
	"github.com/pdiddy/geoconv/internal/ncpoint"
	"github.com/pdiddy/geoconv/pkg/types"
)

// Export reads a NetCDF point dataset and writes it back out as an
// ASEG-GDF2 pair at stem.dfn and stem.dat. Output formats are regenerated
// from the data, with each variable's aseg_gdf_format attribute consulted
// for fractional digits.
func Export(ncPath, stem string, cfg types.ConvertConfig) error {
	d, err := ncpoint.Open(ncPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", ncPath, err)
	}
	defer d.Close()

	reader, err := d.Rows(nil, nil, cfg.ChunkSize)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ncPath, err)
	}

	type accumulator struct {
		nums []float64
		text []string
	}
	accs := make([]accumulator, len(reader.Fields()))

	for reader.Next() {
		for i, v := range reader.Row() {
			switch value := v.(type) {
			case float64:
				accs[i].nums = append(accs[i].nums, value)
			case []float64:
				accs[i].nums = append(accs[i].nums, value...)
			case string:
				accs[i].text = append(accs[i].text, value)
			}
		}
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", ncPath, err)
	}

	columns := make([]aseggdf.Column, 0, len(accs))
	for i, rf := range reader.Fields() {
		col := aseggdf.Column{
			Field:  fieldFromAttrs(rf),
			Values: accs[i].nums,
			Text:   accs[i].text,
		}
		if col.Field.HasNull {
			col.Mask = make([]bool, len(col.Values))
			for j, v := range col.Values {
				col.Mask[j] = v == col.Field.Null
			}
		}
		columns = append(columns, col)
	}

	if err := aseggdf.Write(stem, columns); err != nil {
		return fmt.Errorf("writing %s: %w", stem, err)
	}
	return nil
}

// fieldFromAttrs rebuilds a field definition from a variable's attributes.
func fieldFromAttrs(rf ncpoint.RowField) types.FieldDefinition {
	field := types.FieldDefinition{
		Name:    rf.Name,
		Columns: rf.Columns,
		Type:    types.Float64,
	}
	if rf.String {
		field.Type = types.String
	}

	for _, a := range rf.Attributes {
		switch a.Key {
		case "units":
			field.Units = attrString(a.Value)
		case "long_name":
			field.LongName = attrString(a.Value)
		case "comment":
			field.Comment = attrString(a.Value)
		case "aseg_gdf_format":
			field.Format = attrString(a.Value)
		case "_FillValue":
			if v, ok := attrFloat(a.Value); ok {
				field.Null = v
				field.HasNull = true
			}
		}
	}

	precision := -1
	if !rf.String && field.Format != "" {
		if spec, err := aseggdf.DecodeFormat(field.Format); err == nil {
			field.FractionalDigits = spec.Decimals
			field.IntegerDigits = spec.Width
			precision = spec.Decimals
			if dtype, err := aseggdf.TypeForSpec(spec); err == nil {
				field.Type = dtype
			}
		}
	}
	if field.HasNull {
		// Render the sentinel with the format's fractional digits so the
		// NULL clause matches the fixed-width data values on re-parse.
		field.NullValue = strconv.FormatFloat(field.Null, 'f', precision, 64)
	}
	return field
}

func attrString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []string:
		if len(value) > 0 {
			return value[0]
		}
		return ""
	}
	return fmt.Sprint(v)
}

// attrFloat converts a numeric attribute to float64. Single-element slices
// are accepted because NetCDF attributes are arrays on the wire and readers
// may surface scalars either way.
func attrFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int8:
		return float64(value), true
	case int16:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case int:
		return float64(value), true
	case []float64:
		if len(value) == 1 {
			return value[0], true
		}
	case []float32:
		if len(value) == 1 {
			return float64(value[0]), true
		}
	case []int8:
		if len(value) == 1 {
			return float64(value[0]), true
		}
	case []int16:
		if len(value) == 1 {
			return float64(value[0]), true
		}
	case []int32:
		if len(value) == 1 {
			return float64(value[0]), true
		}
	case []int64:
		if len(value) == 1 {
			return float64(value[0]), true
		}
	}
	return 0, false
}

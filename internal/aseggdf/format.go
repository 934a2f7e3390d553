// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aseggdf reads and writes ASEG-GDF2 line data: the DEFN definition
// file describing each field and the fixed-format data file holding one row
// per point. See the ASEG-GDF2 standard (REV4) for the format grammar.
package aseggdf

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/geoconv/pkg/types"
)

// sigFigs is the approximate maximum number of significant decimal figures
// representable by each signed datatype. int32 and float64 are deliberately
// generous to absorb unrealistic precision specifications seen in the wild.
var sigFigs = []struct {
	dtype types.DataType
	figs  int
}{
	{types.Int8, 2},     // 128
	{types.Int16, 4},    // 32768
	{types.Int32, 10},   // 2147483648
	{types.Int64, 19},   // 9223372036854775808
	{types.Float32, 7},  // 7.2
	{types.Float64, 20}, // 15.9
}

// typeReductionLists orders each datatype family from widest to narrowest
// for precision reduction.
var typeReductionLists = [][]types.DataType{
	{types.Int64, types.Int32, types.Int16, types.Int8},
	{types.Float64, types.Float32},
}

// asegTypeCode maps a DataType to the ASEG-GDF format code used when
// regenerating format strings on export.
var asegTypeCode = map[types.DataType]byte{
	types.Int8:    'I',
	types.Int16:   'I',
	types.Int32:   'I',
	types.Int64:   'I',
	types.Float32: 'F',
	types.Float64: 'D',
	types.String:  'A',
}

// FormatSpec is a decoded ASEG-GDF format string.
type FormatSpec struct {
	// Columns is 1 for scalar fields, or the leading repeat count for 2D
	// fields (e.g. the 30 in "30F10.2").
	Columns int

	// Code is the upper-cased datatype character: I, F, D, E or A.
	Code byte

	// Width is the total field width in characters.
	Width int

	// Decimals is the number of fractional digits (0 when absent).
	Decimals int
}

// String reassembles the canonical format string.
func (s FormatSpec) String() string {
	var b strings.Builder
	if s.Columns > 1 {
		fmt.Fprintf(&b, "%d", s.Columns)
	}
	b.WriteByte(s.Code)
	fmt.Fprintf(&b, "%d", s.Width)
	if s.Decimals > 0 {
		fmt.Fprintf(&b, ".%d", s.Decimals)
	}
	return b.String()
}

var formatPattern = regexp.MustCompile(`^(\d+)?([A-Za-z])(\d+)(?:\.(\d+))?`)

// DecodeFormat parses an ASEG-GDF format string such as "F10.2", "I8" or
// "30E12.6" into its components.
func DecodeFormat(format string) (FormatSpec, error) {
	if format == "" {
		return FormatSpec{}, fmt.Errorf("empty ASEG-GDF format string")
	}

	match := formatPattern.FindStringSubmatch(format)
	if match == nil {
		return FormatSpec{}, fmt.Errorf("invalid ASEG-GDF format string %q", format)
	}

	spec := FormatSpec{Columns: 1}
	if match[1] != "" {
		spec.Columns, _ = strconv.Atoi(match[1])
	}
	spec.Code = strings.ToUpper(match[2])[0]
	spec.Width, _ = strconv.Atoi(match[3])
	if match[4] != "" {
		spec.Decimals, _ = strconv.Atoi(match[4])
	}
	return spec, nil
}

// TypeForSpec returns the narrowest DataType able to represent values of the
// decoded format, using the significant-figure table.
func TypeForSpec(spec FormatSpec) (types.DataType, error) {
	switch spec.Code {
	case 'I':
		if spec.Decimals != 0 {
			return "", fmt.Errorf("integer format %s cannot have fractional digits", spec)
		}
		for _, entry := range sigFigs {
			if entry.dtype.IsInteger() && entry.figs >= spec.Width {
				return entry.dtype, nil
			}
		}
		return "", fmt.Errorf("invalid integer width %d", spec.Width)

	case 'D', 'E', 'F':
		for _, entry := range sigFigs {
			if entry.dtype.IsFloat() && entry.figs >= spec.Width+spec.Decimals {
				return entry.dtype, nil
			}
		}
		return "", fmt.Errorf("invalid floating point format %d.%d", spec.Width, spec.Decimals)

	case 'A':
		if spec.Decimals != 0 {
			return "", fmt.Errorf("string format %s cannot have fractional digits", spec)
		}
		return types.String, nil
	}
	return "", fmt.Errorf("unhandled ASEG-GDF datatype code %q", spec.Code)
}

// significantFigures looks up the approximate significant figures for a
// datatype.
func significantFigures(dtype types.DataType) int {
	for _, entry := range sigFigs {
		if entry.dtype == dtype {
			return entry.figs
		}
	}
	return 0
}

// OutputFormat describes how a column is rendered on export: the regenerated
// ASEG-GDF format string plus the fixed-width fmt verb to print each value.
type OutputFormat struct {
	Spec FormatSpec

	// Verb is the fmt verb for one value, e.g. "%11.2f" or "%8.0f".
	Verb string
}

// FormatForValues derives an ASEG-GDF output format for a numeric column.
// decimals < 0 means no explicit precision was requested: the fractional
// digits are then taken from the stored format string (when the field has
// one) or derived from the datatype's significant figures.
func FormatForValues(values []float64, dtype types.DataType, columns int, decimals int, storedFormat string) (OutputFormat, error) {
	code, ok := asegTypeCode[dtype]
	if !ok {
		return OutputFormat{}, fmt.Errorf("unhandled datatype %q", dtype)
	}

	figs := significantFigures(dtype) + 1
	signWidth := 0
	maxAbs := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			signWidth = 1
		}
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	integerDigits := int(math.Ceil(math.Log10(maxAbs + 1.0)))
	if integerDigits < 1 {
		integerDigits = 1
	}

	out := OutputFormat{Spec: FormatSpec{Columns: columns, Code: code, Width: integerDigits}}

	switch code {
	case 'I':
		out.Verb = fmt.Sprintf("%%%d.0f", signWidth+integerDigits)

	case 'F', 'D':
		var fractionalDigits int
		switch {
		case decimals >= 0:
			fractionalDigits = min(decimals, figs-integerDigits)
		case storedFormat != "":
			stored, err := DecodeFormat(storedFormat)
			if err != nil {
				return OutputFormat{}, fmt.Errorf("stored format: %w", err)
			}
			fractionalDigits = min(stored.Decimals, figs-integerDigits+1)
		default:
			fractionalDigits = figs - integerDigits + 1
		}
		if fractionalDigits < 0 {
			fractionalDigits = 0
		}
		out.Spec.Decimals = fractionalDigits
		// Add 1 to the width for the decimal point.
		out.Verb = fmt.Sprintf("%%%d.%df", signWidth+integerDigits+fractionalDigits+1, fractionalDigits)
	}

	return out, nil
}

// FormatForText derives an output format for a string column. The width
// comes from the stored format when available, otherwise from the longest
// value.
func FormatForText(values []string, columns int, storedFormat string) OutputFormat {
	width := 0
	if storedFormat != "" {
		if stored, err := DecodeFormat(storedFormat); err == nil {
			width = stored.Width
		}
	}
	if width == 0 {
		for _, v := range values {
			if len(v) > width {
				width = len(v)
			}
		}
		if width == 0 {
			width = 1
		}
	}
	return OutputFormat{
		Spec: FormatSpec{Columns: columns, Code: 'A', Width: width},
		Verb: fmt.Sprintf("%%%ds", width),
	}
}

// Reduction is the outcome of a successful precision reduction.
type Reduction struct {
	Type   types.DataType
	Format OutputFormat

	// Null is the (possibly truncated) no-data sentinel. Only meaningful
	// when HasNull is set.
	Null    float64
	HasNull bool
}

// ReducePrecision attempts to narrow a column's datatype without losing the
// precision its format string promises. A narrower type is accepted when
// every value survives the round trip to within 10^-fractionalDigits. The
// null sentinel is carried along and truncated to the reduced format when
// that leaves it unambiguous. Returns ok=false when no reduction applies.
func ReducePrecision(values []float64, current types.DataType, fractionalDigits int, null float64, hasNull bool) (Reduction, bool) {
	var family []types.DataType
	for _, list := range typeReductionLists {
		for _, dtype := range list {
			if dtype == current {
				family = list
			}
		}
	}
	if family == nil {
		return Reduction{}, false
	}
	currentIndex := 0
	for i, dtype := range family {
		if dtype == current {
			currentIndex = i
		}
	}

	tolerance := math.Pow(10, -float64(fractionalDigits))

	// Try types from narrowest to widest, stopping at the first that holds
	// every value.
	for i := len(family) - 1; i > currentIndex; i-- {
		narrow := family[i]
		if !fitsType(values, narrow, tolerance) {
			continue
		}

		format, err := FormatForValues(values, narrow, 1, fractionalDigits, "")
		if err != nil {
			continue
		}
		red := Reduction{Type: narrow, Format: format, Null: null, HasNull: hasNull}

		if hasNull {
			truncated, ok := truncateNull(null, format.Spec, values)
			if ok {
				red.Null = truncated
			}
		}
		return red, true
	}
	return Reduction{}, false
}

// fitsType reports whether every value survives conversion to the narrower
// datatype within the tolerance.
func fitsType(values []float64, dtype types.DataType, tolerance float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		var converted float64
		switch dtype {
		case types.Int8:
			if v < math.MinInt8 || v > math.MaxInt8 {
				return false
			}
			converted = float64(int8(v))
		case types.Int16:
			if v < math.MinInt16 || v > math.MaxInt16 {
				return false
			}
			converted = float64(int16(v))
		case types.Int32:
			if v < math.MinInt32 || v > math.MaxInt32 {
				return false
			}
			converted = float64(int32(v))
		case types.Float32:
			converted = float64(float32(v))
		default:
			converted = v
		}
		if math.Abs(v-converted) >= tolerance {
			return false
		}
	}
	return true
}

// truncateNull cuts the null sentinel down to the reduced format's
// <integerDigits>.<fractionalDigits> shape (truncating, not rounding, for
// neater fixed-width output). The truncation is rejected when the result
// collides with a real data value.
func truncateNull(null float64, spec FormatSpec, values []float64) (float64, bool) {
	text := strconv.FormatFloat(null, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	intPart, fracPart, _ := strings.Cut(text, ".")
	if len(intPart) > spec.Width {
		intPart = intPart[len(intPart)-spec.Width:]
	}
	if len(fracPart) > spec.Decimals {
		fracPart = fracPart[:spec.Decimals]
	}
	rebuilt := sign + intPart
	if fracPart != "" {
		rebuilt += "." + fracPart
	}

	truncated, err := strconv.ParseFloat(rebuilt, 64)
	if err != nil {
		return 0, false
	}
	for _, v := range values {
		if v == truncated && v != null {
			return 0, false
		}
	}
	return truncated, true
}

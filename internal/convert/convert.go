// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/geoconv/internal/aseggdf"
	"github.com/pdiddy/geoconv/internal/ncpoint"
	"github.com/pdiddy/geoconv/pkg/types"
)

// xNames and yNames are the variable names recognised as horizontal
// coordinates, in preference order. The first pair found provides the
// dataset extent.
var (
	xNames = []string{"longitude", "easting"}
	yNames = []string{"latitude", "northing"}
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Convert reads an ASEG-GDF2 pair (the .dfn at dfnPath plus its sibling
// .dat) and writes a NetCDF point dataset to ncPath. Field datatypes are
// narrowed to the smallest representation that preserves the precision the
// format string states, unless cfg.KeepFullPrecision is set.
func Convert(dfnPath, ncPath string, cfg types.ConvertConfig) error {
	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return err
	}

	fields, err := aseggdf.ParseDFN(dfnPath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", dfnPath, err)
	}

	datPath := aseggdf.DataPathFor(dfnPath)
	columns, err := aseggdf.ReadDAT(datPath, fields, cfg.ChunkSize)
	if err != nil {
		return fmt.Errorf("reading %s: %w", datPath, err)
	}

	variables, extent, err := buildVariables(columns, settings, cfg.KeepFullPrecision)
	if err != nil {
		return err
	}

	crsWKT := settings.CRSWKT
	if crsWKT == "" {
		crsWKT = ncpoint.GDA94WKT
	}
	variables = append(variables, ncpoint.CRSVariable(crsWKT))

	title := settings.Title
	if title == "" {
		title = fileStem(dfnPath)
	}
	history := fmt.Sprintf("Converted from %s using definitions %s",
		filepath.Base(datPath), filepath.Base(dfnPath))

	global := ncpoint.GlobalAttrs(title, settings.Keywords, history, extent)
	if err := ncpoint.WriteDataset(ncPath, variables, global); err != nil {
		return fmt.Errorf("writing %s: %w", ncPath, err)
	}
	return nil
}

// buildVariables turns the data columns into NetCDF variables, applying the
// per-field settings and precision reduction, and derives the spatial extent
// from the coordinate columns.
func buildVariables(columns []aseggdf.Column, settings Settings, keepFull bool) ([]ncpoint.Variable, ncpoint.Extent, error) {
	var variables []ncpoint.Variable
	var extent ncpoint.Extent
	haveX, haveY := false, false

	for i := range columns {
		col := &columns[i]
		fs := fieldSettingsFor(settings, col.Field.Name)
		if fs.Exclude {
			continue
		}

		name := strings.ToLower(col.Field.Name)
		if fs.ShortName != "" {
			name = fs.ShortName
		}

		dtype := col.Field.Type
		null := col.Field.Null
		formatStr := col.Field.Format

		if !keepFull && dtype != types.String {
			red, ok := aseggdf.ReducePrecision(col.Values, dtype,
				col.Field.FractionalDigits, null, col.Field.HasNull)
			if ok {
				dtype = red.Type
				spec := red.Format.Spec
				spec.Columns = col.Field.Columns
				formatStr = spec.String()
				if col.Field.HasNull && red.Null != null {
					// Rewrite masked entries to the truncated sentinel
					// before the values are cast.
					for j, masked := range col.Mask {
						if masked {
							col.Values[j] = red.Null
						}
					}
					null = red.Null
				}
			}
		}

		variables = append(variables, columnVariable(col, name, dtype, null, formatStr, fs))

		if !haveX && nameIn(name, xNames) {
			if minVal, maxVal, ok := col.MinMax(); ok {
				extent.Bounds[0], extent.Bounds[2] = minVal, maxVal
				extent.XYUnits = col.Field.Units
				haveX = true
			}
		}
		if !haveY && nameIn(name, yNames) {
			if minVal, maxVal, ok := col.MinMax(); ok {
				extent.Bounds[1], extent.Bounds[3] = minVal, maxVal
				haveY = true
			}
		}
		if name == "elevation" {
			if minVal, maxVal, ok := col.MinMax(); ok {
				extent.VerticalMin, extent.VerticalMax = minVal, maxVal
				extent.HasVertical = true
			}
		}
	}

	if !haveX || !haveY {
		return nil, extent, fmt.Errorf("no horizontal coordinate fields (longitude/latitude or easting/northing)")
	}
	if extent.XYUnits == "" {
		extent.XYUnits = "degrees"
	}
	return variables, extent, nil
}

// columnVariable builds one NetCDF variable from a data column.
func columnVariable(col *aseggdf.Column, name string, dtype types.DataType, null float64, formatStr string, fs FieldSettings) ncpoint.Variable {
	v := ncpoint.Variable{
		Name:       name,
		Dimensions: []string{ncpoint.PointDimension},
	}

	if dtype == types.String {
		v.Values = col.Text
	} else if col.Field.Columns > 1 {
		v.Dimensions = append(v.Dimensions, name+"_columns")
		v.Values = castRows(col.Values, col.Field.Columns, dtype)
	} else {
		v.Values = castValues(col.Values, dtype)
	}

	longName := col.Field.LongName
	if fs.LongName != "" {
		longName = fs.LongName
	}
	units := col.Field.Units
	if fs.Units != "" {
		units = fs.Units
	}

	if longName != "" {
		v = v.WithAttr("long_name", longName)
	}
	if units != "" {
		v = v.WithAttr("units", units)
	}
	if formatStr != "" {
		v = v.WithAttr("aseg_gdf_format", formatStr)
	}
	if col.Field.Comment != "" {
		v = v.WithAttr("comment", col.Field.Comment)
	}
	if col.Field.HasNull && dtype != types.String {
		v = v.WithAttr("_FillValue", typedScalar(null, dtype))
	}
	return v
}

func fieldSettingsFor(settings Settings, fieldName string) FieldSettings {
	for name, fs := range settings.Fields {
		if strings.EqualFold(name, fieldName) {
			return fs
		}
	}
	return FieldSettings{}
}

func nameIn(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

// castValues converts a float64 column to the target storage type.
func castValues(values []float64, dtype types.DataType) any {
	switch dtype {
	case types.Int8:
		out := make([]int8, len(values))
		for i, v := range values {
			out[i] = int8(v)
		}
		return out
	case types.Int16:
		out := make([]int16, len(values))
		for i, v := range values {
			out[i] = int16(v)
		}
		return out
	case types.Int32:
		out := make([]int32, len(values))
		for i, v := range values {
			out[i] = int32(v)
		}
		return out
	case types.Int64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = int64(v)
		}
		return out
	case types.Float32:
		out := make([]float32, len(values))
		for i, v := range values {
			out[i] = float32(v)
		}
		return out
	default:
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
}

// castRows converts a row-major float64 column into a 2D slice of the
// target storage type.
func castRows(values []float64, columns int, dtype types.DataType) any {
	rows := len(values) / columns
	switch dtype {
	case types.Int8:
		out := make([][]int8, rows)
		for r := range out {
			out[r] = make([]int8, columns)
			for c := 0; c < columns; c++ {
				out[r][c] = int8(values[r*columns+c])
			}
		}
		return out
	case types.Int16:
		out := make([][]int16, rows)
		for r := range out {
			out[r] = make([]int16, columns)
			for c := 0; c < columns; c++ {
				out[r][c] = int16(values[r*columns+c])
			}
		}
		return out
	case types.Int32:
		out := make([][]int32, rows)
		for r := range out {
			out[r] = make([]int32, columns)
			for c := 0; c < columns; c++ {
				out[r][c] = int32(values[r*columns+c])
			}
		}
		return out
	case types.Int64:
		out := make([][]int64, rows)
		for r := range out {
			out[r] = make([]int64, columns)
			for c := 0; c < columns; c++ {
				out[r][c] = int64(values[r*columns+c])
			}
		}
		return out
	case types.Float32:
		out := make([][]float32, rows)
		for r := range out {
			out[r] = make([]float32, columns)
			for c := 0; c < columns; c++ {
				out[r][c] = float32(values[r*columns+c])
			}
		}
		return out
	default:
		out := make([][]float64, rows)
		for r := range out {
			out[r] = make([]float64, columns)
			copy(out[r], values[r*columns:(r+1)*columns])
		}
		return out
	}
}

// typedScalar converts a scalar to the target storage type for use as a
// _FillValue attribute.
func typedScalar(v float64, dtype types.DataType) any {
	switch dtype {
	case types.Int8:
		return int8(v)
	case types.Int16:
		return int16(v)
	case types.Int32:
		return int32(v)
	case types.Int64:
		return int64(v)
	case types.Float32:
		return float32(v)
	default:
		return v
	}
}

// fileStem returns the base name of a path without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath derives the NetCDF output path for a definition file: the same
// stem with a .nc extension, placed in outputDir when set or alongside the
// input otherwise.
func OutputPath(dfnPath, outputDir string) string {
	name := fileStem(dfnPath) + ".nc"
	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}
	return filepath.Join(filepath.Dir(dfnPath), name)
}

// ConvertBatch converts each definition file, running up to cfg.Workers
// conversions concurrently. Per-file status is printed to w; files whose
// output already exists are skipped. The returned error reflects context
// cancellation only; individual failures are counted in the result.
func ConvertBatch(ctx context.Context, dfnPaths []string, cfg types.ConvertConfig, w io.Writer) (BatchResult, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return BatchResult{}, fmt.Errorf("creating output directory: %w", err)
		}
	}

	var mu sync.Mutex
	var result BatchResult

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, dfnPath := range dfnPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			base := fileStem(dfnPath)
			ncPath := OutputPath(dfnPath, cfg.OutputDir)

			if _, err := os.Stat(ncPath); err == nil {
				mu.Lock()
				result.Skipped++
				fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
				mu.Unlock()
				return nil
			}

			err := Convert(dfnPath, ncPath, cfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
				return nil
			}
			result.Converted++
			fmt.Fprintf(w, "converted: %s -> %s\n", base, ncPath)
			return nil
		})
	}
	err := g.Wait()

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, err
}

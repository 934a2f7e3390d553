// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gravity

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/geoconv/internal/convert"
	"github.com/pdiddy/geoconv/internal/ncpoint"
	"github.com/pdiddy/geoconv/pkg/types"
)

// metadataVariable is the scalar variable carrying survey-level metadata as
// attributes.
const metadataVariable = "ga_gravity_metadata"

// ConvertSurvey writes one survey's qualifying observations to a NetCDF
// point dataset at ncPath.
func ConvertSurvey(ctx context.Context, store *Store, surveyID, ncPath string, settings Settings) error {
	meta, err := store.SurveyMetadata(ctx, surveyID)
	if err != nil {
		return err
	}

	count, err := store.ObservationCount(ctx, surveyID)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("survey %s has no qualifying observations", surveyID)
	}

	var variables []ncpoint.Variable
	var extent ncpoint.Extent

	for _, field := range settings.Fields {
		values, err := store.Observations(ctx, surveyID, field.Column)
		if err != nil {
			return err
		}
		if len(values) != count {
			return fmt.Errorf("column %s returned %d values, want %d", field.Column, len(values), count)
		}

		v := ncpoint.Variable{
			Name:       field.ShortName,
			Values:     castValues(values, field.Dtype),
			Dimensions: []string{ncpoint.PointDimension},
		}
		if field.LongName != "" {
			v = v.WithAttr("long_name", field.LongName)
		}
		if field.Units != "" {
			v = v.WithAttr("units", field.Units)
		}
		if field.KeyValueTable != "" {
			// The accuracy method lookup is the only key/value table the
			// schema carries.
			comments, err := store.AccuracyMethods(ctx)
			if err != nil {
				return err
			}
			v = v.WithAttr("comments", comments)
		}
		variables = append(variables, v)

		switch field.ShortName {
		case "longitude":
			extent.Bounds[0], extent.Bounds[2] = minMax(values)
			extent.XYUnits = "degrees"
		case "latitude":
			extent.Bounds[1], extent.Bounds[3] = minMax(values)
		case "elevation":
			extent.VerticalMin, extent.VerticalMax = minMax(values)
			extent.HasVertical = true
		}
	}

	variables = append(variables, metadataVar(meta), ncpoint.CRSVariable(ncpoint.GDA94WKT))

	title := meta.SurveyName
	if title == "" {
		title = "Gravity survey " + surveyID
	}
	history := fmt.Sprintf("Converted from observations of survey %s", surveyID)

	global := ncpoint.GlobalAttrs(title, settings.Keywords, history, extent,
		ncpoint.Attr{Key: "survey_id", Value: meta.SurveyID})
	if err := ncpoint.WriteDataset(ncPath, variables, global); err != nil {
		return fmt.Errorf("writing %s: %w", ncPath, err)
	}
	return nil
}

// ConvertAll converts every survey with qualifying observations, writing one
// NetCDF file per survey into cfg.OutputDir. Surveys whose output already
// exists are skipped.
func ConvertAll(ctx context.Context, store *Store, cfg types.GravityConfig, w io.Writer) (convert.BatchResult, error) {
	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return convert.BatchResult{}, err
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return convert.BatchResult{}, fmt.Errorf("creating output directory: %w", err)
		}
	}

	ids, err := store.SurveyIDs(ctx)
	if err != nil {
		return convert.BatchResult{}, err
	}
	fmt.Fprintf(w, "Survey count = %d\n", len(ids))

	var result convert.BatchResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		ncPath := filepath.Join(cfg.OutputDir, id+".nc")
		if _, err := os.Stat(ncPath); err == nil {
			result.Skipped++
			fmt.Fprintf(w, "skipped: %s (already exists)\n", id)
			continue
		}
		if err := ConvertSurvey(ctx, store, id, ncPath, settings); err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			continue
		}
		result.Converted++
		fmt.Fprintf(w, "converted: %s -> %s\n", id, ncPath)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// metadataVar builds the scalar survey metadata variable. Attributes are
// emitted in sorted key order for a stable header.
func metadataVar(meta types.SurveyMetadata) ncpoint.Variable {
	v := ncpoint.Variable{Name: metadataVariable, Values: int8(0)}
	attrs := meta.Attributes()
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		v = v.WithAttr(key, attrs[key])
	}
	return v
}

func minMax(values []float64) (minVal, maxVal float64) {
	minVal, maxVal = values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// castValues converts a column to its configured storage type.
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
		return values
	}
}

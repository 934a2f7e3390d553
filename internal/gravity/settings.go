// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gravity

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/geoconv/pkg/types"
)

// Field maps one observation database column to a NetCDF variable.
type Field struct {
	// Column is the observations table column holding the values.
	Column string `yaml:"column"`

	// ShortName is the NetCDF variable name.
	ShortName string `yaml:"short_name"`

	LongName string `yaml:"long_name,omitempty"`
	Units    string `yaml:"units,omitempty"`

	// Dtype is the storage type ("float64", "float32", "int32", ...).
	// Defaults to float64.
	Dtype types.DataType `yaml:"dtype,omitempty"`

	// KeyValueTable names a lookup table whose contents are rendered into
	// the variable's comments attribute (e.g. "accuracymethod" for the
	// gravity accuracy codes).
	KeyValueTable string `yaml:"key_value_table,omitempty"`
}

// Settings is the YAML file mapping database columns to variables. Fields
// are written in list order.
type Settings struct {
	Keywords string  `yaml:"keywords,omitempty"`
	Fields   []Field `yaml:"fields"`
}

// DefaultSettings is the built-in column mapping used when no settings file
// is given. It covers the full qualifying measurement set.
func DefaultSettings() Settings {
	return Settings{
		Keywords: "geophysics, gravity, ground gravity",
		Fields: []Field{
			{Column: "dlat", ShortName: "latitude", LongName: "geodetic latitude", Units: "degrees_north", Dtype: types.Float64},
			{Column: "dlong", ShortName: "longitude", LongName: "geodetic longitude", Units: "degrees_east", Dtype: types.Float64},
			{Column: "grav", ShortName: "gravity", LongName: "observed gravity", Units: "um/s^2", Dtype: types.Float64},
			{Column: "gravacc_code", ShortName: "gravity_accuracy_code", LongName: "gravity accuracy method", Dtype: types.Int32, KeyValueTable: "accuracymethod"},
			{Column: "gndelev", ShortName: "elevation", LongName: "ground elevation", Units: "m", Dtype: types.Float32},
			{Column: "meterhgt", ShortName: "meter_height", LongName: "gravity meter height above ground", Units: "m", Dtype: types.Float32},
			{Column: "nvalue", ShortName: "geoid_undulation", LongName: "geoid-ellipsoid separation", Units: "m", Dtype: types.Float32},
			{Column: "ellipsoidhgt", ShortName: "ellipsoid_height", LongName: "ellipsoidal height", Units: "m", Dtype: types.Float32},
			{Column: "ellipsoidmeterhgt", ShortName: "ellipsoid_meter_height", LongName: "gravity meter height above ellipsoid", Units: "m", Dtype: types.Float32},
		},
	}
}

// LoadSettings reads a gravity settings file. An empty path yields the
// built-in defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file: %w", err)
	}
	if len(s.Fields) == 0 {
		return Settings{}, fmt.Errorf("settings file %s maps no fields", path)
	}
	for i, f := range s.Fields {
		if f.Column == "" || f.ShortName == "" {
			return Settings{}, fmt.Errorf("settings field %d needs both column and short_name", i)
		}
		if f.Dtype == "" {
			s.Fields[i].Dtype = types.Float64
		}
	}
	return s, nil
}

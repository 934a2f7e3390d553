// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the ASEG-GDF to NetCDF conversion pipeline and
// its reverse, NetCDF to ASEG-GDF export.
package convert

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// FieldSettings overrides the NetCDF variable produced for one ASEG-GDF
// field. Fields are matched by their DEFN name, case-insensitively.
type FieldSettings struct {
	// ShortName renames the NetCDF variable (e.g. "Lat" -> "latitude").
	ShortName string `yaml:"short_name,omitempty"`

	// LongName and Units override the values from the DEFN record.
	LongName string `yaml:"long_name,omitempty"`
	Units    string `yaml:"units,omitempty"`

	// Exclude drops the field from the output entirely.
	Exclude bool `yaml:"exclude,omitempty"`
}

// Settings is the optional YAML settings file controlling a conversion run.
type Settings struct {
	// Title becomes the dataset title global attribute. Defaults to the
	// input file stem.
	Title string `yaml:"title,omitempty"`

	// Keywords becomes the keywords global attribute.
	Keywords string `yaml:"keywords,omitempty"`

	// CRSWKT overrides the dataset CRS. Defaults to GDA94.
	CRSWKT string `yaml:"crs_wkt,omitempty"`

	// Fields holds per-field overrides keyed by DEFN field name.
	Fields map[string]FieldSettings `yaml:"fields,omitempty"`
}

// LoadSettings reads a conversion settings file. An empty path yields zero
// settings, not an error.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings file: %w", err)
	}
	return s, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConvertConfig holds settings for the ASEG-GDF to NetCDF conversion stage.
type ConvertConfig struct {
	// SettingsPath is an optional YAML file overriding per-field variable
	// attributes (long names, units, exclusions).
	SettingsPath string `json:"settings_path,omitempty" yaml:"settings_path,omitempty"`

	// ChunkSize is the number of data rows read per chunk (default 8192).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// KeepFullPrecision disables the narrowing of field datatypes to the
	// smallest representation that preserves the stated precision.
	KeepFullPrecision bool `json:"keep_full_precision" yaml:"keep_full_precision"`

	// OutputDir is the directory for NetCDF output in batch mode.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// Workers bounds the number of concurrent conversions in batch mode
	// (default 1).
	Workers int `json:"workers" yaml:"workers"`
}

// CatalogConfig holds settings for the dataset metadata catalog.
type CatalogConfig struct {
	// CatalogPath is the SQLite database file (default "catalog.sqlite").
	CatalogPath string `json:"catalog_path" yaml:"catalog_path"`
}

// GravityConfig holds settings for the gravity survey database stage.
type GravityConfig struct {
	// DatabasePath is the SQLite survey observation database.
	DatabasePath string `json:"database_path" yaml:"database_path"`

	// SettingsPath is the YAML file mapping database columns to NetCDF
	// variables.
	SettingsPath string `json:"settings_path" yaml:"settings_path"`

	// OutputDir is the directory that receives one NetCDF file per survey.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Gravity GravityConfig `json:"gravity" yaml:"gravity"`
}

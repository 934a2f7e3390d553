// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds structs shared between the geoconv stages: field
// definitions decoded from ASEG-GDF definition files, survey metadata, and
// per-stage configuration.
package types

// DataType identifies the storage type chosen for a field after decoding
// its ASEG-GDF format string.
type DataType string

const (
	Int8    DataType = "int8"
	Int16   DataType = "int16"
	Int32   DataType = "int32"
	Int64   DataType = "int64"
	Float32 DataType = "float32"
	Float64 DataType = "float64"
	String  DataType = "string"
)

// IsInteger reports whether the type is one of the signed integer types.
func (d DataType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsFloat reports whether the type is one of the floating point types.
func (d DataType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// FieldDefinition describes one field of an ASEG-GDF dataset, combining the
// raw DEFN record contents with the precision information decoded from the
// format string.
type FieldDefinition struct {
	// Name is the field name from the DEFN record (e.g. "latitude").
	Name string `json:"name" yaml:"name"`

	// Format is the raw ASEG-GDF format string (e.g. "F12.6" or "30I4").
	Format string `json:"format" yaml:"format"`

	// Units is the measurement unit from the UNITS= clause, if any.
	Units string `json:"units,omitempty" yaml:"units,omitempty"`

	// LongName is the descriptive name from the NAME= clause, if any.
	LongName string `json:"long_name,omitempty" yaml:"long_name,omitempty"`

	// Comment is any trailing free text on the DEFN record.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// NullValue is the no-data sentinel from the NULL= clause in its
	// original textual form. HasNull distinguishes "no NULL clause" from a
	// null value that parses to zero.
	NullValue string  `json:"null_value,omitempty" yaml:"null_value,omitempty"`
	Null      float64 `json:"-" yaml:"-"`
	HasNull   bool    `json:"-" yaml:"-"`

	// Type is the narrowest DataType able to represent the format.
	Type DataType `json:"type" yaml:"type"`

	// Columns is 1 for scalar fields or the column count for 2D fields
	// (e.g. multi-window electromagnetic channels).
	Columns int `json:"columns" yaml:"columns"`

	// IntegerDigits and FractionalDigits are the width components decoded
	// from the format string.
	IntegerDigits    int `json:"integer_digits" yaml:"integer_digits"`
	FractionalDigits int `json:"fractional_digits" yaml:"fractional_digits"`
}

// SurveyMetadata carries survey-level attributes that become NetCDF global
// attributes or the scalar survey metadata variable.
type SurveyMetadata struct {
	SurveyID   string `json:"survey_id" yaml:"survey_id"`
	SurveyName string `json:"survey_name,omitempty" yaml:"survey_name,omitempty"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	Operator   string `json:"operator,omitempty" yaml:"operator,omitempty"`

	// Stations is the number of observation stations in the survey.
	Stations int `json:"stations,omitempty" yaml:"stations,omitempty"`

	// GravityAccuracy and ElevationMethod mirror the survey-table fields
	// propagated by the gravity converter.
	GravityAccuracy string `json:"gravity_accuracy,omitempty" yaml:"gravity_accuracy,omitempty"`
	ElevationMethod string `json:"elevation_method,omitempty" yaml:"elevation_method,omitempty"`

	// StartDate and EndDate are ISO-8601 date strings when known.
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// Attributes returns the metadata as a flat attribute map, omitting empty
// values. The map keys are the NetCDF attribute names.
func (m SurveyMetadata) Attributes() map[string]string {
	attrs := map[string]string{}
	put := func(key, value string) {
		if value != "" {
			attrs[key] = value
		}
	}
	put("survey_id", m.SurveyID)
	put("survey_name", m.SurveyName)
	put("state", m.State)
	put("operator", m.Operator)
	put("gravity_accuracy", m.GravityAccuracy)
	put("elevation_method", m.ElevationMethod)
	put("start_date", m.StartDate)
	put("end_date", m.EndDate)
	return attrs
}

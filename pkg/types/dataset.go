// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Distribution is one access point for a catalogued dataset: a URL plus the
// protocol used to reach it (e.g. "file", "opendap", "https").
type Distribution struct {
	URL      string `json:"url" yaml:"url"`
	Protocol string `json:"protocol" yaml:"protocol"`
}

// Dataset is a catalog record for one converted NetCDF dataset. The bounding
// box is in WGS84 decimal degrees; ConvexHullWKT is an optional POLYGON
// outline of the actual point coverage.
type Dataset struct {
	Title      string `json:"title" yaml:"title"`
	SurveyID   string `json:"survey_id,omitempty" yaml:"survey_id,omitempty"`
	SurveyName string `json:"survey_name,omitempty" yaml:"survey_name,omitempty"`

	LongitudeMin float64 `json:"longitude_min" yaml:"longitude_min"`
	LongitudeMax float64 `json:"longitude_max" yaml:"longitude_max"`
	LatitudeMin  float64 `json:"latitude_min" yaml:"latitude_min"`
	LatitudeMax  float64 `json:"latitude_max" yaml:"latitude_max"`

	ConvexHullWKT string `json:"convex_hull_wkt,omitempty" yaml:"convex_hull_wkt,omitempty"`

	Keywords      []string       `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty" yaml:"distributions,omitempty"`

	// MetadataUUID identifies the dataset across catalog rebuilds. The
	// catalog assigns one on insert when empty.
	MetadataUUID string `json:"metadata_uuid,omitempty" yaml:"metadata_uuid,omitempty"`
}

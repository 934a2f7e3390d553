// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import "time"

// Conventions is the value of the Conventions global attribute on every
// dataset this package writes.
const Conventions = "CF-1.6,ACDD-1.3"

// Extent describes the spatial coverage recorded in the ACDD geospatial
// attributes.
type Extent struct {
	// Bounds is [xmin, ymin, xmax, ymax] in the native CRS.
	Bounds [4]float64

	// XYUnits is the unit of the horizontal ordinates (e.g. "degrees").
	XYUnits string

	// VerticalMin/Max describe the elevation range when HasVertical is set.
	VerticalMin, VerticalMax float64
	HasVertical              bool
}

// nowUTC is swapped out by tests for a deterministic date_created.
var nowUTC = func() time.Time { return time.Now().UTC() }

// GlobalAttrs assembles the CF/ACDD global attribute list for a point
// dataset. history records the conversion provenance (source file names);
// extra attributes are appended verbatim after the standard set.
func GlobalAttrs(title, keywords, history string, ext Extent, extra ...Attr) []Attr {
	attrs := []Attr{
		{Key: "title", Value: title},
		{Key: "Conventions", Value: Conventions},
		{Key: "featureType", Value: "trajectory"},
	}
	if keywords != "" {
		attrs = append(attrs, Attr{Key: "keywords", Value: keywords})
	}

	attrs = append(attrs,
		Attr{Key: "geospatial_east_min", Value: ext.Bounds[0]},
		Attr{Key: "geospatial_east_max", Value: ext.Bounds[2]},
		Attr{Key: "geospatial_east_units", Value: ext.XYUnits},
		Attr{Key: "geospatial_east_resolution", Value: "point"},
		Attr{Key: "geospatial_north_min", Value: ext.Bounds[1]},
		Attr{Key: "geospatial_north_max", Value: ext.Bounds[3]},
		Attr{Key: "geospatial_north_units", Value: ext.XYUnits},
		Attr{Key: "geospatial_north_resolution", Value: "point"},
	)
	if ext.HasVertical {
		attrs = append(attrs,
			Attr{Key: "geospatial_vertical_min", Value: ext.VerticalMin},
			Attr{Key: "geospatial_vertical_max", Value: ext.VerticalMax},
			Attr{Key: "geospatial_vertical_units", Value: "m"},
			Attr{Key: "geospatial_vertical_resolution", Value: "point"},
			Attr{Key: "geospatial_vertical_positive", Value: "up"},
		)
	}
	if history != "" {
		attrs = append(attrs, Attr{Key: "history", Value: history})
	}
	attrs = append(attrs, Attr{Key: "date_created", Value: nowUTC().Format(time.RFC3339)})
	return append(attrs, extra...)
}

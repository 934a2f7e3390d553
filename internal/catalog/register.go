// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/geoconv/internal/ncpoint"
	"github.com/pdiddy/geoconv/pkg/types"
)

// RegisterConversion reads a converted NetCDF point dataset and records it
// in the catalog: title and keywords from the global attributes, the
// bounding box and convex hull from the coordinates, and a file
// distribution pointing at the dataset itself. It returns the stored
// record.
func (s *Store) RegisterConversion(ctx context.Context, ncPath string, extraKeywords []string) (types.Dataset, error) {
	d, err := ncpoint.Open(ncPath)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("opening %s: %w", ncPath, err)
	}
	defer d.Close()

	absPath, err := filepath.Abs(ncPath)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("resolving %s: %w", ncPath, err)
	}

	bounds := d.Bounds()
	ds := types.Dataset{
		LongitudeMin:  bounds[0],
		LatitudeMin:   bounds[1],
		LongitudeMax:  bounds[2],
		LatitudeMax:   bounds[3],
		ConvexHullWKT: d.PolygonWKT(),
		Distributions: []types.Distribution{
			{URL: "file://" + absPath, Protocol: "file"},
		},
	}

	for _, a := range d.GlobalAttributes() {
		switch a.Key {
		case "title":
			if t, ok := a.Value.(string); ok {
				ds.Title = t
			}
		case "survey_id":
			if id, ok := a.Value.(string); ok {
				ds.SurveyID = id
			}
		case "survey_name":
			if name, ok := a.Value.(string); ok {
				ds.SurveyName = name
			}
		case "keywords":
			if kw, ok := a.Value.(string); ok {
				ds.Keywords = splitKeywords(kw)
			}
		case "uuid":
			if id, ok := a.Value.(string); ok {
				ds.MetadataUUID = id
			}
		}
	}
	if ds.Title == "" {
		base := filepath.Base(ncPath)
		ds.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, kw := range extraKeywords {
		ds.Keywords = appendKeyword(ds.Keywords, kw)
	}

	id, err := s.AddDataset(ctx, ds)
	if err != nil {
		return types.Dataset{}, err
	}
	ds.MetadataUUID = id
	return ds, nil
}

// splitKeywords breaks a comma-separated keywords attribute into trimmed,
// non-empty values.
func splitKeywords(raw string) []string {
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		keywords = appendKeyword(keywords, kw)
	}
	return keywords
}

func appendKeyword(keywords []string, kw string) []string {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return keywords
	}
	for _, existing := range keywords {
		if existing == kw {
			return keywords
		}
	}
	return append(keywords, kw)
}

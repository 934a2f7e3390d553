// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/geoconv/pkg/types"
)

// SearchOptions narrows a catalog search. Zero-valued criteria are ignored.
type SearchOptions struct {
	// Keywords must all be attached to a dataset for it to match.
	Keywords []string

	// Bounds is [xmin, ymin, xmax, ymax]; a dataset matches when its
	// bounding box intersects it.
	Bounds *[4]float64

	// Protocol restricts matches to datasets with at least one
	// distribution using it (e.g. "file", "opendap").
	Protocol string
}

// IsEmpty reports whether no criteria are set.
func (o SearchOptions) IsEmpty() bool {
	return len(o.Keywords) == 0 && o.Bounds == nil && o.Protocol == ""
}

// Search returns the datasets matching all the given criteria, ordered by
// title. An empty options value returns the whole catalog.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]types.Dataset, error) {
	var conditions []string
	var args []any

	for _, kw := range opts.Keywords {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM dataset_keyword dk
			JOIN keyword k ON k.keyword_id = dk.keyword_id
			WHERE dk.dataset_id = d.dataset_id AND k.keyword_value = ?)`)
		args = append(args, strings.TrimSpace(kw))
	}
	if opts.Bounds != nil {
		b := *opts.Bounds
		conditions = append(conditions,
			`d.longitude_max >= ? AND d.longitude_min <= ? AND d.latitude_max >= ? AND d.latitude_min <= ?`)
		args = append(args, b[0], b[2], b[1], b[3])
	}
	if opts.Protocol != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM distribution dist
			JOIN protocol p ON p.protocol_id = dist.protocol_id
			WHERE dist.dataset_id = d.dataset_id AND p.protocol_value = ?)`)
		args = append(args, opts.Protocol)
	}

	query := `SELECT dataset_id, metadata_uuid FROM dataset d`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY d.title"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	type match struct {
		id   int64
		uuid string
	}
	var matches []match
	for rows.Next() {
		var m match
		if err := rows.Scan(&m.id, &m.uuid); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var results []types.Dataset
	for _, m := range matches {
		ds, err := s.Dataset(ctx, m.uuid)
		if err != nil {
			return nil, err
		}
		results = append(results, ds)
	}
	return results, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import (
	"fmt"
	"math"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// auxiliaryVariables are per-point variables that carry structure rather
// than measurements: they are excluded from PointVariables.
var auxiliaryVariables = map[string]bool{
	"latitude":  true,
	"longitude": true,
	"easting":   true,
	"northing":  true,
	"point":     true,
	"fiducial":  true,
	"crs":       true,
}

// PointDataset provides access to a NetCDF point dataset: coordinates,
// spatial queries and chunked row reads.
type PointDataset struct {
	group api.Group
	path  string

	xName, yName string
	coords       [][2]float64
	bounds       [4]float64 // xmin, ymin, xmax, ymax

	tree *kdTree
}

// Open opens a NetCDF point dataset and caches its coordinate pairs. The
// coordinate variables are longitude/latitude, falling back to
// easting/northing for projected datasets.
func Open(path string) (*PointDataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening NetCDF file: %w", err)
	}

	d := &PointDataset{group: group, path: path}
	if err := d.loadCoords(); err != nil {
		group.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying NetCDF file.
func (d *PointDataset) Close() {
	d.group.Close()
}

// Path returns the file path the dataset was opened from.
func (d *PointDataset) Path() string {
	return d.path
}

func (d *PointDataset) loadCoords() error {
	for _, pair := range [][2]string{{"longitude", "latitude"}, {"easting", "northing"}} {
		xv, errX := d.group.GetVariable(pair[0])
		yv, errY := d.group.GetVariable(pair[1])
		if errX != nil || errY != nil {
			continue
		}
		xs, okX := toFloat64s(xv.Values)
		ys, okY := toFloat64s(yv.Values)
		if !okX || !okY || len(xs) != len(ys) {
			return fmt.Errorf("coordinate variables %s/%s are malformed", pair[0], pair[1])
		}
		d.xName, d.yName = pair[0], pair[1]
		d.coords = make([][2]float64, len(xs))
		for i := range xs {
			d.coords[i] = [2]float64{xs[i], ys[i]}
		}
		d.computeBounds()
		return nil
	}
	return fmt.Errorf("no longitude/latitude or easting/northing variables in %s", d.path)
}

func (d *PointDataset) computeBounds() {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, p := range d.coords {
		xmin = math.Min(xmin, p[0])
		xmax = math.Max(xmax, p[0])
		ymin = math.Min(ymin, p[1])
		ymax = math.Max(ymax, p[1])
	}
	d.bounds = [4]float64{xmin, ymin, xmax, ymax}
}

// PointCount returns the number of points.
func (d *PointDataset) PointCount() int {
	return len(d.coords)
}

// Coords returns the cached coordinate pairs, x then y per point.
func (d *PointDataset) Coords() [][2]float64 {
	return d.coords
}

// Bounds returns the spatial extent as [xmin, ymin, xmax, ymax] in the
// dataset's native CRS.
func (d *PointDataset) Bounds() [4]float64 {
	return d.bounds
}

// CRSWKT returns the spatial_ref attribute of the crs variable, or "" when
// the dataset has none.
func (d *PointDataset) CRSWKT() string {
	v, err := d.group.GetVariable("crs")
	if err != nil {
		return ""
	}
	if v.Attributes == nil {
		return ""
	}
	if wkt, ok := v.Attributes.Get("spatial_ref"); ok {
		if s, ok := wkt.(string); ok {
			return s
		}
	}
	return ""
}

// VariableNames lists all variables in the dataset.
func (d *PointDataset) VariableNames() []string {
	return d.group.ListVariables()
}

// PointVariables lists the measurement variables: those dimensioned by
// point, excluding coordinates and bookkeeping variables.
func (d *PointDataset) PointVariables() []string {
	var names []string
	for _, name := range d.group.ListVariables() {
		if auxiliaryVariables[name] {
			continue
		}
		v, err := d.group.GetVariable(name)
		if err != nil {
			continue
		}
		if len(v.Dimensions) >= 1 && v.Dimensions[0] == PointDimension {
			names = append(names, name)
		}
	}
	return names
}

// Variable returns the raw library variable.
func (d *PointDataset) Variable(name string) (*api.Variable, error) {
	v, err := d.group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("reading variable %s: %w", name, err)
	}
	return v, nil
}

// GlobalAttributes returns the dataset's global attributes in header order.
func (d *PointDataset) GlobalAttributes() []Attr {
	return attrsToSlice(d.group.Attributes())
}

// VariableAttributes returns a variable's attributes in header order.
func (d *PointDataset) VariableAttributes(name string) ([]Attr, error) {
	v, err := d.group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("reading variable %s: %w", name, err)
	}
	return attrsToSlice(v.Attributes), nil
}

func attrsToSlice(m api.AttributeMap) []Attr {
	if m == nil {
		return nil
	}
	var attrs []Attr
	for _, key := range m.Keys() {
		if value, ok := m.Get(key); ok {
			attrs = append(attrs, Attr{Key: key, Value: value})
		}
	}
	return attrs
}

// SpatialMask returns a per-point mask selecting coordinates within bounds
// [xmin, ymin, xmax, ymax].
func (d *PointDataset) SpatialMask(bounds [4]float64) []bool {
	mask := make([]bool, len(d.coords))
	for i, p := range d.coords {
		mask[i] = bounds[0] <= p[0] && p[0] <= bounds[2] &&
			bounds[1] <= p[1] && p[1] <= bounds[3]
	}
	return mask
}

// ConvexHull returns the vertices of the convex hull around all points.
func (d *PointDataset) ConvexHull() [][2]float64 {
	return convexHull(d.coords)
}

// PolygonWKT returns the convex hull as a closed WKT POLYGON.
func (d *PointDataset) PolygonWKT() string {
	return polygonWKT(d.ConvexHull())
}

// NearestNeighbours finds the k points nearest to coord, optionally limited
// to maxDistance (<= 0 for unbounded). Distances are in native CRS units.
// When maxDistance is set the search is restricted to a bounding-box subset
// first, which keeps the tree small for local queries on large datasets.
func (d *PointDataset) NearestNeighbours(coord [2]float64, k int, maxDistance float64) (distances []float64, indices []int) {
	var tree *kdTree
	radius := math.Inf(1)

	if maxDistance > 0 {
		radius = maxDistance
		mask := d.SpatialMask([4]float64{
			coord[0] - maxDistance, coord[1] - maxDistance,
			coord[0] + maxDistance, coord[1] + maxDistance,
		})
		var subset []int
		for i, in := range mask {
			if in {
				subset = append(subset, i)
			}
		}
		if len(subset) == 0 {
			return nil, nil
		}
		tree = newKDTree(d.coords, subset)
	} else {
		if d.tree == nil {
			all := make([]int, len(d.coords))
			for i := range all {
				all[i] = i
			}
			d.tree = newKDTree(d.coords, all)
		}
		tree = d.tree
	}

	for _, n := range tree.query(coord, k, radius) {
		distances = append(distances, n.distance)
		indices = append(indices, n.index)
	}
	return distances, indices
}

// LookupMask returns a per-point mask selecting points whose expanded
// lookup value is in wanted. The lookup variable (e.g. "line") holds the
// distinct values; the paired indexing variable ("line_index") maps each
// point to one of them.
func (d *PointDataset) LookupMask(lookupName string, wanted []float64) ([]bool, error) {
	lookupVar, err := d.group.GetVariable(lookupName)
	if err != nil {
		return nil, fmt.Errorf("reading lookup variable %s: %w", lookupName, err)
	}
	indexVar, err := d.group.GetVariable(lookupName + "_index")
	if err != nil {
		return nil, fmt.Errorf("reading indexing variable %s_index: %w", lookupName, err)
	}

	lookup, ok := toFloat64s(lookupVar.Values)
	if !ok {
		return nil, fmt.Errorf("lookup variable %s is not numeric", lookupName)
	}
	index, ok := toFloat64s(indexVar.Values)
	if !ok {
		return nil, fmt.Errorf("indexing variable %s_index is not numeric", lookupName)
	}

	wantedValues := make(map[float64]bool, len(wanted))
	for _, w := range wanted {
		wantedValues[w] = true
	}
	wantedIndices := make(map[int]bool)
	for i, v := range lookup {
		if wantedValues[v] {
			wantedIndices[i] = true
		}
	}

	mask := make([]bool, len(index))
	for i, idx := range index {
		mask[i] = wantedIndices[int(idx)]
	}
	return mask, nil
}

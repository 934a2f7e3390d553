// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
)

// writeSample writes a five-point dataset and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.nc")

	vars := []Variable{
		CRSVariable(GDA94WKT),
		{
			Name:       "longitude",
			Values:     []float64{135.0, 136.0, 137.0, 136.5, 135.5},
			Dimensions: []string{PointDimension},
			Attributes: []Attr{{Key: "long_name", Value: "longitude"}, {Key: "units", Value: "degrees_east"}},
		},
		{
			Name:       "latitude",
			Values:     []float64{-27.0, -27.5, -26.0, -26.5, -27.25},
			Dimensions: []string{PointDimension},
			Attributes: []Attr{{Key: "long_name", Value: "latitude"}, {Key: "units", Value: "degrees_north"}},
		},
		{
			Name:       "gravity",
			Values:     []float64{9780.1, 9780.5, 9779.8, 9780.0, 9780.3},
			Dimensions: []string{PointDimension},
			Attributes: []Attr{{Key: "units", Value: "um/s^2"}},
		},
	}
	global := GlobalAttrs("Test survey", "gravity, geophysics", "converted from test.dfn/test.dat",
		Extent{Bounds: [4]float64{135.0, -27.5, 137.0, -26.0}, XYUnits: "degrees"})

	if err := WriteDataset(path, vars, global); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	return path
}

func TestWriteAndOpen(t *testing.T) {
	path := writeSample(t)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.PointCount() != 5 {
		t.Errorf("point count = %d, want 5", d.PointCount())
	}

	bounds := d.Bounds()
	want := [4]float64{135.0, -27.5, 137.0, -26.0}
	if bounds != want {
		t.Errorf("bounds = %v, want %v", bounds, want)
	}

	if wkt := d.CRSWKT(); !strings.Contains(wkt, "GDA94") {
		t.Errorf("CRS WKT %q does not mention GDA94", wkt)
	}

	pointVars := d.PointVariables()
	if len(pointVars) != 1 || pointVars[0] != "gravity" {
		t.Errorf("point variables = %v, want [gravity]", pointVars)
	}

	var title string
	for _, a := range d.GlobalAttributes() {
		if a.Key == "title" {
			title, _ = a.Value.(string)
		}
	}
	if title != "Test survey" {
		t.Errorf("title attribute = %q, want %q", title, "Test survey")
	}
}

func TestSpatialMask(t *testing.T) {
	path := writeSample(t)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	mask := d.SpatialMask([4]float64{135.9, -27.6, 137.1, -25.9})
	want := []bool{false, true, true, true, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestNearestNeighbours(t *testing.T) {
	path := writeSample(t)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	distances, indices := d.NearestNeighbours([2]float64{135.0, -27.0}, 2, 0)
	if len(indices) != 2 {
		t.Fatalf("got %d neighbours, want 2", len(indices))
	}
	if indices[0] != 0 {
		t.Errorf("nearest index = %d, want 0 (exact match)", indices[0])
	}
	if distances[0] != 0 {
		t.Errorf("nearest distance = %v, want 0", distances[0])
	}
	if distances[1] < distances[0] {
		t.Error("distances out of order")
	}

	// Bounded search with no points in range.
	distances, indices = d.NearestNeighbours([2]float64{100.0, 0.0}, 1, 0.5)
	if len(indices) != 0 || len(distances) != 0 {
		t.Errorf("expected no neighbours within 0.5, got %v", indices)
	}
}

func TestNearestNeighbours_KExceedsPoints(t *testing.T) {
	path := writeSample(t)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	distances, indices := d.NearestNeighbours([2]float64{135.0, -27.0}, 100, 0)
	if len(indices) != d.PointCount() || len(distances) != d.PointCount() {
		t.Fatalf("got %d neighbours, want all %d points", len(indices), d.PointCount())
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		seen[idx] = true
	}
	for i := 0; i < d.PointCount(); i++ {
		if !seen[i] {
			t.Errorf("point %d missing from result", i)
		}
	}
	for i := 1; i < len(distances); i++ {
		if distances[i] < distances[i-1] {
			t.Errorf("distances out of order at %d", i)
		}
	}
}

func TestRows(t *testing.T) {
	path := writeSample(t)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	// Chunk size 2 forces multiple chunk loads over 5 points.
	reader, err := d.Rows([]string{"longitude", "gravity"}, nil, 2)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	var lons []float64
	for reader.Next() {
		row := reader.Row()
		lon, ok := row[0].(float64)
		if !ok {
			t.Fatalf("row[0] = %T, want float64", row[0])
		}
		lons = append(lons, lon)
	}
	if err := reader.Err(); err != nil {
		t.Fatalf("reader error: %v", err)
	}
	if len(lons) != 5 {
		t.Fatalf("read %d rows, want 5", len(lons))
	}
	if lons[0] != 135.0 || lons[4] != 135.5 {
		t.Errorf("lons = %v", lons)
	}
}

func TestRows_Masked(t *testing.T) {
	path := writeSample(t)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	mask := []bool{true, false, false, false, true}
	reader, err := d.Rows([]string{"gravity"}, mask, 0)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	count := 0
	for reader.Next() {
		count++
	}
	if err := reader.Err(); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("read %d rows, want 2", count)
	}
}

func TestRows_BadMaskLength(t *testing.T) {
	path := writeSample(t)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if _, err := d.Rows(nil, []bool{true}, 0); err == nil {
		t.Error("Rows succeeded with wrong mask length")
	}
}

func TestOpen_NoCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.nc")
	vars := []Variable{{
		Name:       "value",
		Values:     []float64{1, 2, 3},
		Dimensions: []string{PointDimension},
	}}
	if err := WriteDataset(path, vars, nil); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open succeeded without coordinate variables")
	}
}

func TestConvexHullAndWKT(t *testing.T) {
	pts := [][2]float64{
		{0, 0}, {2, 0}, {2, 2}, {0, 2},
		{1, 1}, {0.5, 0.5}, // interior points
	}
	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull has %d vertices, want 4", len(hull))
	}

	wkt := polygonWKT(hull)
	if !strings.HasPrefix(wkt, "POLYGON((") || !strings.HasSuffix(wkt, "))") {
		t.Errorf("malformed WKT %q", wkt)
	}
	// Ring closure: first ordinate pair repeats at the end.
	inner := strings.TrimSuffix(strings.TrimPrefix(wkt, "POLYGON(("), "))")
	coords := strings.Split(inner, ", ")
	if len(coords) != 5 {
		t.Fatalf("WKT has %d coordinates, want 5 (closed ring)", len(coords))
	}
	if coords[0] != coords[4] {
		t.Errorf("ring not closed: %q != %q", coords[0], coords[4])
	}
}

func TestConvexHull_Degenerate(t *testing.T) {
	if got := convexHull([][2]float64{{1, 1}}); len(got) != 1 {
		t.Errorf("single point hull = %v", got)
	}
	if got := convexHull([][2]float64{{1, 1}, {1, 1}, {2, 2}}); len(got) != 2 {
		t.Errorf("two-point hull = %v", got)
	}
}

func TestKDTree(t *testing.T) {
	coords := make([][2]float64, 100)
	for i := range coords {
		coords[i] = [2]float64{float64(i % 10), float64(i / 10)}
	}
	all := make([]int, len(coords))
	for i := range all {
		all[i] = i
	}
	tree := newKDTree(coords, all)

	// Exact hit plus the four orthogonal neighbours at distance 1.
	got := tree.query([2]float64{5, 5}, 5, math.Inf(1))
	if len(got) != 5 {
		t.Fatalf("got %d results, want 5", len(got))
	}
	if got[0].distance != 0 {
		t.Errorf("nearest distance = %v, want 0", got[0].distance)
	}
	if got[0].index != 55 {
		t.Errorf("nearest index = %d, want 55", got[0].index)
	}
	for _, n := range got[1:] {
		if n.distance != 1 {
			t.Errorf("neighbour distance = %v, want 1", n.distance)
		}
	}

	// Radius-limited query.
	within := tree.query([2]float64{0, 0}, 10, 1.5)
	for _, n := range within {
		if n.distance > 1.5 {
			t.Errorf("neighbour at distance %v exceeds radius", n.distance)
		}
	}
	if len(within) != 4 {
		t.Errorf("got %d within radius, want 4 (origin, two axis neighbours, diagonal)", len(within))
	}
}

func TestEPSGFromWKT(t *testing.T) {
	if got := EPSGFromWKT(GDA94WKT); got != "4283" {
		t.Errorf("EPSGFromWKT = %q, want 4283", got)
	}
	if got := EPSGFromWKT("GEOGCS[no authority]"); got != "" {
		t.Errorf("EPSGFromWKT = %q, want empty", got)
	}
}

func TestGlobalAttrs_Vertical(t *testing.T) {
	attrs := GlobalAttrs("t", "", "", Extent{
		Bounds:      [4]float64{0, 0, 1, 1},
		XYUnits:     "degrees",
		VerticalMin: 10, VerticalMax: 200, HasVertical: true,
	})

	byKey := map[string]any{}
	for _, a := range attrs {
		byKey[a.Key] = a.Value
	}
	if byKey["geospatial_vertical_min"] != 10.0 {
		t.Errorf("vertical min = %v, want 10", byKey["geospatial_vertical_min"])
	}
	if byKey["geospatial_vertical_positive"] != "up" {
		t.Errorf("vertical positive = %v", byKey["geospatial_vertical_positive"])
	}
	if _, ok := byKey["keywords"]; ok {
		t.Error("empty keywords should be omitted")
	}
	if _, ok := byKey["date_created"]; !ok {
		t.Error("date_created missing")
	}
}

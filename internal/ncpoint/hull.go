// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import (
	"fmt"
	"sort"
	"strings"
)

// convexHull computes the convex hull of a point set with the Andrew
// monotone chain algorithm. The hull is returned in counter-clockwise order
// without the closing point. Degenerate inputs (fewer than three distinct
// points) return the distinct points themselves.
func convexHull(points [][2]float64) [][2]float64 {
	pts := make([][2]float64, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	// Deduplicate after sorting.
	distinct := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			distinct = append(distinct, p)
		}
	}
	pts = distinct

	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower [][2]float64
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper [][2]float64
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// polygonWKT renders hull vertices as a closed WKT POLYGON with four
// decimal places per ordinate.
func polygonWKT(hull [][2]float64) string {
	if len(hull) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("POLYGON((")
	for i, p := range hull {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%.4f %.4f", p[0], p[1])
	}
	// Close the ring.
	fmt.Fprintf(&b, ", %.4f %.4f))", hull[0][0], hull[0][1])
	return b.String()
}

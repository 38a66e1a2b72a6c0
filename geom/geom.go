// Package geom provides the small set of plane-geometry primitives the
// editing actions need: a smallest-surrounding-rectangle (SSR) axis finder,
// point rotation/reflection/scaling about a pivot, and scalar projection
// onto a line.
//
// No geometry or R-tree library in the retrieved corpus is grounded for
// this kind of computation, so this package is implemented directly on top
// of orb.Point and the standard math package; see the repository's design
// notes for why.
package geom

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Axis is a line through an origin point, described by a unit direction
// vector.
type Axis struct {
	Origin orb.Point
	Dir    orb.Point // unit vector
}

// SSR computes the smallest-surrounding-rectangle's long axis (or short axis
// if long is false) for a set of points, using the rotating-calipers
// approach over the point set's convex hull edges: for each hull edge
// orientation, compute the bounding box of all points rotated into that
// edge's frame, and keep the orientation with the smallest area.
//
// For fewer than 3 distinct points, SSR falls back to the axis between the
// two extreme points (or the x-axis for a single point).
func SSR(points []orb.Point, long bool) Axis {
	hull := convexHull(points)
	if len(hull) < 3 {
		return fallbackAxis(points)
	}

	bestArea := math.Inf(1)
	var bestLong, bestShort Axis
	for i := range hull {
		edge := sub(hull[(i+1)%len(hull)], hull[i])
		n := math.Hypot(edge[0], edge[1])
		if n == 0 {
			continue
		}
		dir := orb.Point{edge[0] / n, edge[1] / n}
		perp := orb.Point{-dir[1], dir[0]}

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := dot(p, dir)
			v := dot(p, perp)
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		width, height := maxU-minU, maxV-minV
		area := width * height
		if area < bestArea {
			bestArea = area
			origin := centroid(points)
			if width >= height {
				bestLong, bestShort = Axis{Origin: origin, Dir: dir}, Axis{Origin: origin, Dir: perp}
			} else {
				bestLong, bestShort = Axis{Origin: origin, Dir: perp}, Axis{Origin: origin, Dir: dir}
			}
		}
	}
	if long {
		return bestLong
	}
	return bestShort
}

func fallbackAxis(points []orb.Point) Axis {
	if len(points) == 0 {
		return Axis{Dir: orb.Point{1, 0}}
	}
	origin := centroid(points)
	if len(points) == 1 {
		return Axis{Origin: origin, Dir: orb.Point{1, 0}}
	}
	var best orb.Point
	bestDist := -1.0
	for _, p := range points {
		if d := dot(sub(p, origin), sub(p, origin)); d > bestDist {
			bestDist = d
			best = p
		}
	}
	d := sub(best, origin)
	n := math.Hypot(d[0], d[1])
	if n == 0 {
		return Axis{Origin: origin, Dir: orb.Point{1, 0}}
	}
	return Axis{Origin: origin, Dir: orb.Point{d[0] / n, d[1] / n}}
}

// Project returns the scalar projection of p onto axis, and the
// perpendicular (off-axis) distance.
func Project(axis Axis, p orb.Point) (along, off float64) {
	d := sub(p, axis.Origin)
	along = dot(d, axis.Dir)
	perp := orb.Point{-axis.Dir[1], axis.Dir[0]}
	off = dot(d, perp)
	return along, off
}

// PointAt returns the point at scalar distance along from axis.Origin along
// axis.Dir.
func PointAt(axis Axis, along float64) orb.Point {
	return orb.Point{
		axis.Origin[0] + axis.Dir[0]*along,
		axis.Origin[1] + axis.Dir[1]*along,
	}
}

// Rotate rotates p about pivot by angle radians.
func Rotate(p, pivot orb.Point, angle float64) orb.Point {
	d := sub(p, pivot)
	sin, cos := math.Sincos(angle)
	return orb.Point{
		pivot[0] + d[0]*cos - d[1]*sin,
		pivot[1] + d[0]*sin + d[1]*cos,
	}
}

// Scale scales p's radial offset from pivot by factor.
func Scale(p, pivot orb.Point, factor float64) orb.Point {
	d := sub(p, pivot)
	return orb.Point{pivot[0] + d[0]*factor, pivot[1] + d[1]*factor}
}

// Reflect reflects p across the axis through pivot described by direction
// vector (dx, dy), per c' = p + (A*(c-p), B*(c-p)) with
// A = (dx²-dy²)/(dx²+dy²), B = 2dxdy/(dx²+dy²).
func Reflect(p, pivot orb.Point, dx, dy float64) orb.Point {
	denom := dx*dx + dy*dy
	if denom == 0 {
		return p
	}
	a := (dx*dx - dy*dy) / denom
	b := 2 * dx * dy / denom
	d := sub(p, pivot)
	return orb.Point{
		p[0] + (a*d[0] + b*d[1]) - d[0],
		p[1] + (b*d[0] - a*d[1]) - d[1],
	}
}

// SegmentIntersection returns the point at which segment a1-a2 crosses
// segment b1-b2, and whether they actually cross (including at an endpoint,
// excluding parallel/collinear segments, which are reported as not
// crossing since they have no single crossing point).
func SegmentIntersection(a1, a2, b1, b2 orb.Point) (orb.Point, bool) {
	d1 := sub(a2, a1)
	d2 := sub(b2, b1)
	denom := cross(d1, d2)
	if denom == 0 {
		return orb.Point{}, false
	}
	diff := sub(b1, a1)
	t := cross(diff, d2) / denom
	u := cross(diff, d1) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, false
	}
	return orb.Point{a1[0] + d1[0]*t, a1[1] + d1[1]*t}, true
}

// SegmentIntersectionT is SegmentIntersection, additionally returning the
// parametric distance t along a1-a2 at which the crossing occurs.
func SegmentIntersectionT(a1, a2, b1, b2 orb.Point) (t float64, ok bool) {
	d1 := sub(a2, a1)
	d2 := sub(b2, b1)
	denom := cross(d1, d2)
	if denom == 0 {
		return 0, false
	}
	diff := sub(b1, a1)
	t = cross(diff, d2) / denom
	u := cross(diff, d1) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

func sub(a, b orb.Point) orb.Point { return orb.Point{a[0] - b[0], a[1] - b[1]} }
func dot(a, b orb.Point) float64   { return a[0]*b[0] + a[1]*b[1] }
func cross(a, b orb.Point) float64 { return a[0]*b[1] - a[1]*b[0] }

func centroid(points []orb.Point) orb.Point {
	if len(points) == 0 {
		return orb.Point{}
	}
	var x, y float64
	for _, p := range points {
		x += p[0]
		y += p[1]
	}
	n := float64(len(points))
	return orb.Point{x / n, y / n}
}

// convexHull computes the convex hull of points using the monotone chain
// algorithm, returning hull vertices in counter-clockwise order without a
// repeated closing point.
func convexHull(points []orb.Point) []orb.Point {
	uniq := dedupeSorted(points)
	if len(uniq) < 3 {
		return uniq
	}

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	lower := make([]orb.Point, 0, len(uniq))
	for _, p := range uniq {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]orb.Point, 0, len(uniq))
	for i := len(uniq) - 1; i >= 0; i-- {
		p := uniq[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func dedupeSorted(points []orb.Point) []orb.Point {
	sorted := append([]orb.Point{}, points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}
	return out
}

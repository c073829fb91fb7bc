// Package geom provides the 2D primitives and adaptive Bezier flattening
// used to turn a glyph's curve outline into a dense polyline.
//
// The recursive-subdivision control flow (depth guard, de Casteljau
// midpoints, left/right recursion) is grounded on the teacher's
// internal/curves.Curve3Div/Curve4Div.recursiveBezier; the termination
// predicate instead follows the flatness test spelled out for this
// domain (squared midpoint deviation for quadratics, chord-vs-polyline
// length for cubics).
package geom

import "math"

// Flatness is the maximum allowed deviation, in pixel units, between a
// flattened chord and the Bezier curve it approximates.
const Flatness = 0.35

// RecursionLimit bounds the depth of adaptive subdivision, guarding
// against numerical fixed points in pathological control polygons.
const RecursionLimit = 32

// Point is a 2D coordinate in whatever space the caller is working in
// (font units while flattening, pixel space after scaling).
type Point struct {
	X, Y float64
}

// Segment is a directed line between two points.
type Segment struct {
	A, B Point
}

// Mid returns the arithmetic midpoint of a and b.
func Mid(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// DistanceSquared returns the squared Euclidean distance between a and b.
func DistanceSquared(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// Skew returns the 2D cross product (B-A) x (C-A), the signed area of
// the parallelogram spanned by AB and AC. Its sign tells which side of
// line AB the point C falls on: positive means A, B, C turn
// counterclockwise in standard (y-up) math coordinates, negative means
// clockwise, zero is collinear. This module's point coordinates are in
// y-down image space, so a negative skew product is the orientation
// that reads as counterclockwise on screen; see
// internal/delaunay.isCCW.
func Skew(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// FlattenQuadratic adaptively subdivides the quadratic Bezier control
// polygon (p0, p1, p2) and appends the emitted points to out, NOT
// including p0 (the caller already has it as the current point). The
// final appended point is always p2.
func FlattenQuadratic(p0, p1, p2 Point, out []Point) []Point {
	return flattenQuad(p0, p1, p2, 0, out)
}

func flattenQuad(p0, p1, p2 Point, level int, out []Point) []Point {
	if level >= RecursionLimit {
		return append(out, p2)
	}

	m := Mid(Mid(p0, p1), Mid(p1, p2))
	chordMid := Mid(p0, p2)

	if DistanceSquared(m, chordMid) <= Flatness*Flatness {
		return append(out, p2)
	}

	out = flattenQuad(p0, Mid(p0, p1), m, level+1, out)
	out = flattenQuad(m, Mid(p1, p2), p2, level+1, out)
	return out
}

// FlattenCubic adaptively subdivides the cubic Bezier control polygon
// (p0, p1, p2, p3) and appends the emitted points to out, NOT including
// p0. The final appended point is always p3.
func FlattenCubic(p0, p1, p2, p3 Point, out []Point) []Point {
	return flattenCubic(p0, p1, p2, p3, 0, out)
}

func flattenCubic(p0, p1, p2, p3 Point, level int, out []Point) []Point {
	if level >= RecursionLimit {
		return append(out, p3)
	}

	chord := Distance(p0, p3)
	polyline := Distance(p0, p1) + Distance(p1, p2) + Distance(p2, p3)

	if polyline*polyline-chord*chord <= Flatness*Flatness {
		return append(out, p3)
	}

	p01 := Mid(p0, p1)
	p12 := Mid(p1, p2)
	p23 := Mid(p2, p3)
	p012 := Mid(p01, p12)
	p123 := Mid(p12, p23)
	mid := Mid(p012, p123)

	out = flattenCubic(p0, p01, p012, mid, level+1, out)
	out = flattenCubic(mid, p123, p23, p3, level+1, out)
	return out
}

// NextPow2 returns the smallest power of two greater than or equal to n.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ClampInt restricts v to the inclusive range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

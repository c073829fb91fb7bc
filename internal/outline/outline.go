// Package outline turns a font's move/line/quad/curve/close callback
// stream into points in a mesh.PointArena, flattening curves with
// internal/geom and tracking the shortest edge length seen on the
// contour (the D(scale) quantity computed in the root package).
//
// The callback shapes and the close-path handling are grounded on
// original_source's font outliner (src/font/outliner.rs): close pops
// the duplicate closing point the font format re-emits at the end of a
// contour and splices the contour's start point back onto the real
// last point instead.
package outline

import (
	"math"

	"github.com/MeKo-Christian/glyphtri/internal/geom"
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
)

// Builder accumulates a glyph's contours into a shared point arena.
type Builder struct {
	Points *mesh.PointArena

	last     mesh.PointIndex
	lastMove mesh.PointIndex

	// ShortestDistance is the minimum Euclidean distance seen between
	// two consecutive points across every contour processed so far.
	ShortestDistance float64
}

// NewBuilder returns a Builder that adds points into points.
func NewBuilder(points *mesh.PointArena) *Builder {
	return &Builder{
		Points:           points,
		last:             mesh.NoPoint,
		lastMove:         mesh.NoPoint,
		ShortestDistance: math.MaxFloat64,
	}
}

// MoveTo starts a new contour at (x, y).
func (b *Builder) MoveTo(x, y float64) {
	idx := b.Points.Add(mesh.Point{X: x, Y: y, PreviousInOutline: mesh.NoPoint})
	b.last = idx
	b.lastMove = idx
}

// LineTo appends a straight edge to (x, y).
func (b *Builder) LineTo(x, y float64) {
	from := b.currentPoint()
	to := geom.Point{X: x, Y: y}
	b.track(from, to)
	idx := b.Points.Add(mesh.Point{X: x, Y: y, PreviousInOutline: b.last})
	b.last = idx
}

// QuadTo appends a quadratic Bezier edge with control point (x1, y1)
// ending at (x2, y2).
func (b *Builder) QuadTo(x1, y1, x2, y2 float64) {
	p0 := b.currentPoint()
	p1 := geom.Point{X: x1, Y: y1}
	p2 := geom.Point{X: x2, Y: y2}

	flattened := geom.FlattenQuadratic(p0, p1, p2, nil)
	b.appendFlattened(p0, flattened)
}

// CurveTo appends a cubic Bezier edge with control points (x1, y1) and
// (x2, y2), ending at (x3, y3).
func (b *Builder) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	p0 := b.currentPoint()
	p1 := geom.Point{X: x1, Y: y1}
	p2 := geom.Point{X: x2, Y: y2}
	p3 := geom.Point{X: x3, Y: y3}

	flattened := geom.FlattenCubic(p0, p1, p2, p3, nil)
	b.appendFlattened(p0, flattened)
}

// ClosePath ends the current contour. The font format re-emits the
// contour's start coordinate as the final point before closing; that
// duplicate is discarded and the start point is linked back onto the
// real last point of the contour instead, closing the cycle.
func (b *Builder) ClosePath() {
	pt := b.Points.Get(b.last)
	if pt == nil {
		return
	}
	prev := pt.PreviousInOutline
	b.Points.Remove(b.last)
	b.last = prev

	if b.lastMove != mesh.NoPoint {
		if start := b.Points.Get(b.lastMove); start != nil {
			start.PreviousInOutline = b.last
		}
	}
	b.lastMove = mesh.NoPoint
}

func (b *Builder) currentPoint() geom.Point {
	pt := b.Points.Get(b.last)
	if pt == nil {
		return geom.Point{}
	}
	return geom.Point{X: pt.X, Y: pt.Y}
}

func (b *Builder) appendFlattened(from geom.Point, pts []geom.Point) {
	prev := from
	for _, p := range pts {
		b.track(prev, p)
		idx := b.Points.Add(mesh.Point{X: p.X, Y: p.Y, PreviousInOutline: b.last})
		b.last = idx
		prev = p
	}
}

func (b *Builder) track(from, to geom.Point) {
	d := geom.Distance(from, to)
	if d < b.ShortestDistance {
		b.ShortestDistance = d
	}
}

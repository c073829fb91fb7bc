// Package visibility labels every triangle in a constrained mesh as
// inside or outside the glyph's contours, by flooding outward from a
// triangle known to lie outside (one touching a far bounding corner)
// and toggling the current label whenever the flood crosses a contour
// edge. Grounded on original_source/src/delaunay/mod.rs's visibility
// pass.
package visibility

import (
	"fmt"

	"github.com/MeKo-Christian/glyphtri/internal/mesh"
)

// ErrNoStartTriangle is returned when no bounding-corner point has a
// live incident triangle to start the flood-fill from.
var ErrNoStartTriangle = fmt.Errorf("visibility: no bounding-corner triangle available to start the flood-fill")

// Label runs the visibility flood-fill over every triangle reachable
// from a bounding-corner triangle, via DFS across triangle adjacency.
func Label(points *mesh.PointArena, triangles *mesh.TriangleArena) error {
	start := findStartTriangle(points)
	if start == mesh.NoTriangle {
		return ErrNoStartTriangle
	}

	startTri := triangles.Get(start)
	if startTri == nil {
		return ErrNoStartTriangle
	}
	startTri.Visibility = mesh.VisibilityInvisible

	stack := []mesh.TriangleIndex{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		curTri := triangles.Get(cur)
		if curTri == nil {
			continue
		}

		for _, n := range curTri.Neighbours {
			if n == mesh.NoTriangle {
				continue
			}
			nt := triangles.Get(n)
			if nt == nil || nt.Visibility != mesh.VisibilityUnknown {
				continue
			}

			if sharedEdgeIsContour(points, curTri, nt) {
				nt.Visibility = toggle(curTri.Visibility)
			} else {
				nt.Visibility = curTri.Visibility
			}
			stack = append(stack, n)
		}
	}

	return nil
}

// VisibleTriangles returns the indices of every triangle labelled
// visible, the glyph's interior mesh.
func VisibleTriangles(triangles *mesh.TriangleArena) []mesh.TriangleIndex {
	var out []mesh.TriangleIndex
	triangles.ForEach(func(idx mesh.TriangleIndex, tri *mesh.Triangle) bool {
		if tri.Visibility == mesh.VisibilityVisible {
			out = append(out, idx)
		}
		return true
	})
	return out
}

func toggle(v mesh.Visibility) mesh.Visibility {
	if v == mesh.VisibilityVisible {
		return mesh.VisibilityInvisible
	}
	return mesh.VisibilityVisible
}

func findStartTriangle(points *mesh.PointArena) mesh.TriangleIndex {
	start := mesh.NoTriangle
	points.ForEach(func(idx mesh.PointIndex, p *mesh.Point) bool {
		if !p.IsBounding || len(p.TriangleFan) == 0 {
			return true
		}
		start = p.TriangleFan[0]
		return false
	})
	return start
}

func sharedEdgeIsContour(points *mesh.PointArena, t1, t2 *mesh.Triangle) bool {
	var shared []mesh.PointIndex
	for _, v := range t1.Vertices {
		if t2.HasVertex(v) {
			shared = append(shared, v)
		}
	}
	if len(shared) != 2 {
		return false
	}
	pa, pb := points.Get(shared[0]), points.Get(shared[1])
	return pa.PreviousInOutline == shared[1] || pb.PreviousInOutline == shared[0]
}

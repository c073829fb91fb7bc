// Package delaunay builds and refines the glyph's triangle mesh: the
// initial unconstrained triangulation extracted from a discrete
// Voronoi diagram (grounded on original_source/src/delaunay/factory.rs),
// Delaunay edge-flip refinement and contour-constrained edge insertion
// (both grounded on original_source/src/delaunay/triangle.rs and
// mod.rs).
package delaunay

import (
	"fmt"

	"github.com/MeKo-Christian/glyphtri/internal/geom"
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
	"github.com/MeKo-Christian/glyphtri/internal/voronoi"
)

// BoundingMargin is the multiple of D the four far bounding corners
// are placed at.
const BoundingMargin = 10

// Bounding holds the indices of the four far corner points added
// after outline flattening, in the order the hull-patch border walk
// needs to find them: bottom-left, bottom-right, top-right, top-left.
type Bounding struct {
	BottomLeft, BottomRight, TopRight, TopLeft mesh.PointIndex
}

// BuildInitial extracts the unconstrained Delaunay triangulation from
// a Voronoi grid: one triangle per 2x2 pixel block touching exactly
// three distinct sites, a far bounding quad, a convex-hull patch along
// the image border, and full triangle-to-triangle adjacency.
func BuildInitial(points *mesh.PointArena, result *voronoi.Result) (*mesh.TriangleArena, Bounding, error) {
	triangles := mesh.NewTriangleArena()

	addTriangle := func(v0, v1, v2 mesh.PointIndex) mesh.TriangleIndex {
		if !isCCW(points, v0, v1, v2) {
			v1, v2 = v2, v1
		}
		idx := triangles.Add(mesh.Triangle{
			Vertices:   [3]mesh.PointIndex{v0, v1, v2},
			Neighbours: [3]mesh.TriangleIndex{mesh.NoTriangle, mesh.NoTriangle, mesh.NoTriangle},
		})
		for _, v := range [3]mesh.PointIndex{v0, v1, v2} {
			points.Get(v).AddToFan(idx)
		}
		return idx
	}

	extractGridTriangles(result, addTriangle)

	dim := float64(result.Dim)
	bounding := addBoundingQuad(points, dim)

	patched := patchCorners(result, bounding)
	hullPatchTriangles(points, patched, addTriangle)

	computeAdjacency(points, triangles)

	return triangles, bounding, nil
}

func isCCW(points *mesh.PointArena, a, b, c mesh.PointIndex) bool {
	pa, pb, pc := points.Get(a), points.Get(b), points.Get(c)
	return geom.Skew(
		geom.Point{X: pa.X, Y: pa.Y},
		geom.Point{X: pb.X, Y: pb.Y},
		geom.Point{X: pc.X, Y: pc.Y},
	) < 0
}

func extractGridTriangles(result *voronoi.Result, addTriangle func(a, b, c mesh.PointIndex) mesh.TriangleIndex) {
	dim := result.Dim
	for y := 0; y < dim-1; y++ {
		for x := 0; x < dim-1; x++ {
			ids := [4]int{
				result.At(x, y).SiteID,
				result.At(x+1, y).SiteID,
				result.At(x, y+1).SiteID,
				result.At(x+1, y+1).SiteID,
			}
			distinct := distinctIDs(ids)
			if len(distinct) != 3 {
				continue
			}
			addTriangle(mesh.PointIndex(distinct[0]), mesh.PointIndex(distinct[1]), mesh.PointIndex(distinct[2]))
		}
	}
}

func distinctIDs(ids [4]int) []int {
	var out []int
	for _, id := range ids {
		found := false
		for _, o := range out {
			if o == id {
				found = true
				break
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out
}

func addBoundingQuad(points *mesh.PointArena, dim float64) Bounding {
	far := BoundingMargin * dim
	bl := points.Add(mesh.Point{X: -far, Y: -far, IsBounding: true, PreviousInOutline: mesh.NoPoint})
	br := points.Add(mesh.Point{X: far, Y: -far, IsBounding: true, PreviousInOutline: mesh.NoPoint})
	tr := points.Add(mesh.Point{X: far, Y: far, IsBounding: true, PreviousInOutline: mesh.NoPoint})
	tl := points.Add(mesh.Point{X: -far, Y: far, IsBounding: true, PreviousInOutline: mesh.NoPoint})
	return Bounding{BottomLeft: bl, BottomRight: br, TopRight: tr, TopLeft: tl}
}

// patchCorners returns the concatenated clockwise border walk
// (bottom, right, top, left) with the four corner pixels retargeted
// onto the bounding quad's points, as the site id a hull-patch
// triangle should actually reference.
func patchCorners(result *voronoi.Result, bounding Bounding) []mesh.PointIndex {
	d := result.Dim
	walk := make([]mesh.PointIndex, 0, 4*d)

	for _, px := range result.Borders[voronoi.Bottom] {
		walk = append(walk, mesh.PointIndex(px.SiteID))
	}
	for _, px := range result.Borders[voronoi.Right] {
		walk = append(walk, mesh.PointIndex(px.SiteID))
	}
	for _, px := range result.Borders[voronoi.Top] {
		walk = append(walk, mesh.PointIndex(px.SiteID))
	}
	for _, px := range result.Borders[voronoi.Left] {
		walk = append(walk, mesh.PointIndex(px.SiteID))
	}

	bottomLen := len(result.Borders[voronoi.Bottom])
	rightLen := len(result.Borders[voronoi.Right])
	topLen := len(result.Borders[voronoi.Top])
	leftLen := len(result.Borders[voronoi.Left])

	bottomStart, bottomEnd := 0, bottomLen-1
	rightStart, rightEnd := bottomLen, bottomLen+rightLen-1
	topStart, topEnd := bottomLen+rightLen, bottomLen+rightLen+topLen-1
	leftStart, leftEnd := bottomLen+rightLen+topLen, bottomLen+rightLen+topLen+leftLen-1

	walk[bottomStart] = bounding.BottomLeft
	walk[leftEnd] = bounding.BottomLeft
	walk[bottomEnd] = bounding.BottomRight
	walk[rightStart] = bounding.BottomRight
	walk[rightEnd] = bounding.TopRight
	walk[topStart] = bounding.TopRight
	walk[topEnd] = bounding.TopLeft
	walk[leftStart] = bounding.TopLeft

	return walk
}

// hullPatchTriangles runs the stack-based convex-hull repair walk
// described for C5: it connects every hull-adjacent site to the far
// bounding quad by fanning triangles out as the border walk proceeds.
func hullPatchTriangles(points *mesh.PointArena, walk []mesh.PointIndex, addTriangle func(a, b, c mesh.PointIndex) mesh.TriangleIndex) {
	var stack []mesh.PointIndex

	for _, p := range walk {
		for len(stack) >= 2 {
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			if !isCCW(points, a, b, p) {
				break
			}
			addTriangle(a, b, p)
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 || stack[len(stack)-1] != p {
			stack = append(stack, p)
		}
	}
}

// computeAdjacency links every pair of triangles sharing exactly two
// vertices (one edge) as neighbours of each other.
func computeAdjacency(points *mesh.PointArena, triangles *mesh.TriangleArena) {
	type edgeKey struct{ a, b mesh.PointIndex }
	edges := make(map[edgeKey][]mesh.TriangleIndex)

	triangles.ForEach(func(idx mesh.TriangleIndex, tri *mesh.Triangle) bool {
		for i := 0; i < 3; i++ {
			a, b := tri.Vertices[i], tri.Vertices[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			key := edgeKey{a, b}
			edges[key] = append(edges[key], idx)
		}
		return true
	})

	for _, ts := range edges {
		if len(ts) != 2 {
			continue
		}
		t0, t1 := triangles.Get(ts[0]), triangles.Get(ts[1])
		t0.TryAddNeighbour(ts[1])
		t1.TryAddNeighbour(ts[0])
	}
}

// Error values surfaced by this package.
var (
	ErrTriangleTrackNotFound = fmt.Errorf("delaunay: could not walk a triangle track between the endpoints of a contour edge")
)

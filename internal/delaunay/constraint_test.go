package delaunay

import (
	"testing"

	"github.com/MeKo-Christian/glyphtri/internal/mesh"
)

func TestEdgeExists(t *testing.T) {
	points := mesh.NewPointArena()
	a := addPoint(points, 0, 0)
	b := addPoint(points, 1, 0)
	c := addPoint(points, 0, 1)
	d := addPoint(points, 1, 1)

	triangles := mesh.NewTriangleArena()
	idx := triangles.Add(mesh.Triangle{Vertices: [3]mesh.PointIndex{a, b, c}})
	for _, v := range []mesh.PointIndex{a, b, c} {
		points.Get(v).AddToFan(idx)
	}

	if !edgeExists(points, triangles, a, b) {
		t.Errorf("edge (a,b) should exist")
	}
	if edgeExists(points, triangles, a, d) {
		t.Errorf("edge (a,d) should not exist")
	}
}

func TestFindMissingContourEdges(t *testing.T) {
	points := mesh.NewPointArena()
	a := points.Add(mesh.Point{X: 0, Y: 0, PreviousInOutline: mesh.NoPoint})
	b := points.Add(mesh.Point{X: 1, Y: 0, PreviousInOutline: a})
	c := points.Add(mesh.Point{X: 1, Y: 1, PreviousInOutline: b})
	points.Get(a).PreviousInOutline = c // close the triangle contour

	triangles := mesh.NewTriangleArena()
	// Only (a,b) exists in the mesh; (b,c) and (c,a) are missing.
	idx := triangles.Add(mesh.Triangle{Vertices: [3]mesh.PointIndex{a, b, mesh.NoPoint}})
	points.Get(a).AddToFan(idx)
	points.Get(b).AddToFan(idx)

	missing := findMissingContourEdges(points, triangles)
	if len(missing) != 2 {
		t.Fatalf("len(missing) = %d, want 2, got %v", len(missing), missing)
	}
}

func TestSplitHoles(t *testing.T) {
	points := mesh.NewPointArena()
	a := addPoint(points, 0, 0)
	b := addPoint(points, 10, 0)
	p1 := addPoint(points, 5, 3) // above the a-b line
	p2 := addPoint(points, 5, -3) // below the a-b line

	holeA, holeB := splitHoles(points, a, b, [][2]mesh.PointIndex{{p1, p2}})

	if len(holeA) != 3 || len(holeB) != 3 {
		t.Fatalf("expected 3-vertex holes, got %v and %v", holeA, holeB)
	}
	if holeA[0] != a || holeA[2] != b {
		t.Errorf("holeA should run a..b, got %v", holeA)
	}
	if holeA[1] == holeB[1] {
		t.Errorf("holeA and holeB should take opposite crossed-edge endpoints")
	}
}

func TestEarRemovalTriangulateSingleTriangle(t *testing.T) {
	points := mesh.NewPointArena()
	a := addPoint(points, 0, 0)
	b := addPoint(points, 1, 0)
	c := addPoint(points, 0, 1)

	tris := earRemovalTriangulate(points, []mesh.PointIndex{a, b, c})
	if len(tris) != 1 {
		t.Fatalf("len(tris) = %d, want 1", len(tris))
	}
}

func TestEarRemovalTriangulateConvexPentagon(t *testing.T) {
	points := mesh.NewPointArena()
	// A small convex fan-shaped chain from a to e.
	a := addPoint(points, 0, 0)
	b := addPoint(points, 2, 3)
	c := addPoint(points, 4, 4)
	d := addPoint(points, 6, 3)
	e := addPoint(points, 8, 0)

	tris := earRemovalTriangulate(points, []mesh.PointIndex{a, b, c, d, e})
	if len(tris) != 3 {
		t.Fatalf("len(tris) = %d, want 3 (n-2 triangles for a 5-vertex chain)", len(tris))
	}
}

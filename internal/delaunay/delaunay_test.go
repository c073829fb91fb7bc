package delaunay

import (
	"math"
	"testing"

	"github.com/MeKo-Christian/glyphtri/internal/geom"
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
	"github.com/MeKo-Christian/glyphtri/internal/voronoi"
)

func addPoint(points *mesh.PointArena, x, y float64) mesh.PointIndex {
	return points.Add(mesh.Point{X: x, Y: y, PreviousInOutline: mesh.NoPoint})
}

func TestIsCCW(t *testing.T) {
	points := mesh.NewPointArena()
	a := addPoint(points, 0, 0)
	b := addPoint(points, 1, 0)
	c := addPoint(points, 0, 1)

	// In this module's y-down image space, going a=(0,0) -> b=(1,0) ->
	// c=(0,1) turns clockwise on screen (c sits visually below the a-b
	// edge); a, c, b is the counterclockwise-on-screen winding.
	if isCCW(points, a, b, c) {
		t.Errorf("(a,b,c) should be clockwise in image space")
	}
	if !isCCW(points, a, c, b) {
		t.Errorf("(a,c,b) should be counterclockwise in image space")
	}
}

func TestInCircle(t *testing.T) {
	// Unit circle through (1,0),(0,1),(-1,0) centered at origin.
	a := geom.Point{X: 1, Y: 0}
	b := geom.Point{X: 0, Y: 1}
	c := geom.Point{X: -1, Y: 0}

	inside := geom.Point{X: 0, Y: 0}
	outside := geom.Point{X: 5, Y: 5}

	if inCircle(a, b, c, inside) <= 0 {
		t.Errorf("origin should be inside the circumcircle")
	}
	if inCircle(a, b, c, outside) >= 0 {
		t.Errorf("(5,5) should be outside the circumcircle")
	}
}

func TestSharedAndOpposite(t *testing.T) {
	t1 := &mesh.Triangle{Vertices: [3]mesh.PointIndex{0, 1, 2}}
	t2 := &mesh.Triangle{Vertices: [3]mesh.PointIndex{1, 2, 3}}

	shared, opp1, opp2, ok := sharedAndOpposite(t1, t2)
	if !ok {
		t.Fatalf("expected triangles to share exactly two vertices")
	}
	if opp1 != 0 {
		t.Errorf("opp1 = %d, want 0", opp1)
	}
	if opp2 != 3 {
		t.Errorf("opp2 = %d, want 3", opp2)
	}
	if !(shared[0] == 1 || shared[0] == 2) || !(shared[1] == 1 || shared[1] == 2) || shared[0] == shared[1] {
		t.Errorf("shared = %v, want {1,2} in some order", shared)
	}
}

func TestSharedAndOppositeNoSharedEdge(t *testing.T) {
	t1 := &mesh.Triangle{Vertices: [3]mesh.PointIndex{0, 1, 2}}
	t2 := &mesh.Triangle{Vertices: [3]mesh.PointIndex{3, 4, 5}}
	if _, _, _, ok := sharedAndOpposite(t1, t2); ok {
		t.Errorf("triangles with no shared vertices should not report ok")
	}
}

func TestCircumradiusDegenerate(t *testing.T) {
	points := mesh.NewPointArena()
	a := addPoint(points, 0, 0)
	b := addPoint(points, 1, 0)
	c := addPoint(points, 2, 0)
	if r := circumradius(points, a, b, c); r != math.MaxFloat64 {
		t.Errorf("circumradius of collinear points = %v, want math.MaxFloat64 sentinel", r)
	}
}

func TestIsContourEdge(t *testing.T) {
	points := mesh.NewPointArena()
	a := points.Add(mesh.Point{X: 0, Y: 0, PreviousInOutline: mesh.NoPoint})
	b := points.Add(mesh.Point{X: 1, Y: 0, PreviousInOutline: a})
	c := points.Add(mesh.Point{X: 2, Y: 0, PreviousInOutline: mesh.NoPoint})

	if !isContourEdge(points, a, b) {
		t.Errorf("(a,b) should be a contour edge")
	}
	if isContourEdge(points, a, c) {
		t.Errorf("(a,c) should not be a contour edge")
	}
}

// TestBuildInitialSquare builds a four-site Voronoi grid and checks
// that the resulting mesh satisfies the CCW orientation and adjacency
// symmetry invariants.
func TestBuildInitialSquare(t *testing.T) {
	points := mesh.NewPointArena()
	addPoint(points, 4, 4)
	addPoint(points, 12, 4)
	addPoint(points, 4, 12)
	addPoint(points, 12, 12)

	sites := []voronoi.Site{{X: 4, Y: 4}, {X: 12, Y: 4}, {X: 4, Y: 12}, {X: 12, Y: 12}}
	result, err := voronoi.BruteForceOracle{}.Compute(sites, 16)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	triangles, bounding, err := BuildInitial(points, result)
	if err != nil {
		t.Fatalf("BuildInitial() error = %v", err)
	}
	if triangles.Len() == 0 {
		t.Fatalf("expected at least one triangle")
	}
	_ = bounding

	assertMeshInvariants(t, points, triangles)
}

func assertMeshInvariants(t *testing.T, points *mesh.PointArena, triangles *mesh.TriangleArena) {
	t.Helper()

	triangles.ForEach(func(idx mesh.TriangleIndex, tri *mesh.Triangle) bool {
		if !isCCW(points, tri.Vertices[0], tri.Vertices[1], tri.Vertices[2]) {
			t.Errorf("triangle %d is not counterclockwise: %v", idx, tri.Vertices)
		}
		for _, n := range tri.Neighbours {
			if n == mesh.NoTriangle {
				continue
			}
			other := triangles.Get(n)
			if other == nil || !other.HasNeighbour(idx) {
				t.Errorf("triangle %d lists %d as neighbour, not reciprocated", idx, n)
			}
		}
		return true
	})
}

func TestRefineProducesDelaunayLegalMesh(t *testing.T) {
	points := mesh.NewPointArena()
	addPoint(points, 4, 4)
	addPoint(points, 12, 4)
	addPoint(points, 4, 12)
	addPoint(points, 12, 12)
	addPoint(points, 8, 8)

	sites := []voronoi.Site{{X: 4, Y: 4}, {X: 12, Y: 4}, {X: 4, Y: 12}, {X: 12, Y: 12}, {X: 8, Y: 8}}
	result, err := voronoi.BruteForceOracle{}.Compute(sites, 16)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	triangles, _, err := BuildInitial(points, result)
	if err != nil {
		t.Fatalf("BuildInitial() error = %v", err)
	}

	Refine(points, triangles)
	assertMeshInvariants(t, points, triangles)

	// No interior (non-bounding, non-contour) edge should violate the
	// in-circle test after refinement.
	triangles.ForEach(func(idx mesh.TriangleIndex, tri *mesh.Triangle) bool {
		for _, n := range tri.Neighbours {
			if n == mesh.NoTriangle || n < idx {
				continue
			}
			other := triangles.Get(n)
			shared, opp1, opp2, ok := sharedAndOpposite(tri, other)
			if !ok {
				continue
			}
			if points.Get(opp1).IsBounding || points.Get(opp2).IsBounding {
				continue
			}
			if isContourEdge(points, shared[0], shared[1]) {
				continue
			}
			a := toGeomPoint(points.Get(tri.Vertices[0]))
			b := toGeomPoint(points.Get(tri.Vertices[1]))
			c := toGeomPoint(points.Get(tri.Vertices[2]))
			d := toGeomPoint(points.Get(opp2))
			// swap b, c: tri.Vertices is wound CCW in image space, the
			// reverse of the standard math CCW order inCircle expects.
			if inCircle(a, c, b, d) > 1e-6 {
				t.Errorf("edge between %d and %d still violates the Delaunay in-circle test after refinement", idx, n)
			}
		}
		return true
	})
}

package delaunay

import (
	"fmt"
	"math"

	"github.com/MeKo-Christian/glyphtri/internal/basics"
	"github.com/MeKo-Christian/glyphtri/internal/geom"
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
)

// sideEpsilon is the tolerance sideSign uses to treat a near-zero skew
// product as exactly collinear.
const sideEpsilon = 1e-9

// InsertConstraints walks every contour edge missing from the mesh,
// carves the two polygonal holes flanking its triangle track, and
// retriangulates each by greedy smallest-circumcircle ear removal.
func InsertConstraints(points *mesh.PointArena, triangles *mesh.TriangleArena) error {
	missing := findMissingContourEdges(points, triangles)

	for _, e := range missing {
		a, b := e[0], e[1]
		if edgeExists(points, triangles, a, b) {
			// an earlier insertion in this pass may have already
			// created this edge as a side effect of its own hole
			// retriangulation.
			continue
		}

		crossedEdges, track, ok := triangleTrack(points, triangles, a, b)
		if !ok {
			return fmt.Errorf("%w: edge (%d,%d)", ErrTriangleTrackNotFound, a, b)
		}

		holeA, holeB := splitHoles(points, a, b, crossedEdges)
		newTris := append(earRemovalTriangulate(points, holeA), earRemovalTriangulate(points, holeB)...)
		spliceIn(points, triangles, track, newTris)
	}

	return nil
}

func findMissingContourEdges(points *mesh.PointArena, triangles *mesh.TriangleArena) [][2]mesh.PointIndex {
	var out [][2]mesh.PointIndex
	points.ForEach(func(idx mesh.PointIndex, p *mesh.Point) bool {
		if p.PreviousInOutline == mesh.NoPoint {
			return true
		}
		a, b := idx, p.PreviousInOutline
		if !edgeExists(points, triangles, a, b) {
			out = append(out, [2]mesh.PointIndex{a, b})
		}
		return true
	})
	return out
}

func edgeExists(points *mesh.PointArena, triangles *mesh.TriangleArena, a, b mesh.PointIndex) bool {
	pa := points.Get(a)
	if pa == nil {
		return false
	}
	for _, tidx := range pa.TriangleFan {
		tri := triangles.Get(tidx)
		if tri != nil && tri.HasVertex(b) {
			return true
		}
	}
	return false
}

func sideSign(points *mesh.PointArena, a, b, c mesh.PointIndex) int {
	s := geom.Skew(toGeomPoint(points.Get(a)), toGeomPoint(points.Get(b)), toGeomPoint(points.Get(c)))
	if basics.IsEqualEps(s, 0, sideEpsilon) {
		return 0
	}
	if s > 0 {
		return 1
	}
	return -1
}

// triangleTrack walks the mesh from a to b, returning the ordered list
// of edges the segment (a, b) crosses and the ordered list of
// triangles it passes through.
func triangleTrack(points *mesh.PointArena, triangles *mesh.TriangleArena, a, b mesh.PointIndex) (crossedEdges [][2]mesh.PointIndex, track []mesh.TriangleIndex, ok bool) {
	pa := points.Get(a)
	startTri := mesh.NoTriangle
	var v1, v2 mesh.PointIndex

	for _, tidx := range pa.TriangleFan {
		tri := triangles.Get(tidx)
		if tri == nil {
			continue
		}
		var opp []mesh.PointIndex
		for _, v := range tri.Vertices {
			if v != a {
				opp = append(opp, v)
			}
		}
		if len(opp) != 2 {
			continue
		}
		s1 := sideSign(points, a, b, opp[0])
		s2 := sideSign(points, a, b, opp[1])
		if s1 == 0 && s2 == 0 {
			continue
		}
		if (s1 >= 0 && s2 <= 0) || (s1 <= 0 && s2 >= 0) {
			startTri = tidx
			v1, v2 = opp[0], opp[1]
			break
		}
	}

	if startTri == mesh.NoTriangle {
		return nil, nil, false
	}

	crossedEdges = append(crossedEdges, [2]mesh.PointIndex{v1, v2})
	track = append(track, startTri)

	curTri := startTri
	curV1, curV2 := v1, v2

	const maxSteps = 100000
	for step := 0; step < maxSteps; step++ {
		nextTri := neighbourAcrossEdge(triangles, curTri, curV1, curV2)
		if nextTri == mesh.NoTriangle {
			return nil, nil, false
		}
		track = append(track, nextTri)

		ntri := triangles.Get(nextTri)
		if ntri.HasVertex(b) {
			return crossedEdges, track, true
		}

		v3 := mesh.NoPoint
		for _, v := range ntri.Vertices {
			if v != curV1 && v != curV2 {
				v3 = v
				break
			}
		}
		if v3 == mesh.NoPoint {
			return nil, nil, false
		}

		s3 := sideSign(points, a, b, v3)
		s1 := sideSign(points, a, b, curV1)
		if s3 == s1 {
			curV1, curV2 = curV2, v3
		} else {
			curV1, curV2 = curV1, v3
		}
		crossedEdges = append(crossedEdges, [2]mesh.PointIndex{curV1, curV2})
		curTri = nextTri
	}

	return nil, nil, false
}

func neighbourAcrossEdge(triangles *mesh.TriangleArena, curTri mesh.TriangleIndex, v1, v2 mesh.PointIndex) mesh.TriangleIndex {
	tri := triangles.Get(curTri)
	for _, n := range tri.Neighbours {
		if n == mesh.NoTriangle {
			continue
		}
		nt := triangles.Get(n)
		if nt != nil && nt.HasVertex(v1) && nt.HasVertex(v2) {
			return n
		}
	}
	return mesh.NoTriangle
}

// splitHoles partitions the crossed-edge list into the two polygonal
// chains flanking e = (a, b), each running from a to b along one side.
func splitHoles(points *mesh.PointArena, a, b mesh.PointIndex, crossedEdges [][2]mesh.PointIndex) (holeA, holeB []mesh.PointIndex) {
	holeA = append(holeA, a)
	holeB = append(holeB, a)

	for _, ce := range crossedEdges {
		p, q := ce[0], ce[1]
		if sideSign(points, a, b, p) > 0 {
			holeA = append(holeA, p)
			holeB = append(holeB, q)
		} else {
			holeA = append(holeA, q)
			holeB = append(holeB, p)
		}
	}

	holeA = append(holeA, b)
	holeB = append(holeB, b)
	return holeA, holeB
}

func circumradius(points *mesh.PointArena, a, b, c mesh.PointIndex) float64 {
	pa, pb, pc := toGeomPoint(points.Get(a)), toGeomPoint(points.Get(b)), toGeomPoint(points.Get(c))
	ab := geom.Distance(pa, pb)
	bc := geom.Distance(pb, pc)
	ca := geom.Distance(pc, pa)
	area := math.Abs(geom.Skew(pa, pb, pc)) / 2
	if area < 1e-12 {
		return math.MaxFloat64
	}
	return (ab * bc * ca) / (4 * area)
}

// earRemovalTriangulate triangulates the open vertex chain poly (whose
// first and last vertices are the constrained edge's endpoints) by
// repeatedly emitting the consecutive triple with the smallest
// circumcircle and removing its middle vertex. This heuristic is not
// guaranteed to avoid self-intersection on an arbitrary non-convex
// chain; the resulting mesh may include small overlaps in those cases.
func earRemovalTriangulate(points *mesh.PointArena, poly []mesh.PointIndex) [][3]mesh.PointIndex {
	verts := append([]mesh.PointIndex(nil), poly...)
	var out [][3]mesh.PointIndex

	for len(verts) > 3 {
		bestIdx := 1
		bestRadius := math.MaxFloat64
		for i := 1; i < len(verts)-1; i++ {
			r := circumradius(points, verts[i-1], verts[i], verts[i+1])
			if r < bestRadius {
				bestRadius = r
				bestIdx = i
			}
		}
		out = append(out, [3]mesh.PointIndex{verts[bestIdx-1], verts[bestIdx], verts[bestIdx+1]})
		verts = append(verts[:bestIdx], verts[bestIdx+1:]...)
	}
	if len(verts) == 3 {
		out = append(out, [3]mesh.PointIndex{verts[0], verts[1], verts[2]})
	}
	return out
}

func orientCCW(points *mesh.PointArena, a, b, c mesh.PointIndex) [3]mesh.PointIndex {
	if isCCW(points, a, b, c) {
		return [3]mesh.PointIndex{a, b, c}
	}
	return [3]mesh.PointIndex{a, c, b}
}

// spliceIn deletes the triangles in track, and inserts newTris in
// their place, relinking every new triangle to the track's outer ring
// of neighbours and to the other newly inserted triangles.
func spliceIn(points *mesh.PointArena, triangles *mesh.TriangleArena, track []mesh.TriangleIndex, newTris [][3]mesh.PointIndex) {
	trackSet := make(map[mesh.TriangleIndex]bool, len(track))
	for _, t := range track {
		trackSet[t] = true
	}

	outerRing := make(map[mesh.TriangleIndex]bool)
	for _, t := range track {
		tri := triangles.Get(t)
		if tri == nil {
			continue
		}
		for _, n := range tri.Neighbours {
			if n != mesh.NoTriangle && !trackSet[n] {
				outerRing[n] = true
			}
		}
	}

	for _, t := range track {
		tri := triangles.Get(t)
		if tri == nil {
			continue
		}
		for _, v := range tri.Vertices {
			points.Get(v).RemoveFromFan(t)
		}
		for _, n := range tri.Neighbours {
			if n != mesh.NoTriangle {
				if nt := triangles.Get(n); nt != nil {
					nt.TryRemoveNeighbour(t)
				}
			}
		}
		triangles.Remove(t)
	}

	var inserted []mesh.TriangleIndex
	for _, nt := range newTris {
		vertices := orientCCW(points, nt[0], nt[1], nt[2])
		idx := triangles.Add(mesh.Triangle{
			Vertices:   vertices,
			Neighbours: [3]mesh.TriangleIndex{mesh.NoTriangle, mesh.NoTriangle, mesh.NoTriangle},
		})
		for _, v := range vertices {
			points.Get(v).AddToFan(idx)
		}

		triNew := triangles.Get(idx)
		for c := range outerRing {
			tc := triangles.Get(c)
			if tc != nil && sharedVertexCount(triNew, tc) == 2 {
				triNew.TryAddNeighbour(c)
				tc.TryAddNeighbour(idx)
			}
		}
		for _, c := range inserted {
			tc := triangles.Get(c)
			if tc != nil && sharedVertexCount(triNew, tc) == 2 {
				triNew.TryAddNeighbour(c)
				tc.TryAddNeighbour(idx)
			}
		}
		inserted = append(inserted, idx)
	}
}

package delaunay

import (
	"github.com/MeKo-Christian/glyphtri/internal/geom"
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
)

// MaxFlipDepth bounds how many times the same pair of triangles may be
// flipped before the refinement pass skips that pair, guarding
// against the rare configurations where flips cycle instead of
// converging.
const MaxFlipDepth = 64

func toGeomPoint(p *mesh.Point) geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// inCircle returns a value whose sign tests whether d lies inside the
// circumcircle of the counterclockwise-oriented triangle (a, b, c): a
// result greater than zero means d is inside (the edge opposite d is
// not Delaunay-legal). Computed from the signed volume of the
// three-point lift (x, y, x²+y²), the classical in-circle predicate.
func inCircle(a, b, c, d geom.Point) float64 {
	ax, ay := a.X-d.X, a.Y-d.Y
	bx, by := b.X-d.X, b.Y-d.Y
	cx, cy := c.X-d.X, c.Y-d.Y

	aSq := ax*ax + ay*ay
	bSq := bx*bx + by*by
	cSq := cx*cx + cy*cy

	return aSq*(bx*cy-cx*by) - bSq*(ax*cy-cx*ay) + cSq*(ax*by-bx*ay)
}

// sharedAndOpposite reports the two vertices t1 and t2 have in common
// and each triangle's one remaining ("opposite") vertex. ok is false
// unless the triangles share exactly two vertices.
func sharedAndOpposite(t1, t2 *mesh.Triangle) (shared [2]mesh.PointIndex, opp1, opp2 mesh.PointIndex, ok bool) {
	var sharedList []mesh.PointIndex
	for _, v := range t1.Vertices {
		if t2.HasVertex(v) {
			sharedList = append(sharedList, v)
		} else {
			opp1 = v
		}
	}
	if len(sharedList) != 2 {
		return shared, 0, 0, false
	}
	for _, v := range t2.Vertices {
		if !t1.HasVertex(v) {
			opp2 = v
		}
	}
	shared[0], shared[1] = sharedList[0], sharedList[1]
	return shared, opp1, opp2, true
}

func isContourEdge(points *mesh.PointArena, a, b mesh.PointIndex) bool {
	pa, pb := points.Get(a), points.Get(b)
	return pa.PreviousInOutline == b || pb.PreviousInOutline == a
}

// flippable checks the five legality guards for flipping the edge
// shared by t1 and t2, returning the shared/opposite vertices when the
// flip should happen.
func flippable(points *mesh.PointArena, t1, t2 *mesh.Triangle) (shared [2]mesh.PointIndex, opp1, opp2 mesh.PointIndex, ok bool) {
	shared, opp1, opp2, ok = sharedAndOpposite(t1, t2)
	if !ok {
		return
	}

	po1 := points.Get(opp1)
	po2 := points.Get(opp2)
	if po1.IsBounding || po2.IsBounding {
		return shared, opp1, opp2, false
	}

	if isContourEdge(points, shared[0], shared[1]) {
		return shared, opp1, opp2, false
	}

	ps0 := points.Get(shared[0])
	ps1 := points.Get(shared[1])
	gOpp1, gOpp2 := toGeomPoint(po1), toGeomPoint(po2)
	side0 := geom.Skew(gOpp1, gOpp2, toGeomPoint(ps0))
	side1 := geom.Skew(gOpp1, gOpp2, toGeomPoint(ps1))
	if !((side0 > 0 && side1 < 0) || (side0 < 0 && side1 > 0)) {
		return shared, opp1, opp2, false
	}

	a := toGeomPoint(points.Get(t1.Vertices[0]))
	b := toGeomPoint(points.Get(t1.Vertices[1]))
	c := toGeomPoint(points.Get(t1.Vertices[2]))
	// inCircle assumes its first three points are wound in standard
	// (y-up) mathematical counterclockwise order; this module's
	// triangles are wound counterclockwise in image (y-down) space
	// instead (internal/delaunay.isCCW), which is the reverse winding,
	// so b and c are swapped here to restore the order inCircle expects.
	if inCircle(a, c, b, gOpp2) <= 0 {
		return shared, opp1, opp2, false
	}

	return shared, opp1, opp2, true
}

// flip replaces t1 and t2's vertex lists with the two triangles formed
// by the flipped edge, fixes up point fans and rebuilds the local
// neighbourhood's adjacency.
func flip(points *mesh.PointArena, triangles *mesh.TriangleArena, t1idx, t2idx mesh.TriangleIndex, shared [2]mesh.PointIndex, opp1, opp2 mesh.PointIndex) {
	t1 := triangles.Get(t1idx)
	t2 := triangles.Get(t2idx)

	oldT1Neighbours := t1.Neighbours
	oldT2Neighbours := t2.Neighbours

	points.Get(shared[1]).RemoveFromFan(t1idx)
	points.Get(opp2).AddToFan(t1idx)
	points.Get(shared[0]).RemoveFromFan(t2idx)
	points.Get(opp1).AddToFan(t2idx)

	setOriented(points, t1, shared[0], opp1, opp2)
	setOriented(points, t2, shared[1], opp1, opp2)

	relinkNeighbourhood(points, triangles, t1idx, t2idx, oldT1Neighbours, oldT2Neighbours)
}

func setOriented(points *mesh.PointArena, tri *mesh.Triangle, a, b, c mesh.PointIndex) {
	tri.Vertices = [3]mesh.PointIndex{a, b, c}
	if !isCCW(points, a, b, c) {
		tri.Vertices[1], tri.Vertices[2] = tri.Vertices[2], tri.Vertices[1]
	}
}

func relinkNeighbourhood(points *mesh.PointArena, triangles *mesh.TriangleArena, t1idx, t2idx mesh.TriangleIndex, oldT1, oldT2 [3]mesh.TriangleIndex) {
	candidateSet := map[mesh.TriangleIndex]bool{t1idx: true, t2idx: true}
	for _, n := range oldT1 {
		if n != mesh.NoTriangle && n != t2idx {
			candidateSet[n] = true
		}
	}
	for _, n := range oldT2 {
		if n != mesh.NoTriangle && n != t1idx {
			candidateSet[n] = true
		}
	}

	candidates := make([]mesh.TriangleIndex, 0, len(candidateSet))
	for idx := range candidateSet {
		candidates = append(candidates, idx)
	}

	for _, idx := range candidates {
		if idx == t1idx || idx == t2idx {
			continue
		}
		tri := triangles.Get(idx)
		if tri == nil {
			continue
		}
		tri.TryRemoveNeighbour(t1idx)
		tri.TryRemoveNeighbour(t2idx)
	}

	triangles.Get(t1idx).Neighbours = [3]mesh.TriangleIndex{mesh.NoTriangle, mesh.NoTriangle, mesh.NoTriangle}
	triangles.Get(t2idx).Neighbours = [3]mesh.TriangleIndex{mesh.NoTriangle, mesh.NoTriangle, mesh.NoTriangle}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			ta, tb := triangles.Get(a), triangles.Get(b)
			if ta == nil || tb == nil {
				continue
			}
			if sharedVertexCount(ta, tb) == 2 {
				ta.TryAddNeighbour(b)
				tb.TryAddNeighbour(a)
			}
		}
	}
}

func sharedVertexCount(a, b *mesh.Triangle) int {
	n := 0
	for _, v := range a.Vertices {
		if b.HasVertex(v) {
			n++
		}
	}
	return n
}

// Refine iterates the mesh's triangle adjacency, flipping every edge
// that violates the empty-circumcircle test subject to the legality
// guards, until a full pass performs zero flips.
func Refine(points *mesh.PointArena, triangles *mesh.TriangleArena) {
	depth := make(map[flipPairKey]int)

	queue := newFlipQueue()
	seen := map[flipPairKey]bool{}
	enqueueAll(triangles, queue, seen)

	for {
		cand, ok := queue.pop()
		if !ok {
			break
		}
		key := normalizedPair(cand.t1, cand.t2)
		seen[key] = false

		t1 := triangles.Get(cand.t1)
		t2 := triangles.Get(cand.t2)
		if t1 == nil || t2 == nil {
			continue
		}
		if !t1.HasNeighbour(cand.t2) || !t2.HasNeighbour(cand.t1) {
			continue
		}
		if depth[key] >= MaxFlipDepth {
			continue
		}

		shared, opp1, opp2, ok := flippable(points, t1, t2)
		if !ok {
			continue
		}

		flip(points, triangles, cand.t1, cand.t2, shared, opp1, opp2)
		depth[key]++

		requeueAround(triangles, cand.t1, queue, seen)
		requeueAround(triangles, cand.t2, queue, seen)
	}
}

type flipPairKey struct{ a, b mesh.TriangleIndex }

func normalizedPair(a, b mesh.TriangleIndex) flipPairKey {
	if a > b {
		a, b = b, a
	}
	return flipPairKey{a, b}
}

func enqueueAll(triangles *mesh.TriangleArena, queue *flipQueue, seen map[flipPairKey]bool) {
	triangles.ForEach(func(idx mesh.TriangleIndex, tri *mesh.Triangle) bool {
		for _, n := range tri.Neighbours {
			if n == mesh.NoTriangle {
				continue
			}
			key := normalizedPair(idx, n)
			if seen[key] {
				continue
			}
			seen[key] = true
			queue.push(flipCandidate{t1: key.a, t2: key.b})
		}
		return true
	})
}

func requeueAround(triangles *mesh.TriangleArena, idx mesh.TriangleIndex, queue *flipQueue, seen map[flipPairKey]bool) {
	tri := triangles.Get(idx)
	if tri == nil {
		return
	}
	for _, n := range tri.Neighbours {
		if n == mesh.NoTriangle {
			continue
		}
		key := normalizedPair(idx, n)
		if seen[key] {
			continue
		}
		seen[key] = true
		queue.push(flipCandidate{t1: key.a, t2: key.b})
	}
}

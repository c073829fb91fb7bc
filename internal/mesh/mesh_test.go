package mesh

import "testing"

func TestPointArenaAddGetRemove(t *testing.T) {
	a := NewPointArena()
	i0 := a.Add(Point{X: 1, Y: 2})
	i1 := a.Add(Point{X: 3, Y: 4})

	if got := a.Get(i0); got == nil || got.X != 1 || got.Y != 2 {
		t.Fatalf("Get(i0) = %v, want {1 2}", got)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}

	a.Remove(i0)
	if a.Get(i0) != nil {
		t.Fatalf("Get(i0) after Remove should be nil")
	}
	if a.Len() != 1 {
		t.Fatalf("Len() after Remove = %d, want 1", a.Len())
	}

	// Reuse: the next Add should recycle the freed slot's index.
	i2 := a.Add(Point{X: 5, Y: 6})
	if i2 != i0 {
		t.Fatalf("Add after Remove did not reuse freed slot: got %d, want %d", i2, i0)
	}
	if got := a.Get(i1); got == nil || got.X != 3 {
		t.Fatalf("i1 should remain stable and untouched by reuse, got %v", got)
	}
}

func TestPointArenaForEachSkipsRemoved(t *testing.T) {
	a := NewPointArena()
	i0 := a.Add(Point{X: 0, Y: 0})
	a.Add(Point{X: 1, Y: 1})
	a.Remove(i0)

	seen := 0
	a.ForEach(func(idx PointIndex, p *Point) bool {
		seen++
		if idx == i0 {
			t.Fatalf("ForEach visited a removed index %d", idx)
		}
		return true
	})
	if seen != 1 {
		t.Fatalf("ForEach visited %d live points, want 1", seen)
	}
}

func TestTriangleArenaAddGetRemove(t *testing.T) {
	a := NewTriangleArena()
	tri := Triangle{Vertices: [3]PointIndex{0, 1, 2}, Neighbours: [3]TriangleIndex{NoTriangle, NoTriangle, NoTriangle}}
	idx := a.Add(tri)

	if !a.IsLive(idx) {
		t.Fatalf("IsLive(idx) = false right after Add")
	}
	got := a.Get(idx)
	if got == nil || got.Vertices != tri.Vertices {
		t.Fatalf("Get(idx) = %v, want %v", got, tri)
	}

	a.Remove(idx)
	if a.IsLive(idx) {
		t.Fatalf("IsLive(idx) = true after Remove")
	}
	if a.Get(idx) != nil {
		t.Fatalf("Get(idx) after Remove should be nil")
	}
}

func TestTriangleArenaFreeListReuse(t *testing.T) {
	a := NewTriangleArena()
	i0 := a.Add(Triangle{})
	i1 := a.Add(Triangle{})
	a.Remove(i0)
	i2 := a.Add(Triangle{Vertices: [3]PointIndex{9, 9, 9}})
	if i2 != i0 {
		t.Fatalf("expected freed slot %d to be reused, got %d", i0, i2)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	_ = i1
}

// TestFanConsistency exercises the invariant that a point's TriangleFan
// only ever contains triangles that actually reference that point as one
// of their three vertices, and that every triangle incident to a point
// (by vertex membership) is present in that point's fan.
func TestFanConsistency(t *testing.T) {
	points := NewPointArena()
	p0 := points.Add(Point{X: 0, Y: 0})
	p1 := points.Add(Point{X: 1, Y: 0})
	p2 := points.Add(Point{X: 0, Y: 1})

	triangles := NewTriangleArena()
	t0 := triangles.Add(Triangle{Vertices: [3]PointIndex{p0, p1, p2}, Neighbours: [3]TriangleIndex{NoTriangle, NoTriangle, NoTriangle}})

	for _, pidx := range []PointIndex{p0, p1, p2} {
		pt := points.Get(pidx)
		pt.AddToFan(t0)
	}

	triangles.ForEach(func(tidx TriangleIndex, tri *Triangle) bool {
		for _, v := range tri.Vertices {
			pt := points.Get(v)
			found := false
			for _, f := range pt.TriangleFan {
				if f == tidx {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("triangle %d has vertex %d but is missing from that point's fan", tidx, v)
			}
		}
		return true
	})

	for _, pidx := range []PointIndex{p0, p1, p2} {
		pt := points.Get(pidx)
		for _, tidx := range pt.TriangleFan {
			tri := triangles.Get(tidx)
			if tri == nil || !tri.HasVertex(pidx) {
				t.Errorf("point %d fan references triangle %d, which does not list it as a vertex", pidx, tidx)
			}
		}
	}
}

// TestAdjacencySymmetry exercises the invariant that if triangle A lists
// triangle B as a neighbour, B must list A back.
func TestAdjacencySymmetry(t *testing.T) {
	triangles := NewTriangleArena()
	a := triangles.Add(Triangle{Neighbours: [3]TriangleIndex{NoTriangle, NoTriangle, NoTriangle}})
	b := triangles.Add(Triangle{Neighbours: [3]TriangleIndex{NoTriangle, NoTriangle, NoTriangle}})

	triA := triangles.Get(a)
	triB := triangles.Get(b)
	triA.TryAddNeighbour(b)
	triB.TryAddNeighbour(a)

	triangles.ForEach(func(tidx TriangleIndex, tri *Triangle) bool {
		for _, n := range tri.Neighbours {
			if n == NoTriangle {
				continue
			}
			other := triangles.Get(n)
			if other == nil || !other.HasNeighbour(tidx) {
				t.Errorf("triangle %d lists %d as neighbour, but %d does not list %d back", tidx, n, n, tidx)
			}
		}
		return true
	})
}

func TestTriangleNeighbourMutation(t *testing.T) {
	var tri Triangle
	tri.Neighbours = [3]TriangleIndex{NoTriangle, NoTriangle, NoTriangle}

	if !tri.TryAddNeighbour(5) {
		t.Fatalf("TryAddNeighbour(5) on empty triangle should succeed")
	}
	if tri.TryAddNeighbour(5) {
		t.Fatalf("TryAddNeighbour(5) duplicate should fail")
	}
	if !tri.HasNeighbour(5) {
		t.Fatalf("HasNeighbour(5) should be true")
	}
	if !tri.TryRemoveNeighbour(5) {
		t.Fatalf("TryRemoveNeighbour(5) should succeed")
	}
	if tri.HasNeighbour(5) {
		t.Fatalf("HasNeighbour(5) should be false after removal")
	}
	if tri.TryRemoveNeighbour(5) {
		t.Fatalf("TryRemoveNeighbour(5) on already-removed neighbour should fail")
	}
}

func TestPointFanMutation(t *testing.T) {
	var p Point
	p.AddToFan(1)
	p.AddToFan(2)
	p.AddToFan(1) // duplicate, no-op

	if len(p.TriangleFan) != 2 {
		t.Fatalf("TriangleFan = %v, want length 2", p.TriangleFan)
	}

	p.RemoveFromFan(1)
	if len(p.TriangleFan) != 1 || p.TriangleFan[0] != 2 {
		t.Fatalf("TriangleFan after RemoveFromFan(1) = %v, want [2]", p.TriangleFan)
	}
}

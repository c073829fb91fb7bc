// Package mesh provides stable-index arenas for the points and triangles
// that make up a glyph's triangulation, and the handles used to mutate
// them in place.
//
// Both arenas are index-addressed: once an element is added its index
// never changes for the lifetime of the arena, even across later
// removals elsewhere in the same arena (freed slots are tracked on a
// free list and only reused by a later Add). This is the same
// stable-index contract the teacher's internal/array.PodBVector offers
// for its block-vector storage, but PodBVector is an append-only bump
// allocator with no way to free a slot; constraint insertion (which
// deletes a whole chain of triangles and recreates two new fans in
// their place) needs genuine removal-with-reuse, so the arenas here are
// a fresh implementation of the same stable-index idea rather than a
// reuse of PodBVector itself.
package mesh

// PointIndex addresses a Point in a PointArena. NoPoint is the "none" sentinel.
type PointIndex int

// NoPoint is the sentinel PointIndex meaning "no point".
const NoPoint PointIndex = -1

// TriangleIndex addresses a Triangle in a TriangleArena. NoTriangle is the "none" sentinel.
type TriangleIndex int

// NoTriangle is the sentinel TriangleIndex meaning "no triangle".
const NoTriangle TriangleIndex = -1

// Visibility is the tri-state flood-fill label a Triangle carries.
type Visibility int8

const (
	VisibilityUnknown Visibility = iota
	VisibilityInvisible
	VisibilityVisible
)

// Point is a vertex of the outline or of the triangulation's outer frame.
type Point struct {
	X, Y float64

	// IsBounding is true only for the four far corners added by the
	// initial-triangulation builder after outline flattening.
	IsBounding bool

	// PreviousInOutline is a back-link to the previous point on this
	// point's contour cycle, or NoPoint if this point is not part of an
	// outline contour (e.g. a bounding corner).
	PreviousInOutline PointIndex

	// TriangleFan is the unordered set of triangles currently incident
	// to this point. It is maintained synchronously with every triangle
	// insert/remove that touches this point.
	TriangleFan []TriangleIndex
}

// AddToFan adds t to the point's triangle fan if it is not already present.
func (p *Point) AddToFan(t TriangleIndex) {
	for _, existing := range p.TriangleFan {
		if existing == t {
			return
		}
	}
	p.TriangleFan = append(p.TriangleFan, t)
}

// RemoveFromFan removes t from the point's triangle fan, if present.
func (p *Point) RemoveFromFan(t TriangleIndex) {
	for i, existing := range p.TriangleFan {
		if existing == t {
			p.TriangleFan = append(p.TriangleFan[:i], p.TriangleFan[i+1:]...)
			return
		}
	}
}

// Triangle is a single face of the triangulation.
type Triangle struct {
	Vertices   [3]PointIndex
	Neighbours [3]TriangleIndex
	Visibility Visibility
}

// HasNeighbour reports whether t is already listed as a neighbour.
func (tr *Triangle) HasNeighbour(t TriangleIndex) bool {
	for _, n := range tr.Neighbours {
		if n == t {
			return true
		}
	}
	return false
}

// TryAddNeighbour adds t to the first free neighbour slot, returning
// false if t is already present or there is no free slot.
func (tr *Triangle) TryAddNeighbour(t TriangleIndex) bool {
	if tr.HasNeighbour(t) {
		return false
	}
	for i, n := range tr.Neighbours {
		if n == NoTriangle {
			tr.Neighbours[i] = t
			return true
		}
	}
	return false
}

// TryRemoveNeighbour clears the slot holding t, returning false if t was
// not a neighbour.
func (tr *Triangle) TryRemoveNeighbour(t TriangleIndex) bool {
	for i, n := range tr.Neighbours {
		if n == t {
			tr.Neighbours[i] = NoTriangle
			return true
		}
	}
	return false
}

// HasVertex reports whether p is one of the triangle's three vertices.
func (tr *Triangle) HasVertex(p PointIndex) bool {
	return tr.Vertices[0] == p || tr.Vertices[1] == p || tr.Vertices[2] == p
}

package delaunay

import (
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
	"github.com/unixpickle/splaytree"
)

// flipCandidate names a pair of triangles that share an edge and may
// need to be flipped.
type flipCandidate struct {
	t1, t2 mesh.TriangleIndex
}

// sequenceKey orders pending flip candidates by arrival, giving the
// work queue deterministic FIFO processing instead of whatever order a
// slice or map would happen to fall into. Backed by
// github.com/unixpickle/splaytree the way the rest of the pack uses it
// for ordered, key-comparable collections.
type sequenceKey int64

func (k sequenceKey) Compare(other splaytree.Key) int {
	o := other.(sequenceKey)
	switch {
	case k < o:
		return -1
	case k > o:
		return 1
	default:
		return 0
	}
}

// flipQueue is a FIFO of pending flip candidates.
type flipQueue struct {
	tree *splaytree.Map
	next sequenceKey
}

func newFlipQueue() *flipQueue {
	return &flipQueue{tree: splaytree.NewMap()}
}

func (q *flipQueue) push(c flipCandidate) {
	q.tree.Insert(q.next, c)
	q.next++
}

func (q *flipQueue) empty() bool {
	return q.tree.Len() == 0
}

// pop removes and returns the oldest pending candidate.
func (q *flipQueue) pop() (flipCandidate, bool) {
	if q.tree.Len() == 0 {
		return flipCandidate{}, false
	}
	k := q.tree.Min()
	v, _ := q.tree.Find(k)
	q.tree.Delete(k)
	return v.(flipCandidate), true
}

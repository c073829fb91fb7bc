package voronoi

import "sort"

// kdNode is one node of a static 2D k-d tree built once per Compute
// call and queried D² times.
type kdNode struct {
	site        Site
	id          int
	axis        int // 0 = split on X, 1 = split on Y
	left, right *kdNode
}

func buildKDTree(ids []int, sites []Site, depth int) *kdNode {
	if len(ids) == 0 {
		return nil
	}
	axis := depth % 2
	sort.Slice(ids, func(i, j int) bool {
		if axis == 0 {
			return sites[ids[i]].X < sites[ids[j]].X
		}
		return sites[ids[i]].Y < sites[ids[j]].Y
	})
	mid := len(ids) / 2
	node := &kdNode{site: sites[ids[mid]], id: ids[mid], axis: axis}
	node.left = buildKDTree(append([]int(nil), ids[:mid]...), sites, depth+1)
	node.right = buildKDTree(append([]int(nil), ids[mid+1:]...), sites, depth+1)
	return node
}

func (n *kdNode) nearest(px, py float64, bestID *int, bestDist *float64) {
	if n == nil {
		return
	}
	dx := n.site.X - px
	dy := n.site.Y - py
	d := dx*dx + dy*dy
	if d < *bestDist || (d == *bestDist && n.id < *bestID) {
		*bestDist = d
		*bestID = n.id
	}

	var diff float64
	var nearNode, farNode *kdNode
	if n.axis == 0 {
		diff = px - n.site.X
	} else {
		diff = py - n.site.Y
	}
	if diff <= 0 {
		nearNode, farNode = n.left, n.right
	} else {
		nearNode, farNode = n.right, n.left
	}

	nearNode.nearest(px, py, bestID, bestDist)
	if diff*diff <= *bestDist {
		farNode.nearest(px, py, bestID, bestDist)
	}
}

// KDTreeOracle computes the nearest-site grid with a static k-d tree
// built once from the input sites, giving each pixel query roughly
// O(log N) cost instead of BruteForceOracle's O(N).
type KDTreeOracle struct{}

// Compute implements Oracle.
func (o KDTreeOracle) Compute(sites []Site, dim int) (*Result, error) {
	if len(sites) == 0 {
		return nil, ErrNoSites
	}
	return buildGrid(dim, o.nearestFunc(sites)), nil
}

func (KDTreeOracle) nearestFunc(sites []Site) func(x, y int) (Site, int) {
	ids := make([]int, len(sites))
	for i := range sites {
		ids[i] = i
	}
	root := buildKDTree(ids, sites, 0)

	return func(x, y int) (Site, int) {
		px, py := float64(x)+0.5, float64(y)+0.5
		if root == nil {
			return Site{}, 0
		}
		bestID := root.id
		bestDist := (root.site.X-px)*(root.site.X-px) + (root.site.Y-py)*(root.site.Y-py)
		root.nearest(px, py, &bestID, &bestDist)
		return sites[bestID], bestID
	}
}

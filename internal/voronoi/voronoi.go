// Package voronoi computes the discrete (rasterized) Voronoi diagram
// that the Delaunay builder extracts triangles from: a D×D grid of
// pixels, each holding the id of its nearest input site.
//
// The oracle contract is implementation-free by design (the source
// this module was distilled from drives the same computation on a GPU
// via jump flood); the CPU implementations here — brute force and a
// k-d tree — satisfy the same grid contract described in
// original_source/src/delaunay/factory.rs's site-grid construction.
package voronoi

import (
	"math"

	"github.com/pkg/errors"
)

// ErrNoSites is returned when an Oracle is asked to compute a grid for
// zero sites, a contract violation rather than a degenerate-but-valid
// input (a single site would still produce a meaningful, if trivial,
// grid).
var ErrNoSites = errors.New("voronoi: cannot compute a grid with no sites")

// Site is an input point in pixel coordinates. Its id is its index in
// the slice passed to Compute.
type Site struct {
	X, Y float64
}

// Pixel is one cell of the nearest-site grid.
type Pixel struct {
	SiteX, SiteY float64
	SiteID       int
}

// Edge names one of the four sides of the D×D image, used to index a
// Result's border walks.
type Edge int

const (
	Bottom Edge = iota
	Right
	Top
	Left
)

// Result is the output of an Oracle: the full nearest-site grid plus,
// for each image edge, the border pixels walked in a fixed clockwise
// order (bottom left-to-right, right bottom-to-top, top right-to-left,
// left top-to-bottom) so the hull patcher can chain them into a single
// perimeter walk.
type Result struct {
	Dim     int
	Pixels  []Pixel // row-major, length Dim*Dim
	Borders [4][]Pixel
}

// At returns the pixel at (x, y).
func (r *Result) At(x, y int) Pixel {
	return r.Pixels[y*r.Dim+x]
}

// Oracle computes the nearest-site grid for a set of sites inside a
// D×D image, where D is a power of two.
type Oracle interface {
	Compute(sites []Site, dim int) (*Result, error)
}

// NewOracle picks a CPU implementation appropriate for the number of
// sites and the grid dimension: brute force for small glyphs, a k-d
// tree once the per-pixel linear scan would dominate, and a
// goroutine-sharded wrapper around whichever of the two was picked
// once the grid itself is large enough that sharding pays for the
// coordination overhead.
func NewOracle(dim, numSites int) Oracle {
	const bruteForceSiteThreshold = 64
	const workerPoolDimThreshold = 512

	var base Oracle
	if numSites <= bruteForceSiteThreshold {
		base = BruteForceOracle{}
	} else {
		base = KDTreeOracle{}
	}

	if dim >= workerPoolDimThreshold {
		return WorkerPoolOracle{Base: base}
	}
	return base
}

func buildGrid(dim int, nearest func(x, y int) (Site, int)) *Result {
	res := &Result{Dim: dim, Pixels: make([]Pixel, dim*dim)}
	fillRows(res, nearest, 0, dim)
	res.Borders = computeBorders(res)
	return res
}

// fillRows populates pixel rows [y0, y1) of res using nearest. It is
// the unit of work WorkerPoolOracle shards across goroutines.
func fillRows(res *Result, nearest func(x, y int) (Site, int), y0, y1 int) {
	dim := res.Dim
	for y := y0; y < y1; y++ {
		for x := 0; x < dim; x++ {
			site, id := nearest(x, y)
			res.Pixels[y*dim+x] = Pixel{SiteX: site.X, SiteY: site.Y, SiteID: id}
		}
	}
}

// finder is implemented by oracles that can hand WorkerPoolOracle a
// reusable per-pixel nearest-site function built once from the site
// set, so sharding rows across goroutines does not repeat the O(N) or
// O(log N) setup cost per band.
type finder interface {
	nearestFunc(sites []Site) func(x, y int) (Site, int)
}

func computeBorders(r *Result) [4][]Pixel {
	d := r.Dim
	var borders [4][]Pixel

	bottom := make([]Pixel, d)
	for x := 0; x < d; x++ {
		bottom[x] = r.At(x, d-1)
	}
	right := make([]Pixel, d)
	for y := d - 1; y >= 0; y-- {
		right[d-1-y] = r.At(d-1, y)
	}
	top := make([]Pixel, d)
	for x := d - 1; x >= 0; x-- {
		top[d-1-x] = r.At(x, 0)
	}
	left := make([]Pixel, d)
	for y := 0; y < d; y++ {
		left[y] = r.At(0, y)
	}

	borders[Bottom] = bottom
	borders[Right] = right
	borders[Top] = top
	borders[Left] = left
	return borders
}

// nearestBruteForce scans every site and returns the closest one,
// breaking ties by lowest id.
func nearestBruteForce(sites []Site, px, py float64) (Site, int) {
	best := 0
	bestDist := math.MaxFloat64
	for id, s := range sites {
		dx := s.X - px
		dy := s.Y - py
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	return sites[best], best
}

// BruteForceOracle computes the nearest-site grid by scanning every
// site for every pixel: O(N·D²), the simplest implementation of the
// oracle contract and the default for small glyphs.
type BruteForceOracle struct{}

// Compute implements Oracle.
func (o BruteForceOracle) Compute(sites []Site, dim int) (*Result, error) {
	if len(sites) == 0 {
		return nil, ErrNoSites
	}
	return buildGrid(dim, o.nearestFunc(sites)), nil
}

func (BruteForceOracle) nearestFunc(sites []Site) func(x, y int) (Site, int) {
	return func(x, y int) (Site, int) {
		return nearestBruteForce(sites, float64(x)+0.5, float64(y)+0.5)
	}
}

package voronoi

import (
	"fmt"

	"github.com/unixpickle/essentials"
)

// WorkerPoolOracle shards a D×D grid into row bands and computes each
// band concurrently, the way unixpickle's tooling spreads per-item
// work across goroutines with essentials.ConcurrentMap. Control only
// returns to the caller once every band has finished, matching the
// oracle contract's requirement that the full grid be populated
// before Compute returns.
type WorkerPoolOracle struct {
	Base Oracle

	// BandHeight is the number of pixel rows in each band; zero uses a
	// default of 32.
	BandHeight int
}

// Compute implements Oracle.
func (w WorkerPoolOracle) Compute(sites []Site, dim int) (*Result, error) {
	if len(sites) == 0 {
		return nil, ErrNoSites
	}
	f, ok := w.Base.(finder)
	if !ok {
		return nil, fmt.Errorf("voronoi: WorkerPoolOracle base %T does not support sharded computation", w.Base)
	}

	bandHeight := w.BandHeight
	if bandHeight <= 0 {
		bandHeight = 32
	}
	numBands := (dim + bandHeight - 1) / bandHeight

	res := &Result{Dim: dim, Pixels: make([]Pixel, dim*dim)}
	nearest := f.nearestFunc(sites)

	essentials.ConcurrentMap(0, numBands, func(i int) {
		y0 := i * bandHeight
		y1 := y0 + bandHeight
		if y1 > dim {
			y1 = dim
		}
		fillRows(res, nearest, y0, y1)
	})

	res.Borders = computeBorders(res)
	return res, nil
}

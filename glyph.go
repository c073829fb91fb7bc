// Package glyphtri converts a TrueType/OpenType glyph outline into a
// constrained Delaunay triangulation suitable for GPU rasterization of
// text: flatten the glyph's Bezier contours, build an unconstrained
// Delaunay triangulation from a discrete Voronoi diagram, carve in the
// missing contour edges, then flood-fill interior vs exterior
// triangles.
package glyphtri

import (
	"fmt"

	"github.com/MeKo-Christian/glyphtri/internal/basics"
	"github.com/MeKo-Christian/glyphtri/internal/delaunay"
	"github.com/MeKo-Christian/glyphtri/internal/fontio"
	"github.com/MeKo-Christian/glyphtri/internal/geom"
	"github.com/MeKo-Christian/glyphtri/internal/mesh"
	"github.com/MeKo-Christian/glyphtri/internal/outline"
	"github.com/MeKo-Christian/glyphtri/internal/visibility"
	"github.com/MeKo-Christian/glyphtri/internal/voronoi"
)

// Scaling constants from the grid-dimension formula: the closest pair
// of flattened outline points must be at least MinSeparation pixels
// apart so the discrete Voronoi step resolves every site to its own
// cell.
const (
	MinDimension  = 64
	MaxDimension  = 2048
	MinSeparation = 2.0
)

// GlyphID identifies a glyph within a Font.
type GlyphID = fontio.GlyphID

// Font owns a parsed font file and a cache of its triangulated glyphs.
// It holds no Voronoi oracle: TriangulateGlyph picks a fresh one per
// glyph with voronoi.NewOracle.
type Font struct {
	ttf   *fontio.Font
	cache *GlyphCache
}

// NewFont parses raw font file bytes.
func NewFont(data []byte) (*Font, error) {
	ttf, err := fontio.Load(data)
	if err != nil {
		return nil, err
	}
	return &Font{ttf: ttf, cache: NewGlyphCache()}, nil
}

// NewFontFromFile reads and parses a font file from disk.
func NewFontFromFile(path string) (*Font, error) {
	ttf, err := fontio.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Font{ttf: ttf, cache: NewGlyphCache()}, nil
}

// Glyph maps r to its glyph id. An unmapped rune resolves to the
// font's "missing glyph" (index 0), which is not an error.
func (f *Font) Glyph(r rune) GlyphID {
	return f.ttf.GlyphIndex(r)
}

// UnitsPerEm returns the font's design units per em square.
func (f *Font) UnitsPerEm() int32 { return f.ttf.UnitsPerEm() }

// Ascender returns the font's ascender in font units.
func (f *Font) Ascender() int32 { return f.ttf.Ascender() }

// Descender returns the font's descender in font units.
func (f *Font) Descender() int32 { return f.ttf.Descender() }

// LineGap always returns 0: the underlying parser does not expose the
// font's line gap.
func (f *Font) LineGap() int32 { return f.ttf.LineGap() }

// Kerning returns the horizontal kerning adjustment, in font units, to
// apply between two consecutive glyphs.
func (f *Font) Kerning(left, right GlyphID) int32 {
	return f.ttf.Kerning(left, right)
}

// OutlinedGlyph is a glyph's flattened outline, scaled into pixel
// space at dimension Dim.
type OutlinedGlyph struct {
	Dim    int
	Points *mesh.PointArena
}

// OutlineGlyph flattens g's contours and scales them into pixel space.
// A glyph with zero outline points (e.g. space) yields an empty,
// zero-dimension OutlinedGlyph — not an error.
func (f *Font) OutlineGlyph(g GlyphID) (*OutlinedGlyph, error) {
	points := mesh.NewPointArena()
	b := outline.NewBuilder(points)

	if err := f.ttf.Outline(g, b); err != nil {
		return nil, fmt.Errorf("glyphtri: outlining glyph %d: %w", g, err)
	}

	if points.Len() == 0 {
		return &OutlinedGlyph{Dim: 0, Points: points}, nil
	}

	dim := chooseDimension(b.ShortestDistance)
	scaleToPixels(points, dim)

	return &OutlinedGlyph{Dim: dim, Points: points}, nil
}

func chooseDimension(shortestDistance float64) int {
	if shortestDistance <= 0 {
		return MaxDimension
	}
	raw := int(MaxDimension*MinSeparation/shortestDistance + 0.999999)
	return geom.ClampInt(geom.NextPow2(raw), MinDimension, MaxDimension)
}

// scaleToPixels linearly maps every point's bounding box into
// [0, dim]x[0, dim], flipping Y (font coordinates grow up, image
// coordinates grow down).
func scaleToPixels(points *mesh.PointArena, dim int) {
	box := basics.RectD{X1: MaxFloat, Y1: MaxFloat, X2: -MaxFloat, Y2: -MaxFloat}
	points.ForEach(func(_ mesh.PointIndex, p *mesh.Point) bool {
		box.X1 = fmin(box.X1, p.X)
		box.Y1 = fmin(box.Y1, p.Y)
		box.X2 = fmax(box.X2, p.X)
		box.Y2 = fmax(box.Y2, p.Y)
		return true
	})
	box.Normalize()

	width := box.Width()
	height := box.Height()
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	d := float64(dim)

	points.ForEach(func(_ mesh.PointIndex, p *mesh.Point) bool {
		p.X = (p.X - box.X1) / width * d
		p.Y = d - (p.Y-box.Y1)/height*d
		return true
	})
}

// TriangulatedGlyph is the final, visible interior mesh of a glyph.
type TriangulatedGlyph struct {
	Dim       int
	Points    *mesh.PointArena
	Triangles *mesh.TriangleArena
	Visible   []mesh.TriangleIndex
}

// TriangulateGlyph runs the full Voronoi/Delaunay/constraint/visibility
// pipeline over an already-outlined glyph.
func TriangulateGlyph(og *OutlinedGlyph) (*TriangulatedGlyph, error) {
	if og.Points.Len() == 0 {
		return &TriangulatedGlyph{Dim: 0, Points: og.Points, Triangles: mesh.NewTriangleArena()}, nil
	}

	sites := collectSites(og.Points)
	oracle := voronoi.NewOracle(og.Dim, len(sites))
	result, err := oracle.Compute(sites, og.Dim)
	if err != nil {
		return nil, fmt.Errorf("glyphtri: computing voronoi grid: %w", err)
	}

	triangles, _, err := delaunay.BuildInitial(og.Points, result)
	if err != nil {
		return nil, fmt.Errorf("glyphtri: building initial triangulation: %w", err)
	}

	delaunay.Refine(og.Points, triangles)

	if err := delaunay.InsertConstraints(og.Points, triangles); err != nil {
		return nil, fmt.Errorf("glyphtri: inserting contour constraints: %w", err)
	}

	if err := visibility.Label(og.Points, triangles); err != nil {
		return nil, fmt.Errorf("glyphtri: labelling visibility: %w", err)
	}

	visible := visibility.VisibleTriangles(triangles)

	return &TriangulatedGlyph{
		Dim:       og.Dim,
		Points:    og.Points,
		Triangles: triangles,
		Visible:   visible,
	}, nil
}

func collectSites(points *mesh.PointArena) []voronoi.Site {
	sites := make([]voronoi.Site, points.Len())
	points.ForEach(func(idx mesh.PointIndex, p *mesh.Point) bool {
		sites[idx] = voronoi.Site{X: p.X, Y: p.Y}
		return true
	})
	return sites
}

// Triangulate triangulates glyph g, driving the outline, Voronoi,
// Delaunay and visibility stages and caching the result.
func (f *Font) Triangulate(g GlyphID) (*TriangulatedGlyph, error) {
	if cached, ok := f.cache.Get(g); ok {
		return cached, nil
	}

	og, err := f.OutlineGlyph(g)
	if err != nil {
		return nil, err
	}
	tg, err := TriangulateGlyph(og)
	if err != nil {
		return nil, err
	}

	f.cache.Put(g, tg)
	return tg, nil
}

const MaxFloat = 1.7976931348623157e+308

func fmin(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Package fontio wraps github.com/golang/freetype/truetype to satisfy
// the glyph outlining and metrics contract the rest of this module
// depends on: glyph lookup, a move/line/quad/close outline callback
// stream, simple glyph-pair kerning, and the font-wide metrics used to
// lay text out. All errors crossing this boundary are wrapped with
// github.com/pkg/errors, matching the rest of the retrieved pack's
// convention for annotating failures at an external-input boundary.
package fontio

import (
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Christian/glyphtri/internal/outline"
)

// unitScale is the fixed-point scale GlyphBuf.Load is asked to render
// at: one font unit per fixed.Int26_6 unit, so every coordinate this
// package hands back to the caller is already in font units.
const unitScale = fixed.Int26_6(1 << 6)

// GlyphID identifies a glyph within a Font, distinct from the rune
// that maps to it.
type GlyphID uint16

// Font wraps a parsed TrueType/OpenType font.
type Font struct {
	ttf *truetype.Font
	buf truetype.GlyphBuf
}

// Load parses a font file's raw bytes.
func Load(data []byte) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "fontio: parsing font data")
	}
	return &Font{ttf: ttf}, nil
}

// LoadFile reads and parses a font file from disk.
func LoadFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fontio: reading font file %q", path)
	}
	return Load(data)
}

// GlyphIndex maps r to its glyph id. An unmapped rune resolves to
// glyph 0, the font's own "missing glyph" convention, which is not an
// error.
func (f *Font) GlyphIndex(r rune) GlyphID {
	return GlyphID(f.ttf.Index(r))
}

// UnitsPerEm returns the font's design units per em square.
func (f *Font) UnitsPerEm() int32 {
	return int32(f.ttf.FUnitsPerEm())
}

// Ascender approximates the font's ascender in font units from its
// overall glyph bounding box; the truetype package does not surface
// the hhea table's Ascent field directly.
func (f *Font) Ascender() int32 {
	return int32(f.ttf.Bounds(unitScale).Max.Y)
}

// Descender approximates the font's descender in font units, mirroring Ascender.
func (f *Font) Descender() int32 {
	return int32(f.ttf.Bounds(unitScale).Min.Y)
}

// LineGap is not exposed by the underlying parser; callers that need
// exact line spacing should add their own leading on top of Ascender
// minus Descender.
func (f *Font) LineGap() int32 {
	return 0
}

// Kerning returns the horizontal kerning adjustment, in font units,
// to apply between two consecutive glyphs.
func (f *Font) Kerning(left, right GlyphID) int32 {
	return int32(f.ttf.Kern(unitScale, truetype.Index(left), truetype.Index(right)))
}

// AdvanceWidth returns a glyph's horizontal advance width in font units.
func (f *Font) AdvanceWidth(g GlyphID) (int32, error) {
	hm := f.ttf.HMetric(unitScale, truetype.Index(g))
	return int32(hm.AdvanceWidth), nil
}

// Outline drives an outline.Builder through a glyph's contours.
func (f *Font) Outline(g GlyphID, b *outline.Builder) error {
	if err := f.buf.Load(f.ttf, unitScale, truetype.Index(g), font.HintingNone); err != nil {
		return errors.Wrapf(err, "fontio: loading outline for glyph %d", g)
	}
	return decodeContours(&f.buf, b)
}

func decodeContours(g *truetype.GlyphBuf, b *outline.Builder) error {
	start := 0
	for _, end := range g.Ends {
		if end <= start {
			start = end
			continue
		}
		decodeContour(g.Points[start:end], b)
		start = end
	}
	return nil
}

const onCurveFlag = 0x01

func toCoords(p truetype.Point) (float64, float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

func midTrue(a, b truetype.Point) truetype.Point {
	return truetype.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// decodeContour turns one contour's on/off-curve point list (TrueType's
// implied-on-curve quadratic spline encoding) into move/line/quad/close
// outline callbacks.
func decodeContour(points []truetype.Point, b *outline.Builder) {
	n := len(points)
	if n == 0 {
		return
	}

	first := 0
	for first < n && points[first].Flags&onCurveFlag == 0 {
		first++
	}

	var start truetype.Point
	allOffCurve := first == n
	remaining := n - 1
	if allOffCurve {
		first = 0
		start = midTrue(points[n-1], points[0])
		remaining = n
	} else {
		start = points[first]
	}

	sx, sy := toCoords(start)
	b.MoveTo(sx, sy)

	haveCtrl := false
	var ctrl truetype.Point

	for step := 0; step < remaining; step++ {
		var idx int
		if allOffCurve {
			idx = step
		} else {
			idx = (first + 1 + step) % n
		}
		p := points[idx]
		if p.Flags&onCurveFlag != 0 {
			if haveCtrl {
				cx, cy := toCoords(ctrl)
				px, py := toCoords(p)
				b.QuadTo(cx, cy, px, py)
				haveCtrl = false
			} else {
				px, py := toCoords(p)
				b.LineTo(px, py)
			}
		} else {
			if haveCtrl {
				mid := midTrue(ctrl, p)
				cx, cy := toCoords(ctrl)
				mx, my := toCoords(mid)
				b.QuadTo(cx, cy, mx, my)
			}
			ctrl = p
			haveCtrl = true
		}
	}

	// Always close explicitly back onto start: Builder.ClosePath always
	// pops b.last as a synthetic duplicate of the contour's start point,
	// so one must always be appended here, whether the contour's last
	// segment is a trailing quadratic or a plain closing line.
	sx, sy := toCoords(start)
	if haveCtrl {
		cx, cy := toCoords(ctrl)
		b.QuadTo(cx, cy, sx, sy)
	} else {
		b.LineTo(sx, sy)
	}

	b.ClosePath()
}

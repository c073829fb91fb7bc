// Command glyphpreview opens a window and steps through a font's
// glyphs, drawing each one's triangulated mesh as a wireframe. Press
// any key to advance to the next glyph, Escape or the window's close
// button to quit.
//
// Usage: glyphpreview <font-file> <text>
package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/MeKo-Christian/glyphtri"
)

const (
	windowWidth  = 768
	windowHeight = 768
	background   = 0x202020ff
	wireColor    = 0x30d070ff
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "glyphpreview:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: glyphpreview <font-file> <text>")
	}
	fontPath, text := os.Args[1], os.Args[2]

	font, err := glyphtri.NewFontFromFile(fontPath)
	if err != nil {
		return fmt.Errorf("loading font: %w", err)
	}

	glyphs := make([]glyphtri.GlyphID, 0, len(text))
	for _, r := range text {
		glyphs = append(glyphs, font.Glyph(r))
	}
	if len(glyphs) == 0 {
		return fmt.Errorf("no glyphs to preview")
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing sdl2: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"glyphpreview",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight,
		sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
	}
	defer renderer.Destroy()

	index := 0
	running := true
	needsDraw := true

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				if e.Keysym.Sym == sdl.K_ESCAPE {
					running = false
					continue
				}
				index = (index + 1) % len(glyphs)
				needsDraw = true
			}
		}

		if needsDraw {
			tg, err := font.Triangulate(glyphs[index])
			if err != nil {
				return fmt.Errorf("triangulating glyph %d: %w", glyphs[index], err)
			}
			if err := drawWireframe(renderer, tg); err != nil {
				return fmt.Errorf("drawing glyph %d: %w", glyphs[index], err)
			}
			needsDraw = false
		}

		sdl.Delay(16)
	}

	return nil
}

func drawWireframe(renderer *sdl.Renderer, tg *glyphtri.TriangulatedGlyph) error {
	setColor(renderer, background)
	if err := renderer.Clear(); err != nil {
		return err
	}

	setColor(renderer, wireColor)

	scale := float32(1)
	if tg.Dim > 0 {
		scale = float32(windowWidth) / float32(tg.Dim)
	}

	for _, idx := range tg.Visible {
		tri := tg.Triangles.Get(idx)
		if tri == nil {
			continue
		}
		var pts [3][2]float32
		for i, v := range tri.Vertices {
			p := tg.Points.Get(v)
			if p == nil {
				continue
			}
			pts[i] = [2]float32{float32(p.X) * scale, float32(p.Y) * scale}
		}
		for i := 0; i < 3; i++ {
			a, b := pts[i], pts[(i+1)%3]
			renderer.DrawLineF(a[0], a[1], b[0], b[1])
		}
	}

	renderer.Present()
	return nil
}

func setColor(renderer *sdl.Renderer, rgba uint32) {
	r := uint8(rgba >> 24)
	g := uint8(rgba >> 16)
	b := uint8(rgba >> 8)
	a := uint8(rgba)
	renderer.SetDrawColor(r, g, b, a)
}

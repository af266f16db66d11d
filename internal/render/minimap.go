// Package render produces debug imagery on the server side. The browser
// does all real rendering; this package only draws the top-down minimap
// served at /api/minimap.png.
package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"waterball/internal/world"
)

// MinimapSize is the output image side length in pixels.
const MinimapSize = 512

// Minimap renders a top-down view of the terrain: elevation as a blue to
// green to brown ramp, decorations as dots. The terrain is static per run,
// so callers render once and cache the bytes.
func Minimap(t *world.Terrain) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("minimap requires a terrain")
	}

	grid := t.GridSize()
	heights := t.Heights()

	minH, maxH := heights[0], heights[0]
	for _, h := range heights {
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
	}
	span := float64(maxH - minH)
	if span <= 0 {
		span = 1
	}

	dc := gg.NewContext(MinimapSize, MinimapSize)
	cell := float64(MinimapSize) / float64(grid)

	for j := 0; j < grid; j++ {
		for i := 0; i < grid; i++ {
			n := (float64(heights[j*grid+i]) - float64(minH)) / span
			r, g, b := elevationColor(n)
			dc.SetRGB(r, g, b)
			dc.DrawRectangle(float64(i)*cell, float64(j)*cell, cell+1, cell+1)
			dc.Fill()
		}
	}

	// Decorations on top
	half := t.Size() / 2
	scale := float64(MinimapSize) / t.Size()
	for _, d := range t.Decorations() {
		px := (d.X + half) * scale
		py := (d.Z + half) * scale
		if d.Kind == "tree" {
			dc.SetRGB(0.05, 0.35, 0.1)
		} else {
			dc.SetRGB(0.45, 0.45, 0.45)
		}
		dc.DrawCircle(px, py, 2.5)
		dc.Fill()
	}

	// Spawn marker at the center
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(float64(MinimapSize)/2, float64(MinimapSize)/2, 4)
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode minimap: %w", err)
	}
	return buf.Bytes(), nil
}

// elevationColor maps normalized height to a water/grass/rock ramp.
func elevationColor(n float64) (r, g, b float64) {
	switch {
	case n < 0.25: // low ground, water-ish
		return 0.15, 0.3 + n, 0.6
	case n < 0.7: // grass
		t := (n - 0.25) / 0.45
		return 0.2 + 0.2*t, 0.55 - 0.1*t, 0.2
	default: // rock and peaks
		t := (n - 0.7) / 0.3
		return 0.45 + 0.4*t, 0.4 + 0.4*t, 0.35 + 0.4*t
	}
}

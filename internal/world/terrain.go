// Package world owns the static environment: the procedurally generated
// heightmap terrain the simulation runs on, and the decorations scattered
// across it. The terrain is generated once at startup, shared read-only by
// the physics world, the projectile system and the minimap renderer, and
// serialized to browser clients in the connect handshake.
package world

import (
	"fmt"
	"math"
	"math/rand"

	"waterball/internal/config"
)

// Terrain is an immutable square heightfield centered on the origin.
type Terrain struct {
	size      float64 // physical side length
	gridSize  int     // samples per side
	minHeight float64
	maxHeight float64
	heights   []float32 // row-major, gridSize*gridSize

	decorations []Decoration
}

// Decoration is a static visual prop placed on the terrain surface.
// Props are cosmetic only: they have no collision and never move.
type Decoration struct {
	Kind string  `json:"kind"` // "tree" or "rock"
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Size float64 `json:"size"`
}

// Generate builds a terrain from the given configuration.
// Generation is deterministic for a fixed seed.
func Generate(cfg config.WorldConfig) (*Terrain, error) {
	if cfg.GridSize < 2 {
		return nil, fmt.Errorf("terrain grid size must be >= 2, got %d", cfg.GridSize)
	}
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("terrain size must be positive, got %f", cfg.Size)
	}
	if cfg.MinHeight >= cfg.MaxHeight {
		return nil, fmt.Errorf("terrain height range is empty: [%f, %f]", cfg.MinHeight, cfg.MaxHeight)
	}

	t := &Terrain{
		size:      cfg.Size,
		gridSize:  cfg.GridSize,
		minHeight: cfg.MinHeight,
		maxHeight: cfg.MaxHeight,
		heights:   generateHeights(cfg),
	}

	t.decorations = placeDecorations(t, cfg.Seed, cfg.Decorations)

	return t, nil
}

// Size returns the physical side length of the terrain.
func (t *Terrain) Size() float64 { return t.size }

// GridSize returns the heightmap resolution per side.
func (t *Terrain) GridSize() int { return t.gridSize }

// Heights returns the raw heightmap, row-major, for client serialization.
// Callers must not mutate the returned slice.
func (t *Terrain) Heights() []float32 { return t.heights }

// Decorations returns the static props placed at generation time.
func (t *Terrain) Decorations() []Decoration { return t.decorations }

// HeightAt samples the terrain elevation at a world-space (x, z) position
// using bilinear interpolation. Positions beyond the terrain edge clamp to
// the border sample so walking off the map never probes into a void.
func (t *Terrain) HeightAt(x, z float64) float64 {
	half := t.size / 2
	cell := t.size / float64(t.gridSize-1)

	// World -> grid space
	gx := (x + half) / cell
	gz := (z + half) / cell

	maxIdx := float64(t.gridSize - 1)
	gx = math.Max(0, math.Min(maxIdx, gx))
	gz = math.Max(0, math.Min(maxIdx, gz))

	x0 := int(math.Floor(gx))
	z0 := int(math.Floor(gz))
	x1 := x0 + 1
	z1 := z0 + 1
	if x1 > t.gridSize-1 {
		x1 = t.gridSize - 1
	}
	if z1 > t.gridSize-1 {
		z1 = t.gridSize - 1
	}

	fx := gx - float64(x0)
	fz := gz - float64(z0)

	h00 := float64(t.heights[z0*t.gridSize+x0])
	h10 := float64(t.heights[z0*t.gridSize+x1])
	h01 := float64(t.heights[z1*t.gridSize+x0])
	h11 := float64(t.heights[z1*t.gridSize+x1])

	return lerp(lerp(h00, h10, fx), lerp(h01, h11, fx), fz)
}

// generateHeights produces layered value noise with a few mountain bumps and
// an edge falloff so the playable area sits in a natural bowl.
func generateHeights(cfg config.WorldConfig) []float32 {
	w := cfg.GridSize
	data := make([]float32, w*w)

	scales := []float64{1.0, 0.5, 0.25, 0.125}
	amplitudes := []float64{0.5, 0.25, 0.125, 0.0625}
	heightRange := cfg.MaxHeight - cfg.MinHeight

	center := float64(w) / 2
	maxRadius := center * 0.85

	// A handful of fixed-position hills for visual interest. Heights and
	// radii derive from the seed so different seeds give different maps.
	type hill struct{ x, z, height, radius float64 }
	positions := []struct{ x, z float64 }{
		{0.2, 0.3}, {0.7, 0.75}, {0.45, 0.65}, {0.8, 0.25},
	}
	hills := make([]hill, len(positions))
	for i, p := range positions {
		hills[i] = hill{
			x:      p.x * float64(w),
			z:      p.z * float64(w),
			height: 0.4 + 0.5*noise2D(float64(cfg.Seed)+float64(i)*0.17, 0.5),
			radius: float64(w) * (0.06 + 0.1*noise2D(0.5, float64(cfg.Seed)+float64(i)*0.31)),
		}
	}

	for j := 0; j < w; j++ {
		for i := 0; i < w; i++ {
			nx := float64(i) / float64(w-1)
			nz := float64(j) / float64(w-1)

			elevation := 0.0
			for layer := range scales {
				elevation += smoothNoise(
					nx*scales[layer]*8+float64(cfg.Seed%997),
					nz*scales[layer]*8+float64(cfg.Seed%991),
				) * amplitudes[layer]
			}

			for _, h := range hills {
				dx := float64(i) - h.x
				dz := float64(j) - h.z
				dist := math.Sqrt(dx*dx + dz*dz)
				if dist < h.radius {
					falloff := 1 - dist/h.radius
					elevation += h.height * falloff * falloff * 0.8
				}
			}

			// Depress the rim so the map reads as enclosed.
			fromCenter := math.Sqrt(math.Pow(float64(i)-center, 2) + math.Pow(float64(j)-center, 2))
			if fromCenter > maxRadius {
				edge := math.Min(1, (fromCenter-maxRadius)/(center-maxRadius))
				elevation -= edge * 0.5
			}

			data[j*w+i] = float32(elevation*heightRange + cfg.MinHeight)
		}
	}

	return data
}

// placeDecorations scatters trees and rocks on the surface, skipping the
// spawn clearing at the center so props never block the starting area.
func placeDecorations(t *Terrain, seed int64, count int) []Decoration {
	rng := rand.New(rand.NewSource(seed))
	half := t.size / 2
	clearing := t.size * 0.08

	decos := make([]Decoration, 0, count)
	for i := 0; i < count; i++ {
		x := (rng.Float64()*2 - 1) * half * 0.9
		z := (rng.Float64()*2 - 1) * half * 0.9
		if math.Hypot(x, z) < clearing {
			continue
		}

		kind := "tree"
		size := 2.0 + rng.Float64()*2.5
		if rng.Float64() < 0.3 {
			kind = "rock"
			size = 0.6 + rng.Float64()*1.2
		}

		decos = append(decos, Decoration{
			Kind: kind,
			X:    x,
			Y:    t.HeightAt(x, z),
			Z:    z,
			Size: size,
		})
	}

	return decos
}

// noise2D is a cheap deterministic hash-based value noise source.
func noise2D(x, y float64) float64 {
	h := x*12.9898 + y*78.233
	s := math.Abs(math.Sin(h) * 43758.5453)
	return s - math.Floor(s)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// smoothNoise bilinearly interpolates noise2D between integer lattice points.
func smoothNoise(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)

	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)

	n00 := noise2D(x0, y0)
	n10 := noise2D(x0+1, y0)
	n01 := noise2D(x0, y0+1)
	n11 := noise2D(x0+1, y0+1)

	return lerp(lerp(n00, n10, sx), lerp(n01, n11, sx), sy)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

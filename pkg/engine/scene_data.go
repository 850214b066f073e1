package engine

import "time"

// SceneData holds the traced frame before quantization
type SceneData struct {
	Pixels [][]TracedPixel // Traced pixels, row 0 at the top
	Width  int             // Frame width
	Height int             // Frame height
	Stats  RenderStats     // Counters collected while tracing
}

// TracedPixel is the tracing result for one pixel
type TracedPixel struct {
	X         int     // X coordinate
	Y         int     // Y coordinate
	Intensity float64 // Brightness in [0,1]
	Hit       bool    // Whether the primary ray hit a sphere
	Shadowed  bool    // Whether the hit point was in shadow
	Depth     float64 // Ray parameter of the hit, -1 for sky
	Normal    Vector3 // Surface normal at the hit point
}

// RenderStats contains statistics about one traced frame
type RenderStats struct {
	TotalPixels    int           // Pixels traced
	HitPixels      int           // Pixels whose ray hit a sphere
	SkyPixels      int           // Pixels shaded by the sky gradient
	ShadowedPixels int           // Hit pixels in shadow
	Workers        int           // Goroutines used
	Elapsed        time.Duration // Wall time of the trace
}

// NewSceneData creates an empty frame of the given size
func NewSceneData(width, height int) *SceneData {
	scene := &SceneData{
		Width:  width,
		Height: height,
		Pixels: make([][]TracedPixel, height),
	}

	for y := 0; y < height; y++ {
		scene.Pixels[y] = make([]TracedPixel, width)
	}

	return scene
}

// Intensities returns the brightness values as a plain 2D grid
func (sd *SceneData) Intensities() [][]float64 {
	out := make([][]float64, sd.Height)
	for y, row := range sd.Pixels {
		out[y] = make([]float64, len(row))
		for x, p := range row {
			out[y][x] = p.Intensity
		}
	}
	return out
}

// collectStats tallies hit/sky/shadow counts over all pixels
func (sd *SceneData) collectStats() {
	stats := RenderStats{TotalPixels: sd.Width * sd.Height}
	for _, row := range sd.Pixels {
		for _, p := range row {
			switch {
			case !p.Hit:
				stats.SkyPixels++
			case p.Shadowed:
				stats.HitPixels++
				stats.ShadowedPixels++
			default:
				stats.HitPixels++
			}
		}
	}
	stats.Workers = sd.Stats.Workers
	stats.Elapsed = sd.Stats.Elapsed
	sd.Stats = stats
}

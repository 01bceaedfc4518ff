package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	camera     *Camera
	world      core.Shape
	integrator core.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a tile renderer for an image of the given size
func NewTileRenderer(camera *Camera, world core.Shape, integrator core.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		world:      world,
		integrator: integrator,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds tops up every pixel inside bounds to targetSamples samples.
// Image row 0 is the top scanline, so rows map to view plane t from the bottom.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		j := tr.height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samplesUsed := tr.samplePixel(x, j, &pixelStats[y][x], sampler, targetSamples)

			stats.TotalSamples += samplesUsed
			stats.MinSamples = min(stats.MinSamples, samplesUsed)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel traces jittered rays through pixel (i, j) counted from the lower left
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < targetSamples {
		du, dv := sampler.Get2D()
		s := (float64(i) + du) / float64(tr.width)
		t := (float64(j) + dv) / float64(tr.height)

		ray := tr.camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.world, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

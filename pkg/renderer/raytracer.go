package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           200,
		Height:          100,
		SamplesPerPixel: 100,
		MaxDepth:        30,
	}
}

// Validate reports configuration values the renderer cannot work with
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", c.MaxDepth)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() core.Shape
	GetSamplingConfig() SamplingConfig
}

// Raytracer is the single-threaded reference renderer
type Raytracer struct {
	scene      Scene
	integrator core.Integrator
	width      int
	height     int
	config     SamplingConfig
	sampler    core.Sampler
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, integrator core.Integrator, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		integrator: integrator,
		width:      width,
		height:     height,
		config:     scene.GetSamplingConfig(),
		sampler:    core.NewSeededSampler(42), // Deterministic for testing
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetSampler replaces the random source
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// RenderPass renders every pixel with the configured number of samples
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	pixelStats := newPixelStatsGrid(rt.width, rt.height)
	renderer := NewTileRenderer(rt.scene.GetCamera(), rt.scene.GetWorld(), rt.integrator, rt.width, rt.height)

	stats := renderer.RenderTileBounds(img.Bounds(), pixelStats, rt.sampler, max(1, rt.config.SamplesPerPixel))

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, ToColor(pixelStats[y][x].GetColor()))
		}
	}

	return img, stats
}

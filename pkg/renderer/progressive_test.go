package renderer

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

type nopLogger struct{}

func (nopLogger) Printf(format string, args ...interface{}) {}

// constantIntegrator is safe for concurrent use
type constantIntegrator struct {
	color core.Vec3
}

func (c constantIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler) core.Vec3 {
	return c.color
}

// noiseIntegrator returns values drawn from the tile sampler
type noiseIntegrator struct{}

func (noiseIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler) core.Vec3 {
	return sampler.Get3D()
}

func TestProgressiveSampleCalculation(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = 50
	config.MaxPasses = 7

	pr := &ProgressiveRaytracer{
		config: config,
	}

	// Pass 1: 1 sample
	// Pass 2-6: (50-1)/6 = 8 samples per pass -> 9, 17, 25, 33, 41
	// Pass 7: 50 (final pass gets all remaining)
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}

	for pass := 1; pass <= 7; pass++ {
		totalSamples := pr.getSamplesForPass(pass)

		if totalSamples != expectedTotalSamples[pass-1] {
			t.Errorf("Pass %d: expected %d total samples, got %d",
				pass, expectedTotalSamples[pass-1], totalSamples)
		}
	}
}

func TestProgressiveSampleCalculation_SinglePass(t *testing.T) {
	pr := &ProgressiveRaytracer{
		config: ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 100, MaxPasses: 1},
	}
	if got := pr.getSamplesForPass(1); got != 100 {
		t.Errorf("Single pass should take every sample, got %d", got)
	}
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}
	if config.InitialSamples != 1 {
		t.Errorf("Expected default initial samples 1, got %d", config.InitialSamples)
	}
	if config.MaxSamplesPerPixel != 50 {
		t.Errorf("Expected default max samples 50, got %d", config.MaxSamplesPerPixel)
	}
	if config.MaxPasses != 7 {
		t.Errorf("Expected default max passes 7, got %d", config.MaxPasses)
	}
}

func TestNewTileGrid(t *testing.T) {
	// 400x225 image with 64x64 tiles
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize, 42)

	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	// Tiles cover the entire image without gaps or overlaps
	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Errorf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestTileDeterministicRandom(t *testing.T) {
	bounds := image.Rect(0, 0, 64, 64)
	tile1 := NewTile(42, bounds, 7)
	tile2 := NewTile(42, bounds, 7)

	val1 := tile1.Sampler.Get1D()
	val2 := tile2.Sampler.Get1D()

	if val1 != val2 {
		t.Errorf("Tiles with same ID should produce same random values: %f != %f", val1, val2)
	}

	tile3 := NewTile(43, bounds, 7)
	if val1 == tile3.Sampler.Get1D() {
		t.Error("Tiles with different IDs should produce different random values")
	}

	tile4 := NewTile(42, bounds, 8)
	if val1 == tile4.Sampler.Get1D() {
		t.Error("Tiles with different seeds should produce different random values")
	}
}

func newTestProgressive(integ core.Integrator, width, height, workers int) *ProgressiveRaytracer {
	config := ProgressiveConfig{
		TileSize:           4,
		InitialSamples:     1,
		MaxSamplesPerPixel: 5,
		MaxPasses:          3,
		NumWorkers:         workers,
		Seed:               42,
	}
	return NewProgressiveRaytracer(createMockScene(), integ, width, height, config, nopLogger{})
}

func TestProgressiveRaytracer_Render(t *testing.T) {
	pr := newTestProgressive(constantIntegrator{color: core.NewVec3(0.25, 1, 0)}, 10, 6, 3)

	img, stats, err := pr.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, 10, 6) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	if stats.MinSamples != 5 || stats.MaxSamplesUsed != 5 {
		t.Errorf("Every pixel should reach 5 samples, got min %d max %d", stats.MinSamples, stats.MaxSamplesUsed)
	}
	if stats.TotalSamples != 10*6*5 {
		t.Errorf("Expected %d samples, got %d", 10*6*5, stats.TotalSamples)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 127 || c.G != 255 || c.B != 0 || c.A != 255 {
				t.Fatalf("Pixel (%d,%d) = %v, expected gamma-encoded constant", x, y, c)
			}
		}
	}
}

func TestProgressiveRaytracer_DeterministicAcrossWorkerCounts(t *testing.T) {
	single := newTestProgressive(noiseIntegrator{}, 9, 7, 1)
	parallel := newTestProgressive(noiseIntegrator{}, 9, 7, 4)

	img1, _, err := single.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	img2, _, err := parallel.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i := range img1.Pix {
		if img1.Pix[i] != img2.Pix[i] {
			t.Fatalf("Images differ at byte %d: %d != %d", i, img1.Pix[i], img2.Pix[i])
		}
	}
}

func TestProgressiveRaytracer_Cancelled(t *testing.T) {
	pr := newTestProgressive(constantIntegrator{}, 8, 8, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := pr.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProgressiveRaytracer_TileUpdates(t *testing.T) {
	pr := newTestProgressive(constantIntegrator{color: core.NewVec3(1, 1, 1)}, 8, 8, 2)

	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true})

	var passes []int
	for result := range passChan {
		passes = append(passes, result.PassNumber)
		if result.Image == nil {
			t.Errorf("Pass %d produced no image", result.PassNumber)
		}
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tiles := 0
	for tile := range tileChan {
		tiles++
		if tile.TotalTiles != 4 {
			t.Errorf("Expected 4 tiles per pass, got %d", tile.TotalTiles)
		}
		if tile.TileImage.Bounds().Dx() != 4 || tile.TileImage.Bounds().Dy() != 4 {
			t.Errorf("Unexpected tile image size %v", tile.TileImage.Bounds())
		}
	}

	if len(passes) != 3 || passes[0] != 1 || passes[2] != 3 {
		t.Errorf("Expected passes [1 2 3], got %v", passes)
	}
	if tiles != 12 {
		t.Errorf("Expected 12 tile updates, got %d", tiles)
	}
}

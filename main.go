package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to config.json file")
	envFile := flag.String("env", ".env", "Path to .env file with S3 settings")
	sceneType := flag.String("scene", "", "Scene name (see -list) or path to a .json scene description")
	mode := flag.String("mode", "", "Shading mode: 'path', 'normals' or 'sky' (default: path)")
	width := flag.Int("width", 0, "Output width in pixels (default: scene setting)")
	height := flag.Int("height", 0, "Output height in pixels (default: scene setting)")
	samples := flag.Int("samples", 0, "Samples per pixel (default: scene setting)")
	maxDepth := flag.Int("depth", 0, "Maximum ray bounce depth (default: scene setting)")
	passes := flag.Int("passes", 0, "Number of progressive passes (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	seed := flag.Int64("seed", 0, "Base random seed, 0 included (default: 42)")
	supersample := flag.Int("supersample", 0, "Render at N times the size and downsample (default: 1)")
	vfov := flag.Float64("vfov", 0, "Override the camera vertical field of view in degrees")
	aperture := flag.Float64("aperture", 0, "Override the camera lens aperture")
	out := flag.String("out", "", "Output file (.ppm, .png, .webp or .tga)")
	pattern := flag.Bool("pattern", false, "Write the gradient calibration image instead of rendering")
	list := flag.Bool("list", false, "List available scenes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output is saved to output/<scene>/render_<timestamp>.ppm unless -out is given.")
		fmt.Println("Set S3_BUCKET (and optionally S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY,")
		fmt.Println("S3_SECRET_KEY, S3_PREFIX) to upload the result.")
		return
	}

	if *list {
		if err := listScenes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	// -seed 0 is a real seed, so only an explicitly given flag overrides
	var seedFlag *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedFlag = seed
		}
	})

	cfg.Resolve(config.Flags{
		Scene:       *sceneType,
		Mode:        *mode,
		Output:      *out,
		Width:       *width,
		Height:      *height,
		Samples:     *samples,
		MaxDepth:    *maxDepth,
		Passes:      *passes,
		Workers:     *workers,
		Seed:        seedFlag,
		Supersample: *supersample,
		VFov:        *vfov,
		Aperture:    *aperture,
	})
	cfg.LoadEnv(*envFile)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := renderer.NewDefaultLogger()

	var (
		img image.Image
		err error
	)
	if *pattern {
		img = patternImage(cfg)
		if cfg.Output == "" {
			cfg.Scene = "pattern"
		}
	} else {
		img, err = render(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
			os.Exit(1)
		}
	}

	filename := outputPath(cfg, time.Now())
	if err := output.Save(filename, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)

	if cfg.S3.Enabled() {
		if err := upload(ctx, cfg.S3, filename, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error uploading: %v\n", err)
			os.Exit(1)
		}
	}
}

// createScene resolves the scene and applies config overrides.
// The returned scene is sized for the render resolution, including supersampling.
func createScene(cfg config.Config) (*scene.Scene, error) {
	s, err := scene.NewScene(cfg.Scene, cfg.CameraOverride())
	if err != nil {
		return nil, err
	}

	sampling := cfg.ApplySampling(s.SamplingConfig)
	if err := sampling.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Scene, err)
	}

	s.SamplingConfig = sampling
	s.SetResolution(sampling.Width*cfg.Supersample, sampling.Height*cfg.Supersample)
	return s, nil
}

// render traces the configured scene and downsamples it to the output size
func render(ctx context.Context, cfg config.Config, logger core.Logger) (*image.RGBA, error) {
	s, err := createScene(cfg)
	if err != nil {
		return nil, err
	}

	sampling := s.GetSamplingConfig()
	integ, err := integrator.New(cfg.Mode, sampling.MaxDepth, s.Background)
	if err != nil {
		return nil, err
	}

	logger.Printf("Rendering %s (%s mode): %dx%d, %d samples/pixel, max depth %d, %d objects\n",
		cfg.Scene, cfg.Mode, sampling.Width, sampling.Height, sampling.SamplesPerPixel, sampling.MaxDepth, s.GetPrimitiveCount())

	raytracer := renderer.NewProgressiveRaytracer(s, integ, sampling.Width, sampling.Height,
		cfg.ProgressiveConfig(sampling.SamplesPerPixel), logger)

	startTime := time.Now()
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return nil, err
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	if cfg.Supersample > 1 {
		img = output.Downsample(img, sampling.Width/cfg.Supersample, sampling.Height/cfg.Supersample)
	}
	return img, nil
}

// patternImage returns the gradient calibration image at the configured size
func patternImage(cfg config.Config) *image.RGBA {
	width, height := cfg.Width, cfg.Height
	if width == 0 || height == 0 {
		defaults := renderer.DefaultSamplingConfig()
		width, height = defaults.Width, defaults.Height
	}
	return renderer.GradientPattern(width, height)
}

// outputPath returns the configured output file or a timestamped PPM under output/<scene>
func outputPath(cfg config.Config, now time.Time) string {
	if cfg.Output != "" {
		return cfg.Output
	}

	sceneName := strings.TrimPrefix(cfg.Scene, "json:")
	if ext := filepath.Ext(sceneName); ext != "" {
		sceneName = filepath.Base(sceneName[:len(sceneName)-len(ext)])
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.ppm", timestamp))
}

func upload(ctx context.Context, s3Config output.S3Config, filename string, img image.Image) error {
	format, err := output.FormatFromPath(filename)
	if err != nil {
		return err
	}

	uploader, err := output.NewUploader(s3Config)
	if err != nil {
		return err
	}

	key, err := uploader.Upload(ctx, filepath.Base(filename), img, format)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded to s3://%s/%s\n", s3Config.Bucket, key)
	return nil
}

func listScenes() error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}

	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			id := info.ID
			if info.Type == "json" {
				id = info.FilePath
			}
			fmt.Printf("  %-24s %s\n", id, info.Description)
		}
	}
	return nil
}

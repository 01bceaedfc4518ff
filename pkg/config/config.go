package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Config holds render settings. Zero values mean "use the scene's default".
type Config struct {
	Scene  string `json:"scene"`
	Mode   string `json:"mode"`   // path, normals or sky
	Output string `json:"output"` // File path, the extension picks the format

	// Render settings
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samples_per_pixel"`
	MaxDepth        int    `json:"max_depth"`
	Passes          int    `json:"passes"`
	TileSize        int    `json:"tile_size"`
	Workers         int    `json:"workers"`
	Seed            *int64 `json:"seed,omitempty"` // nil selects the default; 0 is a valid seed
	Supersample     int    `json:"supersample"`

	Camera CameraConfig `json:"camera"`

	// Upload target, filled from the environment by LoadEnv
	S3 output.S3Config `json:"-"`
}

// CameraConfig overrides the scene camera. Zero fields keep the scene's value.
type CameraConfig struct {
	LookFrom      *[3]float64 `json:"look_from,omitempty"`
	LookAt        *[3]float64 `json:"look_at,omitempty"`
	VFov          float64     `json:"vfov,omitempty"`
	Aperture      float64     `json:"aperture,omitempty"`
	FocusDistance float64     `json:"focus_distance,omitempty"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene       string
	Mode        string
	Output      string
	Width       int
	Height      int
	Samples     int
	MaxDepth    int
	Passes      int
	Workers     int
	Seed        *int64 // nil when the flag was not given
	Supersample int
	VFov        float64
	Aperture    float64
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv loads a .env file if present, then reads the S3 settings from the environment.
// Variables already set in the environment win over the file.
func (c *Config) LoadEnv(envFile string) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	c.S3 = output.S3Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    os.Getenv("S3_REGION"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Prefix:    os.Getenv("S3_PREFIX"),
	}
}

// Resolve applies CLI flags over the file values and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Samples > 0 {
		c.SamplesPerPixel = flags.Samples
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.Passes > 0 {
		c.Passes = flags.Passes
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Seed != nil {
		seed := *flags.Seed
		c.Seed = &seed
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.VFov > 0 {
		c.Camera.VFov = flags.VFov
	}
	if flags.Aperture > 0 {
		c.Camera.Aperture = flags.Aperture
	}

	// Defaults
	if c.Scene == "" {
		c.Scene = "default"
	}
	if c.Mode == "" {
		c.Mode = integrator.ModePath
	}
	if c.Passes <= 0 {
		c.Passes = 1
	}
	if c.TileSize <= 0 {
		c.TileSize = renderer.DefaultProgressiveConfig().TileSize
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Seed == nil {
		seed := renderer.DefaultProgressiveConfig().Seed
		c.Seed = &seed
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
}

// Validate reports settings that can never produce an image
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("config: image size must not be negative, got %dx%d", c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("config: width and height must be set together")
	}
	if c.SamplesPerPixel < 0 {
		return fmt.Errorf("config: samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("config: max depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.Supersample > 8 {
		return fmt.Errorf("config: supersample factor must be between 1 and 8, got %d", c.Supersample)
	}
	if c.Output != "" {
		if _, err := output.FormatFromPath(c.Output); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	switch c.Mode {
	case integrator.ModePath, integrator.ModeNormals, integrator.ModeSky:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	return nil
}

// ApplySampling overrides the non-zero render settings on top of base
func (c *Config) ApplySampling(base renderer.SamplingConfig) renderer.SamplingConfig {
	result := base
	if c.Width > 0 && c.Height > 0 {
		result.Width = c.Width
		result.Height = c.Height
	}
	if c.SamplesPerPixel > 0 {
		result.SamplesPerPixel = c.SamplesPerPixel
	}
	if c.MaxDepth > 0 {
		result.MaxDepth = c.MaxDepth
	}
	return result
}

// CameraOverride returns the camera fields to merge over the scene camera
func (c *Config) CameraOverride() renderer.CameraConfig {
	override := renderer.CameraConfig{
		VFov:          c.Camera.VFov,
		Aperture:      c.Camera.Aperture,
		FocusDistance: c.Camera.FocusDistance,
	}
	if c.Camera.LookFrom != nil {
		override.LookFrom = core.NewVec3(c.Camera.LookFrom[0], c.Camera.LookFrom[1], c.Camera.LookFrom[2])
	}
	if c.Camera.LookAt != nil {
		override.LookAt = core.NewVec3(c.Camera.LookAt[0], c.Camera.LookAt[1], c.Camera.LookAt[2])
	}
	return override
}

// ProgressiveConfig converts the settings for the tiled renderer
func (c *Config) ProgressiveConfig(samplesPerPixel int) renderer.ProgressiveConfig {
	config := renderer.DefaultProgressiveConfig()
	config.TileSize = c.TileSize
	config.MaxSamplesPerPixel = samplesPerPixel
	config.MaxPasses = c.Passes
	config.NumWorkers = c.Workers
	if c.Seed != nil {
		config.Seed = *c.Seed
	}
	return config
}

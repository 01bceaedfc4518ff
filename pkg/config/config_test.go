package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"scene": "metals",
		"width": 320,
		"height": 160,
		"samples_per_pixel": 16,
		"max_depth": 12,
		"output": "renders/metals.png",
		"camera": {"vfov": 35, "look_at": [0, 0, -2]}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scene != "metals" || cfg.Width != 320 || cfg.Height != 160 || cfg.SamplesPerPixel != 16 || cfg.MaxDepth != 12 {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.Camera.VFov != 35 || cfg.Camera.LookAt == nil || cfg.Camera.LookAt[2] != -2 {
		t.Errorf("Unexpected camera config %+v", cfg.Camera)
	}
	if cfg.Camera.LookFrom != nil {
		t.Error("Missing look_from should stay nil")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := Load(writeFile(t, "bad.json", `{"width": "wide"}`)); err == nil {
		t.Error("Expected error for wrong field type")
	}
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	cfg := Config{Scene: "metals", Width: 320, Height: 160, SamplesPerPixel: 16}

	cfg.Resolve(Flags{Width: 100, Height: 50, Samples: 4, Aperture: 0.1})

	if cfg.Width != 100 || cfg.Height != 50 || cfg.SamplesPerPixel != 4 {
		t.Errorf("Flags not applied: %+v", cfg)
	}
	if cfg.Scene != "metals" {
		t.Errorf("Empty flag should keep file value, got %q", cfg.Scene)
	}
	if cfg.Camera.Aperture != 0.1 {
		t.Errorf("Aperture flag not applied: %+v", cfg.Camera)
	}
}

func TestResolve_Defaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.Scene != "default" || cfg.Mode != "path" {
		t.Errorf("Unexpected scene/mode defaults: %q %q", cfg.Scene, cfg.Mode)
	}
	if cfg.Passes != 1 || cfg.Supersample != 1 || cfg.TileSize != 64 || cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Resolved defaults should validate: %v", err)
	}
}

func TestResolve_SeedZeroIsKept(t *testing.T) {
	zero := int64(0)

	var fromFlag Config
	fromFlag.Resolve(Flags{Seed: &zero})
	if fromFlag.Seed == nil || *fromFlag.Seed != 0 {
		t.Errorf("Seed flag 0 should be kept, got %v", fromFlag.Seed)
	}
	if got := fromFlag.ProgressiveConfig(4).Seed; got != 0 {
		t.Errorf("ProgressiveConfig seed = %d, want 0", got)
	}

	fromFile, err := Load(writeFile(t, "seed.json", `{"seed": 0}`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	fromFile.Resolve(Flags{})
	if fromFile.Seed == nil || *fromFile.Seed != 0 {
		t.Errorf("Seed 0 from file should be kept, got %v", fromFile.Seed)
	}

	seven := int64(7)
	fromFile.Resolve(Flags{Seed: &seven})
	if *fromFile.Seed != 7 {
		t.Errorf("Seed flag should override file, got %d", *fromFile.Seed)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		modify      func(*Config)
		expectError bool
	}{
		{"valid", func(c *Config) {}, false},
		{"width without height", func(c *Config) { c.Width = 100 }, true},
		{"negative width", func(c *Config) { c.Width, c.Height = -1, 10 }, true},
		{"negative samples", func(c *Config) { c.SamplesPerPixel = -1 }, true},
		{"negative depth", func(c *Config) { c.MaxDepth = -3 }, true},
		{"huge supersample", func(c *Config) { c.Supersample = 16 }, true},
		{"unknown mode", func(c *Config) { c.Mode = "bdpt" }, true},
		{"unsupported output", func(c *Config) { c.Output = "out.gif" }, true},
		{"webp output", func(c *Config) { c.Output = "out.webp" }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.Resolve(Flags{})
			tc.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tc.expectError {
				t.Errorf("Validate() error = %v, expectError %t", err, tc.expectError)
			}
		})
	}
}

func TestApplySampling(t *testing.T) {
	base := renderer.SamplingConfig{Width: 600, Height: 300, SamplesPerPixel: 100, MaxDepth: 30}

	cfg := Config{MaxDepth: 5}
	if got := cfg.ApplySampling(base); got != (renderer.SamplingConfig{Width: 600, Height: 300, SamplesPerPixel: 100, MaxDepth: 5}) {
		t.Errorf("ApplySampling() = %+v", got)
	}

	cfg = Config{Width: 20, Height: 10, SamplesPerPixel: 2}
	if got := cfg.ApplySampling(base); got != (renderer.SamplingConfig{Width: 20, Height: 10, SamplesPerPixel: 2, MaxDepth: 30}) {
		t.Errorf("ApplySampling() = %+v", got)
	}
}

func TestCameraOverride(t *testing.T) {
	cfg := Config{Camera: CameraConfig{LookFrom: &[3]float64{1, 2, 3}, VFov: 50}}

	override := cfg.CameraOverride()
	if !override.LookFrom.Equals(core.NewVec3(1, 2, 3)) || override.VFov != 50 {
		t.Errorf("CameraOverride() = %+v", override)
	}
	if !override.LookAt.Equals(core.Vec3{}) {
		t.Errorf("Unset LookAt should be zero, got %v", override.LookAt)
	}
}

func TestLoadEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "S3_BUCKET=from-file\nS3_REGION=eu-west-1\nS3_PREFIX=renders\n")
	t.Setenv("S3_BUCKET", "from-env")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Cleanup(func() {
		os.Unsetenv("S3_REGION")
		os.Unsetenv("S3_PREFIX")
	})

	var cfg Config
	cfg.LoadEnv(envFile)

	// Existing environment variables win over the file
	if cfg.S3.Bucket != "from-env" {
		t.Errorf("Bucket = %q, want from-env", cfg.S3.Bucket)
	}
	if cfg.S3.Region != "eu-west-1" || cfg.S3.Prefix != "renders" {
		t.Errorf("File values not loaded: %+v", cfg.S3)
	}
	if cfg.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("Endpoint = %q", cfg.S3.Endpoint)
	}
	if !cfg.S3.Enabled() {
		t.Error("Uploads should be enabled with a bucket")
	}

	// Missing files are ignored
	cfg.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}

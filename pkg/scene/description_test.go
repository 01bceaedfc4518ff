package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

const threeSpheres = `{
  "name": "Three Spheres",
  "camera": {"lookFrom": [0, 0, 0], "lookAt": [0, 0, -1], "vfov": 90},
  "sampling": {"width": 40, "height": 20, "samplesPerPixel": 4, "maxDepth": 8},
  "background": {"horizon": [1, 1, 1], "zenith": [0.2, 0.3, 0.9]},
  "spheres": [
    {"center": [0, -100.5, -1], "radius": 100, "material": {"type": "lambertian", "albedo": [0.8, 0.8, 0]}},
    {"center": [0, 0, -1], "radius": 0.5, "material": {"type": "lambertian", "albedo": [0.1, 0.2, 0.5]}},
    {"center": [1, 0, -1], "radius": 0.5, "material": {"type": "metal", "albedo": [0.8, 0.6, 0.2], "fuzz": 3}}
  ]
}`

func TestDecodeDescription_Build(t *testing.T) {
	desc, err := DecodeDescription(strings.NewReader(threeSpheres))
	if err != nil {
		t.Fatalf("DecodeDescription() error: %v", err)
	}

	s, err := desc.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if s.GetPrimitiveCount() != 3 {
		t.Errorf("Expected 3 spheres, got %d", s.GetPrimitiveCount())
	}
	cfg := s.GetSamplingConfig()
	if cfg.Width != 40 || cfg.Height != 20 || cfg.SamplesPerPixel != 4 || cfg.MaxDepth != 8 {
		t.Errorf("Unexpected sampling config %+v", cfg)
	}
	if s.CameraConfig.AspectRatio != 2 {
		t.Errorf("Expected aspect ratio 2, got %f", s.CameraConfig.AspectRatio)
	}
	if !s.Background.Zenith.Equals(core.NewVec3(0.2, 0.3, 0.9)) {
		t.Errorf("Background not applied: %+v", s.Background)
	}

	// Metal fuzz is clamped to 1
	hit, isHit := s.GetWorld().Hit(core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected to hit the metal sphere")
	}
	metal, ok := hit.Material.(*material.Metal)
	if !ok {
		t.Fatalf("Expected *material.Metal, got %T", hit.Material)
	}
	if metal.Fuzzness != 1 {
		t.Errorf("Expected fuzz clamped to 1, got %f", metal.Fuzzness)
	}
}

func TestDescription_Defaults(t *testing.T) {
	desc, err := DecodeDescription(strings.NewReader(`{"spheres": [{"center": [0, 0, -1], "radius": 0.5, "material": {"type": "lambertian", "albedo": [0.5, 0.5, 0.5]}}]}`))
	if err != nil {
		t.Fatalf("DecodeDescription() error: %v", err)
	}
	s, err := desc.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	cfg := s.GetSamplingConfig()
	if cfg.Width != 200 || cfg.Height != 100 || cfg.SamplesPerPixel != 100 || cfg.MaxDepth != 30 {
		t.Errorf("Expected default sampling config, got %+v", cfg)
	}
	if s.CameraConfig.VFov != 90 || !s.CameraConfig.Up.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected default camera, got %+v", s.CameraConfig)
	}
}

func TestDescription_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown material", `{"spheres": [{"center": [0, 0, -1], "radius": 0.5, "material": {"type": "glass"}}]}`},
		{"zero radius", `{"spheres": [{"center": [0, 0, -1], "radius": 0, "material": {"type": "lambertian"}}]}`},
		{"negative radius", `{"spheres": [{"center": [0, 0, -1], "radius": -1, "material": {"type": "metal"}}]}`},
		{"negative samples", `{"sampling": {"samplesPerPixel": -2}, "spheres": []}`},
		{"negative depth", `{"sampling": {"maxDepth": -1}, "spheres": []}`},
		{"bad vfov", `{"camera": {"vfov": 200}, "spheres": []}`},
		{"degenerate camera", `{"camera": {"lookFrom": [1, 1, 1], "lookAt": [1, 1, 1]}, "spheres": []}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := DecodeDescription(strings.NewReader(tc.content))
			if err != nil {
				t.Fatalf("DecodeDescription() error: %v", err)
			}
			if _, err := desc.Build(); err == nil {
				t.Error("Expected Build() to fail")
			}
		})
	}
}

func TestDecodeDescription_RejectsUnknownFields(t *testing.T) {
	if _, err := DecodeDescription(strings.NewReader(`{"spheres": [], "lights": []}`)); err == nil {
		t.Error("Expected error for unknown field")
	}
	if _, err := DecodeDescription(strings.NewReader(`not json`)); err == nil {
		t.Error("Expected error for malformed input")
	}
}

func TestLoadDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "three-spheres.json")
	if err := os.WriteFile(path, []byte(threeSpheres), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	s, err := NewScene(path)
	if err != nil {
		t.Fatalf("NewScene(%q) error: %v", path, err)
	}
	if s.GetPrimitiveCount() != 3 {
		t.Errorf("Expected 3 spheres, got %d", s.GetPrimitiveCount())
	}

	if _, err := LoadDescription(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Vec3 is a JSON triple [x, y, z]
type Vec3 [3]float64

func (v Vec3) toCore() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// Description is the JSON form of a scene
type Description struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"`
	Camera      CameraDescription      `json:"camera"`
	Sampling    SamplingDescription    `json:"sampling"`
	Background  *BackgroundDescription `json:"background,omitempty"`
	Spheres     []SphereDescription    `json:"spheres"`
}

// CameraDescription mirrors renderer.CameraConfig. Zero fields take defaults.
type CameraDescription struct {
	LookFrom      *Vec3   `json:"lookFrom,omitempty"`
	LookAt        *Vec3   `json:"lookAt,omitempty"`
	Up            *Vec3   `json:"up,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// SamplingDescription mirrors renderer.SamplingConfig. Zero fields take defaults.
type SamplingDescription struct {
	Width           int `json:"width,omitempty"`
	Height          int `json:"height,omitempty"`
	SamplesPerPixel int `json:"samplesPerPixel,omitempty"`
	MaxDepth        int `json:"maxDepth,omitempty"`
}

// BackgroundDescription overrides the sky gradient
type BackgroundDescription struct {
	Horizon Vec3 `json:"horizon"`
	Zenith  Vec3 `json:"zenith"`
}

// SphereDescription is a single sphere and its material
type SphereDescription struct {
	Center   Vec3                `json:"center"`
	Radius   float64             `json:"radius"`
	Material MaterialDescription `json:"material"`
}

// MaterialDescription selects a material by type
type MaterialDescription struct {
	Type   string  `json:"type"` // "lambertian" or "metal"
	Albedo Vec3    `json:"albedo"`
	Fuzz   float64 `json:"fuzz,omitempty"` // metal only, clamped to [0,1]
}

// DecodeDescription reads a JSON scene description. Unknown fields are rejected.
func DecodeDescription(r io.Reader) (*Description, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var desc Description
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("scene: failed to decode description: %w", err)
	}
	return &desc, nil
}

// LoadDescription reads and builds the scene stored at path
func LoadDescription(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: failed to open %s: %w", path, err)
	}
	defer file.Close()

	desc, err := DecodeDescription(file)
	if err != nil {
		return nil, err
	}

	s, err := desc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build validates the description and constructs the scene
func (d *Description) Build() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          90,
		Aperture:      d.Camera.Aperture,
		FocusDistance: d.Camera.FocusDistance,
	}
	if d.Camera.LookFrom != nil {
		cameraConfig.LookFrom = d.Camera.LookFrom.toCore()
	}
	if d.Camera.LookAt != nil {
		cameraConfig.LookAt = d.Camera.LookAt.toCore()
	}
	if d.Camera.Up != nil {
		cameraConfig.Up = d.Camera.Up.toCore()
	}
	if d.Camera.VFov != 0 {
		cameraConfig.VFov = d.Camera.VFov
	}
	if cameraConfig.VFov <= 0 || cameraConfig.VFov >= 180 {
		return nil, fmt.Errorf("scene: vfov must be in (0, 180), got %g", cameraConfig.VFov)
	}
	if cameraConfig.LookFrom.Equals(cameraConfig.LookAt) {
		return nil, fmt.Errorf("scene: camera lookFrom and lookAt must differ")
	}

	samplingConfig := renderer.DefaultSamplingConfig()
	if d.Sampling.Width != 0 {
		samplingConfig.Width = d.Sampling.Width
	}
	if d.Sampling.Height != 0 {
		samplingConfig.Height = d.Sampling.Height
	}
	if d.Sampling.SamplesPerPixel != 0 {
		samplingConfig.SamplesPerPixel = d.Sampling.SamplesPerPixel
	}
	if d.Sampling.MaxDepth != 0 {
		samplingConfig.MaxDepth = d.Sampling.MaxDepth
	}
	if err := samplingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	s := newScene(cameraConfig, samplingConfig)
	if d.Background != nil {
		s.Background = integrator.Background{
			Horizon: d.Background.Horizon.toCore(),
			Zenith:  d.Background.Zenith.toCore(),
		}
	}

	for i, sphere := range d.Spheres {
		if sphere.Radius <= 0 {
			return nil, fmt.Errorf("scene: sphere %d: radius must be positive, got %g", i, sphere.Radius)
		}
		mat, err := sphere.Material.build()
		if err != nil {
			return nil, fmt.Errorf("scene: sphere %d: %w", i, err)
		}
		s.AddSphere(sphere.Center.toCore(), sphere.Radius, mat)
	}

	return s, nil
}

func (m MaterialDescription) build() (core.Material, error) {
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.toCore()), nil
	case "metal":
		return material.NewMetal(m.Albedo.toCore(), m.Fuzz), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

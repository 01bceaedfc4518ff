package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.ShapeList // Objects in the scene, scanned linearly
	SamplingConfig renderer.SamplingConfig
	Background     integrator.Background // Sky gradient seen by escaping rays
}

// newScene builds the camera from cameraConfig and returns an empty scene.
// The camera aspect ratio always follows the sampling resolution.
func newScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	cameraConfig.AspectRatio = float64(samplingConfig.Width) / float64(samplingConfig.Height)

	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewShapeList(),
		SamplingConfig: samplingConfig,
		Background:     integrator.DefaultBackground(),
	}
}

// AddSphere adds a sphere with the given material to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, material core.Material) {
	s.World.Add(geometry.NewSphere(center, radius, material))
}

// SetResolution changes the output size and rebuilds the camera to match
func (s *Scene) SetResolution(width, height int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	s.CameraConfig.AspectRatio = float64(width) / float64(height)
	s.Camera = renderer.NewCamera(s.CameraConfig)
}

// GetCamera implements renderer.Scene
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() core.Shape {
	return s.World
}

// GetSamplingConfig implements renderer.Scene
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

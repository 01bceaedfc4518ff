package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewDefaultScene creates a small grey sphere resting on a large green ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -4),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene(cameraConfig, renderer.SamplingConfig{
		Width:           600,
		Height:          300,
		SamplesPerPixel: 100,
		MaxDepth:        30,
	})

	s.AddSphere(core.NewVec3(0, 0, -2), 0.5, material.NewLambertian(core.NewVec3(0.4, 0.4, 0.4)))
	s.AddSphere(core.NewVec3(0, -100.5, 1), 100, material.NewLambertian(core.NewVec3(0.1, 0.8, 0.2)))

	return s
}

// NewSingleSphereScene creates one diffuse unit-diameter sphere straight ahead of the camera
func NewSingleSphereScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene(cameraConfig, renderer.DefaultSamplingConfig())
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	return s
}

// NewMetalsScene creates a diffuse center sphere flanked by a polished and a brushed metal sphere
func NewMetalsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 0.5, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          60.0,
		Aperture:      0.02, // Slight depth of field
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene(cameraConfig, renderer.SamplingConfig{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	})

	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, lambertianBlue)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, metalSilver)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, metalGold)

	return s
}

// NewMirrorBoxScene places a camera inside a mirrored shell around a diffuse sphere.
// Almost every path bounces until the depth limit, which makes it a stress test for MaxDepth.
func NewMirrorBoxScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 1.5),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     70.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene(cameraConfig, renderer.SamplingConfig{
		Width:           200,
		Height:          200,
		SamplesPerPixel: 50,
		MaxDepth:        30,
	})

	s.AddSphere(core.NewVec3(0, 0, 0), 3, material.NewMetal(core.NewVec3(0.95, 0.95, 0.95), 0.05))
	s.AddSphere(core.NewVec3(0, 0, 0), 0.6, material.NewLambertian(core.NewVec3(0.9, 0.3, 0.3)))

	return s
}

package integrator

import "github.com/df07/go-pathtracer/pkg/core"

// NormalIntegrator shades each hit by its surface normal mapped into [0,1].
// Useful for checking geometry and camera setup without sampling noise.
type NormalIntegrator struct {
	Background Background
}

// NewNormalIntegrator creates a normal-visualizing integrator
func NewNormalIntegrator(background Background) *NormalIntegrator {
	return &NormalIntegrator{Background: background}
}

// RayColor returns 0.5*(N+1) on hit and the background otherwise
func (ni *NormalIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler) core.Vec3 {
	hit, isHit := hitWorld(world, ray)
	if !isHit {
		return ni.Background.Color(ray)
	}
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}

// SkyIntegrator ignores geometry and renders only the background gradient
type SkyIntegrator struct {
	Background Background
}

// NewSkyIntegrator creates a background-only integrator
func NewSkyIntegrator(background Background) *SkyIntegrator {
	return &SkyIntegrator{Background: background}
}

// RayColor returns the background color for the ray
func (si *SkyIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler) core.Vec3 {
	return si.Background.Color(ray)
}

package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ShadowAcneEpsilon is the lower bound on hit distance for every traced ray.
// It keeps a scattered ray from re-hitting the surface it just left.
const ShadowAcneEpsilon = 0.001

// DefaultMaxDepth bounds the number of scatter events per camera ray
const DefaultMaxDepth = 30

// Shading modes understood by New
const (
	ModePath    = "path"
	ModeNormals = "normals"
	ModeSky     = "sky"
)

// Background is the vertical sky gradient seen by rays that escape the scene
type Background struct {
	Horizon core.Vec3 // Color for rays pointing straight down
	Zenith  core.Vec3 // Color for rays pointing straight up
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Horizon: core.NewVec3(1, 1, 1),
		Zenith:  core.NewVec3(0.45, 0.65, 1.0),
	}
}

// Color returns the gradient color for a ray direction
func (b Background) Color(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Horizon.Lerp(b.Zenith, t)
}

// New creates the integrator for a shading mode
func New(mode string, maxDepth int, background Background) (core.Integrator, error) {
	switch mode {
	case ModePath, "":
		return NewPathTracingIntegrator(maxDepth, background), nil
	case ModeNormals:
		return NewNormalIntegrator(background), nil
	case ModeSky:
		return NewSkyIntegrator(background), nil
	default:
		return nil, fmt.Errorf("integrator: unknown mode %q", mode)
	}
}

func hitWorld(world core.Shape, ray core.Ray) (*core.HitRecord, bool) {
	return world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
}

package integrator

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestNew_Modes(t *testing.T) {
	tests := []struct {
		mode        string
		expectError bool
	}{
		{ModePath, false},
		{"", false},
		{ModeNormals, false},
		{ModeSky, false},
		{"bdpt", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			integ, err := New(tt.mode, 10, DefaultBackground())
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for mode %q", tt.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if integ == nil {
				t.Fatal("Expected integrator")
			}
		})
	}
}

func TestNormalIntegrator(t *testing.T) {
	world := geometry.NewShapeList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	ni := NewNormalIntegrator(DefaultBackground())

	// Straight at the sphere: normal (0,0,1) maps to (0.5,0.5,1)
	color := ni.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), world, nil)
	expected := core.NewVec3(0.5, 0.5, 1)
	if color.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, color)
	}

	miss := ni.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0)), world, nil)
	if !miss.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Miss should return background, got %v", miss)
	}
}

func TestSkyIntegrator_IgnoresGeometry(t *testing.T) {
	world := geometry.NewShapeList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	si := NewSkyIntegrator(DefaultBackground())

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if color := si.RayColor(ray, world, nil); !color.Equals(DefaultBackground().Color(ray)) {
		t.Errorf("Sky integrator should return the background, got %v", color)
	}
}

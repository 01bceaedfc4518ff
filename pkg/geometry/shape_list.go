package geometry

import "github.com/df07/go-pathtracer/pkg/core"

// ShapeList is the scene aggregate: an ordered set of shapes tested linearly.
// It holds references to caller-owned shapes and never copies them.
type ShapeList struct {
	Shapes []core.Shape
}

// NewShapeList creates a list referencing the given shapes
func NewShapeList(shapes ...core.Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add registers another shape
func (l *ShapeList) Add(shape core.Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of registered shapes
func (l *ShapeList) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest intersection across all members.
// Each member is tested against the closest hit found so far.
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

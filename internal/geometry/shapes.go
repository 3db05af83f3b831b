package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape names accepted by Build
const (
	ShapeCircle   = "circle"
	ShapeTriangle = "triangle"
	ShapeQuad     = "quad"
)

// TriangleShape returns a single triangle in normalized device coordinates
func TriangleShape() *Mesh {
	return &Mesh{
		Topology: TopologyDuplicated,
		Vertices: []mgl32.Vec3{
			{-0.5, -0.5, 0},
			{0.5, -0.5, 0},
			{0, 0.5, 0},
		},
	}
}

// Quad returns a rectangle made of two triangles sharing a diagonal
func Quad() *Mesh {
	return &Mesh{
		Topology: TopologyIndexed,
		Vertices: []mgl32.Vec3{
			{0.5, 0.5, 0},   // top right
			{0.5, -0.5, 0},  // bottom right
			{-0.5, -0.5, 0}, // bottom left
			{-0.5, 0.5, 0},  // top left
		},
		Indices: []Triangle{
			{0, 1, 3},
			{1, 2, 3},
		},
	}
}

// Build generates the named shape. Subdivisions and topology only apply to circles.
func Build(shape string, subdivisions int, topology Topology) (*Mesh, error) {
	switch shape {
	case ShapeCircle, "":
		return Circle(subdivisions, topology)
	case ShapeTriangle:
		return TriangleShape(), nil
	case ShapeQuad:
		return Quad(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
}

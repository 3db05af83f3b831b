package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MinSubdivisions is the smallest number of rim samples that encloses an area
const MinSubdivisions = 3

// Circle approximates the unit circle centred at the origin with n triangles
func Circle(n int, topology Topology) (*Mesh, error) {
	switch topology {
	case TopologyIndexed:
		return IndexedFan(n)
	case TopologyDuplicated:
		return DuplicatedFan(n)
	}
	return nil, fmt.Errorf("circle: unsupported topology %v", topology)
}

// IndexedFan builds a triangle fan around a shared centre vertex.
// Vertex 0 is the centre and vertex i+1 sits at angle i*2π/n.
func IndexedFan(n int) (*Mesh, error) {
	if err := checkSubdivisions(n); err != nil {
		return nil, err
	}

	step := sliceAngle(n)
	m := &Mesh{
		Topology: TopologyIndexed,
		Vertices: make([]mgl32.Vec3, 0, n+1),
		Indices:  make([]Triangle, 0, n),
	}
	m.Vertices = append(m.Vertices, mgl32.Vec3{0, 0, 0})
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, rimPoint(float32(i)*step))
	}
	for i := 0; i < n; i++ {
		// last triangle wraps back to vertex 1
		m.Indices = append(m.Indices, Triangle{0, uint32(i + 1), uint32((i+1)%n + 1)})
	}
	return m, nil
}

// DuplicatedFan builds the same fan as IndexedFan without an index sequence:
// every triangle stores its own centre, start and end vertices.
func DuplicatedFan(n int) (*Mesh, error) {
	if err := checkSubdivisions(n); err != nil {
		return nil, err
	}

	step := sliceAngle(n)
	m := &Mesh{
		Topology: TopologyDuplicated,
		Vertices: make([]mgl32.Vec3, 0, 3*n),
	}
	for i := 0; i < n; i++ {
		start := float32(i) * step
		end := float32(i+1) * step
		m.Vertices = append(m.Vertices,
			mgl32.Vec3{0, 0, 0},
			rimPoint(start),
			rimPoint(end),
		)
	}
	return m, nil
}

func checkSubdivisions(n int) error {
	if n < MinSubdivisions {
		return fmt.Errorf("%w: %d (need at least %d)", ErrInvalidSubdivision, n, MinSubdivisions)
	}
	return nil
}

func sliceAngle(n int) float32 {
	return 2 * math32.Pi / float32(n)
}

func rimPoint(angle float32) mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(angle), math32.Sin(angle), 0}
}

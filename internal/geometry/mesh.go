package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidSubdivision is returned when a circle is requested with fewer than 3 subdivisions
	ErrInvalidSubdivision = errors.New("invalid subdivision")
	// ErrUnknownShape is returned by Build for an unrecognised shape name
	ErrUnknownShape = errors.New("unknown shape")
	// ErrInvalidMesh is returned by Validate
	ErrInvalidMesh = errors.New("invalid mesh")
)

// Topology describes how a Mesh's triangles are assembled from its vertices
type Topology int

const (
	// TopologyIndexed meshes share vertices between triangles through an index sequence
	TopologyIndexed Topology = iota
	// TopologyDuplicated meshes carry three fresh vertices per triangle and no indices
	TopologyDuplicated
)

func (t Topology) String() string {
	switch t {
	case TopologyIndexed:
		return "indexed"
	case TopologyDuplicated:
		return "duplicated"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology converts a topology name to a Topology
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "indexed":
		return TopologyIndexed, nil
	case "duplicated":
		return TopologyDuplicated, nil
	}
	return 0, fmt.Errorf("unknown topology %q", s)
}

func (t Topology) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Topology) UnmarshalText(b []byte) error {
	v, err := ParseTopology(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Triangle names three vertices of a Mesh by index
type Triangle [3]uint32

// Mesh is an ordered vertex sequence plus, for indexed meshes, the triangles over it.
// Vertices are tightly packed x,y,z float32 triples.
type Mesh struct {
	Topology Topology
	Vertices []mgl32.Vec3
	Indices  []Triangle
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles, explicit or implicit
func (m *Mesh) TriangleCount() int {
	if m.Topology == TopologyIndexed {
		return len(m.Indices)
	}
	return len(m.Vertices) / 3
}

// IndexCount returns the number of index values (three per triangle), zero for duplicated meshes
func (m *Mesh) IndexCount() int {
	return len(m.Indices) * 3
}

// Floats flattens the vertices into x,y,z components
func (m *Mesh) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// IndexData flattens the index triples
func (m *Mesh) IndexData() []uint32 {
	out := make([]uint32, 0, len(m.Indices)*3)
	for _, t := range m.Indices {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// TriangleAt returns the corner positions of triangle i
func (m *Mesh) TriangleAt(i int) [3]mgl32.Vec3 {
	if m.Topology == TopologyIndexed {
		t := m.Indices[i]
		return [3]mgl32.Vec3{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}
	}
	return [3]mgl32.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Validate checks the structural invariants of the mesh
func (m *Mesh) Validate() error {
	if m == nil || len(m.Vertices) == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidMesh)
	}
	switch m.Topology {
	case TopologyIndexed:
		if len(m.Indices) == 0 {
			return fmt.Errorf("%w: indexed mesh without indices", ErrInvalidMesh)
		}
		n := uint32(len(m.Vertices))
		for i, t := range m.Indices {
			for _, idx := range t {
				if idx >= n {
					return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrInvalidMesh, i, idx, n)
				}
			}
		}
	case TopologyDuplicated:
		if len(m.Indices) != 0 {
			return fmt.Errorf("%w: duplicated mesh carries %d index triples", ErrInvalidMesh, len(m.Indices))
		}
		if len(m.Vertices)%3 != 0 {
			return fmt.Errorf("%w: %d vertices is not a whole number of triangles", ErrInvalidMesh, len(m.Vertices))
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidMesh, m.Topology)
	}
	return nil
}

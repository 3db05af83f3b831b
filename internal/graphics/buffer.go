package graphics

import (
	"fmt"
	"unsafe"

	"circlegl/internal/geometry"
)

// Drawable pairs the device objects of one uploaded mesh with what is needed to draw it
type Drawable struct {
	VertexArray   Handle
	VertexBuffer  Handle
	IndexBuffer   Handle // zero for duplicated meshes
	VertexCount   int
	TriangleCount int
	IndexCount    int
	Topology      geometry.Topology
	Layout        AttributeLayout
}

// Indexed reports whether d draws through its index buffer
func (d *Drawable) Indexed() bool {
	return d.Topology == geometry.TopologyIndexed && d.IndexBuffer != 0
}

// Upload copies mesh into device buffers and records the attribute layout.
// The mesh may be discarded afterwards; the device copy is authoritative.
func (c *Context) Upload(mesh *geometry.Mesh, layout AttributeLayout) (*Drawable, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	d := &Drawable{
		VertexCount:   mesh.VertexCount(),
		TriangleCount: mesh.TriangleCount(),
		IndexCount:    mesh.IndexCount(),
		Topology:      mesh.Topology,
		Layout:        layout,
	}

	var err error
	d.VertexBuffer, err = c.dev.CreateBuffer(VertexBuffer, floatBytes(mesh.Floats()))
	if err != nil {
		return nil, fmt.Errorf("upload %d vertices: %w", d.VertexCount, err)
	}

	if mesh.Topology == geometry.TopologyIndexed {
		d.IndexBuffer, err = c.dev.CreateBuffer(IndexBuffer, uintBytes(mesh.IndexData()))
		if err != nil {
			c.Release(d)
			return nil, fmt.Errorf("upload %d indices: %w", d.IndexCount, err)
		}
	}

	d.VertexArray, err = c.dev.CreateVertexArray(d.VertexBuffer, d.IndexBuffer, layout)
	if err != nil {
		c.Release(d)
		return nil, fmt.Errorf("vertex array: %w", err)
	}

	c.log.Debug("mesh uploaded",
		"topology", d.Topology,
		"vertices", d.VertexCount,
		"triangles", d.TriangleCount,
		"indices", d.IndexCount)
	return d, nil
}

// ReadVertices returns the vertex buffer contents as floats
func (c *Context) ReadVertices(d *Drawable) ([]float32, error) {
	b, err := c.dev.ReadBuffer(VertexBuffer, d.VertexBuffer)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(b)/Float32Size)
	copy(floatBytes(out), b)
	return out, nil
}

// ReadIndices returns the index buffer contents, nil for duplicated meshes
func (c *Context) ReadIndices(d *Drawable) ([]uint32, error) {
	if d.IndexBuffer == 0 {
		return nil, nil
	}
	b, err := c.dev.ReadBuffer(IndexBuffer, d.IndexBuffer)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(b)/4)
	copy(uintBytes(out), b)
	return out, nil
}

// Release frees every device object held by d
func (c *Context) Release(d *Drawable) {
	if d.VertexArray != 0 {
		c.dev.DeleteVertexArray(d.VertexArray)
		d.VertexArray = 0
	}
	if d.IndexBuffer != 0 {
		c.dev.DeleteBuffer(d.IndexBuffer)
		d.IndexBuffer = 0
	}
	if d.VertexBuffer != 0 {
		c.dev.DeleteBuffer(d.VertexBuffer)
		d.VertexBuffer = 0
	}
}

// floatBytes views v in host byte order, the layout the device expects
func floatBytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*Float32Size)
}

func uintBytes(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

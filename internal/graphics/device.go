package graphics

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle names a GPU object owned by a Device. Zero is never a valid handle.
type Handle uint32

// BufferTarget says what a buffer holds
type BufferTarget int

const (
	// VertexBuffer holds per-vertex attribute data
	VertexBuffer BufferTarget = iota
	// IndexBuffer holds uint32 element indices
	IndexBuffer
)

func (t BufferTarget) String() string {
	if t == IndexBuffer {
		return "index"
	}
	return "vertex"
}

// Device is the GPU context a Context drives. Every operation names the
// objects it touches; implementations must not require callers to bind
// anything first.
type Device interface {
	// CreateShader creates a shader object for stage and compiles source into it.
	// Compilation failure is reported through ShaderStatus, not here.
	CreateShader(stage Stage, source string) (Handle, error)
	// ShaderStatus reports whether the shader compiled, with the compiler log.
	ShaderStatus(shader Handle) (ok bool, log string)
	DeleteShader(shader Handle)

	// CreateProgram attaches both shaders to a new program and links it.
	CreateProgram(vertex, fragment Handle) (Handle, error)
	// ProgramStatus reports whether the program linked, with the linker log.
	ProgramStatus(program Handle) (ok bool, log string)
	UseProgram(program Handle)
	DeleteProgram(program Handle)

	// CreateBuffer allocates device memory for data and uploads it once with static usage.
	CreateBuffer(target BufferTarget, data []byte) (Handle, error)
	// ReadBuffer copies the buffer contents back to host memory.
	ReadBuffer(target BufferTarget, buffer Handle) ([]byte, error)
	DeleteBuffer(buffer Handle)

	// CreateVertexArray records where the layout's attribute reads from.
	// indices may be zero for non-indexed drawing.
	CreateVertexArray(vertices, indices Handle, layout AttributeLayout) (Handle, error)
	DeleteVertexArray(vao Handle)

	Viewport(x, y, width, height int)
	Clear(color mgl32.Vec4)
	SetWireframe(enabled bool)
	DrawArrays(vao Handle, first, count int)
	DrawElements(vao Handle, count int)

	// ReadPixels returns the current framebuffer contents, top row first.
	ReadPixels() (*image.RGBA, error)
}

// Package opengl implements graphics.Device on an OpenGL core context.
// All methods must be called from the thread that owns the context.
package opengl

import (
	"fmt"
	"image"
	"strings"

	"circlegl/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var _ graphics.Device = (*Device)(nil)

// Device issues OpenGL calls on the current context
type Device struct {
	width, height int
}

// New loads the GL function pointers for the current context.
// The window must have made its context current first.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return &Device{width: int(vp[2]), height: int(vp[3])}, nil
}

// Version returns the GL_VERSION and GL_RENDERER strings
func (d *Device) Version() (version, renderer string) {
	return gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER))
}

func shaderType(stage graphics.Stage) (uint32, error) {
	switch stage {
	case graphics.StageVertex:
		return gl.VERTEX_SHADER, nil
	case graphics.StageFragment:
		return gl.FRAGMENT_SHADER, nil
	}
	return 0, fmt.Errorf("unsupported stage %v", stage)
}

func bufferTarget(t graphics.BufferTarget) uint32 {
	if t == graphics.IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (d *Device) CreateShader(stage graphics.Stage, source string) (graphics.Handle, error) {
	typ, err := shaderType(stage)
	if err != nil {
		return 0, err
	}
	shader := gl.CreateShader(typ)
	if shader == 0 {
		return 0, fmt.Errorf("glCreateShader(%s) returned 0", stage)
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)
	return graphics.Handle(shader), nil
}

func (d *Device) ShaderStatus(h graphics.Handle) (bool, string) {
	var status int32
	gl.GetShaderiv(uint32(h), gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}
	var logLength int32
	gl.GetShaderiv(uint32(h), gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(h), logLength, nil, gl.Str(log))
	return false, log
}

func (d *Device) DeleteShader(h graphics.Handle) {
	gl.DeleteShader(uint32(h))
}

func (d *Device) CreateProgram(vertex, fragment graphics.Handle) (graphics.Handle, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("glCreateProgram returned 0")
	}
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.LinkProgram(program)
	return graphics.Handle(program), nil
}

func (d *Device) ProgramStatus(h graphics.Handle) (bool, string) {
	var status int32
	gl.GetProgramiv(uint32(h), gl.LINK_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}
	var logLength int32
	gl.GetProgramiv(uint32(h), gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(h), logLength, nil, gl.Str(log))
	return false, log
}

func (d *Device) UseProgram(h graphics.Handle) {
	gl.UseProgram(uint32(h))
}

func (d *Device) DeleteProgram(h graphics.Handle) {
	gl.DeleteProgram(uint32(h))
}

func (d *Device) CreateBuffer(target graphics.BufferTarget, data []byte) (graphics.Handle, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty %s buffer", graphics.ErrBufferAllocation, target)
	}
	drainErrors()

	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers returned 0", graphics.ErrBufferAllocation)
	}
	t := bufferTarget(target)
	// element buffers bind to the VAO, keep that binding out of whatever VAO is current
	gl.BindVertexArray(0)
	gl.BindBuffer(t, buf)
	gl.BufferData(t, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	code := gl.GetError()
	gl.BindBuffer(t, 0)
	if code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &buf)
		return 0, fmt.Errorf("%w: %s buffer of %d bytes: %s", graphics.ErrBufferAllocation, target, len(data), errorName(code))
	}
	return graphics.Handle(buf), nil
}

func (d *Device) ReadBuffer(target graphics.BufferTarget, h graphics.Handle) ([]byte, error) {
	t := bufferTarget(target)
	gl.BindVertexArray(0)
	gl.BindBuffer(t, uint32(h))
	defer gl.BindBuffer(t, 0)

	var size int32
	gl.GetBufferParameteriv(t, gl.BUFFER_SIZE, &size)
	if size <= 0 {
		return nil, fmt.Errorf("%s buffer %d is empty", target, h)
	}
	out := make([]byte, size)
	gl.GetBufferSubData(t, 0, int(size), gl.Ptr(out))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("read %s buffer %d: %s", target, h, errorName(code))
	}
	return out, nil
}

func (d *Device) DeleteBuffer(h graphics.Handle) {
	buf := uint32(h)
	gl.DeleteBuffers(1, &buf)
}

func (d *Device) CreateVertexArray(vertices, indices graphics.Handle, layout graphics.AttributeLayout) (graphics.Handle, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("glGenVertexArrays returned 0")
	}
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vertices))
	if indices != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indices))
	}
	gl.VertexAttribPointerWithOffset(layout.Location, layout.Components, gl.FLOAT, layout.Normalized, layout.Stride, uintptr(layout.Offset))
	gl.EnableVertexAttribArray(layout.Location)

	// unbind to reduce accidental state changes
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteVertexArrays(1, &vao)
		return 0, fmt.Errorf("vertex array setup: %s", errorName(code))
	}
	return graphics.Handle(vao), nil
}

func (d *Device) DeleteVertexArray(h graphics.Handle) {
	vao := uint32(h)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.width, d.height = width, height
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (d *Device) DrawArrays(vao graphics.Handle, first, count int) {
	gl.BindVertexArray(uint32(vao))
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func (d *Device) DrawElements(vao graphics.Handle, count int) {
	gl.BindVertexArray(uint32(vao))
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
}

// ReadPixels reads the back buffer, so call it before presenting
func (d *Device) ReadPixels() (*image.RGBA, error) {
	w, h := d.width, d.height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("read pixels: empty viewport %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("read pixels: %s", errorName(code))
	}
	// GL rows start at the bottom
	stride := img.Stride
	row := make([]byte, stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*stride : (top+1)*stride]
		b := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
	return img, nil
}

func drainErrors() {
	for i := 0; i < 16 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("GL error 0x%x", code)
}

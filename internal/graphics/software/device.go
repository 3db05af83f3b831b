// Package software is an in-memory graphics.Device. It keeps exact copies of
// uploaded buffers and rasterizes draw calls on the CPU, which makes it the
// device of choice for tests and for the headless backend.
package software

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"circlegl/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

var _ graphics.Device = (*Device)(nil)

type shader struct {
	stage graphics.Stage
	ok    bool
	log   string
}

type program struct {
	ok  bool
	log string
}

type buffer struct {
	target graphics.BufferTarget
	data   []byte
}

type vertexArray struct {
	vertices graphics.Handle
	indices  graphics.Handle
	layout   graphics.AttributeLayout
}

// Stats counts the work a Device has been asked to do
type Stats struct {
	Clears        int
	DrawCalls     int
	LastDrawCount int
	LastIndexed   bool
	Triangles     int
}

// Options configures a Device
type Options struct {
	Width, Height int
	// Fill is the colour every fragment gets. The fragment shader is not evaluated.
	Fill color.RGBA
	// MaxBufferBytes makes larger allocations fail; zero means unlimited
	MaxBufferBytes int
}

// Device rasterizes into an RGBA image
type Device struct {
	opts Options
	img  *image.RGBA

	next     graphics.Handle
	shaders  map[graphics.Handle]*shader
	programs map[graphics.Handle]*program
	buffers  map[graphics.Handle]*buffer
	vaos     map[graphics.Handle]*vertexArray

	current   graphics.Handle
	viewport  image.Rectangle
	wireframe bool
	stats     Stats
}

// New creates a device with a framebuffer of the given size
func New(opts Options) *Device {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.Fill == (color.RGBA{}) {
		opts.Fill = color.RGBA{R: 255, G: 128, B: 51, A: 255}
	}
	return &Device{
		opts:     opts,
		img:      image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		shaders:  make(map[graphics.Handle]*shader),
		programs: make(map[graphics.Handle]*program),
		buffers:  make(map[graphics.Handle]*buffer),
		vaos:     make(map[graphics.Handle]*vertexArray),
		viewport: image.Rect(0, 0, opts.Width, opts.Height),
	}
}

func (d *Device) handle() graphics.Handle {
	d.next++
	return d.next
}

// Stats returns the work counters
func (d *Device) Stats() Stats {
	return d.stats
}

// CurrentProgram returns the program selected by UseProgram
func (d *Device) CurrentProgram() graphics.Handle {
	return d.current
}

// Live returns how many shaders, programs, buffers and vertex arrays are allocated
func (d *Device) Live() (shaders, programs, buffers, vaos int) {
	return len(d.shaders), len(d.programs), len(d.buffers), len(d.vaos)
}

func (d *Device) CreateShader(stage graphics.Stage, source string) (graphics.Handle, error) {
	if stage != graphics.StageVertex && stage != graphics.StageFragment {
		return 0, fmt.Errorf("unsupported stage %v", stage)
	}
	s := &shader{stage: stage}
	s.log = checkSource(source)
	s.ok = s.log == ""
	h := d.handle()
	d.shaders[h] = s
	return h, nil
}

// checkSource accepts anything that looks like a GLSL translation unit
func checkSource(source string) string {
	src := strings.TrimSpace(source)
	var problems []string
	if !strings.HasPrefix(src, "#version") {
		problems = append(problems, "0:1(1): error: missing #version directive")
	}
	if !strings.Contains(src, "void main") {
		problems = append(problems, "0:1(1): error: entry point main() not defined")
	}
	if strings.Count(src, "{") != strings.Count(src, "}") {
		problems = append(problems, "0:1(1): error: unbalanced braces")
	}
	return strings.Join(problems, "\n")
}

func (d *Device) ShaderStatus(h graphics.Handle) (bool, string) {
	s, ok := d.shaders[h]
	if !ok {
		return false, fmt.Sprintf("no shader %d", h)
	}
	return s.ok, s.log
}

func (d *Device) DeleteShader(h graphics.Handle) {
	delete(d.shaders, h)
}

func (d *Device) CreateProgram(vertex, fragment graphics.Handle) (graphics.Handle, error) {
	p := &program{ok: true}
	var logs []string
	for _, want := range []struct {
		h     graphics.Handle
		stage graphics.Stage
	}{{vertex, graphics.StageVertex}, {fragment, graphics.StageFragment}} {
		s, ok := d.shaders[want.h]
		switch {
		case !ok:
			logs = append(logs, fmt.Sprintf("error: %s shader %d does not exist", want.stage, want.h))
		case s.stage != want.stage:
			logs = append(logs, fmt.Sprintf("error: shader %d is a %s shader", want.h, s.stage))
		case !s.ok:
			logs = append(logs, fmt.Sprintf("error: linking with uncompiled %s shader", want.stage))
		}
	}
	if len(logs) > 0 {
		p.ok = false
		p.log = strings.Join(logs, "\n")
	}
	h := d.handle()
	d.programs[h] = p
	return h, nil
}

func (d *Device) ProgramStatus(h graphics.Handle) (bool, string) {
	p, ok := d.programs[h]
	if !ok {
		return false, fmt.Sprintf("no program %d", h)
	}
	return p.ok, p.log
}

func (d *Device) UseProgram(h graphics.Handle) {
	d.current = h
}

func (d *Device) DeleteProgram(h graphics.Handle) {
	delete(d.programs, h)
	if d.current == h {
		d.current = 0
	}
}

func (d *Device) CreateBuffer(target graphics.BufferTarget, data []byte) (graphics.Handle, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty %s buffer", graphics.ErrBufferAllocation, target)
	}
	if d.opts.MaxBufferBytes > 0 && len(data) > d.opts.MaxBufferBytes {
		return 0, fmt.Errorf("%w: %d bytes exceeds %d", graphics.ErrBufferAllocation, len(data), d.opts.MaxBufferBytes)
	}
	h := d.handle()
	d.buffers[h] = &buffer{target: target, data: bytes.Clone(data)}
	return h, nil
}

func (d *Device) ReadBuffer(target graphics.BufferTarget, h graphics.Handle) ([]byte, error) {
	b, ok := d.buffers[h]
	if !ok || b.target != target {
		return nil, fmt.Errorf("no %s buffer %d", target, h)
	}
	return bytes.Clone(b.data), nil
}

func (d *Device) DeleteBuffer(h graphics.Handle) {
	delete(d.buffers, h)
}

func (d *Device) CreateVertexArray(vertices, indices graphics.Handle, layout graphics.AttributeLayout) (graphics.Handle, error) {
	if _, ok := d.buffers[vertices]; !ok {
		return 0, fmt.Errorf("no vertex buffer %d", vertices)
	}
	if indices != 0 {
		if _, ok := d.buffers[indices]; !ok {
			return 0, fmt.Errorf("no index buffer %d", indices)
		}
	}
	h := d.handle()
	d.vaos[h] = &vertexArray{vertices: vertices, indices: indices, layout: layout}
	return h, nil
}

func (d *Device) DeleteVertexArray(h graphics.Handle) {
	delete(d.vaos, h)
}

// Viewport takes GL coordinates, origin at the bottom left
func (d *Device) Viewport(x, y, width, height int) {
	h := d.img.Bounds().Dy()
	d.viewport = image.Rect(x, h-(y+height), x+width, h-y)
}

// ViewportRect returns the viewport in image coordinates
func (d *Device) ViewportRect() image.Rectangle {
	return d.viewport
}

func (d *Device) Clear(c mgl32.Vec4) {
	d.stats.Clears++
	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(toRGBA(c)), image.Point{}, draw.Src)
}

func (d *Device) SetWireframe(enabled bool) {
	d.wireframe = enabled
}

func (d *Device) DrawArrays(vao graphics.Handle, first, count int) {
	d.stats.DrawCalls++
	d.stats.LastDrawCount = count
	d.stats.LastIndexed = false

	_, pos, ok := d.positions(vao)
	if !ok {
		return
	}
	var tris [][3]mgl32.Vec2
	for i := first; i+2 < first+count && i+2 < len(pos); i += 3 {
		tris = append(tris, [3]mgl32.Vec2{pos[i], pos[i+1], pos[i+2]})
	}
	d.rasterize(tris)
}

func (d *Device) DrawElements(vao graphics.Handle, count int) {
	d.stats.DrawCalls++
	d.stats.LastDrawCount = count
	d.stats.LastIndexed = true

	va, pos, ok := d.positions(vao)
	if !ok || va.indices == 0 {
		return
	}
	raw := d.buffers[va.indices].data
	n := min(count, len(raw)/4)
	var tris [][3]mgl32.Vec2
	for i := 0; i+2 < n; i += 3 {
		var tri [3]mgl32.Vec2
		valid := true
		for k := 0; k < 3; k++ {
			idx := int(binary.NativeEndian.Uint32(raw[(i+k)*4:]))
			if idx >= len(pos) {
				valid = false
				break
			}
			tri[k] = pos[idx]
		}
		if valid {
			tris = append(tris, tri)
		}
	}
	d.rasterize(tris)
}

// positions decodes the x,y of every vertex of vao, provided a linked program is current.
// Drawing with a broken program produces no fragments.
func (d *Device) positions(vao graphics.Handle) (*vertexArray, []mgl32.Vec2, bool) {
	p, ok := d.programs[d.current]
	if !ok || !p.ok {
		return nil, nil, false
	}
	va, ok := d.vaos[vao]
	if !ok {
		return nil, nil, false
	}
	vb, ok := d.buffers[va.vertices]
	if !ok {
		return nil, nil, false
	}
	l := va.layout
	var out []mgl32.Vec2
	for off := l.Offset; off+int(l.Components)*graphics.Float32Size <= len(vb.data); off += int(l.Stride) {
		var v mgl32.Vec2
		for c := 0; c < int(l.Components) && c < 2; c++ {
			bits := binary.NativeEndian.Uint32(vb.data[off+c*graphics.Float32Size:])
			v[c] = math.Float32frombits(bits)
		}
		out = append(out, v)
	}
	return va, out, true
}

// Image returns the framebuffer without copying
func (d *Device) Image() *image.RGBA {
	return d.img
}

func (d *Device) ReadPixels() (*image.RGBA, error) {
	out := image.NewRGBA(d.img.Bounds())
	copy(out.Pix, d.img.Pix)
	return out, nil
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

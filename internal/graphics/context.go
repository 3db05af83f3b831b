package graphics

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// FailurePolicy decides what happens when a shader stage fails to compile or link
type FailurePolicy int

const (
	// FailFast stops at the first compile or link error
	FailFast FailurePolicy = iota
	// Permissive logs compile and link errors and keeps going with the possibly broken program
	Permissive
)

func (p FailurePolicy) String() string {
	if p == Permissive {
		return "permissive"
	}
	return "fatal"
}

func (p FailurePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *FailurePolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fatal", "fail-fast":
		*p = FailFast
	case "permissive":
		*p = Permissive
	default:
		return fmt.Errorf("unknown shader failure policy %q", b)
	}
	return nil
}

// Context drives one Device from one thread. It owns the notion of the
// active program so callers never rely on hidden bind state.
type Context struct {
	dev    Device
	policy FailurePolicy
	log    *slog.Logger
	active *Program
}

// NewContext wraps dev. A nil logger discards diagnostics.
func NewContext(dev Device, policy FailurePolicy, log *slog.Logger) *Context {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Context{dev: dev, policy: policy, log: log}
}

// Device returns the wrapped device
func (c *Context) Device() Device {
	return c.dev
}

// Policy returns the shader failure policy
func (c *Context) Policy() FailurePolicy {
	return c.policy
}

// Active returns the program used by subsequent draws, or nil
func (c *Context) Active() *Program {
	return c.active
}

// Activate makes p the only program used by subsequent draw calls
func (c *Context) Activate(p *Program) {
	c.dev.UseProgram(p.handle)
	c.active = p
}

// Viewport maps normalized device coordinates to the given framebuffer area
func (c *Context) Viewport(width, height int) {
	c.dev.Viewport(0, 0, width, height)
}

// Clear fills the color buffer
func (c *Context) Clear(color mgl32.Vec4) {
	c.dev.Clear(color)
}

// SetWireframe switches between filled and outlined triangles
func (c *Context) SetWireframe(enabled bool) {
	c.dev.SetWireframe(enabled)
}

// Draw issues exactly one draw call for d using its recorded topology
func (c *Context) Draw(d *Drawable) error {
	if c.active == nil {
		return ErrNoActiveProgram
	}
	if d.Indexed() {
		c.dev.DrawElements(d.VertexArray, d.IndexCount)
	} else {
		c.dev.DrawArrays(d.VertexArray, 0, d.VertexCount)
	}
	return nil
}

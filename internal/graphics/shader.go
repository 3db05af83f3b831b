package graphics

import (
	"errors"
	"fmt"
	"strings"
)

// Stage is a programmable pipeline stage
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// CompiledStage is a shader object produced by Compile. It is only needed
// until the program it belongs to is linked.
type CompiledStage struct {
	Stage  Stage
	handle Handle
	ok     bool
}

// OK reports whether the stage compiled cleanly
func (s *CompiledStage) OK() bool {
	return s.ok
}

// Program is a linked shader program
type Program struct {
	handle Handle
	linked bool
}

// Handle returns the device handle of the program
func (p *Program) Handle() Handle {
	return p.handle
}

// Linked reports whether the device accepted the program. Only permissive
// builds can hand out programs that did not link.
func (p *Program) Linked() bool {
	return p.linked
}

// checkCompileStatus turns the device's compile status for shader into an error
func checkCompileStatus(dev Device, stage Stage, shader Handle) error {
	ok, log := dev.ShaderStatus(shader)
	if ok {
		return nil
	}
	return &CompileError{Stage: stage, Log: trimLog(log)}
}

func checkLinkStatus(dev Device, program Handle) error {
	ok, log := dev.ProgramStatus(program)
	if ok {
		return nil
	}
	return &LinkError{Log: trimLog(log)}
}

// GL info logs come back NUL padded
func trimLog(log string) string {
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}

// Compile compiles source for one stage. On a compile error the returned
// stage is still non-nil so a permissive caller can go on to link it.
func (c *Context) Compile(stage Stage, source string) (*CompiledStage, error) {
	h, err := c.dev.CreateShader(stage, source)
	if err != nil {
		return nil, fmt.Errorf("create %s shader: %w", stage, err)
	}
	cs := &CompiledStage{Stage: stage, handle: h}
	if err := checkCompileStatus(c.dev, stage, h); err != nil {
		return cs, err
	}
	cs.ok = true
	return cs, nil
}

// Link links a vertex and a fragment stage into a program. On a link error
// the returned program is still non-nil for permissive callers.
func (c *Context) Link(vertex, fragment *CompiledStage) (*Program, error) {
	if vertex.Stage != StageVertex || fragment.Stage != StageFragment {
		return nil, fmt.Errorf("link: want vertex and fragment stages, got %s and %s", vertex.Stage, fragment.Stage)
	}
	h, err := c.dev.CreateProgram(vertex.handle, fragment.handle)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}
	p := &Program{handle: h}
	if err := checkLinkStatus(c.dev, h); err != nil {
		return p, err
	}
	p.linked = true
	return p, nil
}

// ReleaseStage deletes a compiled stage. Linked programs keep working.
func (c *Context) ReleaseStage(s *CompiledStage) {
	if s != nil && s.handle != 0 {
		c.dev.DeleteShader(s.handle)
		s.handle = 0
	}
}

// DeleteProgram frees p, deactivating it first if needed
func (c *Context) DeleteProgram(p *Program) {
	if p == nil || p.handle == 0 {
		return
	}
	if c.active == p {
		c.dev.UseProgram(0)
		c.active = nil
	}
	c.dev.DeleteProgram(p.handle)
	p.handle = 0
}

// BuildProgram compiles both stages, links them and releases the stage objects.
// Under FailFast the first diagnostic is returned as an error. Under
// Permissive every diagnostic is logged and the program is returned anyway.
func (c *Context) BuildProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := c.Compile(StageVertex, vertexSrc)
	if err = c.tolerate(err); err != nil {
		c.ReleaseStage(vs)
		return nil, err
	}
	defer c.ReleaseStage(vs)

	fs, err := c.Compile(StageFragment, fragmentSrc)
	if err = c.tolerate(err); err != nil {
		c.ReleaseStage(fs)
		return nil, err
	}
	defer c.ReleaseStage(fs)

	p, err := c.Link(vs, fs)
	if err = c.tolerate(err); err != nil {
		c.DeleteProgram(p)
		return nil, err
	}
	c.log.Debug("shader program built", "program", p.handle, "linked", p.linked)
	return p, nil
}

// tolerate applies the failure policy to a compile or link diagnostic
func (c *Context) tolerate(err error) error {
	if err == nil {
		return nil
	}
	var ce *CompileError
	var le *LinkError
	if c.policy == Permissive && (errors.As(err, &ce) || errors.As(err, &le)) {
		c.log.Error("shader diagnostic ignored", "policy", c.policy, "err", err)
		return nil
	}
	return err
}

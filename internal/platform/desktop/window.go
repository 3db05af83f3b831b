// Package desktop opens a GLFW window with an OpenGL core context.
package desktop

import (
	"fmt"

	"circlegl/internal/platform"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var _ platform.Window = (*Window)(nil)

// Options configures the window and its context
type Options struct {
	Width, Height int
	Title         string
	GLMajor       int
	GLMinor       int
	SwapInterval  int
	Resizable     bool
}

// Window wraps a GLFW window. Callbacks only queue events.
type Window struct {
	win    *glfw.Window
	events platform.Queue
}

// Open initializes GLFW and creates the window, making its context current.
// The caller must be on the locked main thread.
func Open(opts Options) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, opts.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, opts.GLMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if opts.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(opts.SwapInterval)

	w := &Window{win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.events.Push(platform.ResizeEvent{Width: width, Height: height})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		w.events.Push(platform.KeyEvent{
			Key:      int(key),
			Scancode: scancode,
			Action:   keyAction(action),
			Mods:     int(mods),
		})
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.events.Push(platform.CloseEvent{})
	})
	return w, nil
}

func keyAction(a glfw.Action) platform.KeyAction {
	switch a {
	case glfw.Press:
		return platform.KeyPress
	case glfw.Repeat:
		return platform.KeyRepeat
	}
	return platform.KeyRelease
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

func (w *Window) PollEvents() []platform.Event {
	glfw.PollEvents()
	return w.events.Drain()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// Close destroys the window and terminates GLFW
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

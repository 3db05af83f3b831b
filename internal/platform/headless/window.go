// Package headless provides an offscreen platform.Window for CI runs and tests.
package headless

import "circlegl/internal/platform"

var _ platform.Window = (*Window)(nil)

// Window requests close after a fixed number of presented frames
type Window struct {
	width, height int
	maxFrames     int
	frames        int
	closed        bool
	events        platform.Queue
}

// New creates a window of the given size. maxFrames <= 0 never closes on its own.
func New(width, height, maxFrames int) *Window {
	return &Window{width: width, height: height, maxFrames: maxFrames}
}

// Push queues an event for the next poll, as a window system callback would
func (w *Window) Push(e platform.Event) {
	if r, ok := e.(platform.ResizeEvent); ok {
		w.width, w.height = r.Width, r.Height
	}
	w.events.Push(e)
}

// RequestClose sets the close flag
func (w *Window) RequestClose() {
	w.closed = true
}

// Frames returns how many frames were presented
func (w *Window) Frames() int {
	return w.frames
}

func (w *Window) ShouldClose() bool {
	return w.closed || (w.maxFrames > 0 && w.frames >= w.maxFrames)
}

func (w *Window) SwapBuffers() {
	w.frames++
}

func (w *Window) PollEvents() []platform.Event {
	return w.events.Drain()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *Window) Close() {
	w.closed = true
}

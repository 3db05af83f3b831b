// Package platform describes the window the render loop presents to and the
// events it delivers. Window callbacks are turned into Event values that the
// loop handles explicitly once per frame.
package platform

import "fmt"

// Event is something the window reported since the last poll
type Event interface {
	isEvent()
}

// ResizeEvent reports a new framebuffer size in pixels
type ResizeEvent struct {
	Width, Height int
}

// KeyAction is what happened to a key
type KeyAction int

const (
	KeyRelease KeyAction = iota
	KeyPress
	KeyRepeat
)

func (a KeyAction) String() string {
	switch a {
	case KeyRelease:
		return "release"
	case KeyPress:
		return "press"
	case KeyRepeat:
		return "repeat"
	}
	return fmt.Sprintf("KeyAction(%d)", int(a))
}

// KeyEvent reports a keyboard key change. Key and Mods use GLFW numbering.
type KeyEvent struct {
	Key      int
	Scancode int
	Action   KeyAction
	Mods     int
}

// CloseEvent reports a close request from the user or the window system
type CloseEvent struct{}

func (ResizeEvent) isEvent() {}
func (KeyEvent) isEvent()    {}
func (CloseEvent) isEvent()  {}

// Window is a rendering surface with a current graphics context
type Window interface {
	// ShouldClose reports whether a close was requested
	ShouldClose() bool
	// SwapBuffers presents the rendered frame
	SwapBuffers()
	// PollEvents processes pending window system events and returns them in order
	PollEvents() []Event
	// FramebufferSize returns the drawable size in pixels
	FramebufferSize() (width, height int)
	// Close destroys the window and its context
	Close()
}

// Queue collects events between polls
type Queue struct {
	events []Event
}

// Push appends an event
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns the queued events and empties the queue
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

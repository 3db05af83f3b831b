package render

import (
	"fmt"
	"log/slog"
	"time"

	"circlegl/internal/graphics"
	"circlegl/internal/platform"
	"circlegl/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// State of the render loop
type State int

const (
	StateRunning State = iota
	StateClosing
)

func (s State) String() string {
	if s == StateClosing {
		return "closing"
	}
	return "running"
}

// Options tunes the loop
type Options struct {
	ClearColor mgl32.Vec4
	Wireframe  bool
	FPSLimit   int
	// MaxFrames closes the loop after that many frames; 0 runs until the window closes
	MaxFrames int
	// Screenshot, when set, receives the first rendered frame
	Screenshot string
}

// Loop draws one immutable Drawable with one Program every frame until the window closes
type Loop struct {
	win      platform.Window
	ctx      *graphics.Context
	drawable *graphics.Drawable
	program  *graphics.Program
	opts     Options
	log      *slog.Logger

	state   State
	frames  int
	prof    *profiling.Frame
	limiter *FPSLimiter
}

// NewLoop prepares a loop in the Running state. The window, drawable and
// program must be ready.
func NewLoop(win platform.Window, ctx *graphics.Context, d *graphics.Drawable, p *graphics.Program, opts Options, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		win:      win,
		ctx:      ctx,
		drawable: d,
		program:  p,
		opts:     opts,
		log:      log,
		state:    StateRunning,
		prof:     profiling.NewFrame(),
		limiter:  NewFPSLimiter(opts.FPSLimit),
	}
}

// State returns the current state
func (l *Loop) State() State {
	return l.state
}

// Frames returns the number of frames presented
func (l *Loop) Frames() int {
	return l.frames
}

// Run renders until the close signal is observed at the top of an iteration
func (l *Loop) Run() error {
	w, h := l.win.FramebufferSize()
	l.ctx.Viewport(w, h)
	l.ctx.SetWireframe(l.opts.Wireframe)

	fpsFrames := 0
	lastFPSCheck := time.Now()

	for l.state == StateRunning {
		if l.win.ShouldClose() {
			l.state = StateClosing
			break
		}
		if err := l.Frame(); err != nil {
			l.state = StateClosing
			return err
		}
		fpsFrames++

		if time.Since(lastFPSCheck) >= time.Second {
			l.log.Info("fps", "fps", fpsFrames, "top", l.prof.TopN(3))
			fpsFrames = 0
			lastFPSCheck = time.Now()
		}
		if l.opts.MaxFrames > 0 && l.frames >= l.opts.MaxFrames {
			l.state = StateClosing
		}
		l.limiter.Wait()
	}
	l.log.Info("render loop finished", "frames", l.frames)
	return nil
}

// Frame runs one iteration: clear, draw, present, then handle window events
func (l *Loop) Frame() error {
	l.prof.Reset()

	func() {
		defer l.prof.Track("render.Clear")()
		l.ctx.Clear(l.opts.ClearColor)
	}()

	var err error
	func() {
		defer l.prof.Track("render.Draw")()
		l.ctx.Activate(l.program)
		err = l.ctx.Draw(l.drawable)
	}()
	if err != nil {
		return fmt.Errorf("frame %d: %w", l.frames, err)
	}

	if l.frames == 0 && l.opts.Screenshot != "" {
		if err := l.screenshot(); err != nil {
			l.log.Error("screenshot failed", "path", l.opts.Screenshot, "err", err)
		}
	}

	func() { defer l.prof.Track("glfw.SwapBuffers")(); l.win.SwapBuffers() }()
	l.frames++

	var events []platform.Event
	func() { defer l.prof.Track("glfw.PollEvents")(); events = l.win.PollEvents() }()
	for _, ev := range events {
		l.Handle(ev)
	}
	return nil
}

// Handle applies one window event. Geometry and program never change here.
func (l *Loop) Handle(ev platform.Event) {
	switch e := ev.(type) {
	case platform.ResizeEvent:
		l.ctx.Viewport(e.Width, e.Height)
		l.log.Debug("viewport resized", "width", e.Width, "height", e.Height)
	case platform.KeyEvent:
		l.log.Info("key callback", "key", e.Key, "scancode", e.Scancode, "action", e.Action, "mods", e.Mods)
	case platform.CloseEvent:
		l.state = StateClosing
	}
}

func (l *Loop) screenshot() error {
	img, err := l.ctx.Device().ReadPixels()
	if err != nil {
		return err
	}
	if err := WriteImage(l.opts.Screenshot, img); err != nil {
		return err
	}
	l.log.Info("screenshot written", "path", l.opts.Screenshot)
	return nil
}

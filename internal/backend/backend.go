// Package backend opens the window and device pair named by the config.
package backend

import (
	"fmt"
	"log/slog"

	"circlegl/internal/config"
	"circlegl/internal/graphics"
	"circlegl/internal/graphics/opengl"
	"circlegl/internal/graphics/software"
	"circlegl/internal/platform"
	"circlegl/internal/platform/desktop"
	"circlegl/internal/platform/headless"
)

// Open creates the window and its device. For the opengl backend it must
// run on the locked main thread.
func Open(cfg *config.Config, log *slog.Logger) (platform.Window, graphics.Device, error) {
	switch cfg.Backend {
	case config.BackendOpenGL:
		win, err := desktop.Open(desktop.Options{
			Width:        cfg.Window.Width,
			Height:       cfg.Window.Height,
			Title:        cfg.Window.Title,
			GLMajor:      cfg.Window.GLMajor,
			GLMinor:      cfg.Window.GLMinor,
			SwapInterval: cfg.Window.SwapInterval,
			Resizable:    cfg.Window.Resizable,
		})
		if err != nil {
			return nil, nil, err
		}
		dev, err := opengl.New()
		if err != nil {
			win.Close()
			return nil, nil, err
		}
		version, renderer := dev.Version()
		log.Info("OpenGL context ready", "version", version, "renderer", renderer)
		return win, dev, nil

	case config.BackendHeadless:
		frames := cfg.Render.MaxFrames
		if frames == 0 {
			frames = 1
		}
		win := headless.New(cfg.Window.Width, cfg.Window.Height, frames)
		dev := software.New(software.Options{Width: cfg.Window.Width, Height: cfg.Window.Height})
		log.Info("headless backend ready", "width", cfg.Window.Width, "height", cfg.Window.Height, "frames", frames)
		return win, dev, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Package app wires a configured run: shaders, mesh, upload and render loop.
package app

import (
	"fmt"
	"log/slog"

	"circlegl/internal/assets"
	"circlegl/internal/config"
	"circlegl/internal/geometry"
	"circlegl/internal/graphics"
	"circlegl/internal/platform"
	"circlegl/internal/render"
)

// App owns the GPU resources of one run
type App struct {
	cfg  *config.Config
	win  platform.Window
	ctx  *graphics.Context
	log  *slog.Logger
	prog *graphics.Program
	draw *graphics.Drawable
	loop *render.Loop
}

// New builds the shader program and uploads the configured mesh. On error
// everything created so far is released again.
func New(cfg *config.Config, win platform.Window, dev graphics.Device, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{
		cfg: cfg,
		win: win,
		ctx: graphics.NewContext(dev, cfg.Shaders.OnFailure, log),
		log: log,
	}

	vs, fs, err := assets.ShaderSources(cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if err != nil {
		return nil, err
	}
	a.prog, err = a.ctx.BuildProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("shader program: %w", err)
	}

	mesh, err := geometry.Build(cfg.Mesh.Shape, cfg.Mesh.Subdivisions, cfg.Mesh.Topology)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.draw, err = a.ctx.Upload(mesh, graphics.PositionLayout())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("upload %s mesh: %w", cfg.Mesh.Shape, err)
	}
	log.Info("mesh uploaded",
		"shape", cfg.Mesh.Shape,
		"topology", mesh.Topology,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())

	a.loop = render.NewLoop(win, a.ctx, a.draw, a.prog, render.Options{
		ClearColor: cfg.ClearColor(),
		Wireframe:  cfg.Render.Wireframe,
		FPSLimit:   cfg.Render.FPSLimit,
		MaxFrames:  cfg.Render.MaxFrames,
		Screenshot: cfg.Render.Screenshot,
	}, log)
	return a, nil
}

// Loop returns the render loop
func (a *App) Loop() *render.Loop {
	return a.loop
}

// Run renders until the window closes
func (a *App) Run() error {
	return a.loop.Run()
}

// Close releases the mesh and program
func (a *App) Close() {
	if a.draw != nil {
		a.ctx.Release(a.draw)
		a.draw = nil
	}
	if a.prog != nil {
		a.ctx.DeleteProgram(a.prog)
		a.prog = nil
	}
}

// Run is New, Run and Close in one call
func Run(cfg *config.Config, win platform.Window, dev graphics.Device, log *slog.Logger) error {
	a, err := New(cfg, win, dev, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run()
}

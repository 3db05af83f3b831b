package main

import (
	"os"
	"runtime"

	"circlegl/internal/app"
	"circlegl/internal/backend"
	"circlegl/internal/config"
	"circlegl/internal/geometry"
	"circlegl/internal/logging"

	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

// Same pipeline as cmd/circle, pinned to the single triangle
func main() {
	defer closer.Close()

	cfg, err := config.FromEnv()
	if err != nil {
		closer.Fatalln(err)
	}
	cfg.Mesh.Shape = geometry.ShapeTriangle
	log, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		closer.Fatalln(err)
	}

	win, dev, err := backend.Open(cfg, log)
	if err != nil {
		closer.Fatalln(err)
	}
	err = app.Run(cfg, win, dev, log)
	win.Close()
	if err != nil {
		closer.Fatalln(err)
	}
}

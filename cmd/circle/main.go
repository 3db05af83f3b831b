package main

import (
	"log/slog"
	"os"
	"runtime"

	"circlegl/internal/app"
	"circlegl/internal/backend"
	"circlegl/internal/config"
	"circlegl/internal/logging"

	"github.com/xlab/closer"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	cfg, err := config.FromEnv()
	if err != nil {
		closer.Fatalln(err)
	}
	log, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(func() { log.Info("exiting") })

	if err := run(cfg, log); err != nil {
		log.Error("run failed", "err", err)
		closer.Fatalln(err)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	win, dev, err := backend.Open(cfg, log)
	if err != nil {
		return err
	}
	defer win.Close()
	return app.Run(cfg, win, dev, log)
}

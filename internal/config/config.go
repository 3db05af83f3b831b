package config

import (
	"errors"
	"fmt"
	"os"

	"circlegl/internal/geometry"
	"circlegl/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding an optional config file path
const EnvPath = "CIRCLE_CONFIG"

// Backends
const (
	BackendOpenGL   = "opengl"
	BackendHeadless = "headless"
)

// Config holds every tunable of a run
type Config struct {
	Backend string  `yaml:"backend"`
	Window  Window  `yaml:"window"`
	Mesh    Mesh    `yaml:"mesh"`
	Render  Render  `yaml:"render"`
	Shaders Shaders `yaml:"shaders"`
	Log     Log     `yaml:"log"`
}

// Window holds window and context settings
type Window struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Title        string `yaml:"title"`
	GLMajor      int    `yaml:"gl_major"`
	GLMinor      int    `yaml:"gl_minor"`
	SwapInterval int    `yaml:"swap_interval"`
	Resizable    bool   `yaml:"resizable"`
}

// Mesh selects the generated geometry
type Mesh struct {
	Shape        string            `yaml:"shape"`
	Subdivisions int               `yaml:"subdivisions"`
	Topology     geometry.Topology `yaml:"topology"`
}

// Render holds frame loop settings
type Render struct {
	ClearColor []float32 `yaml:"clear_color"`
	Wireframe  bool      `yaml:"wireframe"`
	// FPSLimit caps the frame rate; 0 disables the limiter
	FPSLimit int `yaml:"fps_limit"`
	// MaxFrames stops the loop after that many frames; 0 runs until closed
	MaxFrames int `yaml:"max_frames"`
	// Screenshot writes the first frame to this path (.png, .bmp, .tif)
	Screenshot string `yaml:"screenshot"`
}

// Shaders overrides the embedded shader sources and picks the failure policy
type Shaders struct {
	Vertex    string                 `yaml:"vertex"`
	Fragment  string                 `yaml:"fragment"`
	OnFailure graphics.FailurePolicy `yaml:"on_failure"`
}

// Log configures the process logger
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings of the reference program: an 800x600
// "LearnOpenGL" window with a 3.3 core context and an 8-slice indexed circle.
func Default() *Config {
	return &Config{
		Backend: BackendOpenGL,
		Window: Window{
			Width:        800,
			Height:       600,
			Title:        "LearnOpenGL",
			GLMajor:      3,
			GLMinor:      3,
			SwapInterval: 1,
			Resizable:    true,
		},
		Mesh: Mesh{
			Shape:        geometry.ShapeCircle,
			Subdivisions: 8,
			Topology:     geometry.TopologyIndexed,
		},
		Render: Render{
			ClearColor: []float32{0.2, 0.3, 0.3, 1.0},
		},
		Shaders: Shaders{
			OnFailure: graphics.FailFast,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by $CIRCLE_CONFIG, or the defaults when unset
func FromEnv() (*Config, error) {
	return Load(os.Getenv(EnvPath))
}

// Validate checks the settings and clamps the ones with a sensible range
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendOpenGL, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("backend: unknown %q", c.Backend))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.GLMajor < 3 || (c.Window.GLMajor == 3 && c.Window.GLMinor < 2) {
		errs = append(errs, fmt.Errorf("window: core profile needs GL 3.2+, got %d.%d", c.Window.GLMajor, c.Window.GLMinor))
	}
	switch c.Mesh.Shape {
	case geometry.ShapeCircle:
		if c.Mesh.Subdivisions < geometry.MinSubdivisions {
			errs = append(errs, fmt.Errorf("mesh: %w: %d", geometry.ErrInvalidSubdivision, c.Mesh.Subdivisions))
		}
	case geometry.ShapeTriangle, geometry.ShapeQuad:
	default:
		errs = append(errs, fmt.Errorf("mesh: %w: %q", geometry.ErrUnknownShape, c.Mesh.Shape))
	}
	if n := len(c.Render.ClearColor); n != 3 && n != 4 {
		errs = append(errs, fmt.Errorf("render: clear_color wants 3 or 4 components, got %d", n))
	}
	if c.Render.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("render: negative max_frames %d", c.Render.MaxFrames))
	}

	// Clamp to reasonable values
	if c.Render.FPSLimit < 0 {
		c.Render.FPSLimit = 0
	}
	if c.Render.FPSLimit > 1000 {
		c.Render.FPSLimit = 1000
	}
	return errors.Join(errs...)
}

// ClearColor returns the background colour, alpha defaulting to 1
func (c *Config) ClearColor() mgl32.Vec4 {
	col := mgl32.Vec4{0, 0, 0, 1}
	copy(col[:], c.Render.ClearColor)
	return col
}

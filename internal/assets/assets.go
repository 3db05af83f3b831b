// Package assets embeds the default shader sources.
package assets

import (
	"embed"
	"fmt"
	"os"
)

//go:embed shaders
var files embed.FS

// Default shader paths inside the embedded tree
const (
	VertexShader   = "shaders/basic.vert"
	FragmentShader = "shaders/basic.frag"
)

// ShaderSources returns the vertex and fragment sources. Non-empty override
// paths are read from disk instead of the embedded defaults.
func ShaderSources(vertexPath, fragmentPath string) (vertex, fragment string, err error) {
	vertex, err = read(vertexPath, VertexShader)
	if err != nil {
		return "", "", fmt.Errorf("could not read vertex shader file: %w", err)
	}
	fragment, err = read(fragmentPath, FragmentShader)
	if err != nil {
		return "", "", fmt.Errorf("could not read fragment shader file: %w", err)
	}
	return vertex, fragment, nil
}

func read(override, embedded string) (string, error) {
	if override != "" {
		b, err := os.ReadFile(override)
		return string(b), err
	}
	b, err := files.ReadFile(embedded)
	return string(b), err
}

package shader

import (
	"embed"
	"fmt"
	"os"
)

// Built-in sources are written against WebGL2 (GLSL ES 3.00) and translated
// for the target context before compilation.
//
//go:embed glsl/*.vert glsl/*.frag
var sources embed.FS

// Source returns the built-in vertex and fragment source for a scene.
func Source(scene string) (vertex, fragment string, err error) {
	v, err := sources.ReadFile("glsl/" + scene + ".vert")
	if err != nil {
		return "", "", fmt.Errorf("no built-in vertex shader for scene %q", scene)
	}
	f, err := sources.ReadFile("glsl/" + scene + ".frag")
	if err != nil {
		return "", "", fmt.Errorf("no built-in fragment shader for scene %q", scene)
	}
	return string(v), string(f), nil
}

// Load reads a shader source file.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("couldn't load shader %s: %w", path, err)
	}
	return string(data), nil
}

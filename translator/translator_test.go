package translator

import (
	"strings"
	"testing"
)

func TestMappedName(t *testing.T) {
	names := map[string]string{
		"position":    "_uposition",
		"textures":    "_utextures",
		"fade_factor": "_ufade_factor",
	}
	tests := []struct {
		in, want string
	}{
		{"position", "_uposition"},
		{"fade_factor", "_ufade_factor"},
		{"textures[0]", "_utextures[0]"},
		{"textures[1]", "_utextures[1]"},
		{"missing", "missing"},
		{"missing[2]", "missing[2]"},
	}
	for _, tt := range tests {
		if got := MappedName(names, tt.in); got != tt.want {
			t.Errorf("MappedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := MappedName(nil, "position"); got != "position" {
		t.Errorf("MappedName(nil) = %q", got)
	}
}

const passThroughFragment = `#version 300 es
precision mediump float;
in vec3 v_color;
out vec4 fragColor;
void main() {
    fragColor = vec4(v_color, 1.0);
}
`

func TestTranslateFragment(t *testing.T) {
	if _, err := GetTranslator(); err != nil {
		t.Skipf("translator unavailable: %v", err)
	}
	out, err := Translate(passThroughFragment, "fragment", false)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(out.Code, "main") {
		t.Fatalf("translated code has no entry point:\n%s", out.Code)
	}
}

func TestTranslateRejectsSyntaxError(t *testing.T) {
	if _, err := GetTranslator(); err != nil {
		t.Skipf("translator unavailable: %v", err)
	}
	broken := strings.Replace(passThroughFragment, "fragColor = vec4(v_color, 1.0);", "fragColor = vec4(v_color 1.0)", 1)
	if _, err := Translate(broken, "fragment", true); err == nil {
		t.Fatal("expected a translation error")
	}
}

package options

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("hello-gl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	o, err := Parse(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Width != 400 || o.Height != 300 || o.Title != "Hello World" {
		t.Fatalf("window = %dx%d %q", o.Width, o.Height, o.Title)
	}
	if o.Scene != "quad" || !o.VSync || o.DepthBits != 24 {
		t.Fatalf("defaults = %+v", o)
	}
	if o.Recording() {
		t.Fatal("recording by default")
	}
}

func TestFlagsOverride(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{"-width", "640", "-scene", "triangle", "-vsync=false", "-image2", "b.bmp"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Width != 640 || o.Height != 300 {
		t.Fatalf("size = %dx%d", o.Width, o.Height)
	}
	if o.Scene != "triangle" || o.VSync || o.Images[1] != "b.bmp" {
		t.Fatalf("options = %+v", o)
	}
}

func TestConfigFileThenFlags(t *testing.T) {
	path := writeConfig(t, `
width: 800
height: 600
title: From file
scene: triangle
images: [one.bmp, two.bmp]
clear_color: [0, 0, 0, 1]
record: out.mp4
frames: 10
`)
	o, err := Parse(newFlagSet(), []string{"-config", path, "-height", "480"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Width != 800 || o.Height != 480 {
		t.Fatalf("size = %dx%d, want file width and flag height", o.Width, o.Height)
	}
	if o.Title != "From file" || o.Scene != "triangle" {
		t.Fatalf("title %q scene %q", o.Title, o.Scene)
	}
	if o.Images != [2]string{"one.bmp", "two.bmp"} {
		t.Fatalf("images = %v", o.Images)
	}
	if o.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Fatalf("clear color = %v", o.ClearColor)
	}
	if !o.Recording() || o.Frames != 10 || o.FPS != 60 {
		t.Fatalf("record %q frames %d fps %d", o.Record, o.Frames, o.FPS)
	}
}

func TestLoadFileErrors(t *testing.T) {
	o := Defaults()
	if err := o.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if err := o.LoadFile(writeConfig(t, "width: [nope")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		ok     bool
	}{
		{"defaults", func(*Options) {}, true},
		{"zero width", func(o *Options) { o.Width = 0 }, false},
		{"negative height", func(o *Options) { o.Height = -1 }, false},
		{"unknown scene", func(o *Options) { o.Scene = "cube" }, false},
		{"depth test without buffer", func(o *Options) { o.DepthTest = true; o.DepthBits = 0 }, false},
		{"record", func(o *Options) { o.Record = "out.mp4" }, true},
		{"record without frames", func(o *Options) { o.Record = "out.mp4"; o.Frames = 0 }, false},
		{"record without fps", func(o *Options) { o.Record = "out.mp4"; o.FPS = 0 }, false},
		{"record bad codec", func(o *Options) { o.Record = "out.mp4"; o.Codec = "vp9" }, false},
		{"frames ignored in a window", func(o *Options) { o.Frames = 0 }, true},
		{"headless without frames", func(o *Options) { o.Headless = true; o.Frames = 0 }, false},
		{"headless negative frames", func(o *Options) { o.Headless = true; o.Frames = -3 }, false},
		{"headless", func(o *Options) { o.Headless = true }, true},
	}
	for _, tt := range tests {
		o := Defaults()
		tt.mutate(o)
		err := o.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate = %v", tt.name, err)
		}
	}
}

func TestHeadlessZeroFramesRejected(t *testing.T) {
	if _, err := Parse(newFlagSet(), []string{"-headless", "-frames", "0"}); err == nil {
		t.Fatal("expected an error for a headless run without a frame limit")
	}
}

func TestHelpSkipsValidation(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{"-help", "-width", "0"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !o.Help {
		t.Fatal("Help not set")
	}
}

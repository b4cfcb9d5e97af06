package options

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds every setting of a hello-gl run. Zero values are not
// meaningful; start from Defaults.
type Options struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	Scene  string `yaml:"scene"`

	// VertexShader and FragmentShader are optional paths replacing the built-in sources.
	VertexShader   string    `yaml:"vertex_shader"`
	FragmentShader string    `yaml:"fragment_shader"`
	Images         [2]string `yaml:"images"`

	ClearColor [4]float32 `yaml:"clear_color"`
	VSync      bool       `yaml:"vsync"`
	DepthBits  int        `yaml:"depth_bits"`
	DepthTest  bool       `yaml:"depth_test"`

	Headless bool `yaml:"headless"`

	// Record names an output video; it implies Headless.
	Record     string `yaml:"record"`
	Frames     int    `yaml:"frames"`
	FPS        int    `yaml:"fps"`
	Codec      string `yaml:"codec"`
	FFmpegPath string `yaml:"ffmpeg"`

	Help bool `yaml:"-"`
}

var scenes = map[string]bool{"quad": true, "triangle": true}

// Defaults is a 400x300 "Hello World" quad window with vsync and a 24-bit depth buffer.
func Defaults() *Options {
	return &Options{
		Width:      400,
		Height:     300,
		Title:      "Hello World",
		Scene:      "quad",
		ClearColor: [4]float32{1, 1, 1, 1},
		VSync:      true,
		DepthBits:  24,
		Frames:     300,
		FPS:        60,
		Codec:      "h264",
	}
}

// LoadFile overlays the YAML document at path onto o.
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Recording reports whether frames go to a video file.
func (o *Options) Recording() bool {
	return o.Record != ""
}

// Validate rejects settings no context or scene could honor.
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	if !scenes[o.Scene] {
		return fmt.Errorf("unknown scene %q (want quad or triangle)", o.Scene)
	}
	if o.DepthBits < 0 {
		return fmt.Errorf("invalid depth bits %d", o.DepthBits)
	}
	if o.DepthTest && o.DepthBits == 0 {
		return errors.New("depth test needs a depth buffer")
	}
	// Without a window nothing but the frame limit ends the loop.
	if (o.Headless || o.Recording()) && o.Frames <= 0 {
		return fmt.Errorf("invalid frame count %d", o.Frames)
	}
	if o.Recording() {
		if o.FPS <= 0 {
			return fmt.Errorf("invalid frame rate %d", o.FPS)
		}
		if o.Codec != "h264" && o.Codec != "hevc" {
			return fmt.Errorf("unsupported codec %q", o.Codec)
		}
	}
	return nil
}

// Flags binds command-line flags to a copy of the settings and applies the
// ones explicitly set on top of o after Parse.
type Flags struct {
	fs     *flag.FlagSet
	vals   Options
	Config string
}

// Register defines the hello-gl flags on fs, using o for the displayed defaults.
func Register(fs *flag.FlagSet, o *Options) *Flags {
	f := &Flags{fs: fs, vals: *o}
	v := &f.vals
	fs.StringVar(&f.Config, "config", "", "YAML configuration file")
	fs.IntVar(&v.Width, "width", o.Width, "Window width")
	fs.IntVar(&v.Height, "height", o.Height, "Window height")
	fs.StringVar(&v.Title, "title", o.Title, "Window title")
	fs.StringVar(&v.Scene, "scene", o.Scene, "Built-in scene: quad or triangle")
	fs.StringVar(&v.VertexShader, "vertex", o.VertexShader, "Vertex shader file (WebGL2 GLSL)")
	fs.StringVar(&v.FragmentShader, "fragment", o.FragmentShader, "Fragment shader file (WebGL2 GLSL)")
	fs.StringVar(&v.Images[0], "image1", o.Images[0], "First quad texture (BMP or PNG)")
	fs.StringVar(&v.Images[1], "image2", o.Images[1], "Second quad texture (BMP or PNG)")
	fs.BoolVar(&v.VSync, "vsync", o.VSync, "Synchronize presentation with the display")
	fs.IntVar(&v.DepthBits, "depth", o.DepthBits, "Depth buffer bits")
	fs.BoolVar(&v.Headless, "headless", o.Headless, "Render into an offscreen EGL surface")
	fs.StringVar(&v.Record, "record", o.Record, "Record frames to this video file (implies -headless)")
	fs.IntVar(&v.Frames, "frames", o.Frames, "Number of frames to record")
	fs.IntVar(&v.FPS, "fps", o.FPS, "Frames per second for recording")
	fs.StringVar(&v.FFmpegPath, "ffmpeg", o.FFmpegPath, "Path to ffmpeg executable")
	fs.BoolVar(&v.Help, "help", false, "Show help message")
	return f
}

// Apply copies every flag that was set on the command line into o.
func (f *Flags) Apply(o *Options) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "width":
			o.Width = f.vals.Width
		case "height":
			o.Height = f.vals.Height
		case "title":
			o.Title = f.vals.Title
		case "scene":
			o.Scene = f.vals.Scene
		case "vertex":
			o.VertexShader = f.vals.VertexShader
		case "fragment":
			o.FragmentShader = f.vals.FragmentShader
		case "image1":
			o.Images[0] = f.vals.Images[0]
		case "image2":
			o.Images[1] = f.vals.Images[1]
		case "vsync":
			o.VSync = f.vals.VSync
		case "depth":
			o.DepthBits = f.vals.DepthBits
		case "headless":
			o.Headless = f.vals.Headless
		case "record":
			o.Record = f.vals.Record
		case "frames":
			o.Frames = f.vals.Frames
		case "fps":
			o.FPS = f.vals.FPS
		case "ffmpeg":
			o.FFmpegPath = f.vals.FFmpegPath
		case "help":
			o.Help = f.vals.Help
		}
	})
}

// Parse builds the final options: defaults, then the -config file, then explicit flags.
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := Defaults()
	f := Register(fs, o)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.Config != "" {
		if err := o.LoadFile(f.Config); err != nil {
			return nil, err
		}
	}
	f.Apply(o)
	if o.Help {
		return o, nil
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

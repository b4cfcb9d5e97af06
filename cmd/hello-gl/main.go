package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/hellogl/encoder"
	"github.com/richinsley/hellogl/glfwcontext"
	"github.com/richinsley/hellogl/graphics"
	"github.com/richinsley/hellogl/headless"
	"github.com/richinsley/hellogl/options"
	"github.com/richinsley/hellogl/renderer"
	"github.com/richinsley/hellogl/shader"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

func init() {
	runtime.LockOSThread()
}

func opener(opts *options.Options) renderer.Opener {
	if opts.Headless || opts.Recording() {
		return func() (graphics.Context, error) {
			return headless.Open(opts.Width, opts.Height)
		}
	}
	return func() (graphics.Context, error) {
		return glfwcontext.Open(glfwcontext.Config{
			Width:     opts.Width,
			Height:    opts.Height,
			Title:     opts.Title,
			VSync:     opts.VSync,
			DepthBits: opts.DepthBits,
		})
	}
}

func sceneConfig(opts *options.Options) (renderer.SceneConfig, error) {
	cfg := renderer.SceneConfig{
		Kind:       opts.Scene,
		ImagePaths: opts.Images,
		ClearColor: mgl32.Vec4(opts.ClearColor),
		DepthTest:  opts.DepthTest,
	}
	if opts.Recording() {
		cfg.FrameRate = opts.FPS
	}

	var err error
	if opts.VertexShader != "" {
		if cfg.VertexSource, err = shader.Load(opts.VertexShader); err != nil {
			return cfg, err
		}
	}
	if opts.FragmentShader != "" {
		if cfg.FragmentSource, err = shader.Load(opts.FragmentShader); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// recorder streams every presented frame to ffmpeg.
type recorder struct {
	enc *encoder.Encoder
	bar *progressbar.ProgressBar
}

func newRecorder(opts *options.Options) (*recorder, error) {
	enc, err := encoder.New(encoder.Config{
		Width:      opts.Width,
		Height:     opts.Height,
		FPS:        opts.FPS,
		OutputFile: opts.Record,
		Codec:      opts.Codec,
		FFmpegPath: opts.FFmpegPath,
	})
	if err != nil {
		return nil, err
	}
	r := &recorder{enc: enc}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		r.bar = progressbar.Default(int64(opts.Frames), "recording")
	}
	return r, nil
}

func (r *recorder) hook(ctx graphics.Context, frame int) error {
	pixels, err := renderer.ReadFrame(ctx)
	if err != nil {
		return err
	}
	if err := r.enc.WriteFrame(pixels); err != nil {
		return err
	}
	if r.bar != nil {
		r.bar.Add(1)
	} else if (frame+1)%60 == 0 {
		log.Printf("Recorded %d frames", frame+1)
	}
	return nil
}

func (r *recorder) close() error {
	if r.bar != nil {
		r.bar.Finish()
	}
	return r.enc.Close()
}

func run(opts *options.Options) error {
	cfg, err := sceneConfig(opts)
	if err != nil {
		return err
	}
	scene, err := renderer.NewScene(cfg)
	if err != nil {
		return err
	}

	var loopOpts []renderer.LoopOption
	var rec *recorder
	switch {
	case opts.Recording():
		rec, err = newRecorder(opts)
		if err != nil {
			return fmt.Errorf("failed to start encoder: %w", err)
		}
		loopOpts = append(loopOpts, renderer.WithMaxFrames(opts.Frames), renderer.WithFrameHook(rec.hook))
	case opts.Headless:
		loopOpts = append(loopOpts, renderer.WithMaxFrames(opts.Frames))
	}

	err = renderer.NewLoop(opener(opts), scene, loopOpts...).Run()
	if rec != nil {
		if cerr := rec.close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err == nil && rec != nil {
		log.Printf("Successfully rendered to %s", opts.Record)
	}
	return err
}

func main() {
	opts, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if opts.Help {
		fmt.Println("hello-gl: cross-faded textured quad")
		flag.PrintDefaults()
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("hello-gl: %v", err)
	}
}

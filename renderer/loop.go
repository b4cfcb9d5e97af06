package renderer

import (
	"log"

	"github.com/richinsley/hellogl/graphics"
)

// State is a render loop lifecycle state.
type State int

const (
	Uninitialized State = iota
	Running
	Terminating
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Stopped:
		return "stopped"
	default:
		return "invalid"
	}
}

// Opener creates the context the loop renders into.
type Opener func() (graphics.Context, error)

// Scene owns every GPU resource drawn by the loop.
type Scene interface {
	// Load compiles programs and uploads resources. It runs once, after the context exists.
	Load(ctx graphics.Context) error
	// Draw clears the framebuffer and issues the frame's draw calls.
	Draw(ctx graphics.Context, frame int) error
	// Release frees whatever Load acquired, including after a partial Load.
	Release()
}

// FrameHook runs after a frame is drawn and before it is presented.
type FrameHook func(ctx graphics.Context, frame int) error

type LoopOption func(*Loop)

// WithMaxFrames requests a close once n frames were presented.
func WithMaxFrames(n int) LoopOption {
	return func(l *Loop) { l.maxFrames = n }
}

// WithFrameHook installs h; the back buffer still holds the frame when h runs.
func WithFrameHook(h FrameHook) LoopOption {
	return func(l *Loop) { l.hook = h }
}

// Loop drives a Scene through Uninitialized → Running → Terminating → Stopped.
type Loop struct {
	open      Opener
	scene     Scene
	ctx       graphics.Context
	state     State
	frames    int
	maxFrames int
	hook      FrameHook
	err       error
}

func NewLoop(open Opener, scene Scene, opts ...LoopOption) *Loop {
	l := &Loop{
		open:  open,
		scene: scene,
		state: Uninitialized,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) State() State { return l.state }

// Frames is the number of frames presented so far.
func (l *Loop) Frames() int { return l.frames }

// Err is the fatal error that stopped the loop, if any.
func (l *Loop) Err() error { return l.err }

// Context returns the loop's context; nil before it was opened.
func (l *Loop) Context() graphics.Context { return l.ctx }

// Step performs one transition, or one frame while running, and returns the new state.
func (l *Loop) Step() State {
	switch l.state {
	case Uninitialized:
		l.start()
	case Running:
		l.frame()
	case Terminating:
		l.teardown()
	}
	return l.state
}

// Run steps until the loop stops and returns the fatal error, if any.
func (l *Loop) Run() error {
	for l.state != Stopped {
		l.Step()
	}
	return l.err
}

func (l *Loop) start() {
	ctx, err := l.open()
	if err != nil {
		l.err = err
		l.state = Stopped
		return
	}
	l.ctx = ctx

	if err := l.scene.Load(ctx); err != nil {
		l.err = err
		l.scene.Release()
		ctx.Close()
		l.state = Stopped
		return
	}

	log.Println("Starting render loop...")
	l.state = Running
}

func (l *Loop) frame() {
	quit, err := l.ctx.PollQuit()
	if err != nil {
		l.terminate(err)
		return
	}
	if quit {
		l.terminate(nil)
		return
	}

	if err := l.scene.Draw(l.ctx, l.frames); err != nil {
		l.terminate(err)
		return
	}
	if l.hook != nil {
		if err := l.hook(l.ctx, l.frames); err != nil {
			l.terminate(err)
			return
		}
	}
	if err := l.ctx.Present(); err != nil {
		l.terminate(err)
		return
	}

	l.frames++
	if l.maxFrames > 0 && l.frames >= l.maxFrames {
		l.ctx.RequestClose()
	}
}

func (l *Loop) terminate(err error) {
	if err != nil {
		l.err = err
	}
	l.state = Terminating
}

// teardown releases scene resources before the context they live in.
func (l *Loop) teardown() {
	l.scene.Release()
	if err := l.ctx.Close(); err != nil && l.err == nil {
		l.err = err
	}
	log.Printf("Render loop stopped after %d frames", l.frames)
	l.state = Stopped
}

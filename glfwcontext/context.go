package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/hellogl/graphics"
)

// Config describes the window to open.
type Config struct {
	Width     int
	Height    int
	Title     string
	VSync     bool
	DepthBits int
}

// Context owns a GLFW window and the OpenGL context created with it.
type Context struct {
	window    *glfw.Window
	quit      graphics.QuitLatch
	startTime float64
	closed    bool
}

var _ graphics.Context = (*Context)(nil)

// Open creates a window and makes its OpenGL context current on the calling thread.
// Must be called from the main thread.
func Open(cfg Config) (*Context, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &graphics.InitError{
			Op:  "window",
			Err: fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height),
		}
	}

	if err := InitGraphics(); err != nil {
		return nil, &graphics.InitError{Op: "glfw", Err: err}
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, cfg.DepthBits)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		TerminateGraphics()
		return nil, &graphics.InitError{Op: "window", Err: err}
	}

	c := &Context{window: win}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.MakeContextCurrent()

	if err := graphics.LoadGL(); err != nil {
		win.Destroy()
		TerminateGraphics()
		return nil, &graphics.InitError{Op: "opengl", Err: err}
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	c.startTime = glfw.GetTime()
	log.Printf("Window %q opened (%dx%d)", cfg.Title, cfg.Width, cfg.Height)
	return c, nil
}

// glfwKeyCallback turns an Escape press into a close request.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	if c.closed {
		return
	}
	c.window.MakeContextCurrent()
}

func (c *Context) PollQuit() (bool, error) {
	if c.closed {
		return false, graphics.ErrUseAfterClose
	}
	glfw.PollEvents()
	return c.quit.Poll(c.window.ShouldClose()), nil
}

func (c *Context) Present() error {
	if c.closed {
		return graphics.ErrUseAfterClose
	}
	c.window.SwapBuffers()
	return nil
}

func (c *Context) RequestClose() {
	if c.closed {
		return
	}
	c.quit.Request()
	c.window.SetShouldClose(true)
}

// Close destroys the window and shuts GLFW down.
func (c *Context) Close() error {
	if c.closed {
		return graphics.ErrUseAfterClose
	}
	c.closed = true
	glfw.DetachCurrentContext()
	c.window.Destroy()
	c.window = nil
	TerminateGraphics()
	return nil
}

func (c *Context) Closed() bool {
	return c.closed
}

func (c *Context) GetFramebufferSize() (int, int) {
	if c.closed {
		return 0, 0
	}
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	if c.closed {
		return 0
	}
	return glfw.GetTime() - c.startTime
}

// IsGLES reports false: the window always carries a desktop core profile.
func (c *Context) IsGLES() bool {
	return false
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

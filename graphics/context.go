package graphics

// Context defines the interface for an OpenGL context bound to a drawing surface.
// Every GPU-touching operation in this module takes a Context so that
// handles never outlive the surface they were created on.
type Context interface {
	MakeCurrent()
	// PollQuit drains pending events and reports a close request exactly once.
	PollQuit() (bool, error)
	// Present swaps the back buffer to the front.
	Present() error
	// Close releases the context and its surface. Calling it twice returns ErrUseAfterClose.
	Close() error
	// RequestClose injects a quit request, as if the user had closed the window.
	RequestClose()
	Closed() bool
	GetFramebufferSize() (int, int)
	// Time returns the seconds elapsed since the context was opened.
	Time() float64
	IsGLES() bool
}

// Live returns ErrUseAfterClose when ctx is nil or already closed.
func Live(ctx Context) error {
	if ctx == nil || ctx.Closed() {
		return ErrUseAfterClose
	}
	return nil
}

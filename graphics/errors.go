package graphics

import (
	"errors"
	"fmt"
)

// ErrUseAfterClose is returned by any operation on a context, or on a resource
// created from it, after the context was closed.
var ErrUseAfterClose = errors.New("graphics: context used after close")

// InitError reports a failure to create the window or its rendering context.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("init %s failed", e.Op)
	}
	return fmt.Sprintf("init %s failed: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// CompileError carries the diagnostic text of a shader stage that failed to compile.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the diagnostic text of a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// AllocationError reports that the driver could not allocate GPU storage.
type AllocationError struct {
	Resource string
	Size     int
	Code     uint32
}

func (e *AllocationError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("failed to allocate %s (%d bytes): gl error 0x%04x", e.Resource, e.Size, e.Code)
	}
	return fmt.Sprintf("failed to allocate %s (%d bytes)", e.Resource, e.Size)
}

// GLError is a GL error flag raised while rendering.
type GLError struct {
	Op   string
	Code uint32
}

func (e *GLError) Error() string {
	return fmt.Sprintf("%s: gl error 0x%04x (%s)", e.Op, e.Code, glErrorName(e.Code))
}

func glErrorName(code uint32) string {
	switch code {
	case 0x0500:
		return "GL_INVALID_ENUM"
	case 0x0501:
		return "GL_INVALID_VALUE"
	case 0x0502:
		return "GL_INVALID_OPERATION"
	case 0x0505:
		return "GL_OUT_OF_MEMORY"
	case 0x0506:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "unknown"
	}
}

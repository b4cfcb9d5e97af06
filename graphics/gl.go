package graphics

import (
	"fmt"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

var (
	glMu     sync.Mutex
	glLoaded bool

	glInit    = gl.Init
	glVersion = func() string { return gl.GoStr(gl.GetString(gl.VERSION)) }
)

// LoadGL resolves the OpenGL function pointers. It must be called with a context
// current on the calling thread. A failed load is retried by the next call.
func LoadGL() error {
	glMu.Lock()
	defer glMu.Unlock()
	if glLoaded {
		return nil
	}
	if err := glInit(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	glLoaded = true
	log.Printf("OpenGL version: %s", glVersion())
	return nil
}

// CheckError drains the GL error flags and returns the first one raised.
func CheckError(op string) error {
	var first uint32
	for i := 0; i < 8; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return &GLError{Op: op, Code: first}
	}
	return nil
}

//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/hellogl/graphics"
)

func Open(width, height int) (graphics.Context, error) {
	return nil, &graphics.InitError{
		Op:  "egl",
		Err: fmt.Errorf("egl headless rendering is not supported on this platform"),
	}
}

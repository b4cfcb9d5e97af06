package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellogl/graphics"
)

// ReadPixels reads an RGBA8 rectangle from the framebuffer being drawn.
// Rows are returned bottom-up, as GL stores them.
func ReadPixels(ctx graphics.Context, x, y, width, height int) ([]byte, error) {
	if err := graphics.Live(ctx); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid readback size %dx%d", width, height)
	}

	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if err := graphics.CheckError("read pixels"); err != nil {
		return nil, err
	}
	return pixels, nil
}

// ReadFrame reads the whole framebuffer.
func ReadFrame(ctx graphics.Context) ([]byte, error) {
	width, height := ctx.GetFramebufferSize()
	return ReadPixels(ctx, 0, 0, width, height)
}

package texture

import (
	"fmt"
	"image"
	"image/color"
)

// Pattern names a generated stand-in image.
type Pattern string

const (
	Checker  Pattern = "checker"
	Gradient Pattern = "gradient"
)

// Generate draws pattern into a new w×h image.
func Generate(pattern Pattern, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid pattern size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	switch pattern {
	case Checker:
		cell := max(w/8, 1)
		light := color.RGBA{R: 0xf0, G: 0xd0, B: 0x40, A: 0xff}
		dark := color.RGBA{R: 0x20, G: 0x30, B: 0x60, A: 0xff}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x/cell+y/cell)%2 == 0 {
					img.SetRGBA(x, y, light)
				} else {
					img.SetRGBA(x, y, dark)
				}
			}
		}
	case Gradient:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: uint8(x * 255 / max(w-1, 1)),
					G: uint8(y * 255 / max(h-1, 1)),
					B: 0x80,
					A: 0xff,
				})
			}
		}
	default:
		return nil, fmt.Errorf("unknown pattern %q", pattern)
	}
	return img, nil
}

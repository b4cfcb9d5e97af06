package texture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellogl/graphics"
	_ "golang.org/x/image/bmp"
)

// Texture is an immutable 2D RGBA texture.
type Texture struct {
	ctx    graphics.Context
	id     uint32
	width  int
	height int
}

// Load decodes a BMP or PNG file and uploads it.
func Load(ctx graphics.Context, path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't load %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode %s: %w", path, err)
	}
	return FromImage(ctx, img)
}

// vflip vertically flips the provided RGBA image. Image rows run top-down,
// GL texture rows bottom-up.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// FromImage uploads img with linear filtering and clamp-to-edge wrapping.
func FromImage(ctx graphics.Context, img image.Image) (*Texture, error) {
	if err := graphics.Live(ctx); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("texture image is nil")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	rgba = vflip(rgba)

	width := int32(rgba.Rect.Size().X)
	height := int32(rgba.Rect.Size().Y)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("texture image is empty")
	}

	graphics.CheckError("texture")

	var textureID uint32
	gl.GenTextures(1, &textureID)
	if textureID == 0 {
		return nil, &graphics.AllocationError{Resource: "texture", Size: len(rgba.Pix)}
	}
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		width,
		height,
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	code := gl.GetError()
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if code != gl.NO_ERROR {
		gl.DeleteTextures(1, &textureID)
		return nil, &graphics.AllocationError{Resource: "texture", Size: len(rgba.Pix), Code: code}
	}

	return &Texture{
		ctx:    ctx,
		id:     textureID,
		width:  int(width),
		height: int(height),
	}, nil
}

func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Size() (int, int) { return t.width, t.height }

// Bind attaches the texture to texture unit.
func (t *Texture) Bind(unit int) error {
	if err := graphics.Live(t.ctx); err != nil {
		return err
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	return nil
}

// Unbind clears the 2D binding of texture unit.
func Unbind(ctx graphics.Context, unit int) {
	if ctx.Closed() {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *Texture) Delete() {
	if t == nil || t.id == 0 {
		return
	}
	if !t.ctx.Closed() {
		gl.DeleteTextures(1, &t.id)
	}
	t.id = 0
}

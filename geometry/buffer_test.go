package geometry

import (
	"errors"
	"testing"

	"github.com/richinsley/hellogl/graphics"
	"github.com/richinsley/hellogl/headless"
)

func openOrSkip(t *testing.T) graphics.Context {
	t.Helper()
	ctx, err := headless.Open(16, 16)
	if err != nil {
		t.Skipf("headless context unavailable: %v", err)
	}
	t.Cleanup(func() {
		if !ctx.Closed() {
			ctx.Close()
		}
	})
	return ctx
}

type locations map[string]int32

func (l locations) AttribLocation(name string) int32 {
	if loc, ok := l[name]; ok {
		return loc
	}
	return -1
}

func TestUploadDrawCount(t *testing.T) {
	ctx := openOrSkip(t)
	quad := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}
	b, err := Upload(ctx, quad, positionOnly)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	defer b.Delete()

	if b.DrawCount() != 4 {
		t.Fatalf("DrawCount = %d, want 4", b.DrawCount())
	}
	if b.IndexCount() != 0 {
		t.Fatalf("IndexCount = %d, want 0", b.IndexCount())
	}
}

func TestUploadIndexed(t *testing.T) {
	ctx := openOrSkip(t)
	quad := []float32{-1, -1, 1, -1, -1, 1, 1, 1}
	b, err := UploadIndexed(ctx, quad, []uint16{0, 1, 2, 3}, positionOnly)
	if err != nil {
		t.Fatalf("UploadIndexed: %v", err)
	}
	defer b.Delete()
	if b.DrawCount() != 4 || b.IndexCount() != 4 {
		t.Fatalf("counts = %d/%d, want 4/4", b.DrawCount(), b.IndexCount())
	}
}

func TestBindSkipsMissingAttributes(t *testing.T) {
	ctx := openOrSkip(t)
	tri := []float32{
		-1, -1, 1, 0, 0,
		1, -1, 0, 1, 0,
		0, 1, 0, 0, 1,
	}
	b, err := Upload(ctx, tri, positionColor)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	defer b.Delete()

	// color was optimized out of the program
	if err := b.Bind(locations{"position": 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(b.enabled) != 1 || b.enabled[0] != 0 {
		t.Fatalf("enabled = %v, want [0]", b.enabled)
	}
	b.Unbind()
	if err := graphics.CheckError("bind"); err != nil {
		t.Fatal(err)
	}
}

func TestUploadAfterClose(t *testing.T) {
	ctx := openOrSkip(t)
	b, err := Upload(ctx, []float32{0, 0, 1, 0, 0, 1}, positionOnly)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	ctx.Close()

	if err := b.Draw(Triangles); !errors.Is(err, graphics.ErrUseAfterClose) {
		t.Fatalf("Draw after close = %v", err)
	}
	if _, err := Upload(ctx, []float32{0, 0}, positionOnly); !errors.Is(err, graphics.ErrUseAfterClose) {
		t.Fatalf("Upload after close = %v", err)
	}
	b.Delete()
}

package shader

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellogl/geometry"
	"github.com/richinsley/hellogl/graphics"
	"github.com/richinsley/hellogl/headless"
	"github.com/richinsley/hellogl/translator"
)

func openOrSkip(t *testing.T) graphics.Context {
	t.Helper()
	ctx, err := headless.Open(32, 32)
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

func mustSource(t *testing.T, scene string) (string, string) {
	t.Helper()
	vs, fs, err := Source(scene)
	if err != nil {
		t.Fatalf("Source(%q): %v", scene, err)
	}
	return vs, fs
}

func TestSource(t *testing.T) {
	for _, scene := range []string{"quad", "triangle"} {
		vs, fs := mustSource(t, scene)
		if !strings.HasPrefix(vs, "#version 300 es") || !strings.HasPrefix(fs, "#version 300 es") {
			t.Errorf("%s: built-in sources must target GLSL ES 3.00", scene)
		}
	}
	if _, _, err := Source("cube"); err == nil {
		t.Error("expected an error for an unknown scene")
	}
}

func TestKindString(t *testing.T) {
	if Vertex.String() != "vertex" || Fragment.String() != "fragment" {
		t.Fatalf("got %q / %q", Vertex, Fragment)
	}
}

func TestCleanLog(t *testing.T) {
	if got := cleanLog("0:1: error\n\x00\x00"); got != "0:1: error" {
		t.Errorf("cleanLog = %q", got)
	}
	if got := cleanLog("\x00"); got == "" {
		t.Error("an empty driver log must still produce a diagnostic")
	}
}

func TestCompileSyntaxError(t *testing.T) {
	ctx := openOrSkip(t)
	vs, _ := mustSource(t, "triangle")
	broken := strings.Replace(vs, "v_color = color;", "v_color = color", 1)

	_, err := Compile(ctx, broken, Vertex)
	var compileErr *graphics.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Compile = %v, want *graphics.CompileError", err)
	}
	if compileErr.Log == "" {
		t.Fatal("compile error carries an empty log")
	}
	if compileErr.Stage != "vertex" {
		t.Fatalf("Stage = %q", compileErr.Stage)
	}
}

func TestLinkMismatch(t *testing.T) {
	ctx := openOrSkip(t)
	vsSrc, fsSrc := mustSource(t, "triangle")
	fsSrc = strings.ReplaceAll(fsSrc, "v_color", "v_missing")

	vs, err := Compile(ctx, vsSrc, Vertex)
	if err != nil {
		t.Fatalf("Compile vertex: %v", err)
	}
	fs, err := Compile(ctx, fsSrc, Fragment)
	if err != nil {
		t.Fatalf("Compile fragment: %v", err)
	}
	defer vs.Delete()
	defer fs.Delete()

	_, err = Link(ctx, vs, fs)
	var linkErr *graphics.LinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("Link = %v, want *graphics.LinkError", err)
	}
	if linkErr.Log == "" {
		t.Fatal("link error carries an empty log")
	}
}

func link(t *testing.T, ctx graphics.Context, scene string) *Program {
	t.Helper()
	vsSrc, fsSrc := mustSource(t, scene)
	vs, err := Compile(ctx, vsSrc, Vertex)
	if err != nil {
		t.Fatalf("Compile vertex: %v", err)
	}
	fs, err := Compile(ctx, fsSrc, Fragment)
	if err != nil {
		t.Fatalf("Compile fragment: %v", err)
	}
	p, err := Link(ctx, vs, fs)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if vs.ID() != 0 || fs.ID() != 0 {
		t.Fatal("stages should be released after a successful link")
	}
	return p
}

// drawTriangle renders the RGB triangle with p and returns the 32x32 frame.
func drawTriangle(t *testing.T, ctx graphics.Context, p *Program) []byte {
	t.Helper()
	vertices := []float32{
		-1, -1, 1, 0, 0,
		1, -1, 0, 1, 0,
		0, 1, 0, 0, 1,
	}
	layout := geometry.Layout{Attributes: []geometry.Attribute{
		{Name: "position", Components: 2, Stride: 5, Offset: 0},
		{Name: "color", Components: 3, Stride: 5, Offset: 2},
	}}
	buf, err := geometry.Upload(ctx, vertices, layout)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	defer buf.Delete()

	width, height := ctx.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if err := p.Use(); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if err := buf.Bind(p); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := buf.Draw(geometry.Triangles); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	buf.Unbind()
	gl.UseProgram(0)

	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if err := graphics.CheckError("draw triangle"); err != nil {
		t.Fatal(err)
	}
	return pixels
}

func TestCompileTwiceRendersIdentically(t *testing.T) {
	ctx := openOrSkip(t)
	a := link(t, ctx, "triangle")
	b := link(t, ctx, "triangle")
	defer b.Delete()

	if a.ID() == b.ID() {
		t.Fatalf("both programs share id %d", a.ID())
	}

	first := drawTriangle(t, ctx, a)
	second := drawTriangle(t, ctx, b)
	if !bytes.Equal(first, second) {
		t.Fatal("identical sources rendered different frames")
	}
	// The center pixel is covered by the triangle, so the frame is not just the clear color.
	center := (16*32 + 16) * 4
	if first[center] == 0 && first[center+1] == 0 && first[center+2] == 0 {
		t.Fatalf("center pixel %v is the clear color", first[center:center+4])
	}

	a.Delete()
	if again := drawTriangle(t, ctx, b); !bytes.Equal(first, again) {
		t.Fatal("second program changed output after deleting the first")
	}
}

func TestLocations(t *testing.T) {
	ctx := openOrSkip(t)
	p := link(t, ctx, "quad")
	defer p.Delete()

	if loc := p.AttribLocation("position"); loc == NotFound {
		t.Error("position attribute not found")
	}
	if loc := p.UniformLocation("fade_factor"); loc == NotFound {
		t.Error("fade_factor uniform not found")
	}
	if loc := p.UniformLocation("textures[1]"); loc == NotFound {
		t.Error("textures[1] uniform not found")
	}
	if loc := p.AttribLocation("normal"); loc != NotFound {
		t.Errorf("AttribLocation(normal) = %d, want NotFound", loc)
	}
	if loc := p.UniformLocation("model_matrix"); loc != NotFound {
		t.Errorf("UniformLocation(model_matrix) = %d, want NotFound", loc)
	}
}

func TestBuildTranslated(t *testing.T) {
	ctx := openOrSkip(t)
	if _, err := translator.GetTranslator(); err != nil {
		t.Skipf("translator unavailable: %v", err)
	}
	vs, fs := mustSource(t, "quad")
	p, err := Build(ctx, vs, fs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer p.Delete()
	if p.AttribLocation("position") == NotFound {
		t.Error("position attribute not found through translated names")
	}
}

func TestUseAfterClose(t *testing.T) {
	ctx := openOrSkip(t)
	p := link(t, ctx, "triangle")
	ctx.Close()

	if err := p.Use(); !errors.Is(err, graphics.ErrUseAfterClose) {
		t.Fatalf("Use after close = %v", err)
	}
	if p.UniformLocation("anything") != NotFound {
		t.Fatal("lookups after close must report NotFound")
	}
	vs, _ := mustSource(t, "triangle")
	if _, err := Compile(ctx, vs, Vertex); !errors.Is(err, graphics.ErrUseAfterClose) {
		t.Fatalf("Compile after close = %v", err)
	}
	p.Delete()
}

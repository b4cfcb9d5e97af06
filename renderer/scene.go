package renderer

import (
	"fmt"
	"log"
	"math"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/hellogl/geometry"
	"github.com/richinsley/hellogl/graphics"
	"github.com/richinsley/hellogl/shader"
	"github.com/richinsley/hellogl/texture"
)

const (
	SceneQuad     = "quad"
	SceneTriangle = "triangle"
)

// SceneConfig selects the built-in scene and what it is drawn with.
type SceneConfig struct {
	Kind string
	// VertexSource and FragmentSource replace the built-in shaders when set.
	VertexSource   string
	FragmentSource string
	// ImagePaths are the two textures cross-faded by the quad scene.
	// An empty path falls back to a generated pattern.
	ImagePaths [2]string
	ClearColor mgl32.Vec4
	DepthTest  bool
	// FrameRate fixes scene time to frame/FrameRate; zero follows the context clock.
	FrameRate int
}

var quadVertices = []mgl32.Vec2{
	{-1, -1},
	{1, -1},
	{-1, 1},
	{1, 1},
}

var quadElements = []uint16{0, 1, 2, 3}

var quadLayout = geometry.Layout{Attributes: []geometry.Attribute{
	{Name: "position", Components: 2, Stride: 2, Offset: 0},
}}

type coloredVertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec3
}

var triangleVertices = []coloredVertex{
	{Position: mgl32.Vec2{-1, -1}, Color: mgl32.Vec3{1, 0, 0}},
	{Position: mgl32.Vec2{1, -1}, Color: mgl32.Vec3{0, 1, 0}},
	{Position: mgl32.Vec2{0, 1}, Color: mgl32.Vec3{0, 0, 1}},
}

var triangleLayout = geometry.Layout{Attributes: []geometry.Attribute{
	{Name: "position", Components: 2, Stride: 5, Offset: 0},
	{Name: "color", Components: 3, Stride: 5, Offset: 2},
}}

var fallbackPatterns = [2]texture.Pattern{texture.Checker, texture.Gradient}

// HelloScene draws either the cross-fading textured quad or the RGB triangle.
type HelloScene struct {
	cfg       SceneConfig
	program   *shader.Program
	geometry  *geometry.Buffer
	primitive geometry.Primitive
	textures  [2]*texture.Texture

	fadeFactorLoc int32
	textureLocs   [2]int32
}

var _ Scene = (*HelloScene)(nil)

func NewScene(cfg SceneConfig) (*HelloScene, error) {
	switch cfg.Kind {
	case SceneQuad, SceneTriangle:
	default:
		return nil, fmt.Errorf("unknown scene %q", cfg.Kind)
	}
	return &HelloScene{
		cfg:           cfg,
		fadeFactorLoc: shader.NotFound,
		textureLocs:   [2]int32{shader.NotFound, shader.NotFound},
	}, nil
}

// Load builds the program first, then uploads geometry and textures.
func (s *HelloScene) Load(ctx graphics.Context) error {
	vs, fs, err := shader.Source(s.cfg.Kind)
	if err != nil {
		return err
	}
	if s.cfg.VertexSource != "" {
		vs = s.cfg.VertexSource
	}
	if s.cfg.FragmentSource != "" {
		fs = s.cfg.FragmentSource
	}

	s.program, err = shader.Build(ctx, vs, fs)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}

	switch s.cfg.Kind {
	case SceneQuad:
		err = s.loadQuad(ctx)
	case SceneTriangle:
		err = s.loadTriangle(ctx)
	}
	if err != nil {
		return err
	}

	if s.cfg.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	}
	log.Printf("Scene %q loaded (%d vertices)", s.cfg.Kind, s.geometry.DrawCount())
	return nil
}

func (s *HelloScene) loadQuad(ctx graphics.Context) error {
	vertices := make([]float32, 0, len(quadVertices)*2)
	for _, v := range quadVertices {
		vertices = append(vertices, v[:]...)
	}

	var err error
	s.geometry, err = geometry.UploadIndexed(ctx, vertices, quadElements, quadLayout)
	if err != nil {
		return fmt.Errorf("failed to upload quad: %w", err)
	}
	s.primitive = geometry.TriangleStrip

	for i := range s.textures {
		s.textures[i], err = s.loadTexture(ctx, i)
		if err != nil {
			return err
		}
	}

	s.fadeFactorLoc = s.program.UniformLocation("fade_factor")
	for i := range s.textureLocs {
		s.textureLocs[i] = s.program.UniformLocation(fmt.Sprintf("textures[%d]", i))
	}
	return nil
}

func (s *HelloScene) loadTexture(ctx graphics.Context, i int) (*texture.Texture, error) {
	if path := s.cfg.ImagePaths[i]; path != "" {
		return texture.Load(ctx, path)
	}
	img, err := texture.Generate(fallbackPatterns[i], 256, 256)
	if err != nil {
		return nil, err
	}
	return texture.FromImage(ctx, img)
}

func (s *HelloScene) loadTriangle(ctx graphics.Context) error {
	vertices := make([]float32, 0, len(triangleVertices)*triangleLayout.Stride())
	for _, v := range triangleVertices {
		vertices = append(vertices, v.Position[:]...)
		vertices = append(vertices, v.Color[:]...)
	}

	var err error
	s.geometry, err = geometry.Upload(ctx, vertices, triangleLayout)
	if err != nil {
		return fmt.Errorf("failed to upload triangle: %w", err)
	}
	s.primitive = geometry.Triangles
	return nil
}

// FadeFactor maps seconds onto the [0, 1] cross-fade weight.
func FadeFactor(seconds float64) float32 {
	return float32(math.Sin(seconds)*0.5 + 0.5)
}

func (s *HelloScene) sceneTime(ctx graphics.Context, frame int) float64 {
	if s.cfg.FrameRate > 0 {
		return float64(frame) / float64(s.cfg.FrameRate)
	}
	return ctx.Time()
}

func (s *HelloScene) Draw(ctx graphics.Context, frame int) error {
	if err := graphics.Live(ctx); err != nil {
		return err
	}

	width, height := ctx.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	c := s.cfg.ClearColor
	gl.ClearColor(c.X(), c.Y(), c.Z(), c.W())
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if s.cfg.DepthTest {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)

	if err := s.program.Use(); err != nil {
		return err
	}
	if s.fadeFactorLoc != shader.NotFound {
		gl.Uniform1f(s.fadeFactorLoc, FadeFactor(s.sceneTime(ctx, frame)))
	}
	for i, tex := range s.textures {
		if tex == nil || s.textureLocs[i] == shader.NotFound {
			continue
		}
		if err := tex.Bind(i); err != nil {
			return err
		}
		gl.Uniform1i(s.textureLocs[i], int32(i))
	}

	if err := s.geometry.Bind(s.program); err != nil {
		return err
	}
	if err := s.geometry.Draw(s.primitive); err != nil {
		return err
	}
	s.geometry.Unbind()

	for i, tex := range s.textures {
		if tex != nil {
			texture.Unbind(ctx, i)
		}
	}

	return graphics.CheckError(fmt.Sprintf("draw frame %d", frame))
}

// Release frees resources in reverse order of acquisition.
func (s *HelloScene) Release() {
	for i := len(s.textures) - 1; i >= 0; i-- {
		s.textures[i].Delete()
		s.textures[i] = nil
	}
	if s.geometry != nil {
		s.geometry.Delete()
		s.geometry = nil
	}
	if s.program != nil {
		s.program.Delete()
		s.program = nil
	}
}

package shader

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellogl/graphics"
	"github.com/richinsley/hellogl/translator"
)

// NotFound is the location reported for attributes and uniforms the linked
// program does not expose. Drivers drop unused variables, so callers skip it.
const NotFound int32 = -1

// Kind selects a shader stage.
type Kind uint32

const (
	Vertex   Kind = gl.VERTEX_SHADER
	Fragment Kind = gl.FRAGMENT_SHADER
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Shader is one compiled stage.
type Shader struct {
	id    uint32
	kind  Kind
	ctx   graphics.Context
	names map[string]string
}

func (s *Shader) ID() uint32 { return s.id }
func (s *Shader) Kind() Kind { return s.kind }

// Delete releases the stage. Safe to call after a successful Link.
func (s *Shader) Delete() {
	if s == nil || s.id == 0 {
		return
	}
	if !s.ctx.Closed() {
		gl.DeleteShader(s.id)
	}
	s.id = 0
}

// Program is a linked shader program. It is immutable once linked.
type Program struct {
	id    uint32
	ctx   graphics.Context
	names map[string]string
}

func (p *Program) ID() uint32 { return p.id }

// Compile compiles a single stage from driver-ready source.
func Compile(ctx graphics.Context, source string, kind Kind) (*Shader, error) {
	if err := graphics.Live(ctx); err != nil {
		return nil, err
	}

	shader := gl.CreateShader(uint32(kind))
	if shader == 0 {
		return nil, &graphics.CompileError{Stage: kind.String(), Log: "glCreateShader returned no shader object"}
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return nil, &graphics.CompileError{Stage: kind.String(), Log: cleanLog(logText)}
	}
	return &Shader{id: shader, kind: kind, ctx: ctx}, nil
}

// Link links a vertex and a fragment stage. On success the stage objects are
// deleted; the program keeps the compiled code.
func Link(ctx graphics.Context, vertexShader, fragmentShader *Shader) (*Program, error) {
	if err := graphics.Live(ctx); err != nil {
		return nil, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader.id)
	gl.AttachShader(program, fragmentShader.id)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return nil, &graphics.LinkError{Log: cleanLog(log)}
	}

	gl.DetachShader(program, vertexShader.id)
	gl.DetachShader(program, fragmentShader.id)
	vertexShader.Delete()
	fragmentShader.Delete()

	names := make(map[string]string, len(vertexShader.names)+len(fragmentShader.names))
	for k, v := range vertexShader.names {
		names[k] = v
	}
	for k, v := range fragmentShader.names {
		names[k] = v
	}
	return &Program{id: program, ctx: ctx, names: names}, nil
}

// Build translates WebGL2 sources for ctx, compiles both stages and links them.
func Build(ctx graphics.Context, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := compileTranslated(ctx, vertexSource, Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := compileTranslated(ctx, fragmentSource, Fragment)
	if err != nil {
		vs.Delete()
		return nil, err
	}
	program, err := Link(ctx, vs, fs)
	if err != nil {
		vs.Delete()
		fs.Delete()
		return nil, err
	}
	return program, nil
}

func compileTranslated(ctx graphics.Context, source string, kind Kind) (*Shader, error) {
	if err := graphics.Live(ctx); err != nil {
		return nil, err
	}
	if _, err := translator.GetTranslator(); err != nil {
		return nil, &graphics.InitError{Op: "shader translator", Err: err}
	}
	out, err := translator.Translate(source, kind.String(), ctx.IsGLES())
	if err != nil {
		return nil, &graphics.CompileError{Stage: kind.String(), Log: err.Error()}
	}
	s, err := Compile(ctx, out.Code, kind)
	if err != nil {
		return nil, err
	}
	s.names = out.Names
	return s, nil
}

// Use installs the program for subsequent draw calls.
func (p *Program) Use() error {
	if err := graphics.Live(p.ctx); err != nil {
		return err
	}
	gl.UseProgram(p.id)
	return nil
}

// AttribLocation resolves a vertex attribute, or returns NotFound.
func (p *Program) AttribLocation(name string) int32 {
	if p.ctx.Closed() {
		return NotFound
	}
	return gl.GetAttribLocation(p.id, gl.Str(translator.MappedName(p.names, name)+"\x00"))
}

// UniformLocation resolves a uniform, or returns NotFound.
func (p *Program) UniformLocation(name string) int32 {
	if p.ctx.Closed() {
		return NotFound
	}
	return gl.GetUniformLocation(p.id, gl.Str(translator.MappedName(p.names, name)+"\x00"))
}

// Delete releases the program. GL objects already went away with a closed context.
func (p *Program) Delete() {
	if p == nil || p.id == 0 {
		return
	}
	if !p.ctx.Closed() {
		gl.DeleteProgram(p.id)
	}
	p.id = 0
}

func cleanLog(s string) string {
	s = strings.TrimRight(s, "\x00")
	s = strings.TrimSpace(s)
	if s == "" {
		return "driver reported no diagnostic"
	}
	return s
}

package geometry

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellogl/graphics"
)

const (
	sizeofFloat32 = 4
	sizeofUint16  = 2
)

// Primitive is the topology passed to the draw call.
type Primitive uint32

const (
	Triangles     Primitive = gl.TRIANGLES
	TriangleStrip Primitive = gl.TRIANGLE_STRIP
)

// AttribLocator resolves attribute names to slots; *shader.Program satisfies it.
type AttribLocator interface {
	AttribLocation(name string) int32
}

// Buffer is write-once vertex storage, optionally with an element buffer.
type Buffer struct {
	ctx         graphics.Context
	vao         uint32
	vbo         uint32
	ibo         uint32
	layout      Layout
	vertexCount int
	indexCount  int
	enabled     []uint32
}

// Upload copies vertices into a new GPU buffer laid out as layout.
func Upload(ctx graphics.Context, vertices []float32, layout Layout) (*Buffer, error) {
	return upload(ctx, vertices, nil, layout)
}

// UploadIndexed is Upload plus an element buffer of 16-bit indices.
func UploadIndexed(ctx graphics.Context, vertices []float32, indices []uint16, layout Layout) (*Buffer, error) {
	return upload(ctx, vertices, indices, layout)
}

func upload(ctx graphics.Context, vertices []float32, indices []uint16, layout Layout) (*Buffer, error) {
	if err := graphics.Live(ctx); err != nil {
		return nil, err
	}
	count, err := layout.VertexCount(len(vertices))
	if err != nil {
		return nil, err
	}
	if indices != nil {
		if err := validateIndices(indices, count); err != nil {
			return nil, err
		}
	}

	// stale flags would be blamed on this upload
	graphics.CheckError("upload")

	b := &Buffer{
		ctx:         ctx,
		layout:      layout,
		vertexCount: count,
		indexCount:  len(indices),
	}

	vertexBytes := len(vertices) * sizeofFloat32
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	if b.vao == 0 || b.vbo == 0 {
		b.Delete()
		return nil, &graphics.AllocationError{Resource: "vertex buffer", Size: vertexBytes}
	}

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, vertexBytes, gl.Ptr(vertices), gl.STATIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.BindVertexArray(0)
		b.Delete()
		return nil, &graphics.AllocationError{Resource: "vertex buffer", Size: vertexBytes, Code: code}
	}

	if len(indices) > 0 {
		indexBytes := len(indices) * sizeofUint16
		gl.GenBuffers(1, &b.ibo)
		if b.ibo == 0 {
			gl.BindVertexArray(0)
			b.Delete()
			return nil, &graphics.AllocationError{Resource: "element buffer", Size: indexBytes}
		}
		// the element binding is recorded in the VAO
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ibo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBytes, gl.Ptr(indices), gl.STATIC_DRAW)
		if code := gl.GetError(); code != gl.NO_ERROR {
			gl.BindVertexArray(0)
			b.Delete()
			return nil, &graphics.AllocationError{Resource: "element buffer", Size: indexBytes, Code: code}
		}
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

// DrawCount is the number of vertices uploaded.
func (b *Buffer) DrawCount() int {
	return b.vertexCount
}

// IndexCount is the number of indices uploaded, 0 without an element buffer.
func (b *Buffer) IndexCount() int {
	return b.indexCount
}

func (b *Buffer) Layout() Layout {
	return b.layout
}

// Bind points every attribute of the layout that prog exposes at this buffer.
// Attributes the program does not expose are skipped.
func (b *Buffer) Bind(prog AttribLocator) error {
	if err := graphics.Live(b.ctx); err != nil {
		return err
	}
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	b.enabled = b.enabled[:0]
	for _, a := range b.layout.Attributes {
		loc := prog.AttribLocation(a.Name)
		if loc < 0 {
			continue
		}
		gl.VertexAttribPointer(uint32(loc), int32(a.Components), gl.FLOAT, false,
			int32(a.Stride*sizeofFloat32), gl.PtrOffset(a.Offset*sizeofFloat32))
		gl.EnableVertexAttribArray(uint32(loc))
		b.enabled = append(b.enabled, uint32(loc))
	}
	return nil
}

// Unbind disables the attribute arrays enabled by Bind.
func (b *Buffer) Unbind() {
	if b.ctx.Closed() {
		return
	}
	for _, loc := range b.enabled {
		gl.DisableVertexAttribArray(loc)
	}
	b.enabled = b.enabled[:0]
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw submits the buffer; indexed buffers go through the element buffer.
func (b *Buffer) Draw(mode Primitive) error {
	if err := graphics.Live(b.ctx); err != nil {
		return err
	}
	if b.indexCount > 0 {
		gl.DrawElements(uint32(mode), int32(b.indexCount), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(uint32(mode), 0, int32(b.vertexCount))
	}
	return nil
}

// Delete releases the GPU storage.
func (b *Buffer) Delete() {
	if b == nil || b.ctx.Closed() {
		return
	}
	if b.ibo != 0 {
		gl.DeleteBuffers(1, &b.ibo)
		b.ibo = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

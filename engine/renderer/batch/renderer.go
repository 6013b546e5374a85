package batch

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	stdmath "math"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/math"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

//go:embed shaders/quad.vert
var quadVS string

//go:embed shaders/quad.frag
var quadFS string

const (
	// one vertex per quad, advanced per instance
	instancedVertexSize = 40
	// four vertices per quad
	expandedVertexSize = 36

	// MaxQuadsPerDraw is how many quads a 16-bit index buffer can address
	// when every quad has its own four vertices.
	MaxQuadsPerDraw = stdmath.MaxUint16 / 4

	// mat4 view followed by one vec2 size per draw texture slot
	uniformSize = 64 + 8*metadata.DrawMaxTextures

	defaultCapacity = 1024
)

// Config carries the precompiled HLSL for Direct3D contexts. GLSL is built in.
type Config struct {
	HLSL40        metadata.HLSLObject
	HLSL40Level91 metadata.HLSLObject
	// InitialCapacity is the number of quads the vertex buffer starts with.
	InitialCapacity int
}

/**
 * @brief Owns the quad pipeline and its buffers on one context. With
 * instancing every quad is a single instanced vertex; without it every quad
 * is expanded to four vertices and drawn in chunks of MaxQuadsPerDraw.
 */
type Renderer struct {
	ctx       *renderer.Context
	instanced bool

	shader   metadata.Shader
	pipeline metadata.Pipeline
	vbuffer  metadata.VertexBuffer
	ibuffer  metadata.IndexBuffer
	ubuffer  metadata.UniformBuffer

	capacity int
	vertices []byte
}

func New(ctx *renderer.Context, cfg Config) (*Renderer, error) {
	caps := ctx.QueryCapabilities()
	r := &Renderer{
		ctx:       ctx,
		instanced: caps.HasInstancing,
		capacity:  cfg.InitialCapacity,
	}
	if r.capacity <= 0 {
		r.capacity = defaultCapacity
	}
	if err := r.init(cfg); err != nil {
		r.Release()
		return nil, err
	}
	core.LogDebug("quad renderer ready (instanced: %t, capacity: %d)", r.instanced, r.capacity)
	return r, nil
}

func (r *Renderer) init(cfg Config) error {
	var err error
	r.shader, err = r.ctx.MakeShader(&metadata.ShaderDesc{
		GLSL:          metadata.GLSLSource{VS: quadVS, FS: quadFS},
		HLSL40:        cfg.HLSL40,
		HLSL40Level91: cfg.HLSL40Level91,
	})
	if err != nil {
		return fmt.Errorf("quad shader: %w", err)
	}

	desc := metadata.PipelineDesc{
		Blend:            true,
		BlendSource:      metadata.BlendFuncSrcAlpha,
		BlendDest:        metadata.BlendFuncInvSrcAlpha,
		BlendOp:          metadata.BlendOpAdd,
		BlendSourceAlpha: metadata.BlendFuncSrcAlpha,
		BlendDestAlpha:   metadata.BlendFuncInvSrcAlpha,
		BlendOpAlpha:     metadata.BlendOpAdd,
		Shader:           r.shader,
	}
	var indices []uint16
	if r.instanced {
		desc.InputLayout = [metadata.PipelineMaxVertexInputs]metadata.LayoutDesc{
			{Offset: 0, Format: metadata.LayoutFormatVec2, Divisor: 1},
			{Offset: 8, Format: metadata.LayoutFormatMat2, Divisor: 1},
			{Offset: 24, Format: metadata.LayoutFormatVec2I16, Divisor: 1},
			{Offset: 28, Format: metadata.LayoutFormatVec4I16Norm, Divisor: 1},
			{Offset: 36, Format: metadata.LayoutFormatVec4U8Norm, Divisor: 1},
		}
		indices = []uint16{0, 1, 2, 2, 3, 1}
	} else {
		desc.InputLayout = [metadata.PipelineMaxVertexInputs]metadata.LayoutDesc{
			{Offset: 0, Format: metadata.LayoutFormatVec2},
			{Offset: 8, Format: metadata.LayoutFormatVec2},
			{Offset: 16, Format: metadata.LayoutFormatVec2},
			// level 9.1 has no integer inputs; the shader scales the index back
			{Offset: 24, Format: metadata.LayoutFormatVec2I16Norm},
			{Offset: 28, Format: metadata.LayoutFormatVec2I16Norm},
			{Offset: 32, Format: metadata.LayoutFormatVec4U8Norm},
		}
		indices = quadIndices(MaxQuadsPerDraw)
	}
	r.pipeline, err = r.ctx.MakePipeline(&desc)
	if err != nil {
		return fmt.Errorf("quad pipeline: %w", err)
	}

	ib := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		ib = binary.LittleEndian.AppendUint16(ib, i)
	}
	r.ibuffer, err = r.ctx.MakeIndexBuffer(&metadata.IndexBufferDesc{
		Size:        len(ib),
		InitialData: ib,
		IndexType:   metadata.IndexTypeUint16,
	})
	if err != nil {
		return fmt.Errorf("quad index buffer: %w", err)
	}

	r.ubuffer, err = r.ctx.MakeUniformBuffer(&metadata.UniformBufferDesc{Size: uniformSize})
	if err != nil {
		return fmt.Errorf("quad uniform buffer: %w", err)
	}

	r.vbuffer, err = r.ctx.MakeVertexBuffer(&metadata.VertexBufferDesc{
		Size:    r.capacity * r.quadSize(),
		Dynamic: true,
	})
	if err != nil {
		return fmt.Errorf("quad vertex buffer: %w", err)
	}
	return nil
}

// quadIndices builds two triangles per quad for quads of four consecutive vertices.
func quadIndices(quads int) []uint16 {
	indices := make([]uint16, 0, quads*6)
	for i := 0; i < quads; i++ {
		base := uint16(i * 4)
		indices = append(indices, base, base+1, base+2, base+2, base+3, base+1)
	}
	return indices
}

// Instanced reports which vertex layout the renderer uses.
func (r *Renderer) Instanced() bool {
	return r.instanced
}

// quadSize is the vertex buffer space taken by one quad.
func (r *Renderer) quadSize() int {
	if r.instanced {
		return instancedVertexSize
	}
	return 4 * expandedVertexSize
}

/**
 * @brief Uploads b and draws it with cam. A nil camera maps world units to
 * pixels of the current frame. Must be called between Begin and End.
 */
func (r *Renderer) Draw(b *Batch, cam *math.Camera2D) error {
	if b.Len() == 0 {
		return nil
	}
	if cam == nil {
		cam = math.NewCamera2D(r.ctx.FrameSize())
	}

	if err := r.ctx.UpdateUniformBuffer(r.ubuffer, 0, encodeUniforms(b, cam)); err != nil {
		return err
	}
	if err := r.reserve(b.Len()); err != nil {
		return err
	}
	r.vertices = r.vertices[:0]
	for i := range b.Elements {
		if r.instanced {
			r.vertices = appendInstancedVertex(r.vertices, &b.Elements[i])
		} else {
			r.vertices = appendExpandedQuad(r.vertices, &b.Elements[i])
		}
	}
	if err := r.ctx.UpdateVertexBuffer(r.vbuffer, 0, r.vertices); err != nil {
		return err
	}

	if err := r.ctx.ApplyPipeline(r.pipeline); err != nil {
		return err
	}

	desc := metadata.DrawDesc{
		IndexBuffer:   r.ibuffer,
		UniformBuffer: r.ubuffer,
	}
	desc.VertexBuffers[0] = r.vbuffer
	for i, t := range b.Textures {
		desc.Textures[i] = t.Handle
	}

	if r.instanced {
		desc.Strides[0] = instancedVertexSize
		desc.IndexCount = 6
		desc.InstanceCount = b.Len()
		return r.ctx.Draw(&desc)
	}

	desc.Strides[0] = expandedVertexSize
	for start := 0; start < b.Len(); start += MaxQuadsPerDraw {
		n := min(b.Len()-start, MaxQuadsPerDraw)
		desc.Offsets[0] = start * r.quadSize()
		desc.IndexCount = n * 6
		if err := r.ctx.Draw(&desc); err != nil {
			return err
		}
	}
	return nil
}

// DrawCmd defers Draw to its position in a draw command list. b and cam
// are read when the list runs.
func (r *Renderer) DrawCmd(b *Batch, cam *math.Camera2D) renderer.DrawCommand {
	return renderer.FuncCmd{Fn: func(*renderer.Context) error {
		return r.Draw(b, cam)
	}}
}

// reserve recreates the vertex buffer when quads do not fit in it.
func (r *Renderer) reserve(quads int) error {
	if quads <= r.capacity {
		return nil
	}
	capacity := r.capacity
	for capacity < quads {
		capacity *= 2
	}
	vb, err := r.ctx.MakeVertexBuffer(&metadata.VertexBufferDesc{
		Size:    capacity * r.quadSize(),
		Dynamic: true,
	})
	if err != nil {
		return fmt.Errorf("failed to grow quad vertex buffer to %d quads: %w", capacity, err)
	}
	r.ctx.FreeVertexBuffer(r.vbuffer)
	r.vbuffer = vb
	r.capacity = capacity
	core.LogDebug("quad vertex buffer grown to %d quads", capacity)
	return nil
}

// Release frees everything New created. The renderer must not be used afterwards.
func (r *Renderer) Release() {
	if !r.pipeline.IsNull() {
		r.ctx.FreePipeline(r.pipeline)
	}
	if !r.shader.IsNull() {
		r.ctx.FreeShader(r.shader)
	}
	if !r.vbuffer.IsNull() {
		r.ctx.FreeVertexBuffer(r.vbuffer)
	}
	if !r.ibuffer.IsNull() {
		r.ctx.FreeIndexBuffer(r.ibuffer)
	}
	if !r.ubuffer.IsNull() {
		r.ctx.FreeUniformBuffer(r.ubuffer)
	}
	*r = Renderer{ctx: r.ctx}
}

func encodeUniforms(b *Batch, cam *math.Camera2D) []byte {
	buf := make([]byte, 0, uniformSize)
	view := cam.ViewMatrix()
	for _, v := range view.Data {
		buf = appendFloat32(buf, v)
	}
	for i := 0; i < metadata.DrawMaxTextures; i++ {
		w, h := float32(2), float32(2)
		if i < MaxTextures && !b.Textures[i].isNull() {
			w, h = float32(b.Textures[i].Width), float32(b.Textures[i].Height)
		}
		buf = appendFloat32(buf, w)
		buf = appendFloat32(buf, h)
	}
	return buf
}

func appendInstancedVertex(buf []byte, r *Rect) []byte {
	buf = appendFloat32(buf, r.Pos.X)
	buf = appendFloat32(buf, r.Pos.Y)
	for _, v := range r.Scaling.Data {
		buf = appendFloat32(buf, v)
	}
	buf = appendInt16(buf, r.TexIndex)
	buf = appendInt16(buf, r.TexKind)
	for _, v := range r.Texcoords {
		buf = appendInt16(buf, v)
	}
	color := r.Color.ToRGBA8()
	return append(buf, color[:]...)
}

var corners = [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}

// appendExpandedQuad writes the four corners of r with positions already
// transformed, as the level 9.1 vertex shader has no vertex id.
func appendExpandedQuad(buf []byte, r *Rect) []byte {
	size := math.Vec2{X: r.Scaling.Column(0).Length(), Y: r.Scaling.Column(1).Length()}
	color := r.Color.ToRGBA8()
	for _, c := range corners {
		pos := r.Pos.Add(r.Scaling.MulVec2(c))
		buf = appendFloat32(buf, pos.X)
		buf = appendFloat32(buf, pos.Y)
		buf = appendFloat32(buf, c.X)
		buf = appendFloat32(buf, c.Y)
		buf = appendFloat32(buf, size.X)
		buf = appendFloat32(buf, size.Y)
		buf = appendInt16(buf, r.TexIndex)
		buf = appendInt16(buf, r.TexKind)
		buf = appendInt16(buf, r.Texcoords[0]+int16(c.X)*r.Texcoords[2])
		buf = appendInt16(buf, r.Texcoords[1]+int16(c.Y)*r.Texcoords[3])
		buf = append(buf, color[:]...)
	}
	return buf
}

func appendFloat32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v))
}

func appendInt16(buf []byte, v int16) []byte {
	return binary.LittleEndian.AppendUint16(buf, uint16(v))
}

package opengl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

const shaderPrelude = "#version 330 core\n"

// uniformBlockName is the std140 block every program may declare. It is bound to binding 0.
const uniformBlockName = "UniformBuffer"

type textureTriple struct {
	internalFormat Enum
	format         Enum
	typ            Enum
}

type gpuTexture struct {
	backend       *Backend
	obj           Texture
	triple        textureTriple
	format        metadata.TexFormat
	width, height int
}

type gpuBuffer struct {
	backend *Backend
	obj     Buffer
	target  Enum
	size    int
}

type gpuShader struct {
	backend *Backend
	prog    Program
}

type vertexAttrib struct {
	location  int
	columns   int
	colStride int
	slot      int
	offset    int
	size      int
	typ       Enum
	norm      bool
	integer   bool
	divisor   int
}

type gpuPipeline struct {
	backend *Backend
	desc    metadata.PipelineDesc
	shader  *gpuShader
	attribs []vertexAttrib
	// locations is the number of attribute locations the layout occupies.
	locations int

	blendSrc, blendDst           Enum
	blendSrcAlpha, blendDstAlpha Enum
	blendOp, blendOpAlpha        Enum
	cullFace                     Enum
}

type gpuRenderTarget struct {
	backend       *Backend
	fbo           Framebuffer
	width, height int
}

func textureTripleFor(f metadata.TexFormat) (textureTriple, error) {
	switch f {
	case metadata.TexFormatD16:
		return textureTriple{DEPTH_COMPONENT16, DEPTH_COMPONENT, UNSIGNED_SHORT}, nil
	case metadata.TexFormatD24S8:
		return textureTriple{DEPTH24_STENCIL8, DEPTH_STENCIL, UNSIGNED_INT_24_8}, nil
	case metadata.TexFormatA8, metadata.TexFormatR8:
		return textureTriple{R8, RED, UNSIGNED_BYTE}, nil
	case metadata.TexFormatRG8:
		return textureTriple{RG8, RG, UNSIGNED_BYTE}, nil
	case metadata.TexFormatRGB8:
		return textureTriple{RGB8, RGB, UNSIGNED_BYTE}, nil
	case metadata.TexFormatRGBA8:
		return textureTriple{RGBA8, RGBA, UNSIGNED_BYTE}, nil
	}
	return textureTriple{}, fmt.Errorf("texture format %s: %w", f, core.ErrUnsupportedFormat)
}

func (b *Backend) NewTexture2D(desc *metadata.Texture2DDesc) (driver.Texture, error) {
	triple, err := textureTripleFor(desc.Format)
	if err != nil {
		return nil, err
	}
	b.glErr("texture")
	f := b.funcs
	tex := &gpuTexture{
		backend: b,
		obj:     f.CreateTexture(),
		triple:  triple,
		format:  desc.Format,
		width:   desc.Width,
		height:  desc.Height,
	}
	b.bindTexture(0, tex.obj)
	filter := NEAREST
	if desc.LinearFiltering {
		filter = LINEAR
	}
	f.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, filter)
	f.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, filter)
	f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, CLAMP_TO_EDGE)
	f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, CLAMP_TO_EDGE)
	if desc.Format == metadata.TexFormatA8 {
		// alpha-only textures live in the red channel
		f.TexParameteri(TEXTURE_2D, TEXTURE_SWIZZLE_R, ZERO)
		f.TexParameteri(TEXTURE_2D, TEXTURE_SWIZZLE_G, ZERO)
		f.TexParameteri(TEXTURE_2D, TEXTURE_SWIZZLE_B, ZERO)
		f.TexParameteri(TEXTURE_2D, TEXTURE_SWIZZLE_A, RED)
	}
	f.TexImage2D(TEXTURE_2D, 0, triple.internalFormat, desc.Width, desc.Height, triple.format, triple.typ, desc.Pixels)
	if err := b.glErr("TexImage2D"); err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}

func (t *gpuTexture) Upload(x, y, width, height int, pixels []byte) error {
	b := t.backend
	b.glErr("texture upload")
	b.bindTexture(0, t.obj)
	b.funcs.TexSubImage2D(TEXTURE_2D, 0, x, y, width, height, t.triple.format, t.triple.typ, pixels)
	return b.glErr("TexSubImage2D")
}

func (t *gpuTexture) Release() {
	t.backend.funcs.DeleteTexture(t.obj)
}

func (b *Backend) bindTexture(unit int, t Texture) {
	b.funcs.ActiveTexture(TEXTURE0 + Enum(unit))
	b.funcs.BindTexture(TEXTURE_2D, t)
}

func bufferTarget(kind metadata.BufferKind) Enum {
	switch kind {
	case metadata.BufferKindIndex:
		return ELEMENT_ARRAY_BUFFER
	case metadata.BufferKindUniform:
		return UNIFORM_BUFFER
	}
	return ARRAY_BUFFER
}

func (b *Backend) NewBuffer(desc *metadata.BufferDesc) (driver.Buffer, error) {
	b.glErr("buffer")
	buf := &gpuBuffer{
		backend: b,
		obj:     b.funcs.CreateBuffer(),
		target:  bufferTarget(desc.Kind),
		size:    desc.Size,
	}
	usage := Enum(STATIC_DRAW)
	if desc.Dynamic {
		usage = DYNAMIC_DRAW
	}
	data := desc.InitialData
	if data != nil && len(data) < desc.Size {
		padded := make([]byte, desc.Size)
		copy(padded, data)
		data = padded
	}
	b.funcs.BindBuffer(buf.target, buf.obj)
	b.funcs.BufferData(buf.target, desc.Size, usage, data)
	if err := b.glErr("BufferData"); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (buf *gpuBuffer) Upload(offset int, data []byte) error {
	b := buf.backend
	b.glErr("buffer upload")
	b.funcs.BindBuffer(buf.target, buf.obj)
	b.funcs.BufferSubData(buf.target, offset, data)
	return b.glErr("BufferSubData")
}

func (buf *gpuBuffer) Release() {
	buf.backend.funcs.DeleteBuffer(buf.obj)
}

func (b *Backend) NewShader(desc *metadata.ShaderDesc) (driver.Shader, error) {
	prog, err := createProgram(b.funcs, shaderPrelude+desc.GLSL.VS, shaderPrelude+desc.GLSL.FS)
	if err != nil {
		return nil, err
	}
	f := b.funcs
	if idx := f.GetUniformBlockIndex(prog, uniformBlockName); idx != INVALID_INDEX {
		f.UniformBlockBinding(prog, idx, 0)
	}
	// Samplers keep a fixed unit for the lifetime of the program.
	f.UseProgram(prog)
	for i := 0; i < metadata.DrawMaxTextures; i++ {
		u := f.GetUniformLocation(prog, fmt.Sprintf("uTexture[%d]", i))
		if !u.Valid() {
			u = f.GetUniformLocation(prog, fmt.Sprintf("uTexture%d", i))
		}
		if u.Valid() {
			f.Uniform1i(u, i)
		}
	}
	if b.pipeline != nil {
		f.UseProgram(b.pipeline.shader.prog)
	} else {
		f.UseProgram(Program{})
	}
	if err := b.glErr("program setup"); err != nil {
		f.DeleteProgram(prog)
		return nil, err
	}
	return &gpuShader{backend: b, prog: prog}, nil
}

func (s *gpuShader) Release() {
	s.backend.funcs.DeleteProgram(s.prog)
}

func createProgram(f Functions, vsSrc, fsSrc string) (Program, error) {
	vs, err := createShader(f, VERTEX_SHADER, vsSrc)
	if err != nil {
		return Program{}, err
	}
	defer f.DeleteShader(vs)
	fs, err := createShader(f, FRAGMENT_SHADER, fsSrc)
	if err != nil {
		return Program{}, err
	}
	defer f.DeleteShader(fs)
	prog := f.CreateProgram()
	if prog.V == 0 {
		return Program{}, fmt.Errorf("glCreateProgram failed: %w", core.ErrShaderLink)
	}
	f.AttachShader(prog, vs)
	f.AttachShader(prog, fs)
	f.LinkProgram(prog)
	if f.GetProgrami(prog, LINK_STATUS) == 0 {
		log := f.GetProgramInfoLog(prog)
		f.DeleteProgram(prog)
		return Program{}, fmt.Errorf("program link failed: %s: %w", strings.TrimSpace(log), core.ErrShaderLink)
	}
	return prog, nil
}

func createShader(f Functions, typ Enum, src string) (Shader, error) {
	sh := f.CreateShader(typ)
	if sh.V == 0 {
		return Shader{}, fmt.Errorf("glCreateShader failed: %w", core.ErrShaderCompile)
	}
	f.ShaderSource(sh, src)
	f.CompileShader(sh)
	if f.GetShaderi(sh, COMPILE_STATUS) == 0 {
		log := f.GetShaderInfoLog(sh)
		f.DeleteShader(sh)
		stage := "vertex"
		if typ == FRAGMENT_SHADER {
			stage = "fragment"
		}
		return Shader{}, fmt.Errorf("%s shader compilation failed: %s: %w", stage, strings.TrimSpace(log), core.ErrShaderCompile)
	}
	return sh, nil
}

func toGLBlendFactor(f metadata.BlendFunc) Enum {
	switch f {
	case metadata.BlendFuncOne:
		return ONE
	case metadata.BlendFuncSrcColor:
		return SRC_COLOR
	case metadata.BlendFuncInvSrcColor:
		return ONE_MINUS_SRC_COLOR
	case metadata.BlendFuncDstColor:
		return DST_COLOR
	case metadata.BlendFuncInvDstColor:
		return ONE_MINUS_DST_COLOR
	case metadata.BlendFuncSrcAlpha:
		return SRC_ALPHA
	case metadata.BlendFuncInvSrcAlpha:
		return ONE_MINUS_SRC_ALPHA
	case metadata.BlendFuncDstAlpha:
		return DST_ALPHA
	case metadata.BlendFuncInvDstAlpha:
		return ONE_MINUS_DST_ALPHA
	}
	return ZERO
}

func toGLBlendOp(op metadata.BlendOp) Enum {
	if op == metadata.BlendOpSubtract {
		return FUNC_SUBTRACT
	}
	return FUNC_ADD
}

// attribFormat maps one attribute column to its VertexAttribPointer arguments.
func attribFormat(f metadata.LayoutFormat) (size int, typ Enum, norm, integer bool) {
	switch f {
	case metadata.LayoutFormatScalar:
		return 1, FLOAT, false, false
	case metadata.LayoutFormatVec2:
		return 2, FLOAT, false, false
	case metadata.LayoutFormatVec3:
		return 3, FLOAT, false, false
	case metadata.LayoutFormatVec4:
		return 4, FLOAT, false, false
	case metadata.LayoutFormatVec2I16Norm:
		return 2, SHORT, true, false
	case metadata.LayoutFormatVec2I16:
		return 2, SHORT, false, true
	case metadata.LayoutFormatVec4I16Norm:
		return 4, SHORT, true, false
	case metadata.LayoutFormatVec4I16:
		return 4, SHORT, false, true
	case metadata.LayoutFormatVec4U8Norm:
		return 4, UNSIGNED_BYTE, true, false
	case metadata.LayoutFormatVec4U8:
		return 4, UNSIGNED_BYTE, false, true
	}
	panic(fmt.Sprintf("unsupported layout format %d", f))
}

// NewPipeline assigns attribute locations in layout order. A matrix takes
// one location per column, so the shader declares e.g. a mat2 at location
// N and the next attribute at N+2.
func (b *Backend) NewPipeline(desc *metadata.PipelineDesc, s driver.Shader) (driver.Pipeline, error) {
	p := &gpuPipeline{
		backend:       b,
		desc:          *desc,
		shader:        s.(*gpuShader),
		blendSrc:      toGLBlendFactor(desc.BlendSource),
		blendDst:      toGLBlendFactor(desc.BlendDest),
		blendSrcAlpha: toGLBlendFactor(desc.BlendSourceAlpha),
		blendDstAlpha: toGLBlendFactor(desc.BlendDestAlpha),
		blendOp:       toGLBlendOp(desc.BlendOp),
		blendOpAlpha:  toGLBlendOp(desc.BlendOpAlpha),
		cullFace:      BACK,
	}
	if desc.CullMode == metadata.CullModeFront {
		p.cullFace = FRONT
	}
	loc := 0
	for _, l := range desc.Attributes() {
		column, stride := l.Format.Column()
		size, typ, norm, integer := attribFormat(column)
		p.attribs = append(p.attribs, vertexAttrib{
			location:  loc,
			columns:   l.Format.Columns(),
			colStride: stride,
			slot:      l.BufferSlot,
			offset:    l.Offset,
			size:      size,
			typ:       typ,
			norm:      norm,
			integer:   integer,
			divisor:   l.Divisor,
		})
		loc += l.Format.Columns()
	}
	p.locations = loc
	return p, nil
}

// Pipelines own no GL objects; the program belongs to the shader.
func (p *gpuPipeline) Release() {
	if p.backend.pipeline == p {
		p.backend.pipeline = nil
	}
}

func (b *Backend) NewRenderTarget(color []driver.Texture, depthStencil driver.Texture) (driver.RenderTarget, error) {
	b.glErr("render target")
	f := b.funcs
	rt := &gpuRenderTarget{backend: b, fbo: f.CreateFramebuffer()}
	f.BindFramebuffer(FRAMEBUFFER, rt.fbo)

	var bufs []Enum
	for i, c := range color {
		t := c.(*gpuTexture)
		att := Enum(COLOR_ATTACHMENT0 + i)
		f.FramebufferTexture2D(FRAMEBUFFER, att, TEXTURE_2D, t.obj, 0)
		bufs = append(bufs, att)
		rt.width, rt.height = t.width, t.height
	}
	if depthStencil != nil {
		t := depthStencil.(*gpuTexture)
		att := Enum(DEPTH_ATTACHMENT)
		if t.format == metadata.TexFormatD24S8 {
			att = DEPTH_STENCIL_ATTACHMENT
		}
		f.FramebufferTexture2D(FRAMEBUFFER, att, TEXTURE_2D, t.obj, 0)
		if rt.width == 0 {
			rt.width, rt.height = t.width, t.height
		}
	}
	if len(bufs) == 0 {
		bufs = []Enum{NONE}
	}
	f.DrawBuffers(bufs)

	st := f.CheckFramebufferStatus(FRAMEBUFFER)
	b.restoreFramebuffer()
	if st != FRAMEBUFFER_COMPLETE {
		rt.Release()
		return nil, fmt.Errorf("incomplete framebuffer, status = %#x: %w", uint32(st), core.ErrUnsupportedFormat)
	}
	if err := b.glErr("framebuffer"); err != nil {
		rt.Release()
		return nil, err
	}
	return rt, nil
}

func (b *Backend) restoreFramebuffer() {
	if b.target != nil {
		b.funcs.BindFramebuffer(FRAMEBUFFER, b.target.fbo)
	} else {
		b.funcs.BindFramebuffer(FRAMEBUFFER, Framebuffer{})
	}
}

func (rt *gpuRenderTarget) Release() {
	b := rt.backend
	if b.target == rt {
		b.target = nil
		b.funcs.BindFramebuffer(FRAMEBUFFER, Framebuffer{})
	}
	b.funcs.DeleteFramebuffer(rt.fbo)
}

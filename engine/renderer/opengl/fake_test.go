package opengl

import (
	"fmt"
	"strings"
)

// fakeGL records the calls the backend makes. Only the state the tests
// inspect is modelled.
type fakeGL struct {
	version string
	ints    map[Enum]int

	next     uint32
	calls    []string
	sources  map[uint32]string
	uniforms map[string]int
	deleted  int

	failCompile bool
	failLink    bool
	fbStatus    Enum
	glError     Enum
}

func newFakeGL(version string) *fakeGL {
	return &fakeGL{
		version: version,
		ints: map[Enum]int{
			MAX_TEXTURE_SIZE:        16384,
			MAX_COLOR_ATTACHMENTS:   8,
			MAX_TEXTURE_IMAGE_UNITS: 32,
		},
		sources:  map[uint32]string{},
		uniforms: map[string]int{},
		fbStatus: FRAMEBUFFER_COMPLETE,
	}
}

func (f *fakeGL) rec(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGL) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeGL) has(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeGL) obj() uint32 {
	f.next++
	return f.next
}

func (f *fakeGL) ActiveTexture(texture Enum)       { f.rec("ActiveTexture %d", texture-TEXTURE0) }
func (f *fakeGL) AttachShader(p Program, s Shader) {}
func (f *fakeGL) BindBuffer(target Enum, b Buffer) { f.rec("BindBuffer %#x %d", uint32(target), b.V) }
func (f *fakeGL) BindBufferBase(target Enum, index int, b Buffer) {
	f.rec("BindBufferBase %#x %d %d", uint32(target), index, b.V)
}
func (f *fakeGL) BindFramebuffer(target Enum, fb Framebuffer) { f.rec("BindFramebuffer %d", fb.V) }
func (f *fakeGL) BindTexture(target Enum, t Texture)          { f.rec("BindTexture %d", t.V) }
func (f *fakeGL) BindVertexArray(a VertexArray)               { f.rec("BindVertexArray %d", a.V) }
func (f *fakeGL) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	f.rec("BlendEquationSeparate %#x %#x", uint32(modeRGB), uint32(modeAlpha))
}
func (f *fakeGL) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum) {
	f.rec("BlendFuncSeparate %#x %#x %#x %#x", uint32(srcRGB), uint32(dstRGB), uint32(srcA), uint32(dstA))
}
func (f *fakeGL) BufferData(target Enum, size int, usage Enum, data []byte) {
	f.rec("BufferData %#x %d %#x %d", uint32(target), size, uint32(usage), len(data))
}
func (f *fakeGL) BufferSubData(target Enum, offset int, src []byte) {
	f.rec("BufferSubData %#x %d %d", uint32(target), offset, len(src))
}
func (f *fakeGL) CheckFramebufferStatus(target Enum) Enum { return f.fbStatus }
func (f *fakeGL) Clear(mask Enum)                         { f.rec("Clear %#x", uint32(mask)) }
func (f *fakeGL) ClearColor(red, green, blue, alpha float32) {
	f.rec("ClearColor %g %g %g %g", red, green, blue, alpha)
}
func (f *fakeGL) ClearDepth(d float64)                  { f.rec("ClearDepth %g", d) }
func (f *fakeGL) ClearStencil(s int)                    { f.rec("ClearStencil %d", s) }
func (f *fakeGL) CompileShader(s Shader)                {}
func (f *fakeGL) CreateBuffer() Buffer                  { return Buffer{f.obj()} }
func (f *fakeGL) CreateFramebuffer() Framebuffer        { return Framebuffer{f.obj()} }
func (f *fakeGL) CreateProgram() Program                { return Program{f.obj()} }
func (f *fakeGL) CreateShader(ty Enum) Shader           { return Shader{f.obj()} }
func (f *fakeGL) CreateTexture() Texture                { return Texture{f.obj()} }
func (f *fakeGL) CreateVertexArray() VertexArray        { return VertexArray{f.obj()} }
func (f *fakeGL) CullFace(mode Enum)                    { f.rec("CullFace %#x", uint32(mode)) }
func (f *fakeGL) DeleteBuffer(v Buffer)                 { f.deleted++ }
func (f *fakeGL) DeleteFramebuffer(v Framebuffer)       { f.deleted++ }
func (f *fakeGL) DeleteProgram(p Program)               { f.deleted++ }
func (f *fakeGL) DeleteShader(s Shader)                 {}
func (f *fakeGL) DeleteTexture(v Texture)               { f.deleted++ }
func (f *fakeGL) DeleteVertexArray(a VertexArray)       { f.deleted++ }
func (f *fakeGL) DepthFunc(fn Enum)                     {}
func (f *fakeGL) DepthMask(mask bool)                   {}
func (f *fakeGL) Disable(cap Enum)                      { f.rec("Disable %#x", uint32(cap)) }
func (f *fakeGL) DisableVertexAttribArray(a Attrib)     { f.rec("DisableVertexAttribArray %d", a) }
func (f *fakeGL) DrawBuffers(bufs []Enum)               { f.rec("DrawBuffers %d", len(bufs)) }
func (f *fakeGL) Enable(cap Enum)                       { f.rec("Enable %#x", uint32(cap)) }
func (f *fakeGL) EnableVertexAttribArray(a Attrib)      { f.rec("EnableVertexAttribArray %d", a) }
func (f *fakeGL) FrontFace(mode Enum)                   { f.rec("FrontFace %#x", uint32(mode)) }
func (f *fakeGL) GetInteger(pname Enum) int             { return f.ints[pname] }
func (f *fakeGL) GetProgramInfoLog(p Program) string    { return "link log" }
func (f *fakeGL) GetShaderInfoLog(s Shader) string      { return "0:1: syntax error" }
func (f *fakeGL) LinkProgram(p Program)                 {}
func (f *fakeGL) PixelStorei(pname Enum, param int)     { f.rec("PixelStorei %#x %d", uint32(pname), param) }
func (f *fakeGL) PolygonMode(face, mode Enum)           { f.rec("PolygonMode %#x", uint32(mode)) }
func (f *fakeGL) Uniform1i(dst Uniform, v int)          { f.rec("Uniform1i %d %d", dst.V, v) }
func (f *fakeGL) UseProgram(p Program)                  { f.rec("UseProgram %d", p.V) }
func (f *fakeGL) Viewport(x, y, width, height int)      { f.rec("Viewport %d %d %d %d", x, y, width, height) }
func (f *fakeGL) VertexAttribDivisor(i Attrib, div int) { f.rec("VertexAttribDivisor %d %d", i, div) }

func (f *fakeGL) DrawElements(mode Enum, count int, ty Enum, offset int) {
	f.rec("DrawElements %d %#x %d", count, uint32(ty), offset)
}

func (f *fakeGL) DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instances int) {
	f.rec("DrawElementsInstanced %d %#x %d %d", count, uint32(ty), offset, instances)
}

func (f *fakeGL) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	f.rec("FramebufferTexture2D %#x %d", uint32(attachment), t.V)
}

func (f *fakeGL) GetError() Enum {
	err := f.glError
	f.glError = NO_ERROR
	return err
}

func (f *fakeGL) GetProgrami(p Program, pname Enum) int {
	if f.failLink {
		return 0
	}
	return 1
}

func (f *fakeGL) GetShaderi(s Shader, pname Enum) int {
	if f.failCompile {
		return 0
	}
	return 1
}

func (f *fakeGL) GetString(pname Enum) string {
	switch pname {
	case VERSION:
		return f.version
	case RENDERER:
		return "Fake Renderer "
	case VENDOR:
		return "Fake Vendor"
	}
	return ""
}

func (f *fakeGL) GetUniformBlockIndex(p Program, name string) uint32 {
	if name == uniformBlockName {
		return 0
	}
	return INVALID_INDEX
}

func (f *fakeGL) GetUniformLocation(p Program, name string) Uniform {
	if loc, ok := f.uniforms[name]; ok {
		return Uniform{int32(loc)}
	}
	return Uniform{-1}
}

func (f *fakeGL) ShaderSource(s Shader, src string) {
	f.sources[s.V] = src
}

func (f *fakeGL) TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte) {
	f.rec("TexImage2D %#x %dx%d %#x %#x %d", uint32(internalFormat), width, height, uint32(format), uint32(ty), len(data))
}

func (f *fakeGL) TexParameteri(target, pname Enum, param int) {
	f.rec("TexParameteri %#x %#x", uint32(pname), param)
}

func (f *fakeGL) TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte) {
	f.rec("TexSubImage2D %d %d %dx%d %d", x, y, width, height, len(data))
}

func (f *fakeGL) UniformBlockBinding(p Program, blockIndex, binding uint32) {
	f.rec("UniformBlockBinding %d %d", blockIndex, binding)
}

func (f *fakeGL) VertexAttribIPointer(dst Attrib, size int, ty Enum, stride, offset int) {
	f.rec("VertexAttribIPointer %d %d %#x %d %d", dst, size, uint32(ty), stride, offset)
}

func (f *fakeGL) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	f.rec("VertexAttribPointer %d %d %#x %t %d %d", dst, size, uint32(ty), normalized, stride, offset)
}

type fakeSurface struct {
	current  int
	swaps    int
	interval []int
}

func (s *fakeSurface) MakeCurrent()              { s.current++ }
func (s *fakeSurface) SwapBuffers()              { s.swaps++ }
func (s *fakeSurface) SwapInterval(interval int) { s.interval = append(s.interval, interval) }

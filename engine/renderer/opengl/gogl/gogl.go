// Package gogl implements opengl.Functions with the go-gl 3.3 core bindings.
package gogl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/anima-rb/engine/renderer/opengl"
)

type Functions struct{}

// New loads the GL entry points of the current context. The context must
// be current on the calling thread.
func New() (*Functions, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Functions{}, nil
}

var _ opengl.Functions = (*Functions)(nil)

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (f *Functions) ActiveTexture(texture opengl.Enum) {
	gl.ActiveTexture(uint32(texture))
}

func (f *Functions) AttachShader(p opengl.Program, s opengl.Shader) {
	gl.AttachShader(p.V, s.V)
}

func (f *Functions) BindBuffer(target opengl.Enum, b opengl.Buffer) {
	gl.BindBuffer(uint32(target), b.V)
}

func (f *Functions) BindBufferBase(target opengl.Enum, index int, b opengl.Buffer) {
	gl.BindBufferBase(uint32(target), uint32(index), b.V)
}

func (f *Functions) BindFramebuffer(target opengl.Enum, fb opengl.Framebuffer) {
	gl.BindFramebuffer(uint32(target), fb.V)
}

func (f *Functions) BindTexture(target opengl.Enum, t opengl.Texture) {
	gl.BindTexture(uint32(target), t.V)
}

func (f *Functions) BindVertexArray(a opengl.VertexArray) {
	gl.BindVertexArray(a.V)
}

func (f *Functions) BlendEquationSeparate(modeRGB, modeAlpha opengl.Enum) {
	gl.BlendEquationSeparate(uint32(modeRGB), uint32(modeAlpha))
}

func (f *Functions) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA opengl.Enum) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcA), uint32(dstA))
}

func (f *Functions) BufferData(target opengl.Enum, size int, usage opengl.Enum, data []byte) {
	gl.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (f *Functions) BufferSubData(target opengl.Enum, offset int, src []byte) {
	gl.BufferSubData(uint32(target), offset, len(src), ptr(src))
}

func (f *Functions) CheckFramebufferStatus(target opengl.Enum) opengl.Enum {
	return opengl.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (f *Functions) Clear(mask opengl.Enum) {
	gl.Clear(uint32(mask))
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
}

func (f *Functions) ClearDepth(d float64) {
	gl.ClearDepth(d)
}

func (f *Functions) ClearStencil(s int) {
	gl.ClearStencil(int32(s))
}

func (f *Functions) CompileShader(s opengl.Shader) {
	gl.CompileShader(s.V)
}

func (f *Functions) CreateBuffer() opengl.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return opengl.Buffer{V: b}
}

func (f *Functions) CreateFramebuffer() opengl.Framebuffer {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return opengl.Framebuffer{V: fb}
}

func (f *Functions) CreateProgram() opengl.Program {
	return opengl.Program{V: gl.CreateProgram()}
}

func (f *Functions) CreateShader(ty opengl.Enum) opengl.Shader {
	return opengl.Shader{V: gl.CreateShader(uint32(ty))}
}

func (f *Functions) CreateTexture() opengl.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return opengl.Texture{V: t}
}

func (f *Functions) CreateVertexArray() opengl.VertexArray {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return opengl.VertexArray{V: a}
}

func (f *Functions) CullFace(mode opengl.Enum) {
	gl.CullFace(uint32(mode))
}

func (f *Functions) DeleteBuffer(v opengl.Buffer) {
	gl.DeleteBuffers(1, &v.V)
}

func (f *Functions) DeleteFramebuffer(v opengl.Framebuffer) {
	gl.DeleteFramebuffers(1, &v.V)
}

func (f *Functions) DeleteProgram(p opengl.Program) {
	gl.DeleteProgram(p.V)
}

func (f *Functions) DeleteShader(s opengl.Shader) {
	gl.DeleteShader(s.V)
}

func (f *Functions) DeleteTexture(v opengl.Texture) {
	gl.DeleteTextures(1, &v.V)
}

func (f *Functions) DeleteVertexArray(a opengl.VertexArray) {
	gl.DeleteVertexArrays(1, &a.V)
}

func (f *Functions) DepthFunc(fn opengl.Enum) {
	gl.DepthFunc(uint32(fn))
}

func (f *Functions) DepthMask(mask bool) {
	gl.DepthMask(mask)
}

func (f *Functions) Disable(cap opengl.Enum) {
	gl.Disable(uint32(cap))
}

func (f *Functions) DisableVertexAttribArray(a opengl.Attrib) {
	gl.DisableVertexAttribArray(uint32(a))
}

func (f *Functions) DrawBuffers(bufs []opengl.Enum) {
	raw := make([]uint32, len(bufs))
	for i, b := range bufs {
		raw[i] = uint32(b)
	}
	gl.DrawBuffers(int32(len(raw)), &raw[0])
}

func (f *Functions) DrawElements(mode opengl.Enum, count int, ty opengl.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(ty), uintptr(offset))
}

func (f *Functions) DrawElementsInstanced(mode opengl.Enum, count int, ty opengl.Enum, offset, instances int) {
	gl.DrawElementsInstanced(uint32(mode), int32(count), uint32(ty), gl.PtrOffset(offset), int32(instances))
}

func (f *Functions) Enable(cap opengl.Enum) {
	gl.Enable(uint32(cap))
}

func (f *Functions) EnableVertexAttribArray(a opengl.Attrib) {
	gl.EnableVertexAttribArray(uint32(a))
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget opengl.Enum, t opengl.Texture, level int) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), t.V, int32(level))
}

func (f *Functions) FrontFace(mode opengl.Enum) {
	gl.FrontFace(uint32(mode))
}

func (f *Functions) GetError() opengl.Enum {
	return opengl.Enum(gl.GetError())
}

func (f *Functions) GetInteger(pname opengl.Enum) int {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetProgrami(p opengl.Program, pname opengl.Enum) int {
	var v int32
	gl.GetProgramiv(p.V, uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetProgramInfoLog(p opengl.Program) string {
	var n int32
	gl.GetProgramiv(p.V, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(p.V, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (f *Functions) GetShaderi(s opengl.Shader, pname opengl.Enum) int {
	var v int32
	gl.GetShaderiv(s.V, uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetShaderInfoLog(s opengl.Shader) string {
	var n int32
	gl.GetShaderiv(s.V, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(s.V, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (f *Functions) GetString(pname opengl.Enum) string {
	return gl.GoStr(gl.GetString(uint32(pname)))
}

func (f *Functions) GetUniformBlockIndex(p opengl.Program, name string) uint32 {
	return gl.GetUniformBlockIndex(p.V, gl.Str(name+"\x00"))
}

func (f *Functions) GetUniformLocation(p opengl.Program, name string) opengl.Uniform {
	return opengl.Uniform{V: gl.GetUniformLocation(p.V, gl.Str(name+"\x00"))}
}

func (f *Functions) LinkProgram(p opengl.Program) {
	gl.LinkProgram(p.V)
}

func (f *Functions) PixelStorei(pname opengl.Enum, param int) {
	gl.PixelStorei(uint32(pname), int32(param))
}

func (f *Functions) PolygonMode(face, mode opengl.Enum) {
	gl.PolygonMode(uint32(face), uint32(mode))
}

func (f *Functions) ShaderSource(s opengl.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(s.V, 1, csources, nil)
	free()
}

func (f *Functions) TexImage2D(target opengl.Enum, level int, internalFormat opengl.Enum, width, height int, format, ty opengl.Enum, data []byte) {
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexParameteri(target, pname opengl.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (f *Functions) TexSubImage2D(target opengl.Enum, level, x, y, width, height int, format, ty opengl.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) Uniform1i(dst opengl.Uniform, v int) {
	gl.Uniform1i(dst.V, int32(v))
}

func (f *Functions) UniformBlockBinding(p opengl.Program, blockIndex, binding uint32) {
	gl.UniformBlockBinding(p.V, blockIndex, binding)
}

func (f *Functions) UseProgram(p opengl.Program) {
	gl.UseProgram(p.V)
}

func (f *Functions) VertexAttribDivisor(index opengl.Attrib, divisor int) {
	gl.VertexAttribDivisor(uint32(index), uint32(divisor))
}

func (f *Functions) VertexAttribIPointer(dst opengl.Attrib, size int, ty opengl.Enum, stride, offset int) {
	gl.VertexAttribIPointerWithOffset(uint32(dst), int32(size), uint32(ty), int32(stride), uintptr(offset))
}

func (f *Functions) VertexAttribPointer(dst opengl.Attrib, size int, ty opengl.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(dst), int32(size), uint32(ty), normalized, int32(stride), uintptr(offset))
}

func (f *Functions) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// Package opengl implements the render backend on top of OpenGL 3.3 core.
// All GL calls go through the Functions interface; the gogl subpackage
// provides the implementation backed by go-gl.
package opengl

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// Surface is the window side of a GL context.
type Surface interface {
	MakeCurrent()
	SwapBuffers()
	SwapInterval(interval int)
}

type Backend struct {
	funcs   Functions
	surface Surface
	caps    metadata.Capabilities
	glver   [2]int
	debug   bool

	vao      VertexArray
	interval int

	width, height int
	pipeline      *gpuPipeline
	target        *gpuRenderTarget
	attribs       int
}

// New makes the surface's context current, checks for GL 3.3 core and
// queries the device capabilities.
func New(funcs Functions, surface Surface, debug bool) (*Backend, error) {
	surface.MakeCurrent()
	caps, ver, err := queryCapabilities(funcs)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	b := &Backend{
		funcs:    funcs,
		surface:  surface,
		caps:     caps,
		glver:    ver,
		debug:    debug,
		interval: -1,
	}
	// Core profiles draw nothing without a bound vertex array object.
	b.vao = funcs.CreateVertexArray()
	funcs.BindVertexArray(b.vao)
	funcs.PixelStorei(UNPACK_ALIGNMENT, 1)
	if err := b.glErr("init"); err != nil {
		b.Release()
		return nil, err
	}
	core.LogDebug("OpenGL %d.%d context ready", ver[0], ver[1])
	return b, nil
}

func (b *Backend) Capabilities() metadata.Capabilities {
	return b.caps
}

func (b *Backend) BeginFrame(width, height int) {
	b.width, b.height = width, height
	b.pipeline = nil
	b.target = nil
	b.funcs.BindFramebuffer(FRAMEBUFFER, Framebuffer{})
	b.funcs.Viewport(0, 0, width, height)
}

func (b *Backend) EndFrame() {
	b.debugCheck("frame")
}

func (b *Backend) BindPipeline(p driver.Pipeline) {
	pl := p.(*gpuPipeline)
	b.pipeline = pl
	f := b.funcs
	f.UseProgram(pl.shader.prog)

	if pl.desc.Blend {
		f.Enable(BLEND)
		f.BlendFuncSeparate(pl.blendSrc, pl.blendDst, pl.blendSrcAlpha, pl.blendDstAlpha)
		f.BlendEquationSeparate(pl.blendOp, pl.blendOpAlpha)
	} else {
		f.Disable(BLEND)
	}
	if pl.desc.CullMode == metadata.CullModeNone {
		f.Disable(CULL_FACE)
	} else {
		f.Enable(CULL_FACE)
		f.CullFace(pl.cullFace)
	}
	if pl.desc.FrontFaceCW {
		f.FrontFace(CW)
	} else {
		f.FrontFace(CCW)
	}
	if pl.desc.DepthTest {
		f.Enable(DEPTH_TEST)
		f.DepthFunc(LEQUAL)
		f.DepthMask(true)
	} else {
		f.Disable(DEPTH_TEST)
	}
	if pl.desc.FillMode == metadata.FillModeWireframe {
		f.PolygonMode(FRONT_AND_BACK, LINE)
	} else {
		f.PolygonMode(FRONT_AND_BACK, FILL)
	}
	b.debugCheck("bind pipeline")
}

func (b *Backend) BindRenderTarget(rt driver.RenderTarget) {
	if rt == nil {
		b.target = nil
		b.funcs.BindFramebuffer(FRAMEBUFFER, Framebuffer{})
		b.funcs.Viewport(0, 0, b.width, b.height)
		return
	}
	t := rt.(*gpuRenderTarget)
	b.target = t
	b.funcs.BindFramebuffer(FRAMEBUFFER, t.fbo)
	b.funcs.Viewport(0, 0, t.width, t.height)
	b.debugCheck("bind render target")
}

func (b *Backend) Clear(desc *metadata.ClearDesc) {
	var mask Enum
	if desc.ClearColor {
		b.funcs.ClearColor(desc.Color[0], desc.Color[1], desc.Color[2], desc.Color[3])
		mask |= COLOR_BUFFER_BIT
	}
	if desc.ClearDepth {
		b.funcs.DepthMask(true)
		b.funcs.ClearDepth(1)
		mask |= DEPTH_BUFFER_BIT
	}
	if desc.ClearStencil {
		b.funcs.ClearStencil(0)
		mask |= STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		b.funcs.Clear(mask)
	}
	b.debugCheck("clear")
}

func (b *Backend) Present(vsync int) bool {
	if vsync != b.interval {
		b.surface.SwapInterval(vsync)
		b.interval = vsync
	}
	b.surface.SwapBuffers()
	return true
}

func (b *Backend) Release() {
	if b.vao.V != 0 {
		b.funcs.DeleteVertexArray(b.vao)
		b.vao = VertexArray{}
	}
}

func (b *Backend) glErr(op string) error {
	if st := b.funcs.GetError(); st != NO_ERROR {
		err := fmt.Errorf("%s: glGetError: %#x", op, uint32(st))
		return err
	}
	return nil
}

// debugCheck reports pending GL errors after a command when debugging is on.
func (b *Backend) debugCheck(op string) {
	if !b.debug {
		return
	}
	if err := b.glErr(op); err != nil {
		core.LogError(err.Error())
	}
}

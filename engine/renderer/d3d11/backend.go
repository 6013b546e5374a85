// Package d3d11 implements the render backend on top of Direct3D 11,
// including devices limited to feature level 9.1. The backend talks to the
// native API through the Device, DeviceContext and SwapChain interfaces;
// NewNative provides the real implementation on windows.
package d3d11

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// NativeOptions configures device creation in NewNative.
type NativeOptions struct {
	// Debug enables the Direct3D debug layer when it is installed.
	Debug bool
	// ForceFeatureLevel91 requests a feature level 9.1 device.
	ForceFeatureLevel91 bool
}

type Backend struct {
	dev   Device
	ctx   DeviceContext
	swap  SwapChain
	caps  metadata.Capabilities
	level uint32
	debug bool

	// samplers holds the point and linear samplers shared by all textures.
	samplers [2]Object

	backbuffer        Object
	depthTex          Object
	depthView         Object
	bbWidth, bbHeight int

	width, height int
	pipeline      *gpuPipeline
	target        *gpuRenderTarget
}

// New builds a backend on an existing device, immediate context and swap
// chain, taking ownership of all three.
func New(dev Device, ctx DeviceContext, swap SwapChain, debug bool) (*Backend, error) {
	level := dev.FeatureLevel()
	caps, err := capabilitiesFor(level, dev.AdapterDescription())
	if err != nil {
		core.LogError(err.Error())
		swap.Release()
		ctx.Release()
		dev.Release()
		return nil, err
	}
	b := &Backend{
		dev:   dev,
		ctx:   ctx,
		swap:  swap,
		caps:  caps,
		level: level,
		debug: debug,
	}
	for i, filter := range [...]uint32{FilterMinMagMipPoint, FilterMinMagMipLinear} {
		s, err := dev.CreateSamplerState(&SamplerDesc{Filter: filter})
		if err != nil {
			b.Release()
			return nil, fmt.Errorf("%w: sampler state: %v", core.ErrBackendUnavailable, err)
		}
		b.samplers[i] = s
	}
	core.LogDebug("Direct3D 11 device ready, feature level %s", FeatureLevelString(level))
	return b, nil
}

func (b *Backend) Capabilities() metadata.Capabilities {
	return b.caps
}

// FeatureLevel is the feature level the device was created with.
func (b *Backend) FeatureLevel() uint32 {
	return b.level
}

func (b *Backend) BeginFrame(width, height int) {
	b.width, b.height = width, height
	b.pipeline = nil
	b.target = nil
	if width != b.bbWidth || height != b.bbHeight || b.backbuffer == nil {
		if err := b.resizeBackbuffer(width, height); err != nil {
			core.LogError("d3d11: %s", err)
		}
	}
	b.bindBackbuffer()
	b.ctx.IASetPrimitiveTopology(PrimitiveTopologyTriangleList)
}

// resizeBackbuffer recreates the swap chain buffers and their views for a
// new window size.
func (b *Backend) resizeBackbuffer(width, height int) error {
	b.ctx.OMSetRenderTargets(nil, nil)
	b.releaseBackbuffer()
	if err := b.swap.ResizeBuffers(width, height); err != nil {
		return fmt.Errorf("resize buffers %dx%d: %w", width, height, err)
	}
	tex, err := b.swap.BackBuffer()
	if err != nil {
		return err
	}
	rtv, err := b.dev.CreateRenderTargetView(tex)
	tex.Release()
	if err != nil {
		return err
	}
	b.backbuffer = rtv
	b.bbWidth, b.bbHeight = width, height

	depth, err := b.dev.CreateTexture2D(&TextureDesc{
		Width:     width,
		Height:    height,
		Format:    FormatD24UNormS8UInt,
		Usage:     UsageDefault,
		BindFlags: BindDepthStencil,
	}, nil, 0)
	if err != nil {
		return err
	}
	view, err := b.dev.CreateDepthStencilView(depth, FormatD24UNormS8UInt)
	if err != nil {
		depth.Release()
		return err
	}
	b.depthTex, b.depthView = depth, view
	return nil
}

func (b *Backend) releaseBackbuffer() {
	for _, o := range []*Object{&b.depthView, &b.depthTex, &b.backbuffer} {
		if *o != nil {
			(*o).Release()
			*o = nil
		}
	}
	b.bbWidth, b.bbHeight = 0, 0
}

func (b *Backend) bindBackbuffer() {
	b.ctx.OMSetRenderTargets([]Object{b.backbuffer}, b.depthView)
	b.ctx.RSSetViewport(b.width, b.height)
}

func (b *Backend) EndFrame() {}

func (b *Backend) BindPipeline(p driver.Pipeline) {
	pl := p.(*gpuPipeline)
	b.pipeline = pl
	b.ctx.IASetInputLayout(pl.layout)
	b.ctx.VSSetShader(pl.shader.vs)
	b.ctx.PSSetShader(pl.shader.ps)
	b.ctx.OMSetBlendState(pl.blend)
	b.ctx.RSSetState(pl.raster)
	b.ctx.OMSetDepthStencilState(pl.depth)
}

func (b *Backend) BindRenderTarget(rt driver.RenderTarget) {
	if rt == nil {
		b.target = nil
		b.bindBackbuffer()
		return
	}
	t := rt.(*gpuRenderTarget)
	b.target = t
	b.ctx.OMSetRenderTargets(t.colors, t.depth)
	b.ctx.RSSetViewport(t.width, t.height)
}

func (b *Backend) Clear(desc *metadata.ClearDesc) {
	colors := []Object{b.backbuffer}
	depth := b.depthView
	if b.target != nil {
		colors, depth = b.target.colors, b.target.depth
	}
	if desc.ClearColor {
		for _, rtv := range colors {
			if rtv != nil {
				b.ctx.ClearRenderTargetView(rtv, desc.Color)
			}
		}
	}
	var flags uint32
	if desc.ClearDepth {
		flags |= ClearDepth
	}
	if desc.ClearStencil {
		flags |= ClearStencil
	}
	if flags != 0 && depth != nil {
		b.ctx.ClearDepthStencilView(depth, flags, 1, 0)
	}
}

// Present shows the back buffer. An occluded window is reported as false;
// a removed or reset device is fatal.
func (b *Backend) Present(vsync int) bool {
	hr := b.swap.Present(vsync)
	switch hr {
	case 0:
		return true
	case StatusOccluded:
		if b.debug {
			core.LogDebug("d3d11: window occluded, frame not shown")
		}
		return false
	case ErrorDeviceRemoved, ErrorDeviceReset:
		core.LogFatal("d3d11: Present: %s (%#x)", core.ErrDeviceLost, hr)
		return false
	}
	core.LogError("d3d11: Present: %s (%#x)", core.ErrPresent, hr)
	return false
}

func (b *Backend) Release() {
	b.releaseBackbuffer()
	for i, s := range b.samplers {
		if s != nil {
			s.Release()
			b.samplers[i] = nil
		}
	}
	if b.swap != nil {
		b.swap.Release()
		b.swap = nil
	}
	if b.ctx != nil {
		b.ctx.Release()
		b.ctx = nil
	}
	if b.dev != nil {
		b.dev.Release()
		b.dev = nil
	}
}

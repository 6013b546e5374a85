package d3d11

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/internal/d3d11"
)

// NewNative creates a hardware device and a swap chain for the window hwnd.
func NewNative(hwnd uintptr, opts NativeOptions) (*Backend, error) {
	var levels []uint32
	if opts.ForceFeatureLevel91 {
		levels = []uint32{d3d11.FEATURE_LEVEL_9_1}
	}
	var flags uint32
	if opts.Debug {
		flags |= d3d11.CREATE_DEVICE_DEBUG
	}
	dev, ctx, _, err := d3d11.CreateDevice(d3d11.DRIVER_TYPE_HARDWARE, flags, levels)
	if err != nil && opts.Debug {
		// the debug layer is only present with the SDK installed
		core.LogWarn("d3d11: debug device unavailable (%s), retrying without it", err)
		dev, ctx, _, err = d3d11.CreateDevice(d3d11.DRIVER_TYPE_HARDWARE, 0, levels)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
	}
	swap, err := d3d11.CreateSwapChain(dev, windows.Handle(hwnd))
	if err != nil {
		d3d11.IUnknownRelease(unsafe.Pointer(ctx), ctx.Vtbl.Release)
		d3d11.IUnknownRelease(unsafe.Pointer(dev), dev.Vtbl.Release)
		return nil, fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
	}
	return New(&nativeDevice{dev}, &nativeContext{ctx}, &nativeSwapChain{swap}, opts.Debug)
}

type comObject struct {
	p *d3d11.Resource
}

func (o *comObject) Release() {
	d3d11.IUnknownRelease(unsafe.Pointer(o.p), o.p.Vtbl.Release)
}

func wrap(p *d3d11.Resource, err error) (Object, error) {
	if err != nil {
		return nil, err
	}
	return &comObject{p}, nil
}

func res(o Object) *d3d11.Resource {
	if o == nil {
		return nil
	}
	return o.(*comObject).p
}

func resources(objs []Object) []*d3d11.Resource {
	out := make([]*d3d11.Resource, len(objs))
	for i, o := range objs {
		out[i] = res(o)
	}
	return out
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

type nativeDevice struct {
	dev *d3d11.Device
}

func (d *nativeDevice) FeatureLevel() uint32 {
	return d.dev.GetFeatureLevel()
}

func (d *nativeDevice) AdapterDescription() string {
	desc, err := d.dev.AdapterDesc()
	if err != nil {
		core.LogWarn("d3d11: %s", err)
		return "unknown adapter"
	}
	return windows.UTF16ToString(desc.Description[:])
}

func (d *nativeDevice) CreateBuffer(desc *BufferDesc, data []byte) (Object, error) {
	return wrap(d.dev.CreateBuffer(&d3d11.BUFFER_DESC{
		ByteWidth:      uint32(desc.ByteWidth),
		Usage:          desc.Usage,
		BindFlags:      desc.BindFlags,
		CPUAccessFlags: desc.CPUAccessFlags,
	}, data))
}

func (d *nativeDevice) CreateTexture2D(desc *TextureDesc, data []byte, rowPitch int) (Object, error) {
	return wrap(d.dev.CreateTexture2D(&d3d11.TEXTURE2D_DESC{
		Width:     uint32(desc.Width),
		Height:    uint32(desc.Height),
		MipLevels: 1,
		ArraySize: 1,
		Format:    desc.Format,
		SampleDesc: d3d11.DXGI_SAMPLE_DESC{
			Count: 1,
		},
		Usage:     desc.Usage,
		BindFlags: desc.BindFlags,
	}, data, uint32(rowPitch)))
}

func (d *nativeDevice) CreateShaderResourceView(tex Object, format uint32) (Object, error) {
	return wrap(d.dev.CreateShaderResourceView(res(tex), &d3d11.SHADER_RESOURCE_VIEW_DESC_TEX2D{
		Format:        format,
		ViewDimension: d3d11.SRV_DIMENSION_TEXTURE2D,
		Texture2D: d3d11.TEX2D_SRV{
			MipLevels: 1,
		},
	}))
}

func (d *nativeDevice) CreateRenderTargetView(tex Object) (Object, error) {
	return wrap(d.dev.CreateRenderTargetView(res(tex)))
}

func (d *nativeDevice) CreateDepthStencilView(tex Object, format uint32) (Object, error) {
	return wrap(d.dev.CreateDepthStencilView(res(tex), &d3d11.DEPTH_STENCIL_VIEW_DESC_TEX2D{
		Format:        format,
		ViewDimension: d3d11.DSV_DIMENSION_TEXTURE2D,
	}))
}

func (d *nativeDevice) CreateSamplerState(desc *SamplerDesc) (Object, error) {
	return wrap(d.dev.CreateSamplerState(&d3d11.SAMPLER_DESC{
		Filter:        desc.Filter,
		AddressU:      d3d11.TEXTURE_ADDRESS_CLAMP,
		AddressV:      d3d11.TEXTURE_ADDRESS_CLAMP,
		AddressW:      d3d11.TEXTURE_ADDRESS_CLAMP,
		MaxAnisotropy: 1,
		MinLOD:        -math.MaxFloat32,
		MaxLOD:        math.MaxFloat32,
	}))
}

func (d *nativeDevice) CreateVertexShader(code []byte) (Object, error) {
	return wrap(d.dev.CreateVertexShader(code))
}

func (d *nativeDevice) CreatePixelShader(code []byte) (Object, error) {
	return wrap(d.dev.CreatePixelShader(code))
}

func (d *nativeDevice) CreateInputLayout(elems []InputElementDesc, vsCode []byte) (Object, error) {
	descs := make([]d3d11.INPUT_ELEMENT_DESC, len(elems))
	for i, e := range elems {
		name, err := windows.BytePtrFromString(e.SemanticName)
		if err != nil {
			return nil, err
		}
		descs[i] = d3d11.INPUT_ELEMENT_DESC{
			SemanticName:         name,
			SemanticIndex:        e.SemanticIndex,
			Format:               e.Format,
			InputSlot:            e.InputSlot,
			AlignedByteOffset:    e.AlignedByteOffset,
			InputSlotClass:       e.InputSlotClass,
			InstanceDataStepRate: e.InstanceDataStepRate,
		}
	}
	return wrap(d.dev.CreateInputLayout(descs, vsCode))
}

func (d *nativeDevice) CreateBlendState(desc *BlendDesc) (Object, error) {
	var bd d3d11.BLEND_DESC
	bd.RenderTarget[0] = d3d11.RENDER_TARGET_BLEND_DESC{
		BlendEnable:           boolToUint32(desc.BlendEnable),
		SrcBlend:              desc.SrcBlend,
		DestBlend:             desc.DestBlend,
		BlendOp:               desc.BlendOp,
		SrcBlendAlpha:         desc.SrcBlendAlpha,
		DestBlendAlpha:        desc.DestBlendAlpha,
		BlendOpAlpha:          desc.BlendOpAlpha,
		RenderTargetWriteMask: d3d11.COLOR_WRITE_ENABLE_ALL,
	}
	return wrap(d.dev.CreateBlendState(&bd))
}

func (d *nativeDevice) CreateRasterizerState(desc *RasterizerDesc) (Object, error) {
	return wrap(d.dev.CreateRasterizerState(&d3d11.RASTERIZER_DESC{
		FillMode:              desc.FillMode,
		CullMode:              desc.CullMode,
		FrontCounterClockwise: boolToUint32(desc.FrontCounterClockwise),
		DepthClipEnable:       1,
	}))
}

func (d *nativeDevice) CreateDepthStencilState(desc *DepthStencilDesc) (Object, error) {
	keep := d3d11.DEPTH_STENCILOP_DESC{
		StencilFailOp:      d3d11.STENCIL_OP_KEEP,
		StencilDepthFailOp: d3d11.STENCIL_OP_KEEP,
		StencilPassOp:      d3d11.STENCIL_OP_KEEP,
		StencilFunc:        d3d11.COMPARISON_ALWAYS,
	}
	ds := d3d11.DEPTH_STENCIL_DESC{
		DepthEnable:      boolToUint32(desc.DepthEnable),
		DepthWriteMask:   d3d11.DEPTH_WRITE_MASK_ZERO,
		DepthFunc:        desc.DepthFunc,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		FrontFace:        keep,
		BackFace:         keep,
	}
	if desc.DepthWrite {
		ds.DepthWriteMask = d3d11.DEPTH_WRITE_MASK_ALL
	}
	return wrap(d.dev.CreateDepthStencilState(&ds))
}

func (d *nativeDevice) Release() {
	d3d11.IUnknownRelease(unsafe.Pointer(d.dev), d.dev.Vtbl.Release)
}

type nativeContext struct {
	ctx *d3d11.DeviceContext
}

func (c *nativeContext) Map(o Object, size int) ([]byte, error) {
	m, err := c.ctx.Map(res(o), 0, d3d11.MAP_WRITE_DISCARD, 0)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(m.PData)), size), nil
}

func (c *nativeContext) Unmap(o Object) {
	c.ctx.Unmap(res(o), 0)
}

func (c *nativeContext) UpdateSubresource(o Object, box *Box, rowPitch int, data []byte) {
	c.ctx.UpdateSubresource(res(o), &d3d11.BOX{
		Left:   box.Left,
		Top:    box.Top,
		Right:  box.Right,
		Bottom: box.Bottom,
		Back:   1,
	}, uint32(rowPitch), 0, data)
}

func (c *nativeContext) ClearRenderTargetView(rtv Object, color [4]float32) {
	c.ctx.ClearRenderTargetView(res(rtv), &color)
}

func (c *nativeContext) ClearDepthStencilView(dsv Object, flags uint32, depth float32, stencil uint8) {
	c.ctx.ClearDepthStencilView(res(dsv), flags, depth, stencil)
}

func (c *nativeContext) OMSetRenderTargets(rtvs []Object, dsv Object) {
	c.ctx.OMSetRenderTargets(resources(rtvs), res(dsv))
}

func (c *nativeContext) OMSetBlendState(state Object) {
	c.ctx.OMSetBlendState(res(state), nil, 0xffffffff)
}

func (c *nativeContext) OMSetDepthStencilState(state Object) {
	c.ctx.OMSetDepthStencilState(res(state), 0)
}

func (c *nativeContext) RSSetState(state Object) {
	c.ctx.RSSetState(res(state))
}

func (c *nativeContext) RSSetViewport(width, height int) {
	c.ctx.RSSetViewports(&d3d11.VIEWPORT{
		Width:    float32(width),
		Height:   float32(height),
		MaxDepth: 1,
	})
}

func (c *nativeContext) IASetInputLayout(layout Object) {
	c.ctx.IASetInputLayout(res(layout))
}

func (c *nativeContext) IASetPrimitiveTopology(mode uint32) {
	c.ctx.IASetPrimitiveTopology(mode)
}

func (c *nativeContext) IASetVertexBuffers(bufs []Object, strides, offsets []uint32) {
	c.ctx.IASetVertexBuffers(0, resources(bufs), strides, offsets)
}

func (c *nativeContext) IASetIndexBuffer(buf Object, format uint32) {
	c.ctx.IASetIndexBuffer(res(buf), format, 0)
}

func (c *nativeContext) VSSetShader(s Object) {
	c.ctx.VSSetShader(res(s))
}

func (c *nativeContext) PSSetShader(s Object) {
	c.ctx.PSSetShader(res(s))
}

func (c *nativeContext) VSSetConstantBuffer(buf Object) {
	c.ctx.VSSetConstantBuffers(res(buf))
}

func (c *nativeContext) PSSetConstantBuffer(buf Object) {
	c.ctx.PSSetConstantBuffers(res(buf))
}

func (c *nativeContext) PSSetShaderResources(views []Object) {
	c.ctx.PSSetShaderResources(0, resources(views))
}

func (c *nativeContext) PSSetSamplers(samplers []Object) {
	c.ctx.PSSetSamplers(0, resources(samplers))
}

func (c *nativeContext) DrawIndexed(count, start int) {
	c.ctx.DrawIndexed(uint32(count), uint32(start), 0)
}

func (c *nativeContext) DrawIndexedInstanced(count, instances, start int) {
	c.ctx.DrawIndexedInstanced(uint32(count), uint32(instances), uint32(start), 0, 0)
}

func (c *nativeContext) Release() {
	d3d11.IUnknownRelease(unsafe.Pointer(c.ctx), c.ctx.Vtbl.Release)
}

type nativeSwapChain struct {
	swap *d3d11.IDXGISwapChain
}

func (s *nativeSwapChain) Present(syncInterval int) uint32 {
	return s.swap.Present(syncInterval, 0)
}

func (s *nativeSwapChain) ResizeBuffers(width, height int) error {
	return s.swap.ResizeBuffers(0, uint32(width), uint32(height), d3d11.DXGI_FORMAT_UNKNOWN, 0)
}

func (s *nativeSwapChain) BackBuffer() (Object, error) {
	return wrap(s.swap.GetBuffer(0, &d3d11.IID_Texture2D))
}

func (s *nativeSwapChain) Release() {
	d3d11.IUnknownRelease(unsafe.Pointer(s.swap), s.swap.Vtbl.Release)
}

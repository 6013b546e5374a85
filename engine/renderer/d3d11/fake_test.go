package d3d11

import (
	"fmt"
	"strings"
)

// fakeDevice stands in for the device, its immediate context and the swap
// chain. Every call is recorded in order.
type fakeDevice struct {
	level uint32
	calls []string
	live  int

	buffers  []*BufferDesc
	textures []*TextureDesc
	layouts  [][]InputElementDesc
	blends   []*BlendDesc
	present  uint32
	mapped   map[*fakeObject][]byte

	failVS bool
}

type fakeObject struct {
	d        *fakeDevice
	kind     string
	data     []byte
	released bool
}

func (o *fakeObject) Release() {
	if o.released {
		panic(fmt.Sprintf("fake %s released twice", o.kind))
	}
	o.released = true
	o.d.live--
}

func newFakeDevice(level uint32) *fakeDevice {
	return &fakeDevice{level: level, mapped: map[*fakeObject][]byte{}}
}

func (d *fakeDevice) rec(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) count(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDevice) has(call string) bool {
	for _, c := range d.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (d *fakeDevice) object(kind string, data []byte) *fakeObject {
	d.live++
	return &fakeObject{d: d, kind: kind, data: data}
}

func kindOf(o Object) string {
	if o == nil {
		return "nil"
	}
	return o.(*fakeObject).kind
}

// Device

func (d *fakeDevice) FeatureLevel() uint32       { return d.level }
func (d *fakeDevice) AdapterDescription() string { return "Fake Adapter" }

func (d *fakeDevice) CreateBuffer(desc *BufferDesc, data []byte) (Object, error) {
	d.buffers = append(d.buffers, desc)
	buf := make([]byte, desc.ByteWidth)
	copy(buf, data)
	d.rec("CreateBuffer %d usage=%d bind=%#x", desc.ByteWidth, desc.Usage, desc.BindFlags)
	return d.object("buffer", buf), nil
}

func (d *fakeDevice) CreateTexture2D(desc *TextureDesc, data []byte, rowPitch int) (Object, error) {
	d.textures = append(d.textures, desc)
	d.rec("CreateTexture2D %dx%d format=%d usage=%d bind=%#x pitch=%d", desc.Width, desc.Height, desc.Format, desc.Usage, desc.BindFlags, rowPitch)
	return d.object("texture", append([]byte(nil), data...)), nil
}

func (d *fakeDevice) CreateShaderResourceView(tex Object, format uint32) (Object, error) {
	d.rec("CreateShaderResourceView format=%d", format)
	return d.object("srv", nil), nil
}

func (d *fakeDevice) CreateRenderTargetView(tex Object) (Object, error) {
	d.rec("CreateRenderTargetView %s", kindOf(tex))
	return d.object("rtv", nil), nil
}

func (d *fakeDevice) CreateDepthStencilView(tex Object, format uint32) (Object, error) {
	d.rec("CreateDepthStencilView format=%d", format)
	return d.object("dsv", nil), nil
}

func (d *fakeDevice) CreateSamplerState(desc *SamplerDesc) (Object, error) {
	return d.object(fmt.Sprintf("sampler%#x", desc.Filter), nil), nil
}

func (d *fakeDevice) CreateVertexShader(code []byte) (Object, error) {
	if d.failVS {
		return nil, fmt.Errorf("E_INVALIDARG")
	}
	return d.object("vs", code), nil
}

func (d *fakeDevice) CreatePixelShader(code []byte) (Object, error) {
	return d.object("ps", code), nil
}

func (d *fakeDevice) CreateInputLayout(elems []InputElementDesc, vsCode []byte) (Object, error) {
	d.layouts = append(d.layouts, elems)
	return d.object("layout", nil), nil
}

func (d *fakeDevice) CreateBlendState(desc *BlendDesc) (Object, error) {
	d.blends = append(d.blends, desc)
	return d.object("blend", nil), nil
}

func (d *fakeDevice) CreateRasterizerState(desc *RasterizerDesc) (Object, error) {
	d.rec("CreateRasterizerState fill=%d cull=%d ccw=%t", desc.FillMode, desc.CullMode, desc.FrontCounterClockwise)
	return d.object("raster", nil), nil
}

func (d *fakeDevice) CreateDepthStencilState(desc *DepthStencilDesc) (Object, error) {
	return d.object("depth", nil), nil
}

func (d *fakeDevice) Release() { d.rec("Release device") }

// fakeContext and fakeSwapChain share the device's call log.
type fakeContext struct{ *fakeDevice }

func (c fakeContext) Map(o Object, size int) ([]byte, error) {
	mem := make([]byte, size)
	c.mapped[o.(*fakeObject)] = mem
	c.rec("Map %s", kindOf(o))
	return mem, nil
}

func (c fakeContext) Unmap(o Object) {
	obj := o.(*fakeObject)
	copy(obj.data, c.mapped[obj])
	c.rec("Unmap %s", kindOf(o))
}

func (c fakeContext) UpdateSubresource(o Object, box *Box, rowPitch int, data []byte) {
	c.rec("UpdateSubresource %s box=%v pitch=%d len=%d", kindOf(o), *box, rowPitch, len(data))
}

func (c fakeContext) ClearRenderTargetView(rtv Object, color [4]float32) {
	c.rec("ClearRenderTargetView %v", color)
}

func (c fakeContext) ClearDepthStencilView(dsv Object, flags uint32, depth float32, stencil uint8) {
	c.rec("ClearDepthStencilView %#x", flags)
}

func (c fakeContext) OMSetRenderTargets(rtvs []Object, dsv Object) {
	c.rec("OMSetRenderTargets %d %s", len(rtvs), kindOf(dsv))
}

func (c fakeContext) OMSetBlendState(state Object)        { c.rec("OMSetBlendState") }
func (c fakeContext) OMSetDepthStencilState(state Object) { c.rec("OMSetDepthStencilState") }
func (c fakeContext) RSSetState(state Object)             { c.rec("RSSetState") }
func (c fakeContext) RSSetViewport(width, height int)     { c.rec("RSSetViewport %dx%d", width, height) }
func (c fakeContext) IASetInputLayout(layout Object)      { c.rec("IASetInputLayout %s", kindOf(layout)) }
func (c fakeContext) IASetPrimitiveTopology(mode uint32)  { c.rec("IASetPrimitiveTopology %d", mode) }

func (c fakeContext) IASetVertexBuffers(bufs []Object, strides, offsets []uint32) {
	for i, b := range bufs {
		if b != nil {
			c.rec("IASetVertexBuffer %d stride=%d offset=%d", i, strides[i], offsets[i])
		}
	}
}

func (c fakeContext) IASetIndexBuffer(buf Object, format uint32) {
	c.rec("IASetIndexBuffer format=%d", format)
}

func (c fakeContext) VSSetShader(s Object)            { c.rec("VSSetShader") }
func (c fakeContext) PSSetShader(s Object)            { c.rec("PSSetShader") }
func (c fakeContext) VSSetConstantBuffer(buf Object)  { c.rec("VSSetConstantBuffer") }
func (c fakeContext) PSSetConstantBuffer(buf Object)  { c.rec("PSSetConstantBuffer") }
func (c fakeContext) PSSetShaderResources(v []Object) { c.rec("PSSetShaderResources %d", len(v)) }
func (c fakeContext) PSSetSamplers(s []Object)        { c.rec("PSSetSamplers %d", len(s)) }

func (c fakeContext) DrawIndexed(count, start int) {
	c.rec("DrawIndexed %d %d", count, start)
}

func (c fakeContext) DrawIndexedInstanced(count, instances, start int) {
	c.rec("DrawIndexedInstanced %d %d %d", count, instances, start)
}

func (c fakeContext) Release() { c.rec("Release context") }

type fakeSwapChain struct{ *fakeDevice }

func (s fakeSwapChain) Present(syncInterval int) uint32 {
	s.rec("Present %d", syncInterval)
	return s.present
}

func (s fakeSwapChain) ResizeBuffers(width, height int) error {
	s.rec("ResizeBuffers %dx%d", width, height)
	return nil
}

func (s fakeSwapChain) BackBuffer() (Object, error) {
	return s.object("backbuffer", nil), nil
}

func (s fakeSwapChain) Release() { s.rec("Release swap chain") }

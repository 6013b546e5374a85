package d3d11

// Object is a native COM object owned by the backend.
type Object interface {
	Release()
}

// Device is the subset of ID3D11Device the backend uses. Creation methods
// return a reference the caller must release.
type Device interface {
	FeatureLevel() uint32
	AdapterDescription() string

	CreateBuffer(desc *BufferDesc, data []byte) (Object, error)
	CreateTexture2D(desc *TextureDesc, data []byte, rowPitch int) (Object, error)
	CreateShaderResourceView(tex Object, format uint32) (Object, error)
	CreateRenderTargetView(tex Object) (Object, error)
	CreateDepthStencilView(tex Object, format uint32) (Object, error)
	CreateSamplerState(desc *SamplerDesc) (Object, error)
	CreateVertexShader(code []byte) (Object, error)
	CreatePixelShader(code []byte) (Object, error)
	CreateInputLayout(elems []InputElementDesc, vsCode []byte) (Object, error)
	CreateBlendState(desc *BlendDesc) (Object, error)
	CreateRasterizerState(desc *RasterizerDesc) (Object, error)
	CreateDepthStencilState(desc *DepthStencilDesc) (Object, error)

	Release()
}

// DeviceContext is the subset of the immediate ID3D11DeviceContext the
// backend uses. Nil entries in slices unbind their slot.
type DeviceContext interface {
	Map(res Object, size int) ([]byte, error)
	Unmap(res Object)
	UpdateSubresource(res Object, box *Box, rowPitch int, data []byte)

	ClearRenderTargetView(rtv Object, color [4]float32)
	ClearDepthStencilView(dsv Object, flags uint32, depth float32, stencil uint8)

	OMSetRenderTargets(rtvs []Object, dsv Object)
	OMSetBlendState(state Object)
	OMSetDepthStencilState(state Object)
	RSSetState(state Object)
	RSSetViewport(width, height int)

	IASetInputLayout(layout Object)
	IASetPrimitiveTopology(mode uint32)
	IASetVertexBuffers(bufs []Object, strides, offsets []uint32)
	IASetIndexBuffer(buf Object, format uint32)

	VSSetShader(s Object)
	PSSetShader(s Object)
	VSSetConstantBuffer(buf Object)
	PSSetConstantBuffer(buf Object)
	PSSetShaderResources(views []Object)
	PSSetSamplers(samplers []Object)

	DrawIndexed(count, start int)
	DrawIndexedInstanced(count, instances, start int)

	Release()
}

// SwapChain presents the backbuffer of one window.
type SwapChain interface {
	// Present returns the raw HRESULT. Status codes such as
	// StatusOccluded are not failures.
	Present(syncInterval int) uint32
	ResizeBuffers(width, height int) error
	// BackBuffer returns the current back buffer texture.
	BackBuffer() (Object, error)
	Release()
}

type BufferDesc struct {
	ByteWidth      int
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
}

type TextureDesc struct {
	Width, Height int
	Format        uint32
	Usage         uint32
	BindFlags     uint32
}

// SamplerDesc describes a clamp-to-edge sampler.
type SamplerDesc struct {
	Filter uint32
}

type InputElementDesc struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               uint32
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

type BlendDesc struct {
	BlendEnable    bool
	SrcBlend       uint32
	DestBlend      uint32
	BlendOp        uint32
	SrcBlendAlpha  uint32
	DestBlendAlpha uint32
	BlendOpAlpha   uint32
}

type RasterizerDesc struct {
	FillMode              uint32
	CullMode              uint32
	FrontCounterClockwise bool
}

type DepthStencilDesc struct {
	DepthEnable bool
	DepthWrite  bool
	DepthFunc   uint32
}

// Box is a 2D region; the depth range is always [0, 1).
type Box struct {
	Left, Top, Right, Bottom uint32
}

const (
	FeatureLevel9_1  = 0x9100
	FeatureLevel9_2  = 0x9200
	FeatureLevel9_3  = 0x9300
	FeatureLevel10_0 = 0xa000
	FeatureLevel10_1 = 0xa100
	FeatureLevel11_0 = 0xb000
	FeatureLevel11_1 = 0xb100

	StatusOccluded     = 0x087A0001
	ErrorDeviceRemoved = 0x887A0005
	ErrorDeviceReset   = 0x887A0007

	FormatUnknown            = 0
	FormatR32G32B32A32Float  = 2
	FormatR32G32B32Float     = 6
	FormatR16G16B16A16SNorm  = 13
	FormatR16G16B16A16SInt   = 14
	FormatR32G32Float        = 16
	FormatR8G8B8A8UNorm      = 28
	FormatR8G8B8A8UInt       = 30
	FormatR16G16SNorm        = 37
	FormatR16G16SInt         = 38
	FormatR32Float           = 41
	FormatR32UInt            = 42
	FormatR24G8Typeless      = 44
	FormatD24UNormS8UInt     = 45
	FormatR24UNormX8Typeless = 46
	FormatR8G8UNorm          = 49
	FormatR16Typeless        = 53
	FormatD16UNorm           = 55
	FormatR16UNorm           = 56
	FormatR16UInt            = 57
	FormatR8UNorm            = 61
	FormatA8UNorm            = 65

	UsageDefault   = 0
	UsageImmutable = 1
	UsageDynamic   = 2

	CPUAccessWrite = 0x10000

	BindVertexBuffer   = 0x1
	BindIndexBuffer    = 0x2
	BindConstantBuffer = 0x4
	BindShaderResource = 0x8
	BindRenderTarget   = 0x20
	BindDepthStencil   = 0x40

	InputPerVertexData   = 0
	InputPerInstanceData = 1

	PrimitiveTopologyTriangleList = 4

	FilterMinMagMipPoint  = 0
	FilterMinMagMipLinear = 0x15

	FillWireframe = 2
	FillSolid     = 3

	CullNone  = 1
	CullFront = 2
	CullBack  = 3

	ClearDepth   = 0x1
	ClearStencil = 0x2

	ComparisonLessEqual = 4

	BlendZero         = 1
	BlendOne          = 2
	BlendSrcColor     = 3
	BlendInvSrcColor  = 4
	BlendSrcAlpha     = 5
	BlendInvSrcAlpha  = 6
	BlendDestAlpha    = 7
	BlendInvDestAlpha = 8
	BlendDestColor    = 9
	BlendInvDestColor = 10

	BlendOpAdd      = 1
	BlendOpSubtract = 2
)

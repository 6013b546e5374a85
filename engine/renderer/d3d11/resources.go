package d3d11

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// Input layouts address every attribute as TEXCOORD<location>, where the
// location counts matrix columns the same way the GL backend does.
const semanticName = "TEXCOORD"

type gpuTexture struct {
	backend       *Backend
	tex           Object
	srv           Object
	sampler       Object
	format        metadata.TexFormat
	dxgiFormat    uint32
	width, height int
	// expand is set when client RGB8 pixels are stored as RGBA8.
	expand bool
}

type gpuBuffer struct {
	backend *Backend
	buf     Object
	kind    metadata.BufferKind
	size    int
	// shadow mirrors dynamic buffers so partial updates can rewrite the
	// whole buffer through a discarding map.
	shadow []byte
}

type gpuShader struct {
	backend *Backend
	vs, ps  Object
	vsCode  []byte
}

type gpuPipeline struct {
	backend *Backend
	shader  *gpuShader
	layout  Object
	blend   Object
	raster  Object
	depth   Object
}

type gpuRenderTarget struct {
	backend       *Backend
	colors        []Object
	depth         Object
	width, height int
}

// textureFormats maps a texture format to the resource, shader view and
// depth view formats. Depth textures are typeless so they can be sampled;
// NewTexture2D switches unsampled ones to the typed depth format.
func textureFormats(f metadata.TexFormat) (res, srv, dsv uint32, err error) {
	switch f {
	case metadata.TexFormatD16:
		return FormatR16Typeless, FormatR16UNorm, FormatD16UNorm, nil
	case metadata.TexFormatD24S8:
		return FormatR24G8Typeless, FormatR24UNormX8Typeless, FormatD24UNormS8UInt, nil
	case metadata.TexFormatA8:
		return FormatA8UNorm, FormatA8UNorm, 0, nil
	case metadata.TexFormatR8:
		return FormatR8UNorm, FormatR8UNorm, 0, nil
	case metadata.TexFormatRG8:
		return FormatR8G8UNorm, FormatR8G8UNorm, 0, nil
	case metadata.TexFormatRGB8, metadata.TexFormatRGBA8:
		return FormatR8G8B8A8UNorm, FormatR8G8B8A8UNorm, 0, nil
	}
	return 0, 0, 0, fmt.Errorf("texture format %s: %w", f, core.ErrUnsupportedFormat)
}

// expandRGB converts tightly packed RGB8 pixels to opaque RGBA8.
func expandRGB(pixels []byte) []byte {
	n := len(pixels) / 3
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		copy(out[i*4:i*4+3], pixels[i*3:i*3+3])
		out[i*4+3] = 0xff
	}
	return out
}

func (b *Backend) NewTexture2D(desc *metadata.Texture2DDesc) (driver.Texture, error) {
	resFormat, srvFormat, dsvFormat, err := textureFormats(desc.Format)
	if err != nil {
		return nil, err
	}
	if desc.Format.IsDepth() {
		switch {
		case desc.NotUsedInShader:
			resFormat = dsvFormat
		case b.level < FeatureLevel10_0:
			// 9.x cannot create typeless depth resources
			return nil, fmt.Errorf("sampled depth texture %s on feature level %s: %w",
				desc.Format, FeatureLevelString(b.level), core.ErrUnsupportedFormat)
		}
	}
	t := &gpuTexture{
		backend:    b,
		format:     desc.Format,
		dxgiFormat: resFormat,
		width:      desc.Width,
		height:     desc.Height,
		expand:     desc.Format == metadata.TexFormatRGB8,
	}
	td := TextureDesc{
		Width:  desc.Width,
		Height: desc.Height,
		Format: resFormat,
		Usage:  UsageDefault,
	}
	if !desc.NotUsedInShader {
		td.BindFlags |= BindShaderResource
	}
	if desc.RenderTarget {
		if desc.Format.IsDepth() {
			td.BindFlags |= BindDepthStencil
		} else {
			td.BindFlags |= BindRenderTarget
		}
	}
	pixels := desc.Pixels
	if t.expand && pixels != nil {
		pixels = expandRGB(pixels)
	}
	if !desc.Dynamic && !desc.RenderTarget && pixels != nil {
		td.Usage = UsageImmutable
	}
	t.tex, err = b.dev.CreateTexture2D(&td, pixels, desc.Width*t.pixelSize())
	if err != nil {
		return nil, fmt.Errorf("CreateTexture2D: %w", err)
	}
	if !desc.NotUsedInShader {
		t.srv, err = b.dev.CreateShaderResourceView(t.tex, srvFormat)
		if err != nil {
			t.tex.Release()
			return nil, fmt.Errorf("CreateShaderResourceView: %w", err)
		}
	}
	t.sampler = b.samplers[0]
	if desc.LinearFiltering {
		t.sampler = b.samplers[1]
	}
	return t, nil
}

// pixelSize is the size of one texel as stored on the GPU.
func (t *gpuTexture) pixelSize() int {
	if t.expand {
		return 4
	}
	return t.format.BytesPerPixel()
}

func (t *gpuTexture) Upload(x, y, width, height int, pixels []byte) error {
	if t.expand {
		pixels = expandRGB(pixels)
	}
	if len(pixels) == 0 {
		return nil
	}
	box := Box{
		Left:   uint32(x),
		Top:    uint32(y),
		Right:  uint32(x + width),
		Bottom: uint32(y + height),
	}
	t.backend.ctx.UpdateSubresource(t.tex, &box, width*t.pixelSize(), pixels)
	return nil
}

func (t *gpuTexture) Release() {
	if t.srv != nil {
		t.srv.Release()
		t.srv = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

func (b *Backend) NewBuffer(desc *metadata.BufferDesc) (driver.Buffer, error) {
	bd := BufferDesc{ByteWidth: desc.Size}
	switch desc.Kind {
	case metadata.BufferKindIndex:
		bd.BindFlags = BindIndexBuffer
	case metadata.BufferKindUniform:
		bd.BindFlags = BindConstantBuffer
	default:
		bd.BindFlags = BindVertexBuffer
	}
	data := desc.InitialData
	if len(data) > 0 && len(data) < desc.Size {
		data = make([]byte, desc.Size)
		copy(data, desc.InitialData)
	}
	buf := &gpuBuffer{backend: b, kind: desc.Kind, size: desc.Size}
	if desc.Dynamic || desc.Kind == metadata.BufferKindUniform {
		bd.Usage = UsageDynamic
		bd.CPUAccessFlags = CPUAccessWrite
		buf.shadow = make([]byte, desc.Size)
		copy(buf.shadow, data)
		if len(data) == 0 {
			// dynamic buffers must start with defined contents
			data = buf.shadow
		}
	} else {
		bd.Usage = UsageImmutable
	}
	var err error
	buf.buf, err = b.dev.CreateBuffer(&bd, data)
	if err != nil {
		return nil, fmt.Errorf("CreateBuffer: %w", err)
	}
	return buf, nil
}

func (b *gpuBuffer) Upload(offset int, data []byte) error {
	if b.shadow == nil {
		return fmt.Errorf("%s buffer: %w", b.kind, core.ErrNotDynamic)
	}
	copy(b.shadow[offset:], data)
	ctx := b.backend.ctx
	mem, err := ctx.Map(b.buf, b.size)
	if err != nil {
		return fmt.Errorf("Map: %w", err)
	}
	copy(mem, b.shadow)
	ctx.Unmap(b.buf)
	return nil
}

func (b *gpuBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

func (b *Backend) NewShader(desc *metadata.ShaderDesc) (driver.Shader, error) {
	obj := desc.HLSL40
	if b.caps.ShaderDialect == metadata.ShaderDialectHLSL40Level91 {
		obj = desc.HLSL40Level91
	}
	if len(obj.VS) == 0 || len(obj.PS) == 0 {
		return nil, fmt.Errorf("%s object code: %w", b.caps.ShaderDialect, core.ErrMissingShaderSource)
	}
	vs, err := b.dev.CreateVertexShader(obj.VS)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w: %v", core.ErrShaderCompile, err)
	}
	ps, err := b.dev.CreatePixelShader(obj.PS)
	if err != nil {
		vs.Release()
		return nil, fmt.Errorf("pixel shader: %w: %v", core.ErrShaderCompile, err)
	}
	return &gpuShader{backend: b, vs: vs, ps: ps, vsCode: obj.VS}, nil
}

func (s *gpuShader) Release() {
	if s.vs != nil {
		s.vs.Release()
		s.ps.Release()
		s.vs, s.ps = nil, nil
	}
}

func layoutFormat(f metadata.LayoutFormat) (uint32, error) {
	switch f {
	case metadata.LayoutFormatScalar:
		return FormatR32Float, nil
	case metadata.LayoutFormatVec2:
		return FormatR32G32Float, nil
	case metadata.LayoutFormatVec3:
		return FormatR32G32B32Float, nil
	case metadata.LayoutFormatVec4:
		return FormatR32G32B32A32Float, nil
	case metadata.LayoutFormatVec2I16Norm:
		return FormatR16G16SNorm, nil
	case metadata.LayoutFormatVec2I16:
		return FormatR16G16SInt, nil
	case metadata.LayoutFormatVec4I16Norm:
		return FormatR16G16B16A16SNorm, nil
	case metadata.LayoutFormatVec4I16:
		return FormatR16G16B16A16SInt, nil
	case metadata.LayoutFormatVec4U8Norm:
		return FormatR8G8B8A8UNorm, nil
	case metadata.LayoutFormatVec4U8:
		return FormatR8G8B8A8UInt, nil
	}
	return 0, fmt.Errorf("vertex format %d: %w", f, core.ErrUnsupportedFormat)
}

// inputElements expands the pipeline layout into one element per attribute
// column.
func inputElements(desc *metadata.PipelineDesc) ([]InputElementDesc, error) {
	var elems []InputElementDesc
	location := 0
	for _, attr := range desc.Attributes() {
		col, stride := attr.Format.Column()
		format, err := layoutFormat(col)
		if err != nil {
			return nil, err
		}
		class := uint32(InputPerVertexData)
		if attr.Divisor > 0 {
			class = InputPerInstanceData
		}
		for c := 0; c < attr.Format.Columns(); c++ {
			elems = append(elems, InputElementDesc{
				SemanticName:         semanticName,
				SemanticIndex:        uint32(location),
				Format:               format,
				InputSlot:            uint32(attr.BufferSlot),
				AlignedByteOffset:    uint32(attr.Offset + c*stride),
				InputSlotClass:       class,
				InstanceDataStepRate: uint32(attr.Divisor),
			})
			location++
		}
	}
	return elems, nil
}

// toBlendFactor maps a blend function. Alpha factors may not name color
// channels, so those are replaced by their alpha counterparts.
func toBlendFactor(f metadata.BlendFunc, alpha bool) uint32 {
	switch f {
	case metadata.BlendFuncZero:
		return BlendZero
	case metadata.BlendFuncOne:
		return BlendOne
	case metadata.BlendFuncSrcColor:
		if alpha {
			return BlendSrcAlpha
		}
		return BlendSrcColor
	case metadata.BlendFuncInvSrcColor:
		if alpha {
			return BlendInvSrcAlpha
		}
		return BlendInvSrcColor
	case metadata.BlendFuncDstColor:
		if alpha {
			return BlendDestAlpha
		}
		return BlendDestColor
	case metadata.BlendFuncInvDstColor:
		if alpha {
			return BlendInvDestAlpha
		}
		return BlendInvDestColor
	case metadata.BlendFuncSrcAlpha:
		return BlendSrcAlpha
	case metadata.BlendFuncInvSrcAlpha:
		return BlendInvSrcAlpha
	case metadata.BlendFuncDstAlpha:
		return BlendDestAlpha
	case metadata.BlendFuncInvDstAlpha:
		return BlendInvDestAlpha
	}
	return BlendOne
}

func toBlendOp(op metadata.BlendOp) uint32 {
	if op == metadata.BlendOpSubtract {
		return BlendOpSubtract
	}
	return BlendOpAdd
}

func (b *Backend) blendDesc(desc *metadata.PipelineDesc) *BlendDesc {
	bd := &BlendDesc{
		BlendEnable: desc.Blend,
		SrcBlend:    toBlendFactor(desc.BlendSource, false),
		DestBlend:   toBlendFactor(desc.BlendDest, false),
		BlendOp:     toBlendOp(desc.BlendOp),
	}
	if b.caps.HasSeparateAlphaBlend {
		bd.SrcBlendAlpha = toBlendFactor(desc.BlendSourceAlpha, true)
		bd.DestBlendAlpha = toBlendFactor(desc.BlendDestAlpha, true)
		bd.BlendOpAlpha = toBlendOp(desc.BlendOpAlpha)
	} else {
		bd.SrcBlendAlpha = toBlendFactor(desc.BlendSource, true)
		bd.DestBlendAlpha = toBlendFactor(desc.BlendDest, true)
		bd.BlendOpAlpha = bd.BlendOp
	}
	return bd
}

func (b *Backend) NewPipeline(desc *metadata.PipelineDesc, s driver.Shader) (driver.Pipeline, error) {
	shader := s.(*gpuShader)
	elems, err := inputElements(desc)
	if err != nil {
		return nil, err
	}
	p := &gpuPipeline{backend: b, shader: shader}
	if len(elems) > 0 {
		if p.layout, err = b.dev.CreateInputLayout(elems, shader.vsCode); err != nil {
			return nil, fmt.Errorf("CreateInputLayout: %w", err)
		}
	}
	if p.blend, err = b.dev.CreateBlendState(b.blendDesc(desc)); err != nil {
		p.Release()
		return nil, fmt.Errorf("CreateBlendState: %w", err)
	}

	rd := RasterizerDesc{
		FillMode:              FillSolid,
		CullMode:              CullNone,
		FrontCounterClockwise: !desc.FrontFaceCW,
	}
	if desc.FillMode == metadata.FillModeWireframe {
		rd.FillMode = FillWireframe
	}
	switch desc.CullMode {
	case metadata.CullModeFront:
		rd.CullMode = CullFront
	case metadata.CullModeBack:
		rd.CullMode = CullBack
	}
	if p.raster, err = b.dev.CreateRasterizerState(&rd); err != nil {
		p.Release()
		return nil, fmt.Errorf("CreateRasterizerState: %w", err)
	}

	dd := DepthStencilDesc{
		DepthEnable: desc.DepthTest,
		DepthWrite:  desc.DepthTest,
		DepthFunc:   ComparisonLessEqual,
	}
	if p.depth, err = b.dev.CreateDepthStencilState(&dd); err != nil {
		p.Release()
		return nil, fmt.Errorf("CreateDepthStencilState: %w", err)
	}
	return p, nil
}

func (p *gpuPipeline) Release() {
	for _, o := range []*Object{&p.layout, &p.blend, &p.raster, &p.depth} {
		if *o != nil {
			(*o).Release()
			*o = nil
		}
	}
	if p.backend.pipeline == p {
		p.backend.pipeline = nil
	}
}

func (b *Backend) NewRenderTarget(color []driver.Texture, depthStencil driver.Texture) (driver.RenderTarget, error) {
	rt := &gpuRenderTarget{backend: b}
	for _, c := range color {
		t := c.(*gpuTexture)
		rtv, err := b.dev.CreateRenderTargetView(t.tex)
		if err != nil {
			rt.Release()
			return nil, fmt.Errorf("CreateRenderTargetView: %w", err)
		}
		rt.colors = append(rt.colors, rtv)
		rt.width, rt.height = t.width, t.height
	}
	if depthStencil != nil {
		t := depthStencil.(*gpuTexture)
		_, _, dsvFormat, err := textureFormats(t.format)
		if err != nil {
			rt.Release()
			return nil, err
		}
		if rt.depth, err = b.dev.CreateDepthStencilView(t.tex, dsvFormat); err != nil {
			rt.Release()
			return nil, fmt.Errorf("CreateDepthStencilView: %w", err)
		}
		rt.width, rt.height = t.width, t.height
	}
	return rt, nil
}

func (rt *gpuRenderTarget) Release() {
	for _, v := range rt.colors {
		v.Release()
	}
	rt.colors = nil
	if rt.depth != nil {
		rt.depth.Release()
		rt.depth = nil
	}
	if rt.backend.target == rt {
		rt.backend.target = nil
	}
}

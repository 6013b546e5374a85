package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

func (c *Context) MakeTexture2D(desc *metadata.Texture2DDesc) (metadata.Texture2D, error) {
	if !c.caps.SupportsFormat(desc.Format) {
		return metadata.Texture2D{}, c.fail(fmt.Errorf("texture format %s: %w", desc.Format, core.ErrUnsupportedFormat))
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > c.caps.MaxTextureSize || desc.Height > c.caps.MaxTextureSize {
		return metadata.Texture2D{}, c.fail(fmt.Errorf("texture size %dx%d (max %d): %w", desc.Width, desc.Height, c.caps.MaxTextureSize, core.ErrLimitExceeded))
	}
	if desc.Format.IsDepth() && !desc.RenderTarget {
		return metadata.Texture2D{}, c.fail(fmt.Errorf("depth texture %s must be a render target: %w", desc.Format, core.ErrUnsupportedFormat))
	}
	if desc.Pixels != nil {
		if want := desc.Width * desc.Height * desc.Format.BytesPerPixel(); len(desc.Pixels) < want {
			return metadata.Texture2D{}, c.fail(fmt.Errorf("texture pixels: have %d bytes, want %d: %w", len(desc.Pixels), want, core.ErrUpdateOutOfRange))
		}
	}

	native, err := c.backend.NewTexture2D(desc)
	if err != nil {
		return metadata.Texture2D{}, c.fail(fmt.Errorf("failed to create texture: %w", err))
	}
	d := *desc
	d.Pixels = nil
	id, err := c.textures.insert(&texture{native: native, desc: d})
	if err != nil {
		native.Release()
		return metadata.Texture2D{}, c.fail(err)
	}
	return metadata.Texture2D{ID: id}, nil
}

func (c *Context) MakeVertexBuffer(desc *metadata.VertexBufferDesc) (metadata.VertexBuffer, error) {
	id, err := c.makeBuffer(&c.vbuffers, &metadata.BufferDesc{
		Kind:        metadata.BufferKindVertex,
		Size:        desc.Size,
		InitialData: desc.InitialData,
		Dynamic:     desc.Dynamic,
	})
	return metadata.VertexBuffer{ID: id}, err
}

func (c *Context) MakeIndexBuffer(desc *metadata.IndexBufferDesc) (metadata.IndexBuffer, error) {
	if desc.IndexType == metadata.IndexTypeUint32 && !c.caps.Has32BitIndex {
		return metadata.IndexBuffer{}, c.fail(fmt.Errorf("32-bit indices: %w", core.ErrLimitExceeded))
	}
	id, err := c.makeBuffer(&c.ibuffers, &metadata.BufferDesc{
		Kind:        metadata.BufferKindIndex,
		Size:        desc.Size,
		InitialData: desc.InitialData,
		Dynamic:     desc.Dynamic,
		IndexType:   desc.IndexType,
	})
	return metadata.IndexBuffer{ID: id}, err
}

func (c *Context) MakeUniformBuffer(desc *metadata.UniformBufferDesc) (metadata.UniformBuffer, error) {
	// constant buffers must be a multiple of 16 bytes
	size := (desc.Size + 15) &^ 15
	id, err := c.makeBuffer(&c.ubuffers, &metadata.BufferDesc{
		Kind:        metadata.BufferKindUniform,
		Size:        size,
		InitialData: desc.InitialData,
		Dynamic:     true,
	})
	return metadata.UniformBuffer{ID: id}, err
}

func (c *Context) makeBuffer(t *table[*buffer], desc *metadata.BufferDesc) (uint32, error) {
	if desc.Size <= 0 {
		return 0, c.fail(fmt.Errorf("%s buffer size %d: %w", desc.Kind, desc.Size, core.ErrLimitExceeded))
	}
	if len(desc.InitialData) > desc.Size {
		return 0, c.fail(fmt.Errorf("%s buffer initial data %d bytes exceeds size %d: %w", desc.Kind, len(desc.InitialData), desc.Size, core.ErrUpdateOutOfRange))
	}
	if !desc.Dynamic && desc.InitialData == nil {
		return 0, c.fail(fmt.Errorf("immutable %s buffer without initial data: %w", desc.Kind, core.ErrNotDynamic))
	}
	native, err := c.backend.NewBuffer(desc)
	if err != nil {
		return 0, c.fail(fmt.Errorf("failed to create %s buffer: %w", desc.Kind, err))
	}
	id, err := t.insert(&buffer{
		native:    native,
		kind:      desc.Kind,
		size:      desc.Size,
		dynamic:   desc.Dynamic,
		indexType: desc.IndexType,
	})
	if err != nil {
		native.Release()
		return 0, c.fail(err)
	}
	return id, nil
}

func (c *Context) MakeShader(desc *metadata.ShaderDesc) (metadata.Shader, error) {
	switch c.caps.ShaderDialect {
	case metadata.ShaderDialectGLSL:
		if desc.GLSL.VS == "" || desc.GLSL.FS == "" {
			return metadata.Shader{}, c.fail(fmt.Errorf("GLSL: %w", core.ErrMissingShaderSource))
		}
	case metadata.ShaderDialectHLSL40:
		if len(desc.HLSL40.VS) == 0 || len(desc.HLSL40.PS) == 0 {
			return metadata.Shader{}, c.fail(fmt.Errorf("HLSL 4.0: %w", core.ErrMissingShaderSource))
		}
	case metadata.ShaderDialectHLSL40Level91:
		if len(desc.HLSL40Level91.VS) == 0 || len(desc.HLSL40Level91.PS) == 0 {
			return metadata.Shader{}, c.fail(fmt.Errorf("HLSL 4.0 level 9.1: %w", core.ErrMissingShaderSource))
		}
	}
	native, err := c.backend.NewShader(desc)
	if err != nil {
		return metadata.Shader{}, c.fail(fmt.Errorf("failed to create shader: %w", err))
	}
	id, err := c.shaders.insert(&shader{native: native})
	if err != nil {
		native.Release()
		return metadata.Shader{}, c.fail(err)
	}
	return metadata.Shader{ID: id}, nil
}

func (c *Context) MakePipeline(desc *metadata.PipelineDesc) (metadata.Pipeline, error) {
	s, ok := c.shaders.lookup(desc.Shader.ID)
	if !ok {
		return metadata.Pipeline{}, c.fail(fmt.Errorf("pipeline shader %#x: %w", desc.Shader.ID, core.ErrInvalidHandle))
	}
	columns := 0
	for _, attr := range desc.Attributes() {
		if attr.BufferSlot < 0 || attr.BufferSlot >= metadata.DrawMaxVertexBuffers {
			return metadata.Pipeline{}, c.fail(fmt.Errorf("pipeline attribute buffer slot %d: %w", attr.BufferSlot, core.ErrLimitExceeded))
		}
		if attr.Divisor != 0 && !c.caps.HasInstancing {
			return metadata.Pipeline{}, c.fail(fmt.Errorf("per-instance attribute without instancing support: %w", core.ErrLimitExceeded))
		}
		columns += attr.Format.Columns()
	}
	if columns > metadata.PipelineMaxVertexInputs {
		return metadata.Pipeline{}, c.fail(fmt.Errorf("pipeline uses %d attribute slots (max %d): %w", columns, metadata.PipelineMaxVertexInputs, core.ErrLimitExceeded))
	}
	if desc.FillMode == metadata.FillModeWireframe && !c.caps.HasWireframeFillMode {
		return metadata.Pipeline{}, c.fail(fmt.Errorf("wireframe fill mode: %w", core.ErrLimitExceeded))
	}
	native, err := c.backend.NewPipeline(desc, s.native)
	if err != nil {
		return metadata.Pipeline{}, c.fail(fmt.Errorf("failed to create pipeline: %w", err))
	}
	id, err := c.pipelines.insert(&pipeline{native: native, shader: desc.Shader})
	if err != nil {
		native.Release()
		return metadata.Pipeline{}, c.fail(err)
	}
	return metadata.Pipeline{ID: id}, nil
}

func (c *Context) MakeRenderTarget(desc *metadata.RenderTargetDesc) (metadata.RenderTarget, error) {
	var (
		color         []driver.Texture
		depth         driver.Texture
		attachments   []metadata.Texture2D
		width, height int
	)
	attach := func(h metadata.Texture2D, wantDepth bool) (driver.Texture, error) {
		t, ok := c.textures.lookup(h.ID)
		if !ok {
			return nil, fmt.Errorf("render target attachment %#x: %w", h.ID, core.ErrInvalidHandle)
		}
		if !t.desc.RenderTarget || t.desc.Format.IsDepth() != wantDepth {
			return nil, fmt.Errorf("texture %#x (%s) cannot be attached here: %w", h.ID, t.desc.Format, core.ErrUnsupportedFormat)
		}
		if width == 0 {
			width, height = t.desc.Width, t.desc.Height
		} else if width != t.desc.Width || height != t.desc.Height {
			return nil, fmt.Errorf("render target attachments differ in size: %w", core.ErrLimitExceeded)
		}
		attachments = append(attachments, h)
		return t.native, nil
	}
	for _, h := range desc.Color {
		if h.IsNull() {
			continue
		}
		t, err := attach(h, false)
		if err != nil {
			return metadata.RenderTarget{}, c.fail(err)
		}
		color = append(color, t)
	}
	if len(color) > c.caps.MaxRenderTargetTextures {
		return metadata.RenderTarget{}, c.fail(fmt.Errorf("%d color attachments (max %d): %w", len(color), c.caps.MaxRenderTargetTextures, core.ErrLimitExceeded))
	}
	if !desc.DepthStencil.IsNull() {
		t, err := attach(desc.DepthStencil, true)
		if err != nil {
			return metadata.RenderTarget{}, c.fail(err)
		}
		depth = t
	}
	if len(color) == 0 && depth == nil {
		return metadata.RenderTarget{}, c.fail(fmt.Errorf("render target without attachments: %w", core.ErrInvalidHandle))
	}
	native, err := c.backend.NewRenderTarget(color, depth)
	if err != nil {
		return metadata.RenderTarget{}, c.fail(fmt.Errorf("failed to create render target: %w", err))
	}
	id, err := c.targets.insert(&renderTarget{native: native, attachments: attachments})
	if err != nil {
		native.Release()
		return metadata.RenderTarget{}, c.fail(err)
	}
	return metadata.RenderTarget{ID: id}, nil
}

func (c *Context) FreeTexture2D(h metadata.Texture2D) error {
	t, ok := c.textures.remove(h.ID)
	if !ok {
		return c.invalidHandle("FreeTexture2D", metadata.ResourceKindTexture2D, h.ID)
	}
	if h == c.white {
		c.white = metadata.Texture2D{}
	}
	t.native.Release()
	c.recycle()
	return nil
}

func (c *Context) FreeVertexBuffer(h metadata.VertexBuffer) error {
	return c.freeBuffer(&c.vbuffers, "FreeVertexBuffer", metadata.ResourceKindVertexBuffer, h.ID)
}

func (c *Context) FreeIndexBuffer(h metadata.IndexBuffer) error {
	return c.freeBuffer(&c.ibuffers, "FreeIndexBuffer", metadata.ResourceKindIndexBuffer, h.ID)
}

func (c *Context) FreeUniformBuffer(h metadata.UniformBuffer) error {
	return c.freeBuffer(&c.ubuffers, "FreeUniformBuffer", metadata.ResourceKindUniformBuffer, h.ID)
}

func (c *Context) freeBuffer(t *table[*buffer], op string, kind metadata.ResourceKind, id uint32) error {
	b, ok := t.remove(id)
	if !ok {
		return c.invalidHandle(op, kind, id)
	}
	b.native.Release()
	c.recycle()
	return nil
}

func (c *Context) FreeShader(h metadata.Shader) error {
	s, ok := c.shaders.remove(h.ID)
	if !ok {
		return c.invalidHandle("FreeShader", metadata.ResourceKindShader, h.ID)
	}
	s.native.Release()
	c.recycle()
	return nil
}

func (c *Context) FreePipeline(h metadata.Pipeline) error {
	p, ok := c.pipelines.remove(h.ID)
	if !ok {
		return c.invalidHandle("FreePipeline", metadata.ResourceKindPipeline, h.ID)
	}
	if c.boundPipeline == h {
		c.boundPipeline = metadata.Pipeline{}
	}
	p.native.Release()
	c.recycle()
	return nil
}

func (c *Context) FreeRenderTarget(h metadata.RenderTarget) error {
	rt, ok := c.targets.remove(h.ID)
	if !ok {
		return c.invalidHandle("FreeRenderTarget", metadata.ResourceKindRenderTarget, h.ID)
	}
	if c.boundTarget == h {
		c.boundTarget = metadata.RenderTarget{}
		if c.inFrame {
			c.backend.BindRenderTarget(nil)
		}
	}
	rt.native.Release()
	c.recycle()
	return nil
}

func (c *Context) UpdateVertexBuffer(h metadata.VertexBuffer, offset int, data []byte) error {
	return c.updateBuffer(&c.vbuffers, "UpdateVertexBuffer", metadata.ResourceKindVertexBuffer, h.ID, offset, data)
}

func (c *Context) UpdateIndexBuffer(h metadata.IndexBuffer, offset int, data []byte) error {
	return c.updateBuffer(&c.ibuffers, "UpdateIndexBuffer", metadata.ResourceKindIndexBuffer, h.ID, offset, data)
}

func (c *Context) UpdateUniformBuffer(h metadata.UniformBuffer, offset int, data []byte) error {
	return c.updateBuffer(&c.ubuffers, "UpdateUniformBuffer", metadata.ResourceKindUniformBuffer, h.ID, offset, data)
}

// updateBuffer rejects writes that would run past the buffer instead of clamping them.
func (c *Context) updateBuffer(t *table[*buffer], op string, kind metadata.ResourceKind, id uint32, offset int, data []byte) error {
	b, ok := t.lookup(id)
	if !ok {
		return c.invalidHandle(op, kind, id)
	}
	if !b.dynamic {
		return c.misuse(fmt.Errorf("%s: %s %#x: %w", op, kind, id, core.ErrNotDynamic))
	}
	if offset < 0 || offset+len(data) > b.size {
		return c.misuse(fmt.Errorf("%s: %d bytes at offset %d into %d-byte buffer: %w", op, len(data), offset, b.size, core.ErrUpdateOutOfRange))
	}
	if len(data) == 0 {
		return nil
	}
	if err := b.native.Upload(offset, data); err != nil {
		return c.fail(fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// UpdateTexture2D writes a sub-rectangle of a dynamic texture. A zero-sized
// update covers the whole texture.
func (c *Context) UpdateTexture2D(h metadata.Texture2D, update metadata.Texture2DUpdate) error {
	t, ok := c.textures.lookup(h.ID)
	if !ok {
		return c.invalidHandle("UpdateTexture2D", metadata.ResourceKindTexture2D, h.ID)
	}
	if !t.desc.Dynamic {
		return c.misuse(fmt.Errorf("UpdateTexture2D: texture %#x: %w", h.ID, core.ErrNotDynamic))
	}
	if update.Width == 0 && update.Height == 0 {
		update.X, update.Y = 0, 0
		update.Width, update.Height = t.desc.Width, t.desc.Height
	}
	if update.X < 0 || update.Y < 0 || update.Width <= 0 || update.Height <= 0 ||
		update.X+update.Width > t.desc.Width || update.Y+update.Height > t.desc.Height {
		return c.misuse(fmt.Errorf("UpdateTexture2D: region %d,%d %dx%d outside %dx%d texture: %w",
			update.X, update.Y, update.Width, update.Height, t.desc.Width, t.desc.Height, core.ErrUpdateOutOfRange))
	}
	if want := update.Width * update.Height * t.desc.Format.BytesPerPixel(); len(update.Pixels) < want {
		return c.misuse(fmt.Errorf("UpdateTexture2D: have %d bytes, want %d: %w", len(update.Pixels), want, core.ErrUpdateOutOfRange))
	}
	if err := t.native.Upload(update.X, update.Y, update.Width, update.Height, update.Pixels); err != nil {
		return c.fail(fmt.Errorf("UpdateTexture2D: %w", err))
	}
	return nil
}

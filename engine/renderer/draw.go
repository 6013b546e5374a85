package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// Begin opens a frame whose default target is the backbuffer sized width x height.
func (c *Context) Begin(width, height int) error {
	if c.inFrame {
		return c.misuse(fmt.Errorf("Begin called twice without End: %w", core.ErrNotInFrame))
	}
	c.inFrame = true
	c.width, c.height = width, height
	c.boundPipeline = metadata.Pipeline{}
	c.boundTarget = metadata.RenderTarget{}
	c.backend.BeginFrame(width, height)
	return nil
}

// FrameSize is the backbuffer size given to the last Begin.
func (c *Context) FrameSize() (int, int) {
	return c.width, c.height
}

// End closes the frame, restoring the backbuffer as the target.
func (c *Context) End() error {
	if !c.inFrame {
		return c.misuse(fmt.Errorf("End called without Begin: %w", core.ErrNotInFrame))
	}
	if !c.boundTarget.IsNull() {
		c.backend.BindRenderTarget(nil)
		c.boundTarget = metadata.RenderTarget{}
	}
	c.backend.EndFrame()
	c.inFrame = false
	c.boundPipeline = metadata.Pipeline{}
	c.recycle()
	return nil
}

func (c *Context) ApplyPipeline(h metadata.Pipeline) error {
	if !c.inFrame {
		return c.misuse(fmt.Errorf("ApplyPipeline: %w", core.ErrNotInFrame))
	}
	p, ok := c.pipelines.lookup(h.ID)
	if !ok {
		return c.invalidHandle("ApplyPipeline", metadata.ResourceKindPipeline, h.ID)
	}
	if err := c.checkPipeline("ApplyPipeline", p); err != nil {
		return err
	}
	if h == c.boundPipeline {
		return nil
	}
	c.backend.BindPipeline(p.native)
	c.boundPipeline = h
	return nil
}

// ApplyRenderTarget redirects output to h. The null handle selects the backbuffer.
func (c *Context) ApplyRenderTarget(h metadata.RenderTarget) error {
	if !c.inFrame {
		return c.misuse(fmt.Errorf("ApplyRenderTarget: %w", core.ErrNotInFrame))
	}
	if h.IsNull() {
		if !c.boundTarget.IsNull() {
			c.backend.BindRenderTarget(nil)
			c.boundTarget = metadata.RenderTarget{}
		}
		return nil
	}
	rt, ok := c.targets.lookup(h.ID)
	if !ok {
		return c.invalidHandle("ApplyRenderTarget", metadata.ResourceKindRenderTarget, h.ID)
	}
	if err := c.checkTarget("ApplyRenderTarget", rt); err != nil {
		return err
	}
	if h == c.boundTarget {
		return nil
	}
	c.backend.BindRenderTarget(rt.native)
	c.boundTarget = h
	return nil
}

func (c *Context) Clear(desc *metadata.ClearDesc) error {
	if !c.inFrame {
		return c.misuse(fmt.Errorf("Clear: %w", core.ErrNotInFrame))
	}
	if err := c.checkBoundTarget("Clear"); err != nil {
		return err
	}
	c.backend.Clear(desc)
	return nil
}

// Draw resolves every handle of desc and issues one indexed draw. Null
// texture slots fall back to the white texture. An index count of zero is
// a no-op.
func (c *Context) Draw(desc *metadata.DrawDesc) error {
	if !c.inFrame {
		return c.misuse(fmt.Errorf("Draw: %w", core.ErrNotInFrame))
	}
	if c.boundPipeline.IsNull() {
		return c.misuse(fmt.Errorf("Draw: no pipeline applied: %w", core.ErrInvalidHandle))
	}
	// the bound pipeline or target may have lost a dependency since it was applied
	p, _ := c.pipelines.lookup(c.boundPipeline.ID)
	if err := c.checkPipeline("Draw", p); err != nil {
		return err
	}
	if err := c.checkBoundTarget("Draw"); err != nil {
		return err
	}
	if desc.IndexCount == 0 {
		return nil
	}

	call := driver.DrawCall{
		BaseIndex:     desc.BaseIndex,
		IndexCount:    desc.IndexCount,
		InstanceCount: desc.InstanceCount,
	}

	ib, ok := c.ibuffers.lookup(desc.IndexBuffer.ID)
	if !ok {
		return c.invalidHandle("Draw", metadata.ResourceKindIndexBuffer, desc.IndexBuffer.ID)
	}
	if desc.BaseIndex < 0 || desc.IndexCount < 0 || (desc.BaseIndex+desc.IndexCount)*ib.indexType.Size() > ib.size {
		return c.misuse(fmt.Errorf("Draw: indices [%d, %d) outside %d-byte index buffer: %w",
			desc.BaseIndex, desc.BaseIndex+desc.IndexCount, ib.size, core.ErrUpdateOutOfRange))
	}
	call.IndexBuffer = ib.native
	call.IndexType = ib.indexType

	if !desc.UniformBuffer.IsNull() {
		ub, ok := c.ubuffers.lookup(desc.UniformBuffer.ID)
		if !ok {
			return c.invalidHandle("Draw", metadata.ResourceKindUniformBuffer, desc.UniformBuffer.ID)
		}
		call.UniformBuffer = ub.native
	}

	for i, h := range desc.Textures {
		if h.IsNull() {
			h = c.white
		}
		t, ok := c.textures.lookup(h.ID)
		if !ok {
			return c.invalidHandle("Draw", metadata.ResourceKindTexture2D, h.ID)
		}
		if t.desc.NotUsedInShader {
			return c.misuse(fmt.Errorf("Draw: texture %#x was created without shader access: %w", h.ID, core.ErrInvalidHandle))
		}
		call.Textures[i] = t.native
	}

	for i, h := range desc.VertexBuffers {
		if h.IsNull() {
			continue
		}
		vb, ok := c.vbuffers.lookup(h.ID)
		if !ok {
			return c.invalidHandle("Draw", metadata.ResourceKindVertexBuffer, h.ID)
		}
		if desc.Offsets[i] < 0 || desc.Offsets[i] > vb.size {
			return c.misuse(fmt.Errorf("Draw: vertex buffer offset %d beyond %d bytes: %w", desc.Offsets[i], vb.size, core.ErrUpdateOutOfRange))
		}
		call.VertexBuffers[i] = driver.VertexBinding{
			Buffer: vb.native,
			Stride: desc.Strides[i],
			Offset: desc.Offsets[i],
		}
	}

	if desc.InstanceCount > 0 && !c.caps.HasInstancing {
		if desc.InstanceCount > 1 {
			return c.misuse(fmt.Errorf("Draw: %d instances without instancing support: %w", desc.InstanceCount, core.ErrLimitExceeded))
		}
		// a single instance is the plain draw
		call.InstanceCount = 0
	}

	c.backend.Draw(&call)
	return nil
}

// checkPipeline rejects a pipeline whose shader has been freed.
func (c *Context) checkPipeline(op string, p *pipeline) error {
	if !c.shaders.contains(p.shader.ID) {
		return c.invalidHandle(op+": pipeline shader", metadata.ResourceKindShader, p.shader.ID)
	}
	return nil
}

// checkTarget rejects a render target with a freed attachment.
func (c *Context) checkTarget(op string, rt *renderTarget) error {
	for _, h := range rt.attachments {
		if !c.textures.contains(h.ID) {
			return c.invalidHandle(op+": render target attachment", metadata.ResourceKindTexture2D, h.ID)
		}
	}
	return nil
}

func (c *Context) checkBoundTarget(op string) error {
	if c.boundTarget.IsNull() {
		return nil
	}
	rt, _ := c.targets.lookup(c.boundTarget.ID)
	return c.checkTarget(op, rt)
}

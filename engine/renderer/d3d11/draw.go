package d3d11

import (
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

func (b *Backend) Draw(call *driver.DrawCall) {
	if b.pipeline == nil {
		return
	}
	ctx := b.ctx

	var (
		bufs    [metadata.DrawMaxVertexBuffers]Object
		strides [metadata.DrawMaxVertexBuffers]uint32
		offsets [metadata.DrawMaxVertexBuffers]uint32
	)
	for i, vb := range call.VertexBuffers {
		if vb.Buffer == nil {
			continue
		}
		bufs[i] = vb.Buffer.(*gpuBuffer).buf
		strides[i] = uint32(vb.Stride)
		offsets[i] = uint32(vb.Offset)
	}
	ctx.IASetVertexBuffers(bufs[:], strides[:], offsets[:])

	format := uint32(FormatR16UInt)
	if call.IndexType == metadata.IndexTypeUint32 {
		format = FormatR32UInt
	}
	ctx.IASetIndexBuffer(call.IndexBuffer.(*gpuBuffer).buf, format)

	if call.UniformBuffer != nil {
		cb := call.UniformBuffer.(*gpuBuffer).buf
		ctx.VSSetConstantBuffer(cb)
		ctx.PSSetConstantBuffer(cb)
	}

	var (
		views    [metadata.DrawMaxTextures]Object
		samplers [metadata.DrawMaxTextures]Object
	)
	n := 0
	for i, t := range call.Textures {
		if t == nil || i >= b.caps.MaxTexturesPerDrawCall {
			continue
		}
		tex := t.(*gpuTexture)
		views[i] = tex.srv
		samplers[i] = tex.sampler
		n = i + 1
	}
	if n > 0 {
		ctx.PSSetShaderResources(views[:n])
		ctx.PSSetSamplers(samplers[:n])
	}

	if call.InstanceCount > 0 {
		ctx.DrawIndexedInstanced(call.IndexCount, call.InstanceCount, call.BaseIndex)
	} else {
		ctx.DrawIndexed(call.IndexCount, call.BaseIndex)
	}
}

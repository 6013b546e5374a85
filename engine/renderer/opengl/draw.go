package opengl

import (
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

func (b *Backend) Draw(call *driver.DrawCall) {
	p := b.pipeline
	if p == nil {
		return
	}
	f := b.funcs

	b.setupVertexArrays(p, call)

	f.BindBuffer(ELEMENT_ARRAY_BUFFER, call.IndexBuffer.(*gpuBuffer).obj)
	if call.UniformBuffer != nil {
		f.BindBufferBase(UNIFORM_BUFFER, 0, call.UniformBuffer.(*gpuBuffer).obj)
	}
	for i, t := range call.Textures {
		if t == nil || i >= b.caps.MaxTexturesPerDrawCall {
			continue
		}
		b.bindTexture(i, t.(*gpuTexture).obj)
	}

	typ := Enum(UNSIGNED_SHORT)
	if call.IndexType == metadata.IndexTypeUint32 {
		typ = UNSIGNED_INT
	}
	offset := call.BaseIndex * call.IndexType.Size()
	if call.InstanceCount > 0 {
		f.DrawElementsInstanced(TRIANGLES, call.IndexCount, typ, offset, call.InstanceCount)
	} else {
		f.DrawElements(TRIANGLES, call.IndexCount, typ, offset)
	}
	b.debugCheck("draw")
}

// setupVertexArrays points every attribute of the pipeline at the draw's
// vertex buffers. Attributes whose buffer slot is unbound are disabled.
func (b *Backend) setupVertexArrays(p *gpuPipeline, call *driver.DrawCall) {
	f := b.funcs
	for _, a := range p.attribs {
		vb := call.VertexBuffers[a.slot]
		if vb.Buffer == nil {
			for col := 0; col < a.columns; col++ {
				f.DisableVertexAttribArray(Attrib(a.location + col))
			}
			continue
		}
		f.BindBuffer(ARRAY_BUFFER, vb.Buffer.(*gpuBuffer).obj)
		for col := 0; col < a.columns; col++ {
			loc := Attrib(a.location + col)
			off := vb.Offset + a.offset + col*a.colStride
			f.EnableVertexAttribArray(loc)
			if a.integer {
				f.VertexAttribIPointer(loc, a.size, a.typ, vb.Stride, off)
			} else {
				f.VertexAttribPointer(loc, a.size, a.typ, a.norm, vb.Stride, off)
			}
			f.VertexAttribDivisor(loc, a.divisor)
		}
	}
	for i := p.locations; i < b.attribs; i++ {
		f.DisableVertexAttribArray(Attrib(i))
	}
	b.attribs = p.locations
}

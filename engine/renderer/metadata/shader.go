package metadata

/** @brief GLSL 3.30 sources. The backend prepends the #version line. */
type GLSLSource struct {
	VS string
	FS string
}

/** @brief Precompiled HLSL object code (fxc output) for one feature level. */
type HLSLObject struct {
	VS []byte
	PS []byte
}

/**
 * @brief One source per dialect. Only the variant matching the context's
 * ShaderDialect needs to be populated; the others are ignored.
 */
type ShaderDesc struct {
	GLSL          GLSLSource
	HLSL40        HLSLObject
	HLSL40Level91 HLSLObject
}

/** @brief A single vertex attribute. A zero Format terminates the layout. */
type LayoutDesc struct {
	/** @brief Byte offset inside one vertex of the bound buffer. */
	Offset int
	/** @brief Which of the draw's vertex buffers feeds this attribute. */
	BufferSlot int
	Format     LayoutFormat
	/** @brief 0 advances per vertex, N advances every N instances. */
	Divisor int
}

/** @brief Describes immutable pipeline state. */
type PipelineDesc struct {
	Blend            bool
	BlendSource      BlendFunc
	BlendDest        BlendFunc
	BlendOp          BlendOp
	BlendSourceAlpha BlendFunc
	BlendDestAlpha   BlendFunc
	BlendOpAlpha     BlendOp

	FillMode    FillMode
	CullMode    CullMode
	FrontFaceCW bool
	DepthTest   bool

	Shader      Shader
	InputLayout [PipelineMaxVertexInputs]LayoutDesc
}

// Attributes returns the populated prefix of the input layout.
func (d *PipelineDesc) Attributes() []LayoutDesc {
	for i, l := range d.InputLayout {
		if l.Format == LayoutFormatNull {
			return d.InputLayout[:i]
		}
	}
	return d.InputLayout[:]
}

package metadata

const (
	DrawMaxTextures                 = 8
	DrawMaxVertexBuffers            = 8
	PipelineMaxVertexInputs         = 16
	RenderTargetMaxColorAttachments = 4
)

/** @brief The native graphics API behind a context. */
type BackendAPI uint8

const (
	BackendAPINull BackendAPI = iota
	BackendAPIOpenGL
	BackendAPIDirect3D11
)

func (b BackendAPI) String() string {
	switch b {
	case BackendAPIOpenGL:
		return "OpenGL"
	case BackendAPIDirect3D11:
		return "Direct3D 11"
	}
	return "None"
}

/**
 * @brief The shader language a backend consumes. Ordered so that any value
 * >= ShaderDialectHLSL40Level91 is an HLSL dialect.
 */
type ShaderDialect uint8

const (
	ShaderDialectNull ShaderDialect = iota
	ShaderDialectGLSL
	ShaderDialectHLSL40Level91
	ShaderDialectHLSL40
)

func (s ShaderDialect) String() string {
	switch s {
	case ShaderDialectGLSL:
		return "GLSL 3.30"
	case ShaderDialectHLSL40Level91:
		return "HLSL 4.0 level 9.1"
	case ShaderDialectHLSL40:
		return "HLSL 4.0"
	}
	return "None"
}

/** @brief Pixel formats of 2D textures. */
type TexFormat uint8

const (
	TexFormatNull TexFormat = iota
	TexFormatD16
	TexFormatD24S8
	TexFormatA8
	TexFormatR8
	TexFormatRG8
	TexFormatRGB8
	TexFormatRGBA8
	TexFormatCount
)

// BytesPerPixel is the size of one texel in client memory.
func (f TexFormat) BytesPerPixel() int {
	switch f {
	case TexFormatD16, TexFormatRG8:
		return 2
	case TexFormatD24S8, TexFormatRGBA8:
		return 4
	case TexFormatA8, TexFormatR8:
		return 1
	case TexFormatRGB8:
		return 3
	}
	return 0
}

func (f TexFormat) IsDepth() bool {
	return f == TexFormatD16 || f == TexFormatD24S8
}

func (f TexFormat) String() string {
	switch f {
	case TexFormatD16:
		return "D16"
	case TexFormatD24S8:
		return "D24S8"
	case TexFormatA8:
		return "A8"
	case TexFormatR8:
		return "R8"
	case TexFormatRG8:
		return "RG8"
	case TexFormatRGB8:
		return "RGB8"
	case TexFormatRGBA8:
		return "RGBA8"
	}
	return "Null"
}

/** @brief Formats of a single vertex attribute. */
type LayoutFormat uint8

const (
	LayoutFormatNull LayoutFormat = iota
	LayoutFormatScalar
	LayoutFormatVec2
	LayoutFormatVec3
	LayoutFormatVec4
	LayoutFormatMat2
	LayoutFormatMat3
	LayoutFormatMat4
	LayoutFormatVec2I16Norm
	LayoutFormatVec2I16
	LayoutFormatVec4I16Norm
	LayoutFormatVec4I16
	LayoutFormatVec4U8Norm
	LayoutFormatVec4U8
)

// Size is the attribute size in bytes.
func (f LayoutFormat) Size() int {
	switch f {
	case LayoutFormatScalar:
		return 4
	case LayoutFormatVec2:
		return 8
	case LayoutFormatVec3:
		return 12
	case LayoutFormatVec4, LayoutFormatMat2:
		return 16
	case LayoutFormatMat3:
		return 36
	case LayoutFormatMat4:
		return 64
	case LayoutFormatVec2I16Norm, LayoutFormatVec2I16, LayoutFormatVec4U8Norm, LayoutFormatVec4U8:
		return 4
	case LayoutFormatVec4I16Norm, LayoutFormatVec4I16:
		return 8
	}
	return 0
}

// Columns is how many attribute slots the format occupies. Matrices take one per column.
func (f LayoutFormat) Columns() int {
	switch f {
	case LayoutFormatNull:
		return 0
	case LayoutFormatMat2:
		return 2
	case LayoutFormatMat3:
		return 3
	case LayoutFormatMat4:
		return 4
	}
	return 1
}

// Column describes one attribute slot of f: its per-column format and byte stride between columns.
func (f LayoutFormat) Column() (LayoutFormat, int) {
	switch f {
	case LayoutFormatMat2:
		return LayoutFormatVec2, 8
	case LayoutFormatMat3:
		return LayoutFormatVec3, 12
	case LayoutFormatMat4:
		return LayoutFormatVec4, 16
	}
	return f, f.Size()
}

type BlendFunc uint8

const (
	BlendFuncZero BlendFunc = iota
	BlendFuncOne
	BlendFuncSrcColor
	BlendFuncInvSrcColor
	BlendFuncDstColor
	BlendFuncInvDstColor
	BlendFuncSrcAlpha
	BlendFuncInvSrcAlpha
	BlendFuncDstAlpha
	BlendFuncInvDstAlpha
)

type BlendOp uint8

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
)

type FillMode uint8

const (
	FillModeSolid FillMode = iota
	FillModeWireframe
)

type CullMode uint8

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

type IndexType uint8

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

func (t IndexType) Size() int {
	if t == IndexTypeUint32 {
		return 4
	}
	return 2
}

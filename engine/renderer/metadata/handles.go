package metadata

const (
	/** @brief Bits of a handle id that hold the 1-based slot index. */
	HandleIndexBits = 20
	/** @brief Largest slot index a handle can address. */
	HandleMaxIndex = 1<<HandleIndexBits - 1
	/** @brief Generations wrap inside the remaining 12 bits, skipping zero. */
	HandleMaxGeneration = 1<<(32-HandleIndexBits) - 1
)

// MakeHandleID packs a 0-based slot index and a non-zero generation.
func MakeHandleID(index uint32, generation uint16) uint32 {
	return uint32(generation)<<HandleIndexBits | (index + 1)
}

// SplitHandleID is the inverse of MakeHandleID. ok is false for the null id.
func SplitHandleID(id uint32) (index uint32, generation uint16, ok bool) {
	slot := id & HandleMaxIndex
	if slot == 0 {
		return 0, 0, false
	}
	return slot - 1, uint16(id >> HandleIndexBits), true
}

/** @brief A 2D texture, possibly usable as a render target attachment. */
type Texture2D struct{ ID uint32 }

/** @brief A vertex buffer object. */
type VertexBuffer struct{ ID uint32 }

/** @brief An index buffer object of 16 or 32 bit indices. */
type IndexBuffer struct{ ID uint32 }

/** @brief A uniform (constant) buffer bound as block 0. */
type UniformBuffer struct{ ID uint32 }

/** @brief A linked vertex + pixel shader program. */
type Shader struct{ ID uint32 }

/** @brief Immutable blend/raster/layout state plus a shader. */
type Pipeline struct{ ID uint32 }

/** @brief An offscreen framebuffer made of texture attachments. */
type RenderTarget struct{ ID uint32 }

func (h Texture2D) IsNull() bool     { return h.ID == 0 }
func (h VertexBuffer) IsNull() bool  { return h.ID == 0 }
func (h IndexBuffer) IsNull() bool   { return h.ID == 0 }
func (h UniformBuffer) IsNull() bool { return h.ID == 0 }
func (h Shader) IsNull() bool        { return h.ID == 0 }
func (h Pipeline) IsNull() bool      { return h.ID == 0 }
func (h RenderTarget) IsNull() bool  { return h.ID == 0 }

// Handle is satisfied by every handle kind.
type Handle interface {
	Texture2D | VertexBuffer | IndexBuffer | UniformBuffer | Shader | Pipeline | RenderTarget
}

// HandleID extracts the raw id of any handle kind.
func HandleID[H Handle](h H) uint32 {
	switch v := any(h).(type) {
	case Texture2D:
		return v.ID
	case VertexBuffer:
		return v.ID
	case IndexBuffer:
		return v.ID
	case UniformBuffer:
		return v.ID
	case Shader:
		return v.ID
	case Pipeline:
		return v.ID
	case RenderTarget:
		return v.ID
	}
	return 0
}

/** @brief The resource kinds a handle can name. */
type ResourceKind uint8

const (
	ResourceKindTexture2D ResourceKind = iota
	ResourceKindVertexBuffer
	ResourceKindIndexBuffer
	ResourceKindUniformBuffer
	ResourceKindShader
	ResourceKindPipeline
	ResourceKindRenderTarget
	ResourceKindCount
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindTexture2D:
		return "Texture2D"
	case ResourceKindVertexBuffer:
		return "VertexBuffer"
	case ResourceKindIndexBuffer:
		return "IndexBuffer"
	case ResourceKindUniformBuffer:
		return "UniformBuffer"
	case ResourceKindShader:
		return "Shader"
	case ResourceKindPipeline:
		return "Pipeline"
	case ResourceKindRenderTarget:
		return "RenderTarget"
	}
	return "Unknown"
}

// KindOf reports which resource kind a handle type names.
func KindOf[H Handle](h H) ResourceKind {
	switch any(h).(type) {
	case Texture2D:
		return ResourceKindTexture2D
	case VertexBuffer:
		return ResourceKindVertexBuffer
	case IndexBuffer:
		return ResourceKindIndexBuffer
	case UniformBuffer:
		return ResourceKindUniformBuffer
	case Shader:
		return ResourceKindShader
	case Pipeline:
		return ResourceKindPipeline
	}
	return ResourceKindRenderTarget
}

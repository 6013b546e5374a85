package metadata

/** @brief Describes a vertex buffer. */
type VertexBufferDesc struct {
	Size        int
	InitialData []byte
	Dynamic     bool
}

/** @brief Describes an index buffer. */
type IndexBufferDesc struct {
	Size        int
	InitialData []byte
	Dynamic     bool
	IndexType   IndexType
}

/** @brief Describes a uniform buffer. Uniform buffers are always writable. */
type UniformBufferDesc struct {
	Size        int
	InitialData []byte
}

/** @brief The role of a buffer object, shared by the three buffer handle kinds. */
type BufferKind uint8

const (
	BufferKindVertex BufferKind = iota
	BufferKindIndex
	BufferKindUniform
)

func (k BufferKind) String() string {
	switch k {
	case BufferKindIndex:
		return "index"
	case BufferKindUniform:
		return "uniform"
	}
	return "vertex"
}

/** @brief The backend-neutral form of any buffer descriptor. */
type BufferDesc struct {
	Kind        BufferKind
	Size        int
	InitialData []byte
	Dynamic     bool
	IndexType   IndexType
}

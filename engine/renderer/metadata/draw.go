package metadata

/** @brief Which planes of the bound target a Clear touches. */
type ClearDesc struct {
	Color        [4]float32
	ClearColor   bool
	ClearDepth   bool
	ClearStencil bool
}

/**
 * @brief Per-draw state. Built fresh for every draw and never retained.
 * A null texture slot is bound to the context's white texture.
 */
type DrawDesc struct {
	IndexBuffer   IndexBuffer
	UniformBuffer UniformBuffer
	Textures      [DrawMaxTextures]Texture2D
	VertexBuffers [DrawMaxVertexBuffers]VertexBuffer
	Strides       [DrawMaxVertexBuffers]int
	Offsets       [DrawMaxVertexBuffers]int
	BaseIndex     int
	IndexCount    int
	/** @brief 0 issues a plain indexed draw. */
	InstanceCount int
}

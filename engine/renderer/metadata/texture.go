package metadata

/**
 * @brief Describes a 2D texture to create.
 */
type Texture2DDesc struct {
	/** @brief Tightly packed rows of Width*BytesPerPixel bytes. May be nil. */
	Pixels []byte
	/** @brief The width of the texture in pixels. */
	Width int
	/** @brief The height of the texture in pixels. */
	Height int
	/** @brief The pixel format. */
	Format TexFormat
	/** @brief Allow UpdateTexture2D after creation. */
	Dynamic bool
	/** @brief Bilinear sampling instead of nearest. */
	LinearFiltering bool
	/** @brief The texture can be attached to a RenderTarget. */
	RenderTarget bool
	/** @brief Skip the shader-resource view (depth-only attachments). */
	NotUsedInShader bool
}

/** @brief A rectangular sub-region write into a dynamic texture. */
type Texture2DUpdate struct {
	X, Y          int
	Width, Height int
	Pixels        []byte
}

/** @brief Describes an offscreen framebuffer from existing textures. */
type RenderTargetDesc struct {
	Color        [RenderTargetMaxColorAttachments]Texture2D
	DepthStencil Texture2D
}

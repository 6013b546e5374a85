package metadata

/**
 * @brief What the active backend and device can do. Produced once per
 * context and immutable afterwards.
 */
type Capabilities struct {
	BackendAPI     BackendAPI
	DriverRenderer string
	DriverVendor   string
	DriverVersion  string

	ShaderDialect ShaderDialect

	MaxTextureSize          int
	MaxRenderTargetTextures int
	MaxTexturesPerDrawCall  int
	/** @brief Bit (1 << TexFormat) is set for every supported format. */
	SupportedTextureFormats uint64

	HasInstancing         bool
	Has32BitIndex         bool
	HasSeparateAlphaBlend bool
	HasComputeShaders     bool
	Has16BitFloat         bool
	HasWireframeFillMode  bool
}

func (c *Capabilities) SupportsFormat(f TexFormat) bool {
	if f == TexFormatNull || f >= TexFormatCount {
		return false
	}
	return c.SupportedTextureFormats&(1<<f) != 0
}

// FormatSet builds a SupportedTextureFormats bitset.
func FormatSet(formats ...TexFormat) uint64 {
	var set uint64
	for _, f := range formats {
		set |= 1 << f
	}
	return set
}

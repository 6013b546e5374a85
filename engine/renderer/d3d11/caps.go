package d3d11

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// FeatureLevelString formats a D3D_FEATURE_LEVEL as "major_minor".
func FeatureLevelString(level uint32) string {
	return fmt.Sprintf("%d_%d", level>>12, (level>>8)&0xf)
}

// capabilitiesFor derives the capability record from the device feature
// level. Levels below 9.1 cannot run the backend.
func capabilitiesFor(level uint32, adapter string) (metadata.Capabilities, error) {
	if level < FeatureLevel9_1 {
		return metadata.Capabilities{}, fmt.Errorf("%w: feature level %s below 9_1", core.ErrBackendUnavailable, FeatureLevelString(level))
	}
	caps := metadata.Capabilities{
		BackendAPI:     metadata.BackendAPIDirect3D11,
		DriverRenderer: adapter,
		DriverVendor:   "Microsoft",
		DriverVersion:  "Direct3D 11 feature level " + FeatureLevelString(level),

		ShaderDialect:           metadata.ShaderDialectHLSL40Level91,
		MaxTextureSize:          2048,
		MaxRenderTargetTextures: 1,
		MaxTexturesPerDrawCall:  metadata.DrawMaxTextures,
		SupportedTextureFormats: metadata.FormatSet(
			metadata.TexFormatD16,
			metadata.TexFormatD24S8,
			metadata.TexFormatRGB8,
			metadata.TexFormatRGBA8,
		),
	}
	if level >= FeatureLevel9_3 {
		caps.MaxTextureSize = 4096
		caps.MaxRenderTargetTextures = 4
	}
	if level >= FeatureLevel10_0 {
		caps.ShaderDialect = metadata.ShaderDialectHLSL40
		caps.MaxTextureSize = 8192
		caps.SupportedTextureFormats |= metadata.FormatSet(
			metadata.TexFormatA8,
			metadata.TexFormatR8,
			metadata.TexFormatRG8,
		)
		caps.HasInstancing = true
		caps.Has32BitIndex = true
		caps.HasSeparateAlphaBlend = true
		caps.HasWireframeFillMode = true
		caps.Has16BitFloat = true
	}
	if level >= FeatureLevel11_0 {
		caps.MaxTextureSize = 16384
		caps.HasComputeShaders = true
	}
	return caps, nil
}

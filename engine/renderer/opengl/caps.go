package opengl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// ParseGLVersion extracts the major and minor version from a GL_VERSION
// string such as "4.6.0 NVIDIA 535.54" or "OpenGL ES 3.2 Mesa".
func ParseGLVersion(glVer string) (version [2]int, gles bool, err error) {
	var ver [2]int
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return ver, true, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return ver, false, nil
	}
	return ver, false, fmt.Errorf("failed to parse OpenGL version (%s)", glVer)
}

func queryCapabilities(f Functions) (metadata.Capabilities, [2]int, error) {
	version := f.GetString(VERSION)
	ver, gles, err := ParseGLVersion(version)
	if err != nil {
		return metadata.Capabilities{}, ver, fmt.Errorf("%w: %s", core.ErrBackendUnavailable, err)
	}
	if gles || ver[0] < 3 || (ver[0] == 3 && ver[1] < 3) {
		return metadata.Capabilities{}, ver, fmt.Errorf("%w: OpenGL 3.3 core required, have %q", core.ErrBackendUnavailable, version)
	}

	caps := metadata.Capabilities{
		BackendAPI:     metadata.BackendAPIOpenGL,
		DriverRenderer: strings.TrimSpace(f.GetString(RENDERER)),
		DriverVendor:   strings.TrimSpace(f.GetString(VENDOR)),
		DriverVersion:  strings.TrimSpace(version),
		ShaderDialect:  metadata.ShaderDialectGLSL,

		MaxTextureSize:          f.GetInteger(MAX_TEXTURE_SIZE),
		MaxRenderTargetTextures: min(f.GetInteger(MAX_COLOR_ATTACHMENTS), metadata.RenderTargetMaxColorAttachments),
		MaxTexturesPerDrawCall:  min(f.GetInteger(MAX_TEXTURE_IMAGE_UNITS), metadata.DrawMaxTextures),
		SupportedTextureFormats: metadata.FormatSet(
			metadata.TexFormatD16,
			metadata.TexFormatD24S8,
			metadata.TexFormatA8,
			metadata.TexFormatR8,
			metadata.TexFormatRG8,
			metadata.TexFormatRGB8,
			metadata.TexFormatRGBA8,
		),

		HasInstancing:         true,
		Has32BitIndex:         true,
		HasSeparateAlphaBlend: true,
		HasComputeShaders:     ver[0] > 4 || (ver[0] == 4 && ver[1] >= 3),
		Has16BitFloat:         true,
		HasWireframeFillMode:  true,
	}
	return caps, ver, nil
}

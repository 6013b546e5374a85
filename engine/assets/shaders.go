// Package assets loads the files the demo feeds to the renderer: shader
// sources and object code, bitmap fonts, and change notifications for the
// asset directory.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// Shader files are found by name inside the shader directory:
//
//	<name>.vert, <name>.frag             GLSL 3.30 sources
//	<name>_vs.cso, <name>_ps.cso         vs_4_0 / ps_4_0 object code
//	<name>_91_vs.cso, <name>_91_ps.cso   vs_4_0_level_9_1 / ps_4_0_level_9_1 object code
const (
	glslVertexExt   = ".vert"
	glslFragmentExt = ".frag"
	objectExt       = ".cso"
)

// LoadShaderSet reads every dialect of the named shader that exists in dir.
// Missing dialects are left empty; the renderer rejects a shader only when
// the dialect of the active backend is missing.
func LoadShaderSet(dir, name string) (*metadata.ShaderDesc, error) {
	desc := &metadata.ShaderDesc{}
	found := 0
	read := func(file string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		found++
		return data, nil
	}

	for _, f := range []struct {
		file string
		dst  *[]byte
	}{
		{name + "_vs" + objectExt, &desc.HLSL40.VS},
		{name + "_ps" + objectExt, &desc.HLSL40.PS},
		{name + "_91_vs" + objectExt, &desc.HLSL40Level91.VS},
		{name + "_91_ps" + objectExt, &desc.HLSL40Level91.PS},
	} {
		data, err := read(f.file)
		if err != nil {
			return nil, err
		}
		*f.dst = data
	}

	vs, err := read(name + glslVertexExt)
	if err != nil {
		return nil, err
	}
	fsrc, err := read(name + glslFragmentExt)
	if err != nil {
		return nil, err
	}
	desc.GLSL = metadata.GLSLSource{VS: string(vs), FS: string(fsrc)}

	if found == 0 {
		return nil, fmt.Errorf("no shader files named %q in %s: %w", name, dir, fs.ErrNotExist)
	}
	core.LogDebug("loaded shader set %q from %s (%d files)", name, dir, found)
	return desc, nil
}

// IsShaderFile reports whether path has one of the shader file extensions.
func IsShaderFile(path string) bool {
	switch filepath.Ext(path) {
	case glslVertexExt, glslFragmentExt, objectExt, ".hlsl":
		return true
	}
	return false
}

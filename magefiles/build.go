//go:build mage

package main

import (
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const shaderDir = "assets/shaders"

// hlslSet names the source of each profile family of one shader set.
type hlslSet struct {
	name     string
	source   string
	source91 string
}

var hlslSets = []hlslSet{
	{name: "passthrough", source: "passthrough.hlsl", source91: "passthrough.hlsl"},
	{name: "quad", source: "quad.hlsl", source91: "quad_91.hlsl"},
}

// Compiles the HLSL shaders to object code with fxc. GLSL is compiled by the
// driver at runtime and needs no step here.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the shaders and then the engine binary.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-rb", "."), withStream()); err != nil {
		return err
	}
	return nil
}

func buildShaders() error {
	if runtime.GOOS != "windows" {
		// fxc ships with the Windows SDK only
		return nil
	}
	if err := requireTool("fxc", "install the Windows SDK"); err != nil {
		return err
	}
	for _, s := range hlslSets {
		for _, c := range []struct {
			source, profile, entry, out string
		}{
			{s.source, "vs_4_0", "VertexMain", s.name + "_vs.cso"},
			{s.source, "ps_4_0", "PixelMain", s.name + "_ps.cso"},
			{s.source91, "vs_4_0_level_9_1", "VertexMain", s.name + "_91_vs.cso"},
			{s.source91, "ps_4_0_level_9_1", "PixelMain", s.name + "_91_ps.cso"},
		} {
			if _, err := executeCmd("fxc", withArgs(
				"/nologo", "/O3",
				"/T", c.profile,
				"/E", c.entry,
				"/Fo", filepath.Join(shaderDir, c.out),
				filepath.Join(shaderDir, c.source),
			), withStream()); err != nil {
				return err
			}
		}
	}
	return nil
}

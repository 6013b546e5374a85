package opengl

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

func newTestBackend(t *testing.T, version string) (*Backend, *fakeGL, *fakeSurface) {
	t.Helper()
	f := newFakeGL(version)
	s := new(fakeSurface)
	b, err := New(f, s, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b, f, s
}

func TestParseGLVersion(t *testing.T) {
	for _, x := range [...]struct {
		in   string
		ver  [2]int
		gles bool
		err  bool
	}{
		{"4.6.0 NVIDIA 535.54.03", [2]int{4, 6}, false, false},
		{"3.3 (Core Profile) Mesa 23.0.4", [2]int{3, 3}, false, false},
		{"OpenGL ES 3.2 Mesa 23.0.4", [2]int{3, 2}, true, false},
		{"garbage", [2]int{}, false, true},
	} {
		ver, gles, err := ParseGLVersion(x.in)
		if (err != nil) != x.err || ver != x.ver || gles != x.gles {
			t.Fatalf("ParseGLVersion(%q):\nhave %v %v %v\nwant %v %v err=%v", x.in, ver, gles, err, x.ver, x.gles, x.err)
		}
	}
}

func TestCapabilities(t *testing.T) {
	b, _, s := newTestBackend(t, "3.3.0 Mesa")
	caps := b.Capabilities()
	if s.current != 1 {
		t.Fatalf("MakeCurrent calls:\nhave %d\nwant 1", s.current)
	}
	if caps.BackendAPI != metadata.BackendAPIOpenGL || caps.ShaderDialect != metadata.ShaderDialectGLSL {
		t.Fatalf("api/dialect:\nhave %v/%v\nwant OpenGL/GLSL", caps.BackendAPI, caps.ShaderDialect)
	}
	if caps.MaxTexturesPerDrawCall != 8 || caps.MaxRenderTargetTextures != 4 || caps.MaxTextureSize != 16384 {
		t.Fatalf("limits not clamped:\nhave %+v", caps)
	}
	if caps.DriverRenderer != "Fake Renderer" {
		t.Fatalf("DriverRenderer:\nhave %q\nwant %q", caps.DriverRenderer, "Fake Renderer")
	}
	if !caps.HasInstancing || !caps.Has32BitIndex || caps.HasComputeShaders {
		t.Fatalf("feature flags for 3.3:\nhave %+v", caps)
	}
	if !caps.SupportsFormat(metadata.TexFormatA8) || !caps.SupportsFormat(metadata.TexFormatD24S8) {
		t.Fatal("SupportsFormat: core formats missing")
	}

	b46, _, _ := newTestBackend(t, "4.6.0 NVIDIA")
	if !b46.Capabilities().HasComputeShaders {
		t.Fatal("HasComputeShaders: false on GL 4.6")
	}

	for _, v := range []string{"2.1 Mesa", "3.2.0", "OpenGL ES 3.2"} {
		_, err := New(newFakeGL(v), new(fakeSurface), false)
		if !errors.Is(err, core.ErrBackendUnavailable) {
			t.Fatalf("New(%q):\nhave %v\nwant %v", v, err, core.ErrBackendUnavailable)
		}
	}
}

func TestNewShaderPreludeAndBindings(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	f.uniforms["uTexture[0]"] = 10
	f.uniforms["uTexture[1]"] = 11
	f.uniforms["uTexture2"] = 12

	s, err := b.NewShader(&metadata.ShaderDesc{GLSL: metadata.GLSLSource{VS: "void main() {}", FS: "out vec4 c; void main() {}"}})
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	for id, src := range f.sources {
		if !strings.HasPrefix(src, "#version 330 core\n") {
			t.Fatalf("shader %d source lacks the version prelude:\n%s", id, src)
		}
	}
	for _, want := range []string{"UniformBlockBinding 0 0", "Uniform1i 10 0", "Uniform1i 11 1", "Uniform1i 12 2", "UseProgram 0"} {
		if !f.has(want) {
			t.Fatalf("missing call %q in %v", want, f.calls)
		}
	}
	s.Release()
	if f.deleted != 1 {
		t.Fatalf("deleted objects:\nhave %d\nwant 1", f.deleted)
	}
}

func TestNewShaderErrors(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	desc := &metadata.ShaderDesc{GLSL: metadata.GLSLSource{VS: "x", FS: "y"}}

	f.failCompile = true
	_, err := b.NewShader(desc)
	if !errors.Is(err, core.ErrShaderCompile) || !strings.Contains(err.Error(), "syntax error") {
		t.Fatalf("compile failure:\nhave %v\nwant %v with the info log", err, core.ErrShaderCompile)
	}

	f.failCompile, f.failLink = false, true
	_, err = b.NewShader(desc)
	if !errors.Is(err, core.ErrShaderLink) || !strings.Contains(err.Error(), "link log") {
		t.Fatalf("link failure:\nhave %v\nwant %v with the info log", err, core.ErrShaderLink)
	}
}

func TestNewTexture2D(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	tex, err := b.NewTexture2D(&metadata.Texture2DDesc{Width: 4, Height: 2, Format: metadata.TexFormatA8, LinearFiltering: true, Pixels: make([]byte, 8)})
	if err != nil {
		t.Fatalf("NewTexture2D: %v", err)
	}
	for _, want := range []string{
		fmt.Sprintf("TexImage2D %#x 4x2 %#x %#x 8", R8, RED, UNSIGNED_BYTE),
		fmt.Sprintf("TexParameteri %#x %#x", TEXTURE_SWIZZLE_A, RED),
		fmt.Sprintf("TexParameteri %#x %#x", TEXTURE_MIN_FILTER, LINEAR),
	} {
		if !f.has(want) {
			t.Fatalf("missing call %q in %v", want, f.calls)
		}
	}
	if err := tex.Upload(1, 0, 2, 2, make([]byte, 4)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !f.has("TexSubImage2D 1 0 2x2 4") {
		t.Fatalf("sub-image upload not issued: %v", f.calls)
	}

	f.glError = 0x0505
	if _, err := b.NewTexture2D(&metadata.Texture2DDesc{Width: 1, Height: 1, Format: metadata.TexFormatRGBA8}); err != nil {
		t.Fatalf("stale GL error leaked into texture creation: %v", err)
	}
}

func TestNewBufferPadsInitialData(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	buf, err := b.NewBuffer(&metadata.BufferDesc{Kind: metadata.BufferKindUniform, Size: 32, InitialData: make([]byte, 20), Dynamic: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("BufferData %#x 32 %#x 32", UNIFORM_BUFFER, DYNAMIC_DRAW); !f.has(want) {
		t.Fatalf("missing call %q in %v", want, f.calls)
	}
	if err := buf.Upload(16, make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("BufferSubData %#x 16 16", UNIFORM_BUFFER); !f.has(want) {
		t.Fatalf("missing call %q in %v", want, f.calls)
	}
}

func quadPipeline(t *testing.T, b *Backend) driver.Pipeline {
	t.Helper()
	s, err := b.NewShader(&metadata.ShaderDesc{GLSL: metadata.GLSLSource{VS: "v", FS: "f"}})
	if err != nil {
		t.Fatal(err)
	}
	desc := metadata.PipelineDesc{
		Blend:            true,
		BlendSource:      metadata.BlendFuncSrcAlpha,
		BlendDest:        metadata.BlendFuncInvSrcAlpha,
		BlendSourceAlpha: metadata.BlendFuncSrcAlpha,
		BlendDestAlpha:   metadata.BlendFuncInvSrcAlpha,
	}
	desc.InputLayout = [metadata.PipelineMaxVertexInputs]metadata.LayoutDesc{
		{Format: metadata.LayoutFormatVec2, Offset: 0, Divisor: 1},
		{Format: metadata.LayoutFormatMat2, Offset: 8, Divisor: 1},
		{Format: metadata.LayoutFormatVec2I16, Offset: 24, Divisor: 1},
		{Format: metadata.LayoutFormatVec4I16Norm, Offset: 28, Divisor: 1},
		{Format: metadata.LayoutFormatVec4U8Norm, Offset: 36, Divisor: 1},
	}
	p, err := b.NewPipeline(&desc, s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDrawAttributeLayout(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	p := quadPipeline(t, b)
	vb, _ := b.NewBuffer(&metadata.BufferDesc{Kind: metadata.BufferKindVertex, Size: 400, Dynamic: true})
	ib, _ := b.NewBuffer(&metadata.BufferDesc{Kind: metadata.BufferKindIndex, Size: 12, InitialData: make([]byte, 12)})

	b.BeginFrame(640, 480)
	b.BindPipeline(p)
	f.calls = nil
	call := &driver.DrawCall{IndexBuffer: ib, IndexCount: 6, InstanceCount: 10}
	call.VertexBuffers[0] = driver.VertexBinding{Buffer: vb, Stride: 40, Offset: 80}
	b.Draw(call)

	for _, want := range []string{
		fmt.Sprintf("VertexAttribPointer 0 2 %#x false 40 80", FLOAT),
		// the matrix columns take locations 1 and 2
		fmt.Sprintf("VertexAttribPointer 1 2 %#x false 40 88", FLOAT),
		fmt.Sprintf("VertexAttribPointer 2 2 %#x false 40 96", FLOAT),
		fmt.Sprintf("VertexAttribIPointer 3 2 %#x 40 104", SHORT),
		fmt.Sprintf("VertexAttribPointer 4 4 %#x true 40 108", SHORT),
		fmt.Sprintf("VertexAttribPointer 5 4 %#x true 40 116", UNSIGNED_BYTE),
		"VertexAttribDivisor 5 1",
		fmt.Sprintf("DrawElementsInstanced 6 %#x 0 10", UNSIGNED_SHORT),
	} {
		if !f.has(want) {
			t.Fatalf("missing call %q in %v", want, f.calls)
		}
	}
}

func TestDrawInstanceZeroIsPlain(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	p := quadPipeline(t, b)
	ib, _ := b.NewBuffer(&metadata.BufferDesc{Kind: metadata.BufferKindIndex, Size: 64, InitialData: make([]byte, 64), IndexType: metadata.IndexTypeUint32})
	b.BeginFrame(8, 8)
	b.BindPipeline(p)
	b.Draw(&driver.DrawCall{IndexBuffer: ib, IndexType: metadata.IndexTypeUint32, BaseIndex: 3, IndexCount: 6})
	if want := fmt.Sprintf("DrawElements 6 %#x 12", UNSIGNED_INT); !f.has(want) {
		t.Fatalf("missing call %q in %v", want, f.calls)
	}
	if f.count("DrawElementsInstanced") != 0 {
		t.Fatal("instance count 0 issued an instanced draw")
	}
	// unbound vertex slots disable their attributes
	if !f.has("DisableVertexAttribArray 1") {
		t.Fatalf("attributes of an unbound slot left enabled: %v", f.calls)
	}
}

func TestBindPipelineState(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	p := quadPipeline(t, b)
	b.BindPipeline(p)
	for _, want := range []string{
		fmt.Sprintf("Enable %#x", BLEND),
		fmt.Sprintf("BlendFuncSeparate %#x %#x %#x %#x", SRC_ALPHA, ONE_MINUS_SRC_ALPHA, SRC_ALPHA, ONE_MINUS_SRC_ALPHA),
		fmt.Sprintf("BlendEquationSeparate %#x %#x", FUNC_ADD, FUNC_ADD),
		fmt.Sprintf("Disable %#x", CULL_FACE),
		fmt.Sprintf("PolygonMode %#x", FILL),
	} {
		if !f.has(want) {
			t.Fatalf("missing call %q in %v", want, f.calls)
		}
	}
}

func TestRenderTarget(t *testing.T) {
	b, f, _ := newTestBackend(t, "3.3")
	color, _ := b.NewTexture2D(&metadata.Texture2DDesc{Width: 128, Height: 64, Format: metadata.TexFormatRGBA8, RenderTarget: true})
	depth, _ := b.NewTexture2D(&metadata.Texture2DDesc{Width: 128, Height: 64, Format: metadata.TexFormatD24S8, RenderTarget: true})
	rt, err := b.NewRenderTarget([]driver.Texture{color}, depth)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	if want := fmt.Sprintf("FramebufferTexture2D %#x %d", DEPTH_STENCIL_ATTACHMENT, depth.(*gpuTexture).obj.V); !f.has(want) {
		t.Fatalf("missing call %q in %v", want, f.calls)
	}

	b.BeginFrame(640, 480)
	b.BindRenderTarget(rt)
	if !f.has("Viewport 0 0 128 64") {
		t.Fatalf("viewport not sized to the target: %v", f.calls)
	}
	f.calls = nil
	b.BindRenderTarget(nil)
	if !f.has("BindFramebuffer 0") || !f.has("Viewport 0 0 640 480") {
		t.Fatalf("backbuffer not restored: %v", f.calls)
	}

	f.fbStatus = 0x8CD6
	if _, err := b.NewRenderTarget([]driver.Texture{color}, nil); !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Fatalf("incomplete framebuffer:\nhave %v\nwant %v", err, core.ErrUnsupportedFormat)
	}
}

func TestClearAndPresent(t *testing.T) {
	b, f, s := newTestBackend(t, "3.3")
	b.BeginFrame(8, 8)
	b.Clear(&metadata.ClearDesc{Color: [4]float32{0, 0, 0, 1}, ClearColor: true, ClearDepth: true})
	if want := fmt.Sprintf("Clear %#x", COLOR_BUFFER_BIT|DEPTH_BUFFER_BIT); !f.has(want) {
		t.Fatalf("missing call %q in %v", want, f.calls)
	}
	b.EndFrame()
	for i := 0; i < 3; i++ {
		if !b.Present(1) {
			t.Fatal("Present: reported failure")
		}
	}
	if s.swaps != 3 || len(s.interval) != 1 {
		t.Fatalf("swaps/interval changes:\nhave %d/%d\nwant 3/1", s.swaps, len(s.interval))
	}
}

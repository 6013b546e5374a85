package renderer

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

type quadResources struct {
	shader   metadata.Shader
	pipeline metadata.Pipeline
	vbuffer  metadata.VertexBuffer
	ibuffer  metadata.IndexBuffer
}

func quadIndices() []byte {
	b := make([]byte, 12)
	for i, v := range []uint16{0, 1, 2, 2, 3, 1} {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

func makeQuad(t *testing.T, c *Context) quadResources {
	t.Helper()
	var r quadResources
	var err error
	r.shader, err = c.MakeShader(&metadata.ShaderDesc{
		GLSL:          metadata.GLSLSource{VS: "void main() {}", FS: "void main() {}"},
		HLSL40Level91: metadata.HLSLObject{VS: []byte{0x44, 0x58}, PS: []byte{0x44, 0x58}},
	})
	if err != nil {
		t.Fatalf("MakeShader: %v", err)
	}
	desc := metadata.PipelineDesc{Shader: r.shader}
	desc.InputLayout[0] = metadata.LayoutDesc{Format: metadata.LayoutFormatVec2}
	if r.pipeline, err = c.MakePipeline(&desc); err != nil {
		t.Fatalf("MakePipeline: %v", err)
	}
	if r.vbuffer, err = c.MakeVertexBuffer(&metadata.VertexBufferDesc{Size: 32, InitialData: make([]byte, 32)}); err != nil {
		t.Fatalf("MakeVertexBuffer: %v", err)
	}
	if r.ibuffer, err = c.MakeIndexBuffer(&metadata.IndexBufferDesc{Size: 12, InitialData: quadIndices()}); err != nil {
		t.Fatalf("MakeIndexBuffer: %v", err)
	}
	return r
}

func (r quadResources) draw() metadata.DrawDesc {
	return metadata.DrawDesc{
		IndexBuffer:   r.ibuffer,
		VertexBuffers: [metadata.DrawMaxVertexBuffers]metadata.VertexBuffer{r.vbuffer},
		Strides:       [metadata.DrawMaxVertexBuffers]int{8},
		IndexCount:    6,
	}
}

// A white texture, a passthrough pipeline, a black clear, one quad and a present.
func TestScenarioSingleQuad(t *testing.T) {
	for _, instancing := range []bool{true, false} {
		c, b := newTestContext(t, instancing, true)
		r := makeQuad(t, c)
		white, err := c.MakeTexture2D(&metadata.Texture2DDesc{Pixels: rgba(2, 2, 0xff), Width: 2, Height: 2, Format: metadata.TexFormatRGBA8})
		if err != nil {
			t.Fatalf("MakeTexture2D: %v", err)
		}

		steps := []func() error{
			func() error { return c.Begin(640, 480) },
			func() error { return c.Clear(&metadata.ClearDesc{Color: [4]float32{0, 0, 0, 1}, ClearColor: true}) },
			func() error { return c.ApplyPipeline(r.pipeline) },
			func() error {
				d := r.draw()
				d.Textures[0] = white
				return c.Draw(&d)
			},
			c.End,
		}
		for i, step := range steps {
			if err := step(); err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
		}
		if !c.Present() {
			t.Fatal("Present: reported failure")
		}
		want := []string{"begin 640x480", "clear", "bind pipeline", "draw", "end", "present"}
		have := b.calls[len(b.calls)-len(want):]
		if !reflect.DeepEqual(have, want) {
			t.Fatalf("backend calls:\nhave %v\nwant %v", have, want)
		}
		if len(b.draws) != 1 || b.draws[0].IndexCount != 6 || b.draws[0].InstanceCount != 0 {
			t.Fatalf("draws:\nhave %+v\nwant one 6-index plain draw", b.draws)
		}
	}
}

func TestDrawFallsBackToWhiteTexture(t *testing.T) {
	c, b := newTestContext(t, true, true)
	r := makeQuad(t, c)
	white, _ := c.textures.lookup(c.WhiteTexture().ID)

	c.Begin(8, 8)
	c.ApplyPipeline(r.pipeline)
	d := r.draw()
	if err := c.Draw(&d); err != nil {
		t.Fatal(err)
	}
	c.End()

	for i, tex := range b.draws[0].Textures {
		if tex != white.native {
			t.Fatalf("texture slot %d: null handle not replaced by the white texture", i)
		}
	}
	if b.draws[0].VertexBuffers[1].Buffer != nil {
		t.Fatal("vertex slot 1: null handle bound a buffer")
	}
}

func TestApplyPipelineMinimizesRebinds(t *testing.T) {
	c, b := newTestContext(t, true, true)
	r := makeQuad(t, c)
	c.Begin(8, 8)
	for i := 0; i < 3; i++ {
		if err := c.ApplyPipeline(r.pipeline); err != nil {
			t.Fatal(err)
		}
	}
	c.ApplyRenderTarget(metadata.RenderTarget{})
	c.End()
	if have := b.count("bind pipeline"); have != 1 {
		t.Fatalf("pipeline binds:\nhave %d\nwant 1", have)
	}
	if have := b.count("bind backbuffer"); have != 0 {
		t.Fatalf("backbuffer binds while already on the backbuffer:\nhave %d\nwant 0", have)
	}

	// a new frame forgets the bound state
	c.Begin(8, 8)
	c.ApplyPipeline(r.pipeline)
	c.End()
	if have := b.count("bind pipeline"); have != 2 {
		t.Fatalf("pipeline binds after a new Begin:\nhave %d\nwant 2", have)
	}
}

func TestRenderTargetRedirect(t *testing.T) {
	c, b := newTestContext(t, true, true)
	color, err := c.MakeTexture2D(&metadata.Texture2DDesc{Width: 256, Height: 256, Format: metadata.TexFormatRGBA8, RenderTarget: true})
	if err != nil {
		t.Fatal(err)
	}
	depth, err := c.MakeTexture2D(&metadata.Texture2DDesc{Width: 256, Height: 256, Format: metadata.TexFormatD24S8, RenderTarget: true, NotUsedInShader: true})
	if err != nil {
		t.Fatal(err)
	}
	rt, err := c.MakeRenderTarget(&metadata.RenderTargetDesc{Color: [4]metadata.Texture2D{color}, DepthStencil: depth})
	if err != nil {
		t.Fatalf("MakeRenderTarget: %v", err)
	}

	c.Begin(100, 100)
	c.ApplyRenderTarget(rt)
	c.ApplyRenderTarget(rt)
	c.Clear(&metadata.ClearDesc{ClearDepth: true})
	c.End()

	want := []string{"begin 100x100", "bind target", "clear", "bind backbuffer", "end"}
	have := b.calls[len(b.calls)-len(want):]
	if !reflect.DeepEqual(have, want) {
		t.Fatalf("backend calls:\nhave %v\nwant %v", have, want)
	}

	_, err = c.MakeRenderTarget(&metadata.RenderTargetDesc{DepthStencil: color})
	if !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Fatalf("color texture as depth attachment:\nhave %v\nwant %v", err, core.ErrUnsupportedFormat)
	}
}

func TestDrawInstanceCount(t *testing.T) {
	// one instance on a backend without instancing is the plain draw
	c, b := newTestContext(t, false, true)
	r := makeQuad(t, c)
	c.Begin(8, 8)
	c.ApplyPipeline(r.pipeline)
	for _, n := range []int{0, 1} {
		d := r.draw()
		d.InstanceCount = n
		if err := c.Draw(&d); err != nil {
			t.Fatalf("Draw(InstanceCount=%d): %v", n, err)
		}
	}
	if !reflect.DeepEqual(b.draws[0], b.draws[1]) {
		t.Fatalf("draws for 0 and 1 instances differ:\nhave %+v\nwant %+v", b.draws[1], b.draws[0])
	}
	expectPanic(t, core.ErrLimitExceeded, func() {
		d := r.draw()
		d.InstanceCount = 2
		c.Draw(&d)
	})
}

func TestDrawMisuse(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	r := makeQuad(t, c)

	expectPanic(t, core.ErrNotInFrame, func() {
		d := r.draw()
		c.Draw(&d)
	})

	c.Begin(8, 8)
	expectPanic(t, core.ErrInvalidHandle, func() {
		d := r.draw()
		c.Draw(&d)
	})
	c.ApplyPipeline(r.pipeline)

	tex, _ := c.MakeTexture2D(&metadata.Texture2DDesc{Pixels: rgba(1, 1, 1), Width: 1, Height: 1, Format: metadata.TexFormatRGBA8})
	c.FreeTexture2D(tex)
	expectPanic(t, core.ErrInvalidHandle, func() {
		d := r.draw()
		d.Textures[2] = tex
		c.Draw(&d)
	})
	expectPanic(t, core.ErrUpdateOutOfRange, func() {
		d := r.draw()
		d.IndexCount = 12
		c.Draw(&d)
	})
	expectPanic(t, core.ErrNotInFrame, func() {
		c.Present()
	})
}

func TestDrawFreedShaderDependency(t *testing.T) {
	c, b := newTestContext(t, true, true)

	// freed before the pipeline is applied
	r := makeQuad(t, c)
	c.FreeShader(r.shader)
	c.Begin(8, 8)
	expectPanic(t, core.ErrInvalidHandle, func() {
		c.ApplyPipeline(r.pipeline)
	})
	c.End()

	// freed while the pipeline is bound
	r = makeQuad(t, c)
	c.Begin(8, 8)
	c.ApplyPipeline(r.pipeline)
	c.FreeShader(r.shader)
	expectPanic(t, core.ErrInvalidHandle, func() {
		d := r.draw()
		c.Draw(&d)
	})
	c.End()

	if len(b.draws) != 0 {
		t.Fatalf("draws issued with a freed shader:\nhave %d\nwant 0", len(b.draws))
	}
}

func TestDrawFreedAttachmentDependency(t *testing.T) {
	c, b := newTestContext(t, true, true)
	makeTarget := func() (metadata.Texture2D, metadata.RenderTarget) {
		color, err := c.MakeTexture2D(&metadata.Texture2DDesc{Width: 16, Height: 16, Format: metadata.TexFormatRGBA8, RenderTarget: true})
		if err != nil {
			t.Fatal(err)
		}
		rt, err := c.MakeRenderTarget(&metadata.RenderTargetDesc{Color: [4]metadata.Texture2D{color}})
		if err != nil {
			t.Fatal(err)
		}
		return color, rt
	}

	color, rt := makeTarget()
	c.FreeTexture2D(color)
	c.Begin(8, 8)
	expectPanic(t, core.ErrInvalidHandle, func() {
		c.ApplyRenderTarget(rt)
	})
	c.End()

	color, rt = makeTarget()
	c.Begin(8, 8)
	c.ApplyRenderTarget(rt)
	c.FreeTexture2D(color)
	expectPanic(t, core.ErrInvalidHandle, func() {
		c.Clear(&metadata.ClearDesc{ClearColor: true})
	})
	c.End()

	if b.clears != 0 {
		t.Fatalf("clears issued on a target with a freed attachment:\nhave %d\nwant 0", b.clears)
	}
}

func TestDrawFreedShaderReturnsError(t *testing.T) {
	c, b := newTestContext(t, true, false)
	r := makeQuad(t, c)
	c.FreeShader(r.shader)

	c.Begin(8, 8)
	if err := c.ApplyPipeline(r.pipeline); !errors.Is(err, core.ErrInvalidHandle) {
		t.Fatalf("ApplyPipeline:\nhave %v\nwant %v", err, core.ErrInvalidHandle)
	}
	c.End()
	if b.count("bind pipeline") != 0 {
		t.Fatal("pipeline with a freed shader reached the backend")
	}
}

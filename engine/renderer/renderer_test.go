package renderer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

func rgba(w, h int, v byte) []byte {
	return bytes.Repeat([]byte{v}, w*h*4)
}

func TestNewContextWhiteTexture(t *testing.T) {
	c, b := newTestContext(t, true, true)
	if !IsValidHandle(c, c.WhiteTexture()) {
		t.Fatal("WhiteTexture: handle not valid after NewContext")
	}
	if have := c.LiveResources()[metadata.ResourceKindTexture2D]; have != 1 {
		t.Fatalf("LiveResources textures:\nhave %d\nwant 1", have)
	}
	c.Destroy()
	if b.live != 0 {
		t.Fatalf("Destroy left %d native objects alive", b.live)
	}
	if b.count("release backend") != 1 {
		t.Fatal("Destroy did not release the backend")
	}
}

func TestQueryCapabilitiesIdempotent(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	a := c.QueryCapabilities()
	b := c.QueryCapabilities()
	if a != b {
		t.Fatalf("QueryCapabilities:\nhave %+v\nwant %+v", b, a)
	}
}

func TestCreateFreeLeavesTable(t *testing.T) {
	c, b := newTestContext(t, true, true)
	before := c.LiveResources()
	liveBefore := b.live

	desc := metadata.Texture2DDesc{Pixels: rgba(4, 4, 0x80), Width: 4, Height: 4, Format: metadata.TexFormatRGBA8}
	h, err := c.MakeTexture2D(&desc)
	if err != nil {
		t.Fatalf("MakeTexture2D: %v", err)
	}
	c.FreeTexture2D(h)

	if have := c.LiveResources(); have != before {
		t.Fatalf("LiveResources after create+free:\nhave %v\nwant %v", have, before)
	}
	if b.live != liveBefore {
		t.Fatalf("native objects after create+free:\nhave %d\nwant %d", b.live, liveBefore)
	}

	h2, err := c.MakeTexture2D(&desc)
	if err != nil {
		t.Fatalf("MakeTexture2D: %v", err)
	}
	if IsSameHandle(h, h2) {
		t.Fatalf("reused slot produced the same handle %#x", h.ID)
	}
	if IsValidHandle(c, h) {
		t.Fatal("IsValidHandle: stale handle validated after its slot was reused")
	}
}

func TestIsValidHandle(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	if IsValidHandle(c, metadata.VertexBuffer{}) {
		t.Fatal("IsValidHandle: null handle reported valid")
	}
	vb, err := c.MakeVertexBuffer(&metadata.VertexBufferDesc{Size: 64, Dynamic: true})
	if err != nil {
		t.Fatalf("MakeVertexBuffer: %v", err)
	}
	if !IsValidHandle(c, vb) {
		t.Fatal("IsValidHandle: live handle reported invalid")
	}
	// same id, different kind
	if IsValidHandle(c, metadata.IndexBuffer{ID: vb.ID}) {
		t.Fatal("IsValidHandle: vertex buffer id validated as an index buffer")
	}
	c.FreeVertexBuffer(vb)
	if IsValidHandle(c, vb) {
		t.Fatal("IsValidHandle: freed handle reported valid")
	}
}

func TestSlotReuseDeferredUntilEnd(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	desc := metadata.UniformBufferDesc{Size: 16}

	if err := c.Begin(64, 64); err != nil {
		t.Fatal(err)
	}
	a, _ := c.MakeUniformBuffer(&desc)
	c.FreeUniformBuffer(a)
	b, _ := c.MakeUniformBuffer(&desc)
	ia, _, _ := metadata.SplitHandleID(a.ID)
	ib, _, _ := metadata.SplitHandleID(b.ID)
	if ia == ib {
		t.Fatalf("slot %d reused within the same frame", ia)
	}
	if err := c.End(); err != nil {
		t.Fatal(err)
	}

	d, _ := c.MakeUniformBuffer(&desc)
	id, _, _ := metadata.SplitHandleID(d.ID)
	if id != ia {
		t.Fatalf("slot after End:\nhave %d\nwant reused slot %d", id, ia)
	}
}

func TestMakeFailures(t *testing.T) {
	c, b := newTestContext(t, true, true)
	for _, x := range [...]struct {
		name string
		make func() error
		want error
	}{
		{"unsupported format", func() error {
			_, err := c.MakeTexture2D(&metadata.Texture2DDesc{Width: 2, Height: 2, Format: metadata.TexFormatA8})
			return err
		}, core.ErrUnsupportedFormat},
		{"too large", func() error {
			_, err := c.MakeTexture2D(&metadata.Texture2DDesc{Width: 8192, Height: 2, Format: metadata.TexFormatRGBA8})
			return err
		}, core.ErrLimitExceeded},
		{"short pixels", func() error {
			_, err := c.MakeTexture2D(&metadata.Texture2DDesc{Pixels: []byte{1, 2, 3}, Width: 2, Height: 2, Format: metadata.TexFormatRGBA8})
			return err
		}, core.ErrUpdateOutOfRange},
		{"zero buffer", func() error {
			_, err := c.MakeVertexBuffer(&metadata.VertexBufferDesc{})
			return err
		}, core.ErrLimitExceeded},
		{"immutable without data", func() error {
			_, err := c.MakeIndexBuffer(&metadata.IndexBufferDesc{Size: 12})
			return err
		}, core.ErrNotDynamic},
		{"missing glsl", func() error {
			_, err := c.MakeShader(&metadata.ShaderDesc{HLSL40: metadata.HLSLObject{VS: []byte{1}, PS: []byte{1}}})
			return err
		}, core.ErrMissingShaderSource},
		{"pipeline without shader", func() error {
			_, err := c.MakePipeline(&metadata.PipelineDesc{})
			return err
		}, core.ErrInvalidHandle},
		{"render target from plain texture", func() error {
			_, err := c.MakeRenderTarget(&metadata.RenderTargetDesc{Color: [4]metadata.Texture2D{c.WhiteTexture()}})
			return err
		}, core.ErrUnsupportedFormat},
	} {
		err := x.make()
		if !errors.Is(err, x.want) {
			t.Fatalf("%s:\nhave %v\nwant %v", x.name, err, x.want)
		}
	}

	b.failShaders = true
	h, err := c.MakeShader(&metadata.ShaderDesc{GLSL: metadata.GLSLSource{VS: "v", FS: "f"}})
	if !errors.Is(err, errFake) || !h.IsNull() {
		t.Fatalf("MakeShader with failing backend:\nhave %v, %v\nwant null handle, %v", h, err, errFake)
	}
}

func TestUpdateBuffer(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	vb, err := c.MakeVertexBuffer(&metadata.VertexBufferDesc{Size: 16, Dynamic: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateVertexBuffer(vb, 4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("UpdateVertexBuffer: %v", err)
	}
	vbuf, _ := c.vbuffers.lookup(vb.ID)
	have := vbuf.native.(*fakeObject).data
	want := []byte{0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(have, want) {
		t.Fatalf("buffer contents after subregion update:\nhave %v\nwant %v", have, want)
	}

	expectPanic(t, core.ErrUpdateOutOfRange, func() {
		c.UpdateVertexBuffer(vb, 14, []byte{1, 2, 3})
	})

	ib, _ := c.MakeIndexBuffer(&metadata.IndexBufferDesc{Size: 12, InitialData: make([]byte, 12)})
	expectPanic(t, core.ErrNotDynamic, func() {
		c.UpdateIndexBuffer(ib, 0, []byte{1, 2})
	})
}

func TestUpdateBufferRelease(t *testing.T) {
	c, _ := newTestContext(t, true, false)
	vb, _ := c.MakeVertexBuffer(&metadata.VertexBufferDesc{Size: 8, Dynamic: true})
	err := c.UpdateVertexBuffer(vb, 0, make([]byte, 9))
	if !errors.Is(err, core.ErrUpdateOutOfRange) {
		t.Fatalf("UpdateVertexBuffer past the end without debug:\nhave %v\nwant %v", err, core.ErrUpdateOutOfRange)
	}
	if !IsMisuse(err) {
		t.Fatal("IsMisuse: out of range update not classified as misuse")
	}
}

func TestUpdateTexture2D(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	tex, err := c.MakeTexture2D(&metadata.Texture2DDesc{Width: 2, Height: 2, Format: metadata.TexFormatRGBA8, Dynamic: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateTexture2D(tex, metadata.Texture2DUpdate{X: 1, Y: 1, Width: 1, Height: 1, Pixels: []byte{9, 9, 9, 9}}); err != nil {
		t.Fatalf("UpdateTexture2D: %v", err)
	}
	tt, _ := c.textures.lookup(tex.ID)
	data := tt.native.(*fakeTexture).data
	if !bytes.Equal(data[12:16], []byte{9, 9, 9, 9}) || !bytes.Equal(data[:12], make([]byte, 12)) {
		t.Fatalf("texture contents after subregion update:\nhave %v", data)
	}
	expectPanic(t, core.ErrUpdateOutOfRange, func() {
		c.UpdateTexture2D(tex, metadata.Texture2DUpdate{X: 1, Width: 2, Height: 1, Pixels: make([]byte, 8)})
	})
	expectPanic(t, core.ErrNotDynamic, func() {
		c.UpdateTexture2D(c.WhiteTexture(), metadata.Texture2DUpdate{})
	})
}

func TestDoubleFreePanicsInDebug(t *testing.T) {
	c, _ := newTestContext(t, true, true)
	tex, err := c.MakeTexture2D(&metadata.Texture2DDesc{Pixels: rgba(2, 2, 0xff), Width: 2, Height: 2, Format: metadata.TexFormatRGBA8})
	if err != nil {
		t.Fatal(err)
	}
	c.FreeTexture2D(tex)
	expectPanic(t, core.ErrInvalidHandle, func() {
		c.FreeTexture2D(tex)
	})
	expectPanic(t, core.ErrInvalidHandle, func() {
		c.FreePipeline(metadata.Pipeline{})
	})
}

func TestDoubleFreeReleaseIsIgnored(t *testing.T) {
	c, b := newTestContext(t, true, false)
	vb, _ := c.MakeVertexBuffer(&metadata.VertexBufferDesc{Size: 8, Dynamic: true})
	if err := c.FreeVertexBuffer(vb); err != nil {
		t.Fatalf("first free: %v", err)
	}
	if err := c.FreeVertexBuffer(vb); !errors.Is(err, core.ErrInvalidHandle) {
		t.Fatalf("second free:\nhave %v\nwant %v", err, core.ErrInvalidHandle)
	}
	if have := b.count("release vertex buffer"); have != 1 {
		t.Fatalf("native releases after double free:\nhave %d\nwant 1", have)
	}
}

package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

var errFake = errors.New("fake backend failure")

// fakeBackend records every call instead of touching a GPU.
type fakeBackend struct {
	caps    metadata.Capabilities
	calls   []string
	live    int
	draws   []driver.DrawCall
	clears  int
	present bool

	failShaders bool
}

type fakeObject struct {
	b        *fakeBackend
	kind     string
	data     []byte
	width    int
	released bool
}

func (o *fakeObject) Release() {
	if o.released {
		panic(fmt.Sprintf("fake %s released twice", o.kind))
	}
	o.released = true
	o.b.live--
	o.b.calls = append(o.b.calls, "release "+o.kind)
}

func (o *fakeObject) Upload(offset int, data []byte) error {
	copy(o.data[offset:], data)
	o.b.calls = append(o.b.calls, "upload "+o.kind)
	return nil
}

type fakeTexture struct{ fakeObject }

func (t *fakeTexture) Upload(x, y, width, height int, pixels []byte) error {
	const bpp = 4
	for row := 0; row < height; row++ {
		dst := ((y+row)*t.width + x) * bpp
		copy(t.data[dst:dst+width*bpp], pixels[row*width*bpp:])
	}
	t.b.calls = append(t.b.calls, "upload texture")
	return nil
}

func newFakeBackend(instancing bool) *fakeBackend {
	caps := metadata.Capabilities{
		BackendAPI:              metadata.BackendAPIOpenGL,
		DriverRenderer:          "fake",
		ShaderDialect:           metadata.ShaderDialectGLSL,
		MaxTextureSize:          4096,
		MaxRenderTargetTextures: 4,
		MaxTexturesPerDrawCall:  8,
		SupportedTextureFormats: metadata.FormatSet(metadata.TexFormatRGBA8, metadata.TexFormatR8, metadata.TexFormatD24S8),
		HasInstancing:           instancing,
		Has32BitIndex:           instancing,
		HasSeparateAlphaBlend:   true,
	}
	if !instancing {
		caps.BackendAPI = metadata.BackendAPIDirect3D11
		caps.ShaderDialect = metadata.ShaderDialectHLSL40Level91
	}
	return &fakeBackend{caps: caps, present: true}
}

func (b *fakeBackend) object(kind string, size int) *fakeObject {
	b.live++
	b.calls = append(b.calls, "new "+kind)
	return &fakeObject{b: b, kind: kind, data: make([]byte, size)}
}

func (b *fakeBackend) Capabilities() metadata.Capabilities { return b.caps }

func (b *fakeBackend) NewTexture2D(desc *metadata.Texture2DDesc) (driver.Texture, error) {
	t := &fakeTexture{*b.object("texture", desc.Width*desc.Height*4)}
	t.width = desc.Width
	copy(t.data, desc.Pixels)
	return t, nil
}

func (b *fakeBackend) NewBuffer(desc *metadata.BufferDesc) (driver.Buffer, error) {
	o := b.object(desc.Kind.String()+" buffer", desc.Size)
	copy(o.data, desc.InitialData)
	return o, nil
}

func (b *fakeBackend) NewShader(desc *metadata.ShaderDesc) (driver.Shader, error) {
	if b.failShaders {
		return nil, errFake
	}
	return b.object("shader", 0), nil
}

func (b *fakeBackend) NewPipeline(desc *metadata.PipelineDesc, s driver.Shader) (driver.Pipeline, error) {
	return b.object("pipeline", 0), nil
}

func (b *fakeBackend) NewRenderTarget(color []driver.Texture, depth driver.Texture) (driver.RenderTarget, error) {
	return b.object("target", 0), nil
}

func (b *fakeBackend) BeginFrame(width, height int) {
	b.calls = append(b.calls, fmt.Sprintf("begin %dx%d", width, height))
}

func (b *fakeBackend) BindPipeline(p driver.Pipeline) {
	b.calls = append(b.calls, "bind pipeline")
}

func (b *fakeBackend) BindRenderTarget(rt driver.RenderTarget) {
	if rt == nil {
		b.calls = append(b.calls, "bind backbuffer")
		return
	}
	b.calls = append(b.calls, "bind target")
}

func (b *fakeBackend) Clear(desc *metadata.ClearDesc) {
	b.clears++
	b.calls = append(b.calls, "clear")
}

func (b *fakeBackend) Draw(call *driver.DrawCall) {
	b.draws = append(b.draws, *call)
	b.calls = append(b.calls, "draw")
}

func (b *fakeBackend) EndFrame() {
	b.calls = append(b.calls, "end")
}

func (b *fakeBackend) Present(vsync int) bool {
	b.calls = append(b.calls, "present")
	return b.present
}

func (b *fakeBackend) Release() {
	b.calls = append(b.calls, "release backend")
}

func (b *fakeBackend) count(call string) int {
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func newTestContext(t *testing.T, instancing, debug bool) (*Context, *fakeBackend) {
	t.Helper()
	b := newFakeBackend(instancing)
	c, err := NewContext(b, Options{Debug: debug, VSync: 1})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return c, b
}

// expectPanic runs fn and fails unless it panics with an error matching target.
func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("panic value:\nhave %v\nwant an error wrapping %v", r, target)
		}
	}()
	fn()
}

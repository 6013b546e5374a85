package batch

import (
	"testing"

	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// recorder is a driver backend that keeps buffer contents and draw calls.
type recorder struct {
	caps  metadata.Capabilities
	live  int
	draws []driver.DrawCall
}

type memory struct {
	r    *recorder
	data []byte
}

func (m *memory) Upload(offset int, data []byte) error {
	copy(m.data[offset:], data)
	return nil
}

func (m *memory) Release() { m.r.live-- }

type image struct{ r *recorder }

func (i *image) Upload(x, y, width, height int, pixels []byte) error { return nil }
func (i *image) Release()                                            { i.r.live-- }

type object struct{ r *recorder }

func (o *object) Release() { o.r.live-- }

func (r *recorder) Capabilities() metadata.Capabilities { return r.caps }

func (r *recorder) NewTexture2D(desc *metadata.Texture2DDesc) (driver.Texture, error) {
	r.live++
	return &image{r}, nil
}

func (r *recorder) NewBuffer(desc *metadata.BufferDesc) (driver.Buffer, error) {
	r.live++
	m := &memory{r: r, data: make([]byte, desc.Size)}
	copy(m.data, desc.InitialData)
	return m, nil
}

func (r *recorder) NewShader(desc *metadata.ShaderDesc) (driver.Shader, error) {
	r.live++
	return &object{r}, nil
}

func (r *recorder) NewPipeline(desc *metadata.PipelineDesc, s driver.Shader) (driver.Pipeline, error) {
	r.live++
	return &object{r}, nil
}

func (r *recorder) NewRenderTarget(color []driver.Texture, depth driver.Texture) (driver.RenderTarget, error) {
	r.live++
	return &object{r}, nil
}

func (r *recorder) BeginFrame(width, height int)            {}
func (r *recorder) BindPipeline(p driver.Pipeline)          {}
func (r *recorder) BindRenderTarget(rt driver.RenderTarget) {}
func (r *recorder) Clear(desc *metadata.ClearDesc)          {}
func (r *recorder) Draw(call *driver.DrawCall)              { r.draws = append(r.draws, *call) }
func (r *recorder) EndFrame()                               {}
func (r *recorder) Present(vsync int) bool                  { return true }
func (r *recorder) Release()                                {}

var testConfig = Config{
	HLSL40:        metadata.HLSLObject{VS: []byte{1}, PS: []byte{2}},
	HLSL40Level91: metadata.HLSLObject{VS: []byte{3}, PS: []byte{4}},
}

func newTestRenderer(t *testing.T, instancing bool) (*Renderer, *renderer.Context, *recorder) {
	t.Helper()
	rec := &recorder{caps: metadata.Capabilities{
		BackendAPI:              metadata.BackendAPIOpenGL,
		ShaderDialect:           metadata.ShaderDialectGLSL,
		MaxTextureSize:          4096,
		MaxTexturesPerDrawCall:  8,
		SupportedTextureFormats: metadata.FormatSet(metadata.TexFormatRGBA8),
		HasInstancing:           instancing,
	}}
	if !instancing {
		rec.caps.BackendAPI = metadata.BackendAPIDirect3D11
		rec.caps.ShaderDialect = metadata.ShaderDialectHLSL40Level91
	}
	ctx, err := renderer.NewContext(rec, renderer.Options{Debug: true})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	r, err := New(ctx, testConfig)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, ctx, rec
}

// vertexData returns the contents of the vertex buffer bound by a draw.
func vertexData(t *testing.T, call driver.DrawCall) []byte {
	t.Helper()
	m, ok := call.VertexBuffers[0].Buffer.(*memory)
	if !ok {
		t.Fatal("draw without a vertex buffer in slot 0")
	}
	return m.data
}

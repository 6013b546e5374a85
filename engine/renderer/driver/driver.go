// Package driver declares the seam between the backend-neutral renderer
// context and a native graphics API. The context owns handle validation and
// resolves handles into these objects before calling a Backend, so
// backends never see stale or null handles except where documented.
package driver

import "github.com/spaghettifunk/anima-rb/engine/renderer/metadata"

// Backend is one native API realization: resource creation, draw state,
// and presentation.
type Backend interface {
	// Capabilities is computed once at creation and must not change.
	Capabilities() metadata.Capabilities

	NewTexture2D(desc *metadata.Texture2DDesc) (Texture, error)
	NewBuffer(desc *metadata.BufferDesc) (Buffer, error)
	NewShader(desc *metadata.ShaderDesc) (Shader, error)
	NewPipeline(desc *metadata.PipelineDesc, shader Shader) (Pipeline, error)
	NewRenderTarget(color []Texture, depthStencil Texture) (RenderTarget, error)

	BeginFrame(width, height int)
	BindPipeline(p Pipeline)
	// BindRenderTarget redirects output to rt. A nil rt selects the backbuffer.
	BindRenderTarget(rt RenderTarget)
	Clear(desc *metadata.ClearDesc)
	Draw(call *DrawCall)
	EndFrame()

	// Present shows the backbuffer. false means the frame was not shown
	// (occluded window) and is not an error.
	Present(vsync int) bool

	Release()
}

type Texture interface {
	Upload(x, y, width, height int, pixels []byte) error
	Release()
}

type Buffer interface {
	Upload(offset int, data []byte) error
	Release()
}

type Shader interface {
	Release()
}

type Pipeline interface {
	Release()
}

type RenderTarget interface {
	Release()
}

// VertexBinding is one vertex buffer slot of a draw.
type VertexBinding struct {
	Buffer Buffer
	Stride int
	Offset int
}

// DrawCall is a DrawDesc with every handle resolved. Nil entries are unbound slots.
type DrawCall struct {
	IndexBuffer   Buffer
	IndexType     metadata.IndexType
	UniformBuffer Buffer
	Textures      [metadata.DrawMaxTextures]Texture
	VertexBuffers [metadata.DrawMaxVertexBuffers]VertexBinding
	BaseIndex     int
	IndexCount    int
	InstanceCount int
}

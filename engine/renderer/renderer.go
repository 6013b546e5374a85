package renderer

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// Options configures a Context and the backend selection that precedes it.
type Options struct {
	// Backend selects the native API. BackendAPINull picks one from the surface.
	Backend metadata.BackendAPI
	// Debug turns API misuse into panics and enables native debug layers.
	Debug bool
	// VSync is the swap interval passed to every Present.
	VSync int
	// ForceFeatureLevel91 restricts a Direct3D 11 device to feature level 9.1.
	ForceFeatureLevel91 bool
}

type texture struct {
	native driver.Texture
	desc   metadata.Texture2DDesc
}

type buffer struct {
	native    driver.Buffer
	kind      metadata.BufferKind
	size      int
	dynamic   bool
	indexType metadata.IndexType
}

type shader struct {
	native driver.Shader
}

// pipeline keeps the shader it was linked with; the pipeline is unusable
// once that shader is freed.
type pipeline struct {
	native driver.Pipeline
	shader metadata.Shader
}

type renderTarget struct {
	native      driver.RenderTarget
	attachments []metadata.Texture2D
}

// Context owns one backend and every resource created through it. It is not
// safe for concurrent use; all calls belong on the thread that owns the
// graphics surface.
type Context struct {
	id      uuid.UUID
	backend driver.Backend
	caps    metadata.Capabilities
	opts    Options
	log     *log.Logger

	textures  table[*texture]
	vbuffers  table[*buffer]
	ibuffers  table[*buffer]
	ubuffers  table[*buffer]
	shaders   table[*shader]
	pipelines table[*pipeline]
	targets   table[*renderTarget]

	white metadata.Texture2D

	inFrame       bool
	width, height int
	boundPipeline metadata.Pipeline
	boundTarget   metadata.RenderTarget
}

var whitePixels = []byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// NewContext takes ownership of a fully initialized backend. On error the
// backend has been released.
func NewContext(backend driver.Backend, opts Options) (*Context, error) {
	c := &Context{
		id:      uuid.New(),
		backend: backend,
		caps:    backend.Capabilities(),
		opts:    opts,
	}
	c.log = core.Logger("ctx", c.id.String()[:8], "backend", c.caps.BackendAPI.String())

	c.log.Infof("backend: %s", c.caps.BackendAPI)
	c.log.Infof("driver renderer: %s", c.caps.DriverRenderer)
	c.log.Infof("driver vendor: %s", c.caps.DriverVendor)
	c.log.Infof("driver version: %s", c.caps.DriverVersion)
	c.log.Infof("shader dialect: %s, instancing: %t, max texture size: %d", c.caps.ShaderDialect, c.caps.HasInstancing, c.caps.MaxTextureSize)

	white, err := c.MakeTexture2D(&metadata.Texture2DDesc{
		Pixels: whitePixels,
		Width:  2,
		Height: 2,
		Format: metadata.TexFormatRGBA8,
	})
	if err != nil {
		backend.Release()
		return nil, fmt.Errorf("failed to create default white texture: %w", err)
	}
	c.white = white
	return c, nil
}

func (c *Context) ID() uuid.UUID {
	return c.id
}

// QueryCapabilities returns the record computed at creation. Repeated calls
// return identical values.
func (c *Context) QueryCapabilities() metadata.Capabilities {
	return c.caps
}

// WhiteTexture is the 2x2 white texture bound in place of null texture slots.
func (c *Context) WhiteTexture() metadata.Texture2D {
	return c.white
}

// LiveResources counts the live handles of every kind, including the white texture.
func (c *Context) LiveResources() [metadata.ResourceKindCount]int {
	var n [metadata.ResourceKindCount]int
	n[metadata.ResourceKindTexture2D] = c.textures.len()
	n[metadata.ResourceKindVertexBuffer] = c.vbuffers.len()
	n[metadata.ResourceKindIndexBuffer] = c.ibuffers.len()
	n[metadata.ResourceKindUniformBuffer] = c.ubuffers.len()
	n[metadata.ResourceKindShader] = c.shaders.len()
	n[metadata.ResourceKindPipeline] = c.pipelines.len()
	n[metadata.ResourceKindRenderTarget] = c.targets.len()
	return n
}

// Destroy releases every live resource and then the backend. The context
// must not be used afterwards.
func (c *Context) Destroy() {
	if c.backend == nil {
		return
	}
	if c.inFrame {
		c.backend.EndFrame()
		c.inFrame = false
	}
	for _, id := range c.pipelines.ids() {
		p, _ := c.pipelines.remove(id)
		p.native.Release()
	}
	for _, id := range c.targets.ids() {
		rt, _ := c.targets.remove(id)
		rt.native.Release()
	}
	for _, id := range c.shaders.ids() {
		s, _ := c.shaders.remove(id)
		s.native.Release()
	}
	for _, t := range []*table[*buffer]{&c.vbuffers, &c.ibuffers, &c.ubuffers} {
		for _, id := range t.ids() {
			b, _ := t.remove(id)
			b.native.Release()
		}
	}
	for _, id := range c.textures.ids() {
		tex, _ := c.textures.remove(id)
		tex.native.Release()
	}
	c.backend.Release()
	c.backend = nil
	c.log.Info("context destroyed")
}

// Present shows the frame with the configured swap interval. A false result
// (occluded window) is not fatal; callers may skip frame accounting.
func (c *Context) Present() bool {
	if c.inFrame {
		c.misuse(fmt.Errorf("Present called between Begin and End: %w", core.ErrNotInFrame))
		return false
	}
	return c.backend.Present(c.opts.VSync)
}

// IsValidHandle reports whether h was issued by c and not yet freed. The null
// handle is never valid.
func IsValidHandle[H metadata.Handle](c *Context, h H) bool {
	return c.valid(metadata.KindOf(h), metadata.HandleID(h))
}

// IsSameHandle reports whether a and b name the same resource.
func IsSameHandle[H metadata.Handle](a, b H) bool {
	return metadata.HandleID(a) == metadata.HandleID(b)
}

func (c *Context) valid(kind metadata.ResourceKind, id uint32) bool {
	switch kind {
	case metadata.ResourceKindTexture2D:
		return c.textures.contains(id)
	case metadata.ResourceKindVertexBuffer:
		return c.vbuffers.contains(id)
	case metadata.ResourceKindIndexBuffer:
		return c.ibuffers.contains(id)
	case metadata.ResourceKindUniformBuffer:
		return c.ubuffers.contains(id)
	case metadata.ResourceKindShader:
		return c.shaders.contains(id)
	case metadata.ResourceKindPipeline:
		return c.pipelines.contains(id)
	case metadata.ResourceKindRenderTarget:
		return c.targets.contains(id)
	}
	return false
}

// misuse reports a caller bug. In debug mode it is a fatal assertion.
func (c *Context) misuse(err error) error {
	c.log.Error(err.Error())
	if c.opts.Debug {
		panic(err)
	}
	return err
}

// fail reports a construction failure. These are never fatal.
func (c *Context) fail(err error) error {
	c.log.Error(err.Error())
	return err
}

func (c *Context) invalidHandle(op string, kind metadata.ResourceKind, id uint32) error {
	return c.misuse(fmt.Errorf("%s: %s %#x: %w", op, kind, id, core.ErrInvalidHandle))
}

// recycle returns freed slots to the tables once it is safe to reuse them.
func (c *Context) recycle() {
	if c.inFrame {
		return
	}
	c.textures.recycle()
	c.vbuffers.recycle()
	c.ibuffers.recycle()
	c.ubuffers.recycle()
	c.shaders.recycle()
	c.pipelines.recycle()
	c.targets.recycle()
}

// IsMisuse reports whether err came from a caller bug rather than a
// construction failure.
func IsMisuse(err error) bool {
	return errors.Is(err, core.ErrInvalidHandle) ||
		errors.Is(err, core.ErrUpdateOutOfRange) ||
		errors.Is(err, core.ErrNotDynamic) ||
		errors.Is(err, core.ErrNotInFrame)
}

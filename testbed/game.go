package testbed

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	stdmath "math"

	"github.com/spaghettifunk/anima-rb/engine"
	"github.com/spaghettifunk/anima-rb/engine/assets"
	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/math"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/batch"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

const fontFile = "fonts/ubuntu-mono-21.fnt"

type TestGame struct {
	*engine.Game
}

type gameState struct {
	shaderDir string
	fontPath  string

	// a single white quad drawn with raw commands
	shader   metadata.Shader
	pipeline metadata.Pipeline
	vbuffer  metadata.VertexBuffer
	ibuffer  metadata.IndexBuffer

	quads  *batch.Renderer
	font   *batch.Font
	batch  batch.Batch
	camera *math.Camera2D

	time   float64
	width  int
	height int
}

func NewTestGame(cfg *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State: &gameState{
				shaderDir: filepath.Join(cfg.AssetsDir, "shaders"),
				fontPath:  filepath.Join(cfg.AssetsDir, fontFile),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown
	tg.FnShaderChanged = tg.ShaderChanged

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(ctx *renderer.Context) error {
	core.LogInfo("initializing testbed...")
	s := g.state()

	if err := s.makePassthrough(ctx); err != nil {
		return err
	}

	var vertices []byte
	for _, v := range []float32{
		-0.5, -0.5, 0, 1,
		0.5, -0.5, 1, 1,
		-0.5, 0.5, 0, 0,
		0.5, 0.5, 1, 0,
	} {
		vertices = binary.LittleEndian.AppendUint32(vertices, stdmath.Float32bits(v))
	}
	var indices []byte
	for _, i := range []uint16{0, 1, 2, 2, 1, 3} {
		indices = binary.LittleEndian.AppendUint16(indices, i)
	}
	if err := ctx.ExecuteResourceCommands([]renderer.ResourceCommand{
		renderer.MakeVertexBufferCmd{Handle: &s.vbuffer, Desc: metadata.VertexBufferDesc{Size: len(vertices), InitialData: vertices}},
		renderer.MakeIndexBufferCmd{Handle: &s.ibuffer, Desc: metadata.IndexBufferDesc{Size: len(indices), InitialData: indices}},
	}); err != nil {
		return err
	}

	quads, err := s.newQuadRenderer(ctx)
	if err != nil {
		return err
	}
	s.quads = quads

	face, err := assets.LoadBitmapFont(s.fontPath)
	if err != nil {
		core.LogWarn("text disabled: %s", err)
	} else if s.font, err = batch.NewFont(ctx, face); err != nil {
		core.LogWarn("text disabled: %s", err)
	}
	return nil
}

// makePassthrough builds the shader and pipeline of the white quad in one
// command list; the pipeline command reads the shader handle made before it.
func (s *gameState) makePassthrough(ctx *renderer.Context) error {
	desc, err := assets.LoadShaderSet(s.shaderDir, "passthrough")
	if err != nil {
		return err
	}
	pipeline := metadata.PipelineDesc{}
	pipeline.InputLayout[0] = metadata.LayoutDesc{Offset: 0, Format: metadata.LayoutFormatVec2}
	pipeline.InputLayout[1] = metadata.LayoutDesc{Offset: 8, Format: metadata.LayoutFormatVec2}
	return ctx.ExecuteResourceCommands([]renderer.ResourceCommand{
		renderer.MakeShaderCmd{Handle: &s.shader, Desc: *desc},
		renderer.MakePipelineCmd{Handle: &s.pipeline, Shader: &s.shader, Desc: pipeline},
	})
}

func (s *gameState) freePassthrough(ctx *renderer.Context) error {
	var cmds []renderer.ResourceCommand
	if !s.pipeline.IsNull() {
		cmds = append(cmds, renderer.FreePipelineCmd{Handle: &s.pipeline})
	}
	if !s.shader.IsNull() {
		cmds = append(cmds, renderer.FreeShaderCmd{Handle: &s.shader})
	}
	return ctx.ExecuteResourceCommands(cmds)
}

// newQuadRenderer uses whatever HLSL object code exists; OpenGL needs none.
func (s *gameState) newQuadRenderer(ctx *renderer.Context) (*batch.Renderer, error) {
	var cfg batch.Config
	if desc, err := assets.LoadShaderSet(s.shaderDir, "quad"); err == nil {
		cfg.HLSL40 = desc.HLSL40
		cfg.HLSL40Level91 = desc.HLSL40Level91
	}
	return batch.New(ctx, cfg)
}

func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	s.time += deltaTime
	t := float32(s.time)

	s.batch.Reset()
	for i := 0; i < 12; i++ {
		angle := t + float32(i)*math.K_PI/6
		center := math.NewVec2(float32(s.width)/2, float32(s.height)/2)
		offset := math.NewVec2(float32(stdmath.Cos(float64(angle))), float32(stdmath.Sin(float64(angle)))).MulScalar(200)
		s.batch.PushRect(batch.Rect{
			Pos:       center.Add(offset),
			Scaling:   math.NewMat2Scale(40, 40).Rotate(angle),
			Texcoords: batch.FullTexcoords,
			Color:     math.NewVec4(float32(i)/12, 0.4, 1-float32(i)/12, 1),
		})
	}
	s.batch.PushRect(batch.Rect{
		Pos:       math.NewVec2(20, 20),
		Scaling:   math.NewMat2Scale(160, 60),
		TexKind:   batch.TexKindRoundedRect,
		Texcoords: batch.FullTexcoords,
		Color:     math.NewVec4(0.2, 0.2, 0.25, 0.9),
	})
	if s.font != nil {
		s.batch.PushText(s.font, "anima-rb\nquad batcher", math.NewVec2(30, 25), math.NewVec2One(), math.NewVec4One())
	}
	return nil
}

func (g *TestGame) Render(ctx *renderer.Context, deltaTime float64) ([]renderer.DrawCommand, error) {
	s := g.state()
	cmds := []renderer.DrawCommand{
		renderer.ClearCmd{Desc: metadata.ClearDesc{Color: [4]float32{0, 0, 0, 1}, ClearColor: true, ClearDepth: true}},
	}
	if !s.pipeline.IsNull() {
		quad := &metadata.DrawDesc{
			IndexBuffer: s.ibuffer,
			IndexCount:  6,
		}
		// a null texture slot samples the white texture
		quad.VertexBuffers[0] = s.vbuffer
		quad.Strides[0] = 16
		cmds = append(cmds,
			renderer.ApplyPipelineCmd{Pipeline: &s.pipeline},
			renderer.DrawCallCmd{Desc: quad},
		)
	}
	cmds = append(cmds, s.quads.DrawCmd(&s.batch, s.camera))
	return cmds, nil
}

func (g *TestGame) OnResize(width, height int) error {
	s := g.state()
	s.width, s.height = width, height
	s.camera = math.NewCamera2D(width, height)
	return nil
}

// ShaderChanged rebuilds the shader set a changed file belongs to. HLSL
// sources only matter once recompiled to .cso files.
func (g *TestGame) ShaderChanged(ctx *renderer.Context, path string) error {
	s := g.state()
	if filepath.Ext(path) == ".hlsl" {
		core.LogInfo("%s changed, run `mage build:shaders` to recompile", filepath.Base(path))
		return nil
	}
	switch shaderSetName(path) {
	case "passthrough":
		if err := s.freePassthrough(ctx); err != nil {
			return err
		}
		return s.makePassthrough(ctx)
	case "quad":
		// a broken rebuild keeps the previous renderer drawing
		quads, err := s.newQuadRenderer(ctx)
		if err != nil {
			return err
		}
		s.quads.Release()
		s.quads = quads
	}
	return nil
}

// shaderSetName strips the dialect suffixes LoadShaderSet adds to a name.
func shaderSetName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimSuffix(name, "_vs")
	name = strings.TrimSuffix(name, "_ps")
	return strings.TrimSuffix(name, "_91")
}

func (g *TestGame) Shutdown(ctx *renderer.Context) error {
	core.LogInfo("shutting down testbed...")
	s := g.state()
	if s.font != nil {
		s.font.Release(ctx)
	}
	s.quads.Release()
	if err := s.freePassthrough(ctx); err != nil {
		return err
	}
	return ctx.ExecuteResourceCommands([]renderer.ResourceCommand{
		renderer.FreeVertexBufferCmd{Handle: &s.vbuffer},
		renderer.FreeIndexBufferCmd{Handle: &s.ibuffer},
	})
}

package renderer

import (
	"errors"

	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// ResourceCommand is one deferred create, update or free request. Commands
// address handles through pointers that are read or written when the command
// runs, so a command can use a handle made by an earlier command of the same
// list.
type ResourceCommand interface {
	executeResource(c *Context) error
}

type MakeTexture2DCmd struct {
	Handle *metadata.Texture2D
	Desc   metadata.Texture2DDesc
}

type MakeVertexBufferCmd struct {
	Handle *metadata.VertexBuffer
	Desc   metadata.VertexBufferDesc
}

type MakeIndexBufferCmd struct {
	Handle *metadata.IndexBuffer
	Desc   metadata.IndexBufferDesc
}

type MakeUniformBufferCmd struct {
	Handle *metadata.UniformBuffer
	Desc   metadata.UniformBufferDesc
}

type MakeShaderCmd struct {
	Handle *metadata.Shader
	Desc   metadata.ShaderDesc
}

// MakePipelineCmd takes its shader from Shader when set, overriding Desc.Shader.
type MakePipelineCmd struct {
	Handle *metadata.Pipeline
	Shader *metadata.Shader
	Desc   metadata.PipelineDesc
}

// MakeRenderTargetCmd reads its attachments when it runs. Nil entries are unused.
type MakeRenderTargetCmd struct {
	Handle       *metadata.RenderTarget
	Color        [metadata.RenderTargetMaxColorAttachments]*metadata.Texture2D
	DepthStencil *metadata.Texture2D
}

type UpdateVertexBufferCmd struct {
	Handle *metadata.VertexBuffer
	Offset int
	Data   []byte
}

type UpdateIndexBufferCmd struct {
	Handle *metadata.IndexBuffer
	Offset int
	Data   []byte
}

type UpdateUniformBufferCmd struct {
	Handle *metadata.UniformBuffer
	Offset int
	Data   []byte
}

type UpdateTexture2DCmd struct {
	Handle *metadata.Texture2D
	Update metadata.Texture2DUpdate
}

// Free commands reset the pointed-to handle to null after releasing it,
// also when the free is rejected.
type FreeTexture2DCmd struct{ Handle *metadata.Texture2D }
type FreeVertexBufferCmd struct{ Handle *metadata.VertexBuffer }
type FreeIndexBufferCmd struct{ Handle *metadata.IndexBuffer }
type FreeUniformBufferCmd struct{ Handle *metadata.UniformBuffer }
type FreeShaderCmd struct{ Handle *metadata.Shader }
type FreePipelineCmd struct{ Handle *metadata.Pipeline }
type FreeRenderTargetCmd struct{ Handle *metadata.RenderTarget }

func (cmd MakeTexture2DCmd) executeResource(c *Context) error {
	h, err := c.MakeTexture2D(&cmd.Desc)
	*cmd.Handle = h
	return err
}

func (cmd MakeVertexBufferCmd) executeResource(c *Context) error {
	h, err := c.MakeVertexBuffer(&cmd.Desc)
	*cmd.Handle = h
	return err
}

func (cmd MakeIndexBufferCmd) executeResource(c *Context) error {
	h, err := c.MakeIndexBuffer(&cmd.Desc)
	*cmd.Handle = h
	return err
}

func (cmd MakeUniformBufferCmd) executeResource(c *Context) error {
	h, err := c.MakeUniformBuffer(&cmd.Desc)
	*cmd.Handle = h
	return err
}

func (cmd MakeShaderCmd) executeResource(c *Context) error {
	h, err := c.MakeShader(&cmd.Desc)
	*cmd.Handle = h
	return err
}

func (cmd MakePipelineCmd) executeResource(c *Context) error {
	desc := cmd.Desc
	if cmd.Shader != nil {
		desc.Shader = *cmd.Shader
	}
	h, err := c.MakePipeline(&desc)
	*cmd.Handle = h
	return err
}

func (cmd MakeRenderTargetCmd) executeResource(c *Context) error {
	var desc metadata.RenderTargetDesc
	for i, p := range cmd.Color {
		if p != nil {
			desc.Color[i] = *p
		}
	}
	if cmd.DepthStencil != nil {
		desc.DepthStencil = *cmd.DepthStencil
	}
	h, err := c.MakeRenderTarget(&desc)
	*cmd.Handle = h
	return err
}

func (cmd UpdateVertexBufferCmd) executeResource(c *Context) error {
	return c.UpdateVertexBuffer(*cmd.Handle, cmd.Offset, cmd.Data)
}

func (cmd UpdateIndexBufferCmd) executeResource(c *Context) error {
	return c.UpdateIndexBuffer(*cmd.Handle, cmd.Offset, cmd.Data)
}

func (cmd UpdateUniformBufferCmd) executeResource(c *Context) error {
	return c.UpdateUniformBuffer(*cmd.Handle, cmd.Offset, cmd.Data)
}

func (cmd UpdateTexture2DCmd) executeResource(c *Context) error {
	return c.UpdateTexture2D(*cmd.Handle, cmd.Update)
}

func (cmd FreeTexture2DCmd) executeResource(c *Context) error {
	err := c.FreeTexture2D(*cmd.Handle)
	*cmd.Handle = metadata.Texture2D{}
	return err
}

func (cmd FreeVertexBufferCmd) executeResource(c *Context) error {
	err := c.FreeVertexBuffer(*cmd.Handle)
	*cmd.Handle = metadata.VertexBuffer{}
	return err
}

func (cmd FreeIndexBufferCmd) executeResource(c *Context) error {
	err := c.FreeIndexBuffer(*cmd.Handle)
	*cmd.Handle = metadata.IndexBuffer{}
	return err
}

func (cmd FreeUniformBufferCmd) executeResource(c *Context) error {
	err := c.FreeUniformBuffer(*cmd.Handle)
	*cmd.Handle = metadata.UniformBuffer{}
	return err
}

func (cmd FreeShaderCmd) executeResource(c *Context) error {
	err := c.FreeShader(*cmd.Handle)
	*cmd.Handle = metadata.Shader{}
	return err
}

func (cmd FreePipelineCmd) executeResource(c *Context) error {
	err := c.FreePipeline(*cmd.Handle)
	*cmd.Handle = metadata.Pipeline{}
	return err
}

func (cmd FreeRenderTargetCmd) executeResource(c *Context) error {
	err := c.FreeRenderTarget(*cmd.Handle)
	*cmd.Handle = metadata.RenderTarget{}
	return err
}

// ExecuteResourceCommands runs cmds in order. A failing command does not stop
// the ones after it; the individual failures are joined in the result.
func (c *Context) ExecuteResourceCommands(cmds []ResourceCommand) error {
	var errs []error
	for _, cmd := range cmds {
		if err := cmd.executeResource(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DrawCommand is one deferred per-frame operation.
type DrawCommand interface {
	executeDraw(c *Context) error
}

type ClearCmd struct {
	Desc metadata.ClearDesc
}

type SetRenderTargetCmd struct {
	Target *metadata.RenderTarget
}

type ResetRenderTargetCmd struct{}

type ApplyPipelineCmd struct {
	Pipeline *metadata.Pipeline
}

// DrawCallCmd reads Desc when the list runs, so a draw can use buffers that
// an earlier ResourcesCmd of the same list created into Desc's handle fields.
type DrawCallCmd struct {
	Desc *metadata.DrawDesc
}

// ResourcesCmd runs resource commands at its position in the draw list.
type ResourcesCmd struct {
	Commands []ResourceCommand
}

// FuncCmd lets a client issue its own calls at its position in the draw
// list, inside the frame.
type FuncCmd struct {
	Fn func(c *Context) error
}

func (cmd ClearCmd) executeDraw(c *Context) error {
	return c.Clear(&cmd.Desc)
}

func (cmd SetRenderTargetCmd) executeDraw(c *Context) error {
	return c.ApplyRenderTarget(*cmd.Target)
}

func (ResetRenderTargetCmd) executeDraw(c *Context) error {
	return c.ApplyRenderTarget(metadata.RenderTarget{})
}

func (cmd ApplyPipelineCmd) executeDraw(c *Context) error {
	return c.ApplyPipeline(*cmd.Pipeline)
}

func (cmd DrawCallCmd) executeDraw(c *Context) error {
	return c.Draw(cmd.Desc)
}

func (cmd ResourcesCmd) executeDraw(c *Context) error {
	return c.ExecuteResourceCommands(cmd.Commands)
}

func (cmd FuncCmd) executeDraw(c *Context) error {
	return cmd.Fn(c)
}

// ExecuteDrawCommands runs cmds inside a Begin/End pair sized to the
// backbuffer. Output returns to the backbuffer at the end of the list.
func (c *Context) ExecuteDrawCommands(cmds []DrawCommand, width, height int) error {
	if err := c.Begin(width, height); err != nil {
		return err
	}
	var errs []error
	for _, cmd := range cmds {
		if err := cmd.executeDraw(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.End(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

package engine

import "github.com/spaghettifunk/anima-rb/engine/renderer"

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
	// FnShaderChanged is optional. It runs between frames for every shader
	// file written under the assets directory while watching is enabled.
	FnShaderChanged ShaderChanged
}

type Initialize func(ctx *renderer.Context) error
type Update func(deltaTime float64) error

// Render returns the frame's draw commands. The engine executes them inside
// a frame sized to the window and presents the result.
type Render func(ctx *renderer.Context, deltaTime float64) ([]renderer.DrawCommand, error)
type OnResize func(width, height int) error
type Shutdown func(ctx *renderer.Context) error
type ShaderChanged func(ctx *renderer.Context, path string) error

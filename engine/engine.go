package engine

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/spaghettifunk/anima-rb/engine/assets"
	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/platform"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/backends"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool
	platform     *platform.Platform
	context      *renderer.Context
	watcher      *assets.Watcher
	width        int
	height       int
	clock        *core.Clock
	metrics      *core.FrameMetrics
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game has no application config")
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		platform:     platform.New(),
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
	}, nil
}

// Initialize opens the window for the configured backend, creates the
// render context and hands it to the game.
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.ApplicationConfig
	core.SetLogLevel(cfg.LogLevel())

	opts, err := cfg.RendererOptions()
	if err != nil {
		return err
	}
	// the window has to be created for the API that will draw into it
	opts.Backend = backends.Resolve(opts.Backend)

	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight, opts.Backend); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	e.context, err = backends.CreateContext(e.platform, opts)
	if err != nil {
		e.platform.Shutdown()
		return err
	}

	if cfg.Renderer.WatchShaders && e.gameInstance.FnShaderChanged != nil {
		dir := filepath.Join(cfg.AssetsDir, "shaders")
		w, err := assets.NewWatcher(dir, assets.IsShaderFile)
		if err != nil {
			// hot reload is a convenience, run without it
			core.LogWarn("shader watcher disabled: %s", err)
		} else {
			e.watcher = w
			core.LogInfo("watching %s for shader changes", dir)
		}
	}

	if err := e.gameInstance.FnInitialize(e.context); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		e.checkResize()
		e.reloadShaders()

		if e.isSuspended {
			e.platform.WaitMessages(0.1)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}

		cmds, err := e.gameInstance.FnRender(e.context, delta)
		if err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}
		if err := e.context.ExecuteDrawCommands(cmds, e.width, e.height); err != nil {
			// misuse is already logged by the context; keep rendering
			core.LogWarn("frame had failing draw commands: %s", err)
		}

		// an occluded window skips frame accounting
		if e.context.Present() {
			e.metrics.Update(platform.GetAbsoluteTime() - frameStartTime)
		}
		e.lastTime = currentTime
	}
	return nil
}

// Stop asks the run loop to return after the current frame. It is safe to
// call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

// Shutdown releases the game's resources, the context and the window, in
// that order. It must run on the thread that called Run.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn(err.Error())
		}
		e.watcher = nil
	}
	if e.context != nil {
		if e.gameInstance.FnShutdown != nil {
			if err := e.gameInstance.FnShutdown(e.context); err != nil {
				core.LogError(err.Error())
			}
		}
		fps, frameTime := e.metrics.Frame()
		core.LogInfo("last frame stats: %.0f fps, %.2f ms", fps, frameTime)
		e.context.Destroy()
		e.context = nil
	}
	return e.platform.Shutdown()
}

// GetFramebufferSize returns the width and height (in this order) of the
// drawable area.
func (e *Engine) GetFramebufferSize() (int, int) {
	return e.width, e.height
}

func (e *Engine) checkResize() {
	width, height := e.platform.FramebufferSize()
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
}

func (e *Engine) reloadShaders() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-e.watcher.Events():
			if !ok {
				e.watcher = nil
				return
			}
			core.LogInfo("shader changed: %s", path)
			if err := e.gameInstance.FnShaderChanged(e.context, path); err != nil {
				core.LogError("shader reload failed: %s", err)
			}
		default:
			return
		}
	}
}

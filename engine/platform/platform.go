package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-rb/engine/renderer/opengl"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window

	api           metadata.BackendAPI
	width, height int
}

func New() *Platform {
	return &Platform{}
}

// Startup creates the window. An OpenGL api gets a 3.3 core context; any
// other api gets a window without a client API.
func (p *Platform) Startup(applicationName string, x, y, width, height int, api metadata.BackendAPI) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if api == metadata.BackendAPIOpenGL {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 3)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}

	window, err := glfw.CreateWindow(width, height, applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		core.LogError("failed to create window: %s", err)
		return err
	}
	p.Window = window
	p.api = api

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(x, y)
	p.Window.Show()
	p.width, p.height = p.Window.GetFramebufferSize()

	startTime = glfw.GetTime()
	core.LogDebug("window %dx%d created for %s", p.width, p.height, api)
	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once the
// window has been asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// WaitMessages blocks until an event arrives or timeout seconds pass.
func (p *Platform) WaitMessages(timeout float64) {
	glfw.WaitEventsTimeout(timeout)
}

// FramebufferSize is the drawable size in pixels. It is 0x0 while the
// window is minimized.
func (p *Platform) FramebufferSize() (int, int) {
	return p.width, p.height
}

// GLSurface returns the window's GL context, or nil when the window was
// created without one.
func (p *Platform) GLSurface() opengl.Surface {
	if p.api != metadata.BackendAPIOpenGL || p.Window == nil {
		return nil
	}
	return &GLSurface{window: p.Window}
}

// NativeHandle is the HWND of the window on windows and 0 elsewhere.
func (p *Platform) NativeHandle() uintptr {
	if p.Window == nil {
		return 0
	}
	return nativeHandle(p.Window)
}

// GetAbsoluteTime returns seconds since the window was created.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.width, p.height = width, height
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

// GLSurface drives a glfw window's OpenGL context.
type GLSurface struct {
	window *glfw.Window
}

func (s *GLSurface) MakeCurrent() {
	s.window.MakeContextCurrent()
}

func (s *GLSurface) SwapBuffers() {
	s.window.SwapBuffers()
}

func (s *GLSurface) SwapInterval(interval int) {
	glfw.SwapInterval(interval)
}

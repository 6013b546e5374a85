// Package backends picks a native API for a window and builds a renderer
// context on it.
package backends

import (
	"fmt"
	"runtime"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/d3d11"
	"github.com/spaghettifunk/anima-rb/engine/renderer/driver"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-rb/engine/renderer/opengl"
	"github.com/spaghettifunk/anima-rb/engine/renderer/opengl/gogl"
)

// Window is what a backend needs from the platform layer.
type Window interface {
	// GLSurface is nil when the window has no GL context.
	GLSurface() opengl.Surface
	// NativeHandle is the HWND on windows and 0 elsewhere.
	NativeHandle() uintptr
}

// Resolve turns BackendAPINull into the default API of the running OS.
// The window must be created for the resolved API.
func Resolve(api metadata.BackendAPI) metadata.BackendAPI {
	if api != metadata.BackendAPINull {
		return api
	}
	if runtime.GOOS == "windows" {
		return metadata.BackendAPIDirect3D11
	}
	return metadata.BackendAPIOpenGL
}

// ParseAPI maps the configuration spelling of a backend.
func ParseAPI(name string) (metadata.BackendAPI, error) {
	switch name {
	case "", "auto":
		return metadata.BackendAPINull, nil
	case "opengl", "gl":
		return metadata.BackendAPIOpenGL, nil
	case "d3d11", "direct3d11":
		return metadata.BackendAPIDirect3D11, nil
	}
	return metadata.BackendAPINull, fmt.Errorf("unknown render backend %q: %w", name, core.ErrBackendUnavailable)
}

// CreateContext creates the backend selected by opts.Backend on w and wraps
// it in a renderer context. Nothing is left allocated on failure.
func CreateContext(w Window, opts renderer.Options) (*renderer.Context, error) {
	opts.Backend = Resolve(opts.Backend)
	backend, err := newBackend(w, opts)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return renderer.NewContext(backend, opts)
}

func newBackend(w Window, opts renderer.Options) (driver.Backend, error) {
	switch opts.Backend {
	case metadata.BackendAPIOpenGL:
		surface := w.GLSurface()
		if surface == nil {
			return nil, fmt.Errorf("OpenGL requested on a window without a GL context: %w", core.ErrBackendUnavailable)
		}
		surface.MakeCurrent()
		funcs, err := gogl.New()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
		}
		return opengl.New(funcs, surface, opts.Debug)

	case metadata.BackendAPIDirect3D11:
		hwnd := w.NativeHandle()
		if hwnd == 0 {
			return nil, fmt.Errorf("Direct3D 11 requested without a native window: %w", core.ErrBackendUnavailable)
		}
		return d3d11.NewNative(hwnd, d3d11.NativeOptions{
			Debug:               opts.Debug,
			ForceFeatureLevel91: opts.ForceFeatureLevel91,
		})
	}
	return nil, fmt.Errorf("backend %s: %w", opts.Backend, core.ErrBackendUnavailable)
}

package engine

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/backends"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX int `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY int `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth int `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight int `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Directory holding shaders and fonts, relative to the working directory.
	AssetsDir string         `toml:"assets_dir"`
	Log       LogConfig      `toml:"log"`
	Renderer  RendererConfig `toml:"renderer"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type RendererConfig struct {
	// "auto", "opengl" or "d3d11"
	Backend string `toml:"backend"`
	// Swap interval handed to every present.
	VSync               int  `toml:"vsync"`
	Debug               bool `toml:"debug"`
	ForceFeatureLevel91 bool `toml:"force_feature_level_9_1"`
	// Reload shaders when files under the assets directory change.
	WatchShaders bool `toml:"watch_shaders"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Anima Render Backend",
		AssetsDir:   "assets",
		Log:         LogConfig{Level: "info"},
		Renderer: RendererConfig{
			Backend: "auto",
			VSync:   1,
		},
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults. Keys the
// file leaves out keep their default value.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultApplicationConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.StartWidth <= 0 || cfg.StartHeight <= 0 {
		return nil, fmt.Errorf("%s: window size %dx%d must be positive", path, cfg.StartWidth, cfg.StartHeight)
	}
	if _, err := backends.ParseAPI(cfg.Renderer.Backend); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *ApplicationConfig) LogLevel() core.LogLevel {
	return core.ParseLogLevel(c.Log.Level)
}

// RendererOptions is the context configuration described by the renderer section.
func (c *ApplicationConfig) RendererOptions() (renderer.Options, error) {
	api, err := backends.ParseAPI(c.Renderer.Backend)
	if err != nil {
		return renderer.Options{}, err
	}
	return renderer.Options{
		Backend:             api,
		Debug:               c.Renderer.Debug,
		VSync:               c.Renderer.VSync,
		ForceFeatureLevel91: c.Renderer.ForceFeatureLevel91,
	}, nil
}

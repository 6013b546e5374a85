package engine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anima.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadApplicationConfig(t *testing.T) {
	path := writeConfig(t, `
name = "demo"
start_width = 640

[log]
level = "debug"

[renderer]
backend = "d3d11"
force_feature_level_9_1 = true
`)
	cfg, err := LoadApplicationConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" || cfg.StartWidth != 640 {
		t.Fatalf("window\nhave %q %d\nwant %q %d", cfg.Name, cfg.StartWidth, "demo", 640)
	}
	// keys the file leaves out keep their defaults
	if cfg.StartHeight != 720 || cfg.Renderer.VSync != 1 || cfg.AssetsDir != "assets" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if have := cfg.LogLevel(); have != core.DebugLevel {
		t.Fatalf("log level\nhave %v\nwant debug", have)
	}

	opts, err := cfg.RendererOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Backend != metadata.BackendAPIDirect3D11 || !opts.ForceFeatureLevel91 || opts.VSync != 1 {
		t.Fatalf("options\nhave %+v", opts)
	}
}

func TestLoadApplicationConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown key", "fullscreen = true\n"},
		{"bad backend", "[renderer]\nbackend = \"vulkan\"\n"},
		{"zero size", "start_width = 0\n"},
		{"syntax", "name = \n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := LoadApplicationConfig(writeConfig(t, test.text)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadApplicationConfigMissingFile(t *testing.T) {
	_, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("have %v\nwant fs.ErrNotExist", err)
	}
}

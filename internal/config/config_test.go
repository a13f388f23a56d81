package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Terrain.Mode != "water" {
		t.Errorf("expected mode water, got %s", cfg.Terrain.Mode)
	}
	if cfg.Terrain.Noise != "simplex" {
		t.Errorf("expected simplex noise, got %s", cfg.Terrain.Noise)
	}
	if cfg.Grid.Width != 25 || cfg.Grid.Height != 25 {
		t.Errorf("expected 25x25 grid, got %gx%g", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Grid.SegmentsX != 256 || cfg.Grid.SegmentsY != 256 {
		t.Errorf("expected 256x256 segments, got %dx%d", cfg.Grid.SegmentsX, cfg.Grid.SegmentsY)
	}
	if cfg.Camera.Position != [3]float64{0, -20, 10} {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOV != 45 {
		t.Errorf("expected fov 45, got %g", cfg.Camera.FOV)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Render.Format != "png" {
		t.Errorf("expected png output, got %s", cfg.Render.Format)
	}
	if cfg.Preview.WriteTimeout != 2*time.Second {
		t.Errorf("expected 2s write timeout, got %v", cfg.Preview.WriteTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "horizon.yaml")

	yamlContent := `
terrain:
  mode: mountain
  noise: perlin
  seed: 99

grid:
  width: 40
  segments_x: 64
  segments_y: 32

camera:
  position: [5, -30, 15]
  fov: 60

render:
  width: 640
  height: 360
  format: bmp

preview:
  addr: "0.0.0.0:9000"
  fps: 30
  write_timeout: 500ms

logging:
  level: "debug"
  log_file: "horizon.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.Mode != "mountain" || cfg.Terrain.Noise != "perlin" || cfg.Terrain.Seed != 99 {
		t.Errorf("unexpected terrain config %+v", cfg.Terrain)
	}
	if cfg.Grid.Width != 40 {
		t.Errorf("expected width 40, got %g", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 25 {
		t.Errorf("expected untouched height 25, got %g", cfg.Grid.Height)
	}
	if cfg.Grid.SegmentsX != 64 || cfg.Grid.SegmentsY != 32 {
		t.Errorf("expected 64x32 segments, got %dx%d", cfg.Grid.SegmentsX, cfg.Grid.SegmentsY)
	}
	if cfg.Camera.Position != [3]float64{5, -30, 15} {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Render.Format != "bmp" {
		t.Errorf("expected bmp, got %s", cfg.Render.Format)
	}
	if cfg.Preview.FPS != 30 || cfg.Preview.WriteTimeout != 500*time.Millisecond {
		t.Errorf("unexpected preview config %+v", cfg.Preview)
	}
	if cfg.Logging.LogFile != "horizon.log" {
		t.Errorf("expected log file 'horizon.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
grid:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/horizon.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\") failed: %v", err)
	}
	if cfg.Terrain.Mode != "water" {
		t.Errorf("expected defaults, got mode %s", cfg.Terrain.Mode)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("terrain:\n  mode: lava\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFile(bad); err == nil || !strings.Contains(err.Error(), "terrain.mode") {
		t.Errorf("expected terrain.mode validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown mode", func(c *Config) { c.Terrain.Mode = "lava" }, "terrain.mode"},
		{"unknown noise", func(c *Config) { c.Terrain.Noise = "worley" }, "terrain.noise"},
		{"zero extent", func(c *Config) { c.Grid.Width = 0 }, "grid: extent"},
		{"zero segments", func(c *Config) { c.Grid.SegmentsY = 0 }, "grid: segments"},
		{"bad fov", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"camera on target", func(c *Config) { c.Camera.Position = c.Camera.Target }, "coincide"},
		{"empty render", func(c *Config) { c.Render.Height = 0 }, "render: size"},
		{"bad format", func(c *Config) { c.Render.Format = "gif" }, "render.format"},
		{"zero fps", func(c *Config) { c.Preview.FPS = 0 }, "preview.fps"},
		{"zero preview segments", func(c *Config) { c.Preview.Segments = 0 }, "preview.segments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %q", err, tt.field)
			}
		})
	}

	cfg := Default()
	cfg.Terrain.Mode = " Mountain "
	if err := cfg.Validate(); err != nil {
		t.Errorf("mode names should be case and space insensitive: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := FindConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "horizon.yaml"), []byte("grid:\n  width: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := FindConfigFile(); path == "" {
		t.Error("expected to find horizon.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mode and noise flags",
			setup: func() { *flagMode = "mountain"; *flagNoise = "perlin" },
			verify: func(cfg *Config) {
				if cfg.Terrain.Mode != "mountain" || cfg.Terrain.Noise != "perlin" {
					t.Errorf("unexpected terrain config %+v", cfg.Terrain)
				}
			},
			teardown: func() { *flagMode = ""; *flagNoise = "" },
		},
		{
			name:  "seed flag",
			setup: func() { *flagSeed = 7 },
			verify: func(cfg *Config) {
				if cfg.Terrain.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Terrain.Seed)
				}
			},
			teardown: func() { *flagSeed = 0 },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
		},
		{
			name:  "addr flag",
			setup: func() { *flagAddr = ":9999" },
			verify: func(cfg *Config) {
				if cfg.Preview.Addr != ":9999" {
					t.Errorf("expected addr :9999, got %s", cfg.Preview.Addr)
				}
			},
			teardown: func() { *flagAddr = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "horizon.yaml")

	cfg := Default()
	cfg.Terrain.Mode = "mountain"
	cfg.Preview.FPS = 24
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Terrain.Mode != "mountain" || loaded.Preview.FPS != 24 {
		t.Errorf("saved config did not round-trip: %+v", loaded)
	}
}

func TestLoadFileWithOverrideRepairsFile(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("terrain:\n  mode: lava\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFileWith(bad, func(c *Config) { c.Terrain.Mode = "mountain" })
	if err != nil {
		t.Fatalf("override should fix the file value, got %v", err)
	}
	if cfg.Terrain.Mode != "mountain" {
		t.Errorf("expected mode mountain, got %s", cfg.Terrain.Mode)
	}

	if _, err := LoadFileWith(bad, func(c *Config) { c.Preview.FPS = 0 }); err == nil {
		t.Error("expected validation to run after overrides")
	}
}

func TestSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))

	cfg := Default()
	cfg.Terrain.Seed = 42
	path, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != DefaultPath() {
		t.Errorf("saved to %s, want %s", path, DefaultPath())
	}
	if !strings.HasPrefix(path, home) {
		t.Errorf("saved outside the config dir: %s", path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Terrain.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Terrain.Seed)
	}
}

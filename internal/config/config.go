// Package config handles viewer and tool configuration loading and management.
package config

import "time"

// Config holds all settings.
type Config struct {
	Terrain  TerrainConfig  `yaml:"terrain"`
	Grid     GridConfig     `yaml:"grid"`
	Camera   CameraConfig   `yaml:"camera"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Preview  PreviewConfig  `yaml:"preview"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TerrainConfig selects the terrain preset and its noise source.
type TerrainConfig struct {
	Mode  string `yaml:"mode"`  // water | mountain | ripple
	Noise string `yaml:"noise"` // simplex | perlin
	Seed  int64  `yaml:"seed"`
}

// GridConfig describes the plane the terrain is evaluated on.
type GridConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	SegmentsX int     `yaml:"segments_x"`
	SegmentsY int     `yaml:"segments_y"`
}

// CameraConfig holds the initial orbit camera, in terrain-local space (Z up).
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	FOV      float64    `yaml:"fov"` // vertical, degrees
}

// GraphicsConfig holds interactive viewer window settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RenderConfig holds offline software rendering settings.
type RenderConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Workers   int    `yaml:"workers"` // 0 = one per CPU
	Format    string `yaml:"format"`  // png | bmp
	OutputDir string `yaml:"output_dir"`
}

// PreviewConfig holds the websocket preview server settings.
type PreviewConfig struct {
	Addr         string        `yaml:"addr"`
	FPS          int           `yaml:"fps"`
	Segments     int           `yaml:"segments"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Mode:  "water",
			Noise: "simplex",
			Seed:  1,
		},
		Grid: GridConfig{
			Width:     25,
			Height:    25,
			SegmentsX: 256,
			SegmentsY: 256,
		},
		Camera: CameraConfig{
			Position: [3]float64{0, -20, 10},
			Target:   [3]float64{0, 0, 0},
			FOV:      45,
		},
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			Width:     1280,
			Height:    720,
			Format:    "png",
			OutputDir: "renders",
		},
		Preview: PreviewConfig{
			Addr:         "127.0.0.1:8080",
			FPS:          15,
			Segments:     96,
			WriteTimeout: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

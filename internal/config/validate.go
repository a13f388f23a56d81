package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/procedural-horizon/internal/terrain"
	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

// Validate reports every setting that would keep the terrain core from
// starting. It runs before any evaluation happens.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(terrain.ModeNames(), terrain.ParseModeName(c.Terrain.Mode)) {
		errs = append(errs, fmt.Errorf("terrain.mode: %q is not one of %v", c.Terrain.Mode, terrain.ModeNames()))
	}
	if !slices.Contains(noise.Kinds(), c.Terrain.Noise) {
		errs = append(errs, fmt.Errorf("terrain.noise: %q is not one of %v", c.Terrain.Noise, noise.Kinds()))
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid: extent must be positive, got %gx%g", c.Grid.Width, c.Grid.Height))
	}
	if c.Grid.SegmentsX < 1 || c.Grid.SegmentsY < 1 {
		errs = append(errs, fmt.Errorf("grid: segments must be at least 1, got %dx%d", c.Grid.SegmentsX, c.Grid.SegmentsY))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov: %g out of (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Position == c.Camera.Target {
		errs = append(errs, errors.New("camera: position and target coincide"))
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		errs = append(errs, fmt.Errorf("render: size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Format != "png" && c.Render.Format != "bmp" {
		errs = append(errs, fmt.Errorf("render.format: %q is not png or bmp", c.Render.Format))
	}
	if c.Preview.FPS < 1 {
		errs = append(errs, fmt.Errorf("preview.fps: must be at least 1, got %d", c.Preview.FPS))
	}
	if c.Preview.Segments < 1 {
		errs = append(errs, fmt.Errorf("preview.segments: must be at least 1, got %d", c.Preview.Segments))
	}

	return errors.Join(errs...)
}

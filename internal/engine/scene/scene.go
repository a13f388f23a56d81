// Package scene assembles everything a frame needs from configuration: the
// noise source, the grid, the terrain modes and the camera. The interactive
// viewer, the offline renderer and the preview server all start from a Scene.
package scene

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/config"
	"github.com/Faultbox/procedural-horizon/internal/engine/camera"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

// Scene holds the shared terrain inputs. Modes are built lazily and cached;
// Mode is safe for concurrent use.
type Scene struct {
	Source noise.Source
	Grid   *terrain.Grid

	config *config.Config

	mu    sync.Mutex
	modes map[string]*terrain.Mode
}

// New builds a scene from cfg.
func New(cfg *config.Config) (*Scene, error) {
	src, err := noise.New(cfg.Terrain.Noise, cfg.Terrain.Seed)
	if err != nil {
		return nil, fmt.Errorf("noise source: %w", err)
	}
	grid, err := terrain.NewGrid(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.SegmentsX, cfg.Grid.SegmentsY)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	s := &Scene{
		Source: src,
		Grid:   grid,
		config: cfg,
		modes:  make(map[string]*terrain.Mode),
	}
	if _, err := s.Mode(cfg.Terrain.Mode); err != nil {
		return nil, err
	}
	return s, nil
}

// Mode returns the named preset over the scene's noise source.
func (s *Scene) Mode(name string) (*terrain.Mode, error) {
	key := terrain.ParseModeName(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.modes[key]; ok {
		return m, nil
	}
	m, err := terrain.NewMode(key, s.Source)
	if err != nil {
		return nil, err
	}
	s.modes[key] = m
	return m, nil
}

// InitialMode returns the configured starting mode.
func (s *Scene) InitialMode() *terrain.Mode {
	m, _ := s.Mode(s.config.Terrain.Mode)
	return m
}

// GridWithSegments returns a grid over the same extent at another resolution.
func (s *Scene) GridWithSegments(segX, segY int) (*terrain.Grid, error) {
	return terrain.NewGrid(s.Grid.Width(), s.Grid.Height(), segX, segY)
}

// NewCamera returns an orbit camera placed as configured.
func (s *Scene) NewCamera() *camera.OrbitCamera {
	return NewCamera(s.config.Camera)
}

// NewCamera builds an orbit camera from its configuration.
func NewCamera(cfg config.CameraConfig) *camera.OrbitCamera {
	c := camera.NewOrbitCamera()
	c.Target = mgl64.Vec3(cfg.Target)
	c.SetPosition(mgl64.Vec3(cfg.Position))
	if cfg.FOV > 0 {
		c.FOV = cfg.FOV
	}
	c.MaxDistance = max(c.MaxDistance, c.Distance)
	return c
}

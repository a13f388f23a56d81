// Package viewer is the interactive terrain window: an SDL2/OpenGL loop that
// advances the animation clock, bakes the grid on the CPU and draws it.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/procedural-horizon/internal/animation"
	"github.com/Faultbox/procedural-horizon/internal/bake"
	"github.com/Faultbox/procedural-horizon/internal/config"
	"github.com/Faultbox/procedural-horizon/internal/engine/camera"
	"github.com/Faultbox/procedural-horizon/internal/engine/capture"
	"github.com/Faultbox/procedural-horizon/internal/engine/input"
	"github.com/Faultbox/procedural-horizon/internal/engine/scene"
	"github.com/Faultbox/procedural-horizon/internal/engine/window"
	"github.com/Faultbox/procedural-horizon/internal/logger"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

const title = "Procedural Horizon"

// Background clear color (#050505).
var clearColor = [3]float32{5.0 / 255, 5.0 / 255, 5.0 / 255}

var modeKeys = map[sdl.Scancode]string{
	sdl.SCANCODE_1: terrain.ModeWater,
	sdl.SCANCODE_2: terrain.ModeMountain,
	sdl.SCANCODE_3: terrain.ModeRipple,
}

// Viewer owns the window and everything drawn into it.
type Viewer struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	input    *input.Input
	renderer *TerrainRenderer

	scene   *scene.Scene
	camera  *camera.OrbitCamera
	driver  *animation.Driver
	baker   *bake.Baker
	capture *capture.Capture

	last        animation.Uniforms
	baked       bool
	pendingShot bool
}

// New creates the window and GL resources. Errors here are reported before
// any terrain evaluation happens.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}

	var err error
	v.scene, err = scene.New(cfg)
	if err != nil {
		return nil, err
	}

	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// after the window, since the GL context must exist
	v.renderer, err = NewTerrainRenderer()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.SetIndices(v.scene.Grid.Indices())

	v.input = input.New()
	v.camera = v.scene.NewCamera()
	v.driver = animation.NewDriver(v.scene.InitialMode(), v.camera.Position())
	v.baker = bake.New(cfg.Render.Workers)
	v.capture = capture.New(cfg.Render.OutputDir, "horizon", cfg.Render.Format)

	v.log.Info("viewer initialized",
		zap.String("mode", v.driver.Mode().Name),
		zap.Int("vertices", v.scene.Grid.VertexCount()),
	)
	return v, nil
}

// Run drives the frame loop until the window closes or Esc is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	v.log.Info("starting frame loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if v.input.Update() {
			v.running = false
			break
		}
		if err := v.handleEvents(); err != nil {
			return err
		}
		v.handleHeldKeys()

		uniforms := v.driver.Tick(dt, v.camera.Position())
		if err := v.update(uniforms); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		v.render()
		if v.pendingShot {
			v.pendingShot = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s - %s - %d fps", title, v.driver.Mode().Name, frameCount))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("time", uniforms.Time),
				zap.Stringer("state", v.driver.State()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() error {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F12:
				v.pendingShot = true
			case sdl.SCANCODE_R:
				v.camera = v.scene.NewCamera()
			default:
				if name, ok := modeKeys[event.Key]; ok {
					if err := v.setMode(name); err != nil {
						return err
					}
				}
			}
		case input.EventMouseMove:
			if v.input.IsButtonHeld(sdl.BUTTON_LEFT) {
				v.camera.HandleDrag(float64(event.DeltaX), float64(event.DeltaY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.WheelY)
		}
	}
	return nil
}

func (v *Viewer) handleHeldKeys() {
	var forward, right float64
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if forward != 0 || right != 0 {
		v.camera.HandleMovement(forward, right)
	}
}

func (v *Viewer) setMode(name string) error {
	mode, err := v.scene.Mode(name)
	if err != nil {
		return err
	}
	if mode == v.driver.Mode() {
		return nil
	}
	v.driver.SetMode(mode)
	v.log.Info("mode switched",
		zap.String("mode", mode.Name),
		zap.Stringer("state", v.driver.State()),
	)
	return nil
}

// update re-bakes the grid when anything the frame reads has changed.
func (v *Viewer) update(u animation.Uniforms) error {
	if v.baked && u.Time == v.last.Time && u.Mode == v.last.Mode && sameCamera(u.Camera, v.last.Camera) {
		return nil
	}
	mesh, err := v.baker.Bake(context.Background(), v.scene.Grid, u.Mode, u.Time, u.Camera)
	if err != nil {
		return err
	}
	v.renderer.Upload(mesh)
	v.last = u
	v.baked = true
	return nil
}

func sameCamera(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}

func (v *Viewer) render() {
	w, h := v.window.DrawableSize()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// the surface is visible from below as well
	gl.Disable(gl.CULL_FACE)

	v.renderer.Render(v.camera.ViewProjection(v.window.Aspect()))
}

// screenshot reads the back buffer, so it must run before the swap.
func (v *Viewer) screenshot() {
	w, h := v.window.DrawableSize()
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := v.capture.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases every resource in reverse creation order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.baker != nil {
		v.baker.Close()
	}
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}

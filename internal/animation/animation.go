// Package animation owns the terrain clock: the only mutable state the
// height field and shaders read, advanced once per frame before drawing.
package animation

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

// Speed scales frame deltas into clock time while running.
const Speed = 0.5

// Clock is a monotonically non-decreasing time value.
type Clock struct {
	t float64
}

// Advance moves the clock forward by dt. Non-positive deltas are ignored.
func (c *Clock) Advance(dt float64) {
	if dt > 0 {
		c.t += dt
	}
}

// Time returns the current clock value.
func (c *Clock) Time() float64 {
	return c.t
}

// State is the driver state.
type State int

const (
	// Idle freezes the clock (static terrain).
	Idle State = iota
	// Running advances the clock every frame.
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Uniforms are the per-frame values shared by every vertex and fragment
// evaluation of one frame.
type Uniforms struct {
	Frame  uint64
	Time   float64
	Camera mgl64.Vec3
	Mode   *terrain.Mode
}

// Driver advances the clock for animated modes and publishes uniforms.
// It is driven from the single render loop goroutine and is not safe for
// concurrent use.
type Driver struct {
	clock  Clock
	state  State
	mode   *terrain.Mode
	camera mgl64.Vec3
	frame  uint64
}

// NewDriver creates a driver for the initial mode.
func NewDriver(mode *terrain.Mode, camera mgl64.Vec3) *Driver {
	d := &Driver{camera: camera}
	d.SetMode(mode)
	return d
}

// SetMode swaps the active mode. The state follows the mode's Animated
// flag; the clock and camera are left alone.
func (d *Driver) SetMode(mode *terrain.Mode) {
	d.mode = mode
	if mode != nil && mode.Animated {
		d.state = Running
	} else {
		d.state = Idle
	}
}

// Mode returns the active mode.
func (d *Driver) Mode() *terrain.Mode { return d.mode }

// State returns the current state.
func (d *Driver) State() State { return d.state }

// Time returns the current clock value.
func (d *Driver) Time() float64 { return d.clock.Time() }

// Tick advances one frame. While running, the clock moves by delta*Speed.
// The camera is refreshed in every state. Call it before the frame is
// evaluated so the frame sees the new values.
func (d *Driver) Tick(delta float64, camera mgl64.Vec3) Uniforms {
	if d.state == Running {
		d.clock.Advance(delta * Speed)
	}
	d.camera = camera
	d.frame++
	return d.Uniforms()
}

// Uniforms returns the values of the most recent frame.
func (d *Driver) Uniforms() Uniforms {
	return Uniforms{
		Frame:  d.frame,
		Time:   d.clock.Time(),
		Camera: d.camera,
		Mode:   d.mode,
	}
}

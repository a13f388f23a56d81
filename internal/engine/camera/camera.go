// Package camera provides the orbit camera used to view the terrain.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitCamera orbits a target point in terrain-local space (Z up).
type OrbitCamera struct {
	Target mgl64.Vec3

	// Spherical coordinates around Target
	Distance float64
	Pitch    float64 // elevation above the XY plane, radians
	Yaw      float64 // rotation around Z, radians; 0 looks along +Y

	// Projection
	FOV  float64 // vertical, degrees
	Near float64
	Far  float64

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrbitCamera creates an orbit camera at (0, -20, 10) looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		FOV:             45,
		Near:            0.1,
		Far:             1000,
		MinDistance:     2,
		MaxDistance:     200,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.SetPosition(mgl64.Vec3{0, -20, 10})
	return c
}

// Position returns the camera position.
func (c *OrbitCamera) Position() mgl64.Vec3 {
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	sy, cy := math.Sin(c.Yaw), math.Cos(c.Yaw)
	offset := mgl64.Vec3{cp * sy, -cp * cy, sp}.Mul(c.Distance)
	return c.Target.Add(offset)
}

// SetPosition places the camera at pos, keeping the current target.
func (c *OrbitCamera) SetPosition(pos mgl64.Vec3) {
	d := pos.Sub(c.Target)
	c.Distance = d.Len()
	if c.Distance == 0 {
		return
	}
	c.Pitch = math.Asin(d[2] / c.Distance)
	c.Yaw = math.Atan2(d[0], -d[1])
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), c.Target, mgl64.Vec3{0, 0, 1})
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float64) mgl64.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the target across the terrain plane.
func (c *OrbitCamera) HandleMovement(forward, right float64) {
	speed := c.Distance * 0.01
	fwd := mgl64.Vec3{-math.Sin(c.Yaw), math.Cos(c.Yaw), 0}
	side := mgl64.Vec3{math.Cos(c.Yaw), math.Sin(c.Yaw), 0}
	c.Target = c.Target.Add(fwd.Mul(forward * speed)).Add(side.Mul(right * speed))
}

// FitToBounds centers the camera on a bounding box and backs off far
// enough to see all of it.
func (c *OrbitCamera) FitToBounds(lo, hi [3]float64) {
	c.Target = mgl64.Vec3{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2}
	size := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	c.Distance = clamp(size*0.9, c.MinDistance, c.MaxDistance)
	c.Pitch = 0.46 // about the default 2:1 look-down
	c.Yaw = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

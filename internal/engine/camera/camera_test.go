package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefaultPosition(t *testing.T) {
	c := NewOrbitCamera()
	if got := c.Position(); !got.ApproxEqualThreshold(mgl64.Vec3{0, -20, 10}, 1e-9) {
		t.Errorf("Position = %v, want (0, -20, 10)", got)
	}
}

func TestSetPositionRoundTrip(t *testing.T) {
	tests := []mgl64.Vec3{
		{5, 5, 5},
		{-10, 3, 2},
		{0, 30, 1},
	}
	c := NewOrbitCamera()
	for _, pos := range tests {
		c.SetPosition(pos)
		if got := c.Position(); got.Sub(pos).Len() > 1e-9 {
			t.Errorf("SetPosition(%v) then Position = %v", pos, got)
		}
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewOrbitCamera()
	target := c.ViewMatrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	// target sits on the view axis, in front of the camera (-Z in view space)
	if math.Abs(target[0]) > 1e-9 || math.Abs(target[1]) > 1e-9 {
		t.Errorf("target off axis in view space: %v", target)
	}
	if target[2] >= 0 {
		t.Errorf("target behind camera: %v", target)
	}
}

func TestProjectedTargetAtScreenCenter(t *testing.T) {
	c := NewOrbitCamera()
	clip := c.ViewProjection(16.0 / 9).Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if clip[3] <= 0 {
		t.Fatalf("w = %v, want positive", clip[3])
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if math.Abs(ndc[0]) > 1e-9 || math.Abs(ndc[1]) > 1e-9 || ndc[2] < -1 || ndc[2] > 1 {
		t.Errorf("target NDC = %v", ndc)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MinPitch)
	}

	yaw := c.Yaw
	c.HandleDrag(100, 0)
	if c.Yaw >= yaw {
		t.Error("dragging right should decrease yaw")
	}
}

func TestHandleZoom(t *testing.T) {
	c := NewOrbitCamera()
	d := c.Distance
	c.HandleZoom(1)
	if c.Distance >= d {
		t.Errorf("zoom in did not reduce distance: %v -> %v", d, c.Distance)
	}
	c.HandleZoom(1e6)
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MinDistance)
	}
	c.HandleZoom(-1e6)
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MaxDistance)
	}
}

func TestHandleMovementStaysOnPlane(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleMovement(1, 0)
	if c.Target[2] != 0 {
		t.Errorf("target left the plane: %v", c.Target)
	}
	// forward moves toward where the camera looks (+Y at yaw 0)
	if c.Target[1] <= 0 {
		t.Errorf("forward moved target to %v", c.Target)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds([3]float64{-12.5, -12.5, -2}, [3]float64{12.5, 12.5, 4})
	if !c.Target.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Target = %v", c.Target)
	}
	if c.Distance <= 0 {
		t.Errorf("Distance = %v", c.Distance)
	}
}

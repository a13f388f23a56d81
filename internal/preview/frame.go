package preview

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/animation"
	"github.com/Faultbox/procedural-horizon/internal/shading"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

// Frame is one baked grid as sent to browsers.
type Frame struct {
	Type     string     `json:"type"`
	Mode     string     `json:"mode"`
	Frame    uint64     `json:"frame"`
	Time     float64    `json:"time"`
	State    string     `json:"state"`
	Segments [2]int     `json:"segments"`
	Extent   [2]float64 `json:"extent"`
	Heights  []float32  `json:"heights"`
	// Colors holds one RGB triple per vertex; JSON carries it as base64.
	Colors []uint8 `json:"colors"`
}

// Message is a control message from a browser. Either field may be set.
type Message struct {
	Mode   string      `json:"mode,omitempty"`
	Camera *[3]float64 `json:"camera,omitempty"`
}

// Error is sent back when a Message cannot be applied.
type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newFrame(g *terrain.Grid, mesh *terrain.Mesh, u animation.Uniforms, state animation.State) Frame {
	segX, segY := g.Segments()
	f := Frame{
		Type:     "frame",
		Mode:     mesh.Mode,
		Frame:    u.Frame,
		Time:     u.Time,
		State:    state.String(),
		Segments: [2]int{segX, segY},
		Extent:   [2]float64{g.Width(), g.Height()},
		Heights:  make([]float32, len(mesh.Vertices)),
		Colors:   make([]uint8, 0, 3*len(mesh.Vertices)),
	}
	for i, v := range mesh.Vertices {
		f.Heights[i] = float32(v.Elevation)
		c := shading.ToRGBA(mgl64.Vec3(v.Color))
		f.Colors = append(f.Colors, c.R, c.G, c.B)
	}
	return f
}

package viewer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/engine/shader"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

// floats per GPU vertex: position then color
const vertexFloats = 6

// TerrainRenderer draws baked meshes. The index buffer is uploaded once per
// grid; vertex data is streamed every frame.
type TerrainRenderer struct {
	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	staging []float32
}

// NewTerrainRenderer compiles the terrain program and allocates buffers.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	program, err := shader.NewTerrainProgram()
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	tr := &TerrainRenderer{program: program}

	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)

	stride := int32(vertexFloats * 4)
	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Color (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)

	gl.BindVertexArray(0)
	return tr, nil
}

// SetIndices uploads the triangle list shared by every frame of a grid.
func (tr *TerrainRenderer) SetIndices(indices []uint32) {
	tr.indexCount = int32(len(indices))
	if len(indices) == 0 {
		return
	}
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
}

// Upload streams the mesh's positions and per-vertex colors.
func (tr *TerrainRenderer) Upload(mesh *terrain.Mesh) {
	if len(mesh.Vertices) == 0 {
		return
	}
	tr.staging = tr.staging[:0]
	for _, v := range mesh.Vertices {
		tr.staging = append(tr.staging,
			float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2]),
			float32(v.Color[0]), float32(v.Color[1]), float32(v.Color[2]),
		)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(tr.staging)*4, unsafe.Pointer(&tr.staging[0]), gl.STREAM_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Render draws the last uploaded mesh.
func (tr *TerrainRenderer) Render(viewProj mgl64.Mat4) {
	if tr.indexCount == 0 {
		return
	}
	tr.program.Use()
	tr.program.SetMat4("uMVP", toMat32(viewProj))

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases GPU resources.
func (tr *TerrainRenderer) Destroy() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	if tr.program != nil {
		tr.program.Delete()
	}
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
